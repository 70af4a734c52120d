package model

import "time"

type ChatSession struct {
	ID         string        `gorm:"primaryKey;size:64" json:"id"`
	DocumentID string        `gorm:"size:64;not null;index" json:"document_id"`
	Title      string        `gorm:"size:256;not null" json:"title"`
	Messages   []ChatMessage `gorm:"foreignKey:SessionID;references:ID" json:"messages"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// Messages are append-only: ordering within a session is the order of
// insertion, and the only removal is deleting the whole session.
type ChatMessage struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	SessionID string    `gorm:"size:64;not null;index" json:"session_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	IsUser    bool      `gorm:"not null" json:"is_user"`
	Timestamp time.Time `json:"timestamp"`
}
