package model

import "time"

type Summary struct {
	ID         string    `gorm:"primaryKey;size:64" json:"id"`
	DocumentID string    `gorm:"size:64;not null;index" json:"document_id"`
	Title      string    `gorm:"size:256" json:"title"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}
