package model

import "time"

const (
	EventStatusChanged   = "status_changed"
	EventStoreWriteError = "store_write_error"
)

// DocumentEvent is an audit record for the diagnostic event channel:
// status transitions and best-effort store writes that failed.
type DocumentEvent struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	DocumentID string    `gorm:"size:64;not null;index" json:"document_id"`
	Kind       string    `gorm:"size:32;not null" json:"kind"`
	Detail     string    `gorm:"type:text" json:"detail"`
	CreatedAt  time.Time `json:"created_at"`
}
