package model

import "time"

const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// IsTerminalStatus reports whether a document status admits no further transition.
func IsTerminalStatus(status string) bool {
	return status == StatusCompleted || status == StatusFailed
}

type Document struct {
	ID         string    `gorm:"primaryKey;size:64" json:"id"`
	Name       string    `gorm:"size:256;not null" json:"name"`
	Namespace  string    `gorm:"size:256;not null;index" json:"namespace"`
	Status     string    `gorm:"size:16;not null" json:"status"`
	UploadedAt time.Time `json:"uploaded_at"`
}
