package repository

import (
	"fmt"

	"gorm.io/gorm"

	"docassist/internal/model"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(event *model.DocumentEvent) error {
	if err := r.db.Create(event).Error; err != nil {
		return fmt.Errorf("create document event failed: %w", err)
	}
	return nil
}

func (r *EventRepository) ListByDocumentID(documentID string, limit int) ([]model.DocumentEvent, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var events []model.DocumentEvent
	if err := r.db.Where("document_id = ?", documentID).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list document events failed: %w", err)
	}
	return events, nil
}
