package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"docassist/internal/model"
)

type SummaryRepository struct {
	db *gorm.DB
}

func NewSummaryRepository(db *gorm.DB) *SummaryRepository {
	return &SummaryRepository{db: db}
}

func (r *SummaryRepository) Create(summary *model.Summary) error {
	if err := r.db.Create(summary).Error; err != nil {
		return fmt.Errorf("create summary failed: %w", err)
	}
	return nil
}

func (r *SummaryRepository) ListByDocumentID(documentID string) ([]model.Summary, error) {
	var summaries []model.Summary
	if err := r.db.Where("document_id = ?", documentID).Order("created_at DESC").Find(&summaries).Error; err != nil {
		return nil, fmt.Errorf("list summaries failed: %w", err)
	}
	return summaries, nil
}

func (r *SummaryRepository) GetByID(id string) (*model.Summary, error) {
	var summary model.Summary
	if err := r.db.Where("id = ?", id).First(&summary).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get summary failed: %w", err)
	}
	return &summary, nil
}

func (r *SummaryRepository) Delete(id string) error {
	if err := r.db.Where("id = ?", id).Delete(&model.Summary{}).Error; err != nil {
		return fmt.Errorf("delete summary failed: %w", err)
	}
	return nil
}

func (r *SummaryRepository) DeleteByDocumentID(documentID string) error {
	if err := r.db.Where("document_id = ?", documentID).Delete(&model.Summary{}).Error; err != nil {
		return fmt.Errorf("delete summaries by document failed: %w", err)
	}
	return nil
}
