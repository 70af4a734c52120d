package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"docassist/internal/model"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(doc *model.Document) error {
	if err := r.db.Create(doc).Error; err != nil {
		return fmt.Errorf("create document failed: %w", err)
	}
	return nil
}

func (r *DocumentRepository) ListAll() ([]model.Document, error) {
	var docs []model.Document
	if err := r.db.Order("uploaded_at DESC").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("list documents failed: %w", err)
	}
	return docs, nil
}

func (r *DocumentRepository) GetByID(id string) (*model.Document, error) {
	var doc model.Document
	if err := r.db.Where("id = ?", id).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document failed: %w", err)
	}
	return &doc, nil
}

// UpdateStatus mirrors a status reported by the processing service. Terminal
// states are frozen: the update only applies while the stored status is still
// "processing", so a late or duplicate poll result can never move a document
// backward.
func (r *DocumentRepository) UpdateStatus(id, status string) error {
	res := r.db.Model(&model.Document{}).
		Where("id = ? AND status = ?", id, model.StatusProcessing).
		Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("update document status failed: %w", res.Error)
	}
	return nil
}

func (r *DocumentRepository) Delete(id string) error {
	if err := r.db.Where("id = ?", id).Delete(&model.Document{}).Error; err != nil {
		return fmt.Errorf("delete document failed: %w", err)
	}
	return nil
}
