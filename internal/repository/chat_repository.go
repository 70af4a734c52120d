package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"docassist/internal/model"
)

type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// ListByDocumentID returns all sessions owned by a document, most recently
// updated first, with messages preloaded in append order.
func (r *ChatRepository) ListByDocumentID(documentID string) ([]model.ChatSession, error) {
	var sessions []model.ChatSession
	err := r.db.
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("timestamp ASC")
		}).
		Where("document_id = ?", documentID).
		Order("updated_at DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("list chat sessions failed: %w", err)
	}
	return sessions, nil
}

func (r *ChatRepository) GetByID(documentID, sessionID string) (*model.ChatSession, error) {
	var session model.ChatSession
	err := r.db.
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("timestamp ASC")
		}).
		Where("id = ? AND document_id = ?", sessionID, documentID).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get chat session failed: %w", err)
	}
	return &session, nil
}

func (r *ChatRepository) Create(session *model.ChatSession) error {
	if err := r.db.Create(session).Error; err != nil {
		return fmt.Errorf("create chat session failed: %w", err)
	}
	return nil
}

// Save upserts the full session record including its message rows. The write
// is last-write-wins: there is no version check, so concurrent saves of the
// same session race at the store level.
func (r *ChatRepository) Save(session *model.ChatSession) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.ChatSession{}).
			Where("id = ?", session.ID).
			Updates(map[string]interface{}{
				"title":      session.Title,
				"updated_at": session.UpdatedAt,
			}).Error; err != nil {
			return err
		}
		for i := range session.Messages {
			msg := &session.Messages[i]
			msg.SessionID = session.ID
			if err := tx.Save(msg).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save chat session failed: %w", err)
	}
	return nil
}

func (r *ChatRepository) Delete(documentID, sessionID string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", sessionID).Delete(&model.ChatMessage{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ? AND document_id = ?", sessionID, documentID).
			Delete(&model.ChatSession{}).Error
	})
	if err != nil {
		return fmt.Errorf("delete chat session failed: %w", err)
	}
	return nil
}

// DeleteByDocumentID removes every session and message for a document.
// Used when the owning document is deleted.
func (r *ChatRepository) DeleteByDocumentID(documentID string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var ids []string
		if err := tx.Model(&model.ChatSession{}).
			Where("document_id = ?", documentID).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) > 0 {
			if err := tx.Where("session_id IN ?", ids).Delete(&model.ChatMessage{}).Error; err != nil {
				return err
			}
		}
		return tx.Where("document_id = ?", documentID).Delete(&model.ChatSession{}).Error
	})
	if err != nil {
		return fmt.Errorf("delete chat sessions by document failed: %w", err)
	}
	return nil
}
