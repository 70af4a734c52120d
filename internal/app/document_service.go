package app

import (
	"context"

	"go.uber.org/zap"

	"docassist/internal/model"
	"docassist/internal/repository"
)

type DocumentService struct {
	documents *repository.DocumentRepository
	chats     *repository.ChatRepository
	summaries *repository.SummaryRepository
	events    *repository.EventRepository
	listCache SessionListCache
	log       *zap.Logger
}

func NewDocumentService(
	documents *repository.DocumentRepository,
	chats *repository.ChatRepository,
	summaries *repository.SummaryRepository,
	events *repository.EventRepository,
	listCache SessionListCache,
	log *zap.Logger,
) *DocumentService {
	if log == nil {
		log = zap.NewNop()
	}
	return &DocumentService{
		documents: documents,
		chats:     chats,
		summaries: summaries,
		events:    events,
		listCache: listCache,
		log:       log,
	}
}

// Events returns the audit trail for a document: status transitions and
// best-effort store writes that failed, newest first.
func (s *DocumentService) Events(ctx context.Context, id string, limit int) ([]model.DocumentEvent, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	return s.events.ListByDocumentID(id, limit)
}

func (s *DocumentService) List(ctx context.Context) ([]model.Document, error) {
	return s.documents.ListAll()
}

func (s *DocumentService) Get(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	doc, err := s.documents.GetByID(id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrDocumentNotFound
	}
	return doc, nil
}

// Delete removes the document together with everything it owns: its chat
// sessions, their messages and its summaries.
func (s *DocumentService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidInput
	}
	doc, err := s.documents.GetByID(id)
	if err != nil {
		return err
	}
	if doc == nil {
		return ErrDocumentNotFound
	}

	if err := s.chats.DeleteByDocumentID(id); err != nil {
		return err
	}
	if err := s.summaries.DeleteByDocumentID(id); err != nil {
		return err
	}
	if err := s.documents.Delete(id); err != nil {
		return err
	}

	if s.listCache != nil {
		if cacheErr := s.listCache.Invalidate(ctx, id); cacheErr != nil {
			s.log.Warn("invalidate chat list cache failed",
				zap.String("document_id", id),
				zap.Error(cacheErr))
		}
	}
	return nil
}
