package app

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"docassist/internal/model"
	"docassist/internal/repository"
)

type SummaryService struct {
	summaries *repository.SummaryRepository
	documents *repository.DocumentRepository
}

type CreateSummaryInput struct {
	DocumentID string
	Title      string
	Content    string
}

func NewSummaryService(summaries *repository.SummaryRepository, documents *repository.DocumentRepository) *SummaryService {
	return &SummaryService{
		summaries: summaries,
		documents: documents,
	}
}

// Create records a summary produced by the processing service for a document.
func (s *SummaryService) Create(ctx context.Context, input CreateSummaryInput) (*model.Summary, error) {
	if input.DocumentID == "" || strings.TrimSpace(input.Content) == "" {
		return nil, ErrInvalidInput
	}
	doc, err := s.documents.GetByID(input.DocumentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrDocumentNotFound
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = doc.Name
	}
	summary := &model.Summary{
		ID:         uuid.NewString(),
		DocumentID: input.DocumentID,
		Title:      title,
		Content:    input.Content,
		CreatedAt:  time.Now(),
	}
	if err := s.summaries.Create(summary); err != nil {
		return nil, err
	}
	return summary, nil
}

func (s *SummaryService) ListByDocument(ctx context.Context, documentID string) ([]model.Summary, error) {
	if documentID == "" {
		return nil, ErrInvalidInput
	}
	return s.summaries.ListByDocumentID(documentID)
}

func (s *SummaryService) Get(ctx context.Context, id string) (*model.Summary, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	summary, err := s.summaries.GetByID(id)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		return nil, ErrSummaryNotFound
	}
	return summary, nil
}

func (s *SummaryService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidInput
	}
	summary, err := s.summaries.GetByID(id)
	if err != nil {
		return err
	}
	if summary == nil {
		return ErrSummaryNotFound
	}
	return s.summaries.Delete(id)
}
