package app

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"docassist/internal/model"
	"docassist/internal/processing"
	"docassist/internal/repository"
)

// ProcessingClient drives a file through the remote processing webhook.
// All three operations report failure as result values, never errors.
type ProcessingClient interface {
	UploadFile(ctx context.Context, upload processing.Upload, sessionID string) processing.UploadResult
	CheckStatus(ctx context.Context, documentID, sessionID string) processing.StatusResult
	PollStatus(ctx context.Context, documentID, sessionID string) (processing.StatusResult, bool)
}

// EventPublisher is the diagnostic channel for best-effort outcomes. A failed
// publish is itself best-effort: the upload flow logs it and moves on.
type EventPublisher interface {
	Publish(ctx context.Context, event model.DocumentEvent) error
}

type UploadService struct {
	documents *repository.DocumentRepository
	client    ProcessingClient
	events    EventPublisher
	log       *zap.Logger
}

type UploadInput struct {
	Filename string
	Data     []byte
	Session  model.SessionData
}

func NewUploadService(
	documents *repository.DocumentRepository,
	client ProcessingClient,
	events EventPublisher,
	log *zap.Logger,
) *UploadService {
	if log == nil {
		log = zap.NewNop()
	}
	return &UploadService{
		documents: documents,
		client:    client,
		events:    events,
		log:       log,
	}
}

// Upload drives a single file to a terminal status: submit to the webhook,
// mirror the resulting document into the store, and poll while the service
// still reports "processing". Store writes along the way are best-effort --
// a failure is logged and published as a diagnostic event, but the upload
// itself proceeds. The returned result is terminal: the caller must not retry
// beyond it.
func (s *UploadService) Upload(ctx context.Context, input UploadInput) processing.UploadResult {
	if strings.TrimSpace(input.Filename) == "" || len(input.Data) == 0 {
		return processing.UploadResult{
			Success: false,
			Status:  model.StatusFailed,
			Error:   "empty upload",
		}
	}

	result := s.client.UploadFile(ctx, processing.Upload{
		Filename: input.Filename,
		Data:     input.Data,
	}, input.Session.ID)
	if !result.Success {
		s.log.Warn("upload rejected by processing service",
			zap.String("filename", input.Filename),
			zap.String("error", result.Error))
		return result
	}

	doc := model.Document{
		ID:         result.DocumentID,
		Name:       input.Filename,
		Namespace:  result.Namespace,
		Status:     result.Status,
		UploadedAt: time.Now(),
	}
	if err := s.documents.Create(&doc); err != nil {
		s.reportStoreError(ctx, doc.ID, err)
	} else {
		s.publish(ctx, doc.ID, model.EventStatusChanged, doc.Status)
	}

	if doc.Status != model.StatusProcessing {
		return result
	}

	final, done := s.client.PollStatus(ctx, doc.ID, input.Session.ID)
	if !done {
		// Budget exhausted or caller gone; the document stays "processing"
		// and a later explicit status check can still resolve it.
		s.log.Info("status poll ended without a terminal answer",
			zap.String("document_id", doc.ID),
			zap.String("last_status", final.Status))
		return result
	}

	s.mirrorStatus(ctx, doc.ID, final.Status)
	result.Status = final.Status
	result.Message = final.Message
	if final.Error != "" {
		result.Error = final.Error
	}
	return result
}

// CheckStatus runs a single status query and mirrors the answer into the
// store. Only statuses the server actually reported are mirrored: a
// transport-derived "failed" is returned to the caller but leaves the stored
// document untouched, so a later genuine answer can still land. Mirroring is
// best-effort; the result is returned regardless. It never creates a
// document, so repeated checks are idempotent.
func (s *UploadService) CheckStatus(ctx context.Context, documentID string, session model.SessionData) processing.StatusResult {
	result := s.client.CheckStatus(ctx, documentID, session.ID)
	if result.Status != "" && !result.Transport {
		s.mirrorStatus(ctx, documentID, result.Status)
	}
	return result
}

func (s *UploadService) mirrorStatus(ctx context.Context, documentID, status string) {
	if err := s.documents.UpdateStatus(documentID, status); err != nil {
		s.reportStoreError(ctx, documentID, err)
		return
	}
	s.publish(ctx, documentID, model.EventStatusChanged, status)
}

func (s *UploadService) reportStoreError(ctx context.Context, documentID string, err error) {
	s.log.Error("document store write failed",
		zap.String("document_id", documentID),
		zap.Error(err))
	s.publish(ctx, documentID, model.EventStoreWriteError, err.Error())
}

func (s *UploadService) publish(ctx context.Context, documentID, kind, detail string) {
	if s.events == nil {
		return
	}
	event := model.DocumentEvent{
		DocumentID: documentID,
		Kind:       kind,
		Detail:     detail,
		CreatedAt:  time.Now(),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.log.Warn("publish document event failed",
			zap.String("document_id", documentID),
			zap.String("kind", kind),
			zap.Error(err))
	}
}
