package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docassist/internal/model"
	"docassist/internal/processing"
	"docassist/internal/repository"
)

func TestUploadProcessingThenCompleted(t *testing.T) {
	db := newTestDB(t)
	docRepo := repository.NewDocumentRepository(db)
	publisher := &recordingPublisher{}
	client := &fakeProcessingClient{
		uploadResult: processing.UploadResult{
			Success:    true,
			DocumentID: "d1",
			Namespace:  "report",
			Status:     model.StatusProcessing,
		},
		statusResults: []processing.StatusResult{
			{Status: model.StatusCompleted},
		},
	}
	svc := NewUploadService(docRepo, client, publisher, nil)

	result := svc.Upload(context.Background(), UploadInput{
		Filename: "report.pdf",
		Data:     []byte("%PDF"),
		Session:  model.SessionData{ID: "sess-1"},
	})

	assert.True(t, result.Success)
	assert.Equal(t, "d1", result.DocumentID)
	assert.Equal(t, "report", result.Namespace)
	assert.Equal(t, model.StatusCompleted, result.Status)

	doc, err := docRepo.GetByID("d1")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "report.pdf", doc.Name)
	assert.Equal(t, "report", doc.Namespace)
	assert.Equal(t, model.StatusCompleted, doc.Status)

	// Both transitions went to the diagnostic channel.
	require.Len(t, publisher.events, 2)
	assert.Equal(t, model.EventStatusChanged, publisher.events[0].Kind)
	assert.Equal(t, model.StatusProcessing, publisher.events[0].Detail)
	assert.Equal(t, model.StatusCompleted, publisher.events[1].Detail)
}

func TestUploadImmediatelyCompletedSkipsPolling(t *testing.T) {
	db := newTestDB(t)
	docRepo := repository.NewDocumentRepository(db)
	client := &fakeProcessingClient{
		uploadResult: processing.UploadResult{
			Success:    true,
			DocumentID: "d2",
			Namespace:  "memo",
			Status:     model.StatusCompleted,
		},
	}
	svc := NewUploadService(docRepo, client, &recordingPublisher{}, nil)

	result := svc.Upload(context.Background(), UploadInput{
		Filename: "memo.pdf",
		Data:     []byte("%PDF"),
		Session:  model.SessionData{ID: "s"},
	})

	assert.Equal(t, model.StatusCompleted, result.Status)
	assert.Equal(t, 0, client.statusCalls)
}

func TestUploadRemoteFailureCreatesNoDocument(t *testing.T) {
	db := newTestDB(t)
	docRepo := repository.NewDocumentRepository(db)
	client := &fakeProcessingClient{
		uploadResult: processing.UploadResult{
			Success: false,
			Status:  model.StatusFailed,
			Error:   "upstream down",
		},
	}
	svc := NewUploadService(docRepo, client, &recordingPublisher{}, nil)

	result := svc.Upload(context.Background(), UploadInput{
		Filename: "x.pdf",
		Data:     []byte("%PDF"),
		Session:  model.SessionData{ID: "s"},
	})

	assert.False(t, result.Success)
	assert.Equal(t, model.StatusFailed, result.Status)

	docs, err := docRepo.ListAll()
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestUploadBudgetExhaustedLeavesProcessing(t *testing.T) {
	db := newTestDB(t)
	docRepo := repository.NewDocumentRepository(db)
	client := &fakeProcessingClient{
		uploadResult: processing.UploadResult{
			Success:    true,
			DocumentID: "d3",
			Namespace:  "slow",
			Status:     model.StatusProcessing,
		},
		statusResults: []processing.StatusResult{
			{Status: model.StatusProcessing},
		},
	}
	svc := NewUploadService(docRepo, client, &recordingPublisher{}, nil)

	result := svc.Upload(context.Background(), UploadInput{
		Filename: "slow.pdf",
		Data:     []byte("%PDF"),
		Session:  model.SessionData{ID: "s"},
	})

	assert.Equal(t, model.StatusProcessing, result.Status)

	doc, err := docRepo.GetByID("d3")
	require.NoError(t, err)
	assert.Equal(t, model.StatusProcessing, doc.Status)
}

func TestCheckStatusMirrorsIntoStore(t *testing.T) {
	db := newTestDB(t)
	docRepo := repository.NewDocumentRepository(db)
	require.NoError(t, docRepo.Create(&model.Document{
		ID:        "d4",
		Name:      "a.pdf",
		Namespace: "a",
		Status:    model.StatusProcessing,
	}))

	client := &fakeProcessingClient{
		statusResults: []processing.StatusResult{
			{Status: model.StatusCompleted},
		},
	}
	svc := NewUploadService(docRepo, client, &recordingPublisher{}, nil)

	result := svc.CheckStatus(context.Background(), "d4", model.SessionData{ID: "s"})
	assert.Equal(t, model.StatusCompleted, result.Status)

	doc, err := docRepo.GetByID("d4")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, doc.Status)

	// Second check returns the same answer and creates nothing new.
	result = svc.CheckStatus(context.Background(), "d4", model.SessionData{ID: "s"})
	assert.Equal(t, model.StatusCompleted, result.Status)
	docs, err := docRepo.ListAll()
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestCheckStatusTransportFaultLeavesStoreUntouched(t *testing.T) {
	db := newTestDB(t)
	docRepo := repository.NewDocumentRepository(db)
	require.NoError(t, docRepo.Create(&model.Document{
		ID:        "d6",
		Name:      "a.pdf",
		Namespace: "a",
		Status:    model.StatusProcessing,
	}))

	client := &fakeProcessingClient{
		statusResults: []processing.StatusResult{
			{Status: model.StatusFailed, Error: "connection refused", Transport: true},
			{Status: model.StatusCompleted},
		},
	}
	svc := NewUploadService(docRepo, client, &recordingPublisher{}, nil)

	// A network blip is reported to the caller but never mirrored, so the
	// document is not frozen in a state the server never reported.
	result := svc.CheckStatus(context.Background(), "d6", model.SessionData{ID: "s"})
	assert.Equal(t, model.StatusFailed, result.Status)

	doc, err := docRepo.GetByID("d6")
	require.NoError(t, err)
	assert.Equal(t, model.StatusProcessing, doc.Status)

	// The next genuine answer still lands.
	result = svc.CheckStatus(context.Background(), "d6", model.SessionData{ID: "s"})
	assert.Equal(t, model.StatusCompleted, result.Status)

	doc, err = docRepo.GetByID("d6")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, doc.Status)
}

func TestTerminalStatusIsFrozen(t *testing.T) {
	db := newTestDB(t)
	docRepo := repository.NewDocumentRepository(db)
	require.NoError(t, docRepo.Create(&model.Document{
		ID:        "d5",
		Name:      "a.pdf",
		Namespace: "a",
		Status:    model.StatusCompleted,
	}))

	// A late "failed" answer must not move a completed document backward.
	require.NoError(t, docRepo.UpdateStatus("d5", model.StatusFailed))

	doc, err := docRepo.GetByID("d5")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, doc.Status)
}
