package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"docassist/internal/assistant"
	"docassist/internal/model"
	"docassist/internal/processing"
)

var errAssistantDown = errors.New("assistant down")

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Document{},
		&model.ChatSession{},
		&model.ChatMessage{},
		&model.Summary{},
		&model.DocumentEvent{},
	))
	return db
}

type fakeAssistant struct {
	reply   string
	err     error
	calls   int
	lastReq assistant.Request
}

func (f *fakeAssistant) Reply(ctx context.Context, req assistant.Request) (string, error) {
	f.calls++
	f.lastReq = req
	return f.reply, f.err
}

type fakeProcessingClient struct {
	uploadResult  processing.UploadResult
	statusResults []processing.StatusResult
	statusCalls   int
}

func (f *fakeProcessingClient) UploadFile(ctx context.Context, upload processing.Upload, sessionID string) processing.UploadResult {
	return f.uploadResult
}

func (f *fakeProcessingClient) CheckStatus(ctx context.Context, documentID, sessionID string) processing.StatusResult {
	res := f.statusResults[f.statusCalls%len(f.statusResults)]
	f.statusCalls++
	return res
}

func (f *fakeProcessingClient) PollStatus(ctx context.Context, documentID, sessionID string) (processing.StatusResult, bool) {
	for range f.statusResults {
		res := f.CheckStatus(ctx, documentID, sessionID)
		if res.Status != model.StatusProcessing {
			return res, true
		}
	}
	return processing.StatusResult{Status: model.StatusProcessing}, false
}

type recordingPublisher struct {
	events []model.DocumentEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, event model.DocumentEvent) error {
	p.events = append(p.events, event)
	return nil
}
