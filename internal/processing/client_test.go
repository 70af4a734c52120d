package processing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docassist/internal/model"
)

func TestDocumentName(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"report.pdf", "report"},
		{"annual report 2024.pdf", "annual report 2024"},
		{"noextension", "noextension"},
		{".pdf", ".pdf"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DocumentName(tt.filename))
	}
}

func TestUploadFileSuccess(t *testing.T) {
	var gotAction, gotFilename, gotSessionID string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(32<<20))
		gotAction = r.FormValue("action")
		gotFilename = r.FormValue("filename")
		gotSessionID = r.FormValue("session_id")

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "report.pdf", header.Filename)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":    true,
			"documentId": "d1",
			"namespace":  "report",
			"status":     "completed",
		})
	}))
	defer server.Close()

	client := NewClient(Config{WebhookURL: server.URL})
	result := client.UploadFile(context.Background(), Upload{
		Filename: "report.pdf",
		Data:     []byte("%PDF-1.4 fake"),
	}, "sess-1")

	assert.True(t, result.Success)
	assert.Equal(t, "d1", result.DocumentID)
	assert.Equal(t, "report", result.Namespace)
	assert.Equal(t, model.StatusCompleted, result.Status)
	assert.Empty(t, result.Error)

	assert.Equal(t, "upload", gotAction)
	assert.Equal(t, "report", gotFilename)
	assert.Equal(t, "sess-1", gotSessionID)
}

func TestUploadFileFallbacks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Minimal answer: no documentId, namespace or status.
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
	}))
	defer server.Close()

	client := NewClient(Config{WebhookURL: server.URL})
	result := client.UploadFile(context.Background(), Upload{
		Filename: "report.pdf",
		Data:     []byte("x"),
	}, "sess-9")

	assert.True(t, result.Success)
	assert.Equal(t, "sess-9", result.DocumentID, "document id falls back to the session id")
	assert.Equal(t, "report", result.Namespace, "namespace falls back to the stripped filename")
	assert.Equal(t, model.StatusProcessing, result.Status)
}

func TestUploadFileRemoteFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"error":   "unsupported document",
		})
	}))
	defer server.Close()

	client := NewClient(Config{WebhookURL: server.URL})
	result := client.UploadFile(context.Background(), Upload{Filename: "a.pdf", Data: []byte("x")}, "s")

	assert.False(t, result.Success)
	assert.Equal(t, model.StatusFailed, result.Status)
	assert.Equal(t, "unsupported document", result.Error)
}

func TestUploadFileTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := NewClient(Config{WebhookURL: server.URL})
	result := client.UploadFile(context.Background(), Upload{Filename: "a.pdf", Data: []byte("x")}, "s")

	assert.False(t, result.Success)
	assert.Equal(t, model.StatusFailed, result.Status)
	assert.NotEmpty(t, result.Error)
}

func TestCheckStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "status", r.URL.Query().Get("action"))
		assert.Equal(t, "d1", r.URL.Query().Get("document_id"))
		assert.Equal(t, "sess-1", r.URL.Query().Get("session_id"))
		json.NewEncoder(w).Encode(map[string]interface{}{"status": "completed"})
	}))
	defer server.Close()

	client := NewClient(Config{WebhookURL: server.URL})

	// Idempotent: same answer both times, no side effects in the client.
	first := client.CheckStatus(context.Background(), "d1", "sess-1")
	second := client.CheckStatus(context.Background(), "d1", "sess-1")
	assert.Equal(t, model.StatusCompleted, first.Status)
	assert.Equal(t, first.Status, second.Status)
}

func TestCheckStatusTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(Config{WebhookURL: server.URL})
	result := client.CheckStatus(context.Background(), "d1", "s")

	assert.Equal(t, model.StatusFailed, result.Status)
	assert.NotEmpty(t, result.Error)
	assert.True(t, result.Transport)
}

func TestCheckStatusServerAnswerIsNotTransport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "failed", "error": "parse error"})
	}))
	defer server.Close()

	client := NewClient(Config{WebhookURL: server.URL})
	result := client.CheckStatus(context.Background(), "d1", "s")

	assert.Equal(t, model.StatusFailed, result.Status)
	assert.False(t, result.Transport)
}

func TestPollStatusStopsOnTerminal(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := "processing"
		if calls.Add(1) >= 3 {
			status = "completed"
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"status": status})
	}))
	defer server.Close()

	client := NewClient(Config{
		WebhookURL:      server.URL,
		PollInterval:    5 * time.Millisecond,
		PollMaxAttempts: 60,
	})
	result, done := client.PollStatus(context.Background(), "d1", "s")

	assert.True(t, done)
	assert.Equal(t, model.StatusCompleted, result.Status)
	assert.Equal(t, int32(3), calls.Load(), "polling stops at the first non-processing answer")
}

func TestPollStatusBudgetExhausted(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		json.NewEncoder(w).Encode(map[string]interface{}{"status": "processing"})
	}))
	defer server.Close()

	client := NewClient(Config{
		WebhookURL:      server.URL,
		PollInterval:    time.Millisecond,
		PollMaxAttempts: 4,
	})
	result, done := client.PollStatus(context.Background(), "d1", "s")

	assert.False(t, done)
	assert.Equal(t, model.StatusProcessing, result.Status)
	assert.Equal(t, int32(4), calls.Load())
}

func TestPollStatusFailedAnswerEndsPolling(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"status": "failed", "error": "parse error"})
	}))
	defer server.Close()

	client := NewClient(Config{
		WebhookURL:      server.URL,
		PollInterval:    time.Millisecond,
		PollMaxAttempts: 10,
	})
	result, done := client.PollStatus(context.Background(), "d1", "s")

	assert.True(t, done)
	assert.Equal(t, model.StatusFailed, result.Status)
	assert.Equal(t, "parse error", result.Error)
}

func TestPollStatusCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"status": "processing"})
	}))
	defer server.Close()

	client := NewClient(Config{
		WebhookURL:      server.URL,
		PollInterval:    time.Hour, // only cancellation can end the wait
		PollMaxAttempts: 60,
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	result, done := client.PollStatus(ctx, "d1", "s")

	assert.False(t, done)
	assert.Equal(t, model.StatusProcessing, result.Status)
	assert.Less(t, time.Since(start), time.Second, "cancellation is honored at the wait boundary")
}
