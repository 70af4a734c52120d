package processing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"docassist/internal/model"
)

const (
	defaultUploadTimeout = 5 * time.Minute
	defaultPollInterval  = 5 * time.Second
	defaultPollAttempts  = 60
)

// UploadResult is the processing service's answer to an upload, with client
// fallbacks already applied. Transport failures are folded into it: callers
// never see a raised error, a failed call is Success=false / Status=failed.
type UploadResult struct {
	Success    bool   `json:"success"`
	DocumentID string `json:"document_id,omitempty"`
	Namespace  string `json:"namespace,omitempty"`
	Status     string `json:"status"`
	Message    string `json:"message,omitempty"`
	Error      string `json:"error,omitempty"`
}

// StatusResult carries a single status-check answer. Like UploadResult it is
// always a value: a transport fault yields Status=failed with Error set and
// Transport marking that the status never came from the server. Callers
// mirroring statuses to a store must skip transport-derived ones.
type StatusResult struct {
	Status     string `json:"status"`
	DocumentID string `json:"document_id,omitempty"`
	Namespace  string `json:"namespace,omitempty"`
	Message    string `json:"message,omitempty"`
	Error      string `json:"error,omitempty"`
	Transport  bool   `json:"-"`
}

// Upload is one file handed to the processing webhook.
type Upload struct {
	Filename string
	Data     []byte
}

type Config struct {
	WebhookURL      string
	UploadTimeout   time.Duration
	PollInterval    time.Duration
	PollMaxAttempts int
}

type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.UploadTimeout <= 0 {
		cfg.UploadTimeout = defaultUploadTimeout
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.PollMaxAttempts <= 0 {
		cfg.PollMaxAttempts = defaultPollAttempts
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.UploadTimeout,
		},
	}
}

// UploadFile submits the file to the processing webhook as a multipart form
// carrying the session correlation id, a client timestamp and the document
// name (filename with its extension stripped). The request timeout is long
// because the service may parse the document synchronously.
func (c *Client) UploadFile(ctx context.Context, upload Upload, sessionID string) UploadResult {
	docName := DocumentName(upload.Filename)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", upload.Filename)
	if err != nil {
		return failedUpload(err)
	}
	if _, err := part.Write(upload.Data); err != nil {
		return failedUpload(err)
	}
	fields := map[string]string{
		"session_id": sessionID,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"action":     "upload",
		"filename":   docName,
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return failedUpload(err)
		}
	}
	if err := writer.Close(); err != nil {
		return failedUpload(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.WebhookURL, &buf)
	if err != nil {
		return failedUpload(err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return failedUpload(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return failedUpload(err)
	}
	if resp.StatusCode >= 300 {
		return failedUpload(fmt.Errorf("processing webhook status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))))
	}

	var parsed struct {
		Success    bool   `json:"success"`
		DocumentID string `json:"documentId"`
		Namespace  string `json:"namespace"`
		Status     string `json:"status"`
		Message    string `json:"message"`
		Error      string `json:"error"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return failedUpload(fmt.Errorf("parse upload response failed: %w", err))
	}

	result := UploadResult{
		Success:    parsed.Success,
		DocumentID: parsed.DocumentID,
		Namespace:  parsed.Namespace,
		Status:     parsed.Status,
		Message:    parsed.Message,
		Error:      parsed.Error,
	}
	if result.DocumentID == "" {
		result.DocumentID = sessionID
	}
	if result.Namespace == "" {
		result.Namespace = docName
	}
	if result.Status == "" {
		result.Status = model.StatusProcessing
	}
	if !result.Success && result.Status != model.StatusFailed {
		result.Status = model.StatusFailed
	}
	return result
}

// CheckStatus queries the webhook for the current processing status. It is
// read-only and idempotent; a transport fault is reported as Status=failed
// rather than an error, which is enough for the poll loop to stop.
func (c *Client) CheckStatus(ctx context.Context, documentID, sessionID string) StatusResult {
	params := url.Values{}
	params.Set("action", "status")
	params.Set("document_id", documentID)
	params.Set("session_id", sessionID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.WebhookURL+"?"+params.Encode(), nil)
	if err != nil {
		return failedStatus(err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return failedStatus(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return failedStatus(err)
	}
	if resp.StatusCode >= 300 {
		return failedStatus(fmt.Errorf("processing webhook status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))))
	}

	var parsed struct {
		Status     string `json:"status"`
		DocumentID string `json:"documentId"`
		Namespace  string `json:"namespace"`
		Message    string `json:"message"`
		Error      string `json:"error"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return failedStatus(fmt.Errorf("parse status response failed: %w", err))
	}

	result := StatusResult{
		Status:     parsed.Status,
		DocumentID: parsed.DocumentID,
		Namespace:  parsed.Namespace,
		Message:    parsed.Message,
		Error:      parsed.Error,
	}
	if result.Status == "" {
		result.Status = model.StatusFailed
	}
	return result
}

// PollStatus checks the document status at a fixed interval until the service
// reports something other than "processing" or the attempt budget runs out.
// The returned bool is true when a terminal answer was observed; false means
// the budget was exhausted or ctx was cancelled while still processing. The
// context is consulted at every wait boundary so an abandoned upload stops
// promptly.
//
// The loop does not distinguish a transient transport fault from a genuine
// "failed" answer: either one ends polling on the spot.
func (c *Client) PollStatus(ctx context.Context, documentID, sessionID string) (StatusResult, bool) {
	last := StatusResult{Status: model.StatusProcessing}
	for attempt := 0; attempt < c.cfg.PollMaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			last.Error = ctx.Err().Error()
			return last, false
		case <-time.After(c.cfg.PollInterval):
		}

		last = c.CheckStatus(ctx, documentID, sessionID)
		if last.Status != model.StatusProcessing {
			return last, true
		}
	}
	return last, false
}

// DocumentName strips the file extension: "report.pdf" becomes "report".
func DocumentName(filename string) string {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	if name == "" {
		return filename
	}
	return name
}

func failedUpload(err error) UploadResult {
	return UploadResult{
		Success: false,
		Status:  model.StatusFailed,
		Error:   err.Error(),
	}
}

func failedStatus(err error) StatusResult {
	return StatusResult{
		Status:    model.StatusFailed,
		Error:     err.Error(),
		Transport: true,
	}
}
