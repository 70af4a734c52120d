package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Turn is one prior message of the conversation, sent along so the assistant
// keeps its memory across stateless requests.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is one question routed to the remote assistant webhook, scoped to
// the document the user is viewing. History holds the session's earlier
// turns, oldest first, excluding the message being asked.
type Request struct {
	Message      string `json:"message"`
	SessionID    string `json:"session_id"`
	DocumentName string `json:"document_name"`
	History      []Turn `json:"history,omitempty"`
}

type Client struct {
	webhookURL string
	httpClient *http.Client
}

func NewClient(webhookURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &Client{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Reply sends the question and returns the assistant's answer text.
func (c *Client) Reply(ctx context.Context, req Request) (string, error) {
	bodyBytes, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal assistant request failed: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("build assistant request failed: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("assistant request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read assistant response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("assistant response status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed struct {
		Response string `json:"response"`
		Error    string `json:"error"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("parse assistant json failed: %w", err)
	}
	if parsed.Error != "" {
		return "", fmt.Errorf("assistant error: %s", parsed.Error)
	}
	return parsed.Response, nil
}
