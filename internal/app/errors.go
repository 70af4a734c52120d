package app

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrDocumentNotFound = errors.New("document not found")
	ErrSessionNotFound  = errors.New("chat session not found")
	ErrSummaryNotFound  = errors.New("summary not found")
	ErrMessageEmpty     = errors.New("message content is empty")
)
