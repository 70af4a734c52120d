package model

import "time"

// SessionData is the per-browser-session identity sent to the remote
// processing service as a correlation token. It is not a credential and is
// never persisted; it only has to stay stable for the lifetime of the
// page session that minted it.
type SessionData struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}
