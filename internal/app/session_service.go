package app

import (
	"time"

	"docassist/internal/model"
	"docassist/internal/pkg/sessiontoken"
)

// SessionService mints the per-browser-session identity. Call sites receive
// the SessionData explicitly and thread it through; nothing here is ambient
// state.
type SessionService struct {
	secret string
	ttl    time.Duration
}

func NewSessionService(secret string, ttl time.Duration) *SessionService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionService{
		secret: secret,
		ttl:    ttl,
	}
}

// Initialize allocates a fresh session identity and the signed token that
// carries it on subsequent requests.
func (s *SessionService) Initialize() (model.SessionData, string, error) {
	id, token, err := sessiontoken.Mint(s.secret, s.ttl)
	if err != nil {
		return model.SessionData{}, "", err
	}
	return model.SessionData{
		ID:        id,
		CreatedAt: time.Now(),
	}, token, nil
}
