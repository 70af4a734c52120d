package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"docassist/internal/app"
	"docassist/internal/transport/http/response"
)

type SessionHandler struct {
	sessionService *app.SessionService
}

func NewSessionHandler(sessionService *app.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// Create mints a fresh browser-session identity. The client keeps the token
// for the lifetime of the page session and sends it on every request.
func (h *SessionHandler) Create(c *gin.Context) {
	session, token, err := h.sessionService.Initialize()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "create session failed")
		return
	}
	response.OK(c, gin.H{
		"session": session,
		"token":   token,
	})
}
