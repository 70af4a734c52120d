package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"docassist/internal/app"
	"docassist/internal/transport/http/middleware"
	"docassist/internal/transport/http/response"
)

type ChatHandler struct {
	chatService *app.ChatService
}

type SendMessageRequest struct {
	SessionID string `json:"session_id"`
	Content   string `json:"content" binding:"required"`
}

func NewChatHandler(chatService *app.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// List returns the document's sessions, optionally bucketed by day with
// ?group=day for the history sidebar.
func (h *ChatHandler) List(c *gin.Context) {
	documentID := c.Param("id")
	sessions, err := h.chatService.ListSessions(c.Request.Context(), documentID)
	if err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		} else {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list chats failed")
		}
		return
	}

	if c.Query("group") == "day" {
		response.OK(c, app.GroupChatsByDay(time.Now(), sessions))
		return
	}
	response.OK(c, sessions)
}

// Send runs one conversation turn against the document. With no session_id a
// new session is started from the user's message.
func (h *ChatHandler) Send(c *gin.Context) {
	session, ok := middleware.SessionFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid session")
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.chatService.SendMessage(c.Request.Context(), app.SendMessageInput{
		DocumentID: c.Param("id"),
		SessionID:  req.SessionID,
		Content:    req.Content,
		Session:    session,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput), errors.Is(err, app.ErrMessageEmpty):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrDocumentNotFound):
			response.Error(c, http.StatusNotFound, response.CodeDocumentNotFound, err.Error())
		case errors.Is(err, app.ErrSessionNotFound):
			response.Error(c, http.StatusNotFound, response.CodeSessionNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "send message failed")
		}
		return
	}

	response.OK(c, result)
}

func (h *ChatHandler) Delete(c *gin.Context) {
	documentID := c.Param("id")
	chatID := c.Param("chatId")

	if err := h.chatService.DeleteSession(c.Request.Context(), documentID, chatID); err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrSessionNotFound):
			response.Error(c, http.StatusNotFound, response.CodeSessionNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "delete chat failed")
		}
		return
	}
	response.OK(c, gin.H{"deleted_chat_id": chatID})
}
