package app

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"docassist/internal/assistant"
	"docassist/internal/model"
	"docassist/internal/repository"
)

const assistantErrorReply = "Sorry, I encountered an error while processing your message."

// AssistantClient answers a question about a document.
type AssistantClient interface {
	Reply(ctx context.Context, req assistant.Request) (string, error)
}

// SessionListCache caches the per-document session list. May be nil.
type SessionListCache interface {
	Get(ctx context.Context, documentID string) ([]model.ChatSession, bool, error)
	Set(ctx context.Context, documentID string, sessions []model.ChatSession) error
	Invalidate(ctx context.Context, documentID string) error
}

type ChatService struct {
	chats     *repository.ChatRepository
	documents *repository.DocumentRepository
	assistant AssistantClient
	listCache SessionListCache
	log       *zap.Logger
}

type SendMessageInput struct {
	DocumentID string
	SessionID  string // empty starts a new session
	Content    string
	Session    model.SessionData
}

// TurnResult is one completed conversation turn: the session as persisted
// after both appends, plus the assistant's answer text.
type TurnResult struct {
	Session *model.ChatSession `json:"session"`
	Reply   string             `json:"reply"`
}

func NewChatService(
	chats *repository.ChatRepository,
	documents *repository.DocumentRepository,
	assistantClient AssistantClient,
	listCache SessionListCache,
	log *zap.Logger,
) *ChatService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ChatService{
		chats:     chats,
		documents: documents,
		assistant: assistantClient,
		listCache: listCache,
		log:       log,
	}
}

// ListSessions returns every session owned by the document, newest first.
// An empty slice means no chats yet; nothing is created.
func (s *ChatService) ListSessions(ctx context.Context, documentID string) ([]model.ChatSession, error) {
	if documentID == "" {
		return nil, ErrInvalidInput
	}

	if s.listCache != nil {
		if cached, hit, err := s.listCache.Get(ctx, documentID); err == nil && hit {
			return cached, nil
		}
	}

	sessions, err := s.chats.ListByDocumentID(documentID)
	if err != nil {
		return nil, err
	}
	if s.listCache != nil {
		_ = s.listCache.Set(ctx, documentID, sessions)
	}
	return sessions, nil
}

// CreateSession starts a new session seeded with exactly the first message.
func (s *ChatService) CreateSession(ctx context.Context, documentID string, firstMessage model.ChatMessage) (*model.ChatSession, error) {
	if documentID == "" || strings.TrimSpace(firstMessage.Content) == "" {
		return nil, ErrInvalidInput
	}
	if firstMessage.ID == "" {
		firstMessage.ID = uuid.NewString()
	}
	if firstMessage.Timestamp.IsZero() {
		firstMessage.Timestamp = time.Now()
	}

	session := &model.ChatSession{
		ID:         uuid.NewString(),
		DocumentID: documentID,
		Title:      sessionTitle(firstMessage.Content),
		Messages:   []model.ChatMessage{firstMessage},
		UpdatedAt:  time.Now(),
	}
	if err := s.chats.Create(session); err != nil {
		return nil, err
	}
	s.invalidate(ctx, documentID)
	return session, nil
}

// AppendMessage adds one message to an existing session and refreshes its
// updated-at. Returns ErrSessionNotFound when the session does not belong to
// the document; any store failure surfaces to the caller with no retry.
func (s *ChatService) AppendMessage(ctx context.Context, documentID, sessionID string, message model.ChatMessage) (*model.ChatSession, error) {
	if documentID == "" || sessionID == "" {
		return nil, ErrInvalidInput
	}

	session, err := s.chats.GetByID(documentID, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now()
	}
	session.Messages = append(session.Messages, message)
	session.UpdatedAt = time.Now()

	if err := s.chats.Save(session); err != nil {
		return nil, err
	}
	s.invalidate(ctx, documentID)
	return session, nil
}

// SendMessage runs one conversation turn. The user message is persisted first
// (creating the session when none is active), then the assistant is asked and
// its reply appended to the same session. A failure between the two appends
// leaves the session holding only the user turn; when the assistant itself
// fails, a fixed apology is appended in its place so the conversation stays
// coherent in the UI.
func (s *ChatService) SendMessage(ctx context.Context, input SendMessageInput) (*TurnResult, error) {
	if input.DocumentID == "" {
		return nil, ErrInvalidInput
	}
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, ErrMessageEmpty
	}

	doc, err := s.documents.GetByID(input.DocumentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrDocumentNotFound
	}

	userMessage := model.ChatMessage{
		ID:        uuid.NewString(),
		Content:   content,
		IsUser:    true,
		Timestamp: time.Now(),
	}

	var session *model.ChatSession
	if input.SessionID == "" {
		session, err = s.CreateSession(ctx, input.DocumentID, userMessage)
	} else {
		session, err = s.AppendMessage(ctx, input.DocumentID, input.SessionID, userMessage)
	}
	if err != nil {
		return nil, err
	}

	reply, replyErr := s.assistant.Reply(ctx, assistant.Request{
		Message:      content,
		SessionID:    input.Session.ID,
		DocumentName: doc.Name,
		History:      sessionHistory(session),
	})
	reply = strings.TrimSpace(reply)
	if replyErr != nil {
		s.log.Warn("assistant reply failed",
			zap.String("document_id", input.DocumentID),
			zap.String("session_id", session.ID),
			zap.Error(replyErr))
		reply = assistantErrorReply
	} else if reply == "" {
		reply = "The assistant returned an empty response."
	}

	assistantMessage := model.ChatMessage{
		ID:        uuid.NewString(),
		Content:   reply,
		IsUser:    false,
		Timestamp: time.Now(),
	}
	session, err = s.AppendMessage(ctx, input.DocumentID, session.ID, assistantMessage)
	if err != nil {
		// The user turn is already durable; only the assistant turn is lost.
		return nil, err
	}

	return &TurnResult{
		Session: session,
		Reply:   reply,
	}, nil
}

// DeleteSession removes the whole session with its messages, the only form of
// message removal there is.
func (s *ChatService) DeleteSession(ctx context.Context, documentID, sessionID string) error {
	if documentID == "" || sessionID == "" {
		return ErrInvalidInput
	}
	session, err := s.chats.GetByID(documentID, sessionID)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrSessionNotFound
	}
	if err := s.chats.Delete(documentID, sessionID); err != nil {
		return err
	}
	s.invalidate(ctx, documentID)
	return nil
}

func (s *ChatService) invalidate(ctx context.Context, documentID string) {
	if s.listCache == nil {
		return
	}
	if err := s.listCache.Invalidate(ctx, documentID); err != nil {
		s.log.Warn("invalidate chat list cache failed",
			zap.String("document_id", documentID),
			zap.Error(err))
	}
}

// sessionHistory converts the session's persisted turns into assistant
// history, leaving out the last message, which is the one being asked.
func sessionHistory(session *model.ChatSession) []assistant.Turn {
	if session == nil || len(session.Messages) < 2 {
		return nil
	}
	prior := session.Messages[:len(session.Messages)-1]
	history := make([]assistant.Turn, 0, len(prior))
	for _, m := range prior {
		role := "assistant"
		if m.IsUser {
			role = "user"
		}
		history = append(history, assistant.Turn{Role: role, Content: m.Content})
	}
	return history
}

func sessionTitle(content string) string {
	title := strings.TrimSpace(content)
	if len(title) > 64 {
		// Cut on a rune boundary so multibyte content stays valid UTF-8.
		cut := 64
		for cut > 0 && !utf8.RuneStart(title[cut]) {
			cut--
		}
		title = strings.TrimSpace(title[:cut])
	}
	if title == "" {
		title = "New Chat"
	}
	return title
}
