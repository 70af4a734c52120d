package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"docassist/internal/model"
)

// ChatListCache holds the per-document session list for the chat sidebar.
// Every write path invalidates the document's entry, so a short TTL is enough.
type ChatListCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewChatListCache(client *redisv9.Client, ttl time.Duration) *ChatListCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &ChatListCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *ChatListCache) Get(ctx context.Context, documentID string) ([]model.ChatSession, bool, error) {
	raw, err := c.client.Get(ctx, c.key(documentID)).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get chat list failed: %w", err)
	}

	var sessions []model.ChatSession
	if err := json.Unmarshal([]byte(raw), &sessions); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached chat list failed: %w", err)
	}
	return sessions, true, nil
}

func (c *ChatListCache) Set(ctx context.Context, documentID string, sessions []model.ChatSession) error {
	payload, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("marshal chat list failed: %w", err)
	}
	if err := c.client.Set(ctx, c.key(documentID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set chat list failed: %w", err)
	}
	return nil
}

func (c *ChatListCache) Invalidate(ctx context.Context, documentID string) error {
	if err := c.client.Del(ctx, c.key(documentID)).Err(); err != nil {
		return fmt.Errorf("redis delete chat list failed: %w", err)
	}
	return nil
}

func (c *ChatListCache) key(documentID string) string {
	return fmt.Sprintf("chat:list:%s", documentID)
}
