package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"medguide/internal/domain/entity"
	domainRepo "medguide/internal/domain/repository"

	"github.com/redis/go-redis/v9"
)

const chatKeyPrefix = "chat:session:"

type redisChatMemory struct {
	client   *redis.Client
	capacity int
	ttl      time.Duration
}

// NewRedisChatMemory keeps at most capacity messages per session; the session key expires
// ttl after its last write.
func NewRedisChatMemory(client *redis.Client, capacity int, ttl time.Duration) domainRepo.ChatMemoryRepository {
	return &redisChatMemory{
		client:   client,
		capacity: capacity,
		ttl:      ttl,
	}
}

func chatKey(sessionID string) string {
	return chatKeyPrefix + sessionID
}

func (m *redisChatMemory) Append(ctx context.Context, sessionID string, messages ...entity.ChatMessage) error {
	if len(messages) == 0 {
		return nil
	}

	values := make([]any, 0, len(messages))
	for _, msg := range messages {
		raw, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("failed to encode chat message: %w", err)
		}
		values = append(values, raw)
	}

	key := chatKey(sessionID)
	_, err := m.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, values...)
		if m.capacity > 0 {
			pipe.LTrim(ctx, key, int64(-m.capacity), -1)
		}
		if m.ttl > 0 {
			pipe.Expire(ctx, key, m.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to append chat history: %w", err)
	}
	return nil
}

func (m *redisChatMemory) Recent(ctx context.Context, sessionID string, limit int) ([]entity.ChatMessage, error) {
	if limit <= 0 {
		return []entity.ChatMessage{}, nil
	}

	raw, err := m.client.LRange(ctx, chatKey(sessionID), int64(-limit), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read chat history: %w", err)
	}

	messages := make([]entity.ChatMessage, 0, len(raw))
	for _, item := range raw {
		var msg entity.ChatMessage
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			return nil, fmt.Errorf("failed to decode chat message: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func (m *redisChatMemory) Clear(ctx context.Context, sessionID string) error {
	if err := m.client.Del(ctx, chatKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to clear chat history: %w", err)
	}
	return nil
}
