package repository

import (
	"context"

	"medguide/internal/domain/entity"
)

// ChatMemoryRepository stores conversation history per session.
type ChatMemoryRepository interface {
	Append(ctx context.Context, sessionID string, messages ...entity.ChatMessage) error
	Recent(ctx context.Context, sessionID string, limit int) ([]entity.ChatMessage, error)
	Clear(ctx context.Context, sessionID string) error
}
