package repository

import (
	"context"
	"sync"
	"time"

	"medguide/internal/domain/entity"
	domainRepo "medguide/internal/domain/repository"
)

// inMemoryChatMemory is used when Redis is not configured. A session idle for longer than ttl
// is dropped, like the Redis keys expire.
type inMemoryChatMemory struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]*chatSession
}

type chatSession struct {
	messages []entity.ChatMessage
	lastSeen time.Time
}

func NewInMemoryChatMemory(capacity int, ttl time.Duration) domainRepo.ChatMemoryRepository {
	return newInMemoryChatMemory(capacity, ttl, time.Now)
}

func newInMemoryChatMemory(capacity int, ttl time.Duration, now func() time.Time) *inMemoryChatMemory {
	return &inMemoryChatMemory{
		capacity: capacity,
		ttl:      ttl,
		now:      now,
		sessions: make(map[string]*chatSession),
	}
}

func (m *inMemoryChatMemory) Append(_ context.Context, sessionID string, messages ...entity.ChatMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.evictIdle(now)

	session, ok := m.sessions[sessionID]
	if !ok {
		session = &chatSession{}
		m.sessions[sessionID] = session
	}

	history := append(session.messages, messages...)
	if m.capacity > 0 && len(history) > m.capacity {
		history = append([]entity.ChatMessage(nil), history[len(history)-m.capacity:]...)
	}
	session.messages = history
	session.lastSeen = now
	return nil
}

func (m *inMemoryChatMemory) Recent(_ context.Context, sessionID string, limit int) ([]entity.ChatMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	session, ok := m.sessions[sessionID]
	if !ok {
		return []entity.ChatMessage{}, nil
	}
	if m.expired(session, now) {
		delete(m.sessions, sessionID)
		return []entity.ChatMessage{}, nil
	}
	session.lastSeen = now

	history := session.messages
	if limit < 0 {
		limit = 0
	}
	if len(history) > limit {
		history = history[len(history)-limit:]
	}
	out := make([]entity.ChatMessage, len(history))
	copy(out, history)
	return out, nil
}

func (m *inMemoryChatMemory) Clear(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, sessionID)
	return nil
}

func (m *inMemoryChatMemory) expired(session *chatSession, now time.Time) bool {
	return m.ttl > 0 && now.Sub(session.lastSeen) > m.ttl
}

// evictIdle must be called with mu held.
func (m *inMemoryChatMemory) evictIdle(now time.Time) {
	if m.ttl <= 0 {
		return
	}
	for id, session := range m.sessions {
		if m.expired(session, now) {
			delete(m.sessions, id)
		}
	}
}
