package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"medguide/internal/domain/entity"
	domainRepo "medguide/internal/domain/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatMemories(t *testing.T, capacity int) map[string]domainRepo.ChatMemoryRepository {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return map[string]domainRepo.ChatMemoryRepository{
		"redis":     NewRedisChatMemory(client, capacity, time.Hour),
		"in-memory": NewInMemoryChatMemory(capacity, time.Hour),
	}
}

func userMessage(content string) entity.ChatMessage {
	return entity.ChatMessage{Role: entity.ChatRoleUser, Content: content, Timestamp: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func TestChatMemory_SessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	for name, memory := range chatMemories(t, 10) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, memory.Append(ctx, "alice", userMessage("my head hurts")))
			require.NoError(t, memory.Append(ctx, "bob", userMessage("I have a cough")))

			alice, err := memory.Recent(ctx, "alice", 6)
			require.NoError(t, err)
			require.Len(t, alice, 1)
			assert.Equal(t, "my head hurts", alice[0].Content)

			carol, err := memory.Recent(ctx, "carol", 6)
			require.NoError(t, err)
			assert.Empty(t, carol)
		})
	}
}

func TestChatMemory_RecentReturnsLastMessagesInOrder(t *testing.T) {
	ctx := context.Background()
	for name, memory := range chatMemories(t, 8) {
		t.Run(name, func(t *testing.T) {
			for i := 1; i <= 10; i++ {
				require.NoError(t, memory.Append(ctx, "s1", userMessage(fmt.Sprintf("m%d", i))))
			}

			recent, err := memory.Recent(ctx, "s1", 6)
			require.NoError(t, err)
			require.Len(t, recent, 6)
			assert.Equal(t, "m5", recent[0].Content)
			assert.Equal(t, "m10", recent[5].Content)

			// capacity bounds what is kept
			all, err := memory.Recent(ctx, "s1", 100)
			require.NoError(t, err)
			assert.Len(t, all, 8)
			assert.Equal(t, "m3", all[0].Content)
		})
	}
}

func TestChatMemory_Clear(t *testing.T) {
	ctx := context.Background()
	for name, memory := range chatMemories(t, 10) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, memory.Append(ctx, "s1", userMessage("hello"), userMessage("again")))
			require.NoError(t, memory.Clear(ctx, "s1"))

			recent, err := memory.Recent(ctx, "s1", 6)
			require.NoError(t, err)
			assert.Empty(t, recent)

			require.NoError(t, memory.Clear(ctx, "never-used"))
		})
	}
}

func TestRedisChatMemory_SetsTTL(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	memory := NewRedisChatMemory(client, 6, 30*time.Minute)
	require.NoError(t, memory.Append(context.Background(), "s1", userMessage("hi")))

	assert.Equal(t, 30*time.Minute, srv.TTL(chatKey("s1")))

	srv.FastForward(31 * time.Minute)
	recent, err := memory.Recent(context.Background(), "s1", 6)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestInMemoryChatMemory_EvictsIdleSessions(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	memory := newInMemoryChatMemory(6, 30*time.Minute, func() time.Time { return clock })

	require.NoError(t, memory.Append(ctx, "idle", userMessage("hello")))
	require.NoError(t, memory.Append(ctx, "active", userMessage("hello")))

	clock = clock.Add(20 * time.Minute)
	_, err := memory.Recent(ctx, "active", 6)
	require.NoError(t, err)

	clock = clock.Add(20 * time.Minute)
	require.NoError(t, memory.Append(ctx, "new", userMessage("hi")))

	assert.NotContains(t, memory.sessions, "idle")
	assert.Contains(t, memory.sessions, "active")
	assert.Contains(t, memory.sessions, "new")

	clock = clock.Add(31 * time.Minute)
	recent, err := memory.Recent(ctx, "active", 6)
	require.NoError(t, err)
	assert.Empty(t, recent)
	assert.NotContains(t, memory.sessions, "active")
}
