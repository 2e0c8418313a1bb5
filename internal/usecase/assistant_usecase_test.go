package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"medguide/config"
	"medguide/internal/delivery/dto"
	"medguide/internal/domain/entity"
	"medguide/internal/domain/errs"
	"medguide/internal/infrastructure/llm"
	"medguide/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssistantChat_KeepsPerSessionHistory(t *testing.T) {
	model := &fakeChatModel{reply: "Rest and drink fluids."}
	memory := repository.NewInMemoryChatMemory(50, time.Hour)
	uc := NewAssistantUsecase(quietLogger(), model, nil, memory, 6, testTimeout)
	ctx := context.Background()

	first, err := uc.Chat(ctx, "", &dto.ChatRequest{Message: "I have a headache"})
	require.NoError(t, err)
	require.NotEmpty(t, first.SessionID)
	assert.Equal(t, "Rest and drink fluids.", first.Reply)
	assert.Equal(t, "en", first.Lang)
	assert.False(t, first.Ended)

	for i := 0; i < 4; i++ {
		_, err = uc.Chat(ctx, first.SessionID, &dto.ChatRequest{Message: fmt.Sprintf("follow up %d", i)})
		require.NoError(t, err)
	}

	last := model.received[len(model.received)-1]
	require.Len(t, last, 7)
	assert.Equal(t, entity.ChatRoleSystem, last[0].Role)
	assert.Equal(t, entity.ChatRoleUser, last[6].Role)
	assert.Equal(t, "follow up 3", last[6].Content)

	other, err := uc.Chat(ctx, "another-session", &dto.ChatRequest{Message: "Hello"})
	require.NoError(t, err)
	assert.Equal(t, "another-session", other.SessionID)
	isolated := model.received[len(model.received)-1]
	require.Len(t, isolated, 2)
	assert.Equal(t, "Hello", isolated[1].Content)
}

func TestAssistantChat_ExitClearsSession(t *testing.T) {
	model := &fakeChatModel{reply: "ok"}
	memory := repository.NewInMemoryChatMemory(50, time.Hour)
	uc := NewAssistantUsecase(quietLogger(), model, nil, memory, 6, testTimeout)
	ctx := context.Background()

	_, err := uc.Chat(ctx, "s1", &dto.ChatRequest{Message: "hi"})
	require.NoError(t, err)

	bye, err := uc.Chat(ctx, "s1", &dto.ChatRequest{Message: " EXIT "})
	require.NoError(t, err)
	assert.True(t, bye.Ended)
	assert.Len(t, model.received, 1)

	history, err := memory.Recent(ctx, "s1", 10)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestAssistantChat_TranslatesReply(t *testing.T) {
	model := &fakeChatModel{reply: "Stay hydrated."}
	uc := NewAssistantUsecase(quietLogger(), model, &fakeTranslator{}, repository.NewInMemoryChatMemory(50, time.Hour), 6, testTimeout)

	res, err := uc.Chat(context.Background(), "s1", &dto.ChatRequest{Message: "fever", Lang: "HI"})
	require.NoError(t, err)
	assert.Equal(t, "hi", res.Lang)
	assert.Equal(t, "[hi] Stay hydrated.", res.Reply)
	assert.Empty(t, res.Warning)
}

func TestAssistantChat_TranslationFailureFallsBack(t *testing.T) {
	model := &fakeChatModel{reply: "Stay hydrated."}
	uc := NewAssistantUsecase(quietLogger(), model, &fakeTranslator{err: errCollaboratorDown}, repository.NewInMemoryChatMemory(50, time.Hour), 6, testTimeout)

	res, err := uc.Chat(context.Background(), "s1", &dto.ChatRequest{Message: "fever", Lang: "ta"})
	require.NoError(t, err)
	assert.Equal(t, "Stay hydrated.", res.Reply)
	assert.NotEmpty(t, res.Warning)
}

func TestAssistantChat_ModelFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("not configured", func(t *testing.T) {
		uc := NewAssistantUsecase(quietLogger(), nil, nil, repository.NewInMemoryChatMemory(50, time.Hour), 6, testTimeout)
		_, err := uc.Chat(ctx, "s1", &dto.ChatRequest{Message: "hi"})
		assert.ErrorIs(t, err, ErrAssistantUnavailable)
	})

	t.Run("model error", func(t *testing.T) {
		uc := NewAssistantUsecase(quietLogger(), &fakeChatModel{err: errCollaboratorDown}, nil, repository.NewInMemoryChatMemory(50, time.Hour), 6, testTimeout)
		_, err := uc.Chat(ctx, "s1", &dto.ChatRequest{Message: "hi"})
		assert.ErrorIs(t, err, ErrAssistantUnavailable)
		assert.False(t, errs.IsTimeout(err))
	})

	t.Run("model timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(time.Second):
			}
		}))
		defer server.Close()

		model := llm.NewChatClient(config.LLMConfig{BaseURL: server.URL, Model: "test"}, server.Client())
		uc := NewAssistantUsecase(quietLogger(), model, nil, repository.NewInMemoryChatMemory(50, time.Hour), 6, 50*time.Millisecond)
		_, err := uc.Chat(ctx, "s1", &dto.ChatRequest{Message: "hi"})
		require.Error(t, err)
		assert.True(t, errs.IsTimeout(err))
		assert.True(t, errors.Is(err, ErrAssistantUnavailable))
	})
}

// stallingMemory blocks every call until its context is done.
type stallingMemory struct {
	withDeadline int
}

func (m *stallingMemory) wait(ctx context.Context) error {
	if _, ok := ctx.Deadline(); ok {
		m.withDeadline++
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(2 * time.Second):
		return errors.New("chat memory call was not bounded")
	}
}

func (m *stallingMemory) Append(ctx context.Context, _ string, _ ...entity.ChatMessage) error {
	return m.wait(ctx)
}

func (m *stallingMemory) Recent(ctx context.Context, _ string, _ int) ([]entity.ChatMessage, error) {
	return nil, m.wait(ctx)
}

func (m *stallingMemory) Clear(ctx context.Context, _ string) error {
	return m.wait(ctx)
}

func TestAssistantChat_BoundsChatMemoryCalls(t *testing.T) {
	ctx := context.Background()
	memory := &stallingMemory{}
	model := &fakeChatModel{reply: "Rest and drink water."}
	uc := NewAssistantUsecase(quietLogger(), model, nil, memory, 6, 50*time.Millisecond)

	start := time.Now()
	resp, err := uc.Chat(ctx, "s1", &dto.ChatRequest{Message: "I feel tired"})
	require.NoError(t, err)
	assert.Equal(t, "Rest and drink water.", resp.Reply)
	assert.Less(t, time.Since(start), time.Second)

	// history falls back to the current message when the store is unreachable
	require.Len(t, model.received, 1)
	require.Len(t, model.received[0], 2)
	assert.Equal(t, "I feel tired", model.received[0][1].Content)

	_, err = uc.Chat(ctx, "s1", &dto.ChatRequest{Message: "exit"})
	require.NoError(t, err)
	assert.Equal(t, 3, memory.withDeadline)
}

func TestAssistantTranslate(t *testing.T) {
	ctx := context.Background()

	uc := NewAssistantUsecase(quietLogger(), nil, &fakeTranslator{}, repository.NewInMemoryChatMemory(10, time.Hour), 6, testTimeout)
	res, err := uc.Translate(ctx, &dto.TranslateRequest{Text: "Hello", Lang: "fr"})
	require.NoError(t, err)
	assert.Equal(t, "[fr] Hello", res.Text)
	assert.True(t, res.Translated)

	res, err = uc.Translate(ctx, &dto.TranslateRequest{Text: "Hello", Lang: "en"})
	require.NoError(t, err)
	assert.Equal(t, "Hello", res.Text)
	assert.False(t, res.Translated)

	failing := NewAssistantUsecase(quietLogger(), nil, &fakeTranslator{err: errCollaboratorDown}, repository.NewInMemoryChatMemory(10, time.Hour), 6, testTimeout)
	res, err = failing.Translate(ctx, &dto.TranslateRequest{Text: "Hello", Lang: "fr"})
	require.NoError(t, err)
	assert.Equal(t, "Hello", res.Text)
	assert.False(t, res.Translated)
}
