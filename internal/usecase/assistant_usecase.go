package usecase

import (
	"context"
	"strings"
	"time"

	"medguide/internal/delivery/dto"
	"medguide/internal/domain/entity"
	"medguide/internal/domain/errs"
	"medguide/internal/domain/gateway"
	"medguide/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	defaultLang   = "en"
	exitCommand   = "exit"
	goodbyeReply  = "Take care! Our conversation has ended. Visit a doctor if your symptoms persist."
	historyWindow = 6
)

const assistantPrompt = `You are Dr Pearl, a warm and patient health assistant for a clinic.
Offer general first-aid tips and early health guidance in line with WHO and CDC advice.
Do not name medicines, doses or treatments.
Summarize what the user tells you and answer calmly and kindly.
For serious, worsening or unclear symptoms, advise visiting a primary health care centre or a certified medical professional.`

type AssistantUsecase interface {
	Chat(ctx context.Context, sessionID string, req *dto.ChatRequest) (*dto.ChatResponse, error)
	Translate(ctx context.Context, req *dto.TranslateRequest) (*dto.TranslateResponse, error)
}

type assistantUsecase struct {
	log        *logrus.Logger
	model      gateway.ChatModel
	translator gateway.Translator
	memory     repository.ChatMemoryRepository
	window     int
	timeout    time.Duration
	now        func() time.Time
}

// NewAssistantUsecase accepts a nil model (chat then fails with ErrAssistantUnavailable) and a
// nil translator (replies stay in English).
func NewAssistantUsecase(
	log *logrus.Logger,
	model gateway.ChatModel,
	translator gateway.Translator,
	memory repository.ChatMemoryRepository,
	window int,
	timeout time.Duration,
) AssistantUsecase {
	if window <= 0 {
		window = historyWindow
	}
	return &assistantUsecase{
		log:        log,
		model:      model,
		translator: translator,
		memory:     memory,
		window:     window,
		timeout:    timeout,
		now:        time.Now,
	}
}

func (u *assistantUsecase) Chat(ctx context.Context, sessionID string, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	lang := strings.ToLower(strings.TrimSpace(req.Lang))
	if lang == "" {
		lang = defaultLang
	}
	message := strings.TrimSpace(req.Message)

	if strings.EqualFold(message, exitCommand) {
		if err := u.clearHistory(ctx, sessionID); err != nil {
			u.log.Warnf("Failed to clear chat session %s: %+v", sessionID, err)
		}
		reply, warning := u.translate(ctx, goodbyeReply, lang)
		return &dto.ChatResponse{SessionID: sessionID, Reply: reply, Lang: lang, Ended: true, Warning: warning}, nil
	}

	if u.model == nil {
		return nil, ErrAssistantUnavailable
	}

	userMessage := entity.ChatMessage{Role: entity.ChatRoleUser, Content: message, Timestamp: u.now().UTC()}
	history := []entity.ChatMessage{userMessage}
	if err := u.appendHistory(ctx, sessionID, userMessage); err != nil {
		u.log.Warnf("Failed to store chat message for session %s: %+v", sessionID, err)
	} else if recent, err := u.recentHistory(ctx, sessionID); err != nil {
		u.log.Warnf("Failed to load chat history for session %s: %+v", sessionID, err)
	} else if len(recent) > 0 {
		history = recent
	}

	messages := append([]entity.ChatMessage{{Role: entity.ChatRoleSystem, Content: assistantPrompt}}, history...)

	callCtx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()
	answer, err := u.model.Complete(callCtx, messages)
	if err != nil {
		u.log.Errorf("Assistant model failed for session %s: %+v", sessionID, err)
		return nil, errs.Wrap(ErrAssistantUnavailable, "chat completion", err)
	}

	reply := entity.ChatMessage{Role: entity.ChatRoleAssistant, Content: answer, Timestamp: u.now().UTC()}
	if err := u.appendHistory(ctx, sessionID, reply); err != nil {
		u.log.Warnf("Failed to store assistant reply for session %s: %+v", sessionID, err)
	}

	translated, warning := u.translate(ctx, answer, lang)

	return &dto.ChatResponse{
		SessionID: sessionID,
		Reply:     translated,
		Lang:      lang,
		Warning:   warning,
	}, nil
}

func (u *assistantUsecase) appendHistory(ctx context.Context, sessionID string, msg entity.ChatMessage) error {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()
	return u.memory.Append(ctx, sessionID, msg)
}

func (u *assistantUsecase) recentHistory(ctx context.Context, sessionID string) ([]entity.ChatMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()
	return u.memory.Recent(ctx, sessionID, u.window)
}

func (u *assistantUsecase) clearHistory(ctx context.Context, sessionID string) error {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()
	return u.memory.Clear(ctx, sessionID)
}

func (u *assistantUsecase) Translate(ctx context.Context, req *dto.TranslateRequest) (*dto.TranslateResponse, error) {
	lang := strings.ToLower(strings.TrimSpace(req.Lang))
	text, warning := u.translate(ctx, req.Text, lang)
	return &dto.TranslateResponse{
		Text:       text,
		Lang:       lang,
		Translated: warning == "" && u.translator != nil && lang != defaultLang,
	}, nil
}

// translate falls back to the source text when the translator is missing or fails.
func (u *assistantUsecase) translate(ctx context.Context, text, lang string) (string, string) {
	if lang == "" || lang == defaultLang || u.translator == nil {
		return text, ""
	}

	callCtx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()
	out, err := u.translator.Translate(callCtx, text, lang)
	if err != nil {
		u.log.Warnf("Translation to %s failed: %+v", lang, err)
		return text, "Translation unavailable, showing the original text"
	}
	return out, ""
}
