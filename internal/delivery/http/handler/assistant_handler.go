package handler

import (
	"encoding/json"
	"net/http"

	"medguide/internal/delivery/dto"
	"medguide/internal/usecase"
	"medguide/pkg/response"
	"medguide/pkg/validator"
)

// SessionHeader carries the chat session id in both directions.
const SessionHeader = "X-Session-ID"

type AssistantHandler struct {
	assistantUsecase usecase.AssistantUsecase
	validator        *validator.CustomValidator
}

func NewAssistantHandler(assistantUsecase usecase.AssistantUsecase, validator *validator.CustomValidator) *AssistantHandler {
	return &AssistantHandler{
		assistantUsecase: assistantUsecase,
		validator:        validator,
	}
}

func (h *AssistantHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req dto.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	validator.TrimStrings(&req)
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	reply, err := h.assistantUsecase.Chat(r.Context(), r.Header.Get(SessionHeader), &req)
	if err != nil {
		respondError(w, err, "Failed to reach Dr Pearl")
		return
	}

	w.Header().Set(SessionHeader, reply.SessionID)
	if reply.Warning != "" {
		response.SuccessWithWarning(w, http.StatusOK, "Reply generated", reply, reply.Warning)
		return
	}
	response.Success(w, http.StatusOK, "Reply generated", reply)
}

func (h *AssistantHandler) Translate(w http.ResponseWriter, r *http.Request) {
	var req dto.TranslateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	validator.TrimStrings(&req)
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	translated, err := h.assistantUsecase.Translate(r.Context(), &req)
	if err != nil {
		respondError(w, err, "Failed to translate text")
		return
	}

	response.Success(w, http.StatusOK, "Text translated", translated)
}
