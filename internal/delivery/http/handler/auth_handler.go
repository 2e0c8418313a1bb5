package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"medguide/internal/delivery/dto"
	"medguide/internal/usecase"
	"medguide/pkg/response"
	"medguide/pkg/validator"
)

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	validator   *validator.CustomValidator
}

func NewAuthHandler(authUsecase usecase.AuthUsecase, validator *validator.CustomValidator) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		validator:   validator,
	}
}

// AdminLogin exchanges the clinic's admin access code for a bearer token.
func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.AdminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	token, err := h.authUsecase.AdminLogin(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidAccessCode):
			response.Unauthorized(w, "Invalid access code")
		case errors.Is(err, usecase.ErrAdminLoginDisabled):
			response.ServiceUnavailable(w, "Admin login is not configured")
		default:
			response.InternalServerError(w, "Failed to log in")
		}
		return
	}

	response.Success(w, http.StatusOK, "Login successful", token)
}
