package handler

import (
	"errors"
	"net/http"

	"medguide/internal/domain/errs"
	"medguide/internal/usecase"
	"medguide/pkg/response"
)

// respondError maps a usecase failure onto a status code. message is used for unexpected errors.
func respondError(w http.ResponseWriter, err error, message string) {
	var validationErr *errs.ValidationError
	switch {
	case errors.As(err, &validationErr):
		response.ValidationError(w, validationErr.Fields)
	case errs.IsTimeout(err):
		response.GatewayTimeout(w, "An external service did not answer in time")
	case errors.Is(err, usecase.ErrClassifierUnavailable):
		response.ServiceUnavailable(w, "Disease prediction is not available right now")
	case errors.Is(err, usecase.ErrAssistantUnavailable):
		response.ServiceUnavailable(w, "Dr Pearl is temporarily unavailable, please try again")
	case errors.Is(err, errs.ErrPrediction):
		response.Error(w, http.StatusUnprocessableEntity, "Prediction failed", err.Error())
	case errors.Is(err, errs.ErrPersistence):
		response.ServiceUnavailable(w, "Storage is unavailable, please try again later")
	default:
		response.InternalServerError(w, message)
	}
}
