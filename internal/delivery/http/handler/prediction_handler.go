package handler

import (
	"encoding/json"
	"net/http"

	"medguide/internal/delivery/dto"
	"medguide/internal/usecase"
	"medguide/pkg/response"
)

type PredictionHandler struct {
	predictionUsecase usecase.PredictionUsecase
	recordUsecase     usecase.RecordUsecase
}

func NewPredictionHandler(predictionUsecase usecase.PredictionUsecase, recordUsecase usecase.RecordUsecase) *PredictionHandler {
	return &PredictionHandler{
		predictionUsecase: predictionUsecase,
		recordUsecase:     recordUsecase,
	}
}

func (h *PredictionHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var req dto.PredictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	result, err := h.predictionUsecase.Predict(r.Context(), &req)
	if err != nil {
		respondError(w, err, "Failed to predict disease")
		return
	}

	if result.Warning != "" {
		response.SuccessWithWarning(w, http.StatusOK, "Prediction completed", result, result.Warning)
		return
	}
	response.Success(w, http.StatusOK, "Prediction completed", result)
}

func (h *PredictionHandler) GetModelInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.predictionUsecase.ModelInfo(r.Context())
	if err != nil {
		respondError(w, err, "Failed to get model info")
		return
	}

	response.Success(w, http.StatusOK, "Model info retrieved successfully", info)
}

func (h *PredictionHandler) GetAllPredictions(w http.ResponseWriter, r *http.Request) {
	predictions, err := h.recordUsecase.ListPredictions(r.Context())
	if err != nil {
		respondError(w, err, "Failed to get predictions")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Predictions retrieved successfully", predictions.Predictions, &response.Meta{Total: predictions.Total})
}
