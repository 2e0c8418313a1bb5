package handler

import (
	"errors"
	"net/http"

	"medguide/internal/delivery/http/middleware"
	"medguide/internal/usecase"
	"medguide/pkg/response"

	"github.com/gorilla/mux"
)

type ExportHandler struct {
	exportUsecase usecase.ExportUsecase
}

func NewExportHandler(exportUsecase usecase.ExportUsecase) *ExportHandler {
	return &ExportHandler{
		exportUsecase: exportUsecase,
	}
}

func (h *ExportHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	file, err := h.exportUsecase.ExportCSV(r.Context(), mux.Vars(r)["kind"])
	if err != nil {
		if errors.Is(err, usecase.ErrUnknownRecordKind) {
			response.NotFound(w, "Unknown record kind")
			return
		}
		respondError(w, err, "Failed to export records")
		return
	}

	response.CSV(w, file.Filename, file.Body)
}

func (h *ExportHandler) ArchiveExport(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetSubjectFromContext(r.Context())
	archived, err := h.exportUsecase.Archive(r.Context(), actor, mux.Vars(r)["kind"])
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUnknownRecordKind):
			response.NotFound(w, "Unknown record kind")
		case errors.Is(err, usecase.ErrArchiveNotConfigured):
			response.ServiceUnavailable(w, "Export archive is not configured")
		default:
			respondError(w, err, "Failed to archive export")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Export archived successfully", archived)
}
