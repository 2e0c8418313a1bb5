package handler

import (
	"net/http"
	"net/url"
	"strings"

	"medguide/internal/delivery/dto"
	"medguide/internal/usecase"
	"medguide/pkg/response"
)

type DashboardHandler struct {
	dashboardUsecase usecase.DashboardUsecase
}

func NewDashboardHandler(dashboardUsecase usecase.DashboardUsecase) *DashboardHandler {
	return &DashboardHandler{
		dashboardUsecase: dashboardUsecase,
	}
}

func (h *DashboardHandler) GetBookingDashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.dashboardUsecase.BookingDashboard(r.Context(), parseDashboardQuery(r.URL.Query()))
	if err != nil {
		respondError(w, err, "Failed to build booking dashboard")
		return
	}

	response.Success(w, http.StatusOK, "Booking dashboard retrieved successfully", summary)
}

func (h *DashboardHandler) GetPredictionDashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.dashboardUsecase.PredictionDashboard(r.Context(), parseDashboardQuery(r.URL.Query()))
	if err != nil {
		respondError(w, err, "Failed to build prediction dashboard")
		return
	}

	response.Success(w, http.StatusOK, "Prediction dashboard retrieved successfully", summary)
}

// parseDashboardQuery accepts filter_values both repeated and comma-separated.
func parseDashboardQuery(values url.Values) *dto.DashboardQuery {
	query := &dto.DashboardQuery{
		From:        strings.TrimSpace(values.Get("from")),
		To:          strings.TrimSpace(values.Get("to")),
		GroupBy:     strings.TrimSpace(values.Get("group_by")),
		FilterField: strings.TrimSpace(values.Get("filter_field")),
	}
	for _, raw := range values["filter_values"] {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				query.FilterValues = append(query.FilterValues, v)
			}
		}
	}
	return query
}
