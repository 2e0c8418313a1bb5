package dto

import (
	"time"

	"medguide/internal/dashboard"
)

// Request DTOs

// DashboardQuery is parsed from the query string. Dates are YYYY-MM-DD and inclusive.
type DashboardQuery struct {
	From         string   `json:"from" validate:"omitempty,datetime=2006-01-02"`
	To           string   `json:"to" validate:"omitempty,datetime=2006-01-02"`
	GroupBy      string   `json:"group_by"`
	FilterField  string   `json:"filter_field" validate:"required_with=FilterValues"`
	FilterValues []string `json:"filter_values"`

	FromDate time.Time `json:"-"`
	ToDate   time.Time `json:"-"`
}

// Response DTOs

type DashboardResponse struct {
	Total   int                    `json:"total"`
	GroupBy string                 `json:"group_by"`
	Groups  []dashboard.Count      `json:"groups"`
	Daily   []dashboard.DailyPoint `json:"daily"`
}
