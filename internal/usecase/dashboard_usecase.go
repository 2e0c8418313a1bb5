package usecase

import (
	"context"
	"strings"
	"time"

	"medguide/internal/dashboard"
	"medguide/internal/delivery/dto"
	"medguide/internal/domain/entity"
	"medguide/internal/domain/errs"
	"medguide/internal/domain/repository"
	"medguide/internal/domain/schema"
	"medguide/pkg/validator"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	defaultBookingGroupBy    = "gender"
	defaultPredictionGroupBy = "predicted_disease"
)

// Fields whose stored answers may hold several values joined by commas or "and".
var multiValueFields = []string{
	"chronic_conditions",
	"current_medication",
	"allergies",
	"pain",
	"medication_taken",
	"past_hospitalization_surgery",
}

type DashboardUsecase interface {
	BookingDashboard(ctx context.Context, query *dto.DashboardQuery) (*dto.DashboardResponse, error)
	PredictionDashboard(ctx context.Context, query *dto.DashboardQuery) (*dto.DashboardResponse, error)
}

type dashboardUsecase struct {
	db             *gorm.DB
	log            *logrus.Logger
	validator      *validator.CustomValidator
	bookingRepo    repository.BookingRepository
	predictionRepo repository.PredictionRepository
}

func NewDashboardUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validator *validator.CustomValidator,
	bookingRepo repository.BookingRepository,
	predictionRepo repository.PredictionRepository,
) DashboardUsecase {
	return &dashboardUsecase{
		db:             db,
		log:            log,
		validator:      validator,
		bookingRepo:    bookingRepo,
		predictionRepo: predictionRepo,
	}
}

func (u *dashboardUsecase) BookingDashboard(ctx context.Context, query *dto.DashboardQuery) (*dto.DashboardResponse, error) {
	if err := u.prepare(query, schema.Bookings, defaultBookingGroupBy); err != nil {
		return nil, err
	}

	bookings, err := u.bookingRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to load bookings for dashboard: %+v", err)
		return nil, err
	}

	return summarize(bookings, query), nil
}

func (u *dashboardUsecase) PredictionDashboard(ctx context.Context, query *dto.DashboardQuery) (*dto.DashboardResponse, error) {
	if err := u.prepare(query, schema.Predictions, defaultPredictionGroupBy); err != nil {
		return nil, err
	}

	predictions, err := u.predictionRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to load predictions for dashboard: %+v", err)
		return nil, err
	}

	return summarize(predictions, query), nil
}

// prepare validates the query against the table and fills in parsed dates and defaults.
func (u *dashboardUsecase) prepare(query *dto.DashboardQuery, table schema.Table, defaultGroupBy string) error {
	if err := u.validator.Validate(query); err != nil {
		return errs.NewValidationError(u.validator.FormatValidationErrors(err))
	}

	invalid := map[string]string{}

	if query.From != "" {
		query.FromDate, _ = time.Parse(entity.DateLayout, query.From)
	}
	if query.To != "" {
		query.ToDate, _ = time.Parse(entity.DateLayout, query.To)
	}
	if !query.FromDate.IsZero() && !query.ToDate.IsZero() && query.ToDate.Before(query.FromDate) {
		invalid["to"] = "to must not be before from"
	}

	query.GroupBy = strings.ToLower(strings.TrimSpace(query.GroupBy))
	query.FilterField = strings.ToLower(strings.TrimSpace(query.FilterField))
	if query.GroupBy == "" {
		query.GroupBy = defaultGroupBy
	}
	if _, ok := table.Column(query.GroupBy); !ok {
		invalid["group_by"] = "group_by must be a column of " + table.Name()
	}
	if query.FilterField != "" {
		if _, ok := table.Column(query.FilterField); !ok {
			invalid["filter_field"] = "filter_field must be a column of " + table.Name()
		}
	}

	if len(invalid) > 0 {
		return errs.NewValidationError(invalid)
	}
	return nil
}

func summarize[T entity.Record](records []T, query *dto.DashboardQuery) *dto.DashboardResponse {
	filtered := dashboard.FilterByDateRange(records, query.FromDate, query.ToDate)
	if query.FilterField != "" {
		filtered = dashboard.FilterByAnyValue(filtered, query.FilterField, query.FilterValues)
	}

	var groups []dashboard.Count
	if lo.Contains(multiValueFields, query.GroupBy) {
		groups = dashboard.CountByMultiValue(filtered, query.GroupBy)
	} else {
		groups = dashboard.CountBy(filtered, query.GroupBy)
	}

	return &dto.DashboardResponse{
		Total:   len(filtered),
		GroupBy: query.GroupBy,
		Groups:  groups,
		Daily:   dashboard.DailyCounts(filtered, dashboard.RollingWindow),
	}
}
