package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"medguide/config"
	"medguide/internal/delivery/dto"
	"medguide/internal/domain/entity"
	"medguide/internal/domain/errs"
	"medguide/internal/normalizer"
	"medguide/pkg/jwt"
	"medguide/pkg/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func seedBooking(t *testing.T, store *testStore, name, gender, conditions, submittedOn string) int64 {
	t.Helper()
	record := normalizer.Record{
		"name":                          name,
		"email":                         "patient@example.com",
		"preferred_date":                "2025-01-05",
		"preferred_time":                "10:30",
		"problem":                       "Cough",
		"start_date":                    "2024-12-28",
		"current_condition_after_start": "Same",
		"severity":                      "4",
		"occured_before":                "No",
		"medication_taken":              "None",
		"fever":                         "No",
		"pain":                          "None",
		"cough_cold_breath_shortness":   "Yes",
		"change_in_appetite_weight":     "No",
		"chronic_conditions":            conditions,
		"current_medication":            "None",
		"allergies":                     "None",
		"past_hospitalization_surgery":  "None",
		"smoke_or_alcohol":              "No",
		"sleep_hours":                   "7",
		"exercise_frequency":            "Rarely",
		"stress_fatigue":                "No",
		"women_status":                  "None of the above",
		"other_notes":                   "-",
		"submitted_on":                  submittedOn,
	}
	if gender != "" {
		record["gender"] = gender
	}
	id, err := store.bookings.Insert(store.db, record)
	require.NoError(t, err)
	return id
}

func TestRecordUsecase_ListAndDelete(t *testing.T) {
	store := newTestStore(t)
	uc := NewRecordUsecase(store.db, quietLogger(), store.bookings, store.predictions, store.audit)
	ctx := context.Background()

	empty, err := uc.ListBookings(ctx)
	require.NoError(t, err)
	assert.Zero(t, empty.Total)
	assert.NotNil(t, empty.Bookings)

	first := seedBooking(t, store, "Ada", "Female", "Asthma", "2025-01-01 08:00:00")
	second := seedBooking(t, store, "Bob", "Male", "None", "2025-01-02 08:00:00")

	list, err := uc.ListBookings(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, list.Total)
	assert.Equal(t, second, list.Bookings[0].ID)

	require.NoError(t, uc.DeleteBooking(ctx, AdminSubject, first))
	require.NoError(t, uc.DeleteBooking(ctx, AdminSubject, 9999))

	list, err = uc.ListBookings(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, second, list.Bookings[0].ID)

	logs, err := store.auditLogs.FindAll(store.db)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, entity.AuditActionBookingDelete, logs[1].Action)
	assert.Equal(t, AdminSubject, logs[1].Actor)
	assert.Equal(t, "booking", logs[1].Metadata["entity"])

	predictions, err := uc.ListPredictions(ctx)
	require.NoError(t, err)
	assert.Zero(t, predictions.Total)
}

func TestDashboardUsecase_BookingDashboard(t *testing.T) {
	store := newTestStore(t)
	seedBooking(t, store, "Ada", "Female", "Asthma and Diabetes", "2025-01-01 09:00:00")
	seedBooking(t, store, "Bea", "Female", "Diabetes", "2025-01-05 09:00:00")
	seedBooking(t, store, "Cal", "", "None", "2025-01-10 09:00:00")

	uc := NewDashboardUsecase(store.db, quietLogger(), validator.NewValidator(), store.bookings, store.predictions)
	ctx := context.Background()

	t.Run("defaults to gender over everything", func(t *testing.T) {
		res, err := uc.BookingDashboard(ctx, &dto.DashboardQuery{})
		require.NoError(t, err)
		assert.Equal(t, 3, res.Total)
		assert.Equal(t, "gender", res.GroupBy)
		require.Len(t, res.Groups, 2)
		assert.Equal(t, "Female", res.Groups[0].Value)
		assert.Equal(t, 2, res.Groups[0].Count)
		assert.Len(t, res.Daily, 10)
	})

	t.Run("inclusive date range", func(t *testing.T) {
		res, err := uc.BookingDashboard(ctx, &dto.DashboardQuery{From: "2025-01-02", To: "2025-01-06"})
		require.NoError(t, err)
		assert.Equal(t, 1, res.Total)
	})

	t.Run("multi value grouping and filter", func(t *testing.T) {
		res, err := uc.BookingDashboard(ctx, &dto.DashboardQuery{
			GroupBy:      "Chronic_Conditions",
			FilterField:  "chronic_conditions",
			FilterValues: []string{"diabetes"},
		})
		require.NoError(t, err)
		assert.Equal(t, 2, res.Total)
		assert.Equal(t, "chronic_conditions", res.GroupBy)
		require.NotEmpty(t, res.Groups)
		assert.Equal(t, "Diabetes", res.Groups[0].Value)
		assert.Equal(t, 2, res.Groups[0].Count)
	})

	t.Run("invalid queries", func(t *testing.T) {
		queries := map[string]*dto.DashboardQuery{
			"to":           {From: "2025-01-06", To: "2025-01-02"},
			"group_by":     {GroupBy: "favourite_colour"},
			"filter_field": {FilterField: "nope", FilterValues: []string{"x"}},
			"from":         {From: "01/02/2025"},
		}
		for field, q := range queries {
			_, err := uc.BookingDashboard(ctx, q)
			var validationErr *errs.ValidationError
			require.True(t, errors.As(err, &validationErr), field)
			assert.Contains(t, validationErr.Fields, field)
		}
	})
}

func TestDashboardUsecase_PredictionDashboardEmpty(t *testing.T) {
	store := newTestStore(t)
	uc := NewDashboardUsecase(store.db, quietLogger(), validator.NewValidator(), store.bookings, store.predictions)

	res, err := uc.PredictionDashboard(context.Background(), &dto.DashboardQuery{})
	require.NoError(t, err)
	assert.Zero(t, res.Total)
	assert.Equal(t, "predicted_disease", res.GroupBy)
	assert.Empty(t, res.Groups)
	assert.Empty(t, res.Daily)
}

func TestExportUsecase(t *testing.T) {
	store := newTestStore(t)
	seedBooking(t, store, "Ada, Countess", "Female", "Asthma", "2025-01-01 09:00:00")
	archive := &fakeArchive{}

	uc := NewExportUsecase(store.db, quietLogger(), store.bookings, store.predictions, archive, store.audit, testTimeout).(*exportUsecase)
	uc.now = func() time.Time { return time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC) }
	ctx := context.Background()

	file, err := uc.ExportCSV(ctx, "bookings")
	require.NoError(t, err)
	assert.Equal(t, "bookings_20250203.csv", file.Filename)
	assert.Equal(t, 1, file.Rows)
	lines := strings.Split(strings.TrimSpace(string(file.Body)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "id,name,email,"))
	assert.Contains(t, lines[1], `"Ada, Countess"`)

	_, err = uc.ExportCSV(ctx, "doctors")
	assert.ErrorIs(t, err, ErrUnknownRecordKind)

	archived, err := uc.Archive(ctx, AdminSubject, "bookings")
	require.NoError(t, err)
	assert.Equal(t, "exports/bookings/20250203T040506Z.csv", archive.key)
	assert.Equal(t, "s3://archive/exports/bookings/20250203T040506Z.csv", archived.Location)
	assert.Equal(t, file.Body, archive.body)

	logs, err := store.auditLogs.FindAll(store.db)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, entity.AuditActionExportArchive, logs[0].Action)

	predictions, err := uc.ExportCSV(ctx, "predictions")
	require.NoError(t, err)
	assert.Zero(t, predictions.Rows)
}

func TestExportUsecase_ArchiveErrors(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	unconfigured := NewExportUsecase(store.db, quietLogger(), store.bookings, store.predictions, nil, store.audit, testTimeout)
	_, err := unconfigured.Archive(ctx, AdminSubject, "bookings")
	assert.ErrorIs(t, err, ErrArchiveNotConfigured)

	failing := NewExportUsecase(store.db, quietLogger(), store.bookings, store.predictions, &fakeArchive{err: errCollaboratorDown}, store.audit, testTimeout)
	_, err = failing.Archive(ctx, AdminSubject, "bookings")
	assert.ErrorIs(t, err, errs.ErrPersistence)
}

func TestAuthUsecase_AdminLogin(t *testing.T) {
	store := newTestStore(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("open-sesame"), bcrypt.MinCost)
	require.NoError(t, err)

	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "test-secret", AccessExpiry: time.Hour})
	uc := NewAuthUsecase(store.db, quietLogger(), config.AdminConfig{AccessCodeHash: string(hash)}, jwtService, store.audit)
	ctx := context.Background()

	token, err := uc.AdminLogin(ctx, &dto.AdminLoginRequest{AccessCode: "open-sesame"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.Equal(t, int64(3600), token.ExpiresIn)

	claims, err := jwtService.ValidateToken(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, jwt.RoleAdmin, claims.Role)
	assert.Equal(t, AdminSubject, claims.Subject)

	_, err = uc.AdminLogin(ctx, &dto.AdminLoginRequest{AccessCode: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidAccessCode)

	logs, err := store.auditLogs.FindAll(store.db)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, entity.AuditActionAdminLogin, logs[0].Action)

	disabled := NewAuthUsecase(store.db, quietLogger(), config.AdminConfig{}, jwtService, store.audit)
	_, err = disabled.AdminLogin(ctx, &dto.AdminLoginRequest{AccessCode: "open-sesame"})
	assert.ErrorIs(t, err, ErrAdminLoginDisabled)
}

func TestAuditLogUsecase_NewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.audit.LogAction(ctx, store.db, "admin", entity.AuditActionAdminLogin, nil))
	require.NoError(t, store.audit.LogDelete(ctx, store.db, "admin", entity.AuditActionBookingDelete, "booking", "7"))

	uc := NewAuditLogUsecase(store.db, quietLogger(), store.auditLogs)
	res, err := uc.GetAllAuditLogs(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, res.Total)
	assert.Equal(t, entity.AuditActionBookingDelete, res.Logs[0].Action)
	assert.Equal(t, "7", res.Logs[0].Metadata["entity_id"])
}
