package usecase

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"medguide/config"
	"medguide/internal/delivery/dto"
	"medguide/internal/domain/entity"
	"medguide/internal/domain/gateway"
	domainRepo "medguide/internal/domain/repository"
	"medguide/internal/infrastructure/database"
	"medguide/internal/repository"
	"medguide/internal/service"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testTimeout = 2 * time.Second

type testStore struct {
	db          *gorm.DB
	bookings    domainRepo.BookingRepository
	predictions domainRepo.PredictionRepository
	auditLogs   domainRepo.AuditLogRepository
	audit       service.AuditService
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestStore(t *testing.T) *testStore {
	t.Helper()
	db, dialect, err := database.Open(config.DBConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: ":memory:",
	}, logger.Silent)
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})

	store := &testStore{
		db:          db,
		bookings:    repository.NewBookingRepository(dialect),
		predictions: repository.NewPredictionRepository(dialect),
		auditLogs:   repository.NewAuditLogRepository(),
	}
	require.NoError(t, store.bookings.EnsureSchema(db))
	require.NoError(t, store.predictions.EnsureSchema(db))
	require.NoError(t, store.auditLogs.EnsureSchema(db))
	store.audit = service.NewAuditService(quietLogger(), store.auditLogs)
	return store
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func floatPtr(f float64) *float64 { return &f }

func validBookingRequest() *dto.BookingRequest {
	return &dto.BookingRequest{
		Name:                       "Ada Lovelace",
		Email:                      "ada@example.com",
		Gender:                     strPtr("Female"),
		Phone:                      strPtr("+15550100"),
		PreferredDate:              "2025-01-05",
		PreferredTime:              "10:30",
		Problem:                    "Persistent cough",
		StartDate:                  "2024-12-28",
		CurrentConditionAfterStart: "Worse",
		Severity:                   6,
		OccuredBefore:              "No",
		MedicationTaken:            "Paracetamol",
		Fever:                      "Yes",
		Pain:                       "Chest",
		CoughColdBreathShortness:   "Yes",
		ChangeInAppetiteWeight:     "No",
		ChronicConditions:          "Asthma and Diabetes",
		CurrentMedication:          "Inhaler",
		Allergies:                  "None",
		PastHospitalizationSurgery: "None",
		SmokeOrAlcohol:             "No",
		SleepHours:                 intPtr(7),
		ExerciseFrequency:          "A few times a week",
		StressFatigue:              "Yes",
		WomenStatus:                "None of the above",
		OtherNotes:                 "-",
	}
}

func validPredictionRequest() *dto.PredictionRequest {
	return &dto.PredictionRequest{
		Name:                strPtr("Ada"),
		Age:                 intPtr(34),
		Gender:              "Female",
		Fever:               floatPtr(38.5),
		Cough:               intPtr(1),
		Headache:            intPtr(1),
		Fatigue:             intPtr(3),
		Nausea:              intPtr(0),
		MusclePain:          intPtr(2),
		ShortnessOfBreath:   intPtr(1),
		LossOfTaste:         intPtr(0),
		AbdominalPain:       intPtr(0),
		AppetiteLoss:        intPtr(1),
		FrequentUrination:   intPtr(0),
		ThirstLevel:         intPtr(1),
		BlurredVision:       intPtr(0),
		SymptomDurationDays: intPtr(4),
		Severity:            intPtr(3),
	}
}

type fakeNotifier struct {
	mu      sync.Mutex
	err     error
	notices []gateway.BookingNotice
}

func (f *fakeNotifier) NotifyBooking(_ context.Context, notice gateway.BookingNotice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notices = append(f.notices, notice)
	return f.err
}

type fakePreprocessor struct {
	info    gateway.ModelInfo
	err     error
	columns []string
	rows    [][]any
}

func (f *fakePreprocessor) Info() gateway.ModelInfo { return f.info }

func (f *fakePreprocessor) Transform(_ context.Context, columns []string, rows [][]any) ([][]float64, error) {
	f.columns, f.rows = columns, rows
	if f.err != nil {
		return nil, f.err
	}
	encoded := make([][]float64, len(rows))
	for i := range rows {
		encoded[i] = make([]float64, len(columns))
	}
	return encoded, nil
}

type fakeClassifier struct {
	labels []string
	err    error
	calls  int
}

func (f *fakeClassifier) Predict(_ context.Context, _ [][]float64) ([]string, error) {
	f.calls++
	return f.labels, f.err
}

type fakeChatModel struct {
	reply    string
	err      error
	received [][]entity.ChatMessage
}

func (f *fakeChatModel) Complete(ctx context.Context, messages []entity.ChatMessage) (string, error) {
	f.received = append(f.received, messages)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakeTranslator struct {
	err error
}

func (f *fakeTranslator) Translate(_ context.Context, text, lang string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "[" + lang + "] " + text, nil
}

type fakeArchive struct {
	key  string
	body []byte
	err  error
}

func (f *fakeArchive) Put(_ context.Context, key string, body []byte, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.key, f.body = key, body
	return "s3://archive/" + key, nil
}

var errCollaboratorDown = errors.New("collaborator down")
