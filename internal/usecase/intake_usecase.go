package usecase

import (
	"context"
	"time"

	"medguide/internal/converter"
	"medguide/internal/delivery/dto"
	"medguide/internal/domain/entity"
	"medguide/internal/domain/errs"
	"medguide/internal/domain/gateway"
	"medguide/internal/domain/repository"
	"medguide/internal/infrastructure/monitoring"
	"medguide/internal/normalizer"
	"medguide/pkg/validator"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const notificationWarning = "Booking saved, but the clinic could not be notified"

// IntakeUsecase runs a booking submission through
// collecting -> validating -> normalizing -> persisting -> notifying -> booked.
// A rejected submission never reaches storage; a failed notification never undoes a booking.
type IntakeUsecase interface {
	SubmitBooking(ctx context.Context, req *dto.BookingRequest) (*dto.BookingConfirmation, error)
}

type intakeUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	validator   *validator.CustomValidator
	bookingRepo repository.BookingRepository
	notifier    gateway.Notifier
	metrics     *monitoring.Metrics
	timeout     time.Duration
	now         func() time.Time
}

// NewIntakeUsecase accepts a nil notifier (bookings are then stored without notification).
func NewIntakeUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validator *validator.CustomValidator,
	bookingRepo repository.BookingRepository,
	notifier gateway.Notifier,
	metrics *monitoring.Metrics,
	timeout time.Duration,
) IntakeUsecase {
	return &intakeUsecase{
		db:          db,
		log:         log,
		validator:   validator,
		bookingRepo: bookingRepo,
		notifier:    notifier,
		metrics:     metrics,
		timeout:     timeout,
		now:         time.Now,
	}
}

func (u *intakeUsecase) SubmitBooking(ctx context.Context, req *dto.BookingRequest) (*dto.BookingConfirmation, error) {
	u.enter(entity.IntakeStateCollecting, 0)
	if req == nil {
		return nil, u.reject(errs.NewValidationError(map[string]string{"body": "booking form is empty"}))
	}

	u.enter(entity.IntakeStateValidating, 0)
	validator.TrimStrings(req)
	if err := u.validator.Validate(req); err != nil {
		fields := u.validator.FormatValidationErrors(err)
		if len(fields) == 0 {
			fields = map[string]string{"body": err.Error()}
		}
		return nil, u.reject(errs.NewValidationError(fields))
	}

	u.enter(entity.IntakeStateNormalizing, 0)
	submittedAt := u.now().UTC().Truncate(time.Second)
	form := converter.BookingRequestToForm(req)
	form["Submitted_On"] = submittedAt.Format(entity.TimestampLayout)
	record, err := normalizer.Normalize(form)
	if err != nil {
		return nil, u.reject(err)
	}

	u.enter(entity.IntakeStatePersisting, 0)
	id, err := u.persist(ctx, record)
	if err != nil {
		u.log.Errorf("Failed to persist booking: %+v", err)
		u.metrics.ObserveIntake(string(entity.IntakeStateFailed))
		monitoring.CaptureError(err, map[string]interface{}{"state": entity.IntakeStatePersisting})
		return nil, err
	}

	confirmation := &dto.BookingConfirmation{
		ID:     id,
		Record: record,
	}

	u.enter(entity.IntakeStateNotifying, id)
	if err := u.notify(ctx, gateway.BookingNotice{ID: id, Record: record, SubmittedAt: submittedAt}); err != nil {
		u.log.Warnf("Booking %d stored but notification failed: %+v", id, err)
		u.metrics.ObserveNotificationFailure()
		confirmation.NotificationError = err
		confirmation.Warning = notificationWarning
	} else {
		confirmation.Notified = u.notifier != nil
	}

	confirmation.State = entity.IntakeStateBooked
	u.enter(entity.IntakeStateBooked, id)
	u.metrics.ObserveIntake(string(entity.IntakeStateBooked))

	return confirmation, nil
}

func (u *intakeUsecase) persist(ctx context.Context, record normalizer.Record) (int64, error) {
	callCtx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()
	return u.bookingRepo.Insert(u.db.WithContext(callCtx), record)
}

func (u *intakeUsecase) notify(ctx context.Context, notice gateway.BookingNotice) error {
	if u.notifier == nil {
		return nil
	}
	callCtx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()
	return errs.Notification("notify booking", u.notifier.NotifyBooking(callCtx, notice))
}

func (u *intakeUsecase) reject(err error) error {
	u.enter(entity.IntakeStateRejected, 0)
	u.metrics.ObserveIntake(string(entity.IntakeStateRejected))
	u.log.Infof("Booking rejected: %v", err)
	return err
}

func (u *intakeUsecase) enter(state entity.IntakeState, id int64) {
	u.log.WithFields(logrus.Fields{"state": state, "booking_id": id}).Debug("intake transition")
}
