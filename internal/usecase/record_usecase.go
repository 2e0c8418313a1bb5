package usecase

import (
	"context"
	"strconv"

	"medguide/internal/delivery/dto"
	"medguide/internal/domain/entity"
	"medguide/internal/domain/errs"
	"medguide/internal/domain/repository"
	"medguide/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RecordUsecase gives administrators read access to stored records and lets them remove bookings.
type RecordUsecase interface {
	ListBookings(ctx context.Context) (*dto.BookingListResponse, error)
	ListPredictions(ctx context.Context) (*dto.PredictionListResponse, error)
	DeleteBooking(ctx context.Context, actor string, id int64) error
}

type recordUsecase struct {
	db             *gorm.DB
	log            *logrus.Logger
	bookingRepo    repository.BookingRepository
	predictionRepo repository.PredictionRepository
	auditService   service.AuditService
}

func NewRecordUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	bookingRepo repository.BookingRepository,
	predictionRepo repository.PredictionRepository,
	auditService service.AuditService,
) RecordUsecase {
	return &recordUsecase{
		db:             db,
		log:            log,
		bookingRepo:    bookingRepo,
		predictionRepo: predictionRepo,
		auditService:   auditService,
	}
}

func (u *recordUsecase) ListBookings(ctx context.Context) (*dto.BookingListResponse, error) {
	bookings, err := u.bookingRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find all bookings: %+v", err)
		return nil, err
	}

	return &dto.BookingListResponse{
		Bookings: bookings,
		Total:    len(bookings),
	}, nil
}

func (u *recordUsecase) ListPredictions(ctx context.Context) (*dto.PredictionListResponse, error) {
	predictions, err := u.predictionRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find all predictions: %+v", err)
		return nil, err
	}

	return &dto.PredictionListResponse{
		Predictions: predictions,
		Total:       len(predictions),
	}, nil
}

// DeleteBooking removes the booking and records who did it. A missing id is not an error.
func (u *recordUsecase) DeleteBooking(ctx context.Context, actor string, id int64) error {
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return errs.Persistence("begin delete booking", tx.Error)
	}
	defer tx.Rollback()

	if err := u.bookingRepo.Delete(tx, id); err != nil {
		u.log.Warnf("Failed to delete booking %d: %+v", id, err)
		return err
	}

	if err := u.auditService.LogDelete(ctx, tx, actor, entity.AuditActionBookingDelete, "booking", strconv.FormatInt(id, 10)); err != nil {
		return errs.Persistence("audit delete booking", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return errs.Persistence("commit delete booking", err)
	}

	return nil
}
