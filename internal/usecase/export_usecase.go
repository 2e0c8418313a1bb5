package usecase

import (
	"context"
	"fmt"
	"time"

	"medguide/internal/delivery/dto"
	"medguide/internal/domain/entity"
	"medguide/internal/domain/errs"
	"medguide/internal/domain/gateway"
	"medguide/internal/domain/repository"
	"medguide/internal/domain/schema"
	"medguide/internal/export"
	"medguide/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CSVFile is a rendered export.
type CSVFile struct {
	Filename string
	Body     []byte
	Rows     int
}

type ExportUsecase interface {
	ExportCSV(ctx context.Context, kind string) (*CSVFile, error)
	Archive(ctx context.Context, actor, kind string) (*dto.ArchiveResponse, error)
}

type exportUsecase struct {
	db             *gorm.DB
	log            *logrus.Logger
	bookingRepo    repository.BookingRepository
	predictionRepo repository.PredictionRepository
	archive        gateway.ArchiveStore
	auditService   service.AuditService
	timeout        time.Duration
	now            func() time.Time
}

// NewExportUsecase accepts a nil archive; Archive then fails with ErrArchiveNotConfigured.
func NewExportUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	bookingRepo repository.BookingRepository,
	predictionRepo repository.PredictionRepository,
	archive gateway.ArchiveStore,
	auditService service.AuditService,
	timeout time.Duration,
) ExportUsecase {
	return &exportUsecase{
		db:             db,
		log:            log,
		bookingRepo:    bookingRepo,
		predictionRepo: predictionRepo,
		archive:        archive,
		auditService:   auditService,
		timeout:        timeout,
		now:            time.Now,
	}
}

func (u *exportUsecase) ExportCSV(ctx context.Context, kind string) (*CSVFile, error) {
	table, ok := schema.Lookup(kind)
	if !ok {
		return nil, ErrUnknownRecordKind
	}

	var (
		body []byte
		rows int
		err  error
	)
	db := u.db.WithContext(ctx)
	switch table.Kind {
	case schema.KindBookings:
		var bookings []entity.Booking
		if bookings, err = u.bookingRepo.FindAll(db); err == nil {
			rows = len(bookings)
			body, err = export.Bytes(table, bookings)
		}
	case schema.KindPredictions:
		var predictions []entity.Prediction
		if predictions, err = u.predictionRepo.FindAll(db); err == nil {
			rows = len(predictions)
			body, err = export.Bytes(table, predictions)
		}
	}
	if err != nil {
		u.log.Warnf("Failed to export %s: %+v", table.Name(), err)
		return nil, err
	}

	return &CSVFile{
		Filename: fmt.Sprintf("%s_%s.csv", table.Name(), u.now().UTC().Format("20060102")),
		Body:     body,
		Rows:     rows,
	}, nil
}

// Archive uploads the current export to object storage and audits the upload.
func (u *exportUsecase) Archive(ctx context.Context, actor, kind string) (*dto.ArchiveResponse, error) {
	if u.archive == nil {
		return nil, ErrArchiveNotConfigured
	}

	file, err := u.ExportCSV(ctx, kind)
	if err != nil {
		return nil, err
	}

	table, _ := schema.Lookup(kind)
	key := fmt.Sprintf("exports/%s/%s.csv", table.Name(), u.now().UTC().Format("20060102T150405Z"))

	putCtx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()
	location, err := u.archive.Put(putCtx, key, file.Body, export.ContentType)
	if err != nil {
		u.log.Errorf("Failed to archive %s export: %+v", table.Name(), err)
		return nil, errs.Persistence("archive export", err)
	}

	metadata := map[string]interface{}{
		"kind":     table.Name(),
		"location": location,
		"rows":     file.Rows,
	}
	if err := u.auditService.LogAction(ctx, u.db, actor, entity.AuditActionExportArchive, metadata); err != nil {
		u.log.Warnf("Export archived to %s but audit failed: %+v", location, err)
	}

	return &dto.ArchiveResponse{
		Kind:     table.Name(),
		Location: location,
		Rows:     file.Rows,
	}, nil
}
