package usecase

import (
	"context"

	"medguide/internal/converter"
	"medguide/internal/delivery/dto"
	"medguide/internal/domain/errs"
	"medguide/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AuditLogUsecase interface {
	GetAllAuditLogs(ctx context.Context) (*dto.AuditLogListResponse, error)
}

type auditLogUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	auditLogRepo repository.AuditLogRepository
}

func NewAuditLogUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	auditLogRepo repository.AuditLogRepository,
) AuditLogUsecase {
	return &auditLogUsecase{
		db:           db,
		log:          log,
		auditLogRepo: auditLogRepo,
	}
}

func (u *auditLogUsecase) GetAllAuditLogs(ctx context.Context) (*dto.AuditLogListResponse, error) {
	logs, err := u.auditLogRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find all audit logs: %+v", err)
		return nil, errs.Persistence("list audit logs", err)
	}

	logResponses := converter.AuditLogsToResponses(logs)

	return &dto.AuditLogListResponse{
		Logs:  logResponses,
		Total: len(logs),
	}, nil
}
