package service

import (
	"context"

	"medguide/internal/domain/entity"
	"medguide/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AuditService interface {
	LogAction(ctx context.Context, tx *gorm.DB, actor, action string, metadata map[string]interface{}) error
	LogDelete(ctx context.Context, tx *gorm.DB, actor, action, entityName, entityID string) error
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

// LogAction records an administrative action inside the caller's transaction.
func (s *auditService) LogAction(ctx context.Context, tx *gorm.DB, actor, action string, metadata map[string]interface{}) error {
	auditLog := &entity.AuditLog{
		Actor:    actor,
		Action:   action,
		Metadata: datatypes.JSONMap(metadata),
	}

	if err := s.auditRepo.Create(tx.WithContext(ctx), auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		return err
	}

	return nil
}

// LogDelete logs a delete action
func (s *auditService) LogDelete(ctx context.Context, tx *gorm.DB, actor, action, entityName, entityID string) error {
	return s.LogAction(ctx, tx, actor, action, map[string]interface{}{
		"entity":    entityName,
		"entity_id": entityID,
	})
}
