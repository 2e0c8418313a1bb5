package repository

import (
	"medguide/internal/domain/entity"

	"gorm.io/gorm"
)

type AuditLogRepository interface {
	EnsureSchema(db *gorm.DB) error
	Create(db *gorm.DB, log *entity.AuditLog) error
	FindAll(db *gorm.DB) ([]entity.AuditLog, error)
}
