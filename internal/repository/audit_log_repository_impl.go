package repository

import (
	"medguide/internal/domain/entity"
	domainRepo "medguide/internal/domain/repository"

	"gorm.io/gorm"
)

type auditLogRepository struct{}

func NewAuditLogRepository() domainRepo.AuditLogRepository {
	return &auditLogRepository{}
}

func (r *auditLogRepository) EnsureSchema(db *gorm.DB) error {
	return db.AutoMigrate(&entity.AuditLog{})
}

func (r *auditLogRepository) Create(db *gorm.DB, log *entity.AuditLog) error {
	return db.Create(log).Error
}

func (r *auditLogRepository) FindAll(db *gorm.DB) ([]entity.AuditLog, error) {
	var logs []entity.AuditLog
	err := db.Order("id DESC").Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
