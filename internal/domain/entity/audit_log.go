package entity

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog records an administrative action against stored records
type AuditLog struct {
	ID        int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	Actor     string            `gorm:"type:varchar(100);not null;index" json:"actor"`
	Action    string            `gorm:"type:varchar(100);not null;index" json:"action"`
	Metadata  datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// Common audit actions
const (
	AuditActionAdminLogin    = "admin.login"
	AuditActionBookingDelete = "booking.delete"
	AuditActionExportArchive = "export.archive"
)
