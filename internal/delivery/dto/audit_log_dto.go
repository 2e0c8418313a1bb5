package dto

import (
	"time"
)

// Response DTOs

type AuditLogResponse struct {
	ID        int64                  `json:"id"`
	Actor     string                 `json:"actor"`
	Action    string                 `json:"action"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

type AuditLogListResponse struct {
	Logs  []AuditLogResponse `json:"logs"`
	Total int                `json:"total"`
}

type ArchiveResponse struct {
	Kind     string `json:"kind"`
	Location string `json:"location"`
	Rows     int    `json:"rows"`
}
