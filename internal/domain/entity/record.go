package entity

import "time"

// Record is a stored row of either kind, as seen by the dashboard and export layers.
type Record interface {
	RecordID() int64
	StampedAt() time.Time
	Fields() map[string]string
}
