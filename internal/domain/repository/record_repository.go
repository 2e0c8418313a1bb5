package repository

import (
	"medguide/internal/domain/entity"
	"medguide/internal/domain/schema"
	"medguide/internal/normalizer"

	"gorm.io/gorm"
)

// RecordRepository is the persistence contract shared by both record kinds and both backends.
type RecordRepository[T entity.Record] interface {
	Table() schema.Table
	EnsureSchema(db *gorm.DB) error
	Insert(db *gorm.DB, record normalizer.Record) (int64, error)
	FindAll(db *gorm.DB) ([]T, error)
	Delete(db *gorm.DB, id int64) error
}

type BookingRepository = RecordRepository[entity.Booking]

type PredictionRepository = RecordRepository[entity.Prediction]
