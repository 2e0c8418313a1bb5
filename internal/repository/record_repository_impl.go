package repository

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"medguide/internal/domain/entity"
	"medguide/internal/domain/errs"
	domainRepo "medguide/internal/domain/repository"
	"medguide/internal/domain/schema"
	"medguide/internal/infrastructure/database"
	"medguide/internal/normalizer"

	"gorm.io/gorm"
)

// Layouts accepted for timestamp columns, tried in order.
var timestampLayouts = []string{
	entity.TimestampLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999-07:00",
	entity.DateLayout,
}

type recordRepository[T entity.Record] struct {
	table   schema.Table
	dialect database.Dialect
	now     func() time.Time
}

func NewRecordRepository[T entity.Record](table schema.Table, dialect database.Dialect) domainRepo.RecordRepository[T] {
	return newRecordRepository[T](table, dialect, time.Now)
}

func newRecordRepository[T entity.Record](table schema.Table, dialect database.Dialect, now func() time.Time) *recordRepository[T] {
	return &recordRepository[T]{
		table:   table,
		dialect: dialect,
		now:     now,
	}
}

func NewBookingRepository(dialect database.Dialect) domainRepo.BookingRepository {
	return NewRecordRepository[entity.Booking](schema.Bookings, dialect)
}

func NewPredictionRepository(dialect database.Dialect) domainRepo.PredictionRepository {
	return NewRecordRepository[entity.Prediction](schema.Predictions, dialect)
}

func (r *recordRepository[T]) Table() schema.Table {
	return r.table
}

func (r *recordRepository[T]) EnsureSchema(db *gorm.DB) error {
	if err := r.dialect.EnsureTable(db, r.table); err != nil {
		return errs.Persistence("ensure schema "+r.table.Name(), r.describe(err))
	}
	return nil
}

// Insert appends one row in a single INSERT ... RETURNING statement, so the id comes from
// the backend's sequence and no read-modify-write happens on the client side.
func (r *recordRepository[T]) Insert(db *gorm.DB, record normalizer.Record) (int64, error) {
	op := "insert " + r.table.Name()

	columns, values, err := r.bind(record)
	if err != nil {
		return 0, errs.Persistence(op, err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		r.table.Name(), strings.Join(columns, ", "), placeholders, schema.IdentityColumn)

	var id int64
	result := db.Raw(stmt, values...).Scan(&id)
	if result.Error != nil {
		return 0, errs.Persistence(op, r.describe(result.Error))
	}
	if result.RowsAffected == 0 || id == 0 {
		return 0, errs.Persistence(op, errors.New("backend did not return an id"))
	}

	return id, nil
}

func (r *recordRepository[T]) FindAll(db *gorm.DB) ([]T, error) {
	records := make([]T, 0)
	err := db.Table(r.table.Name()).
		Order(schema.IdentityColumn + " DESC").
		Find(&records).Error
	if err != nil {
		return nil, errs.Persistence("list "+r.table.Name(), r.describe(err))
	}
	return records, nil
}

// Delete removes the row if present; a missing id is not an error.
func (r *recordRepository[T]) Delete(db *gorm.DB, id int64) error {
	stmt := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", r.table.Name(), schema.IdentityColumn)
	if err := db.Exec(stmt, id).Error; err != nil {
		return errs.Persistence("delete "+r.table.Name(), r.describe(err))
	}
	return nil
}

func (r *recordRepository[T]) describe(err error) error {
	return fmt.Errorf("%s: %w", r.dialect.Describe(err), err)
}

// bind maps record keys onto schema columns (in table order) and converts each value to the
// column type. The stamp column is filled with the current time when the record omits it.
func (r *recordRepository[T]) bind(record normalizer.Record) ([]string, []any, error) {
	values := make(map[string]string, len(record))
	for key, value := range record {
		name := strings.ToLower(strings.TrimSpace(key))
		if name == schema.IdentityColumn {
			return nil, nil, errors.New("identity column is assigned by the backend")
		}
		if _, ok := r.table.Column(name); !ok {
			return nil, nil, fmt.Errorf("unknown column %q for table %s", key, r.table.Name())
		}
		if _, dup := values[name]; dup {
			return nil, nil, fmt.Errorf("column %q given more than once", name)
		}
		values[name] = value
	}

	columns := make([]string, 0, len(values)+1)
	args := make([]any, 0, len(values)+1)
	for _, col := range r.table.Columns {
		raw, ok := values[col.Name]
		if col.Name == r.table.StampColumn && (!ok || strings.TrimSpace(raw) == "") {
			columns = append(columns, col.Name)
			args = append(args, r.now().UTC())
			continue
		}
		if !ok {
			continue
		}

		value, err := convert(col, raw)
		if err != nil {
			return nil, nil, err
		}
		columns = append(columns, col.Name)
		args = append(args, value)
	}

	return columns, args, nil
}

func convert(col schema.Column, raw string) (any, error) {
	value := strings.TrimSpace(raw)
	if value == "" && col.Nullable {
		return nil, nil
	}

	switch col.Type {
	case schema.Integer:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			// Sliders and numeric inputs may hand over "7.0".
			f, ferr := strconv.ParseFloat(value, 64)
			if ferr != nil || f != float64(int64(f)) {
				return nil, fmt.Errorf("column %s expects an integer, got %q", col.Name, raw)
			}
			n = int64(f)
		}
		return n, nil
	case schema.Real:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("column %s expects a number, got %q", col.Name, raw)
		}
		return f, nil
	case schema.Date:
		t, err := parseTime(value)
		if err != nil {
			return nil, fmt.Errorf("column %s expects a date (YYYY-MM-DD), got %q", col.Name, raw)
		}
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	case schema.Timestamp:
		t, err := parseTime(value)
		if err != nil {
			return nil, fmt.Errorf("column %s expects a timestamp, got %q", col.Name, raw)
		}
		return t.UTC(), nil
	default:
		return raw, nil
	}
}

func parseTime(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
