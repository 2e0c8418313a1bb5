package database

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"medguide/config"
	"medguide/internal/domain/schema"

	"github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewSQLiteConnection(cfg config.DBConfig, logLevel logger.LogLevel) (*gorm.DB, error) {
	path := cfg.SQLitePath
	if path == "" {
		return nil, errors.New("database path is empty")
	}

	if !isMemoryPath(path) {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}

	db, err := gorm.Open(sqlite.Open(sqliteDSN(path)), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// One connection serializes writers and keeps ":memory:" databases shared across calls.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	logrus.Infof("Successfully opened SQLite database at %s", path)

	return db, nil
}

func isMemoryPath(path string) bool {
	return path == ":memory:" || strings.HasPrefix(path, "file::memory:")
}

func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_busy_timeout=5000"
}

type SQLiteDialect struct{}

func (SQLiteDialect) Name() string {
	return config.DriverSQLite
}

var sqliteTypes = columnTypes{
	schema.Text:      "TEXT",
	schema.Integer:   "INTEGER",
	schema.Real:      "REAL",
	schema.Date:      "DATE",
	schema.Timestamp: "TIMESTAMP",
}

// CreateTableSQL uses AUTOINCREMENT so ids of deleted rows are never handed out again.
func (SQLiteDialect) CreateTableSQL(table schema.Table) string {
	return createTableSQL(table, "INTEGER PRIMARY KEY AUTOINCREMENT", sqliteTypes, "CURRENT_TIMESTAMP")
}

func (d SQLiteDialect) EnsureTable(db *gorm.DB, table schema.Table) error {
	return db.Exec(d.CreateTableSQL(table)).Error
}

func (SQLiteDialect) Describe(err error) string {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code {
		case sqlite3.ErrConstraint:
			return "constraint violation"
		case sqlite3.ErrBusy, sqlite3.ErrLocked:
			return "database busy"
		case sqlite3.ErrCantOpen, sqlite3.ErrIoErr:
			return "storage unavailable"
		}
		if strings.Contains(sqliteErr.Error(), "no such column") || strings.Contains(sqliteErr.Error(), "no such table") {
			return "schema mismatch"
		}
	}
	return "storage error"
}
