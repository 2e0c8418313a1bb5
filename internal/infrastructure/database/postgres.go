package database

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"medguide/config"
	"medguide/internal/domain/schema"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresConnection(cfg config.DBConfig, logLevel logger.LogLevel) (*gorm.DB, error) {
	dsn, err := postgresDSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	logrus.Info("Successfully connected to PostgreSQL database")

	return db, nil
}

// postgresDSN adds the configured sslmode to DB_URL unless the URL already names one.
// Both URL ("postgres://...") and keyword/value DSNs are accepted. The resulting sslmode
// must be one that always encrypts the connection.
func postgresDSN(cfg config.DBConfig) (string, error) {
	raw := strings.TrimSpace(cfg.URL)
	if raw == "" {
		return "", errors.New("database url is empty")
	}

	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "require"
	}

	if strings.HasPrefix(raw, "postgres://") || strings.HasPrefix(raw, "postgresql://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", fmt.Errorf("invalid database url: %w", err)
		}
		q := u.Query()
		if q.Get("sslmode") == "" {
			q.Set("sslmode", sslMode)
		}
		if err := requireEncrypted(q.Get("sslmode")); err != nil {
			return "", err
		}
		u.RawQuery = q.Encode()
		return u.String(), nil
	}

	for _, field := range strings.Fields(raw) {
		if mode, ok := strings.CutPrefix(field, "sslmode="); ok {
			if err := requireEncrypted(mode); err != nil {
				return "", err
			}
			return raw, nil
		}
	}
	if err := requireEncrypted(sslMode); err != nil {
		return "", err
	}
	return raw + " sslmode=" + sslMode, nil
}

func requireEncrypted(mode string) error {
	if !config.IsEncryptedSSLMode(mode) {
		return fmt.Errorf("sslmode %q does not encrypt the connection", mode)
	}
	return nil
}

type PostgresDialect struct{}

func (PostgresDialect) Name() string {
	return config.DriverPostgres
}

var postgresTypes = columnTypes{
	schema.Text:      "TEXT",
	schema.Integer:   "INTEGER",
	schema.Real:      "REAL",
	schema.Date:      "DATE",
	schema.Timestamp: "TIMESTAMPTZ",
}

func (PostgresDialect) CreateTableSQL(table schema.Table) string {
	return createTableSQL(table, "BIGSERIAL PRIMARY KEY", postgresTypes, "now()")
}

// EnsureTable takes a transaction-scoped advisory lock: two concurrent CREATE TABLE IF NOT EXISTS
// statements can otherwise both pass the existence check and collide on the catalog.
func (d PostgresDialect) EnsureTable(db *gorm.DB, table schema.Table) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", "medguide.schema."+table.Name()).Error; err != nil {
			return err
		}
		return tx.Exec(d.CreateTableSQL(table)).Error
	})
}

func (PostgresDialect) Describe(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case strings.HasPrefix(pgErr.Code, "23"):
			return "constraint violation"
		case pgErr.Code == "42703" || pgErr.Code == "42P01":
			return "schema mismatch"
		case strings.HasPrefix(pgErr.Code, "08"), strings.HasPrefix(pgErr.Code, "57P"):
			return "storage unavailable"
		case strings.HasPrefix(pgErr.Code, "22"):
			return "invalid value"
		}
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return "storage unavailable"
	}
	return "storage error"
}
