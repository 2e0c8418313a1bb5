package database

import (
	"fmt"
	"strings"

	"medguide/config"
	"medguide/internal/domain/schema"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Dialect is what differs between the embedded and the networked backend.
type Dialect interface {
	Name() string
	// CreateTableSQL renders an idempotent CREATE TABLE IF NOT EXISTS statement.
	CreateTableSQL(table schema.Table) string
	// EnsureTable runs CreateTableSQL so that concurrent callers cannot corrupt the table.
	EnsureTable(db *gorm.DB, table schema.Table) error
	// Describe names the failure class of a driver error.
	Describe(err error) string
}

// Open connects to the backend selected by cfg.Driver.
func Open(cfg config.DBConfig, logLevel logger.LogLevel) (*gorm.DB, Dialect, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := NewSQLiteConnection(cfg, logLevel)
		if err != nil {
			return nil, nil, err
		}
		return db, SQLiteDialect{}, nil
	case config.DriverPostgres:
		db, err := NewPostgresConnection(cfg, logLevel)
		if err != nil {
			return nil, nil, err
		}
		return db, PostgresDialect{}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

type columnTypes map[schema.ColumnType]string

func createTableSQL(table schema.Table, identity string, types columnTypes, now string) string {
	defs := make([]string, 0, len(table.Columns)+1)
	defs = append(defs, schema.IdentityColumn+" "+identity)
	for _, col := range table.Columns {
		def := col.Name + " " + types[col.Type]
		if !col.Nullable {
			def += " NOT NULL"
		}
		if col.Name == table.StampColumn {
			def += " DEFAULT " + now
		}
		defs = append(defs, def)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", table.Name(), strings.Join(defs, ",\n\t"))
}
