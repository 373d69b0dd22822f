package config

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB is a global variable to hold the database connection
var DB *gorm.DB

// NewDBConnection opens the database selected by settings.Type. GORM
// warnings and errors are written to log at warn level; a nil log uses
// slog.Default().
func NewDBConnection(settings DatabaseSettings, log *slog.Logger) (*gorm.DB, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}

	cfg := &gorm.Config{
		Logger: gormlogger.New(slog.NewLogLogger(log.Handler(), slog.LevelWarn), gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		}),
		TranslateError: true,
	}

	var (
		db  *gorm.DB
		err error
	)
	switch settings.Type {
	case PostgresDbType:
		db, err = gorm.Open(postgres.Open(settings.DSN), cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
	case SqliteDbType:
		db, err = gorm.Open(sqlite.Open(settings.DSN), cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to SQLite: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported database type: %s", settings.Type)
	}

	return db, nil
}

// CloseDB releases the underlying connection pool.
func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB from gorm: %w", err)
	}
	return sqlDB.Close()
}
