package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	log "github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

type logrusGooseLogger struct{}

func (logrusGooseLogger) Fatalf(format string, v ...interface{}) { log.Fatalf(format, v...) }
func (logrusGooseLogger) Printf(format string, v ...interface{}) { log.Debugf(format, v...) }

func init() {
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(logrusGooseLogger{})
}

// OpenSQL opens a database/sql handle through the pgx stdlib driver, used by goose
func OpenSQL(params NewDBPoolParams) (*sql.DB, error) {
	sqlDB, err := sql.Open("pgx", ConnString(params))
	if err != nil {
		return nil, fmt.Errorf("open sql db: %w", err)
	}
	return sqlDB, nil
}

func setDialect() error {
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return nil
}

// MigrateUp applies all pending migrations
func MigrateUp(ctx context.Context, sqlDB *sql.DB) error {
	if err := setDialect(); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, sqlDB, migrationsDir); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// MigrateDown rolls back the latest migration
func MigrateDown(ctx context.Context, sqlDB *sql.DB) error {
	if err := setDialect(); err != nil {
		return err
	}
	if err := goose.DownContext(ctx, sqlDB, migrationsDir); err != nil {
		return fmt.Errorf("migrate down: %w", err)
	}
	return nil
}

// MigrationsStatus logs the applied state of every migration
func MigrationsStatus(ctx context.Context, sqlDB *sql.DB) error {
	if err := setDialect(); err != nil {
		return err
	}
	return goose.StatusContext(ctx, sqlDB, migrationsDir)
}

// MigrationsVersion returns the current schema version
func MigrationsVersion(ctx context.Context, sqlDB *sql.DB) (int64, error) {
	if err := setDialect(); err != nil {
		return 0, err
	}
	return goose.GetDBVersionContext(ctx, sqlDB)
}
