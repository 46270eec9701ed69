package database

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/array/applications-console/internal/config"
	"github.com/array/applications-console/internal/models"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB wraps the gorm connection used for analytics snapshot history
type DB struct {
	*gorm.DB
	logger *slog.Logger
}

// Connect opens the configured database. Driver is "postgres" or "sqlite".
func Connect(cfg config.DatabaseConfig, log *slog.Logger) (*DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "", "postgres":
		dialector = postgres.Open(cfg.DSN())
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := Open(dialector, log)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxConnections)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	db.logger.Info("Database connected", "driver", dialector.Name())
	return db, nil
}

// Open wraps an arbitrary dialector, used by Connect and by tests
func Open(dialector gorm.Dialector, log *slog.Logger) (*DB, error) {
	if log == nil {
		log = slog.Default()
	}
	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &DB{DB: gdb, logger: log}, nil
}

// AutoMigrate creates or updates the schema
func (db *DB) AutoMigrate() error {
	if err := db.DB.AutoMigrate(&models.AnalyticsSnapshot{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// CreateIndexes adds indexes that gorm tags cannot express. Failures are logged, not returned.
func (db *DB) CreateIndexes() error {
	stmts := []string{
		"CREATE INDEX IF NOT EXISTS idx_analytics_snapshots_created_at ON analytics_snapshots (created_at DESC)",
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			db.logger.Warn("Failed to create index", "statement", stmt, "error", err)
		}
	}
	return nil
}

// HealthCheck pings the database
func (db *DB) HealthCheck() error {
	if db == nil || db.DB == nil {
		return errors.New("database not initialized")
	}
	sqlDB, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// Close closes the underlying connection pool
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}
