package database

import (
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/array/applications-console/internal/config"
	"github.com/array/applications-console/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestDB_AutoMigrate(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)
	err := db.AutoMigrate()
	require.NoError(t, err)
	assert.True(t, db.Migrator().HasTable(&models.AnalyticsSnapshot{}))
}

func TestDB_CreateIndexes(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)
	err := db.CreateIndexes()
	assert.NoError(t, err)
}

func TestDB_HealthCheck(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)
	err := db.HealthCheck()
	require.NoError(t, err)
}

func TestDB_HealthCheck_Closed(t *testing.T) {
	db := SetupTestDB(t)
	require.NoError(t, db.Close())
	assert.Error(t, db.HealthCheck())
}

func TestDB_HealthCheck_Nil(t *testing.T) {
	var db *DB
	assert.Error(t, db.HealthCheck())
}

func TestDB_Transaction(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)
	err := db.Transaction(func(tx *gorm.DB) error {
		s := &models.AnalyticsSnapshot{
			ComputedAt: time.Now(),
			Total:      3,
			AvgDebit:   decimal.NewFromFloat(1500.5),
			AvgCredit:  decimal.NewFromInt(2000),
			Report:     `{"total":3}`,
		}
		return tx.Create(s).Error
	})
	require.NoError(t, err)
	var count int64
	require.NoError(t, db.Model(&models.AnalyticsSnapshot{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestConnect_UnsupportedDriver(t *testing.T) {
	_, err := Connect(config.DatabaseConfig{Driver: "oracle"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestConnect_SQLite(t *testing.T) {
	cfg := config.DatabaseConfig{
		Driver:          "sqlite",
		SQLitePath:      "file:connect_test?mode=memory&cache=shared",
		MaxConnections:  1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Minute,
	}
	db, err := Connect(cfg, slog.Default())
	require.NoError(t, err)
	defer CleanupTestDB(t, db)
	assert.NoError(t, db.HealthCheck())
}

func TestDB_AutoMigrate_Failure(t *testing.T) {
	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := Open(postgres.New(postgres.Config{Conn: sqlDB}), nil)
	require.NoError(t, err)

	// no expectations: every statement the migrator issues is rejected
	err = db.AutoMigrate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to migrate database")
}
