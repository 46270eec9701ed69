package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/array/applications-console/internal/models"
	"gorm.io/gorm"
)

var (
	ErrSnapshotNotFound = errors.New("analytics snapshot not found")
)

type analyticsSnapshotRepository struct {
	db *gorm.DB
}

// NewAnalyticsSnapshotRepository creates a new analytics snapshot repository
func NewAnalyticsSnapshotRepository(db *gorm.DB) AnalyticsSnapshotRepositoryInterface {
	return &analyticsSnapshotRepository{db: db}
}

func (r *analyticsSnapshotRepository) Create(snapshot *models.AnalyticsSnapshot) error {
	if snapshot == nil {
		return errors.New("snapshot cannot be nil")
	}
	if err := r.db.Create(snapshot).Error; err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("snapshot %s already exists: %w", snapshot.ID, err)
		}
		return fmt.Errorf("failed to create analytics snapshot: %w", err)
	}
	return nil
}

func (r *analyticsSnapshotRepository) Latest() (*models.AnalyticsSnapshot, error) {
	var snapshot models.AnalyticsSnapshot
	if err := r.db.Order("computed_at DESC").Order("created_at DESC").First(&snapshot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to get latest analytics snapshot: %w", err)
	}
	return &snapshot, nil
}

// List returns snapshots newest first, with the total count
func (r *analyticsSnapshotRepository) List(offset, limit int) ([]models.AnalyticsSnapshot, int64, error) {
	offset, limit = normalizeWindow(offset, limit)

	var total int64
	if err := r.db.Model(&models.AnalyticsSnapshot{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count analytics snapshots: %w", err)
	}

	snapshots := []models.AnalyticsSnapshot{}
	if err := r.db.Order("computed_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&snapshots).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list analytics snapshots: %w", err)
	}
	return snapshots, total, nil
}

func (r *analyticsSnapshotRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	res := r.db.Where("computed_at < ?", cutoff).Delete(&models.AnalyticsSnapshot{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to prune analytics snapshots: %w", res.Error)
	}
	return res.RowsAffected, nil
}
