package repositories

//go:generate mockgen -source=interfaces.go -destination=repository_mocks/mock_repositories.go -package=repository_mocks

import (
	"time"

	"github.com/array/applications-console/internal/models"
)

// AnalyticsSnapshotRepositoryInterface stores analytics report history
type AnalyticsSnapshotRepositoryInterface interface {
	Create(snapshot *models.AnalyticsSnapshot) error
	Latest() (*models.AnalyticsSnapshot, error)
	List(offset, limit int) ([]models.AnalyticsSnapshot, int64, error)
	DeleteOlderThan(cutoff time.Time) (int64, error)
}
