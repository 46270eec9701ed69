package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/array/applications-console/internal/analytics"
	"github.com/array/applications-console/internal/integrations/accountapi"
	"github.com/array/applications-console/internal/metrics"
	"github.com/array/applications-console/internal/models"
	"github.com/array/applications-console/internal/repositories"
)

var (
	ErrUnknownAnalytics = errors.New("unknown analytics endpoint")
	ErrNoSnapshots      = errors.New("no analytics snapshot taken yet")
)

// ServerAnalyticsAPI is the backend's precomputed analytics surface
type ServerAnalyticsAPI interface {
	GetDashboardSummary(ctx context.Context) (*accountapi.DashboardSummary, error)
	GetBreakdown(ctx context.Context, b accountapi.Breakdown) (*accountapi.AnalyticsBreakdown, error)
	GetServicesAnalytics(ctx context.Context) (*accountapi.ServicesAnalytics, error)
	GetExecutiveSummary(ctx context.Context) (*accountapi.ExecutiveSummary, error)
	GetFinancialInsights(ctx context.Context) (*accountapi.FinancialInsights, error)
	GetCityPerformance(ctx context.Context) (*accountapi.CityPerformance, error)
	GetCustomerSegments(ctx context.Context) (*accountapi.CustomerSegmentation, error)
	GetDigitalBankingInsights(ctx context.Context) (*accountapi.DigitalBankingInsights, error)
	GetProfileCompleteness(ctx context.Context) (*accountapi.ProfileCompletenessAnalysis, error)
}

// ServerAnalyticsNames lists the names accepted by Server, besides the breakdowns
var ServerAnalyticsNames = []string{
	"dashboard", "services", "executive-summary", "financial-insights",
	"city-performance", "customer-segments", "digital-banking", "profile-completeness",
}

// AnalyticsService computes console-side analytics and keeps their history
type AnalyticsService struct {
	apps           *ApplicationService
	server         ServerAnalyticsAPI
	repo           repositories.AnalyticsSnapshotRepositoryInterface
	clampDiversity bool
	metrics        *metrics.Metrics
	logger         *slog.Logger
	now            func() time.Time
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(
	apps *ApplicationService,
	server ServerAnalyticsAPI,
	repo repositories.AnalyticsSnapshotRepositoryInterface,
	clampDiversity bool,
	m *metrics.Metrics,
	logger *slog.Logger,
) *AnalyticsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyticsService{
		apps:           apps,
		server:         server,
		repo:           repo,
		clampDiversity: clampDiversity,
		metrics:        m,
		logger:         logger,
		now:            time.Now,
	}
}

// Compute fetches every application and derives the analytics report
func (s *AnalyticsService) Compute(ctx context.Context) (*analytics.Report, error) {
	apps, err := s.apps.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.Compute(apps,
		analytics.WithNow(s.now),
		analytics.WithClampedDiversity(s.clampDiversity),
	), nil
}

// TakeSnapshot computes a report and stores it
func (s *AnalyticsService) TakeSnapshot(ctx context.Context) (*models.AnalyticsSnapshot, error) {
	report, err := s.Compute(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute analytics: %w", err)
	}
	snapshot, err := models.NewAnalyticsSnapshot(report)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(snapshot); err != nil {
		return nil, err
	}
	s.metrics.SnapshotTaken()
	s.logger.Info("Analytics snapshot stored", "snapshot_id", snapshot.ID, "total", snapshot.Total)
	return snapshot, nil
}

// ListSnapshots returns stored snapshots, newest first
func (s *AnalyticsService) ListSnapshots(ctx context.Context, offset, limit int) ([]models.AnalyticsSnapshot, int64, error) {
	return s.repo.List(offset, limit)
}

// LatestSnapshot returns the newest snapshot with its decoded report
func (s *AnalyticsService) LatestSnapshot(ctx context.Context) (*models.AnalyticsSnapshot, *analytics.Report, error) {
	snapshot, err := s.repo.Latest()
	if err != nil {
		if errors.Is(err, repositories.ErrSnapshotNotFound) {
			return nil, nil, ErrNoSnapshots
		}
		return nil, nil, err
	}
	report, err := snapshot.DecodeReport()
	if err != nil {
		return nil, nil, err
	}
	return snapshot, report, nil
}

// PruneSnapshots deletes snapshots computed more than retention ago
func (s *AnalyticsService) PruneSnapshots(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, nil
	}
	deleted, err := s.repo.DeleteOlderThan(s.now().Add(-retention))
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.logger.Info("Pruned analytics snapshots", "deleted", deleted)
	}
	return deleted, nil
}

// SnapshotOnce stores one snapshot and prunes old ones. Used by the worker scheduler.
func (s *AnalyticsService) SnapshotOnce(ctx context.Context, retention time.Duration) {
	if _, err := s.TakeSnapshot(ctx); err != nil {
		s.logger.Error("Analytics snapshot failed", "error", err)
	}
	if _, err := s.PruneSnapshots(ctx, retention); err != nil {
		s.logger.Error("Analytics snapshot pruning failed", "error", err)
	}
}

// Server proxies one of the backend's analytics endpoints by name
func (s *AnalyticsService) Server(ctx context.Context, name string) (interface{}, error) {
	switch name {
	case "dashboard":
		return s.server.GetDashboardSummary(ctx)
	case "services":
		return s.server.GetServicesAnalytics(ctx)
	case "executive-summary":
		return s.server.GetExecutiveSummary(ctx)
	case "financial-insights":
		return s.server.GetFinancialInsights(ctx)
	case "city-performance":
		return s.server.GetCityPerformance(ctx)
	case "customer-segments":
		return s.server.GetCustomerSegments(ctx)
	case "digital-banking":
		return s.server.GetDigitalBankingInsights(ctx)
	case "profile-completeness":
		return s.server.GetProfileCompleteness(ctx)
	}
	if b := accountapi.Breakdown(name); b.Valid() {
		return s.server.GetBreakdown(ctx, b)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAnalytics, name)
}
