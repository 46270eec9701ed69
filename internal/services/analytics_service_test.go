package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/array/applications-console/internal/integrations/accountapi"
	"github.com/array/applications-console/internal/metrics"
	"github.com/array/applications-console/internal/models"
	"github.com/array/applications-console/internal/repositories"
	"github.com/array/applications-console/internal/repositories/repository_mocks"
	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAnalyticsService(t *testing.T, n int, repo repositories.AnalyticsSnapshotRepositoryInterface, m *metrics.Metrics) *AnalyticsService {
	t.Helper()
	apps, backend := newApplicationService(t, n)
	svc := NewAnalyticsService(apps, backend.Client(), repo, true, m, nil)
	svc.now = fixedClock
	return svc
}

func TestAnalyticsService_Compute(t *testing.T) {
	svc := newAnalyticsService(t, 15, nil, nil)
	report, err := svc.Compute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 15, report.Total)
	assert.False(t, report.Empty)
	assert.True(t, fixedClock().Equal(report.GeneratedAt))
	assert.Len(t, report.Monthly, 6)
}

func TestAnalyticsService_Compute_Empty(t *testing.T) {
	svc := newAnalyticsService(t, 0, nil, nil)
	report, err := svc.Compute(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Empty)
	assert.Equal(t, 0, report.Total)
}

func TestAnalyticsService_TakeSnapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := repository_mocks.NewMockAnalyticsSnapshotRepositoryInterface(ctrl)
	var stored *models.AnalyticsSnapshot
	repo.EXPECT().Create(gomock.Any()).DoAndReturn(func(s *models.AnalyticsSnapshot) error {
		stored = s
		return nil
	})

	m := metrics.New("test")
	svc := newAnalyticsService(t, 6, repo, m)
	snap, err := svc.TakeSnapshot(context.Background())
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, snap, stored)
	assert.Equal(t, 6, snap.Total)

	report, err := snap.DecodeReport()
	require.NoError(t, err)
	assert.Equal(t, 6, report.Total)
	expected := `
# HELP test_analytics_snapshots_total Analytics snapshots persisted.
# TYPE test_analytics_snapshots_total counter
test_analytics_snapshots_total 1
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry, strings.NewReader(expected), "test_analytics_snapshots_total"))
}

func TestAnalyticsService_TakeSnapshot_RepoError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := repository_mocks.NewMockAnalyticsSnapshotRepositoryInterface(ctrl)
	repo.EXPECT().Create(gomock.Any()).Return(errors.New("disk full"))

	svc := newAnalyticsService(t, 2, repo, nil)
	_, err := svc.TakeSnapshot(context.Background())
	assert.Error(t, err)
}

func TestAnalyticsService_TakeSnapshot_UpstreamDown(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := repository_mocks.NewMockAnalyticsSnapshotRepositoryInterface(ctrl)
	apps, backend := newApplicationService(t, 2)
	backend.Close()
	svc := NewAnalyticsService(apps, backend.Client(), repo, true, nil, nil)

	_, err := svc.TakeSnapshot(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, accountapi.ErrNetwork)
}

func TestAnalyticsService_LatestSnapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := repository_mocks.NewMockAnalyticsSnapshotRepositoryInterface(ctrl)
	snap := &models.AnalyticsSnapshot{Total: 4, Report: `{"total":4,"empty":false}`}
	repo.EXPECT().Latest().Return(snap, nil)

	svc := newAnalyticsService(t, 0, repo, nil)
	got, report, err := svc.LatestSnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, snap, got)
	assert.Equal(t, 4, report.Total)
}

func TestAnalyticsService_LatestSnapshot_None(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := repository_mocks.NewMockAnalyticsSnapshotRepositoryInterface(ctrl)
	repo.EXPECT().Latest().Return(nil, repositories.ErrSnapshotNotFound)

	svc := newAnalyticsService(t, 0, repo, nil)
	_, _, err := svc.LatestSnapshot(context.Background())
	assert.ErrorIs(t, err, ErrNoSnapshots)
}

func TestAnalyticsService_ListSnapshots(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := repository_mocks.NewMockAnalyticsSnapshotRepositoryInterface(ctrl)
	repo.EXPECT().List(0, 20).Return([]models.AnalyticsSnapshot{{Total: 1}, {Total: 2}}, int64(2), nil)

	svc := newAnalyticsService(t, 0, repo, nil)
	items, total, err := svc.ListSnapshots(context.Background(), 0, 20)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, int64(2), total)
}

func TestAnalyticsService_PruneSnapshots(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := repository_mocks.NewMockAnalyticsSnapshotRepositoryInterface(ctrl)
	repo.EXPECT().DeleteOlderThan(fixedClock().Add(-48 * time.Hour)).Return(int64(3), nil)

	svc := newAnalyticsService(t, 0, repo, nil)
	deleted, err := svc.PruneSnapshots(context.Background(), 48*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	deleted, err = svc.PruneSnapshots(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)
}

func TestAnalyticsService_SnapshotOnce_LogsFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := repository_mocks.NewMockAnalyticsSnapshotRepositoryInterface(ctrl)
	repo.EXPECT().Create(gomock.Any()).Return(errors.New("db down"))
	repo.EXPECT().DeleteOlderThan(gomock.Any()).Return(int64(0), errors.New("db down"))

	svc := newAnalyticsService(t, 1, repo, nil)
	svc.SnapshotOnce(context.Background(), time.Hour)
}

func TestAnalyticsService_Server(t *testing.T) {
	svc := newAnalyticsService(t, 4, nil, nil)
	ctx := context.Background()

	for _, name := range ServerAnalyticsNames {
		t.Run(name, func(t *testing.T) {
			res, err := svc.Server(ctx, name)
			require.NoError(t, err)
			assert.NotNil(t, res)
		})
	}

	res, err := svc.Server(ctx, string(accountapi.BreakdownGender))
	require.NoError(t, err)
	breakdown, ok := res.(*accountapi.AnalyticsBreakdown)
	require.True(t, ok)
	assert.Equal(t, 4, breakdown.Total)

	summary, err := svc.Server(ctx, "dashboard")
	require.NoError(t, err)
	assert.Equal(t, 4, summary.(*accountapi.DashboardSummary).TotalApplications)
}

func TestAnalyticsService_Server_Unknown(t *testing.T) {
	svc := newAnalyticsService(t, 0, nil, nil)
	_, err := svc.Server(context.Background(), "weather")
	assert.ErrorIs(t, err, ErrUnknownAnalytics)
}
