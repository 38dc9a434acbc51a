package statistics

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maksab-hq/maksab-admin/internal/pkg/cache"
)

type stubStatsRepo struct {
	users, usersSince, orgs, orgsSince int64
	calls                              int
}

func (s *stubStatsRepo) CountUsers() (int64, error) {
	s.calls++
	return s.users, nil
}

func (s *stubStatsRepo) CountUsersSince(_ time.Time) (int64, error) {
	return s.usersSince, nil
}

func (s *stubStatsRepo) CountOrganizations() (int64, error) {
	return s.orgs, nil
}

func (s *stubStatsRepo) CountOrganizationsSince(_ time.Time) (int64, error) {
	return s.orgsSince, nil
}

func setupTestCache(t *testing.T) {
	t.Helper()
	mr := miniredis.RunT(t)
	t.Setenv("CACHE_HOST", mr.Host())
	t.Setenv("CACHE_PORT", mr.Port())
	t.Setenv("CACHE_PASSWORD", "")
	cache.SetupCache()
}

func TestGetDashboardStatsComputesCounters(t *testing.T) {
	setupTestCache(t)
	repo := &stubStatsRepo{users: 120, usersSince: 7, orgs: 40, orgsSince: 3}
	svc := NewService(repo)
	svc.now = func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) }

	stats, err := svc.GetDashboardStats()
	require.NoError(t, err)

	assert.Equal(t, int64(120), stats.TotalUsers)
	assert.Equal(t, int64(7), stats.NewUsersThisMonth)
	assert.Equal(t, int64(40), stats.TotalOrganizations)
	assert.Equal(t, int64(3), stats.NewOrganizationsThisMonth)
}

func TestGetDashboardStatsUsesCache(t *testing.T) {
	setupTestCache(t)
	repo := &stubStatsRepo{users: 10}
	svc := NewService(repo)

	_, err := svc.GetDashboardStats()
	require.NoError(t, err)
	_, err = svc.GetDashboardStats()
	require.NoError(t, err)

	assert.Equal(t, 1, repo.calls, "second read must come from the cache")

	svc.Invalidate()
	_, err = svc.GetDashboardStats()
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
}
