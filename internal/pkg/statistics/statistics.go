package statistics

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/maksab-hq/maksab-admin/app/repository"
	"github.com/maksab-hq/maksab-admin/internal/pkg/cache"
)

const (
	dashboardCacheKey = "stats:dashboard"
	dashboardCacheTTL = 5 * time.Minute
)

// DashboardStats holds the counters shown on the admin dashboard.
type DashboardStats struct {
	TotalUsers                int64     `json:"total_users"`
	NewUsersThisMonth         int64     `json:"new_users_this_month"`
	TotalOrganizations        int64     `json:"total_organizations"`
	NewOrganizationsThisMonth int64     `json:"new_organizations_this_month"`
	GeneratedAt               time.Time `json:"generated_at"`
}

// Service computes dashboard counters from the provider mirror tables
// and caches the result in Redis for a short window.
type Service struct {
	stats repository.StatsRepository
	now   func() time.Time
}

func NewService(stats repository.StatsRepository) *Service {
	return &Service{stats: stats, now: time.Now}
}

// GetDashboardStats returns the cached counters, recomputing them when
// the cache is cold. Cache failures fall through to a fresh compute.
func (s *Service) GetDashboardStats() (*DashboardStats, error) {
	if cached, err := cache.Get(dashboardCacheKey); err == nil && cached != "" {
		var stats DashboardStats
		if err := json.Unmarshal([]byte(cached), &stats); err == nil {
			return &stats, nil
		}
		log.Warnf("[Statistics] Discarding unreadable cached dashboard stats")
	}

	stats, err := s.compute()
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(stats); err == nil {
		if err := cache.Set(dashboardCacheKey, payload, dashboardCacheTTL); err != nil {
			log.Warnf("[Statistics] Failed to cache dashboard stats: %v", err)
		}
	}
	return stats, nil
}

// Invalidate drops the cached counters so the next read recomputes.
func (s *Service) Invalidate() {
	if err := cache.Delete(dashboardCacheKey); err != nil {
		log.Warnf("[Statistics] Failed to invalidate dashboard stats cache: %v", err)
	}
}

func (s *Service) compute() (*DashboardStats, error) {
	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	totalUsers, err := s.stats.CountUsers()
	if err != nil {
		return nil, err
	}
	newUsers, err := s.stats.CountUsersSince(monthStart)
	if err != nil {
		return nil, err
	}
	totalOrgs, err := s.stats.CountOrganizations()
	if err != nil {
		return nil, err
	}
	newOrgs, err := s.stats.CountOrganizationsSince(monthStart)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		TotalUsers:                totalUsers,
		NewUsersThisMonth:         newUsers,
		TotalOrganizations:        totalOrgs,
		NewOrganizationsThisMonth: newOrgs,
		GeneratedAt:               now,
	}, nil
}
