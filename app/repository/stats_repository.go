package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/maksab-hq/maksab-admin/app/models"
)

// statsRepository implements the StatsRepository interface
type statsRepository struct {
	db *gorm.DB
}

// NewStatsRepository creates a new stats repository instance
func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

// CountUsers returns the total number of mirrored users
func (r *statsRepository) CountUsers() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Count(&count).Error
	return count, err
}

// CountUsersSince returns the number of mirrored users created after since
func (r *statsRepository) CountUsersSince(since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("created_at > ?", since).Count(&count).Error
	return count, err
}

// CountOrganizations returns the total number of mirrored organizations
func (r *statsRepository) CountOrganizations() (int64, error) {
	var count int64
	err := r.db.Model(&models.Organization{}).Count(&count).Error
	return count, err
}

// CountOrganizationsSince returns the number of mirrored organizations created after since
func (r *statsRepository) CountOrganizationsSince(since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Organization{}).Where("created_at > ?", since).Count(&count).Error
	return count, err
}
