package repository

import (
	"gorm.io/gorm"

	"github.com/maksab-hq/maksab-admin/app/models"
)

// supportSessionRepository implements the SupportSessionRepository interface
type supportSessionRepository struct {
	db *gorm.DB
}

// NewSupportSessionRepository creates a new support session repository instance
func NewSupportSessionRepository(db *gorm.DB) SupportSessionRepository {
	return &supportSessionRepository{db: db}
}

// Create inserts a new support session
func (r *supportSessionRepository) Create(session *models.SupportSession) error {
	return r.db.Create(session).Error
}

// GetByID retrieves a support session by its ID
func (r *supportSessionRepository) GetByID(id string) (*models.SupportSession, error) {
	var session models.SupportSession
	err := r.db.Where("id = ?", id).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// ListAll returns every support session, newest first
func (r *supportSessionRepository) ListAll() ([]models.SupportSession, error) {
	var sessions []models.SupportSession
	err := r.db.Order("created_at DESC").Find(&sessions).Error
	return sessions, err
}

// ListByUser returns the sessions opened by one user, newest first
func (r *supportSessionRepository) ListByUser(userID string) ([]models.SupportSession, error) {
	var sessions []models.SupportSession
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&sessions).Error
	return sessions, err
}

// UpdateStatus writes a new status onto the session row
func (r *supportSessionRepository) UpdateStatus(id, status string) error {
	result := r.db.Model(&models.SupportSession{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
