package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/maksab-hq/maksab-admin/app/models"
)

// PaymentRepository defines the interface for payment-related database operations
type PaymentRepository interface {
	GetByID(id uint) (*models.Payment, error)
	List(offset, limit int, query string) ([]models.Payment, int64, error)
	UpdateStatus(id uint, status string) error
	Delete(id uint) error
}

// SupportSessionRepository defines the interface for support session operations
type SupportSessionRepository interface {
	Create(session *models.SupportSession) error
	GetByID(id string) (*models.SupportSession, error)
	ListAll() ([]models.SupportSession, error)
	ListByUser(userID string) ([]models.SupportSession, error)
	UpdateStatus(id, status string) error
}

// SupportMessageRepository defines the interface for support message operations
type SupportMessageRepository interface {
	Create(message *models.SupportMessage) error
	ListBySession(sessionID string) ([]models.SupportMessage, error)
	MarkSeen(id string, seenAt time.Time) error
	UpdateContent(id, content string) error
}

// SettingRepository defines the interface for project settings
type SettingRepository interface {
	GetValue(key string) ([]byte, error)
	SetValue(key string, value []byte) error
}

// StatsRepository defines the interface for dashboard counters over the
// provider mirror tables.
type StatsRepository interface {
	CountUsers() (int64, error)
	CountUsersSince(since time.Time) (int64, error)
	CountOrganizations() (int64, error)
	CountOrganizationsSince(since time.Time) (int64, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	Payment        PaymentRepository
	SupportSession SupportSessionRepository
	SupportMessage SupportMessageRepository
	Setting        SettingRepository
	Stats          StatsRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Payment:        NewPaymentRepository(db),
		SupportSession: NewSupportSessionRepository(db),
		SupportMessage: NewSupportMessageRepository(db),
		Setting:        NewSettingRepository(db),
		Stats:          NewStatsRepository(db),
	}
}
