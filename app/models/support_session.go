package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SessionStatusActive   = "active"
	SessionStatusPending  = "pending"
	SessionStatusResolved = "resolved"
)

// SupportSession is one support ticket opened by an end user. Messages
// hang off the session; the admin panel converses inside it.
type SupportSession struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Subject   string    `gorm:"type:varchar(191);not null" json:"subject"`
	Issue     string    `gorm:"type:text" json:"issue"`
	Status    string    `gorm:"type:varchar(16);not null;default:'active';index" json:"status"`
	UserID    string    `gorm:"type:varchar(64);not null;index" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (s *SupportSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// IsValidSessionStatus reports whether s is a known session status.
func IsValidSessionStatus(s string) bool {
	switch s {
	case SessionStatusActive, SessionStatusPending, SessionStatusResolved:
		return true
	default:
		return false
	}
}
