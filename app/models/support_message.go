package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SupportMessage is one message inside a support session. Messages are
// immutable once sent (admin edits excepted); the seen flag only ever
// transitions false to true.
type SupportMessage struct {
	ID        string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	SessionID string     `gorm:"type:varchar(36);not null;index" json:"session_id"`
	UserID    string     `gorm:"type:varchar(64);not null" json:"user_id"`
	Content   string     `gorm:"type:text;not null" json:"content"`
	IsAdmin   bool       `gorm:"not null;default:false" json:"is_admin"`
	Seen      bool       `gorm:"not null;default:false;index" json:"seen"`
	SeenAt    *time.Time `gorm:"type:timestamp;default:null" json:"seen_at,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (m *SupportMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
