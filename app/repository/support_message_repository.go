package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/maksab-hq/maksab-admin/app/models"
)

// supportMessageRepository implements the SupportMessageRepository interface
type supportMessageRepository struct {
	db *gorm.DB
}

// NewSupportMessageRepository creates a new support message repository instance
func NewSupportMessageRepository(db *gorm.DB) SupportMessageRepository {
	return &supportMessageRepository{db: db}
}

// Create inserts a new support message
func (r *supportMessageRepository) Create(message *models.SupportMessage) error {
	return r.db.Create(message).Error
}

// ListBySession returns the messages of one session, oldest first
func (r *supportMessageRepository) ListBySession(sessionID string) ([]models.SupportMessage, error) {
	var messages []models.SupportMessage
	err := r.db.Where("session_id = ?", sessionID).Order("created_at ASC").Find(&messages).Error
	return messages, err
}

// MarkSeen sets the seen flag and timestamp on one message. The flag
// only moves false to true; an already-seen message is left untouched.
func (r *supportMessageRepository) MarkSeen(id string, seenAt time.Time) error {
	return r.db.Model(&models.SupportMessage{}).
		Where("id = ? AND seen = ?", id, false).
		Updates(map[string]interface{}{"seen": true, "seen_at": seenAt}).Error
}

// UpdateContent rewrites a message body (admin-authored edits only,
// enforced at the service layer)
func (r *supportMessageRepository) UpdateContent(id, content string) error {
	result := r.db.Model(&models.SupportMessage{}).Where("id = ?", id).Update("content", content)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
