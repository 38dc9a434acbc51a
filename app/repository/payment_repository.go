package repository

import (
	"gorm.io/gorm"

	"github.com/maksab-hq/maksab-admin/app/models"
)

// paymentRepository implements the PaymentRepository interface
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository instance
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// GetByID retrieves a payment by its ID
func (r *paymentRepository) GetByID(id uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.First(&payment, id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// List returns a page of payments ordered by creation time descending,
// plus the total matching count. A query filters on the reference.
func (r *paymentRepository) List(offset, limit int, query string) ([]models.Payment, int64, error) {
	var payments []models.Payment
	var count int64

	tx := r.db.Model(&models.Payment{})
	if query != "" {
		tx = tx.Where("reference ILIKE ?", "%"+query+"%")
	}
	if err := tx.Count(&count).Error; err != nil {
		return nil, 0, err
	}
	err := tx.Order("created_at DESC").Offset(offset).Limit(limit).Find(&payments).Error
	if err != nil {
		return nil, 0, err
	}
	return payments, count, nil
}

// UpdateStatus writes a new status onto the payment row
func (r *paymentRepository) UpdateStatus(id uint, status string) error {
	result := r.db.Model(&models.Payment{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete hard-deletes a payment row
func (r *paymentRepository) Delete(id uint) error {
	return r.db.Delete(&models.Payment{}, id).Error
}
