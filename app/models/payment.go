package models

import "time"

const (
	PaymentStatusPending   = "pending"
	PaymentStatusVerified  = "verified"
	PaymentStatusCancelled = "cancelled"
	PaymentStatusRefunded  = "refunded"
)

const (
	PaymentDurationMonthly = "monthly"
	PaymentDurationYearly  = "yearly"
)

// Payment is a payment row recorded by the external payment intake
// process. Rows are only ever mutated through explicit status updates
// and are never deleted except by an explicit admin delete.
type Payment struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrganizationID string    `gorm:"type:varchar(64);not null;index" json:"organization_id"`
	Amount         float64   `gorm:"type:numeric(12,2);not null" json:"amount"`
	Reference      string    `gorm:"type:varchar(191);not null" json:"reference"`
	Plan           string    `gorm:"type:varchar(32);not null" json:"plan"`
	Duration       string    `gorm:"type:varchar(16);not null" json:"duration"`
	Status         string    `gorm:"type:varchar(16);not null;default:'pending';index" json:"status"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// IsValidPaymentStatus reports whether s is one of the known payment states.
func IsValidPaymentStatus(s string) bool {
	switch s {
	case PaymentStatusPending, PaymentStatusVerified, PaymentStatusCancelled, PaymentStatusRefunded:
		return true
	default:
		return false
	}
}
