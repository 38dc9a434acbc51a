package models

import "time"

// Organization mirrors an identity-provider organization into the
// relational store for dashboard counting. Subscription state lives in
// the provider's metadata, never here.
type Organization struct {
	ID        string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Name      string    `gorm:"type:varchar(191)" json:"name"`
	Slug      string    `gorm:"type:varchar(191);index" json:"slug"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
