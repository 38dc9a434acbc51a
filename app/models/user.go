package models

import "time"

// User mirrors an identity-provider user into the relational store.
// The provider owns the record; this table exists for dashboard
// counting and joins, synced by an out-of-band webhook consumer.
type User struct {
	ID        string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Email     string    `gorm:"type:varchar(200);index" json:"email"`
	FirstName string    `gorm:"type:varchar(100)" json:"first_name"`
	LastName  string    `gorm:"type:varchar(100)" json:"last_name"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
