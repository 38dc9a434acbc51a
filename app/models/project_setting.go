package models

import (
	"time"

	"gorm.io/datatypes"
)

// SettingKeyBankDetails is the project_settings key holding the bank
// transfer details shown on the payments page.
const SettingKeyBankDetails = "bank_details"

// ProjectSetting is a key/value row for project-wide settings. Values
// are free-form JSON; callers validate the shape per key.
type ProjectSetting struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Key       string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"key"`
	Value     datatypes.JSON `gorm:"not null" json:"value"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}
