package repository

import (
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/maksab-hq/maksab-admin/app/models"
)

// settingRepository implements the SettingRepository interface
type settingRepository struct {
	db *gorm.DB
}

// NewSettingRepository creates a new setting repository instance
func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

// GetValue returns the raw JSON value stored under key
func (r *settingRepository) GetValue(key string) ([]byte, error) {
	var setting models.ProjectSetting
	err := r.db.Where("key = ?", key).First(&setting).Error
	if err != nil {
		return nil, err
	}
	return []byte(setting.Value), nil
}

// SetValue upserts the JSON value stored under key
func (r *settingRepository) SetValue(key string, value []byte) error {
	if len(value) == 0 {
		return errors.New("setting value must not be empty")
	}
	setting := models.ProjectSetting{
		Key:   key,
		Value: datatypes.JSON(value),
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
}
