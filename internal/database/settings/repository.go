// Package settings provides database operations for per-user settings.
//
// # Usage
//
//	repo := settings.NewRepository(db)
//	setting, err := repo.GetSetting(userID, "timezone")
package settings

import (
	"errors"

	"gorm.io/gorm"

	"github.com/bondery/bondery/internal/entities"
)

// Defaults applied when a user has no stored value for a key.
var Defaults = map[string]string{
	entities.SettingKeyTimezone:         "UTC",
	entities.SettingKeyLanguage:         "en",
	entities.SettingKeyDateFormat:       "2006-01-02",
	entities.SettingKeyRemindersEnabled: "true",
}

// Repository handles all settings database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new settings repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetSetting retrieves a setting value for a user, falling back to the
// default when the key has never been set.
func (r *Repository) GetSetting(userID uint, key string) (string, error) {
	var setting entities.Setting
	err := r.db.Where("user_id = ? AND key = ?", userID, key).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Defaults[key], nil
	}
	if err != nil {
		return "", err
	}
	return setting.Value, nil
}

// GetAllSettings returns the user's settings with defaults applied for
// keys that were never stored.
func (r *Repository) GetAllSettings(userID uint) (map[string]string, error) {
	var stored []entities.Setting
	if err := r.db.Where("user_id = ?", userID).Find(&stored).Error; err != nil {
		return nil, err
	}

	settings := make(map[string]string, len(Defaults))
	for key, value := range Defaults {
		settings[key] = value
	}
	for _, setting := range stored {
		settings[setting.Key] = setting.Value
	}
	return settings, nil
}

// SetSetting creates or updates a setting for a user.
func (r *Repository) SetSetting(userID uint, key, value string) error {
	var setting entities.Setting
	result := r.db.Where("user_id = ? AND key = ?", userID, key).First(&setting)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		setting = entities.Setting{
			UserID: userID,
			Key:    key,
			Value:  value,
		}
		return r.db.Create(&setting).Error
	} else if result.Error != nil {
		return result.Error
	}

	setting.Value = value
	return r.db.Save(&setting).Error
}

// DeleteSetting removes a setting, reverting the key to its default.
func (r *Repository) DeleteSetting(userID uint, key string) error {
	return r.db.Where("user_id = ? AND key = ?", userID, key).Delete(&entities.Setting{}).Error
}
