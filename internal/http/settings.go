package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bondery/bondery/internal/audit"
	"github.com/bondery/bondery/internal/entities"
)

// SettingsStore defines database operations for per-user settings.
type SettingsStore interface {
	GetSetting(userID uint, key string) (string, error)
	GetAllSettings(userID uint) (map[string]string, error)
	SetSetting(userID uint, key, value string) error
	DeleteSetting(userID uint, key string) error
}

type SettingsController struct {
	store        SettingsStore
	auditService *audit.Service
}

func NewSettingsController(store SettingsStore, auditService *audit.Service) *SettingsController {
	return &SettingsController{store: store, auditService: auditService}
}

// validateSetting checks a known key's value; unknown keys are rejected
// so typos don't silently create dead settings.
func validateSetting(key, value string) error {
	switch key {
	case entities.SettingKeyTimezone:
		if _, err := time.LoadLocation(value); err != nil {
			return errors.New("timezone must be a valid IANA zone name")
		}
	case entities.SettingKeyLanguage:
		if len(value) < 2 || len(value) > 10 {
			return errors.New("language must be a BCP 47 tag such as en or en-GB")
		}
	case entities.SettingKeyDateFormat:
		if value == "" {
			return errors.New("date_format must not be empty")
		}
	case entities.SettingKeyRemindersEnabled:
		if _, err := strconv.ParseBool(value); err != nil {
			return errors.New("reminders_enabled must be true or false")
		}
	default:
		return errors.New("unknown setting key: " + key)
	}
	return nil
}

// GetSettings returns all settings for the current user
// GET /api/settings
func (sc *SettingsController) GetSettings(c *gin.Context) {
	settings, err := sc.store.GetAllSettings(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "get settings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// GetSetting returns a single setting value
// GET /api/settings/:key
func (sc *SettingsController) GetSetting(c *gin.Context) {
	key := c.Param("key")
	value, err := sc.store.GetSetting(GetUserID(c), key)
	if err != nil {
		respondInternalError(c, err, "get setting")
		return
	}
	if value == "" {
		respondNotFound(c, "setting")
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "value": value})
}

// UpdateSetting validates and stores a setting value
// PUT /api/settings/:key
func (sc *SettingsController) UpdateSetting(c *gin.Context) {
	key := c.Param("key")

	var req struct {
		Value string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "value is required")
		return
	}
	if err := validateSetting(key, req.Value); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	userID := GetUserID(c)
	if err := sc.store.SetSetting(userID, key, req.Value); err != nil {
		respondInternalError(c, err, "set setting")
		return
	}

	if sc.auditService != nil {
		sc.auditService.LogSettings(userID, "setting_updated", "updated "+key)
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "value": req.Value})
}

// DeleteSetting resets a setting to its default
// DELETE /api/settings/:key
func (sc *SettingsController) DeleteSetting(c *gin.Context) {
	key := c.Param("key")
	if err := sc.store.DeleteSetting(GetUserID(c), key); err != nil {
		respondInternalError(c, err, "delete setting")
		return
	}
	respondSuccess(c, "setting reset")
}
