package http

import (
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bondery/bondery/internal/database"
	"github.com/bondery/bondery/internal/database/settings"
)

func setupSettingsTestDB(t *testing.T) (*database.Database, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_settings_ctrl_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return db, cleanup
}

func newSettingsRouter(store SettingsStore) *gin.Engine {
	controller := NewSettingsController(store, nil)
	router := gin.New()
	router.GET("/api/settings", controller.GetSettings)
	router.GET("/api/settings/:key", controller.GetSetting)
	router.PUT("/api/settings/:key", controller.UpdateSetting)
	router.DELETE("/api/settings/:key", controller.DeleteSetting)
	return router
}

func TestSettingsController_UpdateAndGet(t *testing.T) {
	db, cleanup := setupSettingsTestDB(t)
	defer cleanup()
	store := settings.NewRepository(db.DB)
	router := newSettingsRouter(store)

	w := jsonRequest(t, router, "PUT", "/api/settings/timezone", gin.H{"value": "Europe/Berlin"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = jsonRequest(t, router, "GET", "/api/settings/timezone", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Europe/Berlin")

	w = jsonRequest(t, router, "GET", "/api/settings", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Europe/Berlin")
}

func TestSettingsController_Validation(t *testing.T) {
	db, cleanup := setupSettingsTestDB(t)
	defer cleanup()
	router := newSettingsRouter(settings.NewRepository(db.DB))

	t.Run("invalid timezone", func(t *testing.T) {
		w := jsonRequest(t, router, "PUT", "/api/settings/timezone", gin.H{"value": "Mars/Olympus"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown key", func(t *testing.T) {
		w := jsonRequest(t, router, "PUT", "/api/settings/favourite_color", gin.H{"value": "red"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("reminders flag must be boolean", func(t *testing.T) {
		w := jsonRequest(t, router, "PUT", "/api/settings/reminders_enabled", gin.H{"value": "maybe"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing value", func(t *testing.T) {
		w := jsonRequest(t, router, "PUT", "/api/settings/timezone", gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSettingsController_Delete(t *testing.T) {
	db, cleanup := setupSettingsTestDB(t)
	defer cleanup()
	store := settings.NewRepository(db.DB)
	router := newSettingsRouter(store)

	w := jsonRequest(t, router, "PUT", "/api/settings/language", gin.H{"value": "de"})
	require.Equal(t, http.StatusOK, w.Code)

	w = jsonRequest(t, router, "DELETE", "/api/settings/language", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Falls back to the default after reset
	value, err := store.GetSetting(DefaultUserID, "language")
	require.NoError(t, err)
	assert.Equal(t, settings.Defaults["language"], value)
}
