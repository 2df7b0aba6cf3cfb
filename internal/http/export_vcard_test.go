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
	"github.com/bondery/bondery/internal/database/contacts"
	"github.com/bondery/bondery/internal/database/groups"
	"github.com/bondery/bondery/internal/entities"
)

func setupExportTestDB(t *testing.T) (*database.Database, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_export_ctrl_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return db, cleanup
}

func newExportRouter(db *database.Database) *gin.Engine {
	controller := NewExportController(contacts.NewRepository(db.DB), groups.NewRepository(db.DB), nil)
	router := gin.New()
	router.GET("/api/export/vcard", controller.ExportAll)
	router.GET("/api/contacts/:id/vcard", controller.ExportContact)
	return router
}

func TestExportController_ExportAll(t *testing.T) {
	db, cleanup := setupExportTestDB(t)
	defer cleanup()
	store := contacts.NewRepository(db.DB)
	require.NoError(t, store.CreateContact(&entities.Contact{UserID: DefaultUserID, FirstName: "Alice"}))
	require.NoError(t, store.CreateContact(&entities.Contact{UserID: DefaultUserID, FirstName: "Bob"}))
	router := newExportRouter(db)

	w := jsonRequest(t, router, "GET", "/api/export/vcard", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/vcard")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "contacts.vcf")
	assert.Equal(t, 2, strings.Count(w.Body.String(), "BEGIN:VCARD"))
	assert.Contains(t, w.Body.String(), "FN:Alice")
	assert.Contains(t, w.Body.String(), "FN:Bob")
}

func TestExportController_ExportGroup(t *testing.T) {
	db, cleanup := setupExportTestDB(t)
	defer cleanup()
	contactStore := contacts.NewRepository(db.DB)
	groupStore := groups.NewRepository(db.DB)
	require.NoError(t, contactStore.CreateContact(&entities.Contact{UserID: DefaultUserID, FirstName: "Alice"}))
	require.NoError(t, contactStore.CreateContact(&entities.Contact{UserID: DefaultUserID, FirstName: "Bob"}))
	require.NoError(t, groupStore.CreateGroup(&entities.Group{UserID: DefaultUserID, Name: "Friends"}))
	require.NoError(t, groupStore.AddContactToGroup(1, 1, DefaultUserID))
	router := newExportRouter(db)

	w := jsonRequest(t, router, "GET", "/api/export/vcard?group_id=1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "FN:Alice")
	assert.NotContains(t, w.Body.String(), "FN:Bob")

	w = jsonRequest(t, router, "GET", "/api/export/vcard?group_id=99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportController_ExportContact(t *testing.T) {
	db, cleanup := setupExportTestDB(t)
	defer cleanup()
	store := contacts.NewRepository(db.DB)
	require.NoError(t, store.CreateContact(&entities.Contact{
		UserID: DefaultUserID, FirstName: "Alice", Email: "alice@example.com",
	}))
	router := newExportRouter(db)

	w := jsonRequest(t, router, "GET", "/api/contacts/1/vcard", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, strings.Count(w.Body.String(), "BEGIN:VCARD"))
	assert.Contains(t, w.Body.String(), "EMAIL;TYPE=INTERNET:alice@example.com")

	w = jsonRequest(t, router, "GET", "/api/contacts/99/vcard", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
