package http

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bondery/bondery/internal/database"
	"github.com/bondery/bondery/internal/database/contacts"
	"github.com/bondery/bondery/internal/database/imports"
	"github.com/bondery/bondery/internal/entities"
	"github.com/bondery/bondery/internal/importers"
)

const connectionsCSVFixture = `Notes:
"When exporting your connection data, you may notice that some of the email addresses are missing."

First Name,Last Name,URL,Email Address,Company,Position,Connected On
Jane,Doe,https://www.linkedin.com/in/janedoe,,Acme,Engineer,04 Apr 2023
John,Smith,https://www.linkedin.com/in/john-smith,,Globex,Manager,05 Apr 2023
`

const followersJSONFixture = `[
  {"title": "", "media_list_data": [], "string_list_data": [
    {"href": "https://www.instagram.com/jane.doe", "value": "jane.doe", "timestamp": 1681257600}
  ]}
]`

func setupImportTestDB(t *testing.T) (*database.Database, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_import_ctrl_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return db, cleanup
}

func newImportRouter(db *database.Database, maxUploadBytes int64) (*gin.Engine, *contacts.Repository) {
	contactStore := contacts.NewRepository(db.DB)
	sessionStore := imports.NewRepository(db.DB)

	linkedIn := NewLinkedInImportController(contactStore, sessionStore, nil, maxUploadBytes)
	insta := NewInstagramImportController(contactStore, sessionStore, nil, maxUploadBytes)
	sessions := NewImportSessionsController(sessionStore)

	router := gin.New()
	router.POST("/api/contacts/import/linkedin/parse", linkedIn.Parse)
	router.POST("/api/contacts/import/linkedin/commit", linkedIn.Commit)
	router.POST("/api/contacts/import/instagram/parse", insta.Parse)
	router.POST("/api/contacts/import/instagram/commit", insta.Commit)
	router.GET("/api/contacts/import/sessions", sessions.ListSessions)
	return router, contactStore
}

func multipartRequest(t *testing.T, router *gin.Engine, path string, fields map[string]string, files map[string][]byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for name, value := range fields {
		require.NoError(t, writer.WriteField(name, value))
	}
	for name, data := range files {
		part, err := writer.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req, _ := http.NewRequest("POST", path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func instagramZIP(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	entry, err := writer.Create("connections/followers_and_following/followers_1.json")
	require.NoError(t, err)
	_, err = entry.Write([]byte(followersJSONFixture))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return buf.Bytes()
}

func TestLinkedInImport_ParseAndCommit(t *testing.T) {
	db, cleanup := setupImportTestDB(t)
	defer cleanup()
	router, contactStore := newImportRouter(db, 0)

	w := multipartRequest(t, router, "/api/contacts/import/linkedin/parse", nil,
		map[string][]byte{"Connections.csv": []byte(connectionsCSVFixture)})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var parsed importers.ParseResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	require.Equal(t, 2, parsed.TotalCount)
	assert.Equal(t, 2, parsed.ValidCount)

	// Nothing persisted by parse alone
	_, total, err := contactStore.ListContacts(DefaultUserID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	// Commit only the first entry
	w = jsonRequest(t, router, "POST", "/api/contacts/import/linkedin/commit",
		commitRequest{Contacts: parsed.Contacts[:1]})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result importers.CommitResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 1, result.ImportedCount)
	assert.Equal(t, 0, result.UpdatedCount)
	assert.Equal(t, 0, result.SkippedCount)

	saved, err := contactStore.FindByHandle(DefaultUserID, entities.PlatformLinkedIn, "janedoe")
	require.NoError(t, err)
	assert.Equal(t, "Jane", saved.FirstName)
	assert.Equal(t, entities.PlatformLinkedIn, saved.ImportedFrom)

	// History recorded
	w = jsonRequest(t, router, "GET", "/api/contacts/import/sessions", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"imported_count":1`)
}

func TestLinkedInImport_ReimportMarksExisting(t *testing.T) {
	db, cleanup := setupImportTestDB(t)
	defer cleanup()
	router, _ := newImportRouter(db, 0)

	w := multipartRequest(t, router, "/api/contacts/import/linkedin/parse", nil,
		map[string][]byte{"Connections.csv": []byte(connectionsCSVFixture)})
	require.Equal(t, http.StatusOK, w.Code)

	var parsed importers.ParseResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))

	w = jsonRequest(t, router, "POST", "/api/contacts/import/linkedin/commit",
		commitRequest{Contacts: parsed.Contacts})
	require.Equal(t, http.StatusOK, w.Code)

	// Second parse flags both entries as already stored
	w = multipartRequest(t, router, "/api/contacts/import/linkedin/parse", nil,
		map[string][]byte{"Connections.csv": []byte(connectionsCSVFixture)})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	for _, contact := range parsed.Contacts {
		assert.True(t, contact.AlreadyExists)
		assert.False(t, contact.Selected)
	}

	// Re-committing updates instead of duplicating
	w = jsonRequest(t, router, "POST", "/api/contacts/import/linkedin/commit",
		commitRequest{Contacts: parsed.Contacts})
	require.Equal(t, http.StatusOK, w.Code)

	var result importers.CommitResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 0, result.ImportedCount)
	assert.Equal(t, 2, result.UpdatedCount)
}

func TestLinkedInImport_Errors(t *testing.T) {
	t.Run("no files", func(t *testing.T) {
		db, cleanup := setupImportTestDB(t)
		defer cleanup()
		router, _ := newImportRouter(db, 0)

		w := multipartRequest(t, router, "/api/contacts/import/linkedin/parse", map[string]string{"unused": "x"}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("payload too large", func(t *testing.T) {
		db, cleanup := setupImportTestDB(t)
		defer cleanup()
		router, _ := newImportRouter(db, 16)

		w := multipartRequest(t, router, "/api/contacts/import/linkedin/parse", nil,
			map[string][]byte{"Connections.csv": []byte(connectionsCSVFixture)})
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("empty commit", func(t *testing.T) {
		db, cleanup := setupImportTestDB(t)
		defer cleanup()
		router, _ := newImportRouter(db, 0)

		w := jsonRequest(t, router, "POST", "/api/contacts/import/linkedin/commit", commitRequest{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestInstagramImport_ParseAndCommit(t *testing.T) {
	db, cleanup := setupImportTestDB(t)
	defer cleanup()
	router, contactStore := newImportRouter(db, 0)

	w := multipartRequest(t, router, "/api/contacts/import/instagram/parse",
		map[string]string{"strategy": "followers"},
		map[string][]byte{"instagram-export.zip": instagramZIP(t)})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var parsed importers.ParseResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	require.Equal(t, 1, parsed.TotalCount)

	w = jsonRequest(t, router, "POST", "/api/contacts/import/instagram/commit",
		commitRequest{Contacts: parsed.Contacts})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	saved, err := contactStore.FindByHandle(DefaultUserID, entities.PlatformInstagram, "jane.doe")
	require.NoError(t, err)
	assert.Equal(t, entities.PlatformInstagram, saved.ImportedFrom)
}

func TestInstagramImport_UnknownStrategy(t *testing.T) {
	db, cleanup := setupImportTestDB(t)
	defer cleanup()
	router, _ := newImportRouter(db, 0)

	w := multipartRequest(t, router, "/api/contacts/import/instagram/parse",
		map[string]string{"strategy": "everyone"},
		map[string][]byte{"instagram-export.zip": instagramZIP(t)})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
