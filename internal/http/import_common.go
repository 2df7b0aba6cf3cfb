package http

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bondery/bondery/internal/audit"
	"github.com/bondery/bondery/internal/entities"
	"github.com/bondery/bondery/internal/importers"
)

// ImportSessionStore persists and lists per-commit import history.
type ImportSessionStore interface {
	RecordSession(session *entities.ImportSession) error
	ListSessions(userID uint, limit int) ([]entities.ImportSession, error)
}

// commitRequest is the body of a commit call: the user-approved subset
// of the entries returned by the matching parse call.
type commitRequest struct {
	Contacts []importers.PreparedContact `json:"contacts"`
}

// readUploadedFiles collects the multipart "files" field into memory.
func readUploadedFiles(c *gin.Context) ([]importers.UploadedFile, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, &importers.InvalidArchiveError{Reason: "expected a multipart form with a files field"}
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		return nil, &importers.InvalidArchiveError{Reason: "no files uploaded"}
	}

	files := make([]importers.UploadedFile, 0, len(headers))
	for _, header := range headers {
		opened, err := header.Open()
		if err != nil {
			return nil, &importers.InvalidArchiveError{Reason: "could not read uploaded file"}
		}
		data, err := io.ReadAll(opened)
		opened.Close()
		if err != nil {
			return nil, &importers.InvalidArchiveError{Reason: "could not read uploaded file"}
		}
		files = append(files, importers.UploadedFile{Name: header.Filename, Data: data})
	}
	return files, nil
}

// respondImportError maps pipeline errors onto HTTP statuses. Unknown
// errors are treated as internal.
func respondImportError(c *gin.Context, err error, context string) {
	var invalid *importers.InvalidArchiveError
	var unsupported *importers.UnsupportedFormatError
	var tooLarge *importers.PayloadTooLargeError
	var validation *importers.CommitValidationError

	switch {
	case errors.As(err, &invalid):
		respondBadRequest(c, invalid.Error())
	case errors.As(err, &unsupported):
		respondBadRequest(c, unsupported.Error())
	case errors.As(err, &validation):
		respondBadRequest(c, validation.Error())
	case errors.As(err, &tooLarge):
		respondError(c, http.StatusRequestEntityTooLarge, tooLarge.Error())
	default:
		respondInternalError(c, err, context)
	}
}

// commitContacts runs the committer and the bookkeeping shared by both
// platform commit endpoints.
func commitContacts(
	c *gin.Context,
	committer *importers.Committer,
	sessions ImportSessionStore,
	auditService *audit.Service,
	platform entities.Platform,
) {
	var req commitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	userID := GetUserID(c)
	startedAt := time.Now()

	result, err := committer.Commit(userID, platform, req.Contacts)
	if auditService != nil {
		auditService.LogImport(userID, platform,
			string(platform)+" import commit",
			audit.ImportCounts(result.ImportedCount, result.UpdatedCount, result.SkippedCount), err)
	}
	if err != nil {
		respondImportError(c, err, "commit "+string(platform)+" import")
		return
	}

	if sessions != nil {
		if recordErr := importers.RecordSession(sessions, userID, platform, startedAt, result); recordErr != nil {
			// History is best-effort; the contacts are already written.
			c.Writer.Header().Set("X-Import-History-Warning", "failed to record import session")
		}
	}

	c.JSON(http.StatusOK, result)
}

// ImportSessionsController exposes past import runs.
type ImportSessionsController struct {
	sessions ImportSessionStore
}

func NewImportSessionsController(sessions ImportSessionStore) *ImportSessionsController {
	return &ImportSessionsController{sessions: sessions}
}

// ListSessions returns recent import sessions, newest first
// GET /api/contacts/import/sessions
func (ic *ImportSessionsController) ListSessions(c *gin.Context) {
	limit, _ := parsePagination(c, 20, 100)

	list, err := ic.sessions.ListSessions(GetUserID(c), limit)
	if err != nil {
		respondInternalError(c, err, "list import sessions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": list, "count": len(list)})
}
