package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bondery/bondery/internal/audit"
	"github.com/bondery/bondery/internal/entities"
	"github.com/bondery/bondery/internal/importers"
	"github.com/bondery/bondery/internal/linkedin"
)

// ImportContactStore is the contact access the parse endpoints need on
// top of the committer's own store.
type ImportContactStore interface {
	importers.ContactStore
}

// LinkedInImportController handles the two-phase LinkedIn connection import.
type LinkedInImportController struct {
	reader       *linkedin.Reader
	preparer     *importers.Preparer
	committer    *importers.Committer
	store        ImportContactStore
	sessions     ImportSessionStore
	auditService *audit.Service
}

func NewLinkedInImportController(
	store ImportContactStore,
	sessions ImportSessionStore,
	auditService *audit.Service,
	maxUploadBytes int64,
) *LinkedInImportController {
	return &LinkedInImportController{
		reader:       linkedin.NewReader(maxUploadBytes),
		preparer:     importers.NewPreparer(),
		committer:    importers.NewCommitter(store),
		store:        store,
		sessions:     sessions,
		auditService: auditService,
	}
}

// Parse extracts Connections.csv from the upload and returns reviewed
// import candidates. Nothing is persisted.
// POST /api/contacts/import/linkedin/parse
func (lc *LinkedInImportController) Parse(c *gin.Context) {
	files, err := readUploadedFiles(c)
	if err != nil {
		respondImportError(c, err, "read linkedin upload")
		return
	}

	records, err := lc.reader.Extract(files)
	if err != nil {
		respondImportError(c, err, "parse linkedin export")
		return
	}

	existing, err := lc.store.GetHandles(GetUserID(c), entities.PlatformLinkedIn)
	if err != nil {
		respondInternalError(c, err, "load linkedin handles")
		return
	}

	c.JSON(http.StatusOK, lc.preparer.Prepare(records, existing))
}

// Commit writes the user-approved entries to the contact store.
// POST /api/contacts/import/linkedin/commit
func (lc *LinkedInImportController) Commit(c *gin.Context) {
	commitContacts(c, lc.committer, lc.sessions, lc.auditService, entities.PlatformLinkedIn)
}
