package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bondery/bondery/internal/audit"
	"github.com/bondery/bondery/internal/entities"
	"github.com/bondery/bondery/internal/importers"
	"github.com/bondery/bondery/internal/instagram"
)

// InstagramImportController handles the two-phase Instagram connection import.
type InstagramImportController struct {
	reader       *instagram.Reader
	preparer     *importers.Preparer
	committer    *importers.Committer
	store        ImportContactStore
	sessions     ImportSessionStore
	auditService *audit.Service
}

func NewInstagramImportController(
	store ImportContactStore,
	sessions ImportSessionStore,
	auditService *audit.Service,
	maxUploadBytes int64,
) *InstagramImportController {
	return &InstagramImportController{
		reader:       instagram.NewReader(maxUploadBytes),
		preparer:     importers.NewPreparer(),
		committer:    importers.NewCommitter(store),
		store:        store,
		sessions:     sessions,
		auditService: auditService,
	}
}

// Parse extracts the selected relationship lists from the upload and
// returns reviewed import candidates. Nothing is persisted. The strategy
// form field picks which lists count: close_friends, following,
// followers, following_and_followers, or mutual_following.
// POST /api/contacts/import/instagram/parse
func (ic *InstagramImportController) Parse(c *gin.Context) {
	strategy, err := instagram.ParseStrategy(c.PostForm("strategy"))
	if err != nil {
		respondBadRequest(c, "strategy must be one of: close_friends, following, followers, following_and_followers, mutual_following")
		return
	}

	files, err := readUploadedFiles(c)
	if err != nil {
		respondImportError(c, err, "read instagram upload")
		return
	}

	records, err := ic.reader.Extract(files, strategy)
	if err != nil {
		respondImportError(c, err, "parse instagram export")
		return
	}

	existing, err := ic.store.GetHandles(GetUserID(c), entities.PlatformInstagram)
	if err != nil {
		respondInternalError(c, err, "load instagram handles")
		return
	}

	c.JSON(http.StatusOK, ic.preparer.Prepare(records, existing))
}

// Commit writes the user-approved entries to the contact store.
// POST /api/contacts/import/instagram/commit
func (ic *InstagramImportController) Commit(c *gin.Context) {
	commitContacts(c, ic.committer, ic.sessions, ic.auditService, entities.PlatformInstagram)
}
