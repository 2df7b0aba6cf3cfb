package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bondery/bondery/internal/audit"
	"github.com/bondery/bondery/internal/database/contacts"
	"github.com/bondery/bondery/internal/entities"
	"github.com/bondery/bondery/internal/importers"
	"github.com/bondery/bondery/internal/linkedin"
)

// ContactStore defines database operations for contact management.
type ContactStore interface {
	CreateContact(contact *entities.Contact) error
	GetContactByID(id, userID uint) (*entities.Contact, error)
	ListContacts(userID uint, limit, offset int) ([]entities.Contact, int64, error)
	SearchContacts(query string, userID uint) ([]entities.Contact, error)
	UpdateContact(contact *entities.Contact) error
	DeleteContact(id, userID uint) error
	DeleteContactPermanently(id, userID uint) error
	GetContactStats(userID uint) (total, withLinkedIn, withInstagram int64, err error)
	GetHandles(userID uint, platform entities.Platform) (map[string]uint, error)
}

type ContactsController struct {
	store        ContactStore
	auditService *audit.Service
}

func NewContactsController(store ContactStore, auditService *audit.Service) *ContactsController {
	return &ContactsController{store: store, auditService: auditService}
}

// contactRequest carries the mutable contact fields for create and update.
// Birthday uses the YYYY-MM-DD wire format.
type contactRequest struct {
	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name"`
	LastName   string `json:"last_name"`
	Nickname   string `json:"nickname"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Birthday   string `json:"birthday"`
	Company    string `json:"company"`
	Position   string `json:"position"`
	Notes      string `json:"notes"`
	LinkedIn   string `json:"linkedin"`
	Instagram  string `json:"instagram"`
	Website    string `json:"website"`
}

func (req *contactRequest) apply(contact *entities.Contact) error {
	contact.FirstName = req.FirstName
	contact.MiddleName = req.MiddleName
	contact.LastName = req.LastName
	contact.Nickname = req.Nickname
	contact.Email = req.Email
	contact.Phone = req.Phone
	contact.Company = req.Company
	contact.Position = req.Position
	contact.Notes = req.Notes
	contact.Website = req.Website

	contact.LinkedIn = req.LinkedIn
	contact.LinkedInUsername = linkedInHandle(req.LinkedIn)
	contact.Instagram = req.Instagram
	contact.InstagramUsername = importers.NormalizeHandle(req.Instagram)

	if req.Birthday == "" {
		contact.Birthday = nil
		return nil
	}
	birthday, err := time.Parse("2006-01-02", req.Birthday)
	if err != nil {
		return errors.New("birthday must use YYYY-MM-DD format")
	}
	contact.Birthday = &birthday
	return nil
}

// linkedInHandle normalizes a LinkedIn field that may hold either a
// profile URL or a bare handle.
func linkedInHandle(value string) string {
	return importers.NormalizeHandle(linkedin.HandleFromProfileURL(value))
}

// ListContacts returns a paginated contact list
// GET /api/contacts
func (cc *ContactsController) ListContacts(c *gin.Context) {
	userID := GetUserID(c)
	limit, offset := parsePagination(c, 50, 200)

	list, total, err := cc.store.ListContacts(userID, limit, offset)
	if err != nil {
		respondInternalError(c, err, "list contacts")
		return
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:    list,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+len(list)) < total,
	})
}

// SearchContacts searches contacts by name, nickname, or social handle
// GET /api/contacts/search?q=
func (cc *ContactsController) SearchContacts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		respondBadRequest(c, "q query parameter is required")
		return
	}

	list, err := cc.store.SearchContacts(query, GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "search contacts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"contacts": list, "count": len(list)})
}

// GetContactStats returns contact totals for the current user
// GET /api/contacts/stats
func (cc *ContactsController) GetContactStats(c *gin.Context) {
	total, withLinkedIn, withInstagram, err := cc.store.GetContactStats(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "contact stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_contacts": total,
		"with_linkedin":  withLinkedIn,
		"with_instagram": withInstagram,
	})
}

// GetContact returns a single contact with groups preloaded
// GET /api/contacts/:id
func (cc *ContactsController) GetContact(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	contact, err := cc.store.GetContactByID(id, GetUserID(c))
	if err != nil {
		if errors.Is(err, contacts.ErrNotFound) {
			respondNotFound(c, "contact")
			return
		}
		respondInternalError(c, err, "get contact")
		return
	}
	c.JSON(http.StatusOK, contact)
}

// CreateContact creates a new contact
// POST /api/contacts
func (cc *ContactsController) CreateContact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.FirstName == "" {
		respondBadRequest(c, "first_name is required")
		return
	}

	contact := &entities.Contact{UserID: GetUserID(c)}
	if err := req.apply(contact); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := cc.store.CreateContact(contact); err != nil {
		respondInternalError(c, err, "create contact")
		return
	}
	respondCreated(c, contact)
}

// UpdateContact replaces a contact's mutable fields
// PUT /api/contacts/:id
func (cc *ContactsController) UpdateContact(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID := GetUserID(c)

	contact, err := cc.store.GetContactByID(id, userID)
	if err != nil {
		if errors.Is(err, contacts.ErrNotFound) {
			respondNotFound(c, "contact")
			return
		}
		respondInternalError(c, err, "get contact")
		return
	}

	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.FirstName == "" {
		respondBadRequest(c, "first_name is required")
		return
	}
	if err := req.apply(contact); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := cc.store.UpdateContact(contact); err != nil {
		respondInternalError(c, err, "update contact")
		return
	}
	c.JSON(http.StatusOK, contact)
}

// DeleteContact soft-deletes a contact
// DELETE /api/contacts/:id
func (cc *ContactsController) DeleteContact(c *gin.Context) {
	cc.delete(c, false)
}

// DeleteContactPermanently removes a contact and its associations for good
// DELETE /api/contacts/:id/permanent
func (cc *ContactsController) DeleteContactPermanently(c *gin.Context) {
	cc.delete(c, true)
}

func (cc *ContactsController) delete(c *gin.Context, permanent bool) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID := GetUserID(c)

	contact, err := cc.store.GetContactByID(id, userID)
	if err != nil {
		if errors.Is(err, contacts.ErrNotFound) {
			respondNotFound(c, "contact")
			return
		}
		respondInternalError(c, err, "get contact")
		return
	}

	if permanent {
		err = cc.store.DeleteContactPermanently(id, userID)
	} else {
		err = cc.store.DeleteContact(id, userID)
	}
	if err != nil {
		respondInternalError(c, err, "delete contact")
		return
	}

	if cc.auditService != nil {
		cc.auditService.LogDelete(userID, "contact", id, contact.DisplayName(), permanent)
	}
	respondSuccess(c, "contact deleted")
}
