package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bondery/bondery/internal/database/contacts"
	"github.com/bondery/bondery/internal/entities"
	"github.com/bondery/bondery/internal/photos"
)

// PhotoContactStore is the contact access the photo endpoints need.
type PhotoContactStore interface {
	GetContactByID(id, userID uint) (*entities.Contact, error)
	UpdateContact(contact *entities.Contact) error
}

// PhotosController manages contact profile photos.
type PhotosController struct {
	store    *photos.Store
	contacts PhotoContactStore
}

func NewPhotosController(store *photos.Store, contactStore PhotoContactStore) *PhotosController {
	return &PhotosController{store: store, contacts: contactStore}
}

func (pc *PhotosController) contact(c *gin.Context) (*entities.Contact, bool) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil, false
	}
	contact, err := pc.contacts.GetContactByID(id, GetUserID(c))
	if err != nil {
		if errors.Is(err, contacts.ErrNotFound) {
			respondNotFound(c, "contact")
			return nil, false
		}
		respondInternalError(c, err, "get contact")
		return nil, false
	}
	return contact, true
}

// Upload stores a contact photo from the multipart photo field
// POST /api/contacts/:id/photo
func (pc *PhotosController) Upload(c *gin.Context) {
	contact, ok := pc.contact(c)
	if !ok {
		return
	}

	header, err := c.FormFile("photo")
	if err != nil {
		respondBadRequest(c, "expected a multipart form with a photo field")
		return
	}
	file, err := header.Open()
	if err != nil {
		respondBadRequest(c, "could not read uploaded photo")
		return
	}
	defer file.Close()

	path, err := pc.store.Save(contact.ID, file)
	if err != nil {
		switch {
		case errors.Is(err, photos.ErrUnsupportedType):
			respondBadRequest(c, err.Error())
		case errors.Is(err, photos.ErrTooLarge):
			respondError(c, http.StatusRequestEntityTooLarge, err.Error())
		default:
			respondInternalError(c, err, "save photo")
		}
		return
	}

	contact.PhotoPath = path
	if err := pc.contacts.UpdateContact(contact); err != nil {
		respondInternalError(c, err, "update contact photo path")
		return
	}
	respondSuccess(c, "photo uploaded")
}

// Serve returns the stored photo file
// GET /api/contacts/:id/photo
func (pc *PhotosController) Serve(c *gin.Context) {
	contact, ok := pc.contact(c)
	if !ok {
		return
	}

	path, err := pc.store.Path(contact.ID)
	if err != nil {
		respondInternalError(c, err, "locate photo")
		return
	}
	if path == "" {
		respondNotFound(c, "photo")
		return
	}
	c.File(path)
}

// Delete removes the stored photo
// DELETE /api/contacts/:id/photo
func (pc *PhotosController) Delete(c *gin.Context) {
	contact, ok := pc.contact(c)
	if !ok {
		return
	}

	if err := pc.store.Remove(contact.ID); err != nil {
		respondInternalError(c, err, "remove photo")
		return
	}
	if contact.PhotoPath != "" {
		contact.PhotoPath = ""
		if err := pc.contacts.UpdateContact(contact); err != nil {
			respondInternalError(c, err, "clear contact photo path")
			return
		}
	}
	respondSuccess(c, "photo removed")
}
