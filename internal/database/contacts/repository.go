// Package contacts provides database operations for contact management.
//
// This package implements the ContactStore interface defined in
// internal/http/contacts.go and the importers.ContactStore interface
// used by the import committer.
package contacts

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/bondery/bondery/internal/entities"
)

// ErrNotFound is returned when a contact does not exist or belongs to
// another user.
var ErrNotFound = errors.New("contact not found")

// Repository handles all contact database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new contacts repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateContact inserts a new contact for the user.
func (r *Repository) CreateContact(contact *entities.Contact) error {
	normalizeHandles(contact)
	return r.db.Create(contact).Error
}

// GetContactByID retrieves a contact owned by the user, with groups preloaded.
func (r *Repository) GetContactByID(id, userID uint) (*entities.Contact, error) {
	var contact entities.Contact
	err := r.db.Preload("Groups").Where("id = ? AND user_id = ?", id, userID).First(&contact).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

// ListContacts returns a page of the user's contacts ordered by name,
// along with the total count.
func (r *Repository) ListContacts(userID uint, limit, offset int) ([]entities.Contact, int64, error) {
	var total int64
	if err := r.db.Model(&entities.Contact{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var contacts []entities.Contact
	query := r.db.Where("user_id = ?", userID).Order("first_name, last_name")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	err := query.Find(&contacts).Error
	return contacts, total, err
}

// SearchContacts matches the query against names, company and social handles
// (case-insensitive partial match).
func (r *Repository) SearchContacts(query string, userID uint) ([]entities.Contact, error) {
	var contacts []entities.Contact
	pattern := "%" + query + "%"
	err := r.db.Where("user_id = ?", userID).
		Where(r.db.
			Where("LOWER(first_name) LIKE LOWER(?)", pattern).
			Or("LOWER(last_name) LIKE LOWER(?)", pattern).
			Or("LOWER(nickname) LIKE LOWER(?)", pattern).
			Or("LOWER(company) LIKE LOWER(?)", pattern).
			Or("linkedin_username LIKE LOWER(?)", pattern).
			Or("instagram_username LIKE LOWER(?)", pattern)).
		Order("first_name, last_name").
		Find(&contacts).Error
	return contacts, err
}

// UpdateContact persists changes to an existing contact owned by the user.
func (r *Repository) UpdateContact(contact *entities.Contact) error {
	normalizeHandles(contact)
	result := r.db.Model(&entities.Contact{}).
		Where("id = ? AND user_id = ?", contact.ID, contact.UserID).
		Select("*").
		Omit("id", "user_id", "created_at", "deleted_at").
		Updates(contact)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteContact soft-deletes a contact owned by the user.
func (r *Repository) DeleteContact(id, userID uint) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&entities.Contact{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteContactPermanently removes a contact and its associations for good.
func (r *Repository) DeleteContactPermanently(id, userID uint) error {
	var contact entities.Contact
	err := r.db.Unscoped().Where("id = ? AND user_id = ?", id, userID).First(&contact).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM group_contacts WHERE contact_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM activity_contacts WHERE contact_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&contact).Error
	})
}

// GetContactStats returns counts for the user's address book.
func (r *Repository) GetContactStats(userID uint) (total, withLinkedIn, withInstagram int64, err error) {
	base := r.db.Model(&entities.Contact{}).Where("user_id = ?", userID)
	if err = base.Count(&total).Error; err != nil {
		return
	}
	err = r.db.Model(&entities.Contact{}).
		Where("user_id = ? AND linkedin_username != ''", userID).Count(&withLinkedIn).Error
	if err != nil {
		return
	}
	err = r.db.Model(&entities.Contact{}).
		Where("user_id = ? AND instagram_username != ''", userID).Count(&withInstagram).Error
	return
}

// GetHandles returns the set of normalized handles the user already has
// stored for the given platform, keyed by lowercased handle.
func (r *Repository) GetHandles(userID uint, platform entities.Platform) (map[string]uint, error) {
	column, err := handleColumn(platform)
	if err != nil {
		return nil, err
	}

	type row struct {
		ID     uint
		Handle string
	}
	var rows []row
	err = r.db.Model(&entities.Contact{}).
		Select("id, "+column+" AS handle").
		Where("user_id = ? AND "+column+" != ''", userID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	handles := make(map[string]uint, len(rows))
	for _, row := range rows {
		handles[strings.ToLower(row.Handle)] = row.ID
	}
	return handles, nil
}

// FindByHandle looks up the user's contact carrying the given platform
// handle (case-insensitive). Returns ErrNotFound when absent.
func (r *Repository) FindByHandle(userID uint, platform entities.Platform, handle string) (*entities.Contact, error) {
	column, err := handleColumn(platform)
	if err != nil {
		return nil, err
	}

	var contact entities.Contact
	err = r.db.Where("user_id = ? AND "+column+" = ?", userID, strings.ToLower(handle)).
		First(&contact).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

func handleColumn(platform entities.Platform) (string, error) {
	switch platform {
	case entities.PlatformLinkedIn:
		return "linkedin_username", nil
	case entities.PlatformInstagram:
		return "instagram_username", nil
	default:
		return "", errors.New("unknown platform: " + string(platform))
	}
}

// normalizeHandles lowercases the stored platform handles so duplicate
// detection can compare them directly.
func normalizeHandles(contact *entities.Contact) {
	contact.LinkedInUsername = strings.ToLower(strings.TrimSpace(contact.LinkedInUsername))
	contact.InstagramUsername = strings.ToLower(strings.TrimSpace(contact.InstagramUsername))
}
