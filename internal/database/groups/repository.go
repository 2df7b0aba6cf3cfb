// Package groups provides database operations for contact groups.
package groups

import (
	"errors"

	"gorm.io/gorm"

	"github.com/bondery/bondery/internal/entities"
)

var ErrNotFound = errors.New("group not found")

// Repository handles all group database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new groups repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateGroup inserts a new group for the user.
func (r *Repository) CreateGroup(group *entities.Group) error {
	return r.db.Create(group).Error
}

// GetGroupByID retrieves a group owned by the user, with contacts preloaded.
func (r *Repository) GetGroupByID(id, userID uint) (*entities.Group, error) {
	var group entities.Group
	err := r.db.Preload("Contacts").Where("id = ? AND user_id = ?", id, userID).First(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// GetGroupsForUser retrieves all groups for a user ordered by name.
func (r *Repository) GetGroupsForUser(userID uint) ([]entities.Group, error) {
	var groups []entities.Group
	err := r.db.Where("user_id = ?", userID).Order("name").Find(&groups).Error
	return groups, err
}

// UpdateGroup persists name/description/color changes.
func (r *Repository) UpdateGroup(group *entities.Group) error {
	result := r.db.Model(&entities.Group{}).
		Where("id = ? AND user_id = ?", group.ID, group.UserID).
		Updates(map[string]any{
			"name":        group.Name,
			"description": group.Description,
			"color":       group.Color,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteGroup removes a group and its memberships. Contacts survive.
func (r *Repository) DeleteGroup(id, userID uint) error {
	group, err := r.GetGroupByID(id, userID)
	if err != nil {
		return err
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM group_contacts WHERE group_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(group).Error
	})
}

// AddContactToGroup creates a membership. Both rows must belong to the user.
func (r *Repository) AddContactToGroup(groupID, contactID, userID uint) error {
	group, err := r.GetGroupByID(groupID, userID)
	if err != nil {
		return err
	}

	var contact entities.Contact
	err = r.db.Where("id = ? AND user_id = ?", contactID, userID).First(&contact).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	return r.db.Model(group).Association("Contacts").Append(&contact)
}

// RemoveContactFromGroup deletes a membership.
func (r *Repository) RemoveContactFromGroup(groupID, contactID, userID uint) error {
	group, err := r.GetGroupByID(groupID, userID)
	if err != nil {
		return err
	}
	return r.db.Model(group).Association("Contacts").Delete(&entities.Contact{ID: contactID})
}

// GetContactsByGroup lists the member contacts of a group.
func (r *Repository) GetContactsByGroup(groupID, userID uint) ([]entities.Contact, error) {
	group, err := r.GetGroupByID(groupID, userID)
	if err != nil {
		return nil, err
	}
	return group.Contacts, nil
}
