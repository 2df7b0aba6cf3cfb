// Package activities provides database operations for activities and events.
package activities

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/bondery/bondery/internal/entities"
)

var ErrNotFound = errors.New("activity not found")

// Repository handles all activity database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new activities repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateActivity inserts a new activity for the user.
func (r *Repository) CreateActivity(activity *entities.Activity) error {
	return r.db.Create(activity).Error
}

// GetActivityByID retrieves an activity owned by the user, with participants.
func (r *Repository) GetActivityByID(id, userID uint) (*entities.Activity, error) {
	var activity entities.Activity
	err := r.db.Preload("Contacts").Where("id = ? AND user_id = ?", id, userID).First(&activity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &activity, nil
}

// ListActivities returns the user's activities, newest first.
func (r *Repository) ListActivities(userID uint, limit, offset int) ([]entities.Activity, int64, error) {
	var total int64
	if err := r.db.Model(&entities.Activity{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var activities []entities.Activity
	query := r.db.Preload("Contacts").Where("user_id = ?", userID).Order("starts_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	err := query.Find(&activities).Error
	return activities, total, err
}

// ListUpcoming returns activities starting at or after now, soonest first.
func (r *Repository) ListUpcoming(userID uint, now time.Time) ([]entities.Activity, error) {
	var activities []entities.Activity
	err := r.db.Preload("Contacts").
		Where("user_id = ? AND starts_at >= ?", userID, now).
		Order("starts_at").
		Find(&activities).Error
	return activities, err
}

// ListByContact returns activities in which the contact participates.
func (r *Repository) ListByContact(contactID, userID uint) ([]entities.Activity, error) {
	var activities []entities.Activity
	err := r.db.
		Joins("JOIN activity_contacts ON activity_contacts.activity_id = activities.id").
		Where("activity_contacts.contact_id = ? AND activities.user_id = ?", contactID, userID).
		Order("starts_at DESC").
		Find(&activities).Error
	return activities, err
}

// UpdateActivity persists changes to an existing activity.
func (r *Repository) UpdateActivity(activity *entities.Activity) error {
	result := r.db.Model(&entities.Activity{}).
		Where("id = ? AND user_id = ?", activity.ID, activity.UserID).
		Updates(map[string]any{
			"title":       activity.Title,
			"description": activity.Description,
			"location":    activity.Location,
			"starts_at":   activity.StartsAt,
			"ends_at":     activity.EndsAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteActivity removes an activity and its participant links.
func (r *Repository) DeleteActivity(id, userID uint) error {
	activity, err := r.GetActivityByID(id, userID)
	if err != nil {
		return err
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM activity_contacts WHERE activity_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(activity).Error
	})
}

// AddParticipant links a contact to the activity.
func (r *Repository) AddParticipant(activityID, contactID, userID uint) error {
	activity, err := r.GetActivityByID(activityID, userID)
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

	return r.db.Model(activity).Association("Contacts").Append(&contact)
}

// RemoveParticipant unlinks a contact from the activity.
func (r *Repository) RemoveParticipant(activityID, contactID, userID uint) error {
	activity, err := r.GetActivityByID(activityID, userID)
	if err != nil {
		return err
	}
	return r.db.Model(activity).Association("Contacts").Delete(&entities.Contact{ID: contactID})
}
