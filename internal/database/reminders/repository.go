// Package reminders provides database operations for contact reminders.
package reminders

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/bondery/bondery/internal/entities"
)

var ErrNotFound = errors.New("reminder not found")

// Repository handles all reminder database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new reminders repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateReminder inserts a new reminder for the user.
func (r *Repository) CreateReminder(reminder *entities.Reminder) error {
	return r.db.Create(reminder).Error
}

// GetReminderByID retrieves a reminder owned by the user.
func (r *Repository) GetReminderByID(id, userID uint) (*entities.Reminder, error) {
	var reminder entities.Reminder
	err := r.db.Preload("Contact").Where("id = ? AND user_id = ?", id, userID).First(&reminder).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &reminder, nil
}

// ListReminders returns all reminders for a user ordered by due date.
func (r *Repository) ListReminders(userID uint) ([]entities.Reminder, error) {
	var reminders []entities.Reminder
	err := r.db.Preload("Contact").Where("user_id = ?", userID).Order("due_at").Find(&reminders).Error
	return reminders, err
}

// ListUpcoming returns enabled reminders due within the window.
func (r *Repository) ListUpcoming(userID uint, now time.Time, window time.Duration) ([]entities.Reminder, error) {
	var reminders []entities.Reminder
	err := r.db.Preload("Contact").
		Where("user_id = ? AND enabled = ? AND due_at BETWEEN ? AND ?", userID, true, now, now.Add(window)).
		Order("due_at").
		Find(&reminders).Error
	return reminders, err
}

// ListDue returns enabled reminders across all users whose due date has
// passed and that have not been sent for the current occurrence.
func (r *Repository) ListDue(now time.Time) ([]entities.Reminder, error) {
	var reminders []entities.Reminder
	err := r.db.Preload("Contact").
		Where("enabled = ? AND due_at <= ?", true, now).
		Where("last_sent_at IS NULL OR last_sent_at < due_at").
		Order("due_at").
		Find(&reminders).Error
	return reminders, err
}

// MarkSent records the dispatch and advances recurring reminders to their
// next occurrence. Non-recurring reminders are disabled after sending.
func (r *Repository) MarkSent(reminder *entities.Reminder, sentAt time.Time) error {
	updates := map[string]any{
		"last_sent_at": sentAt,
	}
	if reminder.Recurrence == entities.RecurrenceNone {
		updates["enabled"] = false
	} else {
		updates["due_at"] = reminder.NextDueAt(sentAt)
	}
	return r.db.Model(&entities.Reminder{}).Where("id = ?", reminder.ID).Updates(updates).Error
}

// UpdateReminder persists changes to an existing reminder.
func (r *Repository) UpdateReminder(reminder *entities.Reminder) error {
	result := r.db.Model(&entities.Reminder{}).
		Where("id = ? AND user_id = ?", reminder.ID, reminder.UserID).
		Updates(map[string]any{
			"contact_id": reminder.ContactID,
			"title":      reminder.Title,
			"message":    reminder.Message,
			"due_at":     reminder.DueAt,
			"recurrence": reminder.Recurrence,
			"enabled":    reminder.Enabled,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteReminder removes a reminder owned by the user.
func (r *Repository) DeleteReminder(id, userID uint) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&entities.Reminder{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
