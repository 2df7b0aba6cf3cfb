package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/bondery/bondery/internal/entities"
)

// ReminderStore is the reminder access the dispatch task needs.
type ReminderStore interface {
	GetReminderByID(id, userID uint) (*entities.Reminder, error)
	MarkSent(reminder *entities.Reminder, sentAt time.Time) error
}

// ReminderNotifier delivers a due reminder to the user. The log notifier
// is the default; alternative channels implement the same interface.
type ReminderNotifier interface {
	Notify(ctx context.Context, reminder *entities.Reminder) error
}

// ReminderAuditor records dispatched reminders in the audit trail.
type ReminderAuditor interface {
	LogReminder(userID uint, reminderID uint, description string)
}

// SendReminderTask dispatches one due reminder.
type SendReminderTask struct {
	ReminderID uint `json:"reminder_id"`
	UserID     uint `json:"user_id"`
}

// Config returns the queue configuration for reminder dispatch tasks.
func (t SendReminderTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "send_reminder",
		MaxAttempts: 3,
		Backoff:     time.Minute,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// SendReminderProcessor creates a processor function for SendReminderTask.
// Delivery and the sent marker are one unit: a reminder is only marked
// sent (and recurrences advanced) after the notifier accepted it.
func SendReminderProcessor(store ReminderStore, notifier ReminderNotifier, auditor ReminderAuditor) backlite.QueueProcessor[SendReminderTask] {
	return func(ctx context.Context, task SendReminderTask) error {
		if store == nil || notifier == nil {
			return fmt.Errorf("reminder dispatch not configured")
		}

		reminder, err := store.GetReminderByID(task.ReminderID, task.UserID)
		if err != nil {
			return fmt.Errorf("load reminder %d: %w", task.ReminderID, err)
		}
		if !reminder.Enabled {
			log.Printf("[TASK] Reminder %d disabled since enqueue, skipping", reminder.ID)
			return nil
		}
		if reminder.LastSentAt != nil && !reminder.LastSentAt.Before(reminder.DueAt) {
			// Another task already delivered this occurrence.
			log.Printf("[TASK] Reminder %d already sent, skipping", reminder.ID)
			return nil
		}

		if err := notifier.Notify(ctx, reminder); err != nil {
			return fmt.Errorf("notify reminder %d: %w", reminder.ID, err)
		}

		if err := store.MarkSent(reminder, time.Now()); err != nil {
			return fmt.Errorf("mark reminder %d sent: %w", reminder.ID, err)
		}

		if auditor != nil {
			auditor.LogReminder(reminder.UserID, reminder.ID, reminder.Title)
		}
		return nil
	}
}

// NewSendReminderQueue creates a backlite queue for reminder dispatch tasks.
func NewSendReminderQueue(store ReminderStore, notifier ReminderNotifier, auditor ReminderAuditor) backlite.Queue {
	return backlite.NewQueue(SendReminderProcessor(store, notifier, auditor))
}

// LogNotifier writes due reminders to the application log. It stands in
// until a real delivery channel (email, push) is configured.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, reminder *entities.Reminder) error {
	contact := ""
	if reminder.Contact != nil {
		contact = " for " + reminder.Contact.DisplayName()
	}
	log.Printf("[REMINDER] %s%s (due %s)", reminder.Title, contact, reminder.DueAt.Format(time.RFC3339))
	return nil
}
