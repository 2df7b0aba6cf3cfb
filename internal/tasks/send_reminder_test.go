package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bondery/bondery/internal/database/reminders"
	"github.com/bondery/bondery/internal/entities"
)

type recordingNotifier struct {
	notified []uint
	fail     bool
}

func (n *recordingNotifier) Notify(_ context.Context, reminder *entities.Reminder) error {
	if n.fail {
		return errors.New("delivery failed")
	}
	n.notified = append(n.notified, reminder.ID)
	return nil
}

type recordingAuditor struct {
	logged []uint
}

func (a *recordingAuditor) LogReminder(_ uint, reminderID uint, _ string) {
	a.logged = append(a.logged, reminderID)
}

func setupReminderStore(t *testing.T) *reminders.Repository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.User{}, &entities.Contact{}, &entities.Reminder{}))
	return reminders.NewRepository(db)
}

func TestSendReminderProcessor_MarksSentAndAudits(t *testing.T) {
	store := setupReminderStore(t)
	require.NoError(t, store.CreateReminder(&entities.Reminder{
		UserID: 1, Title: "Call mum", DueAt: time.Now().Add(-time.Hour),
		Recurrence: entities.RecurrenceNone, Enabled: true,
	}))

	notifier := &recordingNotifier{}
	auditor := &recordingAuditor{}
	processor := SendReminderProcessor(store, notifier, auditor)

	require.NoError(t, processor(context.Background(), SendReminderTask{ReminderID: 1, UserID: 1}))
	assert.Equal(t, []uint{1}, notifier.notified)
	assert.Equal(t, []uint{1}, auditor.logged)

	// Non-recurring reminders are disabled after sending
	sent, err := store.GetReminderByID(1, 1)
	require.NoError(t, err)
	assert.False(t, sent.Enabled)
	assert.NotNil(t, sent.LastSentAt)
}

func TestSendReminderProcessor_RecurringAdvances(t *testing.T) {
	store := setupReminderStore(t)
	due := time.Now().Add(-time.Hour)
	require.NoError(t, store.CreateReminder(&entities.Reminder{
		UserID: 1, Title: "Weekly check-in", DueAt: due,
		Recurrence: entities.RecurrenceWeekly, Enabled: true,
	}))

	processor := SendReminderProcessor(store, &recordingNotifier{}, nil)
	require.NoError(t, processor(context.Background(), SendReminderTask{ReminderID: 1, UserID: 1}))

	sent, err := store.GetReminderByID(1, 1)
	require.NoError(t, err)
	assert.True(t, sent.Enabled)
	assert.True(t, sent.DueAt.After(time.Now()))
}

func TestSendReminderProcessor_FailedDeliveryLeavesReminderDue(t *testing.T) {
	store := setupReminderStore(t)
	require.NoError(t, store.CreateReminder(&entities.Reminder{
		UserID: 1, Title: "Call mum", DueAt: time.Now().Add(-time.Hour),
		Recurrence: entities.RecurrenceNone, Enabled: true,
	}))

	processor := SendReminderProcessor(store, &recordingNotifier{fail: true}, nil)
	require.Error(t, processor(context.Background(), SendReminderTask{ReminderID: 1, UserID: 1}))

	reminder, err := store.GetReminderByID(1, 1)
	require.NoError(t, err)
	assert.True(t, reminder.Enabled)
	assert.Nil(t, reminder.LastSentAt)
}

func TestSendReminderProcessor_SkipsDisabled(t *testing.T) {
	store := setupReminderStore(t)
	require.NoError(t, store.CreateReminder(&entities.Reminder{
		UserID: 1, Title: "Call mum", DueAt: time.Now().Add(-time.Hour),
		Recurrence: entities.RecurrenceNone, Enabled: false,
	}))

	notifier := &recordingNotifier{}
	processor := SendReminderProcessor(store, notifier, nil)
	require.NoError(t, processor(context.Background(), SendReminderTask{ReminderID: 1, UserID: 1}))
	assert.Empty(t, notifier.notified)
}
