package reminders

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bondery/bondery/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_reminders_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Contact{},
		&entities.Reminder{},
	)
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func TestRepository_ListDue(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	now := time.Now()

	overdue := &entities.Reminder{
		UserID: 1, Title: "Call Jane", DueAt: now.Add(-time.Hour), Enabled: true,
	}
	require.NoError(t, repo.CreateReminder(overdue))

	future := &entities.Reminder{
		UserID: 1, Title: "Later", DueAt: now.Add(time.Hour), Enabled: true,
	}
	require.NoError(t, repo.CreateReminder(future))

	disabled := &entities.Reminder{
		UserID: 1, Title: "Off", DueAt: now.Add(-time.Hour), Enabled: false,
	}
	require.NoError(t, repo.CreateReminder(disabled))

	due, err := repo.ListDue(now)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "Call Jane", due[0].Title)
}

func TestRepository_MarkSent_NonRecurring(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	now := time.Now()
	reminder := &entities.Reminder{
		UserID: 1, Title: "Once", DueAt: now.Add(-time.Minute),
		Recurrence: entities.RecurrenceNone, Enabled: true,
	}
	require.NoError(t, repo.CreateReminder(reminder))

	require.NoError(t, repo.MarkSent(reminder, now))

	stored, err := repo.GetReminderByID(reminder.ID, 1)
	require.NoError(t, err)
	assert.False(t, stored.Enabled)
	require.NotNil(t, stored.LastSentAt)

	due, err := repo.ListDue(now.Add(time.Minute))
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestRepository_MarkSent_RecurringAdvances(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	now := time.Now()
	reminder := &entities.Reminder{
		UserID: 1, Title: "Weekly", DueAt: now.Add(-time.Hour),
		Recurrence: entities.RecurrenceWeekly, Enabled: true,
	}
	require.NoError(t, repo.CreateReminder(reminder))

	require.NoError(t, repo.MarkSent(reminder, now))

	stored, err := repo.GetReminderByID(reminder.ID, 1)
	require.NoError(t, err)
	assert.True(t, stored.Enabled)
	assert.True(t, stored.DueAt.After(now))

	due, err := repo.ListDue(now.Add(time.Minute))
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestRepository_ListUpcoming_Window(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	now := time.Now()
	require.NoError(t, repo.CreateReminder(&entities.Reminder{
		UserID: 1, Title: "Soon", DueAt: now.Add(time.Hour), Enabled: true,
	}))
	require.NoError(t, repo.CreateReminder(&entities.Reminder{
		UserID: 1, Title: "Far", DueAt: now.Add(100 * time.Hour), Enabled: true,
	}))

	upcoming, err := repo.ListUpcoming(1, now, 24*time.Hour)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "Soon", upcoming[0].Title)
}
