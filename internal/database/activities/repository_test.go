package activities

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

func setupTestDB(t *testing.T) (*Repository, *gorm.DB, func()) {
	dbPath := "./test_activities_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Contact{},
		&entities.Activity{},
	)
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, db, cleanup
}

func TestRepository_CreateAndList(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	now := time.Now()
	require.NoError(t, repo.CreateActivity(&entities.Activity{
		UserID: 1, Title: "Coffee with Jane", StartsAt: now,
	}))
	require.NoError(t, repo.CreateActivity(&entities.Activity{
		UserID: 1, Title: "Dinner", StartsAt: now.Add(time.Hour),
	}))
	require.NoError(t, repo.CreateActivity(&entities.Activity{
		UserID: 2, Title: "Other tenant", StartsAt: now,
	}))

	activities, total, err := repo.ListActivities(1, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, activities, 2)
	// Newest first
	assert.Equal(t, "Dinner", activities[0].Title)
}

func TestRepository_Participants(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	activity := &entities.Activity{UserID: 1, Title: "Birthday party", StartsAt: time.Now()}
	require.NoError(t, repo.CreateActivity(activity))

	contact := &entities.Contact{UserID: 1, FirstName: "Jane"}
	require.NoError(t, db.Create(contact).Error)

	require.NoError(t, repo.AddParticipant(activity.ID, contact.ID, 1))

	byContact, err := repo.ListByContact(contact.ID, 1)
	require.NoError(t, err)
	require.Len(t, byContact, 1)
	assert.Equal(t, "Birthday party", byContact[0].Title)

	require.NoError(t, repo.RemoveParticipant(activity.ID, contact.ID, 1))
	byContact, err = repo.ListByContact(contact.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, byContact)
}

func TestRepository_ListUpcoming(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	now := time.Now()
	require.NoError(t, repo.CreateActivity(&entities.Activity{
		UserID: 1, Title: "Past", StartsAt: now.Add(-time.Hour),
	}))
	require.NoError(t, repo.CreateActivity(&entities.Activity{
		UserID: 1, Title: "Future", StartsAt: now.Add(time.Hour),
	}))

	upcoming, err := repo.ListUpcoming(1, now)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "Future", upcoming[0].Title)
}

func TestRepository_DeleteActivity(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	activity := &entities.Activity{UserID: 1, Title: "Temp", StartsAt: time.Now()}
	require.NoError(t, repo.CreateActivity(activity))

	require.NoError(t, repo.DeleteActivity(activity.ID, 1))
	_, err := repo.GetActivityByID(activity.ID, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}
