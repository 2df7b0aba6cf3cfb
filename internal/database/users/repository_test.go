package users

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bondery/bondery/internal/database"
	"github.com/bondery/bondery/internal/entities"
)

func setupTestRepo(t *testing.T) (*Repository, func()) {
	dbPath := "./test_users_" + t.Name() + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	repo := NewRepository(db.DB)
	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return repo, cleanup
}

func TestCreateAndGetUser(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	user := &entities.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		Role:         entities.UserRoleAdmin,
	}
	require.NoError(t, repo.CreateUser(user))
	assert.NotZero(t, user.ID)

	byID, err := repo.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	byLogin, err := repo.GetUserByLogin("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byLogin.ID)

	_, err = repo.GetUserByLogin("nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExistsAndCount(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	count, err := repo.CountUsers()
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, repo.CreateUser(&entities.User{Username: "bob", Email: "bob@example.com"}))

	exists, err := repo.ExistsByLogin("bob", "other@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByLogin("carol", "carol@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	count, err = repo.CountUsers()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestLoginBookkeeping(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	user := &entities.User{Username: "dave", Email: "dave@example.com"}
	require.NoError(t, repo.CreateUser(user))

	lockedUntil := time.Now().Add(30 * time.Minute)
	require.NoError(t, repo.RecordFailedLogin(user.ID, 5, &lockedUntil))

	locked, err := repo.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, locked.FailedLoginCount)
	require.NotNil(t, locked.LockedUntil)

	require.NoError(t, repo.RecordLogin(user.ID))

	fresh, err := repo.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Zero(t, fresh.FailedLoginCount)
	assert.Nil(t, fresh.LockedUntil)
	assert.NotNil(t, fresh.LastLoginAt)
}

func TestTokenLifecycle(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	user := &entities.User{Username: "erin", Email: "erin@example.com"}
	require.NoError(t, repo.CreateUser(user))

	require.NoError(t, repo.SetToken(user.ID, "abc123hash", time.Now()))

	found, err := repo.GetUserByTokenHash("abc123hash")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	require.NoError(t, repo.ClearToken(user.ID))
	_, err = repo.GetUserByTokenHash("abc123hash")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.SetToken(9999, "x", time.Now()), ErrNotFound)
}
