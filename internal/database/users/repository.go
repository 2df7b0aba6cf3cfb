// Package users provides database operations for user accounts.
package users

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/bondery/bondery/internal/entities"
)

var ErrNotFound = errors.New("user not found")

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser persists a new user.
func (r *Repository) CreateUser(user *entities.User) error {
	return r.db.Create(user).Error
}

// GetUserByID retrieves a user by ID.
func (r *Repository) GetUserByID(id uint) (*entities.User, error) {
	var user entities.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByLogin retrieves a user by username or email.
func (r *Repository) GetUserByLogin(login string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("username = ? OR email = ?", login, login).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByTokenHash retrieves a user by the SHA-256 hash of their API token.
func (r *Repository) GetUserByTokenHash(tokenHash string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("token_hash = ?", tokenHash).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ExistsByLogin reports whether a user with the given username or email exists.
func (r *Repository) ExistsByLogin(username, email string) (bool, error) {
	var count int64
	err := r.db.Model(&entities.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	return count > 0, err
}

// CountUsers returns the total number of users.
func (r *Repository) CountUsers() (int64, error) {
	var count int64
	err := r.db.Model(&entities.User{}).Count(&count).Error
	return count, err
}

// RecordLogin resets the failed-login state and stamps the last login time.
func (r *Repository) RecordLogin(userID uint) error {
	now := time.Now()
	return r.db.Model(&entities.User{}).Where("id = ?", userID).Updates(map[string]any{
		"last_login_at":      now,
		"failed_login_count": 0,
		"locked_until":       nil,
	}).Error
}

// RecordFailedLogin increments the failed-login counter and, past the
// threshold, locks the account until lockedUntil.
func (r *Repository) RecordFailedLogin(userID uint, failedCount int, lockedUntil *time.Time) error {
	updates := map[string]any{"failed_login_count": failedCount}
	if lockedUntil != nil {
		updates["locked_until"] = *lockedUntil
	}
	return r.db.Model(&entities.User{}).Where("id = ?", userID).Updates(updates).Error
}

// SetToken stores a new API token hash for the user.
func (r *Repository) SetToken(userID uint, tokenHash string, createdAt time.Time) error {
	result := r.db.Model(&entities.User{}).Where("id = ?", userID).Updates(map[string]any{
		"token_hash":       tokenHash,
		"token_created_at": createdAt,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearToken revokes the user's API token.
func (r *Repository) ClearToken(userID uint) error {
	return r.db.Model(&entities.User{}).Where("id = ?", userID).Updates(map[string]any{
		"token_hash":       "",
		"token_created_at": nil,
	}).Error
}

// UpdatePassword replaces the user's password hash.
func (r *Repository) UpdatePassword(userID uint, passwordHash string) error {
	return r.db.Model(&entities.User{}).Where("id = ?", userID).
		Update("password_hash", passwordHash).Error
}
