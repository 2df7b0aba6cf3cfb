// Package imports provides database operations for import session history.
package imports

import (
	"gorm.io/gorm"

	"github.com/bondery/bondery/internal/entities"
)

// Repository handles import session persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new import sessions repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// RecordSession persists a finished import session.
func (r *Repository) RecordSession(session *entities.ImportSession) error {
	return r.db.Create(session).Error
}

// ListSessions returns the user's import history, newest first.
func (r *Repository) ListSessions(userID uint, limit int) ([]entities.ImportSession, error) {
	if limit <= 0 {
		limit = 20
	}
	var sessions []entities.ImportSession
	err := r.db.Where("user_id = ?", userID).
		Order("started_at DESC").
		Limit(limit).
		Find(&sessions).Error
	return sessions, err
}
