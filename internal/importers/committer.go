package importers

import (
	"time"

	"github.com/bondery/bondery/internal/entities"
)

// ContactStore is the slice of the contact repository the pipeline needs.
// internal/database/contacts.Repository implements it.
type ContactStore interface {
	// GetHandles returns the user's stored handles for a platform keyed by
	// normalized handle, mapping to the owning contact id.
	GetHandles(userID uint, platform entities.Platform) (map[string]uint, error)
	GetContactByID(id, userID uint) (*entities.Contact, error)
	CreateContact(contact *entities.Contact) error
	UpdateContact(contact *entities.Contact) error
}

// CommitResult summarizes a commit call. The three counts always sum to
// the number of submitted entries.
type CommitResult struct {
	ImportedCount int `json:"importedCount"`
	UpdatedCount  int `json:"updatedCount"`
	SkippedCount  int `json:"skippedCount"`
}

// Committer writes user-approved PreparedContacts to the contact store.
type Committer struct {
	store ContactStore
}

// NewCommitter creates a committer over the given store.
func NewCommitter(store ContactStore) *Committer {
	return &Committer{store: store}
}

// Commit upserts the selected entries for the user. Validation and the
// existing-contact check are re-derived here: the time between parse and
// commit is unbounded and the client-supplied flags cannot be trusted.
// Entries failing re-validation are skipped, never aborting the batch.
func (c *Committer) Commit(userID uint, platform entities.Platform, selected []PreparedContact) (CommitResult, error) {
	if len(selected) == 0 {
		return CommitResult{}, &CommitValidationError{Reason: "no contacts submitted"}
	}

	// Fresh snapshot of stored handles; also absorbs duplicates within
	// the submitted batch itself.
	handles, err := c.store.GetHandles(userID, platform)
	if err != nil {
		return CommitResult{}, err
	}

	var result CommitResult
	for _, entry := range selected {
		if !c.revalidate(platform, entry) {
			result.SkippedCount++
			continue
		}

		handle := NormalizeHandle(entry.Username)
		if existingID, ok := handles[handle]; ok {
			if err := c.update(userID, existingID, entry); err != nil {
				result.SkippedCount++
				continue
			}
			result.UpdatedCount++
			continue
		}

		contact := c.newContact(userID, platform, entry)
		if err := c.store.CreateContact(contact); err != nil {
			result.SkippedCount++
			continue
		}
		handles[handle] = contact.ID
		result.ImportedCount++
	}

	return result, nil
}

// revalidate re-runs the parse-time validation rules server-side.
func (c *Committer) revalidate(platform entities.Platform, entry PreparedContact) bool {
	if entry.Platform != platform {
		return false
	}
	if entry.FirstName == "" {
		return false
	}
	handle := NormalizeHandle(entry.Username)
	return handle != "" && ValidUsername(platform, handle)
}

// update merges the entry's platform fields into an existing contact
// instead of duplicating it.
func (c *Committer) update(userID, contactID uint, entry PreparedContact) error {
	contact, err := c.store.GetContactByID(contactID, userID)
	if err != nil {
		return err
	}

	applyPlatformFields(contact, entry)
	if contact.Company == "" {
		contact.Company = entry.Company
	}
	if contact.Position == "" {
		contact.Position = entry.Position
	}
	if contact.ConnectedAt == nil {
		contact.ConnectedAt = entry.ConnectedAt
	}

	return c.store.UpdateContact(contact)
}

func (c *Committer) newContact(userID uint, platform entities.Platform, entry PreparedContact) *entities.Contact {
	contact := &entities.Contact{
		UserID:       userID,
		FirstName:    entry.FirstName,
		MiddleName:   entry.MiddleName,
		LastName:     entry.LastName,
		Company:      entry.Company,
		Position:     entry.Position,
		ImportedFrom: platform,
		ConnectedAt:  entry.ConnectedAt,
	}
	applyPlatformFields(contact, entry)
	return contact
}

func applyPlatformFields(contact *entities.Contact, entry PreparedContact) {
	handle := NormalizeHandle(entry.Username)
	profileURL := entry.ProfileURL
	switch entry.Platform {
	case entities.PlatformLinkedIn:
		if profileURL == "" {
			profileURL = "https://www.linkedin.com/in/" + handle
		}
		contact.LinkedIn = profileURL
		contact.LinkedInUsername = handle
	case entities.PlatformInstagram:
		if profileURL == "" {
			profileURL = "https://www.instagram.com/" + handle
		}
		contact.Instagram = profileURL
		contact.InstagramUsername = handle
	}
}

// SessionRecorder persists an ImportSession row per commit. Implemented by
// the sessions repository in internal/database/imports.
type SessionRecorder interface {
	RecordSession(session *entities.ImportSession) error
}

// RecordSession builds an ImportSession from a commit result.
func RecordSession(recorder SessionRecorder, userID uint, platform entities.Platform, startedAt time.Time, result CommitResult) error {
	if recorder == nil {
		return nil
	}
	now := time.Now()
	return recorder.RecordSession(&entities.ImportSession{
		UserID:      userID,
		Platform:    platform,
		Status:      entities.ImportStatusCompleted,
		ImportedCnt: result.ImportedCount,
		UpdatedCnt:  result.UpdatedCount,
		SkippedCnt:  result.SkippedCount,
		StartedAt:   startedAt,
		CompletedAt: &now,
	})
}
