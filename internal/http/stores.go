package http

import (
	"time"

	"github.com/bondery/bondery/internal/entities"
)

// This file consolidates all store interface definitions used by HTTP controllers.
// Each controller defines its own interface (Interface Segregation Principle),
// but this file provides a comprehensive view of all database operations needed.

// --- Entity Retrieval (shared across multiple controllers) ---

// ContactGetter provides read access to contacts.
type ContactGetter interface {
	GetContactByID(id, userID uint) (*entities.Contact, error)
}

// GroupGetter provides read access to groups.
type GroupGetter interface {
	GetGroupByID(id, userID uint) (*entities.Group, error)
}

// --- Composite Interface ---

// Store combines all store interfaces for controllers that need broad access.
// Use this when a controller needs multiple store capabilities, or for testing.
type Store interface {
	// Contacts
	ContactGetter
	CreateContact(contact *entities.Contact) error
	ListContacts(userID uint, limit, offset int) ([]entities.Contact, int64, error)
	SearchContacts(query string, userID uint) ([]entities.Contact, error)
	UpdateContact(contact *entities.Contact) error
	DeleteContact(id, userID uint) error
	DeleteContactPermanently(id, userID uint) error
	GetContactStats(userID uint) (total, withLinkedIn, withInstagram int64, err error)
	GetHandles(userID uint, platform entities.Platform) (map[string]uint, error)

	// Groups
	GroupGetter
	CreateGroup(group *entities.Group) error
	GetGroupsForUser(userID uint) ([]entities.Group, error)
	UpdateGroup(group *entities.Group) error
	DeleteGroup(id, userID uint) error
	AddContactToGroup(groupID, contactID, userID uint) error
	RemoveContactFromGroup(groupID, contactID, userID uint) error
	GetContactsByGroup(groupID, userID uint) ([]entities.Contact, error)

	// Activities
	CreateActivity(activity *entities.Activity) error
	GetActivityByID(id, userID uint) (*entities.Activity, error)
	ListActivities(userID uint, limit, offset int) ([]entities.Activity, int64, error)
	ListByContact(contactID, userID uint) ([]entities.Activity, error)
	UpdateActivity(activity *entities.Activity) error
	DeleteActivity(id, userID uint) error
	AddParticipant(activityID, contactID, userID uint) error
	RemoveParticipant(activityID, contactID, userID uint) error

	// Reminders
	CreateReminder(reminder *entities.Reminder) error
	GetReminderByID(id, userID uint) (*entities.Reminder, error)
	ListReminders(userID uint) ([]entities.Reminder, error)
	ListUpcoming(userID uint, now time.Time, window time.Duration) ([]entities.Reminder, error)
	UpdateReminder(reminder *entities.Reminder) error
	DeleteReminder(id, userID uint) error

	// Settings
	GetSetting(userID uint, key string) (string, error)
	GetAllSettings(userID uint) (map[string]string, error)
	SetSetting(userID uint, key, value string) error
	DeleteSetting(userID uint, key string) error
}

// --- Interface Documentation ---
//
// Controller-specific interfaces (defined in their respective files):
//
// ContactStore (contacts.go):
//   - Full contact CRUD with pagination and search
//   - Soft and permanent delete
//   - Per-platform handle snapshots for import matching
//
// GroupStore (groups.go):
//   - Group CRUD and contact membership management
//
// ActivityStore (activities.go):
//   - Activity CRUD and participant management
//
// ReminderStore (reminders.go):
//   - Reminder CRUD and upcoming-window queries
//
// SettingsStore (settings.go):
//   - Per-user key/value settings with key validation
//
// ImportContactStore / ImportSessionStore (import_linkedin.go):
//   - Handle snapshots for the preview phase
//   - Import session history
//
// These interfaces follow the Interface Segregation Principle:
// each controller only depends on the methods it actually uses.
