package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/bondery/bondery/internal/audit"
	"github.com/bondery/bondery/internal/database/activities"
	"github.com/bondery/bondery/internal/database/contacts"
	"github.com/bondery/bondery/internal/database/groups"
	"github.com/bondery/bondery/internal/database/imports"
	"github.com/bondery/bondery/internal/database/reminders"
	"github.com/bondery/bondery/internal/database/settings"
	"github.com/bondery/bondery/internal/http"
	"github.com/bondery/bondery/internal/importers"
	"github.com/bondery/bondery/internal/scheduler"
	"github.com/bondery/bondery/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// ContactStore implementations
var _ http.ContactStore = (*contacts.Repository)(nil)
var _ http.ExportContactStore = (*contacts.Repository)(nil)
var _ http.PhotoContactStore = (*contacts.Repository)(nil)

// GroupStore implementations
var _ http.GroupStore = (*groups.Repository)(nil)
var _ http.ExportGroupStore = (*groups.Repository)(nil)

// ActivityStore implementations
var _ http.ActivityStore = (*activities.Repository)(nil)

// ReminderStore implementations
var _ http.ReminderStore = (*reminders.Repository)(nil)

// SettingsStore implementations
var _ http.SettingsStore = (*settings.Repository)(nil)

// =============================================================================
// Import Pipeline
// =============================================================================

// The committer persists through the same store the HTTP layer reads from
var _ importers.ContactStore = (*contacts.Repository)(nil)
var _ importers.SessionRecorder = (*imports.Repository)(nil)
var _ http.ImportSessionStore = (*imports.Repository)(nil)

// =============================================================================
// Background Work
// =============================================================================

// Reminder dispatch
var _ tasks.ReminderStore = (*reminders.Repository)(nil)
var _ tasks.ReminderNotifier = tasks.LogNotifier{}
var _ tasks.ReminderAuditor = (*audit.Service)(nil)
var _ scheduler.DueReminderLister = (*reminders.Repository)(nil)

// Audit retention
var _ tasks.AuditEventCleaner = (*audit.Service)(nil)
