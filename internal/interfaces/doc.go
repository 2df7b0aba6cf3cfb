// Package interfaces documents the core abstractions used throughout the application.
//
// This package consolidates interface documentation to help readers understand
// extension points and how to implement new functionality.
//
// # Interface Categories
//
// The application uses several categories of interfaces:
//
// ## Data Access Interfaces
//
//   - ContactStore: Contact CRUD and handle lookups (internal/http/contacts.go)
//   - GroupStore: Group and membership management (internal/http/groups.go)
//   - ActivityStore: Activities and participants (internal/http/activities.go)
//   - ReminderStore: Reminder management (internal/http/reminders.go)
//   - SettingsStore: Per-user settings (internal/http/settings.go)
//   - ImportSessionStore: Import history (internal/http/import_common.go)
//
// ## Import Pipeline Interfaces
//
//   - importers.ContactStore: What the committer needs to persist contacts
//     (internal/importers/committer.go)
//   - importers.SessionRecorder: Import session history (internal/importers/committer.go)
//   - importers.PersonClassifier: Person-vs-business heuristic for Instagram
//     accounts (internal/importers/pipeline.go)
//
// ## Background Work Interfaces
//
//   - tasks.ReminderNotifier: Reminder delivery channel (internal/tasks/send_reminder.go)
//   - tasks.AuditEventCleaner: Audit retention (internal/tasks/cleanup_audit.go)
//   - scheduler.DueReminderLister: Due reminder scan (internal/scheduler/reminders.go)
//
// # Adding a New Import Source
//
// To add support for a new contact import platform:
//
//  1. Create a reader in its own package (see internal/linkedin, internal/instagram)
//     that extracts importers.RawConnectionRecord values from the platform's
//     export archive:
//
//     func (r *Reader) Extract(files []importers.UploadedFile) ([]importers.RawConnectionRecord, error)
//
//  2. Create an HTTP controller in internal/http/ with Parse and Commit
//     handlers wired through the shared preparer and committer:
//
//     records, err := c.reader.Extract(files)
//     result := c.preparer.Prepare(records, existing)
//
//  3. Register both routes in router.go
//
// # Adding a New Reminder Delivery Channel
//
// To deliver reminders over a new channel (e.g. email):
//
//  1. Implement ReminderNotifier in internal/tasks/ or its own package:
//
//     type EmailNotifier struct {
//     client *smtp.Client
//     }
//
//     func (n *EmailNotifier) Notify(ctx context.Context, reminder *entities.Reminder) error
//
//     var _ tasks.ReminderNotifier = (*EmailNotifier)(nil)
//
//  2. Pass it to tasks.NewSendReminderQueue in entrypoint.go
//
// # Adding a New Database Domain
//
// To add a new data domain:
//
//  1. Create sub-package: internal/database/<domain>/
//
//  2. Define repository:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Implement interface methods
//
//  4. Add compile-time check:
//
//     var _ DomainStore = (*Repository)(nil)
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// This pattern is used throughout the codebase. See checks.go for examples.
package interfaces
