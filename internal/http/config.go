package http

import (
	"github.com/bondery/bondery/internal/audit"
	"github.com/bondery/bondery/internal/auth"
	"github.com/bondery/bondery/internal/config"
	"github.com/bondery/bondery/internal/database"
	"github.com/bondery/bondery/internal/photos"
	"github.com/bondery/bondery/internal/tasks"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router. This replaces the long parameter list
// in NewRouter for better maintainability.
type RouterConfig struct {
	// Core dependencies
	Database     *database.Database
	AuditService *audit.Service

	// Domain stores
	ContactStore  ContactStore
	GroupStore    GroupStore
	ActivityStore ActivityStore
	ReminderStore ReminderStore
	SettingsStore SettingsStore

	// Import pipeline
	ImportSessions      ImportSessionStore
	ImportMaxUploadInMB int

	// Contact photos
	PhotoStore *photos.Store

	// Authentication
	AuthService    *auth.Service
	SessionManager *auth.SessionManager
	AuthMiddleware *auth.Middleware
	AuthConfig     config.Auth
	CSRFSecret     []byte
	SecureCookies  bool

	// Task queue client (optional)
	TaskClient  *tasks.Client
	TaskWorkers int

	// Application info
	Version string
}
