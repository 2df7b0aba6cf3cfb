package http

import (
	"github.com/gin-gonic/gin"

	"github.com/bondery/bondery/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())

	// Apply CSRF protection if auth is enabled
	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies, cfg.AuthService))
	}

	// Apply session middleware if enabled
	// Session runs after CSRF so session context isn't overwritten by CSRF's request replacement
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	// Apply auth middleware if enabled
	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	} else {
		// No auth - inject default user ID
		router.Use(func(c *gin.Context) {
			c.Set(auth.ContextKeyUserID, auth.DefaultUserID)
			c.Set(auth.ContextKeyAuthType, auth.AuthTypeNone)
			c.Next()
		})
	}

	// Register auth routes if auth service is available
	if cfg.AuthService != nil && cfg.AuthService.IsAuthEnabled() {
		authController := auth.NewAuthController(cfg.AuthService, cfg.SessionManager, cfg.AuthConfig)
		authController.RegisterRoutes(router)

		// API token management endpoints
		tokenController := auth.NewAPITokenController(cfg.AuthService)
		router.POST("/api/auth/token", tokenController.GenerateToken)
		router.DELETE("/api/auth/token", tokenController.RevokeToken)

		// Profile endpoints
		profileController := NewProfileController(cfg.AuthService)
		router.GET("/api/profile", profileController.GetProfile)
		router.POST("/api/profile/password", profileController.ChangePassword)
	}

	// Health endpoints
	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Contact endpoints
	contactsController := NewContactsController(cfg.ContactStore, cfg.AuditService)
	router.GET("/api/contacts", contactsController.ListContacts)
	router.GET("/api/contacts/search", contactsController.SearchContacts)
	router.GET("/api/contacts/stats", contactsController.GetContactStats)
	router.GET("/api/contacts/:id", contactsController.GetContact)
	router.POST("/api/contacts", contactsController.CreateContact)
	router.PUT("/api/contacts/:id", contactsController.UpdateContact)
	router.DELETE("/api/contacts/:id", contactsController.DeleteContact)
	router.DELETE("/api/contacts/:id/permanent", contactsController.DeleteContactPermanently)

	// Group endpoints
	groupsController := NewGroupsController(cfg.GroupStore, cfg.AuditService)
	router.GET("/api/groups", groupsController.ListGroups)
	router.GET("/api/groups/:id", groupsController.GetGroup)
	router.POST("/api/groups", groupsController.CreateGroup)
	router.PUT("/api/groups/:id", groupsController.UpdateGroup)
	router.DELETE("/api/groups/:id", groupsController.DeleteGroup)
	router.GET("/api/groups/:id/contacts", groupsController.GetGroupContacts)
	router.POST("/api/groups/:id/contacts/:contactId", groupsController.AddContactToGroup)
	router.DELETE("/api/groups/:id/contacts/:contactId", groupsController.RemoveContactFromGroup)

	// Activity endpoints
	activitiesController := NewActivitiesController(cfg.ActivityStore, cfg.AuditService)
	router.GET("/api/activities", activitiesController.ListActivities)
	router.GET("/api/activities/upcoming", activitiesController.ListUpcoming)
	router.GET("/api/activities/:id", activitiesController.GetActivity)
	router.GET("/api/contacts/:id/activities", activitiesController.ListByContact)
	router.POST("/api/activities", activitiesController.CreateActivity)
	router.PUT("/api/activities/:id", activitiesController.UpdateActivity)
	router.DELETE("/api/activities/:id", activitiesController.DeleteActivity)
	router.POST("/api/activities/:id/participants/:contactId", activitiesController.AddParticipant)
	router.DELETE("/api/activities/:id/participants/:contactId", activitiesController.RemoveParticipant)

	// Reminder endpoints
	remindersController := NewRemindersController(cfg.ReminderStore, cfg.AuditService)
	router.GET("/api/reminders", remindersController.ListReminders)
	router.GET("/api/reminders/upcoming", remindersController.ListUpcoming)
	router.GET("/api/reminders/:id", remindersController.GetReminder)
	router.POST("/api/reminders", remindersController.CreateReminder)
	router.PUT("/api/reminders/:id", remindersController.UpdateReminder)
	router.DELETE("/api/reminders/:id", remindersController.DeleteReminder)

	// Settings endpoints
	settingsController := NewSettingsController(cfg.SettingsStore, cfg.AuditService)
	router.GET("/api/settings", settingsController.GetSettings)
	router.GET("/api/settings/:key", settingsController.GetSetting)
	router.PUT("/api/settings/:key", settingsController.UpdateSetting)
	router.DELETE("/api/settings/:key", settingsController.DeleteSetting)

	// Import endpoints
	maxUploadBytes := int64(cfg.ImportMaxUploadInMB) << 20
	linkedInImporter := NewLinkedInImportController(cfg.ContactStore, cfg.ImportSessions, cfg.AuditService, maxUploadBytes)
	router.POST("/api/contacts/import/linkedin/parse", linkedInImporter.Parse)
	router.POST("/api/contacts/import/linkedin/commit", linkedInImporter.Commit)

	instagramImporter := NewInstagramImportController(cfg.ContactStore, cfg.ImportSessions, cfg.AuditService, maxUploadBytes)
	router.POST("/api/contacts/import/instagram/parse", instagramImporter.Parse)
	router.POST("/api/contacts/import/instagram/commit", instagramImporter.Commit)

	sessionsController := NewImportSessionsController(cfg.ImportSessions)
	router.GET("/api/contacts/import/sessions", sessionsController.ListSessions)

	// Export endpoints
	exportController := NewExportController(cfg.ContactStore, cfg.GroupStore, cfg.AuditService)
	router.GET("/api/export/vcard", exportController.ExportAll)
	router.GET("/api/contacts/:id/vcard", exportController.ExportContact)

	// Contact photo endpoints
	if cfg.PhotoStore != nil {
		photosController := NewPhotosController(cfg.PhotoStore, cfg.ContactStore)
		router.POST("/api/contacts/:id/photo", photosController.Upload)
		router.GET("/api/contacts/:id/photo", photosController.Serve)
		router.DELETE("/api/contacts/:id/photo", photosController.Delete)
	}

	// Audit log endpoints
	if cfg.AuditService != nil {
		auditController := NewAuditController(cfg.AuditService)
		router.GET("/api/audit", auditController.GetAuditEvents)
		router.GET("/api/audit/types", auditController.GetEventTypes)
	}

	// Task management endpoints
	if cfg.TaskClient != nil {
		tasksController := NewTasksController(cfg.TaskClient)
		router.GET("/api/tasks/types", tasksController.ListTaskTypes)
		router.GET("/api/tasks/:id", tasksController.GetTaskStatus)
		router.POST("/api/tasks/:type/run", tasksController.RunTask)
	}

	return router
}
