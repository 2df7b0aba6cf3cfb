package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bondery/bondery/internal/audit"
	"github.com/bondery/bondery/internal/auth"
	"github.com/bondery/bondery/internal/config"
	"github.com/bondery/bondery/internal/database"
	"github.com/bondery/bondery/internal/database/activities"
	auditdb "github.com/bondery/bondery/internal/database/audit"
	"github.com/bondery/bondery/internal/database/contacts"
	"github.com/bondery/bondery/internal/database/groups"
	"github.com/bondery/bondery/internal/database/imports"
	"github.com/bondery/bondery/internal/database/reminders"
	"github.com/bondery/bondery/internal/database/settings"
	"github.com/bondery/bondery/internal/database/users"
	http_controllers "github.com/bondery/bondery/internal/http"
	"github.com/bondery/bondery/internal/photos"
	"github.com/bondery/bondery/internal/scheduler"
	"github.com/bondery/bondery/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop scheduler and task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Bondery v%s", version)

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// Domain repositories
	contactRepo := contacts.NewRepository(db.DB)
	groupRepo := groups.NewRepository(db.DB)
	activityRepo := activities.NewRepository(db.DB)
	reminderRepo := reminders.NewRepository(db.DB)
	settingsRepo := settings.NewRepository(db.DB)
	sessionRepo := imports.NewRepository(db.DB)

	auditService := audit.NewService(auditdb.NewRepository(db.DB))

	// Contact photo storage
	photoStore, err := photos.NewStore(cfg.Photos.Dir, int64(cfg.Photos.MaxSizeInMB)<<20)
	if err != nil {
		log.Printf("WARNING: Failed to initialize photo storage at %s: %v", cfg.Photos.Dir, err)
		photoStore = nil
	} else {
		log.Printf("Photo storage initialized at %s", cfg.Photos.Dir)
	}

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			MaxRetries:        cfg.Tasks.MaxRetries,
			RetryDelay:        cfg.Tasks.RetryDelay,
			TaskTimeout:       cfg.Tasks.TaskTimeout,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		// Register task queues
		taskClient.Register(
			tasks.NewCleanupAuditEventsQueue(auditService),
			tasks.NewSendReminderQueue(reminderRepo, tasks.LogNotifier{}, auditService),
		)

		// Start task workers in background
		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		// Kick off audit retention cleanup once per boot
		if cfg.Audit.RetentionDays > 0 {
			task := tasks.CleanupAuditEventsTask{RetentionDays: cfg.Audit.RetentionDays}
			if _, err := taskClient.Add(task).Save(); err != nil {
				log.Printf("WARNING: Failed to enqueue audit cleanup: %v", err)
			}
		}
	}

	// Start reminder dispatch scheduler
	var reminderScheduler *scheduler.ReminderScheduler
	if cfg.Reminders.Enabled && taskClient != nil {
		reminderScheduler = scheduler.NewReminderScheduler(reminderRepo, taskClient, cfg.Reminders.Schedule)
		if err := reminderScheduler.Start(context.Background()); err != nil {
			log.Fatalf("Failed to start reminder scheduler: %v", err)
		}
	} else if cfg.Reminders.Enabled {
		log.Printf("WARNING: Reminders enabled but task queue is disabled. Reminders will not be dispatched.")
	}

	// Initialize authentication if enabled
	var authService *auth.Service
	var authMiddleware *auth.Middleware
	var sessionManager *auth.SessionManager
	var csrfSecret []byte

	if cfg.Auth.Mode == config.AuthModeLocal {
		log.Printf("Authentication mode: local")

		authService = auth.NewService(users.NewRepository(db.DB), cfg.Auth)

		// Get underlying SQL DB for session store
		sqlDB, err := db.DB.DB()
		if err != nil {
			log.Fatalf("Failed to get SQL DB for sessions: %v", err)
		}

		sessionManager, err = auth.NewSessionManager(sqlDB, cfg.Auth)
		if err != nil {
			log.Fatalf("Failed to initialize session manager: %v", err)
		}

		authMiddleware = auth.NewMiddleware(authService, sessionManager, cfg.Auth)

		// Generate or use configured CSRF secret
		if cfg.Auth.SessionSecret != "" {
			csrfSecret, err = hex.DecodeString(cfg.Auth.SessionSecret)
			if err != nil {
				// Not hex, use as raw bytes
				csrfSecret = []byte(cfg.Auth.SessionSecret)
			}
		} else {
			secret, err := auth.GenerateSessionSecret()
			if err != nil {
				log.Fatalf("Failed to generate CSRF secret: %v", err)
			}
			csrfSecret, _ = hex.DecodeString(secret)
			log.Printf("Generated session secret (set AUTH_SESSION_SECRET to persist)")
		}

		hasUsers, _ := authService.HasUsers()
		if !hasUsers {
			log.Printf("No users found. POST to /api/auth/setup to create an administrator account.")
		}
	} else {
		log.Printf("Authentication mode: none (no authentication required)")
	}

	// Build router configuration with all dependencies
	routerCfg := http_controllers.RouterConfig{
		Database:            db,
		AuditService:        auditService,
		ContactStore:        contactRepo,
		GroupStore:          groupRepo,
		ActivityStore:       activityRepo,
		ReminderStore:       reminderRepo,
		SettingsStore:       settingsRepo,
		ImportSessions:      sessionRepo,
		ImportMaxUploadInMB: cfg.Import.MaxUploadInMB,
		PhotoStore:          photoStore,
		AuthService:         authService,
		SessionManager:      sessionManager,
		AuthMiddleware:      authMiddleware,
		AuthConfig:          cfg.Auth,
		CSRFSecret:          csrfSecret,
		SecureCookies:       cfg.Auth.SecureCookies,
		TaskClient:          taskClient,
		TaskWorkers:         cfg.Tasks.Workers,
		Version:             version,
	}

	router := http_controllers.NewRouter(routerCfg)

	// Shutdown callback for graceful cleanup
	onShutdown := func(ctx context.Context) {
		if reminderScheduler != nil {
			reminderScheduler.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
