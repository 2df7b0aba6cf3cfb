package config

import (
	"time"

	"github.com/spf13/viper"
)

type AuthMode string

const (
	AuthModeNone  AuthMode = "none"  // No authentication required (default)
	AuthModeLocal AuthMode = "local" // Local user database with sessions
)

type (
	Config struct {
		HTTP
		Global
		Database
		Photos
		Import
		Audit
		Reminders
		Tasks
		Auth
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Photos struct {
		Dir         string
		MaxSizeInMB int
	}
	Import struct {
		// MaxUploadInMB caps the combined size of uploaded export archives
		// in a single parse request.
		MaxUploadInMB int
	}
	Audit struct {
		RetentionDays int // Days to keep audit events (default: 30)
	}
	Reminders struct {
		Enabled  bool
		Schedule string // Cron format: "*/5 * * * *" = every 5 minutes
	}
	Tasks struct {
		Enabled           bool
		Workers           int
		MaxRetries        int
		RetryDelay        time.Duration
		TaskTimeout       time.Duration
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
	Auth struct {
		Mode            AuthMode
		SessionSecret   string
		SessionLifetime time.Duration
		BcryptCost      int
		SecureCookies   bool // Set to false for local dev without HTTPS

		// Rate limiting configuration
		MaxLoginAttempts int           // Max failed attempts before lockout (default: 5)
		LockoutDuration  time.Duration // How long to lock out (default: 30m)
		RateLimitWindow  time.Duration // Sliding window for counting attempts (default: 15m)

		TokenExpiry time.Duration // API token lifetime; 0 disables expiry
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8190)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("photos_dir", DefaultPhotosDir)
	v.SetDefault("photos_max_size_in_mb", 5)
	v.SetDefault("import_max_upload_in_mb", 25)
	v.SetDefault("audit_retention_days", 30)
	v.SetDefault("reminders_enabled", true)
	v.SetDefault("reminders_schedule", "*/5 * * * *")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("tasks_workers", 2)
	v.SetDefault("tasks_max_retries", 3)
	v.SetDefault("tasks_retry_delay", "30s")
	v.SetDefault("tasks_task_timeout", "2m")
	v.SetDefault("tasks_release_after", "10m")
	v.SetDefault("tasks_cleanup_interval", "1h")
	v.SetDefault("tasks_retention_duration", "72h")

	// Auth defaults
	v.SetDefault("auth_mode", string(AuthModeNone))
	v.SetDefault("auth_session_secret", "")
	v.SetDefault("auth_session_lifetime", "168h") // 7 days
	v.SetDefault("auth_bcrypt_cost", 12)
	v.SetDefault("auth_secure_cookies", true)
	v.SetDefault("auth_max_login_attempts", 5)
	v.SetDefault("auth_lockout_duration", "30m")
	v.SetDefault("auth_rate_limit_window", "15m")
	v.SetDefault("auth_token_expiry", "0") // 0 means tokens never expire

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("port"),
			Host: v.GetString("host"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("shutdown_timeout_in_seconds"),
		},
		Database: Database{
			Path: v.GetString("database_path"),
		},
		Photos: Photos{
			Dir:         v.GetString("photos_dir"),
			MaxSizeInMB: v.GetInt("photos_max_size_in_mb"),
		},
		Import: Import{
			MaxUploadInMB: v.GetInt("import_max_upload_in_mb"),
		},
		Audit: Audit{
			RetentionDays: v.GetInt("audit_retention_days"),
		},
		Reminders: Reminders{
			Enabled:  v.GetBool("reminders_enabled"),
			Schedule: v.GetString("reminders_schedule"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("tasks_enabled"),
			Workers:           v.GetInt("tasks_workers"),
			MaxRetries:        v.GetInt("tasks_max_retries"),
			RetryDelay:        v.GetDuration("tasks_retry_delay"),
			TaskTimeout:       v.GetDuration("tasks_task_timeout"),
			ReleaseAfter:      v.GetDuration("tasks_release_after"),
			CleanupInterval:   v.GetDuration("tasks_cleanup_interval"),
			RetentionDuration: v.GetDuration("tasks_retention_duration"),
		},
		Auth: Auth{
			Mode:             AuthMode(v.GetString("auth_mode")),
			SessionSecret:    v.GetString("auth_session_secret"),
			SessionLifetime:  v.GetDuration("auth_session_lifetime"),
			BcryptCost:       v.GetInt("auth_bcrypt_cost"),
			SecureCookies:    v.GetBool("auth_secure_cookies"),
			MaxLoginAttempts: v.GetInt("auth_max_login_attempts"),
			LockoutDuration:  v.GetDuration("auth_lockout_duration"),
			RateLimitWindow:  v.GetDuration("auth_rate_limit_window"),
			TokenExpiry:      v.GetDuration("auth_token_expiry"),
		},
	}
}
