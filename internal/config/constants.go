package config

// Default paths for on-disk state
const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./bondery.db"

	// DefaultPhotosDir is the default directory for uploaded contact photos
	DefaultPhotosDir = "./photos"
)
