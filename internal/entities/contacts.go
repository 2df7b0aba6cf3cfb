package entities

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	UserRoleAdmin  UserRole = "admin"
	UserRoleMember UserRole = "member"
)

type Platform string

const (
	PlatformLinkedIn  Platform = "linkedin"
	PlatformInstagram Platform = "instagram"
)

type User struct {
	ID           uint     `gorm:"primaryKey" json:"id"`
	Username     string   `gorm:"uniqueIndex;size:100" json:"username"`
	Email        string   `gorm:"uniqueIndex;size:255" json:"email"`
	PasswordHash string   `gorm:"size:255" json:"-"`
	Role         UserRole `gorm:"size:20;default:'member'" json:"role"`

	// Only the SHA-256 hash of the API token is stored; the plaintext
	// is shown to the user once at generation time.
	TokenHash      string     `gorm:"uniqueIndex;size:64" json:"-"`
	TokenCreatedAt *time.Time `json:"-"`

	FailedLoginCount int        `gorm:"default:0" json:"-"`
	LockedUntil      *time.Time `json:"-"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

type Contact struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	UserID     uint   `gorm:"index" json:"user_id"`
	FirstName  string `gorm:"index;size:100" json:"first_name"`
	MiddleName string `gorm:"size:100" json:"middle_name,omitempty"`
	LastName   string `gorm:"index;size:100" json:"last_name,omitempty"`
	Nickname   string `gorm:"size:100" json:"nickname,omitempty"`

	Email    string     `gorm:"size:255" json:"email,omitempty"`
	Phone    string     `gorm:"size:50" json:"phone,omitempty"`
	Birthday *time.Time `json:"birthday,omitempty"`

	Company  string `gorm:"size:256" json:"company,omitempty"`
	Position string `gorm:"size:256" json:"position,omitempty"`
	Notes    string `gorm:"type:text" json:"notes,omitempty"`

	// Social profiles. The *Username columns hold the normalized
	// (lowercased) handle used for duplicate detection on import.
	LinkedIn          string `gorm:"size:512" json:"linkedin,omitempty"`
	LinkedInUsername  string `gorm:"index;size:100" json:"linkedin_username,omitempty"`
	Instagram         string `gorm:"size:512" json:"instagram,omitempty"`
	InstagramUsername string `gorm:"index;size:100" json:"instagram_username,omitempty"`
	Website           string `gorm:"size:512" json:"website,omitempty"`

	PhotoPath string `gorm:"size:1024" json:"photo_path,omitempty"`

	// Set when the contact was created via an importer.
	ImportedFrom Platform   `gorm:"size:20" json:"imported_from,omitempty"`
	ConnectedAt  *time.Time `json:"connected_at,omitempty"`

	User       User       `gorm:"foreignKey:UserID" json:"-"`
	Groups     []Group    `gorm:"many2many:group_contacts;" json:"groups,omitempty"`
	Activities []Activity `gorm:"many2many:activity_contacts;" json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// DisplayName returns the contact's full name with empty parts skipped.
func (c Contact) DisplayName() string {
	name := c.FirstName
	if c.MiddleName != "" {
		name += " " + c.MiddleName
	}
	if c.LastName != "" {
		name += " " + c.LastName
	}
	return name
}

type Group struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"index" json:"user_id"`
	Name        string         `gorm:"index;size:100" json:"name"`
	Description string         `gorm:"size:500" json:"description,omitempty"`
	Color       string         `gorm:"size:10" json:"color,omitempty"` // Hex color code
	User        User           `gorm:"foreignKey:UserID" json:"-"`
	Contacts    []Contact      `gorm:"many2many:group_contacts;" json:"contacts,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

type Activity struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"index" json:"user_id"`
	Title       string         `gorm:"index;size:256" json:"title"`
	Description string         `gorm:"type:text" json:"description,omitempty"`
	Location    string         `gorm:"size:256" json:"location,omitempty"`
	StartsAt    time.Time      `gorm:"index" json:"starts_at"`
	EndsAt      *time.Time     `json:"ends_at,omitempty"`
	User        User           `gorm:"foreignKey:UserID" json:"-"`
	Contacts    []Contact      `gorm:"many2many:activity_contacts;" json:"contacts,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

type Recurrence string

const (
	RecurrenceNone    Recurrence = "none"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
	RecurrenceYearly  Recurrence = "yearly"
)

type Reminder struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"index" json:"user_id"`
	ContactID  *uint      `gorm:"index" json:"contact_id,omitempty"`
	Title      string     `gorm:"size:256" json:"title"`
	Message    string     `gorm:"size:1000" json:"message,omitempty"`
	DueAt      time.Time  `gorm:"index" json:"due_at"`
	Recurrence Recurrence `gorm:"size:20;default:'none'" json:"recurrence"`
	// No gorm default on purpose: a zero-valued bool with a default tag
	// would be dropped from the INSERT, making it impossible to create a
	// disabled reminder.
	Enabled    bool       `json:"enabled"`
	LastSentAt *time.Time `json:"last_sent_at,omitempty"`
	Contact    *Contact   `gorm:"foreignKey:ContactID" json:"contact,omitempty"`
	User       User       `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// NextDueAt returns the first due date strictly after the given time,
// advancing by the reminder's recurrence. For non-recurring reminders
// the due date is returned unchanged.
func (r Reminder) NextDueAt(after time.Time) time.Time {
	due := r.DueAt
	if r.Recurrence == RecurrenceNone {
		return due
	}
	for !due.After(after) {
		switch r.Recurrence {
		case RecurrenceWeekly:
			due = due.AddDate(0, 0, 7)
		case RecurrenceMonthly:
			due = due.AddDate(0, 1, 0)
		case RecurrenceYearly:
			due = due.AddDate(1, 0, 0)
		default:
			return due
		}
	}
	return due
}

type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_settings_user_key" json:"user_id"`
	Key       string    `gorm:"uniqueIndex:idx_settings_user_key;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Known setting keys
const (
	SettingKeyTimezone         = "timezone"
	SettingKeyLanguage         = "language"
	SettingKeyDateFormat       = "date_format"
	SettingKeyRemindersEnabled = "reminders_enabled"
)

type ImportStatus string

const (
	ImportStatusCompleted ImportStatus = "completed"
	ImportStatusFailed    ImportStatus = "failed"
)

type ImportSession struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	UserID      uint         `gorm:"index" json:"user_id"`
	Platform    Platform     `gorm:"index;size:20" json:"platform"`
	Status      ImportStatus `gorm:"size:20;default:'completed'" json:"status"`
	ImportedCnt int          `json:"imported_count"`
	UpdatedCnt  int          `json:"updated_count"`
	SkippedCnt  int          `json:"skipped_count"`
	Errors      string       `gorm:"type:text" json:"errors,omitempty"` // JSON array of errors
	StartedAt   time.Time    `json:"started_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
	User        User         `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (Contact) TableName() string {
	return "contacts"
}

func (Group) TableName() string {
	return "groups"
}

func (Activity) TableName() string {
	return "activities"
}

func (Reminder) TableName() string {
	return "reminders"
}

func (Setting) TableName() string {
	return "settings"
}

func (ImportSession) TableName() string {
	return "import_sessions"
}
