package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bondery/bondery/internal/audit"
	"github.com/bondery/bondery/internal/database/reminders"
	"github.com/bondery/bondery/internal/entities"
)

// defaultUpcomingWindow bounds the upcoming-reminders query when the
// client doesn't pass one.
const defaultUpcomingWindow = 7 * 24 * time.Hour

// ReminderStore defines database operations for reminder management.
type ReminderStore interface {
	CreateReminder(reminder *entities.Reminder) error
	GetReminderByID(id, userID uint) (*entities.Reminder, error)
	ListReminders(userID uint) ([]entities.Reminder, error)
	ListUpcoming(userID uint, now time.Time, window time.Duration) ([]entities.Reminder, error)
	UpdateReminder(reminder *entities.Reminder) error
	DeleteReminder(id, userID uint) error
}

type RemindersController struct {
	store        ReminderStore
	auditService *audit.Service
}

func NewRemindersController(store ReminderStore, auditService *audit.Service) *RemindersController {
	return &RemindersController{store: store, auditService: auditService}
}

type reminderRequest struct {
	ContactID  *uint     `json:"contact_id"`
	Title      string    `json:"title" binding:"required"`
	Message    string    `json:"message"`
	DueAt      time.Time `json:"due_at" binding:"required"`
	Recurrence string    `json:"recurrence"`
	Enabled    *bool     `json:"enabled"`
}

func parseRecurrence(value string) (entities.Recurrence, error) {
	switch entities.Recurrence(value) {
	case "", entities.RecurrenceNone:
		return entities.RecurrenceNone, nil
	case entities.RecurrenceWeekly:
		return entities.RecurrenceWeekly, nil
	case entities.RecurrenceMonthly:
		return entities.RecurrenceMonthly, nil
	case entities.RecurrenceYearly:
		return entities.RecurrenceYearly, nil
	default:
		return "", errors.New("recurrence must be one of: none, weekly, monthly, yearly")
	}
}

// ListReminders returns all reminders for the current user
// GET /api/reminders
func (rc *RemindersController) ListReminders(c *gin.Context) {
	list, err := rc.store.ListReminders(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "list reminders")
		return
	}
	c.JSON(http.StatusOK, gin.H{"reminders": list, "count": len(list)})
}

// ListUpcoming returns enabled reminders due within the window
// GET /api/reminders/upcoming?days=7
func (rc *RemindersController) ListUpcoming(c *gin.Context) {
	window := defaultUpcomingWindow
	if days := c.Query("days"); days != "" {
		parsed, ok := parseQueryID(c, "days")
		if !ok {
			return
		}
		window = time.Duration(parsed) * 24 * time.Hour
	}

	list, err := rc.store.ListUpcoming(GetUserID(c), time.Now(), window)
	if err != nil {
		respondInternalError(c, err, "upcoming reminders")
		return
	}
	c.JSON(http.StatusOK, gin.H{"reminders": list, "count": len(list)})
}

// GetReminder returns a single reminder
// GET /api/reminders/:id
func (rc *RemindersController) GetReminder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	reminder, err := rc.store.GetReminderByID(id, GetUserID(c))
	if err != nil {
		if errors.Is(err, reminders.ErrNotFound) {
			respondNotFound(c, "reminder")
			return
		}
		respondInternalError(c, err, "get reminder")
		return
	}
	c.JSON(http.StatusOK, reminder)
}

// CreateReminder creates a new reminder
// POST /api/reminders
func (rc *RemindersController) CreateReminder(c *gin.Context) {
	var req reminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title and due_at are required")
		return
	}
	recurrence, err := parseRecurrence(req.Recurrence)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}
	reminder := &entities.Reminder{
		UserID:     GetUserID(c),
		ContactID:  req.ContactID,
		Title:      req.Title,
		Message:    req.Message,
		DueAt:      req.DueAt,
		Recurrence: recurrence,
		Enabled:    enabled,
	}
	if err := rc.store.CreateReminder(reminder); err != nil {
		respondInternalError(c, err, "create reminder")
		return
	}
	respondCreated(c, reminder)
}

// UpdateReminder replaces a reminder's mutable fields
// PUT /api/reminders/:id
func (rc *RemindersController) UpdateReminder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID := GetUserID(c)

	reminder, err := rc.store.GetReminderByID(id, userID)
	if err != nil {
		if errors.Is(err, reminders.ErrNotFound) {
			respondNotFound(c, "reminder")
			return
		}
		respondInternalError(c, err, "get reminder")
		return
	}

	var req reminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title and due_at are required")
		return
	}
	recurrence, err := parseRecurrence(req.Recurrence)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	reminder.ContactID = req.ContactID
	reminder.Title = req.Title
	reminder.Message = req.Message
	reminder.DueAt = req.DueAt
	reminder.Recurrence = recurrence
	if req.Enabled != nil {
		reminder.Enabled = *req.Enabled
	}
	if err := rc.store.UpdateReminder(reminder); err != nil {
		respondInternalError(c, err, "update reminder")
		return
	}
	c.JSON(http.StatusOK, reminder)
}

// DeleteReminder removes a reminder
// DELETE /api/reminders/:id
func (rc *RemindersController) DeleteReminder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID := GetUserID(c)

	reminder, err := rc.store.GetReminderByID(id, userID)
	if err != nil {
		if errors.Is(err, reminders.ErrNotFound) {
			respondNotFound(c, "reminder")
			return
		}
		respondInternalError(c, err, "get reminder")
		return
	}

	if err := rc.store.DeleteReminder(id, userID); err != nil {
		respondInternalError(c, err, "delete reminder")
		return
	}

	if rc.auditService != nil {
		rc.auditService.LogDelete(userID, "reminder", id, reminder.Title, false)
	}
	respondSuccess(c, "reminder deleted")
}
