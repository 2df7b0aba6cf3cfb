package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bondery/bondery/internal/audit"
	"github.com/bondery/bondery/internal/database/activities"
	"github.com/bondery/bondery/internal/entities"
)

// ActivityStore defines database operations for activity management.
type ActivityStore interface {
	CreateActivity(activity *entities.Activity) error
	GetActivityByID(id, userID uint) (*entities.Activity, error)
	ListActivities(userID uint, limit, offset int) ([]entities.Activity, int64, error)
	ListUpcoming(userID uint, now time.Time) ([]entities.Activity, error)
	ListByContact(contactID, userID uint) ([]entities.Activity, error)
	UpdateActivity(activity *entities.Activity) error
	DeleteActivity(id, userID uint) error
	AddParticipant(activityID, contactID, userID uint) error
	RemoveParticipant(activityID, contactID, userID uint) error
}

type ActivitiesController struct {
	store        ActivityStore
	auditService *audit.Service
}

func NewActivitiesController(store ActivityStore, auditService *audit.Service) *ActivitiesController {
	return &ActivitiesController{store: store, auditService: auditService}
}

type activityRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	StartsAt    time.Time  `json:"starts_at" binding:"required"`
	EndsAt      *time.Time `json:"ends_at"`
}

func (req *activityRequest) validate() error {
	if req.EndsAt != nil && req.EndsAt.Before(req.StartsAt) {
		return errors.New("ends_at must not be before starts_at")
	}
	return nil
}

// ListActivities returns a paginated activity list, newest first
// GET /api/activities
func (ac *ActivitiesController) ListActivities(c *gin.Context) {
	userID := GetUserID(c)
	limit, offset := parsePagination(c, 50, 200)

	list, total, err := ac.store.ListActivities(userID, limit, offset)
	if err != nil {
		respondInternalError(c, err, "list activities")
		return
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:    list,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+len(list)) < total,
	})
}

// ListUpcoming returns activities that have not started yet
// GET /api/activities/upcoming
func (ac *ActivitiesController) ListUpcoming(c *gin.Context) {
	list, err := ac.store.ListUpcoming(GetUserID(c), time.Now())
	if err != nil {
		respondInternalError(c, err, "upcoming activities")
		return
	}
	c.JSON(http.StatusOK, gin.H{"activities": list, "count": len(list)})
}

// GetActivity returns a single activity with participants preloaded
// GET /api/activities/:id
func (ac *ActivitiesController) GetActivity(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	activity, err := ac.store.GetActivityByID(id, GetUserID(c))
	if err != nil {
		if errors.Is(err, activities.ErrNotFound) {
			respondNotFound(c, "activity")
			return
		}
		respondInternalError(c, err, "get activity")
		return
	}
	c.JSON(http.StatusOK, activity)
}

// ListByContact returns the activities a contact participated in
// GET /api/contacts/:id/activities
func (ac *ActivitiesController) ListByContact(c *gin.Context) {
	contactID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	list, err := ac.store.ListByContact(contactID, GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "contact activities")
		return
	}
	c.JSON(http.StatusOK, gin.H{"activities": list, "count": len(list)})
}

// CreateActivity creates a new activity
// POST /api/activities
func (ac *ActivitiesController) CreateActivity(c *gin.Context) {
	var req activityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title and starts_at are required")
		return
	}
	if err := req.validate(); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	activity := &entities.Activity{
		UserID:      GetUserID(c),
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
	}
	if err := ac.store.CreateActivity(activity); err != nil {
		respondInternalError(c, err, "create activity")
		return
	}
	respondCreated(c, activity)
}

// UpdateActivity replaces an activity's mutable fields
// PUT /api/activities/:id
func (ac *ActivitiesController) UpdateActivity(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID := GetUserID(c)

	activity, err := ac.store.GetActivityByID(id, userID)
	if err != nil {
		if errors.Is(err, activities.ErrNotFound) {
			respondNotFound(c, "activity")
			return
		}
		respondInternalError(c, err, "get activity")
		return
	}

	var req activityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title and starts_at are required")
		return
	}
	if err := req.validate(); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	activity.Title = req.Title
	activity.Description = req.Description
	activity.Location = req.Location
	activity.StartsAt = req.StartsAt
	activity.EndsAt = req.EndsAt
	if err := ac.store.UpdateActivity(activity); err != nil {
		respondInternalError(c, err, "update activity")
		return
	}
	c.JSON(http.StatusOK, activity)
}

// DeleteActivity removes an activity and its participant links
// DELETE /api/activities/:id
func (ac *ActivitiesController) DeleteActivity(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID := GetUserID(c)

	activity, err := ac.store.GetActivityByID(id, userID)
	if err != nil {
		if errors.Is(err, activities.ErrNotFound) {
			respondNotFound(c, "activity")
			return
		}
		respondInternalError(c, err, "get activity")
		return
	}

	if err := ac.store.DeleteActivity(id, userID); err != nil {
		respondInternalError(c, err, "delete activity")
		return
	}

	if ac.auditService != nil {
		ac.auditService.LogDelete(userID, "activity", id, activity.Title, false)
	}
	respondSuccess(c, "activity deleted")
}

// AddParticipant attaches a contact to an activity
// POST /api/activities/:id/contacts/:contactId
func (ac *ActivitiesController) AddParticipant(c *gin.Context) {
	activityID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	contactID, ok := parseIDParam(c, "contactId")
	if !ok {
		return
	}

	if err := ac.store.AddParticipant(activityID, contactID, GetUserID(c)); err != nil {
		if errors.Is(err, activities.ErrNotFound) {
			respondNotFound(c, "activity or contact")
			return
		}
		respondInternalError(c, err, "add participant")
		return
	}
	respondSuccess(c, "participant added")
}

// RemoveParticipant detaches a contact from an activity
// DELETE /api/activities/:id/contacts/:contactId
func (ac *ActivitiesController) RemoveParticipant(c *gin.Context) {
	activityID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	contactID, ok := parseIDParam(c, "contactId")
	if !ok {
		return
	}

	if err := ac.store.RemoveParticipant(activityID, contactID, GetUserID(c)); err != nil {
		if errors.Is(err, activities.ErrNotFound) {
			respondNotFound(c, "activity or contact")
			return
		}
		respondInternalError(c, err, "remove participant")
		return
	}
	respondSuccess(c, "participant removed")
}
