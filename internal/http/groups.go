package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bondery/bondery/internal/audit"
	"github.com/bondery/bondery/internal/database/groups"
	"github.com/bondery/bondery/internal/entities"
)

// GroupStore defines database operations for group management.
type GroupStore interface {
	CreateGroup(group *entities.Group) error
	GetGroupByID(id, userID uint) (*entities.Group, error)
	GetGroupsForUser(userID uint) ([]entities.Group, error)
	UpdateGroup(group *entities.Group) error
	DeleteGroup(id, userID uint) error
	AddContactToGroup(groupID, contactID, userID uint) error
	RemoveContactFromGroup(groupID, contactID, userID uint) error
	GetContactsByGroup(groupID, userID uint) ([]entities.Contact, error)
}

type GroupsController struct {
	store        GroupStore
	auditService *audit.Service
}

func NewGroupsController(store GroupStore, auditService *audit.Service) *GroupsController {
	return &GroupsController{store: store, auditService: auditService}
}

type groupRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// ListGroups returns all groups for the current user
// GET /api/groups
func (gc *GroupsController) ListGroups(c *gin.Context) {
	list, err := gc.store.GetGroupsForUser(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "list groups")
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": list, "count": len(list)})
}

// GetGroup returns a single group
// GET /api/groups/:id
func (gc *GroupsController) GetGroup(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	group, err := gc.store.GetGroupByID(id, GetUserID(c))
	if err != nil {
		if errors.Is(err, groups.ErrNotFound) {
			respondNotFound(c, "group")
			return
		}
		respondInternalError(c, err, "get group")
		return
	}
	c.JSON(http.StatusOK, group)
}

// CreateGroup creates a new group
// POST /api/groups
func (gc *GroupsController) CreateGroup(c *gin.Context) {
	var req groupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	group := &entities.Group{
		UserID:      GetUserID(c),
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	}
	if err := gc.store.CreateGroup(group); err != nil {
		respondInternalError(c, err, "create group")
		return
	}
	respondCreated(c, group)
}

// UpdateGroup replaces a group's mutable fields
// PUT /api/groups/:id
func (gc *GroupsController) UpdateGroup(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID := GetUserID(c)

	group, err := gc.store.GetGroupByID(id, userID)
	if err != nil {
		if errors.Is(err, groups.ErrNotFound) {
			respondNotFound(c, "group")
			return
		}
		respondInternalError(c, err, "get group")
		return
	}

	var req groupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	group.Name = req.Name
	group.Description = req.Description
	group.Color = req.Color
	if err := gc.store.UpdateGroup(group); err != nil {
		respondInternalError(c, err, "update group")
		return
	}
	c.JSON(http.StatusOK, group)
}

// DeleteGroup removes a group without touching its contacts
// DELETE /api/groups/:id
func (gc *GroupsController) DeleteGroup(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID := GetUserID(c)

	group, err := gc.store.GetGroupByID(id, userID)
	if err != nil {
		if errors.Is(err, groups.ErrNotFound) {
			respondNotFound(c, "group")
			return
		}
		respondInternalError(c, err, "get group")
		return
	}

	if err := gc.store.DeleteGroup(id, userID); err != nil {
		respondInternalError(c, err, "delete group")
		return
	}

	if gc.auditService != nil {
		gc.auditService.LogDelete(userID, "group", id, group.Name, false)
	}
	respondSuccess(c, "group deleted")
}

// GetGroupContacts lists the contacts in a group
// GET /api/groups/:id/contacts
func (gc *GroupsController) GetGroupContacts(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	list, err := gc.store.GetContactsByGroup(id, GetUserID(c))
	if err != nil {
		if errors.Is(err, groups.ErrNotFound) {
			respondNotFound(c, "group")
			return
		}
		respondInternalError(c, err, "group contacts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"contacts": list, "count": len(list)})
}

// AddContactToGroup adds a contact to a group
// POST /api/groups/:id/contacts/:contactId
func (gc *GroupsController) AddContactToGroup(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	contactID, ok := parseIDParam(c, "contactId")
	if !ok {
		return
	}

	if err := gc.store.AddContactToGroup(groupID, contactID, GetUserID(c)); err != nil {
		if errors.Is(err, groups.ErrNotFound) {
			respondNotFound(c, "group or contact")
			return
		}
		respondInternalError(c, err, "add contact to group")
		return
	}
	respondSuccess(c, "contact added to group")
}

// RemoveContactFromGroup removes a contact from a group
// DELETE /api/groups/:id/contacts/:contactId
func (gc *GroupsController) RemoveContactFromGroup(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	contactID, ok := parseIDParam(c, "contactId")
	if !ok {
		return
	}

	if err := gc.store.RemoveContactFromGroup(groupID, contactID, GetUserID(c)); err != nil {
		if errors.Is(err, groups.ErrNotFound) {
			respondNotFound(c, "group or contact")
			return
		}
		respondInternalError(c, err, "remove contact from group")
		return
	}
	respondSuccess(c, "contact removed from group")
}
