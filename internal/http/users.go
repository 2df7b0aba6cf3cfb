package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bondery/bondery/internal/auth"
)

// ProfileController exposes the authenticated user's own account.
type ProfileController struct {
	authService *auth.Service
}

func NewProfileController(authService *auth.Service) *ProfileController {
	return &ProfileController{
		authService: authService,
	}
}

// GetProfile returns the current user
// GET /api/profile
func (pc *ProfileController) GetProfile(c *gin.Context) {
	userID := auth.GetUserID(c)
	if userID == 0 {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := pc.authService.GetUserByID(userID)
	if err != nil {
		respondInternalError(c, err, "load user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":      user,
		"has_token": user.TokenHash != "",
	})
}

// ChangePassword rotates the current user's password
// POST /api/profile/password
func (pc *ProfileController) ChangePassword(c *gin.Context) {
	userID := auth.GetUserID(c)
	if userID == 0 {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var req struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "current_password and new_password are required")
		return
	}

	if err := pc.authService.ChangePassword(userID, req.CurrentPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidPassword):
			respondBadRequest(c, "current password is incorrect")
		case errors.Is(err, auth.ErrPasswordTooShort):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "change password")
		}
		return
	}

	respondSuccess(c, "password changed")
}
