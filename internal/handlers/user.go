package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/meal-attendance-api/internal/dto"
	apierrors "github.com/yukikurage/meal-attendance-api/internal/errors"
	"github.com/yukikurage/meal-attendance-api/internal/middleware"
	"github.com/yukikurage/meal-attendance-api/internal/models"
	"github.com/yukikurage/meal-attendance-api/internal/services"
)

// UserHandler coordinates user directory HTTP handlers.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// ListUsers returns all approved users.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers()
	if err != nil {
		respondUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserDTOs(users))
}

// ListActiveUsers returns approved users with active=true.
func (h *UserHandler) ListActiveUsers(c *gin.Context) {
	users, err := h.userService.ListActiveUsers()
	if err != nil {
		respondUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserDTOs(users))
}

// GetStatistics returns aggregated user counters.
func (h *UserHandler) GetStatistics(c *gin.Context) {
	stats, err := h.userService.GetStatistics()
	if err != nil {
		respondUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetUser returns a single user by ID.
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.GetUser(id)
	if err != nil {
		respondUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// CreateUser creates a pre-approved account.
func (h *UserHandler) CreateUser(c *gin.Context) {
	type CreateUserRequest struct {
		Username   string `json:"username" binding:"required,min=3,max=50"`
		Name       string `json:"name" binding:"required,max=100"`
		Password   string `json:"password" binding:"required"`
		Department string `json:"department" binding:"max=50"`
		Active     *bool  `json:"active"`
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	actor, _ := middleware.GetUsername(c)
	user, err := h.userService.CreateUser(actor, services.CreateUserInput{
		Username:   req.Username,
		Name:       req.Name,
		Password:   req.Password,
		Department: req.Department,
		Active:     req.Active,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// UpdateUser changes a user's name, department and active flag.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateUserRequest struct {
		Name       string `json:"name" binding:"required,max=100"`
		Department string `json:"department" binding:"max=50"`
		Active     *bool  `json:"active"`
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	actor, _ := middleware.GetUsername(c)
	user, err := h.userService.UpdateUser(actor, id, services.UpdateUserInput{
		Name:       req.Name,
		Department: req.Department,
		Active:     req.Active,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// DeleteUser hard deletes a user.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	actor, _ := middleware.GetUsername(c)
	if err := h.userService.DeleteUser(actor, id); err != nil {
		respondUserError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ChangePassword sets a new password after verifying the current one. Users
// may only change their own password unless they are administrators.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	currentUserID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetRole(c)
	if id != currentUserID && role != models.RoleAdmin {
		apierrors.Forbidden(c, "You can only change your own password")
		return
	}

	type ChangePasswordRequest struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required"`
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	actor, _ := middleware.GetUsername(c)
	if err := h.userService.ChangePassword(actor, id, req.CurrentPassword, req.NewPassword); err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed"})
}

func respondUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrDemoWriteBlocked):
		apierrors.DemoWriteBlocked(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrUsernameTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrPasswordTooShort),
		errors.Is(err, services.ErrWrongCurrentPassword):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrFailedToHashPassword):
		apierrors.InternalError(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
