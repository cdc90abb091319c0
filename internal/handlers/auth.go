package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/meal-attendance-api/internal/dto"
	apierrors "github.com/yukikurage/meal-attendance-api/internal/errors"
	"github.com/yukikurage/meal-attendance-api/internal/middleware"
	"github.com/yukikurage/meal-attendance-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates a pending account. It never returns a token; the account
// must be approved first.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Username   string `json:"username" binding:"required,min=3,max=50"`
		Name       string `json:"name" binding:"required,max=100"`
		Password   string `json:"password" binding:"required"`
		Department string `json:"department" binding:"max=50"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if _, err := h.authService.Register(services.RegisterInput{
		Username:   req.Username,
		Name:       req.Name,
		Password:   req.Password,
		Department: req.Department,
	}); err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration received; awaiting administrator approval",
	})
}

// Login authenticates a user and returns a signed token.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Username   string `json:"username" binding:"required"`
		Password   string `json:"password" binding:"required"`
		RememberMe bool   `json:"remember_me"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, token, err := h.authService.Login(services.LoginInput{
		Username:   req.Username,
		Password:   req.Password,
		RememberMe: req.RememberMe,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		Token:      token,
		ID:         user.ID,
		Username:   user.Username,
		Name:       user.Name,
		Department: user.Department,
		Role:       user.Role,
		Active:     user.Active,
	})
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	username, exists := middleware.GetUsername(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.authService.GetUserByUsername(username)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// ListPendingUsers returns accounts awaiting approval.
func (h *AuthHandler) ListPendingUsers(c *gin.Context) {
	users, err := h.authService.ListPendingUsers()
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTOs(users))
}

// ApproveUser approves a pending account.
func (h *AuthHandler) ApproveUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	actor, _ := middleware.GetUsername(c)
	if err := h.authService.ApproveUser(actor, userID); err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User approved"})
}

// RejectUser deletes a pending registration.
func (h *AuthHandler) RejectUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	actor, _ := middleware.GetUsername(c)
	if err := h.authService.RejectUser(actor, userID); err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User rejected"})
}

// CheckUsername reports whether a username is still available.
func (h *AuthHandler) CheckUsername(c *gin.Context) {
	username := c.Param("username")

	exists, err := h.authService.UsernameExists(username)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"exists":    exists,
		"available": !exists,
	})
}

func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrDemoWriteBlocked):
		apierrors.DemoWriteBlocked(c, err.Error())
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrUsernameTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrFailedToHashPassword):
		apierrors.InternalError(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
