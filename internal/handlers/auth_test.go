package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/meal-attendance-api/internal/dto"
	"github.com/yukikurage/meal-attendance-api/internal/models"
	"github.com/yukikurage/meal-attendance-api/internal/services"
)

func TestAuthHandler_Register(t *testing.T) {
	env := setupTestEnv(t)

	r := gin.New()
	r.POST("/api/auth/register", env.authHandler.Register)

	payload := map[string]string{
		"username":   "alice",
		"name":       "Alice",
		"password":   "secret1",
		"department": "Kitchen",
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodPost, "/api/auth/register", payload))

	require.Equal(t, http.StatusCreated, w.Code)

	var stored models.User
	require.NoError(t, env.db.Where("username = ?", "alice").First(&stored).Error)
	require.False(t, stored.Approved)
	require.False(t, stored.Active)
	require.Equal(t, models.RoleUser, stored.Role)
}

func TestAuthHandler_Register_DuplicateUsername(t *testing.T) {
	env := setupTestEnv(t)
	env.createUser(t, "alice", models.RoleUser, true, true)

	r := gin.New()
	r.POST("/api/auth/register", env.authHandler.Register)

	payload := map[string]string{
		"username": "alice",
		"name":     "Alice Again",
		"password": "secret1",
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodPost, "/api/auth/register", payload))

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_Login_RequiresApproval(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.authService.Register(services.RegisterInput{
		Username: "alice",
		Name:     "Alice",
		Password: "secret1",
	})
	require.NoError(t, err)

	r := gin.New()
	r.POST("/api/auth/login", env.authHandler.Login)

	payload := map[string]string{
		"username": "alice",
		"password": "secret1",
	}

	// Pending accounts cannot authenticate.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodPost, "/api/auth/login", payload))
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Approve, then login succeeds and returns a token.
	var stored models.User
	require.NoError(t, env.db.Where("username = ?", "alice").First(&stored).Error)
	admin := env.createUser(t, "boss", models.RoleAdmin, true, true)
	require.NoError(t, env.authService.ApproveUser(admin.Username, stored.ID))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodPost, "/api/auth/login", payload))
	require.Equal(t, http.StatusOK, w.Code)

	response := decodeJSON[dto.AuthResponse](t, w)
	require.NotEmpty(t, response.Token)
	require.Equal(t, "alice", response.Username)
	require.Equal(t, models.RoleUser, response.Role)

	// Token is valid and bound to the username.
	subject, err := env.tokens.ValidateToken(response.Token)
	require.NoError(t, err)
	require.Equal(t, "alice", subject)
}

func TestAuthHandler_Login_InactiveUserCanStillLogin(t *testing.T) {
	env := setupTestEnv(t)
	env.createUser(t, "dormant", models.RoleUser, true, false)

	r := gin.New()
	r.POST("/api/auth/login", env.authHandler.Login)

	payload := map[string]string{
		"username": "dormant",
		"password": "supersecret",
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodPost, "/api/auth/login", payload))

	// The active flag gates check-in, not authentication.
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	env := setupTestEnv(t)
	env.createUser(t, "alice", models.RoleUser, true, true)

	r := gin.New()
	r.POST("/api/auth/login", env.authHandler.Login)

	payload := map[string]string{
		"username": "alice",
		"password": "not-the-password",
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodPost, "/api/auth/login", payload))

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_RejectUser_DeletesAccount(t *testing.T) {
	env := setupTestEnv(t)
	admin := env.createUser(t, "boss", models.RoleAdmin, true, true)
	pending := env.createUser(t, "reject-me", models.RoleUser, false, false)

	r := env.authRouter(admin)
	r.POST("/api/auth/reject/:userId", env.authHandler.RejectUser)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodPost, fmt.Sprintf("/api/auth/reject/%d", pending.ID), nil))
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	env.db.Model(&models.User{}).Where("id = ?", pending.ID).Count(&count)
	require.Zero(t, count)
}

func TestAuthHandler_ApproveAndReject_BlockedForDemo(t *testing.T) {
	env := setupTestEnv(t)
	demo := env.createUser(t, "demo_admin", models.RoleAdmin, true, true)
	pending := env.createUser(t, "hopeful", models.RoleUser, false, false)

	r := env.authRouter(demo)
	r.POST("/api/auth/approve/:userId", env.authHandler.ApproveUser)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodPost, fmt.Sprintf("/api/auth/approve/%d", pending.ID), nil))
	require.Equal(t, http.StatusForbidden, w.Code)

	var stored models.User
	require.NoError(t, env.db.First(&stored, pending.ID).Error)
	require.False(t, stored.Approved)
}

func TestAuthHandler_CheckUsername(t *testing.T) {
	env := setupTestEnv(t)
	env.createUser(t, "taken", models.RoleUser, true, true)

	r := gin.New()
	r.GET("/api/auth/check-username/:username", env.authHandler.CheckUsername)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodGet, "/api/auth/check-username/taken", nil))
	require.Equal(t, http.StatusOK, w.Code)
	response := decodeJSON[map[string]bool](t, w)
	require.True(t, response["exists"])
	require.False(t, response["available"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodGet, "/api/auth/check-username/free", nil))
	require.Equal(t, http.StatusOK, w.Code)
	response = decodeJSON[map[string]bool](t, w)
	require.False(t, response["exists"])
	require.True(t, response["available"])
}
