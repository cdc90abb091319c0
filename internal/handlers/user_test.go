package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/meal-attendance-api/internal/dto"
	"github.com/yukikurage/meal-attendance-api/internal/models"
	"golang.org/x/crypto/bcrypt"
)

func TestUserHandler_ListUsers_ExcludesDemoAndPending(t *testing.T) {
	env := setupTestEnv(t)
	admin := env.createUser(t, "boss", models.RoleAdmin, true, true)
	env.createUser(t, "alice", models.RoleUser, true, true)
	env.createUser(t, "dormant", models.RoleUser, true, false)
	env.createUser(t, "demo_admin", models.RoleAdmin, true, true)
	env.createUser(t, "pending", models.RoleUser, false, false)

	r := env.authRouter(admin)
	r.GET("/api/users", env.userHandler.ListUsers)
	r.GET("/api/users/active", env.userHandler.ListActiveUsers)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodGet, "/api/users", nil))
	require.Equal(t, http.StatusOK, w.Code)
	users := decodeJSON[[]dto.UserDTO](t, w)
	// boss, alice and dormant; never demo_admin or pending accounts.
	require.Len(t, users, 3)
	for _, u := range users {
		require.NotEqual(t, "demo_admin", u.Username)
		require.NotEqual(t, "pending", u.Username)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodGet, "/api/users/active", nil))
	require.Equal(t, http.StatusOK, w.Code)
	active := decodeJSON[[]dto.UserDTO](t, w)
	require.Len(t, active, 2)
}

func TestUserHandler_CreateUser(t *testing.T) {
	env := setupTestEnv(t)
	admin := env.createUser(t, "boss", models.RoleAdmin, true, true)

	r := env.authRouter(admin)
	r.POST("/api/users", env.userHandler.CreateUser)

	payload := map[string]any{
		"username":   "carol",
		"name":       "Carol",
		"password":   "secret1",
		"department": "Kitchen",
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodPost, "/api/users", payload))

	require.Equal(t, http.StatusCreated, w.Code)

	// Admin-created accounts skip the approval queue.
	var stored models.User
	require.NoError(t, env.db.Where("username = ?", "carol").First(&stored).Error)
	require.True(t, stored.Approved)
	require.True(t, stored.Active)
	require.Equal(t, models.RoleUser, stored.Role)
}

func TestUserHandler_CreateUser_ShortPassword(t *testing.T) {
	env := setupTestEnv(t)
	admin := env.createUser(t, "boss", models.RoleAdmin, true, true)

	r := env.authRouter(admin)
	r.POST("/api/users", env.userHandler.CreateUser)

	payload := map[string]any{
		"username": "carol",
		"name":     "Carol",
		"password": "short",
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodPost, "/api/users", payload))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserHandler_DemoCannotMutate(t *testing.T) {
	env := setupTestEnv(t)
	demo := env.createUser(t, "demo_admin", models.RoleAdmin, true, true)
	alice := env.createUser(t, "alice", models.RoleUser, true, true)

	r := env.authRouter(demo)
	r.POST("/api/users", env.userHandler.CreateUser)
	r.PUT("/api/users/:id", env.userHandler.UpdateUser)
	r.DELETE("/api/users/:id", env.userHandler.DeleteUser)
	r.GET("/api/users/:id", env.userHandler.GetUser)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodPost, "/api/users", map[string]any{
		"username": "carol",
		"name":     "Carol",
		"password": "secret1",
	}))
	require.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodPut, fmt.Sprintf("/api/users/%d", alice.ID), map[string]any{
		"name": "Renamed",
	}))
	require.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodDelete, fmt.Sprintf("/api/users/%d", alice.ID), nil))
	require.Equal(t, http.StatusForbidden, w.Code)

	// Reads are unrestricted for the demo account.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodGet, fmt.Sprintf("/api/users/%d", alice.ID), nil))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestUserHandler_UpdateUser(t *testing.T) {
	env := setupTestEnv(t)
	admin := env.createUser(t, "boss", models.RoleAdmin, true, true)
	alice := env.createUser(t, "alice", models.RoleUser, true, true)

	r := env.authRouter(admin)
	r.PUT("/api/users/:id", env.userHandler.UpdateUser)

	inactive := false
	payload := map[string]any{
		"name":       "Alice B.",
		"department": "Facilities",
		"active":     inactive,
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodPut, fmt.Sprintf("/api/users/%d", alice.ID), payload))
	require.Equal(t, http.StatusOK, w.Code)

	updated := decodeJSON[dto.UserDTO](t, w)
	require.Equal(t, "Alice B.", updated.Name)
	require.Equal(t, "Facilities", updated.Department)
	require.False(t, updated.Active)
	// Username never changes through profile updates.
	require.Equal(t, "alice", updated.Username)
}

func TestUserHandler_ChangePassword(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.createUser(t, "alice", models.RoleUser, true, true)

	r := env.authRouter(alice)
	r.PUT("/api/users/:id/password", env.userHandler.ChangePassword)

	path := fmt.Sprintf("/api/users/%d/password", alice.ID)

	// Wrong current password is rejected.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodPut, path, map[string]any{
		"current_password": "wrong",
		"new_password":     "brand-new-pass",
	}))
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodPut, path, map[string]any{
		"current_password": "supersecret",
		"new_password":     "brand-new-pass",
	}))
	require.Equal(t, http.StatusOK, w.Code)

	var stored models.User
	require.NoError(t, env.db.First(&stored, alice.ID).Error)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("brand-new-pass")))
}

func TestUserHandler_ChangePassword_OtherUserForbidden(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.createUser(t, "alice", models.RoleUser, true, true)
	bob := env.createUser(t, "bob", models.RoleUser, true, true)

	r := env.authRouter(alice)
	r.PUT("/api/users/:id/password", env.userHandler.ChangePassword)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodPut, fmt.Sprintf("/api/users/%d/password", bob.ID), map[string]any{
		"current_password": "supersecret",
		"new_password":     "brand-new-pass",
	}))
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestUserHandler_GetStatistics(t *testing.T) {
	env := setupTestEnv(t)
	admin := env.createUser(t, "boss", models.RoleAdmin, true, true)
	env.createUser(t, "alice", models.RoleUser, true, true)
	env.createUser(t, "dormant", models.RoleUser, true, false)
	env.createUser(t, "demo_admin", models.RoleAdmin, true, true)
	env.createUser(t, "pending", models.RoleUser, false, false)

	r := env.authRouter(admin)
	r.GET("/api/users/statistics", env.userHandler.GetStatistics)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodGet, "/api/users/statistics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	stats := decodeJSON[dto.UserStatistics](t, w)
	require.EqualValues(t, 3, stats.TotalUsers)
	require.EqualValues(t, 2, stats.ActiveUsers)
	require.EqualValues(t, 1, stats.InactiveUsers)
	require.EqualValues(t, 1, stats.AdminUsers)
	require.EqualValues(t, 2, stats.RegularUsers)
	require.EqualValues(t, 1, stats.PendingUsers)
	require.EqualValues(t, 3, stats.ByDepartment["Engineering"])
}
