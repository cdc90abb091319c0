package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/meal-attendance-api/internal/constants"
	"github.com/yukikurage/meal-attendance-api/internal/dto"
	"github.com/yukikurage/meal-attendance-api/internal/models"
	"github.com/yukikurage/meal-attendance-api/internal/services"
)

func TestMealCheckHandler_CreateMealCheck(t *testing.T) {
	env := setupTestEnv(t)
	admin := env.createUser(t, "boss", models.RoleAdmin, true, true)
	alice := env.createUser(t, "alice", models.RoleUser, true, true)

	r := env.authRouter(admin)
	r.POST("/api/meal-checks", env.checkHandler.CreateMealCheck)

	payload := map[string]any{
		"user_id":   alice.ID,
		"meal_date": "2026-09-01",
		"meal_type": "LUNCH",
		"checked":   true,
		"note":      "vegetarian",
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodPost, "/api/meal-checks", payload))

	require.Equal(t, http.StatusCreated, w.Code)
	check := decodeJSON[dto.MealCheckDTO](t, w)
	require.Equal(t, alice.ID, check.UserID)
	require.Equal(t, models.MealTypeLunch, check.MealType)
	require.True(t, check.Checked)
	require.Equal(t, "vegetarian", check.Note)

	// The same (user, date, meal type) triple cannot be recorded twice.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodPost, "/api/meal-checks", payload))
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestMealCheckHandler_CreateMealCheck_BlockedForDemo(t *testing.T) {
	env := setupTestEnv(t)
	demo := env.createUser(t, "demo_admin", models.RoleAdmin, true, true)
	alice := env.createUser(t, "alice", models.RoleUser, true, true)

	r := env.authRouter(demo)
	r.POST("/api/meal-checks", env.checkHandler.CreateMealCheck)

	payload := map[string]any{
		"user_id":   alice.ID,
		"meal_date": "2026-09-01",
		"meal_type": "LUNCH",
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodPost, "/api/meal-checks", payload))
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestMealCheckHandler_UpdateMealCheck(t *testing.T) {
	env := setupTestEnv(t)
	admin := env.createUser(t, "boss", models.RoleAdmin, true, true)
	alice := env.createUser(t, "alice", models.RoleUser, true, true)

	created, err := env.checkService.CreateMealCheck(admin.Username, mealCheckInput(alice.ID, "2026-09-01", models.MealTypeLunch, false))
	require.NoError(t, err)

	r := env.authRouter(admin)
	r.PUT("/api/meal-checks/:id", env.checkHandler.UpdateMealCheck)

	payload := map[string]any{
		"checked": true,
		"note":    "late arrival",
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodPut, fmt.Sprintf("/api/meal-checks/%d", created.ID), payload))

	require.Equal(t, http.StatusOK, w.Code)
	updated := decodeJSON[dto.MealCheckDTO](t, w)
	require.True(t, updated.Checked)
	require.Equal(t, "late arrival", updated.Note)
	// The key stays fixed on update.
	require.Equal(t, alice.ID, updated.UserID)
	require.Equal(t, models.MealTypeLunch, updated.MealType)
}

func TestMealCheckHandler_DeleteMealCheck(t *testing.T) {
	env := setupTestEnv(t)
	admin := env.createUser(t, "boss", models.RoleAdmin, true, true)
	alice := env.createUser(t, "alice", models.RoleUser, true, true)

	created, err := env.checkService.CreateMealCheck(admin.Username, mealCheckInput(alice.ID, "2026-09-01", models.MealTypeLunch, true))
	require.NoError(t, err)

	r := env.authRouter(admin)
	r.DELETE("/api/meal-checks/:id", env.checkHandler.DeleteMealCheck)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodDelete, fmt.Sprintf("/api/meal-checks/%d", created.ID), nil))
	require.Equal(t, http.StatusNoContent, w.Code)

	var count int64
	env.db.Model(&models.MealCheck{}).Where("id = ?", created.ID).Count(&count)
	require.Zero(t, count)

	// Deleting again is a 404.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodDelete, fmt.Sprintf("/api/meal-checks/%d", created.ID), nil))
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestMealCheckHandler_ListMealChecksByDate(t *testing.T) {
	env := setupTestEnv(t)
	admin := env.createUser(t, "boss", models.RoleAdmin, true, true)
	alice := env.createUser(t, "alice", models.RoleUser, true, true)

	_, err := env.checkService.CreateMealCheck(admin.Username, mealCheckInput(alice.ID, "2026-09-01", models.MealTypeLunch, true))
	require.NoError(t, err)
	_, err = env.checkService.CreateMealCheck(admin.Username, mealCheckInput(alice.ID, "2026-09-01", models.MealTypeDinner, true))
	require.NoError(t, err)
	_, err = env.checkService.CreateMealCheck(admin.Username, mealCheckInput(alice.ID, "2026-09-02", models.MealTypeLunch, true))
	require.NoError(t, err)

	r := env.authRouter(admin)
	r.GET("/api/meal-checks/date/:date", env.checkHandler.ListMealChecksByDate)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodGet, "/api/meal-checks/date/2026-09-01", nil))
	require.Equal(t, http.StatusOK, w.Code)
	checks := decodeJSON[[]dto.MealCheckDTO](t, w)
	require.Len(t, checks, 2)
}

func TestMealCheckHandler_GetStatistics(t *testing.T) {
	env := setupTestEnv(t)
	admin := env.createUser(t, "boss", models.RoleAdmin, true, true)
	alice := env.createUser(t, "alice", models.RoleUser, true, true)
	bob := env.createUser(t, "bob", models.RoleUser, true, true)

	_, err := env.checkService.CreateMealCheck(admin.Username, mealCheckInput(alice.ID, "2026-09-01", models.MealTypeLunch, true))
	require.NoError(t, err)
	_, err = env.checkService.CreateMealCheck(admin.Username, mealCheckInput(bob.ID, "2026-09-01", models.MealTypeLunch, true))
	require.NoError(t, err)
	_, err = env.checkService.CreateMealCheck(admin.Username, mealCheckInput(alice.ID, "2026-09-02", models.MealTypeDinner, false))
	require.NoError(t, err)
	// Outside the queried range.
	_, err = env.checkService.CreateMealCheck(admin.Username, mealCheckInput(alice.ID, "2026-10-01", models.MealTypeLunch, true))
	require.NoError(t, err)

	r := env.authRouter(admin)
	r.GET("/api/meal-checks/statistics", env.checkHandler.GetStatistics)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodGet, "/api/meal-checks/statistics?start_date=2026-09-01&end_date=2026-09-30", nil))
	require.Equal(t, http.StatusOK, w.Code)

	stats := decodeJSON[dto.MealCheckStatistics](t, w)
	require.EqualValues(t, 3, stats.Total)
	require.EqualValues(t, 2, stats.Checked)
	require.EqualValues(t, 2, stats.ByType[models.MealTypeLunch])
	require.Zero(t, stats.ByType[models.MealTypeDinner])
}

func TestMealCheckHandler_GetStatistics_RequiresRange(t *testing.T) {
	env := setupTestEnv(t)
	admin := env.createUser(t, "boss", models.RoleAdmin, true, true)

	r := env.authRouter(admin)
	r.GET("/api/meal-checks/statistics", env.checkHandler.GetStatistics)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodGet, "/api/meal-checks/statistics?start_date=2026-09-01", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func mealCheckInput(userID uint64, date string, mealType models.MealType, checked bool) services.CreateMealCheckInput {
	parsed, _ := time.ParseInLocation(constants.DateFormat, date, time.Local)
	return services.CreateMealCheckInput{
		UserID:   userID,
		MealDate: parsed,
		MealType: mealType,
		Checked:  checked,
	}
}
