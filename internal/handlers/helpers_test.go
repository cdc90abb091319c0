package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/meal-attendance-api/internal/constants"
	"github.com/yukikurage/meal-attendance-api/internal/database"
	"github.com/yukikurage/meal-attendance-api/internal/models"
	"github.com/yukikurage/meal-attendance-api/internal/repository"
	"github.com/yukikurage/meal-attendance-api/internal/services"
	"github.com/yukikurage/meal-attendance-api/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	db              *gorm.DB
	tokens          *utils.TokenProvider
	authService     *services.AuthService
	userService     *services.UserService
	scheduleService *services.MealScheduleService
	checkService    *services.MealCheckService
	authHandler     *AuthHandler
	userHandler     *UserHandler
	scheduleHandler *MealScheduleHandler
	checkHandler    *MealCheckHandler
}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.MealSchedule{},
		&models.MealScheduleParticipant{},
		&models.MealCheck{},
		&models.MealCheckIn{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	tokens := utils.NewTokenProvider("test-secret", time.Hour, 24*time.Hour)

	userRepo := repository.NewUserRepository(db)
	scheduleRepo := repository.NewMealScheduleRepository(db)
	checkRepo := repository.NewMealCheckRepository(db)

	authService := services.NewAuthService(userRepo, tokens)
	userService := services.NewUserService(userRepo)
	scheduleService := services.NewMealScheduleService(scheduleRepo, userRepo)
	checkService := services.NewMealCheckService(checkRepo, userRepo)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return testEnv{
		db:              db,
		tokens:          tokens,
		authService:     authService,
		userService:     userService,
		scheduleService: scheduleService,
		checkService:    checkService,
		authHandler:     NewAuthHandler(authService),
		userHandler:     NewUserHandler(userService),
		scheduleHandler: NewMealScheduleHandler(scheduleService),
		checkHandler:    NewMealCheckHandler(checkService),
	}
}

// authRouter returns a router whose requests run as the given user, without
// going through token validation.
func (env testEnv) authRouter(user models.User) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUsername, user.Username)
		c.Set(constants.ContextKeyRole, user.Role)
	})
	return r
}

// createUser inserts a user directly, bypassing the registration flow.
func (env testEnv) createUser(t *testing.T, username string, role models.UserRole, approved, active bool) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Username:     username,
		Name:         "Test " + username,
		PasswordHash: string(hash),
		Department:   "Engineering",
		Role:         role,
		Approved:     approved,
		Active:       active,
	}
	require.NoError(t, env.db.Create(&user).Error)
	return user
}

func jsonRequest(t *testing.T, method, path string, payload any) *http.Request {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
