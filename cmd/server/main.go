package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/meal-attendance-api/internal/config"
	"github.com/yukikurage/meal-attendance-api/internal/database"
	"github.com/yukikurage/meal-attendance-api/internal/handlers"
	"github.com/yukikurage/meal-attendance-api/internal/middleware"
	"github.com/yukikurage/meal-attendance-api/internal/repository"
	"github.com/yukikurage/meal-attendance-api/internal/services"
	"github.com/yukikurage/meal-attendance-api/internal/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create or reset the bootstrap admin and demo accounts
	if err := database.Seed(cfg); err != nil {
		log.Fatalf("Failed to seed bootstrap accounts: %v", err)
	}

	tokens := utils.NewTokenProvider(cfg.JWTSecret, cfg.JWTExpiration, cfg.JWTRememberExpires)

	// Initialize repositories and services
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	scheduleRepo := repository.NewMealScheduleRepository(db)
	checkRepo := repository.NewMealCheckRepository(db)

	authService := services.NewAuthService(userRepo, tokens)
	userService := services.NewUserService(userRepo)
	scheduleService := services.NewMealScheduleService(scheduleRepo, userRepo)
	checkService := services.NewMealCheckService(checkRepo, userRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	scheduleHandler := handlers.NewMealScheduleHandler(scheduleService)
	checkHandler := handlers.NewMealCheckHandler(checkService)

	// Initialize Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Meal Attendance API is running",
		})
	})

	requireAuth := middleware.RequireAuth(tokens)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/check-username/:username", authHandler.CheckUsername)
			auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
			auth.GET("/pending", requireAuth, middleware.RequireAdmin(), authHandler.ListPendingUsers)
			auth.POST("/approve/:userId", requireAuth, middleware.RequireAdmin(), authHandler.ApproveUser)
			auth.POST("/reject/:userId", requireAuth, middleware.RequireAdmin(), authHandler.RejectUser)
		}

		// User directory routes (protected)
		users := api.Group("/users")
		users.Use(requireAuth)
		{
			users.GET("", userHandler.ListUsers)
			users.GET("/active", userHandler.ListActiveUsers)
			users.GET("/statistics", middleware.RequireAdmin(), userHandler.GetStatistics)
			users.GET("/:id", userHandler.GetUser)
			users.POST("", middleware.RequireAdmin(), userHandler.CreateUser)
			users.PUT("/:id", middleware.RequireAdmin(), userHandler.UpdateUser)
			users.DELETE("/:id", middleware.RequireAdmin(), userHandler.DeleteUser)
			users.PUT("/:id/password", userHandler.ChangePassword)
		}

		// Meal schedule routes (protected)
		schedules := api.Group("/meal-schedules")
		schedules.Use(requireAuth)
		{
			schedules.GET("", scheduleHandler.ListSchedules)
			schedules.GET("/active", scheduleHandler.ListActiveSchedules)
			schedules.GET("/upcoming", scheduleHandler.ListUpcomingSchedules)
			schedules.GET("/date/:date", scheduleHandler.ListSchedulesByDate)
			schedules.GET("/history/my", scheduleHandler.GetMyMealHistory)
			schedules.GET("/history/all", middleware.RequireAdmin(), scheduleHandler.GetAllMealHistory)
			schedules.GET("/history/user/:userId", middleware.RequireAdmin(), scheduleHandler.GetUserMealHistory)
			schedules.GET("/:id", scheduleHandler.GetSchedule)
			schedules.POST("", middleware.RequireAdmin(), scheduleHandler.CreateSchedule)
			schedules.PUT("/:id", middleware.RequireAdmin(), scheduleHandler.UpdateSchedule)
			schedules.DELETE("/:id", middleware.RequireAdmin(), scheduleHandler.DeleteSchedule)
			schedules.GET("/:id/participants", scheduleHandler.ListParticipants)
			schedules.GET("/:id/participants/checked", scheduleHandler.ListCheckedParticipants)
			schedules.GET("/:id/participants/unchecked", scheduleHandler.ListUncheckedParticipants)
			schedules.GET("/:id/check-ins", scheduleHandler.ListCheckIns)
			schedules.POST("/:id/check", scheduleHandler.CheckParticipant)
			schedules.POST("/:id/uncheck", scheduleHandler.UncheckParticipant)
		}

		// Meal check routes (protected)
		checks := api.Group("/meal-checks")
		checks.Use(requireAuth)
		{
			checks.GET("", checkHandler.ListMealChecks)
			checks.GET("/today", checkHandler.ListTodayMealChecks)
			checks.GET("/date/:date", checkHandler.ListMealChecksByDate)
			checks.GET("/user/:userId", checkHandler.ListMealChecksByUser)
			checks.GET("/statistics", checkHandler.GetStatistics)
			checks.GET("/:id", checkHandler.GetMealCheck)
			checks.POST("", checkHandler.CreateMealCheck)
			checks.PUT("/:id", checkHandler.UpdateMealCheck)
			checks.DELETE("/:id", checkHandler.DeleteMealCheck)
		}
	}

	// Start server
	log.Printf("Server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
