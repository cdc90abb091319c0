package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/meal-attendance-api/internal/constants"
	"github.com/yukikurage/meal-attendance-api/internal/dto"
	apierrors "github.com/yukikurage/meal-attendance-api/internal/errors"
	"github.com/yukikurage/meal-attendance-api/internal/middleware"
	"github.com/yukikurage/meal-attendance-api/internal/models"
	"github.com/yukikurage/meal-attendance-api/internal/services"
)

// MealScheduleHandler coordinates schedule and participant HTTP handlers.
type MealScheduleHandler struct {
	scheduleService *services.MealScheduleService
}

// NewMealScheduleHandler creates a new MealScheduleHandler.
func NewMealScheduleHandler(scheduleService *services.MealScheduleService) *MealScheduleHandler {
	return &MealScheduleHandler{
		scheduleService: scheduleService,
	}
}

// ListSchedules returns every schedule.
func (h *MealScheduleHandler) ListSchedules(c *gin.Context) {
	schedules, err := h.scheduleService.ListSchedules()
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, schedules)
}

// ListActiveSchedules returns schedules with active=true.
func (h *MealScheduleHandler) ListActiveSchedules(c *gin.Context) {
	schedules, err := h.scheduleService.ListActiveSchedules()
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, schedules)
}

// ListUpcomingSchedules returns schedules from today onwards.
func (h *MealScheduleHandler) ListUpcomingSchedules(c *gin.Context) {
	schedules, err := h.scheduleService.ListUpcomingSchedules()
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, schedules)
}

// ListSchedulesByDate returns schedules on a date, annotated with the
// caller's checked state.
func (h *MealScheduleHandler) ListSchedulesByDate(c *gin.Context) {
	date, ok := parseDateParam(c, "date")
	if !ok {
		return
	}

	userID, _ := middleware.GetUserID(c)
	schedules, err := h.scheduleService.ListSchedulesByDate(date, &userID)
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, schedules)
}

// GetSchedule returns a single schedule by ID.
func (h *MealScheduleHandler) GetSchedule(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	schedule, err := h.scheduleService.GetSchedule(id)
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, schedule)
}

// CreateSchedule creates a schedule for a (date, meal type) pair.
func (h *MealScheduleHandler) CreateSchedule(c *gin.Context) {
	type CreateScheduleRequest struct {
		MealDate    dto.DateOnly    `json:"meal_date" binding:"required"`
		MealType    models.MealType `json:"meal_type" binding:"required"`
		Description string          `json:"description" binding:"max=500"`
	}

	var req CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	actor, _ := middleware.GetUsername(c)
	creatorID, _ := middleware.GetUserID(c)
	schedule, err := h.scheduleService.CreateSchedule(actor, creatorID, services.CreateScheduleInput{
		MealDate:    req.MealDate.Time(),
		MealType:    req.MealType,
		Description: req.Description,
	})
	if err != nil {
		respondScheduleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, schedule)
}

// UpdateSchedule changes description and/or the active flag.
func (h *MealScheduleHandler) UpdateSchedule(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateScheduleRequest struct {
		Description string `json:"description" binding:"max=500"`
		Active      *bool  `json:"active"`
	}

	var req UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	actor, _ := middleware.GetUsername(c)
	schedule, err := h.scheduleService.UpdateSchedule(actor, id, services.UpdateScheduleInput{
		Description: req.Description,
		Active:      req.Active,
	})
	if err != nil {
		respondScheduleError(c, err)
		return
	}

	c.JSON(http.StatusOK, schedule)
}

// DeleteSchedule removes a schedule and its participant records.
func (h *MealScheduleHandler) DeleteSchedule(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	actor, _ := middleware.GetUsername(c)
	if err := h.scheduleService.DeleteSchedule(actor, id); err != nil {
		respondScheduleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListParticipants returns all stored participant rows for a schedule.
func (h *MealScheduleHandler) ListParticipants(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	participants, err := h.scheduleService.ListParticipants(id)
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, participants)
}

// ListCheckedParticipants returns participants who have claimed their meal.
func (h *MealScheduleHandler) ListCheckedParticipants(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	participants, err := h.scheduleService.ListCheckedParticipants(id)
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, participants)
}

// ListUncheckedParticipants returns eligible users who have not yet claimed
// their meal, including those with no stored row.
func (h *MealScheduleHandler) ListUncheckedParticipants(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	participants, err := h.scheduleService.ListUncheckedParticipants(id)
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, participants)
}

// CheckParticipant records a check-in for a user against a schedule.
func (h *MealScheduleHandler) CheckParticipant(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type CheckRequest struct {
		UserID uint64 `json:"user_id" binding:"required"`
		Note   string `json:"note" binding:"max=200"`
	}

	var req CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	actor, _ := middleware.GetUsername(c)
	participant, err := h.scheduleService.CheckParticipant(actor, id, req.UserID, req.Note)
	if err != nil {
		respondScheduleError(c, err)
		return
	}

	c.JSON(http.StatusOK, participant)
}

// UncheckParticipant reverts a check-in.
func (h *MealScheduleHandler) UncheckParticipant(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UncheckRequest struct {
		UserID uint64 `json:"user_id" binding:"required"`
	}

	var req UncheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	actor, _ := middleware.GetUsername(c)
	if err := h.scheduleService.UncheckParticipant(actor, id, req.UserID); err != nil {
		respondScheduleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListCheckIns returns the append-only check-in trail for a schedule.
func (h *MealScheduleHandler) ListCheckIns(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	checkIns, err := h.scheduleService.ListCheckIns(id)
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, checkIns)
}

// GetMyMealHistory returns the caller's participation history.
func (h *MealScheduleHandler) GetMyMealHistory(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	start, end, ok := parseDateRangeQuery(c)
	if !ok {
		return
	}

	history, err := h.scheduleService.GetUserMealHistory(userID, start, end)
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// GetAllMealHistory returns one record per (schedule, eligible user) pair.
func (h *MealScheduleHandler) GetAllMealHistory(c *gin.Context) {
	start, end, ok := parseDateRangeQuery(c)
	if !ok {
		return
	}

	history, err := h.scheduleService.GetAllMealHistory(start, end)
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// GetUserMealHistory returns a specific user's participation history.
func (h *MealScheduleHandler) GetUserMealHistory(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	start, end, ok := parseDateRangeQuery(c)
	if !ok {
		return
	}

	history, err := h.scheduleService.GetUserMealHistory(userID, start, end)
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

func parseDateParam(c *gin.Context, name string) (time.Time, bool) {
	date, err := time.ParseInLocation(constants.DateFormat, c.Param(name), time.Local)
	if err != nil {
		apierrors.BadRequest(c, "Invalid date, expected yyyy-MM-dd")
		return time.Time{}, false
	}
	return date, true
}

func parseDateQuery(c *gin.Context, name string) (*time.Time, bool) {
	value := c.Query(name)
	if value == "" {
		return nil, true
	}
	date, err := time.ParseInLocation(constants.DateFormat, value, time.Local)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name+", expected yyyy-MM-dd")
		return nil, false
	}
	return &date, true
}

func parseDateRangeQuery(c *gin.Context) (start, end *time.Time, ok bool) {
	start, ok = parseDateQuery(c, "start_date")
	if !ok {
		return nil, nil, false
	}
	end, ok = parseDateQuery(c, "end_date")
	if !ok {
		return nil, nil, false
	}
	return start, end, true
}

func respondScheduleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrDemoWriteBlocked):
		apierrors.DemoWriteBlocked(c, err.Error())
	case errors.Is(err, services.ErrScheduleNotFound),
		errors.Is(err, services.ErrParticipantNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrDuplicateSchedule):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrUserInactive):
		apierrors.InvalidOperation(c, err.Error())
	case errors.Is(err, services.ErrInvalidMealType):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
