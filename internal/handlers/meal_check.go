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

// MealCheckHandler coordinates the date-keyed meal check HTTP handlers.
type MealCheckHandler struct {
	checkService *services.MealCheckService
}

// NewMealCheckHandler creates a new MealCheckHandler.
func NewMealCheckHandler(checkService *services.MealCheckService) *MealCheckHandler {
	return &MealCheckHandler{
		checkService: checkService,
	}
}

// ListMealChecks returns every meal check.
func (h *MealCheckHandler) ListMealChecks(c *gin.Context) {
	checks, err := h.checkService.ListMealChecks()
	if err != nil {
		respondMealCheckError(c, err)
		return
	}
	c.JSON(http.StatusOK, checks)
}

// ListTodayMealChecks returns today's meal checks.
func (h *MealCheckHandler) ListTodayMealChecks(c *gin.Context) {
	checks, err := h.checkService.ListTodayMealChecks()
	if err != nil {
		respondMealCheckError(c, err)
		return
	}
	c.JSON(http.StatusOK, checks)
}

// ListMealChecksByDate returns meal checks on a date.
func (h *MealCheckHandler) ListMealChecksByDate(c *gin.Context) {
	date, ok := parseDateParam(c, "date")
	if !ok {
		return
	}

	checks, err := h.checkService.ListMealChecksByDate(date)
	if err != nil {
		respondMealCheckError(c, err)
		return
	}
	c.JSON(http.StatusOK, checks)
}

// ListMealChecksByUser returns a user's meal checks.
func (h *MealCheckHandler) ListMealChecksByUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	checks, err := h.checkService.ListMealChecksByUser(userID)
	if err != nil {
		respondMealCheckError(c, err)
		return
	}
	c.JSON(http.StatusOK, checks)
}

// GetMealCheck returns a single meal check by ID.
func (h *MealCheckHandler) GetMealCheck(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	check, err := h.checkService.GetMealCheck(id)
	if err != nil {
		respondMealCheckError(c, err)
		return
	}
	c.JSON(http.StatusOK, check)
}

// CreateMealCheck creates a record for a (user, date, meal type) triple.
func (h *MealCheckHandler) CreateMealCheck(c *gin.Context) {
	type CreateMealCheckRequest struct {
		UserID   uint64          `json:"user_id" binding:"required"`
		MealDate dto.DateOnly    `json:"meal_date" binding:"required"`
		MealType models.MealType `json:"meal_type" binding:"required"`
		Checked  bool            `json:"checked"`
		Note     string          `json:"note" binding:"max=200"`
	}

	var req CreateMealCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	actor, _ := middleware.GetUsername(c)
	check, err := h.checkService.CreateMealCheck(actor, services.CreateMealCheckInput{
		UserID:   req.UserID,
		MealDate: req.MealDate.Time(),
		MealType: req.MealType,
		Checked:  req.Checked,
		Note:     req.Note,
	})
	if err != nil {
		respondMealCheckError(c, err)
		return
	}

	c.JSON(http.StatusCreated, check)
}

// UpdateMealCheck changes the checked flag and note.
func (h *MealCheckHandler) UpdateMealCheck(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateMealCheckRequest struct {
		Checked bool   `json:"checked"`
		Note    string `json:"note" binding:"max=200"`
	}

	var req UpdateMealCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	actor, _ := middleware.GetUsername(c)
	check, err := h.checkService.UpdateMealCheck(actor, id, services.UpdateMealCheckInput{
		Checked: req.Checked,
		Note:    req.Note,
	})
	if err != nil {
		respondMealCheckError(c, err)
		return
	}

	c.JSON(http.StatusOK, check)
}

// DeleteMealCheck hard deletes a meal check.
func (h *MealCheckHandler) DeleteMealCheck(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	actor, _ := middleware.GetUsername(c)
	if err := h.checkService.DeleteMealCheck(actor, id); err != nil {
		respondMealCheckError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetStatistics aggregates checked counts over a required date range.
func (h *MealCheckHandler) GetStatistics(c *gin.Context) {
	start, ok := parseDateQuery(c, "start_date")
	if !ok {
		return
	}
	end, ok := parseDateQuery(c, "end_date")
	if !ok {
		return
	}
	if start == nil || end == nil {
		apierrors.BadRequest(c, "start_date and end_date are required")
		return
	}

	stats, err := h.checkService.GetStatistics(*start, *end)
	if err != nil {
		respondMealCheckError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func respondMealCheckError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrDemoWriteBlocked):
		apierrors.DemoWriteBlocked(c, err.Error())
	case errors.Is(err, services.ErrMealCheckNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrDuplicateMealCheck):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidMealType):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
