package dto

import (
	"github.com/yukikurage/meal-attendance-api/internal/models"
)

// MealCheckDTO represents a date-keyed daily meal record in API responses.
type MealCheckDTO struct {
	ID        uint64          `json:"id"`
	UserID    uint64          `json:"user_id"`
	UserName  string          `json:"user_name"`
	MealDate  DateOnly        `json:"meal_date"`
	MealType  models.MealType `json:"meal_type"`
	Checked   bool            `json:"checked"`
	Note      string          `json:"note"`
	CreatedAt *DateTime       `json:"created_at"`
}

// MealCheckStatistics aggregates checked counts over a date range.
type MealCheckStatistics struct {
	Total   int64                     `json:"total"`
	Checked int64                     `json:"checked"`
	ByType  map[models.MealType]int64 `json:"by_type"`
}

// ToMealCheckDTO converts a MealCheck model. The User relation must be preloaded.
func ToMealCheckDTO(mc models.MealCheck) MealCheckDTO {
	return MealCheckDTO{
		ID:        mc.ID,
		UserID:    mc.UserID,
		UserName:  mc.User.Name,
		MealDate:  NewDateOnly(mc.MealDate),
		MealType:  mc.MealType,
		Checked:   mc.Checked,
		Note:      mc.Note,
		CreatedAt: NewDateTime(mc.CreatedAt),
	}
}

// ToMealCheckDTOs converts a slice of MealCheck models
func ToMealCheckDTOs(checks []models.MealCheck) []MealCheckDTO {
	dtos := make([]MealCheckDTO, len(checks))
	for i, mc := range checks {
		dtos[i] = ToMealCheckDTO(mc)
	}
	return dtos
}
