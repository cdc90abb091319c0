package dto

import (
	"github.com/yukikurage/meal-attendance-api/internal/models"
)

// MealScheduleDTO represents a meal schedule in API responses.
// TotalParticipants and CheckedCount are computed from live counts on every
// conversion, never stored.
type MealScheduleDTO struct {
	ID                 uint64          `json:"id"`
	MealDate           DateOnly        `json:"meal_date"`
	MealType           models.MealType `json:"meal_type"`
	Description        string          `json:"description"`
	Active             bool            `json:"active"`
	CreatedByID        uint64          `json:"created_by_id"`
	CreatedByName      string          `json:"created_by_name"`
	CreatedAt          *DateTime       `json:"created_at"`
	TotalParticipants  int64           `json:"total_participants"`
	CheckedCount       int64           `json:"checked_count"`
	CurrentUserChecked *bool           `json:"current_user_checked,omitempty"`
}

// ParticipantDTO represents a user's check-in state against a schedule.
// ID is zero for synthesized "not yet checked" records that have no stored row.
type ParticipantDTO struct {
	ID             uint64    `json:"id"`
	ScheduleID     uint64    `json:"schedule_id"`
	UserID         uint64    `json:"user_id"`
	UserName       string    `json:"user_name"`
	UserDepartment string    `json:"user_department"`
	Checked        bool      `json:"checked"`
	Note           string    `json:"note"`
	CreatedAt      *DateTime `json:"created_at"`
	UpdatedAt      *DateTime `json:"updated_at"`
}

// MealHistoryDTO is a participant record joined with its schedule, used by
// the history views. Synthesized records carry ID == 0 and Checked == false.
type MealHistoryDTO struct {
	ID             uint64          `json:"id"`
	ScheduleID     uint64          `json:"schedule_id"`
	MealDate       DateOnly        `json:"meal_date"`
	MealType       models.MealType `json:"meal_type"`
	Description    string          `json:"description"`
	UserID         uint64          `json:"user_id"`
	UserName       string          `json:"user_name"`
	UserDepartment string          `json:"user_department"`
	Checked        bool            `json:"checked"`
	Note           string          `json:"note"`
	CheckedAt      *DateTime       `json:"checked_at"`
}

// MealCheckInDTO represents an append-only check-in audit record.
type MealCheckInDTO struct {
	ID             uint64    `json:"id"`
	ScheduleID     uint64    `json:"schedule_id"`
	UserID         uint64    `json:"user_id"`
	UserName       string    `json:"user_name"`
	UserDepartment string    `json:"user_department"`
	Note           string    `json:"note"`
	CreatedAt      *DateTime `json:"created_at"`
}

// ToParticipantDTO converts a stored participant row. The User relation must
// be preloaded.
func ToParticipantDTO(p models.MealScheduleParticipant) ParticipantDTO {
	return ParticipantDTO{
		ID:             p.ID,
		ScheduleID:     p.ScheduleID,
		UserID:         p.UserID,
		UserName:       p.User.Name,
		UserDepartment: p.User.Department,
		Checked:        p.Checked,
		Note:           p.Note,
		CreatedAt:      NewDateTime(p.CreatedAt),
		UpdatedAt:      NewDateTime(p.UpdatedAt),
	}
}

// VirtualParticipantDTO synthesizes an unchecked record for a user with no
// stored participant row.
func VirtualParticipantDTO(scheduleID uint64, user models.User) ParticipantDTO {
	return ParticipantDTO{
		ScheduleID:     scheduleID,
		UserID:         user.ID,
		UserName:       user.Name,
		UserDepartment: user.Department,
		Checked:        false,
	}
}

// ToMealHistoryDTO converts a stored participant row with its Schedule and
// User relations preloaded.
func ToMealHistoryDTO(p models.MealScheduleParticipant) MealHistoryDTO {
	return MealHistoryDTO{
		ID:             p.ID,
		ScheduleID:     p.ScheduleID,
		MealDate:       NewDateOnly(p.Schedule.MealDate),
		MealType:       p.Schedule.MealType,
		Description:    p.Schedule.Description,
		UserID:         p.UserID,
		UserName:       p.User.Name,
		UserDepartment: p.User.Department,
		Checked:        p.Checked,
		Note:           p.Note,
		CheckedAt:      NewDateTime(p.UpdatedAt),
	}
}

// VirtualMealHistoryDTO synthesizes an unchecked history record for a user
// with no participant row against the schedule.
func VirtualMealHistoryDTO(schedule models.MealSchedule, user models.User) MealHistoryDTO {
	return MealHistoryDTO{
		ScheduleID:     schedule.ID,
		MealDate:       NewDateOnly(schedule.MealDate),
		MealType:       schedule.MealType,
		Description:    schedule.Description,
		UserID:         user.ID,
		UserName:       user.Name,
		UserDepartment: user.Department,
		Checked:        false,
	}
}

// ToMealCheckInDTO converts a check-in row. The User relation must be preloaded.
func ToMealCheckInDTO(ci models.MealCheckIn) MealCheckInDTO {
	return MealCheckInDTO{
		ID:             ci.ID,
		ScheduleID:     ci.ScheduleID,
		UserID:         ci.UserID,
		UserName:       ci.User.Name,
		UserDepartment: ci.User.Department,
		Note:           ci.Note,
		CreatedAt:      NewDateTime(ci.CreatedAt),
	}
}
