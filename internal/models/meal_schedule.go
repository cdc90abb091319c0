package models

import "time"

type MealType string

const (
	MealTypeBreakfast MealType = "BREAKFAST"
	MealTypeLunch     MealType = "LUNCH"
	MealTypeDinner    MealType = "DINNER"
)

// Valid reports whether t is one of the known meal types.
func (t MealType) Valid() bool {
	switch t {
	case MealTypeBreakfast, MealTypeLunch, MealTypeDinner:
		return true
	}
	return false
}

// MealSchedule is an announced meal event users can check into.
// Only one schedule may exist per (meal_date, meal_type).
type MealSchedule struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	MealDate    time.Time `gorm:"type:date;not null;uniqueIndex:idx_schedule_date_type" json:"meal_date"`
	MealType    MealType  `gorm:"type:varchar(20);not null;uniqueIndex:idx_schedule_date_type" json:"meal_type"`
	Description string    `gorm:"type:varchar(500)" json:"description"`
	Active      bool      `gorm:"not null;default:true" json:"active"`
	CreatedByID uint64    `gorm:"not null" json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`

	// Relations
	CreatedBy    User                      `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	Participants []MealScheduleParticipant `gorm:"foreignKey:ScheduleID" json:"participants,omitempty"`
	CheckIns     []MealCheckIn             `gorm:"foreignKey:ScheduleID" json:"check_ins,omitempty"`
}
