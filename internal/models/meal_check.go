package models

import "time"

// MealCheck is a date-keyed daily meal record, independent of schedules.
// One row per (user, meal_date, meal_type).
type MealCheck struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	UserID    uint64    `gorm:"not null;uniqueIndex:idx_meal_check_user_date_type" json:"user_id"`
	MealDate  time.Time `gorm:"type:date;not null;uniqueIndex:idx_meal_check_user_date_type" json:"meal_date"`
	MealType  MealType  `gorm:"type:varchar(20);not null;uniqueIndex:idx_meal_check_user_date_type" json:"meal_type"`
	Checked   bool      `gorm:"not null;default:false" json:"checked"`
	Note      string    `gorm:"type:varchar(200)" json:"note"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
