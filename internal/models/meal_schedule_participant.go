package models

import "time"

// MealScheduleParticipant is a user's check-in state against a schedule.
// Rows are created lazily on first check-in and toggled on check/uncheck.
type MealScheduleParticipant struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	ScheduleID uint64    `gorm:"not null;uniqueIndex:idx_participant_schedule_user" json:"schedule_id"`
	UserID     uint64    `gorm:"not null;uniqueIndex:idx_participant_schedule_user" json:"user_id"`
	Checked    bool      `gorm:"not null;default:false" json:"checked"`
	Note       string    `gorm:"type:varchar(200)" json:"note"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relations
	Schedule MealSchedule `gorm:"foreignKey:ScheduleID" json:"schedule,omitempty"`
	User     User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
