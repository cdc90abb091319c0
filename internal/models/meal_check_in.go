package models

import "time"

// MealCheckIn is an append-only audit record written the first time a user
// checks into a schedule. Unlike MealScheduleParticipant it is never updated
// or toggled afterwards.
type MealCheckIn struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	ScheduleID uint64    `gorm:"not null;uniqueIndex:idx_check_in_schedule_user" json:"schedule_id"`
	UserID     uint64    `gorm:"not null;uniqueIndex:idx_check_in_schedule_user" json:"user_id"`
	Note       string    `gorm:"type:varchar(200)" json:"note"`
	CreatedAt  time.Time `json:"created_at"`

	// Relations
	Schedule MealSchedule `gorm:"foreignKey:ScheduleID" json:"schedule,omitempty"`
	User     User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
