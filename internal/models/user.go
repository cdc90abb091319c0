package models

import "time"

type UserRole string

const (
	RoleAdmin UserRole = "ADMIN"
	RoleUser  UserRole = "USER"
)

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Name         string    `gorm:"type:varchar(100);not null" json:"name"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Department   string    `gorm:"type:varchar(50)" json:"department"`
	Role         UserRole  `gorm:"type:varchar(20);not null;default:'USER'" json:"role"`
	Approved     bool      `gorm:"not null;default:false" json:"approved"`
	Active       bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Schedules      []MealSchedule            `gorm:"foreignKey:CreatedByID" json:"-"`
	Participations []MealScheduleParticipant `gorm:"foreignKey:UserID" json:"-"`
	MealChecks     []MealCheck               `gorm:"foreignKey:UserID" json:"-"`
}
