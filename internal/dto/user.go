package dto

import (
	"github.com/yukikurage/meal-attendance-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID         uint64          `json:"id"`
	Username   string          `json:"username"`
	Name       string          `json:"name"`
	Department string          `json:"department"`
	Role       models.UserRole `json:"role"`
	Approved   bool            `json:"approved"`
	Active     bool            `json:"active"`
	CreatedAt  *DateTime       `json:"created_at"`
	UpdatedAt  *DateTime       `json:"updated_at"`
}

// AuthResponse is returned by a successful login.
type AuthResponse struct {
	Token      string          `json:"token"`
	ID         uint64          `json:"id"`
	Username   string          `json:"username"`
	Name       string          `json:"name"`
	Department string          `json:"department"`
	Role       models.UserRole `json:"role"`
	Active     bool            `json:"active"`
}

// UserStatistics aggregates counters over the approved user base.
type UserStatistics struct {
	TotalUsers    int64            `json:"total_users"`
	ActiveUsers   int64            `json:"active_users"`
	InactiveUsers int64            `json:"inactive_users"`
	PendingUsers  int64            `json:"pending_users"`
	AdminUsers    int64            `json:"admin_users"`
	RegularUsers  int64            `json:"regular_users"`
	ByDepartment  map[string]int64 `json:"by_department"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:         user.ID,
		Username:   user.Username,
		Name:       user.Name,
		Department: user.Department,
		Role:       user.Role,
		Approved:   user.Approved,
		Active:     user.Active,
		CreatedAt:  NewDateTime(user.CreatedAt),
		UpdatedAt:  NewDateTime(user.UpdatedAt),
	}
}

// ToUserDTOs converts a slice of User models
func ToUserDTOs(users []models.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = ToUserDTO(u)
	}
	return dtos
}
