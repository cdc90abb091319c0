package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/meal-attendance-api/internal/constants"
	"github.com/yukikurage/meal-attendance-api/internal/dto"
	"github.com/yukikurage/meal-attendance-api/internal/models"
	"github.com/yukikurage/meal-attendance-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrWrongCurrentPassword = errors.New("current password does not match")

// UserService handles user directory business logic.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ListUsers returns all approved users, active and inactive alike. The demo
// account never appears in directory listings.
func (s *UserService) ListUsers() ([]models.User, error) {
	users, err := s.userRepo.ListApproved()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return excludeDemo(users), nil
}

// ListActiveUsers returns approved users with active=true.
func (s *UserService) ListActiveUsers() ([]models.User, error) {
	users, err := s.userRepo.ListApproved()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	active := make([]models.User, 0, len(users))
	for _, u := range excludeDemo(users) {
		if u.Active {
			active = append(active, u)
		}
	}
	return active, nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// CreateUserInput represents input for an admin-created account.
type CreateUserInput struct {
	Username   string
	Name       string
	Password   string
	Department string
	Active     *bool
}

// CreateUser creates a pre-approved account on behalf of an administrator.
func (s *UserService) CreateUser(actor string, input CreateUserInput) (*models.User, error) {
	if err := CheckNotDemoUser(actor); err != nil {
		return nil, err
	}

	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	taken, err := s.userRepo.ExistsByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}

	user := &models.User{
		Username:     username,
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: string(hashedPassword),
		Department:   strings.TrimSpace(input.Department),
		Role:         models.RoleUser,
		Approved:     true,
		Active:       active,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// UpdateUserInput represents input for updating a user profile.
type UpdateUserInput struct {
	Name       string
	Department string
	Active     *bool
}

// UpdateUser changes name, department and the active flag.
func (s *UserService) UpdateUser(actor string, id uint64, input UpdateUserInput) (*models.User, error) {
	if err := CheckNotDemoUser(actor); err != nil {
		return nil, err
	}

	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	user.Name = strings.TrimSpace(input.Name)
	user.Department = strings.TrimSpace(input.Department)
	if input.Active != nil {
		user.Active = *input.Active
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// DeleteUser hard deletes a user.
func (s *UserService) DeleteUser(actor string, id uint64) error {
	if err := CheckNotDemoUser(actor); err != nil {
		return err
	}

	if _, err := s.GetUser(id); err != nil {
		return err
	}

	if err := s.userRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// ChangePassword verifies the current password before setting the new one.
func (s *UserService) ChangePassword(actor string, userID uint64, currentPassword, newPassword string) error {
	if err := CheckNotDemoUser(actor); err != nil {
		return err
	}

	if len(newPassword) < constants.MinPasswordLength {
		return ErrPasswordTooShort
	}

	user, err := s.GetUser(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrWrongCurrentPassword
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrFailedToHashPassword
	}

	user.PasswordHash = string(hashedPassword)
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	return nil
}

// GetStatistics aggregates counters over the approved user base, demo
// account excluded.
func (s *UserService) GetStatistics() (*dto.UserStatistics, error) {
	approved, err := s.userRepo.ListApproved()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	approved = excludeDemo(approved)

	pending, err := s.userRepo.ListPending()
	if err != nil {
		return nil, fmt.Errorf("failed to list pending users: %w", err)
	}

	stats := &dto.UserStatistics{
		TotalUsers:   int64(len(approved)),
		PendingUsers: int64(len(pending)),
		ByDepartment: make(map[string]int64),
	}

	for _, u := range approved {
		if u.Active {
			stats.ActiveUsers++
		} else {
			stats.InactiveUsers++
		}
		if u.Role == models.RoleAdmin {
			stats.AdminUsers++
		} else {
			stats.RegularUsers++
		}
		if u.Department != "" {
			stats.ByDepartment[u.Department]++
		}
	}

	return stats, nil
}

func excludeDemo(users []models.User) []models.User {
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if u.Username == constants.DemoUsername {
			continue
		}
		out = append(out, u)
	}
	return out
}
