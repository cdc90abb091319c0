package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/meal-attendance-api/internal/constants"
	"github.com/yukikurage/meal-attendance-api/internal/models"
	"github.com/yukikurage/meal-attendance-api/internal/repository"
	"github.com/yukikurage/meal-attendance-api/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUsernameTaken        = errors.New("username already exists")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles registration, login and the approval workflow.
type AuthService struct {
	userRepo repository.UserRepository
	tokens   *utils.TokenProvider
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokens *utils.TokenProvider) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// RegisterInput represents the required information to register a new user.
type RegisterInput struct {
	Username   string
	Name       string
	Password   string
	Department string
}

// Register creates a new user in the pending state. Registration never
// yields a session; the account must be approved by an administrator first.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
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

	user := &models.User{
		Username:     username,
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: string(hashedPassword),
		Department:   strings.TrimSpace(input.Department),
		Role:         models.RoleUser,
		Approved:     false,
		Active:       false,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username   string
	Password   string
	RememberMe bool
}

// Login verifies credentials and issues a signed token. Unknown usernames,
// wrong passwords and unapproved accounts all fail with the same error so
// that account state is not leaked.
func (s *AuthService) Login(input LoginInput) (*models.User, string, error) {
	user, err := s.userRepo.FindByUsername(input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if !user.Approved {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.Username, input.RememberMe)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}

// GetUserByUsername retrieves a user by username.
func (s *AuthService) GetUserByUsername(username string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// ListPendingUsers returns users awaiting approval.
func (s *AuthService) ListPendingUsers() ([]models.User, error) {
	users, err := s.userRepo.ListPending()
	if err != nil {
		return nil, fmt.Errorf("failed to list pending users: %w", err)
	}
	return users, nil
}

// ApproveUser moves a pending user to the approved, active state.
func (s *AuthService) ApproveUser(actor string, userID uint64) error {
	if err := CheckNotDemoUser(actor); err != nil {
		return err
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	user.Approved = true
	user.Active = true
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to approve user: %w", err)
	}
	return nil
}

// RejectUser deletes a pending registration. Rejection is terminal; the
// account is removed rather than flagged.
func (s *AuthService) RejectUser(actor string, userID uint64) error {
	if err := CheckNotDemoUser(actor); err != nil {
		return err
	}

	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.userRepo.Delete(userID); err != nil {
		return fmt.Errorf("failed to reject user: %w", err)
	}
	return nil
}

// UsernameExists reports whether the username is already registered.
func (s *AuthService) UsernameExists(username string) (bool, error) {
	return s.userRepo.ExistsByUsername(username)
}
