package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/meal-attendance-api/internal/dto"
	"github.com/yukikurage/meal-attendance-api/internal/models"
	"github.com/yukikurage/meal-attendance-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrMealCheckNotFound  = errors.New("meal check not found")
	ErrDuplicateMealCheck = errors.New("a meal check already exists for that user, date and meal type")
)

// MealCheckService handles the date-keyed daily meal records. These are
// independent of schedules; one record exists per (user, date, meal type).
type MealCheckService struct {
	checkRepo repository.MealCheckRepository
	userRepo  repository.UserRepository
}

// NewMealCheckService creates a new MealCheckService.
func NewMealCheckService(checkRepo repository.MealCheckRepository, userRepo repository.UserRepository) *MealCheckService {
	return &MealCheckService{
		checkRepo: checkRepo,
		userRepo:  userRepo,
	}
}

// ListMealChecks returns every meal check.
func (s *MealCheckService) ListMealChecks() ([]dto.MealCheckDTO, error) {
	checks, err := s.checkRepo.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list meal checks: %w", err)
	}
	return dto.ToMealCheckDTOs(checks), nil
}

// ListTodayMealChecks returns today's meal checks.
func (s *MealCheckService) ListTodayMealChecks() ([]dto.MealCheckDTO, error) {
	return s.ListMealChecksByDate(today())
}

// ListMealChecksByDate returns meal checks on the given date.
func (s *MealCheckService) ListMealChecksByDate(date time.Time) ([]dto.MealCheckDTO, error) {
	checks, err := s.checkRepo.ListByDate(normalizeDate(date))
	if err != nil {
		return nil, fmt.Errorf("failed to list meal checks: %w", err)
	}
	return dto.ToMealCheckDTOs(checks), nil
}

// ListMealChecksByUser returns a user's meal checks.
func (s *MealCheckService) ListMealChecksByUser(userID uint64) ([]dto.MealCheckDTO, error) {
	checks, err := s.checkRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list meal checks: %w", err)
	}
	return dto.ToMealCheckDTOs(checks), nil
}

// GetMealCheck retrieves a meal check by ID.
func (s *MealCheckService) GetMealCheck(id uint64) (*dto.MealCheckDTO, error) {
	check, err := s.findMealCheck(id)
	if err != nil {
		return nil, err
	}
	converted := dto.ToMealCheckDTO(*check)
	return &converted, nil
}

// CreateMealCheckInput represents input for creating a meal check.
type CreateMealCheckInput struct {
	UserID   uint64
	MealDate time.Time
	MealType models.MealType
	Checked  bool
	Note     string
}

// CreateMealCheck creates a record, enforcing uniqueness on
// (user, date, meal type).
func (s *MealCheckService) CreateMealCheck(actor string, input CreateMealCheckInput) (*dto.MealCheckDTO, error) {
	if err := CheckNotDemoUser(actor); err != nil {
		return nil, err
	}
	if !input.MealType.Valid() {
		return nil, ErrInvalidMealType
	}

	user, err := s.userRepo.FindByID(input.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	mealDate := normalizeDate(input.MealDate)
	if _, err := s.checkRepo.FindByUserDateType(user.ID, mealDate, input.MealType); err == nil {
		return nil, ErrDuplicateMealCheck
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check for duplicate: %w", err)
	}

	check := &models.MealCheck{
		UserID:   user.ID,
		User:     *user,
		MealDate: mealDate,
		MealType: input.MealType,
		Checked:  input.Checked,
		Note:     input.Note,
	}

	if err := s.checkRepo.Create(check); err != nil {
		return nil, fmt.Errorf("failed to create meal check: %w", err)
	}

	converted := dto.ToMealCheckDTO(*check)
	return &converted, nil
}

// UpdateMealCheckInput represents input for updating a meal check. Only the
// checked flag and note are mutable; the (user, date, type) key is fixed.
type UpdateMealCheckInput struct {
	Checked bool
	Note    string
}

// UpdateMealCheck changes the checked flag and note.
func (s *MealCheckService) UpdateMealCheck(actor string, id uint64, input UpdateMealCheckInput) (*dto.MealCheckDTO, error) {
	if err := CheckNotDemoUser(actor); err != nil {
		return nil, err
	}

	check, err := s.findMealCheck(id)
	if err != nil {
		return nil, err
	}

	check.Checked = input.Checked
	check.Note = input.Note

	if err := s.checkRepo.Update(check); err != nil {
		return nil, fmt.Errorf("failed to update meal check: %w", err)
	}

	converted := dto.ToMealCheckDTO(*check)
	return &converted, nil
}

// DeleteMealCheck hard deletes a meal check.
func (s *MealCheckService) DeleteMealCheck(actor string, id uint64) error {
	if err := CheckNotDemoUser(actor); err != nil {
		return err
	}

	if _, err := s.findMealCheck(id); err != nil {
		return err
	}

	if err := s.checkRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete meal check: %w", err)
	}
	return nil
}

// GetStatistics aggregates checked counts grouped by meal type over a date
// range.
func (s *MealCheckService) GetStatistics(start, end time.Time) (*dto.MealCheckStatistics, error) {
	checks, err := s.checkRepo.ListBetween(normalizeDate(start), normalizeDate(end))
	if err != nil {
		return nil, fmt.Errorf("failed to list meal checks: %w", err)
	}

	stats := &dto.MealCheckStatistics{
		Total:  int64(len(checks)),
		ByType: make(map[models.MealType]int64),
	}
	for _, check := range checks {
		if check.Checked {
			stats.Checked++
			stats.ByType[check.MealType]++
		}
	}
	return stats, nil
}

func (s *MealCheckService) findMealCheck(id uint64) (*models.MealCheck, error) {
	check, err := s.checkRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMealCheckNotFound
		}
		return nil, fmt.Errorf("failed to find meal check: %w", err)
	}
	return check, nil
}
