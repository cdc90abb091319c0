package repository

import (
	"time"

	"github.com/yukikurage/meal-attendance-api/internal/models"
	"gorm.io/gorm"
)

// GormMealCheckRepository is a GORM implementation of MealCheckRepository
type GormMealCheckRepository struct {
	db *gorm.DB
}

// NewMealCheckRepository creates a new MealCheckRepository
func NewMealCheckRepository(db *gorm.DB) MealCheckRepository {
	return &GormMealCheckRepository{db: db}
}

// Create creates a new meal check
func (r *GormMealCheckRepository) Create(check *models.MealCheck) error {
	return r.db.Create(check).Error
}

// FindByID finds a meal check by ID
func (r *GormMealCheckRepository) FindByID(id uint64) (*models.MealCheck, error) {
	var check models.MealCheck
	if err := r.db.Preload("User").First(&check, id).Error; err != nil {
		return nil, err
	}
	return &check, nil
}

// FindByUserDateType finds the meal check for a (user, date, meal type) triple
func (r *GormMealCheckRepository) FindByUserDateType(userID uint64, date time.Time, mealType models.MealType) (*models.MealCheck, error) {
	var check models.MealCheck
	if err := r.db.Where("user_id = ? AND meal_date = ? AND meal_type = ?", userID, date, mealType).
		First(&check).Error; err != nil {
		return nil, err
	}
	return &check, nil
}

// ListAll lists every meal check
func (r *GormMealCheckRepository) ListAll() ([]models.MealCheck, error) {
	var checks []models.MealCheck
	if err := r.db.Preload("User").
		Order("meal_date DESC, meal_type ASC").
		Find(&checks).Error; err != nil {
		return nil, err
	}
	return checks, nil
}

// ListByDate lists meal checks on the given date
func (r *GormMealCheckRepository) ListByDate(date time.Time) ([]models.MealCheck, error) {
	var checks []models.MealCheck
	if err := r.db.Preload("User").
		Where("meal_date = ?", date).
		Order("meal_type ASC").
		Find(&checks).Error; err != nil {
		return nil, err
	}
	return checks, nil
}

// ListByUser lists a user's meal checks
func (r *GormMealCheckRepository) ListByUser(userID uint64) ([]models.MealCheck, error) {
	var checks []models.MealCheck
	if err := r.db.Preload("User").
		Where("user_id = ?", userID).
		Order("meal_date DESC, meal_type ASC").
		Find(&checks).Error; err != nil {
		return nil, err
	}
	return checks, nil
}

// ListBetween lists meal checks within [start, end]
func (r *GormMealCheckRepository) ListBetween(start, end time.Time) ([]models.MealCheck, error) {
	var checks []models.MealCheck
	if err := r.db.Preload("User").
		Where("meal_date >= ? AND meal_date <= ?", start, end).
		Order("meal_date ASC").
		Find(&checks).Error; err != nil {
		return nil, err
	}
	return checks, nil
}

// Update persists changes to a meal check
func (r *GormMealCheckRepository) Update(check *models.MealCheck) error {
	return r.db.Save(check).Error
}

// Delete hard deletes a meal check
func (r *GormMealCheckRepository) Delete(id uint64) error {
	return r.db.Delete(&models.MealCheck{}, id).Error
}
