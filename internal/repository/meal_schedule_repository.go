package repository

import (
	"time"

	"github.com/yukikurage/meal-attendance-api/internal/models"
	"gorm.io/gorm"
)

// GormMealScheduleRepository is a GORM implementation of MealScheduleRepository
type GormMealScheduleRepository struct {
	db *gorm.DB
}

// NewMealScheduleRepository creates a new MealScheduleRepository
func NewMealScheduleRepository(db *gorm.DB) MealScheduleRepository {
	return &GormMealScheduleRepository{db: db}
}

// Create creates a new schedule
func (r *GormMealScheduleRepository) Create(schedule *models.MealSchedule) error {
	return r.db.Create(schedule).Error
}

// FindByID finds a schedule by ID with optional preloading
func (r *GormMealScheduleRepository) FindByID(id uint64, preload ...string) (*models.MealSchedule, error) {
	var schedule models.MealSchedule
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&schedule, id).Error; err != nil {
		return nil, err
	}

	return &schedule, nil
}

// FindByDateAndType finds the schedule for a (date, meal type) pair
func (r *GormMealScheduleRepository) FindByDateAndType(date time.Time, mealType models.MealType) (*models.MealSchedule, error) {
	var schedule models.MealSchedule
	if err := r.db.Where("meal_date = ? AND meal_type = ?", date, mealType).
		First(&schedule).Error; err != nil {
		return nil, err
	}
	return &schedule, nil
}

// ListAll lists every schedule
func (r *GormMealScheduleRepository) ListAll() ([]models.MealSchedule, error) {
	var schedules []models.MealSchedule
	if err := r.db.Preload("CreatedBy").
		Order("meal_date DESC, meal_type ASC").
		Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

// ListActive lists schedules with active=true
func (r *GormMealScheduleRepository) ListActive() ([]models.MealSchedule, error) {
	var schedules []models.MealSchedule
	if err := r.db.Preload("CreatedBy").
		Where("active = ?", true).
		Order("meal_date DESC, meal_type ASC").
		Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

// ListUpcoming lists schedules on or after the given date, soonest first
func (r *GormMealScheduleRepository) ListUpcoming(from time.Time) ([]models.MealSchedule, error) {
	var schedules []models.MealSchedule
	if err := r.db.Preload("CreatedBy").
		Where("meal_date >= ?", from).
		Order("meal_date ASC, meal_type ASC").
		Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

// ListByDate lists schedules on the given date
func (r *GormMealScheduleRepository) ListByDate(date time.Time) ([]models.MealSchedule, error) {
	var schedules []models.MealSchedule
	if err := r.db.Preload("CreatedBy").
		Where("meal_date = ?", date).
		Order("meal_type ASC").
		Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

// ListBetween lists schedules within [start, end]; nil bounds mean unbounded
func (r *GormMealScheduleRepository) ListBetween(start, end *time.Time) ([]models.MealSchedule, error) {
	query := r.db.Preload("CreatedBy")
	if start != nil {
		query = query.Where("meal_date >= ?", *start)
	}
	if end != nil {
		query = query.Where("meal_date <= ?", *end)
	}

	var schedules []models.MealSchedule
	if err := query.Order("meal_date ASC, meal_type ASC").Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

// Update persists changes to a schedule
func (r *GormMealScheduleRepository) Update(schedule *models.MealSchedule) error {
	return r.db.Save(schedule).Error
}

// Delete removes a schedule together with its participants and check-ins
func (r *GormMealScheduleRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("schedule_id = ?", id).Delete(&models.MealScheduleParticipant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("schedule_id = ?", id).Delete(&models.MealCheckIn{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.MealSchedule{}, id).Error
	})
}

// SaveParticipant inserts or updates a participant row
func (r *GormMealScheduleRepository) SaveParticipant(participant *models.MealScheduleParticipant) error {
	return r.db.Save(participant).Error
}

// FindParticipant finds the participant row for a (schedule, user) pair
func (r *GormMealScheduleRepository) FindParticipant(scheduleID, userID uint64) (*models.MealScheduleParticipant, error) {
	var participant models.MealScheduleParticipant
	if err := r.db.Preload("User").
		Where("schedule_id = ? AND user_id = ?", scheduleID, userID).
		First(&participant).Error; err != nil {
		return nil, err
	}
	return &participant, nil
}

// ListParticipants lists all participant rows for a schedule
func (r *GormMealScheduleRepository) ListParticipants(scheduleID uint64) ([]models.MealScheduleParticipant, error) {
	var participants []models.MealScheduleParticipant
	if err := r.db.Preload("User").
		Where("schedule_id = ?", scheduleID).
		Find(&participants).Error; err != nil {
		return nil, err
	}
	return participants, nil
}

// ListCheckedParticipants lists participant rows with checked=true
func (r *GormMealScheduleRepository) ListCheckedParticipants(scheduleID uint64) ([]models.MealScheduleParticipant, error) {
	var participants []models.MealScheduleParticipant
	if err := r.db.Preload("User").
		Where("schedule_id = ? AND checked = ?", scheduleID, true).
		Find(&participants).Error; err != nil {
		return nil, err
	}
	return participants, nil
}

// ListParticipationsByUser lists a user's participant rows across schedules
func (r *GormMealScheduleRepository) ListParticipationsByUser(userID uint64) ([]models.MealScheduleParticipant, error) {
	var participants []models.MealScheduleParticipant
	if err := r.db.Preload("User").Preload("Schedule").
		Where("user_id = ?", userID).
		Find(&participants).Error; err != nil {
		return nil, err
	}
	return participants, nil
}

// CountCheckedParticipants counts checked participant rows for a schedule
func (r *GormMealScheduleRepository) CountCheckedParticipants(scheduleID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.MealScheduleParticipant{}).
		Where("schedule_id = ? AND checked = ?", scheduleID, true).
		Count(&count).Error
	return count, err
}

// CreateCheckIn appends a check-in audit record
func (r *GormMealScheduleRepository) CreateCheckIn(checkIn *models.MealCheckIn) error {
	return r.db.Create(checkIn).Error
}

// FindCheckIn finds the check-in record for a (schedule, user) pair
func (r *GormMealScheduleRepository) FindCheckIn(scheduleID, userID uint64) (*models.MealCheckIn, error) {
	var checkIn models.MealCheckIn
	if err := r.db.Where("schedule_id = ? AND user_id = ?", scheduleID, userID).
		First(&checkIn).Error; err != nil {
		return nil, err
	}
	return &checkIn, nil
}

// ListCheckIns lists check-in records for a schedule, oldest first
func (r *GormMealScheduleRepository) ListCheckIns(scheduleID uint64) ([]models.MealCheckIn, error) {
	var checkIns []models.MealCheckIn
	if err := r.db.Preload("User").
		Where("schedule_id = ?", scheduleID).
		Order("created_at ASC").
		Find(&checkIns).Error; err != nil {
		return nil, err
	}
	return checkIns, nil
}
