package repository

import (
	"time"

	"github.com/yukikurage/meal-attendance-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// ExistsByUsername reports whether a user with the given username exists
	ExistsByUsername(username string) (bool, error)

	// ListApproved lists approved users, active and inactive alike
	ListApproved() ([]models.User, error)

	// ListPending lists users awaiting approval
	ListPending() ([]models.User, error)

	// Update persists changes to a user
	Update(user *models.User) error

	// Delete hard deletes a user
	Delete(id uint64) error
}

// MealScheduleRepository defines the interface for schedule and participant data access
type MealScheduleRepository interface {
	// Create creates a new schedule
	Create(schedule *models.MealSchedule) error

	// FindByID finds a schedule by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.MealSchedule, error)

	// FindByDateAndType finds the schedule for a (date, meal type) pair
	FindByDateAndType(date time.Time, mealType models.MealType) (*models.MealSchedule, error)

	// ListAll lists every schedule
	ListAll() ([]models.MealSchedule, error)

	// ListActive lists schedules with active=true
	ListActive() ([]models.MealSchedule, error)

	// ListUpcoming lists schedules on or after the given date, soonest first
	ListUpcoming(from time.Time) ([]models.MealSchedule, error)

	// ListByDate lists schedules on the given date
	ListByDate(date time.Time) ([]models.MealSchedule, error)

	// ListBetween lists schedules within [start, end]; nil bounds mean unbounded
	ListBetween(start, end *time.Time) ([]models.MealSchedule, error)

	// Update persists changes to a schedule
	Update(schedule *models.MealSchedule) error

	// Delete removes a schedule together with its participants and check-ins
	Delete(id uint64) error

	// SaveParticipant inserts or updates a participant row
	SaveParticipant(participant *models.MealScheduleParticipant) error

	// FindParticipant finds the participant row for a (schedule, user) pair
	FindParticipant(scheduleID, userID uint64) (*models.MealScheduleParticipant, error)

	// ListParticipants lists all participant rows for a schedule
	ListParticipants(scheduleID uint64) ([]models.MealScheduleParticipant, error)

	// ListCheckedParticipants lists participant rows with checked=true
	ListCheckedParticipants(scheduleID uint64) ([]models.MealScheduleParticipant, error)

	// ListParticipationsByUser lists a user's participant rows across schedules
	ListParticipationsByUser(userID uint64) ([]models.MealScheduleParticipant, error)

	// CountCheckedParticipants counts checked participant rows for a schedule
	CountCheckedParticipants(scheduleID uint64) (int64, error)

	// CreateCheckIn appends a check-in audit record
	CreateCheckIn(checkIn *models.MealCheckIn) error

	// FindCheckIn finds the check-in record for a (schedule, user) pair
	FindCheckIn(scheduleID, userID uint64) (*models.MealCheckIn, error)

	// ListCheckIns lists check-in records for a schedule, oldest first
	ListCheckIns(scheduleID uint64) ([]models.MealCheckIn, error)
}

// MealCheckRepository defines the interface for date-keyed meal check data access
type MealCheckRepository interface {
	// Create creates a new meal check
	Create(check *models.MealCheck) error

	// FindByID finds a meal check by ID
	FindByID(id uint64) (*models.MealCheck, error)

	// FindByUserDateType finds the meal check for a (user, date, meal type) triple
	FindByUserDateType(userID uint64, date time.Time, mealType models.MealType) (*models.MealCheck, error)

	// ListAll lists every meal check
	ListAll() ([]models.MealCheck, error)

	// ListByDate lists meal checks on the given date
	ListByDate(date time.Time) ([]models.MealCheck, error)

	// ListByUser lists a user's meal checks
	ListByUser(userID uint64) ([]models.MealCheck, error)

	// ListBetween lists meal checks within [start, end]
	ListBetween(start, end time.Time) ([]models.MealCheck, error)

	// Update persists changes to a meal check
	Update(check *models.MealCheck) error

	// Delete hard deletes a meal check
	Delete(id uint64) error
}
