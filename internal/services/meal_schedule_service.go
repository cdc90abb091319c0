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
	ErrScheduleNotFound    = errors.New("meal schedule not found")
	ErrDuplicateSchedule   = errors.New("a schedule already exists for that date and meal type")
	ErrParticipantNotFound = errors.New("participation record not found")
	ErrUserInactive        = errors.New("inactive users cannot check in")
	ErrInvalidMealType     = errors.New("invalid meal type")
)

// MealScheduleService handles meal schedules, participant check-ins and the
// derived attendance views.
type MealScheduleService struct {
	scheduleRepo repository.MealScheduleRepository
	userRepo     repository.UserRepository
}

// NewMealScheduleService creates a new MealScheduleService.
func NewMealScheduleService(scheduleRepo repository.MealScheduleRepository, userRepo repository.UserRepository) *MealScheduleService {
	return &MealScheduleService{
		scheduleRepo: scheduleRepo,
		userRepo:     userRepo,
	}
}

// ListSchedules returns every schedule.
func (s *MealScheduleService) ListSchedules() ([]dto.MealScheduleDTO, error) {
	schedules, err := s.scheduleRepo.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	return s.convertSchedules(schedules, nil)
}

// ListActiveSchedules returns schedules with active=true.
func (s *MealScheduleService) ListActiveSchedules() ([]dto.MealScheduleDTO, error) {
	schedules, err := s.scheduleRepo.ListActive()
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	return s.convertSchedules(schedules, nil)
}

// ListUpcomingSchedules returns schedules from today onwards, soonest first.
func (s *MealScheduleService) ListUpcomingSchedules() ([]dto.MealScheduleDTO, error) {
	schedules, err := s.scheduleRepo.ListUpcoming(today())
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	return s.convertSchedules(schedules, nil)
}

// ListSchedulesByDate returns schedules on the given date. When currentUserID
// is set, each DTO is annotated with that user's checked state.
func (s *MealScheduleService) ListSchedulesByDate(date time.Time, currentUserID *uint64) ([]dto.MealScheduleDTO, error) {
	schedules, err := s.scheduleRepo.ListByDate(normalizeDate(date))
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	return s.convertSchedules(schedules, currentUserID)
}

// GetSchedule returns a single schedule by ID.
func (s *MealScheduleService) GetSchedule(id uint64) (*dto.MealScheduleDTO, error) {
	schedule, err := s.findSchedule(id)
	if err != nil {
		return nil, err
	}
	converted, err := s.convertSchedule(*schedule, nil)
	if err != nil {
		return nil, err
	}
	return &converted, nil
}

// CreateScheduleInput represents input for creating a schedule.
type CreateScheduleInput struct {
	MealDate    time.Time
	MealType    models.MealType
	Description string
}

// CreateSchedule creates a schedule, enforcing uniqueness on (date, meal type).
func (s *MealScheduleService) CreateSchedule(actor string, creatorID uint64, input CreateScheduleInput) (*dto.MealScheduleDTO, error) {
	if err := CheckNotDemoUser(actor); err != nil {
		return nil, err
	}
	if !input.MealType.Valid() {
		return nil, ErrInvalidMealType
	}

	creator, err := s.userRepo.FindByID(creatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	mealDate := normalizeDate(input.MealDate)
	if _, err := s.scheduleRepo.FindByDateAndType(mealDate, input.MealType); err == nil {
		return nil, ErrDuplicateSchedule
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check for duplicate schedule: %w", err)
	}

	schedule := &models.MealSchedule{
		MealDate:    mealDate,
		MealType:    input.MealType,
		Description: input.Description,
		Active:      true,
		CreatedByID: creator.ID,
		CreatedBy:   *creator,
	}

	if err := s.scheduleRepo.Create(schedule); err != nil {
		return nil, fmt.Errorf("failed to create schedule: %w", err)
	}

	converted, err := s.convertSchedule(*schedule, nil)
	if err != nil {
		return nil, err
	}
	return &converted, nil
}

// UpdateScheduleInput represents input for updating a schedule. Only the
// description and the active flag are mutable.
type UpdateScheduleInput struct {
	Description string
	Active      *bool
}

// UpdateSchedule changes description and/or the active flag.
func (s *MealScheduleService) UpdateSchedule(actor string, id uint64, input UpdateScheduleInput) (*dto.MealScheduleDTO, error) {
	if err := CheckNotDemoUser(actor); err != nil {
		return nil, err
	}

	schedule, err := s.findSchedule(id)
	if err != nil {
		return nil, err
	}

	schedule.Description = input.Description
	if input.Active != nil {
		schedule.Active = *input.Active
	}

	if err := s.scheduleRepo.Update(schedule); err != nil {
		return nil, fmt.Errorf("failed to update schedule: %w", err)
	}

	converted, err := s.convertSchedule(*schedule, nil)
	if err != nil {
		return nil, err
	}
	return &converted, nil
}

// DeleteSchedule removes a schedule and cascades to its participants and
// check-in records.
func (s *MealScheduleService) DeleteSchedule(actor string, id uint64) error {
	if err := CheckNotDemoUser(actor); err != nil {
		return err
	}

	if _, err := s.findSchedule(id); err != nil {
		return err
	}

	if err := s.scheduleRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	return nil
}

// ListParticipants returns all stored participant rows for a schedule.
func (s *MealScheduleService) ListParticipants(scheduleID uint64) ([]dto.ParticipantDTO, error) {
	participants, err := s.scheduleRepo.ListParticipants(scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	return convertParticipants(participants), nil
}

// ListCheckedParticipants returns participant rows with checked=true.
func (s *MealScheduleService) ListCheckedParticipants(scheduleID uint64) ([]dto.ParticipantDTO, error) {
	participants, err := s.scheduleRepo.ListCheckedParticipants(scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	return convertParticipants(participants), nil
}

// ListUncheckedParticipants returns every eligible user who has not yet
// checked in: stored rows with checked=false plus a synthesized record for
// each eligible user with no row at all, so that checked + unchecked covers
// the eligible user base exactly once.
func (s *MealScheduleService) ListUncheckedParticipants(scheduleID uint64) ([]dto.ParticipantDTO, error) {
	schedule, err := s.findSchedule(scheduleID)
	if err != nil {
		return nil, err
	}

	eligible, err := s.eligibleUsers()
	if err != nil {
		return nil, err
	}

	participantsByUser, err := s.participantsByUser(schedule.ID)
	if err != nil {
		return nil, err
	}

	result := make([]dto.ParticipantDTO, 0, len(eligible))
	for _, user := range eligible {
		participant, ok := participantsByUser[user.ID]
		if ok && participant.Checked {
			continue
		}
		if ok {
			result = append(result, dto.ToParticipantDTO(participant))
		} else {
			result = append(result, dto.VirtualParticipantDTO(schedule.ID, user))
		}
	}
	return result, nil
}

// CheckParticipant records a check-in: it upserts the participant row for
// (schedule, user), sets checked=true and stores the note. The first check-in
// also appends an immutable MealCheckIn audit record. Checking in twice just
// updates the note.
func (s *MealScheduleService) CheckParticipant(actor string, scheduleID, userID uint64, note string) (*dto.ParticipantDTO, error) {
	if err := CheckNotDemoUser(actor); err != nil {
		return nil, err
	}

	schedule, err := s.findSchedule(scheduleID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !user.Active {
		return nil, ErrUserInactive
	}

	participant, err := s.scheduleRepo.FindParticipant(schedule.ID, user.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to find participant: %w", err)
		}
		participant = &models.MealScheduleParticipant{
			ScheduleID: schedule.ID,
			UserID:     user.ID,
			User:       *user,
		}
	}

	participant.Checked = true
	participant.Note = note

	if err := s.scheduleRepo.SaveParticipant(participant); err != nil {
		return nil, fmt.Errorf("failed to save participant: %w", err)
	}

	if err := s.appendCheckIn(schedule.ID, user.ID, note); err != nil {
		return nil, err
	}

	converted := dto.ToParticipantDTO(*participant)
	return &converted, nil
}

// UncheckParticipant flips checked back to false on an existing row. A
// missing row is an error here, unlike in the unchecked listing.
func (s *MealScheduleService) UncheckParticipant(actor string, scheduleID, userID uint64) error {
	if err := CheckNotDemoUser(actor); err != nil {
		return err
	}

	participant, err := s.scheduleRepo.FindParticipant(scheduleID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrParticipantNotFound
		}
		return fmt.Errorf("failed to find participant: %w", err)
	}

	participant.Checked = false
	if err := s.scheduleRepo.SaveParticipant(participant); err != nil {
		return fmt.Errorf("failed to save participant: %w", err)
	}
	return nil
}

// ListCheckIns returns the append-only check-in trail for a schedule.
func (s *MealScheduleService) ListCheckIns(scheduleID uint64) ([]dto.MealCheckInDTO, error) {
	if _, err := s.findSchedule(scheduleID); err != nil {
		return nil, err
	}

	checkIns, err := s.scheduleRepo.ListCheckIns(scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list check-ins: %w", err)
	}

	dtos := make([]dto.MealCheckInDTO, len(checkIns))
	for i, ci := range checkIns {
		dtos[i] = dto.ToMealCheckInDTO(ci)
	}
	return dtos, nil
}

// GetUserMealHistory returns a user's stored participation records, optionally
// limited to [start, end]. Only real rows appear here; schedules the user
// never interacted with are omitted.
func (s *MealScheduleService) GetUserMealHistory(userID uint64, start, end *time.Time) ([]dto.MealHistoryDTO, error) {
	participants, err := s.scheduleRepo.ListParticipationsByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participations: %w", err)
	}

	history := make([]dto.MealHistoryDTO, 0, len(participants))
	for _, p := range participants {
		if !withinRange(p.Schedule.MealDate, start, end) {
			continue
		}
		history = append(history, dto.ToMealHistoryDTO(p))
	}
	return history, nil
}

// GetAllMealHistory returns one record per (schedule, eligible user) pair
// over the optional date range, synthesizing unchecked records for users
// with no stored row so every eligible user appears exactly once per schedule.
func (s *MealScheduleService) GetAllMealHistory(start, end *time.Time) ([]dto.MealHistoryDTO, error) {
	schedules, err := s.scheduleRepo.ListBetween(start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}

	eligible, err := s.eligibleUsers()
	if err != nil {
		return nil, err
	}

	history := make([]dto.MealHistoryDTO, 0, len(schedules)*len(eligible))
	for _, schedule := range schedules {
		participantsByUser, err := s.participantsByUser(schedule.ID)
		if err != nil {
			return nil, err
		}

		for _, user := range eligible {
			if participant, ok := participantsByUser[user.ID]; ok {
				record := dto.ToMealHistoryDTO(participant)
				// Participant rows loaded per schedule have no Schedule
				// relation preloaded; fill the schedule fields directly.
				record.MealDate = dto.NewDateOnly(schedule.MealDate)
				record.MealType = schedule.MealType
				record.Description = schedule.Description
				history = append(history, record)
			} else {
				history = append(history, dto.VirtualMealHistoryDTO(schedule, user))
			}
		}
	}
	return history, nil
}

// eligibleUsers returns approved, active users excluding the demo account.
// This is the user base for rosters, history and schedule statistics.
func (s *MealScheduleService) eligibleUsers() ([]models.User, error) {
	approved, err := s.userRepo.ListApproved()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	eligible := make([]models.User, 0, len(approved))
	for _, u := range excludeDemo(approved) {
		if u.Active {
			eligible = append(eligible, u)
		}
	}
	return eligible, nil
}

func (s *MealScheduleService) participantsByUser(scheduleID uint64) (map[uint64]models.MealScheduleParticipant, error) {
	participants, err := s.scheduleRepo.ListParticipants(scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}

	byUser := make(map[uint64]models.MealScheduleParticipant, len(participants))
	for _, p := range participants {
		byUser[p.UserID] = p
	}
	return byUser, nil
}

func (s *MealScheduleService) appendCheckIn(scheduleID, userID uint64, note string) error {
	_, err := s.scheduleRepo.FindCheckIn(scheduleID, userID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to find check-in: %w", err)
	}

	checkIn := &models.MealCheckIn{
		ScheduleID: scheduleID,
		UserID:     userID,
		Note:       note,
	}
	if err := s.scheduleRepo.CreateCheckIn(checkIn); err != nil {
		return fmt.Errorf("failed to record check-in: %w", err)
	}
	return nil
}

func (s *MealScheduleService) findSchedule(id uint64) (*models.MealSchedule, error) {
	schedule, err := s.scheduleRepo.FindByID(id, "CreatedBy")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("failed to find schedule: %w", err)
	}
	return schedule, nil
}

func (s *MealScheduleService) convertSchedules(schedules []models.MealSchedule, currentUserID *uint64) ([]dto.MealScheduleDTO, error) {
	dtos := make([]dto.MealScheduleDTO, len(schedules))
	for i, schedule := range schedules {
		converted, err := s.convertSchedule(schedule, currentUserID)
		if err != nil {
			return nil, err
		}
		dtos[i] = converted
	}
	return dtos, nil
}

// convertSchedule builds the response DTO. Statistics are recomputed from
// live counts on every call.
func (s *MealScheduleService) convertSchedule(schedule models.MealSchedule, currentUserID *uint64) (dto.MealScheduleDTO, error) {
	eligible, err := s.eligibleUsers()
	if err != nil {
		return dto.MealScheduleDTO{}, err
	}

	checkedCount, err := s.scheduleRepo.CountCheckedParticipants(schedule.ID)
	if err != nil {
		return dto.MealScheduleDTO{}, fmt.Errorf("failed to count participants: %w", err)
	}

	converted := dto.MealScheduleDTO{
		ID:                schedule.ID,
		MealDate:          dto.NewDateOnly(schedule.MealDate),
		MealType:          schedule.MealType,
		Description:       schedule.Description,
		Active:            schedule.Active,
		CreatedByID:       schedule.CreatedByID,
		CreatedByName:     schedule.CreatedBy.Name,
		CreatedAt:         dto.NewDateTime(schedule.CreatedAt),
		TotalParticipants: int64(len(eligible)),
		CheckedCount:      checkedCount,
	}

	if currentUserID != nil {
		checked := false
		participant, err := s.scheduleRepo.FindParticipant(schedule.ID, *currentUserID)
		if err == nil {
			checked = participant.Checked
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.MealScheduleDTO{}, fmt.Errorf("failed to find participant: %w", err)
		}
		converted.CurrentUserChecked = &checked
	}

	return converted, nil
}

func convertParticipants(participants []models.MealScheduleParticipant) []dto.ParticipantDTO {
	dtos := make([]dto.ParticipantDTO, len(participants))
	for i, p := range participants {
		dtos[i] = dto.ToParticipantDTO(p)
	}
	return dtos
}

// normalizeDate truncates a timestamp to midnight in the server's timezone.
func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

func today() time.Time {
	return normalizeDate(time.Now())
}

func withinRange(date time.Time, start, end *time.Time) bool {
	if start != nil && date.Before(*start) {
		return false
	}
	if end != nil && date.After(*end) {
		return false
	}
	return true
}
