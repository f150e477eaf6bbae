package habits

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/habitquest/habitquest/habitquest/database/models"
	"github.com/habitquest/habitquest/habitquest/database/repositories"
	"github.com/habitquest/habitquest/habitquest/gamification"
	"github.com/sahilm/fuzzy"
)

// HabitStatus is a habit joined with its streak ledger and whether it has
// already been logged today.
type HabitStatus struct {
	*models.Habit
	CurrentStreak  int        `json:"current_streak"`
	LongestStreak  int        `json:"longest_streak"`
	LastLoggedDate *time.Time `json:"last_logged_date"`
	IsLoggedToday  bool       `json:"is_logged_today"`
}

// CreateHabitInput carries the caller-provided habit fields.
type CreateHabitInput struct {
	Name        string
	Description string
	Frequency   string
	Target      int
	GoalID      *uuid.UUID
}

// UpdateHabitInput carries optional habit mutations; nil fields are left
// unchanged.
type UpdateHabitInput struct {
	Name        *string
	Description *string
	Frequency   *string
	Target      *int
	GoalID      *uuid.UUID
	ClearGoal   bool
}

// Service owns habit CRUD. Completion logging lives on the Coordinator.
type Service struct {
	habits repositories.HabitRepository
	now    func() time.Time
}

func NewService(habits repositories.HabitRepository) *Service {
	return &Service{habits: habits, now: time.Now}
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, input CreateHabitInput) (*models.Habit, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("habit name is required")
	}
	frequency := input.Frequency
	if frequency == "" {
		frequency = models.FrequencyDaily
	}
	if !models.ValidFrequency(frequency) {
		return nil, fmt.Errorf("invalid frequency %q", frequency)
	}

	habit := &models.Habit{
		UserID:      userID,
		GoalID:      input.GoalID,
		Name:        name,
		Description: input.Description,
		Frequency:   frequency,
		Target:      input.Target,
	}
	if err := s.habits.CreateWithStreak(ctx, habit); err != nil {
		return nil, err
	}
	return habit, nil
}

// List returns the user's habits with streak status, newest first. A
// non-empty query fuzzy-matches against habit names.
func (s *Service) List(ctx context.Context, userID uuid.UUID, query string) ([]HabitStatus, error) {
	habits, err := s.habits.GetAllByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if query = strings.TrimSpace(query); query != "" {
		habits = filterByName(habits, query)
	}

	ids := make([]uuid.UUID, len(habits))
	for i, h := range habits {
		ids[i] = h.ID
	}

	streaks, err := s.habits.GetStreaks(ctx, ids)
	if err != nil {
		return nil, err
	}
	loggedToday, err := s.habits.GetLoggedHabits(ctx, ids, gamification.DateOnly(s.now()))
	if err != nil {
		return nil, err
	}

	statuses := make([]HabitStatus, 0, len(habits))
	for _, h := range habits {
		status := HabitStatus{Habit: h, IsLoggedToday: loggedToday[h.ID]}
		if streak, ok := streaks[h.ID]; ok {
			status.CurrentStreak = streak.CurrentStreak
			status.LongestStreak = streak.LongestStreak
			status.LastLoggedDate = streak.LastLoggedDate
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func (s *Service) Get(ctx context.Context, habitID, userID uuid.UUID) (*models.Habit, error) {
	return s.habits.GetByID(ctx, habitID, userID)
}

func (s *Service) Update(ctx context.Context, habitID, userID uuid.UUID, input UpdateHabitInput) (*models.Habit, error) {
	habit, err := s.habits.GetByID(ctx, habitID, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, fmt.Errorf("habit name is required")
		}
		habit.Name = name
	}
	if input.Description != nil {
		habit.Description = *input.Description
	}
	if input.Frequency != nil {
		if !models.ValidFrequency(*input.Frequency) {
			return nil, fmt.Errorf("invalid frequency %q", *input.Frequency)
		}
		habit.Frequency = *input.Frequency
	}
	if input.Target != nil {
		habit.Target = *input.Target
	}
	if input.ClearGoal {
		habit.GoalID = nil
	} else if input.GoalID != nil {
		habit.GoalID = input.GoalID
	}

	if err := s.habits.Update(ctx, habit); err != nil {
		return nil, err
	}
	return habit, nil
}

func (s *Service) Delete(ctx context.Context, habitID, userID uuid.UUID) error {
	return s.habits.Delete(ctx, habitID, userID)
}

// habitSource implements fuzzy.Source over habit names
type habitSource []*models.Habit

func (s habitSource) String(i int) string { return s[i].Name }
func (s habitSource) Len() int            { return len(s) }

func filterByName(habits []*models.Habit, query string) []*models.Habit {
	matches := fuzzy.FindFrom(strings.ToLower(query), habitSource(habits))
	filtered := make([]*models.Habit, 0, len(matches))
	for _, m := range matches {
		filtered = append(filtered, habits[m.Index])
	}
	return filtered
}
