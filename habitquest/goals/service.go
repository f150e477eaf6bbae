package goals

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/habitquest/habitquest/habitquest/config"
	"github.com/habitquest/habitquest/habitquest/database/models"
	"github.com/habitquest/habitquest/habitquest/database/repositories"
	"github.com/uptrace/bun"
)

// Service owns goal CRUD and template instantiation.
type Service struct {
	db        *bun.DB
	goals     repositories.GoalRepository
	txTimeout time.Duration
}

func NewService(db *bun.DB, goals repositories.GoalRepository) *Service {
	return &Service{db: db, goals: goals, txTimeout: config.DefaultTxTimeout}
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, name string) (*models.Goal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("goal name is required")
	}

	goal := &models.Goal{UserID: userID, Name: name}
	if err := s.goals.Create(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*models.Goal, error) {
	return s.goals.GetAllByUserID(ctx, userID)
}

func (s *Service) Rename(ctx context.Context, goalID, userID uuid.UUID, name string) (*models.Goal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("goal name is required")
	}
	return s.goals.Rename(ctx, goalID, userID, name)
}

func (s *Service) Delete(ctx context.Context, goalID, userID uuid.UUID) error {
	return s.goals.Delete(ctx, goalID, userID)
}

// ApplyTemplate creates a goal from a template plus all of its habits, each
// with a zero-initialized streak ledger, in one transaction.
func (s *Service) ApplyTemplate(ctx context.Context, userID uuid.UUID, templateID string) (*models.Goal, []*models.Habit, error) {
	tpl, ok := FindTemplate(templateID)
	if !ok {
		return nil, nil, &repositories.NotFoundError{Entity: "goal template", ID: templateID}
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	goal := &models.Goal{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      tpl.Name,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	habits := make([]*models.Habit, 0, len(tpl.Habits))

	err := s.db.RunInTx(timeoutCtx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(goal).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert goal: %w", err)
		}

		for _, ht := range tpl.Habits {
			frequency := ht.Frequency
			if !models.ValidFrequency(frequency) {
				frequency = models.FrequencyDaily
			}
			goalID := goal.ID
			habit := &models.Habit{
				ID:          uuid.New(),
				UserID:      userID,
				GoalID:      &goalID,
				Name:        ht.Name,
				Description: ht.Description,
				Frequency:   frequency,
				Target:      1,
				CreatedAt:   time.Now(),
				UpdatedAt:   time.Now(),
			}
			if _, err := tx.NewInsert().Model(habit).Exec(ctx); err != nil {
				return fmt.Errorf("failed to insert habit %q: %w", ht.Name, err)
			}

			streak := &models.HabitStreak{
				HabitID:   habit.ID,
				UserID:    userID,
				UpdatedAt: time.Now(),
			}
			if _, err := tx.NewInsert().Model(streak).Exec(ctx); err != nil {
				return fmt.Errorf("failed to insert streak ledger for %q: %w", ht.Name, err)
			}
			habits = append(habits, habit)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	slog.Info("Goal template applied",
		slog.String("user_id", userID.String()),
		slog.String("template_id", templateID),
		slog.Int("habits", len(habits)))

	return goal, habits, nil
}
