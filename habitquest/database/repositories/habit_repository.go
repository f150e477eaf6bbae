package repositories

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/habitquest/habitquest/habitquest/database/models"
	"github.com/uptrace/bun"
)

type HabitRepository interface {
	// CreateWithStreak inserts the habit and its zero-initialized streak
	// ledger in one transaction so a habit never exists without a ledger.
	CreateWithStreak(ctx context.Context, habit *models.Habit) error
	GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Habit, error)
	GetAllByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Habit, error)
	GetStreaks(ctx context.Context, habitIDs []uuid.UUID) (map[uuid.UUID]*models.HabitStreak, error)
	GetLoggedHabits(ctx context.Context, habitIDs []uuid.UUID, day time.Time) (map[uuid.UUID]bool, error)
	Update(ctx context.Context, habit *models.Habit) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
	CountByUserID(ctx context.Context, userID uuid.UUID) (int, error)
}

type habitRepository struct {
	*BaseRepository
}

func NewHabitRepository(db *bun.DB) HabitRepository {
	return &habitRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *habitRepository) CreateWithStreak(ctx context.Context, habit *models.Habit) error {
	if habit.ID == uuid.Nil {
		habit.ID = uuid.New()
	}
	if habit.Frequency == "" {
		habit.Frequency = models.FrequencyDaily
	}
	if habit.Target == 0 {
		habit.Target = 1
	}
	habit.CreatedAt = time.Now()
	habit.UpdatedAt = time.Now()

	err := r.RunInTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(habit).Exec(ctx); err != nil {
			return err
		}

		streak := &models.HabitStreak{
			HabitID:   habit.ID,
			UserID:    habit.UserID,
			UpdatedAt: time.Now(),
		}
		if _, err := tx.NewInsert().Model(streak).Exec(ctx); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return r.HandleError("create", "habit", habit.ID, err)
	}

	slog.Debug("Habit created",
		slog.String("type", "db"),
		slog.String("operation", "CreateWithStreak"),
		slog.String("habit_id", habit.ID.String()),
		slog.String("user_id", habit.UserID.String()))
	return nil
}

func (r *habitRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Habit, error) {
	habit := new(models.Habit)
	err := r.db.NewSelect().
		Model(habit).
		Where("id = ? AND user_id = ?", id, userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "habit", ID: id}
		}
		return nil, r.HandleError("get", "habit", id, err)
	}
	return habit, nil
}

func (r *habitRepository) GetAllByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Habit, error) {
	var habits []*models.Habit
	err := r.db.NewSelect().
		Model(&habits).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, r.HandleError("list", "habit", userID, err)
	}
	return habits, nil
}

func (r *habitRepository) GetStreaks(ctx context.Context, habitIDs []uuid.UUID) (map[uuid.UUID]*models.HabitStreak, error) {
	result := make(map[uuid.UUID]*models.HabitStreak, len(habitIDs))
	if len(habitIDs) == 0 {
		return result, nil
	}

	var streaks []*models.HabitStreak
	err := r.db.NewSelect().
		Model(&streaks).
		Where("habit_id IN (?)", bun.In(habitIDs)).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleError("list", "habit streak", nil, err)
	}

	for _, s := range streaks {
		result[s.HabitID] = s
	}
	return result, nil
}

func (r *habitRepository) GetLoggedHabits(ctx context.Context, habitIDs []uuid.UUID, day time.Time) (map[uuid.UUID]bool, error) {
	result := make(map[uuid.UUID]bool, len(habitIDs))
	if len(habitIDs) == 0 {
		return result, nil
	}

	var logs []*models.HabitLog
	err := r.db.NewSelect().
		Model(&logs).
		Column("habit_id").
		Where("habit_id IN (?) AND log_date = ?", bun.In(habitIDs), day).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleError("list", "habit log", nil, err)
	}

	for _, l := range logs {
		result[l.HabitID] = true
	}
	return result, nil
}

func (r *habitRepository) Update(ctx context.Context, habit *models.Habit) error {
	habit.UpdatedAt = time.Now()
	result, err := r.db.NewUpdate().
		Model(habit).
		Column("name", "description", "frequency", "target", "goal_id", "updated_at").
		Where("id = ? AND user_id = ?", habit.ID, habit.UserID).
		Exec(ctx)
	if err != nil {
		return r.HandleError("update", "habit", habit.ID, err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return &NotFoundError{Entity: "habit", ID: habit.ID}
	}
	return nil
}

func (r *habitRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	// Streak ledger and logs go with the habit via ON DELETE CASCADE
	result, err := r.db.NewDelete().
		Model((*models.Habit)(nil)).
		Where("id = ? AND user_id = ?", id, userID).
		Exec(ctx)
	if err != nil {
		return r.HandleError("delete", "habit", id, err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return &NotFoundError{Entity: "habit", ID: id}
	}
	return nil
}

func (r *habitRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int, error) {
	count, err := r.db.NewSelect().
		Model((*models.Habit)(nil)).
		Where("user_id = ?", userID).
		Count(ctx)
	if err != nil {
		return 0, r.HandleError("count", "habit", userID, err)
	}
	return count, nil
}
