package habits

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/habitquest/habitquest/habitquest/config"
	"github.com/habitquest/habitquest/habitquest/database/models"
	"github.com/habitquest/habitquest/habitquest/database/repositories"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

const pgUniqueViolation = "23505"

// BunCompletionStore implements CompletionStore on PostgreSQL, taking
// SELECT ... FOR UPDATE row locks inside a single transaction.
type BunCompletionStore struct {
	db        *bun.DB
	txTimeout time.Duration
}

func NewBunCompletionStore(db *bun.DB) *BunCompletionStore {
	return &BunCompletionStore{
		db:        db,
		txTimeout: config.DefaultTxTimeout,
	}
}

func (s *BunCompletionStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx CompletionTx) error) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(timeoutCtx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(timeoutCtx, &bunCompletionTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type bunCompletionTx struct {
	tx bun.Tx
}

func (t *bunCompletionTx) LockHabit(ctx context.Context, habitID, userID uuid.UUID) (*models.Habit, error) {
	habit := new(models.Habit)
	err := t.tx.NewSelect().
		Model(habit).
		Where("id = ? AND user_id = ?", habitID, userID).
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &repositories.NotFoundError{Entity: "habit", ID: habitID}
		}
		return nil, fmt.Errorf("failed to lock habit: %w", err)
	}
	return habit, nil
}

func (t *bunCompletionTx) LockStreak(ctx context.Context, habitID, userID uuid.UUID) (*models.HabitStreak, error) {
	streak := new(models.HabitStreak)
	err := t.tx.NewSelect().
		Model(streak).
		Where("habit_id = ? AND user_id = ?", habitID, userID).
		For("UPDATE").
		Scan(ctx)
	if err == nil {
		return streak, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to lock streak ledger: %w", err)
	}

	// Ledger was never created (earlier partial failure); initialize it in
	// place. The habit row lock serializes this against concurrent inserts.
	streak = &models.HabitStreak{
		HabitID:   habitID,
		UserID:    userID,
		UpdatedAt: time.Now(),
	}
	if _, err := t.tx.NewInsert().Model(streak).Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize streak ledger: %w", err)
	}
	return streak, nil
}

func (t *bunCompletionTx) LogExists(ctx context.Context, habitID uuid.UUID, day time.Time) (bool, error) {
	return t.tx.NewSelect().
		Model((*models.HabitLog)(nil)).
		Where("habit_id = ? AND log_date = ?", habitID, day).
		Exists(ctx)
}

func (t *bunCompletionTx) InsertLog(ctx context.Context, log *models.HabitLog) error {
	_, err := t.tx.NewInsert().Model(log).Exec(ctx)
	if err != nil {
		// The unique index on (habit_id, log_date) backstops the duplicate
		// check against races the row locks did not cover.
		var pgErr pgdriver.Error
		if errors.As(err, &pgErr) && pgErr.Field('C') == pgUniqueViolation {
			return &repositories.ConflictError{
				Entity: "habit log",
				Field:  "log_date",
				Value:  log.LogDate.Format("2006-01-02"),
			}
		}
		return fmt.Errorf("failed to insert habit log: %w", err)
	}
	return nil
}

func (t *bunCompletionTx) SaveStreak(ctx context.Context, streak *models.HabitStreak) error {
	_, err := t.tx.NewUpdate().
		Model(streak).
		Column("current_streak", "longest_streak", "last_logged_date", "updated_at").
		WherePK().
		Exec(ctx)
	return err
}

func (t *bunCompletionTx) LockUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user := new(models.User)
	err := t.tx.NewSelect().
		Model(user).
		Where("id = ?", userID).
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user balance row missing for %s", userID)
		}
		return nil, fmt.Errorf("failed to lock user balance: %w", err)
	}
	return user, nil
}

func (t *bunCompletionTx) SaveUserProgress(ctx context.Context, user *models.User) error {
	_, err := t.tx.NewUpdate().
		Model(user).
		Column("xp", "hp", "level", "updated_at").
		WherePK().
		Exec(ctx)
	return err
}
