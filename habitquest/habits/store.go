package habits

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/habitquest/habitquest/habitquest/database/models"
)

// CompletionStore runs one completion transaction. Every operation performed
// through the CompletionTx either commits as a whole or rolls back as a whole.
type CompletionStore interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx CompletionTx) error) error
}

// CompletionTx is the set of storage operations the coordinator needs inside
// a single transaction. Lock* methods take exclusive row locks that are held
// until the transaction ends; the coordinator calls them in a fixed order
// (habit, then streak ledger, then user) so concurrent completions cannot
// deadlock.
type CompletionTx interface {
	// LockHabit locks the habit row scoped to its owner. Returns a
	// NotFoundError when the habit does not exist or belongs to someone else.
	LockHabit(ctx context.Context, habitID, userID uuid.UUID) (*models.Habit, error)

	// LockStreak locks the habit's streak ledger, initializing a zeroed row
	// in place when one was never created.
	LockStreak(ctx context.Context, habitID, userID uuid.UUID) (*models.HabitStreak, error)

	LogExists(ctx context.Context, habitID uuid.UUID, day time.Time) (bool, error)
	InsertLog(ctx context.Context, log *models.HabitLog) error
	SaveStreak(ctx context.Context, streak *models.HabitStreak) error

	// LockUser locks the user's balance row. A missing row is an internal
	// error: referential integrity should make it unreachable.
	LockUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
	SaveUserProgress(ctx context.Context, user *models.User) error
}
