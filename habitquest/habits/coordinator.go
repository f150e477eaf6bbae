package habits

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/habitquest/habitquest/habitquest/database/models"
	"github.com/habitquest/habitquest/habitquest/database/repositories"
	"github.com/habitquest/habitquest/habitquest/gamification"
)

// StreakInfo is the post-update streak pair returned to the caller.
type StreakInfo struct {
	HabitID       uuid.UUID `json:"habit_id"`
	CurrentStreak int       `json:"current_streak"`
	LongestStreak int       `json:"longest_streak"`
}

// GamificationSummary reports what one completion earned and the resulting
// balance totals.
type GamificationSummary struct {
	XPEarned int64 `json:"xpEarned"`
	HPEarned int64 `json:"hpEarned"`
	LevelUp  bool  `json:"levelUp"`
	NewLevel *int  `json:"newLevel"`
	Level    int   `json:"currentUserLevel"`
	XP       int64 `json:"currentUserXp"`
	HP       int64 `json:"currentUserHp"`
}

// CompletionResult is the successful outcome of logging one completion.
type CompletionResult struct {
	Log          *models.HabitLog    `json:"log"`
	Streak       StreakInfo          `json:"streak"`
	Gamification GamificationSummary `json:"gamification"`
}

// Coordinator runs the habit-completion transaction: duplicate detection,
// streak update, reward calculation and level-up application as one atomic
// unit over exclusive row locks.
type Coordinator struct {
	store CompletionStore
	calc  *gamification.Calculator
	now   func() time.Time
}

func NewCoordinator(store CompletionStore, calc *gamification.Calculator) *Coordinator {
	return &Coordinator{
		store: store,
		calc:  calc,
		now:   time.Now,
	}
}

// LogCompletion records that the user completed the habit on the given date
// and applies the gamification rewards. A nil logDate means today.
//
// Lock order inside the transaction is fixed: habit row, streak ledger row,
// duplicate check + log insert, user balance row. Two concurrent requests for
// the same habit serialize on the habit lock; requests for different habits
// of one user serialize only on the balance lock, so level computation always
// sees a consistent XP value.
//
// Failures: a NotFoundError when the habit is missing or not owned by the
// caller, a ConflictError when the date is already logged, anything else is
// internal. Every failure rolls the whole transaction back.
func (co *Coordinator) LogCompletion(ctx context.Context, userID, habitID uuid.UUID, logDate *time.Time) (*CompletionResult, error) {
	today := gamification.DateOnly(co.now())
	day := today
	if logDate != nil && !logDate.IsZero() {
		day = gamification.DateOnly(*logDate)
	}

	var result *CompletionResult
	err := co.store.RunInTx(ctx, func(ctx context.Context, tx CompletionTx) error {
		habit, err := tx.LockHabit(ctx, habitID, userID)
		if err != nil {
			return err
		}

		streak, err := tx.LockStreak(ctx, habitID, userID)
		if err != nil {
			return err
		}

		exists, err := tx.LogExists(ctx, habitID, day)
		if err != nil {
			return fmt.Errorf("failed to check for existing log: %w", err)
		}
		if exists {
			return &repositories.ConflictError{
				Entity: "habit log",
				Field:  "log_date",
				Value:  day.Format("2006-01-02"),
			}
		}

		log := &models.HabitLog{
			ID:        uuid.New(),
			HabitID:   habitID,
			UserID:    userID,
			LogDate:   day,
			CreatedAt: co.now(),
		}
		if err := tx.InsertLog(ctx, log); err != nil {
			return err
		}

		ledger := gamification.ApplyCompletion(gamification.Ledger{
			CurrentStreak: streak.CurrentStreak,
			LongestStreak: streak.LongestStreak,
			LastLogged:    streak.LastLoggedDate,
		}, day, today)

		streak.CurrentStreak = ledger.CurrentStreak
		streak.LongestStreak = ledger.LongestStreak
		streak.LastLoggedDate = ledger.LastLogged
		streak.UpdatedAt = co.now()
		if err := tx.SaveStreak(ctx, streak); err != nil {
			return fmt.Errorf("failed to persist streak ledger: %w", err)
		}

		reward := co.calc.ComputeReward(habit.Frequency, ledger.CurrentStreak)

		user, err := tx.LockUser(ctx, userID)
		if err != nil {
			return err
		}

		leveling := co.calc.ApplyXPGain(user.Level, user.XP, reward.XP)
		user.XP = leveling.XP
		user.Level = leveling.Level
		user.HP += reward.HP + leveling.HPBonus
		user.UpdatedAt = co.now()
		if err := tx.SaveUserProgress(ctx, user); err != nil {
			return fmt.Errorf("failed to persist user balance: %w", err)
		}

		summary := GamificationSummary{
			XPEarned: reward.XP,
			HPEarned: reward.HP,
			LevelUp:  leveling.LeveledUp,
			Level:    user.Level,
			XP:       user.XP,
			HP:       user.HP,
		}
		if leveling.LeveledUp {
			newLevel := leveling.Level
			summary.NewLevel = &newLevel
		}

		result = &CompletionResult{
			Log: log,
			Streak: StreakInfo{
				HabitID:       habitID,
				CurrentStreak: streak.CurrentStreak,
				LongestStreak: streak.LongestStreak,
			},
			Gamification: summary,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Habit completion logged",
		slog.String("user_id", userID.String()),
		slog.String("habit_id", habitID.String()),
		slog.String("log_date", day.Format("2006-01-02")),
		slog.Int("current_streak", result.Streak.CurrentStreak),
		slog.Int64("xp_earned", result.Gamification.XPEarned),
		slog.Bool("level_up", result.Gamification.LevelUp))

	return result, nil
}
