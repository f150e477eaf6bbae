package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// HabitStreak is the per-habit streak ledger. One row per habit, created
// alongside it and mutated only inside the completion transaction.
// Invariant: LongestStreak >= CurrentStreak after every update.
type HabitStreak struct {
	bun.BaseModel `bun:"table:habit_streaks,alias:hs"`

	HabitID        uuid.UUID  `bun:"habit_id,pk,type:uuid"`
	UserID         uuid.UUID  `bun:"user_id,notnull,type:uuid"`
	CurrentStreak  int        `bun:"current_streak,notnull,default:0"`
	LongestStreak  int        `bun:"longest_streak,notnull,default:0"`
	LastLoggedDate *time.Time `bun:"last_logged_date,type:date"`

	UpdatedAt time.Time `bun:"updated_at,notnull"`
}
