package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Habit frequencies. Anything else is treated as daily by the reward
// calculator.
const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
)

type Habit struct {
	bun.BaseModel `bun:"table:habits,alias:h"`

	ID          uuid.UUID  `bun:"id,pk,type:uuid"`
	UserID      uuid.UUID  `bun:"user_id,notnull,type:uuid"`
	GoalID      *uuid.UUID `bun:"goal_id,type:uuid"`
	Name        string     `bun:"name,notnull"`
	Description string     `bun:"description"`
	Frequency   string     `bun:"frequency,notnull,default:'daily'"`
	Target      int        `bun:"target,notnull,default:1"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

func ValidFrequency(f string) bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}
