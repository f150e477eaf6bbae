package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// HabitLog records that a habit was completed on a calendar date. At most one
// log may exist per (habit, date); a unique index backstops the in-transaction
// duplicate check.
type HabitLog struct {
	bun.BaseModel `bun:"table:habit_logs,alias:hl"`

	ID      uuid.UUID `bun:"id,pk,type:uuid"`
	HabitID uuid.UUID `bun:"habit_id,notnull,type:uuid"`
	UserID  uuid.UUID `bun:"user_id,notnull,type:uuid"`
	LogDate time.Time `bun:"log_date,notnull,type:date"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
