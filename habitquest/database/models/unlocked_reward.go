package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UnlockedReward marks a reward title as purchased by a user. Titles are
// unlocked at most once; the composite primary key enforces it.
type UnlockedReward struct {
	bun.BaseModel `bun:"table:user_unlocked_rewards,alias:ur"`

	UserID   uuid.UUID `bun:"user_id,pk,type:uuid"`
	RewardID string    `bun:"reward_id,pk"`

	UnlockedAt time.Time `bun:"unlocked_at,notnull,default:current_timestamp"`
}
