package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           uuid.UUID `bun:"id,pk,type:uuid"`
	Username     string    `bun:"username,notnull,unique"`
	Email        string    `bun:"email,notnull,unique"`
	PasswordHash string    `bun:"password_hash,notnull"`

	// Gamification balances. XP and Level only ever grow; HP is earned by
	// logging habits and spent on reward titles.
	XP    int64 `bun:"xp,notnull,default:0"`
	HP    int64 `bun:"hp,notnull,default:0"`
	Level int   `bun:"level,notnull,default:1"`

	ActiveTitle string `bun:"active_title"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}
