package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Goal struct {
	bun.BaseModel `bun:"table:goals,alias:g"`

	ID     uuid.UUID `bun:"id,pk,type:uuid"`
	UserID uuid.UUID `bun:"user_id,notnull,type:uuid"`
	Name   string    `bun:"name,notnull"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}
