package rewards

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/habitquest/habitquest/habitquest/config"
	"github.com/habitquest/habitquest/habitquest/database/models"
	"github.com/habitquest/habitquest/habitquest/database/repositories"
	"github.com/uptrace/bun"
)

// ErrInsufficientHP is returned when a user cannot afford a title.
var ErrInsufficientHP = errors.New("not enough HP to redeem this reward")

// OwnedTitle is a catalog title annotated with when the user unlocked it.
type OwnedTitle struct {
	Title
	UnlockedAt time.Time `json:"unlocked_at"`
}

// Service handles reward redemption. It locks the user's balance row with
// the same granularity as the completion coordinator so an HP debit can never
// race a concurrent HP credit into a lost update.
type Service struct {
	db        *bun.DB
	txTimeout time.Duration
}

func NewService(db *bun.DB) *Service {
	return &Service{db: db, txTimeout: config.DefaultTxTimeout}
}

// List returns the full catalog.
func (s *Service) List() []Title {
	return Catalog
}

// Owned returns the titles the user has unlocked, newest first.
func (s *Service) Owned(ctx context.Context, userID uuid.UUID) ([]OwnedTitle, error) {
	var unlocks []*models.UnlockedReward
	err := s.db.NewSelect().
		Model(&unlocks).
		Where("user_id = ?", userID).
		Order("unlocked_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list unlocked rewards: %w", err)
	}

	owned := make([]OwnedTitle, 0, len(unlocks))
	for _, u := range unlocks {
		if title, ok := FindByID(u.RewardID); ok {
			owned = append(owned, OwnedTitle{Title: title, UnlockedAt: u.UnlockedAt})
		}
	}
	return owned, nil
}

// Redeem debits the title's HP cost from the user, records the unlock and
// sets the title active, all in one transaction. Unknown titles return a
// NotFoundError, double unlocks a ConflictError, and an unaffordable title
// ErrInsufficientHP.
func (s *Service) Redeem(ctx context.Context, userID uuid.UUID, rewardID string) (*models.User, error) {
	title, ok := FindByID(rewardID)
	if !ok {
		return nil, &repositories.NotFoundError{Entity: "reward", ID: rewardID}
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	var user *models.User
	err := s.db.RunInTx(timeoutCtx, nil, func(ctx context.Context, tx bun.Tx) error {
		user = new(models.User)
		err := tx.NewSelect().
			Model(user).
			Where("id = ?", userID).
			For("UPDATE").
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return &repositories.NotFoundError{Entity: "user", ID: userID}
			}
			return fmt.Errorf("failed to lock user balance: %w", err)
		}

		if user.HP < title.CostHP {
			return ErrInsufficientHP
		}

		alreadyOwned, err := tx.NewSelect().
			Model((*models.UnlockedReward)(nil)).
			Where("user_id = ? AND reward_id = ?", userID, rewardID).
			Exists(ctx)
		if err != nil {
			return fmt.Errorf("failed to check unlocked rewards: %w", err)
		}
		if alreadyOwned {
			return &repositories.ConflictError{Entity: "reward", Field: "id", Value: rewardID}
		}

		user.HP -= title.CostHP
		user.ActiveTitle = title.Name
		user.UpdatedAt = time.Now()
		if _, err := tx.NewUpdate().
			Model(user).
			Column("hp", "active_title", "updated_at").
			WherePK().
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to update user balance: %w", err)
		}

		unlock := &models.UnlockedReward{
			UserID:     userID,
			RewardID:   rewardID,
			UnlockedAt: time.Now(),
		}
		if _, err := tx.NewInsert().Model(unlock).Exec(ctx); err != nil {
			return fmt.Errorf("failed to record unlock: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Reward redeemed",
		slog.String("user_id", userID.String()),
		slog.String("reward_id", rewardID),
		slog.Int64("hp_remaining", user.HP))

	return user, nil
}
