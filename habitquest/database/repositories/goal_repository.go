package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/habitquest/habitquest/habitquest/database/models"
	"github.com/uptrace/bun"
)

type GoalRepository interface {
	Create(ctx context.Context, goal *models.Goal) error
	GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Goal, error)
	GetAllByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Goal, error)
	Rename(ctx context.Context, id, userID uuid.UUID, name string) (*models.Goal, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
	CountByUserID(ctx context.Context, userID uuid.UUID) (int, error)
}

type goalRepository struct {
	*BaseRepository
}

func NewGoalRepository(db *bun.DB) GoalRepository {
	return &goalRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *goalRepository) Create(ctx context.Context, goal *models.Goal) error {
	if goal.ID == uuid.Nil {
		goal.ID = uuid.New()
	}
	goal.CreatedAt = time.Now()
	goal.UpdatedAt = time.Now()

	_, err := r.db.NewInsert().Model(goal).Exec(ctx)
	if err != nil {
		return r.HandleError("create", "goal", goal.ID, err)
	}
	return nil
}

func (r *goalRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Goal, error) {
	goal := new(models.Goal)
	err := r.db.NewSelect().
		Model(goal).
		Where("id = ? AND user_id = ?", id, userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "goal", ID: id}
		}
		return nil, r.HandleError("get", "goal", id, err)
	}
	return goal, nil
}

func (r *goalRepository) GetAllByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Goal, error) {
	var goals []*models.Goal
	err := r.db.NewSelect().
		Model(&goals).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, r.HandleError("list", "goal", userID, err)
	}
	return goals, nil
}

func (r *goalRepository) Rename(ctx context.Context, id, userID uuid.UUID, name string) (*models.Goal, error) {
	goal := new(models.Goal)
	result, err := r.db.NewUpdate().
		Model(goal).
		Set("name = ?", name).
		Set("updated_at = ?", time.Now()).
		Where("id = ? AND user_id = ?", id, userID).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, r.HandleError("update", "goal", id, err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return nil, &NotFoundError{Entity: "goal", ID: id}
	}
	return goal, nil
}

func (r *goalRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	result, err := r.db.NewDelete().
		Model((*models.Goal)(nil)).
		Where("id = ? AND user_id = ?", id, userID).
		Exec(ctx)
	if err != nil {
		return r.HandleError("delete", "goal", id, err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return &NotFoundError{Entity: "goal", ID: id}
	}
	return nil
}

func (r *goalRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int, error) {
	count, err := r.db.NewSelect().
		Model((*models.Goal)(nil)).
		Where("user_id = ?", userID).
		Count(ctx)
	if err != nil {
		return 0, r.HandleError("count", "goal", userID, err)
	}
	return count, nil
}
