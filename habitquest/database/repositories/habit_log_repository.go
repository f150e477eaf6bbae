package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/habitquest/habitquest/habitquest/database/models"
	"github.com/uptrace/bun"
)

// LogFilter narrows a completion log listing. Nil fields are ignored, a
// zero Limit means no paging.
type LogFilter struct {
	HabitID   *uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

type HabitLogRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID, filter LogFilter) ([]*models.HabitLog, error)
	CountByUserID(ctx context.Context, userID uuid.UUID, filter LogFilter) (int, error)
	CountByUserIDSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error)
}

type habitLogRepository struct {
	*BaseRepository
}

func NewHabitLogRepository(db *bun.DB) HabitLogRepository {
	return &habitLogRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *habitLogRepository) GetByUserID(ctx context.Context, userID uuid.UUID, filter LogFilter) ([]*models.HabitLog, error) {
	var logs []*models.HabitLog

	q := r.db.NewSelect().
		Model(&logs).
		Where("user_id = ?", userID)

	if filter.HabitID != nil {
		q = q.Where("habit_id = ?", *filter.HabitID)
	}
	if filter.StartDate != nil {
		q = q.Where("log_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		q = q.Where("log_date <= ?", *filter.EndDate)
	}

	q = q.Order("log_date DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, r.HandleError("list", "habit log", userID, err)
	}
	return logs, nil
}

func (r *habitLogRepository) CountByUserID(ctx context.Context, userID uuid.UUID, filter LogFilter) (int, error) {
	q := r.db.NewSelect().
		Model((*models.HabitLog)(nil)).
		Where("user_id = ?", userID)

	if filter.HabitID != nil {
		q = q.Where("habit_id = ?", *filter.HabitID)
	}
	if filter.StartDate != nil {
		q = q.Where("log_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		q = q.Where("log_date <= ?", *filter.EndDate)
	}

	count, err := q.Count(ctx)
	if err != nil {
		return 0, r.HandleError("count", "habit log", userID, err)
	}
	return count, nil
}

func (r *habitLogRepository) CountByUserIDSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error) {
	count, err := r.db.NewSelect().
		Model((*models.HabitLog)(nil)).
		Where("user_id = ? AND log_date >= ?", userID, since).
		Count(ctx)
	if err != nil {
		return 0, r.HandleError("count", "habit log", userID, err)
	}
	return count, nil
}
