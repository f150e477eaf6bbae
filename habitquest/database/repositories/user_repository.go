package repositories

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/habitquest/habitquest/habitquest/database/models"
	"github.com/uptrace/bun"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	UpdateActiveTitle(ctx context.Context, id uuid.UUID, title string) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetUserCount(ctx context.Context) (int, error)
}

type userRepository struct {
	*BaseRepository
}

func NewUserRepository(db *bun.DB) UserRepository {
	return &userRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Level == 0 {
		user.Level = 1
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	_, err := r.db.NewInsert().Model(user).Exec(ctx)
	if err != nil {
		return r.HandleError("create", "user", user.ID, err)
	}

	slog.Debug("User created",
		slog.String("type", "db"),
		slog.String("operation", "Create"),
		slog.String("user_id", user.ID.String()),
		slog.String("username", user.Username))
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := new(models.User)
	err := r.db.NewSelect().
		Model(user).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "user", ID: id}
		}
		return nil, r.HandleError("get", "user", id, err)
	}
	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user := new(models.User)
	err := r.db.NewSelect().
		Model(user).
		Where("email = ?", email).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "user", ID: email}
		}
		return nil, r.HandleError("get", "user", email, err)
	}
	return user, nil
}

func (r *userRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*models.User)(nil)).
		Where("username = ? OR email = ?", username, email).
		Exists(ctx)
	if err != nil {
		return false, r.HandleError("exists", "user", username, err)
	}
	return exists, nil
}

func (r *userRepository) UpdateActiveTitle(ctx context.Context, id uuid.UUID, title string) error {
	result, err := r.db.NewUpdate().
		Model((*models.User)(nil)).
		Set("active_title = ?", title).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return r.HandleError("update", "user", id, err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return &NotFoundError{Entity: "user", ID: id}
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.NewDelete().
		Model((*models.User)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return r.HandleError("delete", "user", id, err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return &NotFoundError{Entity: "user", ID: id}
	}

	slog.Info("User deleted",
		slog.String("type", "db"),
		slog.String("operation", "Delete"),
		slog.String("user_id", id.String()))
	return nil
}

func (r *userRepository) GetUserCount(ctx context.Context) (int, error) {
	count, err := r.db.NewSelect().
		Model((*models.User)(nil)).
		Count(ctx)
	if err != nil {
		return 0, r.HandleError("count", "user", nil, err)
	}
	return count, nil
}
