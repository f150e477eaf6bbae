package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"time"

	"log/slog"

	"github.com/habitquest/habitquest/habitquest/database/models"
	"github.com/uptrace/bun"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

const (
	defaultConnTimeout   = 5 * time.Second
	defaultMaxRetries    = 3
	defaultRetryInterval = time.Second
)

type DBConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	Database     string `toml:"database"`
	PoolSize     int    `toml:"pool_size"`
	MaxIdleConns int    `toml:"max_idle_conns"`
	MaxLifetime  int    `toml:"max_lifetime"`
}

type DB struct {
	pool  *pgxpool.Pool
	bunDB *bun.DB
}

func New(ctx context.Context, cfg DBConfig) (*DB, error) {
	// Fail fast with a clear error when the database server is unreachable
	var conn net.Conn
	var err error

	addr := net.JoinHostPort(cfg.Host, fmt.Sprintf("%d", cfg.Port))
	for i := 0; i < defaultMaxRetries; i++ {
		conn, err = net.DialTimeout("tcp", addr, defaultConnTimeout)
		if err == nil {
			break
		}
		time.Sleep(defaultRetryInterval)
	}
	if err != nil {
		return nil, fmt.Errorf("database server unreachable after %d attempts: %w", defaultMaxRetries, err)
	}
	conn.Close()

	poolConfig, err := pgxpool.ParseConfig(buildConnString(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	if cfg.PoolSize > 0 {
		poolConfig.MaxConns = int32(cfg.PoolSize)
	}
	if cfg.MaxIdleConns > 0 {
		poolConfig.MinConns = int32(cfg.MaxIdleConns)
	}
	if cfg.MaxLifetime > 0 {
		poolConfig.MaxConnLifetime = time.Duration(cfg.MaxLifetime) * time.Second
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	return &DB{pool: pool, bunDB: newBunDB(cfg)}, nil
}

// Helper function to build connection string
func buildConnString(cfg DBConfig) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?connect_timeout=5",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database,
	)
}

func (db *DB) GetPool() *pgxpool.Pool {
	return db.pool
}

func (db *DB) BunDB() *bun.DB {
	return db.bunDB
}

func newBunDB(cfg DBConfig) *bun.DB {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database,
	)

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

func (db *DB) ExecWithLog(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	start := time.Now()
	result, err := db.pool.Exec(ctx, sql, args...)
	duration := time.Since(start)

	if err != nil {
		slog.Error("Query failed",
			slog.String("type", "db"),
			slog.String("operation", "exec"),
			slog.String("query", sql),
			slog.Duration("took", duration),
			slog.Any("error", err),
		)
		return result, err
	}

	slog.Debug("Query executed",
		slog.String("type", "db"),
		slog.String("operation", "exec"),
		slog.String("query", sql),
		slog.Duration("took", duration),
		slog.Int64("affected_rows", result.RowsAffected()),
	)
	return result, nil
}

func (db *DB) QueryWithLog(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	start := time.Now()
	rows, err := db.pool.Query(ctx, sql, args...)
	duration := time.Since(start)

	if err != nil {
		slog.Error("Query failed",
			slog.String("type", "db"),
			slog.String("operation", "query"),
			slog.String("query", sql),
			slog.Duration("took", duration),
			slog.Any("error", err),
		)
		return rows, err
	}

	slog.Debug("Query executed",
		slog.String("type", "db"),
		slog.String("operation", "query"),
		slog.String("query", sql),
		slog.Duration("took", duration),
	)
	return rows, nil
}

func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
	if db.bunDB != nil {
		db.bunDB.Close()
	}
}

// Ping verifies both database connections are working
func (db *DB) Ping(ctx context.Context) error {
	if err := db.pool.Ping(ctx); err != nil {
		return fmt.Errorf("pgxpool ping failed: %w", err)
	}

	if err := db.bunDB.PingContext(ctx); err != nil {
		return fmt.Errorf("bun ping failed: %w", err)
	}

	return nil
}

// InitializeSchema creates all required database tables, constraints and indexes
func (db *DB) InitializeSchema(ctx context.Context) error {
	// Create tables in the correct order to handle foreign key constraints
	tables := []interface{}{
		(*models.User)(nil),
		(*models.Goal)(nil),
		(*models.Habit)(nil),
		(*models.HabitStreak)(nil),
		(*models.HabitLog)(nil),
		(*models.UnlockedReward)(nil),
	}

	for _, model := range tables {
		query := db.bunDB.NewCreateTable().
			Model(model).
			IfNotExists()

		if _, err := query.Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	if err := db.applyConstraints(ctx); err != nil {
		return fmt.Errorf("failed to apply constraints: %w", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_goals_user_id ON goals(user_id);",
		"CREATE INDEX IF NOT EXISTS idx_habits_user_id ON habits(user_id);",
		"CREATE INDEX IF NOT EXISTS idx_habits_goal_id ON habits(goal_id);",
		"CREATE INDEX IF NOT EXISTS idx_habit_streaks_user_id ON habit_streaks(user_id);",
		"CREATE INDEX IF NOT EXISTS idx_habit_logs_user_date ON habit_logs(user_id, log_date DESC);",
		"CREATE INDEX IF NOT EXISTS idx_habit_logs_habit_id ON habit_logs(habit_id);",
		// Backstop for the in-transaction duplicate check: at most one log
		// per habit per calendar date.
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_habit_logs_habit_date ON habit_logs(habit_id, log_date);",
	}

	for _, idx := range indexes {
		if _, err := db.ExecWithLog(ctx, idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// applyConstraints adds foreign keys so habit deletion cascades to its streak
// ledger and logs, and user deletion cascades to everything the user owns.
func (db *DB) applyConstraints(ctx context.Context) error {
	constraints := []struct {
		name string
		ddl  string
	}{
		{"goals_user_fk", "ALTER TABLE goals ADD CONSTRAINT goals_user_fk FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE"},
		{"habits_user_fk", "ALTER TABLE habits ADD CONSTRAINT habits_user_fk FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE"},
		{"habits_goal_fk", "ALTER TABLE habits ADD CONSTRAINT habits_goal_fk FOREIGN KEY (goal_id) REFERENCES goals(id) ON DELETE SET NULL"},
		{"habit_streaks_habit_fk", "ALTER TABLE habit_streaks ADD CONSTRAINT habit_streaks_habit_fk FOREIGN KEY (habit_id) REFERENCES habits(id) ON DELETE CASCADE"},
		{"habit_logs_habit_fk", "ALTER TABLE habit_logs ADD CONSTRAINT habit_logs_habit_fk FOREIGN KEY (habit_id) REFERENCES habits(id) ON DELETE CASCADE"},
		{"habit_logs_user_fk", "ALTER TABLE habit_logs ADD CONSTRAINT habit_logs_user_fk FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE"},
		{"user_unlocked_rewards_user_fk", "ALTER TABLE user_unlocked_rewards ADD CONSTRAINT user_unlocked_rewards_user_fk FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE"},
	}

	for _, c := range constraints {
		stmt := fmt.Sprintf(`
			DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint WHERE conname = '%s'
				) THEN
					%s;
				END IF;
			END $$;
		`, c.name, c.ddl)

		if _, err := db.ExecWithLog(ctx, stmt); err != nil {
			slog.Warn("Failed to add constraint (may already exist)",
				slog.String("type", "db"),
				slog.String("constraint", c.name),
				slog.Any("error", err))
		}
	}

	return nil
}
