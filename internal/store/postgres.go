package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PratikDhanave/habit-analytics-service/internal/analytics"
)

// schemaSQL is embedded so the service can self-bootstrap its database schema.
//
//go:embed schema.sql
var schemaSQL string

// PostgresStore is the durable persistence layer backed by a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a connection pool and fails fast if DB is unreachable.
func NewPostgresStore(dbURL string) (*PostgresStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// EnsureSchema applies schema.sql. Safe to run multiple times.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Ping is used by readiness endpoint to validate DB connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close shuts down the connection pool.
func (p *PostgresStore) Close() {
	p.pool.Close()
}

// LoadLog runs the analytics query: daily logs joined to active sub-goals
// joined to goals owned by the user.
func (p *PostgresStore) LoadLog(ctx context.Context, userID int64) (analytics.Log, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT d.date, d.completed, g.name, s.name
		FROM daily_logs d
		JOIN sub_goals s ON d.sub_goal_id = s.id
		JOIN goals g ON s.goal_id = g.id
		WHERE s.active = 1
		  AND g.user_id = $1
		ORDER BY d.date, g.name, s.name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query log: %w", err)
	}
	defer rows.Close()

	log := analytics.Log{}
	for rows.Next() {
		var (
			date      time.Time
			completed *int64
			e         analytics.Event
		)
		if err := rows.Scan(&date, &completed, &e.Goal, &e.SubGoal); err != nil {
			return nil, fmt.Errorf("scan log row: %w", err)
		}
		e.Date = analytics.DateOf(date)
		e.Completed = completedFlag(completed)
		log = append(log, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate log: %w", err)
	}
	return log, nil
}

// HasAnyCompletion checks the live tables, ignoring the active flag.
func (p *PostgresStore) HasAnyCompletion(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := p.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM daily_logs d
			JOIN sub_goals s ON d.sub_goal_id = s.id
			JOIN goals g ON s.goal_id = g.id
			WHERE g.user_id = $1
			  AND d.completed = 1
		)
	`, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("query completion: %w", err)
	}
	return exists, nil
}

// FirstCompletionDate returns MIN(date) over the user's completed rows.
func (p *PostgresStore) FirstCompletionDate(ctx context.Context, userID int64) (time.Time, bool, error) {
	var first *time.Time
	err := p.pool.QueryRow(ctx, `
		SELECT MIN(d.date)
		FROM daily_logs d
		JOIN sub_goals s ON d.sub_goal_id = s.id
		JOIN goals g ON s.goal_id = g.id
		WHERE g.user_id = $1
		  AND d.completed = 1
	`, userID).Scan(&first)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("query first completion: %w", err)
	}
	if first == nil {
		return time.Time{}, false, nil
	}
	return analytics.DateOf(*first), true, nil
}

// OwnsSubGoal checks that an active sub-goal belongs to one of the user's goals.
func (p *PostgresStore) OwnsSubGoal(ctx context.Context, userID, subGoalID int64) (bool, error) {
	var owned bool
	err := p.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM sub_goals s
			JOIN goals g ON s.goal_id = g.id
			WHERE s.id = $1
			  AND g.user_id = $2
			  AND s.active = 1
		)
	`, subGoalID, userID).Scan(&owned)
	if err != nil {
		return false, fmt.Errorf("query sub goal owner: %w", err)
	}
	return owned, nil
}

// SetStatus upserts a check-in. The (sub_goal_id, date) primary key keeps one
// row per habit per day; a repeated check-in overwrites the flag.
func (p *PostgresStore) SetStatus(ctx context.Context, subGoalID int64, date time.Time, completed bool) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO daily_logs(sub_goal_id, date, completed)
		VALUES ($1, $2, $3)
		ON CONFLICT (sub_goal_id, date) DO UPDATE SET completed = EXCLUDED.completed
	`, subGoalID, analytics.DateOf(date), boolToInt(completed))
	if err != nil {
		return fmt.Errorf("upsert daily log: %w", err)
	}
	return nil
}

// GetStatus reads a single check-in.
func (p *PostgresStore) GetStatus(ctx context.Context, subGoalID int64, date time.Time) (bool, bool, error) {
	var completed *int64
	err := p.pool.QueryRow(ctx, `
		SELECT completed
		FROM daily_logs
		WHERE sub_goal_id = $1
		  AND date = $2
	`, subGoalID, analytics.DateOf(date)).Scan(&completed)

	// No row means nothing was logged for that day.
	if errors.Is(err, pgx.ErrNoRows) {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("query daily log: %w", err)
	}
	return completedFlag(completed), true, nil
}
