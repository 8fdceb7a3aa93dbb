package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/PratikDhanave/habit-analytics-service/internal/analytics"
)

//go:embed schema_sqlite.sql
var sqliteSchemaSQL string

// SQLiteStore keeps the same tables in a local SQLite file. Dates are stored
// as YYYY-MM-DD text.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (creating if needed) the database file at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// EnsureSchema applies schema_sqlite.sql. Safe to run multiple times.
func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() {
	_ = s.db.Close()
}

func (s *SQLiteStore) LoadLog(ctx context.Context, userID int64) (analytics.Log, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT d.date, d.completed, g.name, s.name
		FROM daily_logs d
		JOIN sub_goals s ON d.sub_goal_id = s.id
		JOIN goals g ON s.goal_id = g.id
		WHERE s.active = 1
		  AND g.user_id = ?
		ORDER BY d.date, g.name, s.name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query log: %w", err)
	}
	defer rows.Close()

	log := analytics.Log{}
	for rows.Next() {
		var (
			date      string
			completed sql.NullInt64
			e         analytics.Event
		)
		if err := rows.Scan(&date, &completed, &e.Goal, &e.SubGoal); err != nil {
			return nil, fmt.Errorf("scan log row: %w", err)
		}
		if e.Date, err = parseSQLiteDate(date); err != nil {
			return nil, err
		}
		e.Completed = completed.Valid && completed.Int64 != 0
		log = append(log, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate log: %w", err)
	}
	return log, nil
}

func (s *SQLiteStore) HasAnyCompletion(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM daily_logs d
			JOIN sub_goals s ON d.sub_goal_id = s.id
			JOIN goals g ON s.goal_id = g.id
			WHERE g.user_id = ?
			  AND d.completed = 1
		)
	`, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("query completion: %w", err)
	}
	return exists, nil
}

func (s *SQLiteStore) FirstCompletionDate(ctx context.Context, userID int64) (time.Time, bool, error) {
	var first sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT MIN(d.date)
		FROM daily_logs d
		JOIN sub_goals s ON d.sub_goal_id = s.id
		JOIN goals g ON s.goal_id = g.id
		WHERE g.user_id = ?
		  AND d.completed = 1
	`, userID).Scan(&first)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("query first completion: %w", err)
	}
	if !first.Valid {
		return time.Time{}, false, nil
	}
	d, err := parseSQLiteDate(first.String)
	if err != nil {
		return time.Time{}, false, err
	}
	return d, true, nil
}

func (s *SQLiteStore) OwnsSubGoal(ctx context.Context, userID, subGoalID int64) (bool, error) {
	var owned bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM sub_goals s
			JOIN goals g ON s.goal_id = g.id
			WHERE s.id = ?
			  AND g.user_id = ?
			  AND s.active = 1
		)
	`, subGoalID, userID).Scan(&owned)
	if err != nil {
		return false, fmt.Errorf("query sub goal owner: %w", err)
	}
	return owned, nil
}

func (s *SQLiteStore) SetStatus(ctx context.Context, subGoalID int64, date time.Time, completed bool) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO daily_logs(sub_goal_id, date, completed)
		VALUES (?, ?, ?)
		ON CONFLICT(sub_goal_id, date) DO UPDATE SET completed = excluded.completed
	`, subGoalID, analytics.DateOf(date).Format(time.DateOnly), boolToInt(completed))
	if err != nil {
		return fmt.Errorf("upsert daily log: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetStatus(ctx context.Context, subGoalID int64, date time.Time) (bool, bool, error) {
	var completed sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT completed
		FROM daily_logs
		WHERE sub_goal_id = ?
		  AND date = ?
	`, subGoalID, analytics.DateOf(date).Format(time.DateOnly)).Scan(&completed)
	if errors.Is(err, sql.ErrNoRows) {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("query daily log: %w", err)
	}
	return completed.Valid && completed.Int64 != 0, true, nil
}

// parseSQLiteDate accepts a bare date or a timestamp whose first ten
// characters are the date.
func parseSQLiteDate(s string) (time.Time, error) {
	if len(s) > len(time.DateOnly) {
		s = s[:len(time.DateOnly)]
	}
	d, err := analytics.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse log date %q: %w", s, err)
	}
	return d, nil
}
