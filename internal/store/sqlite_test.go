package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PratikDhanave/habit-analytics-service/internal/analytics"
)

func date(day int) time.Time {
	return time.Date(2026, time.March, day, 0, 0, 0, 0, time.UTC)
}

// newTestSQLite opens a fresh database in a temp dir with the schema applied.
func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "habits.db"))
	require.NoError(t, err)
	t.Cleanup(s.Close)
	require.NoError(t, s.EnsureSchema(context.Background()))
	return s
}

// seed inserts a user with one goal and the given sub-goals, returning their ids.
func seed(t *testing.T, s *SQLiteStore, username, goal string, subGoals ...string) (int64, []int64) {
	t.Helper()
	ctx := context.Background()

	res, err := s.db.ExecContext(ctx, `INSERT INTO users(username) VALUES (?)`, username)
	require.NoError(t, err)
	userID, err := res.LastInsertId()
	require.NoError(t, err)

	res, err = s.db.ExecContext(ctx, `INSERT INTO goals(user_id, name) VALUES (?, ?)`, userID, goal)
	require.NoError(t, err)
	goalID, err := res.LastInsertId()
	require.NoError(t, err)

	var ids []int64
	for _, name := range subGoals {
		res, err = s.db.ExecContext(ctx, `INSERT INTO sub_goals(goal_id, name) VALUES (?, ?)`, goalID, name)
		require.NoError(t, err)
		id, err := res.LastInsertId()
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return userID, ids
}

func TestSQLiteStore_EnsureSchemaIsIdempotent(t *testing.T) {
	s := newTestSQLite(t)
	assert.NoError(t, s.EnsureSchema(context.Background()))
	assert.NoError(t, s.Ping(context.Background()))
}

func TestSQLiteStore_LoadLog(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	alice, subs := seed(t, s, "alice", "health", "run", "stretch")
	_, bobSubs := seed(t, s, "bob", "mind", "read")

	require.NoError(t, s.SetStatus(ctx, subs[0], date(1), true))
	require.NoError(t, s.SetStatus(ctx, subs[1], date(1), false))
	require.NoError(t, s.SetStatus(ctx, subs[0], date(2), true))
	require.NoError(t, s.SetStatus(ctx, bobSubs[0], date(1), true))

	got, err := s.LoadLog(ctx, alice)
	require.NoError(t, err)

	want := analytics.Log{
		{Date: date(1), Completed: true, Goal: "health", SubGoal: "run"},
		{Date: date(1), Completed: false, Goal: "health", SubGoal: "stretch"},
		{Date: date(2), Completed: true, Goal: "health", SubGoal: "run"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadLog mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLiteStore_LoadLogSkipsInactiveSubGoals(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	user, subs := seed(t, s, "alice", "health", "run", "stretch")
	require.NoError(t, s.SetStatus(ctx, subs[0], date(1), true))
	require.NoError(t, s.SetStatus(ctx, subs[1], date(1), true))

	_, err := s.db.ExecContext(ctx, `UPDATE sub_goals SET active = 0 WHERE id = ?`, subs[1])
	require.NoError(t, err)

	got, err := s.LoadLog(ctx, user)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "run", got[0].SubGoal)
}

func TestSQLiteStore_LoadLogCoercesNullCompleted(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	user, subs := seed(t, s, "alice", "health", "run")
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO daily_logs(sub_goal_id, date, completed) VALUES (?, ?, NULL)`, subs[0], "2026-03-04")
	require.NoError(t, err)

	got, err := s.LoadLog(ctx, user)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, got[0].Completed)
	assert.Equal(t, date(4), got[0].Date)
}

func TestSQLiteStore_LoadLogUnknownUserIsEmpty(t *testing.T) {
	s := newTestSQLite(t)
	got, err := s.LoadLog(context.Background(), 42)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSQLiteStore_SetStatusUpserts(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)
	_, subs := seed(t, s, "alice", "health", "run")

	_, found, err := s.GetStatus(ctx, subs[0], date(3))
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.SetStatus(ctx, subs[0], date(3), true))
	require.NoError(t, s.SetStatus(ctx, subs[0], date(3), false))

	completed, found, err := s.GetStatus(ctx, subs[0], date(3))
	require.NoError(t, err)
	assert.True(t, found)
	assert.False(t, completed)

	var rows int
	require.NoError(t, s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM daily_logs`).Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestSQLiteStore_CompletionQueries(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)
	user, subs := seed(t, s, "alice", "health", "run", "stretch")

	hasAny, err := s.HasAnyCompletion(ctx, user)
	require.NoError(t, err)
	assert.False(t, hasAny)
	_, ok, err := s.FirstCompletionDate(ctx, user)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetStatus(ctx, subs[0], date(2), false))
	hasAny, err = s.HasAnyCompletion(ctx, user)
	require.NoError(t, err)
	assert.False(t, hasAny, "unchecked rows are not completions")

	require.NoError(t, s.SetStatus(ctx, subs[0], date(5), true))
	require.NoError(t, s.SetStatus(ctx, subs[1], date(3), true))

	// Deactivated sub-goals still count toward the user's history.
	_, err = s.db.ExecContext(ctx, `UPDATE sub_goals SET active = 0 WHERE id = ?`, subs[1])
	require.NoError(t, err)

	hasAny, err = s.HasAnyCompletion(ctx, user)
	require.NoError(t, err)
	assert.True(t, hasAny)

	first, ok, err := s.FirstCompletionDate(ctx, user)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, date(3), first)
}

func TestSQLiteStore_OwnsSubGoal(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)
	alice, subs := seed(t, s, "alice", "health", "run")
	bob, _ := seed(t, s, "bob", "mind", "read")

	owned, err := s.OwnsSubGoal(ctx, alice, subs[0])
	require.NoError(t, err)
	assert.True(t, owned)

	owned, err = s.OwnsSubGoal(ctx, bob, subs[0])
	require.NoError(t, err)
	assert.False(t, owned)

	owned, err = s.OwnsSubGoal(ctx, alice, 9999)
	require.NoError(t, err)
	assert.False(t, owned)
}

func TestParseSQLiteDate(t *testing.T) {
	d, err := parseSQLiteDate("2026-03-07 00:00:00")
	require.NoError(t, err)
	assert.Equal(t, date(7), d)

	_, err = parseSQLiteDate("not a date")
	assert.Error(t, err)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "x")
	assert.ErrorContains(t, err, "unknown store driver")
}

func TestOpen_SQLite(t *testing.T) {
	st, err := Open(context.Background(), DriverSQLite, filepath.Join(t.TempDir(), "nested", "habits.db"))
	require.NoError(t, err)
	defer st.Close()
	require.NoError(t, st.Ping(context.Background()))
}
