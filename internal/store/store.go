package store

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/fortify/retry"

	"github.com/PratikDhanave/habit-analytics-service/internal/analytics"
)

// Store is the relational source of the completion log.
//
// Analytics only ever reads through it. The one write path is the daily
// check-in upsert.
type Store interface {
	// EnsureSchema applies the embedded schema. Safe to run multiple times.
	EnsureSchema(ctx context.Context) error
	Ping(ctx context.Context) error
	Close()

	// LoadLog returns every daily log row of the user's active sub-goals.
	// An unknown user yields an empty log, not an error.
	LoadLog(ctx context.Context, userID int64) (analytics.Log, error)

	// HasAnyCompletion reports whether the user ever completed anything,
	// including on sub-goals that have since been deactivated.
	HasAnyCompletion(ctx context.Context, userID int64) (bool, error)

	// FirstCompletionDate returns the earliest completed date for the user.
	// ok is false when the user has no completions.
	FirstCompletionDate(ctx context.Context, userID int64) (first time.Time, ok bool, err error)

	// OwnsSubGoal reports whether subGoalID is an active sub-goal of the user.
	OwnsSubGoal(ctx context.Context, userID, subGoalID int64) (bool, error)

	// SetStatus upserts the completion flag of a sub-goal on a date.
	SetStatus(ctx context.Context, subGoalID int64, date time.Time, completed bool) error

	// GetStatus returns the completion flag of a sub-goal on a date.
	// found is false when nothing was logged.
	GetStatus(ctx context.Context, subGoalID int64, date time.Time) (completed, found bool, err error)
}

// Drivers accepted by Open.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// connectRetry covers a database container that is still starting up.
var connectRetry = retry.Config{
	MaxAttempts:   5,
	InitialDelay:  200 * time.Millisecond,
	BackoffPolicy: retry.BackoffExponential,
}

// Open connects to the store named by driver, retrying a few times before
// giving up. An unknown driver fails immediately.
func Open(ctx context.Context, driver, dbURL string) (Store, error) {
	var connect func() (Store, error)
	switch driver {
	case DriverPostgres:
		connect = func() (Store, error) { return NewPostgresStore(dbURL) }
	case DriverSQLite:
		connect = func() (Store, error) { return NewSQLiteStore(dbURL) }
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}

	return retry.New[Store](connectRetry).Do(ctx, func(context.Context) (Store, error) {
		return connect()
	})
}

// completedFlag coerces a nullable completed column to a bool.
func completedFlag(v *int64) bool {
	return v != nil && *v != 0
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
