package progress

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/PratikDhanave/habit-analytics-service/internal/analytics"
)

type fakeSource struct {
	log      analytics.Log
	hasAny   bool
	first    time.Time
	hasFirst bool
	err      error
	loads    int
}

func (f *fakeSource) LoadLog(context.Context, int64) (analytics.Log, error) {
	f.loads++
	return f.log, f.err
}

func (f *fakeSource) HasAnyCompletion(context.Context, int64) (bool, error) {
	return f.hasAny, f.err
}

func (f *fakeSource) FirstCompletionDate(context.Context, int64) (time.Time, bool, error) {
	return f.first, f.hasFirst, f.err
}

func day(n int) time.Time {
	return time.Date(2026, time.April, n, 0, 0, 0, 0, time.UTC)
}

// streakLog logs "run" and "read" for n consecutive days from April 1,
// completing "run" every day and "read" on even days.
func streakLog(n int) analytics.Log {
	var log analytics.Log
	for i := 1; i <= n; i++ {
		log = append(log,
			analytics.Event{Date: day(i), Completed: true, Goal: "health", SubGoal: "run"},
			analytics.Event{Date: day(i), Completed: i%2 == 0, Goal: "mind", SubGoal: "read"},
		)
	}
	return log
}

func TestIsGraceDay(t *testing.T) {
	ctx := context.Background()

	src := &fakeSource{first: day(3), hasFirst: true}
	svc := NewService(src, zaptest.NewLogger(t))

	grace, err := svc.IsGraceDay(ctx, 1, day(3).Add(17*time.Hour))
	require.NoError(t, err)
	assert.True(t, grace)

	grace, err = svc.IsGraceDay(ctx, 1, day(4))
	require.NoError(t, err)
	assert.False(t, grace)

	grace, err = NewService(&fakeSource{}, nil).IsGraceDay(ctx, 1, day(3))
	require.NoError(t, err)
	assert.False(t, grace, "no completions means no grace day")
}

func TestReport_Day0(t *testing.T) {
	src := &fakeSource{log: analytics.Log{}}
	r, err := NewService(src, zaptest.NewLogger(t)).Report(context.Background(), 7, day(1))
	require.NoError(t, err)

	assert.True(t, r.Day0)
	assert.Equal(t, day0Message, r.Message)
	assert.Equal(t, 0.0, r.CompletionRate)
	assert.Equal(t, analytics.StageIdentity, r.Stage)
	assert.Nil(t, r.Streaks)
	assert.Empty(t, r.Risk)
}

func TestReport_GraceDay(t *testing.T) {
	src := &fakeSource{log: streakLog(1), hasAny: true, first: day(1), hasFirst: true}
	r, err := NewService(src, zaptest.NewLogger(t)).Report(context.Background(), 7, day(1))
	require.NoError(t, err)

	assert.False(t, r.Day0)
	assert.True(t, r.GraceDay)
	assert.Equal(t, graceMessage, r.Message)
	assert.Equal(t, analytics.RiskTooEarly, r.Risk)
	assert.Nil(t, r.Trend)
	assert.Nil(t, r.Momentum)
	assert.Nil(t, r.Heatmap)
}

func TestReport_StageGating(t *testing.T) {
	tests := []struct {
		days         int
		stage        analytics.Stage
		wantHeatmap  bool
		wantMomentum bool
	}{
		{2, analytics.StageIdentity, false, false},
		{5, analytics.StagePattern, false, false},
		{10, analytics.StageConsistency, true, false},
		{20, analytics.StageMomentum, true, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.stage), func(t *testing.T) {
			src := &fakeSource{log: streakLog(tt.days), hasAny: true, first: day(1), hasFirst: true}
			r, err := NewService(src, zaptest.NewLogger(t)).Report(context.Background(), 1, day(tt.days))
			require.NoError(t, err)

			assert.Equal(t, tt.stage, r.Stage)
			assert.Equal(t, tt.days, r.ActiveDays)
			assert.Equal(t, tt.wantHeatmap, r.Heatmap != nil)
			assert.Equal(t, tt.wantMomentum, r.Momentum != nil)
			assert.Equal(t, 1, src.loads, "one log load per pass")
		})
	}
}

func TestReport_Momentum(t *testing.T) {
	src := &fakeSource{log: streakLog(20), hasAny: true, first: day(1), hasFirst: true}
	r, err := NewService(src, nil).Report(context.Background(), 1, day(20))
	require.NoError(t, err)

	require.NotNil(t, r.Momentum)
	require.NotNil(t, r.Momentum.Short)
	// April 14..20: four full days and three half days.
	assert.InDelta(t, 5.5/7, *r.Momentum.Short, 1e-9)
	assert.Equal(t, 0.0, r.Momentum.Long, "21-day window undefined with 20 dates")
}

func TestReport_Views(t *testing.T) {
	src := &fakeSource{log: streakLog(10), hasAny: true, first: day(1), hasFirst: true}
	r, err := NewService(src, nil).Report(context.Background(), 1, day(10))
	require.NoError(t, err)

	assert.Equal(t, 75.0, r.CompletionRate)
	assert.Equal(t, map[string]int{"health": 100, "mind": 50}, r.GoalScores)
	assert.Equal(t, map[string]int{"run": 100, "read": 50}, r.HabitScores)
	assert.Equal(t, map[string]int{"health": 10, "mind": 5}, r.GoalContribution)
	assert.Equal(t, analytics.StreakPair{Current: 10, Best: 10}, r.Streaks["run"])
	assert.Equal(t, analytics.StreakPair{Current: 1, Best: 1}, r.Streaks["read"])
	assert.Equal(t, analytics.PerfectDays{Perfect: 5, Total: 10}, r.PerfectDays)
	require.NotNil(t, r.FragileHabit)
	assert.Equal(t, "read", r.FragileHabit.Name)
	require.NotNil(t, r.Trend)
	assert.NotEmpty(t, r.Risk)
	require.NotNil(t, r.WeekdayPattern)
}

func TestReport_SourceErrorsPropagate(t *testing.T) {
	boom := errors.New("connection refused")
	_, err := NewService(&fakeSource{err: boom}, nil).Report(context.Background(), 1, day(1))
	assert.ErrorIs(t, err, boom)
}

func TestMomentumOf_EmptyLog(t *testing.T) {
	m := MomentumOf(nil)
	assert.Nil(t, m.Short)
	assert.Equal(t, 0.0, m.Long)
}
