// Package progress runs one analytics pass for a user: a single log load
// followed by independent metric computations, plus the Day-0 and grace-day
// checks that must see the live store rather than the snapshot.
package progress

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/PratikDhanave/habit-analytics-service/internal/analytics"
)

const (
	day0Message  = "You've set your goals. One small action today starts everything."
	graceMessage = "Day one is done. Showing up was the hardest part."
)

// Source is the read side of the store that a pass needs.
type Source interface {
	LoadLog(ctx context.Context, userID int64) (analytics.Log, error)
	HasAnyCompletion(ctx context.Context, userID int64) (bool, error)
	FirstCompletionDate(ctx context.Context, userID int64) (time.Time, bool, error)
}

// Service builds progress views from a Source. It holds no state between calls.
type Service struct {
	src    Source
	logger *zap.Logger
}

func NewService(src Source, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{src: src, logger: logger}
}

// Log loads the user's completion log snapshot.
func (s *Service) Log(ctx context.Context, userID int64) (analytics.Log, error) {
	log, err := s.src.LoadLog(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load log for user %d: %w", userID, err)
	}
	return log, nil
}

// HasAnyCompletion gates the Day-0 experience, which shows only while false.
func (s *Service) HasAnyCompletion(ctx context.Context, userID int64) (bool, error) {
	ok, err := s.src.HasAnyCompletion(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("check completions for user %d: %w", userID, err)
	}
	return ok, nil
}

// IsGraceDay is true exactly when the user's earliest completed date is today.
func (s *Service) IsGraceDay(ctx context.Context, userID int64, today time.Time) (bool, error) {
	first, ok, err := s.src.FirstCompletionDate(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("first completion for user %d: %w", userID, err)
	}
	return ok && first.Equal(analytics.DateOf(today)), nil
}

// Report runs a full analytics pass. Views are gated by stage the same way
// the dashboard reveals them: the heatmap from consistency on, momentum from
// momentum on.
func (s *Service) Report(ctx context.Context, userID int64, today time.Time) (*Report, error) {
	hasAny, err := s.HasAnyCompletion(ctx, userID)
	if err != nil {
		return nil, err
	}
	log, err := s.Log(ctx, userID)
	if err != nil {
		return nil, err
	}

	days := analytics.ActiveDays(log)
	r := &Report{
		UserID:         userID,
		Today:          analytics.DateOf(today).Format(time.DateOnly),
		ActiveDays:     days,
		CompletionRate: analytics.CompletionRate(log),
		Stage:          analytics.StageFor(days),
	}

	if !hasAny {
		r.Day0 = true
		r.Message = day0Message
		s.logger.Debug("day 0 report", zap.Int64("user_id", userID), zap.Int("rows", len(log)))
		return r, nil
	}

	grace, err := s.IsGraceDay(ctx, userID, today)
	if err != nil {
		return nil, err
	}
	if grace {
		r.GraceDay = true
		r.Message = graceMessage
	}

	r.GoalContribution = analytics.GoalContribution(log)
	r.GoalScores = analytics.GoalScores(log)
	r.HabitScores = analytics.HabitScores(log)
	r.Streaks = analytics.HabitStreaks(log)
	r.Risk = analytics.RiskSignal(log)
	r.Insights = analytics.BehaviorInsights(log)
	r.PerfectDays = analytics.PerfectDaysOf(log)

	if r.Stage.AtLeast(analytics.StageConsistency) {
		r.Heatmap = analytics.Heatmap(log)
	}
	if r.Stage.AtLeast(analytics.StageMomentum) {
		r.Momentum = MomentumOf(log)
	}
	if trend, ok := analytics.ConsistencyTrend(log); ok {
		r.Trend = &trend
	}
	if fragile, ok := analytics.FragileHabitOf(log); ok {
		r.FragileHabit = &fragile
	}
	if pattern, ok := analytics.WeekdayPatternOf(log); ok {
		r.WeekdayPattern = &pattern
	}

	s.logger.Debug("progress report built",
		zap.Int64("user_id", userID),
		zap.Int("rows", len(log)),
		zap.String("stage", string(r.Stage)),
		zap.String("risk", string(r.Risk)))

	return r, nil
}
