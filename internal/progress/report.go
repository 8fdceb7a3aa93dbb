package progress

import "github.com/PratikDhanave/habit-analytics-service/internal/analytics"

// Report is the full progress view for one user on one day.
// Optional views are nil until the data supports them.
type Report struct {
	UserID   int64  `json:"user_id"`
	Today    string `json:"today"`
	Day0     bool   `json:"day0"`
	GraceDay bool   `json:"grace_day"`
	Message  string `json:"message,omitempty"`

	ActiveDays     int             `json:"active_days"`
	CompletionRate float64         `json:"completion_rate"`
	Stage          analytics.Stage `json:"stage"`

	GoalContribution map[string]int                  `json:"goal_contribution,omitempty"`
	GoalScores       map[string]int                  `json:"goal_scores,omitempty"`
	HabitScores      map[string]int                  `json:"habit_scores,omitempty"`
	Heatmap          []analytics.HeatmapCell         `json:"heatmap,omitempty"`
	Momentum         *Momentum                       `json:"momentum,omitempty"`
	Streaks          map[string]analytics.StreakPair `json:"streaks,omitempty"`
	Trend            *analytics.Trend                `json:"trend,omitempty"`
	Risk             analytics.Risk                  `json:"risk,omitempty"`
	Insights         []string                        `json:"insights,omitempty"`
	FragileHabit     *analytics.FragileHabit         `json:"fragile_habit,omitempty"`
	PerfectDays      analytics.PerfectDays           `json:"perfect_days"`
	WeekdayPattern   *analytics.WeekdayPattern       `json:"weekday_pattern,omitempty"`
}

// Momentum compares the short and long trailing windows. Short is nil while
// undefined; Long falls back to 0 so the two always chart side by side.
type Momentum struct {
	Short *float64 `json:"short"`
	Long  float64  `json:"long"`
}

// MomentumOf computes both standard momentum windows.
func MomentumOf(log analytics.Log) *Momentum {
	m := &Momentum{}
	if v, ok := analytics.Momentum(log, analytics.MomentumShortWindow); ok {
		m.Short = &v
	}
	if v, ok := analytics.Momentum(log, analytics.MomentumLongWindow); ok {
		m.Long = v
	}
	return m
}
