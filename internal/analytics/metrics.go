package analytics

import (
	"math"
	"time"
)

// Stage is a coarse classification of tracking maturity.
type Stage string

const (
	StageIdentity    Stage = "identity"
	StagePattern     Stage = "pattern"
	StageConsistency Stage = "consistency"
	StageMomentum    Stage = "momentum"
	StageMastery     Stage = "mastery"
)

// stageOrder ranks stages so views can be gated on "at least" a stage.
var stageOrder = map[Stage]int{
	StageIdentity:    0,
	StagePattern:     1,
	StageConsistency: 2,
	StageMomentum:    3,
	StageMastery:     4,
}

// AtLeast reports whether s is the same stage as other or a later one.
func (s Stage) AtLeast(other Stage) bool {
	return stageOrder[s] >= stageOrder[other]
}

// StageFor classifies a count of active days. Boundaries are half-open, and
// the result is a plain function of the count: fewer days moves the stage back.
func StageFor(activeDays int) Stage {
	switch {
	case activeDays < 3:
		return StageIdentity
	case activeDays < 7:
		return StagePattern
	case activeDays < 14:
		return StageConsistency
	case activeDays < 30:
		return StageMomentum
	default:
		return StageMastery
	}
}

// ActiveDays counts distinct dates with at least one logged event.
func ActiveDays(log Log) int {
	seen := make(map[time.Time]struct{}, len(log))
	for _, e := range log {
		seen[DateOf(e.Date)] = struct{}{}
	}
	return len(seen)
}

// CompletionRate is the share of completed rows as a percentage rounded to one
// decimal. An empty log is 0.
func CompletionRate(log Log) float64 {
	if len(log) == 0 {
		return 0
	}
	var t tally
	for _, e := range log {
		t.add(e.Completed)
	}
	return math.Round(t.mean()*1000) / 10
}

// DailyPoint is the mean completion fraction across all sub-goals logged on Date.
type DailyPoint struct {
	Date     time.Time `json:"date"`
	Fraction float64   `json:"fraction"`
}

// DailyCompletion returns one point per distinct date, ascending by date.
func DailyCompletion(log Log) []DailyPoint {
	dates, groups := byDate(log)
	out := make([]DailyPoint, 0, len(dates))
	for _, d := range dates {
		out = append(out, DailyPoint{Date: d, Fraction: groups[d].mean()})
	}
	return out
}

// dailyFractions is DailyCompletion without the dates.
func dailyFractions(log Log) []float64 {
	points := DailyCompletion(log)
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Fraction
	}
	return out
}

// percent converts a fraction to an integer percentage, rounding half to even.
func percent(fraction float64) int {
	return int(math.RoundToEven(fraction * 100))
}

// GoalScores is the mean completion per goal as an integer percentage.
func GoalScores(log Log) map[string]int {
	return scores(groupBy(log, func(e Event) string { return e.Goal }))
}

// HabitScores is the mean completion per sub-goal as an integer percentage.
func HabitScores(log Log) map[string]int {
	return scores(groupBy(log, func(e Event) string { return e.SubGoal }))
}

func scores(groups map[string]*tally) map[string]int {
	out := make(map[string]int, len(groups))
	for k, g := range groups {
		out[k] = percent(g.mean())
	}
	return out
}

// GoalContribution counts completed rows per goal. Goals with no completions
// are present with a zero count.
func GoalContribution(log Log) map[string]int {
	groups := groupBy(log, func(e Event) string { return e.Goal })
	out := make(map[string]int, len(groups))
	for k, g := range groups {
		out[k] = g.done
	}
	return out
}

// HeatmapCell is the mean daily completion for one calendar day, keyed the way
// a month-by-day grid is drawn.
type HeatmapCell struct {
	Month string  `json:"month"` // YYYY-MM
	Day   int     `json:"day"`
	Value float64 `json:"value"`
}

// Heatmap lays the daily completion series out by month and day of month,
// in date order.
func Heatmap(log Log) []HeatmapCell {
	points := DailyCompletion(log)
	out := make([]HeatmapCell, 0, len(points))
	for _, p := range points {
		out = append(out, HeatmapCell{
			Month: p.Date.Format("2006-01"),
			Day:   p.Date.Day(),
			Value: p.Fraction,
		})
	}
	return out
}
