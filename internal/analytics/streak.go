package analytics

import (
	"sort"
	"time"
)

// StreakPair is the current and best run of consecutive completed days.
type StreakPair struct {
	Current int `json:"current"`
	Best    int `json:"best"`
}

// Streaks computes the current and best streak over a set of completed dates.
// The input is copied and sorted, so callers may pass dates in any order.
// A gap of anything other than exactly one day ends a run.
func Streaks(dates []time.Time) StreakPair {
	if len(dates) == 0 {
		return StreakPair{}
	}

	sorted := make([]time.Time, len(dates))
	for i, d := range dates {
		sorted[i] = DateOf(d)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	best, run := 1, 1
	for i := 1; i < len(sorted); i++ {
		if daysBetween(sorted[i-1], sorted[i]) == 1 {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 1
		}
	}

	current := 1
	for i := len(sorted) - 1; i > 0; i-- {
		if daysBetween(sorted[i-1], sorted[i]) != 1 {
			break
		}
		current++
	}

	return StreakPair{Current: current, Best: best}
}

// HabitStreaks computes a StreakPair per sub-goal from its completed events.
// Sub-goals that were never completed are absent.
func HabitStreaks(log Log) map[string]StreakPair {
	perHabit := make(map[string]map[time.Time]struct{})
	for _, e := range log {
		if !e.Completed {
			continue
		}
		days, ok := perHabit[e.SubGoal]
		if !ok {
			days = make(map[time.Time]struct{})
			perHabit[e.SubGoal] = days
		}
		days[DateOf(e.Date)] = struct{}{}
	}

	out := make(map[string]StreakPair, len(perHabit))
	for habit, days := range perHabit {
		dates := make([]time.Time, 0, len(days))
		for d := range days {
			dates = append(dates, d)
		}
		out[habit] = Streaks(dates)
	}
	return out
}
