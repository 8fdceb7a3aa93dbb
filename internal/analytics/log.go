// Package analytics turns a user's completion log into derived habit signals.
//
// Every function here is a pure transformation of a Log snapshot: nothing is
// cached, nothing mutates the input, and an empty log always has a defined result.
package analytics

import (
	"sort"
	"time"
)

// Event is one row of the completion log: a sub-goal checked (or not) on a day.
type Event struct {
	Date      time.Time `json:"date"`
	Completed bool      `json:"completed"`
	Goal      string    `json:"goal"`
	SubGoal   string    `json:"sub_goal"`
}

// Log is an immutable snapshot of a user's completion events.
// The store guarantees at most one event per (sub-goal, date).
type Log []Event

// DateOf strips the time component, keeping the calendar date at UTC midnight.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, err
	}
	return DateOf(t), nil
}

// daysBetween returns the whole number of calendar days from a to b.
func daysBetween(a, b time.Time) int {
	return int(DateOf(b).Sub(DateOf(a)).Hours() / 24)
}

// tally accumulates completed/total counts for one group.
type tally struct {
	done  int
	total int
}

func (t tally) mean() float64 {
	if t.total == 0 {
		return 0
	}
	return float64(t.done) / float64(t.total)
}

func (t *tally) add(completed bool) {
	t.total++
	if completed {
		t.done++
	}
}

// groupBy reduces the log into per-key tallies.
func groupBy(log Log, key func(Event) string) map[string]*tally {
	groups := make(map[string]*tally)
	for _, e := range log {
		k := key(e)
		g, ok := groups[k]
		if !ok {
			g = &tally{}
			groups[k] = g
		}
		g.add(e.Completed)
	}
	return groups
}

// byDate reduces the log into per-date tallies, returned in ascending date order.
func byDate(log Log) ([]time.Time, map[time.Time]*tally) {
	groups := make(map[time.Time]*tally)
	var dates []time.Time
	for _, e := range log {
		d := DateOf(e.Date)
		g, ok := groups[d]
		if !ok {
			g = &tally{}
			groups[d] = g
			dates = append(dates, d)
		}
		g.add(e.Completed)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, groups
}

// sortedKeys returns map keys in lexicographic order so results never depend
// on map iteration order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
