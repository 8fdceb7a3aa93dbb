package analytics

import (
	"fmt"
	"time"
)

const (
	weekdaySpread         = 0.2
	strongRate            = 80
	weakRate              = 40
	weekdayPatternMinDays = 5
)

// isoWeek is the weekday order used for grouping and for breaking ties.
var isoWeek = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// FragileHabit is the sub-goal with the lowest completion rate.
type FragileHabit struct {
	Name    string `json:"name"`
	Percent int    `json:"percent"`
}

// PerfectDays counts dates on which every logged habit was completed.
type PerfectDays struct {
	Perfect int `json:"perfect"`
	Total   int `json:"total"`
}

// WeekdayPattern names the weekdays with the best and worst mean completion.
type WeekdayPattern struct {
	Best      time.Weekday `json:"-"`
	Worst     time.Weekday `json:"-"`
	BestName  string       `json:"best"`
	WorstName string       `json:"worst"`
}

// weekdayExtremes groups rows by weekday and returns the best and worst days.
// Ties go to the earlier day in ISO order (Monday first). seen is the number
// of distinct weekdays present.
func weekdayExtremes(log Log) (best, worst time.Weekday, spread float64, seen int) {
	groups := make(map[time.Weekday]*tally)
	for _, e := range log {
		wd := DateOf(e.Date).Weekday()
		g, ok := groups[wd]
		if !ok {
			g = &tally{}
			groups[wd] = g
		}
		g.add(e.Completed)
	}

	var hi, lo float64
	for _, wd := range isoWeek {
		g, ok := groups[wd]
		if !ok {
			continue
		}
		m := g.mean()
		if seen == 0 || m > hi {
			best, hi = wd, m
		}
		if seen == 0 || m < lo {
			worst, lo = wd, m
		}
		seen++
	}
	return best, worst, hi - lo, seen
}

// BehaviorInsights produces human-readable observations about the log, in a
// fixed order: weekday pattern first, then overall consistency.
func BehaviorInsights(log Log) []string {
	insights := []string{}
	if len(log) == 0 {
		return insights
	}

	best, worst, spread, _ := weekdayExtremes(log)
	if spread > weekdaySpread {
		insights = append(insights, fmt.Sprintf(
			"You perform best on %ss and struggle on %ss.", best, worst))
	}

	switch rate := CompletionRate(log); {
	case rate > strongRate:
		insights = append(insights, "You're building strong consistency. Keep the rhythm.")
	case rate < weakRate:
		insights = append(insights, "Low completion detected. Try shrinking your goals.")
	}

	return insights
}

// FragileHabitOf returns the sub-goal with the lowest mean completion. Ties
// go to the lexicographically smallest name. ok is false for an empty log.
func FragileHabitOf(log Log) (habit FragileHabit, ok bool) {
	groups := groupBy(log, func(e Event) string { return e.SubGoal })
	var low float64
	for _, name := range sortedKeys(groups) {
		m := groups[name].mean()
		if !ok || m < low {
			habit, low, ok = FragileHabit{Name: name, Percent: percent(m)}, m, true
		}
	}
	return habit, ok
}

// PerfectDaysOf counts dates where every logged habit was completed, along
// with the number of active dates.
func PerfectDaysOf(log Log) PerfectDays {
	dates, groups := byDate(log)
	out := PerfectDays{Total: len(dates)}
	for _, d := range dates {
		if g := groups[d]; g.done == g.total {
			out.Perfect++
		}
	}
	return out
}

// WeekdayPatternOf returns the best and worst weekdays by mean completion.
// ok is false until data covers at least five distinct weekdays.
func WeekdayPatternOf(log Log) (pattern WeekdayPattern, ok bool) {
	best, worst, _, seen := weekdayExtremes(log)
	if seen < weekdayPatternMinDays {
		return WeekdayPattern{}, false
	}
	return WeekdayPattern{
		Best:      best,
		Worst:     worst,
		BestName:  best.String(),
		WorstName: worst.String(),
	}, true
}
