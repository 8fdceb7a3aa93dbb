package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStreaks(t *testing.T) {
	tests := []struct {
		name  string
		dates []time.Time
		want  StreakPair
	}{
		{"empty", nil, StreakPair{0, 0}},
		{"single date", []time.Time{day(7)}, StreakPair{1, 1}},
		{"gap before last", []time.Time{day(1), day(2), day(3), day(5)}, StreakPair{Current: 1, Best: 3}},
		{"unsorted input", []time.Time{day(5), day(3), day(1), day(2)}, StreakPair{Current: 1, Best: 3}},
		{"ongoing run is best", []time.Time{day(1), day(3), day(4), day(5)}, StreakPair{Current: 3, Best: 3}},
		{"no consecutive days", []time.Time{day(1), day(3), day(5)}, StreakPair{Current: 1, Best: 1}},
		{
			"across month boundary",
			[]time.Time{day(30), day(31), time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)},
			StreakPair{Current: 3, Best: 3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Streaks(tt.dates)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, got.Current, got.Best)
		})
	}
}

func TestStreaks_DoesNotReorderInput(t *testing.T) {
	dates := []time.Time{day(5), day(1)}
	Streaks(dates)
	assert.Equal(t, []time.Time{day(5), day(1)}, dates)
}

func TestHabitStreaks_OnlyCompletedEventsPerHabit(t *testing.T) {
	log := Log{
		{Date: day(1), Completed: true, SubGoal: "run"},
		{Date: day(2), Completed: true, SubGoal: "run"},
		{Date: day(3), Completed: false, SubGoal: "run"},
		{Date: day(4), Completed: true, SubGoal: "run"},
		{Date: day(1), Completed: true, SubGoal: "read"},
		{Date: day(2), Completed: false, SubGoal: "stretch"},
	}
	want := map[string]StreakPair{
		"run":  {Current: 1, Best: 2},
		"read": {Current: 1, Best: 1},
	}
	assert.Equal(t, want, HabitStreaks(log))
	assert.Empty(t, HabitStreaks(nil))
}
