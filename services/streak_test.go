package services

import (
	"testing"
	"time"
)

var streakNow = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

func daysAgo(days int, hour int) time.Time {
	return time.Date(2026, 3, 10-days, hour, 0, 0, 0, time.UTC)
}

func TestComputeStreakEmptyHistory(t *testing.T) {
	data := ComputeStreak(streakNow, nil)

	if data.CurrentStreak != 0 || data.LongestStreak != 0 {
		t.Errorf("expected zero streaks, got current=%d longest=%d", data.CurrentStreak, data.LongestStreak)
	}
	if data.LastTaskDate != nil {
		t.Errorf("expected nil LastTaskDate, got %v", data.LastTaskDate)
	}
	if data.IsStreakActive {
		t.Error("expected inactive streak for empty history")
	}
}

func TestComputeStreakSingleRecentCompletion(t *testing.T) {
	completions := []time.Time{streakNow.Add(-1 * time.Hour)}

	data := ComputeStreak(streakNow, completions)

	if data.CurrentStreak != 1 {
		t.Errorf("expected current streak 1, got %d", data.CurrentStreak)
	}
	if data.TimeUntilReset != 23 {
		t.Errorf("expected 23 hours until reset, got %d", data.TimeUntilReset)
	}
	if !data.IsStreakActive {
		t.Error("expected streak to be active")
	}
}

func TestComputeStreakConsecutiveDays(t *testing.T) {
	completions := []time.Time{
		daysAgo(0, 14),
		daysAgo(1, 9),
		daysAgo(2, 20),
	}

	data := ComputeStreak(streakNow, completions)

	if data.CurrentStreak != 3 {
		t.Errorf("expected current streak 3, got %d", data.CurrentStreak)
	}
	if data.LongestStreak != 3 {
		t.Errorf("expected longest streak 3, got %d", data.LongestStreak)
	}
}

func TestComputeStreakGapBreaksRun(t *testing.T) {
	completions := []time.Time{
		daysAgo(0, 10),
		daysAgo(3, 10),
	}

	data := ComputeStreak(streakNow, completions)

	if data.CurrentStreak != 1 {
		t.Errorf("expected current streak 1 after gap, got %d", data.CurrentStreak)
	}
}

func TestComputeStreakStaleHistoryInactive(t *testing.T) {
	completions := []time.Time{daysAgo(3, 10)}

	data := ComputeStreak(streakNow, completions)

	if data.CurrentStreak != 0 {
		t.Errorf("expected current streak 0 for stale history, got %d", data.CurrentStreak)
	}
	if data.TimeUntilReset != 0 {
		t.Errorf("expected reset timer clamped to 0, got %d", data.TimeUntilReset)
	}
	if data.IsStreakActive {
		t.Error("expected inactive streak for stale history")
	}
}

func TestComputeStreakWindowExpiredButRunCounted(t *testing.T) {
	// Last completion was yesterday: the calendar run still counts but the
	// 24h reset window has elapsed, so the streak reads as at risk.
	completions := []time.Time{streakNow.Add(-30 * time.Hour)}

	data := ComputeStreak(streakNow, completions)

	if data.CurrentStreak != 1 {
		t.Errorf("expected current streak 1, got %d", data.CurrentStreak)
	}
	if data.IsStreakActive {
		t.Error("expected inactive streak once the 24h window elapsed")
	}
}

func TestLongestStreakSurvivesBrokenCurrent(t *testing.T) {
	completions := []time.Time{
		daysAgo(0, 9),
		daysAgo(1, 9),
		daysAgo(5, 9),
		daysAgo(6, 9),
		daysAgo(7, 9),
		daysAgo(8, 9),
	}

	data := ComputeStreak(streakNow, completions)

	if data.CurrentStreak != 2 {
		t.Errorf("expected current streak 2, got %d", data.CurrentStreak)
	}
	if data.LongestStreak != 4 {
		t.Errorf("expected longest streak 4, got %d", data.LongestStreak)
	}
	if data.LongestStreak < data.CurrentStreak {
		t.Error("longest streak must never be below current streak")
	}
}

func TestLongestStreakDeduplicatesSameDay(t *testing.T) {
	completions := []time.Time{
		daysAgo(0, 18),
		daysAgo(0, 9),
		daysAgo(1, 12),
	}

	if got := longestStreak(completions); got != 2 {
		t.Errorf("expected longest streak 2 with duplicate days, got %d", got)
	}
}

func TestHoursUntilResetClamp(t *testing.T) {
	tests := []struct {
		name       string
		elapsed    time.Duration
		wantHours  int
		wantActive bool
	}{
		{"just completed", 10 * time.Minute, 24, true},
		{"half window", 12 * time.Hour, 12, true},
		{"window edge", 24 * time.Hour, 0, false},
		{"long stale", 72 * time.Hour, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hours, active := hoursUntilReset(streakNow, streakNow.Add(-tt.elapsed))
			if hours != tt.wantHours || active != tt.wantActive {
				t.Errorf("got hours=%d active=%v, want hours=%d active=%v",
					hours, active, tt.wantHours, tt.wantActive)
			}
		})
	}
}
