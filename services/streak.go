package services

import (
	"sort"
	"time"
)

// StreakData is the derived view over a user's completion history. Nothing
// here is persisted; it is recomputed from user_tasks rows on every read.
type StreakData struct {
	CurrentStreak  int        `json:"current_streak"`
	LongestStreak  int        `json:"longest_streak"`
	LastTaskDate   *time.Time `json:"last_task_date,omitempty"`
	TimeUntilReset int        `json:"time_until_reset"` // whole hours remaining in the 24h window
	IsStreakActive bool       `json:"is_streak_active"`
}

// ComputeStreak derives the full streak view from completion timestamps
// ordered most recent first. An empty history yields the zero value.
func ComputeStreak(now time.Time, completions []time.Time) StreakData {
	if len(completions) == 0 {
		return StreakData{}
	}
	last := completions[0]
	data := StreakData{
		CurrentStreak: currentStreak(now, completions),
		LongestStreak: longestStreak(completions),
		LastTaskDate:  &last,
	}
	data.TimeUntilReset, data.IsStreakActive = hoursUntilReset(now, last)
	return data
}

// currentStreak walks backward from today's day boundary. A completion on
// the cursor day or the day before it extends the run; the cursor then steps
// back exactly one day either way. Anything older breaks the walk, so a most
// recent completion more than one day stale yields zero.
func currentStreak(now time.Time, completions []time.Time) int {
	streak := 0
	cursor := startOfDay(now)

	for _, ts := range completions {
		day := startOfDay(ts)
		switch {
		case day.Equal(cursor):
			streak++
			cursor = cursor.AddDate(0, 0, -1)
		case day.Equal(cursor.AddDate(0, 0, -1)):
			streak++
			cursor = cursor.AddDate(0, 0, -1)
		default:
			return streak
		}
	}
	return streak
}

// longestStreak counts the longest run of consecutive calendar days with at
// least one completion, over the whole history.
func longestStreak(completions []time.Time) int {
	if len(completions) == 0 {
		return 0
	}

	seen := make(map[time.Time]struct{}, len(completions))
	days := make([]time.Time, 0, len(completions))
	for _, ts := range completions {
		day := startOfDay(ts)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i-1].Sub(days[i]) == 24*time.Hour {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}
	return longest
}

// hoursUntilReset returns the whole hours left before the 24-hour window
// since the last completion elapses, clamped at zero, plus whether the
// streak is still active. This is the only piece the minute tick recomputes.
func hoursUntilReset(now, lastCompletion time.Time) (int, bool) {
	hours := 24 - int(now.Sub(lastCompletion).Hours())
	if hours < 0 {
		hours = 0
	}
	return hours, hours > 0
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
