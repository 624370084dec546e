package progress

import (
	"time"

	"github.com/julianstephens/habitquest/internal/calendar"
	"github.com/julianstephens/habitquest/internal/constants"
	"github.com/julianstephens/habitquest/internal/models"
)

// walkBack counts consecutive qualifying days ending today (or yesterday).
//
// An unqualified today is skipped exactly once, on the first iteration; any
// later unqualified day ends the walk. The walk never steps before earliest
// and never runs more than MaxLookbackDays iterations.
func walkBack(today time.Time, earliest string, qualifies func(day string) bool) int {
	if earliest == "" {
		return 0
	}

	day := calendar.StartOfDay(today)
	streak := 0
	for i := 0; i < constants.MaxLookbackDays; i++ {
		key := calendar.DayKey(day)
		if key < earliest {
			break
		}
		if qualifies(key) {
			streak++
		} else if i > 0 {
			break
		}
		day = calendar.AddDays(day, -1)
	}
	return streak
}

// ComputeBasicStreak returns the user-facing streak: consecutive days with at
// least one completion for any habit. Today not being done yet does not
// break the streak.
func ComputeBasicStreak(checkins []models.Checkin, today time.Time) int {
	return activityStreak(NewLog(checkins), today)
}

// DailyActivityStreak uses the same rule as ComputeBasicStreak. It feeds the
// consistency badges rather than the streak display.
func DailyActivityStreak(checkins []models.Checkin, today time.Time) int {
	return activityStreak(NewLog(checkins), today)
}

func activityStreak(l *Log, today time.Time) int {
	return walkBack(today, l.Earliest(), l.HasActivity)
}

// PerfectDayStreak counts consecutive days on which every active habit was
// completed. It is 0 when there are no active habits.
func PerfectDayStreak(habits []models.Habit, checkins []models.Checkin, today time.Time) int {
	return perfectStreak(NewLog(checkins), ActiveHabitIDs(habits), today)
}

func perfectStreak(l *Log, active []string, today time.Time) int {
	if len(active) == 0 {
		return 0
	}
	return walkBack(today, l.Earliest(), func(day string) bool {
		return l.IsPerfect(day, active)
	})
}

// StreakBreaks counts the gaps of one or more empty days between
// consecutive active days in the whole log.
func StreakBreaks(checkins []models.Checkin) int {
	return streakBreaks(NewLog(checkins))
}

func streakBreaks(l *Log) int {
	days := l.sorted
	breaks := 0
	for i := 1; i < len(days); i++ {
		if gapDays(days[i-1], days[i]) > 0 {
			breaks++
		}
	}
	return breaks
}

// LongestStreak returns the longest run of consecutive active days ever.
func LongestStreak(checkins []models.Checkin) int {
	return longestStreak(NewLog(checkins))
}

func longestStreak(l *Log) int {
	days := l.sorted
	if len(days) == 0 {
		return 0
	}
	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if gapDays(days[i-1], days[i]) == 0 {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
	}
	return longest
}

// GapBeforeToday returns the number of empty days between today and the
// previous active day, when today itself has a completion. It is 0 when today
// is empty or there is no earlier activity.
func GapBeforeToday(checkins []models.Checkin, today time.Time) int {
	return gapBeforeToday(NewLog(checkins), today)
}

func gapBeforeToday(l *Log, today time.Time) int {
	todayKey := calendar.DayKey(today)
	if !l.HasActivity(todayKey) {
		return 0
	}
	days := l.sorted
	for i := len(days) - 1; i >= 0; i-- {
		if days[i] < todayKey {
			return gapDays(days[i], todayKey)
		}
	}
	return 0
}

// gapDays returns the number of empty days strictly between two day keys.
func gapDays(earlier, later string) int {
	a, errA := calendar.ParseDay(earlier, time.UTC)
	b, errB := calendar.ParseDay(later, time.UTC)
	if errA != nil || errB != nil {
		return 0
	}
	return calendar.DaysBetween(a, b) - 1
}
