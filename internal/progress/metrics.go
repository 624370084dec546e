package progress

import (
	"time"

	"github.com/julianstephens/habitquest/internal/models"
)

// Metrics holds every value derived from the checkin log for one day.
type Metrics struct {
	XP                  int
	Level               int
	XPIntoLevel         int
	XPForNextLevel      int
	TotalChecks         int
	CurrentStreak       int
	PerfectDayStreak    int
	DailyActivityStreak int
	LongestStreak       int
	StreakBreaks        int
	GapBeforeToday      int
	SkippedRecords      int
}

// Compute derives all metrics from one pass over the log.
func Compute(habits []models.Habit, checkins []models.Checkin, today time.Time) Metrics {
	return ComputeFromLog(NewLog(checkins), habits, today)
}

// ComputeFromLog is Compute for callers that already built a Log.
func ComputeFromLog(l *Log, habits []models.Habit, today time.Time) Metrics {
	xp := xpFor(l)
	level := ComputeLevel(xp)
	streak := activityStreak(l, today)
	return Metrics{
		XP:                  xp,
		Level:               level,
		XPIntoLevel:         XPWithinCurrentLevel(xp, level),
		XPForNextLevel:      XPNeededForLevel(level),
		TotalChecks:         l.TotalDone(),
		CurrentStreak:       streak,
		PerfectDayStreak:    perfectStreak(l, ActiveHabitIDs(habits), today),
		DailyActivityStreak: streak,
		LongestStreak:       longestStreak(l),
		StreakBreaks:        streakBreaks(l),
		GapBeforeToday:      gapBeforeToday(l, today),
		SkippedRecords:      l.Skipped(),
	}
}
