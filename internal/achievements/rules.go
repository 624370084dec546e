package achievements

import (
	"time"

	"github.com/julianstephens/habitquest/internal/calendar"
)

// Rule unlocks BadgeID when Predicate holds.
type Rule struct {
	BadgeID   string
	Predicate func(f *Facts) bool
}

func levelAtLeast(n int) func(*Facts) bool  { return func(f *Facts) bool { return f.Level >= n } }
func xpAtLeast(n int) func(*Facts) bool     { return func(f *Facts) bool { return f.XP >= n } }
func streakAtLeast(n int) func(*Facts) bool { return func(f *Facts) bool { return f.Streak >= n } }
func checksAtLeast(n int) func(*Facts) bool { return func(f *Facts) bool { return f.TotalChecks >= n } }
func habitsAtLeast(n int) func(*Facts) bool { return func(f *Facts) bool { return f.HabitCount >= n } }

func perfectAtLeast(n int) func(*Facts) bool {
	return func(f *Facts) bool { return f.PerfectStreak >= n }
}

func dailyAtLeast(n int) func(*Facts) bool {
	return func(f *Facts) bool { return f.DailyStreak >= n }
}

func manyToday(n int) func(*Facts) bool {
	return func(f *Facts) bool { return f.ActiveCount >= n && f.TodayDone >= n }
}

func completeOn(days ...time.Weekday) func(*Facts) bool {
	return func(f *Facts) bool {
		if !f.DayComplete {
			return false
		}
		for _, d := range days {
			if f.Weekday == d {
				return true
			}
		}
		return false
	}
}

func cameBackAfter(gap int) func(*Facts) bool {
	return func(f *Facts) bool { return f.GapBeforeToday >= gap }
}

func recovered(breaks int) func(*Facts) bool {
	return func(f *Facts) bool { return f.DailyStreak >= 1 && f.StreakBreaks >= breaks }
}

func month(m time.Month) func(*Facts) bool {
	return func(f *Facts) bool { return f.monthComplete(m) }
}

func season(s calendar.Season) func(*Facts) bool {
	return func(f *Facts) bool { return f.seasonComplete(s) }
}

func year(y int) func(*Facts) bool {
	return func(f *Facts) bool { return f.yearComplete(y) }
}

// window matches minutes of day in [from, to).
func window(from, to int) func(int) bool {
	return func(m int) bool { return m >= from && m < to }
}

func hm(h, m int) int { return h*60 + m }

var rules = []Rule{
	{"first_checkin", checksAtLeast(1)},
	{"create_3_habits", habitsAtLeast(3)},
	{"day_complete", func(f *Facts) bool { return f.DayComplete }},

	{"level_2", levelAtLeast(2)},
	{"level_5", levelAtLeast(5)},
	{"level_10", levelAtLeast(10)},
	{"level_15", levelAtLeast(15)},
	{"level_20", levelAtLeast(20)},
	{"level_25", levelAtLeast(25)},
	{"level_30", levelAtLeast(30)},
	{"level_50", levelAtLeast(50)},
	{"level_75", levelAtLeast(75)},
	{"level_100", levelAtLeast(100)},

	{"streak_3", streakAtLeast(3)},
	{"streak_7", streakAtLeast(7)},
	{"streak_14", streakAtLeast(14)},
	{"streak_30", streakAtLeast(30)},
	{"streak_50", streakAtLeast(50)},
	{"streak_100", streakAtLeast(100)},
	{"streak_200", streakAtLeast(200)},
	{"streak_365", streakAtLeast(365)},
	{"streak_500", streakAtLeast(500)},
	{"streak_1000", streakAtLeast(1000)},
	{"marathon_runner", streakAtLeast(180)},
	{"iron_will", streakAtLeast(250)},
	{"legendary", streakAtLeast(500)},
	{"immortal", streakAtLeast(730)},

	{"check_10", checksAtLeast(10)},
	{"check_50", checksAtLeast(50)},
	{"check_100", checksAtLeast(100)},
	{"check_250", checksAtLeast(250)},
	{"check_500", checksAtLeast(500)},
	{"check_1000", checksAtLeast(1000)},
	{"check_2000", checksAtLeast(2000)},
	{"check_5000", checksAtLeast(5000)},

	{"habit_5", habitsAtLeast(5)},
	{"habit_10", habitsAtLeast(10)},
	{"habit_15", habitsAtLeast(15)},
	{"habit_20", habitsAtLeast(20)},
	{"variety_seeker", habitsAtLeast(5)},
	{"jack_of_all", habitsAtLeast(10)},

	{"perfect_7", perfectAtLeast(7)},
	{"perfectionist", perfectAtLeast(14)},
	{"flawless", perfectAtLeast(21)},
	{"perfect_30", perfectAtLeast(30)},
	{"unstoppable", perfectAtLeast(30)},
	{"perfect_100", perfectAtLeast(100)},

	{"consistency_master", dailyAtLeast(30)},
	{"dedication", dailyAtLeast(60)},
	{"commitment", dailyAtLeast(90)},

	{"xp_100", xpAtLeast(100)},
	{"xp_500", xpAtLeast(500)},
	{"xp_1000", xpAtLeast(1000)},
	{"xp_5000", xpAtLeast(5000)},
	{"xp_10000", xpAtLeast(10000)},

	{"monday_complete", completeOn(time.Monday)},
	{"friday_complete", completeOn(time.Friday)},
	{"weekend_warrior", completeOn(time.Saturday, time.Sunday)},

	{"triple_threat", manyToday(3)},
	{"five_star", manyToday(5)},
	{"ten_power", manyToday(10)},

	{"comeback", cameBackAfter(7)},
	{"never_give_up", cameBackAfter(30)},
	{"bouncer", recovered(3)},
	{"phoenix", recovered(5)},

	{"january_complete", month(time.January)},
	{"february_complete", month(time.February)},
	{"march_complete", month(time.March)},
	{"april_complete", month(time.April)},
	{"may_complete", month(time.May)},
	{"june_complete", month(time.June)},
	{"july_complete", month(time.July)},
	{"august_complete", month(time.August)},
	{"september_complete", month(time.September)},
	{"october_complete", month(time.October)},
	{"november_complete", month(time.November)},
	{"december_complete", month(time.December)},

	{"spring_master", season(calendar.Spring)},
	{"summer_master", season(calendar.Summer)},
	{"autumn_master", season(calendar.Autumn)},
	{"winter_master", season(calendar.Winter)},

	{"year_2026_complete", year(2026)},
	{"year_2027_complete", year(2027)},

	{"early_bird", func(f *Facts) bool { return f.anyRecorded(window(0, hm(6, 0))) }},
	{"night_owl", func(f *Facts) bool { return f.anyRecorded(window(hm(22, 0), hm(24, 0))) }},
	{"morning_routine", func(f *Facts) bool { return f.routine(7, window(0, hm(7, 0))) }},
	{"lunch_warrior", func(f *Facts) bool { return f.routine(7, window(hm(12, 0), hm(13, 0))) }},
	{"evening_ritual", func(f *Facts) bool { return f.routine(7, window(hm(17, 0), hm(19, 0))) }},
	{"night_routine", func(f *Facts) bool { return f.routine(7, window(hm(21, 0), hm(23, 0))) }},
	{"speed_demon", func(f *Facts) bool { return f.completedWithin(window(hm(6, 0), hm(7, 0))) }},
	{"quick_start", func(f *Facts) bool {
		return f.hasStart && f.completedWithin(window(f.dayStart, f.dayStart+60))
	}},
}

var ruleByID map[string]func(*Facts) bool

func init() {
	ruleByID = make(map[string]func(*Facts) bool, len(rules))
	for _, r := range rules {
		if _, ok := byID[r.BadgeID]; !ok {
			panic("rule for unknown badge: " + r.BadgeID)
		}
		ruleByID[r.BadgeID] = r.Predicate
	}
}
