package achievements

import (
	"time"

	"github.com/julianstephens/habitquest/internal/calendar"
	"github.com/julianstephens/habitquest/internal/models"
	"github.com/julianstephens/habitquest/internal/progress"
)

// Facts are the values rules read. They are derived once per Evaluate call.
type Facts struct {
	Level  int
	XP     int
	Streak int

	HabitCount  int
	ActiveCount int
	TotalChecks int
	TodayDone   int
	DayComplete bool
	Weekday     time.Weekday

	PerfectStreak  int
	DailyStreak    int
	StreakBreaks   int
	GapBeforeToday int

	log      *progress.Log
	active   []string
	today    time.Time
	todayKey string
	dayStart int
	hasStart bool
}

func newFacts(c Context) *Facts {
	l := progress.NewLog(c.Checkins)
	today := calendar.StartOfDay(c.Today)
	m := progress.ComputeFromLog(l, c.Habits, today)
	active := progress.ActiveHabitIDs(c.Habits)
	todayKey := calendar.DayKey(today)

	f := &Facts{
		Level:          c.Level,
		XP:             c.XP,
		Streak:         c.Streak,
		HabitCount:     len(c.Habits),
		ActiveCount:    len(active),
		TotalChecks:    l.TotalDone(),
		TodayDone:      l.CompletedAmong(todayKey, active),
		DayComplete:    l.IsPerfect(todayKey, active),
		Weekday:        today.Weekday(),
		PerfectStreak:  m.PerfectDayStreak,
		DailyStreak:    m.DailyActivityStreak,
		StreakBreaks:   m.StreakBreaks,
		GapBeforeToday: m.GapBeforeToday,
		log:            l,
		active:         active,
		today:          today,
		todayKey:       todayKey,
	}
	if start, err := calendar.ParseClock(c.DayStart); err == nil {
		f.dayStart, f.hasStart = start, true
	}
	return f
}

// minuteOf returns the minute of day a checkin was recorded, in today's
// location. ok is false when the recording time is unknown.
func (f *Facts) minuteOf(c models.Checkin) (int, bool) {
	if c.RecordedAt.IsZero() {
		return 0, false
	}
	t := c.RecordedAt.In(f.today.Location())
	return t.Hour()*60 + t.Minute(), true
}

// anyRecorded reports whether some checkin in the log was recorded at a
// minute of day matching in.
func (f *Facts) anyRecorded(in func(minute int) bool) bool {
	for _, day := range f.log.ActiveDays() {
		if f.recordedOn(day, in) {
			return true
		}
	}
	return false
}

func (f *Facts) recordedOn(day string, in func(minute int) bool) bool {
	for _, c := range f.log.CheckinsOn(day) {
		if m, ok := f.minuteOf(c); ok && in(m) {
			return true
		}
	}
	return false
}

// routine reports whether n consecutive days ending today (or yesterday, when
// today has no match yet) each have a checkin recorded in the window.
func (f *Facts) routine(n int, in func(minute int) bool) bool {
	day := f.today
	run := 0
	for i := 0; i <= n && run < n; i++ {
		if f.recordedOn(calendar.DayKey(day), in) {
			run++
		} else if i > 0 {
			break
		}
		day = calendar.AddDays(day, -1)
	}
	return run >= n
}

// completedWithin reports whether the day is complete and every checkin
// made today, archived habits included, was recorded inside the window.
func (f *Facts) completedWithin(in func(minute int) bool) bool {
	if !f.DayComplete {
		return false
	}
	for _, c := range f.log.CheckinsOn(f.todayKey) {
		m, ok := f.minuteOf(c)
		if !ok || !in(m) {
			return false
		}
	}
	return true
}

// perfectBetween reports whether every day in [start, end] was a perfect day.
// The range must have ended by today and cannot begin before the first
// recorded activity.
func (f *Facts) perfectBetween(start, end time.Time) bool {
	if len(f.active) == 0 || f.log.Earliest() == "" {
		return false
	}
	startKey, endKey := calendar.DayKey(start), calendar.DayKey(end)
	if endKey > f.todayKey || startKey < f.log.Earliest() {
		return false
	}
	for day := start; calendar.DayKey(day) <= endKey; day = calendar.AddDays(day, 1) {
		if !f.log.IsPerfect(calendar.DayKey(day), f.active) {
			return false
		}
	}
	return true
}

// years returns the calendar years from the first activity through today.
func (f *Facts) years() []int {
	first, err := calendar.ParseDay(f.log.Earliest(), f.today.Location())
	if err != nil {
		return nil
	}
	var out []int
	for y := first.Year(); y <= f.today.Year(); y++ {
		out = append(out, y)
	}
	return out
}

// monthComplete reports whether month was fully perfect in some year.
func (f *Facts) monthComplete(month time.Month) bool {
	for _, y := range f.years() {
		start := time.Date(y, month, 1, 0, 0, 0, 0, f.today.Location())
		if f.perfectBetween(start, calendar.MonthEnd(start)) {
			return true
		}
	}
	return false
}

// seasonComplete reports whether the season was fully perfect in some year.
// Winter is keyed by the year its December falls in.
func (f *Facts) seasonComplete(s calendar.Season) bool {
	for _, y := range f.years() {
		start, end, err := calendar.SeasonBounds(s, y, f.today.Location())
		if err != nil {
			return false
		}
		if f.perfectBetween(start, end) {
			return true
		}
	}
	return false
}

// yearComplete reports whether every day of year was perfect.
func (f *Facts) yearComplete(year int) bool {
	start := calendar.YearStart(year, f.today.Location())
	return f.perfectBetween(start, calendar.AddDays(calendar.YearStart(year+1, f.today.Location()), -1))
}
