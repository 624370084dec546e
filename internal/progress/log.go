package progress

import (
	"sort"

	"github.com/julianstephens/habitquest/internal/calendar"
	"github.com/julianstephens/habitquest/internal/models"
)

// Log is an index of completed checkins keyed by day, then by habit.
// Entries with Done=false are dropped, so a tombstone and a missing entry
// read the same. Malformed checkins (bad day key, empty habit id) are
// skipped and counted.
type Log struct {
	days     map[string]map[string]models.Checkin
	sorted   []string
	total    int
	skipped  int
	earliest string
}

// NewLog indexes checkins. Duplicate (habit, day) pairs count once.
func NewLog(checkins []models.Checkin) *Log {
	l := &Log{days: make(map[string]map[string]models.Checkin)}
	for _, c := range checkins {
		if !c.Done {
			continue
		}
		if c.HabitID == "" || !calendar.ValidDayKey(c.Day) {
			l.skipped++
			continue
		}
		byHabit, ok := l.days[c.Day]
		if !ok {
			byHabit = make(map[string]models.Checkin)
			l.days[c.Day] = byHabit
		}
		if _, dup := byHabit[c.HabitID]; dup {
			continue
		}
		byHabit[c.HabitID] = c
		l.total++
	}

	l.sorted = make([]string, 0, len(l.days))
	for day := range l.days {
		l.sorted = append(l.sorted, day)
	}
	// YYYY-MM-DD keys sort chronologically as strings.
	sort.Strings(l.sorted)
	if len(l.sorted) > 0 {
		l.earliest = l.sorted[0]
	}
	return l
}

// TotalDone returns the number of distinct completed (habit, day) pairs.
func (l *Log) TotalDone() int { return l.total }

// Skipped returns how many malformed checkins were ignored.
func (l *Log) Skipped() int { return l.skipped }

// Earliest returns the first day with a completion, or "" for an empty log.
func (l *Log) Earliest() string { return l.earliest }

// ActiveDays returns every day with at least one completion, oldest first.
func (l *Log) ActiveDays() []string {
	out := make([]string, len(l.sorted))
	copy(out, l.sorted)
	return out
}

// HasActivity reports whether any habit was completed on day.
func (l *Log) HasActivity(day string) bool {
	return len(l.days[day]) > 0
}

// DoneCount returns how many distinct habits were completed on day.
func (l *Log) DoneCount(day string) int {
	return len(l.days[day])
}

// Done reports whether habitID was completed on day.
func (l *Log) Done(habitID, day string) bool {
	_, ok := l.days[day][habitID]
	return ok
}

// CheckinsOn returns the completed checkins for day in no particular order.
func (l *Log) CheckinsOn(day string) []models.Checkin {
	byHabit := l.days[day]
	out := make([]models.Checkin, 0, len(byHabit))
	for _, c := range byHabit {
		out = append(out, c)
	}
	return out
}

// CompletedAmong counts how many of habitIDs were completed on day.
func (l *Log) CompletedAmong(day string, habitIDs []string) int {
	byHabit := l.days[day]
	n := 0
	for _, id := range habitIDs {
		if _, ok := byHabit[id]; ok {
			n++
		}
	}
	return n
}

// IsPerfect reports whether every habit in habitIDs was completed on day.
// An empty habit set is never perfect.
func (l *Log) IsPerfect(day string, habitIDs []string) bool {
	if len(habitIDs) == 0 {
		return false
	}
	return l.CompletedAmong(day, habitIDs) == len(habitIDs)
}

// ActiveHabitIDs returns the ids of habits that count toward perfect days.
func ActiveHabitIDs(habits []models.Habit) []string {
	ids := make([]string, 0, len(habits))
	for _, h := range habits {
		if h.IsActive() {
			ids = append(ids, h.ID)
		}
	}
	return ids
}
