package achievements

import (
	"time"

	"github.com/julianstephens/habitquest/internal/models"
)

// Context is everything Evaluate needs. Level, XP and Streak are supplied by
// the caller so the evaluator agrees with what the user is shown.
type Context struct {
	Habits   []models.Habit
	Checkins []models.Checkin
	Level    int
	XP       int
	Streak   int
	Unlocked map[string]bool
	Today    time.Time
	// DayStart is the configured wake time (HH:MM). Empty disables quick_start.
	DayStart string
}

// Evaluate returns the ids of badges whose rules hold and that are not in
// ctx.Unlocked, in catalog order. It never mutates its inputs.
func Evaluate(ctx Context) []string {
	f := newFacts(ctx)
	var unlocked []string
	for _, b := range catalog {
		if ctx.Unlocked[b.ID] {
			continue
		}
		pred, ok := ruleByID[b.ID]
		if !ok {
			continue
		}
		if pred(f) {
			unlocked = append(unlocked, b.ID)
		}
	}
	return unlocked
}

// Badges resolves ids against the catalog, dropping unknown ones.
func Badges(ids []string) []models.Badge {
	out := make([]models.Badge, 0, len(ids))
	for _, id := range ids {
		if b, ok := Lookup(id); ok {
			out = append(out, b)
		}
	}
	return out
}
