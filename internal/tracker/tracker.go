// Package tracker is the application service around the progression engine.
// It owns the mutation flow: change the habit log, re-derive metrics,
// evaluate achievements and union the result into the stored ledger.
package tracker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitquest/internal/achievements"
	"github.com/julianstephens/habitquest/internal/calendar"
	"github.com/julianstephens/habitquest/internal/logger"
	"github.com/julianstephens/habitquest/internal/models"
	"github.com/julianstephens/habitquest/internal/notifier"
	"github.com/julianstephens/habitquest/internal/progress"
	"github.com/julianstephens/habitquest/internal/storage"
)

var (
	ErrHabitNotFound = errors.New("habit not found")
	ErrHabitExists   = errors.New("habit already exists")
	ErrInvalidDay    = errors.New("invalid day")
	ErrFutureDay     = errors.New("cannot check in on a future day")
	ErrNotUnlocked   = errors.New("badge not unlocked")
)

// Notifier delivers a short message to the user's desktop.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Tracker serializes changes to the habit log and keeps the unlock ledger
// in step with them.
type Tracker struct {
	mu       sync.Mutex
	store    storage.Provider
	clock    calendar.Clock
	notifier Notifier
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithNotifier enables unlock notifications. They are still gated by the
// notifications_enabled setting.
func WithNotifier(n Notifier) Option {
	return func(t *Tracker) { t.notifier = n }
}

// New returns a Tracker reading and writing store, with today taken from clock.
func New(store storage.Provider, clock calendar.Clock, opts ...Option) *Tracker {
	t := &Tracker{store: store, clock: clock}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Snapshot is the state the engine evaluates.
type Snapshot struct {
	Today    time.Time
	Settings models.Settings
	// Habits excludes deleted habits; archived ones are kept for counting.
	Habits   []models.Habit
	Checkins []models.Checkin
	Metrics  progress.Metrics
}

// ToggleResult describes the outcome of Toggle.
type ToggleResult struct {
	Habit       models.Habit
	Day         string
	Done        bool
	LevelBefore int
	LevelAfter  int
	Unlocked    []models.Badge
}

// LeveledUp reports whether the toggle raised the level.
func (r ToggleResult) LeveledUp() bool {
	return r.LevelAfter > r.LevelBefore
}

// Today returns midnight of the current day in the clock's location.
func (t *Tracker) Today() time.Time {
	return calendar.Today(t.clock)
}

// Snapshot loads habits and checkins and derives every metric for today.
func (t *Tracker) Snapshot(ctx context.Context) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}

	settings, err := t.store.GetSettings()
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load settings: %w", err)
	}
	habits, err := t.store.GetAllHabits(true, false)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load habits: %w", err)
	}
	entries, err := t.store.GetAllHabitEntries()
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load habit entries: %w", err)
	}

	today := t.Today()
	checkins := t.checkinsFor(habits, entries, today.Location())
	m := progress.Compute(habits, checkins, today)
	if m.SkippedRecords > 0 {
		logger.Debug("Skipped malformed checkins", "count", m.SkippedRecords)
	}

	return Snapshot{
		Today:    today,
		Settings: settings,
		Habits:   habits,
		Checkins: checkins,
		Metrics:  m,
	}, nil
}

// checkinsFor converts entries of live habits into checkins. Entries of
// deleted habits are dropped. A completion recorded on a different day than
// the one it marks (a backfill) loses its recording time, so it never counts
// toward time-of-day badges.
func (t *Tracker) checkinsFor(habits []models.Habit, entries []models.HabitEntry, loc *time.Location) []models.Checkin {
	live := make(map[string]bool, len(habits))
	for _, h := range habits {
		live[h.ID] = true
	}

	kept := entries[:0:0]
	for _, e := range entries {
		if live[e.HabitID] {
			kept = append(kept, e)
		}
	}

	checkins := models.EntriesToCheckins(kept)
	for i := range checkins {
		c := &checkins[i]
		if !c.RecordedAt.IsZero() && calendar.DayKey(c.RecordedAt.In(loc)) != c.Day {
			c.RecordedAt = time.Time{}
		}
	}
	return checkins
}

// Refresh evaluates achievements against the current state and records the
// new ones. It returns the badges unlocked by this call.
func (t *Tracker) Refresh(ctx context.Context) ([]models.Badge, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, badges, err := t.refresh(ctx)
	return badges, err
}

func (t *Tracker) refresh(ctx context.Context) (Snapshot, []models.Badge, error) {
	snap, err := t.Snapshot(ctx)
	if err != nil {
		return Snapshot{}, nil, err
	}
	unlocks, err := t.store.GetUnlocks()
	if err != nil {
		return Snapshot{}, nil, fmt.Errorf("failed to load unlocked badges: %w", err)
	}
	ledger := make(map[string]bool, len(unlocks))
	for _, u := range unlocks {
		ledger[u.BadgeID] = true
	}

	ids := achievements.Evaluate(achievements.Context{
		Habits:   snap.Habits,
		Checkins: snap.Checkins,
		Level:    snap.Metrics.Level,
		XP:       snap.Metrics.XP,
		Streak:   snap.Metrics.CurrentStreak,
		Unlocked: ledger,
		Today:    snap.Today,
		DayStart: snap.Settings.DayStart,
	})
	if len(ids) == 0 {
		return snap, nil, nil
	}

	if err := t.store.AddUnlocks(ids, t.clock.Now()); err != nil {
		return Snapshot{}, nil, fmt.Errorf("failed to record unlocked badges: %w", err)
	}
	badges := achievements.Badges(ids)
	for _, b := range badges {
		logger.Info("Badge unlocked", "badge", b.ID, "name", b.Name)
	}
	if snap.Settings.NotificationsEnabled {
		t.notify(ctx, badges)
	}
	return snap, badges, nil
}

func (t *Tracker) notify(ctx context.Context, badges []models.Badge) {
	if t.notifier == nil || len(badges) == 0 {
		return
	}
	if err := t.notifier.Notify(ctx, UnlockMessage(badges)); err != nil {
		if errors.Is(err, notifier.ErrTrayNotRunning) {
			logger.Debug("Tray app not running, notification skipped")
			return
		}
		logger.Warn("Failed to send notification", "error", err)
	}
}

// UnlockMessage renders the notification text for newly unlocked badges.
func UnlockMessage(badges []models.Badge) string {
	if len(badges) == 1 {
		b := badges[0]
		return fmt.Sprintf("Badge unlocked: %s %s", b.Icon, b.Name)
	}
	names := make([]string, len(badges))
	for i, b := range badges {
		names[i] = b.Icon + " " + b.Name
	}
	return fmt.Sprintf("%d badges unlocked: %s", len(badges), strings.Join(names, ", "))
}

// Toggle flips the completion of habitName on day (YYYY-MM-DD, empty for
// today). A missing entry is created, a live entry is tombstoned and a
// tombstoned entry is revived.
func (t *Tracker) Toggle(ctx context.Context, habitName, day, note string) (ToggleResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	today := t.Today()
	if day == "" {
		day = calendar.DayKey(today)
	}
	d, err := calendar.ParseDay(day, today.Location())
	if err != nil {
		return ToggleResult{}, fmt.Errorf("%w %q: expected YYYY-MM-DD", ErrInvalidDay, day)
	}
	if d.After(today) {
		return ToggleResult{}, fmt.Errorf("%w: %s", ErrFutureDay, day)
	}

	habit, err := t.liveHabit(habitName)
	if err != nil {
		return ToggleResult{}, err
	}

	before, err := t.Snapshot(ctx)
	if err != nil {
		return ToggleResult{}, err
	}

	done, err := t.toggleEntry(habit.ID, day, note)
	if err != nil {
		return ToggleResult{}, err
	}
	logger.Debug("Toggled habit", "habit", habit.Name, "day", day, "done", done)

	after, badges, err := t.refresh(ctx)
	if err != nil {
		return ToggleResult{}, err
	}
	return ToggleResult{
		Habit:       habit,
		Day:         day,
		Done:        done,
		LevelBefore: before.Metrics.Level,
		LevelAfter:  after.Metrics.Level,
		Unlocked:    badges,
	}, nil
}

func (t *Tracker) toggleEntry(habitID, day, note string) (bool, error) {
	now := t.clock.Now()
	entry, err := t.store.GetHabitEntry(habitID, day)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		err = t.store.AddHabitEntry(models.HabitEntry{
			ID:        uuid.New().String(),
			HabitID:   habitID,
			Day:       day,
			Note:      note,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return false, fmt.Errorf("failed to add habit entry: %w", err)
		}
		return true, nil
	case err != nil:
		return false, fmt.Errorf("failed to load habit entry: %w", err)
	case entry.Done():
		if err := t.store.DeleteHabitEntry(entry.ID); err != nil {
			return false, fmt.Errorf("failed to remove habit entry: %w", err)
		}
		return false, nil
	default:
		if err := t.store.RestoreHabitEntry(entry.ID, now); err != nil {
			return false, fmt.Errorf("failed to restore habit entry: %w", err)
		}
		if note == "" {
			return true, nil
		}
		entry.DeletedAt = nil
		entry.UpdatedAt = now
		entry.Note = note
		if err := t.store.UpdateHabitEntry(entry); err != nil {
			return false, fmt.Errorf("failed to update habit entry note: %w", err)
		}
		return true, nil
	}
}

func (t *Tracker) liveHabit(name string) (models.Habit, error) {
	habit, err := t.store.GetHabitByName(strings.TrimSpace(name))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("%w: %s", ErrHabitNotFound, name)
	}
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to load habit: %w", err)
	}
	return habit, nil
}

// Unlocked returns the ledger in unlock order.
func (t *Tracker) Unlocked(ctx context.Context) ([]models.UnlockedBadge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return t.store.GetUnlocks()
}

// EntriesForDay returns the live entries recorded for day.
func (t *Tracker) EntriesForDay(ctx context.Context, day string) ([]models.HabitEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := t.store.GetHabitEntriesForDay(day)
	if err != nil {
		return nil, fmt.Errorf("failed to load entries for %s: %w", day, err)
	}
	return entries, nil
}

// EntriesForHabit returns the live entries of habitID between startDay and
// endDay inclusive, newest first.
func (t *Tracker) EntriesForHabit(ctx context.Context, habitID, startDay, endDay string) ([]models.HabitEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := t.store.GetHabitEntriesForHabit(habitID, startDay, endDay)
	if err != nil {
		return nil, fmt.Errorf("failed to load habit entries: %w", err)
	}
	return entries, nil
}

// Habit looks up a habit that has not been deleted by name.
func (t *Tracker) Habit(ctx context.Context, name string) (models.Habit, error) {
	if err := ctx.Err(); err != nil {
		return models.Habit{}, err
	}
	return t.liveHabit(name)
}
