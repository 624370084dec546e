package tracker

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitquest/internal/calendar"
	"github.com/julianstephens/habitquest/internal/models"
	"github.com/julianstephens/habitquest/internal/notifier"
	"github.com/julianstephens/habitquest/internal/storage/sqlite"
)

// Wednesday, outside every time-of-day window.
var wednesday = time.Date(2026, 10, 21, 10, 30, 0, 0, time.UTC)

type recordingNotifier struct {
	messages []string
	err      error
}

func (n *recordingNotifier) Notify(_ context.Context, text string) error {
	n.messages = append(n.messages, text)
	return n.err
}

func setupTracker(t *testing.T, now time.Time, opts ...Option) (*Tracker, *sqlite.Store) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "habitquest.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return New(store, calendar.FixedClock{T: now}, opts...), store
}

func mustAdd(t *testing.T, tr *Tracker, names ...string) {
	t.Helper()
	for _, name := range names {
		if _, _, err := tr.AddHabit(context.Background(), name); err != nil {
			t.Fatalf("AddHabit(%s) failed: %v", name, err)
		}
	}
}

func badgeIDs(badges []models.Badge) []string {
	ids := make([]string, len(badges))
	for i, b := range badges {
		ids[i] = b.ID
	}
	return ids
}

func TestToggleRoundTrip(t *testing.T) {
	ctx := context.Background()
	tr, _ := setupTracker(t, wednesday)
	mustAdd(t, tr, "Read")

	res, err := tr.Toggle(ctx, "Read", "", "chapter 3")
	if err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if !res.Done || res.Day != "2026-10-21" {
		t.Errorf("first toggle = %+v, want done today", res)
	}
	if got, want := badgeIDs(res.Unlocked), []string{"first_checkin", "day_complete"}; !slices.Equal(got, want) {
		t.Errorf("unlocked %v, want %v", got, want)
	}

	res, err = tr.Toggle(ctx, "Read", "2026-10-21", "")
	if err != nil {
		t.Fatalf("second Toggle failed: %v", err)
	}
	if res.Done || len(res.Unlocked) != 0 {
		t.Errorf("second toggle = %+v, want not done and nothing new", res)
	}

	snap, err := tr.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if snap.Metrics.XP != 0 || snap.Metrics.CurrentStreak != 0 {
		t.Errorf("metrics after round trip = %+v, want zero", snap.Metrics)
	}

	unlocked, err := tr.Unlocked(ctx)
	if err != nil {
		t.Fatalf("Unlocked failed: %v", err)
	}
	if len(unlocked) != 2 {
		t.Errorf("ledger has %d badges, want 2 kept after toggling off", len(unlocked))
	}

	res, err = tr.Toggle(ctx, "Read", "", "")
	if err != nil {
		t.Fatalf("third Toggle failed: %v", err)
	}
	if !res.Done || len(res.Unlocked) != 0 {
		t.Errorf("revived toggle = %+v, want done with nothing new", res)
	}
}

func TestToggleRevivesEntry(t *testing.T) {
	ctx := context.Background()
	tr, store := setupTracker(t, wednesday)
	mustAdd(t, tr, "Read")

	toggle := func(note string) {
		t.Helper()
		if _, err := tr.Toggle(ctx, "Read", "2026-10-20", note); err != nil {
			t.Fatal(err)
		}
	}
	habit, err := store.GetHabitByName("Read")
	if err != nil {
		t.Fatal(err)
	}
	load := func() models.HabitEntry {
		t.Helper()
		entry, err := store.GetHabitEntry(habit.ID, "2026-10-20")
		if err != nil {
			t.Fatal(err)
		}
		return entry
	}

	toggle("first note")
	created := load()
	toggle("")
	toggle("")

	entry := load()
	if !entry.Done() || entry.Note != "first note" {
		t.Errorf("entry = %+v, want live with original note", entry)
	}
	if entry.ID != created.ID || !entry.UpdatedAt.Equal(wednesday) {
		t.Errorf("revived entry = %+v, want row %s stamped %v", entry, created.ID, wednesday)
	}

	toggle("")
	toggle("second note")
	if entry = load(); !entry.Done() || entry.Note != "second note" {
		t.Errorf("entry = %+v, want live with replaced note", entry)
	}
}

func TestToggleErrors(t *testing.T) {
	ctx := context.Background()
	tr, _ := setupTracker(t, wednesday)
	mustAdd(t, tr, "Read")

	tests := []struct {
		name  string
		habit string
		day   string
		want  error
	}{
		{name: "unknown habit", habit: "Run", want: ErrHabitNotFound},
		{name: "bad day", habit: "Read", day: "21/10/2026", want: ErrInvalidDay},
		{name: "future day", habit: "Read", day: "2026-10-22", want: ErrFutureDay},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tr.Toggle(ctx, tt.habit, tt.day, ""); !errors.Is(err, tt.want) {
				t.Errorf("Toggle() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestToggleLevelUp(t *testing.T) {
	ctx := context.Background()
	tr, _ := setupTracker(t, wednesday)
	mustAdd(t, tr, "Read")

	var last ToggleResult
	for i := 19; i >= 0; i-- {
		day := calendar.DayKey(calendar.AddDays(tr.Today(), -i))
		res, err := tr.Toggle(ctx, "Read", day, "")
		if err != nil {
			t.Fatalf("Toggle(%s) failed: %v", day, err)
		}
		if i > 0 && res.LeveledUp() {
			t.Fatalf("leveled up early on %s", day)
		}
		last = res
	}
	if !last.LeveledUp() || last.LevelAfter != 2 {
		t.Errorf("last toggle = %+v, want level up to 2", last)
	}
	if !slices.Contains(badgeIDs(last.Unlocked), "level_2") {
		t.Errorf("unlocked %v, want level_2", badgeIDs(last.Unlocked))
	}
}

func TestDeletedHabitStopsCounting(t *testing.T) {
	ctx := context.Background()
	tr, _ := setupTracker(t, wednesday)
	mustAdd(t, tr, "Read", "Run")

	for _, name := range []string{"Read", "Run"} {
		if _, err := tr.Toggle(ctx, name, "", ""); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := tr.DeleteHabit(ctx, "Run"); err != nil {
		t.Fatalf("DeleteHabit failed: %v", err)
	}

	snap, err := tr.Snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Metrics.XP != 10 || len(snap.Habits) != 1 {
		t.Errorf("after delete: xp=%d habits=%d, want 10 and 1", snap.Metrics.XP, len(snap.Habits))
	}

	if _, err := tr.RestoreHabit(ctx, "Run"); err != nil {
		t.Fatalf("RestoreHabit failed: %v", err)
	}
	if snap, _ = tr.Snapshot(ctx); snap.Metrics.XP != 20 {
		t.Errorf("after restore: xp=%d, want 20", snap.Metrics.XP)
	}
	if _, err := tr.RestoreHabit(ctx, "Run"); !errors.Is(err, ErrHabitNotFound) {
		t.Errorf("second restore = %v, want ErrHabitNotFound", err)
	}
}

func TestAddHabitUnlocksCollector(t *testing.T) {
	ctx := context.Background()
	tr, _ := setupTracker(t, wednesday)
	mustAdd(t, tr, "Read", "Run")

	_, badges, err := tr.AddHabit(ctx, "Write")
	if err != nil {
		t.Fatal(err)
	}
	if got := badgeIDs(badges); !slices.Equal(got, []string{"create_3_habits"}) {
		t.Errorf("unlocked %v, want create_3_habits", got)
	}

	if _, _, err := tr.AddHabit(ctx, "Write"); !errors.Is(err, ErrHabitExists) {
		t.Errorf("duplicate AddHabit = %v, want ErrHabitExists", err)
	}
	if _, _, err := tr.AddHabit(ctx, "  "); err == nil {
		t.Error("expected error for empty name")
	}
}

func TestArchiveCompletesDay(t *testing.T) {
	ctx := context.Background()
	tr, _ := setupTracker(t, wednesday)
	mustAdd(t, tr, "Read", "Run")

	res, err := tr.Toggle(ctx, "Read", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if slices.Contains(badgeIDs(res.Unlocked), "day_complete") {
		t.Fatal("day should not be complete with Run outstanding")
	}

	badges, err := tr.ArchiveHabit(ctx, "Run")
	if err != nil {
		t.Fatalf("ArchiveHabit failed: %v", err)
	}
	if !slices.Contains(badgeIDs(badges), "day_complete") {
		t.Errorf("unlocked %v, want day_complete once Run is archived", badgeIDs(badges))
	}

	if _, err := tr.UnarchiveHabit(ctx, "Run"); err != nil {
		t.Fatalf("UnarchiveHabit failed: %v", err)
	}
	habits, err := tr.Habits(ctx, false, false)
	if err != nil || len(habits) != 2 {
		t.Errorf("Habits() = %d, %v; want 2 active", len(habits), err)
	}
}

func TestDeleteCompletesDay(t *testing.T) {
	ctx := context.Background()
	tr, _ := setupTracker(t, wednesday)
	mustAdd(t, tr, "Read", "Run")

	if _, err := tr.Toggle(ctx, "Read", "", ""); err != nil {
		t.Fatal(err)
	}
	badges, err := tr.DeleteHabit(ctx, "Run")
	if err != nil {
		t.Fatalf("DeleteHabit failed: %v", err)
	}
	if !slices.Contains(badgeIDs(badges), "day_complete") {
		t.Errorf("unlocked %v, want day_complete once Run is deleted", badgeIDs(badges))
	}
}

func TestEntryQueries(t *testing.T) {
	ctx := context.Background()
	tr, _ := setupTracker(t, wednesday)
	mustAdd(t, tr, "Read", "Run")

	for _, day := range []string{"2026-10-19", "2026-10-20", "2026-10-21"} {
		if _, err := tr.Toggle(ctx, "Read", day, ""); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := tr.Toggle(ctx, "Run", "", "5k"); err != nil {
		t.Fatal(err)
	}
	// Toggled off again, so it must not be listed.
	for i := 0; i < 2; i++ {
		if _, err := tr.Toggle(ctx, "Run", "2026-10-20", ""); err != nil {
			t.Fatal(err)
		}
	}

	today, err := tr.EntriesForDay(ctx, "2026-10-21")
	if err != nil {
		t.Fatalf("EntriesForDay failed: %v", err)
	}
	if len(today) != 2 {
		t.Errorf("EntriesForDay = %d entries, want 2", len(today))
	}

	read, err := tr.Habit(ctx, "Read")
	if err != nil {
		t.Fatalf("Habit failed: %v", err)
	}
	ranged, err := tr.EntriesForHabit(ctx, read.ID, "2026-10-20", "2026-10-21")
	if err != nil {
		t.Fatalf("EntriesForHabit failed: %v", err)
	}
	if len(ranged) != 2 || ranged[0].Day != "2026-10-21" {
		t.Errorf("EntriesForHabit = %+v, want 2 entries newest first", ranged)
	}

	run, _ := tr.Habit(ctx, "Run")
	if got, _ := tr.EntriesForHabit(ctx, run.ID, "2026-10-01", "2026-10-21"); len(got) != 1 {
		t.Errorf("Run entries = %+v, want only today's", got)
	}
	if _, err := tr.Habit(ctx, "Swim"); !errors.Is(err, ErrHabitNotFound) {
		t.Errorf("Habit(Swim) = %v, want ErrHabitNotFound", err)
	}
}

func TestBackfillIgnoresRecordingTime(t *testing.T) {
	ctx := context.Background()
	dawn := time.Date(2026, 10, 21, 5, 15, 0, 0, time.UTC)
	tr, _ := setupTracker(t, dawn)
	mustAdd(t, tr, "Read")

	res, err := tr.Toggle(ctx, "Read", "2026-10-20", "")
	if err != nil {
		t.Fatal(err)
	}
	if slices.Contains(badgeIDs(res.Unlocked), "early_bird") {
		t.Error("backfilled checkin should not count as early")
	}

	res, err = tr.Toggle(ctx, "Read", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Contains(badgeIDs(res.Unlocked), "early_bird") {
		t.Errorf("unlocked %v, want early_bird", badgeIDs(res.Unlocked))
	}
}

func TestNotifications(t *testing.T) {
	ctx := context.Background()

	t.Run("enabled", func(t *testing.T) {
		n := &recordingNotifier{}
		tr, _ := setupTracker(t, wednesday, WithNotifier(n))
		mustAdd(t, tr, "Read")
		if _, err := tr.Toggle(ctx, "Read", "", ""); err != nil {
			t.Fatal(err)
		}
		if len(n.messages) != 1 || !strings.Contains(n.messages[0], "First Step") {
			t.Errorf("messages = %v", n.messages)
		}
	})

	t.Run("disabled", func(t *testing.T) {
		n := &recordingNotifier{}
		tr, store := setupTracker(t, wednesday, WithNotifier(n))
		settings, err := store.GetSettings()
		if err != nil {
			t.Fatal(err)
		}
		settings.NotificationsEnabled = false
		if err := store.SaveSettings(settings); err != nil {
			t.Fatal(err)
		}
		mustAdd(t, tr, "Read")
		if _, err := tr.Toggle(ctx, "Read", "", ""); err != nil {
			t.Fatal(err)
		}
		if len(n.messages) != 0 {
			t.Errorf("messages = %v, want none", n.messages)
		}
	})

	t.Run("failure does not abort", func(t *testing.T) {
		for _, notifyErr := range []error{notifier.ErrTrayNotRunning, errors.New("connection refused")} {
			n := &recordingNotifier{err: notifyErr}
			tr, _ := setupTracker(t, wednesday, WithNotifier(n))
			mustAdd(t, tr, "Read")
			res, err := tr.Toggle(ctx, "Read", "", "")
			if err != nil {
				t.Fatalf("Toggle failed: %v", err)
			}
			if len(res.Unlocked) == 0 {
				t.Error("badges should still be unlocked")
			}
		}
	})
}

func TestUnlockMessage(t *testing.T) {
	one := []models.Badge{{Name: "First Step", Icon: "🎯"}}
	if got := UnlockMessage(one); got != "Badge unlocked: 🎯 First Step" {
		t.Errorf("UnlockMessage(one) = %q", got)
	}
	two := append(one, models.Badge{Name: "Perfect Day", Icon: "⭐"})
	if got := UnlockMessage(two); got != "2 badges unlocked: 🎯 First Step, ⭐ Perfect Day" {
		t.Errorf("UnlockMessage(two) = %q", got)
	}
}

func TestEquip(t *testing.T) {
	ctx := context.Background()
	tr, store := setupTracker(t, wednesday)
	mustAdd(t, tr, "Read")

	if err := tr.Equip(ctx, "first_checkin"); !errors.Is(err, ErrNotUnlocked) {
		t.Fatalf("Equip before unlock = %v, want ErrNotUnlocked", err)
	}
	if _, err := tr.Toggle(ctx, "Read", "", ""); err != nil {
		t.Fatal(err)
	}
	if err := tr.Equip(ctx, "first_checkin"); err != nil {
		t.Fatalf("Equip failed: %v", err)
	}
	settings, _ := store.GetSettings()
	if settings.EquippedBadge != "first_checkin" {
		t.Errorf("equipped = %q", settings.EquippedBadge)
	}

	if err := tr.Unequip(ctx); err != nil {
		t.Fatal(err)
	}
	settings, _ = store.GetSettings()
	if settings.EquippedBadge != "" {
		t.Errorf("equipped after Unequip = %q", settings.EquippedBadge)
	}
}

func TestRefreshIsIdempotent(t *testing.T) {
	ctx := context.Background()
	tr, _ := setupTracker(t, wednesday)
	mustAdd(t, tr, "Read")
	if _, err := tr.Toggle(ctx, "Read", "", ""); err != nil {
		t.Fatal(err)
	}
	badges, err := tr.Refresh(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(badges) != 0 {
		t.Errorf("Refresh re-reported %v", badgeIDs(badges))
	}
}
