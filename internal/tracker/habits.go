package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/habitquest/internal/models"
)

// AddHabit creates a habit and re-evaluates achievements, since habit-count
// badges depend on it.
func (t *Tracker) AddHabit(ctx context.Context, name string) (models.Habit, []models.Badge, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return models.Habit{}, nil, errors.New("habit name cannot be empty")
	}
	if _, err := t.liveHabit(name); err == nil {
		return models.Habit{}, nil, fmt.Errorf("%w: %s", ErrHabitExists, name)
	} else if !errors.Is(err, ErrHabitNotFound) {
		return models.Habit{}, nil, err
	}

	habit := models.Habit{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: t.clock.Now(),
	}
	if err := t.store.AddHabit(habit); err != nil {
		return models.Habit{}, nil, fmt.Errorf("failed to add habit: %w", err)
	}

	_, badges, err := t.refresh(ctx)
	return habit, badges, err
}

// Habits lists habits; archived and deleted ones only when asked for.
func (t *Tracker) Habits(ctx context.Context, includeArchived, includeDeleted bool) ([]models.Habit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return t.store.GetAllHabits(includeArchived, includeDeleted)
}

// ArchiveHabit takes a habit out of perfect-day accounting while keeping its
// history. Fewer active habits can complete today, so achievements are
// re-evaluated.
func (t *Tracker) ArchiveHabit(ctx context.Context, name string) ([]models.Badge, error) {
	return t.mutateHabit(ctx, name, false, func(h models.Habit) error {
		return t.store.ArchiveHabit(h.ID)
	})
}

// UnarchiveHabit returns a habit to perfect-day accounting.
func (t *Tracker) UnarchiveHabit(ctx context.Context, name string) ([]models.Badge, error) {
	return t.mutateHabit(ctx, name, false, func(h models.Habit) error {
		return t.store.UnarchiveHabit(h.ID)
	})
}

// DeleteHabit soft-deletes a habit. Its entries stay in storage but no longer
// count toward any metric. The remaining habits may now complete today.
func (t *Tracker) DeleteHabit(ctx context.Context, name string) ([]models.Badge, error) {
	return t.mutateHabit(ctx, name, false, func(h models.Habit) error {
		return t.store.DeleteHabit(h.ID)
	})
}

// RestoreHabit undoes DeleteHabit. Restored history may unlock badges.
func (t *Tracker) RestoreHabit(ctx context.Context, name string) ([]models.Badge, error) {
	return t.mutateHabit(ctx, name, true, func(h models.Habit) error {
		return t.store.RestoreHabit(h.ID)
	})
}

func (t *Tracker) mutateHabit(ctx context.Context, name string, deleted bool, fn func(models.Habit) error) ([]models.Badge, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var habit models.Habit
	var err error
	if deleted {
		habit, err = t.deletedHabit(name)
	} else {
		habit, err = t.liveHabit(name)
	}
	if err != nil {
		return nil, err
	}
	if err := fn(habit); err != nil {
		return nil, err
	}

	_, badges, err := t.refresh(ctx)
	return badges, err
}

// deletedHabit finds the most recently deleted habit with the given name.
func (t *Tracker) deletedHabit(name string) (models.Habit, error) {
	habits, err := t.store.GetAllHabits(true, true)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to load habits: %w", err)
	}
	var found *models.Habit
	for i := range habits {
		h := &habits[i]
		if h.DeletedAt == nil || h.Name != strings.TrimSpace(name) {
			continue
		}
		if found == nil || h.DeletedAt.After(*found.DeletedAt) {
			found = h
		}
	}
	if found == nil {
		return models.Habit{}, fmt.Errorf("%w: no deleted habit named %s", ErrHabitNotFound, name)
	}
	return *found, nil
}

// Equip shows an unlocked badge as the user's title.
func (t *Tracker) Equip(ctx context.Context, badgeID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	unlocks, err := t.Unlocked(ctx)
	if err != nil {
		return err
	}
	owned := false
	for _, u := range unlocks {
		if u.BadgeID == badgeID {
			owned = true
			break
		}
	}
	if !owned {
		return fmt.Errorf("%w: %s", ErrNotUnlocked, badgeID)
	}
	return t.setEquipped(badgeID)
}

func (t *Tracker) Unequip(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return t.setEquipped("")
}

func (t *Tracker) setEquipped(badgeID string) error {
	settings, err := t.store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	settings.EquippedBadge = badgeID
	if err := t.store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
