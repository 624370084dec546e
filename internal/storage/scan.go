package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/julianstephens/habitquest/internal/models"
)

// Timestamps are stored as RFC 3339 text in every backend.

// RowScanner is satisfied by *sql.Row and *sql.Rows.
type RowScanner interface {
	Scan(dest ...any) error
}

const (
	HabitColumns = "id, name, created_at, archived_at, deleted_at"
	EntryColumns = "id, habit_id, day, note, created_at, updated_at, deleted_at"
)

func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// NullTime converts an optional timestamp to a nullable column value.
func NullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: FormatTime(*t), Valid: true}
}

func parseTime(field, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", field, err)
	}
	return t, nil
}

func parseNullTime(field string, value sql.NullString) (*time.Time, error) {
	if !value.Valid {
		return nil, nil
	}
	t, err := parseTime(field, value.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ScanHabit reads one row selected with HabitColumns.
func ScanHabit(row RowScanner) (models.Habit, error) {
	var h models.Habit
	var createdAt string
	var archivedAt, deletedAt sql.NullString
	if err := row.Scan(&h.ID, &h.Name, &createdAt, &archivedAt, &deletedAt); err != nil {
		return models.Habit{}, err
	}

	var err error
	if h.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.Habit{}, fmt.Errorf("habit %s: %w", h.ID, err)
	}
	if h.ArchivedAt, err = parseNullTime("archived_at", archivedAt); err != nil {
		return models.Habit{}, fmt.Errorf("habit %s: %w", h.ID, err)
	}
	if h.DeletedAt, err = parseNullTime("deleted_at", deletedAt); err != nil {
		return models.Habit{}, fmt.Errorf("habit %s: %w", h.ID, err)
	}
	return h, nil
}

// ScanHabitEntry reads one row selected with EntryColumns.
func ScanHabitEntry(row RowScanner) (models.HabitEntry, error) {
	var e models.HabitEntry
	var createdAt, updatedAt string
	var deletedAt sql.NullString
	if err := row.Scan(&e.ID, &e.HabitID, &e.Day, &e.Note, &createdAt, &updatedAt, &deletedAt); err != nil {
		return models.HabitEntry{}, err
	}

	var err error
	if e.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.HabitEntry{}, fmt.Errorf("entry %s: %w", e.ID, err)
	}
	if e.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return models.HabitEntry{}, fmt.Errorf("entry %s: %w", e.ID, err)
	}
	if e.DeletedAt, err = parseNullTime("deleted_at", deletedAt); err != nil {
		return models.HabitEntry{}, fmt.Errorf("entry %s: %w", e.ID, err)
	}
	return e, nil
}

// CollectHabits drains rows with ScanHabit.
func CollectHabits(rows *sql.Rows) ([]models.Habit, error) {
	defer rows.Close()
	habits := []models.Habit{}
	for rows.Next() {
		h, err := ScanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

// CollectHabitEntries drains rows with ScanHabitEntry.
func CollectHabitEntries(rows *sql.Rows) ([]models.HabitEntry, error) {
	defer rows.Close()
	entries := []models.HabitEntry{}
	for rows.Next() {
		e, err := ScanHabitEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CollectUnlocks drains rows of (badge_id, unlocked_at).
func CollectUnlocks(rows *sql.Rows) ([]models.UnlockedBadge, error) {
	defer rows.Close()
	unlocks := []models.UnlockedBadge{}
	for rows.Next() {
		var u models.UnlockedBadge
		var at string
		if err := rows.Scan(&u.BadgeID, &at); err != nil {
			return nil, err
		}
		t, err := parseTime("unlocked_at", at)
		if err != nil {
			return nil, fmt.Errorf("badge %s: %w", u.BadgeID, err)
		}
		u.UnlockedAt = t
		unlocks = append(unlocks, u)
	}
	return unlocks, rows.Err()
}

// ExpectOne turns a zero-row update into an error.
func ExpectOne(result sql.Result, what string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, sql.ErrNoRows)
	}
	return nil
}
