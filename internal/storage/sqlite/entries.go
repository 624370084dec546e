package sqlite

import (
	"time"

	"github.com/julianstephens/habitquest/internal/models"
	"github.com/julianstephens/habitquest/internal/storage"
)

func (s *Store) AddHabitEntry(entry models.HabitEntry) error {
	return s.UpdateHabitEntry(entry)
}

func (s *Store) GetHabitEntry(habitID, day string) (models.HabitEntry, error) {
	return storage.ScanHabitEntry(s.db.QueryRow(
		"SELECT "+storage.EntryColumns+" FROM habit_entries WHERE habit_id = ? AND day = ?",
		habitID, day))
}

func (s *Store) GetHabitEntriesForDay(day string) ([]models.HabitEntry, error) {
	rows, err := s.db.Query(
		"SELECT "+storage.EntryColumns+" FROM habit_entries WHERE day = ? AND deleted_at IS NULL ORDER BY created_at",
		day)
	if err != nil {
		return nil, err
	}
	return storage.CollectHabitEntries(rows)
}

func (s *Store) GetHabitEntriesForHabit(habitID string, startDay, endDay string) ([]models.HabitEntry, error) {
	rows, err := s.db.Query(`
		SELECT `+storage.EntryColumns+` FROM habit_entries
		WHERE habit_id = ? AND day >= ? AND day <= ? AND deleted_at IS NULL
		ORDER BY day DESC`, habitID, startDay, endDay)
	if err != nil {
		return nil, err
	}
	return storage.CollectHabitEntries(rows)
}

// GetAllHabitEntries returns every entry, tombstones included.
func (s *Store) GetAllHabitEntries() ([]models.HabitEntry, error) {
	rows, err := s.db.Query("SELECT " + storage.EntryColumns + " FROM habit_entries ORDER BY day, habit_id")
	if err != nil {
		return nil, err
	}
	return storage.CollectHabitEntries(rows)
}

// UpdateHabitEntry upserts on (habit_id, day); the row id of an existing entry is kept.
func (s *Store) UpdateHabitEntry(entry models.HabitEntry) error {
	_, err := s.db.Exec(`
		INSERT INTO habit_entries (id, habit_id, day, note, created_at, updated_at, deleted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(habit_id, day) DO UPDATE SET
			note = excluded.note,
			updated_at = excluded.updated_at,
			deleted_at = excluded.deleted_at`,
		entry.ID, entry.HabitID, entry.Day, entry.Note,
		storage.FormatTime(entry.CreatedAt), storage.FormatTime(entry.UpdatedAt),
		storage.NullTime(entry.DeletedAt))
	return err
}

func (s *Store) DeleteHabitEntry(id string) error {
	now := storage.FormatTime(time.Now())
	result, err := s.db.Exec(
		"UPDATE habit_entries SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL",
		now, now, id)
	if err != nil {
		return err
	}
	return storage.ExpectOne(result, "habit entry not found or already deleted")
}

func (s *Store) RestoreHabitEntry(id string, at time.Time) error {
	result, err := s.db.Exec(
		"UPDATE habit_entries SET deleted_at = NULL, updated_at = ? WHERE id = ? AND deleted_at IS NOT NULL",
		storage.FormatTime(at), id)
	if err != nil {
		return err
	}
	return storage.ExpectOne(result, "habit entry not found or not deleted")
}
