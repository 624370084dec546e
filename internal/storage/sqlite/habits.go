package sqlite

import (
	"time"

	"github.com/julianstephens/habitquest/internal/models"
	"github.com/julianstephens/habitquest/internal/storage"
)

func (s *Store) AddHabit(habit models.Habit) error {
	return s.UpdateHabit(habit)
}

func (s *Store) GetHabitByName(name string) (models.Habit, error) {
	return storage.ScanHabit(s.db.QueryRow(
		"SELECT "+storage.HabitColumns+" FROM habits WHERE name = ? AND deleted_at IS NULL", name))
}

func (s *Store) GetAllHabits(includeArchived, includeDeleted bool) ([]models.Habit, error) {
	query := "SELECT " + storage.HabitColumns + " FROM habits WHERE 1=1"
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}
	if !includeArchived {
		query += " AND archived_at IS NULL"
	}
	query += " ORDER BY created_at, name"

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	return storage.CollectHabits(rows)
}

func (s *Store) UpdateHabit(habit models.Habit) error {
	_, err := s.db.Exec(`
		INSERT INTO habits (id, name, created_at, archived_at, deleted_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			archived_at = excluded.archived_at,
			deleted_at = excluded.deleted_at`,
		habit.ID, habit.Name, storage.FormatTime(habit.CreatedAt),
		storage.NullTime(habit.ArchivedAt), storage.NullTime(habit.DeletedAt))
	return err
}

func (s *Store) ArchiveHabit(id string) error {
	result, err := s.db.Exec(
		"UPDATE habits SET archived_at = ? WHERE id = ? AND deleted_at IS NULL AND archived_at IS NULL",
		storage.FormatTime(time.Now()), id)
	if err != nil {
		return err
	}
	return storage.ExpectOne(result, "habit not found or already archived")
}

func (s *Store) UnarchiveHabit(id string) error {
	result, err := s.db.Exec(
		"UPDATE habits SET archived_at = NULL WHERE id = ? AND deleted_at IS NULL AND archived_at IS NOT NULL", id)
	if err != nil {
		return err
	}
	return storage.ExpectOne(result, "habit not found or not archived")
}

func (s *Store) DeleteHabit(id string) error {
	result, err := s.db.Exec(
		"UPDATE habits SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL",
		storage.FormatTime(time.Now()), id)
	if err != nil {
		return err
	}
	return storage.ExpectOne(result, "habit not found or already deleted")
}

func (s *Store) RestoreHabit(id string) error {
	result, err := s.db.Exec(
		"UPDATE habits SET deleted_at = NULL WHERE id = ? AND deleted_at IS NOT NULL", id)
	if err != nil {
		return err
	}
	return storage.ExpectOne(result, "habit not found or not deleted")
}
