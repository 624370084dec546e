package models

import "time"

// Habit represents a practice the user checks in on every day
type Habit struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	CreatedAt  time.Time  `json:"created_at"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
}

// IsActive reports whether the habit counts toward perfect days.
func (h Habit) IsActive() bool {
	return h.ArchivedAt == nil && h.DeletedAt == nil
}

// HabitEntry is the stored form of a single day's completion.
// A toggled-off entry keeps its row with DeletedAt set.
type HabitEntry struct {
	ID        string     `json:"id"`
	HabitID   string     `json:"habit_id"`
	Day       string     `json:"day"` // YYYY-MM-DD format
	Note      string     `json:"note"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Done reports whether the entry currently marks the day as completed.
func (e HabitEntry) Done() bool {
	return e.DeletedAt == nil
}

// Checkin is the engine's read-only view of a completion.
type Checkin struct {
	HabitID string `json:"habit_id"`
	Day     string `json:"day"` // YYYY-MM-DD format
	Done    bool   `json:"done"`
	// RecordedAt is when the completion was logged; zero when unknown.
	RecordedAt time.Time `json:"recorded_at"`
}

// EntriesToCheckins converts stored entries into checkins. Tombstoned entries
// become Done=false, which the engine treats the same as a missing entry.
func EntriesToCheckins(entries []HabitEntry) []Checkin {
	checkins := make([]Checkin, 0, len(entries))
	for _, e := range entries {
		checkins = append(checkins, Checkin{
			HabitID:    e.HabitID,
			Day:        e.Day,
			Done:       e.Done(),
			RecordedAt: e.UpdatedAt,
		})
	}
	return checkins
}
