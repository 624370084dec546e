package models

import "time"

// BadgeCategory groups badges for display
type BadgeCategory string

const (
	CategoryBeginner   BadgeCategory = "beginner"
	CategoryStreak     BadgeCategory = "streak"
	CategoryLevel      BadgeCategory = "level"
	CategoryHabit      BadgeCategory = "habit"
	CategoryCompletion BadgeCategory = "completion"
	CategorySpecial    BadgeCategory = "special"
)

// Categories lists every badge category in display order.
var Categories = []BadgeCategory{
	CategoryBeginner,
	CategoryLevel,
	CategoryStreak,
	CategoryCompletion,
	CategoryHabit,
	CategorySpecial,
}

// ParseBadgeCategory validates a category name.
func ParseBadgeCategory(s string) (BadgeCategory, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// Badge is an immutable achievement definition
type Badge struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Icon        string        `json:"icon"`
	Category    BadgeCategory `json:"category"`
}

// UnlockedBadge is one row of the unlock ledger.
type UnlockedBadge struct {
	BadgeID    string    `json:"badge_id"`
	UnlockedAt time.Time `json:"unlocked_at"`
}
