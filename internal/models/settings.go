package models

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitquest/internal/constants"
)

// Settings represents application-wide settings
type Settings struct {
	DayStart             string `json:"day_start"`             // when the user's day starts, e.g. "07:00"
	Timezone             string `json:"timezone"`              // IANA timezone name (e.g. "America/New_York", or "Local" for system timezone)
	NotificationsEnabled bool   `json:"notifications_enabled"` // whether badge unlocks are sent to the tray app
	EquippedBadge        string `json:"equipped_badge"`        // unlocked badge shown as the user's title, empty for none
}

// Validate checks the day start format and the timezone name.
func (s Settings) Validate() error {
	if _, err := time.Parse(constants.TimeFormat, s.DayStart); err != nil {
		return fmt.Errorf("invalid day start %q (expected HH:MM)", s.DayStart)
	}
	if s.Timezone != "" && s.Timezone != "Local" {
		if _, err := time.LoadLocation(s.Timezone); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", s.Timezone, err)
		}
	}
	return nil
}
