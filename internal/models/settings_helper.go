package models

import (
	"fmt"

	"github.com/julianstephens/habitquest/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingDayStart:
			settings.DayStart = value
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingEquippedBadge:
			settings.EquippedBadge = value
		case constants.SettingNotificationsEnabled:
			switch value {
			case "true":
				settings.NotificationsEnabled = true
			case "false":
				settings.NotificationsEnabled = false
			default:
				return Settings{}, fmt.Errorf("parsing notifications_enabled: invalid boolean %q", value)
			}
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingDayStart:             settings.DayStart,
		constants.SettingTimezone:             settings.Timezone,
		constants.SettingNotificationsEnabled: fmt.Sprintf("%v", settings.NotificationsEnabled),
		constants.SettingEquippedBadge:        settings.EquippedBadge,
	}
}

// DefaultSettings returns the settings written by init.
func DefaultSettings() Settings {
	return Settings{
		DayStart:             constants.DefaultDayStart,
		Timezone:             constants.DefaultTimezone,
		NotificationsEnabled: constants.DefaultNotificationsEnabled,
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.DayStart == "" {
		settings.DayStart = constants.DefaultDayStart
	}
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
}
