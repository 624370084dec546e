package constants

const (
	SettingDayStart             = "day_start"
	SettingTimezone             = "timezone"
	SettingNotificationsEnabled = "notifications_enabled"
	SettingEquippedBadge        = "equipped_badge"

	DefaultDayStart             = "07:00"
	DefaultTimezone             = "Local" // Use system local timezone by default
	DefaultNotificationsEnabled = true
)
