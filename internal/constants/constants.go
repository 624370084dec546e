package constants

import "time"

const (
	AppName            = "habitquest"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/habitquest/habitquest.db"
	Version            = "v0.1.0"

	// DateFormat is the day-key format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the clock format used for settings such as day start (HH:MM)
	TimeFormat = "15:04"

	// Progression constants
	XPPerCheckin = 10
	XPPerLevel   = 200

	// MaxLookbackDays bounds every backward streak walk (roughly ten years)
	MaxLookbackDays = 3660

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habitquest-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "habitquest-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.habitquest"
	TrayAppExecutable      = "habitquest-tray"

	// Log constants
	LogDirName     = "logs"
	LogFileName    = "habitquest.log"
	LogMaxSizeMB   = 10
	LogMaxBackups  = 3
	LogMaxAgeDays  = 28
	LogCompressOld = true

	// Environment variables
	EnvConfig       = "HABITQUEST_CONFIG"
	EnvDebug        = "HABITQUEST_DEBUG"
	EnvDBConnection = "HABITQUEST_DB_CONNECTION"
)
