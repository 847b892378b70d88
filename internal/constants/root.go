package constants

import "time"

const (
	AppName            = "cyborg"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/cyborg/cyborg.db"
	DefaultOwner       = "local"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Food lookup constants
	DefaultFoodAPIURL     = "https://world.openfoodfacts.org"
	DefaultFoodAPITimeout = 10 * time.Second
	DefaultUserAgent      = "cyborg-nutrition/" + Version

	// Paging constants
	DefaultPageSize = 20
	MaxPageSize     = 100

	// Reporting constants
	MaxReportDays       = 31
	ReportReadWorkers   = 4
	DefaultMealTime     = "12:00"
	DuplicateNamePrefix = "Copy of "

	// MaxBackups is how many database backups are kept
	MaxBackups = 10
)
