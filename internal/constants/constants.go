package constants

const (
	AppName           = "visualplan"
	DefaultConfigPath = "~/.config/visualplan/visualplan.db"
	Version           = "v0.2.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// DefaultDayStart and DefaultDayEnd bound the built-in project calendar's
	// working window when a project declares no calendar of its own.
	DefaultDayStart = "08:00"
	DefaultDayEnd   = "17:00"

	// MaxLookaheadDays bounds every calendar walk. A calendar that cannot
	// produce working time within this horizon is treated as invalid rather
	// than scanned forever.
	MaxLookaheadDays = 3660
)
