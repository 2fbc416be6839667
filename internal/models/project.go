package models

import "time"

// Project bundles everything the engine needs for one computation. It is
// also the JSON import/export format used by the CLI's --file mode.
type Project struct {
	Name           string       `json:"name"`
	Start          time.Time    `json:"start"`
	Unit           WorkUnit     `json:"unit,omitempty"`
	CalendarID     string       `json:"calendar_id,omitempty"`
	AutoScheduling bool         `json:"auto_scheduling"`
	Activities     []Activity   `json:"activities"`
	Dependencies   []Dependency `json:"dependencies"`
	Calendars      []Calendar   `json:"calendars,omitempty"`
}
