package models

import "time"

// RecurrenceType is the repetition pattern of a calendar exception.
type RecurrenceType string

const (
	RecurrenceNone    RecurrenceType = "none"
	RecurrenceDaily   RecurrenceType = "daily"
	RecurrenceWeekly  RecurrenceType = "weekly"
	RecurrenceMonthly RecurrenceType = "monthly"
	RecurrenceYearly  RecurrenceType = "yearly"
)

// Valid reports whether t is a known recurrence type.
func (t RecurrenceType) Valid() bool {
	switch t {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceYearly:
		return true
	}
	return false
}

// Recurrence describes how a calendar exception repeats. Interval is in
// units of the recurrence type (every N days/weeks/months/years) and
// defaults to 1. Until (YYYY-MM-DD, inclusive) and Count are optional end
// conditions; when both are zero-valued the exception repeats forever and
// is only ever evaluated lazily within a bounded query window.
type Recurrence struct {
	Type     RecurrenceType `json:"type"`
	Interval int            `json:"interval,omitempty"`
	Until    string         `json:"until,omitempty"`
	Count    int            `json:"count,omitempty"`
}

// Window is a working time-of-day range in HH:MM format, start inclusive,
// end exclusive. Multiple windows per day express split shifts.
type Window struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// CalendarException overrides the weekly pattern for a date range
// (YYYY-MM-DD, inclusive on both ends). When Working is true the day
// becomes working, using Windows when present and the calendar's default
// windows otherwise. Later-declared, narrower-range exceptions win on
// conflicting dates.
type CalendarException struct {
	Name       string     `json:"name,omitempty"`
	Start      string     `json:"start"`
	End        string     `json:"end"`
	Working    bool       `json:"working"`
	Windows    []Window   `json:"windows,omitempty"`
	Recurrence Recurrence `json:"recurrence"`
}

// Calendar is a working-time policy: a weekly pattern of working days with
// daily working windows, plus dated exceptions.
type Calendar struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	WorkingDays []time.Weekday      `json:"working_days"`
	Windows     []Window            `json:"windows"`
	Exceptions  []CalendarException `json:"exceptions,omitempty"`
}

// DefaultCalendar returns the built-in Mon-Fri 08:00-12:00/13:00-17:00
// project calendar used when a project declares none.
func DefaultCalendar() Calendar {
	return Calendar{
		ID:   "default",
		Name: "Standard",
		WorkingDays: []time.Weekday{
			time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
		},
		Windows: []Window{
			{Start: "08:00", End: "12:00"},
			{Start: "13:00", End: "17:00"},
		},
	}
}
