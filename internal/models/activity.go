package models

import "time"

// ActivityKind is the closed set of schedulable activity variants.
type ActivityKind string

const (
	// KindTask is a regular activity with a working-unit duration.
	KindTask ActivityKind = "task"
	// KindMilestone is a zero-duration marker; start always equals finish.
	KindMilestone ActivityKind = "milestone"
	// KindSummary is a phase/WBS grouping; its dates are derived from its
	// children by roll-up and are never authoritative input.
	KindSummary ActivityKind = "summary"
)

// WorkUnit selects the working-time unit durations and lags are expressed in.
type WorkUnit string

const (
	UnitDay  WorkUnit = "day"
	UnitHour WorkUnit = "hour"
)

// Activity is a single schedulable unit.
type Activity struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Kind            ActivityKind `json:"kind"`
	DurationUnits   int          `json:"duration_units"`
	PercentComplete float64      `json:"percent_complete"`
	ParentID        string       `json:"parent_id,omitempty"`
	CalendarID      string       `json:"calendar_id,omitempty"`
	ManualStart     *time.Time   `json:"manual_start,omitempty"`
	ManualEnd       *time.Time   `json:"manual_end,omitempty"`
}

// IsSummary reports whether the activity is a phase/WBS grouping.
func (a *Activity) IsSummary() bool { return a.Kind == KindSummary }

// IsMilestone reports whether the activity is a zero-duration marker.
func (a *Activity) IsMilestone() bool { return a.Kind == KindMilestone }

// Duration returns the activity's scheduling duration in working units.
// Milestones are always zero regardless of the stored value; summary
// durations are derived by roll-up, never read from here.
func (a *Activity) Duration() int {
	if a.Kind == KindMilestone {
		return 0
	}
	return a.DurationUnits
}
