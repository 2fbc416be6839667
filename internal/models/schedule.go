package models

import (
	"sort"
	"time"
)

// WarningCode identifies a data-quality issue attached to a successful
// schedule computation. Warnings never block a recomputation.
type WarningCode string

const (
	// WarnUnanchored marks an auto-scheduled activity reachable from no
	// root; it was anchored to the project start by convention.
	WarnUnanchored WarningCode = "unanchored_activity"
	// WarnClampedDuration marks an activity whose constraints would force a
	// negative duration; it was clamped to zero instead of dropped.
	WarnClampedDuration WarningCode = "clamped_negative_duration"
	// WarnEmptySummary marks a summary activity with no children; its dates
	// are left unset.
	WarnEmptySummary WarningCode = "empty_summary"
)

// Warning is additive metadata on a ScheduleResult.
type Warning struct {
	Code       WarningCode `json:"code"`
	ActivityID string      `json:"activity_id,omitempty"`
	Message    string      `json:"message"`
}

// ActivitySchedule is the resolved schedule for a single activity. Floats
// are expressed in the project's working unit; summary entries with no
// children leave the date pointers nil.
type ActivitySchedule struct {
	ActivityID  string     `json:"activity_id"`
	EarlyStart  *time.Time `json:"early_start,omitempty"`
	EarlyFinish *time.Time `json:"early_finish,omitempty"`
	LateStart   *time.Time `json:"late_start,omitempty"`
	LateFinish  *time.Time `json:"late_finish,omitempty"`
	TotalFloat  float64    `json:"total_float"`
	FreeFloat   float64    `json:"free_float"`
	IsCritical  bool       `json:"is_critical"`

	// DurationUnits is the resolved duration: the declared duration for
	// tasks, zero for milestones, and the calendar span of the children for
	// summaries.
	DurationUnits float64 `json:"duration_units"`
	// PercentComplete is the stored value for leaves and the
	// duration-weighted average of children for summaries.
	PercentComplete float64 `json:"percent_complete"`
}

// ScheduleResult is one complete, immutable schedule computation. A new
// result replaces the previous one atomically; entries are never mutated
// after publication.
type ScheduleResult struct {
	Activities      map[string]*ActivitySchedule `json:"activities"`
	ProjectStart    time.Time                    `json:"project_start"`
	ProjectFinish   time.Time                    `json:"project_finish"`
	ProjectDuration float64                      `json:"project_duration"`
	Unit            WorkUnit                     `json:"unit"`
	Warnings        []Warning                    `json:"warnings,omitempty"`
	ComputedAt      time.Time                    `json:"computed_at"`
}

// Critical returns the ids of all critical activities in ascending order of
// early start, then id. The slice is freshly allocated on every call.
func (r *ScheduleResult) Critical() []string {
	var ids []string
	for id, as := range r.Activities {
		if as.IsCritical {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		si, sj := r.Activities[ids[i]], r.Activities[ids[j]]
		switch {
		case si.EarlyStart == nil:
			return false
		case sj.EarlyStart == nil:
			return true
		case si.EarlyStart.Equal(*sj.EarlyStart):
			return ids[i] < ids[j]
		default:
			return si.EarlyStart.Before(*sj.EarlyStart)
		}
	})
	return ids
}
