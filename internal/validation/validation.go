package validation

import (
	"fmt"

	"github.com/jgoncalves802/visualplan/internal/calendar"
	"github.com/jgoncalves802/visualplan/internal/models"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateID       ConflictType = "duplicate_id"
	ConflictUnknownCalendar   ConflictType = "unknown_calendar"
	ConflictInvalidCalendar   ConflictType = "invalid_calendar"
	ConflictMissingParent     ConflictType = "missing_parent"
	ConflictNonSummaryParent  ConflictType = "non_summary_parent"
	ConflictHierarchyCycle    ConflictType = "hierarchy_cycle"
	ConflictMilestoneDuration ConflictType = "milestone_duration"
	ConflictInvalidPercent    ConflictType = "invalid_percent"
	ConflictManualDateOrder   ConflictType = "manual_date_order"
	ConflictUnknownDepType    ConflictType = "unknown_dependency_type"
)

// Conflict represents a detected data-quality problem in a project
type Conflict struct {
	Type        ConflictType
	Description string
	ActivityID  string
}

// Result contains all detected conflicts
type Result struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (r *Result) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (r *Result) FormatReport() string {
	if !r.HasConflicts() {
		return "No conflicts detected."
	}

	report := "Conflicts detected:\n"
	for _, c := range r.Conflicts {
		report += fmt.Sprintf("- %s\n", c.Description)
	}
	return report
}

// Validator validates project records before they reach the engine
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateProject checks a full project for conflicts. Calendar problems
// (including malformed exception recurrences) are caught here, at
// registration time, rather than during a scheduling pass.
func (v *Validator) ValidateProject(p models.Project) Result {
	var res Result

	calIDs := make(map[string]bool, len(p.Calendars))
	for _, cal := range p.Calendars {
		if calIDs[cal.ID] {
			res.add(ConflictDuplicateID, "", "duplicate calendar id %q", cal.ID)
			continue
		}
		calIDs[cal.ID] = true
		if _, err := calendar.NewResolver(cal); err != nil {
			res.add(ConflictInvalidCalendar, "", "%v", err)
		}
	}

	byID := make(map[string]*models.Activity, len(p.Activities))
	for i := range p.Activities {
		a := &p.Activities[i]
		if _, dup := byID[a.ID]; dup {
			res.add(ConflictDuplicateID, a.ID, "duplicate activity id %q", a.ID)
			continue
		}
		byID[a.ID] = a

		if a.CalendarID != "" && !calIDs[a.CalendarID] {
			res.add(ConflictUnknownCalendar, a.ID, "activity %q references unknown calendar %q", a.ID, a.CalendarID)
		}
		if a.IsMilestone() && a.DurationUnits != 0 {
			res.add(ConflictMilestoneDuration, a.ID, "milestone %q has non-zero duration %d", a.ID, a.DurationUnits)
		}
		if a.PercentComplete < 0 || a.PercentComplete > 100 {
			res.add(ConflictInvalidPercent, a.ID, "activity %q percent complete %.1f outside 0-100", a.ID, a.PercentComplete)
		}
		if a.ManualStart != nil && a.ManualEnd != nil && a.ManualEnd.Before(*a.ManualStart) {
			res.add(ConflictManualDateOrder, a.ID, "activity %q manual end precedes manual start", a.ID)
		}
	}

	for i := range p.Activities {
		a := &p.Activities[i]
		if a.ParentID == "" {
			continue
		}
		parent, ok := byID[a.ParentID]
		if !ok {
			res.add(ConflictMissingParent, a.ID, "activity %q references missing parent %q", a.ID, a.ParentID)
			continue
		}
		if !parent.IsSummary() {
			res.add(ConflictNonSummaryParent, a.ID, "activity %q parent %q is not a summary", a.ID, a.ParentID)
		}
		if cycleID, ok := parentCycle(a, byID); ok {
			res.add(ConflictHierarchyCycle, a.ID, "hierarchy cycle through activity %q", cycleID)
		}
	}

	for _, dep := range p.Dependencies {
		if !dep.Type.Valid() {
			res.add(ConflictUnknownDepType, dep.FromID, "dependency %s -> %s has unknown type %q", dep.FromID, dep.ToID, dep.Type)
		}
	}

	return res
}

func (r *Result) add(t ConflictType, activityID, format string, args ...interface{}) {
	r.Conflicts = append(r.Conflicts, Conflict{
		Type:        t,
		ActivityID:  activityID,
		Description: fmt.Sprintf(format, args...),
	})
}

func parentCycle(a *models.Activity, byID map[string]*models.Activity) (string, bool) {
	seen := map[string]bool{a.ID: true}
	cur := a
	for cur.ParentID != "" {
		if seen[cur.ParentID] {
			return cur.ParentID, true
		}
		seen[cur.ParentID] = true
		next, ok := byID[cur.ParentID]
		if !ok {
			return "", false
		}
		cur = next
	}
	return "", false
}
