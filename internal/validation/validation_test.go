package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/jgoncalves802/visualplan/internal/models"
)

func conflictTypes(r Result) map[ConflictType]int {
	m := make(map[ConflictType]int)
	for _, c := range r.Conflicts {
		m[c.Type]++
	}
	return m
}

func TestValidateProject_CleanProjectHasNoConflicts(t *testing.T) {
	p := models.Project{
		Start: time.Date(2026, time.January, 5, 8, 0, 0, 0, time.UTC),
		Calendars: []models.Calendar{
			models.DefaultCalendar(),
		},
		Activities: []models.Activity{
			{ID: "phase", Kind: models.KindSummary},
			{ID: "a", Kind: models.KindTask, ParentID: "phase", DurationUnits: 3, CalendarID: "default"},
			{ID: "m", Kind: models.KindMilestone, ParentID: "phase"},
		},
		Dependencies: []models.Dependency{
			{FromID: "a", ToID: "m", Type: models.FinishToStart},
		},
	}

	res := New().ValidateProject(p)
	if res.HasConflicts() {
		t.Errorf("unexpected conflicts: %v", res.Conflicts)
	}
	if got := res.FormatReport(); got != "No conflicts detected." {
		t.Errorf("FormatReport() = %q", got)
	}
}

func TestValidateProject_ActivityConflicts(t *testing.T) {
	start := time.Date(2026, time.January, 9, 8, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -2)
	p := models.Project{
		Activities: []models.Activity{
			{ID: "a", Kind: models.KindTask, DurationUnits: 1},
			{ID: "a", Kind: models.KindTask, DurationUnits: 1},
			{ID: "m", Kind: models.KindMilestone, DurationUnits: 3},
			{ID: "b", Kind: models.KindTask, PercentComplete: 150},
			{ID: "c", Kind: models.KindTask, CalendarID: "nope"},
			{ID: "d", Kind: models.KindTask, ManualStart: &start, ManualEnd: &end},
			{ID: "e", Kind: models.KindTask, ParentID: "a"},
			{ID: "f", Kind: models.KindTask, ParentID: "ghost"},
		},
	}

	got := conflictTypes(New().ValidateProject(p))
	want := []ConflictType{
		ConflictDuplicateID,
		ConflictMilestoneDuration,
		ConflictInvalidPercent,
		ConflictUnknownCalendar,
		ConflictManualDateOrder,
		ConflictNonSummaryParent,
		ConflictMissingParent,
	}
	for _, ct := range want {
		if got[ct] == 0 {
			t.Errorf("expected a %s conflict, got %v", ct, got)
		}
	}
}

func TestValidateProject_HierarchyCycle(t *testing.T) {
	p := models.Project{
		Activities: []models.Activity{
			{ID: "a", Kind: models.KindSummary, ParentID: "b"},
			{ID: "b", Kind: models.KindSummary, ParentID: "a"},
		},
	}

	got := conflictTypes(New().ValidateProject(p))
	if got[ConflictHierarchyCycle] == 0 {
		t.Errorf("expected hierarchy cycle conflict, got %v", got)
	}
}

func TestValidateProject_MalformedCalendarCaughtAtRegistration(t *testing.T) {
	p := models.Project{
		Calendars: []models.Calendar{
			{
				ID:          "bad",
				WorkingDays: []time.Weekday{time.Monday},
				Windows:     []models.Window{{Start: "08:00", End: "17:00"}},
				Exceptions: []models.CalendarException{
					{Start: "2026-01-07", End: "2026-01-07",
						Recurrence: models.Recurrence{Type: "fortnightly"}},
				},
			},
		},
	}

	res := New().ValidateProject(p)
	got := conflictTypes(res)
	if got[ConflictInvalidCalendar] == 0 {
		t.Fatalf("expected invalid calendar conflict, got %v", res.Conflicts)
	}
	if !strings.Contains(res.FormatReport(), "bad") {
		t.Errorf("report should name the calendar: %q", res.FormatReport())
	}
}

func TestValidateProject_UnknownDependencyType(t *testing.T) {
	p := models.Project{
		Activities: []models.Activity{
			{ID: "a", Kind: models.KindTask, DurationUnits: 1},
			{ID: "b", Kind: models.KindTask, DurationUnits: 1},
		},
		Dependencies: []models.Dependency{
			{FromID: "a", ToID: "b", Type: "FSX"},
		},
	}

	got := conflictTypes(New().ValidateProject(p))
	if got[ConflictUnknownDepType] == 0 {
		t.Errorf("expected unknown dependency type conflict, got %v", got)
	}
}
