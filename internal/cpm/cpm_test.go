package cpm

import (
	"testing"
	"time"

	"github.com/jgoncalves802/visualplan/internal/calendar"
	"github.com/jgoncalves802/visualplan/internal/graph"
	"github.com/jgoncalves802/visualplan/internal/models"
)

// Jan 5 2026 is a Monday.
func date(day, hour, min int) time.Time {
	return time.Date(2026, time.January, day, hour, min, 0, 0, time.UTC)
}

func defaultSet(t *testing.T) *calendar.Set {
	t.Helper()
	cals, err := calendar.NewSet(nil, "")
	if err != nil {
		t.Fatalf("NewSet failed: %v", err)
	}
	return cals
}

func build(t *testing.T, activities []models.Activity, deps []models.Dependency) *graph.Graph {
	t.Helper()
	g, err := graph.Build(activities, deps)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return g
}

func run(t *testing.T, g *graph.Graph, cals *calendar.Set) *Result {
	t.Helper()
	res, err := Run(g, cals, Options{ProjectStart: date(5, 8, 0), Unit: models.UnitDay, AutoScheduling: true})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return res
}

func checkDates(t *testing.T, e *Entry, es, ef time.Time) {
	t.Helper()
	if !e.ES.Equal(es) {
		t.Errorf("%s: ES = %v, want %v", e.ID, e.ES, es)
	}
	if !e.EF.Equal(ef) {
		t.Errorf("%s: EF = %v, want %v", e.ID, e.EF, ef)
	}
}

func TestRun_FinishToStartChain(t *testing.T) {
	activities := []models.Activity{
		{ID: "a", Kind: models.KindTask, DurationUnits: 3},
		{ID: "b", Kind: models.KindTask, DurationUnits: 2},
		{ID: "c", Kind: models.KindTask, DurationUnits: 4},
	}
	deps := []models.Dependency{
		{FromID: "a", ToID: "b", Type: models.FinishToStart},
		{FromID: "b", ToID: "c", Type: models.FinishToStart},
	}
	res := run(t, build(t, activities, deps), defaultSet(t))

	checkDates(t, res.Entries["a"], date(5, 8, 0), date(7, 17, 0))
	checkDates(t, res.Entries["b"], date(8, 8, 0), date(9, 17, 0))
	checkDates(t, res.Entries["c"], date(12, 8, 0), date(15, 17, 0))

	if !res.ProjectFinish.Equal(date(15, 17, 0)) {
		t.Errorf("ProjectFinish = %v, want %v", res.ProjectFinish, date(15, 17, 0))
	}
	for _, id := range []string{"a", "b", "c"} {
		e := res.Entries[id]
		if e.TotalFloatMin != 0 || !e.IsCritical {
			t.Errorf("%s: float %d min, critical %v; want zero float on the chain", id, e.TotalFloatMin, e.IsCritical)
		}
	}
}

func TestRun_ParallelBranchGetsFloat(t *testing.T) {
	activities := []models.Activity{
		{ID: "a", Kind: models.KindTask, DurationUnits: 2},
		{ID: "b", Kind: models.KindTask, DurationUnits: 1},
		{ID: "c", Kind: models.KindTask, DurationUnits: 1},
	}
	deps := []models.Dependency{
		{FromID: "a", ToID: "c", Type: models.FinishToStart},
		{FromID: "b", ToID: "c", Type: models.FinishToStart},
	}
	res := run(t, build(t, activities, deps), defaultSet(t))

	a, b := res.Entries["a"], res.Entries["b"]
	if !a.IsCritical {
		t.Errorf("a: expected critical on the long branch")
	}
	if b.IsCritical {
		t.Errorf("b: expected non-critical on the short branch")
	}
	if b.TotalFloatMin != 480 {
		t.Errorf("b: total float = %d min, want 480", b.TotalFloatMin)
	}
	if b.FreeFloatMin != 480 {
		t.Errorf("b: free float = %d min, want 480", b.FreeFloatMin)
	}
	if a.FreeFloatMin != 0 {
		t.Errorf("a: free float = %d min, want 0", a.FreeFloatMin)
	}
}

func TestRun_StartToStartWithLag(t *testing.T) {
	activities := []models.Activity{
		{ID: "a", Kind: models.KindTask, DurationUnits: 3},
		{ID: "b", Kind: models.KindTask, DurationUnits: 2},
	}
	deps := []models.Dependency{
		{FromID: "a", ToID: "b", Type: models.StartToStart, Lag: 1},
	}
	res := run(t, build(t, activities, deps), defaultSet(t))

	// One working day after a's start, snapped to the next window.
	checkDates(t, res.Entries["b"], date(6, 8, 0), date(7, 17, 0))
}

func TestRun_FinishToFinish(t *testing.T) {
	activities := []models.Activity{
		{ID: "a", Kind: models.KindTask, DurationUnits: 3},
		{ID: "b", Kind: models.KindTask, DurationUnits: 2},
	}
	deps := []models.Dependency{
		{FromID: "a", ToID: "b", Type: models.FinishToFinish},
	}
	res := run(t, build(t, activities, deps), defaultSet(t))

	// b is pulled so both finish together.
	checkDates(t, res.Entries["b"], date(6, 8, 0), date(7, 17, 0))
}

func TestRun_NegativeLagOverlaps(t *testing.T) {
	activities := []models.Activity{
		{ID: "a", Kind: models.KindTask, DurationUnits: 3},
		{ID: "b", Kind: models.KindTask, DurationUnits: 2},
	}
	deps := []models.Dependency{
		{FromID: "a", ToID: "b", Type: models.FinishToStart, Lag: -1},
	}
	res := run(t, build(t, activities, deps), defaultSet(t))

	// The lead pulls b's start onto a's last working day.
	checkDates(t, res.Entries["b"], date(7, 8, 0), date(8, 17, 0))
}

func TestRun_MilestoneStartEqualsFinish(t *testing.T) {
	activities := []models.Activity{
		{ID: "a", Kind: models.KindTask, DurationUnits: 2},
		{ID: "m", Kind: models.KindMilestone},
	}
	deps := []models.Dependency{
		{FromID: "a", ToID: "m", Type: models.FinishToStart},
	}
	res := run(t, build(t, activities, deps), defaultSet(t))

	m := res.Entries["m"]
	if !m.ES.Equal(m.EF) {
		t.Errorf("milestone: ES %v != EF %v", m.ES, m.EF)
	}
	if !m.ES.Equal(date(7, 8, 0)) {
		t.Errorf("milestone: ES = %v, want %v", m.ES, date(7, 8, 0))
	}
}

func TestRun_MilestoneSFClampWarns(t *testing.T) {
	activities := []models.Activity{
		{ID: "a", Kind: models.KindTask, DurationUnits: 2},
		{ID: "m", Kind: models.KindMilestone},
	}
	deps := []models.Dependency{
		{FromID: "a", ToID: "m", Type: models.StartToFinish, Lag: -1},
	}
	res := run(t, build(t, activities, deps), defaultSet(t))

	found := false
	for _, w := range res.Warnings {
		if w.Code == models.WarnClampedDuration && w.ActivityID == "m" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected clamped-duration warning, got %v", res.Warnings)
	}
	m := res.Entries["m"]
	if !m.ES.Equal(m.EF) {
		t.Errorf("clamped milestone: ES %v != EF %v", m.ES, m.EF)
	}
}

func TestRun_ManualDatesAreFixed(t *testing.T) {
	manual := date(19, 8, 0)
	activities := []models.Activity{
		{ID: "a", Kind: models.KindTask, DurationUnits: 3},
		{ID: "b", Kind: models.KindTask, DurationUnits: 2, ManualStart: &manual},
	}
	deps := []models.Dependency{
		{FromID: "a", ToID: "b", Type: models.FinishToStart},
	}
	g := build(t, activities, deps)
	res, err := Run(g, defaultSet(t), Options{ProjectStart: date(5, 8, 0), Unit: models.UnitDay})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Manual mode: b keeps its stored start regardless of the dependency.
	checkDates(t, res.Entries["b"], date(19, 8, 0), date(20, 17, 0))
}

func TestRun_DisconnectedActivityWarnsUnanchored(t *testing.T) {
	activities := []models.Activity{
		{ID: "a", Kind: models.KindTask, DurationUnits: 2},
		{ID: "loose", Kind: models.KindTask, DurationUnits: 1},
		{ID: "b", Kind: models.KindTask, DurationUnits: 1},
	}
	deps := []models.Dependency{
		{FromID: "a", ToID: "b", Type: models.FinishToStart},
	}
	res := run(t, build(t, activities, deps), defaultSet(t))

	var warned []string
	for _, w := range res.Warnings {
		if w.Code == models.WarnUnanchored {
			warned = append(warned, w.ActivityID)
		}
	}
	if len(warned) != 1 || warned[0] != "loose" {
		t.Errorf("unanchored warnings = %v, want [loose]", warned)
	}
	if !res.Entries["loose"].ES.Equal(date(5, 8, 0)) {
		t.Errorf("loose: ES = %v, want project start", res.Entries["loose"].ES)
	}
}

func TestRun_HolidayPushesChain(t *testing.T) {
	cal := models.DefaultCalendar()
	cal.Exceptions = []models.CalendarException{
		{Name: "holiday", Start: "2026-01-07", End: "2026-01-07", Working: false},
	}
	cals, err := calendar.NewSet([]models.Calendar{cal}, cal.ID)
	if err != nil {
		t.Fatalf("NewSet failed: %v", err)
	}
	activities := []models.Activity{
		{ID: "a", Kind: models.KindTask, DurationUnits: 3},
		{ID: "b", Kind: models.KindTask, DurationUnits: 1},
	}
	deps := []models.Dependency{
		{FromID: "a", ToID: "b", Type: models.FinishToStart},
	}
	res := run(t, build(t, activities, deps), cals)

	checkDates(t, res.Entries["a"], date(5, 8, 0), date(8, 17, 0))
	checkDates(t, res.Entries["b"], date(9, 8, 0), date(9, 17, 0))
}
