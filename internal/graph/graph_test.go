package graph

import (
	"errors"
	"reflect"
	"testing"

	"github.com/jgoncalves802/visualplan/internal/models"
)

func task(id string) models.Activity {
	return models.Activity{ID: id, Name: id, Kind: models.KindTask, DurationUnits: 1}
}

func fs(from, to string) models.Dependency {
	return models.Dependency{FromID: from, ToID: to, Type: models.FinishToStart}
}

func TestBuild_TopologicalOrderIsDeterministic(t *testing.T) {
	activities := []models.Activity{task("c"), task("a"), task("b"), task("d")}
	deps := []models.Dependency{fs("a", "c"), fs("b", "c"), fs("c", "d")}

	g, err := Build(activities, deps)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	want := []string{"a", "b", "c", "d"}
	if !reflect.DeepEqual(g.Order, want) {
		t.Errorf("Order = %v, want %v", g.Order, want)
	}
	if !reflect.DeepEqual(g.Roots, []string{"a", "b"}) {
		t.Errorf("Roots = %v, want [a b]", g.Roots)
	}
	if !reflect.DeepEqual(g.Sinks, []string{"d"}) {
		t.Errorf("Sinks = %v, want [d]", g.Sinks)
	}
}

func TestBuild_RejectsMissingEndpoint(t *testing.T) {
	_, err := Build([]models.Activity{task("a")}, []models.Dependency{fs("a", "ghost")})
	var invalid *InvalidEndpointError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidEndpointError, got %v", err)
	}
	if invalid.ActivityID != "ghost" {
		t.Errorf("ActivityID = %q, want %q", invalid.ActivityID, "ghost")
	}
}

func TestBuild_RejectsSummaryEndpoint(t *testing.T) {
	activities := []models.Activity{
		task("a"),
		{ID: "phase", Name: "Phase", Kind: models.KindSummary},
	}
	_, err := Build(activities, []models.Dependency{fs("a", "phase")})
	var invalid *InvalidEndpointError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidEndpointError, got %v", err)
	}
	if invalid.ActivityID != "phase" {
		t.Errorf("ActivityID = %q, want %q", invalid.ActivityID, "phase")
	}
}

func TestBuild_RejectsSelfDependency(t *testing.T) {
	_, err := Build([]models.Activity{task("a")}, []models.Dependency{fs("a", "a")})
	var invalid *InvalidEndpointError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidEndpointError, got %v", err)
	}
}

func TestBuild_RejectsUnknownDependencyType(t *testing.T) {
	deps := []models.Dependency{{FromID: "a", ToID: "b", Type: "XX"}}
	_, err := Build([]models.Activity{task("a"), task("b")}, deps)
	if err == nil {
		t.Fatal("expected error for unknown dependency type")
	}
}

func TestBuild_RejectsDuplicateActivityID(t *testing.T) {
	_, err := Build([]models.Activity{task("a"), task("a")}, nil)
	if err == nil {
		t.Fatal("expected error for duplicate activity id")
	}
}

func TestBuild_DetectsCycleWithPath(t *testing.T) {
	activities := []models.Activity{task("a"), task("b"), task("c"), task("x")}
	deps := []models.Dependency{fs("a", "b"), fs("b", "c"), fs("c", "a"), fs("a", "x")}

	_, err := Build(activities, deps)
	var cerr *CycleError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected CycleError, got %v", err)
	}
	if len(cerr.Path) < 4 {
		t.Fatalf("cycle path too short: %v", cerr.Path)
	}
	if cerr.Path[0] != cerr.Path[len(cerr.Path)-1] {
		t.Errorf("cycle path should close on itself: %v", cerr.Path)
	}
	seen := map[string]bool{}
	for _, id := range cerr.Path[:len(cerr.Path)-1] {
		seen[id] = true
	}
	for _, id := range []string{"a", "b", "c"} {
		if !seen[id] {
			t.Errorf("cycle path %v missing %q", cerr.Path, id)
		}
	}
}

func TestBuild_SummariesCarryNoEdges(t *testing.T) {
	activities := []models.Activity{
		{ID: "phase", Kind: models.KindSummary},
		task("a"),
		task("b"),
	}
	g, err := Build(activities, []models.Dependency{fs("a", "b")})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(g.Order) != 2 {
		t.Errorf("Order = %v, want only non-summary activities", g.Order)
	}
	if _, ok := g.Activities["phase"]; !ok {
		t.Errorf("summary should still be indexed in Activities")
	}
}
