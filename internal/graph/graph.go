// Package graph validates and indexes the precedence constraints of a
// project as a directed acyclic graph over its non-summary activities.
package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jgoncalves802/visualplan/internal/models"
)

// InvalidEndpointError is returned when a dependency references a missing
// activity, a summary activity, or itself. Summaries participate in
// scheduling only through roll-up, never as dependency endpoints.
type InvalidEndpointError struct {
	ActivityID string
	Reason     string
}

func (e *InvalidEndpointError) Error() string {
	return fmt.Sprintf("invalid dependency endpoint %q: %s", e.ActivityID, e.Reason)
}

// CycleError is returned when the dependency graph is not acyclic. Path
// holds the offending activity ids in forward order, first repeated last.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Path, " -> "))
}

// Graph is a validated, topologically sorted dependency graph. Summary
// activities are indexed but carry no edges.
type Graph struct {
	Activities   map[string]*models.Activity
	Successors   map[string][]models.Dependency // keyed by FromID
	Predecessors map[string][]models.Dependency // keyed by ToID
	Order        []string                       // topological order over non-summary activities
	Roots        []string                       // non-summary activities with no predecessors
	Sinks        []string                       // non-summary activities with no successors
}

// Build indexes the dependencies over the activity set, rejects invalid
// endpoints, and topologically sorts the result. Validation is atomic: an
// error means no partially built graph escapes.
func Build(activities []models.Activity, dependencies []models.Dependency) (*Graph, error) {
	g := &Graph{
		Activities:   make(map[string]*models.Activity, len(activities)),
		Successors:   make(map[string][]models.Dependency),
		Predecessors: make(map[string][]models.Dependency),
	}

	for i := range activities {
		a := &activities[i]
		if _, dup := g.Activities[a.ID]; dup {
			return nil, fmt.Errorf("duplicate activity id %q", a.ID)
		}
		g.Activities[a.ID] = a
	}

	for _, dep := range dependencies {
		if err := g.checkEndpoint(dep.FromID); err != nil {
			return nil, err
		}
		if err := g.checkEndpoint(dep.ToID); err != nil {
			return nil, err
		}
		if dep.FromID == dep.ToID {
			return nil, &InvalidEndpointError{dep.FromID, "dependency on itself"}
		}
		if !dep.Type.Valid() {
			return nil, fmt.Errorf("dependency %s -> %s: unknown type %q", dep.FromID, dep.ToID, dep.Type)
		}
		g.Successors[dep.FromID] = append(g.Successors[dep.FromID], dep)
		g.Predecessors[dep.ToID] = append(g.Predecessors[dep.ToID], dep)
	}

	// Deterministic edge ordering for reproducible passes
	for id := range g.Successors {
		sortDeps(g.Successors[id], func(d models.Dependency) string { return d.ToID })
	}
	for id := range g.Predecessors {
		sortDeps(g.Predecessors[id], func(d models.Dependency) string { return d.FromID })
	}

	order, err := g.topoSort()
	if err != nil {
		return nil, err
	}
	g.Order = order

	for _, id := range order {
		if len(g.Predecessors[id]) == 0 {
			g.Roots = append(g.Roots, id)
		}
		if len(g.Successors[id]) == 0 {
			g.Sinks = append(g.Sinks, id)
		}
	}

	return g, nil
}

func (g *Graph) checkEndpoint(id string) error {
	a, ok := g.Activities[id]
	if !ok {
		return &InvalidEndpointError{id, "activity does not exist"}
	}
	if a.IsSummary() {
		return &InvalidEndpointError{id, "summary activities cannot be dependency endpoints"}
	}
	return nil
}

func sortDeps(deps []models.Dependency, key func(models.Dependency) string) {
	sort.Slice(deps, func(i, j int) bool {
		if key(deps[i]) != key(deps[j]) {
			return key(deps[i]) < key(deps[j])
		}
		return deps[i].Type < deps[j].Type
	})
}

// topoSort runs Kahn's algorithm over the non-summary activities. Nodes
// with equal in-degree are dequeued in ascending id order so the resulting
// order is reproducible across runs.
func (g *Graph) topoSort() ([]string, error) {
	inDegree := make(map[string]int)
	total := 0
	for id, a := range g.Activities {
		if a.IsSummary() {
			continue
		}
		inDegree[id] = len(g.Predecessors[id])
		total++
	}

	var queue []string
	for id, deg := range inDegree {
		if deg == 0 {
			queue = append(queue, id)
		}
	}
	sort.Strings(queue)

	var order []string
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		order = append(order, node)

		var newReady []string
		for _, dep := range g.Successors[node] {
			inDegree[dep.ToID]--
			if inDegree[dep.ToID] == 0 {
				newReady = append(newReady, dep.ToID)
			}
		}
		sort.Strings(newReady)
		queue = append(queue, newReady...)
	}

	if len(order) != total {
		return nil, &CycleError{Path: g.findCycle()}
	}
	return order, nil
}

// findCycle reconstructs one cycle path for error reporting. Uses DFS with
// coloring: white (unvisited), gray (in progress), black (done).
func (g *Graph) findCycle() []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make(map[string]int)
	parent := make(map[string]string)

	var dfs func(node string) []string
	dfs = func(node string) []string {
		color[node] = gray
		for _, dep := range g.Successors[node] {
			next := dep.ToID
			if color[next] == gray {
				cycle := []string{next, node}
				cur := node
				for cur != next {
					cur = parent[cur]
					cycle = append(cycle, cur)
				}
				for i, j := 0, len(cycle)-1; i < j; i, j = i+1, j-1 {
					cycle[i], cycle[j] = cycle[j], cycle[i]
				}
				return cycle
			}
			if color[next] == white {
				parent[next] = node
				if cycle := dfs(next); cycle != nil {
					return cycle
				}
			}
		}
		color[node] = black
		return nil
	}

	ids := make([]string, 0, len(g.Activities))
	for id, a := range g.Activities {
		if !a.IsSummary() {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	for _, id := range ids {
		if color[id] == white {
			if cycle := dfs(id); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}
