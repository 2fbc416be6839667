// Package rollup derives summary (phase/WBS) activity dates, duration, and
// progress bottom-up from their resolved children. Hierarchy is the only
// mechanism by which parent and child timing interact; summaries never
// carry precedence edges.
package rollup

import (
	"fmt"
	"sort"
	"time"

	"github.com/jgoncalves802/visualplan/internal/calendar"
	"github.com/jgoncalves802/visualplan/internal/cpm"
	"github.com/jgoncalves802/visualplan/internal/models"
)

// Summary is the derived schedule of one phase/WBS activity. Date pointers
// are nil for summaries with no resolvable children.
type Summary struct {
	ActivityID    string
	EarlyStart    *time.Time
	EarlyFinish   *time.Time
	LateStart     *time.Time
	LateFinish    *time.Time
	DurationUnits float64
	Percent       float64
	TotalFloatMin int
	IsCritical    bool
}

// Run computes all summaries in one bottom-up traversal ordered by depth,
// deepest first, so arbitrarily nested WBS levels resolve in a single pass.
func Run(activities []models.Activity, entries map[string]*cpm.Entry, cals *calendar.Set, unit models.WorkUnit) (map[string]*Summary, []models.Warning, error) {
	byID := make(map[string]*models.Activity, len(activities))
	children := make(map[string][]string)
	for i := range activities {
		a := &activities[i]
		byID[a.ID] = a
		if a.ParentID != "" {
			children[a.ParentID] = append(children[a.ParentID], a.ID)
		}
	}
	for id := range children {
		sort.Strings(children[id])
	}

	summaries := make(map[string]*Summary)
	var order []string
	for i := range activities {
		if activities[i].IsSummary() {
			order = append(order, activities[i].ID)
		}
	}

	depths := make(map[string]int, len(order))
	for _, id := range order {
		d, err := depth(id, byID)
		if err != nil {
			return nil, nil, err
		}
		depths[id] = d
	}
	sort.Slice(order, func(i, j int) bool {
		if depths[order[i]] != depths[order[j]] {
			return depths[order[i]] > depths[order[j]]
		}
		return order[i] < order[j]
	})

	var warnings []models.Warning
	for _, id := range order {
		s := &Summary{ActivityID: id}
		summaries[id] = s

		kids := children[id]
		if len(kids) == 0 {
			warnings = append(warnings, models.Warning{
				Code:       models.WarnEmptySummary,
				ActivityID: id,
				Message:    fmt.Sprintf("summary %s has no children; dates left unset", id),
			})
			continue
		}

		r := cals.For(byID[id].CalendarID)
		weightSum := 0.0
		percentSum := 0.0
		floatSet := false

		for _, kid := range kids {
			var (
				es, ef, ls, lf *time.Time
				dur            float64
				pct            float64
				fl             int
				crit           bool
			)
			if child, ok := summaries[kid]; ok {
				es, ef, ls, lf = child.EarlyStart, child.EarlyFinish, child.LateStart, child.LateFinish
				dur, pct, fl, crit = child.DurationUnits, child.Percent, child.TotalFloatMin, child.IsCritical
			} else if e, ok := entries[kid]; ok {
				es, ef, ls, lf = &e.ES, &e.EF, &e.LS, &e.LF
				dur = float64(byID[kid].Duration())
				pct = byID[kid].PercentComplete
				fl = e.TotalFloatMin
				crit = e.IsCritical
			} else {
				continue
			}

			if es != nil && (s.EarlyStart == nil || es.Before(*s.EarlyStart)) {
				s.EarlyStart = es
			}
			if ef != nil && (s.EarlyFinish == nil || ef.After(*s.EarlyFinish)) {
				s.EarlyFinish = ef
			}
			if ls != nil && (s.LateStart == nil || ls.Before(*s.LateStart)) {
				s.LateStart = ls
			}
			if lf != nil && (s.LateFinish == nil || lf.After(*s.LateFinish)) {
				s.LateFinish = lf
			}

			// Minimum weight 1 keeps zero-duration milestones from being
			// erased by the weighted average.
			weight := dur
			if weight < 1 {
				weight = 1
			}
			weightSum += weight
			percentSum += weight * pct

			if !floatSet || fl < s.TotalFloatMin {
				s.TotalFloatMin = fl
				floatSet = true
			}
			s.IsCritical = s.IsCritical || crit
		}

		if s.EarlyStart != nil && s.EarlyFinish != nil {
			s.DurationUnits = r.Span(*s.EarlyStart, *s.EarlyFinish, unit)
		}
		if weightSum > 0 {
			s.Percent = percentSum / weightSum
		}
	}

	return summaries, warnings, nil
}

// depth walks the parent chain to the forest root, rejecting parent-link
// cycles. Hierarchy cycles are checked here independently of the
// precedence graph.
func depth(id string, byID map[string]*models.Activity) (int, error) {
	d := 0
	seen := map[string]bool{id: true}
	cur := byID[id]
	for cur != nil && cur.ParentID != "" {
		if seen[cur.ParentID] {
			return 0, fmt.Errorf("hierarchy cycle through activity %q", cur.ParentID)
		}
		seen[cur.ParentID] = true
		next, ok := byID[cur.ParentID]
		if !ok {
			return 0, fmt.Errorf("activity %q references missing parent %q", cur.ID, cur.ParentID)
		}
		d++
		cur = next
	}
	return d, nil
}
