// Package baseline compares two schedule snapshots by activity id, the
// variance view drawn against a stored baseline.
package baseline

import (
	"sort"
	"time"

	"github.com/jgoncalves802/visualplan/internal/models"
)

// Change is the variance of one activity between two snapshots.
type Change struct {
	ActivityID  string        `json:"activity_id"`
	StartShift  time.Duration `json:"start_shift"`
	FinishShift time.Duration `json:"finish_shift"`
	FloatDelta  float64       `json:"float_delta"`
	WasCritical bool          `json:"was_critical"`
	NowCritical bool          `json:"now_critical"`
}

// Diff is the full variance between a current result and a baseline.
type Diff struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
	Changed []Change `json:"changed"`
}

// Compare diffs current against base by activity id. Activities present
// only in current are Added; only in base, Removed. An activity appears in
// Changed when any date, float, or criticality differs.
func Compare(current, base *models.ScheduleResult) *Diff {
	d := &Diff{}

	for id, cur := range current.Activities {
		old, ok := base.Activities[id]
		if !ok {
			d.Added = append(d.Added, id)
			continue
		}
		ch := Change{
			ActivityID:  id,
			StartShift:  shift(old.EarlyStart, cur.EarlyStart),
			FinishShift: shift(old.EarlyFinish, cur.EarlyFinish),
			FloatDelta:  cur.TotalFloat - old.TotalFloat,
			WasCritical: old.IsCritical,
			NowCritical: cur.IsCritical,
		}
		if ch.StartShift != 0 || ch.FinishShift != 0 || ch.FloatDelta != 0 || ch.WasCritical != ch.NowCritical {
			d.Changed = append(d.Changed, ch)
		}
	}

	for id := range base.Activities {
		if _, ok := current.Activities[id]; !ok {
			d.Removed = append(d.Removed, id)
		}
	}

	sort.Strings(d.Added)
	sort.Strings(d.Removed)
	sort.Slice(d.Changed, func(i, j int) bool { return d.Changed[i].ActivityID < d.Changed[j].ActivityID })
	return d
}

// HasVariance reports whether the diff contains any difference at all.
func (d *Diff) HasVariance() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0 || len(d.Changed) > 0
}

func shift(old, cur *time.Time) time.Duration {
	switch {
	case old == nil && cur == nil:
		return 0
	case old == nil:
		return time.Duration(0)
	case cur == nil:
		return time.Duration(0)
	default:
		return cur.Sub(*old)
	}
}
