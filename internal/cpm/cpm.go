// Package cpm runs the critical path method over a validated dependency
// graph: a forward pass for early dates, a backward pass for late dates,
// then float and criticality. All date arithmetic goes through the calendar
// resolvers; the passes themselves never touch wall-clock math.
package cpm

import (
	"fmt"
	"time"

	"github.com/jgoncalves802/visualplan/internal/calendar"
	"github.com/jgoncalves802/visualplan/internal/graph"
	"github.com/jgoncalves802/visualplan/internal/logger"
	"github.com/jgoncalves802/visualplan/internal/models"
)

// Entry holds the resolved pass state for one non-summary activity. Floats
// are in working minutes of the activity's own calendar.
type Entry struct {
	ID            string
	ES, EF        time.Time
	LS, LF        time.Time
	TotalFloatMin int
	FreeFloatMin  int
	IsCritical    bool
}

// Result is the outcome of one full CPM run.
type Result struct {
	Entries       map[string]*Entry
	ProjectFinish time.Time
	Warnings      []models.Warning
}

// Options control a CPM run.
type Options struct {
	ProjectStart   time.Time
	Unit           models.WorkUnit
	AutoScheduling bool
}

// Run executes the forward and backward passes over g in topological order.
// Activities keep manual dates when auto-scheduling is disabled and they
// carry them; everything else is scheduled as early as its constraints
// allow.
func Run(g *graph.Graph, cals *calendar.Set, opts Options) (*Result, error) {
	if opts.Unit == "" {
		opts.Unit = models.UnitDay
	}

	res := &Result{Entries: make(map[string]*Entry, len(g.Order))}
	for _, id := range g.Order {
		res.Entries[id] = &Entry{ID: id}
	}

	if err := forwardPass(g, cals, opts, res); err != nil {
		return nil, err
	}

	res.ProjectFinish = opts.ProjectStart
	for _, e := range res.Entries {
		if e.EF.After(res.ProjectFinish) {
			res.ProjectFinish = e.EF
		}
	}

	if err := backwardPass(g, cals, opts, res); err != nil {
		return nil, err
	}

	deriveFloat(g, cals, opts, res)
	return res, nil
}

func forwardPass(g *graph.Graph, cals *calendar.Set, opts Options, res *Result) error {
	for _, id := range g.Order {
		a := g.Activities[id]
		r := cals.For(a.CalendarID)
		e := res.Entries[id]
		dur := a.Duration()

		if !opts.AutoScheduling && a.ManualStart != nil {
			// Fixed position: dates are taken as stored, never recomputed.
			e.ES = *a.ManualStart
			if a.ManualEnd != nil {
				e.EF = *a.ManualEnd
			} else {
				ef, err := r.Advance(e.ES, dur, opts.Unit)
				if err != nil {
					return passErr(id, err)
				}
				e.EF = ef
			}
			if a.IsMilestone() {
				e.EF = e.ES
			}
			continue
		}

		startBound := opts.ProjectStart
		var finishFloor time.Time
		sawSF := false

		for _, dep := range g.Predecessors[id] {
			pred := res.Entries[dep.FromID]
			// Lag is expressed in the successor's calendar working units.
			switch dep.Type {
			case models.FinishToStart:
				b, err := r.Advance(pred.EF, dep.Lag, opts.Unit)
				if err != nil {
					return passErr(id, err)
				}
				startBound = maxTime(startBound, b)
			case models.StartToStart:
				b, err := r.Advance(pred.ES, dep.Lag, opts.Unit)
				if err != nil {
					return passErr(id, err)
				}
				startBound = maxTime(startBound, b)
			case models.FinishToFinish:
				b, err := r.Advance(pred.EF, dep.Lag, opts.Unit)
				if err != nil {
					return passErr(id, err)
				}
				finishFloor = maxTime(finishFloor, b)
			case models.StartToFinish:
				b, err := r.Advance(pred.ES, dep.Lag, opts.Unit)
				if err != nil {
					return passErr(id, err)
				}
				finishFloor = maxTime(finishFloor, b)
				sawSF = true
			}
		}

		if !finishFloor.IsZero() {
			// Finish is bound first; back the duration off to get the start
			// bound it implies.
			sb, err := r.Advance(finishFloor, -dur, opts.Unit)
			if err != nil {
				return passErr(id, err)
			}
			if a.IsMilestone() && sawSF && sb.Before(startBound) {
				// The SF lag would finish the milestone before it starts.
				res.Warnings = append(res.Warnings, models.Warning{
					Code:       models.WarnClampedDuration,
					ActivityID: id,
					Message:    fmt.Sprintf("milestone %s: SF lag would force a negative duration; clamped to zero", id),
				})
				logger.Warn("clamped negative milestone duration", "activity", id)
			}
			startBound = maxTime(startBound, sb)
		}

		es, err := r.SnapForward(startBound)
		if err != nil {
			return passErr(id, err)
		}
		e.ES = es

		if a.IsMilestone() {
			e.EF = es
			continue
		}
		ef, err := r.Advance(es, dur, opts.Unit)
		if err != nil {
			return passErr(id, err)
		}
		e.EF = ef
	}

	// Disconnected auto-scheduled activities were anchored to the project
	// start by convention; surface that as a warning, not an error.
	for _, id := range g.Order {
		if len(g.Predecessors[id]) == 0 && len(g.Successors[id]) == 0 && len(g.Order) > 1 {
			a := g.Activities[id]
			if !opts.AutoScheduling && a.ManualStart != nil {
				continue
			}
			res.Warnings = append(res.Warnings, models.Warning{
				Code:       models.WarnUnanchored,
				ActivityID: id,
				Message:    fmt.Sprintf("activity %s has no dependencies; anchored to project start", id),
			})
			logger.Debug("anchored disconnected activity to project start", "activity", id)
		}
	}

	return nil
}

func backwardPass(g *graph.Graph, cals *calendar.Set, opts Options, res *Result) error {
	for i := len(g.Order) - 1; i >= 0; i-- {
		id := g.Order[i]
		a := g.Activities[id]
		r := cals.For(a.CalendarID)
		e := res.Entries[id]
		dur := a.Duration()

		finishCap := res.ProjectFinish
		var startCap time.Time

		for _, dep := range g.Successors[id] {
			succ := res.Entries[dep.ToID]
			sr := cals.For(g.Activities[dep.ToID].CalendarID)
			switch dep.Type {
			case models.FinishToStart:
				c, err := sr.Advance(succ.LS, -dep.Lag, opts.Unit)
				if err != nil {
					return passErr(id, err)
				}
				finishCap = minTime(finishCap, c)
			case models.StartToStart:
				c, err := sr.Advance(succ.LS, -dep.Lag, opts.Unit)
				if err != nil {
					return passErr(id, err)
				}
				startCap = minTime(startCap, c)
			case models.FinishToFinish:
				c, err := sr.Advance(succ.LF, -dep.Lag, opts.Unit)
				if err != nil {
					return passErr(id, err)
				}
				finishCap = minTime(finishCap, c)
			case models.StartToFinish:
				c, err := sr.Advance(succ.LF, -dep.Lag, opts.Unit)
				if err != nil {
					return passErr(id, err)
				}
				startCap = minTime(startCap, c)
			}
		}

		if !startCap.IsZero() {
			fc, err := r.Advance(startCap, dur, opts.Unit)
			if err != nil {
				return passErr(id, err)
			}
			finishCap = minTime(finishCap, fc)
		}

		lf, err := r.SnapBackward(finishCap)
		if err != nil {
			return passErr(id, err)
		}
		e.LF = lf

		if a.IsMilestone() {
			e.LS = lf
			continue
		}
		ls, err := r.Advance(lf, -dur, opts.Unit)
		if err != nil {
			return passErr(id, err)
		}
		e.LS = ls
	}
	return nil
}

// deriveFloat computes total and free float in working minutes and flags
// criticality. Epsilon is a tenth of a working unit, absorbing boundary
// rounding between calendars.
func deriveFloat(g *graph.Graph, cals *calendar.Set, opts Options, res *Result) {
	for _, id := range g.Order {
		a := g.Activities[id]
		r := cals.For(a.CalendarID)
		e := res.Entries[id]

		e.TotalFloatMin = r.WorkingMinutesBetween(e.ES, e.LS)

		if succs := g.Successors[id]; len(succs) > 0 {
			free := -1
			for _, dep := range succs {
				gap := r.WorkingMinutesBetween(e.EF, res.Entries[dep.ToID].ES)
				if free < 0 || gap < free {
					free = gap
				}
			}
			if free < 0 {
				free = 0
			}
			e.FreeFloatMin = free
		}

		eps := r.UnitMinutes(opts.Unit) / 10
		e.IsCritical = e.TotalFloatMin <= eps
	}
}

func passErr(id string, err error) error {
	return fmt.Errorf("scheduling pass at activity %s: %w", id, err)
}

func maxTime(a, b time.Time) time.Time {
	if a.IsZero() || b.After(a) {
		return b
	}
	return a
}

func minTime(a, b time.Time) time.Time {
	if a.IsZero() || b.Before(a) {
		return b
	}
	return a
}
