// Package engine is the library boundary of the scheduling engine: it takes
// plain activity, dependency, and calendar records and produces a complete
// ScheduleResult. It performs no I/O and owns no state; every call is a
// pure computation over its inputs.
package engine

import (
	"time"

	"github.com/jgoncalves802/visualplan/internal/calendar"
	"github.com/jgoncalves802/visualplan/internal/cpm"
	"github.com/jgoncalves802/visualplan/internal/graph"
	"github.com/jgoncalves802/visualplan/internal/models"
	"github.com/jgoncalves802/visualplan/internal/rollup"
)

// Input is everything one schedule computation needs. When AutoScheduling
// is false, activities keep their stored manual dates and only float and
// criticality are recomputed against those fixed positions.
type Input struct {
	Activities        []models.Activity
	Dependencies      []models.Dependency
	Calendars         []models.Calendar
	ProjectStart      time.Time
	ProjectCalendarID string
	Unit              models.WorkUnit
	AutoScheduling    bool
}

// Compute validates the inputs, runs the CPM passes, rolls up the
// hierarchy, and returns a fresh ScheduleResult. Structural errors (cycle,
// invalid endpoint, invalid calendar) are returned before any pass state is
// built, so a failed computation leaves nothing half-updated.
func Compute(in Input) (*models.ScheduleResult, error) {
	unit := in.Unit
	if unit == "" {
		unit = models.UnitDay
	}

	cals, err := calendar.NewSet(in.Calendars, in.ProjectCalendarID)
	if err != nil {
		return nil, err
	}

	g, err := graph.Build(in.Activities, in.Dependencies)
	if err != nil {
		return nil, err
	}

	passRes, err := cpm.Run(g, cals, cpm.Options{
		ProjectStart:   in.ProjectStart,
		Unit:           unit,
		AutoScheduling: in.AutoScheduling,
	})
	if err != nil {
		return nil, err
	}

	summaries, warnings, err := rollup.Run(in.Activities, passRes.Entries, cals, unit)
	if err != nil {
		return nil, err
	}

	result := &models.ScheduleResult{
		Activities:    make(map[string]*models.ActivitySchedule, len(in.Activities)),
		ProjectStart:  in.ProjectStart,
		ProjectFinish: passRes.ProjectFinish,
		Unit:          unit,
		Warnings:      append(passRes.Warnings, warnings...),
		ComputedAt:    time.Now(),
	}
	result.ProjectDuration = cals.Default().Span(in.ProjectStart, passRes.ProjectFinish, unit)

	for i := range in.Activities {
		a := &in.Activities[i]
		unitMin := float64(cals.For(a.CalendarID).UnitMinutes(unit))

		if a.IsSummary() {
			s := summaries[a.ID]
			result.Activities[a.ID] = &models.ActivitySchedule{
				ActivityID:      a.ID,
				EarlyStart:      s.EarlyStart,
				EarlyFinish:     s.EarlyFinish,
				LateStart:       s.LateStart,
				LateFinish:      s.LateFinish,
				TotalFloat:      float64(s.TotalFloatMin) / unitMin,
				IsCritical:      s.IsCritical,
				DurationUnits:   s.DurationUnits,
				PercentComplete: s.Percent,
			}
			continue
		}

		e := passRes.Entries[a.ID]
		es, ef, ls, lf := e.ES, e.EF, e.LS, e.LF
		result.Activities[a.ID] = &models.ActivitySchedule{
			ActivityID:      a.ID,
			EarlyStart:      &es,
			EarlyFinish:     &ef,
			LateStart:       &ls,
			LateFinish:      &lf,
			TotalFloat:      float64(e.TotalFloatMin) / unitMin,
			FreeFloat:       float64(e.FreeFloatMin) / unitMin,
			IsCritical:      e.IsCritical,
			DurationUnits:   float64(a.Duration()),
			PercentComplete: a.PercentComplete,
		}
	}

	return result, nil
}

// ComputeProject is a convenience wrapper over Compute for a bundled
// project record.
func ComputeProject(p models.Project) (*models.ScheduleResult, error) {
	return Compute(Input{
		Activities:        p.Activities,
		Dependencies:      p.Dependencies,
		Calendars:         p.Calendars,
		ProjectStart:      p.Start,
		ProjectCalendarID: p.CalendarID,
		Unit:              p.Unit,
		AutoScheduling:    p.AutoScheduling,
	})
}
