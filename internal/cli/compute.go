package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/jgoncalves802/visualplan/internal/engine"
	"github.com/jgoncalves802/visualplan/internal/models"
	"github.com/jgoncalves802/visualplan/internal/storage"
	"github.com/jgoncalves802/visualplan/internal/validation"
)

// currentSnapshot is the reserved snapshot name for the latest published
// schedule.
const currentSnapshot = "__current"

type ComputeCmd struct {
	File string `short:"f" help:"Compute from a JSON project file instead of the store." type:"path"`
	Save bool   `help:"Persist the published result as the current snapshot." default:"true" negatable:""`
}

func (c *ComputeCmd) Run(ctx *Context) error {
	project, fromStore, err := loadProject(ctx, c.File)
	if err != nil {
		return err
	}

	if v := validation.New().ValidateProject(project); v.HasConflicts() {
		fmt.Println(warnStyle.Render(v.FormatReport()))
	}

	ticket := ctx.Controller.Submit(engine.Input{
		Activities:        project.Activities,
		Dependencies:      project.Dependencies,
		Calendars:         project.Calendars,
		ProjectStart:      project.Start,
		ProjectCalendarID: project.CalendarID,
		Unit:              project.Unit,
		AutoScheduling:    project.AutoScheduling,
	})
	result, err := ticket.Wait(context.Background())
	if err != nil {
		return fmt.Errorf("schedule rejected: %w", err)
	}

	printSchedule(project, result)

	if c.Save && fromStore {
		if err := ctx.Store.SaveSnapshot(currentSnapshot, *result); err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
	}
	return nil
}

func loadProject(ctx *Context, file string) (models.Project, bool, error) {
	if file != "" {
		p, err := storage.LoadProjectFile(file)
		return p, false, err
	}
	if err := ctx.EnsureLoaded(); err != nil {
		return models.Project{}, false, err
	}
	p, err := storage.GetProject(ctx.Store)
	return p, true, err
}

func printSchedule(project models.Project, result *models.ScheduleResult) {
	const dateFormat = "2006-01-02 15:04"

	ids := make([]string, 0, len(result.Activities))
	for id := range result.Activities {
		ids = append(ids, id)
	}
	names := make(map[string]string, len(project.Activities))
	kinds := make(map[string]models.ActivityKind, len(project.Activities))
	for _, a := range project.Activities {
		names[a.ID] = a.Name
		kinds[a.ID] = a.Kind
	}
	sort.Slice(ids, func(i, j int) bool {
		si, sj := result.Activities[ids[i]], result.Activities[ids[j]]
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

	fmt.Println(headerStyle.Render(fmt.Sprintf("%-24s %-16s %-16s %7s %5s", "ACTIVITY", "START", "FINISH", "FLOAT", "CRIT")))
	for _, id := range ids {
		as := result.Activities[id]
		name := names[id]
		if name == "" {
			name = id
		}
		start, finish := "-", "-"
		if as.EarlyStart != nil {
			start = as.EarlyStart.Format(dateFormat)
		}
		if as.EarlyFinish != nil {
			finish = as.EarlyFinish.Format(dateFormat)
		}
		crit := ""
		if as.IsCritical {
			crit = "*"
		}
		line := fmt.Sprintf("%-24s %-16s %-16s %7.1f %5s", name, start, finish, as.TotalFloat, crit)
		switch {
		case as.IsCritical:
			line = criticalStyle.Render(line)
		case kinds[id] == models.KindSummary:
			line = summaryStyle.Render(line)
		}
		fmt.Println(line)
	}

	fmt.Printf("\nProject: %s -> %s (%.1f %ss)\n",
		result.ProjectStart.Format(dateFormat), result.ProjectFinish.Format(dateFormat),
		result.ProjectDuration, result.Unit)

	for _, w := range result.Warnings {
		fmt.Println(warnStyle.Render("warning: " + w.Message))
	}
}
