package cli

import (
	"context"
	"fmt"

	"github.com/jgoncalves802/visualplan/internal/baseline"
	"github.com/jgoncalves802/visualplan/internal/engine"
	"github.com/jgoncalves802/visualplan/internal/models"
	"github.com/jgoncalves802/visualplan/internal/storage"
)

type BaselineSaveCmd struct {
	Name string `arg:"" help:"Baseline name."`
}

func (c *BaselineSaveCmd) Validate() error {
	if c.Name == currentSnapshot {
		return fmt.Errorf("baseline name %q is reserved", currentSnapshot)
	}
	return nil
}

func (c *BaselineSaveCmd) Run(ctx *Context) error {
	result, err := computeFromStore(ctx)
	if err != nil {
		return err
	}
	if err := ctx.Store.SaveSnapshot(c.Name, *result); err != nil {
		return err
	}
	fmt.Printf("Saved baseline %q (%d activities)\n", c.Name, len(result.Activities))
	return nil
}

type BaselineDiffCmd struct {
	Name string `arg:"" help:"Baseline name to compare against."`
}

func (c *BaselineDiffCmd) Run(ctx *Context) error {
	if err := ctx.EnsureLoaded(); err != nil {
		return err
	}
	base, err := ctx.Store.GetSnapshot(c.Name)
	if err != nil {
		return err
	}
	current, err := computeFromStore(ctx)
	if err != nil {
		return err
	}

	diff := baseline.Compare(current, &base)
	if !diff.HasVariance() {
		fmt.Println("No variance against baseline.")
		return nil
	}

	for _, id := range diff.Added {
		fmt.Printf("+ %s\n", id)
	}
	for _, id := range diff.Removed {
		fmt.Printf("- %s\n", id)
	}
	for _, ch := range diff.Changed {
		line := fmt.Sprintf("~ %s start %+.1fh finish %+.1fh float %+.1f",
			ch.ActivityID, ch.StartShift.Hours(), ch.FinishShift.Hours(), ch.FloatDelta)
		if !ch.WasCritical && ch.NowCritical {
			line += " (now critical)"
			line = criticalStyle.Render(line)
		} else if ch.WasCritical && !ch.NowCritical {
			line += " (no longer critical)"
		}
		fmt.Println(line)
	}
	return nil
}

type BaselineListCmd struct{}

func (c *BaselineListCmd) Run(ctx *Context) error {
	if err := ctx.EnsureLoaded(); err != nil {
		return err
	}
	infos, err := ctx.Store.ListSnapshots()
	if err != nil {
		return err
	}
	shown := 0
	for _, info := range infos {
		if info.Name == currentSnapshot {
			continue
		}
		fmt.Printf("%-24s computed %s\n", info.Name, info.ComputedAt.Format("2006-01-02 15:04:05"))
		shown++
	}
	if shown == 0 {
		fmt.Println("No baselines.")
	}
	return nil
}

func computeFromStore(ctx *Context) (*models.ScheduleResult, error) {
	if err := ctx.EnsureLoaded(); err != nil {
		return nil, err
	}
	project, err := storage.GetProject(ctx.Store)
	if err != nil {
		return nil, err
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
	return ticket.Wait(context.Background())
}
