package cli

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/jgoncalves802/visualplan/internal/models"
)

type TaskAddCmd struct {
	Name     string  `arg:"" help:"Activity name."`
	Kind     string  `short:"k" help:"Activity kind (task|milestone|summary)." default:"task"`
	Duration int     `short:"d" help:"Duration in project working units." default:"1"`
	Percent  float64 `short:"p" help:"Percent complete (0-100)." default:"0"`
	Parent   string  `help:"Parent summary activity id."`
	Calendar string  `short:"c" help:"Calendar id; defaults to the project calendar."`
}

func (c *TaskAddCmd) Validate() error {
	switch models.ActivityKind(c.Kind) {
	case models.KindTask, models.KindMilestone, models.KindSummary:
	default:
		return fmt.Errorf("kind must be task, milestone, or summary")
	}
	if c.Duration < 0 {
		return fmt.Errorf("duration must not be negative")
	}
	if models.ActivityKind(c.Kind) == models.KindMilestone && c.Duration != 0 && c.Duration != 1 {
		return fmt.Errorf("milestones have no duration")
	}
	if c.Percent < 0 || c.Percent > 100 {
		return fmt.Errorf("percent must be between 0 and 100")
	}
	return nil
}

func (c *TaskAddCmd) Run(ctx *Context) error {
	if err := ctx.EnsureLoaded(); err != nil {
		return err
	}
	kind := models.ActivityKind(c.Kind)
	duration := c.Duration
	if kind != models.KindTask {
		duration = 0
	}

	a := models.Activity{
		ID:              uuid.NewString(),
		Name:            c.Name,
		Kind:            kind,
		DurationUnits:   duration,
		PercentComplete: c.Percent,
		ParentID:        c.Parent,
		CalendarID:      c.Calendar,
	}
	if err := ctx.Store.SaveActivity(a); err != nil {
		return err
	}

	fmt.Printf("Added %s %q (%s)\n", kind, c.Name, a.ID)
	return nil
}

type TaskListCmd struct{}

func (c *TaskListCmd) Run(ctx *Context) error {
	if err := ctx.EnsureLoaded(); err != nil {
		return err
	}
	activities, err := ctx.Store.GetAllActivities()
	if err != nil {
		return err
	}
	if len(activities) == 0 {
		fmt.Println("No activities.")
		return nil
	}

	sort.Slice(activities, func(i, j int) bool { return activities[i].ID < activities[j].ID })

	fmt.Println(headerStyle.Render(fmt.Sprintf("%-38s %-10s %-30s %8s %6s", "ID", "KIND", "NAME", "DURATION", "DONE")))
	for _, a := range activities {
		line := fmt.Sprintf("%-38s %-10s %-30s %8d %5.0f%%", a.ID, a.Kind, a.Name, a.DurationUnits, a.PercentComplete)
		if a.IsSummary() {
			line = summaryStyle.Render(line)
		}
		fmt.Println(line)
	}
	return nil
}

type TaskDeleteCmd struct {
	ID string `arg:"" help:"Activity id to delete."`
}

func (c *TaskDeleteCmd) Run(ctx *Context) error {
	if err := ctx.EnsureLoaded(); err != nil {
		return err
	}
	if _, err := ctx.Store.GetActivity(c.ID); err != nil {
		return fmt.Errorf("activity %q not found", c.ID)
	}
	if err := ctx.Store.DeleteActivity(c.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted activity %s\n", c.ID)
	return nil
}
