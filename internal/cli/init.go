package cli

import (
	"fmt"
	"time"

	"github.com/jgoncalves802/visualplan/internal/constants"
	"github.com/jgoncalves802/visualplan/internal/models"
	"github.com/jgoncalves802/visualplan/internal/storage"
)

type InitCmd struct {
	Name  string `arg:"" optional:"" help:"Project name." default:"Untitled project"`
	Start string `short:"s" help:"Project start date (YYYY-MM-DD)." default:""`
	Unit  string `short:"u" help:"Working unit (day|hour)." default:"day"`
}

func (c *InitCmd) Validate() error {
	if c.Unit != string(models.UnitDay) && c.Unit != string(models.UnitHour) {
		return fmt.Errorf("unit must be day or hour")
	}
	if c.Start != "" {
		if _, err := time.Parse(constants.DateFormat, c.Start); err != nil {
			return fmt.Errorf("invalid start date %q: expected YYYY-MM-DD", c.Start)
		}
	}
	return nil
}

func (c *InitCmd) Run(ctx *Context) error {
	if err := ctx.Store.Init(); err != nil {
		return err
	}

	start := time.Now().Truncate(24 * time.Hour)
	if c.Start != "" {
		start, _ = time.Parse(constants.DateFormat, c.Start)
	}

	if err := ctx.Store.SaveSettings(storage.Settings{
		Name:           c.Name,
		Start:          start,
		Unit:           models.WorkUnit(c.Unit),
		AutoScheduling: true,
	}); err != nil {
		return err
	}

	if err := ctx.Store.SaveCalendar(models.DefaultCalendar()); err != nil {
		return err
	}

	fmt.Printf("Initialized project %q starting %s\n", c.Name, start.Format(constants.DateFormat))
	return nil
}
