package cli

import (
	"fmt"
	"strings"

	"github.com/jgoncalves802/visualplan/internal/calendar"
	"github.com/jgoncalves802/visualplan/internal/models"
)

type CalendarAddCmd struct {
	ID       string `arg:"" help:"Calendar id."`
	Name     string `short:"n" help:"Calendar name."`
	Weekdays string `short:"w" help:"Comma-separated working weekdays." default:"mon,tue,wed,thu,fri"`
	Windows  string `help:"Comma-separated working windows (HH:MM-HH:MM)." default:"08:00-12:00,13:00-17:00"`
}

func (c *CalendarAddCmd) Run(ctx *Context) error {
	if err := ctx.EnsureLoaded(); err != nil {
		return err
	}
	weekdays, err := ParseWeekdays(c.Weekdays)
	if err != nil {
		return err
	}
	windows, err := ParseWindows(c.Windows)
	if err != nil {
		return err
	}

	name := c.Name
	if name == "" {
		name = c.ID
	}
	cal := models.Calendar{
		ID:          c.ID,
		Name:        name,
		WorkingDays: weekdays,
		Windows:     windows,
	}

	// Reject malformed calendars at registration, not during a pass
	if _, err := calendar.NewResolver(cal); err != nil {
		return err
	}

	if err := ctx.Store.SaveCalendar(cal); err != nil {
		return err
	}
	fmt.Printf("Added calendar %q\n", c.ID)
	return nil
}

type CalendarListCmd struct{}

func (c *CalendarListCmd) Run(ctx *Context) error {
	if err := ctx.EnsureLoaded(); err != nil {
		return err
	}
	calendars, err := ctx.Store.GetAllCalendars()
	if err != nil {
		return err
	}
	if len(calendars) == 0 {
		fmt.Println("No calendars.")
		return nil
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("%-16s %-20s %-28s %s", "ID", "NAME", "WEEKDAYS", "WINDOWS")))
	for _, cal := range calendars {
		days := make([]string, len(cal.WorkingDays))
		for i, wd := range cal.WorkingDays {
			days[i] = wd.String()[:3]
		}
		windows := make([]string, len(cal.Windows))
		for i, w := range cal.Windows {
			windows[i] = w.Start + "-" + w.End
		}
		fmt.Printf("%-16s %-20s %-28s %s\n", cal.ID, cal.Name, strings.Join(days, ","), strings.Join(windows, ","))
		for _, ex := range cal.Exceptions {
			kind := "holiday"
			if ex.Working {
				kind = "working"
			}
			fmt.Println(dimStyle.Render(fmt.Sprintf("    %s %s..%s (%s %s)", kind, ex.Start, ex.End, ex.Recurrence.Type, ex.Name)))
		}
	}
	return nil
}
