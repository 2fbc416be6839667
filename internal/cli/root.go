package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jgoncalves802/visualplan/internal/controller"
	"github.com/jgoncalves802/visualplan/internal/models"
	"github.com/jgoncalves802/visualplan/internal/storage"
)

// Context is the shared state handed to every command.
type Context struct {
	Store      storage.Provider
	Controller *controller.Controller
}

// EnsureLoaded opens the project store on first use. Loading is lazy so
// commands operating on project files never require an initialized store.
func (c *Context) EnsureLoaded() error {
	return c.Store.Load()
}

// ParseWeekdays parses a comma-separated list of weekdays
func ParseWeekdays(s string) ([]time.Weekday, error) {
	parts := strings.Split(s, ",")
	var weekdays []time.Weekday

	dayMap := map[string]time.Weekday{
		"sun":       time.Sunday,
		"sunday":    time.Sunday,
		"mon":       time.Monday,
		"monday":    time.Monday,
		"tue":       time.Tuesday,
		"tuesday":   time.Tuesday,
		"wed":       time.Wednesday,
		"wednesday": time.Wednesday,
		"thu":       time.Thursday,
		"thursday":  time.Thursday,
		"fri":       time.Friday,
		"friday":    time.Friday,
		"sat":       time.Saturday,
		"saturday":  time.Saturday,
	}

	for _, part := range parts {
		part = strings.TrimSpace(strings.ToLower(part))
		if wd, ok := dayMap[part]; ok {
			weekdays = append(weekdays, wd)
		} else {
			// Try parsing as number (0=Sunday, 6=Saturday)
			num, err := strconv.Atoi(part)
			if err == nil && num >= 0 && num <= 6 {
				weekdays = append(weekdays, time.Weekday(num))
			} else {
				return nil, fmt.Errorf("invalid weekday: %s", part)
			}
		}
	}

	return weekdays, nil
}

// ParseWindows parses a comma-separated list of HH:MM-HH:MM working windows
func ParseWindows(s string) ([]models.Window, error) {
	var windows []models.Window
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		bounds := strings.Split(part, "-")
		if len(bounds) != 2 {
			return nil, fmt.Errorf("invalid window %q, expected HH:MM-HH:MM", part)
		}
		windows = append(windows, models.Window{
			Start: strings.TrimSpace(bounds[0]),
			End:   strings.TrimSpace(bounds[1]),
		})
	}
	return windows, nil
}
