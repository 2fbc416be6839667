package calendar

import (
	"fmt"

	"github.com/jgoncalves802/visualplan/internal/models"
)

// Set holds the compiled resolvers for a project's calendars plus the
// project default. Construction validates every calendar up front so a
// scheduling pass never sees a malformed one.
type Set struct {
	resolvers map[string]*Resolver
	def       *Resolver
}

// NewSet compiles cals and selects the project calendar. An empty
// projectCalendarID selects the first calendar, or the built-in standard
// calendar when cals is empty.
func NewSet(cals []models.Calendar, projectCalendarID string) (*Set, error) {
	s := &Set{resolvers: make(map[string]*Resolver, len(cals))}

	for _, cal := range cals {
		if _, dup := s.resolvers[cal.ID]; dup {
			return nil, fmt.Errorf("duplicate calendar id %q", cal.ID)
		}
		r, err := NewResolver(cal)
		if err != nil {
			return nil, err
		}
		s.resolvers[cal.ID] = r
	}

	switch {
	case projectCalendarID != "":
		r, ok := s.resolvers[projectCalendarID]
		if !ok {
			return nil, fmt.Errorf("project calendar %q not found", projectCalendarID)
		}
		s.def = r
	case len(cals) > 0:
		s.def = s.resolvers[cals[0].ID]
	default:
		r, err := NewResolver(models.DefaultCalendar())
		if err != nil {
			return nil, err
		}
		s.resolvers[r.cal.ID] = r
		s.def = r
	}

	return s, nil
}

// For returns the resolver for a calendar id, falling back to the project
// calendar for an empty or unknown id.
func (s *Set) For(calendarID string) *Resolver {
	if r, ok := s.resolvers[calendarID]; ok {
		return r
	}
	return s.def
}

// Default returns the project calendar's resolver.
func (s *Set) Default() *Resolver { return s.def }

// Has reports whether a calendar with the given id was registered.
func (s *Set) Has(calendarID string) bool {
	_, ok := s.resolvers[calendarID]
	return ok
}
