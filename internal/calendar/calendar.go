// Package calendar resolves working-time policies into date arithmetic:
// whether an instant is working time, and what instant lies N working units
// away. All arithmetic is integer working minutes; no floating-point dates.
package calendar

import (
	"fmt"
	"sort"
	"time"

	"github.com/jgoncalves802/visualplan/internal/constants"
	"github.com/jgoncalves802/visualplan/internal/models"
)

// InvalidCalendarError is returned at construction time for a calendar that
// could never produce working time, or whose windows or exception
// recurrence parameters are malformed.
type InvalidCalendarError struct {
	CalendarID string
	Reason     string
}

func (e *InvalidCalendarError) Error() string {
	return fmt.Sprintf("invalid calendar %q: %s", e.CalendarID, e.Reason)
}

// ErrNoWorkingTime is returned by a calendar walk that exhausted the
// bounded lookahead without finding working time. A validated calendar only
// hits this when its working time comes entirely from exceptions that have
// expired past the query window.
var ErrNoWorkingTime = fmt.Errorf("no working time within %d days", constants.MaxLookaheadDays)

// span is a working time-of-day range in minutes from midnight, start
// inclusive, end exclusive.
type span struct {
	start, end int
}

type compiledException struct {
	working  bool
	windows  []span // nil means the calendar's default windows
	start    time.Time
	rangeLen int // days, inclusive
	recType  models.RecurrenceType
	interval int
	until    time.Time // zero when open-ended
	count    int       // 0 when unbounded
}

// Resolver answers working-time queries for one calendar. It is immutable
// after construction and safe for concurrent use.
type Resolver struct {
	cal        models.Calendar
	weekdays   [7]bool
	defaults   []span
	exceptions []compiledException
	dayMinutes int
}

// NewResolver validates cal and compiles it for fast resolution. Malformed
// windows or recurrence parameters, and calendars that can never produce
// working time, are rejected here rather than during a scheduling pass.
func NewResolver(cal models.Calendar) (*Resolver, error) {
	r := &Resolver{cal: cal}

	for _, wd := range cal.WorkingDays {
		if wd < 0 || wd > 6 {
			return nil, &InvalidCalendarError{cal.ID, fmt.Sprintf("working day %d out of range", wd)}
		}
		r.weekdays[wd] = true
	}

	defaults, err := parseWindows(cal.Windows)
	if err != nil {
		return nil, &InvalidCalendarError{cal.ID, err.Error()}
	}
	r.defaults = defaults

	anyWeekday := false
	for _, ok := range r.weekdays {
		anyWeekday = anyWeekday || ok
	}
	if anyWeekday && len(defaults) == 0 {
		return nil, &InvalidCalendarError{cal.ID, "working days declared without working windows"}
	}

	anyWorkingException := false
	for i, ex := range cal.Exceptions {
		ce, err := compileException(ex)
		if err != nil {
			return nil, &InvalidCalendarError{cal.ID, fmt.Sprintf("exception %d: %v", i, err)}
		}
		if ce.working && ce.windows == nil && len(defaults) == 0 {
			return nil, &InvalidCalendarError{cal.ID, fmt.Sprintf("exception %d: working exception with no windows on a calendar without default windows", i)}
		}
		if ce.working {
			anyWorkingException = true
		}
		r.exceptions = append(r.exceptions, ce)
	}

	if !anyWeekday && !anyWorkingException {
		return nil, &InvalidCalendarError{cal.ID, "calendar can never produce working time"}
	}

	for _, sp := range defaults {
		r.dayMinutes += sp.end - sp.start
	}
	if r.dayMinutes == 0 {
		// Working time comes entirely from exceptions; use the first working
		// exception's windows as the day length for unit conversion.
		for _, ce := range r.exceptions {
			if ce.working && ce.windows != nil {
				for _, sp := range ce.windows {
					r.dayMinutes += sp.end - sp.start
				}
				break
			}
		}
	}

	return r, nil
}

func parseWindows(windows []models.Window) ([]span, error) {
	spans := make([]span, 0, len(windows))
	for _, w := range windows {
		start, err := parseClock(w.Start)
		if err != nil {
			return nil, fmt.Errorf("window start %q: %w", w.Start, err)
		}
		end, err := parseClock(w.End)
		if err != nil {
			return nil, fmt.Errorf("window end %q: %w", w.End, err)
		}
		if end <= start {
			return nil, fmt.Errorf("window %s-%s: end must be after start", w.Start, w.End)
		}
		spans = append(spans, span{start, end})
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	for i := 1; i < len(spans); i++ {
		if spans[i].start < spans[i-1].end {
			return nil, fmt.Errorf("windows overlap at %s", formatClock(spans[i].start))
		}
	}
	return spans, nil
}

func compileException(ex models.CalendarException) (compiledException, error) {
	ce := compiledException{working: ex.Working}

	start, err := time.Parse(constants.DateFormat, ex.Start)
	if err != nil {
		return ce, fmt.Errorf("start date %q: %w", ex.Start, err)
	}
	end, err := time.Parse(constants.DateFormat, ex.End)
	if err != nil {
		return ce, fmt.Errorf("end date %q: %w", ex.End, err)
	}
	if end.Before(start) {
		return ce, fmt.Errorf("date range %s..%s: end before start", ex.Start, ex.End)
	}
	ce.start = start
	ce.rangeLen = daysBetween(start, end) + 1

	if len(ex.Windows) > 0 {
		spans, err := parseWindows(ex.Windows)
		if err != nil {
			return ce, err
		}
		ce.windows = spans
	}

	rec := ex.Recurrence
	if rec.Type == "" {
		rec.Type = models.RecurrenceNone
	}
	if !rec.Type.Valid() {
		return ce, fmt.Errorf("unknown recurrence type %q", rec.Type)
	}
	if rec.Interval < 0 {
		return ce, fmt.Errorf("recurrence interval %d must not be negative", rec.Interval)
	}
	if rec.Count < 0 {
		return ce, fmt.Errorf("recurrence count %d must not be negative", rec.Count)
	}
	ce.recType = rec.Type
	ce.interval = rec.Interval
	if ce.interval == 0 {
		ce.interval = 1
	}
	ce.count = rec.Count
	if rec.Until != "" {
		until, err := time.Parse(constants.DateFormat, rec.Until)
		if err != nil {
			return ce, fmt.Errorf("recurrence until %q: %w", rec.Until, err)
		}
		if until.Before(start) {
			return ce, fmt.Errorf("recurrence until %s precedes range start %s", rec.Until, ex.Start)
		}
		ce.until = until
	}
	if rec.Type == models.RecurrenceNone && (rec.Count > 1 || rec.Until != "") {
		return ce, fmt.Errorf("non-recurring exception must not carry an end condition")
	}

	return ce, nil
}

// matches reports whether day falls inside any occurrence of the exception.
// Recurring occurrences are evaluated lazily relative to the queried day;
// nothing is ever materialized.
func (ce *compiledException) matches(day time.Time) bool {
	off := daysBetween(ce.start, day)
	if off < 0 {
		return false
	}

	switch ce.recType {
	case models.RecurrenceNone:
		return off < ce.rangeLen
	case models.RecurrenceDaily, models.RecurrenceWeekly:
		step := ce.interval
		if ce.recType == models.RecurrenceWeekly {
			step *= 7
		}
		// The queried day can only fall inside occurrences whose start lies
		// within rangeLen days behind it.
		first := (off - ce.rangeLen + 1 + step - 1) / step
		if first < 0 {
			first = 0
		}
		for m := first; m*step <= off; m++ {
			if ce.occurrenceEnded(m, ce.start.AddDate(0, 0, m*step)) {
				return false
			}
			if off-m*step < ce.rangeLen {
				return true
			}
		}
		return false
	case models.RecurrenceMonthly:
		for m := 0; ; m++ {
			occ := ce.start.AddDate(0, m*ce.interval, 0)
			if occ.After(day) || ce.occurrenceEnded(m, occ) {
				return false
			}
			if d := daysBetween(occ, day); d >= 0 && d < ce.rangeLen {
				return true
			}
		}
	case models.RecurrenceYearly:
		for m := 0; ; m++ {
			occ := ce.start.AddDate(m*ce.interval, 0, 0)
			if occ.After(day) || ce.occurrenceEnded(m, occ) {
				return false
			}
			if d := daysBetween(occ, day); d >= 0 && d < ce.rangeLen {
				return true
			}
		}
	}
	return false
}

func (ce *compiledException) occurrenceEnded(m int, occStart time.Time) bool {
	if ce.count > 0 && m >= ce.count {
		return true
	}
	if !ce.until.IsZero() && occStart.After(ce.until) {
		return true
	}
	return false
}

// windowsFor resolves the working windows for a date. Exceptions override
// the weekly pattern; among matching exceptions the narrowest range wins,
// and the later-declared one wins on equal narrowness.
func (r *Resolver) windowsFor(day time.Time) ([]span, bool) {
	date := dateOnly(day)
	best := -1
	for i := range r.exceptions {
		ce := &r.exceptions[i]
		if !ce.matches(date) {
			continue
		}
		if best == -1 || ce.rangeLen <= r.exceptions[best].rangeLen {
			best = i
		}
	}
	if best >= 0 {
		ce := &r.exceptions[best]
		if !ce.working {
			return nil, false
		}
		if ce.windows != nil {
			return ce.windows, true
		}
		return r.defaults, true
	}
	if r.weekdays[day.Weekday()] {
		return r.defaults, true
	}
	return nil, false
}

// IsWorkingDay reports whether the date has any working windows.
func (r *Resolver) IsWorkingDay(day time.Time) bool {
	_, working := r.windowsFor(day)
	return working
}

// IsWorkingInstant reports whether t falls inside a working window of a
// working day.
func (r *Resolver) IsWorkingInstant(t time.Time) bool {
	spans, working := r.windowsFor(t)
	if !working {
		return false
	}
	m := minuteOf(t)
	for _, sp := range spans {
		if m >= sp.start && m < sp.end {
			return true
		}
	}
	return false
}

// UnitMinutes converts one working unit to minutes under this calendar.
func (r *Resolver) UnitMinutes(unit models.WorkUnit) int {
	if unit == models.UnitHour {
		return 60
	}
	return r.dayMinutes
}

// Advance returns the instant units working units forward (backward when
// negative) from from, skipping non-working time. Partial-unit remainders
// are carried exactly in working minutes.
func (r *Resolver) Advance(from time.Time, units int, unit models.WorkUnit) (time.Time, error) {
	return r.AdvanceMinutes(from, units*r.UnitMinutes(unit))
}

// AdvanceMinutes walks minutes of working time forward (backward when
// negative) from from.
func (r *Resolver) AdvanceMinutes(from time.Time, minutes int) (time.Time, error) {
	if minutes == 0 {
		return from, nil
	}
	if minutes > 0 {
		return r.walkForward(from, minutes)
	}
	return r.walkBackward(from, -minutes)
}

func (r *Resolver) walkForward(from time.Time, remaining int) (time.Time, error) {
	day := from
	posMin := minuteOf(from)
	for i := 0; i <= constants.MaxLookaheadDays; i++ {
		spans, working := r.windowsFor(day)
		if working {
			for _, sp := range spans {
				lo := sp.start
				if i == 0 && posMin > lo {
					lo = posMin
				}
				if lo >= sp.end {
					continue
				}
				if avail := sp.end - lo; avail >= remaining {
					return atMinute(day, lo+remaining), nil
				} else {
					remaining -= avail
				}
			}
		}
		day = day.AddDate(0, 0, 1)
	}
	return time.Time{}, ErrNoWorkingTime
}

func (r *Resolver) walkBackward(from time.Time, remaining int) (time.Time, error) {
	day := from
	posMin := minuteOf(from)
	for i := 0; i <= constants.MaxLookaheadDays; i++ {
		spans, working := r.windowsFor(day)
		if working {
			for j := len(spans) - 1; j >= 0; j-- {
				sp := spans[j]
				hi := sp.end
				if i == 0 && posMin < hi {
					hi = posMin
				}
				if hi <= sp.start {
					continue
				}
				if avail := hi - sp.start; avail >= remaining {
					return atMinute(day, hi-remaining), nil
				} else {
					remaining -= avail
				}
			}
		}
		day = day.AddDate(0, 0, -1)
	}
	return time.Time{}, ErrNoWorkingTime
}

// SnapForward returns the earliest instant at or after t with working time
// still ahead of it. An instant sitting on the end of a window snaps to the
// next window's start.
func (r *Resolver) SnapForward(t time.Time) (time.Time, error) {
	day := t
	posMin := minuteOf(t)
	for i := 0; i <= constants.MaxLookaheadDays; i++ {
		spans, working := r.windowsFor(day)
		if working {
			for _, sp := range spans {
				lo := sp.start
				if i == 0 && posMin > lo {
					lo = posMin
				}
				if lo < sp.end {
					return atMinute(day, lo), nil
				}
			}
		}
		day = day.AddDate(0, 0, 1)
	}
	return time.Time{}, ErrNoWorkingTime
}

// SnapBackward returns the latest instant at or before t with working time
// behind it. An instant sitting on the start of a window snaps to the
// previous window's end.
func (r *Resolver) SnapBackward(t time.Time) (time.Time, error) {
	day := t
	posMin := minuteOf(t)
	for i := 0; i <= constants.MaxLookaheadDays; i++ {
		spans, working := r.windowsFor(day)
		if working {
			for j := len(spans) - 1; j >= 0; j-- {
				sp := spans[j]
				hi := sp.end
				if i == 0 && posMin < hi {
					hi = posMin
				}
				if hi > sp.start {
					return atMinute(day, hi), nil
				}
			}
		}
		day = day.AddDate(0, 0, -1)
	}
	return time.Time{}, ErrNoWorkingTime
}

// WorkingMinutesBetween counts the working minutes in [a, b). Negative when
// b precedes a.
func (r *Resolver) WorkingMinutesBetween(a, b time.Time) int {
	if b.Before(a) {
		return -r.WorkingMinutesBetween(b, a)
	}
	total := 0
	day := a
	endDate := dateOnly(b)
	for i := 0; ; i++ {
		date := dateOnly(day)
		spans, working := r.windowsFor(day)
		if working {
			for _, sp := range spans {
				lo, hi := sp.start, sp.end
				if date.Equal(dateOnly(a)) && minuteOf(a) > lo {
					lo = minuteOf(a)
				}
				if date.Equal(endDate) && minuteOf(b) < hi {
					hi = minuteOf(b)
				}
				if hi > lo {
					total += hi - lo
				}
			}
		}
		if date.Equal(endDate) || i > constants.MaxLookaheadDays {
			break
		}
		day = day.AddDate(0, 0, 1)
	}
	return total
}

// Span expresses the working time between two instants in working units.
func (r *Resolver) Span(a, b time.Time, unit models.WorkUnit) float64 {
	return float64(r.WorkingMinutesBetween(a, b)) / float64(r.UnitMinutes(unit))
}

// Calendar returns the source calendar definition.
func (r *Resolver) Calendar() models.Calendar { return r.cal }

func parseClock(s string) (int, error) {
	t, err := time.Parse(constants.TimeFormat, s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func minuteOf(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

func atMinute(day time.Time, minutes int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), minutes/60, minutes%60, 0, 0, day.Location())
}

func daysBetween(a, b time.Time) int {
	return int(dateOnly(b).Sub(dateOnly(a)).Hours() / 24)
}
