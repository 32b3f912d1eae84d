package calendar

import (
	"fmt"
	"strings"
	"time"
)

// Calendar holds the conventions used to bucket timestamps into days, weeks and months:
// the time zone that defines "local midnight" and the weekday a week starts on.
type Calendar struct {
	Location     *time.Location
	FirstWeekday time.Weekday
}

// New returns a Calendar for the given location and week start day. A nil location means
// time.Local and an out-of-range week start day falls back to Sunday.
func New(loc *time.Location, firstWeekday time.Weekday) Calendar {
	if loc == nil {
		loc = time.Local
	}
	if firstWeekday < time.Sunday || firstWeekday > time.Saturday {
		firstWeekday = time.Sunday
	}
	return Calendar{Location: loc, FirstWeekday: firstWeekday}
}

// LoadLocation resolves an IANA time zone name. Empty or "Local" means the system zone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return loc, nil
}

// ParseWeekday converts an English weekday name ("sunday", "Mon", ...) into time.Weekday.
func ParseWeekday(name string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := d.String()
		if strings.EqualFold(name, full) || strings.EqualFold(name, full[:3]) {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("invalid weekday: %q", name)
}

func (c Calendar) loc() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

// dayStart returns the first instant of the given date. Where a DST change skips local midnight,
// time.Date resolves 00:00 to the evening before, so the result is moved forward by the jump.
func (c Calendar) dayStart(year int, month time.Month, day int) time.Time {
	loc := c.loc()
	start := time.Date(year, month, day, 0, 0, 0, 0, loc)
	noon := time.Date(year, month, day, 12, 0, 0, 0, loc)
	sy, sm, sd := start.Date()
	ny, nm, nd := noon.Date()
	if sy == ny && sm == nm && sd == nd {
		return start
	}
	_, before := start.Zone()
	_, after := noon.Zone()
	return start.Add(time.Duration(after-before) * time.Second)
}

// StartOfDay returns the day key of t: the first instant of the local calendar day containing t.
// That is local midnight unless a DST change skips it.
func (c Calendar) StartOfDay(t time.Time) time.Time {
	year, month, day := t.In(c.loc()).Date()
	return c.dayStart(year, month, day)
}

// Date builds the day key for the given calendar date.
func (c Calendar) Date(year int, month time.Month, day int) time.Time {
	return c.dayStart(year, month, day)
}

// AddDays moves a day key by n calendar days. The result is always a day key, also across DST
// changes.
func (c Calendar) AddDays(day time.Time, n int) time.Time {
	year, month, d := day.In(c.loc()).Date()
	return c.dayStart(year, month, d+n)
}

// StartOfWeek returns the first day of the week containing t, honouring FirstWeekday.
func (c Calendar) StartOfWeek(t time.Time) time.Time {
	day := c.StartOfDay(t)
	delta := (int(day.Weekday()) - int(c.FirstWeekday) + 7) % 7
	return c.AddDays(day, -delta)
}

// StartOfMonth returns the first day of the month containing t.
func (c Calendar) StartOfMonth(t time.Time) time.Time {
	year, month, _ := t.In(c.loc()).Date()
	return c.dayStart(year, month, 1)
}

// StartOfYear returns January 1st of the year containing t.
func (c Calendar) StartOfYear(t time.Time) time.Time {
	return c.dayStart(t.In(c.loc()).Year(), time.January, 1)
}

// AddMonths moves the month containing t by n months and returns the first day of the result.
func (c Calendar) AddMonths(t time.Time, n int) time.Time {
	year, month, _ := t.In(c.loc()).Date()
	return c.dayStart(year, month+time.Month(n), 1)
}

// SameDay reports whether both timestamps fall on the same local calendar day.
func (c Calendar) SameDay(a, b time.Time) bool {
	return c.StartOfDay(a).Equal(c.StartOfDay(b))
}

// SameMonth reports whether both timestamps fall in the same local month of the same year.
func (c Calendar) SameMonth(a, b time.Time) bool {
	ya, ma, _ := a.In(c.loc()).Date()
	yb, mb, _ := b.In(c.loc()).Date()
	return ya == yb && ma == mb
}

// SelectMonth returns the first day of the given month, as chosen from a month/year picker.
func (c Calendar) SelectMonth(year int, month time.Month) (time.Time, error) {
	if month < time.January || month > time.December {
		return time.Time{}, fmt.Errorf("invalid month: %d", month)
	}
	return c.dayStart(year, month, 1), nil
}
