package calendar

import (
	"time"
)

const (
	DaysInWeek    = 7
	GridWeeks     = 6
	MonthGridSize = DaysInWeek * GridWeeks
)

// Week is one 7-day block starting at the calendar's first weekday.
type Week [DaysInWeek]time.Time

// Start returns the first day of the week.
func (w Week) Start() time.Time {
	return w[0]
}

// Contains reports whether the day key falls inside the week.
func (w Week) Contains(day time.Time) bool {
	return !day.Before(w[0]) && !day.After(w[DaysInWeek-1])
}

type CalendarDay struct {
	Date             time.Time
	IsInCurrentMonth bool
}

// MonthGrid is the 6x7 month view: the weeks covering a month padded with days of the
// adjacent months.
type MonthGrid [MonthGridSize]CalendarDay

// MonthSection is a titled month grid, as shown in the scrolling calendar.
type MonthSection struct {
	MonthStart time.Time
	Days       MonthGrid
	Title      string
}

func (c Calendar) weekStartingAt(start time.Time) Week {
	var w Week
	for i := 0; i < DaysInWeek; i++ {
		w[i] = c.AddDays(start, i)
	}
	return w
}

// WeekContaining returns the week block that contains date.
func (c Calendar) WeekContaining(date time.Time) Week {
	return c.weekStartingAt(c.StartOfWeek(date))
}

// WeeksIntersectingMonth returns every week block overlapping the month of anchor, in order.
// Collection stops as soon as a week would start on or after the first day of the next month.
func (c Calendar) WeeksIntersectingMonth(anchor time.Time) []Week {
	monthStart := c.StartOfMonth(anchor)
	monthEnd := c.AddMonths(monthStart, 1)

	var weeks []Week
	for cursor := c.StartOfWeek(monthStart); cursor.Before(monthEnd); cursor = c.AddDays(cursor, DaysInWeek) {
		weeks = append(weeks, c.weekStartingAt(cursor))
	}
	return weeks
}

// MonthGrid returns the 42 days starting at the week that holds the first day of the anchor's
// month, each tagged with whether it belongs to that month.
func (c Calendar) MonthGrid(anchor time.Time) MonthGrid {
	monthStart := c.StartOfMonth(anchor)
	gridStart := c.StartOfWeek(monthStart)

	var grid MonthGrid
	for i := 0; i < MonthGridSize; i++ {
		day := c.AddDays(gridStart, i)
		grid[i] = CalendarDay{Date: day, IsInCurrentMonth: c.SameMonth(day, monthStart)}
	}
	return grid
}

// WeekIndexContaining returns the index of the week holding date, if any.
func (c Calendar) WeekIndexContaining(date time.Time, weeks []Week) (int, bool) {
	day := c.StartOfDay(date)
	for i, w := range weeks {
		if w.Contains(day) {
			return i, true
		}
	}
	return 0, false
}

// VisibleWeek returns the week shown for the given manual offset, clamped to the weeks of the
// anchor's month.
func (c Calendar) VisibleWeek(anchor time.Time, offset int) (Week, int) {
	weeks := c.WeeksIntersectingMonth(anchor)
	index := clamp(offset, 0, len(weeks)-1)
	return weeks[index], index
}

// DefaultWeekOffset picks the week to display. When the browsed month is today's month, the
// week holding today wins over a stale manual offset.
func (c Calendar) DefaultWeekOffset(anchor time.Time, today time.Time, offset int) int {
	weeks := c.WeeksIntersectingMonth(anchor)
	if c.SameMonth(anchor, today) {
		if index, ok := c.WeekIndexContaining(today, weeks); ok {
			return index
		}
	}
	return clamp(offset, 0, len(weeks)-1)
}

// MoveWeek steps the visible week by delta. Stepping before the first week moves to the last
// week of the previous month and stepping past the last week moves to the first week of the
// next month. The returned anchor is always the first day of a month.
func (c Calendar) MoveWeek(anchor time.Time, offset int, delta int) (time.Time, int) {
	monthStart := c.StartOfMonth(anchor)
	weeksInMonth := len(c.WeeksIntersectingMonth(monthStart))

	next := offset + delta
	switch {
	case next < 0:
		previous := c.AddMonths(monthStart, -1)
		return previous, max(len(c.WeeksIntersectingMonth(previous))-1, 0)
	case next >= weeksInMonth:
		return c.AddMonths(monthStart, 1), 0
	default:
		return monthStart, next
	}
}

// MonthSections builds titled grids for the months from previous months before anchor up to
// next months after it.
func (c Calendar) MonthSections(anchor time.Time, previous int, next int) []MonthSection {
	anchorMonth := c.StartOfMonth(anchor)
	sections := make([]MonthSection, 0, previous+next+1)
	for offset := -previous; offset <= next; offset++ {
		start := c.AddMonths(anchorMonth, offset)
		sections = append(sections, MonthSection{
			MonthStart: start,
			Days:       c.MonthGrid(start),
			Title:      MonthTitle(start),
		})
	}
	return sections
}

// NeedsPrefetch reports whether the section at index is close enough to either end of the
// loaded sections that the window should be rebuilt around it.
func NeedsPrefetch(index int, count int, edgeThreshold int) bool {
	if count <= 0 || index < 0 || index >= count {
		return false
	}
	return index <= edgeThreshold || index >= count-1-edgeThreshold
}

// MonthTitle formats a month as "October 2025".
func MonthTitle(t time.Time) string {
	return t.Format("January 2006")
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
