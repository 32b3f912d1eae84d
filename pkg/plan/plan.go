package plan

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/learningjourney/journey/pkg/calendar"
)

// Plan selects the reporting window for statistics and the cap on freeze days within it.
type Plan int

const (
	Week Plan = iota
	Month
	Year
)

var ErrUnknownPlan = errors.New("unknown plan")

// All returns the plans in display order.
func All() []Plan {
	return []Plan{Week, Month, Year}
}

// FreezeAllowance is the number of freeze days permitted inside one plan window.
func (p Plan) FreezeAllowance() int {
	switch p {
	case Month:
		return 8
	case Year:
		return 96
	default:
		return 2
	}
}

// String returns the persisted identifier of the plan: "Week", "Month" or "Year".
func (p Plan) String() string {
	switch p {
	case Month:
		return "Month"
	case Year:
		return "Year"
	default:
		return "Week"
	}
}

// Parse converts a plan identifier (case-insensitive) into a Plan.
func Parse(value string) (Plan, error) {
	for _, p := range All() {
		if strings.EqualFold(strings.TrimSpace(value), p.String()) {
			return p, nil
		}
	}
	return Week, fmt.Errorf("%w: %q", ErrUnknownPlan, value)
}

func (p Plan) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Plan) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Window is a half-open time interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t lies inside the window. Start is included, End is not.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// StatWindow returns the plan window containing today: the locale week for Week, the calendar
// month for Month and the calendar year for Year.
func StatWindow(p Plan, today time.Time, cal calendar.Calendar) Window {
	switch p {
	case Month:
		start := cal.StartOfMonth(today)
		return Window{Start: start, End: cal.AddMonths(start, 1)}
	case Year:
		start := cal.StartOfYear(today)
		return Window{Start: start, End: cal.AddMonths(start, 12)}
	default:
		start := cal.StartOfWeek(today)
		return Window{Start: start, End: cal.AddDays(start, calendar.DaysInWeek)}
	}
}

// FreezesLeft returns how many freeze days remain after used ones, never below zero.
func FreezesLeft(p Plan, used int) int {
	return max(0, p.FreezeAllowance()-used)
}
