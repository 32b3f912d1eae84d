package stats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/learningjourney/journey/pkg/calendar"
	"github.com/learningjourney/journey/pkg/day_log"
	log "github.com/sirupsen/logrus"
)

// MaxDays bounds a single stats request.
const MaxDays = 366

var ErrInvalidRange = errors.New("invalid stats range")

// DayLogReader is the read side of the day log.
type DayLogReader interface {
	StatusForDate(date time.Time) day_log.DayStatus
	Calendar() calendar.Calendar
}

type StatsService interface {
	GetStats(ctx context.Context, from time.Time, to time.Time) (StatsSummary, error)
}

type StatsServiceImpl struct {
	dayLog DayLogReader
}

func NewStatsServiceImpl(dayLog DayLogReader) *StatsServiceImpl {
	return &StatsServiceImpl{dayLog: dayLog}
}

// GetStats lists the status of every day from the day holding from up to, but excluding, the
// day holding to.
func (s *StatsServiceImpl) GetStats(ctx context.Context, from time.Time, to time.Time) (StatsSummary, error) {
	cal := s.dayLog.Calendar()
	start := cal.StartOfDay(from)
	end := cal.StartOfDay(to)
	if !start.Before(end) {
		return StatsSummary{}, fmt.Errorf("%w: %s is not before %s", ErrInvalidRange, start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	summary := StatsSummary{StartDate: start, EndDate: end}
	for day := start; day.Before(end); day = cal.AddDays(day, 1) {
		if len(summary.Days) == MaxDays {
			return StatsSummary{}, fmt.Errorf("%w: more than %d days requested", ErrInvalidRange, MaxDays)
		}
		status := s.dayLog.StatusForDate(day)
		switch status {
		case day_log.Learned:
			summary.Learned++
		case day_log.Frozen:
			summary.Frozen++
		default:
			summary.Missed++
		}
		summary.Days = append(summary.Days, DailyStats{Date: day, Status: status})
	}
	log.Debugf("Stats built for %d days starting %s", len(summary.Days), start.Format("2006-01-02"))
	return summary, nil
}
