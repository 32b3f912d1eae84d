package stats

import (
	"time"

	"github.com/learningjourney/journey/pkg/day_log"
)

type DailyStats struct {
	Date   time.Time
	Status day_log.DayStatus
}

// StatsSummary covers the days in [StartDate, EndDate).
type StatsSummary struct {
	StartDate time.Time
	EndDate   time.Time
	Days      []DailyStats
	Learned   int
	Frozen    int
	Missed    int
}
