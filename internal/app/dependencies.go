package app

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/learningjourney/journey/internal/config"
	"github.com/learningjourney/journey/internal/event_bus"
	"github.com/learningjourney/journey/internal/rest"
	"github.com/learningjourney/journey/internal/utils"
	"github.com/learningjourney/journey/pkg/activity"
	"github.com/learningjourney/journey/pkg/calendar"
	"github.com/learningjourney/journey/pkg/calendar_view"
	"github.com/learningjourney/journey/pkg/day_log"
	"github.com/learningjourney/journey/pkg/goal"
	"github.com/learningjourney/journey/pkg/rollover"
	"github.com/learningjourney/journey/pkg/stats"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Clock     utils.Clock
	Calendar  calendar.Calendar
	EventBus  *event_bus.EventBus
	Validator *rest.Validator

	DayLog     *day_log.DayLog
	DayLogRepo day_log.Repository

	GoalRepo    goal.Repository
	GoalService *goal.ServiceImpl
	GoalHandler *goal.Handler

	ActivityService *activity.ServiceImpl
	ActivityHandler *activity.Handler

	CalendarHandler *calendar_view.Handler

	StatsService *stats.StatsServiceImpl
	StatsHandler *stats.StatsHandler

	RolloverScheduler *rollover.Scheduler
}

// NewCalendar builds the calendar rules from configuration.
func NewCalendar(cfg config.Calendar) (calendar.Calendar, error) {
	loc, err := calendar.LoadLocation(cfg.Timezone)
	if err != nil {
		return calendar.Calendar{}, err
	}
	firstWeekday, err := calendar.ParseWeekday(cfg.WeekStart)
	if err != nil {
		return calendar.Calendar{}, fmt.Errorf("invalid week start: %w", err)
	}
	return calendar.New(loc, firstWeekday), nil
}

// BuildDependencies initializes and wires all application services and handlers. Without a
// database pool the repositories keep their data in memory.
func BuildDependencies(db *pgxpool.Pool, cfg config.Application, clock utils.Clock) (*Dependencies, error) {
	cal, err := NewCalendar(cfg.Calendar)
	if err != nil {
		return nil, err
	}

	deps := &Dependencies{
		Clock:     clock,
		Calendar:  cal,
		EventBus:  event_bus.NewEventBus(),
		Validator: rest.NewValidator(),
	}

	if db != nil {
		deps.DayLogRepo = day_log.NewRepo(db, cal)
		deps.GoalRepo = goal.NewRepo(db)
	} else {
		deps.DayLogRepo = day_log.NewRepositoryStub(cal)
		deps.GoalRepo = goal.NewRepositoryStub()
	}
	deps.DayLog = day_log.New(cal)

	deps.GoalService = goal.NewService(deps.GoalRepo, deps.EventBus, clock)
	deps.GoalHandler = goal.NewHandler(deps.GoalService, deps.Validator)

	deps.ActivityService = activity.NewService(deps.DayLog, deps.DayLogRepo, deps.GoalService, deps.EventBus, clock)
	deps.ActivityHandler = activity.NewHandler(deps.ActivityService, cal, clock)

	deps.CalendarHandler = calendar_view.NewHandler(cal, deps.DayLog, clock, deps.Validator)

	deps.StatsService = stats.NewStatsServiceImpl(deps.DayLog)
	deps.StatsHandler = stats.NewStatsHandler(deps.StatsService, stats.NewCsvStatsRenderer(), cal, clock)

	deps.RolloverScheduler = rollover.NewScheduler(cal, deps.EventBus, clock)

	return deps, nil
}
