package activity

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/learningjourney/journey/internal/event_bus"
	"github.com/learningjourney/journey/internal/utils"
	"github.com/learningjourney/journey/pkg/day_log"
	"github.com/learningjourney/journey/pkg/goal"
	"github.com/learningjourney/journey/pkg/plan"
	log "github.com/sirupsen/logrus"
)

var (
	ErrAlreadyLogged = errors.New("today already has a status")
	ErrNoFreezesLeft = errors.New("no freezes left in the current plan window")
)

// GoalReader provides the active goal.
type GoalReader interface {
	Get(ctx context.Context) (goal.Goal, error)
}

// Summary describes progress inside the plan window containing today.
type Summary struct {
	HabitName       string
	Plan            plan.Plan
	Window          plan.Window
	Today           time.Time
	TodayStatus     day_log.DayStatus
	LearnedDays     int
	FrozenDays      int
	FreezeAllowance int
	FreezesUsed     int
	FreezesLeft     int
	Streak          int
}

type Service interface {
	TodayStatus(ctx context.Context) (day_log.DayStatus, error)
	StatusForDate(ctx context.Context, date time.Time) (day_log.DayStatus, error)
	LogLearned(ctx context.Context) (day_log.Entry, error)
	LogFrozen(ctx context.Context) (day_log.Entry, error)
	Summary(ctx context.Context) (Summary, error)
}

type ServiceImpl struct {
	// mu makes check-then-write of today's status atomic.
	mu     sync.Mutex
	dayLog *day_log.DayLog
	repo   day_log.Repository
	goals  GoalReader
	clock  utils.Clock
}

func NewService(dayLog *day_log.DayLog, repo day_log.Repository, goals GoalReader, eventBus *event_bus.EventBus, clock utils.Clock) *ServiceImpl {
	s := &ServiceImpl{
		dayLog: dayLog,
		repo:   repo,
		goals:  goals,
		clock:  clock,
	}
	event_bus.SubscribeTyped(eventBus, event_bus.DayRolledOverEvent, s.handleDayRolledOver)
	event_bus.SubscribeTyped(eventBus, event_bus.GoalStartedEvent, s.handleGoalStarted)
	return s
}

// Load replaces the in-memory log with the persisted entries.
func (s *ServiceImpl) Load(ctx context.Context) error {
	entries, err := s.repo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load day log: %w", err)
	}
	s.dayLog.Restore(entries)
	log.Infof("Day log restored with %d entries", len(entries))
	return nil
}

func (s *ServiceImpl) today() time.Time {
	return s.dayLog.Calendar().StartOfDay(s.clock.Now())
}

func (s *ServiceImpl) TodayStatus(ctx context.Context) (day_log.DayStatus, error) {
	return s.dayLog.StatusForDate(s.today()), nil
}

func (s *ServiceImpl) StatusForDate(ctx context.Context, date time.Time) (day_log.DayStatus, error) {
	return s.dayLog.StatusForDate(date), nil
}

// LogLearned marks today as learned. Only a day without status can be logged.
func (s *ServiceImpl) LogLearned(ctx context.Context) (day_log.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.today()
	if status := s.dayLog.StatusForDate(today); status != day_log.None {
		return day_log.Entry{}, fmt.Errorf("%w: %s", ErrAlreadyLogged, status)
	}
	return s.record(ctx, today, day_log.Learned)
}

// LogFrozen spends one freeze on today, provided the plan window still has one left.
func (s *ServiceImpl) LogFrozen(ctx context.Context) (day_log.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.today()
	if status := s.dayLog.StatusForDate(today); status != day_log.None {
		return day_log.Entry{}, fmt.Errorf("%w: %s", ErrAlreadyLogged, status)
	}

	g, err := s.goals.Get(ctx)
	if err != nil {
		return day_log.Entry{}, err
	}
	window := plan.StatWindow(g.Plan, today, s.dayLog.Calendar())
	used := s.dayLog.CountInRange(day_log.Frozen, window.Start, window.End)
	if plan.FreezesLeft(g.Plan, used) == 0 {
		return day_log.Entry{}, fmt.Errorf("%w: %d of %d used", ErrNoFreezesLeft, used, g.Plan.FreezeAllowance())
	}
	return s.record(ctx, today, day_log.Frozen)
}

func (s *ServiceImpl) record(ctx context.Context, day time.Time, status day_log.DayStatus) (day_log.Entry, error) {
	if err := s.repo.Upsert(ctx, day, status); err != nil {
		return day_log.Entry{}, err
	}
	s.dayLog.SetStatus(status, day)
	log.Infof("Day %s logged as %s", day.Format("2006-01-02"), status)
	return day_log.Entry{Day: day, Status: status}, nil
}

func (s *ServiceImpl) Summary(ctx context.Context) (Summary, error) {
	g, err := s.goals.Get(ctx)
	if err != nil {
		return Summary{}, err
	}
	today := s.today()
	window := plan.StatWindow(g.Plan, today, s.dayLog.Calendar())
	frozen := s.dayLog.CountInRange(day_log.Frozen, window.Start, window.End)

	return Summary{
		HabitName:       g.HabitName,
		Plan:            g.Plan,
		Window:          window,
		Today:           today,
		TodayStatus:     s.dayLog.StatusForDate(today),
		LearnedDays:     s.dayLog.CountInRange(day_log.Learned, window.Start, window.End),
		FrozenDays:      frozen,
		FreezeAllowance: g.Plan.FreezeAllowance(),
		FreezesUsed:     frozen,
		FreezesLeft:     plan.FreezesLeft(g.Plan, frozen),
		Streak:          Streak(s.dayLog, today),
	}, nil
}

// Streak counts consecutive learned or frozen days ending today. While today has no status
// yet the streak ending yesterday is still alive.
func Streak(dayLog *day_log.DayLog, today time.Time) int {
	cal := dayLog.Calendar()
	day := cal.StartOfDay(today)
	if dayLog.StatusForDate(day) == day_log.None {
		day = cal.AddDays(day, -1)
	}

	streak := 0
	for dayLog.StatusForDate(day) != day_log.None {
		streak++
		day = cal.AddDays(day, -1)
	}
	return streak
}

func (s *ServiceImpl) handleDayRolledOver(e event_bus.EventT[event_bus.DayRolledOver]) error {
	previous := e.Data.Previous
	status := s.dayLog.StatusForDate(previous)
	if status == day_log.None {
		log.Warnf("Day %s ended without progress, streak is broken", previous.Format("2006-01-02"))
		return nil
	}
	log.Infof("Day %s ended as %s, streak is %d", previous.Format("2006-01-02"), status, Streak(s.dayLog, previous))
	return nil
}

func (s *ServiceImpl) handleGoalStarted(e event_bus.EventT[event_bus.GoalStarted]) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted, err := s.repo.DeleteAll(e.Context())
	if err != nil {
		return fmt.Errorf("failed to clear day log for new goal %q: %w", e.Data.HabitName, err)
	}
	s.dayLog.Reset()
	log.Infof("New goal %q started, cleared %d logged days", e.Data.HabitName, deleted)
	return nil
}
