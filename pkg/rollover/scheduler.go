package rollover

import (
	"context"
	"sync"
	"time"

	"github.com/learningjourney/journey/internal/event_bus"
	"github.com/learningjourney/journey/internal/utils"
	"github.com/learningjourney/journey/pkg/calendar"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

const (
	// FallbackDelay is used when the next local 00:00:01 cannot be computed sensibly.
	FallbackDelay = 86401 * time.Second
	// maxDelay bounds a valid target; a 25h DST day still fits.
	maxDelay = 48 * time.Hour
)

// NextRollover returns the first local 00:00:01 strictly after now. When the zone rules make
// that instant unreachable it returns now + FallbackDelay. On a day whose midnight is skipped by
// a DST change the rollover happens one second after the day starts.
func NextRollover(now time.Time, loc *time.Location) time.Time {
	cal := calendar.New(loc, time.Sunday)
	today := cal.StartOfDay(now)
	target := today.Add(time.Second)
	if !target.After(now) {
		target = cal.AddDays(today, 1).Add(time.Second)
	}
	if !target.After(now) || target.Sub(now) > maxDelay {
		return now.Add(FallbackDelay)
	}
	return target
}

// rolloverSchedule adapts a next-time function to cron.Schedule.
type rolloverSchedule func(time.Time) time.Time

func (s rolloverSchedule) Next(t time.Time) time.Time {
	return s(t)
}

// Scheduler publishes DayRolledOver after every local midnight. It holds at most one
// pending entry: Schedule replaces the previous one.
type Scheduler struct {
	mu       sync.Mutex
	cron     *cron.Cron
	entry    cron.EntryID
	calendar calendar.Calendar
	clock    utils.Clock
	eventBus *event_bus.EventBus
	next     func(time.Time) time.Time
}

func NewScheduler(cal calendar.Calendar, eventBus *event_bus.EventBus, clock utils.Clock) *Scheduler {
	logger := cron.PrintfLogger(log.StandardLogger())
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(cal.Location),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger)),
		),
		calendar: cal,
		clock:    clock,
		eventBus: eventBus,
		next: func(now time.Time) time.Time {
			return NextRollover(now, cal.Location)
		},
	}
}

// Schedule cancels the pending rollover, if any, and arms a new repeating one.
func (s *Scheduler) Schedule() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entry != 0 {
		s.cron.Remove(s.entry)
	}
	s.entry = s.cron.Schedule(rolloverSchedule(s.next), cron.FuncJob(s.fire))
	log.Infof("Next day rollover scheduled at %s", s.next(s.clock.Now()).Format(time.RFC3339))
}

func (s *Scheduler) Start() {
	s.Schedule()
	s.cron.Start()
	log.Info("Rollover scheduler started")
}

// Stop halts the scheduler and waits for a running rollover to finish.
func (s *Scheduler) Stop() {
	log.Info("Stopping rollover scheduler...")
	<-s.cron.Stop().Done()
	log.Info("Rollover scheduler stopped")
}

func (s *Scheduler) fire() {
	day := s.calendar.StartOfDay(s.clock.Now())
	payload := event_bus.DayRolledOver{Day: day, Previous: s.calendar.AddDays(day, -1)}
	log.Debugf("Day rolled over to %s", day.Format("2006-01-02"))

	err := s.eventBus.Publish(event_bus.NewEvent(context.Background(), event_bus.DayRolledOverEvent, payload))
	if err != nil {
		log.Errorf("failed to publish day rollover: %v", err)
	}
}
