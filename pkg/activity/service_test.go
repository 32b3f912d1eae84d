package activity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/learningjourney/journey/internal/event_bus"
	"github.com/learningjourney/journey/internal/utils"
	"github.com/learningjourney/journey/pkg/calendar"
	"github.com/learningjourney/journey/pkg/day_log"
	"github.com/learningjourney/journey/pkg/goal"
	"github.com/learningjourney/journey/pkg/plan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

var cal = calendar.New(time.UTC, time.Sunday)

type goalStub struct {
	goal goal.Goal
	err  error
}

func (g *goalStub) Get(ctx context.Context) (goal.Goal, error) {
	return g.goal, g.err
}

type fixture struct {
	service *ServiceImpl
	dayLog  *day_log.DayLog
	repo    *day_log.RepositoryStub
	goals   *goalStub
	clock   *utils.MockClock
	bus     *event_bus.EventBus
}

func setup(t *testing.T, p plan.Plan, now time.Time) *fixture {
	f := &fixture{
		dayLog: day_log.New(cal),
		repo:   day_log.NewRepositoryStub(cal),
		goals:  &goalStub{goal: goal.Goal{HabitName: "Spanish", Plan: p, HasSetGoal: true}},
		clock:  utils.NewMockClock(now),
		bus:    event_bus.NewEventBus(),
	}
	f.service = NewService(f.dayLog, f.repo, f.goals, f.bus, f.clock)
	return f
}

func TestServiceImpl_LogLearned(t *testing.T) {
	t.Run("should log today and persist it", func(t *testing.T) {
		// given
		f := setup(t, plan.Week, time.Date(2025, time.March, 10, 20, 0, 0, 0, time.UTC))

		// when
		entry, err := f.service.LogLearned(ctx)

		// then
		require.NoError(t, err)
		assert.Equal(t, day_log.Entry{Day: cal.Date(2025, time.March, 10), Status: day_log.Learned}, entry)
		status, _ := f.service.TodayStatus(ctx)
		assert.Equal(t, day_log.Learned, status)
		stored, _ := f.repo.GetAll(ctx)
		assert.Equal(t, []day_log.Entry{entry}, stored)
	})

	t.Run("should refuse a second log on the same day", func(t *testing.T) {
		// given
		f := setup(t, plan.Week, time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC))
		_, err := f.service.LogFrozen(ctx)
		require.NoError(t, err)
		f.clock.Advance(10 * time.Hour)

		// when
		_, err = f.service.LogLearned(ctx)

		// then
		assert.ErrorIs(t, err, ErrAlreadyLogged)
		assert.Equal(t, day_log.Frozen, f.dayLog.StatusForDate(f.clock.Now()))
	})

	t.Run("should not change the log when persisting fails", func(t *testing.T) {
		// given
		f := setup(t, plan.Week, time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC))
		f.repo.FailWith(errors.New("connection refused"))

		// when
		_, err := f.service.LogLearned(ctx)

		// then
		assert.Error(t, err)
		assert.Equal(t, day_log.None, f.dayLog.StatusForDate(f.clock.Now()))
	})
}

func TestServiceImpl_LogFrozen_WeekCap(t *testing.T) {
	// given
	f := setup(t, plan.Week, time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC))
	_, err := f.service.LogFrozen(ctx)
	require.NoError(t, err)
	f.clock.Advance(24 * time.Hour)
	_, err = f.service.LogFrozen(ctx)
	require.NoError(t, err)

	summary, err := f.service.Summary(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, summary.FreezesLeft)

	// when
	f.clock.Advance(24 * time.Hour)
	_, err = f.service.LogFrozen(ctx)

	// then
	assert.ErrorIs(t, err, ErrNoFreezesLeft)
	assert.Equal(t, day_log.None, f.dayLog.StatusForDate(f.clock.Now()))

	t.Run("learning is still possible", func(t *testing.T) {
		_, err := f.service.LogLearned(ctx)
		assert.NoError(t, err)
	})

	t.Run("a new week restores the allowance", func(t *testing.T) {
		// Sunday 2025-03-16 starts the next week
		f.clock.SetNow(time.Date(2025, time.March, 16, 9, 0, 0, 0, time.UTC))
		_, err := f.service.LogFrozen(ctx)
		assert.NoError(t, err)
	})
}

func TestServiceImpl_LogFrozen_YearCap(t *testing.T) {
	// given
	f := setup(t, plan.Year, time.Date(2025, time.December, 1, 9, 0, 0, 0, time.UTC))
	yearStart := cal.Date(2025, time.January, 1)
	for i := 0; i < 96; i++ {
		f.dayLog.SetStatus(day_log.Frozen, cal.AddDays(yearStart, i))
	}

	// when
	_, err := f.service.LogFrozen(ctx)

	// then
	assert.ErrorIs(t, err, ErrNoFreezesLeft)
	summary, err := f.service.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.FreezesLeft)
	assert.Equal(t, 96, summary.FreezesUsed)

	// the store itself still accepts a forced write
	f.dayLog.SetStatus(day_log.Frozen, f.clock.Now())
	assert.Equal(t, 97, f.dayLog.CountInRange(day_log.Frozen, yearStart, cal.Date(2026, time.January, 1)))
}

func TestServiceImpl_Summary_WeekScenario(t *testing.T) {
	// given
	f := setup(t, plan.Week, time.Date(2025, time.March, 11, 21, 0, 0, 0, time.UTC))
	f.dayLog.SetStatus(day_log.Learned, cal.Date(2025, time.March, 10))
	_, err := f.service.LogFrozen(ctx)
	require.NoError(t, err)

	// when
	summary, err := f.service.Summary(ctx)

	// then
	require.NoError(t, err)
	assert.Equal(t, plan.Week, summary.Plan)
	assert.Equal(t, cal.Date(2025, time.March, 9), summary.Window.Start)
	assert.Equal(t, cal.Date(2025, time.March, 16), summary.Window.End)
	assert.Equal(t, 1, summary.LearnedDays)
	assert.Equal(t, 1, summary.FrozenDays)
	assert.Equal(t, 2, summary.FreezeAllowance)
	assert.Equal(t, 1, summary.FreezesLeft)
	assert.Equal(t, day_log.Frozen, summary.TodayStatus)
	assert.Equal(t, 2, summary.Streak)
}

func TestServiceImpl_Summary_GoalError(t *testing.T) {
	f := setup(t, plan.Week, time.Date(2025, time.March, 11, 21, 0, 0, 0, time.UTC))
	f.goals.err = errors.New("boom")

	_, err := f.service.Summary(ctx)

	assert.Error(t, err)
}

func TestStreak(t *testing.T) {
	today := cal.Date(2025, time.March, 12)

	tests := []struct {
		name     string
		days     map[int]day_log.DayStatus
		expected int
	}{
		{"empty log", map[int]day_log.DayStatus{}, 0},
		{"today only", map[int]day_log.DayStatus{0: day_log.Learned}, 1},
		{"freezes keep the streak", map[int]day_log.DayStatus{0: day_log.Learned, -1: day_log.Frozen, -2: day_log.Learned}, 3},
		{"today not logged yet", map[int]day_log.DayStatus{-1: day_log.Learned, -2: day_log.Learned}, 2},
		{"gap breaks the streak", map[int]day_log.DayStatus{0: day_log.Learned, -2: day_log.Learned}, 1},
		{"missed yesterday", map[int]day_log.DayStatus{-2: day_log.Learned, -3: day_log.Learned}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dayLog := day_log.New(cal)
			for offset, status := range tt.days {
				dayLog.SetStatus(status, cal.AddDays(today, offset))
			}
			assert.Equal(t, tt.expected, Streak(dayLog, today.Add(15*time.Hour)))
		})
	}
}

func TestServiceImpl_Load(t *testing.T) {
	// given
	f := setup(t, plan.Week, time.Date(2025, time.March, 12, 9, 0, 0, 0, time.UTC))
	require.NoError(t, f.repo.Upsert(ctx, cal.Date(2025, time.March, 11), day_log.Learned))
	require.NoError(t, f.repo.Upsert(ctx, cal.Date(2025, time.March, 12), day_log.Frozen))

	// when
	err := f.service.Load(ctx)

	// then
	require.NoError(t, err)
	status, _ := f.service.TodayStatus(ctx)
	assert.Equal(t, day_log.Frozen, status)
	assert.Len(t, f.dayLog.Entries(), 2)

	f.repo.FailWith(errors.New("down"))
	assert.Error(t, f.service.Load(ctx))
}

func TestServiceImpl_GoalStartedResetsProgress(t *testing.T) {
	// given
	f := setup(t, plan.Week, time.Date(2025, time.March, 12, 9, 0, 0, 0, time.UTC))
	_, err := f.service.LogLearned(ctx)
	require.NoError(t, err)

	// when
	err = f.bus.Publish(event_bus.NewEvent(ctx, event_bus.GoalStartedEvent, event_bus.GoalStarted{HabitName: "Piano", Plan: "Week"}))

	// then
	require.NoError(t, err)
	assert.Empty(t, f.dayLog.Entries())
	stored, _ := f.repo.GetAll(ctx)
	assert.Empty(t, stored)
	_, err = f.service.LogLearned(ctx)
	assert.NoError(t, err)
}

func TestServiceImpl_GoalStartedKeepsLogWhenRepositoryFails(t *testing.T) {
	f := setup(t, plan.Week, time.Date(2025, time.March, 12, 9, 0, 0, 0, time.UTC))
	_, err := f.service.LogLearned(ctx)
	require.NoError(t, err)
	f.repo.FailWith(errors.New("down"))

	err = f.bus.Publish(event_bus.NewEvent(ctx, event_bus.GoalStartedEvent, event_bus.GoalStarted{HabitName: "Piano"}))

	assert.Error(t, err)
	assert.Len(t, f.dayLog.Entries(), 1)
}

func TestServiceImpl_DayRolledOverKeepsLogIntact(t *testing.T) {
	// given
	f := setup(t, plan.Week, time.Date(2025, time.March, 12, 23, 0, 0, 0, time.UTC))
	_, err := f.service.LogLearned(ctx)
	require.NoError(t, err)

	// when
	f.clock.SetNow(time.Date(2025, time.March, 13, 0, 0, 1, 0, time.UTC))
	err = f.bus.Publish(event_bus.NewEvent(ctx, event_bus.DayRolledOverEvent, event_bus.DayRolledOver{
		Day:      cal.Date(2025, time.March, 13),
		Previous: cal.Date(2025, time.March, 12),
	}))

	// then
	require.NoError(t, err)
	status, _ := f.service.TodayStatus(ctx)
	assert.Equal(t, day_log.None, status)
	summary, _ := f.service.Summary(ctx)
	assert.Equal(t, 1, summary.Streak)
	assert.Equal(t, 1, summary.LearnedDays)
}

func TestStreak_AcrossSkippedMidnight(t *testing.T) {
	// Santiago moved its clocks from 00:00 to 01:00 on 2024-09-08
	loc, err := time.LoadLocation("America/Santiago")
	require.NoError(t, err)
	santiago := calendar.New(loc, time.Sunday)
	dayLog := day_log.New(santiago)
	dayLog.SetStatus(day_log.Learned, santiago.Date(2024, time.September, 7))
	dayLog.SetStatus(day_log.Learned, time.Date(2024, time.September, 8, 18, 0, 0, 0, loc))

	assert.Equal(t, 2, Streak(dayLog, time.Date(2024, time.September, 8, 20, 0, 0, 0, loc)))
	assert.Equal(t, 2, Streak(dayLog, time.Date(2024, time.September, 9, 8, 0, 0, 0, loc)))
}
