package day_log

import (
	"sync"
	"testing"
	"time"

	"github.com/learningjourney/journey/pkg/calendar"
	"github.com/learningjourney/journey/pkg/plan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var utcCalendar = calendar.New(time.UTC, time.Sunday)

func TestParseStatus(t *testing.T) {
	for _, value := range []string{"none", "learned", "frozen", ""} {
		_, err := ParseStatus(value)
		assert.NoError(t, err, value)
	}
	status, _ := ParseStatus("")
	assert.Equal(t, None, status)

	_, err := ParseStatus("skipped")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestStatusForDate_SameForWholeDay(t *testing.T) {
	// given
	log := New(utcCalendar)
	log.SetStatus(Learned, time.Date(2025, time.March, 10, 8, 15, 0, 0, time.UTC))

	// then
	for _, hour := range []int{0, 6, 12, 23} {
		date := time.Date(2025, time.March, 10, hour, 59, 59, 0, time.UTC)
		assert.Equal(t, Learned, log.StatusForDate(date), "hour %d", hour)
	}
}

func TestStatusForDate_DefaultsToNone(t *testing.T) {
	log := New(utcCalendar)
	log.SetStatus(Frozen, utcCalendar.Date(2025, time.March, 10))

	assert.Equal(t, None, log.StatusForDate(utcCalendar.Date(2025, time.March, 9)))
	assert.Equal(t, None, log.StatusForDate(utcCalendar.Date(2025, time.March, 11)))
	assert.Equal(t, None, New(utcCalendar).StatusForDate(time.Now()))
}

func TestSetStatus_LastWriteWins(t *testing.T) {
	// given
	log := New(utcCalendar)
	day := utcCalendar.Date(2025, time.March, 10)

	// when
	log.SetStatus(Learned, day)
	log.SetStatus(Learned, day.Add(3*time.Hour))
	log.SetStatus(Frozen, day.Add(9*time.Hour))

	// then
	assert.Equal(t, Frozen, log.StatusForDate(day))
	assert.Len(t, log.Entries(), 1)
}

func TestSetStatus_NoneBehavesLikeAbsence(t *testing.T) {
	log := New(utcCalendar)
	day := utcCalendar.Date(2025, time.March, 10)
	log.SetStatus(Learned, day)

	log.SetStatus(None, day)

	assert.Equal(t, None, log.StatusForDate(day))
	assert.Equal(t, 0, log.CountInRange(Learned, day, utcCalendar.AddDays(day, 1)))
}

func TestCountInRange_IsHalfOpen(t *testing.T) {
	// given
	log := New(utcCalendar)
	window := plan.StatWindow(plan.Week, utcCalendar.Date(2025, time.March, 12), utcCalendar)
	log.SetStatus(Learned, window.Start)
	log.SetStatus(Learned, window.End)
	log.SetStatus(Learned, utcCalendar.AddDays(window.Start, -1))

	// when
	count := log.CountInRange(Learned, window.Start, window.End)

	// then
	assert.Equal(t, 1, count)
}

func TestCountInRange_WeekScenario(t *testing.T) {
	// given
	log := New(utcCalendar)
	monday := utcCalendar.Date(2025, time.March, 10)
	log.SetStatus(Learned, monday)
	log.SetStatus(Frozen, utcCalendar.Date(2025, time.March, 11))

	// when
	window := plan.StatWindow(plan.Week, monday, utcCalendar)
	learned := log.CountInRange(Learned, window.Start, window.End)
	frozen := log.CountInRange(Frozen, window.Start, window.End)

	// then
	assert.Equal(t, 1, learned)
	assert.Equal(t, 1, frozen)
	assert.Equal(t, 1, plan.FreezesLeft(plan.Week, frozen))
}

func TestCountInRange_RecomputedAfterOverwrite(t *testing.T) {
	log := New(utcCalendar)
	day := utcCalendar.Date(2025, time.March, 10)
	end := utcCalendar.AddDays(day, 1)

	log.SetStatus(Frozen, day)
	assert.Equal(t, 1, log.CountInRange(Frozen, day, end))

	log.SetStatus(Learned, day)
	assert.Equal(t, 0, log.CountInRange(Frozen, day, end))
	assert.Equal(t, 1, log.CountInRange(Learned, day, end))
}

func TestSetStatus_StoreDoesNotEnforceFreezeAllowance(t *testing.T) {
	// given
	log := New(utcCalendar)
	yearStart := utcCalendar.Date(2025, time.January, 1)
	for i := 0; i < plan.Year.FreezeAllowance(); i++ {
		log.SetStatus(Frozen, utcCalendar.AddDays(yearStart, i))
	}
	window := plan.StatWindow(plan.Year, yearStart, utcCalendar)
	require.Equal(t, 0, plan.FreezesLeft(plan.Year, log.CountInRange(Frozen, window.Start, window.End)))

	// when
	log.SetStatus(Frozen, utcCalendar.AddDays(yearStart, 200))

	// then
	assert.Equal(t, 97, log.CountInRange(Frozen, window.Start, window.End))
}

func TestEntriesAndRestore(t *testing.T) {
	// given
	log := New(utcCalendar)
	log.SetStatus(Learned, utcCalendar.Date(2025, time.March, 12))
	log.SetStatus(Frozen, utcCalendar.Date(2025, time.March, 10))

	// when
	entries := log.Entries()
	restored := New(utcCalendar)
	restored.Restore(append(entries, Entry{Day: time.Date(2025, time.March, 14, 13, 0, 0, 0, time.UTC), Status: Learned}))

	// then
	require.Len(t, entries, 2)
	assert.Equal(t, utcCalendar.Date(2025, time.March, 10), entries[0].Day)
	assert.Equal(t, Frozen, restored.StatusForDate(utcCalendar.Date(2025, time.March, 10)))
	assert.Equal(t, Learned, restored.StatusForDate(utcCalendar.Date(2025, time.March, 14)))
	assert.Equal(t, utcCalendar.Date(2025, time.March, 14), restored.Entries()[2].Day)
}

func TestReset(t *testing.T) {
	log := New(utcCalendar)
	log.SetStatus(Learned, utcCalendar.Date(2025, time.March, 12))

	log.Reset()

	assert.Empty(t, log.Entries())
}

func TestDayLog_ConcurrentAccess(t *testing.T) {
	log := New(utcCalendar)
	start := utcCalendar.Date(2025, time.January, 1)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			day := utcCalendar.AddDays(start, i)
			log.SetStatus(Learned, day)
			_ = log.StatusForDate(day)
			_ = log.CountInRange(Learned, start, utcCalendar.AddDays(start, 50))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, log.CountInRange(Learned, start, utcCalendar.AddDays(start, 50)))
}
