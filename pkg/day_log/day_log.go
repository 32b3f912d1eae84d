package day_log

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/learningjourney/journey/pkg/calendar"
)

// DayStatus is the recorded outcome of one calendar day.
type DayStatus string

const (
	None    DayStatus = "none"
	Learned DayStatus = "learned"
	Frozen  DayStatus = "frozen"
)

var ErrUnknownStatus = errors.New("unknown day status")

// ParseStatus converts the string form of a status. An empty string is None.
func ParseStatus(value string) (DayStatus, error) {
	switch DayStatus(value) {
	case None, "":
		return None, nil
	case Learned:
		return Learned, nil
	case Frozen:
		return Frozen, nil
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownStatus, value)
}

type Entry struct {
	Day    time.Time
	Status DayStatus
}

// DayLog maps day keys to statuses. Days that were never set are None.
// The log performs no policy checks: callers decide whether a write is allowed.
type DayLog struct {
	mu       sync.RWMutex
	calendar calendar.Calendar
	entries  map[time.Time]DayStatus
}

func New(cal calendar.Calendar) *DayLog {
	return &DayLog{
		calendar: cal,
		entries:  make(map[time.Time]DayStatus),
	}
}

// Calendar returns the rules used to build day keys.
func (l *DayLog) Calendar() calendar.Calendar {
	return l.calendar
}

// SetStatus records status for the day containing date, replacing any previous value.
func (l *DayLog) SetStatus(status DayStatus, date time.Time) {
	key := l.calendar.StartOfDay(date)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[key] = status
}

// StatusForDate returns the status of the day containing date, or None.
func (l *DayLog) StatusForDate(date time.Time) DayStatus {
	key := l.calendar.StartOfDay(date)

	l.mu.RLock()
	defer l.mu.RUnlock()
	if status, ok := l.entries[key]; ok {
		return status
	}
	return None
}

// CountInRange counts the days in [start, end) whose status equals status.
func (l *DayLog) CountInRange(status DayStatus, start time.Time, end time.Time) int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	count := 0
	for day, s := range l.entries {
		if s == status && !day.Before(start) && day.Before(end) {
			count++
		}
	}
	return count
}

// Entries returns the stored days ordered by date.
func (l *DayLog) Entries() []Entry {
	l.mu.RLock()
	entries := make([]Entry, 0, len(l.entries))
	for day, status := range l.entries {
		entries = append(entries, Entry{Day: day, Status: status})
	}
	l.mu.RUnlock()

	sortEntries(entries)
	return entries
}

// Restore replaces the log contents with entries, normalizing every day to its key.
func (l *DayLog) Restore(entries []Entry) {
	restored := make(map[time.Time]DayStatus, len(entries))
	for _, e := range entries {
		restored[l.calendar.StartOfDay(e.Day)] = e.Status
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = restored
}

// Reset removes every entry.
func (l *DayLog) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = make(map[time.Time]DayStatus)
}
