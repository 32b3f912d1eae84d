package day_log

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/learningjourney/journey/pkg/calendar"
)

// RepositoryStub keeps statuses in memory. It backs the service when no database is
// configured and is used by tests.
type RepositoryStub struct {
	mu       sync.RWMutex
	calendar calendar.Calendar
	entries  map[time.Time]DayStatus
	err      error
}

func NewRepositoryStub(cal calendar.Calendar) *RepositoryStub {
	return &RepositoryStub{
		calendar: cal,
		entries:  make(map[time.Time]DayStatus),
	}
}

func (r *RepositoryStub) Upsert(ctx context.Context, day time.Time, status DayStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.entries[r.calendar.StartOfDay(day)] = status
	return nil
}

func (r *RepositoryStub) GetRange(ctx context.Context, from time.Time, to time.Time) ([]Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.err != nil {
		return nil, r.err
	}
	var result []Entry
	for day, status := range r.entries {
		if !day.Before(from) && day.Before(to) {
			result = append(result, Entry{Day: day, Status: status})
		}
	}
	sortEntries(result)
	return result, nil
}

func (r *RepositoryStub) GetAll(ctx context.Context) ([]Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.err != nil {
		return nil, r.err
	}
	result := make([]Entry, 0, len(r.entries))
	for day, status := range r.entries {
		result = append(result, Entry{Day: day, Status: status})
	}
	sortEntries(result)
	return result, nil
}

func (r *RepositoryStub) DeleteAll(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	count := len(r.entries)
	r.entries = make(map[time.Time]DayStatus)
	return count, nil
}

// FailWith makes every following call return err. Pass nil to recover.
func (r *RepositoryStub) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func (r *RepositoryStub) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[time.Time]DayStatus)
	r.err = nil
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Day.Before(entries[j].Day)
	})
}
