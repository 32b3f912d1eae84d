package goal

import (
	"context"
	"sync"
)

type RepositoryStub struct {
	mu   sync.RWMutex
	goal *Goal
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{}
}

func (r *RepositoryStub) Get(ctx context.Context) (Goal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.goal == nil {
		return Goal{}, ErrGoalNotFound
	}
	return *r.goal, nil
}

func (r *RepositoryStub) Save(ctx context.Context, goal Goal) (Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.goal = &goal
	return goal, nil
}

func (r *RepositoryStub) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.goal = nil
}
