package goal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/learningjourney/journey/internal/event_bus"
	"github.com/learningjourney/journey/internal/utils"
	"github.com/learningjourney/journey/pkg/plan"
	log "github.com/sirupsen/logrus"
)

var (
	ErrConfirmationRequired = errors.New("changing the habit name restarts the streak and must be confirmed")
	ErrBlankHabitName       = errors.New("habit name must not be blank")
)

type Service interface {
	// Get returns the stored goal, or the defaults when none was saved yet.
	Get(ctx context.Context) (Goal, error)
	// Update changes the goal. Renaming an already set goal requires confirm and starts a new goal.
	// A blank habit name is rejected.
	Update(ctx context.Context, habitName string, p plan.Plan, confirm bool) (Goal, error)
	CompleteOnboarding(ctx context.Context, habitName string, p plan.Plan) (Goal, error)
}

type ServiceImpl struct {
	repo     Repository
	eventBus *event_bus.EventBus
	clock    utils.Clock
}

func NewService(repo Repository, eventBus *event_bus.EventBus, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, eventBus: eventBus, clock: clock}
}

func (s *ServiceImpl) Get(ctx context.Context) (Goal, error) {
	g, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, ErrGoalNotFound) {
			return Default(), nil
		}
		return Goal{}, fmt.Errorf("failed to get goal: %w", err)
	}
	return g, nil
}

func (s *ServiceImpl) Update(ctx context.Context, habitName string, p plan.Plan, confirm bool) (Goal, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return Goal{}, err
	}

	if strings.TrimSpace(habitName) == "" {
		return Goal{}, ErrBlankHabitName
	}
	name := NormalizeHabitName(habitName)
	isNewGoal := current.HasSetGoal && name != current.HabitName
	if isNewGoal && !confirm {
		return Goal{}, ErrConfirmationRequired
	}

	updated := current
	updated.HabitName = name
	updated.Plan = p
	updated.HasSetGoal = true
	updated.UpdatedAt = s.clock.Now()

	// a new goal is saved only once the old progress has been cleared
	if isNewGoal {
		err := s.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.GoalStartedEvent, event_bus.GoalStarted{
			HabitName: updated.HabitName,
			Plan:      updated.Plan.String(),
		}))
		if err != nil {
			return Goal{}, fmt.Errorf("failed to start goal %q: %w", updated.HabitName, err)
		}
	}

	saved, err := s.repo.Save(ctx, updated)
	if err != nil {
		return Goal{}, err
	}
	log.Infof("Goal updated: %q (%s)", saved.HabitName, saved.Plan)
	return saved, nil
}

func (s *ServiceImpl) CompleteOnboarding(ctx context.Context, habitName string, p plan.Plan) (Goal, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return Goal{}, err
	}
	current.HabitName = NormalizeHabitName(habitName)
	current.Plan = p
	current.HasSeenOnboarding = true
	current.UpdatedAt = s.clock.Now()

	saved, err := s.repo.Save(ctx, current)
	if err != nil {
		return Goal{}, err
	}
	log.Infof("Onboarding completed for %q", saved.HabitName)
	return saved, nil
}
