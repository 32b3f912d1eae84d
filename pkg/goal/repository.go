package goal

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/learningjourney/journey/pkg/plan"
)

var ErrGoalNotFound = errors.New("goal not found")

type Repository interface {
	Get(ctx context.Context) (Goal, error)
	Save(ctx context.Context, goal Goal) (Goal, error)
}

type queryer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type repositoryImpl struct {
	db queryer
}

func NewRepo(db queryer) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) Get(ctx context.Context) (Goal, error) {
	query := `SELECT habit_name, plan, has_seen_onboarding, has_set_goal, updated_at FROM goal WHERE id = 1`
	var g Goal
	var planString string
	err := r.db.QueryRow(ctx, query).Scan(&g.HabitName, &planString, &g.HasSeenOnboarding, &g.HasSetGoal, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Goal{}, ErrGoalNotFound
		}
		return Goal{}, err
	}
	g.Plan, err = plan.Parse(planString)
	if err != nil {
		return Goal{}, fmt.Errorf("stored goal has invalid plan: %w", err)
	}
	return g, nil
}

func (r *repositoryImpl) Save(ctx context.Context, goal Goal) (Goal, error) {
	query := `INSERT INTO goal (id, habit_name, plan, has_seen_onboarding, has_set_goal, updated_at)
			  VALUES (1, $1, $2, $3, $4, $5)
			  ON CONFLICT (id) DO UPDATE SET
			      habit_name = EXCLUDED.habit_name,
			      plan = EXCLUDED.plan,
			      has_seen_onboarding = EXCLUDED.has_seen_onboarding,
			      has_set_goal = EXCLUDED.has_set_goal,
			      updated_at = EXCLUDED.updated_at`
	_, err := r.db.Exec(ctx, query, goal.HabitName, goal.Plan.String(), goal.HasSeenOnboarding, goal.HasSetGoal, goal.UpdatedAt)
	if err != nil {
		return Goal{}, fmt.Errorf("failed to save goal: %w", err)
	}
	return goal, nil
}
