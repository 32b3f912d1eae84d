package goal

import (
	"strings"
	"time"

	"github.com/learningjourney/journey/pkg/plan"
)

const DefaultHabitName = "Learning"

// Goal is what the user is learning and the plan their progress is measured against,
// together with the first-run flags of the app.
type Goal struct {
	HabitName         string
	Plan              plan.Plan
	HasSeenOnboarding bool
	HasSetGoal        bool
	UpdatedAt         time.Time
}

func Default() Goal {
	return Goal{HabitName: DefaultHabitName, Plan: plan.Week}
}

// NormalizeHabitName trims whitespace and falls back to DefaultHabitName for blank names.
func NormalizeHabitName(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return DefaultHabitName
	}
	return trimmed
}
