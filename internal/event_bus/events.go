package event_bus

import "time"

const (
	DayRolledOverEvent EventType = "day.rolled_over"
	GoalStartedEvent   EventType = "goal.started"
)

// DayRolledOver is published right after local midnight. Day is the new day key and
// Previous the day that just ended.
type DayRolledOver struct {
	Day      time.Time
	Previous time.Time
}

// GoalStarted is published when the user commits a new habit name. Existing progress no
// longer applies to it.
type GoalStarted struct {
	HabitName string
	Plan      string
}
