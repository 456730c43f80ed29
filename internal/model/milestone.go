package model

import (
	"time"
)

// Milestone is a cumulative-total threshold for a goal. Achieved mirrors
// whether the goal's current total meets Amount; it is re-evaluated on every
// write that changes the total, never cached across writes. AchievedAt is a
// date rather than a week number so that prepending weeks to the timeline
// cannot invalidate it.
type Milestone struct {
	ID         string     `json:"id"`
	GoalID     string     `json:"goal_id"`
	Amount     float64    `json:"amount"`
	Percent    float64    `json:"percent"`
	Label      string     `json:"label"`
	Reward     string     `json:"reward,omitempty"`
	Achieved   bool       `json:"achieved"`
	AchievedAt *time.Time `json:"achieved_at,omitempty"`
}
