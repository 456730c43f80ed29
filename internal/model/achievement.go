package model

import (
	"time"
)

// Achievement codes awarded by the ledger as goals accumulate data.
const (
	AchievementFirstEntry    = "first_entry"
	AchievementStreakMonth   = "streak_4_weeks"
	AchievementStreakQuarter = "streak_12_weeks"
	AchievementGoalReached   = "goal_reached"
)

// Achievement is an earned gamification badge. Badges are earned once per
// goal and never revoked, even if the condition later stops holding.
type Achievement struct {
	Code     string    `json:"code"`
	GoalID   string    `json:"goal_id"`
	EarnedAt time.Time `json:"earned_at"`
}
