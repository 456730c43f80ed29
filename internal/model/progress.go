package model

// Progress is a derived snapshot of a goal's standing against its target.
// Formatted fields carry locale-aware currency strings for display.
type Progress struct {
	TotalSaved       float64 `json:"total_saved"`
	Remaining        float64 `json:"remaining"`
	PercentComplete  float64 `json:"percent_complete"`
	TotalSavedPretty string  `json:"total_saved_pretty,omitempty"`
	RemainingPretty  string  `json:"remaining_pretty,omitempty"`
}

// StreakSummary is derived from a goal's week sequence on demand and never
// persisted. Weeks without data are excluded from run counting entirely.
type StreakSummary struct {
	CurrentStreak int `json:"current_streak"`
	LongestStreak int `json:"longest_streak"`
	TotalWeeks    int `json:"total_weeks"`
}
