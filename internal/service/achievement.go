package service

import (
	"time"

	"github.com/sambright/nestegg/internal/ledger"
	"github.com/sambright/nestegg/internal/model"
	"github.com/sambright/nestegg/internal/repository"
)

// AchievementService awards gamification badges as a goal's ledger grows.
// Badges are earned once and never revoked; evaluation is idempotent.
type AchievementService struct {
	repo repository.AchievementRepository
	now  func() time.Time
}

func NewAchievementService(repo repository.AchievementRepository) *AchievementService {
	return &AchievementService{repo: repo, now: time.Now}
}

// Evaluate inspects the goal after a write and persists any newly earned
// badges. Returns the badges earned by this call.
func (s *AchievementService) Evaluate(goal *model.Goal) ([]model.Achievement, error) {
	all, err := s.repo.All()
	if err != nil {
		return nil, err
	}

	earned := map[string]bool{}
	for _, a := range all {
		if a.GoalID == goal.ID {
			earned[a.Code] = true
		}
	}

	streak := ledger.Streak(goal.Weeks)
	var candidates []string
	if hasAnyEntry(goal) {
		candidates = append(candidates, model.AchievementFirstEntry)
	}
	if streak.LongestStreak >= 4 {
		candidates = append(candidates, model.AchievementStreakMonth)
	}
	if streak.LongestStreak >= 12 {
		candidates = append(candidates, model.AchievementStreakQuarter)
	}
	if goal.Total() >= goal.Target {
		candidates = append(candidates, model.AchievementGoalReached)
	}

	var fresh []model.Achievement
	for _, code := range candidates {
		if earned[code] {
			continue
		}
		fresh = append(fresh, model.Achievement{
			Code:     code,
			GoalID:   goal.ID,
			EarnedAt: s.now(),
		})
	}

	if len(fresh) == 0 {
		return nil, nil
	}

	all = append(all, fresh...)
	err = s.repo.SaveAll(all)
	if err != nil {
		return nil, err
	}

	return fresh, nil
}

// ByGoal returns the badges earned for one goal.
func (s *AchievementService) ByGoal(goalID string) ([]model.Achievement, error) {
	all, err := s.repo.All()
	if err != nil {
		return nil, err
	}

	var out []model.Achievement
	for _, a := range all {
		if a.GoalID == goalID {
			out = append(out, a)
		}
	}
	return out, nil
}

// DeleteForGoal drops a goal's badges when the goal itself is deleted.
func (s *AchievementService) DeleteForGoal(goalID string) error {
	all, err := s.repo.All()
	if err != nil {
		return err
	}

	kept := all[:0]
	for _, a := range all {
		if a.GoalID != goalID {
			kept = append(kept, a)
		}
	}
	return s.repo.SaveAll(kept)
}

func hasAnyEntry(goal *model.Goal) bool {
	for i := range goal.Weeks {
		if len(goal.Weeks[i].Entries) > 0 || goal.Weeks[i].HasData {
			return true
		}
	}
	return false
}
