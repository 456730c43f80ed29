package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sambright/nestegg/internal/model"
	"github.com/sambright/nestegg/internal/repository"
)

// defaultMilestonePercents are the thresholds seeded for every new goal.
var defaultMilestonePercents = []float64{10, 25, 50, 75, 90, 100}

// MilestoneService is the threshold engine. It owns the milestone documents
// and re-derives every achieved flag from the current cumulative total on
// each check; achieved state is never carried forward on trust.
type MilestoneService struct {
	repo repository.MilestoneRepository
	now  func() time.Time
}

func NewMilestoneService(repo repository.MilestoneRepository) *MilestoneService {
	return &MilestoneService{repo: repo, now: time.Now}
}

// CreateDefaults seeds the 10/25/50/75/90/100% milestone set for a goal and
// persists the updated collection.
func (s *MilestoneService) CreateDefaults(goalID string, target float64) ([]model.Milestone, error) {
	all, err := s.repo.All()
	if err != nil {
		return nil, err
	}

	milestones := make([]model.Milestone, 0, len(defaultMilestonePercents))
	for _, pct := range defaultMilestonePercents {
		milestones = append(milestones, model.Milestone{
			ID:      uuid.New().String(),
			GoalID:  goalID,
			Amount:  target * pct / 100,
			Percent: pct,
			Label:   fmt.Sprintf("%.0f%% of target", pct),
		})
	}

	all[goalID] = milestones
	err = s.repo.SaveAll(all)
	if err != nil {
		return nil, err
	}

	return milestones, nil
}

// Check re-evaluates every milestone of the goal against total and persists
// the result. Milestones whose achieved flag transitioned false→true are
// returned sorted ascending by amount; callers that want a single headline
// milestone take the last (the highest threshold reached). Transitions
// true→false clear the achieved date silently; a corrected entry is not an
// event worth celebrating or mourning.
func (s *MilestoneService) Check(goalID string, total float64) ([]model.Milestone, error) {
	all, err := s.repo.All()
	if err != nil {
		return nil, err
	}

	milestones := all[goalID]
	var newly []model.Milestone
	changed := false

	for i := range milestones {
		m := &milestones[i]
		achieved := total >= m.Amount
		if achieved == m.Achieved {
			continue
		}
		changed = true
		m.Achieved = achieved
		if achieved {
			at := s.now()
			m.AchievedAt = &at
			newly = append(newly, *m)
		} else {
			m.AchievedAt = nil
		}
	}

	if changed {
		sortMilestones(milestones)
		all[goalID] = milestones
		err = s.repo.SaveAll(all)
		if err != nil {
			return nil, err
		}
	}

	sort.Slice(newly, func(i, j int) bool { return newly[i].Amount < newly[j].Amount })
	return newly, nil
}

// ByGoal returns the goal's milestones sorted ascending by amount.
func (s *MilestoneService) ByGoal(goalID string) ([]model.Milestone, error) {
	milestones, err := s.repo.ByGoal(goalID)
	if err != nil {
		return nil, err
	}
	sortMilestones(milestones)
	return milestones, nil
}

// Reset clears achieved state on all of a goal's milestones, used when the
// goal's target changes or its data is wiped.
func (s *MilestoneService) Reset(goalID string) error {
	all, err := s.repo.All()
	if err != nil {
		return err
	}

	milestones := all[goalID]
	for i := range milestones {
		milestones[i].Achieved = false
		milestones[i].AchievedAt = nil
	}
	all[goalID] = milestones
	return s.repo.SaveAll(all)
}

// Rebase replaces a goal's milestone amounts for a new target, preserving
// reward text by percent, then requires a fresh Check against the current
// total.
func (s *MilestoneService) Rebase(goalID string, target float64) error {
	all, err := s.repo.All()
	if err != nil {
		return err
	}

	milestones := all[goalID]
	for i := range milestones {
		milestones[i].Amount = target * milestones[i].Percent / 100
		milestones[i].Achieved = false
		milestones[i].AchievedAt = nil
	}
	sortMilestones(milestones)
	all[goalID] = milestones
	return s.repo.SaveAll(all)
}

// Delete removes all milestones belonging to a goal.
func (s *MilestoneService) Delete(goalID string) error {
	all, err := s.repo.All()
	if err != nil {
		return err
	}
	delete(all, goalID)
	return s.repo.SaveAll(all)
}

func sortMilestones(milestones []model.Milestone) {
	sort.Slice(milestones, func(i, j int) bool {
		return milestones[i].Amount < milestones[j].Amount
	})
}
