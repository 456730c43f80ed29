package repository

import (
	"errors"

	"github.com/sambright/nestegg/internal/model"
)

const keyMilestones = "milestones"

// MilestoneRepository persists all milestones as one document keyed by goal
// id. Milestone state is always written in the same logical operation as the
// goal whose total changed, so readers never see a total without a
// consistent milestone view.
type MilestoneRepository interface {
	All() (map[string][]model.Milestone, error)
	ByGoal(goalID string) ([]model.Milestone, error)
	SaveAll(milestones map[string][]model.Milestone) error
}

type milestoneRepository struct {
	kv KV
}

func NewMilestoneRepository(kv KV) MilestoneRepository {
	return &milestoneRepository{kv: kv}
}

func (r *milestoneRepository) All() (map[string][]model.Milestone, error) {
	var all map[string][]model.Milestone
	err := r.kv.Get(keyMilestones, &all)
	if errors.Is(err, ErrKeyNotFound) {
		return map[string][]model.Milestone{}, nil
	}
	if err != nil {
		return nil, err
	}
	return all, nil
}

func (r *milestoneRepository) ByGoal(goalID string) ([]model.Milestone, error) {
	all, err := r.All()
	if err != nil {
		return nil, err
	}
	return all[goalID], nil
}

func (r *milestoneRepository) SaveAll(milestones map[string][]model.Milestone) error {
	return r.kv.Set(keyMilestones, milestones)
}
