package repository

import (
	"errors"

	"github.com/sambright/nestegg/internal/model"
)

const (
	keyGoals      = "goals"
	keyActiveGoal = "active_goal"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
)

// GoalRepository persists the goal collection and the active-goal pointer as
// whole documents. Callers load the full collection, mutate it, and write it
// back; there are no partial updates at this layer.
type GoalRepository interface {
	Goals() ([]model.Goal, error)
	ByID(goalID string) (*model.Goal, error)
	SaveGoals(goals []model.Goal) error
	ActiveGoalID() (string, error)
	SetActiveGoalID(goalID string) error
}

type goalRepository struct {
	kv KV
}

func NewGoalRepository(kv KV) GoalRepository {
	return &goalRepository{kv: kv}
}

func (r *goalRepository) Goals() ([]model.Goal, error) {
	var goals []model.Goal
	err := r.kv.Get(keyGoals, &goals)
	if errors.Is(err, ErrKeyNotFound) {
		return []model.Goal{}, nil
	}
	if err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *goalRepository) ByID(goalID string) (*model.Goal, error) {
	goals, err := r.Goals()
	if err != nil {
		return nil, err
	}
	for i := range goals {
		if goals[i].ID == goalID {
			return &goals[i], nil
		}
	}
	return nil, ErrGoalNotFound
}

func (r *goalRepository) SaveGoals(goals []model.Goal) error {
	return r.kv.Set(keyGoals, goals)
}

func (r *goalRepository) ActiveGoalID() (string, error) {
	var id string
	err := r.kv.Get(keyActiveGoal, &id)
	if errors.Is(err, ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *goalRepository) SetActiveGoalID(goalID string) error {
	return r.kv.Set(keyActiveGoal, goalID)
}
