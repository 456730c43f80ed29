package repository

import (
	"errors"

	"github.com/sambright/nestegg/internal/model"
)

const keyAchievements = "achievements"

// AchievementRepository persists earned badges as one document.
type AchievementRepository interface {
	All() ([]model.Achievement, error)
	SaveAll(achievements []model.Achievement) error
}

type achievementRepository struct {
	kv KV
}

func NewAchievementRepository(kv KV) AchievementRepository {
	return &achievementRepository{kv: kv}
}

func (r *achievementRepository) All() ([]model.Achievement, error) {
	var all []model.Achievement
	err := r.kv.Get(keyAchievements, &all)
	if errors.Is(err, ErrKeyNotFound) {
		return []model.Achievement{}, nil
	}
	if err != nil {
		return nil, err
	}
	return all, nil
}

func (r *achievementRepository) SaveAll(achievements []model.Achievement) error {
	return r.kv.Set(keyAchievements, achievements)
}
