package services

import (
	"context"
	"errors"

	"github.com/shutterfolk/backend/internal/repositories"
	"gorm.io/gorm"
)

// PreferenceGate decides which recipients may receive an email for a
// category. It gates email only — in-app notifications are never filtered
// by preferences.
type PreferenceGate struct {
	prefRepo repositories.PreferenceRepository
}

// NewPreferenceGate creates a new PreferenceGate
func NewPreferenceGate(prefRepo repositories.PreferenceRepository) *PreferenceGate {
	return &PreferenceGate{prefRepo: prefRepo}
}

// FilterEligible returns the set of user ids allowed to receive email for
// the category. It performs one category lookup and ONE batched preference
// query regardless of how many candidates there are. A user with no
// preference row is eligible (default-allow).
func (g *PreferenceGate) FilterEligible(ctx context.Context, userIDs []uint, categoryKey string) (map[uint]bool, error) {
	eligible := make(map[uint]bool, len(userIDs))
	for _, id := range userIDs {
		eligible[id] = true
	}
	if len(userIDs) == 0 {
		return eligible, nil
	}

	category, err := g.prefRepo.GetCategoryByKey(ctx, categoryKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No such category means there is nothing to opt out of
			return eligible, nil
		}
		return nil, err
	}

	optedOut, err := g.prefRepo.GetOptedOutUserIDs(ctx, category.ID, userIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range optedOut {
		delete(eligible, id)
	}
	return eligible, nil
}
