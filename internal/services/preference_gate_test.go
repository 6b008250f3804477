package services

import (
	"context"
	"testing"

	"github.com/shutterfolk/backend/internal/models"
)

func TestFilterEligibleDefaultsToOptedIn(t *testing.T) {
	prefs := newFakePreferenceRepo()
	prefs.addCategory(1, models.EmailCategoryNotifications)
	gate := NewPreferenceGate(prefs)

	eligible, err := gate.FilterEligible(context.Background(), []uint{1, 2, 3}, models.EmailCategoryNotifications)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, id := range []uint{1, 2, 3} {
		if !eligible[id] {
			t.Errorf("user %d has no preference row and must be eligible", id)
		}
	}
}

func TestFilterEligibleRemovesOptedOutUsers(t *testing.T) {
	prefs := newFakePreferenceRepo()
	prefs.addCategory(1, models.EmailCategoryNotifications)
	prefs.setOptOut(1, 2, true)
	gate := NewPreferenceGate(prefs)

	eligible, err := gate.FilterEligible(context.Background(), []uint{1, 2, 3}, models.EmailCategoryNotifications)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if eligible[2] {
		t.Errorf("user 2 opted out and must not be eligible")
	}
	if !eligible[1] || !eligible[3] {
		t.Errorf("users 1 and 3 must remain eligible, got %v", eligible)
	}
}

func TestFilterEligibleOptedBackInUserIsEligible(t *testing.T) {
	prefs := newFakePreferenceRepo()
	prefs.addCategory(1, models.EmailCategoryNotifications)
	prefs.setOptOut(1, 2, true)
	prefs.setOptOut(1, 2, false)
	gate := NewPreferenceGate(prefs)

	eligible, err := gate.FilterEligible(context.Background(), []uint{2}, models.EmailCategoryNotifications)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !eligible[2] {
		t.Errorf("a user who opted back in must be eligible")
	}
}

func TestFilterEligiblePerformsOneBatchedQuery(t *testing.T) {
	prefs := newFakePreferenceRepo()
	prefs.addCategory(1, models.EmailCategoryNotifications)
	gate := NewPreferenceGate(prefs)

	ids := make([]uint, 50)
	for i := range ids {
		ids[i] = uint(i + 1)
	}
	if _, err := gate.FilterEligible(context.Background(), ids, models.EmailCategoryNotifications); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if prefs.batchCalls != 1 {
		t.Errorf("expected exactly one batched preference query, got %d", prefs.batchCalls)
	}
	if prefs.categoryCalls != 1 {
		t.Errorf("expected exactly one category lookup, got %d", prefs.categoryCalls)
	}
}

func TestFilterEligibleUnknownCategoryAllowsEveryone(t *testing.T) {
	gate := NewPreferenceGate(newFakePreferenceRepo())

	eligible, err := gate.FilterEligible(context.Background(), []uint{1, 2}, "unknown")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !eligible[1] || !eligible[2] {
		t.Errorf("an unknown category has nothing to opt out of, got %v", eligible)
	}
}

func TestFilterEligibleEmptyCandidatesSkipsQueries(t *testing.T) {
	prefs := newFakePreferenceRepo()
	prefs.addCategory(1, models.EmailCategoryNotifications)
	gate := NewPreferenceGate(prefs)

	eligible, err := gate.FilterEligible(context.Background(), nil, models.EmailCategoryNotifications)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(eligible) != 0 {
		t.Errorf("expected empty result, got %v", eligible)
	}
	if prefs.categoryCalls != 0 || prefs.batchCalls != 0 {
		t.Errorf("no candidates must mean no queries, got %d/%d", prefs.categoryCalls, prefs.batchCalls)
	}
}
