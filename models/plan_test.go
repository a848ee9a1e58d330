package models

import (
	"encoding/json"
	"testing"
)

func TestWorkoutPlanRecoveryDays(t *testing.T) {
	plan := WorkoutPlan{Schedule: []WorkoutDay{
		{Day: "Day 1", Focus: "Full Body Strength"},
		{Day: "Day 2", Focus: "Rest"},
		{Day: "Day 3", Focus: "Active Recovery (Light Walk)"},
		{Day: "Day 4", Focus: "Upper Body"},
	}}

	if got := plan.RecoveryDays(); got != 2 {
		t.Fatalf("RecoveryDays() = %d, want 2", got)
	}
}

func TestUserProfileIsComplete(t *testing.T) {
	profile := DefaultUserProfile()
	if !profile.IsComplete() {
		t.Fatalf("expected default profile to be complete")
	}

	profile.Weight = ""
	if profile.IsComplete() {
		t.Fatalf("expected profile without weight to be incomplete")
	}
}

func TestUserProfileAcceptsNumbers(t *testing.T) {
	var profile UserProfile
	body := `{"age":30,"gender":"Female","height":172.5,"weight":"64","fitnessGoal":"Lose Body Fat","experienceLevel":"Beginner"}`
	if err := json.Unmarshal([]byte(body), &profile); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if profile.Age != "30" || profile.Height != "172.5" || profile.Weight != "64" {
		t.Fatalf("unexpected numeric fields %+v", profile)
	}
	if !profile.IsComplete() {
		t.Fatalf("expected profile to be complete")
	}

	data, err := json.Marshal(profile)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal raw: %v", err)
	}
	if raw["age"] != "30" {
		t.Errorf("expected age encoded as a string, got %#v", raw["age"])
	}

	profile = UserProfile{Age: "41"}
	if err := json.Unmarshal([]byte(`{"age":null}`), &profile); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if profile.Age != "41" {
		t.Errorf("null should leave the value unchanged, got %q", profile.Age)
	}

	for _, bad := range []string{`{"age":true}`, `{"age":[30]}`, `{"age":{}}`} {
		if err := json.Unmarshal([]byte(bad), &UserProfile{}); err == nil {
			t.Errorf("expected error for %s", bad)
		}
	}
}

func TestGroceryListIsEmpty(t *testing.T) {
	if !(GroceryList{}).IsEmpty() {
		t.Fatalf("expected zero list to be empty")
	}
	list := GroceryList{GroceryList: []GroceryCategory{{Category: "Produce"}, {Category: "Proteins", Items: []GroceryItem{{Name: "Eggs", Quantity: "12"}}}}}
	if list.IsEmpty() {
		t.Fatalf("expected list with items to be non-empty")
	}
}
