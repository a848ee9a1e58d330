package service

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"fitplanner-backend/models"
)

func TestReplaceExerciseOnlyChangesTarget(t *testing.T) {
	original := samplePlan()
	snapshot := samplePlan()
	replacement := models.Exercise{Name: "Lunges", Sets: "3", Reps: "12", Rest: "45s"}

	updated, err := ReplaceExercise(original, 1, 1, replacement)
	if err != nil {
		t.Fatalf("ReplaceExercise: %v", err)
	}

	if !reflect.DeepEqual(original, snapshot) {
		t.Fatal("ReplaceExercise mutated its input")
	}

	want := samplePlan()
	want.WorkoutPlan.Schedule[1].Exercises[1] = replacement
	if !reflect.DeepEqual(updated, want) {
		t.Fatal("updated plan differs from the original outside the target")
	}

	// untouched paths are shared rather than copied
	if updated.NutritionPlan != original.NutritionPlan {
		t.Fatal("nutrition plan should be shared")
	}
	if &updated.WorkoutPlan.Schedule[0].Exercises[0] != &original.WorkoutPlan.Schedule[0].Exercises[0] {
		t.Fatal("exercises of other days should be shared")
	}
}

func TestReplaceMealOnlyChangesTarget(t *testing.T) {
	original := samplePlan()
	replacement := models.Meal{Name: "Lunch", Description: "Lentil soup"}

	updated, err := ReplaceMeal(original, 4, 1, replacement)
	if err != nil {
		t.Fatalf("ReplaceMeal: %v", err)
	}
	if !reflect.DeepEqual(original, samplePlan()) {
		t.Fatal("ReplaceMeal mutated its input")
	}

	want := samplePlan()
	want.NutritionPlan.MealSuggestions[4].Meals[1] = replacement
	if !reflect.DeepEqual(updated, want) {
		t.Fatal("updated plan differs from the original outside the target")
	}
	if updated.WorkoutPlan != original.WorkoutPlan {
		t.Fatal("workout plan should be shared")
	}
}

func TestReplaceRejectsBadAddresses(t *testing.T) {
	plan := samplePlan()
	tests := []struct {
		name       string
		plan       *models.CombinedPlan
		day, index int
		want       error
	}{
		{"no plan", nil, 0, 0, ErrNoPlan},
		{"negative day", plan, -1, 0, ErrIndexOutOfRange},
		{"day past end", plan, 7, 0, ErrIndexOutOfRange},
		{"index past end", plan, 0, 2, ErrIndexOutOfRange},
		{"rest day has no exercises", plan, 6, 0, ErrIndexOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReplaceExercise(tt.plan, tt.day, tt.index, models.Exercise{}); !errors.Is(err, tt.want) {
				t.Fatalf("ReplaceExercise error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := ReplaceMeal(plan, 0, 3, models.Meal{}); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("ReplaceMeal error = %v, want ErrIndexOutOfRange", err)
	}
}

func TestReduce(t *testing.T) {
	notice := Notice{Kind: NoticeSuccess, Message: "ok", ExpiresAt: time.Unix(100, 0)}
	plan := samplePlan()

	s := DefaultPlanState()
	s = Reduce(s, OperationStarted{Class: OperationPlan})
	if !s.Loading.Plan || s.Loading.Grocery {
		t.Fatalf("loading = %+v", s.Loading)
	}

	s = Reduce(s, PlanGenerated{Plan: plan, Summary: "summary", Notice: notice})
	if s.Loading.Plan || s.Plan != plan || s.PreviousPlanSummary != "summary" || s.Revision != 1 {
		t.Fatalf("after PlanGenerated: %+v", s)
	}
	if s.Notice == nil || s.Notice.Message != "ok" {
		t.Fatalf("notice = %+v", s.Notice)
	}

	before := s
	s = Reduce(s, SwapStarted{ItemID: "exercise-0-1"})
	if s.SwappingItem != "exercise-0-1" || s.Notice != nil {
		t.Fatalf("after SwapStarted: %+v", s)
	}
	if before.SwappingItem != "" || before.Notice == nil {
		t.Fatal("Reduce modified the previous state")
	}

	s = Reduce(s, SwapFailed{Notice: Notice{Kind: NoticeError, Message: "failed"}})
	if s.SwappingItem != "" || s.Notice.Kind != NoticeError || s.Plan != plan {
		t.Fatalf("after SwapFailed: %+v", s)
	}

	s = Reduce(s, OperationStarted{Class: OperationGrocery})
	s = Reduce(s, OperationFailed{Class: OperationGrocery, Notice: Notice{Kind: NoticeError, Message: "no"}})
	if s.Loading.Grocery || s.GroceryList != nil {
		t.Fatalf("after OperationFailed: %+v", s)
	}

	s = Reduce(s, GroceryListGenerated{List: sampleGroceryList(), Notice: notice})
	s = Reduce(s, PlanCleared{})
	if s.Plan != nil || s.GroceryList != nil || s.PreviousPlanSummary != "" || s.Revision != 2 {
		t.Fatalf("after PlanCleared: %+v", s)
	}
	if !reflect.DeepEqual(s.Profile, models.DefaultUserProfile()) {
		t.Fatal("PlanCleared must keep the profile")
	}

	s = Reduce(s, NoticeDismissed{})
	if s.Notice != nil {
		t.Fatal("notice not dismissed")
	}
}

func TestPlanSummary(t *testing.T) {
	profile := models.DefaultUserProfile()
	profile.FitnessGoal = models.GoalLoseBodyFat

	got := PlanSummary(samplePlan(), profile)
	want := "Workout: 7-Day Lean Plan. Nutrition: Fat Loss Diet. Goal: Lose Body Fat. Feedback context: None"
	if got != want {
		t.Fatalf("PlanSummary = %q, want %q", got, want)
	}

	profile.Feedback = "More cardio"
	if got := PlanSummary(samplePlan(), profile); got != "Workout: 7-Day Lean Plan. Nutrition: Fat Loss Diet. Goal: Lose Body Fat. Feedback context: More cardio" {
		t.Fatalf("PlanSummary = %q", got)
	}
}

func TestReduceNutritionRevision(t *testing.T) {
	plan := samplePlan()
	s := Reduce(DefaultPlanState(), PlanGenerated{Plan: plan})
	if s.NutritionRevision != 1 {
		t.Fatalf("after PlanGenerated: nutrition revision = %d", s.NutritionRevision)
	}

	s = Reduce(s, SwapSucceeded{Plan: plan})
	if s.NutritionRevision != 1 || s.Revision != 1 {
		t.Fatalf("exercise swap: revision = %d, nutrition revision = %d", s.Revision, s.NutritionRevision)
	}

	s = Reduce(s, SwapSucceeded{Plan: plan, Nutrition: true})
	if s.NutritionRevision != 2 || s.Revision != 1 {
		t.Fatalf("meal swap: revision = %d, nutrition revision = %d", s.Revision, s.NutritionRevision)
	}

	s = Reduce(s, PlanCleared{})
	if s.NutritionRevision != 3 {
		t.Fatalf("after PlanCleared: nutrition revision = %d", s.NutritionRevision)
	}
}
