package service

import (
	"strings"
	"testing"

	"fitplanner-backend/models"
)

func TestBuildFullPlanPromptBranches(t *testing.T) {
	profile := models.DefaultUserProfile()
	profile.FitnessGoal = models.GoalLoseBodyFat
	base := PlanGenerationParams{
		Profile:        profile,
		WorkoutFilters: models.DefaultWorkoutFilters(),
		DietFilters:    models.DefaultDietFilters(),
	}

	tests := []struct {
		name     string
		feedback string
		summary  string
		contains []string
		excludes []string
	}{
		{
			name:     "fresh plan",
			contains: []string{"Generate a new personalized 7-day workout and nutrition plan", "- Fitness Goal: Lose Body Fat"},
			excludes: []string{"You previously generated", "User Feedback/Initial Requests"},
		},
		{
			name:     "fresh plan with initial requests",
			feedback: "No jumping please",
			contains: []string{"User Feedback/Initial Requests: No jumping please"},
			excludes: []string{"You previously generated"},
		},
		{
			name:     "refinement",
			feedback: "Day 3 is too hard",
			summary:  "Workout: A. Nutrition: B. Goal: Lose Body Fat. Feedback context: None",
			contains: []string{
				`You previously generated a plan summarized as: "Workout: A. Nutrition: B. Goal: Lose Body Fat. Feedback context: None"`,
				`feedback/refinement request: "Day 3 is too hard"`,
			},
			excludes: []string{"User Feedback/Initial Requests"},
		},
		{
			name:     "update without feedback",
			summary:  "Workout: A. Nutrition: B. Goal: Lose Body Fat. Feedback context: None",
			contains: []string{"The user may have updated their profile or preferences."},
			excludes: []string{"refinement request"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := base
			params.Feedback = tt.feedback
			params.PreviousPlanSummary = tt.summary
			prompt := BuildFullPlanPrompt(params)
			for _, s := range tt.contains {
				if !strings.Contains(prompt, s) {
					t.Errorf("prompt missing %q", s)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(prompt, s) {
					t.Errorf("prompt unexpectedly contains %q", s)
				}
			}
		})
	}
}

func TestBuildPromptsFallbacks(t *testing.T) {
	prompt := BuildFullPlanPrompt(PlanGenerationParams{Profile: models.DefaultUserProfile()})
	for _, s := range []string{
		"- Available Equipment: Bodyweight only",
		"- Dietary Restrictions: None",
		"- Allergies: None",
		"- Favorite Cuisines: Any",
	} {
		if !strings.Contains(prompt, s) {
			t.Errorf("prompt missing fallback %q", s)
		}
	}
}

func TestBuildGroceryListPrompt(t *testing.T) {
	prompt := BuildGroceryListPrompt(samplePlan().NutritionPlan)
	if !strings.Contains(prompt, "Day: Day 1\nBreakfast: Oatmeal with berries and a spoon of peanut butter\nLunch: Grilled chicken salad") {
		t.Fatalf("grocery prompt does not list meals:\n%s", prompt)
	}
	if !strings.Contains(prompt, "\n\nDay: Day 2\n") {
		t.Fatal("days must be separated by a blank line")
	}
}

func TestBuildSwapPrompts(t *testing.T) {
	plan := samplePlan()
	day := plan.WorkoutPlan.Schedule[0]
	exercisePrompt := BuildExerciseSwapPrompt(ExerciseSwapParams{
		Profile:        models.DefaultUserProfile(),
		WorkoutFilters: models.DefaultWorkoutFilters(),
		ExerciseToSwap: day.Exercises[1],
		WorkoutDay:     day,
	})
	for _, s := range []string{
		`Current Workout Day Focus: "Full Body Strength"`,
		"- Push-ups\n- Bodyweight Squats",
		"- Original Notes: N/A",
		`Be a DIFFERENT exercise than "Bodyweight Squats"`,
	} {
		if !strings.Contains(exercisePrompt, s) {
			t.Errorf("exercise prompt missing %q", s)
		}
	}

	nutritionDay := plan.NutritionPlan.MealSuggestions[0]
	mealPrompt := BuildMealSwapPrompt(MealSwapParams{
		Profile:      models.DefaultUserProfile(),
		DietFilters:  models.DefaultDietFilters(),
		MealToSwap:   nutritionDay.Meals[1],
		NutritionDay: nutritionDay,
	})
	for _, s := range []string{
		"- Breakfast: Oatmeal with berries and a spoon of peanut butter...",
		"- Original Time: N/A",
		"e.g., 'Any appropriate time'",
		"This MUST be the same name as the original meal being swapped, e.g., 'Lunch'",
	} {
		if !strings.Contains(mealPrompt, s) {
			t.Errorf("meal prompt missing %q", s)
		}
	}
}
