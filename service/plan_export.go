package service

import (
	"strings"

	"fitplanner-backend/models"
)

const (
	WorkoutExportFilename   = "AI_Workout_Plan.txt"
	NutritionExportFilename = "AI_Nutrition_Plan.txt"

	daySeparator = "------------------------------\n"
)

// Export is a rendered plain-text download
type Export struct {
	Filename string
	Content  string
}

func indentLines(text, indent string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = indent + strings.TrimSpace(line)
	}
	return strings.Join(lines, "\n")
}

func hasDetail(text string) bool {
	return text != "" && strings.ToLower(text) != "n/a"
}

func formatExerciseDetails(ex models.Exercise) string {
	var b strings.Builder
	b.WriteString("  - " + ex.Name + " (Sets: " + ex.Sets + ", Reps: " + ex.Reps + ", Rest: " + ex.Rest + ")\n")
	if ex.Notes != "" {
		b.WriteString("    Notes: " + ex.Notes + "\n")
	}
	if hasDetail(ex.Instructions) {
		b.WriteString("    Instructions:\n" + indentLines(ex.Instructions, "      ") + "\n")
	}
	if hasDetail(ex.CommonMistakes) {
		b.WriteString("    Common Mistakes:\n" + indentLines(ex.CommonMistakes, "      ") + "\n")
	}
	return b.String()
}

// FormatWorkoutPlan renders plan as the downloadable text file
func FormatWorkoutPlan(plan *models.WorkoutPlan) string {
	var b strings.Builder
	b.WriteString("AI Fitness - Workout Plan\n=========================\n\n")
	b.WriteString("Title: " + plan.Title + "\nIntroduction: " + plan.Introduction + "\n\n")
	for _, day := range plan.Schedule {
		b.WriteString(daySeparator)
		b.WriteString(day.Day + " - Focus: " + day.Focus + "\n")
		b.WriteString(daySeparator)
		b.WriteString("Warm-up: " + day.WarmUp + "\n\n")
		b.WriteString("Exercises:\n")
		for _, ex := range day.Exercises {
			b.WriteString(formatExerciseDetails(ex))
		}
		b.WriteString("\nCool-down: " + day.CoolDown + "\n\n\n")
	}
	return b.String()
}

// FormatNutritionPlan renders plan as the downloadable text file
func FormatNutritionPlan(plan *models.NutritionPlan) string {
	var b strings.Builder
	b.WriteString("AI Fitness - Nutrition Plan\n===========================\n\n")
	b.WriteString("Title: " + plan.Title + "\nIntroduction: " + plan.Introduction + "\n\n")
	t := plan.DailyTotals
	b.WriteString("Approximate Daily Totals:\n  Calories: " + t.Calories + "\n  Protein: " + t.Protein +
		"\n  Carbs: " + t.Carbs + "\n  Fat: " + t.Fat + "\n\n")

	for _, day := range plan.MealSuggestions {
		b.WriteString(daySeparator)
		b.WriteString(day.Day + "\n")
		b.WriteString(daySeparator)
		for _, meal := range day.Meals {
			b.WriteString("  " + meal.Name)
			if meal.Time != "" {
				b.WriteString(" (" + meal.Time + ")")
			}
			b.WriteString(": " + meal.Description + "\n")
		}
		if day.HydrationNotes != "" {
			b.WriteString("  Hydration: " + day.HydrationNotes + "\n")
		}
		b.WriteString("\n")
	}

	if len(plan.GeneralTips) > 0 {
		b.WriteString("General Tips:\n")
		for _, tip := range plan.GeneralTips {
			b.WriteString("  - " + tip + "\n")
		}
	}
	return b.String()
}
