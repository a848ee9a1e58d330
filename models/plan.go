package models

import "strings"

// Exercise represents a single movement within a workout day
type Exercise struct {
	Name           string `json:"name"`
	Sets           string `json:"sets"`
	Reps           string `json:"reps"`
	Rest           string `json:"rest"`
	Notes          string `json:"notes,omitempty"`
	Instructions   string `json:"instructions,omitempty"`   // newline separated steps
	CommonMistakes string `json:"commonMistakes,omitempty"` // newline separated points
}

// WorkoutDay represents one day of the workout schedule
type WorkoutDay struct {
	Day       string     `json:"day"`
	Focus     string     `json:"focus"`
	WarmUp    string     `json:"warmUp"`
	Exercises []Exercise `json:"exercises"`
	CoolDown  string     `json:"coolDown"`
}

// IsRecovery reports whether the day is a rest or active recovery day
func (d WorkoutDay) IsRecovery() bool {
	focus := strings.ToLower(d.Focus)
	return strings.Contains(focus, "rest") || strings.Contains(focus, "recovery")
}

// WorkoutPlan represents the weekly workout schedule
type WorkoutPlan struct {
	Title        string       `json:"title"`
	Introduction string       `json:"introduction"`
	Schedule     []WorkoutDay `json:"schedule"`
}

// RecoveryDays counts rest and active recovery days in the schedule
func (p WorkoutPlan) RecoveryDays() int {
	count := 0
	for _, day := range p.Schedule {
		if day.IsRecovery() {
			count++
		}
	}
	return count
}

// Meal represents one eating occasion
type Meal struct {
	Name        string `json:"name"` // e.g. Breakfast, Snack 1
	Description string `json:"description"`
	Time        string `json:"time,omitempty"`
}

// NutritionDay represents the meals for one day
type NutritionDay struct {
	Day            string `json:"day"`
	Meals          []Meal `json:"meals"`
	HydrationNotes string `json:"hydrationNotes,omitempty"`
}

// DailyTotals holds approximate daily macro targets
type DailyTotals struct {
	Calories string `json:"calories"`
	Protein  string `json:"protein"`
	Carbs    string `json:"carbs"`
	Fat      string `json:"fat"`
}

// NutritionPlan represents the weekly diet
type NutritionPlan struct {
	Title           string         `json:"title"`
	Introduction    string         `json:"introduction"`
	DailyTotals     DailyTotals    `json:"dailyTotals"`
	MealSuggestions []NutritionDay `json:"mealSuggestions"`
	GeneralTips     []string       `json:"generalTips,omitempty"`
}

// CombinedPlan is the workout and nutrition plan produced by one generation
type CombinedPlan struct {
	WorkoutPlan   *WorkoutPlan   `json:"workoutPlan"`
	NutritionPlan *NutritionPlan `json:"nutritionPlan"`
}

// GroceryItem represents one line of the grocery list
type GroceryItem struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

// GroceryCategory groups grocery items
type GroceryCategory struct {
	Category string        `json:"category"`
	Items    []GroceryItem `json:"items"`
}

// GroceryList is the categorized shopping list for a nutrition plan
type GroceryList struct {
	GroceryList []GroceryCategory `json:"groceryList"`
}

// IsEmpty reports whether the list has no items at all
func (g GroceryList) IsEmpty() bool {
	for _, category := range g.GroceryList {
		if len(category.Items) > 0 {
			return false
		}
	}
	return true
}

// EducationalArticle is a short generated article. Content is Markdown.
type EducationalArticle struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}
