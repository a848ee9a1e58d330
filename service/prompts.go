package service

import (
	"fmt"
	"strings"

	"fitplanner-backend/models"
)

const fullPlanSchema = `Output ONLY a valid JSON object with the exact following structure. Do not add any text before or after the JSON object:
{
  "workoutPlan": {
    "title": "string (e.g., 'Personalized 7-Day Shred Plan')",
    "introduction": "string (a brief inspiring intro to the plan, 2-3 sentences)",
    "schedule": [
      {
        "day": "string (e.g., 'Day 1 - Monday')",
        "focus": "string (e.g., 'Full Body Strength' or 'Rest')",
        "warmUp": "string (description of warm-up, 2-3 exercises or general routine)",
        "exercises": [
          {
            "name": "string",
            "sets": "string (e.g., '3-4')",
            "reps": "string (e.g., '8-12' or 'AMRAP')",
            "rest": "string (e.g., '60-90s')",
            "notes": "string (optional, e.g., 'Focus on form')",
            "instructions": "string (detailed step-by-step instructions using newlines for steps, e.g., '1. First step.\n2. Second step.')",
            "commonMistakes": "string (common mistakes to avoid using newlines for points, e.g., '1. Mistake one.\n2. Mistake two.')"
          }
        ],
        "coolDown": "string (description of cool-down, 2-3 stretches or general routine)"
      }
    ]
  },
  "nutritionPlan": {
    "title": "string (e.g., 'Tailored Fat Loss Diet')",
    "introduction": "string (a brief inspiring intro to the diet, 2-3 sentences)",
    "dailyTotals": { "calories": "string (e.g., 'Approx. 2000 kcal')", "protein": "string (e.g., '150g')", "carbs": "string (e.g., '200g')", "fat": "string (e.g., '60g')" },
    "mealSuggestions": [
      {
        "day": "string (e.g., 'Day 1 - Monday')",
        "meals": [
          { "name": "string (e.g., 'Breakfast')", "description": "string (Detailed meal description including key ingredients, estimated quantities for one person, and simple step-by-step preparation instructions. Make it actionable. For example: 'Scrambled Eggs on Toast: 2 large eggs, 1 slice whole-wheat toast, 1 tsp olive oil, pinch of salt & pepper. 1. Whisk eggs with salt and pepper. 2. Heat olive oil in a pan. 3. Pour in eggs and cook, stirring gently, until desired consistency. 4. Serve over toasted bread.')", "time": "string (optional, e.g., '8:00 AM')" },
          { "name": "string (e.g., 'Snack 1')", "description": "string (Detailed, actionable description as above)", "time": "string (optional)" },
          { "name": "string (e.g., 'Lunch')", "description": "string (Detailed, actionable description as above)", "time": "string (optional)" },
          { "name": "string (e.g., 'Snack 2')", "description": "string (Detailed, actionable description as above)", "time": "string (optional)" },
          { "name": "string (e.g., 'Dinner')", "description": "string (Detailed, actionable description as above)", "time": "string (optional)" }
        ],
        "hydrationNotes": "string (e.g., 'Drink at least 2.5-3 liters of water throughout the day.')"
      }
    ],
    "generalTips": ["string (tip 1: short, actionable)", "string (tip 2)"]
  }
}
IMPORTANT: For each meal object within the 'meals' array (for breakfast, lunch, dinner, and all snacks), ensure it strictly adheres to the structure: ` + "`" + `{"name": "Meal Name", "description": "Detailed meal description including ingredients and simple prep steps...", "time": "Optional time"}` + "`" + `. For example, a snack entry must look like ` + "`" + `{"name": "Snack 1", "description": "Apple slices (1 medium apple) with 2 tbsp peanut butter. 1. Slice apple. 2. Spread with peanut butter."}` + "`" + ` and NOT ` + "`" + `{"Snack 1": "description": "An apple"}` + "`" + `. Pay close attention to the 'name' field and ensure it is always a key with a string value representing the meal's title (e.g., "Breakfast", "Snack 1").
For exercises, provide concise 'instructions' and 'commonMistakes'. If an exercise is simple (e.g., 'Rest' or 'Light Walk'), these fields can be brief or state 'N/A'.

Ensure the JSON is valid. Provide diverse exercises and meal ideas for 7 days (including rest days in workout plan).
If the user goal is 'Get Shredded (Fat Loss + Muscle Definition)', focus on fat loss and muscle definition.
If 'Gain Muscle (Hypertrophy)', focus on hypertrophy and caloric surplus.
If 'Lose Body Fat', focus on caloric deficit while preserving muscle.
Adjust intensity and complexity based on experience level.
For workout schedule, include at least 2-3 rest days or active recovery days.
For nutrition plan meal suggestions, provide specific meal examples for all 7 days.
`

const groceryListSchema = `Output ONLY a valid JSON object with the exact following structure. Do not add any text before or after the JSON object:
{
  "groceryList": [
    {
      "category": "string (e.g., 'Fresh Produce (Fruits & Vegetables)', 'Proteins (Meat, Poultry, Fish, Plant-Based)', 'Dairy & Alternatives', 'Grains, Legumes & Carbs', 'Pantry Staples & Condiments', 'Beverages', 'Frozen Goods')",
      "items": [
        { "name": "string (e.g., 'Chicken Breast')", "quantity": "string (e.g., '500g' or '2 large pieces' or '1 bunch')" }
      ]
    }
  ]
}
Ensure the JSON is valid. Consolidate items where possible (e.g., if apples are mentioned multiple times, list 'Apples' once with total quantity). Be specific with quantities based on a typical 7-day plan for one person. Categorize logically.
`

const exerciseSwapSchema = `Output ONLY a single valid JSON object representing the new exercise, with the exact following structure. Do not add any text before or after the JSON object:
{
  "name": "string (new exercise name)",
  "sets": "string (e.g., '3-4', should be similar to original or appropriate for new ex)",
  "reps": "string (e.g., '8-12' or 'AMRAP', appropriate for new ex)",
  "rest": "string (e.g., '60-90s', appropriate for new ex)",
  "notes": "string (optional, e.g., 'Focus on form for this new exercise')",
  "instructions": "string (detailed step-by-step instructions for the new exercise using newlines for steps, e.g., '1. First step.\n2. Second step.')",
  "commonMistakes": "string (common mistakes to avoid for the new exercise using newlines for points, e.g., '1. Mistake one.\n2. Mistake two.')"
}
Ensure the JSON is valid and provides all fields for the new exercise.
`

func joinOr(values []string, fallback string) string {
	if joined := strings.Join(values, ", "); joined != "" {
		return joined
	}
	return fallback
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func writeProfile(b *strings.Builder, p models.UserProfile) {
	b.WriteString("User Profile:\n")
	fmt.Fprintf(b, "- Age: %s\n", p.Age)
	fmt.Fprintf(b, "- Gender: %s\n", p.Gender)
	fmt.Fprintf(b, "- Height: %s cm\n", p.Height)
	fmt.Fprintf(b, "- Weight: %s kg\n", p.Weight)
	fmt.Fprintf(b, "- Fitness Goal: %s\n", p.FitnessGoal)
	fmt.Fprintf(b, "- Experience Level: %s\n", p.ExperienceLevel)
}

func writeWorkoutPreferences(b *strings.Builder, f models.WorkoutFilters) {
	b.WriteString("Workout Preferences:\n")
	fmt.Fprintf(b, "- Available Equipment: %s\n", joinOr(f.Equipment, "Bodyweight only"))
	fmt.Fprintf(b, "- Session Duration: %s\n", f.Duration)
	fmt.Fprintf(b, "- Training Style: %s\n", f.TrainingStyle)
	fmt.Fprintf(b, "- Workout Location: %s\n", f.Location)
}

func writeDietaryPreferences(b *strings.Builder, f models.DietFilters) {
	b.WriteString("Dietary Preferences:\n")
	fmt.Fprintf(b, "- Dietary Restrictions: %s\n", joinOr(f.DietaryRestrictions, "None"))
	fmt.Fprintf(b, "- Allergies: %s\n", joinOr(f.Allergies, "None"))
	fmt.Fprintf(b, "- Favorite Cuisines: %s\n", joinOr(f.FavoriteCuisines, "Any"))
}

// BuildFullPlanPrompt builds the prompt for a new or refined plan. With a
// summary and feedback the model revises the plan; with only a summary it
// produces a fresh but consistent one.
func BuildFullPlanPrompt(params PlanGenerationParams) string {
	promptContext := "Generate a new personalized 7-day workout and nutrition plan"
	switch {
	case params.PreviousPlanSummary != "" && params.Feedback != "":
		promptContext = fmt.Sprintf(`You previously generated a plan summarized as: "%s". The user now has the following feedback/refinement request: "%s". Please update the *entire* 7-day workout and nutrition plan based on this feedback, keeping the user's original profile and preferences (listed below) in mind. If the feedback is about a specific part (e.g., 'Day 3 workout is too hard', 'replace chicken with fish on Day 1'), make that specific adjustment and ensure the rest of the plan remains coherent and balanced. If the feedback is general (e.g., 'make it easier'), adjust the overall plan accordingly.`,
			params.PreviousPlanSummary, params.Feedback)
	case params.PreviousPlanSummary != "":
		promptContext = fmt.Sprintf(`You previously generated a plan summarized as: "%s". The user may have updated their profile or preferences. Please generate an updated 7-day plan considering these, or if no significant changes, a similar but fresh plan.`,
			params.PreviousPlanSummary)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert fitness and nutrition AI. %s based on the following user profile and preferences.\n\n", promptContext)
	writeProfile(&b, params.Profile)
	if params.Feedback != "" && params.PreviousPlanSummary == "" {
		fmt.Fprintf(&b, "\nUser Feedback/Initial Requests: %s\n", params.Feedback)
	}
	b.WriteString("\n")
	writeWorkoutPreferences(&b, params.WorkoutFilters)
	b.WriteString("\n")
	writeDietaryPreferences(&b, params.DietFilters)
	b.WriteString("\n")
	b.WriteString(fullPlanSchema)
	return b.String()
}

// BuildGroceryListPrompt lists every meal of plan, day by day
func BuildGroceryListPrompt(plan *models.NutritionPlan) string {
	days := make([]string, 0, len(plan.MealSuggestions))
	for _, day := range plan.MealSuggestions {
		lines := []string{"Day: " + day.Day}
		for _, meal := range day.Meals {
			lines = append(lines, meal.Name+": "+meal.Description)
		}
		days = append(days, strings.Join(lines, "\n"))
	}

	var b strings.Builder
	b.WriteString("Based on the following 7-day nutrition plan, generate a categorized grocery list.\n")
	b.WriteString("Nutrition Plan Details:\n---\n")
	b.WriteString(strings.Join(days, "\n\n"))
	b.WriteString("\n---\n")
	b.WriteString(groceryListSchema)
	return b.String()
}

// BuildArticlePrompt asks for a 300-400 word Markdown article
func BuildArticlePrompt(topic string) string {
	return fmt.Sprintf(`Generate a concise and informative educational article (around 300-400 words) on the topic: "%s".
The article should be easy to understand for someone with general fitness knowledge.
Focus on practical tips, benefits, and actionable advice. Use clear language.
Output ONLY a valid JSON object with the exact following structure. Do not add any text before or after the JSON object:
{
  "title": "string (compelling article title related to the topic)",
  "content": "string (article content in Markdown format. Use paragraphs, headings (e.g., ## Subheading), and bullet points (e.g., - Point) for better readability. Ensure valid Markdown.)"
}
Ensure the JSON is valid.
`, topic)
}

func BuildExerciseSwapPrompt(params ExerciseSwapParams) string {
	ex := params.ExerciseToSwap
	equipment := joinOr(params.WorkoutFilters.Equipment, "Bodyweight only")

	var b strings.Builder
	b.WriteString("You are an expert fitness AI. The user wants to swap out an exercise from their current workout day.\n")
	writeProfile(&b, params.Profile)
	b.WriteString("\n")
	writeWorkoutPreferences(&b, params.WorkoutFilters)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Current Workout Day Focus: \"%s\"\n", params.WorkoutDay.Focus)
	b.WriteString("Current Workout Day Exercises (for context of variety):\n")
	names := make([]string, 0, len(params.WorkoutDay.Exercises))
	for _, other := range params.WorkoutDay.Exercises {
		names = append(names, "- "+other.Name)
	}
	b.WriteString(strings.Join(names, "\n"))
	b.WriteString("\n\n")

	b.WriteString("Exercise to Swap:\n")
	fmt.Fprintf(&b, "- Name: %s\n", ex.Name)
	fmt.Fprintf(&b, "- Sets: %s\n", ex.Sets)
	fmt.Fprintf(&b, "- Reps: %s\n", ex.Reps)
	fmt.Fprintf(&b, "- Original Notes: %s\n", orNA(ex.Notes))
	fmt.Fprintf(&b, "- Original Instructions: %s\n", orNA(ex.Instructions))
	fmt.Fprintf(&b, "- Original Common Mistakes: %s\n\n", orNA(ex.CommonMistakes))

	b.WriteString("Provide a suitable alternative exercise. The replacement MUST:\n")
	fmt.Fprintf(&b, "1. Target similar muscle groups or serve a similar purpose as \"%s\".\n", ex.Name)
	fmt.Fprintf(&b, "2. Be appropriate for the user's experience level (\"%s\").\n", params.Profile.ExperienceLevel)
	fmt.Fprintf(&b, "3. Utilize only the user's available equipment: \"%s\". If \"Bodyweight Only\" is specified, do not suggest equipment.\n", equipment)
	fmt.Fprintf(&b, "4. Fit within the workout day's focus: \"%s\".\n", params.WorkoutDay.Focus)
	fmt.Fprintf(&b, "5. Be a DIFFERENT exercise than \"%s\" and ideally different from other exercises already in the current day's list.\n", ex.Name)
	b.WriteString("6. Come with its own detailed instructions and common mistakes.\n\n")
	b.WriteString(exerciseSwapSchema)
	return b.String()
}

func BuildMealSwapPrompt(params MealSwapParams) string {
	meal := params.MealToSwap
	restrictions := joinOr(params.DietFilters.DietaryRestrictions, "None")
	allergies := joinOr(params.DietFilters.Allergies, "None")
	cuisines := joinOr(params.DietFilters.FavoriteCuisines, "Any")
	timeHint := meal.Time
	if timeHint == "" {
		timeHint = "Any appropriate time"
	}

	var b strings.Builder
	b.WriteString("You are an expert nutrition AI. The user wants to swap out a meal from their current nutrition plan for a specific day.\n")
	writeProfile(&b, params.Profile)
	b.WriteString("\n")
	writeDietaryPreferences(&b, params.DietFilters)
	b.WriteString("\n")

	b.WriteString("Current Nutrition Day Meals (for context of variety):\n")
	lines := make([]string, 0, len(params.NutritionDay.Meals))
	for _, other := range params.NutritionDay.Meals {
		lines = append(lines, fmt.Sprintf("- %s: %s...", other.Name, truncate(other.Description, 50)))
	}
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\n")

	b.WriteString("Original Meal to Swap:\n")
	fmt.Fprintf(&b, "- Name: %s\n", meal.Name)
	fmt.Fprintf(&b, "- Original Description: %s\n", meal.Description)
	fmt.Fprintf(&b, "- Original Time: %s\n\n", orNA(meal.Time))

	b.WriteString("Provide a suitable alternative meal. The replacement MUST:\n")
	fmt.Fprintf(&b, "1. Be nutritionally appropriate for the meal type (\"%s\").\n", meal.Name)
	fmt.Fprintf(&b, "2. Strictly adhere to the user's dietary restrictions (\"%s\") and allergies (\"%s\").\n", restrictions, allergies)
	fmt.Fprintf(&b, "3. If possible, align with favorite cuisines (\"%s\"), but restrictions/allergies are paramount.\n", cuisines)
	b.WriteString("4. Be a DIFFERENT meal than the original description.\n")
	fmt.Fprintf(&b, "5. Aim for a similar caloric/macro profile if inferable, or generally balanced for the user's goal (\"%s\").\n", params.Profile.FitnessGoal)
	b.WriteString("6. Provide a detailed description including key ingredients, estimated quantities for one person, and simple step-by-step preparation instructions.\n\n")

	b.WriteString("Output ONLY a single valid JSON object representing the new meal, with the exact following structure. Do not add any text before or after the JSON object:\n{\n")
	fmt.Fprintf(&b, "  \"name\": \"string (This MUST be the same name as the original meal being swapped, e.g., '%s')\",\n", meal.Name)
	b.WriteString("  \"description\": \"string (Detailed new meal description including key ingredients, estimated quantities for one person, and simple step-by-step preparation instructions. Make it actionable. For example: 'Tofu Scramble: 150g firm tofu, crumbled; 1/4 cup chopped bell peppers; 1/4 onion, chopped; 1 tsp turmeric; salt & pepper to taste. 1. Sauté onions and peppers. 2. Add tofu and turmeric, cook until heated. 3. Season with salt and pepper.')\",\n")
	fmt.Fprintf(&b, "  \"time\": \"string (optional, e.g., '%s' or can be omitted. If provided, it should be similar to original if relevant.)\"\n}\n", timeHint)
	b.WriteString("Ensure the JSON is valid and provides all fields for the new meal, especially keeping the 'name' field identical to the meal being replaced.\n")
	return b.String()
}
