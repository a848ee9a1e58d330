package models

// Catalog lists every selectable option offered by the profile form
type Catalog struct {
	Genders             []string          `json:"genders"`
	FitnessGoals        []FitnessGoal     `json:"fitnessGoals"`
	ExperienceLevels    []ExperienceLevel `json:"experienceLevels"`
	Equipment           []string          `json:"equipment"`
	Durations           []string          `json:"durations"`
	TrainingStyles      []TrainingStyle   `json:"trainingStyles"`
	WorkoutLocations    []WorkoutLocation `json:"workoutLocations"`
	DietaryRestrictions []string          `json:"dietaryRestrictions"`
	Allergies           []string          `json:"allergies"`
	Cuisines            []string          `json:"cuisines"`
	EducationalTopics   []string          `json:"educationalTopics"`
}

// EducationalTopics are the suggested article topics
var EducationalTopics = []string{
	"Understanding Macronutrients",
	"Benefits of Strength Training",
	"Effective Fat Loss Strategies",
	"Importance of Hydration",
	"Mindful Eating Techniques",
	"HIIT vs. LISS Cardio",
	"Active Recovery Methods",
	"Building a Sustainable Fitness Routine",
}

// DefaultCatalog returns the option lists
func DefaultCatalog() Catalog {
	return Catalog{
		Genders:          []string{"Male", "Female", "Non-binary", "Prefer not to say"},
		FitnessGoals:     []FitnessGoal{GoalGetShredded, GoalGainMuscle, GoalLoseBodyFat, GoalImproveEndurance, GoalGeneralFitness},
		ExperienceLevels: []ExperienceLevel{LevelBeginner, LevelIntermediate, LevelAdvanced},
		Equipment:        []string{"Full Gym Access", "Dumbbells", "Kettlebells", "Resistance Bands", "Bodyweight Only", "Barbell", "Yoga Mat"},
		Durations:        []string{"30 minutes", "45 minutes", "60 minutes", "75 minutes", "90 minutes"},
		TrainingStyles:   []TrainingStyle{StyleHIIT, StyleStrength, StyleYogaPilates, StyleBodyweight, StyleCardioFocused},
		WorkoutLocations: []WorkoutLocation{LocationHome, LocationGym, LocationOutdoors},
		DietaryRestrictions: []string{
			"None", "Vegetarian", "Vegan", "Pescatarian", "Gluten-Free", "Dairy-Free", "Paleo", "Keto",
		},
		Allergies:         []string{"None", "Peanuts", "Tree Nuts", "Milk", "Eggs", "Wheat", "Soy", "Fish", "Shellfish"},
		Cuisines:          []string{"Any", "Italian", "Mexican", "Indian", "Chinese", "Japanese", "Mediterranean", "American", "Korean"},
		EducationalTopics: append([]string(nil), EducationalTopics...),
	}
}
