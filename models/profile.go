package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FitnessGoal is the user's primary training objective
type FitnessGoal string

const (
	GoalGetShredded      FitnessGoal = "Get Shredded (Fat Loss + Muscle Definition)"
	GoalGainMuscle       FitnessGoal = "Gain Muscle (Hypertrophy)"
	GoalLoseBodyFat      FitnessGoal = "Lose Body Fat"
	GoalImproveEndurance FitnessGoal = "Improve Endurance"
	GoalGeneralFitness   FitnessGoal = "Maintain General Fitness"
)

// ExperienceLevel represents how trained the user already is
type ExperienceLevel string

const (
	LevelBeginner     ExperienceLevel = "Beginner"
	LevelIntermediate ExperienceLevel = "Intermediate"
	LevelAdvanced     ExperienceLevel = "Advanced"
)

// TrainingStyle represents the preferred kind of session
type TrainingStyle string

const (
	StyleHIIT          TrainingStyle = "HIIT (High-Intensity Interval Training)"
	StyleStrength      TrainingStyle = "Strength Training"
	StyleYogaPilates   TrainingStyle = "Yoga/Pilates"
	StyleBodyweight    TrainingStyle = "Bodyweight Only"
	StyleCardioFocused TrainingStyle = "Cardio Focused"
)

// WorkoutLocation represents where the user trains
type WorkoutLocation string

const (
	LocationHome     WorkoutLocation = "Home"
	LocationGym      WorkoutLocation = "Gym"
	LocationOutdoors WorkoutLocation = "Outdoors"
)

// NumericString is a form value kept as entered. It decodes from a JSON
// string or a JSON number, and always encodes as a string.
type NumericString string

func (s *NumericString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = NumericString(str)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("expected a string or number, got %s", data)
	}
	*s = NumericString(num.String())
	return nil
}

// UserProfile holds the form values used to personalize a plan.
// Numeric fields stay strings, as entered.
type UserProfile struct {
	Age             NumericString   `json:"age"`
	Gender          string          `json:"gender"`
	Height          NumericString   `json:"height"`
	Weight          NumericString   `json:"weight"`
	FitnessGoal     FitnessGoal     `json:"fitnessGoal"`
	ExperienceLevel ExperienceLevel `json:"experienceLevel"`
	Feedback        string          `json:"feedback"`
}

// IsComplete reports whether every field needed for generation is filled in
func (p UserProfile) IsComplete() bool {
	return p.Age != "" && p.Gender != "" && p.Height != "" && p.Weight != "" &&
		p.FitnessGoal != "" && p.ExperienceLevel != ""
}

// WorkoutFilters represents workout preferences
type WorkoutFilters struct {
	Equipment     []string        `json:"equipment"`
	Duration      string          `json:"duration"`
	TrainingStyle TrainingStyle   `json:"trainingStyle"`
	Location      WorkoutLocation `json:"location"`
}

// DietFilters represents dietary preferences
type DietFilters struct {
	DietaryRestrictions []string `json:"dietaryRestrictions"`
	Allergies           []string `json:"allergies"`
	FavoriteCuisines    []string `json:"favoriteCuisines"`
}

// DefaultUserProfile is the profile shown before the user edits anything
func DefaultUserProfile() UserProfile {
	return UserProfile{
		Age:             "30",
		Gender:          "Male",
		Height:          "175",
		Weight:          "70",
		FitnessGoal:     GoalGeneralFitness,
		ExperienceLevel: LevelBeginner,
	}
}

// DefaultWorkoutFilters returns the initial workout preferences
func DefaultWorkoutFilters() WorkoutFilters {
	return WorkoutFilters{
		Equipment:     []string{"Bodyweight Only"},
		Duration:      "45 minutes",
		TrainingStyle: StyleBodyweight,
		Location:      LocationHome,
	}
}

// DefaultDietFilters returns the initial diet preferences
func DefaultDietFilters() DietFilters {
	return DietFilters{
		DietaryRestrictions: []string{"None"},
		Allergies:           []string{"None"},
		FavoriteCuisines:    []string{"Any"},
	}
}
