package service

import (
	"errors"
	"fmt"
	"time"

	"fitplanner-backend/models"
)

var (
	ErrNoPlan          = errors.New("no plan loaded")
	ErrNoNutritionPlan = errors.New("no nutrition plan available")
	ErrIndexOutOfRange = errors.New("day or item index out of range")
)

// OperationClass groups generation requests that share a loading flag
type OperationClass string

const (
	OperationPlan    OperationClass = "plan"
	OperationGrocery OperationClass = "grocery"
	OperationArticle OperationClass = "article"
)

// LoadingFlags tracks which operation classes are in flight
type LoadingFlags struct {
	Plan    bool `json:"plan"`
	Grocery bool `json:"grocery"`
	Article bool `json:"article"`
}

func (l LoadingFlags) get(class OperationClass) bool {
	switch class {
	case OperationPlan:
		return l.Plan
	case OperationGrocery:
		return l.Grocery
	case OperationArticle:
		return l.Article
	}
	return false
}

func (l LoadingFlags) with(class OperationClass, v bool) LoadingFlags {
	switch class {
	case OperationPlan:
		l.Plan = v
	case OperationGrocery:
		l.Grocery = v
	case OperationArticle:
		l.Article = v
	}
	return l
}

// NoticeKind distinguishes success from error notices
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a dismissible message shown until ExpiresAt
type Notice struct {
	Kind      NoticeKind `json:"kind"`
	Message   string     `json:"message"`
	ExpiresAt time.Time  `json:"expiresAt"`
}

// PlanState is everything the planner holds for one user
type PlanState struct {
	Profile             models.UserProfile    `json:"profile"`
	WorkoutFilters      models.WorkoutFilters `json:"workoutFilters"`
	DietFilters         models.DietFilters    `json:"dietFilters"`
	Plan                *models.CombinedPlan  `json:"plan"`
	GroceryList         *models.GroceryList   `json:"groceryList"`
	PreviousPlanSummary string                `json:"previousPlanSummary,omitempty"`
	Revision            int                   `json:"revision"`          // bumped whenever Plan is replaced wholesale
	NutritionRevision   int                   `json:"nutritionRevision"` // bumped whenever the meals change
	Loading             LoadingFlags          `json:"loading"`
	SwappingItem        string                `json:"swappingItem,omitempty"`
	Notice              *Notice               `json:"notice,omitempty"`
}

// DefaultPlanState is the state of a user who has never saved anything
func DefaultPlanState() PlanState {
	return PlanState{
		Profile:        models.DefaultUserProfile(),
		WorkoutFilters: models.DefaultWorkoutFilters(),
		DietFilters:    models.DefaultDietFilters(),
	}
}

// Action is a state transition applied by Reduce
type Action interface {
	action()
}

type (
	ProfileUpdated        struct{ Profile models.UserProfile }
	WorkoutFiltersUpdated struct{ Filters models.WorkoutFilters }
	DietFiltersUpdated    struct{ Filters models.DietFilters }

	// OperationStarted marks class as in flight and clears the notice
	OperationStarted struct{ Class OperationClass }
	// OperationFailed ends class with an error notice; nothing else changes
	OperationFailed struct {
		Class  OperationClass
		Notice Notice
	}
	PlanGenerated struct {
		Plan    *models.CombinedPlan
		Summary string
		Notice  Notice
	}
	GroceryListGenerated struct {
		List   *models.GroceryList
		Notice Notice
	}
	ArticleGenerated struct{ Notice Notice }

	SwapStarted   struct{ ItemID string }
	SwapSucceeded struct {
		Plan      *models.CombinedPlan
		Nutrition bool // a meal was replaced
		Notice    Notice
	}
	SwapFailed struct{ Notice Notice }

	NoticeShown     struct{ Notice Notice }
	NoticeDismissed struct{}
	// PlanCleared drops the plan, grocery list and summary
	PlanCleared struct{}
)

func (ProfileUpdated) action()        {}
func (WorkoutFiltersUpdated) action() {}
func (DietFiltersUpdated) action()    {}
func (OperationStarted) action()      {}
func (OperationFailed) action()       {}
func (PlanGenerated) action()         {}
func (GroceryListGenerated) action()  {}
func (ArticleGenerated) action()      {}
func (SwapStarted) action()           {}
func (SwapSucceeded) action()         {}
func (SwapFailed) action()            {}
func (NoticeShown) action()           {}
func (NoticeDismissed) action()       {}
func (PlanCleared) action()           {}

func noticePtr(n Notice) *Notice {
	return &n
}

// Reduce returns the state that results from applying a to s. It never
// mutates s or anything s points to.
func Reduce(s PlanState, a Action) PlanState {
	switch a := a.(type) {
	case ProfileUpdated:
		s.Profile = a.Profile
	case WorkoutFiltersUpdated:
		s.WorkoutFilters = a.Filters
	case DietFiltersUpdated:
		s.DietFilters = a.Filters
	case OperationStarted:
		s.Loading = s.Loading.with(a.Class, true)
		s.Notice = nil
	case OperationFailed:
		s.Loading = s.Loading.with(a.Class, false)
		s.Notice = noticePtr(a.Notice)
	case PlanGenerated:
		s.Plan = a.Plan
		s.PreviousPlanSummary = a.Summary
		s.Revision++
		s.NutritionRevision++
		s.Loading.Plan = false
		s.Notice = noticePtr(a.Notice)
	case GroceryListGenerated:
		s.GroceryList = a.List
		s.Loading.Grocery = false
		s.Notice = noticePtr(a.Notice)
	case ArticleGenerated:
		s.Loading.Article = false
		s.Notice = noticePtr(a.Notice)
	case SwapStarted:
		s.SwappingItem = a.ItemID
		s.Notice = nil
	case SwapSucceeded:
		s.Plan = a.Plan
		if a.Nutrition {
			s.NutritionRevision++
		}
		s.SwappingItem = ""
		s.Notice = noticePtr(a.Notice)
	case SwapFailed:
		s.SwappingItem = ""
		s.Notice = noticePtr(a.Notice)
	case NoticeShown:
		s.Notice = noticePtr(a.Notice)
	case NoticeDismissed:
		s.Notice = nil
	case PlanCleared:
		s.Plan = nil
		s.GroceryList = nil
		s.PreviousPlanSummary = ""
		s.Revision++
		s.NutritionRevision++
	}
	return s
}

// PlanSummary is the one-line description used to refine a plan later
func PlanSummary(plan *models.CombinedPlan, profile models.UserProfile) string {
	feedback := profile.Feedback
	if feedback == "" {
		feedback = "None"
	}
	return fmt.Sprintf("Workout: %s. Nutrition: %s. Goal: %s. Feedback context: %s",
		plan.WorkoutPlan.Title, plan.NutritionPlan.Title, profile.FitnessGoal, feedback)
}

// ExerciseAt returns the addressed day and exercise
func ExerciseAt(plan *models.CombinedPlan, day, index int) (models.WorkoutDay, models.Exercise, error) {
	if plan == nil || plan.WorkoutPlan == nil {
		return models.WorkoutDay{}, models.Exercise{}, ErrNoPlan
	}
	schedule := plan.WorkoutPlan.Schedule
	if day < 0 || day >= len(schedule) || index < 0 || index >= len(schedule[day].Exercises) {
		return models.WorkoutDay{}, models.Exercise{}, ErrIndexOutOfRange
	}
	return schedule[day], schedule[day].Exercises[index], nil
}

// MealAt returns the addressed day and meal
func MealAt(plan *models.CombinedPlan, day, index int) (models.NutritionDay, models.Meal, error) {
	if plan == nil || plan.NutritionPlan == nil {
		return models.NutritionDay{}, models.Meal{}, ErrNoPlan
	}
	days := plan.NutritionPlan.MealSuggestions
	if day < 0 || day >= len(days) || index < 0 || index >= len(days[day].Meals) {
		return models.NutritionDay{}, models.Meal{}, ErrIndexOutOfRange
	}
	return days[day], days[day].Meals[index], nil
}

// ReplaceExercise returns a plan equal to plan except for the addressed
// exercise. Only the path to that exercise is copied; the rest is shared.
func ReplaceExercise(plan *models.CombinedPlan, day, index int, ex models.Exercise) (*models.CombinedPlan, error) {
	if _, _, err := ExerciseAt(plan, day, index); err != nil {
		return nil, err
	}

	workout := *plan.WorkoutPlan
	workout.Schedule = append([]models.WorkoutDay(nil), plan.WorkoutPlan.Schedule...)
	target := workout.Schedule[day]
	target.Exercises = append([]models.Exercise(nil), target.Exercises...)
	target.Exercises[index] = ex
	workout.Schedule[day] = target

	return &models.CombinedPlan{WorkoutPlan: &workout, NutritionPlan: plan.NutritionPlan}, nil
}

// ReplaceMeal is ReplaceExercise for meals
func ReplaceMeal(plan *models.CombinedPlan, day, index int, meal models.Meal) (*models.CombinedPlan, error) {
	if _, _, err := MealAt(plan, day, index); err != nil {
		return nil, err
	}

	nutrition := *plan.NutritionPlan
	nutrition.MealSuggestions = append([]models.NutritionDay(nil), plan.NutritionPlan.MealSuggestions...)
	target := nutrition.MealSuggestions[day]
	target.Meals = append([]models.Meal(nil), target.Meals...)
	target.Meals[index] = meal
	nutrition.MealSuggestions[day] = target

	return &models.CombinedPlan{WorkoutPlan: plan.WorkoutPlan, NutritionPlan: &nutrition}, nil
}
