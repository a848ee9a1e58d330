package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"fitplanner-backend/logger"
	"fitplanner-backend/models"
)

var (
	ErrClientNotInitialized = errors.New("generation client not initialized")
	ErrEmptyAPIKey          = errors.New("api key cannot be empty")
	ErrClientInitFailed     = errors.New("failed to initialize generation client")
)

const (
	temperatureFullPlan     float32 = 0.7
	temperatureGroceryList  float32 = 0.5
	temperatureArticle      float32 = 0.6
	temperatureExerciseSwap float32 = 0.7
	temperatureMealSwap     float32 = 0.7
)

var fenceRegex = regexp.MustCompile("(?s)^```(\\w*)\\s*\\n?(.*?)\\n?\\s*```$")

// PlanGenerationParams is the input to a full plan generation
type PlanGenerationParams struct {
	Profile             models.UserProfile
	WorkoutFilters      models.WorkoutFilters
	DietFilters         models.DietFilters
	Feedback            string // empty when the user gave none
	PreviousPlanSummary string // empty when there is no current plan
}

// IsRefinement reports whether the request revises an existing plan
func (p PlanGenerationParams) IsRefinement() bool {
	return p.PreviousPlanSummary != "" && p.Feedback != ""
}

// ExerciseSwapParams is the input to an exercise swap
type ExerciseSwapParams struct {
	Profile        models.UserProfile
	WorkoutFilters models.WorkoutFilters
	DietFilters    models.DietFilters
	ExerciseToSwap models.Exercise
	WorkoutDay     models.WorkoutDay
}

// MealSwapParams is the input to a meal swap
type MealSwapParams struct {
	Profile        models.UserProfile
	WorkoutFilters models.WorkoutFilters
	DietFilters    models.DietFilters
	MealToSwap     models.Meal
	NutritionDay   models.NutritionDay
}

// GenerationClient turns structured requests into prompts and parses the
// model's answers. A nil result with a nil error means the model answered
// with something that could not be used.
type GenerationClient struct {
	mu        sync.RWMutex
	generator TextGenerator
	apiKey    string
	factory   GeneratorFactory
	retry     RetryPolicy
}

// GenerationClientOption is a functional option for GenerationClient
type GenerationClientOption func(*GenerationClient)

// GenerationWithFactory sets how generators are built from an API key
func GenerationWithFactory(factory GeneratorFactory) GenerationClientOption {
	return func(c *GenerationClient) {
		c.factory = factory
	}
}

// GenerationWithRetryPolicy sets the retry policy for model calls
func GenerationWithRetryPolicy(policy RetryPolicy) GenerationClientOption {
	return func(c *GenerationClient) {
		c.retry = policy
	}
}

// NewGenerationClient creates an uninitialized client
func NewGenerationClient(opts ...GenerationClientOption) *GenerationClient {
	c := &GenerationClient{
		factory: GeminiFactory("gemini-2.5-flash"),
		retry:   DefaultRetryPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Initialize binds the client to apiKey. Re-initializing with the current
// key is a no-op; an empty key resets the client.
func (c *GenerationClient) Initialize(ctx context.Context, apiKey string) error {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		logger.Warn("attempted to initialize generation client with an empty API key")
		c.Reset()
		return ErrEmptyAPIKey
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generator != nil && c.apiKey == apiKey {
		return nil
	}

	gen, err := c.factory(ctx, apiKey)
	if err != nil {
		logger.Error("failed to initialize generation client", "error", err)
		c.closeLocked()
		return fmt.Errorf("%w: %v", ErrClientInitFailed, err)
	}

	c.closeLocked()
	c.generator = gen
	c.apiKey = apiKey
	logger.Info("generation client initialized")
	return nil
}

// IsInitialized reports whether an API key has been accepted
func (c *GenerationClient) IsInitialized() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generator != nil
}

// Reset drops the current API key and generator
func (c *GenerationClient) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
}

func (c *GenerationClient) closeLocked() {
	if c.generator != nil {
		if err := c.generator.Close(); err != nil {
			logger.Warn("failed to close generator", "error", err)
		}
	}
	c.generator = nil
	c.apiKey = ""
}

func (c *GenerationClient) current() (TextGenerator, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.generator == nil {
		return nil, ErrClientNotInitialized
	}
	return c.generator, nil
}

func (c *GenerationClient) generate(ctx context.Context, prompt string, temperature float32) (string, error) {
	gen, err := c.current()
	if err != nil {
		return "", err
	}

	text, err := generateWithRetry(ctx, gen, c.retry, prompt, temperature)
	if errors.Is(err, ErrResponseBlocked) {
		// a refusal is unusable output, not a transport failure
		logger.Warn("model response blocked", "error", err)
		return "", nil
	}
	return text, err
}

// GenerateFullPlan produces a seven day workout and nutrition plan
func (c *GenerationClient) GenerateFullPlan(ctx context.Context, params PlanGenerationParams) (*models.CombinedPlan, error) {
	text, err := c.generate(ctx, BuildFullPlanPrompt(params), temperatureFullPlan)
	if err != nil {
		logger.Error("error generating full plan", "error", err)
		return nil, err
	}

	plan := ParseJSONResponse[models.CombinedPlan](text)
	if plan == nil {
		return nil, nil
	}
	if plan.WorkoutPlan == nil || plan.NutritionPlan == nil {
		logger.Error("full plan response is missing a section", "has_workout", plan.WorkoutPlan != nil, "has_nutrition", plan.NutritionPlan != nil)
		return nil, nil
	}
	return plan, nil
}

// GenerateGroceryList produces a categorized grocery list for plan
func (c *GenerationClient) GenerateGroceryList(ctx context.Context, plan *models.NutritionPlan) (*models.GroceryList, error) {
	if plan == nil {
		return nil, ErrNoNutritionPlan
	}

	text, err := c.generate(ctx, BuildGroceryListPrompt(plan), temperatureGroceryList)
	if err != nil {
		logger.Error("error generating grocery list", "error", err)
		return nil, err
	}

	list := ParseJSONResponse[models.GroceryList](text)
	if list == nil || list.GroceryList == nil {
		return nil, nil
	}
	return list, nil
}

// GenerateArticle produces a short Markdown article on topic
func (c *GenerationClient) GenerateArticle(ctx context.Context, topic string) (*models.EducationalArticle, error) {
	text, err := c.generate(ctx, BuildArticlePrompt(topic), temperatureArticle)
	if err != nil {
		logger.Error("error generating educational article", "error", err)
		return nil, err
	}

	article := ParseJSONResponse[models.EducationalArticle](text)
	if article == nil || article.Content == "" {
		return nil, nil
	}
	return article, nil
}

// GenerateExerciseSwap asks for a replacement exercise
func (c *GenerationClient) GenerateExerciseSwap(ctx context.Context, params ExerciseSwapParams) (*models.Exercise, error) {
	text, err := c.generate(ctx, BuildExerciseSwapPrompt(params), temperatureExerciseSwap)
	if err != nil {
		logger.Error("error generating exercise swap", "error", err)
		return nil, err
	}

	exercise := ParseJSONResponse[models.Exercise](text)
	if exercise == nil || exercise.Name == "" {
		return nil, nil
	}
	return exercise, nil
}

// GenerateMealSwap asks for a replacement meal
func (c *GenerationClient) GenerateMealSwap(ctx context.Context, params MealSwapParams) (*models.Meal, error) {
	text, err := c.generate(ctx, BuildMealSwapPrompt(params), temperatureMealSwap)
	if err != nil {
		logger.Error("error generating meal swap", "error", err)
		return nil, err
	}

	meal := ParseJSONResponse[models.Meal](text)
	if meal == nil || meal.Description == "" {
		return nil, nil
	}
	if meal.Name == "" {
		meal.Name = params.MealToSwap.Name
	}
	return meal, nil
}

// ParseJSONResponse decodes text as T after stripping an optional code
// fence. Undecodable text is logged and yields nil.
func ParseJSONResponse[T any](text string) *T {
	jsonStr := strings.TrimSpace(text)
	if match := fenceRegex.FindStringSubmatch(jsonStr); match != nil && match[2] != "" {
		jsonStr = strings.TrimSpace(match[2])
	}

	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		logger.Error("failed to parse JSON response", "error", err, "text", truncate(text, 500))
		return nil
	}
	return &result
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
