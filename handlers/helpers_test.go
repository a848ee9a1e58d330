package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"fitplanner-backend/models"
	"fitplanner-backend/repository"
	"fitplanner-backend/service"

	"github.com/gin-gonic/gin"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

// stubGenerator replays queued responses in order
type stubGenerator struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	started   chan struct{}
	gate      chan struct{}
}

// hold parks the next call until the returned channel is closed. started is
// closed once that call is parked.
func (g *stubGenerator) hold() (started <-chan struct{}, release chan struct{}) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.started = make(chan struct{})
	g.gate = make(chan struct{})
	return g.started, g.gate
}

func (g *stubGenerator) push(text string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.responses = append(g.responses, text)
	g.errs = append(g.errs, err)
}

func (g *stubGenerator) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	g.mu.Lock()
	gate, started := g.gate, g.started
	g.gate, g.started = nil, nil
	g.mu.Unlock()

	if gate != nil {
		close(started)
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.responses) == 0 {
		return "", errors.New("no response queued")
	}
	text, err := g.responses[0], g.errs[0]
	g.responses, g.errs = g.responses[1:], g.errs[1:]
	return text, err
}

func (g *stubGenerator) Close() error { return nil }

type testEnv struct {
	router    *gin.Engine
	generator *stubGenerator
	tokens    *service.TokenService
	users     *service.CredentialService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo, err := repository.NewFileUserRepository(filepath.Join(t.TempDir(), "users.json"))
	if err != nil {
		t.Fatalf("failed to create user repository: %v", err)
	}

	gen := &stubGenerator{}
	newClient := func() *service.GenerationClient {
		return service.NewGenerationClient(
			service.GenerationWithFactory(func(ctx context.Context, apiKey string) (service.TextGenerator, error) {
				if apiKey == "bad-key" {
					return nil, errors.New("rejected")
				}
				return gen, nil
			}),
			service.GenerationWithRetryPolicy(service.RetryPolicy{
				Timeout:        time.Second,
				MaxAttempts:    1,
				InitialBackoff: time.Millisecond,
				MaxBackoff:     time.Millisecond,
			}),
		)
	}

	env := &testEnv{
		generator: gen,
		tokens:    service.NewTokenService(testSecret, time.Hour),
		users:     service.NewCredentialService(service.CredentialWithUserRepository(repo)),
	}

	orchestrator := service.NewPlanOrchestrator(
		service.OrchestratorWithGenerationClient(newClient()),
		service.OrchestratorWithClientFactory(newClient),
	)
	authHandler := NewAuthHandler(env.users, env.tokens)
	settingsHandler := NewSettingsHandler(orchestrator)
	planHandler := NewPlanHandler(orchestrator)

	r := gin.New()
	api := r.Group("/api")
	{
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.GET("/options", GetOptions)

		protected := api.Group("")
		protected.Use(AuthMiddleware(env.tokens))
		protected.GET("/me", authHandler.Me)
		protected.GET("/settings/api-key", settingsHandler.GetAPIKeyStatus)
		protected.PUT("/settings/api-key", settingsHandler.SetAPIKey)
		protected.DELETE("/settings/api-key", settingsHandler.ClearAPIKey)
		protected.GET("/plan/state", planHandler.GetState)
		protected.PUT("/plan/profile", planHandler.UpdateProfile)
		protected.POST("/plan/generate", planHandler.GeneratePlan)
		protected.POST("/plan/grocery-list", planHandler.GenerateGroceryList)
		protected.POST("/plan/articles", planHandler.GenerateArticle)
		protected.POST("/plan/workout/days/:day/exercises/:index/swap", planHandler.SwapExercise)
		protected.POST("/plan/nutrition/days/:day/meals/:index/swap", planHandler.SwapMeal)
		protected.GET("/plan/export/workout", planHandler.ExportWorkout)
		protected.DELETE("/plan/notice", planHandler.DismissNotice)
		protected.DELETE("/plan", planHandler.Reset)
	}
	env.router = r
	return env
}

// register creates a user and returns a bearer token for it
func (e *testEnv) register(t *testing.T, email string) string {
	t.Helper()
	user, err := e.users.CreateUser(context.Background(), email, "secret123")
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	token, err := e.tokens.Issue(user)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return token
}

func (e *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return env
}

func completeProfile() models.UserProfile {
	return models.UserProfile{
		Age:             "30",
		Gender:          "Female",
		Height:          "170",
		Weight:          "65",
		FitnessGoal:     models.GoalGainMuscle,
		ExperienceLevel: models.LevelIntermediate,
	}
}

func testPlan() *models.CombinedPlan {
	return &models.CombinedPlan{
		WorkoutPlan: &models.WorkoutPlan{
			Title:        "Strength Week",
			Introduction: "Build a base.",
			Schedule: []models.WorkoutDay{{
				Day:       "Day 1",
				Focus:     "Upper Body",
				WarmUp:    "5 min jog",
				Exercises: []models.Exercise{{Name: "Push-ups", Sets: "3", Reps: "10", Rest: "60s"}},
				CoolDown:  "Stretch",
			}},
		},
		NutritionPlan: &models.NutritionPlan{
			Title:        "Lean Eating",
			Introduction: "Eat well.",
			DailyTotals:  models.DailyTotals{Calories: "2200", Protein: "150g", Carbs: "220g", Fat: "70g"},
			MealSuggestions: []models.NutritionDay{{
				Day:   "Day 1",
				Meals: []models.Meal{{Name: "Breakfast", Description: "Oats with berries"}},
			}},
		},
	}
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	return string(data)
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, w.Code, w.Body.String())
	}
}

func newRequest(method, path, authorization string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	return req
}

func serve(e *testEnv, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}
