package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"fitplanner-backend/logger"
	"fitplanner-backend/models"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(&bytes.Buffer{}) })
	return &buf
}

type fakeResponse struct {
	text string
	err  error
}

// fakeGenerator replays queued responses in order and records every prompt
type fakeGenerator struct {
	mu        sync.Mutex
	responses []fakeResponse
	prompts   []string
	temps     []float32
	closed    bool
	block     chan struct{} // when set, calls wait for it to close
	// respond, when set, answers instead of the queue
	respond func(ctx context.Context, prompt string) (string, error)
}

func (f *fakeGenerator) queue(text string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, fakeResponse{text: text, err: err})
}

func (f *fakeGenerator) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.temps = append(f.temps, temperature)
	block := f.block
	respond := f.respond
	f.mu.Unlock()

	if respond != nil {
		return respond(ctx, prompt)
	}

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.responses) == 0 {
		return "", errors.New("no response queued")
	}
	r := f.responses[0]
	f.responses = f.responses[1:]
	return r.text, r.err
}

func (f *fakeGenerator) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeGenerator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func fastRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Timeout:        time.Second,
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
	}
}

func newTestGenerationClient(t *testing.T, gen *fakeGenerator) *GenerationClient {
	t.Helper()
	client := NewGenerationClient(
		GenerationWithFactory(func(ctx context.Context, apiKey string) (TextGenerator, error) {
			return gen, nil
		}),
		GenerationWithRetryPolicy(fastRetryPolicy()),
	)
	if err := client.Initialize(context.Background(), "test-key"); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return client
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(data)
}

func samplePlan() *models.CombinedPlan {
	schedule := make([]models.WorkoutDay, 0, 7)
	meals := make([]models.NutritionDay, 0, 7)
	for i := 1; i <= 7; i++ {
		day := fmt.Sprintf("Day %d", i)
		focus := "Full Body Strength"
		exercises := []models.Exercise{
			{Name: "Push-ups", Sets: "3", Reps: "10-12", Rest: "60s", Instructions: "1. Plank position.\n2. Lower chest.", CommonMistakes: "N/A"},
			{Name: "Bodyweight Squats", Sets: "3", Reps: "15", Rest: "60s"},
		}
		switch i {
		case 3:
			focus = "Active Recovery"
			exercises = []models.Exercise{{Name: "Light Walk", Sets: "1", Reps: "30 min", Rest: "N/A"}}
		case 7:
			focus = "Rest"
			exercises = []models.Exercise{}
		}
		schedule = append(schedule, models.WorkoutDay{
			Day:       day,
			Focus:     focus,
			WarmUp:    "5 min marching in place",
			Exercises: exercises,
			CoolDown:  "Hamstring stretch",
		})
		meals = append(meals, models.NutritionDay{
			Day: day,
			Meals: []models.Meal{
				{Name: "Breakfast", Description: "Oatmeal with berries and a spoon of peanut butter", Time: "8:00 AM"},
				{Name: "Lunch", Description: "Grilled chicken salad"},
				{Name: "Dinner", Description: "Baked salmon with rice"},
			},
			HydrationNotes: "Drink 2.5 liters of water.",
		})
	}

	return &models.CombinedPlan{
		WorkoutPlan: &models.WorkoutPlan{
			Title:        "7-Day Lean Plan",
			Introduction: "A balanced week.",
			Schedule:     schedule,
		},
		NutritionPlan: &models.NutritionPlan{
			Title:           "Fat Loss Diet",
			Introduction:    "Eat well.",
			DailyTotals:     models.DailyTotals{Calories: "Approx. 2000 kcal", Protein: "150g", Carbs: "200g", Fat: "60g"},
			MealSuggestions: meals,
			GeneralTips:     []string{"Prep meals ahead."},
		},
	}
}

func sampleGroceryList() *models.GroceryList {
	return &models.GroceryList{GroceryList: []models.GroceryCategory{
		{Category: "Proteins", Items: []models.GroceryItem{{Name: "Chicken Breast", Quantity: "1kg"}}},
		{Category: "Grains", Items: []models.GroceryItem{{Name: "Oats", Quantity: "500g"}}},
	}}
}
