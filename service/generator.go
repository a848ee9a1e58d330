package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"fitplanner-backend/logger"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// ErrResponseBlocked means the model refused to answer, typically on safety
// grounds. Repeating the request gives the same result.
var ErrResponseBlocked = errors.New("model response blocked")

// TextGenerator produces raw model text for a prompt
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, temperature float32) (string, error)
	Close() error
}

// GeneratorFactory builds a TextGenerator for an API key
type GeneratorFactory func(ctx context.Context, apiKey string) (TextGenerator, error)

// GeminiGenerator calls a Gemini model and asks for a JSON response
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a client bound to apiKey
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

// GeminiFactory returns a GeneratorFactory for the given model name
func GeminiFactory(model string) GeneratorFactory {
	return func(ctx context.Context, apiKey string) (TextGenerator, error) {
		return NewGeminiGenerator(ctx, apiKey, model)
	}
}

// GenerateText sends prompt and concatenates the text parts of every candidate
func (g *GeminiGenerator) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(temperature)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		var blocked *genai.BlockedError
		if errors.As(err, &blocked) {
			return "", fmt.Errorf("%w: %v", ErrResponseBlocked, blocked)
		}
		return "", err
	}

	var text strings.Builder
	for i, candidate := range resp.Candidates {
		if candidate.Content == nil {
			logger.Warn("candidate has no content", "candidate", i, "finish_reason", candidate.FinishReason.String())
			continue
		}
		for _, part := range candidate.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				text.WriteString(string(t))
			}
		}
	}
	return text.String(), nil
}

// Close releases the underlying client
func (g *GeminiGenerator) Close() error {
	return g.client.Close()
}

// RetryPolicy bounds model calls
type RetryPolicy struct {
	Timeout        time.Duration // per attempt
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultRetryPolicy matches the configuration defaults
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Timeout:        90 * time.Second,
		MaxAttempts:    3,
		InitialBackoff: time.Second,
		MaxBackoff:     8 * time.Second,
	}
}

func (p RetryPolicy) normalized() RetryPolicy {
	def := DefaultRetryPolicy()
	if p.Timeout <= 0 {
		p.Timeout = def.Timeout
	}
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 1
	}
	if p.InitialBackoff <= 0 {
		p.InitialBackoff = def.InitialBackoff
	}
	if p.MaxBackoff < p.InitialBackoff {
		p.MaxBackoff = p.InitialBackoff
	}
	return p
}

// generateWithRetry retries transport failures with capped exponential
// backoff. Client errors and cancellation of ctx are returned at once.
func generateWithRetry(ctx context.Context, gen TextGenerator, policy RetryPolicy, prompt string, temperature float32) (string, error) {
	policy = policy.normalized()

	var lastErr error
	backoff := policy.InitialBackoff
	for attempt := 0; attempt < policy.MaxAttempts; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return "", ctx.Err()
			case <-timer.C:
			}
			backoff *= 2
			if backoff > policy.MaxBackoff {
				backoff = policy.MaxBackoff
			}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, policy.Timeout)
		text, err := gen.GenerateText(attemptCtx, prompt, temperature)
		cancel()
		if err == nil {
			return text, nil
		}
		lastErr = err

		if !isRetryable(ctx, err) {
			return "", err
		}
		logger.Warn("model call failed", "attempt", attempt+1, "max_attempts", policy.MaxAttempts, "error", err)
	}

	return "", fmt.Errorf("model call failed after %d attempts: %w", policy.MaxAttempts, lastErr)
}

func isRetryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return false
	}

	var blocked *genai.BlockedError
	if errors.Is(err, ErrResponseBlocked) || errors.As(err, &blocked) {
		return false
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		// Don't retry on request or credential errors
		switch apiErr.Code {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
			return false
		}
	}
	return true
}
