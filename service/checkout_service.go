package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fitplanner-backend/logger"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"
)

var (
	ErrPriceNotConfigured         = errors.New("Stripe Price ID is not configured")
	ErrWebhookSecretNotConfigured = errors.New("missing webhook secret configuration")
	ErrInvalidWebhookSignature    = errors.New("webhook signature verification failed")
)

// CheckoutSessionCreator creates a Stripe Checkout session
type CheckoutSessionCreator func(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)

// CheckoutService relays subscription checkouts and webhooks to Stripe
type CheckoutService struct {
	priceID       string
	webhookSecret string
	clientBaseURL string
	createSession CheckoutSessionCreator
}

// CheckoutServiceOption is a functional option for CheckoutService
type CheckoutServiceOption func(*CheckoutService)

// CheckoutWithSecretKey sets the Stripe API key
func CheckoutWithSecretKey(key string) CheckoutServiceOption {
	return func(s *CheckoutService) {
		if key != "" {
			stripe.Key = key
		}
	}
}

// CheckoutWithPriceID sets the subscription price
func CheckoutWithPriceID(priceID string) CheckoutServiceOption {
	return func(s *CheckoutService) {
		s.priceID = priceID
	}
}

// CheckoutWithWebhookSecret sets the webhook signing secret
func CheckoutWithWebhookSecret(secret string) CheckoutServiceOption {
	return func(s *CheckoutService) {
		s.webhookSecret = secret
	}
}

// CheckoutWithClientBaseURL sets the frontend URL used for redirects
func CheckoutWithClientBaseURL(url string) CheckoutServiceOption {
	return func(s *CheckoutService) {
		s.clientBaseURL = strings.TrimRight(url, "/")
	}
}

// CheckoutWithSessionCreator replaces the Stripe API call
func CheckoutWithSessionCreator(create CheckoutSessionCreator) CheckoutServiceOption {
	return func(s *CheckoutService) {
		s.createSession = create
	}
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(opts ...CheckoutServiceOption) *CheckoutService {
	s := &CheckoutService{
		clientBaseURL: "http://localhost:5173",
		createSession: session.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateCheckoutSession starts a subscription checkout and returns the
// hosted page URL
func (s *CheckoutService) CreateCheckoutSession(ctx context.Context) (string, error) {
	if s.priceID == "" {
		return "", ErrPriceNotConfigured
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(s.priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(s.clientBaseURL + "/payment-success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(s.clientBaseURL + "/payment-cancelled"),
	}
	params.Context = ctx

	sess, err := s.createSession(params)
	if err != nil {
		logger.Error("error creating Stripe Checkout session", "error", err)
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}
	return sess.URL, nil
}

// HandleWebhook verifies and logs a Stripe event
func (s *CheckoutService) HandleWebhook(payload []byte, signature string) (*stripe.Event, error) {
	if s.webhookSecret == "" {
		logger.Error("Stripe webhook secret is not configured")
		return nil, ErrWebhookSecretNotConfigured
	}

	event, err := webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		logger.Warn("webhook signature verification failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidWebhookSignature, err)
	}

	objectID := ""
	if event.Data != nil {
		if id, ok := event.Data.Object["id"].(string); ok {
			objectID = id
		}
	}

	switch event.Type {
	case "checkout.session.completed":
		logger.Info("checkout session completed", "session_id", objectID)
	case "invoice.payment_succeeded":
		logger.Info("invoice payment succeeded", "invoice_id", objectID)
	case "invoice.payment_failed":
		logger.Warn("invoice payment failed", "invoice_id", objectID)
	default:
		logger.Info("unhandled Stripe event", "type", string(event.Type))
	}
	return &event, nil
}
