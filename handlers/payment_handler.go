package handlers

import (
	"errors"
	"io"
	"net/http"

	"fitplanner-backend/service"

	"github.com/gin-gonic/gin"
)

const maxWebhookBodyBytes = 64 * 1024

// PaymentHandler relays checkout requests and Stripe webhooks
type PaymentHandler struct {
	checkout *service.CheckoutService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(checkout *service.CheckoutService) *PaymentHandler {
	return &PaymentHandler{checkout: checkout}
}

// CreateCheckoutSession handles POST /api/create-checkout-session
func (h *PaymentHandler) CreateCheckoutSession(c *gin.Context) {
	url, err := h.checkout.CreateCheckoutSession(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrPriceNotConfigured) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Stripe Price ID is not configured in .env file."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// Webhook handles POST /api/webhook. The body is read raw for signature
// verification.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		c.String(http.StatusBadRequest, "Webhook Error: failed to read body")
		return
	}

	if _, err := h.checkout.HandleWebhook(payload, c.GetHeader("Stripe-Signature")); err != nil {
		if errors.Is(err, service.ErrWebhookSecretNotConfigured) {
			c.String(http.StatusBadRequest, "Webhook Error: Missing webhook secret configuration.")
			return
		}
		c.String(http.StatusBadRequest, "Webhook Error: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
