package handler

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"lexpay/internal/service"
)

// SignatureHeader carries the gateway's HMAC over the raw webhook body.
const SignatureHeader = "X-Razorpay-Signature"

// WebhookHandler handles inbound gateway webhooks. The raw body is verified
// before any state change; unverified payloads cause no side effects.
type WebhookHandler struct {
	paymentService service.PaymentService
	verifier       *service.SignatureVerifier
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(paymentService service.PaymentService, verifier *service.SignatureVerifier) *WebhookHandler {
	return &WebhookHandler{paymentService: paymentService, verifier: verifier}
}

// webhookPayload mirrors the gateway's webhook envelope.
type webhookPayload struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID               string `json:"id"`
				OrderID          string `json:"order_id"`
				Method           string `json:"method"`
				ErrorCode        string `json:"error_code"`
				ErrorDescription string `json:"error_description"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// HandleGatewayWebhook godoc
// @Summary Receive payment gateway webhook notifications
// @Tags webhooks
// @Accept json
// @Produce plain
// @Param X-Razorpay-Signature header string true "HMAC signature over the raw body"
// @Success 200 {string} string "Webhook processed"
// @Failure 403 {string} string "Invalid signature"
// @Router /webhooks/gateway [post]
func (h *WebhookHandler) HandleGatewayWebhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.String(http.StatusBadRequest, "unreadable body")
	}

	signature := c.Request().Header.Get(SignatureHeader)
	if !h.verifier.VerifyPayload(body, signature) {
		log.Printf("webhook: signature verification failed")
		return c.String(http.StatusForbidden, "Invalid signature")
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return c.String(http.StatusBadRequest, "malformed payload")
	}

	entity := payload.Payload.Payment.Entity
	log.Printf("webhook: event %s for order %s", payload.Event, entity.OrderID)

	switch payload.Event {
	case "payment.captured":
		// Capture is driven by the checkout callback; the webhook is
		// informational here.
	case "payment.failed":
		errorCode := entity.ErrorCode
		if errorCode == "" {
			errorCode = "UNKNOWN"
		}
		errorDescription := entity.ErrorDescription
		if errorDescription == "" {
			errorDescription = "payment failed"
		}
		if err := h.paymentService.MarkFailed(c.Request().Context(), entity.OrderID, errorCode, errorDescription); err != nil {
			log.Printf("webhook: mark order %s failed: %v", entity.OrderID, err)
			return c.String(http.StatusInternalServerError, "Webhook processing failed")
		}
	default:
		log.Printf("webhook: unhandled event %s", payload.Event)
	}

	return c.String(http.StatusOK, "Webhook processed")
}
