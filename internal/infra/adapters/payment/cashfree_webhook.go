package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"time"
)

// Cashfree webhook event types.
const (
	WebhookPaymentSuccess     = "PAYMENT_SUCCESS_WEBHOOK"
	WebhookPaymentFailed      = "PAYMENT_FAILED_WEBHOOK"
	WebhookPaymentUserDropped = "PAYMENT_USER_DROPPED_WEBHOOK"
)

// VerifyWebhookSignature checks the x-webhook-signature header:
// base64(HMAC-SHA256(rawBody, secret)).
func VerifyWebhookSignature(secret string, rawBody []byte, signature string) bool {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(rawBody)
	expected := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// WebhookEvent is the provider's push payload, reduced to the fields the
// reconciliation path consumes.
type WebhookEvent struct {
	Type string `json:"type"`
	Data struct {
		Order struct {
			OrderID string `json:"order_id"`
		} `json:"order"`
		Payment struct {
			CfPaymentID    json.Number `json:"cf_payment_id"`
			PaymentStatus  string      `json:"payment_status"`
			PaymentAmount  float64     `json:"payment_amount"`
			PaymentMessage string      `json:"payment_message"`
			PaymentTime    string      `json:"payment_time"`
		} `json:"payment"`
	} `json:"data"`
	EventTime time.Time `json:"event_time"`
}

func ParseWebhookEvent(rawBody []byte) (*WebhookEvent, error) {
	var ev WebhookEvent
	if err := json.Unmarshal(rawBody, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
