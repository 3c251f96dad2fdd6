// File: internal/infra/adapters/payment/cashfree_gateway.go
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"alumni-portal/internal/domain"
	"alumni-portal/internal/domain/ports/adapter"
	"alumni-portal/internal/infra/metrics"
)

var _ adapter.PaymentGateway = (*CashfreeGateway)(nil)

const apiVersion = "2023-08-01"

// CashfreeGateway implements adapter.PaymentGateway against the Cashfree PG
// REST API. Order creation is a POST and is never retried here; the payments
// listing is a GET and carries a small retry budget with doubling backoff.
type CashfreeGateway struct {
	appID      string
	secretKey  string
	sandbox    bool
	client     *http.Client
	getRetries int
	backoff    time.Duration

	// baseOverride points the adapter at a fake server in tests.
	baseOverride string
}

func NewCashfreeGateway(appID, secretKey string, sandbox bool) (*CashfreeGateway, error) {
	if appID == "" || secretKey == "" {
		return nil, errors.New("cashfree credentials empty")
	}
	return &CashfreeGateway{
		appID:      appID,
		secretKey:  secretKey,
		sandbox:    sandbox,
		client:     &http.Client{Timeout: 15 * time.Second},
		getRetries: 3,
		backoff:    500 * time.Millisecond,
	}, nil
}

func (g *CashfreeGateway) Name() string { return "cashfree" }

func (g *CashfreeGateway) baseURL() string {
	if g.baseOverride != "" {
		return g.baseOverride
	}
	if g.sandbox {
		return "https://sandbox.cashfree.com"
	}
	return "https://api.cashfree.com"
}

func (g *CashfreeGateway) authHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-version", apiVersion)
	req.Header.Set("x-client-id", g.appID)
	req.Header.Set("x-client-secret", g.secretKey)
}

type cfCustomer struct {
	CustomerID    string `json:"customer_id"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
}

type cfOrderMeta struct {
	ReturnURL string `json:"return_url,omitempty"`
	NotifyURL string `json:"notify_url,omitempty"`
}

type cfCreateOrderReq struct {
	OrderID         string      `json:"order_id"`
	OrderAmount     float64     `json:"order_amount"`
	OrderCurrency   string      `json:"order_currency"`
	CustomerDetails cfCustomer  `json:"customer_details"`
	OrderMeta       cfOrderMeta `json:"order_meta"`
}

type cfCreateOrderResp struct {
	CfOrderID        json.Number `json:"cf_order_id"`
	OrderID          string      `json:"order_id"`
	PaymentSessionID string      `json:"payment_session_id"`
	OrderStatus      string      `json:"order_status"`
	Message          string      `json:"message"`
}

// CreateOrder registers the order with Cashfree and returns the checkout
// session. Contact defaults mirror what the sandbox accepts when the caller
// has no phone on file.
func (g *CashfreeGateway) CreateOrder(ctx context.Context, p adapter.CreateOrderParams) (adapter.GatewaySession, error) {
	if p.CustomerEmail == "" {
		p.CustomerEmail = "unknown@example.com"
	}
	if p.CustomerPhone == "" {
		p.CustomerPhone = "9999999999"
	}
	body := cfCreateOrderReq{
		OrderID:       p.OrderID,
		OrderAmount:   paiseToINR(p.AmountPaise),
		OrderCurrency: p.Currency,
		CustomerDetails: cfCustomer{
			CustomerID:    p.CustomerID,
			CustomerEmail: p.CustomerEmail,
			CustomerPhone: p.CustomerPhone,
		},
		OrderMeta: cfOrderMeta{ReturnURL: p.ReturnURL, NotifyURL: p.NotifyURL},
	}
	b, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL()+"/pg/orders", bytes.NewReader(b))
	if err != nil {
		return adapter.GatewaySession{}, err
	}
	g.authHeaders(req)

	start := time.Now()
	resp, err := g.client.Do(req)
	metrics.ObserveGatewayCall("create_order", err == nil, time.Since(start))
	if err != nil {
		return adapter.GatewaySession{}, fmt.Errorf("%w: %v", domain.ErrGateway, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return adapter.GatewaySession{}, fmt.Errorf("%w: create order http %d: %s", domain.ErrGateway, resp.StatusCode, msg)
	}

	var out cfCreateOrderResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return adapter.GatewaySession{}, fmt.Errorf("%w: decode create order: %v", domain.ErrGateway, err)
	}
	if out.PaymentSessionID == "" {
		return adapter.GatewaySession{}, fmt.Errorf("%w: create order returned no payment session", domain.ErrGateway)
	}
	return adapter.GatewaySession{
		GatewayOrderID:   out.CfOrderID.String(),
		PaymentSessionID: out.PaymentSessionID,
	}, nil
}

type cfPayment struct {
	CfPaymentID    json.Number `json:"cf_payment_id"`
	PaymentStatus  string      `json:"payment_status"`
	PaymentAmount  float64     `json:"payment_amount"`
	PaymentMessage string      `json:"payment_message"`
	PaymentTime    string      `json:"payment_time"`
	PaymentGroup   string      `json:"payment_group"`
}

// FetchPayments lists every payment attempt against the order. Idempotent
// GET: retried up to the configured budget with doubling backoff.
func (g *CashfreeGateway) FetchPayments(ctx context.Context, orderID string) ([]adapter.PaymentAttempt, error) {
	var lastErr error
	delay := g.backoff
	for i := 0; i <= g.getRetries; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
		attempts, err := g.fetchPaymentsOnce(ctx, orderID)
		if err == nil {
			return attempts, nil
		}
		lastErr = err
		// 4xx responses will not improve on retry
		if errors.Is(err, errNoRetry) {
			break
		}
	}
	return nil, lastErr
}

var errNoRetry = errors.New("permanent gateway response")

func (g *CashfreeGateway) fetchPaymentsOnce(ctx context.Context, orderID string) ([]adapter.PaymentAttempt, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL()+"/pg/orders/"+orderID+"/payments", nil)
	if err != nil {
		return nil, err
	}
	g.authHeaders(req)

	start := time.Now()
	resp, err := g.client.Do(req)
	metrics.ObserveGatewayCall("fetch_payments", err == nil, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGateway, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %w: order %s unknown to gateway", errNoRetry, domain.ErrNotFound, orderID)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("%w: %w: fetch payments http %d: %s", errNoRetry, domain.ErrGateway, resp.StatusCode, msg)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("%w: fetch payments http %d", domain.ErrGateway, resp.StatusCode)
	}

	var raw []cfPayment
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decode payments: %v", domain.ErrGateway, err)
	}

	out := make([]adapter.PaymentAttempt, 0, len(raw))
	for _, p := range raw {
		t, _ := time.Parse(time.RFC3339, p.PaymentTime)
		out = append(out, adapter.PaymentAttempt{
			PaymentID:   p.CfPaymentID.String(),
			Status:      p.PaymentStatus,
			AmountPaise: inrToPaise(p.PaymentAmount),
			Method:      p.PaymentGroup,
			Message:     p.PaymentMessage,
			PaymentTime: t,
		})
	}
	return out, nil
}

func paiseToINR(paise int64) float64 { return float64(paise) / 100 }

// inrToPaise rounds to the nearest paisa; the provider reports decimal rupees.
func inrToPaise(inr float64) int64 { return int64(math.Round(inr * 100)) }
