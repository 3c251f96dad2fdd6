package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"alumni-portal/internal/domain"
	"alumni-portal/internal/domain/model"
)

// createOrderRequest is the typed boundary for order creation. The request is
// parsed and validated before any business logic runs; amount, when present,
// is checked against the catalog and otherwise ignored.
type createOrderRequest struct {
	PlanID        string `json:"planId"`
	UserID        string `json:"userId"`
	CustomerEmail string `json:"customerEmail"`
	CustomerPhone string `json:"customerPhone"`
	AmountPaise   *int64 `json:"amountPaise,omitempty"`
}

type createOrderResponse struct {
	OrderID          string `json:"orderId"`
	PaymentSessionID string `json:"paymentSessionId"`
	AmountPaise      int64  `json:"amountPaise"`
	Currency         string `json:"currency"`
	Status           string `json:"status"`
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrInvalidArgument, "")
		return
	}
	if req.UserID == "" {
		req.UserID = authUserID(r.Context())
	}
	if req.UserID != authUserID(r.Context()) {
		writeError(w, domain.ErrInvalidCredentials, "")
		return
	}

	order, err := s.orderUC.Initiate(r.Context(), req.UserID, req.PlanID, req.CustomerEmail, req.CustomerPhone, req.AmountPaise)
	if err != nil {
		orderID := ""
		if order != nil {
			orderID = order.ID
		}
		writeError(w, err, orderID)
		return
	}
	writeJSON(w, http.StatusOK, createOrderResponse{
		OrderID:          order.ID,
		PaymentSessionID: order.PaymentSessionID,
		AmountPaise:      order.AmountPaise,
		Currency:         order.Currency,
		Status:           string(order.Status),
	})
}

type verifyRequest struct {
	OrderID string `json:"orderId"`
	UserID  string `json:"userId,omitempty"`
}

type membershipPayload struct {
	Status      string    `json:"status"`
	PlanID      string    `json:"planId"`
	PlanName    string    `json:"planName"`
	StartDate   time.Time `json:"startDate"`
	ExpiryDate  time.Time `json:"expiryDate"`
	AmountPaise int64     `json:"amountPaise"`
	PaymentID   string    `json:"paymentId"`
	OrderID     string    `json:"orderId"`
	ActiveNow   bool      `json:"activeNow"`
}

type verifyResponse struct {
	Success    bool               `json:"success"`
	OrderID    string             `json:"orderId"`
	Status     string             `json:"status"`
	Membership *membershipPayload `json:"membership,omitempty"`
}

func (s *Server) handleVerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrInvalidArgument, "")
		return
	}
	if req.OrderID == "" {
		writeError(w, domain.ErrInvalidArgument, "")
		return
	}

	res, err := s.reconcileUC.Reconcile(r.Context(), req.OrderID)
	if err != nil {
		writeError(w, err, req.OrderID)
		return
	}

	resp := verifyResponse{
		Success: res.Order.Status == model.OrderStatusCompleted,
		OrderID: res.Order.ID,
		Status:  string(res.Order.Status),
	}
	if res.Membership != nil {
		resp.Membership = toMembershipPayload(res.Membership)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	type planPayload struct {
		ID          string   `json:"id"`
		Name        string   `json:"name"`
		PricePaise  int64    `json:"pricePaise"`
		Duration    string   `json:"durationType"`
		Features    []string `json:"features"`
		Description string   `json:"description"`
		Popular     bool     `json:"popular"`
	}
	plans := s.planUC.List(r.Context())
	out := make([]planPayload, 0, len(plans))
	for _, p := range plans {
		out = append(out, planPayload{
			ID:          p.ID,
			Name:        p.Name,
			PricePaise:  p.PricePaise,
			Duration:    string(p.Duration),
			Features:    p.Features,
			Description: p.Description,
			Popular:     p.Popular,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetMembership(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID != authUserID(r.Context()) {
		writeError(w, domain.ErrInvalidCredentials, "")
		return
	}
	m, active, err := s.memberUC.Get(r.Context(), userID)
	if err != nil {
		writeError(w, err, "")
		return
	}
	if m == nil {
		writeJSON(w, http.StatusOK, map[string]any{"status": "none"})
		return
	}
	p := toMembershipPayload(m)
	p.ActiveNow = active
	writeJSON(w, http.StatusOK, p)
}

func toMembershipPayload(m *model.Membership) *membershipPayload {
	return &membershipPayload{
		Status:      string(m.Status),
		PlanID:      m.PlanID,
		PlanName:    m.PlanName,
		StartDate:   m.StartDate,
		ExpiryDate:  m.ExpiryDate,
		AmountPaise: m.AmountPaise,
		PaymentID:   m.PaymentID,
		OrderID:     m.OrderID,
		ActiveNow:   m.ActiveAt(time.Now()),
	}
}
