package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"alumni-portal/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error   string `json:"error"`
	OrderID string `json:"orderId,omitempty"`
}

// writeError maps the domain error taxonomy onto HTTP statuses. orderID, when
// known, is always echoed so support can reconcile from the response alone.
func writeError(w http.ResponseWriter, err error, orderID string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidArgument),
		errors.Is(err, domain.ErrUnknownPlan),
		errors.Is(err, domain.ErrAmountMismatch):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyExists):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrInvalidSignature):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrGateway):
		status = http.StatusBadGateway
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), OrderID: orderID})
}
