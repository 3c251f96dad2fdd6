package web

import (
	"errors"
	"io"
	"net/http"

	"alumni-portal/internal/domain"
	"alumni-portal/internal/domain/model"
	cashfree "alumni-portal/internal/infra/adapters/payment"
	"alumni-portal/internal/infra/logging"
	"alumni-portal/internal/infra/metrics"
)

const maxWebhookBody = 1 << 20 // 1 MiB

// handleWebhook receives the gateway's asynchronous pushes. The signature is
// computed over the raw body, so the body is read before any decoding. Success
// events run through the same reconciliation path as the verify endpoint;
// transient store failures return 5xx so the gateway retries, everything else
// is acknowledged with 200 to stop the retry loop.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	l := logging.With(r.Context(), s.log)

	rawBody, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, domain.ErrInvalidArgument, "")
		return
	}

	signature := r.Header.Get("x-webhook-signature")
	if !cashfree.VerifyWebhookSignature(s.webhookSecret, rawBody, signature) {
		l.Warn().Msg("webhook signature mismatch")
		metrics.IncWebhookEvent("unknown", "rejected")
		writeError(w, domain.ErrInvalidSignature, "")
		return
	}

	ev, err := cashfree.ParseWebhookEvent(rawBody)
	if err != nil {
		writeError(w, domain.ErrInvalidArgument, "")
		return
	}
	orderID := ev.Data.Order.OrderID
	ctx := logging.WithOrderID(r.Context(), orderID)
	l = logging.With(ctx, s.log)

	switch ev.Type {
	case cashfree.WebhookPaymentSuccess:
		res, err := s.reconcileUC.Reconcile(ctx, orderID)
		switch {
		case err == nil:
			outcome := "processed"
			if res.AlreadyCompleted {
				outcome = "duplicate"
			}
			metrics.IncWebhookEvent(ev.Type, outcome)
		case errors.Is(err, domain.ErrNotFound):
			// order unknown locally; acknowledge so the gateway stops retrying
			l.Warn().Msg("webhook for unknown order")
			metrics.IncWebhookEvent(ev.Type, "error")
		case errors.Is(err, domain.ErrAmountMismatch):
			// the order is already marked failed; acknowledge so the gateway
			// does not retry a permanent outcome
			l.Warn().Msg("webhook success event with mismatched amount")
			metrics.IncWebhookEvent(ev.Type, "processed")
		default:
			l.Error().Err(err).Msg("webhook reconciliation failed")
			metrics.IncWebhookEvent(ev.Type, "error")
			writeError(w, err, orderID)
			return
		}

	case cashfree.WebhookPaymentFailed:
		if err := s.reconcileUC.MarkFailed(ctx, orderID, model.OrderStatusFailed,
			ev.Data.Payment.CfPaymentID.String(), ev.Data.Payment.PaymentMessage); err != nil {
			l.Error().Err(err).Msg("webhook mark failed")
			metrics.IncWebhookEvent(ev.Type, "error")
			writeError(w, err, orderID)
			return
		}
		metrics.IncWebhookEvent(ev.Type, "processed")

	case cashfree.WebhookPaymentUserDropped:
		if err := s.reconcileUC.MarkFailed(ctx, orderID, model.OrderStatusUserDropped,
			ev.Data.Payment.CfPaymentID.String(), "user abandoned checkout"); err != nil {
			l.Error().Err(err).Msg("webhook mark dropped")
			metrics.IncWebhookEvent(ev.Type, "error")
			writeError(w, err, orderID)
			return
		}
		metrics.IncWebhookEvent(ev.Type, "processed")

	default:
		l.Info().Str("type", ev.Type).Msg("unhandled webhook type")
		metrics.IncWebhookEvent(ev.Type, "ignored")
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
