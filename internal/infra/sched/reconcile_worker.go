package sched

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"alumni-portal/internal/domain"
	"alumni-portal/internal/domain/ports/repository"
	"alumni-portal/internal/usecase"
)

// OrderReconciler periodically scans for stale pending and membership_error
// orders and re-runs reconciliation. This covers redirect callbacks that never
// arrived, webhooks lost in transit, and activation transactions that failed
// after the gateway confirmed payment.
type OrderReconciler struct {
	uc         usecase.ReconcileUseCase
	orders     repository.OrderRepository
	interval   time.Duration // how often to scan
	staleAfter time.Duration // how old an unresolved order must be to retry
	log        *zerolog.Logger
}

func NewOrderReconciler(uc usecase.ReconcileUseCase, orders repository.OrderRepository, interval, staleAfter time.Duration, logger *zerolog.Logger) *OrderReconciler {
	if interval <= 0 {
		interval = time.Minute
	}
	if staleAfter <= 0 {
		staleAfter = 10 * time.Minute
	}
	return &OrderReconciler{uc: uc, orders: orders, interval: interval, staleAfter: staleAfter, log: logger}
}

func (w *OrderReconciler) Start(ctx context.Context) {
	t := time.NewTicker(w.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			w.tick(ctx)
		}
	}
}

func (w *OrderReconciler) tick(ctx context.Context) {
	cutoff := time.Now().Add(-w.staleAfter)
	stale, err := w.orders.ListUnresolvedOlderThan(ctx, nil, cutoff, 200)
	if err != nil {
		w.log.Error().Err(err).Msg("order-reconciler: list unresolved")
		return
	}
	for _, o := range stale {
		if _, err := w.uc.Reconcile(ctx, o.ID); err != nil {
			if errors.Is(err, domain.ErrActivationIncomplete) {
				w.log.Error().Err(err).Str("order_id", o.ID).Msg("order-reconciler: activation still incomplete")
			} else {
				w.log.Warn().Err(err).Str("order_id", o.ID).Msg("order-reconciler: reconcile failed")
			}
			continue
		}
		w.log.Info().Str("order_id", o.ID).Msg("order-reconciler: reconciled")
	}
}
