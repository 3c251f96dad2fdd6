// File: internal/usecase/reconcile_uc.go
package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"alumni-portal/internal/domain"
	"alumni-portal/internal/domain/model"
	"alumni-portal/internal/domain/ports/adapter"
	"alumni-portal/internal/domain/ports/repository"
	"alumni-portal/internal/infra/logging"
	"alumni-portal/internal/infra/metrics"
	"alumni-portal/internal/infra/redis"
)

// amountTolerancePaise absorbs the provider reporting decimal rupees; any
// larger difference is a real mismatch.
const amountTolerancePaise = 1

// Compile-time check
var _ ReconcileUseCase = (*reconcileUC)(nil)

// ReconcileResult is what both the verify endpoint and the webhook handler get
// back from the single reconciliation path.
type ReconcileResult struct {
	Order            *model.Order
	Membership       *model.Membership
	Activated        bool // membership written during this call
	AlreadyCompleted bool // terminal-success short-circuit
}

type ReconcileUseCase interface {
	// Reconcile re-derives the authoritative payment status from the gateway
	// and applies at most one state transition. Idempotent: a completed order
	// returns its cached outcome without touching the store or the gateway.
	Reconcile(ctx context.Context, orderID string) (*ReconcileResult, error)

	// MarkFailed applies a gateway-reported failure or user-drop. A no-op when
	// the order already left the pending state.
	MarkFailed(ctx context.Context, orderID string, status model.OrderStatus, paymentID, reason string) error
}

type reconcileUC struct {
	orders  repository.OrderRepository
	users   repository.UserRepository
	records repository.MembershipRecordRepository
	catalog *model.PlanCatalog
	gateway adapter.PaymentGateway
	tm      repository.TransactionManager
	locker  redis.Locker
	lockTTL time.Duration
	log     *zerolog.Logger
}

func NewReconcileUseCase(
	orders repository.OrderRepository,
	users repository.UserRepository,
	records repository.MembershipRecordRepository,
	catalog *model.PlanCatalog,
	gateway adapter.PaymentGateway,
	tm repository.TransactionManager,
	locker redis.Locker,
	lockTTL time.Duration,
	logger *zerolog.Logger,
) *reconcileUC {
	if locker == nil {
		locker = redis.NoopLocker{}
	}
	if lockTTL <= 0 {
		lockTTL = 30 * time.Second
	}
	return &reconcileUC{
		orders:  orders,
		users:   users,
		records: records,
		catalog: catalog,
		gateway: gateway,
		tm:      tm,
		locker:  locker,
		lockTTL: lockTTL,
		log:     logger,
	}
}

func (u *reconcileUC) Reconcile(ctx context.Context, orderID string) (*ReconcileResult, error) {
	if orderID == "" {
		return nil, domain.ErrInvalidArgument
	}
	ctx = logging.WithOrderID(ctx, orderID)
	l := logging.With(ctx, u.log)

	// Serialize redirect-callback vs webhook per order. Best effort only; the
	// compare-and-set below is what actually prevents double activation.
	if token, err := u.locker.TryLock(ctx, "reconcile:"+orderID, u.lockTTL); err == nil {
		defer func() { _ = u.locker.Unlock(ctx, "reconcile:"+orderID, token) }()
	} else {
		l.Warn().Err(err).Msg("reconcile lock unavailable; relying on store CAS")
	}

	order, err := u.orders.FindByID(ctx, nil, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status == model.OrderStatusCompleted {
		res := &ReconcileResult{Order: order, AlreadyCompleted: true}
		if user, err := u.users.FindByID(ctx, nil, order.UserID); err == nil {
			res.Membership = user.Membership
		}
		return res, nil
	}
	if order.Status.IsTerminal() {
		// failed / user_dropped stay failed; completed can never be demoted
		// and a failed order is never resurrected by a late verify call.
		return &ReconcileResult{Order: order}, nil
	}

	attempts, err := u.gateway.FetchPayments(ctx, order.ID)
	if err != nil {
		l.Error().Err(err).Msg("fetch payments from gateway")
		return nil, err
	}

	attempt, ok := selectAttempt(attempts)
	if !ok {
		// nothing recorded yet at the provider; order stays pending
		return &ReconcileResult{Order: order}, nil
	}

	switch attempt.Status {
	case adapter.AttemptStatusSuccess:
		// fallthrough to amount check + activation below
	case adapter.AttemptStatusFailed:
		if err := u.MarkFailed(ctx, order.ID, model.OrderStatusFailed, attempt.PaymentID, attempt.Message); err != nil {
			return nil, err
		}
		order.Status = model.OrderStatusFailed
		return &ReconcileResult{Order: order}, nil
	case adapter.AttemptStatusUserDropped:
		if err := u.MarkFailed(ctx, order.ID, model.OrderStatusUserDropped, attempt.PaymentID, "user abandoned checkout"); err != nil {
			return nil, err
		}
		order.Status = model.OrderStatusUserDropped
		return &ReconcileResult{Order: order}, nil
	default:
		// PENDING or provider-specific in-flight states: no transition
		return &ReconcileResult{Order: order}, nil
	}

	diff := attempt.AmountPaise - order.AmountPaise
	if diff < -amountTolerancePaise || diff > amountTolerancePaise {
		l.Error().
			Int64("order_amount_paise", order.AmountPaise).
			Int64("paid_amount_paise", attempt.AmountPaise).
			Msg("paid amount does not match order")
		if err := u.MarkFailed(ctx, order.ID, model.OrderStatusFailed, attempt.PaymentID, "amount mismatch"); err != nil {
			return nil, err
		}
		return nil, domain.ErrAmountMismatch
	}

	return u.activate(ctx, order, attempt)
}

// activate performs the three success writes as one transaction: order CAS to
// completed, membership overwrite on the user, and the audit record insert.
func (u *reconcileUC) activate(ctx context.Context, order *model.Order, attempt adapter.PaymentAttempt) (*ReconcileResult, error) {
	l := logging.With(ctx, u.log)
	plan, ok := u.catalog.Find(order.PlanID)
	if !ok {
		return nil, domain.ErrUnknownPlan
	}

	now := time.Now()
	membership := &model.Membership{
		Status:      model.MembershipStatusActive,
		PlanID:      plan.ID,
		PlanName:    plan.Name,
		StartDate:   now,
		ExpiryDate:  plan.ExpiryFrom(now),
		AmountPaise: order.AmountPaise,
		PaymentID:   attempt.PaymentID,
		OrderID:     order.ID,
	}

	var lostRace bool
	txErr := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		won, err := u.orders.UpdateStatusIfPending(ctx, tx, order.ID, model.OrderStatusCompleted, attempt.PaymentID, "")
		if err != nil {
			return err
		}
		if !won {
			lostRace = true
			return nil
		}
		if err := u.users.SetMembership(ctx, tx, order.UserID, membership); err != nil {
			return err
		}
		return u.records.Insert(ctx, tx, model.NewMembershipRecord(order.UserID, membership, now))
	})
	if txErr != nil {
		// The gateway said success but activation did not commit. Flag the
		// order so the reconciler retries and support can find it.
		l.Error().Err(txErr).Msg("activation transaction failed")
		if _, merr := u.orders.UpdateStatusIfPending(ctx, nil, order.ID, model.OrderStatusMembershipError, attempt.PaymentID, "activation write failed"); merr != nil {
			l.Error().Err(merr).Msg("flag order membership_error")
		}
		metrics.IncOrder(string(model.OrderStatusMembershipError))
		return nil, errors.Join(domain.ErrActivationIncomplete, txErr)
	}

	if lostRace {
		// The concurrent caller completed the order; report its outcome.
		fresh, err := u.orders.FindByID(ctx, nil, order.ID)
		if err != nil {
			return nil, err
		}
		res := &ReconcileResult{Order: fresh, AlreadyCompleted: fresh.Status == model.OrderStatusCompleted}
		if user, err := u.users.FindByID(ctx, nil, order.UserID); err == nil {
			res.Membership = user.Membership
		}
		return res, nil
	}

	order.Status = model.OrderStatusCompleted
	order.PaymentID = attempt.PaymentID
	metrics.IncOrder(string(model.OrderStatusCompleted))
	metrics.AddOrderRevenue(plan.ID, order.AmountPaise)
	metrics.IncActivation(plan.ID)
	l.Info().Str("payment_id", attempt.PaymentID).Str("plan_id", plan.ID).Msg("membership activated")

	return &ReconcileResult{Order: order, Membership: membership, Activated: true}, nil
}

func (u *reconcileUC) MarkFailed(ctx context.Context, orderID string, status model.OrderStatus, paymentID, reason string) error {
	if status != model.OrderStatusFailed && status != model.OrderStatusUserDropped {
		return domain.ErrInvalidArgument
	}
	won, err := u.orders.UpdateStatusIfPending(ctx, nil, orderID, status, paymentID, reason)
	if err != nil {
		return err
	}
	if won {
		metrics.IncOrder(string(status))
	}
	return nil
}

// selectAttempt picks the attempt to reconcile against when the gateway
// reports several for one order: the newest SUCCESS if any exists, otherwise
// the newest attempt overall. Sorting is explicit; provider ordering is not
// trusted.
func selectAttempt(attempts []adapter.PaymentAttempt) (adapter.PaymentAttempt, bool) {
	if len(attempts) == 0 {
		return adapter.PaymentAttempt{}, false
	}
	sorted := make([]adapter.PaymentAttempt, len(attempts))
	copy(sorted, attempts)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].PaymentTime.After(sorted[j].PaymentTime)
	})
	for _, a := range sorted {
		if a.Status == adapter.AttemptStatusSuccess {
			return a, true
		}
	}
	return sorted[0], true
}
