// File: internal/usecase/order_uc.go
package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"alumni-portal/internal/domain"
	"alumni-portal/internal/domain/model"
	"alumni-portal/internal/domain/ports/adapter"
	"alumni-portal/internal/domain/ports/repository"
	"alumni-portal/internal/infra/logging"
	"alumni-portal/internal/infra/metrics"
)

// Compile-time check
var _ OrderUseCase = (*orderUC)(nil)

type OrderUseCase interface {
	// Initiate validates the plan and user, persists an order and obtains a
	// hosted-checkout session from the gateway. clientAmountPaise, when
	// non-nil, is checked against the catalog before any gateway call; the
	// catalog price is what gets charged either way. Once the order row
	// exists, failures return it alongside the error so its id reaches the
	// caller.
	Initiate(ctx context.Context, userID, planID, email, phone string, clientAmountPaise *int64) (*model.Order, error)
	Get(ctx context.Context, orderID string) (*model.Order, error)
}

type orderUC struct {
	orders  repository.OrderRepository
	users   repository.UserRepository
	catalog *model.PlanCatalog
	gateway adapter.PaymentGateway

	returnURL string
	notifyURL string
	log       *zerolog.Logger
}

func NewOrderUseCase(
	orders repository.OrderRepository,
	users repository.UserRepository,
	catalog *model.PlanCatalog,
	gateway adapter.PaymentGateway,
	returnURL, notifyURL string,
	logger *zerolog.Logger,
) *orderUC {
	return &orderUC{
		orders:    orders,
		users:     users,
		catalog:   catalog,
		gateway:   gateway,
		returnURL: returnURL,
		notifyURL: notifyURL,
		log:       logger,
	}
}

func (u *orderUC) Initiate(ctx context.Context, userID, planID, email, phone string, clientAmountPaise *int64) (*model.Order, error) {
	if userID == "" || planID == "" {
		return nil, domain.ErrInvalidArgument
	}
	plan, ok := u.catalog.Find(planID)
	if !ok {
		return nil, domain.ErrUnknownPlan
	}
	// The client-submitted amount is advisory only; it must match the catalog
	// or the request dies here, before the gateway ever sees it.
	if clientAmountPaise != nil && *clientAmountPaise != plan.PricePaise {
		return nil, domain.ErrAmountMismatch
	}

	user, err := u.users.FindByID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if email == "" {
		email = user.Email
	}
	if phone == "" {
		phone = user.Phone
	}

	order, err := model.NewOrder(userID, plan, time.Now())
	if err != nil {
		return nil, err
	}
	ctx = logging.WithOrderID(ctx, order.ID)
	l := logging.With(ctx, u.log)

	if err := u.orders.Save(ctx, nil, order); err != nil {
		l.Error().Err(err).Msg("persist order")
		return nil, err
	}
	metrics.IncOrder(string(model.OrderStatusCreated))

	session, err := u.gateway.CreateOrder(ctx, adapter.CreateOrderParams{
		OrderID:       order.ID,
		AmountPaise:   order.AmountPaise,
		Currency:      order.Currency,
		CustomerID:    userID,
		CustomerEmail: email,
		CustomerPhone: phone,
		ReturnURL:     u.returnURL,
		NotifyURL:     u.notifyURL,
	})
	if err != nil {
		l.Error().Err(err).Msg("gateway order creation rejected")
		if uerr := u.orders.UpdateStatus(ctx, nil, order.ID, model.OrderStatusFailed, "", "gateway rejected order creation"); uerr != nil {
			l.Error().Err(uerr).Msg("mark order failed after gateway rejection")
		}
		metrics.IncOrder(string(model.OrderStatusFailed))
		order.Status = model.OrderStatusFailed
		return order, err
	}

	if err := u.orders.SetGatewaySession(ctx, nil, order.ID, session.GatewayOrderID, session.PaymentSessionID); err != nil {
		l.Error().Err(err).Msg("persist gateway session")
		return order, err
	}
	order.GatewayOrderID = session.GatewayOrderID
	order.PaymentSessionID = session.PaymentSessionID
	order.Status = model.OrderStatusPending
	metrics.IncOrder(string(model.OrderStatusPending))

	l.Info().Str("plan_id", plan.ID).Int64("amount_paise", order.AmountPaise).Msg("order initiated")
	return order, nil
}

func (u *orderUC) Get(ctx context.Context, orderID string) (*model.Order, error) {
	if orderID == "" {
		return nil, domain.ErrInvalidArgument
	}
	return u.orders.FindByID(ctx, nil, orderID)
}
