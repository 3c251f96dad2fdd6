package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"alumni-portal/internal/usecase"
)

// Server wires the portal API. The webhook route is registered outside the
// auth group: the gateway authenticates with an HMAC signature, not a token.
type Server struct {
	authUC        usecase.AuthUseCase
	planUC        usecase.PlanUseCase
	orderUC       usecase.OrderUseCase
	reconcileUC   usecase.ReconcileUseCase
	memberUC      usecase.MembershipUseCase
	webhookSecret string
	log           *zerolog.Logger
}

func NewServer(
	authUC usecase.AuthUseCase,
	planUC usecase.PlanUseCase,
	orderUC usecase.OrderUseCase,
	reconcileUC usecase.ReconcileUseCase,
	memberUC usecase.MembershipUseCase,
	webhookSecret string,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		authUC:        authUC,
		planUC:        planUC,
		orderUC:       orderUC,
		reconcileUC:   reconcileUC,
		memberUC:      memberUC,
		webhookSecret: webhookSecret,
		log:           logger,
	}
}

// Router builds the chi router with the shared middleware stack.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(TraceID(s.log))
	r.Use(RequestLog(s.log))
	r.Use(Recover(s.log))
	r.Use(Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/signup", s.handleSignup)
		r.Post("/auth/login", s.handleLogin)
		r.Get("/plans", s.handleListPlans)

		// gateway push; HMAC-authenticated
		r.Post("/webhooks/cashfree", s.handleWebhook)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/orders", s.handleCreateOrder)
			r.Post("/payments/verify", s.handleVerifyPayment)
			r.Get("/users/{id}/membership", s.handleGetMembership)
		})
	})
	return r
}
