// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"alumni-portal/internal/config"
	"alumni-portal/internal/domain/model"
	payAdapters "alumni-portal/internal/infra/adapters/payment"
	pg "alumni-portal/internal/infra/db/postgres"
	"alumni-portal/internal/infra/logging"
	"alumni-portal/internal/infra/metrics"
	red "alumni-portal/internal/infra/redis"
	"alumni-portal/internal/infra/sched"
	"alumni-portal/internal/infra/web"
	"alumni-portal/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis (optional; lock degrades to noop without it) ----
	var locker red.Locker = red.NoopLocker{}
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis")
		}
		defer redisClient.Close()
		locker = red.NewLocker(redisClient)
	} else {
		logger.Warn().Msg("redis.url not set; order reconciliation lock disabled")
	}

	// ---- Repositories ----
	orderRepo := pg.NewOrderRepo(pool)
	userRepo := pg.NewUserRepo(pool)
	recordRepo := pg.NewMembershipRecordRepo(pool)
	tm := pg.NewTxManager(pool)

	// ---- Gateway ----
	cf := cfg.Payment.Cashfree
	gateway, err := payAdapters.NewCashfreeGateway(cf.AppID, cf.SecretKey, cf.Sandbox)
	if err != nil {
		logger.Fatal().Err(err).Msg("cashfree gateway")
	}

	// ---- Use cases ----
	catalog := model.DefaultCatalog()
	authUC := usecase.NewAuthUseCase(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	planUC := usecase.NewPlanUseCase(catalog)
	orderUC := usecase.NewOrderUseCase(orderRepo, userRepo, catalog, gateway, cf.ReturnURL, cf.NotifyURL, logger)
	reconcileUC := usecase.NewReconcileUseCase(orderRepo, userRepo, recordRepo, catalog, gateway, tm, locker, cfg.Redis.LockTTL, logger)
	memberUC := usecase.NewMembershipUseCase(userRepo, recordRepo)

	// ---- HTTP server ----
	srv := web.NewServer(authUC, planUC, orderUC, reconcileUC, memberUC, cf.WebhookSecret, logger)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      srv.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server")
		}
	}()

	// ---- Background reconciler ----
	worker := sched.NewOrderReconciler(reconcileUC, orderRepo, cfg.Reconciler.Interval, cfg.Reconciler.StaleAfter, logger)
	go worker.Start(ctx)

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}
