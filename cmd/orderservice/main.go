package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DanielPopoola/ficmart-order-service/internal/application/services"
	"github.com/DanielPopoola/ficmart-order-service/internal/config"
	"github.com/DanielPopoola/ficmart-order-service/internal/infrastructure/events"
	"github.com/DanielPopoola/ficmart-order-service/internal/infrastructure/payment"
	"github.com/DanielPopoola/ficmart-order-service/internal/infrastructure/persistence"
	"github.com/DanielPopoola/ficmart-order-service/internal/infrastructure/persistence/postgres"
	"github.com/DanielPopoola/ficmart-order-service/internal/interfaces/rest"
	"github.com/DanielPopoola/ficmart-order-service/internal/interfaces/rest/middleware"
	"github.com/DanielPopoola/ficmart-order-service/internal/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting order service",
		"port", cfg.Server.Port,
		"log_level", cfg.Logger.Level,
	)

	ctx := context.Background()
	db, err := persistence.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	orderRepo := postgres.NewOrderRepository(db)

	paymentClient := payment.NewPaymentClient(cfg.PaymentClient)
	retryPaymentClient := payment.NewRetryPaymentClient(paymentClient, cfg.Retry)

	publisher := events.NewKafkaPublisher(cfg.Kafka, logger)
	defer publisher.Close()

	orderService := services.NewOrderService(
		orderRepo,
		retryPaymentClient,
		publisher,
		cfg.PaymentClient.SubmitTimeout,
		logger,
	)

	h := rest.NewHandlers(orderService, logger)
	router := rest.NewRouter(h)

	handler := middleware.Recovery(logger)(router)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Timeout(cfg.Server.ReadTimeout)(handler)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	pendingWorker := worker.NewPendingPaymentWorker(
		orderRepo,
		orderService,
		cfg.Worker.Interval,
		cfg.Worker.PendingTimeout,
		cfg.Worker.BatchSize,
		logger,
	)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	go pendingWorker.Start(workerCtx)

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	cancelWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	orderService.WaitForPayments()

	logger.Info("server exited")
}
