// Package worker hosts background reconciliation loops.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/DanielPopoola/ficmart-order-service/internal/application"
	"github.com/DanielPopoola/ficmart-order-service/internal/domain"
	"github.com/DanielPopoola/ficmart-order-service/internal/metrics"
)

// StatusUpdater is the slice of the coordinator the worker needs.
type StatusUpdater interface {
	UpdateStatus(ctx context.Context, orderNumber string, status domain.OrderStatus, paymentID string) (application.OrderView, error)
}

// PendingPaymentWorker bounds how long an order may sit in PAYMENT_PENDING.
// When the provider never calls back within the deadline, the order is moved
// to PAYMENT_FAILED through the same validated transition path callbacks use,
// so an order is never parked pending indefinitely.
type PendingPaymentWorker struct {
	orders         application.OrderRepository
	service        StatusUpdater
	interval       time.Duration
	pendingTimeout time.Duration
	batchSize      int
	logger         *slog.Logger
}

func NewPendingPaymentWorker(
	orders application.OrderRepository,
	service StatusUpdater,
	interval time.Duration,
	pendingTimeout time.Duration,
	batchSize int,
	logger *slog.Logger,
) *PendingPaymentWorker {
	return &PendingPaymentWorker{
		orders:         orders,
		service:        service,
		interval:       interval,
		pendingTimeout: pendingTimeout,
		batchSize:      batchSize,
		logger:         logger,
	}
}

func (w *PendingPaymentWorker) Start(ctx context.Context) {
	w.logger.Info("pending payment worker started",
		"interval", w.interval,
		"pending_timeout", w.pendingTimeout)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("pending payment worker stopping")
			return
		case <-ticker.C:
			if err := w.RunOnce(ctx); err != nil {
				w.logger.Error("pending payment sweep failed", "error", err)
			}
		}
	}
}

// RunOnce executes a single reconciliation sweep.
func (w *PendingPaymentWorker) RunOnce(ctx context.Context) error {
	cutoff := time.Now().Add(-w.pendingTimeout)

	stuck, err := w.orders.FindPaymentPendingBefore(ctx, cutoff, w.batchSize)
	if err != nil {
		return err
	}

	if len(stuck) == 0 {
		return nil
	}

	w.logger.Info("failing orders stuck in payment pending", "count", len(stuck))

	for _, order := range stuck {
		_, err := w.service.UpdateStatus(ctx, order.OrderNumber, domain.StatusPaymentFailed, "")
		if err != nil {
			// A racing callback may have completed the payment first;
			// that is the outcome we wanted recorded.
			if domain.IsErrorCode(err, domain.ErrCodeInvalidTransition) || domain.IsErrorCode(err, domain.ErrCodeConflict) {
				w.logger.Info("order resolved before sweep",
					"order_number", order.OrderNumber,
					"error", err)
				continue
			}
			w.logger.Error("failed to fail pending order",
				"order_number", order.OrderNumber,
				"error", err)
			continue
		}

		metrics.PendingPaymentsFailed.Inc()
		w.logger.Warn("order payment timed out",
			"order_number", order.OrderNumber,
			"pending_timeout", w.pendingTimeout)
	}

	return nil
}
