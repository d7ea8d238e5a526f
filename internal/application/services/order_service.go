// Package services hosts the order lifecycle coordinator.
package services

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/DanielPopoola/ficmart-order-service/internal/application"
	"github.com/DanielPopoola/ficmart-order-service/internal/domain"
	"github.com/DanielPopoola/ficmart-order-service/internal/metrics"
	"github.com/shopspring/decimal"
)

// OrderService owns order state: it enforces status transitions, computes
// totals at creation, and drives the asynchronous handoff to the payment
// provider. Collaborators are injected at construction; none are looked up
// ambiently.
type OrderService struct {
	orders        application.OrderRepository
	paymentClient application.PaymentClient
	publisher     application.EventPublisher
	logger        *slog.Logger

	locks         *keyLocks
	submitTimeout time.Duration

	// inflight tracks detached payment submissions so tests and shutdown
	// can wait for them to settle.
	inflight sync.WaitGroup
}

func NewOrderService(
	orders application.OrderRepository,
	paymentClient application.PaymentClient,
	publisher application.EventPublisher,
	submitTimeout time.Duration,
	logger *slog.Logger,
) *OrderService {
	return &OrderService{
		orders:        orders,
		paymentClient: paymentClient,
		publisher:     publisher,
		logger:        logger,
		locks:         newKeyLocks(),
		submitTimeout: submitTimeout,
	}
}

// LineInput is one requested order line as it arrives from the caller.
type LineInput struct {
	ProductID   string
	ProductName string
	Quantity    int
	Price       decimal.Decimal
}

// CreateOrder validates the item list, builds a CREATED order with its total,
// persists it and emits the creation event. The event is emitted only after
// a successful save; a publish failure is reported but does not undo the
// creation.
func (s *OrderService) CreateOrder(ctx context.Context, customerName, customerEmail string, lines []LineInput) (application.OrderView, error) {
	items := make([]domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, domain.OrderItem{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			Price:       line.Price,
		})
	}

	order, err := domain.NewOrder(customerName, customerEmail, items)
	if err != nil {
		return application.OrderView{}, err
	}

	if err := s.orders.Save(ctx, order); err != nil {
		return application.OrderView{}, err
	}

	event := application.OrderCreatedEvent{
		OrderNumber:   order.OrderNumber,
		CustomerEmail: order.CustomerEmail,
		TotalAmount:   order.TotalAmount,
		CreatedAt:     order.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, application.OrderCreatedTopic, event); err != nil {
		metrics.EventPublishFailures.Inc()
		s.logger.Error("failed to publish order created event",
			"order_number", order.OrderNumber,
			"error", err)
	} else {
		metrics.EventsPublished.Inc()
	}

	s.logger.Info("order created",
		"order_number", order.OrderNumber,
		"total_amount", order.TotalAmount,
		"items", len(order.Items))

	return application.ToOrderView(order), nil
}

// GetOrder looks up a single order by its external number.
func (s *OrderService) GetOrder(ctx context.Context, orderNumber string) (application.OrderView, error) {
	order, err := s.loadOrder(ctx, orderNumber)
	if err != nil {
		return application.OrderView{}, err
	}
	return application.ToOrderView(order), nil
}

// ListOrders returns all orders.
func (s *OrderService) ListOrders(ctx context.Context) ([]application.OrderView, error) {
	orders, err := s.orders.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]application.OrderView, 0, len(orders))
	for _, order := range orders {
		if err := order.ValidateTotal(); err != nil {
			return nil, domain.NewDependencyError("order store", err)
		}
		views = append(views, application.ToOrderView(order))
	}
	return views, nil
}

// loadOrder fetches an order and re-checks its stored total against the line
// items before it is allowed back into the coordinator. A mismatch means the
// store was tampered with or corrupted, so it surfaces as a store failure
// rather than a caller error.
func (s *OrderService) loadOrder(ctx context.Context, orderNumber string) (*domain.Order, error) {
	order, err := s.orders.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if err := order.ValidateTotal(); err != nil {
		return nil, domain.NewDependencyError("order store", err)
	}
	return order, nil
}

// RequestPayment moves the order to PAYMENT_PENDING and dispatches the
// provider submission on a detached goroutine. The caller gets the pending
// order back before the provider has responded; provider failures never
// surface here — they are logged, metered and reconciled later through
// UpdateStatus.
func (s *OrderService) RequestPayment(ctx context.Context, orderNumber, paymentMethod string) (application.OrderView, error) {
	if strings.TrimSpace(paymentMethod) == "" {
		return application.OrderView{}, domain.NewValidationError("payment method is required")
	}

	order, err := s.transitionLocked(ctx, orderNumber, domain.StatusPaymentPending, "")
	if err != nil {
		return application.OrderView{}, err
	}

	submission := application.PaymentSubmission{
		OrderNumber:   order.OrderNumber,
		Amount:        order.TotalAmount,
		PaymentMethod: paymentMethod,
	}

	// The network call runs outside the per-order critical section and
	// outside the request lifetime, with its own deadline.
	submitCtx := context.WithoutCancel(ctx)
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		s.submitPayment(submitCtx, submission)
	}()

	return application.ToOrderView(order), nil
}

func (s *OrderService) submitPayment(ctx context.Context, submission application.PaymentSubmission) {
	ctx, cancel := context.WithTimeout(ctx, s.submitTimeout)
	defer cancel()

	metrics.PaymentSubmissions.Inc()
	if err := s.paymentClient.SubmitPayment(ctx, submission); err != nil {
		metrics.PaymentSubmitFailures.Inc()
		s.logger.Error("payment submission failed",
			"order_number", submission.OrderNumber,
			"amount", submission.Amount,
			"error", err)
		return
	}

	s.logger.Info("payment submitted",
		"order_number", submission.OrderNumber,
		"amount", submission.Amount)
}

// UpdateStatus applies a validated transition, recording the paymentID when
// one is supplied. This is the entry point for provider callbacks and the
// shipping/completion flow.
func (s *OrderService) UpdateStatus(ctx context.Context, orderNumber string, status domain.OrderStatus, paymentID string) (application.OrderView, error) {
	order, err := s.transitionLocked(ctx, orderNumber, status, paymentID)
	if err != nil {
		return application.OrderView{}, err
	}
	return application.ToOrderView(order), nil
}

// transitionLocked serializes the read-transition-write cycle for one order
// number. Writes additionally carry the version read, so a concurrent writer
// in another process is still rejected at the store.
func (s *OrderService) transitionLocked(ctx context.Context, orderNumber string, target domain.OrderStatus, paymentID string) (*domain.Order, error) {
	unlock := s.locks.Lock(orderNumber)
	defer unlock()

	order, err := s.loadOrder(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	before := order.Status
	if err := order.Transition(target, paymentID); err != nil {
		return nil, err
	}

	// Replayed updates change nothing; skip the write so the version is
	// untouched too.
	if order.Status == before {
		return order, nil
	}

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("order status changed",
		"order_number", order.OrderNumber,
		"from", before,
		"to", order.Status)

	return order, nil
}

// WaitForPayments blocks until all detached payment submissions finished.
// Used by graceful shutdown and tests.
func (s *OrderService) WaitForPayments() {
	s.inflight.Wait()
}
