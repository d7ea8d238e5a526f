package services

import (
	"context"
	"sync"
	"time"

	"github.com/DanielPopoola/ficmart-order-service/internal/application"
	"github.com/DanielPopoola/ficmart-order-service/internal/domain"
)

// MockOrderRepository is an in-memory OrderRepository with the same version
// semantics as the Postgres implementation. Individual methods can be
// overridden per test through the Fn fields.
type MockOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order

	SaveFn                     func(ctx context.Context, order *domain.Order) error
	UpdateFn                   func(ctx context.Context, order *domain.Order) error
	FindByOrderNumberFn        func(ctx context.Context, orderNumber string) (*domain.Order, error)
	FindAllFn                  func(ctx context.Context) ([]*domain.Order, error)
	FindPaymentPendingBeforeFn func(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Order, error)
}

func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{orders: make(map[string]*domain.Order)}
}

func (m *MockOrderRepository) Save(ctx context.Context, order *domain.Order) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, order)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[order.OrderNumber]; ok {
		return domain.NewVersionConflictError(order.OrderNumber)
	}
	order.Version = 1
	m.orders[order.OrderNumber] = cloneOrder(order)
	return nil
}

func (m *MockOrderRepository) Update(ctx context.Context, order *domain.Order) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, order)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.orders[order.OrderNumber]
	if !ok {
		return domain.NewOrderNotFoundError(order.OrderNumber)
	}
	if stored.Version != order.Version {
		return domain.NewVersionConflictError(order.OrderNumber)
	}
	order.Version++
	m.orders[order.OrderNumber] = cloneOrder(order)
	return nil
}

func (m *MockOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	if m.FindByOrderNumberFn != nil {
		return m.FindByOrderNumberFn(ctx, orderNumber)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	order, ok := m.orders[orderNumber]
	if !ok {
		return nil, domain.NewOrderNotFoundError(orderNumber)
	}
	return cloneOrder(order), nil
}

func (m *MockOrderRepository) FindAll(ctx context.Context) ([]*domain.Order, error) {
	if m.FindAllFn != nil {
		return m.FindAllFn(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Order, 0, len(m.orders))
	for _, order := range m.orders {
		result = append(result, cloneOrder(order))
	}
	return result, nil
}

func (m *MockOrderRepository) FindPaymentPendingBefore(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Order, error) {
	if m.FindPaymentPendingBeforeFn != nil {
		return m.FindPaymentPendingBeforeFn(ctx, cutoff, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Order
	for _, order := range m.orders {
		if order.Status == domain.StatusPaymentPending && order.StatusChangedAt.Before(cutoff) {
			result = append(result, cloneOrder(order))
			if len(result) == limit {
				break
			}
		}
	}
	return result, nil
}

func cloneOrder(order *domain.Order) *domain.Order {
	clone := *order
	clone.Items = append([]domain.OrderItem(nil), order.Items...)
	return &clone
}

// MockPaymentClient records submissions; Delay simulates a slow provider.
type MockPaymentClient struct {
	mu          sync.Mutex
	submissions []application.PaymentSubmission
	Delay       time.Duration

	SubmitPaymentFn func(ctx context.Context, req application.PaymentSubmission) error
}

func (m *MockPaymentClient) SubmitPayment(ctx context.Context, req application.PaymentSubmission) error {
	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	m.mu.Lock()
	m.submissions = append(m.submissions, req)
	m.mu.Unlock()
	if m.SubmitPaymentFn != nil {
		return m.SubmitPaymentFn(ctx, req)
	}
	return nil
}

func (m *MockPaymentClient) Submissions() []application.PaymentSubmission {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]application.PaymentSubmission(nil), m.submissions...)
}

// MockEventPublisher collects published events per topic.
type MockEventPublisher struct {
	mu     sync.Mutex
	events map[string][]any

	PublishFn func(ctx context.Context, topic string, event any) error
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{events: make(map[string][]any)}
}

func (m *MockEventPublisher) Publish(ctx context.Context, topic string, event any) error {
	if m.PublishFn != nil {
		return m.PublishFn(ctx, topic, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[topic] = append(m.events[topic], event)
	return nil
}

func (m *MockEventPublisher) Events(topic string) []any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]any(nil), m.events[topic]...)
}
