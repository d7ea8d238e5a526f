package application

import (
	"context"
	"time"

	"github.com/DanielPopoola/ficmart-order-service/internal/domain"
	"github.com/shopspring/decimal"
)

// OrderRepository is the port for persistence. Save and Update carry the
// aggregate's version and fail with a conflict when the stored row moved on
// since the read.
type OrderRepository interface {
	Save(ctx context.Context, order *domain.Order) error
	Update(ctx context.Context, order *domain.Order) error
	FindByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error)
	FindAll(ctx context.Context) ([]*domain.Order, error)
	FindPaymentPendingBefore(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Order, error)
}

// PaymentSubmission carries what the external payment provider needs to
// start processing a payment for an order.
type PaymentSubmission struct {
	OrderNumber   string          `json:"orderNumber"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"paymentMethod"`
}

// PaymentClient is the port for the external payment provider. SubmitPayment
// is fire-and-forget from the coordinator's viewpoint: the payment outcome
// arrives later through a provider callback, never through the request that
// triggered the submission.
type PaymentClient interface {
	SubmitPayment(ctx context.Context, req PaymentSubmission) error
}

// EventPublisher is the port for the downstream event stream, at-least-once.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event any) error
}
