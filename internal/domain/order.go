// Package domain encodes the order aggregate and its lifecycle rules.
package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the current state of an order in its lifecycle
type OrderStatus string

const (
	StatusCreated          OrderStatus = "CREATED"
	StatusPaymentPending   OrderStatus = "PAYMENT_PENDING"
	StatusPaymentCompleted OrderStatus = "PAYMENT_COMPLETED"
	StatusPaymentFailed    OrderStatus = "PAYMENT_FAILED"
	StatusShipping         OrderStatus = "SHIPPING"
	StatusCompleted        OrderStatus = "COMPLETED"
	StatusCancelled        OrderStatus = "CANCELLED"
)

// ParseStatus converts a raw string into a known OrderStatus.
func ParseStatus(s string) (OrderStatus, error) {
	status := OrderStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch status {
	case StatusCreated, StatusPaymentPending, StatusPaymentCompleted,
		StatusPaymentFailed, StatusShipping, StatusCompleted, StatusCancelled:
		return status, nil
	}
	return "", NewValidationError("unknown order status: " + s)
}

// OrderItem is a value object owned by its order. ProductID and ProductName
// are a snapshot taken at creation, not a live product reference.
type OrderItem struct {
	ProductID   string
	ProductName string
	Quantity    int
	Price       decimal.Decimal
}

// Subtotal is always derived from price and quantity, never stored.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Order struct {
	OrderNumber   string
	CustomerName  string
	CustomerEmail string
	Items         []OrderItem
	TotalAmount   decimal.Decimal
	Status        OrderStatus
	PaymentID     string
	CreatedAt     time.Time

	// StatusChangedAt records when the order entered its current status.
	// Deadlines on a status are measured from here, not from CreatedAt.
	StatusChangedAt time.Time

	// Version is the optimistic concurrency token checked by the store.
	Version int
}

// NewOrder builds a CREATED order from a full item list. The item list is
// validated as a whole, the total is computed once here and the order number
// is assigned; there is no partial construction path.
func NewOrder(customerName, customerEmail string, items []OrderItem) (*Order, error) {
	if strings.TrimSpace(customerName) == "" {
		return nil, NewValidationError("customer name is required")
	}
	if strings.TrimSpace(customerEmail) == "" {
		return nil, NewValidationError("customer email is required")
	}
	if err := ValidateItems(items); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Order{
		OrderNumber:     NewOrderNumber(),
		CustomerName:    customerName,
		CustomerEmail:   customerEmail,
		Items:           slices.Clone(items),
		TotalAmount:     ComputeTotal(items),
		Status:          StatusCreated,
		CreatedAt:       now,
		StatusChangedAt: now,
	}, nil
}

// NewOrderNumber generates a globally unique external order identifier.
func NewOrderNumber() string {
	return "ORD-" + strings.ToUpper(uuid.New().String()[:8])
}

// Transition validates and applies a status change. paymentID is optional;
// when supplied it is recorded exactly once, and a different paymentID on an
// order that already carries one is rejected as a conflict. A replay of an
// already-applied transition with the same paymentID is a no-op so that
// provider callbacks may be delivered more than once.
func (o *Order) Transition(target OrderStatus, paymentID string) error {
	if paymentID != "" && o.PaymentID != "" && o.PaymentID != paymentID {
		return NewPaymentIDConflictError(o.OrderNumber, o.PaymentID, paymentID)
	}

	if o.Status == target {
		if paymentID != "" && o.PaymentID == paymentID {
			return nil
		}
		return NewInvalidTransitionError(o.Status, target)
	}

	if err := o.canTransitionTo(target); err != nil {
		return err
	}

	o.Status = target
	o.StatusChangedAt = time.Now().UTC()
	if paymentID != "" && o.PaymentID == "" {
		o.PaymentID = paymentID
	}
	return nil
}

func (o *Order) canTransitionTo(target OrderStatus) error {
	if o.IsTerminal() {
		return NewInvalidTransitionError(o.Status, target)
	}

	switch o.Status {
	case StatusCreated:
		return o.allow(target, StatusPaymentPending, StatusCancelled)
	case StatusPaymentPending:
		return o.allow(target, StatusPaymentCompleted, StatusPaymentFailed, StatusCancelled)
	case StatusPaymentCompleted:
		return o.allow(target, StatusShipping, StatusCancelled)
	case StatusShipping:
		return o.allow(target, StatusCompleted, StatusCancelled)
	}
	return NewInvalidTransitionError(o.Status, target)
}

// Helper to check allowed state transitions
func (o *Order) allow(target OrderStatus, allowed ...OrderStatus) error {
	if slices.Contains(allowed, target) {
		return nil
	}
	return NewInvalidTransitionError(o.Status, target)
}

// IsTerminal reports whether no further transitions are possible. A failed
// payment is terminal for this order; retrying means a fresh payment attempt
// starting again from CREATED, not a resurrection of the failed one.
func (o *Order) IsTerminal() bool {
	switch o.Status {
	case StatusCompleted, StatusCancelled, StatusPaymentFailed:
		return true
	default:
		return false
	}
}

// ValidateTotal re-checks the total against the line items. Called when the
// aggregate crosses the coordinator boundary after being loaded from outside.
func (o *Order) ValidateTotal() error {
	if len(o.Items) == 0 {
		return NewValidationError("order has no items")
	}
	if !o.TotalAmount.Equal(ComputeTotal(o.Items)) {
		return NewValidationError("order total does not match the sum of line subtotals")
	}
	return nil
}

// Reconstitute - special constructor for loading from the store.
func Reconstitute(
	orderNumber, customerName, customerEmail string,
	items []OrderItem,
	totalAmount decimal.Decimal,
	status OrderStatus,
	paymentID string,
	createdAt time.Time,
	statusChangedAt time.Time,
	version int,
) *Order {
	return &Order{
		OrderNumber:     orderNumber,
		CustomerName:    customerName,
		CustomerEmail:   customerEmail,
		Items:           items,
		TotalAmount:     totalAmount,
		Status:          status,
		PaymentID:       paymentID,
		CreatedAt:       createdAt,
		StatusChangedAt: statusChangedAt,
		Version:         version,
	}
}
