package application

import (
	"time"

	"github.com/DanielPopoola/ficmart-order-service/internal/domain"
	"github.com/shopspring/decimal"
)

// OrderView is the read model handed to transport layers. Line subtotals are
// recomputed from their inputs at mapping time.
type OrderView struct {
	OrderNumber   string          `json:"orderNumber"`
	CustomerName  string          `json:"customerName"`
	CustomerEmail string          `json:"customerEmail"`
	Items         []OrderItemView `json:"items"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Status        string          `json:"status"`
	PaymentID     string          `json:"paymentId,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type OrderItemView struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// ToOrderView maps the aggregate onto its read model.
func ToOrderView(order *domain.Order) OrderView {
	items := make([]OrderItemView, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemView{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Subtotal:    item.Subtotal(),
		})
	}

	return OrderView{
		OrderNumber:   order.OrderNumber,
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		Items:         items,
		TotalAmount:   order.TotalAmount,
		Status:        string(order.Status),
		PaymentID:     order.PaymentID,
		CreatedAt:     order.CreatedAt,
	}
}

// OrderCreatedEvent is published to the event stream after an order has been
// durably persisted.
type OrderCreatedEvent struct {
	OrderNumber   string          `json:"orderNumber"`
	CustomerEmail string          `json:"customerEmail"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// EventKey keys creation events by order number so all events for one
// order land on the same partition.
func (e OrderCreatedEvent) EventKey() string {
	return e.OrderNumber
}

// OrderCreatedTopic is the stream creation events are published to.
const OrderCreatedTopic = "order-created-topic"
