package postgres

import (
	"github.com/DanielPopoola/ficmart-order-service/internal/domain"
)

func toOrderModel(order *domain.Order) OrderModel {
	var paymentID *string
	if order.PaymentID != "" {
		id := order.PaymentID
		paymentID = &id
	}

	return OrderModel{
		OrderNumber:     order.OrderNumber,
		CustomerName:    order.CustomerName,
		CustomerEmail:   order.CustomerEmail,
		TotalAmount:     order.TotalAmount,
		Status:          string(order.Status),
		PaymentID:       paymentID,
		CreatedAt:       order.CreatedAt,
		StatusChangedAt: order.StatusChangedAt,
		Version:         order.Version,
	}
}

func toItemModels(order *domain.Order) []OrderItemModel {
	models := make([]OrderItemModel, 0, len(order.Items))
	for i, item := range order.Items {
		models = append(models, OrderItemModel{
			OrderNumber: order.OrderNumber,
			Position:    i,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}
	return models
}

func toDomainOrder(m OrderModel, items []OrderItemModel) *domain.Order {
	domainItems := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		domainItems = append(domainItems, domain.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}

	var paymentID string
	if m.PaymentID != nil {
		paymentID = *m.PaymentID
	}

	return domain.Reconstitute(
		m.OrderNumber,
		m.CustomerName,
		m.CustomerEmail,
		domainItems,
		m.TotalAmount,
		domain.OrderStatus(m.Status),
		paymentID,
		m.CreatedAt,
		m.StatusChangedAt,
		m.Version,
	)
}
