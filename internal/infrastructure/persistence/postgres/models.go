package postgres

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderModel struct {
	OrderNumber     string
	CustomerName    string
	CustomerEmail   string
	TotalAmount     decimal.Decimal
	Status          string
	PaymentID       *string
	CreatedAt       time.Time
	StatusChangedAt time.Time
	Version         int
}

type OrderItemModel struct {
	OrderNumber string
	Position    int
	ProductID   string
	ProductName string
	Quantity    int
	Price       decimal.Decimal
}
