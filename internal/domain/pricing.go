package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ComputeTotal sums price × quantity over all lines. Decimal arithmetic keeps
// repeated additions exact to the currency's minor unit.
func ComputeTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// ValidateItems checks a creation item list as a whole: it must be non-empty,
// every quantity positive and every unit price non-negative.
func ValidateItems(items []OrderItem) error {
	if len(items) == 0 {
		return NewValidationError("order must contain at least one item")
	}
	for i, item := range items {
		if item.ProductID == "" {
			return NewValidationError(fmt.Sprintf("item %d: product id is required", i))
		}
		if item.Quantity <= 0 {
			return NewValidationError(fmt.Sprintf("item %d: quantity must be positive, got %d", i, item.Quantity))
		}
		if item.Price.IsNegative() {
			return NewValidationError(fmt.Sprintf("item %d: price must not be negative, got %s", i, item.Price))
		}
	}
	return nil
}
