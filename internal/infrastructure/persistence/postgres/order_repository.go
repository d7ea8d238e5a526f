package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DanielPopoola/ficmart-order-service/internal/domain"
	"github.com/DanielPopoola/ficmart-order-service/internal/infrastructure/persistence"
	"github.com/jackc/pgx/v5"
)

// OrderRepository persists order aggregates with an optimistic version
// check: every write carries the version the caller read, and a stale write
// is rejected as a conflict instead of silently overwriting.
type OrderRepository struct {
	db *persistence.DB
}

func NewOrderRepository(db *persistence.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Save inserts a freshly created order together with its line items.
func (r *OrderRepository) Save(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return domain.NewDependencyError("order store", err)
	}
	defer tx.Rollback(ctx)

	order.Version = 1
	m := toOrderModel(order)

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (
			order_number, customer_name, customer_email, total_amount,
			status, payment_id, created_at, status_changed_at, version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		m.OrderNumber, m.CustomerName, m.CustomerEmail, m.TotalAmount,
		m.Status, m.PaymentID, m.CreatedAt, m.StatusChangedAt, m.Version,
	)
	if err != nil {
		if persistence.IsUniqueViolation(err) {
			return domain.NewVersionConflictError(order.OrderNumber)
		}
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for _, item := range toItemModels(order) {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (
				order_number, position, product_id, product_name, quantity, price
			) VALUES ($1, $2, $3, $4, $5, $6)`,
			item.OrderNumber, item.Position, item.ProductID, item.ProductName, item.Quantity, item.Price,
		)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.NewDependencyError("order store", err)
	}
	return nil
}

// Update writes status and payment id, guarded by the version read. Items
// are immutable once the order leaves CREATED, so they are never rewritten.
func (r *OrderRepository) Update(ctx context.Context, order *domain.Order) error {
	m := toOrderModel(order)

	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE orders
		SET status = $1, payment_id = $2, status_changed_at = $3, version = version + 1
		WHERE order_number = $4 AND version = $5`,
		m.Status, m.PaymentID, m.StatusChangedAt, m.OrderNumber, m.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}

	if tag.RowsAffected() == 0 {
		// Distinguish a missing row from a concurrent writer.
		var exists bool
		if err := r.db.Pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM orders WHERE order_number = $1)`,
			m.OrderNumber,
		).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check order existence: %w", err)
		}
		if !exists {
			return domain.NewOrderNotFoundError(order.OrderNumber)
		}
		return domain.NewVersionConflictError(order.OrderNumber)
	}

	order.Version++
	return nil
}

func (r *OrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	row := r.db.Pool.QueryRow(ctx, `
		SELECT order_number, customer_name, customer_email, total_amount,
		       status, payment_id, created_at, status_changed_at, version
		FROM orders WHERE order_number = $1`,
		orderNumber,
	)

	var m OrderModel
	err := row.Scan(
		&m.OrderNumber, &m.CustomerName, &m.CustomerEmail, &m.TotalAmount,
		&m.Status, &m.PaymentID, &m.CreatedAt, &m.StatusChangedAt, &m.Version,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewOrderNotFoundError(orderNumber)
		}
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	items, err := r.loadItems(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	return toDomainOrder(m, items), nil
}

func (r *OrderRepository) FindAll(ctx context.Context) ([]*domain.Order, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT order_number, customer_name, customer_email, total_amount,
		       status, payment_id, created_at, status_changed_at, version
		FROM orders ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}

	models, err := pgx.CollectRows(rows, scanOrderModel)
	if err != nil {
		return nil, fmt.Errorf("error occurred while scanning rows: %w", err)
	}

	return r.attachItems(ctx, models)
}

// FindPaymentPendingBefore returns orders that entered PAYMENT_PENDING
// before the cutoff. Used by the pending-payment reconciler; measuring from
// the status change keeps orders that idled in CREATED out of the sweep.
func (r *OrderRepository) FindPaymentPendingBefore(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Order, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT order_number, customer_name, customer_email, total_amount,
		       status, payment_id, created_at, status_changed_at, version
		FROM orders
		WHERE status = $1 AND status_changed_at < $2
		ORDER BY status_changed_at
		LIMIT $3`,
		string(domain.StatusPaymentPending), cutoff, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending orders: %w", err)
	}

	models, err := pgx.CollectRows(rows, scanOrderModel)
	if err != nil {
		return nil, fmt.Errorf("error occurred while scanning rows: %w", err)
	}

	return r.attachItems(ctx, models)
}

func scanOrderModel(row pgx.CollectableRow) (OrderModel, error) {
	var m OrderModel
	err := row.Scan(
		&m.OrderNumber, &m.CustomerName, &m.CustomerEmail, &m.TotalAmount,
		&m.Status, &m.PaymentID, &m.CreatedAt, &m.StatusChangedAt, &m.Version,
	)
	return m, err
}

func (r *OrderRepository) attachItems(ctx context.Context, models []OrderModel) ([]*domain.Order, error) {
	orders := make([]*domain.Order, 0, len(models))
	for _, m := range models {
		items, err := r.loadItems(ctx, m.OrderNumber)
		if err != nil {
			return nil, err
		}
		orders = append(orders, toDomainOrder(m, items))
	}
	return orders, nil
}

func (r *OrderRepository) loadItems(ctx context.Context, orderNumber string) ([]OrderItemModel, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT order_number, position, product_id, product_name, quantity, price
		FROM order_items
		WHERE order_number = $1
		ORDER BY position`,
		orderNumber,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (OrderItemModel, error) {
		var m OrderItemModel
		err := row.Scan(&m.OrderNumber, &m.Position, &m.ProductID, &m.ProductName, &m.Quantity, &m.Price)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("error occurred while scanning item rows: %w", err)
	}
	return items, nil
}
