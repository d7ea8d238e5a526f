package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DanielPopoola/ficmart-order-service/internal/application/services/testhelpers"
	"github.com/DanielPopoola/ficmart-order-service/internal/domain"
	"github.com/DanielPopoola/ficmart-order-service/internal/infrastructure/persistence/postgres"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T) *domain.Order {
	t.Helper()

	order, err := domain.NewOrder("Ada Obi", "ada@example.com", []domain.OrderItem{
		{ProductID: "SKU-1", ProductName: "Wireless Mouse", Quantity: 2, Price: decimal.RequireFromString("9.99")},
		{ProductID: "SKU-2", ProductName: "USB Cable", Quantity: 1, Price: decimal.RequireFromString("4.50")},
	})
	require.NoError(t, err)
	return order
}

func TestOrderRepository_SaveAndFind(t *testing.T) {
	ctx := context.Background()

	testDB := testhelpers.SetupTestDatabase(t)
	defer testDB.Cleanup(t)

	repo := postgres.NewOrderRepository(testDB.DB)

	order := newTestOrder(t)
	require.NoError(t, repo.Save(ctx, order))
	assert.Equal(t, 1, order.Version)

	found, err := repo.FindByOrderNumber(ctx, order.OrderNumber)
	require.NoError(t, err)

	assert.Equal(t, order.OrderNumber, found.OrderNumber)
	assert.Equal(t, "Ada Obi", found.CustomerName)
	assert.Equal(t, "ada@example.com", found.CustomerEmail)
	assert.Equal(t, domain.StatusCreated, found.Status)
	assert.Empty(t, found.PaymentID)
	assert.Equal(t, 1, found.Version)
	assert.WithinDuration(t, order.StatusChangedAt, found.StatusChangedAt, time.Second)
	assert.True(t, found.TotalAmount.Equal(decimal.RequireFromString("24.48")),
		"expected 24.48, got %s", found.TotalAmount)

	require.Len(t, found.Items, 2)
	assert.Equal(t, "SKU-1", found.Items[0].ProductID)
	assert.Equal(t, 2, found.Items[0].Quantity)
	assert.True(t, found.Items[0].Price.Equal(decimal.RequireFromString("9.99")))
	assert.Equal(t, "SKU-2", found.Items[1].ProductID)
}

func TestOrderRepository_FindMissing(t *testing.T) {
	ctx := context.Background()

	testDB := testhelpers.SetupTestDatabase(t)
	defer testDB.Cleanup(t)

	repo := postgres.NewOrderRepository(testDB.DB)

	_, err := repo.FindByOrderNumber(ctx, "ORD-MISSING1")
	require.Error(t, err)
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeOrderNotFound))
}

func TestOrderRepository_Update(t *testing.T) {
	ctx := context.Background()

	testDB := testhelpers.SetupTestDatabase(t)
	defer testDB.Cleanup(t)

	repo := postgres.NewOrderRepository(testDB.DB)

	order := newTestOrder(t)
	require.NoError(t, repo.Save(ctx, order))

	require.NoError(t, order.Transition(domain.StatusPaymentPending, ""))
	require.NoError(t, repo.Update(ctx, order))
	assert.Equal(t, 2, order.Version)

	require.NoError(t, order.Transition(domain.StatusPaymentCompleted, "PAY-123"))
	require.NoError(t, repo.Update(ctx, order))

	found, err := repo.FindByOrderNumber(ctx, order.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaymentCompleted, found.Status)
	assert.Equal(t, "PAY-123", found.PaymentID)
	assert.Equal(t, 3, found.Version)
}

func TestOrderRepository_UpdateStaleVersion(t *testing.T) {
	ctx := context.Background()

	testDB := testhelpers.SetupTestDatabase(t)
	defer testDB.Cleanup(t)

	repo := postgres.NewOrderRepository(testDB.DB)

	order := newTestOrder(t)
	require.NoError(t, repo.Save(ctx, order))

	// A second reader picks up the same version and wins the write.
	other, err := repo.FindByOrderNumber(ctx, order.OrderNumber)
	require.NoError(t, err)
	require.NoError(t, other.Transition(domain.StatusPaymentPending, ""))
	require.NoError(t, repo.Update(ctx, other))

	require.NoError(t, order.Transition(domain.StatusPaymentPending, ""))
	err = repo.Update(ctx, order)
	require.Error(t, err)
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeConflict))
}

func TestOrderRepository_UpdateMissing(t *testing.T) {
	ctx := context.Background()

	testDB := testhelpers.SetupTestDatabase(t)
	defer testDB.Cleanup(t)

	repo := postgres.NewOrderRepository(testDB.DB)

	order := newTestOrder(t)
	order.Version = 1
	require.NoError(t, order.Transition(domain.StatusPaymentPending, ""))

	err := repo.Update(ctx, order)
	require.Error(t, err)
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeOrderNotFound))
}

func TestOrderRepository_FindAll(t *testing.T) {
	ctx := context.Background()

	testDB := testhelpers.SetupTestDatabase(t)
	defer testDB.Cleanup(t)

	repo := postgres.NewOrderRepository(testDB.DB)

	first := newTestOrder(t)
	first.CreatedAt = time.Now().UTC().Add(-2 * time.Minute)
	require.NoError(t, repo.Save(ctx, first))

	second := newTestOrder(t)
	require.NoError(t, repo.Save(ctx, second))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.OrderNumber, all[0].OrderNumber)
	assert.Equal(t, second.OrderNumber, all[1].OrderNumber)
	require.Len(t, all[0].Items, 2)
}

func TestOrderRepository_FindPaymentPendingBefore(t *testing.T) {
	ctx := context.Background()

	testDB := testhelpers.SetupTestDatabase(t)
	defer testDB.Cleanup(t)

	repo := postgres.NewOrderRepository(testDB.DB)

	stuck := newTestOrder(t)
	require.NoError(t, repo.Save(ctx, stuck))
	require.NoError(t, stuck.Transition(domain.StatusPaymentPending, ""))
	stuck.StatusChangedAt = time.Now().UTC().Add(-1 * time.Hour)
	require.NoError(t, repo.Update(ctx, stuck))

	// Payment requested just now on an order that idled in CREATED for an
	// hour; the sweep measures from the status change, not creation.
	idled := newTestOrder(t)
	idled.CreatedAt = time.Now().UTC().Add(-1 * time.Hour)
	idled.StatusChangedAt = idled.CreatedAt
	require.NoError(t, repo.Save(ctx, idled))
	require.NoError(t, idled.Transition(domain.StatusPaymentPending, ""))
	require.NoError(t, repo.Update(ctx, idled))

	fresh := newTestOrder(t)
	require.NoError(t, repo.Save(ctx, fresh))
	require.NoError(t, fresh.Transition(domain.StatusPaymentPending, ""))
	require.NoError(t, repo.Update(ctx, fresh))

	created := newTestOrder(t)
	created.CreatedAt = time.Now().UTC().Add(-1 * time.Hour)
	created.StatusChangedAt = created.CreatedAt
	require.NoError(t, repo.Save(ctx, created))

	pending, err := repo.FindPaymentPendingBefore(ctx, time.Now().UTC().Add(-30*time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, stuck.OrderNumber, pending[0].OrderNumber)
}
