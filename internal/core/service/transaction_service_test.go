package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ardenlim/stockpoint/internal/adapter/storage"
	"github.com/ardenlim/stockpoint/internal/core/domain"
	"github.com/ardenlim/stockpoint/internal/port"
)

type purchaseFixture struct {
	svc      *TransactionService
	store    *storage.MemoryAdapter
	cache    *storage.MemoryStockCache
	customer *domain.Customer
	item     *domain.InventoryItem
}

func newPurchaseFixture(t *testing.T, stock int, price string) *purchaseFixture {
	t.Helper()
	ctx := context.Background()

	store := storage.NewMemoryAdapter()
	cache := storage.NewMemoryStockCache()

	customer, err := store.CreateCustomer(ctx, &domain.Customer{Name: "Buyer", Email: "buyer@test.local"})
	require.NoError(t, err)

	item, err := store.CreateItem(ctx, &domain.InventoryItem{
		Name:      "Widget",
		Category:  "tools",
		Quantity:  stock,
		UnitPrice: decimal.RequireFromString(price),
	})
	require.NoError(t, err)
	require.NoError(t, cache.SetStock(ctx, item.ID, stock))

	return &purchaseFixture{
		svc:      NewTransactionService(store, store, store, cache, zaptest.NewLogger(t)),
		store:    store,
		cache:    cache,
		customer: customer,
		item:     item,
	}
}

func TestPurchase_Success(t *testing.T) {
	ctx := context.Background()
	f := newPurchaseFixture(t, 10, "4.50")

	tx, err := f.svc.Purchase(ctx, f.customer.ID, f.item.ID, 3)
	require.NoError(t, err)

	assert.Equal(t, f.customer.ID, tx.CustomerID)
	assert.Equal(t, 3, tx.Quantity)
	assert.True(t, tx.UnitPriceAtSale.Equal(decimal.RequireFromString("4.50")))
	assert.True(t, tx.TotalPrice.Equal(decimal.RequireFromString("13.50")),
		"total must be quantity times unit price, got %s", tx.TotalPrice)

	item, err := f.store.GetItemByID(ctx, f.item.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, item.Quantity)
}

func TestPurchase_InsufficientStock(t *testing.T) {
	ctx := context.Background()
	f := newPurchaseFixture(t, 2, "10.00")

	_, err := f.svc.Purchase(ctx, f.customer.ID, f.item.ID, 3)
	require.ErrorIs(t, err, ErrInsufficientStock)

	// Nothing written, stock unchanged.
	txs, err := f.store.ListTransactions(ctx)
	require.NoError(t, err)
	assert.Empty(t, txs)

	item, err := f.store.GetItemByID(ctx, f.item.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)
}

func TestPurchase_InvalidQuantity(t *testing.T) {
	ctx := context.Background()
	f := newPurchaseFixture(t, 10, "1.00")

	for _, q := range []int{0, -1} {
		_, err := f.svc.Purchase(ctx, f.customer.ID, f.item.ID, q)
		assert.ErrorIs(t, err, ErrInvalidQuantity, "quantity %d", q)
	}
}

func TestPurchase_UnknownCustomer(t *testing.T) {
	ctx := context.Background()
	f := newPurchaseFixture(t, 10, "1.00")

	_, err := f.svc.Purchase(ctx, 999, f.item.ID, 1)
	require.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestPurchase_UnknownItem(t *testing.T) {
	ctx := context.Background()
	f := newPurchaseFixture(t, 10, "1.00")

	_, err := f.svc.Purchase(ctx, f.customer.ID, 999, 1)
	require.ErrorIs(t, err, ErrItemNotFound)
}

// With no mirror entry the gate is unknown and the database decides;
// the mirror is resynced after the commit.
func TestPurchase_MirrorMiss_FallsThroughToDatabase(t *testing.T) {
	ctx := context.Background()
	f := newPurchaseFixture(t, 10, "2.00")
	require.NoError(t, f.cache.DeleteStock(ctx, f.item.ID))

	tx, err := f.svc.Purchase(ctx, f.customer.ID, f.item.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, tx.Quantity)

	gate, err := f.cache.DecrementStock(ctx, f.item.ID, 6)
	require.NoError(t, err)
	assert.NotEqual(t, port.StockGateUnknown, gate, "mirror should be resynced after a fallthrough commit")
}

// A stale mirror that still lets a purchase through must not oversell:
// the database rejects it and the mirror is repaired.
func TestPurchase_StaleMirror_DatabaseRejects(t *testing.T) {
	ctx := context.Background()
	f := newPurchaseFixture(t, 1, "2.00")
	require.NoError(t, f.cache.SetStock(ctx, f.item.ID, 5))

	_, err := f.svc.Purchase(ctx, f.customer.ID, f.item.ID, 3)
	require.ErrorIs(t, err, ErrInsufficientStock)

	item, err := f.store.GetItemByID(ctx, f.item.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, item.Quantity)
}

func TestPurchase_Concurrent_NoOverselling(t *testing.T) {
	ctx := context.Background()
	initialStock := 20
	totalRequests := 50

	f := newPurchaseFixture(t, initialStock, "1.00")

	var successCount, soldOutCount atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Purchase(ctx, f.customer.ID, f.item.ID, 1)
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, ErrInsufficientStock):
				soldOutCount.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(initialStock), successCount.Load())
	assert.Equal(t, int32(totalRequests-initialStock), soldOutCount.Load())

	item, err := f.store.GetItemByID(ctx, f.item.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, item.Quantity)

	txs, err := f.store.ListTransactionsByItem(ctx, f.item.ID)
	require.NoError(t, err)
	assert.Len(t, txs, initialStock)
}

// Two buyers against stock 5: A takes 3, B's 3 is rejected and stock
// stays at 2.
func TestPurchase_SequentialOverSubscription(t *testing.T) {
	ctx := context.Background()
	f := newPurchaseFixture(t, 5, "7.25")

	other, err := f.store.CreateCustomer(ctx, &domain.Customer{Name: "B", Email: "b@test.local"})
	require.NoError(t, err)

	tx, err := f.svc.Purchase(ctx, f.customer.ID, f.item.ID, 3)
	require.NoError(t, err)
	assert.True(t, tx.TotalPrice.Equal(decimal.RequireFromString("21.75")))

	_, err = f.svc.Purchase(ctx, other.ID, f.item.ID, 3)
	require.ErrorIs(t, err, ErrInsufficientStock)

	item, err := f.store.GetItemByID(ctx, f.item.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)
}

func TestTotalRevenue(t *testing.T) {
	ctx := context.Background()
	f := newPurchaseFixture(t, 10, "3.00")

	_, err := f.svc.Purchase(ctx, f.customer.ID, f.item.ID, 2)
	require.NoError(t, err)
	_, err = f.svc.Purchase(ctx, f.customer.ID, f.item.ID, 1)
	require.NoError(t, err)

	revenue, err := f.svc.TotalRevenue(ctx)
	require.NoError(t, err)
	assert.True(t, revenue.Equal(decimal.RequireFromString("9.00")), "got %s", revenue)
}
