package client

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"

	"github.com/ardenlim/stockpoint/internal/adapter/handler"
	"github.com/ardenlim/stockpoint/internal/adapter/storage"
	"github.com/ardenlim/stockpoint/internal/auth"
	"github.com/ardenlim/stockpoint/internal/core/domain"
	"github.com/ardenlim/stockpoint/internal/core/service"
)

// stack spins the real service over httptest so the SDK is exercised
// end to end against actual handler and purchase semantics.
type stack struct {
	srv   *httptest.Server
	store *storage.MemoryAdapter
	cache *storage.MemoryStockCache
}

func newStack(t *testing.T) *stack {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := zaptest.NewLogger(t)
	store := storage.NewMemoryAdapter()
	cache := storage.NewMemoryStockCache()
	tokens := auth.NewTokenManager("purchase-test-secret", time.Hour)

	h := handler.NewHTTPHandler(
		service.NewAuthService(store, store, tokens, bcrypt.MinCost, log),
		service.NewStaffService(store, bcrypt.MinCost, log),
		service.NewCustomerService(store, bcrypt.MinCost, log),
		service.NewInventoryService(store, cache, log),
		service.NewTransactionService(store, store, store, cache, log),
		service.NewDashboardService(store, cache, 10, log),
		tokens,
		log,
	)

	engine := gin.New()
	h.RegisterRoutes(engine)

	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)
	return &stack{srv: srv, store: store, cache: cache}
}

func (s *stack) seedItem(t *testing.T, stock int, price string) *domain.InventoryItem {
	t.Helper()
	ctx := context.Background()
	item, err := s.store.CreateItem(ctx, &domain.InventoryItem{
		Name: "Widget", Category: "tools", Quantity: stock,
		UnitPrice: decimal.RequireFromString(price),
	})
	require.NoError(t, err)
	require.NoError(t, s.cache.SetStock(ctx, item.ID, stock))
	return item
}

func (s *stack) shopper(t *testing.T) *Client {
	t.Helper()
	ctx := context.Background()

	api := New(s.srv.URL, newTestStore(t), nil, zaptest.NewLogger(t))
	_, err := api.Register(ctx, RegisterInput{
		Name: "Shopper", Email: "shopper@test.local", Pin: "4321",
	})
	require.NoError(t, err)
	_, err = api.CustomerLogin(ctx, "shopper@test.local", "4321")
	require.NoError(t, err)
	return api
}

func TestClampQuantity(t *testing.T) {
	item := &domain.InventoryItem{Quantity: 5}

	assert.Equal(t, 1, ClampQuantity(item, 0))
	assert.Equal(t, 1, ClampQuantity(item, -3))
	assert.Equal(t, 3, ClampQuantity(item, 3))
	assert.Equal(t, 5, ClampQuantity(item, 5))
	assert.Equal(t, 5, ClampQuantity(item, 99))

	// Sold-out snapshot still yields a valid quantity; the service is
	// the one that rejects it.
	assert.Equal(t, 1, ClampQuantity(&domain.InventoryItem{Quantity: 0}, 4))
}

func TestEstimate(t *testing.T) {
	item := &domain.InventoryItem{UnitPrice: decimal.RequireFromString("4.25")}
	assert.True(t, Estimate(item, 3).Equal(decimal.RequireFromString("12.75")))
	assert.True(t, Estimate(item, 1).Equal(decimal.RequireFromString("4.25")))
}

func TestPurchase_EndToEnd(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	item := s.seedItem(t, 5, "4.25")
	api := s.shopper(t)

	orchestrator := NewPurchaseOrchestrator(api)
	result, err := orchestrator.Purchase(ctx, item, 3)
	require.NoError(t, err)

	require.NotNil(t, result.Transaction)
	assert.Equal(t, 3, result.Transaction.Quantity)
	assert.True(t, result.Transaction.TotalPrice.Equal(decimal.RequireFromString("12.75")),
		"committed total must be quantity times unit price at sale")

	require.NotNil(t, result.Item, "snapshot must be refreshed after a purchase")
	assert.Equal(t, 2, result.Item.Quantity)
}

func TestPurchase_InsufficientStockRefreshesSnapshot(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	item := s.seedItem(t, 5, "2.00")
	api := s.shopper(t)

	orchestrator := NewPurchaseOrchestrator(api)

	// First buy drains stock to 2; the snapshot now lies.
	stale := *item
	_, err := orchestrator.Purchase(ctx, &stale, 3)
	require.NoError(t, err)

	result, err := orchestrator.Purchase(ctx, &stale, 3)
	var rule *BusinessRuleError
	require.ErrorAs(t, err, &rule)
	assert.True(t, rule.InsufficientStock())

	require.NotNil(t, result.Item)
	assert.Equal(t, 2, result.Item.Quantity, "refreshed snapshot shows the true stock")
}

func TestPurchase_InsufficientStock_ResultCarriesFreshItem(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	item := s.seedItem(t, 2, "2.00")
	api := s.shopper(t)

	orchestrator := NewPurchaseOrchestrator(api)
	result, err := orchestrator.Purchase(ctx, item, 3)

	var rule *BusinessRuleError
	require.ErrorAs(t, err, &rule)
	require.True(t, rule.InsufficientStock())

	require.NotNil(t, result, "a stock rejection still returns the refreshed snapshot")
	require.NotNil(t, result.Item)
	assert.Equal(t, 2, result.Item.Quantity, "stock must be unchanged after a rejection")
	assert.Nil(t, result.Transaction)
}

func TestPurchase_InvalidQuantityLocal(t *testing.T) {
	s := newStack(t)
	item := s.seedItem(t, 5, "1.00")
	api := s.shopper(t)

	orchestrator := NewPurchaseOrchestrator(api)
	_, err := orchestrator.Purchase(context.Background(), item, 0)

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestPurchase_NoSession(t *testing.T) {
	s := newStack(t)
	item := s.seedItem(t, 5, "1.00")

	api := New(s.srv.URL, newTestStore(t), nil, zaptest.NewLogger(t))
	orchestrator := NewPurchaseOrchestrator(api)

	_, err := orchestrator.Purchase(context.Background(), item, 1)
	var expired *AuthorizationExpiredError
	require.ErrorAs(t, err, &expired)
}
