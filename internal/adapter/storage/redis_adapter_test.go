package storage

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/ardenlim/stockpoint/internal/core/domain"
	"github.com/ardenlim/stockpoint/internal/port"
)

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return client
}

func TestRedisDecrementStock_Applied(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	adapter := NewRedisAdapter(client)

	const itemID = int64(900001)
	client.Del(ctx, stockKey(itemID))
	adapter.SetStock(ctx, itemID, 10)

	gate, err := adapter.DecrementStock(ctx, itemID, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gate != port.StockGateApplied {
		t.Errorf("expected applied, got %v", gate)
	}

	stock, _ := client.Get(ctx, stockKey(itemID)).Int()
	if stock != 7 {
		t.Errorf("expected stock 7, got %d", stock)
	}
}

func TestRedisDecrementStock_Insufficient(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	adapter := NewRedisAdapter(client)

	const itemID = int64(900002)
	client.Del(ctx, stockKey(itemID))
	adapter.SetStock(ctx, itemID, 5)

	gate, err := adapter.DecrementStock(ctx, itemID, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gate != port.StockGateInsufficient {
		t.Errorf("expected insufficient, got %v", gate)
	}

	stock, _ := client.Get(ctx, stockKey(itemID)).Int()
	if stock != 5 {
		t.Errorf("expected stock unchanged at 5, got %d", stock)
	}
}

// A missing mirror entry is not a rejection; the database decides.
func TestRedisDecrementStock_MissingKeyIsUnknown(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	adapter := NewRedisAdapter(client)

	const itemID = int64(900003)
	client.Del(ctx, stockKey(itemID))

	gate, err := adapter.DecrementStock(ctx, itemID, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gate != port.StockGateUnknown {
		t.Errorf("expected unknown, got %v", gate)
	}
}

func TestRedisDecrementStock_Concurrent(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	adapter := NewRedisAdapter(client)

	const itemID = int64(900004)
	initialStock := 20
	totalRequests := 50

	client.Del(ctx, stockKey(itemID))
	adapter.SetStock(ctx, itemID, initialStock)

	var applied atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			gate, err := adapter.DecrementStock(ctx, itemID, 1)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if gate == port.StockGateApplied {
				applied.Add(1)
			}
		}()
	}
	wg.Wait()

	if applied.Load() != int32(initialStock) {
		t.Errorf("expected %d applied, got %d", initialStock, applied.Load())
	}
	stock, _ := client.Get(ctx, stockKey(itemID)).Int()
	if stock != 0 {
		t.Errorf("expected stock 0, got %d", stock)
	}
}

func TestRedisIncrementStock(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	adapter := NewRedisAdapter(client)

	const itemID = int64(900005)
	client.Del(ctx, stockKey(itemID))
	adapter.SetStock(ctx, itemID, 5)

	if err := adapter.IncrementStock(ctx, itemID, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stock, _ := client.Get(ctx, stockKey(itemID)).Int()
	if stock != 8 {
		t.Errorf("expected stock 8, got %d", stock)
	}
}

func TestRedisDashboardStatsRoundTrip(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	adapter := NewRedisAdapter(client)

	client.Del(ctx, dashboardStatsKey)

	got, err := adapter.GetDashboardStats(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatal("expected cache miss to return nil")
	}

	stats := &domain.DashboardStats{
		TotalStaff:        2,
		TotalCustomers:    3,
		TotalTransactions: 4,
		TotalRevenue:      decimal.RequireFromString("12.50"),
	}
	if err := adapter.SetDashboardStats(ctx, stats, time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err = adapter.GetDashboardStats(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.TotalCustomers != 3 || !got.TotalRevenue.Equal(stats.TotalRevenue) {
		t.Errorf("round trip mismatch: %+v", got)
	}
}
