package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ardenlim/stockpoint/internal/core/domain"
	"github.com/ardenlim/stockpoint/internal/port"
)

const (
	stockKeyPrefix    = "stock:"
	dashboardStatsKey = "dashboard:stats"
)

// Conditional decrement: 1 when stock was decremented, 0 when the mirror
// holds too little, -1 when the item has no mirror entry at all.
var decrementStockScript = redis.NewScript(`
local key = KEYS[1]
local quantity = tonumber(ARGV[1])

local current = redis.call('GET', key)
if not current then
	return -1
end

current = tonumber(current)
if current >= quantity then
	redis.call('DECRBY', key, quantity)
	return 1
end

return 0
`)

type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func stockKey(itemID int64) string {
	return stockKeyPrefix + strconv.FormatInt(itemID, 10)
}

func (r *RedisAdapter) DecrementStock(ctx context.Context, itemID int64, quantity int) (port.StockGate, error) {
	result, err := decrementStockScript.Run(ctx, r.client, []string{stockKey(itemID)}, quantity).Int()
	if err != nil {
		return port.StockGateUnknown, err
	}
	switch result {
	case 1:
		return port.StockGateApplied, nil
	case 0:
		return port.StockGateInsufficient, nil
	default:
		return port.StockGateUnknown, nil
	}
}

func (r *RedisAdapter) IncrementStock(ctx context.Context, itemID int64, quantity int) error {
	return r.client.IncrBy(ctx, stockKey(itemID), int64(quantity)).Err()
}

func (r *RedisAdapter) SetStock(ctx context.Context, itemID int64, quantity int) error {
	return r.client.Set(ctx, stockKey(itemID), quantity, 0).Err()
}

func (r *RedisAdapter) DeleteStock(ctx context.Context, itemID int64) error {
	return r.client.Del(ctx, stockKey(itemID)).Err()
}

func (r *RedisAdapter) GetDashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	val, err := r.client.Get(ctx, dashboardStatsKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var stats domain.DashboardStats
	if err := json.Unmarshal([]byte(val), &stats); err != nil {
		return nil, fmt.Errorf("unmarshal dashboard stats: %w", err)
	}
	return &stats, nil
}

func (r *RedisAdapter) SetDashboardStats(ctx context.Context, stats *domain.DashboardStats, ttl time.Duration) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal dashboard stats: %w", err)
	}
	return r.client.Set(ctx, dashboardStatsKey, data, ttl).Err()
}
