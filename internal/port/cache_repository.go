package port

import (
	"context"
	"time"

	"github.com/ardenlim/stockpoint/internal/core/domain"
)

// StockGate is the outcome of the mirror's conditional decrement.
type StockGate int

const (
	// StockGateApplied means the mirror held enough stock and was decremented.
	StockGateApplied StockGate = iota
	// StockGateInsufficient means the mirror says not enough stock; the
	// purchase is rejected without touching the database.
	StockGateInsufficient
	// StockGateUnknown means the mirror has no entry for the item; the
	// database decides alone.
	StockGateUnknown
)

type StockCache interface {
	// DecrementStock atomically decreases mirrored stock when sufficient.
	DecrementStock(ctx context.Context, itemID int64, quantity int) (StockGate, error)

	// IncrementStock restores mirrored stock (rollback after a failed database write)
	IncrementStock(ctx context.Context, itemID int64, quantity int) error

	// SetStock overwrites the mirror with the authoritative quantity
	SetStock(ctx context.Context, itemID int64, quantity int) error

	// DeleteStock drops the mirror entry for a removed item
	DeleteStock(ctx context.Context, itemID int64) error
}

type StatsCache interface {
	// GetDashboardStats returns (nil, nil) on a cache miss.
	GetDashboardStats(ctx context.Context) (*domain.DashboardStats, error)
	SetDashboardStats(ctx context.Context, stats *domain.DashboardStats, ttl time.Duration) error
}
