package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem is a stock record. The authoritative copy lives in the
// database; clients hold read-only snapshots that may be stale.
type InventoryItem struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Description string          `json:"description,omitempty"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}
