package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction records one committed purchase. Rows are append-only: the
// service writes a transaction exactly once and never updates or deletes
// it afterwards.
type Transaction struct {
	ID              int64           `json:"id"`
	CustomerID      int64           `json:"customerId"`
	ItemID          int64           `json:"itemId"`
	Quantity        int             `json:"quantity"`
	UnitPriceAtSale decimal.Decimal `json:"unitPriceAtSale"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	CreatedAt       time.Time       `json:"createdAt"`
}
