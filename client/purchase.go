package client

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/ardenlim/stockpoint/internal/core/domain"
)

// PurchaseOrchestrator sequences a buy intent: clamp the requested
// quantity against the (possibly stale) snapshot, show an estimate,
// submit, then reconcile the snapshot with what the service actually
// did. Purchases are never retried automatically; resubmission creates
// a new transaction.
type PurchaseOrchestrator struct {
	api *Client
}

func NewPurchaseOrchestrator(api *Client) *PurchaseOrchestrator {
	return &PurchaseOrchestrator{api: api}
}

// ClampQuantity bounds requested to [1, snapshot.Quantity]. Advisory
// only; the service performs the authoritative bound check.
func ClampQuantity(snapshot *domain.InventoryItem, requested int) int {
	if requested < 1 {
		requested = 1
	}
	if requested > snapshot.Quantity {
		requested = snapshot.Quantity
	}
	if requested < 1 {
		return 1
	}
	return requested
}

// Estimate is the displayed total for confirmation, computed from the
// snapshot price. The committed total may differ; the returned
// Transaction is the authority.
func Estimate(snapshot *domain.InventoryItem, quantity int) decimal.Decimal {
	return snapshot.UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// PurchaseResult carries the committed transaction and the refreshed
// item snapshot. On an insufficient-stock rejection Transaction is nil
// and Item reflects the true current stock.
type PurchaseResult struct {
	Transaction *domain.Transaction
	Item        *domain.InventoryItem
}

// Purchase submits a buy for the session's customer. quantity must
// already be in range; use ClampQuantity for user-entered values.
func (o *PurchaseOrchestrator) Purchase(ctx context.Context, item *domain.InventoryItem, quantity int) (*PurchaseResult, error) {
	if quantity < 1 {
		return nil, &ValidationError{Field: "quantity", Message: "must be at least 1"}
	}

	sess := o.api.Sessions().Current()
	if sess == nil {
		return nil, &AuthorizationExpiredError{Message: "no live session"}
	}

	tx, err := o.api.CreateTransaction(ctx, sess.Identity.ID, item.ID, quantity)
	if err != nil {
		var rule *BusinessRuleError
		if errors.As(err, &rule) && rule.InsufficientStock() {
			// The snapshot lied about availability. Refresh it so the
			// caller shows real stock instead of retrying blindly.
			result := &PurchaseResult{}
			if fresh, rerr := o.api.GetItem(ctx, item.ID); rerr == nil {
				result.Item = fresh
			}
			return result, err
		}
		return nil, err
	}

	result := &PurchaseResult{Transaction: tx}
	if fresh, rerr := o.api.GetItem(ctx, item.ID); rerr == nil {
		result.Item = fresh
	}
	return result, nil
}
