package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ardenlim/stockpoint/internal/adapter/storage"
	"github.com/ardenlim/stockpoint/internal/core/domain"
	"github.com/ardenlim/stockpoint/internal/port"
)

// TransactionService owns the purchase path. The stock mirror rejects
// sold-out purchases before they reach the database; the database
// conditional update remains the authority, and mirror drift is repaired
// whenever the two disagree.
type TransactionService struct {
	transactions port.TransactionRepository
	customers    port.CustomerRepository
	items        port.InventoryRepository
	cache        port.StockCache
	log          *zap.Logger
}

func NewTransactionService(
	transactions port.TransactionRepository,
	customers port.CustomerRepository,
	items port.InventoryRepository,
	cache port.StockCache,
	log *zap.Logger,
) *TransactionService {
	return &TransactionService{
		transactions: transactions,
		customers:    customers,
		items:        items,
		cache:        cache,
		log:          log,
	}
}

// Purchase atomically verifies stock >= quantity, decrements it and
// appends the transaction row. On ErrInsufficientStock nothing is
// written and stock is unchanged.
func (s *TransactionService) Purchase(ctx context.Context, customerID, itemID int64, quantity int) (*domain.Transaction, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	customer, err := s.customers.GetCustomerByID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("load customer: %w", err)
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}

	gate, err := s.cache.DecrementStock(ctx, itemID, quantity)
	if err != nil {
		s.log.Warn("stock mirror unavailable, falling back to database",
			zap.Int64("item_id", itemID), zap.Error(err))
		gate = port.StockGateUnknown
	}
	if gate == port.StockGateInsufficient {
		return nil, ErrInsufficientStock
	}

	tx, err := s.transactions.CreatePurchase(ctx, customerID, itemID, quantity)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrInsufficientStock):
			// The mirror let this through; resync it from the authority.
			if gate == port.StockGateApplied {
				s.resyncMirror(ctx, itemID)
			}
			return nil, ErrInsufficientStock
		case errors.Is(err, storage.ErrItemNotFound):
			if gate == port.StockGateApplied {
				if cerr := s.cache.DeleteStock(ctx, itemID); cerr != nil {
					s.log.Warn("failed to drop stock mirror", zap.Int64("item_id", itemID), zap.Error(cerr))
				}
			}
			return nil, ErrItemNotFound
		default:
			if gate == port.StockGateApplied {
				if cerr := s.cache.IncrementStock(ctx, itemID, quantity); cerr != nil {
					s.log.Error("stock mirror rollback failed",
						zap.Int64("item_id", itemID), zap.Int("quantity", quantity), zap.Error(cerr))
				}
			}
			return nil, fmt.Errorf("create purchase: %w", err)
		}
	}

	if gate == port.StockGateUnknown {
		s.resyncMirror(ctx, itemID)
	}

	s.log.Info("purchase committed",
		zap.Int64("transaction_id", tx.ID),
		zap.Int64("customer_id", customerID),
		zap.Int64("item_id", itemID),
		zap.Int("quantity", quantity),
		zap.String("total_price", tx.TotalPrice.String()),
	)
	return tx, nil
}

func (s *TransactionService) resyncMirror(ctx context.Context, itemID int64) {
	item, err := s.items.GetItemByID(ctx, itemID)
	if err != nil || item == nil {
		s.log.Warn("failed to resync stock mirror", zap.Int64("item_id", itemID), zap.Error(err))
		return
	}
	if err := s.cache.SetStock(ctx, itemID, item.Quantity); err != nil {
		s.log.Warn("failed to resync stock mirror", zap.Int64("item_id", itemID), zap.Error(err))
	}
}

func (s *TransactionService) Get(ctx context.Context, id int64) (*domain.Transaction, error) {
	tx, err := s.transactions.GetTransactionByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load transaction: %w", err)
	}
	if tx == nil {
		return nil, ErrNotFound
	}
	return tx, nil
}

func (s *TransactionService) List(ctx context.Context) ([]*domain.Transaction, error) {
	return s.transactions.ListTransactions(ctx)
}

func (s *TransactionService) ListByCustomer(ctx context.Context, customerID int64) ([]*domain.Transaction, error) {
	return s.transactions.ListTransactionsByCustomer(ctx, customerID)
}

func (s *TransactionService) ListByItem(ctx context.Context, itemID int64) ([]*domain.Transaction, error) {
	return s.transactions.ListTransactionsByItem(ctx, itemID)
}

func (s *TransactionService) TotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	return s.transactions.TotalRevenue(ctx)
}
