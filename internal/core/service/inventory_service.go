package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ardenlim/stockpoint/internal/core/domain"
	"github.com/ardenlim/stockpoint/internal/port"
)

// InventoryService is the CRUD and read surface for stock records. Every
// write keeps the stock mirror in step so the purchase fast path stays
// honest; restocking goes through Update, outside the purchase invariant.
type InventoryService struct {
	items port.InventoryRepository
	cache port.StockCache
	log   *zap.Logger
}

func NewInventoryService(items port.InventoryRepository, cache port.StockCache, log *zap.Logger) *InventoryService {
	return &InventoryService{items: items, cache: cache, log: log}
}

func (s *InventoryService) Create(ctx context.Context, item *domain.InventoryItem) (*domain.InventoryItem, error) {
	if item.Quantity < 0 {
		return nil, ErrInvalidQuantity
	}
	created, err := s.items.CreateItem(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	s.mirror(ctx, created.ID, created.Quantity)
	return created, nil
}

func (s *InventoryService) Get(ctx context.Context, id int64) (*domain.InventoryItem, error) {
	item, err := s.items.GetItemByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load item: %w", err)
	}
	if item == nil {
		return nil, ErrNotFound
	}
	return item, nil
}

func (s *InventoryService) List(ctx context.Context) ([]*domain.InventoryItem, error) {
	return s.items.ListItems(ctx)
}

func (s *InventoryService) Update(ctx context.Context, item *domain.InventoryItem) (*domain.InventoryItem, error) {
	if item.Quantity < 0 {
		return nil, ErrInvalidQuantity
	}
	updated, err := s.items.UpdateItem(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	s.mirror(ctx, updated.ID, updated.Quantity)
	return updated, nil
}

func (s *InventoryService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.items.DeleteItem(ctx, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}
	if cerr := s.cache.DeleteStock(ctx, id); cerr != nil {
		s.log.Warn("failed to drop stock mirror", zap.Int64("item_id", id), zap.Error(cerr))
	}
	return nil
}

func (s *InventoryService) Search(ctx context.Context, query string) ([]*domain.InventoryItem, error) {
	return s.items.SearchItems(ctx, query)
}

func (s *InventoryService) ListByCategory(ctx context.Context, category string) ([]*domain.InventoryItem, error) {
	return s.items.ListItemsByCategory(ctx, category)
}

func (s *InventoryService) Categories(ctx context.Context) ([]string, error) {
	return s.items.ItemCategories(ctx)
}

func (s *InventoryService) ListLowStock(ctx context.Context, threshold int) ([]*domain.InventoryItem, error) {
	return s.items.ListLowStockItems(ctx, threshold)
}

func (s *InventoryService) ListAvailable(ctx context.Context) ([]*domain.InventoryItem, error) {
	return s.items.ListAvailableItems(ctx)
}

// WarmMirror pushes every item's quantity into the stock mirror; called
// at startup so the purchase fast path has entries to gate on.
func (s *InventoryService) WarmMirror(ctx context.Context) error {
	items, err := s.items.ListItems(ctx)
	if err != nil {
		return fmt.Errorf("list items: %w", err)
	}
	for _, item := range items {
		if err := s.cache.SetStock(ctx, item.ID, item.Quantity); err != nil {
			return fmt.Errorf("set stock for item %d: %w", item.ID, err)
		}
	}
	s.log.Info("stock mirror warmed", zap.Int("items", len(items)))
	return nil
}

func (s *InventoryService) mirror(ctx context.Context, itemID int64, quantity int) {
	if err := s.cache.SetStock(ctx, itemID, quantity); err != nil {
		s.log.Warn("failed to update stock mirror", zap.Int64("item_id", itemID), zap.Error(err))
	}
}
