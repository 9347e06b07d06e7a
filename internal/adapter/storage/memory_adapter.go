package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ardenlim/stockpoint/internal/core/domain"
	"github.com/ardenlim/stockpoint/internal/port"
)

// MemoryAdapter is an in-memory implementation of every repository port,
// mutex-guarded so the purchase path keeps the same atomicity contract as
// the MySQL adapter. Used by tests and the integration harness.
type MemoryAdapter struct {
	mu           sync.Mutex
	staff        map[int64]*domain.Staff
	customers    map[int64]*domain.Customer
	items        map[int64]*domain.InventoryItem
	transactions []*domain.Transaction
	nextID       int64
}

func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{
		staff:     make(map[int64]*domain.Staff),
		customers: make(map[int64]*domain.Customer),
		items:     make(map[int64]*domain.InventoryItem),
		nextID:    1,
	}
}

func (m *MemoryAdapter) allocID() int64 {
	id := m.nextID
	m.nextID++
	return id
}

func (m *MemoryAdapter) CreateStaff(_ context.Context, s *domain.Staff) (*domain.Staff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	created := *s
	created.ID = m.allocID()
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	m.staff[created.ID] = &created

	out := created
	return &out, nil
}

func (m *MemoryAdapter) GetStaffByID(_ context.Context, id int64) (*domain.Staff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.staff[id]
	if !ok {
		return nil, nil
	}
	out := *s
	return &out, nil
}

func (m *MemoryAdapter) GetStaffByEmail(_ context.Context, email string) (*domain.Staff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.staff {
		if s.Email == email {
			out := *s
			return &out, nil
		}
	}
	return nil, nil
}

func (m *MemoryAdapter) ListStaff(_ context.Context) ([]*domain.Staff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Staff, 0, len(m.staff))
	for _, s := range m.staff {
		c := *s
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryAdapter) UpdateStaff(_ context.Context, s *domain.Staff) (*domain.Staff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.staff[s.ID]; !ok {
		return nil, nil
	}
	updated := *s
	updated.UpdatedAt = time.Now()
	m.staff[s.ID] = &updated
	out := updated
	return &out, nil
}

func (m *MemoryAdapter) DeleteStaff(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.staff[id]; !ok {
		return false, nil
	}
	delete(m.staff, id)
	return true, nil
}

func (m *MemoryAdapter) CreateCustomer(_ context.Context, c *domain.Customer) (*domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	created := *c
	created.ID = m.allocID()
	created.CreatedAt = time.Now()
	m.customers[created.ID] = &created

	out := created
	return &out, nil
}

func (m *MemoryAdapter) GetCustomerByID(_ context.Context, id int64) (*domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.customers[id]
	if !ok {
		return nil, nil
	}
	out := *c
	return &out, nil
}

func (m *MemoryAdapter) GetCustomerByEmail(_ context.Context, email string) (*domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.customers {
		if c.Email == email {
			out := *c
			return &out, nil
		}
	}
	return nil, nil
}

func (m *MemoryAdapter) ListCustomers(_ context.Context) ([]*domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Customer, 0, len(m.customers))
	for _, c := range m.customers {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryAdapter) UpdateCustomer(_ context.Context, c *domain.Customer) (*domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.customers[c.ID]; !ok {
		return nil, nil
	}
	updated := *c
	m.customers[c.ID] = &updated
	out := updated
	return &out, nil
}

func (m *MemoryAdapter) DeleteCustomer(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.customers[id]; !ok {
		return false, nil
	}
	delete(m.customers, id)
	return true, nil
}

func (m *MemoryAdapter) CreateItem(_ context.Context, item *domain.InventoryItem) (*domain.InventoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	created := *item
	created.ID = m.allocID()
	created.UpdatedAt = time.Now()
	m.items[created.ID] = &created

	out := created
	return &out, nil
}

func (m *MemoryAdapter) GetItemByID(_ context.Context, id int64) (*domain.InventoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	out := *it
	return &out, nil
}

func (m *MemoryAdapter) listItemsLocked(filter func(*domain.InventoryItem) bool) []*domain.InventoryItem {
	out := make([]*domain.InventoryItem, 0, len(m.items))
	for _, it := range m.items {
		if filter == nil || filter(it) {
			cp := *it
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *MemoryAdapter) ListItems(_ context.Context) ([]*domain.InventoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listItemsLocked(nil), nil
}

func (m *MemoryAdapter) UpdateItem(_ context.Context, item *domain.InventoryItem) (*domain.InventoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[item.ID]; !ok {
		return nil, nil
	}
	updated := *item
	updated.UpdatedAt = time.Now()
	m.items[item.ID] = &updated
	out := updated
	return &out, nil
}

func (m *MemoryAdapter) DeleteItem(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return false, nil
	}
	delete(m.items, id)
	return true, nil
}

func (m *MemoryAdapter) SearchItems(_ context.Context, query string) ([]*domain.InventoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q := strings.ToLower(query)
	return m.listItemsLocked(func(it *domain.InventoryItem) bool {
		return strings.Contains(strings.ToLower(it.Name), q) ||
			strings.Contains(strings.ToLower(it.Category), q)
	}), nil
}

func (m *MemoryAdapter) ListItemsByCategory(_ context.Context, category string) ([]*domain.InventoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listItemsLocked(func(it *domain.InventoryItem) bool {
		return it.Category == category
	}), nil
}

func (m *MemoryAdapter) ItemCategories(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[string]bool)
	var out []string
	for _, it := range m.items {
		if it.Category != "" && !seen[it.Category] {
			seen[it.Category] = true
			out = append(out, it.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *MemoryAdapter) ListLowStockItems(_ context.Context, threshold int) ([]*domain.InventoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listItemsLocked(func(it *domain.InventoryItem) bool {
		return it.Quantity < threshold
	}), nil
}

func (m *MemoryAdapter) ListAvailableItems(_ context.Context) ([]*domain.InventoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listItemsLocked(func(it *domain.InventoryItem) bool {
		return it.Quantity > 0
	}), nil
}

// CreatePurchase holds the adapter lock across check, decrement and
// append, mirroring the row-lock serialization of the MySQL adapter.
func (m *MemoryAdapter) CreatePurchase(_ context.Context, customerID, itemID int64, quantity int) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[itemID]
	if !ok {
		return nil, ErrItemNotFound
	}
	if item.Quantity < quantity {
		return nil, fmt.Errorf("%w: available %d", ErrInsufficientStock, item.Quantity)
	}

	item.Quantity -= quantity
	item.UpdatedAt = time.Now()

	total := item.UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	t := &domain.Transaction{
		ID:              m.allocID(),
		CustomerID:      customerID,
		ItemID:          itemID,
		Quantity:        quantity,
		UnitPriceAtSale: item.UnitPrice,
		TotalPrice:      total,
		CreatedAt:       time.Now(),
	}
	m.transactions = append(m.transactions, t)

	out := *t
	return &out, nil
}

func (m *MemoryAdapter) GetTransactionByID(_ context.Context, id int64) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.transactions {
		if t.ID == id {
			out := *t
			return &out, nil
		}
	}
	return nil, nil
}

func (m *MemoryAdapter) listTransactionsLocked(filter func(*domain.Transaction) bool) []*domain.Transaction {
	var out []*domain.Transaction
	for _, t := range m.transactions {
		if filter == nil || filter(t) {
			cp := *t
			out = append(out, &cp)
		}
	}
	// newest first
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (m *MemoryAdapter) ListTransactions(_ context.Context) ([]*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listTransactionsLocked(nil), nil
}

func (m *MemoryAdapter) ListTransactionsByCustomer(_ context.Context, customerID int64) ([]*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listTransactionsLocked(func(t *domain.Transaction) bool {
		return t.CustomerID == customerID
	}), nil
}

func (m *MemoryAdapter) ListTransactionsByItem(_ context.Context, itemID int64) ([]*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listTransactionsLocked(func(t *domain.Transaction) bool {
		return t.ItemID == itemID
	}), nil
}

func (m *MemoryAdapter) TotalRevenue(_ context.Context) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	revenue := decimal.Zero
	for _, t := range m.transactions {
		revenue = revenue.Add(t.TotalPrice)
	}
	return revenue, nil
}

func (m *MemoryAdapter) DashboardStats(_ context.Context, lowStockThreshold int) (*domain.DashboardStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := &domain.DashboardStats{
		TotalStaff:          int64(len(m.staff)),
		TotalCustomers:      int64(len(m.customers)),
		TotalInventoryItems: int64(len(m.items)),
		TotalTransactions:   int64(len(m.transactions)),
		TotalRevenue:        decimal.Zero,
	}
	for _, it := range m.items {
		if it.Quantity < lowStockThreshold {
			stats.LowStockItems++
		}
	}
	for _, t := range m.transactions {
		stats.TotalRevenue = stats.TotalRevenue.Add(t.TotalPrice)
	}
	return stats, nil
}

// MemoryStockCache is the in-process counterpart of the Redis mirror.
type MemoryStockCache struct {
	mu    sync.Mutex
	stock map[int64]int
	stats *domain.DashboardStats
}

func NewMemoryStockCache() *MemoryStockCache {
	return &MemoryStockCache{stock: make(map[int64]int)}
}

func (c *MemoryStockCache) DecrementStock(_ context.Context, itemID int64, quantity int) (port.StockGate, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	current, ok := c.stock[itemID]
	if !ok {
		return port.StockGateUnknown, nil
	}
	if current < quantity {
		return port.StockGateInsufficient, nil
	}
	c.stock[itemID] = current - quantity
	return port.StockGateApplied, nil
}

func (c *MemoryStockCache) IncrementStock(_ context.Context, itemID int64, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stock[itemID] += quantity
	return nil
}

func (c *MemoryStockCache) SetStock(_ context.Context, itemID int64, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stock[itemID] = quantity
	return nil
}

func (c *MemoryStockCache) DeleteStock(_ context.Context, itemID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.stock, itemID)
	return nil
}

func (c *MemoryStockCache) GetDashboardStats(_ context.Context) (*domain.DashboardStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stats == nil {
		return nil, nil
	}
	out := *c.stats
	return &out, nil
}

func (c *MemoryStockCache) SetDashboardStats(_ context.Context, stats *domain.DashboardStats, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *stats
	c.stats = &cp
	return nil
}
