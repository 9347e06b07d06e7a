package port

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ardenlim/stockpoint/internal/core/domain"
)

// Repositories return (nil, nil) when a record does not exist; services
// translate that into their own not-found sentinels.

type StaffRepository interface {
	CreateStaff(ctx context.Context, staff *domain.Staff) (*domain.Staff, error)
	GetStaffByID(ctx context.Context, id int64) (*domain.Staff, error)
	GetStaffByEmail(ctx context.Context, email string) (*domain.Staff, error)
	ListStaff(ctx context.Context) ([]*domain.Staff, error)
	UpdateStaff(ctx context.Context, staff *domain.Staff) (*domain.Staff, error)
	DeleteStaff(ctx context.Context, id int64) (bool, error)
}

type CustomerRepository interface {
	CreateCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	GetCustomerByID(ctx context.Context, id int64) (*domain.Customer, error)
	GetCustomerByEmail(ctx context.Context, email string) (*domain.Customer, error)
	ListCustomers(ctx context.Context) ([]*domain.Customer, error)
	UpdateCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	DeleteCustomer(ctx context.Context, id int64) (bool, error)
}

type InventoryRepository interface {
	CreateItem(ctx context.Context, item *domain.InventoryItem) (*domain.InventoryItem, error)
	GetItemByID(ctx context.Context, id int64) (*domain.InventoryItem, error)
	ListItems(ctx context.Context) ([]*domain.InventoryItem, error)
	UpdateItem(ctx context.Context, item *domain.InventoryItem) (*domain.InventoryItem, error)
	DeleteItem(ctx context.Context, id int64) (bool, error)

	SearchItems(ctx context.Context, query string) ([]*domain.InventoryItem, error)
	ListItemsByCategory(ctx context.Context, category string) ([]*domain.InventoryItem, error)
	ItemCategories(ctx context.Context) ([]string, error)
	ListLowStockItems(ctx context.Context, threshold int) ([]*domain.InventoryItem, error)
	ListAvailableItems(ctx context.Context) ([]*domain.InventoryItem, error)
}

type TransactionRepository interface {
	// CreatePurchase performs the atomic check-and-decrement: verify
	// stock >= quantity, decrement, and append the transaction row with
	// the unit price read in the same database transaction. Returns
	// storage.ErrInsufficientStock when the check fails, leaving both
	// stock and the ledger untouched.
	CreatePurchase(ctx context.Context, customerID, itemID int64, quantity int) (*domain.Transaction, error)

	GetTransactionByID(ctx context.Context, id int64) (*domain.Transaction, error)
	ListTransactions(ctx context.Context) ([]*domain.Transaction, error)
	ListTransactionsByCustomer(ctx context.Context, customerID int64) ([]*domain.Transaction, error)
	ListTransactionsByItem(ctx context.Context, itemID int64) ([]*domain.Transaction, error)
	TotalRevenue(ctx context.Context) (decimal.Decimal, error)
}

type StatsRepository interface {
	DashboardStats(ctx context.Context, lowStockThreshold int) (*domain.DashboardStats, error)
}
