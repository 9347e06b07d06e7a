package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ardenlim/stockpoint/internal/core/domain"
)

// ErrInsufficientStock is returned by CreatePurchase when the conditional
// decrement matches no row: the item is missing or stock < quantity.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrItemNotFound is returned by CreatePurchase when the item does not exist at all.
var ErrItemNotFound = errors.New("item not found")

type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

// EnsureSchema creates the tables when they do not exist yet.
func (m *MySQLAdapter) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS staff (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			designation VARCHAR(32) NOT NULL,
			department VARCHAR(255) NOT NULL DEFAULT '',
			phone_number VARCHAR(32) NOT NULL DEFAULT '',
			privileges TEXT,
			status VARCHAR(16) NOT NULL DEFAULT 'ACTIVE',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS customers (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL UNIQUE,
			pin_hash VARCHAR(255) NOT NULL,
			phone_number VARCHAR(32) NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS inventory_stock (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			category VARCHAR(255) NOT NULL DEFAULT '',
			quantity INT NOT NULL,
			unit_price DECIMAL(10,2) NOT NULL,
			description TEXT,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			customer_id BIGINT NOT NULL,
			item_id BIGINT NOT NULL,
			quantity INT NOT NULL,
			unit_price_at_sale DECIMAL(10,2) NOT NULL,
			total_price DECIMAL(10,2) NOT NULL,
			created_at DATETIME NOT NULL,
			INDEX idx_transactions_customer (customer_id),
			INDEX idx_transactions_item (item_id)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// CreatePurchase is the authoritative check-and-decrement. The conditional
// UPDATE takes a row lock on the item, so concurrent purchases against the
// same item serialize here; the transaction row is appended in the same
// database transaction with the unit price in force at that moment.
func (m *MySQLAdapter) CreatePurchase(ctx context.Context, customerID, itemID int64, quantity int) (*domain.Transaction, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE inventory_stock
		SET quantity = quantity - ?, updated_at = NOW()
		WHERE id = ? AND quantity >= ?`,
		quantity, itemID, quantity,
	)
	if err != nil {
		return nil, fmt.Errorf("decrement stock: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		var available int
		err := tx.QueryRowContext(ctx,
			`SELECT quantity FROM inventory_stock WHERE id = ?`, itemID,
		).Scan(&available)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("query stock: %w", err)
		}
		return nil, fmt.Errorf("%w: available %d", ErrInsufficientStock, available)
	}

	var unitPrice decimal.Decimal
	if err := tx.QueryRowContext(ctx,
		`SELECT unit_price FROM inventory_stock WHERE id = ?`, itemID,
	).Scan(&unitPrice); err != nil {
		return nil, fmt.Errorf("query unit price: %w", err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	total := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))

	res, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (customer_id, item_id, quantity, unit_price_at_sale, total_price, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		customerID, itemID, quantity, unitPrice, total, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return &domain.Transaction{
		ID:              id,
		CustomerID:      customerID,
		ItemID:          itemID,
		Quantity:        quantity,
		UnitPriceAtSale: unitPrice,
		TotalPrice:      total,
		CreatedAt:       now,
	}, nil
}

func (m *MySQLAdapter) GetTransactionByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	row := m.db.QueryRowContext(ctx, `
		SELECT id, customer_id, item_id, quantity, unit_price_at_sale, total_price, created_at
		FROM transactions WHERE id = ?`, id)
	return scanTransaction(row)
}

func (m *MySQLAdapter) ListTransactions(ctx context.Context) ([]*domain.Transaction, error) {
	return m.queryTransactions(ctx, `
		SELECT id, customer_id, item_id, quantity, unit_price_at_sale, total_price, created_at
		FROM transactions ORDER BY created_at DESC, id DESC`)
}

func (m *MySQLAdapter) ListTransactionsByCustomer(ctx context.Context, customerID int64) ([]*domain.Transaction, error) {
	return m.queryTransactions(ctx, `
		SELECT id, customer_id, item_id, quantity, unit_price_at_sale, total_price, created_at
		FROM transactions WHERE customer_id = ? ORDER BY created_at DESC, id DESC`, customerID)
}

func (m *MySQLAdapter) ListTransactionsByItem(ctx context.Context, itemID int64) ([]*domain.Transaction, error) {
	return m.queryTransactions(ctx, `
		SELECT id, customer_id, item_id, quantity, unit_price_at_sale, total_price, created_at
		FROM transactions WHERE item_id = ? ORDER BY created_at DESC, id DESC`, itemID)
}

func (m *MySQLAdapter) TotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	var revenue decimal.Decimal
	err := m.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(total_price), 0) FROM transactions`,
	).Scan(&revenue)
	if err != nil {
		return decimal.Zero, fmt.Errorf("query revenue: %w", err)
	}
	return revenue, nil
}

func (m *MySQLAdapter) DashboardStats(ctx context.Context, lowStockThreshold int) (*domain.DashboardStats, error) {
	var stats domain.DashboardStats
	err := m.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM staff),
			(SELECT COUNT(*) FROM customers),
			(SELECT COUNT(*) FROM inventory_stock),
			(SELECT COUNT(*) FROM transactions),
			(SELECT COUNT(*) FROM inventory_stock WHERE quantity < ?),
			(SELECT COALESCE(SUM(total_price), 0) FROM transactions)`,
		lowStockThreshold,
	).Scan(
		&stats.TotalStaff, &stats.TotalCustomers, &stats.TotalInventoryItems,
		&stats.TotalTransactions, &stats.LowStockItems, &stats.TotalRevenue,
	)
	if err != nil {
		return nil, fmt.Errorf("query dashboard stats: %w", err)
	}
	return &stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var t domain.Transaction
	err := row.Scan(&t.ID, &t.CustomerID, &t.ItemID, &t.Quantity,
		&t.UnitPriceAtSale, &t.TotalPrice, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	return &t, nil
}

func (m *MySQLAdapter) queryTransactions(ctx context.Context, query string, args ...any) ([]*domain.Transaction, error) {
	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []*domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
