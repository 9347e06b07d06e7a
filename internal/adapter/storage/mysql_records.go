package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ardenlim/stockpoint/internal/core/domain"
)

// Staff, customer and inventory records share the plain CRUD shape; the
// purchase path in mysql_adapter.go is the only write with contention.

func joinPrivileges(p []string) string {
	return strings.Join(p, ",")
}

func splitPrivileges(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (m *MySQLAdapter) CreateStaff(ctx context.Context, s *domain.Staff) (*domain.Staff, error) {
	now := time.Now().UTC().Truncate(time.Second)
	res, err := m.db.ExecContext(ctx, `
		INSERT INTO staff (name, email, password_hash, designation, department, phone_number, privileges, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.Name, s.Email, s.PasswordHash, s.Designation, s.Department,
		s.PhoneNumber, joinPrivileges(s.Privileges), s.Status, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert staff: %w", err)
	}
	id, _ := res.LastInsertId()

	created := *s
	created.ID = id
	created.CreatedAt = now
	created.UpdatedAt = now
	return &created, nil
}

func (m *MySQLAdapter) GetStaffByID(ctx context.Context, id int64) (*domain.Staff, error) {
	return m.scanStaffRow(m.db.QueryRowContext(ctx,
		staffSelect+` WHERE id = ?`, id))
}

func (m *MySQLAdapter) GetStaffByEmail(ctx context.Context, email string) (*domain.Staff, error) {
	return m.scanStaffRow(m.db.QueryRowContext(ctx,
		staffSelect+` WHERE email = ?`, email))
}

const staffSelect = `
	SELECT id, name, email, password_hash, designation, department, phone_number, privileges, status, created_at, updated_at
	FROM staff`

func (m *MySQLAdapter) scanStaffRow(row rowScanner) (*domain.Staff, error) {
	var s domain.Staff
	var privileges string
	err := row.Scan(&s.ID, &s.Name, &s.Email, &s.PasswordHash, &s.Designation,
		&s.Department, &s.PhoneNumber, &privileges, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan staff: %w", err)
	}
	s.Privileges = splitPrivileges(privileges)
	return &s, nil
}

func (m *MySQLAdapter) ListStaff(ctx context.Context) ([]*domain.Staff, error) {
	rows, err := m.db.QueryContext(ctx, staffSelect+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query staff: %w", err)
	}
	defer rows.Close()

	var out []*domain.Staff
	for rows.Next() {
		s, err := m.scanStaffRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (m *MySQLAdapter) UpdateStaff(ctx context.Context, s *domain.Staff) (*domain.Staff, error) {
	now := time.Now().UTC().Truncate(time.Second)
	res, err := m.db.ExecContext(ctx, `
		UPDATE staff
		SET name = ?, email = ?, password_hash = ?, designation = ?, department = ?,
		    phone_number = ?, privileges = ?, status = ?, updated_at = ?
		WHERE id = ?`,
		s.Name, s.Email, s.PasswordHash, s.Designation, s.Department,
		s.PhoneNumber, joinPrivileges(s.Privileges), s.Status, now, s.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update staff: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return m.GetStaffByID(ctx, s.ID)
	}
	updated := *s
	updated.UpdatedAt = now
	return &updated, nil
}

func (m *MySQLAdapter) DeleteStaff(ctx context.Context, id int64) (bool, error) {
	res, err := m.db.ExecContext(ctx, `DELETE FROM staff WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete staff: %w", err)
	}
	rows, _ := res.RowsAffected()
	return rows > 0, nil
}

func (m *MySQLAdapter) CreateCustomer(ctx context.Context, c *domain.Customer) (*domain.Customer, error) {
	now := time.Now().UTC().Truncate(time.Second)
	res, err := m.db.ExecContext(ctx, `
		INSERT INTO customers (name, email, pin_hash, phone_number, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		c.Name, c.Email, c.PinHash, c.PhoneNumber, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert customer: %w", err)
	}
	id, _ := res.LastInsertId()

	created := *c
	created.ID = id
	created.CreatedAt = now
	return &created, nil
}

const customerSelect = `
	SELECT id, name, email, pin_hash, phone_number, created_at
	FROM customers`

func (m *MySQLAdapter) scanCustomerRow(row rowScanner) (*domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.PinHash, &c.PhoneNumber, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan customer: %w", err)
	}
	return &c, nil
}

func (m *MySQLAdapter) GetCustomerByID(ctx context.Context, id int64) (*domain.Customer, error) {
	return m.scanCustomerRow(m.db.QueryRowContext(ctx, customerSelect+` WHERE id = ?`, id))
}

func (m *MySQLAdapter) GetCustomerByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	return m.scanCustomerRow(m.db.QueryRowContext(ctx, customerSelect+` WHERE email = ?`, email))
}

func (m *MySQLAdapter) ListCustomers(ctx context.Context) ([]*domain.Customer, error) {
	rows, err := m.db.QueryContext(ctx, customerSelect+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	var out []*domain.Customer
	for rows.Next() {
		c, err := m.scanCustomerRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (m *MySQLAdapter) UpdateCustomer(ctx context.Context, c *domain.Customer) (*domain.Customer, error) {
	_, err := m.db.ExecContext(ctx, `
		UPDATE customers SET name = ?, email = ?, pin_hash = ?, phone_number = ? WHERE id = ?`,
		c.Name, c.Email, c.PinHash, c.PhoneNumber, c.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update customer: %w", err)
	}
	return m.GetCustomerByID(ctx, c.ID)
}

func (m *MySQLAdapter) DeleteCustomer(ctx context.Context, id int64) (bool, error) {
	res, err := m.db.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete customer: %w", err)
	}
	rows, _ := res.RowsAffected()
	return rows > 0, nil
}

const inventorySelect = `
	SELECT id, name, category, quantity, unit_price, description, updated_at
	FROM inventory_stock`

func (m *MySQLAdapter) CreateItem(ctx context.Context, item *domain.InventoryItem) (*domain.InventoryItem, error) {
	now := time.Now().UTC().Truncate(time.Second)
	res, err := m.db.ExecContext(ctx, `
		INSERT INTO inventory_stock (name, category, quantity, unit_price, description, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		item.Name, item.Category, item.Quantity, item.UnitPrice, item.Description, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	id, _ := res.LastInsertId()

	created := *item
	created.ID = id
	created.UpdatedAt = now
	return &created, nil
}

func (m *MySQLAdapter) scanItemRow(row rowScanner) (*domain.InventoryItem, error) {
	var it domain.InventoryItem
	err := row.Scan(&it.ID, &it.Name, &it.Category, &it.Quantity,
		&it.UnitPrice, &it.Description, &it.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan item: %w", err)
	}
	return &it, nil
}

func (m *MySQLAdapter) GetItemByID(ctx context.Context, id int64) (*domain.InventoryItem, error) {
	return m.scanItemRow(m.db.QueryRowContext(ctx, inventorySelect+` WHERE id = ?`, id))
}

func (m *MySQLAdapter) queryItems(ctx context.Context, query string, args ...any) ([]*domain.InventoryItem, error) {
	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var out []*domain.InventoryItem
	for rows.Next() {
		it, err := m.scanItemRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (m *MySQLAdapter) ListItems(ctx context.Context) ([]*domain.InventoryItem, error) {
	return m.queryItems(ctx, inventorySelect+` ORDER BY id`)
}

func (m *MySQLAdapter) UpdateItem(ctx context.Context, item *domain.InventoryItem) (*domain.InventoryItem, error) {
	now := time.Now().UTC().Truncate(time.Second)
	res, err := m.db.ExecContext(ctx, `
		UPDATE inventory_stock
		SET name = ?, category = ?, quantity = ?, unit_price = ?, description = ?, updated_at = ?
		WHERE id = ?`,
		item.Name, item.Category, item.Quantity, item.UnitPrice, item.Description, now, item.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return m.GetItemByID(ctx, item.ID)
	}
	updated := *item
	updated.UpdatedAt = now
	return &updated, nil
}

func (m *MySQLAdapter) DeleteItem(ctx context.Context, id int64) (bool, error) {
	res, err := m.db.ExecContext(ctx, `DELETE FROM inventory_stock WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete item: %w", err)
	}
	rows, _ := res.RowsAffected()
	return rows > 0, nil
}

func (m *MySQLAdapter) SearchItems(ctx context.Context, query string) ([]*domain.InventoryItem, error) {
	like := "%" + query + "%"
	return m.queryItems(ctx,
		inventorySelect+` WHERE name LIKE ? OR category LIKE ? ORDER BY id`, like, like)
}

func (m *MySQLAdapter) ListItemsByCategory(ctx context.Context, category string) ([]*domain.InventoryItem, error) {
	return m.queryItems(ctx, inventorySelect+` WHERE category = ? ORDER BY id`, category)
}

func (m *MySQLAdapter) ItemCategories(ctx context.Context) ([]string, error) {
	rows, err := m.db.QueryContext(ctx,
		`SELECT DISTINCT category FROM inventory_stock WHERE category <> '' ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (m *MySQLAdapter) ListLowStockItems(ctx context.Context, threshold int) ([]*domain.InventoryItem, error) {
	return m.queryItems(ctx, inventorySelect+` WHERE quantity < ? ORDER BY quantity, id`, threshold)
}

func (m *MySQLAdapter) ListAvailableItems(ctx context.Context) ([]*domain.InventoryItem, error) {
	return m.queryItems(ctx, inventorySelect+` WHERE quantity > 0 ORDER BY id`)
}
