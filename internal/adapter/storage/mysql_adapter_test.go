package storage

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"

	"github.com/ardenlim/stockpoint/internal/core/domain"
)

func getMySQLAdapter(t *testing.T) *MySQLAdapter {
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(localhost:3306)/stockpoint_test?parseTime=true"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	adapter := NewMySQLAdapter(db)
	if err := adapter.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return adapter
}

func seedPurchaseRow(t *testing.T, adapter *MySQLAdapter, stock int, price string) (*domain.Customer, *domain.InventoryItem) {
	t.Helper()
	ctx := context.Background()

	customer, err := adapter.CreateCustomer(ctx, &domain.Customer{
		Name: "Buyer", Email: "buyer+" + t.Name() + "@test.local", PinHash: "x",
	})
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}
	item, err := adapter.CreateItem(ctx, &domain.InventoryItem{
		Name: "Widget " + t.Name(), Category: "test", Quantity: stock,
		UnitPrice: decimal.RequireFromString(price),
	})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	t.Cleanup(func() {
		adapter.DeleteItem(ctx, item.ID)
		adapter.DeleteCustomer(ctx, customer.ID)
	})
	return customer, item
}

func TestMySQLCreatePurchase_Success(t *testing.T) {
	adapter := getMySQLAdapter(t)
	ctx := context.Background()
	customer, item := seedPurchaseRow(t, adapter, 10, "4.50")

	tx, err := adapter.CreatePurchase(ctx, customer.ID, item.ID, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tx.TotalPrice.Equal(decimal.RequireFromString("13.50")) {
		t.Errorf("expected total 13.50, got %s", tx.TotalPrice)
	}

	after, err := adapter.GetItemByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if after.Quantity != 7 {
		t.Errorf("expected stock 7, got %d", after.Quantity)
	}
}

func TestMySQLCreatePurchase_Insufficient(t *testing.T) {
	adapter := getMySQLAdapter(t)
	ctx := context.Background()
	customer, item := seedPurchaseRow(t, adapter, 2, "4.50")

	_, err := adapter.CreatePurchase(ctx, customer.ID, item.ID, 3)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	after, _ := adapter.GetItemByID(ctx, item.ID)
	if after.Quantity != 2 {
		t.Errorf("expected stock unchanged at 2, got %d", after.Quantity)
	}
	txs, _ := adapter.ListTransactionsByItem(ctx, item.ID)
	if len(txs) != 0 {
		t.Errorf("expected no transaction rows, got %d", len(txs))
	}
}

func TestMySQLCreatePurchase_UnknownItem(t *testing.T) {
	adapter := getMySQLAdapter(t)
	ctx := context.Background()
	customer, _ := seedPurchaseRow(t, adapter, 1, "1.00")

	_, err := adapter.CreatePurchase(ctx, customer.ID, 99999999, 1)
	if !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestMySQLCreatePurchase_Concurrent(t *testing.T) {
	adapter := getMySQLAdapter(t)
	ctx := context.Background()

	initialStock := 20
	totalRequests := 50
	customer, item := seedPurchaseRow(t, adapter, initialStock, "1.00")

	var success, rejected atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := adapter.CreatePurchase(ctx, customer.ID, item.ID, 1)
			switch {
			case err == nil:
				success.Add(1)
			case errors.Is(err, ErrInsufficientStock):
				rejected.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if success.Load() != int32(initialStock) {
		t.Errorf("expected %d successes, got %d", initialStock, success.Load())
	}
	if rejected.Load() != int32(totalRequests-initialStock) {
		t.Errorf("expected %d rejections, got %d", totalRequests-initialStock, rejected.Load())
	}

	after, _ := adapter.GetItemByID(ctx, item.ID)
	if after.Quantity != 0 {
		t.Errorf("expected stock 0, got %d", after.Quantity)
	}
}

func TestMySQLStaffCRUD(t *testing.T) {
	adapter := getMySQLAdapter(t)
	ctx := context.Background()

	created, err := adapter.CreateStaff(ctx, &domain.Staff{
		Name: "Crud Staff", Email: "crud+" + t.Name() + "@test.local",
		PasswordHash: "h", Designation: "STAFF",
		Privileges: []string{"inventory", "reports"},
		Status:     domain.StaffActive,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	t.Cleanup(func() { adapter.DeleteStaff(ctx, created.ID) })

	got, err := adapter.GetStaffByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.Email != created.Email {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if len(got.Privileges) != 2 {
		t.Errorf("expected 2 privileges, got %v", got.Privileges)
	}

	got.Department = "Ops"
	updated, err := adapter.UpdateStaff(ctx, got)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Department != "Ops" {
		t.Errorf("expected department Ops, got %s", updated.Department)
	}

	deleted, err := adapter.DeleteStaff(ctx, created.ID)
	if err != nil || !deleted {
		t.Fatalf("delete: %v deleted=%v", err, deleted)
	}
	missing, err := adapter.GetStaffByID(ctx, created.ID)
	if err != nil || missing != nil {
		t.Errorf("expected nil after delete, got %+v err=%v", missing, err)
	}
}
