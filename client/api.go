package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ardenlim/stockpoint/internal/core/domain"
)

// Client is the typed API surface over the gateway. Login calls install
// the session; everything else rides on whatever session is current.
type Client struct {
	gw       *Gateway
	sessions *SessionStore
	log      *zap.Logger
}

func New(baseURL string, sessions *SessionStore, navigate func(route string), log *zap.Logger) *Client {
	return &Client{
		gw:       NewGateway(baseURL, sessions, navigate, log),
		sessions: sessions,
		log:      log,
	}
}

// Sessions exposes the underlying store for route guards.
func (c *Client) Sessions() *SessionStore { return c.sessions }

type loginPayload struct {
	User  domain.Identity `json:"user"`
	Token string          `json:"token"`
}

// StaffLogin authenticates a staff member and establishes the session.
func (c *Client) StaffLogin(ctx context.Context, email, password string) (*Session, error) {
	return c.login(ctx, "/api/auth/staff/login", map[string]string{
		"email":    email,
		"password": password,
	})
}

// CustomerLogin authenticates a customer and establishes the session.
func (c *Client) CustomerLogin(ctx context.Context, email, pin string) (*Session, error) {
	return c.login(ctx, "/api/auth/customer/login", map[string]string{
		"email": email,
		"pin":   pin,
	})
}

func (c *Client) login(ctx context.Context, path string, body map[string]string) (*Session, error) {
	var payload loginPayload
	if err := c.gw.do(ctx, http.MethodPost, path, body, &payload); err != nil {
		return nil, err
	}
	if err := c.sessions.Establish(payload.User, payload.Token); err != nil {
		return nil, err
	}
	c.log.Info("logged in",
		zap.Int64("id", payload.User.ID),
		zap.String("role", string(payload.User.Role)))
	return c.sessions.Current(), nil
}

// RegisterInput is the customer self-registration form.
type RegisterInput struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Pin         string `json:"pin" validate:"required,min=4"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,min=6"`
}

// Register creates a customer account. The input is validated locally
// first so malformed forms never cost a round trip.
func (c *Client) Register(ctx context.Context, in RegisterInput) (*domain.Customer, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	var customer domain.Customer
	if err := c.gw.do(ctx, http.MethodPost, "/api/auth/customer/register", in, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// Logout tears down the local session. The token is stateless server
// side, so there is nothing to revoke remotely.
func (c *Client) Logout() {
	c.sessions.Clear()
}

// Inventory reads.

func (c *Client) ListInventory(ctx context.Context) ([]*domain.InventoryItem, error) {
	var items []*domain.InventoryItem
	err := c.gw.do(ctx, http.MethodGet, "/api/inventory", nil, &items)
	return items, err
}

func (c *Client) GetItem(ctx context.Context, id int64) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	if err := c.gw.do(ctx, http.MethodGet, fmt.Sprintf("/api/inventory/%d", id), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) SearchInventory(ctx context.Context, query string) ([]*domain.InventoryItem, error) {
	var items []*domain.InventoryItem
	err := c.gw.do(ctx, http.MethodGet, "/api/inventory/search?query="+url.QueryEscape(query), nil, &items)
	return items, err
}

func (c *Client) ItemCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := c.gw.do(ctx, http.MethodGet, "/api/inventory/categories", nil, &categories)
	return categories, err
}

func (c *Client) ItemsByCategory(ctx context.Context, category string) ([]*domain.InventoryItem, error) {
	var items []*domain.InventoryItem
	err := c.gw.do(ctx, http.MethodGet, "/api/inventory/category/"+url.PathEscape(category), nil, &items)
	return items, err
}

func (c *Client) LowStockItems(ctx context.Context, threshold int) ([]*domain.InventoryItem, error) {
	var items []*domain.InventoryItem
	err := c.gw.do(ctx, http.MethodGet, fmt.Sprintf("/api/inventory/low-stock?threshold=%d", threshold), nil, &items)
	return items, err
}

func (c *Client) AvailableItems(ctx context.Context) ([]*domain.InventoryItem, error) {
	var items []*domain.InventoryItem
	err := c.gw.do(ctx, http.MethodGet, "/api/inventory/available", nil, &items)
	return items, err
}

// Inventory writes, gated server side to staff and admin.

// ItemInput is the create/update form for an inventory record.
type ItemInput struct {
	Name        string          `json:"name" validate:"required"`
	Category    string          `json:"category"`
	Quantity    int             `json:"quantity" validate:"min=0"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Description string          `json:"description"`
}

func (c *Client) CreateItem(ctx context.Context, in ItemInput) (*domain.InventoryItem, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	var item domain.InventoryItem
	if err := c.gw.do(ctx, http.MethodPost, "/api/inventory", in, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) UpdateItem(ctx context.Context, id int64, in ItemInput) (*domain.InventoryItem, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	var item domain.InventoryItem
	if err := c.gw.do(ctx, http.MethodPut, fmt.Sprintf("/api/inventory/%d", id), in, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) DeleteItem(ctx context.Context, id int64) error {
	return c.gw.do(ctx, http.MethodDelete, fmt.Sprintf("/api/inventory/%d", id), nil, nil)
}

// Staff management, admin only.

// StaffInput is the create/update form for a staff record.
type StaffInput struct {
	Name        string   `json:"name" validate:"required"`
	Email       string   `json:"email" validate:"required,email"`
	Password    string   `json:"password"`
	Designation string   `json:"designation" validate:"required,oneof=ADMIN STAFF"`
	Department  string   `json:"department"`
	PhoneNumber string   `json:"phoneNumber"`
	Privileges  []string `json:"privileges"`
	Status      string   `json:"status"`
}

func (c *Client) ListStaff(ctx context.Context) ([]*domain.Staff, error) {
	var staff []*domain.Staff
	err := c.gw.do(ctx, http.MethodGet, "/api/staff", nil, &staff)
	return staff, err
}

func (c *Client) GetStaff(ctx context.Context, id int64) (*domain.Staff, error) {
	var staff domain.Staff
	if err := c.gw.do(ctx, http.MethodGet, fmt.Sprintf("/api/staff/%d", id), nil, &staff); err != nil {
		return nil, err
	}
	return &staff, nil
}

func (c *Client) CreateStaff(ctx context.Context, in StaffInput) (*domain.Staff, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if in.Password == "" {
		return nil, &ValidationError{Field: "password", Message: "required"}
	}
	var staff domain.Staff
	if err := c.gw.do(ctx, http.MethodPost, "/api/staff", in, &staff); err != nil {
		return nil, err
	}
	return &staff, nil
}

func (c *Client) UpdateStaff(ctx context.Context, id int64, in StaffInput) (*domain.Staff, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	var staff domain.Staff
	if err := c.gw.do(ctx, http.MethodPut, fmt.Sprintf("/api/staff/%d", id), in, &staff); err != nil {
		return nil, err
	}
	return &staff, nil
}

func (c *Client) DeleteStaff(ctx context.Context, id int64) error {
	return c.gw.do(ctx, http.MethodDelete, fmt.Sprintf("/api/staff/%d", id), nil, nil)
}

// Customer management, admin only.

// CustomerInput is the create/update form for a customer record.
type CustomerInput struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Pin         string `json:"pin"`
	PhoneNumber string `json:"phoneNumber"`
}

func (c *Client) ListCustomers(ctx context.Context) ([]*domain.Customer, error) {
	var customers []*domain.Customer
	err := c.gw.do(ctx, http.MethodGet, "/api/customers", nil, &customers)
	return customers, err
}

func (c *Client) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	var customer domain.Customer
	if err := c.gw.do(ctx, http.MethodGet, fmt.Sprintf("/api/customers/%d", id), nil, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (c *Client) CreateCustomer(ctx context.Context, in CustomerInput) (*domain.Customer, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if in.Pin == "" {
		return nil, &ValidationError{Field: "pin", Message: "required"}
	}
	var customer domain.Customer
	if err := c.gw.do(ctx, http.MethodPost, "/api/customers", in, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (c *Client) UpdateCustomer(ctx context.Context, id int64, in CustomerInput) (*domain.Customer, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	var customer domain.Customer
	if err := c.gw.do(ctx, http.MethodPut, fmt.Sprintf("/api/customers/%d", id), in, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (c *Client) DeleteCustomer(ctx context.Context, id int64) error {
	return c.gw.do(ctx, http.MethodDelete, fmt.Sprintf("/api/customers/%d", id), nil, nil)
}

// Transactions.

type createTransactionBody struct {
	CustomerID int64 `json:"customerId"`
	ItemID     int64 `json:"itemId"`
	Quantity   int   `json:"quantity"`
}

// CreateTransaction submits a purchase. Most callers go through the
// PurchaseOrchestrator instead, which adds clamping and snapshot
// reconciliation.
func (c *Client) CreateTransaction(ctx context.Context, customerID, itemID int64, quantity int) (*domain.Transaction, error) {
	var tx domain.Transaction
	err := c.gw.do(ctx, http.MethodPost, "/api/transactions", createTransactionBody{
		CustomerID: customerID,
		ItemID:     itemID,
		Quantity:   quantity,
	}, &tx)
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (c *Client) GetTransaction(ctx context.Context, id int64) (*domain.Transaction, error) {
	var tx domain.Transaction
	if err := c.gw.do(ctx, http.MethodGet, fmt.Sprintf("/api/transactions/%d", id), nil, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

func (c *Client) ListTransactions(ctx context.Context) ([]*domain.Transaction, error) {
	var txs []*domain.Transaction
	err := c.gw.do(ctx, http.MethodGet, "/api/transactions", nil, &txs)
	return txs, err
}

func (c *Client) TransactionsByCustomer(ctx context.Context, customerID int64) ([]*domain.Transaction, error) {
	var txs []*domain.Transaction
	err := c.gw.do(ctx, http.MethodGet, fmt.Sprintf("/api/transactions/customer/%d", customerID), nil, &txs)
	return txs, err
}

func (c *Client) TransactionsByItem(ctx context.Context, itemID int64) ([]*domain.Transaction, error) {
	var txs []*domain.Transaction
	err := c.gw.do(ctx, http.MethodGet, fmt.Sprintf("/api/transactions/item/%d", itemID), nil, &txs)
	return txs, err
}

func (c *Client) TotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	var payload struct {
		TotalRevenue decimal.Decimal `json:"totalRevenue"`
	}
	err := c.gw.do(ctx, http.MethodGet, "/api/transactions/revenue", nil, &payload)
	return payload.TotalRevenue, err
}

func (c *Client) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	var stats domain.DashboardStats
	if err := c.gw.do(ctx, http.MethodGet, "/api/dashboard/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
