package domain

import "github.com/shopspring/decimal"

// DashboardStats is the aggregate read backing the staff dashboard.
type DashboardStats struct {
	TotalStaff          int64           `json:"totalStaff"`
	TotalCustomers      int64           `json:"totalCustomers"`
	TotalInventoryItems int64           `json:"totalInventoryItems"`
	TotalTransactions   int64           `json:"totalTransactions"`
	LowStockItems       int64           `json:"lowStockItems"`
	TotalRevenue        decimal.Decimal `json:"totalRevenue"`
}
