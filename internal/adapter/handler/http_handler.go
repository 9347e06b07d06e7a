package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ardenlim/stockpoint/internal/auth"
	"github.com/ardenlim/stockpoint/internal/core/domain"
	"github.com/ardenlim/stockpoint/internal/core/service"
)

// HTTPHandler wires the REST surface. Route gating follows the role
// table: staff/admin share the back office, ADMIN alone manages people,
// customers purchase.
type HTTPHandler struct {
	auth         *service.AuthService
	staff        *service.StaffService
	customers    *service.CustomerService
	inventory    *service.InventoryService
	transactions *service.TransactionService
	dashboard    *service.DashboardService
	tokens       *auth.TokenManager
	log          *zap.Logger
}

func NewHTTPHandler(
	authService *service.AuthService,
	staff *service.StaffService,
	customers *service.CustomerService,
	inventory *service.InventoryService,
	transactions *service.TransactionService,
	dashboard *service.DashboardService,
	tokens *auth.TokenManager,
	log *zap.Logger,
) *HTTPHandler {
	return &HTTPHandler{
		auth:         authService,
		staff:        staff,
		customers:    customers,
		inventory:    inventory,
		transactions: transactions,
		dashboard:    dashboard,
		tokens:       tokens,
		log:          log,
	}
}

func (h *HTTPHandler) RegisterRoutes(e *gin.Engine) {
	e.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := e.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/staff/login", h.staffLogin)
	authGroup.POST("/customer/login", h.customerLogin)
	authGroup.POST("/customer/register", h.registerCustomer)

	protected := api.Group("", AuthRequired(h.tokens))
	backOffice := protected.Group("", RequireRoles(domain.RoleAdmin, domain.RoleStaff))
	adminOnly := protected.Group("", RequireRoles(domain.RoleAdmin))

	adminOnly.GET("/staff", h.listStaff)
	adminOnly.GET("/staff/:id", h.getStaff)
	adminOnly.POST("/staff", h.createStaff)
	adminOnly.PUT("/staff/:id", h.updateStaff)
	adminOnly.DELETE("/staff/:id", h.deleteStaff)

	adminOnly.GET("/customers", h.listCustomers)
	adminOnly.GET("/customers/:id", h.getCustomer)
	adminOnly.POST("/customers", h.createCustomer)
	adminOnly.PUT("/customers/:id", h.updateCustomer)
	adminOnly.DELETE("/customers/:id", h.deleteCustomer)

	protected.GET("/inventory", h.listInventory)
	protected.GET("/inventory/:id", h.getInventoryItem)
	protected.GET("/inventory/search", h.searchInventory)
	protected.GET("/inventory/categories", h.inventoryCategories)
	protected.GET("/inventory/category/:category", h.inventoryByCategory)
	protected.GET("/inventory/low-stock", h.lowStockInventory)
	protected.GET("/inventory/available", h.availableInventory)
	backOffice.POST("/inventory", h.createInventoryItem)
	backOffice.PUT("/inventory/:id", h.updateInventoryItem)
	backOffice.DELETE("/inventory/:id", h.deleteInventoryItem)

	protected.POST("/transactions", h.createTransaction)
	protected.GET("/transactions/:id", h.getTransaction)
	protected.GET("/transactions/customer/:id", h.transactionsByCustomer)
	backOffice.GET("/transactions", h.listTransactions)
	backOffice.GET("/transactions/item/:id", h.transactionsByItem)
	backOffice.GET("/transactions/revenue", h.totalRevenue)

	backOffice.GET("/dashboard/stats", h.dashboardStats)
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, CodeValidation, "invalid id")
		return 0, false
	}
	return id, true
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password"`
	Pin      string `json:"pin"`
}

func (h *HTTPHandler) staffLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Password == "" {
		respondError(c, http.StatusBadRequest, CodeValidation, "email and password are required")
		return
	}

	result, err := h.auth.StaffLogin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.log.Warn("staff login rejected", zap.String("email", req.Email), zap.Error(err))
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "login successful", result)
}

func (h *HTTPHandler) customerLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Pin == "" {
		respondError(c, http.StatusBadRequest, CodeValidation, "email and pin are required")
		return
	}

	result, err := h.auth.CustomerLogin(c.Request.Context(), req.Email, req.Pin)
	if err != nil {
		h.log.Warn("customer login rejected", zap.String("email", req.Email), zap.Error(err))
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "login successful", result)
}

type registerRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Pin         string `json:"pin" binding:"required,min=4"`
	PhoneNumber string `json:"phoneNumber"`
}

func (h *HTTPHandler) registerCustomer(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidation, "invalid registration payload")
		return
	}

	customer, err := h.auth.RegisterCustomer(c.Request.Context(), service.RegisterCustomerInput{
		Name:        req.Name,
		Email:       req.Email,
		Pin:         req.Pin,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "registration successful", customer)
}

type createTransactionRequest struct {
	CustomerID int64 `json:"customerId"`
	ItemID     int64 `json:"itemId" binding:"required"`
	Quantity   int   `json:"quantity" binding:"required"`
}

// createTransaction is the purchase operation. Customers always buy for
// themselves regardless of the submitted customerId.
func (h *HTTPHandler) createTransaction(c *gin.Context) {
	var req createTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidation, "invalid purchase payload")
		return
	}

	claims := claimsFrom(c)
	customerID := req.CustomerID
	if domain.Role(claims.Role) == domain.RoleCustomer {
		customerID = claims.ID
	}

	tx, err := h.transactions.Purchase(c.Request.Context(), customerID, req.ItemID, req.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "purchase successful", tx)
}

func (h *HTTPHandler) getTransaction(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	tx, err := h.transactions.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", tx)
}

func (h *HTTPHandler) listTransactions(c *gin.Context) {
	txs, err := h.transactions.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", txs)
}

// transactionsByCustomer lets staff read any ledger; a customer only
// their own.
func (h *HTTPHandler) transactionsByCustomer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	claims := claimsFrom(c)
	if domain.Role(claims.Role) == domain.RoleCustomer && claims.ID != id {
		respondError(c, http.StatusForbidden, CodeForbidden, "cannot view another customer's orders")
		return
	}

	txs, err := h.transactions.ListByCustomer(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", txs)
}

func (h *HTTPHandler) transactionsByItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	txs, err := h.transactions.ListByItem(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", txs)
}

func (h *HTTPHandler) totalRevenue(c *gin.Context) {
	revenue, err := h.transactions.TotalRevenue(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", gin.H{"totalRevenue": revenue})
}

func (h *HTTPHandler) dashboardStats(c *gin.Context) {
	stats, err := h.dashboard.Stats(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", stats)
}
