package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/ardenlim/stockpoint/internal/core/domain"
	"github.com/ardenlim/stockpoint/internal/core/service"
)

type staffRequest struct {
	Name        string   `json:"name" binding:"required"`
	Email       string   `json:"email" binding:"required,email"`
	Password    string   `json:"password"`
	Designation string   `json:"designation" binding:"required,oneof=ADMIN STAFF"`
	Department  string   `json:"department"`
	PhoneNumber string   `json:"phoneNumber"`
	Privileges  []string `json:"privileges"`
	Status      string   `json:"status"`
}

func (h *HTTPHandler) listStaff(c *gin.Context) {
	staff, err := h.staff.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", staff)
}

func (h *HTTPHandler) getStaff(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	staff, err := h.staff.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", staff)
}

func (h *HTTPHandler) createStaff(c *gin.Context) {
	var req staffRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Password == "" {
		respondError(c, http.StatusBadRequest, CodeValidation, "invalid staff payload")
		return
	}

	staff, err := h.staff.Create(c.Request.Context(), service.CreateStaffInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Designation: req.Designation,
		Department:  req.Department,
		PhoneNumber: req.PhoneNumber,
		Privileges:  req.Privileges,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "staff created", staff)
}

func (h *HTTPHandler) updateStaff(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req staffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidation, "invalid staff payload")
		return
	}

	status := domain.StaffStatus(req.Status)
	if status == "" {
		status = domain.StaffActive
	}

	staff, err := h.staff.Update(c.Request.Context(), id, service.UpdateStaffInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Designation: req.Designation,
		Department:  req.Department,
		PhoneNumber: req.PhoneNumber,
		Privileges:  req.Privileges,
		Status:      status,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "staff updated", staff)
}

func (h *HTTPHandler) deleteStaff(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.staff.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "staff deleted", nil)
}

type customerRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Pin         string `json:"pin"`
	PhoneNumber string `json:"phoneNumber"`
}

func (h *HTTPHandler) listCustomers(c *gin.Context) {
	customers, err := h.customers.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", customers)
}

func (h *HTTPHandler) getCustomer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	customer, err := h.customers.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", customer)
}

func (h *HTTPHandler) createCustomer(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Pin == "" {
		respondError(c, http.StatusBadRequest, CodeValidation, "invalid customer payload")
		return
	}

	customer, err := h.customers.Create(c.Request.Context(), service.UpsertCustomerInput{
		Name:        req.Name,
		Email:       req.Email,
		Pin:         req.Pin,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "customer created", customer)
}

func (h *HTTPHandler) updateCustomer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidation, "invalid customer payload")
		return
	}

	customer, err := h.customers.Update(c.Request.Context(), id, service.UpsertCustomerInput{
		Name:        req.Name,
		Email:       req.Email,
		Pin:         req.Pin,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "customer updated", customer)
}

func (h *HTTPHandler) deleteCustomer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.customers.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "customer deleted", nil)
}

type inventoryRequest struct {
	Name        string          `json:"name" binding:"required"`
	Category    string          `json:"category"`
	Quantity    *int            `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Description string          `json:"description"`
}

func (h *HTTPHandler) listInventory(c *gin.Context) {
	items, err := h.inventory.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", items)
}

func (h *HTTPHandler) getInventoryItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	item, err := h.inventory.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", item)
}

func (h *HTTPHandler) createInventoryItem(c *gin.Context) {
	var req inventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidation, "invalid inventory payload")
		return
	}
	if req.UnitPrice.IsNegative() {
		respondError(c, http.StatusBadRequest, CodeValidation, "unit price must not be negative")
		return
	}

	item, err := h.inventory.Create(c.Request.Context(), &domain.InventoryItem{
		Name:        req.Name,
		Category:    req.Category,
		Quantity:    *req.Quantity,
		UnitPrice:   req.UnitPrice,
		Description: req.Description,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "item created", item)
}

func (h *HTTPHandler) updateInventoryItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req inventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidation, "invalid inventory payload")
		return
	}
	if req.UnitPrice.IsNegative() {
		respondError(c, http.StatusBadRequest, CodeValidation, "unit price must not be negative")
		return
	}

	item, err := h.inventory.Update(c.Request.Context(), &domain.InventoryItem{
		ID:          id,
		Name:        req.Name,
		Category:    req.Category,
		Quantity:    *req.Quantity,
		UnitPrice:   req.UnitPrice,
		Description: req.Description,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "item updated", item)
}

func (h *HTTPHandler) deleteInventoryItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.inventory.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "item deleted", nil)
}

func (h *HTTPHandler) searchInventory(c *gin.Context) {
	items, err := h.inventory.Search(c.Request.Context(), c.Query("query"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", items)
}

func (h *HTTPHandler) inventoryCategories(c *gin.Context) {
	categories, err := h.inventory.Categories(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", categories)
}

func (h *HTTPHandler) inventoryByCategory(c *gin.Context) {
	items, err := h.inventory.ListByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", items)
}

func (h *HTTPHandler) lowStockInventory(c *gin.Context) {
	threshold := 10
	if v := c.Query("threshold"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondError(c, http.StatusBadRequest, CodeValidation, "invalid threshold")
			return
		}
		threshold = n
	}

	items, err := h.inventory.ListLowStock(c.Request.Context(), threshold)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", items)
}

func (h *HTTPHandler) availableInventory(c *gin.Context) {
	items, err := h.inventory.ListAvailable(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", items)
}
