package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"net/http"

	"github.com/ardenlim/stockpoint/internal/core/service"
)

// Machine-readable error codes, so clients branch on code, not on
// message text.
const (
	CodeUnauthenticated    = "UNAUTHENTICATED"
	CodeForbidden          = "FORBIDDEN"
	CodeValidation         = "VALIDATION"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeAccountInactive    = "ACCOUNT_INACTIVE"
	CodeEmailTaken         = "EMAIL_TAKEN"
	CodeNotFound           = "NOT_FOUND"
	CodeInsufficientStock  = "INSUFFICIENT_STOCK"
	CodeInternal           = "INTERNAL"
)

type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func respondOK(c *gin.Context, status int, message string, data any) {
	c.JSON(status, apiResponse{Success: true, Message: message, Data: data})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, apiResponse{Success: false, Message: message, Code: code})
}

// respondServiceError maps service sentinels onto statuses and codes.
// Login failures are 400, not 401: a 401 means an expired session and
// makes clients tear theirs down.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(c, http.StatusBadRequest, CodeInvalidCredentials, "invalid email or credentials")
	case errors.Is(err, service.ErrInactiveAccount):
		respondError(c, http.StatusBadRequest, CodeAccountInactive, "account is inactive")
	case errors.Is(err, service.ErrEmailTaken):
		respondError(c, http.StatusConflict, CodeEmailTaken, "email already registered")
	case errors.Is(err, service.ErrInvalidQuantity):
		respondError(c, http.StatusBadRequest, CodeValidation, "quantity must be at least 1")
	case errors.Is(err, service.ErrInsufficientStock):
		respondError(c, http.StatusConflict, CodeInsufficientStock, "insufficient stock")
	case errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, service.ErrCustomerNotFound),
		errors.Is(err, service.ErrNotFound):
		respondError(c, http.StatusNotFound, CodeNotFound, "record not found")
	default:
		respondError(c, http.StatusInternalServerError, CodeInternal, "internal error")
	}
}
