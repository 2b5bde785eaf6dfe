package handlers

import (
	"fmt"
	"net/http"

	"github.com/andresuchdata/stockguard/internal/domain"
	"github.com/andresuchdata/stockguard/internal/service"
	"github.com/gin-gonic/gin"
)

const (
	defaultListLimit    = 10
	defaultHistoryLimit = 50
)

type RebalanceHandler struct {
	service *service.RebalanceService
}

func NewRebalanceHandler(service *service.RebalanceService) *RebalanceHandler {
	return &RebalanceHandler{service: service}
}

// GetSuggestions returns the top store-to-store transfer suggestions
func (h *RebalanceHandler) GetSuggestions(c *gin.Context) {
	limit := parsePositiveIntWithDefault(c.Query("limit"), defaultListLimit)
	suggestions, err := h.service.Suggestions(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err, "failed to compute rebalance suggestions")
		return
	}

	c.JSON(http.StatusOK, suggestions)
}

// ExecuteTransfer records an accepted transfer
func (h *RebalanceHandler) ExecuteTransfer(c *gin.Context) {
	var req domain.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err), "invalid transfer request")
		return
	}

	receipt, err := h.service.ExecuteTransfer(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "failed to execute transfer")
		return
	}

	c.JSON(http.StatusOK, receipt)
}

// GetTransfers lists recorded transfers, newest first
func (h *RebalanceHandler) GetTransfers(c *gin.Context) {
	limit := parsePositiveIntWithDefault(c.Query("limit"), defaultHistoryLimit)
	transfers, err := h.service.Transfers(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err, "failed to fetch transfers")
		return
	}

	c.JSON(http.StatusOK, transfers)
}

// GetWarehouseOrders returns the most urgent warehouse replenishment orders
func (h *RebalanceHandler) GetWarehouseOrders(c *gin.Context) {
	limit := parsePositiveIntWithDefault(c.Query("limit"), defaultListLimit)
	orders, err := h.service.Orders(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err, "failed to compute warehouse orders")
		return
	}

	c.JSON(http.StatusOK, orders)
}

// PlaceOrder records an accepted warehouse order
func (h *RebalanceHandler) PlaceOrder(c *gin.Context) {
	var req domain.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err), "invalid order request")
		return
	}

	receipt, err := h.service.PlaceOrder(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "failed to place warehouse order")
		return
	}

	c.JSON(http.StatusOK, receipt)
}

func (h *RebalanceHandler) GetPlacedOrders(c *gin.Context) {
	limit := parsePositiveIntWithDefault(c.Query("limit"), defaultHistoryLimit)
	orders, err := h.service.PlacedOrders(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err, "failed to fetch placed orders")
		return
	}

	c.JSON(http.StatusOK, orders)
}

// GetEmergencyDashboard returns critical shortages and proposed actions
func (h *RebalanceHandler) GetEmergencyDashboard(c *gin.Context) {
	dashboard, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to build emergency dashboard")
		return
	}

	c.JSON(http.StatusOK, dashboard)
}
