package handlers

import (
	"net/http"

	"github.com/andresuchdata/stockguard/internal/service"
	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	service *service.InventoryService
}

func NewInventoryHandler(service *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

// GetStores returns all stores with their alert counts
func (h *InventoryHandler) GetStores(c *gin.Context) {
	stores, err := h.service.ListStores(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to fetch stores")
		return
	}

	c.JSON(http.StatusOK, stores)
}

// GetStoreProducts returns a store's products with predicted stock-out times
func (h *InventoryHandler) GetStoreProducts(c *gin.Context) {
	products, err := h.service.StoreProducts(c.Request.Context(), c.Param("store_id"))
	if err != nil {
		respondError(c, err, "failed to fetch store products")
		return
	}

	c.JSON(http.StatusOK, products)
}

func (h *InventoryHandler) GetStoreAlerts(c *gin.Context) {
	alerts, err := h.service.StoreAlerts(c.Request.Context(), c.Param("store_id"))
	if err != nil {
		respondError(c, err, "failed to fetch store alerts")
		return
	}

	c.JSON(http.StatusOK, alerts)
}

func (h *InventoryHandler) GetStoreInsights(c *gin.Context) {
	insights, err := h.service.StoreInsights(c.Request.Context(), c.Param("store_id"))
	if err != nil {
		respondError(c, err, "failed to fetch store insights")
		return
	}

	c.JSON(http.StatusOK, insights)
}

// GetOverview returns stock health aggregated over all stores
func (h *InventoryHandler) GetOverview(c *gin.Context) {
	overview, err := h.service.Overview(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to fetch analytics overview")
		return
	}

	c.JSON(http.StatusOK, overview)
}
