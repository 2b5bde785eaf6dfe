// internal/domain/models.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Store represents a retail store location
type Store struct {
	ID         string          `json:"id" db:"store_id"`
	Name       string          `json:"name" db:"store_name"`
	Location   string          `json:"location" db:"location"`
	Manager    string          `json:"manager" db:"manager"`
	TotalValue decimal.Decimal `json:"totalValue" db:"total_value"`
}

// ProductLine is one product (SKU) stocked at one store
type ProductLine struct {
	StoreID       string          `json:"storeId" db:"store_id"`
	ProductID     string          `json:"id" db:"product_id"`
	Name          string          `json:"name" db:"name"`
	Category      string          `json:"category" db:"category"`
	CurrentStock  int             `json:"currentStock" db:"current_stock"`
	MinThreshold  int             `json:"minThreshold" db:"min_threshold"`
	MaxCapacity   int             `json:"maxCapacity" db:"max_capacity"`
	Price         decimal.Decimal `json:"price" db:"price"`
	LastRestocked string          `json:"lastRestocked" db:"last_restocked"`
	Trend         Trend           `json:"trend" db:"trend"`
	HolidayImpact float64         `json:"holidayImpact" db:"holiday_impact"`
}

// IsLowStock reports whether the line is at or below its minimum threshold.
func (p ProductLine) IsLowStock() bool {
	return p.CurrentStock <= p.MinThreshold
}

// IsCritical reports whether the line is at or below half its minimum threshold.
func (p ProductLine) IsCritical() bool {
	return float64(p.CurrentStock) <= float64(p.MinThreshold)*0.5
}

// SalesRecord is a single day of sales for a product line
type SalesRecord struct {
	ProductID string          `json:"product_id" db:"product_id"`
	StoreID   string          `json:"store_id" db:"store_id"`
	Date      time.Time       `json:"date" db:"date"`
	UnitsSold int             `json:"units_sold" db:"units_sold"`
	Revenue   decimal.Decimal `json:"revenue" db:"revenue"`
}

// DistanceEdge is the road distance between two stores. Lookups are symmetric.
type DistanceEdge struct {
	StoreA     string  `json:"store1_id" db:"store1_id"`
	StoreB     string  `json:"store2_id" db:"store2_id"`
	DistanceKm float64 `json:"distance_km" db:"distance_km"`
}

// WarehouseStock is central warehouse availability, keyed by product name
type WarehouseStock struct {
	ProductName    string `json:"product_name" db:"product_name"`
	AvailableStock int    `json:"available_stock" db:"available_stock"`
	Location       string `json:"warehouse_location" db:"warehouse_location"`
}

// Holiday raises demand for the listed categories around its date
type Holiday struct {
	Name               string    `json:"holiday_name" db:"holiday_name"`
	Date               time.Time `json:"date" db:"date"`
	ImpactMultiplier   float64   `json:"impact_multiplier" db:"impact_multiplier"`
	AffectedCategories []string  `json:"affected_categories" db:"-"`
}

// RebalanceSuggestion proposes moving surplus stock from one store to another
type RebalanceSuggestion struct {
	FromStore   string  `json:"from_store"`
	ToStore     string  `json:"to_store"`
	ProductName string  `json:"product_name"`
	TransferQty float64 `json:"transfer_qty"`
	Distance    float64 `json:"distance"`
	Priority    float64 `json:"priority"`
}

// WarehouseOrder proposes replenishing a store from central warehouse stock
type WarehouseOrder struct {
	StoreID           string    `json:"store_id"`
	ProductName       string    `json:"product_name"`
	ProductID         string    `json:"product_id"`
	OrderQty          int       `json:"order_qty"`
	Urgency           Urgency   `json:"urgency"`
	EstimatedDelivery time.Time `json:"estimated_delivery"`
	WarehouseLocation string    `json:"warehouse_location"`
}

// StoreSummary is a store together with its low-stock alert count
type StoreSummary struct {
	Store
	AlertCount int `json:"alertCount"`
}

// ProductView is a product line annotated with its depletion forecast
type ProductView struct {
	ProductLine
	PredictedOutOfStock time.Time `json:"predictedOutOfStock"`
}

// Alert flags a low-stock product line
type Alert struct {
	ID        string    `json:"id"`
	StoreID   string    `json:"storeId"`
	ProductID string    `json:"productId"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Severity  Urgency   `json:"severity"`
	Timestamp time.Time `json:"timestamp"`
}

// Insight is a short analytic observation for a store
type Insight struct {
	Type     string  `json:"type"`
	Title    string  `json:"title"`
	Message  string  `json:"message"`
	Severity Urgency `json:"severity"`
	Action   string  `json:"action"`
}

// AnalyticsOverview aggregates stock health across all stores
type AnalyticsOverview struct {
	TotalProducts      int             `json:"totalProducts"`
	LowStockCount      int             `json:"lowStockCount"`
	CriticalStockCount int             `json:"criticalStockCount"`
	AvgStockLevel      float64         `json:"avgStockLevel"`
	InventoryValue     decimal.Decimal `json:"inventoryValue"`
}

// EmergencyDashboard summarises shortages and the actions proposed for them
type EmergencyDashboard struct {
	CriticalShortages      int                   `json:"critical_shortages"`
	PendingTransfers       int                   `json:"pending_transfers"`
	PendingWarehouseOrders int                   `json:"pending_warehouse_orders"`
	RebalanceSuggestions   []RebalanceSuggestion `json:"rebalance_suggestions"`
	WarehouseOrders        []WarehouseOrder      `json:"warehouse_orders"`
	SnapshotVersion        string                `json:"snapshot_version"`
}

// TransferRequest is an accepted store-to-store transfer
type TransferRequest struct {
	FromStore   string  `json:"from_store" binding:"required"`
	ToStore     string  `json:"to_store" binding:"required"`
	ProductName string  `json:"product_name" binding:"required"`
	TransferQty float64 `json:"transfer_qty" binding:"required,gt=0"`
}

// TransferRecord is a persisted transfer
type TransferRecord struct {
	TransferID  string     `json:"transfer_id" db:"transfer_id"`
	FromStore   string     `json:"from_store" db:"from_store"`
	ToStore     string     `json:"to_store" db:"to_store"`
	ProductName string     `json:"product_name" db:"product_name"`
	Quantity    float64    `json:"quantity" db:"quantity"`
	Status      string     `json:"status" db:"status"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// OrderRequest is an accepted warehouse order
type OrderRequest struct {
	StoreID     string  `json:"store_id" binding:"required"`
	ProductName string  `json:"product_name" binding:"required"`
	OrderQty    int     `json:"order_qty" binding:"required,gt=0"`
	Urgency     Urgency `json:"urgency"`
}

// OrderRecord is a persisted warehouse order
type OrderRecord struct {
	OrderID           string    `json:"order_id" db:"order_id"`
	StoreID           string    `json:"store_id" db:"store_id"`
	ProductName       string    `json:"product_name" db:"product_name"`
	Quantity          int       `json:"quantity" db:"quantity"`
	Urgency           Urgency   `json:"urgency" db:"urgency"`
	Status            string    `json:"status" db:"status"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	EstimatedDelivery time.Time `json:"estimated_delivery" db:"estimated_delivery"`
}

// ActionReceipt acknowledges an accepted transfer or order
type ActionReceipt struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Message string `json:"message"`
}
