package engine

import (
	"time"

	"github.com/andresuchdata/stockguard/internal/domain"
)

// WarehouseLookup finds central warehouse stock by product name.
type WarehouseLookup interface {
	Warehouse(productName string) (domain.WarehouseStock, bool)
}

// WarehouseIndex is a WarehouseLookup over a fixed stock list. The first
// entry for a product name wins.
type WarehouseIndex map[string]domain.WarehouseStock

func NewWarehouseIndex(stock []domain.WarehouseStock) WarehouseIndex {
	idx := make(WarehouseIndex, len(stock))
	for _, s := range stock {
		if _, ok := idx[s.ProductName]; ok {
			continue
		}
		idx[s.ProductName] = s
	}
	return idx
}

func (w WarehouseIndex) Warehouse(productName string) (domain.WarehouseStock, bool) {
	s, ok := w[productName]
	return s, ok
}

// GenerateOrders proposes warehouse replenishment for every low-stock line
// whose product the warehouse still holds. High urgency orders come first;
// input order is kept within each urgency.
func GenerateOrders(lines []domain.ProductLine, warehouse WarehouseLookup, now time.Time) []domain.WarehouseOrder {
	var high, medium []domain.WarehouseOrder

	for _, line := range lines {
		if !line.IsLowStock() {
			continue
		}

		stock, ok := warehouse.Warehouse(line.Name)
		if !ok || stock.AvailableStock <= 0 {
			continue
		}

		qty := min(line.MaxCapacity-line.CurrentStock, stock.AvailableStock)
		if qty <= 0 {
			continue
		}

		urgency := domain.UrgencyMedium
		if line.IsCritical() {
			urgency = domain.UrgencyHigh
		}

		order := domain.WarehouseOrder{
			StoreID:           line.StoreID,
			ProductName:       line.Name,
			ProductID:         line.ProductID,
			OrderQty:          qty,
			Urgency:           urgency,
			EstimatedDelivery: now.Add(urgency.DeliveryLeadTime()),
			WarehouseLocation: stock.Location,
		}
		if urgency == domain.UrgencyHigh {
			high = append(high, order)
		} else {
			medium = append(medium, order)
		}
	}

	return append(high, medium...)
}
