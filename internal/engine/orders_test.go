package engine

import (
	"testing"
	"time"

	"github.com/andresuchdata/stockguard/internal/domain"
)

func TestGenerateOrders(t *testing.T) {
	lines := []domain.ProductLine{
		line("S001", "Milk", 30, 40, 200),  // medium
		line("S002", "Milk", 10, 40, 200),  // high
		line("S003", "Milk", 100, 40, 200), // healthy
		line("S001", "Bread", 5, 20, 100),  // high, warehouse short
		line("S002", "Beef", 1, 20, 100),   // no warehouse entry
		line("S003", "Cola", 2, 20, 100),   // warehouse empty
	}
	warehouse := NewWarehouseIndex([]domain.WarehouseStock{
		{ProductName: "Milk", AvailableStock: 500, Location: "Central Warehouse"},
		{ProductName: "Bread", AvailableStock: 40, Location: "North Depot"},
		{ProductName: "Cola", AvailableStock: 0, Location: "Central Warehouse"},
	})

	orders := GenerateOrders(lines, warehouse, fixedNow)

	if len(orders) != 3 {
		t.Fatalf("Expected 3 orders, got %d", len(orders))
	}

	expected := []struct {
		store    string
		product  string
		qty      int
		urgency  domain.Urgency
		delivery time.Duration
	}{
		{"S002", "Milk", 190, domain.UrgencyHigh, 24 * time.Hour},
		{"S001", "Bread", 40, domain.UrgencyHigh, 24 * time.Hour},
		{"S001", "Milk", 170, domain.UrgencyMedium, 48 * time.Hour},
	}
	for i, want := range expected {
		got := orders[i]
		if got.StoreID != want.store || got.ProductName != want.product {
			t.Errorf("order %d: expected %s/%s, got %s/%s", i, want.store, want.product, got.StoreID, got.ProductName)
		}
		if got.OrderQty != want.qty {
			t.Errorf("order %d: expected qty %d, got %d", i, want.qty, got.OrderQty)
		}
		if got.Urgency != want.urgency {
			t.Errorf("order %d: expected urgency %s, got %s", i, want.urgency, got.Urgency)
		}
		if !got.EstimatedDelivery.Equal(fixedNow.Add(want.delivery)) {
			t.Errorf("order %d: expected delivery %v, got %v", i, fixedNow.Add(want.delivery), got.EstimatedDelivery)
		}
	}
	if orders[1].WarehouseLocation != "North Depot" {
		t.Errorf("Expected North Depot, got %s", orders[1].WarehouseLocation)
	}
}

func TestGenerateOrders_QuantityBounds(t *testing.T) {
	lines := []domain.ProductLine{
		line("S001", "Milk", 0, 10, 10),
		line("S002", "Milk", 10, 10, 10), // full capacity: nothing to order
		line("S003", "Milk", 3, 10, 60),
	}
	warehouse := NewWarehouseIndex([]domain.WarehouseStock{{ProductName: "Milk", AvailableStock: 25}})

	orders := GenerateOrders(lines, warehouse, fixedNow)

	if len(orders) != 2 {
		t.Fatalf("Expected 2 orders, got %d", len(orders))
	}
	for _, o := range orders {
		var l domain.ProductLine
		for _, candidate := range lines {
			if candidate.StoreID == o.StoreID {
				l = candidate
			}
		}
		if o.OrderQty <= 0 || o.OrderQty > min(l.MaxCapacity-l.CurrentStock, 25) {
			t.Errorf("%s: order qty %d out of bounds", o.StoreID, o.OrderQty)
		}
	}
}

func TestGenerateOrders_HighBeforeMedium(t *testing.T) {
	var lines []domain.ProductLine
	for i := 0; i < 20; i++ {
		stock := 35
		if i%3 == 0 {
			stock = 5
		}
		lines = append(lines, line("S"+string(rune('A'+i)), "Milk", stock, 40, 100))
	}
	warehouse := NewWarehouseIndex([]domain.WarehouseStock{{ProductName: "Milk", AvailableStock: 1000}})

	orders := GenerateOrders(lines, warehouse, fixedNow)

	seenMedium := false
	prev := ""
	for _, o := range orders {
		if o.Urgency == domain.UrgencyMedium {
			seenMedium = true
		} else if seenMedium {
			t.Fatalf("high urgency order for %s after a medium one", o.StoreID)
		}
		if o.Urgency == domain.UrgencyHigh && prev != "" && o.StoreID < prev {
			t.Errorf("high urgency orders lost input order at %s", o.StoreID)
		}
		if o.Urgency == domain.UrgencyHigh {
			prev = o.StoreID
		}
	}
}
