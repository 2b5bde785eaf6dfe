package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/andresuchdata/stockguard/internal/domain"
	"github.com/andresuchdata/stockguard/internal/engine"
	"github.com/andresuchdata/stockguard/internal/snapshot"
	"github.com/shopspring/decimal"
)

var testNow = time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC)

func testClock() time.Time { return testNow }

func line(store, id, name, category string, stock, min, max int, price string) domain.ProductLine {
	return domain.ProductLine{
		StoreID:       store,
		ProductID:     id,
		Name:          name,
		Category:      category,
		CurrentStock:  stock,
		MinThreshold:  min,
		MaxCapacity:   max,
		Price:         decimal.RequireFromString(price),
		Trend:         domain.TrendStable,
		HolidayImpact: 1,
	}
}

// testTables: S001 is short on Milk (critical) and has spare Bread, S002 is
// short on Bread and has spare Milk, S003 has spare Milk further away.
func testTables() snapshot.Tables {
	t := snapshot.Tables{
		Stores: []domain.Store{
			{ID: "S001", Name: "Downtown", TotalValue: decimal.NewFromInt(125000)},
			{ID: "S002", Name: "Eastside", TotalValue: decimal.NewFromInt(98000)},
			{ID: "S003", Name: "Westfield", TotalValue: decimal.NewFromInt(142000)},
		},
		Products: []domain.ProductLine{
			line("S001", "P001_S001", "Milk", "Dairy", 5, 20, 100, "3.50"),
			line("S001", "P002_S001", "Bread", "Bakery", 30, 20, 100, "2.00"),
			line("S002", "P001_S002", "Milk", "Dairy", 90, 20, 100, "3.50"),
			line("S002", "P002_S002", "Bread", "Bakery", 15, 20, 100, "2.00"),
			line("S003", "P001_S003", "Milk", "Dairy", 60, 20, 100, "3.50"),
		},
		Distances: []domain.DistanceEdge{
			{StoreA: "S001", StoreB: "S002", DistanceKm: 15.5},
			{StoreA: "S001", StoreB: "S003", DistanceKm: 22.3},
			{StoreA: "S002", StoreB: "S003", DistanceKm: 18.7},
		},
		Warehouse: []domain.WarehouseStock{
			{ProductName: "Milk", AvailableStock: 500, Location: "Central Warehouse"},
			{ProductName: "Bread", AvailableStock: 300, Location: "Central Warehouse"},
		},
		Holidays: []domain.Holiday{
			{Name: "Thanksgiving", Date: time.Date(2025, 11, 27, 0, 0, 0, 0, time.UTC), ImpactMultiplier: 3, AffectedCategories: []string{"Dairy"}},
		},
	}
	for d := 4; d >= 0; d-- {
		t.Sales = append(t.Sales, domain.SalesRecord{
			ProductID: "P001_S001",
			StoreID:   "S001",
			Date:      testNow.Truncate(24*time.Hour).AddDate(0, 0, -d),
			UnitsSold: 5,
		})
	}
	return t
}

func testHolder() *snapshot.Holder {
	return snapshot.NewStaticHolder(snapshot.Build(testTables(), "test", testNow))
}

func testEngine() *engine.Engine {
	return engine.New(engine.DefaultConfig(), engine.WithClock(testClock))
}

// memoryCache is a ResultCache backed by a map, counting hits.
type memoryCache struct {
	mu    sync.Mutex
	items map[string][]byte
	hits  int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: make(map[string][]byte)}
}

func (c *memoryCache) key(kind, version string) string {
	return fmt.Sprintf("%s:%s", kind, version)
}

func (c *memoryCache) Get(ctx context.Context, kind, version string, params map[string]string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	payload, ok := c.items[c.key(kind, version)]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(payload, dest)
}

func (c *memoryCache) Set(ctx context.Context, kind, version string, params map[string]string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[c.key(kind, version)] = payload
	return nil
}

func (c *memoryCache) InvalidateAll(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string][]byte)
	return nil
}
