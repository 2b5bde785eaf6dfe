package snapshot

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/andresuchdata/stockguard/internal/domain"
	"github.com/shopspring/decimal"
)

var sampleStores = []domain.Store{
	{ID: "S001", Name: "Walmart Supercenter - Downtown", Location: "Downtown Plaza, NY", Manager: "Sarah Johnson", TotalValue: decimal.NewFromInt(125000)},
	{ID: "S002", Name: "Walmart Neighborhood Market - Eastside", Location: "Eastside Mall, NY", Manager: "Mike Chen", TotalValue: decimal.NewFromInt(98000)},
	{ID: "S003", Name: "Walmart Supercenter - Westfield", Location: "Westfield Avenue, NY", Manager: "Emily Rodriguez", TotalValue: decimal.NewFromInt(142000)},
}

var sampleProducts = []struct {
	name     string
	category string
	price    string
}{
	{"Milk (1 Gallon)", "Dairy", "3.49"},
	{"Bread (Whole Wheat)", "Bakery", "2.99"},
	{"Bananas (per lb)", "Produce", "0.68"},
	{"Ground Beef (1 lb)", "Meat", "5.99"},
	{"Coca Cola (12 pack)", "Beverages", "4.99"},
}

var sampleWarehouse = []domain.WarehouseStock{
	{ProductName: "Milk (1 Gallon)", AvailableStock: 500, Location: "Central Warehouse"},
	{ProductName: "Bread (Whole Wheat)", AvailableStock: 300, Location: "Central Warehouse"},
	{ProductName: "Bananas (per lb)", AvailableStock: 800, Location: "Central Warehouse"},
	{ProductName: "Ground Beef (1 lb)", AvailableStock: 200, Location: "Central Warehouse"},
	{ProductName: "Coca Cola (12 pack)", AvailableStock: 400, Location: "Central Warehouse"},
}

var sampleDistances = []domain.DistanceEdge{
	{StoreA: "S001", StoreB: "S002", DistanceKm: 15.5},
	{StoreA: "S001", StoreB: "S003", DistanceKm: 22.3},
	{StoreA: "S002", StoreB: "S003", DistanceKm: 18.7},
}

const sampleHistoryDays = 30

// SampleTables generates a small three-store data set. The same seed and now
// always produce the same tables.
func SampleTables(seed uint64, now time.Time) Tables {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	today := now.Truncate(24 * time.Hour)
	trends := []domain.Trend{domain.TrendIncreasing, domain.TrendDecreasing, domain.TrendStable}

	t := Tables{
		Stores:    append([]domain.Store(nil), sampleStores...),
		Warehouse: append([]domain.WarehouseStock(nil), sampleWarehouse...),
		Distances: append([]domain.DistanceEdge(nil), sampleDistances...),
		Holidays:  sampleHolidays(today),
	}

	for _, store := range sampleStores {
		for i, p := range sampleProducts {
			id := fmt.Sprintf("P%03d_%s", i+1, store.ID)
			minThreshold := 20 + rng.IntN(30)
			maxCapacity := 100 + rng.IntN(200)
			t.Products = append(t.Products, domain.ProductLine{
				ProductID:     id,
				StoreID:       store.ID,
				Name:          p.name,
				Category:      p.category,
				CurrentStock:  10 + rng.IntN(190),
				MinThreshold:  minThreshold,
				MaxCapacity:   maxCapacity,
				Price:         decimal.RequireFromString(p.price),
				LastRestocked: today.AddDate(0, 0, -(1 + rng.IntN(6))).Format(dateLayout),
				Trend:         trends[rng.IntN(len(trends))],
				HolidayImpact: float64(10+rng.IntN(21)) / 10,
			})

			for d := sampleHistoryDays - 1; d >= 0; d-- {
				t.Sales = append(t.Sales, domain.SalesRecord{
					ProductID: id,
					StoreID:   store.ID,
					Date:      today.AddDate(0, 0, -d),
					UnitsSold: 1 + rng.IntN(19),
					Revenue:   decimal.NewFromFloat(10 + rng.Float64()*90).Round(2),
				})
			}
		}
	}

	return t
}

// sampleHolidays places the usual retail holidays in the year after today.
func sampleHolidays(today time.Time) []domain.Holiday {
	next := func(month time.Month, dayOfMonth int) time.Time {
		d := time.Date(today.Year(), month, dayOfMonth, 0, 0, 0, 0, time.UTC)
		if !d.After(today) {
			d = d.AddDate(1, 0, 0)
		}
		return d
	}
	return []domain.Holiday{
		{Name: "Christmas", Date: next(time.December, 25), ImpactMultiplier: 2.5, AffectedCategories: []string{"Food", "Beverages", "Seasonal"}},
		{Name: "Thanksgiving", Date: next(time.November, 28), ImpactMultiplier: 3.0, AffectedCategories: []string{"Food", "Beverages"}},
		{Name: "New Year", Date: next(time.December, 31), ImpactMultiplier: 1.8, AffectedCategories: []string{"Beverages", "Seasonal"}},
		{Name: "Easter", Date: next(time.March, 31), ImpactMultiplier: 2.0, AffectedCategories: []string{"Food", "Seasonal"}},
	}
}

// sampleTable returns one generated table for filling gaps in a partial data set.
func sampleTable(seed uint64, now time.Time, table string, into *Tables) {
	s := SampleTables(seed, now)
	switch table {
	case TableStores:
		into.Stores = s.Stores
	case TableProducts:
		into.Products = s.Products
	case TableSales:
		into.Sales = s.Sales
	case TableHolidays:
		into.Holidays = s.Holidays
	case TableWarehouse:
		into.Warehouse = s.Warehouse
	case TableDistances:
		into.Distances = s.Distances
	}
}
