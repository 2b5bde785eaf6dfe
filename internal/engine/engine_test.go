package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/andresuchdata/stockguard/internal/domain"
)

func TestEngine_SuggestionsSkipUnknownPairsAtAnyRadius(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDistanceKm = 1000
	e := New(cfg, WithClock(fixedClock))

	lines := []domain.ProductLine{
		line("A", "Milk", 2, 20, 100),
		line("B", "Milk", 90, 20, 100),
	}

	got, err := e.Suggestions(context.Background(), lines, NewDistanceIndex(nil))
	if err != nil {
		t.Fatalf("Suggestions failed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Expected no suggestions without a known distance, got %v", got)
	}
}

func TestEngine_Suggestions(t *testing.T) {
	e := New(DefaultConfig(), WithClock(fixedClock))

	lines := []domain.ProductLine{
		line("A", "Milk", 5, 20, 100),
		line("B", "Milk", 90, 20, 100),
		line("C", "Milk", 60, 20, 100),
		line("A", "Bread", 80, 20, 100),
		line("B", "Bread", 2, 20, 100),
		line("C", "Beef", 1, 20, 100),
		line("D", "Beef", 95, 20, 100),
	}
	distances := NewDistanceIndex([]domain.DistanceEdge{
		{StoreA: "A", StoreB: "B", DistanceKm: 15.5},
		{StoreA: "A", StoreB: "C", DistanceKm: 22.3},
		{StoreA: "B", StoreB: "C", DistanceKm: 18.7},
		{StoreA: "C", StoreB: "D", DistanceKm: 60},
	})

	got, err := e.Suggestions(context.Background(), lines, distances)
	if err != nil {
		t.Fatalf("Suggestions failed: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("Expected 2 suggestions, got %d: %v", len(got), got)
	}
	for i, s := range got {
		if s.Distance > DefaultMaxDistanceKm {
			t.Errorf("suggestion %d exceeds max distance: %v", i, s.Distance)
		}
		if s.FromStore == s.ToStore {
			t.Errorf("suggestion %d transfers within %s", i, s.FromStore)
		}
		if s.TransferQty <= 0 {
			t.Errorf("suggestion %d has non-positive qty %v", i, s.TransferQty)
		}
		if i > 0 && got[i-1].Priority < s.Priority {
			t.Errorf("suggestions not sorted at %d", i)
		}
	}

	byProduct := map[string]domain.RebalanceSuggestion{}
	for _, s := range got {
		byProduct[s.ProductName] = s
	}
	if s := byProduct["Milk"]; s.FromStore != "B" || s.ToStore != "A" {
		t.Errorf("Expected Milk B -> A, got %s -> %s", s.FromStore, s.ToStore)
	}
	if s := byProduct["Bread"]; s.FromStore != "A" || s.ToStore != "B" {
		t.Errorf("Expected Bread A -> B, got %s -> %s", s.FromStore, s.ToStore)
	}
	if _, ok := byProduct["Beef"]; ok {
		t.Error("Expected no Beef suggestion beyond max distance")
	}
}

func TestEngine_FarShortageFallsBackToWarehouse(t *testing.T) {
	e := New(DefaultConfig(), WithClock(fixedClock))

	lines := []domain.ProductLine{
		line("A", "Milk", 5, 20, 100),
		line("B", "Milk", 90, 20, 100),
	}
	distances := NewDistanceIndex([]domain.DistanceEdge{{StoreA: "A", StoreB: "B", DistanceKm: 60}})
	warehouse := NewWarehouseIndex([]domain.WarehouseStock{{ProductName: "Milk", AvailableStock: 300, Location: "Central Warehouse"}})

	suggestions, err := e.Suggestions(context.Background(), lines, distances)
	if err != nil {
		t.Fatalf("Suggestions failed: %v", err)
	}
	if len(suggestions) != 0 {
		t.Fatalf("Expected no suggestions, got %v", suggestions)
	}

	orders := e.Orders(lines, warehouse)
	if len(orders) != 1 || orders[0].StoreID != "A" || orders[0].OrderQty != 95 {
		t.Fatalf("Expected one 95 unit order for A, got %v", orders)
	}
}

func TestEngine_SuggestionsCancelled(t *testing.T) {
	e := New(DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Suggestions(ctx, []domain.ProductLine{line("A", "Milk", 1, 10, 20)}, NewDistanceIndex(nil))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
}

func TestEngine_Forecasts(t *testing.T) {
	e := New(DefaultConfig(), WithClock(fixedClock))

	got, err := e.Forecasts(context.Background(), []ForecastInput{
		{Series: []int{5, 5, 5, 5, 5}, CurrentStock: 50, HolidayImpact: 1},
		{Series: nil, CurrentStock: 0, HolidayImpact: 1},
	})
	if err != nil {
		t.Fatalf("Forecasts failed: %v", err)
	}
	if want := fixedNow.Add(10 * 24 * time.Hour); !got[0].Equal(want) {
		t.Errorf("Expected %v, got %v", want, got[0])
	}
	if want := fixedNow.Add(24 * time.Hour); !got[1].Equal(want) {
		t.Errorf("Expected %v, got %v", want, got[1])
	}
}

func TestGroupByName(t *testing.T) {
	groups := GroupByName([]domain.ProductLine{
		line("A", "Milk", 1, 1, 1),
		line("A", "Bread", 1, 1, 1),
		line("B", "Milk", 1, 1, 1),
	})

	if len(groups) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(groups))
	}
	if groups[0][0].Name != "Milk" || len(groups[0]) != 2 {
		t.Errorf("Expected first group Milk with 2 lines, got %s with %d", groups[0][0].Name, len(groups[0]))
	}
}
