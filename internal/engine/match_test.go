package engine

import (
	"math"
	"testing"

	"github.com/andresuchdata/stockguard/internal/domain"
)

func TestMatch_NearestStoreWins(t *testing.T) {
	shortages := []Shortage{{StoreID: "A", ProductName: "Milk", Deficit: 10, Tier: TierCritical}}
	surpluses := []Surplus{
		{StoreID: "FAR", ProductName: "Milk", Amount: 20},
		{StoreID: "NEAR", ProductName: "Milk", Amount: 5},
	}
	distances := NewDistanceIndex([]domain.DistanceEdge{
		{StoreA: "A", StoreB: "FAR", DistanceKm: 40},
		{StoreA: "NEAR", StoreB: "A", DistanceKm: 10},
	})

	got := Match(shortages, surpluses, distances, DefaultMaxDistanceKm)

	if len(got) != 1 {
		t.Fatalf("Expected 1 suggestion, got %d", len(got))
	}
	s := got[0]
	if s.FromStore != "NEAR" || s.ToStore != "A" {
		t.Errorf("Expected NEAR -> A, got %s -> %s", s.FromStore, s.ToStore)
	}
	if s.TransferQty != 5 {
		t.Errorf("Expected transfer of 5, got %v", s.TransferQty)
	}
	if s.Distance != 10 {
		t.Errorf("Expected distance 10, got %v", s.Distance)
	}
	if math.Abs(s.Priority-6) > 1e-9 {
		t.Errorf("Expected priority 6, got %v", s.Priority)
	}
}

func TestMatch_OutOfRange(t *testing.T) {
	shortages := []Shortage{{StoreID: "A", ProductName: "Milk", Deficit: 10, Tier: TierLow}}
	surpluses := []Surplus{{StoreID: "B", ProductName: "Milk", Amount: 30}}
	distances := NewDistanceIndex([]domain.DistanceEdge{{StoreA: "A", StoreB: "B", DistanceKm: 60}})

	if got := Match(shortages, surpluses, distances, DefaultMaxDistanceKm); len(got) != 0 {
		t.Fatalf("Expected no suggestions, got %v", got)
	}
}

func TestMatch_MissingDistanceIsUnreachable(t *testing.T) {
	shortages := []Shortage{{StoreID: "A", ProductName: "Milk", Deficit: 10, Tier: TierLow}}
	surpluses := []Surplus{{StoreID: "B", ProductName: "Milk", Amount: 30}}

	for _, radius := range []float64{DefaultMaxDistanceKm, UnreachableDistance, 1000, math.Inf(1)} {
		if got := Match(shortages, surpluses, NewDistanceIndex(nil), radius); len(got) != 0 {
			t.Errorf("radius %v: expected no suggestions, got %v", radius, got)
		}
	}
}

func TestMatch_NonFiniteDistanceIsSkipped(t *testing.T) {
	shortages := []Shortage{{StoreID: "A", ProductName: "Milk", Deficit: 10, Tier: TierLow}}
	surpluses := []Surplus{
		{StoreID: "B", ProductName: "Milk", Amount: 30},
		{StoreID: "C", ProductName: "Milk", Amount: 30},
	}
	distances := NewDistanceIndex([]domain.DistanceEdge{
		{StoreA: "A", StoreB: "B", DistanceKm: math.NaN()},
		{StoreA: "A", StoreB: "C", DistanceKm: 12},
	})

	got := Match(shortages, surpluses, distances, DefaultMaxDistanceKm)
	if len(got) != 1 || got[0].FromStore != "C" || got[0].Distance != 12 {
		t.Fatalf("Expected one suggestion from C at 12 km, got %v", got)
	}
}

func TestMatch_SkipsSameStoreAndOtherProducts(t *testing.T) {
	shortages := []Shortage{{StoreID: "A", ProductName: "Milk", Deficit: 10, Tier: TierLow}}
	surpluses := []Surplus{
		{StoreID: "A", ProductName: "Milk", Amount: 30},
		{StoreID: "B", ProductName: "Bread", Amount: 30},
	}
	distances := NewDistanceIndex([]domain.DistanceEdge{{StoreA: "A", StoreB: "B", DistanceKm: 1}})

	if got := Match(shortages, surpluses, distances, DefaultMaxDistanceKm); len(got) != 0 {
		t.Fatalf("Expected no suggestions, got %v", got)
	}
}

func TestMatch_NonPositiveTransferIneligible(t *testing.T) {
	shortages := []Shortage{{StoreID: "A", ProductName: "Milk", Deficit: 0, Tier: TierCritical}}
	surpluses := []Surplus{{StoreID: "B", ProductName: "Milk", Amount: 30}}
	distances := NewDistanceIndex([]domain.DistanceEdge{{StoreA: "A", StoreB: "B", DistanceKm: 1}})

	if got := Match(shortages, surpluses, distances, DefaultMaxDistanceKm); len(got) != 0 {
		t.Fatalf("Expected no suggestions, got %v", got)
	}
}

func TestMatch_NearerIneligibleDoesNotBlock(t *testing.T) {
	shortages := []Shortage{{StoreID: "A", ProductName: "Milk", Deficit: 10, Tier: TierLow}}
	surpluses := []Surplus{
		{StoreID: "B", ProductName: "Milk", Amount: 0},
		{StoreID: "C", ProductName: "Milk", Amount: 4},
	}
	distances := NewDistanceIndex([]domain.DistanceEdge{
		{StoreA: "A", StoreB: "B", DistanceKm: 1},
		{StoreA: "A", StoreB: "C", DistanceKm: 20},
	})

	got := Match(shortages, surpluses, distances, DefaultMaxDistanceKm)
	if len(got) != 1 || got[0].FromStore != "C" {
		t.Fatalf("Expected a single suggestion from C, got %v", got)
	}
}

func TestMatch_SortedByPriority(t *testing.T) {
	shortages := []Shortage{
		{StoreID: "A", ProductName: "Milk", Deficit: 2, Tier: TierLow},
		{StoreID: "B", ProductName: "Milk", Deficit: 20, Tier: TierCritical},
		{StoreID: "C", ProductName: "Milk", Deficit: 8, Tier: TierLow},
	}
	surpluses := []Surplus{{StoreID: "D", ProductName: "Milk", Amount: 10}}
	distances := NewDistanceIndex([]domain.DistanceEdge{
		{StoreA: "A", StoreB: "D", DistanceKm: 5},
		{StoreA: "B", StoreB: "D", DistanceKm: 5},
		{StoreA: "C", StoreB: "D", DistanceKm: 5},
	})

	got := Match(shortages, surpluses, distances, DefaultMaxDistanceKm)
	if len(got) != 3 {
		t.Fatalf("Expected 3 suggestions, got %d", len(got))
	}
	want := []string{"B", "C", "A"}
	for i, s := range got {
		if s.ToStore != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], s.ToStore)
		}
		if i > 0 && got[i-1].Priority < s.Priority {
			t.Errorf("position %d: priorities not descending", i)
		}
	}
}

func TestPriorityScore_ZeroSurplus(t *testing.T) {
	if _, ok := PriorityScore(10, TierCritical, 0); ok {
		t.Fatal("Expected zero surplus to be rejected")
	}
	score, ok := PriorityScore(10, TierCritical, 5)
	if !ok || score != 6 {
		t.Errorf("Expected score 6, got %v (ok=%v)", score, ok)
	}
}

func TestSortSuggestions_TieBreak(t *testing.T) {
	s := []domain.RebalanceSuggestion{
		{ProductName: "Milk", ToStore: "S2", FromStore: "S9", Priority: 1},
		{ProductName: "Bread", ToStore: "S3", FromStore: "S1", Priority: 1},
		{ProductName: "Milk", ToStore: "S1", FromStore: "S4", Priority: 1},
		{ProductName: "Milk", ToStore: "S1", FromStore: "S3", Priority: 1},
		{ProductName: "Zinc", ToStore: "S1", FromStore: "S1", Priority: 2},
	}

	SortSuggestions(s)

	want := []string{"Zinc/S1/S1", "Bread/S3/S1", "Milk/S1/S3", "Milk/S1/S4", "Milk/S2/S9"}
	for i, got := range s {
		key := got.ProductName + "/" + got.ToStore + "/" + got.FromStore
		if key != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], key)
		}
	}
}

func TestDistanceIndex_Symmetric(t *testing.T) {
	idx := NewDistanceIndex([]domain.DistanceEdge{
		{StoreA: "S001", StoreB: "S002", DistanceKm: 15.5},
		{StoreA: "S002", StoreB: "S001", DistanceKm: 99},
	})

	if got, ok := idx.Distance("S002", "S001"); !ok || got != 15.5 {
		t.Errorf("Expected 15.5, got %v (ok=%v)", got, ok)
	}
	if got, ok := idx.Distance("S001", "S002"); !ok || got != 15.5 {
		t.Errorf("Expected 15.5, got %v (ok=%v)", got, ok)
	}
	if got, ok := idx.Distance("S001", "S003"); ok || got != UnreachableDistance {
		t.Errorf("Expected unreachable, got %v", got)
	}
	if got := idx.Edges(); got != 1 {
		t.Errorf("Expected 1 edge, got %d", got)
	}
}
