package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/andresuchdata/stockguard/internal/domain"
	"github.com/andresuchdata/stockguard/internal/repository"
)

func newTestRebalanceService(c *memoryCache, repo repository.ActionRepository) *RebalanceService {
	svc := NewRebalanceService(testHolder(), testEngine(), c, repo, 10)
	svc.newID = func() string { return "fixed" }
	return svc
}

func TestRebalanceService_Suggestions(t *testing.T) {
	svc := newTestRebalanceService(newMemoryCache(), nil)

	got, err := svc.Suggestions(context.Background(), 0)
	if err != nil {
		t.Fatalf("Suggestions failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 suggestions, got %v", got)
	}

	bread := got[0]
	if bread.ProductName != "Bread" || bread.FromStore != "S001" || bread.ToStore != "S002" {
		t.Errorf("Expected Bread S001->S002 first, got %+v", bread)
	}
	// deficit 9 x tier 2 / surplus 6
	if bread.TransferQty != 6 || math.Abs(bread.Priority-3) > 1e-9 {
		t.Errorf("Unexpected bread transfer %+v", bread)
	}

	milk := got[1]
	if milk.FromStore != "S002" || milk.ToStore != "S001" || milk.Distance != 15.5 {
		t.Errorf("Expected nearest Milk surplus S002, got %+v", milk)
	}
	if math.Abs(milk.TransferQty-19) > 1e-9 {
		t.Errorf("Expected milk qty 19, got %v", milk.TransferQty)
	}

	limited, _ := svc.Suggestions(context.Background(), 1)
	if len(limited) != 1 || limited[0].ProductName != "Bread" {
		t.Errorf("Expected only the top suggestion, got %v", limited)
	}
}

func TestRebalanceService_Orders(t *testing.T) {
	svc := newTestRebalanceService(newMemoryCache(), nil)

	orders, err := svc.Orders(context.Background(), 0)
	if err != nil {
		t.Fatalf("Orders failed: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("Expected 2 orders, got %v", orders)
	}
	if orders[0].Urgency != domain.UrgencyHigh || orders[0].OrderQty != 95 || orders[0].StoreID != "S001" {
		t.Errorf("Unexpected first order %+v", orders[0])
	}
	if orders[1].Urgency != domain.UrgencyMedium || orders[1].OrderQty != 85 {
		t.Errorf("Unexpected second order %+v", orders[1])
	}
	if want := testNow.Add(24 * time.Hour); !orders[0].EstimatedDelivery.Equal(want) {
		t.Errorf("Expected delivery %v, got %v", want, orders[0].EstimatedDelivery)
	}
}

func TestRebalanceService_DashboardCached(t *testing.T) {
	c := newMemoryCache()
	svc := newTestRebalanceService(c, nil)
	ctx := context.Background()

	first, err := svc.Dashboard(ctx)
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	if first.CriticalShortages != 1 || first.PendingTransfers != 2 || first.PendingWarehouseOrders != 2 {
		t.Errorf("Unexpected dashboard %+v", first)
	}
	if first.SnapshotVersion == "" {
		t.Error("Expected snapshot version on dashboard")
	}

	hits := c.hits
	second, err := svc.Dashboard(ctx)
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	if c.hits != hits+1 {
		t.Errorf("Expected a cache hit, hits went from %d to %d", hits, c.hits)
	}
	if second.PendingTransfers != first.PendingTransfers || len(second.RebalanceSuggestions) != len(first.RebalanceSuggestions) {
		t.Errorf("Cached dashboard differs: %+v vs %+v", second, first)
	}
}

func TestRebalanceService_ExecuteTransfer(t *testing.T) {
	repo := repository.NewMemoryActionRepository()
	svc := newTestRebalanceService(newMemoryCache(), repo)
	ctx := context.Background()

	receipt, err := svc.ExecuteTransfer(ctx, domain.TransferRequest{FromStore: "S002", ToStore: "S001", ProductName: "Milk", TransferQty: 19})
	if err != nil {
		t.Fatalf("ExecuteTransfer failed: %v", err)
	}
	if !receipt.Success || receipt.ID != "T-fixed" {
		t.Errorf("Unexpected receipt %+v", receipt)
	}
	if receipt.Message != "Transfer of 19 units of Milk from S002 to S001 initiated successfully" {
		t.Errorf("Unexpected message %q", receipt.Message)
	}

	transfers, _ := svc.Transfers(ctx, 0)
	if len(transfers) != 1 || transfers[0].Status != "pending" || !transfers[0].CreatedAt.Equal(testNow) {
		t.Errorf("Expected recorded pending transfer, got %v", transfers)
	}
}

func TestRebalanceService_ExecuteTransferInvalid(t *testing.T) {
	svc := newTestRebalanceService(newMemoryCache(), nil)
	ctx := context.Background()

	tests := []struct {
		name string
		req  domain.TransferRequest
	}{
		{"same store", domain.TransferRequest{FromStore: "S001", ToStore: "S001", ProductName: "Milk", TransferQty: 1}},
		{"unknown store", domain.TransferRequest{FromStore: "S009", ToStore: "S001", ProductName: "Milk", TransferQty: 1}},
		{"zero quantity", domain.TransferRequest{FromStore: "S002", ToStore: "S001", ProductName: "Milk"}},
	}
	for _, tt := range tests {
		if _, err := svc.ExecuteTransfer(ctx, tt.req); !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("%s: expected ErrInvalidRequest, got %v", tt.name, err)
		}
	}
}

func TestRebalanceService_PlaceOrder(t *testing.T) {
	repo := repository.NewMemoryActionRepository()
	svc := newTestRebalanceService(newMemoryCache(), repo)
	ctx := context.Background()

	tests := []struct {
		urgency domain.Urgency
		want    domain.Urgency
		lead    time.Duration
	}{
		{"", domain.UrgencyMedium, 48 * time.Hour},
		{"HIGH", domain.UrgencyHigh, 24 * time.Hour},
	}
	for _, tt := range tests {
		receipt, err := svc.PlaceOrder(ctx, domain.OrderRequest{StoreID: "S001", ProductName: "Milk", OrderQty: 95, Urgency: tt.urgency})
		if err != nil {
			t.Fatalf("PlaceOrder(%q) failed: %v", tt.urgency, err)
		}
		if receipt.ID != "WO-fixed" {
			t.Errorf("Unexpected receipt id %q", receipt.ID)
		}

		orders, _ := svc.PlacedOrders(ctx, 1)
		if len(orders) != 1 || orders[0].Urgency != tt.want || !orders[0].EstimatedDelivery.Equal(testNow.Add(tt.lead)) {
			t.Errorf("PlaceOrder(%q): unexpected record %v", tt.urgency, orders)
		}
	}

	if _, err := svc.PlaceOrder(ctx, domain.OrderRequest{StoreID: "S001", ProductName: "Milk", OrderQty: 1, Urgency: "asap"}); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("Expected ErrInvalidRequest for unknown urgency, got %v", err)
	}
	if _, err := svc.PlaceOrder(ctx, domain.OrderRequest{StoreID: "S404", ProductName: "Milk", OrderQty: 1}); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("Expected ErrInvalidRequest for unknown store, got %v", err)
	}
}
