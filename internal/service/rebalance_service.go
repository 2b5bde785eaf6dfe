package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/andresuchdata/stockguard/internal/cache"
	"github.com/andresuchdata/stockguard/internal/domain"
	"github.com/andresuchdata/stockguard/internal/engine"
	"github.com/andresuchdata/stockguard/internal/repository"
	"github.com/andresuchdata/stockguard/internal/snapshot"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	defaultTopN   = 10
	dashboardTopN = 5
	statusPending = "pending"
)

// RebalanceService computes transfer suggestions and warehouse orders for
// the current snapshot and records the ones operators accept.
type RebalanceService struct {
	holder  *snapshot.Holder
	engine  *engine.Engine
	cache   cache.ResultCache
	actions repository.ActionRepository
	topN    int
	newID   func() string
}

func NewRebalanceService(holder *snapshot.Holder, eng *engine.Engine, cacheImpl cache.ResultCache, actions repository.ActionRepository, topN int) *RebalanceService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopResultCache()
	}
	if actions == nil {
		actions = repository.NewMemoryActionRepository()
	}
	if topN <= 0 {
		topN = defaultTopN
	}
	return &RebalanceService{
		holder:  holder,
		engine:  eng,
		cache:   cacheImpl,
		actions: actions,
		topN:    topN,
		newID:   uuid.NewString,
	}
}

// Suggestions returns the highest priority transfers. limit <= 0 uses the
// configured default.
func (s *RebalanceService) Suggestions(ctx context.Context, limit int) ([]domain.RebalanceSuggestion, error) {
	snap, err := s.holder.Current()
	if err != nil {
		return nil, err
	}
	all, err := s.allSuggestions(ctx, snap)
	if err != nil {
		return nil, err
	}
	return top(all, s.limit(limit)), nil
}

// Orders returns the most urgent warehouse orders.
func (s *RebalanceService) Orders(ctx context.Context, limit int) ([]domain.WarehouseOrder, error) {
	snap, err := s.holder.Current()
	if err != nil {
		return nil, err
	}
	return top(s.allOrders(ctx, snap), s.limit(limit)), nil
}

// Dashboard returns the emergency overview: critical shortages, how many
// transfers and orders are proposed, and the top few of each.
func (s *RebalanceService) Dashboard(ctx context.Context) (*domain.EmergencyDashboard, error) {
	snap, err := s.holder.Current()
	if err != nil {
		return nil, err
	}

	var cached domain.EmergencyDashboard
	if ok, err := s.cache.Get(ctx, cache.KindDashboard, snap.Version, nil, &cached); err == nil && ok {
		return &cached, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("rebalance: cache get dashboard failed")
	}

	suggestions, err := s.allSuggestions(ctx, snap)
	if err != nil {
		return nil, err
	}
	orders := s.allOrders(ctx, snap)

	critical := 0
	for _, line := range snap.Lines() {
		if line.IsCritical() {
			critical++
		}
	}

	dashboard := &domain.EmergencyDashboard{
		CriticalShortages:      critical,
		PendingTransfers:       len(suggestions),
		PendingWarehouseOrders: len(orders),
		RebalanceSuggestions:   top(suggestions, dashboardTopN),
		WarehouseOrders:        top(orders, dashboardTopN),
		SnapshotVersion:        snap.Version,
	}

	if err := s.cache.Set(ctx, cache.KindDashboard, snap.Version, nil, dashboard); err != nil {
		log.Warn().Err(err).Msg("rebalance: cache set dashboard failed")
	}
	return dashboard, nil
}

// ExecuteTransfer records an accepted store-to-store transfer.
func (s *RebalanceService) ExecuteTransfer(ctx context.Context, req domain.TransferRequest) (*domain.ActionReceipt, error) {
	snap, err := s.holder.Current()
	if err != nil {
		return nil, err
	}

	if req.TransferQty <= 0 {
		return nil, fmt.Errorf("transfer_qty must be positive: %w", domain.ErrInvalidRequest)
	}
	if req.FromStore == req.ToStore {
		return nil, fmt.Errorf("from_store and to_store must differ: %w", domain.ErrInvalidRequest)
	}
	for _, id := range []string{req.FromStore, req.ToStore} {
		if _, ok := snap.Store(id); !ok {
			return nil, fmt.Errorf("unknown store %s: %w", id, domain.ErrInvalidRequest)
		}
	}

	rec := domain.TransferRecord{
		TransferID:  "T-" + s.newID(),
		FromStore:   req.FromStore,
		ToStore:     req.ToStore,
		ProductName: req.ProductName,
		Quantity:    req.TransferQty,
		Status:      statusPending,
		CreatedAt:   s.engine.Now().UTC(),
	}
	if err := s.actions.SaveTransfer(ctx, rec); err != nil {
		return nil, fmt.Errorf("save transfer: %w", err)
	}

	log.Info().
		Str("transfer_id", rec.TransferID).
		Str("from_store", rec.FromStore).
		Str("to_store", rec.ToStore).
		Str("product", rec.ProductName).
		Float64("quantity", rec.Quantity).
		Msg("rebalance: transfer initiated")

	return &domain.ActionReceipt{
		Success: true,
		ID:      rec.TransferID,
		Message: fmt.Sprintf("Transfer of %s units of %s from %s to %s initiated successfully",
			strconv.FormatFloat(rec.Quantity, 'f', -1, 64), rec.ProductName, rec.FromStore, rec.ToStore),
	}, nil
}

// PlaceOrder records an accepted warehouse order. An empty urgency means
// medium.
func (s *RebalanceService) PlaceOrder(ctx context.Context, req domain.OrderRequest) (*domain.ActionReceipt, error) {
	snap, err := s.holder.Current()
	if err != nil {
		return nil, err
	}

	if req.OrderQty <= 0 {
		return nil, fmt.Errorf("order_qty must be positive: %w", domain.ErrInvalidRequest)
	}
	if _, ok := snap.Store(req.StoreID); !ok {
		return nil, fmt.Errorf("unknown store %s: %w", req.StoreID, domain.ErrInvalidRequest)
	}

	urgency := domain.UrgencyMedium
	if strings.TrimSpace(string(req.Urgency)) != "" {
		u, ok := domain.ParseUrgency(string(req.Urgency))
		if !ok {
			return nil, fmt.Errorf("unknown urgency %q: %w", req.Urgency, domain.ErrInvalidRequest)
		}
		urgency = u
	}

	now := s.engine.Now().UTC()
	rec := domain.OrderRecord{
		OrderID:           "WO-" + s.newID(),
		StoreID:           req.StoreID,
		ProductName:       req.ProductName,
		Quantity:          req.OrderQty,
		Urgency:           urgency,
		Status:            statusPending,
		CreatedAt:         now,
		EstimatedDelivery: now.Add(urgency.DeliveryLeadTime()),
	}
	if err := s.actions.SaveOrder(ctx, rec); err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}

	log.Info().
		Str("order_id", rec.OrderID).
		Str("store_id", rec.StoreID).
		Str("product", rec.ProductName).
		Int("quantity", rec.Quantity).
		Str("urgency", string(rec.Urgency)).
		Msg("rebalance: warehouse order placed")

	return &domain.ActionReceipt{
		Success: true,
		ID:      rec.OrderID,
		Message: fmt.Sprintf("Warehouse order for %d units of %s to %s placed successfully", rec.Quantity, rec.ProductName, rec.StoreID),
	}, nil
}

// Transfers lists recorded transfers, newest first.
func (s *RebalanceService) Transfers(ctx context.Context, limit int) ([]domain.TransferRecord, error) {
	return s.actions.ListTransfers(ctx, limit)
}

// PlacedOrders lists recorded warehouse orders, newest first.
func (s *RebalanceService) PlacedOrders(ctx context.Context, limit int) ([]domain.OrderRecord, error) {
	return s.actions.ListOrders(ctx, limit)
}

func (s *RebalanceService) allSuggestions(ctx context.Context, snap *snapshot.Snapshot) ([]domain.RebalanceSuggestion, error) {
	var cached []domain.RebalanceSuggestion
	if ok, err := s.cache.Get(ctx, cache.KindSuggestions, snap.Version, nil, &cached); err == nil && ok {
		return cached, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("rebalance: cache get suggestions failed")
	}

	suggestions, err := s.engine.Suggestions(ctx, snap.Lines(), snap.Distances())
	if err != nil {
		return nil, fmt.Errorf("compute suggestions: %w", err)
	}
	if suggestions == nil {
		suggestions = []domain.RebalanceSuggestion{}
	}

	if err := s.cache.Set(ctx, cache.KindSuggestions, snap.Version, nil, suggestions); err != nil {
		log.Warn().Err(err).Msg("rebalance: cache set suggestions failed")
	}
	return suggestions, nil
}

func (s *RebalanceService) allOrders(ctx context.Context, snap *snapshot.Snapshot) []domain.WarehouseOrder {
	var cached []domain.WarehouseOrder
	if ok, err := s.cache.Get(ctx, cache.KindOrders, snap.Version, nil, &cached); err == nil && ok {
		return cached
	} else if err != nil {
		log.Warn().Err(err).Msg("rebalance: cache get orders failed")
	}

	orders := s.engine.Orders(snap.Lines(), snap.Warehouse())
	if orders == nil {
		orders = []domain.WarehouseOrder{}
	}

	if err := s.cache.Set(ctx, cache.KindOrders, snap.Version, nil, orders); err != nil {
		log.Warn().Err(err).Msg("rebalance: cache set orders failed")
	}
	return orders
}

func (s *RebalanceService) limit(limit int) int {
	if limit <= 0 {
		return s.topN
	}
	return limit
}

func top[T any](items []T, n int) []T {
	if n >= 0 && len(items) > n {
		return items[:n]
	}
	return items
}
