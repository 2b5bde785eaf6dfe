package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/andresuchdata/stockguard/internal/domain"
	"github.com/andresuchdata/stockguard/internal/engine"
	"github.com/andresuchdata/stockguard/internal/snapshot"
	"github.com/shopspring/decimal"
)

const (
	highDemandImpact      = 1.5
	highSeverityThreshold = 2
)

// InventoryService answers read-only questions about stores and product
// lines in the current snapshot.
type InventoryService struct {
	holder *snapshot.Holder
	engine *engine.Engine
}

func NewInventoryService(holder *snapshot.Holder, eng *engine.Engine) *InventoryService {
	return &InventoryService{holder: holder, engine: eng}
}

// ListStores returns every store with its count of low-stock lines.
func (s *InventoryService) ListStores(ctx context.Context) ([]domain.StoreSummary, error) {
	snap, err := s.holder.Current()
	if err != nil {
		return nil, err
	}

	stores := snap.Stores()
	out := make([]domain.StoreSummary, 0, len(stores))
	for _, st := range stores {
		alerts := 0
		for _, line := range snap.LinesForStore(st.ID) {
			if line.IsLowStock() {
				alerts++
			}
		}
		out = append(out, domain.StoreSummary{Store: st, AlertCount: alerts})
	}
	return out, nil
}

// StoreProducts returns a store's product lines with their predicted
// out-of-stock time.
func (s *InventoryService) StoreProducts(ctx context.Context, storeID string) ([]domain.ProductView, error) {
	snap, lines, err := s.storeLines(storeID)
	if err != nil {
		return nil, err
	}

	predicted, err := s.forecast(ctx, snap, lines)
	if err != nil {
		return nil, err
	}

	out := make([]domain.ProductView, len(lines))
	for i, line := range lines {
		out[i] = domain.ProductView{ProductLine: line, PredictedOutOfStock: predicted[i]}
	}
	return out, nil
}

// StoreAlerts returns a low-stock alert for each line at or below its
// minimum threshold.
func (s *InventoryService) StoreAlerts(ctx context.Context, storeID string) ([]domain.Alert, error) {
	_, lines, err := s.storeLines(storeID)
	if err != nil {
		return nil, err
	}

	now := s.engine.Now()
	alerts := []domain.Alert{}
	for _, line := range lines {
		if !line.IsLowStock() {
			continue
		}
		severity := domain.UrgencyMedium
		if line.IsCritical() {
			severity = domain.UrgencyHigh
		}
		alerts = append(alerts, domain.Alert{
			ID:        "alert_" + line.ProductID,
			StoreID:   storeID,
			ProductID: line.ProductID,
			Type:      "low_stock",
			Message:   fmt.Sprintf("%s running low - only %d units left", line.Name, line.CurrentStock),
			Severity:  severity,
			Timestamp: now,
		})
	}
	return alerts, nil
}

// StoreInsights summarises upcoming stock-outs, holiday demand and sales
// trends for a store. Lines at or below their minimum threshold count as
// about to run out.
func (s *InventoryService) StoreInsights(ctx context.Context, storeID string) ([]domain.Insight, error) {
	_, lines, err := s.storeLines(storeID)
	if err != nil {
		return nil, err
	}

	var runningOut, highDemand, increasing int
	for _, line := range lines {
		if line.IsLowStock() {
			runningOut++
		}
		if line.HolidayImpact > highDemandImpact {
			highDemand++
		}
		if line.Trend == domain.TrendIncreasing {
			increasing++
		}
	}

	prediction := domain.UrgencyMedium
	if runningOut > highSeverityThreshold {
		prediction = domain.UrgencyHigh
	}

	return []domain.Insight{
		{
			Type:     "prediction",
			Title:    "Stock Shortage Prediction",
			Message:  fmt.Sprintf("%d products predicted to run out within 3 days", runningOut),
			Severity: prediction,
			Action:   "Review restock schedule",
		},
		{
			Type:     "holiday",
			Title:    "Holiday Demand Analysis",
			Message:  fmt.Sprintf("%d products show increased holiday demand patterns", highDemand),
			Severity: domain.UrgencyMedium,
			Action:   "Increase order quantities",
		},
		{
			Type:     "trend",
			Title:    "Sales Trend Analysis",
			Message:  fmt.Sprintf("%d of %d products show increasing demand", increasing, len(lines)),
			Severity: domain.UrgencyLow,
			Action:   "Monitor closely",
		},
	}, nil
}

// Overview aggregates stock health across all stores.
func (s *InventoryService) Overview(ctx context.Context) (domain.AnalyticsOverview, error) {
	snap, err := s.holder.Current()
	if err != nil {
		return domain.AnalyticsOverview{}, err
	}

	lines := snap.Lines()
	overview := domain.AnalyticsOverview{
		TotalProducts:  len(lines),
		InventoryValue: decimal.Zero,
	}

	var levelSum float64
	var levelCount int
	for _, line := range lines {
		if line.IsLowStock() {
			overview.LowStockCount++
		}
		if line.IsCritical() {
			overview.CriticalStockCount++
		}
		if line.MaxCapacity > 0 {
			levelSum += float64(line.CurrentStock) / float64(line.MaxCapacity)
			levelCount++
		}
		overview.InventoryValue = overview.InventoryValue.Add(line.Price.Mul(decimal.NewFromInt(int64(line.CurrentStock))))
	}
	if levelCount > 0 {
		overview.AvgStockLevel = math.Round(levelSum/float64(levelCount)*1000) / 10
	}
	return overview, nil
}

func (s *InventoryService) storeLines(storeID string) (*snapshot.Snapshot, []domain.ProductLine, error) {
	snap, err := s.holder.Current()
	if err != nil {
		return nil, nil, err
	}
	if _, ok := snap.Store(storeID); !ok {
		return nil, nil, fmt.Errorf("store %s: %w", storeID, domain.ErrNotFound)
	}
	return snap, snap.LinesForStore(storeID), nil
}

func (s *InventoryService) forecast(ctx context.Context, snap *snapshot.Snapshot, lines []domain.ProductLine) ([]time.Time, error) {
	now := s.engine.Now()
	inputs := make([]engine.ForecastInput, len(lines))
	for i, line := range lines {
		inputs[i] = engine.ForecastInput{
			Series:        snap.SalesSeries(line.ProductID),
			CurrentStock:  line.CurrentStock,
			HolidayImpact: snap.HolidayImpact(line.Category, now, line.HolidayImpact),
		}
	}
	return s.engine.Forecasts(ctx, inputs)
}
