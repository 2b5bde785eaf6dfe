// Package engine holds the stock decision logic: depletion forecasting,
// shortage/surplus classification, store-to-store rebalancing and warehouse
// replenishment. Every call is a pure function of its inputs.
package engine

import (
	"context"
	"time"

	"github.com/andresuchdata/stockguard/internal/domain"
	"golang.org/x/sync/errgroup"
)

const defaultWorkers = 8

// Config holds engine tunables.
type Config struct {
	SafetyBuffer  float64
	MaxDistanceKm float64
	Forecast      ForecastConfig
	// Workers bounds the number of product groups processed concurrently.
	Workers int
}

// DefaultConfig returns the standard thresholds: 20% safety buffer, 50 km
// transfer radius, 30 day horizon from at least 5 days of history.
func DefaultConfig() Config {
	return Config{
		SafetyBuffer:  DefaultSafetyBuffer,
		MaxDistanceKm: DefaultMaxDistanceKm,
		Forecast: ForecastConfig{
			HorizonDays: DefaultForecastHorizon,
			MinHistory:  DefaultMinHistory,
		},
		Workers: defaultWorkers,
	}
}

type Option func(*Engine)

// WithClock overrides the engine's notion of now.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		e.now = clock
	}
}

type Engine struct {
	cfg        Config
	now        func() time.Time
	forecaster *Forecaster
}

func New(cfg Config, opts ...Option) *Engine {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.MaxDistanceKm <= 0 {
		cfg.MaxDistanceKm = DefaultMaxDistanceKm
	}
	if cfg.SafetyBuffer < 0 {
		cfg.SafetyBuffer = DefaultSafetyBuffer
	}

	e := &Engine{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	e.forecaster = NewForecaster(cfg.Forecast, e.now)
	return e
}

func (e *Engine) Config() Config {
	return e.cfg
}

func (e *Engine) Now() time.Time {
	return e.now()
}

func (e *Engine) Forecaster() *Forecaster {
	return e.forecaster
}

// Suggestions classifies lines per product name, matches each group
// independently and returns the combined, globally sorted suggestions.
func (e *Engine) Suggestions(ctx context.Context, lines []domain.ProductLine, distances DistanceLookup) ([]domain.RebalanceSuggestion, error) {
	groups := GroupByName(lines)
	results := make([][]domain.RebalanceSuggestion, len(groups))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)
	for i, group := range groups {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			shortages, surpluses := Classify(group, e.cfg.SafetyBuffer)
			if len(shortages) == 0 || len(surpluses) == 0 {
				return nil
			}
			results[i] = Match(shortages, surpluses, distances, e.cfg.MaxDistanceKm)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []domain.RebalanceSuggestion
	for _, r := range results {
		all = append(all, r...)
	}
	SortSuggestions(all)
	return all, nil
}

// Orders generates warehouse replenishment orders for lines.
func (e *Engine) Orders(lines []domain.ProductLine, warehouse WarehouseLookup) []domain.WarehouseOrder {
	return GenerateOrders(lines, warehouse, e.now())
}

// Forecasts predicts a stock-out timestamp for every input, in input order.
func (e *Engine) Forecasts(ctx context.Context, inputs []ForecastInput) ([]time.Time, error) {
	out := make([]time.Time, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)
	for i, in := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = e.forecaster.Predict(in.Series, in.CurrentStock, in.HolidayImpact)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// GroupByName splits lines into groups sharing a product name, in order of
// first appearance.
func GroupByName(lines []domain.ProductLine) [][]domain.ProductLine {
	index := make(map[string]int)
	var groups [][]domain.ProductLine
	for _, line := range lines {
		i, ok := index[line.Name]
		if !ok {
			i = len(groups)
			index[line.Name] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], line)
	}
	return groups
}
