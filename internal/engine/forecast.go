package engine

import (
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
)

const (
	DefaultForecastHorizon = 30
	DefaultMinHistory      = 5
	// minimum lead time reported for stock that is still on the shelf
	minLeadDays = 2
	day         = 24 * time.Hour
)

// ForecastConfig tunes the depletion forecaster.
type ForecastConfig struct {
	HorizonDays int
	MinHistory  int
}

func (c ForecastConfig) withDefaults() ForecastConfig {
	if c.HorizonDays <= 0 {
		c.HorizonDays = DefaultForecastHorizon
	}
	if c.MinHistory <= 0 {
		c.MinHistory = DefaultMinHistory
	}
	return c
}

// ForecastInput is one product line's forecasting input.
type ForecastInput struct {
	Series        []int
	CurrentStock  int
	HolidayImpact float64
}

// Forecaster predicts when a product line will run out of stock from its
// daily sales history.
type Forecaster struct {
	cfg ForecastConfig
	now func() time.Time
}

// NewForecaster creates a forecaster. A nil clock means time.Now.
func NewForecaster(cfg ForecastConfig, clock func() time.Time) *Forecaster {
	if clock == nil {
		clock = time.Now
	}
	return &Forecaster{cfg: cfg.withDefaults(), now: clock}
}

// Predict returns the predicted stock-out timestamp.
func (f *Forecaster) Predict(series []int, currentStock int, holidayImpact float64) time.Time {
	return f.now().Add(time.Duration(f.DaysUntilDepletion(series, currentStock, holidayImpact)) * day)
}

// DaysUntilDepletion returns the number of days until stock is expected to
// run out, capped at the forecast horizon.
func (f *Forecaster) DaysUntilDepletion(series []int, currentStock int, holidayImpact float64) int {
	horizon := f.cfg.HorizonDays

	if currentStock <= 0 {
		return 1
	}
	if len(series) < f.cfg.MinHistory || sum(series) == 0 {
		return horizon
	}

	n := len(series)
	x := mat.NewDense(n, 2, nil)
	y := make([]float64, n)
	for i, units := range series {
		x.Set(i, 0, float64(i))
		x.Set(i, 1, holidayImpact)
		y[i] = float64(units)
	}

	scaler := fitScaler(x)
	model := fitLinear(scaler.transform(x), y)

	future := mat.NewDense(horizon, 2, nil)
	for i := 0; i < horizon; i++ {
		future.Set(i, 0, float64(n+i))
		future.Set(i, 1, holidayImpact)
	}
	predictions := model.predict(scaler.transform(future))

	var cumulative float64
	stock := float64(currentStock)
	for i, daily := range predictions {
		cumulative += math.Max(0, daily)
		if cumulative >= stock {
			return max(i+1, minLeadDays)
		}
	}

	return horizon
}

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}
