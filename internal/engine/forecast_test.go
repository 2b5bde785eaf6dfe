package engine

import (
	"testing"
	"time"
)

var fixedNow = time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func TestForecaster_DaysUntilDepletion(t *testing.T) {
	f := NewForecaster(ForecastConfig{}, fixedClock)

	tests := []struct {
		name     string
		series   []int
		stock    int
		impact   float64
		expected int
	}{
		{name: "out_of_stock", series: []int{5, 5, 5, 5, 5}, stock: 0, impact: 1, expected: 1},
		{name: "negative_stock", series: nil, stock: -3, impact: 1, expected: 1},
		{name: "short_history", series: []int{10, 10, 10, 10}, stock: 5, impact: 1, expected: 30},
		{name: "all_zero_history", series: []int{0, 0, 0, 0, 0, 0}, stock: 5, impact: 1, expected: 30},
		{name: "flat_history", series: []int{5, 5, 5, 5, 5}, stock: 50, impact: 1, expected: 10},
		{name: "flat_history_with_holiday", series: []int{5, 5, 5, 5, 5}, stock: 50, impact: 2.5, expected: 10},
		{name: "minimum_lead_time", series: []int{100, 100, 100, 100, 100}, stock: 1, impact: 1, expected: 2},
		{name: "never_depletes", series: []int{1, 1, 1, 1, 1}, stock: 1000, impact: 1, expected: 30},
		{name: "declining_to_zero", series: []int{20, 15, 10, 5, 0}, stock: 10, impact: 1, expected: 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.DaysUntilDepletion(tt.series, tt.stock, tt.impact)
			if got != tt.expected {
				t.Errorf("Expected %d days, got %d", tt.expected, got)
			}
		})
	}
}

func TestForecaster_RisingTrendDepletesSooner(t *testing.T) {
	f := NewForecaster(ForecastConfig{}, fixedClock)

	flat := f.DaysUntilDepletion([]int{10, 10, 10, 10, 10, 10}, 200, 1)
	rising := f.DaysUntilDepletion([]int{5, 7, 9, 11, 13, 15}, 200, 1)

	if flat != 20 {
		t.Fatalf("Expected flat series to deplete in 20 days, got %d", flat)
	}
	if rising >= flat {
		t.Errorf("Expected rising series to deplete before %d days, got %d", flat, rising)
	}
	if rising < minLeadDays {
		t.Errorf("Expected at least %d days, got %d", minLeadDays, rising)
	}
}

func TestForecaster_Predict(t *testing.T) {
	f := NewForecaster(ForecastConfig{}, fixedClock)

	got := f.Predict(nil, 0, 1)
	if want := fixedNow.Add(24 * time.Hour); !got.Equal(want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	got = f.Predict([]int{1, 2}, 10, 1)
	if want := fixedNow.Add(30 * 24 * time.Hour); !got.Equal(want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestForecaster_NeverEarlierThanTwoDays(t *testing.T) {
	f := NewForecaster(ForecastConfig{}, fixedClock)

	series := []int{50, 60, 70, 80, 90, 100}
	for stock := 1; stock <= 300; stock += 7 {
		if got := f.DaysUntilDepletion(series, stock, 1.2); got < minLeadDays {
			t.Fatalf("stock %d: expected at least %d days, got %d", stock, minLeadDays, got)
		}
	}
}

func TestForecaster_CustomHorizon(t *testing.T) {
	f := NewForecaster(ForecastConfig{HorizonDays: 7, MinHistory: 3}, fixedClock)

	if got := f.DaysUntilDepletion([]int{1, 1, 1}, 100, 1); got != 7 {
		t.Errorf("Expected horizon of 7 days, got %d", got)
	}
	if got := f.DaysUntilDepletion([]int{2, 2, 2}, 6, 1); got != 3 {
		t.Errorf("Expected 3 days, got %d", got)
	}
}
