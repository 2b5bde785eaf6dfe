package engine

import "github.com/andresuchdata/stockguard/internal/domain"

// DefaultSafetyBuffer is the margin above the minimum threshold a store must
// hold before any of its stock counts as surplus.
const DefaultSafetyBuffer = 0.2

// Urgency tiers weight shortages in priority scoring.
const (
	TierLow      = 2
	TierCritical = 3
)

// Shortage is a product line at or below its minimum threshold.
type Shortage struct {
	StoreID      string
	ProductID    string
	ProductName  string
	CurrentStock int
	// Deficit is measured against the safety level, not the bare threshold.
	Deficit float64
	Tier    int
}

// Surplus is a product line holding more than its safety level.
type Surplus struct {
	StoreID      string
	ProductID    string
	ProductName  string
	CurrentStock int
	Amount       float64
}

// SafetyLevel is the stock level a line is topped up to, and the level it must
// exceed to give stock away.
func SafetyLevel(minThreshold int, safetyBuffer float64) float64 {
	return float64(minThreshold) * (1 + safetyBuffer)
}

// Classify partitions product lines sharing one product name into shortages
// and surpluses. Lines above the threshold but not above the safety level
// belong to neither.
func Classify(lines []domain.ProductLine, safetyBuffer float64) ([]Shortage, []Surplus) {
	var (
		shortages []Shortage
		surpluses []Surplus
	)

	for _, line := range lines {
		safety := SafetyLevel(line.MinThreshold, safetyBuffer)
		stock := float64(line.CurrentStock)

		switch {
		case line.IsLowStock():
			tier := TierLow
			if line.IsCritical() {
				tier = TierCritical
			}
			shortages = append(shortages, Shortage{
				StoreID:      line.StoreID,
				ProductID:    line.ProductID,
				ProductName:  line.Name,
				CurrentStock: line.CurrentStock,
				Deficit:      safety - stock,
				Tier:         tier,
			})
		case stock > safety:
			surpluses = append(surpluses, Surplus{
				StoreID:      line.StoreID,
				ProductID:    line.ProductID,
				ProductName:  line.Name,
				CurrentStock: line.CurrentStock,
				Amount:       stock - safety,
			})
		}
	}

	return shortages, surpluses
}
