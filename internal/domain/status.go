package domain

import (
	"strings"
	"time"
)

// Urgency grades how soon a shortage must be resolved.
type Urgency string

const (
	UrgencyHigh   Urgency = "high"
	UrgencyMedium Urgency = "medium"
	UrgencyLow    Urgency = "low"
)

var deliveryLeadTimes = map[Urgency]time.Duration{
	UrgencyHigh:   24 * time.Hour,
	UrgencyMedium: 48 * time.Hour,
}

// DeliveryLeadTime returns the expected warehouse delivery time for an urgency.
func (u Urgency) DeliveryLeadTime() time.Duration {
	if d, ok := deliveryLeadTimes[u]; ok {
		return d
	}

	return deliveryLeadTimes[UrgencyMedium]
}

// ParseUrgency returns the urgency for a given label (case-insensitive).
func ParseUrgency(label string) (Urgency, bool) {
	switch u := Urgency(strings.ToLower(strings.TrimSpace(label))); u {
	case UrgencyHigh, UrgencyMedium, UrgencyLow:
		return u, true
	}

	return "", false
}

// Trend is the recent direction of a product's sales.
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// ParseTrend returns the trend for a given label, defaulting to stable.
func ParseTrend(label string) Trend {
	switch t := Trend(strings.ToLower(strings.TrimSpace(label))); t {
	case TrendIncreasing, TrendDecreasing:
		return t
	}

	return TrendStable
}
