// Package snapshot assembles immutable, point-in-time views of store
// inventory that the decision engine runs against.
package snapshot

import (
	"cmp"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"slices"
	"strings"
	"time"

	"github.com/andresuchdata/stockguard/internal/domain"
	"github.com/andresuchdata/stockguard/internal/engine"
)

// Tables are the raw collections a snapshot is built from.
type Tables struct {
	Stores    []domain.Store          `json:"stores"`
	Products  []domain.ProductLine    `json:"products"`
	Sales     []domain.SalesRecord    `json:"sales"`
	Distances []domain.DistanceEdge   `json:"distances"`
	Warehouse []domain.WarehouseStock `json:"warehouse"`
	Holidays  []domain.Holiday        `json:"holidays"`
}

// Snapshot is a read-only view of all inventory data at one point in time.
// Nothing in a Snapshot is modified after Build returns.
type Snapshot struct {
	Version  string
	LoadedAt time.Time
	Source   string

	stores    []domain.Store
	storeByID map[string]int
	lines     []domain.ProductLine
	byStore   map[string][]int
	sales     map[string][]domain.SalesRecord
	distances *engine.DistanceIndex
	warehouse engine.WarehouseIndex
	holidays  []domain.Holiday
}

// Build indexes t into a Snapshot. Sales are ordered by date per product and
// duplicate (store, product) lines keep their first occurrence.
func Build(t Tables, source string, loadedAt time.Time) *Snapshot {
	s := &Snapshot{
		Version:   version(t),
		LoadedAt:  loadedAt,
		Source:    source,
		storeByID: make(map[string]int, len(t.Stores)),
		byStore:   make(map[string][]int),
		sales:     make(map[string][]domain.SalesRecord),
		distances: engine.NewDistanceIndex(t.Distances),
		warehouse: engine.NewWarehouseIndex(t.Warehouse),
	}

	for _, st := range t.Stores {
		if _, ok := s.storeByID[st.ID]; ok {
			continue
		}
		s.storeByID[st.ID] = len(s.stores)
		s.stores = append(s.stores, st)
	}

	seen := make(map[[2]string]struct{}, len(t.Products))
	for _, p := range t.Products {
		key := [2]string{p.StoreID, p.ProductID}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		s.byStore[p.StoreID] = append(s.byStore[p.StoreID], len(s.lines))
		s.lines = append(s.lines, p)
	}

	for _, r := range t.Sales {
		s.sales[r.ProductID] = append(s.sales[r.ProductID], r)
	}
	for _, records := range s.sales {
		slices.SortStableFunc(records, func(a, b domain.SalesRecord) int {
			return a.Date.Compare(b.Date)
		})
	}

	s.holidays = slices.Clone(t.Holidays)
	slices.SortStableFunc(s.holidays, func(a, b domain.Holiday) int {
		return cmp.Compare(a.Date.Unix(), b.Date.Unix())
	})

	return s
}

func version(t Tables) string {
	payload, err := json.Marshal(t)
	if err != nil {
		return "unversioned"
	}
	sum := sha1.Sum(payload)
	return hex.EncodeToString(sum[:])[:12]
}

// Stores returns all stores in load order.
func (s *Snapshot) Stores() []domain.Store {
	return slices.Clone(s.stores)
}

func (s *Snapshot) Store(id string) (domain.Store, bool) {
	i, ok := s.storeByID[id]
	if !ok {
		return domain.Store{}, false
	}
	return s.stores[i], true
}

// Lines returns every product line across all stores.
func (s *Snapshot) Lines() []domain.ProductLine {
	return slices.Clone(s.lines)
}

// LinesForStore returns the product lines stocked at one store.
func (s *Snapshot) LinesForStore(storeID string) []domain.ProductLine {
	idx := s.byStore[storeID]
	out := make([]domain.ProductLine, 0, len(idx))
	for _, i := range idx {
		out = append(out, s.lines[i])
	}
	return out
}

// SalesSeries returns a product's units sold per day, oldest first.
func (s *Snapshot) SalesSeries(productID string) []int {
	records := s.sales[productID]
	out := make([]int, len(records))
	for i, r := range records {
		out[i] = r.UnitsSold
	}
	return out
}

func (s *Snapshot) Distances() engine.DistanceLookup {
	return s.distances
}

func (s *Snapshot) Warehouse() engine.WarehouseLookup {
	return s.warehouse
}

// HolidayImpact returns the multiplier of the first holiday after now that
// affects category, or fallback when none does.
func (s *Snapshot) HolidayImpact(category string, now time.Time, fallback float64) float64 {
	for _, h := range s.holidays {
		if !h.Date.After(now) {
			continue
		}
		for _, c := range h.AffectedCategories {
			if strings.EqualFold(strings.TrimSpace(c), category) {
				return h.ImpactMultiplier
			}
		}
	}
	if fallback < 1 {
		return 1
	}
	return fallback
}

// Stats summarises the snapshot's size.
type Stats struct {
	Version   string    `json:"version"`
	Source    string    `json:"source"`
	LoadedAt  time.Time `json:"loaded_at"`
	Stores    int       `json:"stores"`
	Products  int       `json:"products"`
	Sales     int       `json:"sales_series"`
	Distances int       `json:"distances"`
	Warehouse int       `json:"warehouse_items"`
	Holidays  int       `json:"holidays"`
}

func (s *Snapshot) Stats() Stats {
	return Stats{
		Version:   s.Version,
		Source:    s.Source,
		LoadedAt:  s.LoadedAt,
		Stores:    len(s.stores),
		Products:  len(s.lines),
		Sales:     len(s.sales),
		Distances: s.distances.Edges(),
		Warehouse: len(s.warehouse),
		Holidays:  len(s.holidays),
	}
}
