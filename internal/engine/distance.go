package engine

import "github.com/andresuchdata/stockguard/internal/domain"

// UnreachableDistance is reported for store pairs with no known distance.
// Such pairs are never matched, whatever the transfer radius.
const UnreachableDistance = 999.0

// DistanceLookup returns the distance in km between two stores. ok is false
// when the pair is unknown, in which case km is UnreachableDistance.
type DistanceLookup interface {
	Distance(storeA, storeB string) (km float64, ok bool)
}

// DistanceIndex is a symmetric adjacency map over distance edges.
type DistanceIndex struct {
	edges map[string]map[string]float64
}

// NewDistanceIndex indexes edges in both directions. When the same pair is
// listed more than once the first edge wins.
func NewDistanceIndex(edges []domain.DistanceEdge) *DistanceIndex {
	idx := &DistanceIndex{edges: make(map[string]map[string]float64)}
	for _, e := range edges {
		if idx.has(e.StoreA, e.StoreB) {
			continue
		}
		idx.set(e.StoreA, e.StoreB, e.DistanceKm)
		idx.set(e.StoreB, e.StoreA, e.DistanceKm)
	}
	return idx
}

func (d *DistanceIndex) set(a, b string, km float64) {
	m, ok := d.edges[a]
	if !ok {
		m = make(map[string]float64)
		d.edges[a] = m
	}
	m[b] = km
}

func (d *DistanceIndex) has(a, b string) bool {
	_, ok := d.edges[a][b]
	return ok
}

// Distance implements DistanceLookup.
func (d *DistanceIndex) Distance(storeA, storeB string) (float64, bool) {
	if storeA == storeB {
		return 0, true
	}
	if km, ok := d.edges[storeA][storeB]; ok {
		return km, true
	}
	return UnreachableDistance, false
}

// Edges returns the number of distinct store pairs indexed.
func (d *DistanceIndex) Edges() int {
	n := 0
	for _, m := range d.edges {
		n += len(m)
	}
	return n / 2
}

var _ DistanceLookup = (*DistanceIndex)(nil)
