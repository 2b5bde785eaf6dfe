package repository

import (
	"context"
	"slices"
	"sync"

	"github.com/andresuchdata/stockguard/internal/domain"
)

// ActionRepository records transfers and warehouse orders that operators
// accepted. It never feeds back into a snapshot.
type ActionRepository interface {
	SaveTransfer(ctx context.Context, rec domain.TransferRecord) error
	SaveOrder(ctx context.Context, rec domain.OrderRecord) error
	// ListTransfers returns the newest transfers first. limit <= 0 means all.
	ListTransfers(ctx context.Context, limit int) ([]domain.TransferRecord, error)
	ListOrders(ctx context.Context, limit int) ([]domain.OrderRecord, error)
}

type memoryActionRepository struct {
	mu        sync.RWMutex
	transfers []domain.TransferRecord
	orders    []domain.OrderRecord
}

// NewMemoryActionRepository keeps accepted actions in process memory. It is
// used when no database is configured.
func NewMemoryActionRepository() ActionRepository {
	return &memoryActionRepository{}
}

func (r *memoryActionRepository) SaveTransfer(ctx context.Context, rec domain.TransferRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transfers = append(r.transfers, rec)
	return nil
}

func (r *memoryActionRepository) SaveOrder(ctx context.Context, rec domain.OrderRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, rec)
	return nil
}

func (r *memoryActionRepository) ListTransfers(ctx context.Context, limit int) ([]domain.TransferRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return newestFirst(r.transfers, limit), nil
}

func (r *memoryActionRepository) ListOrders(ctx context.Context, limit int) ([]domain.OrderRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return newestFirst(r.orders, limit), nil
}

func newestFirst[T any](items []T, limit int) []T {
	out := slices.Clone(items)
	slices.Reverse(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []T{}
	}
	return out
}
