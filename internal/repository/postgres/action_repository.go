package postgres

import (
	"context"
	"fmt"

	"github.com/andresuchdata/stockguard/internal/domain"
	"github.com/andresuchdata/stockguard/internal/repository"
	"github.com/jmoiron/sqlx"
)

type actionRepository struct {
	db *DB
}

func NewActionRepository(db *DB) repository.ActionRepository {
	return &actionRepository{db: db}
}

func (r *actionRepository) SaveTransfer(ctx context.Context, rec domain.TransferRecord) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO transfer_history (
				transfer_id, from_store, to_store, product_name,
				quantity, status, created_at, completed_at
			) VALUES (
				:transfer_id, :from_store, :to_store, :product_name,
				:quantity, :status, :created_at, :completed_at
			)
		`
		if _, err := tx.NamedExecContext(ctx, query, rec); err != nil {
			return fmt.Errorf("failed to insert transfer %s: %w", rec.TransferID, err)
		}
		return nil
	})
}

func (r *actionRepository) SaveOrder(ctx context.Context, rec domain.OrderRecord) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO pending_orders (
				order_id, store_id, product_name, quantity,
				urgency, status, created_at, estimated_delivery
			) VALUES (
				:order_id, :store_id, :product_name, :quantity,
				:urgency, :status, :created_at, :estimated_delivery
			)
		`
		if _, err := tx.NamedExecContext(ctx, query, rec); err != nil {
			return fmt.Errorf("failed to insert order %s: %w", rec.OrderID, err)
		}
		return nil
	})
}

func (r *actionRepository) ListTransfers(ctx context.Context, limit int) ([]domain.TransferRecord, error) {
	query := `
		SELECT transfer_id, from_store, to_store, product_name,
		       quantity, status, created_at, completed_at
		FROM transfer_history
		ORDER BY created_at DESC, transfer_id DESC
	`
	query, args := withLimit(query, limit)

	transfers := []domain.TransferRecord{}
	if err := r.db.SelectContext(ctx, &transfers, query, args...); err != nil {
		return nil, fmt.Errorf("error listing transfers: %w", err)
	}
	return transfers, nil
}

func (r *actionRepository) ListOrders(ctx context.Context, limit int) ([]domain.OrderRecord, error) {
	query := `
		SELECT order_id, store_id, product_name, quantity,
		       urgency, status, created_at, estimated_delivery
		FROM pending_orders
		ORDER BY created_at DESC, order_id DESC
	`
	query, args := withLimit(query, limit)

	orders := []domain.OrderRecord{}
	if err := r.db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, fmt.Errorf("error listing orders: %w", err)
	}
	return orders, nil
}

func withLimit(query string, limit int) (string, []interface{}) {
	if limit <= 0 {
		return query, nil
	}
	return query + " LIMIT $1", []interface{}{limit}
}
