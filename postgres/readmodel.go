package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/warehouseops/go-allocation/postgres/internal"
	"github.com/warehouseops/go-allocation/product"
	"github.com/warehouseops/go-allocation/readmodel"
)

// Interface implementation assertion.
var _ readmodel.AllocationsView = new(AllocationsView)

// AllocationsView is a readmodel.AllocationsView implementation backed by
// the allocations_view table.
//
// It runs on its own pool connections, outside any Unit of Work
// transaction: the view trails the write model and is reconciled through
// Rebuild when the two diverge.
type AllocationsView struct {
	pool *pgxpool.Pool
}

// NewAllocationsView creates a new AllocationsView on the given
// connection pool.
func NewAllocationsView(pool *pgxpool.Pool) *AllocationsView {
	return &AllocationsView{pool: pool}
}

// Get implements readmodel.AllocationsView, returning the allocations for
// the given order sorted by SKU.
func (v *AllocationsView) Get(ctx context.Context, orderID string) ([]readmodel.Allocation, error) {
	rows, err := v.pool.Query(
		ctx,
		`SELECT sku, batch_ref FROM allocations_view WHERE order_id = $1 ORDER BY sku`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres.AllocationsView: failed to query allocations for order %s, %w", orderID, err)
	}

	defer rows.Close()

	var allocations []readmodel.Allocation

	for rows.Next() {
		var allocation readmodel.Allocation

		if err := rows.Scan(&allocation.SKU, &allocation.BatchRef); err != nil {
			return nil, fmt.Errorf("postgres.AllocationsView: failed to scan allocation row, %w", err)
		}

		allocations = append(allocations, allocation)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres.AllocationsView: failed to read allocation rows, %w", err)
	}

	return allocations, nil
}

// Add implements readmodel.AllocationsView. Re-adding an existing
// (order, sku) pair updates its batch reference.
func (v *AllocationsView) Add(ctx context.Context, orderID, sku, batchRef string) error {
	if _, err := v.pool.Exec(
		ctx,
		`INSERT INTO allocations_view (order_id, sku, batch_ref) VALUES ($1, $2, $3)
		 ON CONFLICT (order_id, sku) DO UPDATE SET batch_ref = excluded.batch_ref`,
		orderID, sku, batchRef,
	); err != nil {
		return fmt.Errorf("postgres.AllocationsView: failed to upsert allocation for order %s, %w", orderID, err)
	}

	return nil
}

// Remove implements readmodel.AllocationsView.
func (v *AllocationsView) Remove(ctx context.Context, orderID, sku string) error {
	if _, err := v.pool.Exec(
		ctx,
		`DELETE FROM allocations_view WHERE order_id = $1 AND sku = $2`,
		orderID, sku,
	); err != nil {
		return fmt.Errorf("postgres.AllocationsView: failed to remove allocation for order %s, %w", orderID, err)
	}

	return nil
}

// Rebuild truncates the view and re-derives every row from the current
// Product states, for manual reconciliation after the view has drifted
// from the write model (e.g. a projector kept failing).
//
// Product states are streamed on a separate connection while a
// transaction rewrites the view, so a rebuild does not need to hold the
// whole write model in memory.
func (v *AllocationsView) Rebuild(ctx context.Context) error {
	group, groupCtx := errgroup.WithContext(ctx)
	states := make(chan product.State, 1)

	group.Go(func() error {
		defer close(states)

		rows, err := v.pool.Query(groupCtx, `SELECT state FROM products`)
		if err != nil {
			return fmt.Errorf("failed to query product states, %w", err)
		}

		defer rows.Close()

		for rows.Next() {
			var state product.State

			if err := rows.Scan(&state); err != nil {
				return fmt.Errorf("failed to scan product state, %w", err)
			}

			select {
			case states <- state:
			case <-groupCtx.Done():
				return groupCtx.Err()
			}
		}

		if err := rows.Err(); err != nil {
			return fmt.Errorf("failed to read product state rows, %w", err)
		}

		return nil
	})

	group.Go(func() error {
		//nolint:exhaustruct // Other tx options are not needed.
		return internal.RunTransaction(groupCtx, v.pool, pgx.TxOptions{
			IsoLevel:   pgx.Serializable,
			AccessMode: pgx.ReadWrite,
		}, func(ctx context.Context, tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, `TRUNCATE allocations_view`); err != nil {
				return fmt.Errorf("failed to truncate view, %w", err)
			}

			for state := range states {
				for _, batch := range state.Batches {
					for _, line := range batch.Allocations {
						if _, err := tx.Exec(
							ctx,
							`INSERT INTO allocations_view (order_id, sku, batch_ref) VALUES ($1, $2, $3)
							 ON CONFLICT (order_id, sku) DO UPDATE SET batch_ref = excluded.batch_ref`,
							line.OrderID, line.SKU, batch.Ref,
						); err != nil {
							return fmt.Errorf("failed to insert allocation for order %s, %w", line.OrderID, err)
						}
					}
				}
			}

			return nil
		})
	})

	if err := group.Wait(); err != nil {
		return fmt.Errorf("postgres.AllocationsView: rebuild failed, %w", err)
	}

	return nil
}
