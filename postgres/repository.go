package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/warehouseops/go-allocation/aggregate"
	"github.com/warehouseops/go-allocation/product"
	"github.com/warehouseops/go-allocation/uow"
)

// Interface implementation assertion.
var _ product.Repository = new(ProductRepository)

// ProductRepository is a product.Repository implementation bound to the
// transaction of the UnitOfWork that created it. Aggregates it loads or
// stores are tracked as seen, so the UnitOfWork can save their state on
// Commit and drain their recorded Domain Events.
type ProductRepository struct {
	uow *UnitOfWork
}

// Add implements product.Repository. The aggregate state reaches the
// database on the owning UnitOfWork's Commit, not before.
func (r *ProductRepository) Add(_ context.Context, p *product.Product) error {
	if r.uow.tx == nil {
		return fmt.Errorf("postgres.ProductRepository: failed to add product, %w", uow.ErrNoTransaction)
	}

	r.uow.markSeen(p)

	return nil
}

// Get implements product.Repository.
func (r *ProductRepository) Get(ctx context.Context, sku string) (*product.Product, error) {
	return r.query(
		ctx,
		`SELECT version, state FROM products WHERE sku = $1`,
		sku,
		fmt.Sprintf("sku %s", sku),
	)
}

// GetByBatchRef implements product.Repository. The lookup scans the batches
// recorded in each Product state.
func (r *ProductRepository) GetByBatchRef(ctx context.Context, ref string) (*product.Product, error) {
	return r.query(
		ctx,
		`SELECT version, state FROM products
		 WHERE EXISTS (
		 	SELECT 1 FROM jsonb_array_elements(state -> 'batches') AS batch
		 	WHERE batch ->> 'ref' = $1
		 )`,
		ref,
		fmt.Sprintf("batch ref %s", ref),
	)
}

func (r *ProductRepository) query(ctx context.Context, sql, arg, subject string) (*product.Product, error) {
	if r.uow.tx == nil {
		return nil, fmt.Errorf("postgres.ProductRepository: failed to get product for %s, %w", subject, uow.ErrNoTransaction)
	}

	var (
		version int64
		state   product.State
	)

	err := r.uow.tx.QueryRow(ctx, sql, arg).Scan(&version, &state)

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return nil, fmt.Errorf("postgres.ProductRepository: failed to get product for %s, %w", subject, product.ErrNotFound)

	case err != nil:
		return nil, fmt.Errorf("postgres.ProductRepository: failed to query product for %s, %w", subject, err)
	}

	p, err := aggregate.RehydrateFromState[product.State, *product.Product](version, state, product.StateSerde)
	if err != nil {
		return nil, fmt.Errorf("postgres.ProductRepository: failed to rehydrate product for %s, %w", subject, err)
	}

	r.uow.markSeen(p)

	return p, nil
}
