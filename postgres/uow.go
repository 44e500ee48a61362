package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/warehouseops/go-allocation/event"
	"github.com/warehouseops/go-allocation/product"
	"github.com/warehouseops/go-allocation/uow"
)

// Interface implementation assertion.
var _ uow.UnitOfWork = new(UnitOfWork)

// UnitOfWork is a uow.UnitOfWork implementation backed by a PostgreSQL
// transaction, opened with SERIALIZABLE isolation.
//
// Concurrent writers touching the same Product rows fail to commit with a
// serialization error instead of producing lost updates; callers are
// expected to retry the whole command in that case.
type UnitOfWork struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
	seen []*product.Product
}

// New creates a new UnitOfWork on the given connection pool.
func New(pool *pgxpool.Pool) *UnitOfWork {
	return &UnitOfWork{pool: pool, tx: nil, seen: nil}
}

// NewSessionFactory returns a uow.SessionFactory producing fresh UnitOfWork
// instances on the given connection pool, one per message-bus dispatch.
func NewSessionFactory(pool *pgxpool.Pool) uow.SessionFactory {
	return func(_ context.Context) (uow.UnitOfWork, error) {
		return New(pool), nil
	}
}

// Begin implements uow.UnitOfWork. Calling it with a transaction already
// open discards that transaction and starts a new scope.
func (u *UnitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		if err := u.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			return fmt.Errorf("postgres.UnitOfWork: failed to discard previous transaction, %w", err)
		}
	}

	//nolint:exhaustruct // Other tx options are not needed.
	tx, err := u.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.Serializable,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return fmt.Errorf("postgres.UnitOfWork: failed to begin transaction, %w", err)
	}

	u.tx = tx
	u.seen = nil

	return nil
}

// Commit implements uow.UnitOfWork. It saves the state of every aggregate
// seen during the transaction scope, then commits the underlying
// PostgreSQL transaction.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return fmt.Errorf("postgres.UnitOfWork: commit failed, %w", uow.ErrNoTransaction)
	}

	for _, p := range u.seen {
		if err := u.save(ctx, p); err != nil {
			return err
		}
	}

	if err := u.tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres.UnitOfWork: failed to commit transaction, %w", err)
	}

	u.tx = nil

	return nil
}

// Rollback implements uow.UnitOfWork. It releases the transaction scope,
// and is a no-op when no transaction is active or the transaction has
// already been committed.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}

	if err := u.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("postgres.UnitOfWork: failed to rollback transaction, %w", err)
	}

	u.tx = nil

	return nil
}

// Products implements uow.UnitOfWork.
func (u *UnitOfWork) Products() product.Repository {
	return &ProductRepository{uow: u}
}

// CollectNewEvents implements uow.UnitOfWork.
func (u *UnitOfWork) CollectNewEvents() []event.Event {
	var events []event.Event

	for _, p := range u.seen {
		events = append(events, p.FlushRecordedEvents()...)
	}

	return events
}

func (u *UnitOfWork) save(ctx context.Context, p *product.Product) error {
	state, err := product.StateSerde.Serialize(p)
	if err != nil {
		return fmt.Errorf("postgres.UnitOfWork: failed to serialize product state for sku %s, %w", p.SKU(), err)
	}

	if _, err := u.tx.Exec(
		ctx,
		`INSERT INTO products (sku, version, state) VALUES ($1, $2, $3)
		 ON CONFLICT (sku) DO UPDATE SET version = excluded.version, state = excluded.state`,
		p.SKU(), p.Version(), state,
	); err != nil {
		return fmt.Errorf("postgres.UnitOfWork: failed to save product state for sku %s, %w", p.SKU(), err)
	}

	return nil
}

func (u *UnitOfWork) markSeen(p *product.Product) {
	for _, seen := range u.seen {
		if seen == p {
			return
		}
	}

	u.seen = append(u.seen, p)
}
