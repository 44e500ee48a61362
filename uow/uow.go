// Package uow defines the Unit of Work port: a transactional scope around
// one storage session, owning the aggregates touched during the transaction
// and the protocol to drain the Domain Events they raised.
package uow

import (
	"context"
	"errors"

	"github.com/warehouseops/go-allocation/event"
	"github.com/warehouseops/go-allocation/product"
)

// ErrNoTransaction is returned when Commit or a repository operation is
// attempted outside an active transaction scope.
var ErrNoTransaction = errors.New("uow: no active transaction")

// UnitOfWork is the transactional boundary used by command handlers.
//
// Lifecycle: Begin opens a fresh transaction scope and resets the set of
// seen aggregates; only an explicit Commit persists changes; Rollback
// releases the scope and is a no-op after Commit, so handlers can
// `defer uow.Rollback(ctx)` to guarantee release on every exit path.
//
// A UnitOfWork instance is exclusively owned by one message-bus dispatch
// at a time and must not be shared across concurrent callers.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	// Products returns the Product repository bound to the
	// current transaction.
	Products() product.Repository

	// CollectNewEvents drains the recorded-event buffer of every aggregate
	// seen during the transaction. Each event is returned at most once;
	// calling again after exhaustion yields nothing until further mutation
	// occurs.
	CollectNewEvents() []event.Event
}

// SessionFactory constructs a new UnitOfWork bound to a storage session.
// The composition root uses it to swap storage backends (e.g. an in-memory
// one in tests) without touching call sites.
type SessionFactory func(ctx context.Context) (UnitOfWork, error)
