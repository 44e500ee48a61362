package uow

import (
	"context"
	"fmt"
	"sync"

	"github.com/warehouseops/go-allocation/event"
	"github.com/warehouseops/go-allocation/product"
)

// InMemoryStore is a thread-safe, in-memory Product store shared by the
// InMemory unit-of-work instances created on top of it.
type InMemoryStore struct {
	mx       sync.RWMutex
	products map[string]*product.Product
}

// NewInMemoryStore creates a new InMemoryStore instance.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		mx:       sync.RWMutex{},
		products: make(map[string]*product.Product),
	}
}

func (s *InMemoryStore) add(p *product.Product) {
	s.mx.Lock()
	defer s.mx.Unlock()

	s.products[p.SKU()] = p
}

func (s *InMemoryStore) get(sku string) *product.Product {
	s.mx.RLock()
	defer s.mx.RUnlock()

	return s.products[sku]
}

func (s *InMemoryStore) getByBatchRef(ref string) *product.Product {
	s.mx.RLock()
	defer s.mx.RUnlock()

	for _, p := range s.products {
		for _, batch := range p.Batches() {
			if batch.Ref() == ref {
				return p
			}
		}
	}

	return nil
}

// Interface implementation assertion.
var _ UnitOfWork = new(InMemory)

// InMemory is an in-memory UnitOfWork implementation, used in tests and as
// a bootstrap override. It offers no isolation: aggregate mutations are
// visible in the shared store before Commit, which tests must tolerate.
type InMemory struct {
	store     *InMemoryStore
	seen      []*product.Product
	committed bool
}

// NewInMemory creates a new InMemory unit of work on the given store.
func NewInMemory(store *InMemoryStore) *InMemory {
	return &InMemory{store: store, seen: nil, committed: false}
}

// Begin implements uow.UnitOfWork.
func (u *InMemory) Begin(context.Context) error {
	u.seen = nil
	u.committed = false

	return nil
}

// Commit implements uow.UnitOfWork.
func (u *InMemory) Commit(context.Context) error {
	u.committed = true

	return nil
}

// Rollback implements uow.UnitOfWork.
func (u *InMemory) Rollback(context.Context) error {
	return nil
}

// Committed reports whether the last transaction scope was committed.
func (u *InMemory) Committed() bool { return u.committed }

// Products implements uow.UnitOfWork.
func (u *InMemory) Products() product.Repository {
	return &inMemoryRepository{uow: u}
}

// CollectNewEvents implements uow.UnitOfWork.
func (u *InMemory) CollectNewEvents() []event.Event {
	var events []event.Event

	for _, p := range u.seen {
		events = append(events, p.FlushRecordedEvents()...)
	}

	return events
}

func (u *InMemory) markSeen(p *product.Product) {
	for _, seen := range u.seen {
		if seen == p {
			return
		}
	}

	u.seen = append(u.seen, p)
}

type inMemoryRepository struct {
	uow *InMemory
}

func (r *inMemoryRepository) Add(_ context.Context, p *product.Product) error {
	r.uow.store.add(p)
	r.uow.markSeen(p)

	return nil
}

func (r *inMemoryRepository) Get(_ context.Context, sku string) (*product.Product, error) {
	p := r.uow.store.get(sku)
	if p == nil {
		return nil, fmt.Errorf("uow.InMemory: failed to get product for sku %s, %w", sku, product.ErrNotFound)
	}

	r.uow.markSeen(p)

	return p, nil
}

func (r *inMemoryRepository) GetByBatchRef(_ context.Context, ref string) (*product.Product, error) {
	p := r.uow.store.getByBatchRef(ref)
	if p == nil {
		return nil, fmt.Errorf("uow.InMemory: failed to get product for batch ref %s, %w", ref, product.ErrNotFound)
	}

	r.uow.markSeen(p)

	return p, nil
}
