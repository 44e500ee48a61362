// Package allocation implements the application core of a warehouse
// stock-allocation service, built around an in-process message bus
// (CQRS style).
//
// The bus dispatches Commands to exactly one handler and broadcasts Events
// to zero or more handlers, coordinating a transactional Unit of Work and
// keeping a denormalized read model in sync with the write model through
// ordinary event handlers.
//
// Use the bootstrap package to wire a production or test MessageBus.
package allocation
