// Package storage provides the persistent record collections the
// stores run on. A collection is a named set of JSON documents that
// is loaded whole and saved whole; every logical store operation is
// a fresh load + mutate + save.
//
// Two backends are available: flat JSON files and an embedded SQLite
// database. Both tolerate an empty or missing backing store by
// loading an empty collection.
package storage

import "context"

// Collection is a keyed record set surviving process restarts.
// Load decodes the entire collection into v, which must be a pointer
// to a slice of records. Save replaces the stored collection with v.
type Collection interface {
	Load(ctx context.Context, v any) error
	Save(ctx context.Context, v any) error
}

// Names of the three collections used by the bookstore.
const (
	CollectionBooks      = "books"
	CollectionOrders     = "orders"
	CollectionDeliveries = "deliveries"
)

// Backend opens named collections and owns any shared handle
// behind them.
type Backend interface {
	Collection(name string) Collection
	Close() error
}
