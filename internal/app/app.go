// Package app wires the storage backend, stores, and orchestrator
// together. All dependencies are constructed here and passed down
// explicitly; there is no ambient global state.
package app

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"bookstore-fulfillment/internal/config"
	"bookstore-fulfillment/internal/delivery"
	"bookstore-fulfillment/internal/fulfillment"
	"bookstore-fulfillment/internal/ident"
	"bookstore-fulfillment/internal/inventory"
	"bookstore-fulfillment/internal/sales"
	"bookstore-fulfillment/internal/storage"
)

// App holds the constructed services.
type App struct {
	Catalog    *inventory.Service
	Orders     *sales.Service
	Deliveries *delivery.Service
	Flow       *fulfillment.Orchestrator

	backend storage.Backend
}

// New builds the application from configuration.
func New(cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var backend storage.Backend
	switch cfg.StorageBackend {
	case config.BackendSQLite:
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		b, err := storage.OpenSQLite(filepath.Join(cfg.DataDir, "bookstore.db"))
		if err != nil {
			return nil, err
		}
		backend = b
	case config.BackendJSON:
		backend = storage.NewFileBackend(cfg.DataDir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}

	ids := ident.UUIDGenerator{}
	clock := ident.SystemClock{}

	catalog := inventory.New(backend.Collection(storage.CollectionBooks), ids, clock, log.Named("inventory"))
	orders := sales.New(backend.Collection(storage.CollectionOrders), nil, ids, clock, log.Named("sales"))
	deliveries := delivery.New(backend.Collection(storage.CollectionDeliveries), ids, clock, log.Named("delivery"))
	flow := fulfillment.New(catalog, orders, deliveries, &fulfillment.Tracker{}, log.Named("fulfillment"))

	return &App{
		Catalog:    catalog,
		Orders:     orders,
		Deliveries: deliveries,
		Flow:       flow,
		backend:    backend,
	}, nil
}

// Close releases the storage backend.
func (a *App) Close() error {
	return a.backend.Close()
}
