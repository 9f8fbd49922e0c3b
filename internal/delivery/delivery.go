// Package delivery implements the delivery store: shipment records
// indexed by order, with status transitions and a delivered-date
// latch.
package delivery

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"bookstore-fulfillment/internal/apperr"
	"bookstore-fulfillment/internal/ident"
	"bookstore-fulfillment/internal/model"
	"bookstore-fulfillment/internal/storage"
)

// DefaultCarrier labels deliveries created without an explicit carrier.
const DefaultCarrier = "Standard Shipping"

// estimateWindow is how far out new deliveries are estimated.
const estimateWindow = 5 * 24 * time.Hour

// Service manages delivery records. Every operation is read-through:
// the collection is reloaded, mutated, and saved as one logical step.
type Service struct {
	deliveries storage.Collection
	ids        ident.Generator
	clock      ident.Clock
	log        *zap.Logger
}

// New creates a delivery service over the given collection.
// It panics if deliveries is nil.
func New(deliveries storage.Collection, ids ident.Generator, clock ident.Clock, log *zap.Logger) *Service {
	if deliveries == nil {
		panic("delivery.New: nil collection")
	}
	if ids == nil {
		ids = ident.UUIDGenerator{}
	}
	if clock == nil {
		clock = ident.SystemClock{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{deliveries: deliveries, ids: ids, clock: clock, log: log}
}

func (s *Service) load(ctx context.Context) ([]model.Delivery, error) {
	var deliveries []model.Delivery
	if err := s.deliveries.Load(ctx, &deliveries); err != nil {
		return nil, err
	}
	return deliveries, nil
}

// List returns every delivery record.
func (s *Service) List(ctx context.Context) ([]model.Delivery, error) {
	return s.load(ctx)
}

// GetByID returns the delivery with the given id.
func (s *Service) GetByID(ctx context.Context, id string) (*model.Delivery, error) {
	deliveries, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range deliveries {
		if deliveries[i].ID == id {
			d := deliveries[i]
			return &d, nil
		}
	}
	return nil, fmt.Errorf("delivery %s: %w", id, apperr.ErrDeliveryNotFound)
}

// GetByOrderID returns the delivery created for the given order.
func (s *Service) GetByOrderID(ctx context.Context, orderID string) (*model.Delivery, error) {
	deliveries, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range deliveries {
		if deliveries[i].OrderID == orderID {
			d := deliveries[i]
			return &d, nil
		}
	}
	return nil, fmt.Errorf("order %s: %w", orderID, apperr.ErrDeliveryNotFound)
}

// CreateForOrder creates a delivery in the preparing state with a
// fresh tracking number and an estimate five days out. An empty
// carrier defaults to the standard-shipping label.
func (s *Service) CreateForOrder(ctx context.Context, orderID, shippingAddress, carrier string) (*model.Delivery, error) {
	if orderID == "" {
		return nil, fmt.Errorf("order_id is required: %w", apperr.ErrInvalidInput)
	}
	if carrier == "" {
		carrier = DefaultCarrier
	}
	now := s.clock.Now()
	estimate := now.Add(estimateWindow)
	d := model.Delivery{
		ID:                    s.ids.NewID(),
		OrderID:               orderID,
		Status:                model.DeliveryStatusPreparing,
		ShippingAddress:       shippingAddress,
		TrackingNumber:        s.ids.NewTrackingNumber(),
		Carrier:               carrier,
		EstimatedDeliveryDate: &estimate,
		CreatedAt:             now,
	}

	deliveries, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	deliveries = append(deliveries, d)
	if err := s.deliveries.Save(ctx, deliveries); err != nil {
		return nil, err
	}
	s.log.Info("delivery created",
		zap.String("delivery_id", d.ID),
		zap.String("order_id", orderID),
		zap.String("tracking", d.TrackingNumber),
	)
	return &d, nil
}

// UpdateStatus sets the delivery status and optional notes. The first
// transition into delivered latches the actual delivery date; repeated
// delivered calls leave the original timestamp in place.
func (s *Service) UpdateStatus(ctx context.Context, id, status, notes string) (*model.Delivery, error) {
	if !model.ValidDeliveryStatus(status) {
		return nil, fmt.Errorf("unknown delivery status %q: %w", status, apperr.ErrInvalidInput)
	}
	deliveries, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range deliveries {
		if deliveries[i].ID != id {
			continue
		}
		d := &deliveries[i]
		s.applyStatus(d, status, notes)
		if err := s.deliveries.Save(ctx, deliveries); err != nil {
			return nil, err
		}
		out := *d
		return &out, nil
	}
	return nil, fmt.Errorf("delivery %s: %w", id, apperr.ErrDeliveryNotFound)
}

// UpdateStatusByOrderID is UpdateStatus addressed by the owning order.
func (s *Service) UpdateStatusByOrderID(ctx context.Context, orderID, status, notes string) (*model.Delivery, error) {
	if !model.ValidDeliveryStatus(status) {
		return nil, fmt.Errorf("unknown delivery status %q: %w", status, apperr.ErrInvalidInput)
	}
	deliveries, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range deliveries {
		if deliveries[i].OrderID != orderID {
			continue
		}
		d := &deliveries[i]
		s.applyStatus(d, status, notes)
		if err := s.deliveries.Save(ctx, deliveries); err != nil {
			return nil, err
		}
		out := *d
		return &out, nil
	}
	return nil, fmt.Errorf("order %s: %w", orderID, apperr.ErrDeliveryNotFound)
}

func (s *Service) applyStatus(d *model.Delivery, status, notes string) {
	now := s.clock.Now()
	d.Status = status
	d.UpdatedAt = &now
	if notes != "" {
		d.Notes = notes
	}
	if status == model.DeliveryStatusDelivered && d.ActualDeliveryDate == nil {
		d.ActualDeliveryDate = &now
	}
}

// SetTracking overrides the tracking number and carrier.
func (s *Service) SetTracking(ctx context.Context, id, trackingNumber, carrier string) (*model.Delivery, error) {
	deliveries, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range deliveries {
		if deliveries[i].ID != id {
			continue
		}
		d := &deliveries[i]
		now := s.clock.Now()
		d.TrackingNumber = trackingNumber
		d.Carrier = carrier
		d.UpdatedAt = &now
		if err := s.deliveries.Save(ctx, deliveries); err != nil {
			return nil, err
		}
		out := *d
		return &out, nil
	}
	return nil, fmt.Errorf("delivery %s: %w", id, apperr.ErrDeliveryNotFound)
}
