// Package sales implements the order store: order creation, payment
// processing, status transitions, and cancellation.
package sales

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"bookstore-fulfillment/internal/apperr"
	"bookstore-fulfillment/internal/ident"
	"bookstore-fulfillment/internal/model"
	"bookstore-fulfillment/internal/storage"
)

// DefaultPaymentMethod is used when the caller does not name one.
const DefaultPaymentMethod = "credit_card"

// ItemInput describes one requested line item. Title and UnitPrice
// are snapshots captured by the caller at validation time.
type ItemInput struct {
	BookID    string
	Title     string
	Quantity  int
	UnitPrice float64
}

// Service manages customer orders. Every operation is read-through:
// the collection is reloaded, mutated, and saved as one logical step.
type Service struct {
	orders  storage.Collection
	gateway Gateway
	ids     ident.Generator
	clock   ident.Clock
	log     *zap.Logger
}

// New creates an order service over the given collection.
// It panics if orders is nil. A nil gateway gets the simulated one.
func New(orders storage.Collection, gateway Gateway, ids ident.Generator, clock ident.Clock, log *zap.Logger) *Service {
	if orders == nil {
		panic("sales.New: nil collection")
	}
	if ids == nil {
		ids = ident.UUIDGenerator{}
	}
	if gateway == nil {
		gateway = SimulatedGateway{IDs: ids}
	}
	if clock == nil {
		clock = ident.SystemClock{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{orders: orders, gateway: gateway, ids: ids, clock: clock, log: log}
}

func (s *Service) load(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	if err := s.orders.Load(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// List returns every order.
func (s *Service) List(ctx context.Context) ([]model.Order, error) {
	return s.load(ctx)
}

// GetByID returns the order with the given id.
func (s *Service) GetByID(ctx context.Context, id string) (*model.Order, error) {
	orders, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID == id {
			o := orders[i]
			return &o, nil
		}
	}
	return nil, fmt.Errorf("order %s: %w", id, apperr.ErrOrderNotFound)
}

// Create builds a new order from the given items, computing subtotals
// and the total, and persists it as pending/pending.
func (s *Service) Create(ctx context.Context, customerName, customerEmail string, items []ItemInput, shippingAddress string) (*model.Order, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("order needs at least one item: %w", apperr.ErrInvalidInput)
	}
	orderItems := make([]model.OrderItem, 0, len(items))
	var total float64
	for _, in := range items {
		if in.BookID == "" {
			return nil, fmt.Errorf("item book_id is required: %w", apperr.ErrInvalidInput)
		}
		if in.Quantity <= 0 {
			return nil, fmt.Errorf("item quantity must be positive: %w", apperr.ErrInvalidInput)
		}
		if in.UnitPrice < 0 {
			return nil, fmt.Errorf("item unit_price must be non-negative: %w", apperr.ErrInvalidInput)
		}
		subtotal := float64(in.Quantity) * in.UnitPrice
		orderItems = append(orderItems, model.OrderItem{
			BookID:    in.BookID,
			Title:     in.Title,
			Quantity:  in.Quantity,
			UnitPrice: in.UnitPrice,
			Subtotal:  subtotal,
		})
		total += subtotal
	}

	order := model.Order{
		ID:              s.ids.NewID(),
		CustomerName:    customerName,
		CustomerEmail:   customerEmail,
		Items:           orderItems,
		TotalAmount:     total,
		Status:          model.OrderStatusPending,
		PaymentStatus:   model.PaymentStatusPending,
		ShippingAddress: shippingAddress,
		CreatedAt:       s.clock.Now(),
	}

	orders, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	orders = append(orders, order)
	if err := s.orders.Save(ctx, orders); err != nil {
		return nil, err
	}
	s.log.Info("order created",
		zap.String("order_id", order.ID),
		zap.Float64("total", order.TotalAmount),
		zap.Int("items", len(order.Items)),
	)
	return &order, nil
}

// PaymentResult is the outcome of a payment attempt.
type PaymentResult struct {
	OK        bool
	PaymentID string
	Order     *model.Order
}

// ProcessPayment charges the order. A second successful call is
// rejected without mutation: an already-paid order yields OK=false
// with the order unchanged, not an error. A gateway decline likewise
// yields OK=false with the order untouched.
func (s *Service) ProcessPayment(ctx context.Context, id, method string) (PaymentResult, error) {
	if method == "" {
		method = DefaultPaymentMethod
	}
	orders, err := s.load(ctx)
	if err != nil {
		return PaymentResult{}, err
	}
	for i := range orders {
		if orders[i].ID != id {
			continue
		}
		o := &orders[i]
		if o.PaymentStatus == model.PaymentStatusPaid {
			out := *o
			return PaymentResult{OK: false, Order: &out}, nil
		}
		paymentID, err := s.gateway.Charge(ctx, o, method)
		if err != nil {
			s.log.Warn("payment declined",
				zap.String("order_id", id),
				zap.String("method", method),
				zap.Error(err),
			)
			out := *o
			return PaymentResult{OK: false, Order: &out}, nil
		}
		now := s.clock.Now()
		o.PaymentStatus = model.PaymentStatusPaid
		o.PaymentID = paymentID
		o.Status = model.OrderStatusProcessing
		o.UpdatedAt = &now
		if err := s.orders.Save(ctx, orders); err != nil {
			return PaymentResult{}, err
		}
		s.log.Info("payment processed",
			zap.String("order_id", id),
			zap.String("payment_id", paymentID),
		)
		out := *o
		return PaymentResult{OK: true, PaymentID: paymentID, Order: &out}, nil
	}
	return PaymentResult{}, fmt.Errorf("order %s: %w", id, apperr.ErrOrderNotFound)
}

// UpdateStatus sets the order status and stamps the update time.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (*model.Order, error) {
	orders, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID != id {
			continue
		}
		o := &orders[i]
		now := s.clock.Now()
		o.Status = status
		o.UpdatedAt = &now
		if err := s.orders.Save(ctx, orders); err != nil {
			return nil, err
		}
		out := *o
		return &out, nil
	}
	return nil, fmt.Errorf("order %s: %w", id, apperr.ErrOrderNotFound)
}

// Cancel cancels the order. Shipped and delivered orders cannot be
// cancelled; the call then returns false and mutates nothing. A paid
// order is marked refunded on cancellation.
func (s *Service) Cancel(ctx context.Context, id string) (bool, error) {
	orders, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	for i := range orders {
		if orders[i].ID != id {
			continue
		}
		o := &orders[i]
		if !o.Cancellable() {
			return false, nil
		}
		now := s.clock.Now()
		o.Status = model.OrderStatusCancelled
		if o.PaymentStatus == model.PaymentStatusPaid {
			o.PaymentStatus = model.PaymentStatusRefunded
		}
		o.UpdatedAt = &now
		if err := s.orders.Save(ctx, orders); err != nil {
			return false, err
		}
		s.log.Info("order cancelled", zap.String("order_id", id))
		return true, nil
	}
	return false, fmt.Errorf("order %s: %w", id, apperr.ErrOrderNotFound)
}
