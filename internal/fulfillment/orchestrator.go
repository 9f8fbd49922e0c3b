// Package fulfillment coordinates the inventory, sales, and delivery
// stores to execute the complete-order workflow. It is the only
// caller that touches more than one store per operation; it holds no
// persistent state of its own and compensates reserved stock when a
// later step fails.
package fulfillment

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"bookstore-fulfillment/internal/apperr"
	"bookstore-fulfillment/internal/delivery"
	"bookstore-fulfillment/internal/inventory"
	"bookstore-fulfillment/internal/model"
	"bookstore-fulfillment/internal/sales"
)

// Orchestrator sequences the complete-order workflow across the
// three stores.
type Orchestrator struct {
	catalog    *inventory.Service
	orders     *sales.Service
	deliveries *delivery.Service
	tracker    *Tracker
	log        *zap.Logger
}

// New creates an orchestrator over the three stores.
// It panics if any store is nil.
func New(catalog *inventory.Service, orders *sales.Service, deliveries *delivery.Service, tr *Tracker, log *zap.Logger) *Orchestrator {
	if catalog == nil || orders == nil || deliveries == nil {
		panic("fulfillment.New: nil store")
	}
	if tr == nil {
		tr = &Tracker{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		catalog:    catalog,
		orders:     orders,
		deliveries: deliveries,
		tracker:    tr,
		log:        log,
	}
}

// Tracker returns the in-flight operation counter.
func (o *Orchestrator) Tracker() *Tracker { return o.tracker }

// ItemRequest is one requested (book, quantity) pair.
type ItemRequest struct {
	BookID   string `json:"book_id"`
	Quantity int    `json:"quantity"`
}

// CompleteOrderRequest carries the input of the complete-order
// workflow. PaymentMethod and Carrier are optional.
type CompleteOrderRequest struct {
	CustomerName    string
	CustomerEmail   string
	Items           []ItemRequest
	ShippingAddress string
	PaymentMethod   string
	Carrier         string
}

// Result is the outcome of a successful complete-order workflow.
type Result struct {
	Order     *model.Order
	Delivery  *model.Delivery
	PaymentID string
}

// reservation records a stock decrement so it can be reversed if a
// later step fails.
type reservation struct {
	bookID string
	qty    int
}

// CompleteOrder executes the integrated workflow:
// validate stock for every item, reserve stock, create the order,
// charge payment, create the delivery. On failure after reservation
// began, every reserved item is restored before the error surfaces.
//
// The validation pass completes for all items before any mutation;
// a miss partway through validation reserves nothing. When payment
// fails, the order is kept in place unpaid and only stock is
// compensated.
func (o *Orchestrator) CompleteOrder(ctx context.Context, req CompleteOrderRequest) (*Result, error) {
	o.tracker.Inc()
	defer o.tracker.Dec()

	if len(req.Items) == 0 {
		return nil, fmt.Errorf("no items requested: %w", apperr.ErrInvalidInput)
	}

	// Read-only validation pass. Unit prices are captured here, at
	// validation time, and not re-read later.
	items := make([]sales.ItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("book %s: quantity must be positive: %w", it.BookID, apperr.ErrInvalidInput)
		}
		book, err := o.catalog.GetByID(ctx, it.BookID)
		if err != nil {
			return nil, err
		}
		if !book.Available(it.Quantity) {
			return nil, fmt.Errorf("book %q: available %d, requested %d: %w",
				book.Title, book.StockQuantity, it.Quantity, apperr.ErrInsufficientStock)
		}
		items = append(items, sales.ItemInput{
			BookID:    it.BookID,
			Title:     book.Title,
			Quantity:  it.Quantity,
			UnitPrice: book.Price,
		})
	}

	// Reservation phase. Stock-level validation passed, so each
	// reserve is expected to succeed; a failure here (concurrent
	// depletion) aborts and restores everything reserved so far.
	reserved := make([]reservation, 0, len(items))
	for _, it := range items {
		if _, err := o.catalog.Reserve(ctx, it.BookID, it.Quantity); err != nil {
			o.compensate(ctx, reserved)
			return nil, fmt.Errorf("reserve book %s: %v: %w", it.BookID, err, apperr.ErrProcessingFailed)
		}
		reserved = append(reserved, reservation{bookID: it.BookID, qty: it.Quantity})
	}

	order, err := o.orders.Create(ctx, req.CustomerName, req.CustomerEmail, items, req.ShippingAddress)
	if err != nil {
		o.compensate(ctx, reserved)
		return nil, fmt.Errorf("create order: %v: %w", err, apperr.ErrProcessingFailed)
	}

	// Payment phase. On failure the order stays in place unpaid;
	// only the reserved stock is rolled back.
	payment, err := o.orders.ProcessPayment(ctx, order.ID, req.PaymentMethod)
	if err != nil {
		o.compensate(ctx, reserved)
		return nil, fmt.Errorf("process payment: %v: %w", err, apperr.ErrProcessingFailed)
	}
	if !payment.OK {
		o.compensate(ctx, reserved)
		return nil, fmt.Errorf("order %s: %w", order.ID, apperr.ErrPaymentFailed)
	}
	order = payment.Order

	// Delivery phase. Order and payment are already committed, so a
	// failure here propagates without further compensation.
	dlv, err := o.deliveries.CreateForOrder(ctx, order.ID, req.ShippingAddress, req.Carrier)
	if err != nil {
		return nil, fmt.Errorf("create delivery: %v: %w", err, apperr.ErrProcessingFailed)
	}

	o.log.Info("order completed",
		zap.String("order_id", order.ID),
		zap.String("delivery_id", dlv.ID),
		zap.String("payment_id", payment.PaymentID),
	)
	return &Result{Order: order, Delivery: dlv, PaymentID: payment.PaymentID}, nil
}

// compensate restores stock for every recorded reservation. Secondary
// errors are logged and swallowed so they never mask the original
// failure.
func (o *Orchestrator) compensate(ctx context.Context, reserved []reservation) {
	for _, r := range reserved {
		if _, err := o.catalog.Restore(ctx, r.bookID, r.qty); err != nil {
			o.log.Warn("compensation failed",
				zap.String("book_id", r.bookID),
				zap.Int("quantity", r.qty),
				zap.Error(err),
			)
		}
	}
}
