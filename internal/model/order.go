package model

import "time"

// Order status values. Status and PaymentStatus are independent axes.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Payment status values.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// OrderItem is a line item inside an order. Title and UnitPrice are
// snapshots taken at order time, not live catalog references.
// Immutable once the containing order is created.
type OrderItem struct {
	BookID    string  `json:"book_id"`
	Title     string  `json:"title"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
}

// Order is a customer order with embedded line items.
// PaymentID is set exactly once, when PaymentStatus first reaches paid.
type Order struct {
	ID              string      `json:"id"`
	CustomerName    string      `json:"customer_name"`
	CustomerEmail   string      `json:"customer_email"`
	Items           []OrderItem `json:"items"`
	TotalAmount     float64     `json:"total_amount"`
	Status          string      `json:"status"`
	PaymentStatus   string      `json:"payment_status"`
	PaymentID       string      `json:"payment_id,omitempty"`
	ShippingAddress string      `json:"shipping_address,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       *time.Time  `json:"updated_at,omitempty"`
}

// Cancellable reports whether the order may still be cancelled.
// Shipped and delivered orders cannot be.
func (o *Order) Cancellable() bool {
	return o.Status != OrderStatusShipped && o.Status != OrderStatusDelivered
}
