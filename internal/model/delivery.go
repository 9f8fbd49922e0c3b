package model

import "time"

// Delivery status values.
const (
	DeliveryStatusPending   = "pending"
	DeliveryStatusPreparing = "preparing"
	DeliveryStatusShipped   = "shipped"
	DeliveryStatusInTransit = "in_transit"
	DeliveryStatusDelivered = "delivered"
	DeliveryStatusFailed    = "failed"
)

// ValidDeliveryStatus reports whether s is a known delivery status.
func ValidDeliveryStatus(s string) bool {
	switch s {
	case DeliveryStatusPending, DeliveryStatusPreparing, DeliveryStatusShipped,
		DeliveryStatusInTransit, DeliveryStatusDelivered, DeliveryStatusFailed:
		return true
	}
	return false
}

// Delivery is a shipment record for an order. At most one delivery
// exists per order; the orchestrator enforces that, not the store.
// ActualDeliveryDate is latched on the first transition into delivered
// and never overwritten.
type Delivery struct {
	ID                    string     `json:"id"`
	OrderID               string     `json:"order_id"`
	Status                string     `json:"status"`
	ShippingAddress       string     `json:"shipping_address"`
	TrackingNumber        string     `json:"tracking_number,omitempty"`
	Carrier               string     `json:"carrier,omitempty"`
	EstimatedDeliveryDate *time.Time `json:"estimated_delivery_date,omitempty"`
	ActualDeliveryDate    *time.Time `json:"actual_delivery_date,omitempty"`
	Notes                 string     `json:"notes,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             *time.Time `json:"updated_at,omitempty"`
}
