package sales

import (
	"context"

	"bookstore-fulfillment/internal/ident"
	"bookstore-fulfillment/internal/model"
)

// Gateway charges an order and returns the payment identifier.
// A non-nil error means the charge was declined or could not be made.
type Gateway interface {
	Charge(ctx context.Context, order *model.Order, method string) (string, error)
}

// SimulatedGateway approves every charge and mints a payment id.
// It stands in for a real payment provider.
type SimulatedGateway struct {
	IDs ident.Generator
}

func (g SimulatedGateway) Charge(_ context.Context, _ *model.Order, _ string) (string, error) {
	ids := g.IDs
	if ids == nil {
		ids = ident.UUIDGenerator{}
	}
	return ids.NewPaymentID(), nil
}
