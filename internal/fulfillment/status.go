package fulfillment

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"bookstore-fulfillment/internal/apperr"
	"bookstore-fulfillment/internal/model"
)

// ItemStatus pairs an order-time line item snapshot with the live
// catalog record. BookDetails is nil when the book no longer resolves.
type ItemStatus struct {
	BookID      string      `json:"book_id"`
	Title       string      `json:"title"`
	Quantity    int         `json:"quantity"`
	UnitPrice   float64     `json:"unit_price"`
	Subtotal    float64     `json:"subtotal"`
	BookDetails *model.Book `json:"book_details"`
}

// StatusReport is the composite view of one order across all three
// stores. Delivery is nil when no delivery exists yet.
type StatusReport struct {
	Order    *model.Order    `json:"order"`
	Items    []ItemStatus    `json:"items"`
	Delivery *model.Delivery `json:"delivery"`
}

// OrderStatus gathers the order, its delivery (if any), and the live
// catalog record for each line item. A missing order is an error; a
// missing delivery or book is not.
func (o *Orchestrator) OrderStatus(ctx context.Context, orderID string) (*StatusReport, error) {
	o.tracker.Inc()
	defer o.tracker.Dec()

	order, err := o.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	report := &StatusReport{
		Order: order,
		Items: make([]ItemStatus, len(order.Items)),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		dlv, err := o.deliveries.GetByOrderID(ctx, orderID)
		if err != nil {
			if errors.Is(err, apperr.ErrDeliveryNotFound) {
				return nil
			}
			return err
		}
		report.Delivery = dlv
		return nil
	})

	for i, item := range order.Items {
		g.Go(func() error {
			st := ItemStatus{
				BookID:    item.BookID,
				Title:     item.Title,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
				Subtotal:  item.Subtotal,
			}
			book, err := o.catalog.GetByID(ctx, item.BookID)
			if err != nil && !errors.Is(err, apperr.ErrBookNotFound) {
				return err
			}
			st.BookDetails = book
			report.Items[i] = st
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}
