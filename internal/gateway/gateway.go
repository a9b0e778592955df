package gateway

import "context"

// Client abstracts the payment gateway's order API. The gateway is an opaque
// external collaborator: orders are opened there before any local write is
// meaningful.
type Client interface {
	// CreateOrder opens an order for the given amount in minor currency units
	// and returns the gateway's order id.
	CreateOrder(ctx context.Context, amountMinorUnits int64, currency, receipt string, notes map[string]string) (string, error)
}
