package interfaces

import (
	"context"
	"encoding/json"
)

// GatewayPayment is the provider's view of a payment, reduced to what reconciliation needs.
type GatewayPayment struct {
	ID       string
	Status   string
	Amount   float64
	Currency string
	Raw      json.RawMessage
}

// IPaymentGateway abstracts external payment providers (e.g. Mercado Pago).
//
// Accounts reference a provider payment id when recording an inflow; the gateway resolves it to
// the settled amount and keeps the provider response payload for traceability.
type IPaymentGateway interface {
	GetPayment(ctx context.Context, providerPaymentID string) (GatewayPayment, error)
}
