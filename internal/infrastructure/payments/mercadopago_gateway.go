package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"studioflow/internal/usecase/interfaces"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
)

var ErrMissingMercadoPagoAccessToken = errors.New("missing MERCADOPAGO_ACCESS_TOKEN")
var ErrMercadoPagoGatewayNotConfigured = errors.New("mercado pago gateway not configured")
var ErrInvalidPaymentID = errors.New("mercado pago payment id must be numeric")

// paymentGetter is the part of payment.Client the gateway reads through.
type paymentGetter interface {
	Get(ctx context.Context, id int) (*payment.Response, error)
}

type MercadoPagoGateway struct {
	client   paymentGetter
	mockMode bool
}

var _ interfaces.IPaymentGateway = (*MercadoPagoGateway)(nil)

func NewMercadoPagoGateway(accessToken string) (*MercadoPagoGateway, error) {
	if isPaymentGatewayMockEnabled() {
		log.Printf("[payment][gateway] mock mode enabled")
		return &MercadoPagoGateway{mockMode: true}, nil
	}

	if accessToken == "" {
		log.Printf("[payment][gateway] missing MERCADOPAGO_ACCESS_TOKEN")
		return nil, ErrMissingMercadoPagoAccessToken
	}

	cfg, err := config.New(accessToken)
	if err != nil {
		log.Printf("[payment][gateway] failed creating sdk config err=%v", err)
		return nil, err
	}
	log.Printf("[payment][gateway] Mercado Pago client initialized")

	return &MercadoPagoGateway{client: payment.NewClient(cfg)}, nil
}

// GetPayment looks up a provider payment. In mock mode every numeric id resolves to an approved
// payment without an amount, so the caller's amount is kept.
func (g *MercadoPagoGateway) GetPayment(ctx context.Context, providerPaymentID string) (interfaces.GatewayPayment, error) {
	id, err := strconv.Atoi(strings.TrimSpace(providerPaymentID))
	if err != nil || id <= 0 {
		return interfaces.GatewayPayment{}, ErrInvalidPaymentID
	}

	if g != nil && g.mockMode {
		now := time.Now().UTC().Format(time.RFC3339Nano)
		raw, err := json.Marshal(map[string]any{
			"id":            id,
			"status":        "approved",
			"status_detail": "accredited",
			"date_approved": now,
		})
		if err != nil {
			return interfaces.GatewayPayment{}, err
		}
		log.Printf("[payment][gateway] mock get provider_payment_id=%d provider_status=approved", id)
		return interfaces.GatewayPayment{ID: strconv.Itoa(id), Status: "approved", Raw: raw}, nil
	}

	if g == nil || g.client == nil {
		log.Printf("[payment][gateway] gateway not configured")
		return interfaces.GatewayPayment{}, ErrMercadoPagoGatewayNotConfigured
	}
	log.Printf("[payment][gateway] get start provider_payment_id=%d", id)

	resp, err := g.client.Get(ctx, id)
	if err != nil {
		log.Printf("[payment][gateway] sdk get failed provider_payment_id=%d err=%v", id, err)
		return interfaces.GatewayPayment{}, err
	}

	b, err := json.Marshal(resp)
	if err != nil {
		log.Printf("[payment][gateway] response marshal failed err=%v", err)
		return interfaces.GatewayPayment{}, err
	}
	log.Printf("[payment][gateway] get success provider_payment_id=%d provider_status=%s", resp.ID, resp.Status)

	return interfaces.GatewayPayment{
		ID:       fmt.Sprintf("%d", resp.ID),
		Status:   resp.Status,
		Amount:   resp.TransactionAmount,
		Currency: resp.CurrencyID,
		Raw:      b,
	}, nil
}

func isPaymentGatewayMockEnabled() bool {
	for _, key := range []string{"PAYMENT_GATEWAY_MOCK", "MERCADOPAGO_MOCK"} {
		v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
		switch v {
		case "1", "true", "yes", "on", "mock":
			return true
		}
	}
	return false
}
