package payments

import (
	"context"
	"errors"
	"testing"

	"github.com/mercadopago/sdk-go/pkg/payment"
)

type fakeGetter struct {
	resp  *payment.Response
	err   error
	gotID int
}

func (f *fakeGetter) Get(_ context.Context, id int) (*payment.Response, error) {
	f.gotID = id
	return f.resp, f.err
}

func TestGetPaymentMapsProviderResponse(t *testing.T) {
	f := &fakeGetter{resp: &payment.Response{ID: 123, Status: "approved", TransactionAmount: 250.5, CurrencyID: "BRL"}}
	g := &MercadoPagoGateway{client: f}

	gp, err := g.GetPayment(context.Background(), " 123 ")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if f.gotID != 123 {
		t.Fatalf("expected sdk id 123, got %d", f.gotID)
	}
	if gp.ID != "123" || gp.Status != "approved" || gp.Amount != 250.5 || gp.Currency != "BRL" {
		t.Fatalf("unexpected gateway payment: %+v", gp)
	}
	if len(gp.Raw) == 0 {
		t.Fatalf("expected raw payload")
	}
}

func TestGetPaymentPropagatesSDKError(t *testing.T) {
	g := &MercadoPagoGateway{client: &fakeGetter{err: errors.New(`{"status":404,"error":"not_found"}`)}}
	if _, err := g.GetPayment(context.Background(), "9"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestGetPaymentRejectsNonNumericID(t *testing.T) {
	g := &MercadoPagoGateway{mockMode: true}
	if _, err := g.GetPayment(context.Background(), "abc"); !errors.Is(err, ErrInvalidPaymentID) {
		t.Fatalf("expected ErrInvalidPaymentID, got %v", err)
	}
}

func TestGetPaymentMockMode(t *testing.T) {
	t.Setenv("PAYMENT_GATEWAY_MOCK", "true")
	g, err := NewMercadoPagoGateway("")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	gp, err := g.GetPayment(context.Background(), "42")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if gp.Status != "approved" || gp.ID != "42" || gp.Amount != 0 {
		t.Fatalf("unexpected mock payment: %+v", gp)
	}
}

func TestNewGatewayRequiresToken(t *testing.T) {
	t.Setenv("PAYMENT_GATEWAY_MOCK", "")
	t.Setenv("MERCADOPAGO_MOCK", "")
	if _, err := NewMercadoPagoGateway(""); !errors.Is(err, ErrMissingMercadoPagoAccessToken) {
		t.Fatalf("expected ErrMissingMercadoPagoAccessToken, got %v", err)
	}
}

func TestNotConfiguredGateway(t *testing.T) {
	var g *MercadoPagoGateway
	if _, err := g.GetPayment(context.Background(), "1"); !errors.Is(err, ErrMercadoPagoGatewayNotConfigured) {
		t.Fatalf("expected not configured, got %v", err)
	}
}
