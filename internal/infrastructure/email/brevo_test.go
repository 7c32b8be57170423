package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"studioflow/internal/usecase/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMailer(t *testing.T, handler http.HandlerFunc) *BrevoMailer {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	m, err := NewBrevoMailer(Options{APIKey: "key", SenderEmail: "noreply@studio.test", SenderName: "Studio", Sandbox: true, AppURL: "https://app.test/"})
	require.NoError(t, err)
	m.endpoint = srv.URL
	return m
}

func TestBrevoMailerSend(t *testing.T) {
	var got brevoSendRequest
	m := newTestMailer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key", r.Header.Get("api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"messageId":"<abc@brevo>"}`))
	})

	id, err := m.Send(context.Background(), "invoice_overdue",
		[]interfaces.Recipient{{Email: "acc@studio.test", Name: "Acc"}, {Email: " "}},
		map[string]string{"invoiceNumber": "INV-000007", "projectId": "p-1", "amount": "100.00"})
	require.NoError(t, err)
	assert.Equal(t, "<abc@brevo>", id)
	assert.Equal(t, "Invoice INV-000007 is overdue", got.Subject)
	require.Len(t, got.To, 1)
	assert.Equal(t, "drop", got.Headers["X-Sib-Sandbox"])
	assert.Contains(t, got.HtmlContent, "Hello Acc")
	assert.Contains(t, got.HtmlContent, "Invoice number: INV-000007")
	assert.Contains(t, got.HtmlContent, "https://app.test/projects/p-1")
	assert.NotContains(t, got.HtmlContent, "Project id")
}

func TestBrevoMailerSendFailureStatus(t *testing.T) {
	m := newTestMailer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":"unauthorized"}`))
	})
	_, err := m.Send(context.Background(), "task_assigned", []interfaces.Recipient{{Email: "d@studio.test"}}, map[string]string{"title": "Plan"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "401"))
}

func TestBrevoMailerRequiresRecipients(t *testing.T) {
	m, err := NewBrevoMailer(Options{Mock: true})
	require.NoError(t, err)
	_, err = m.Send(context.Background(), "task_assigned", nil, nil)
	assert.ErrorIs(t, err, ErrNoRecipients)
}

func TestBrevoMailerMockMode(t *testing.T) {
	m, err := NewBrevoMailer(Options{Mock: true})
	require.NoError(t, err)
	id, err := m.Send(context.Background(), "proposal_won", []interfaces.Recipient{{Email: "coo@studio.test"}}, map[string]string{"projectName": "Harbour"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "mock-"))
}

func TestNewBrevoMailerRequiresCredentials(t *testing.T) {
	_, err := NewBrevoMailer(Options{SenderEmail: "noreply@studio.test"})
	assert.ErrorIs(t, err, ErrMissingBrevoSetup)
}

func TestRenderSubjectFallsBackToEventName(t *testing.T) {
	s, err := renderSubject("proposal_lost", nil)
	require.NoError(t, err)
	assert.Equal(t, "Proposal lost", s)
}
