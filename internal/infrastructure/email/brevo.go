package email

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"studioflow/internal/usecase/interfaces"
)

const defaultBrevoEndpoint = "https://api.brevo.com/v3/smtp/email"

var (
	ErrNoRecipients      = errors.New("missing recipient email")
	ErrMissingBrevoSetup = errors.New("missing BREVO_API_KEY or BREVO_SENDER_EMAIL")
)

type Options struct {
	APIKey      string
	SenderEmail string
	SenderName  string
	Sandbox     bool
	Mock        bool
	AppURL      string
}

// BrevoMailer renders email events and posts them to the Brevo transactional API.
type BrevoMailer struct {
	apiKey      string
	senderEmail string
	senderName  string
	sandbox     bool
	mockMode    bool
	appURL      string
	endpoint    string
	httpClient  *http.Client
}

var _ interfaces.IMailer = (*BrevoMailer)(nil)

func NewBrevoMailer(opts Options) (*BrevoMailer, error) {
	m := &BrevoMailer{
		apiKey:      strings.TrimSpace(opts.APIKey),
		senderEmail: strings.TrimSpace(opts.SenderEmail),
		senderName:  strings.TrimSpace(opts.SenderName),
		sandbox:     opts.Sandbox,
		mockMode:    opts.Mock,
		appURL:      strings.TrimRight(opts.AppURL, "/"),
		endpoint:    defaultBrevoEndpoint,
		httpClient:  &http.Client{Timeout: 8 * time.Second},
	}
	if m.mockMode {
		log.Printf("[email][brevo] mock mode enabled")
		return m, nil
	}
	if m.apiKey == "" || m.senderEmail == "" {
		return nil, ErrMissingBrevoSetup
	}
	if m.senderName == "" {
		m.senderName = m.senderEmail
	}
	return m, nil
}

func (m *BrevoMailer) Send(ctx context.Context, event string, to []interfaces.Recipient, data map[string]string) (string, error) {
	recipients := make([]brevoRecipient, 0, len(to))
	for _, r := range to {
		if addr := strings.TrimSpace(r.Email); addr != "" {
			recipients = append(recipients, brevoRecipient{Email: addr, Name: r.Name})
		}
	}
	if len(recipients) == 0 {
		return "", ErrNoRecipients
	}

	subject, err := renderSubject(event, data)
	if err != nil {
		return "", err
	}
	greeting := "team"
	if len(recipients) == 1 && recipients[0].Name != "" {
		greeting = recipients[0].Name
	}
	htmlBody, err := renderBody(greeting, subject, m.link(data), data)
	if err != nil {
		return "", fmt.Errorf("render body %s: %w", event, err)
	}

	if m.mockMode {
		id := "mock-" + strconv.FormatInt(time.Now().UTC().UnixNano(), 10)
		log.Printf("[email][brevo] mock send event=%s recipients=%d message_id=%s", event, len(recipients), id)
		return id, nil
	}

	payload := brevoSendRequest{
		Sender:      brevoSender{Name: m.senderName, Email: m.senderEmail},
		To:          recipients,
		Subject:     subject,
		HtmlContent: htmlBody,
		Tags:        []string{event},
	}
	if m.sandbox {
		payload.Headers = map[string]string{
			"X-Sib-Sandbox": "drop",
		}
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("brevo marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("brevo create request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("content-type", "application/json")
	req.Header.Set("api-key", m.apiKey)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("brevo request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("[email][brevo] send failed event=%s status=%d", event, resp.StatusCode)
		return "", fmt.Errorf("brevo status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out brevoSendResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("brevo decode response: %w", err)
	}
	if strings.TrimSpace(out.MessageID) == "" {
		return "", errors.New("brevo response missing messageId")
	}
	log.Printf("[email][brevo] sent event=%s recipients=%d message_id=%s", event, len(recipients), out.MessageID)
	return out.MessageID, nil
}

func (m *BrevoMailer) link(data map[string]string) string {
	if m.appURL == "" {
		return ""
	}
	if id := data["projectId"]; id != "" {
		return m.appURL + "/projects/" + id
	}
	if id := data["proposalId"]; id != "" {
		return m.appURL + "/proposals/" + id
	}
	return m.appURL
}

type brevoSendRequest struct {
	Sender      brevoSender       `json:"sender"`
	To          []brevoRecipient  `json:"to"`
	Subject     string            `json:"subject"`
	HtmlContent string            `json:"htmlContent,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
}

type brevoSender struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type brevoRecipient struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type brevoSendResponse struct {
	MessageID string `json:"messageId"`
}
