package entities

import (
	"encoding/json"
	"time"
)

// DefaultOverdueThreshold is how long past its due date a payment may run before it counts as delayed.
// Both the manual mark_delayed action and the scheduled sweep read the configured value.
const DefaultOverdueThreshold = 15 * 24 * time.Hour

// PastDue reports whether due lies at least threshold before now.
func PastDue(due, now time.Time, threshold time.Duration) bool {
	if due.IsZero() {
		return false
	}
	return !now.Before(due.Add(threshold))
}

type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "pending"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

type InvoiceAction string

const (
	InvoiceMarkSent    InvoiceAction = "mark_sent"
	InvoiceMarkPaid    InvoiceAction = "mark_paid"
	InvoiceMarkOverdue InvoiceAction = "mark_overdue"
	InvoiceCancel      InvoiceAction = "cancel"
)

// Invoice is a billing document issued against a project.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI project_id-index: project_id
type Invoice struct {
	ID            string        `json:"id" dynamodbav:"id"`
	ProjectID     string        `json:"projectId" dynamodbav:"project_id"`
	InvoiceNumber string        `json:"invoiceNumber" dynamodbav:"invoice_number"`
	Amount        float64       `json:"amount" dynamodbav:"amount"`
	Currency      string        `json:"currency" dynamodbav:"currency"`
	Description   string        `json:"description,omitempty" dynamodbav:"description,omitempty"`
	DueDate       time.Time     `json:"dueDate" dynamodbav:"due_date"`
	Status        InvoiceStatus `json:"status" dynamodbav:"status"`
	SentAt        *time.Time    `json:"sentAt,omitempty" dynamodbav:"sent_at,omitempty"`
	PaidAt        *time.Time    `json:"paidAt,omitempty" dynamodbav:"paid_at,omitempty"`
	CreatedByUID  string        `json:"createdByUid" dynamodbav:"created_by_uid"`
	CreatedAt     time.Time     `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt     time.Time     `json:"updatedAt" dynamodbav:"updated_at"`
	Version       int64         `json:"version" dynamodbav:"version"`
}

type PaymentStatus string

const (
	PaymentStatusPending       PaymentStatus = "pending"
	PaymentStatusPartiallyPaid PaymentStatus = "partially_paid"
	PaymentStatusFullyPaid     PaymentStatus = "fully_paid"
	PaymentStatusDelayed       PaymentStatus = "delayed"
)

type PaymentAction string

const (
	PaymentRecord      PaymentAction = "record_payment"
	PaymentMarkDelayed PaymentAction = "mark_delayed"
)

// DerivePaymentStatus compares the cumulative received amount against the invoiced amount.
func DerivePaymentStatus(received, invoiced float64) PaymentStatus {
	switch {
	case received <= 0:
		return PaymentStatusPending
	case received < invoiced:
		return PaymentStatusPartiallyPaid
	default:
		return PaymentStatusFullyPaid
	}
}

// Receipt is one recorded inflow against a payment milestone.
//
// When the inflow was resolved through the payment provider, GatewayPayload keeps the
// provider response for traceability.
type Receipt struct {
	Amount           float64         `json:"amount" dynamodbav:"amount"`
	Reference        string          `json:"reference,omitempty" dynamodbav:"reference,omitempty"`
	GatewayPaymentID string          `json:"gatewayPaymentId,omitempty" dynamodbav:"gateway_payment_id,omitempty"`
	GatewayPayload   json.RawMessage `json:"gatewayPayload,omitempty" dynamodbav:"gateway_payload,omitempty"`
	RecordedByUID    string          `json:"recordedByUid" dynamodbav:"recorded_by_uid"`
	At               time.Time       `json:"at" dynamodbav:"at"`
}

// Payment is a billing milestone on a project, settled by one or more receipts.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI project_id-index: project_id
type Payment struct {
	ID                    string        `json:"id" dynamodbav:"id"`
	ProjectID             string        `json:"projectId" dynamodbav:"project_id"`
	InvoiceID             string        `json:"invoiceId,omitempty" dynamodbav:"invoice_id,omitempty"`
	Description           string        `json:"description,omitempty" dynamodbav:"description,omitempty"`
	InvoicedAmount        float64       `json:"invoicedAmount" dynamodbav:"invoiced_amount"`
	PaymentReceivedAmount float64       `json:"paymentReceivedAmount" dynamodbav:"payment_received_amount"`
	DueDate               time.Time     `json:"dueDate" dynamodbav:"due_date"`
	PaymentStatus         PaymentStatus `json:"paymentStatus" dynamodbav:"payment_status"`
	Receipts              []Receipt     `json:"receipts" dynamodbav:"receipts"`
	DelayedAt             *time.Time    `json:"delayedAt,omitempty" dynamodbav:"delayed_at,omitempty"`
	CreatedByUID          string        `json:"createdByUid" dynamodbav:"created_by_uid"`
	CreatedAt             time.Time     `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt             time.Time     `json:"updatedAt" dynamodbav:"updated_at"`
	Version               int64         `json:"version" dynamodbav:"version"`
}

// Outstanding returns the amount still to be received.
func (p Payment) Outstanding() float64 {
	if rest := p.InvoicedAmount - p.PaymentReceivedAmount; rest > 0 {
		return rest
	}
	return 0
}
