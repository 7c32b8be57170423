package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"studioflow/internal/domain/entities"
	"studioflow/internal/usecase/interfaces"
	"studioflow/internal/validation"

	"github.com/google/uuid"
)

var (
	ErrInvoiceNotFound = errors.New("invoice not found")
	ErrInvoicePaid     = errors.New("paid invoices cannot be deleted")
	ErrNotYetDue       = errors.New("due date has not passed")
)

const invoiceCounter = "invoice"

type NewInvoice struct {
	ProjectID   string    `json:"projectId" validate:"required"`
	Amount      float64   `json:"amount" validate:"gt=0"`
	Currency    string    `json:"currency" validate:"omitempty,len=3"`
	DueDate     time.Time `json:"dueDate" validate:"required"`
	Description string    `json:"description" validate:"max=2000"`
}

type IInvoiceUseCase interface {
	Create(ctx context.Context, actor entities.User, in NewInvoice) (entities.Invoice, error)
	Get(ctx context.Context, actor entities.User, id string) (entities.Invoice, error)
	List(ctx context.Context, actor entities.User, f interfaces.BillingFilter) ([]entities.Invoice, error)
	Apply(ctx context.Context, actor entities.User, id string, action entities.InvoiceAction, data json.RawMessage) (entities.Invoice, error)
	Delete(ctx context.Context, actor entities.User, id string) error
}

var billingRoles = entities.Elevated.With(entities.RoleAccounts)

type InvoiceUseCase struct {
	invoices  interfaces.IInvoiceRepository
	projects  interfaces.IProjectRepository
	counter   interfaces.ICounter
	effects   ISideEffects
	validator *validation.Validator
	machine   machine[entities.Invoice, entities.InvoiceAction]
}

var _ IInvoiceUseCase = (*InvoiceUseCase)(nil)

func NewInvoiceUseCase(
	invoices interfaces.IInvoiceRepository,
	projects interfaces.IProjectRepository,
	counter interfaces.ICounter,
	effects ISideEffects,
	v *validation.Validator,
) *InvoiceUseCase {
	u := &InvoiceUseCase{invoices: invoices, projects: projects, counter: counter, effects: effects, validator: v}
	u.machine = machine[entities.Invoice, entities.InvoiceAction]{
		entities.InvoiceMarkSent:    on(billingRoles, u.markSent),
		entities.InvoiceMarkPaid:    on(billingRoles, u.markPaid),
		entities.InvoiceMarkOverdue: on(billingRoles, u.markOverdue),
		entities.InvoiceCancel:      on(billingRoles, u.cancel),
	}
	return u
}

// FormatInvoiceNumber renders a counter value as an invoice number.
func FormatInvoiceNumber(seq int64) string {
	return fmt.Sprintf("INV-%06d", seq)
}

func (u *InvoiceUseCase) Create(ctx context.Context, actor entities.User, in NewInvoice) (entities.Invoice, error) {
	if err := requireRole(actor, billingRoles); err != nil {
		return entities.Invoice{}, err
	}
	in.ProjectID = strings.TrimSpace(in.ProjectID)
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	if err := validate(u.validator, &in); err != nil {
		return entities.Invoice{}, err
	}
	project, err := loadProject(ctx, u.projects, in.ProjectID)
	if err != nil {
		return entities.Invoice{}, err
	}
	if in.Currency == "" {
		in.Currency = project.Currency
	}

	seq, err := u.counter.Next(ctx, invoiceCounter)
	if err != nil {
		log.Printf("[invoice][usecase] counter failed err=%v", err)
		return entities.Invoice{}, err
	}

	now := time.Now().UTC()
	inv := entities.Invoice{
		ID:            uuid.NewString(),
		ProjectID:     project.ID,
		InvoiceNumber: FormatInvoiceNumber(seq),
		Amount:        in.Amount,
		Currency:      in.Currency,
		Description:   in.Description,
		DueDate:       in.DueDate.UTC(),
		Status:        entities.InvoiceStatusPending,
		CreatedByUID:  actor.UID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	created, err := u.invoices.Create(ctx, inv)
	if err != nil {
		return entities.Invoice{}, err
	}
	log.Printf("[invoice][usecase] created id=%s number=%s project_id=%s amount=%.2f", created.ID, created.InvoiceNumber, project.ID, created.Amount)

	var fx Effects
	fx.Log("invoice_created", fmt.Sprintf("Invoice %s for %.2f %s created on %s", created.InvoiceNumber, created.Amount, created.Currency, project.ProjectName), invoiceRelated(&created))
	u.effects.Dispatch(ctx, actor, fx)
	return created, nil
}

func (u *InvoiceUseCase) Get(ctx context.Context, actor entities.User, id string) (entities.Invoice, error) {
	if err := requireRole(actor, billingRoles); err != nil {
		return entities.Invoice{}, err
	}
	return u.load(ctx, id)
}

func (u *InvoiceUseCase) List(ctx context.Context, actor entities.User, f interfaces.BillingFilter) ([]entities.Invoice, error) {
	if err := requireRole(actor, billingRoles); err != nil {
		return nil, err
	}
	list, err := u.invoices.List(ctx, f)
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (u *InvoiceUseCase) Apply(ctx context.Context, actor entities.User, id string, action entities.InvoiceAction, data json.RawMessage) (entities.Invoice, error) {
	updated, err := apply(ctx, u.validator, u.effects, applyRequest[entities.Invoice, entities.InvoiceAction]{
		Machine: u.machine,
		Action:  action,
		Actor:   actor,
		Data:    data,
		Load:    func(ctx context.Context) (entities.Invoice, error) { return u.load(ctx, id) },
		Save:    u.invoices.Update,
		Finish: func(c *Change[entities.Invoice], _ entities.Invoice) error {
			c.Entity.UpdatedAt = c.Now
			return nil
		},
	})
	if err != nil {
		log.Printf("[invoice][usecase] %s failed id=%s actor=%s err=%v", action, id, actor.UID, err)
		return entities.Invoice{}, err
	}
	log.Printf("[invoice][usecase] %s applied id=%s status=%s", action, updated.ID, updated.Status)
	return updated, nil
}

// Delete removes an unpaid invoice. The store re-checks the status so a concurrent mark_paid
// cannot be lost.
func (u *InvoiceUseCase) Delete(ctx context.Context, actor entities.User, id string) error {
	if err := requireRole(actor, billingRoles); err != nil {
		return err
	}
	inv, err := u.load(ctx, id)
	if err != nil {
		return err
	}
	if inv.Status == entities.InvoiceStatusPaid {
		return ErrInvoicePaid
	}
	if err := u.invoices.DeleteUnpaid(ctx, inv.ID); err != nil {
		if errors.Is(err, interfaces.ErrConflict) {
			return ErrInvoicePaid
		}
		return err
	}
	log.Printf("[invoice][usecase] deleted id=%s number=%s", inv.ID, inv.InvoiceNumber)

	var fx Effects
	fx.Log("invoice_deleted", fmt.Sprintf("Invoice %s deleted", inv.InvoiceNumber), invoiceRelated(&inv))
	u.effects.Dispatch(ctx, actor, fx)
	return nil
}

func (u *InvoiceUseCase) load(ctx context.Context, id string) (entities.Invoice, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Invoice{}, ErrInvalidID
	}
	inv, err := u.invoices.GetByID(ctx, id)
	if err != nil {
		return entities.Invoice{}, err
	}
	if inv.ID == "" {
		return entities.Invoice{}, ErrInvoiceNotFound
	}
	return inv, nil
}

func invoiceRelated(inv *entities.Invoice) map[string]string {
	return map[string]string{"invoiceId": inv.ID, "projectId": inv.ProjectID}
}

func invoiceEmailData(inv entities.Invoice) map[string]string {
	return map[string]string{
		"invoiceId":     inv.ID,
		"invoiceNumber": inv.InvoiceNumber,
		"amount":        strconv.FormatFloat(inv.Amount, 'f', 2, 64),
		"currency":      inv.Currency,
		"dueDate":       inv.DueDate.Format("2006-01-02"),
		"status":        string(inv.Status),
	}
}

func requireInvoiceStatus(action entities.InvoiceAction, inv entities.Invoice, allowed ...entities.InvoiceStatus) error {
	for _, s := range allowed {
		if inv.Status == s {
			return nil
		}
	}
	return illegalFrom(action, inv.Status)
}

func (u *InvoiceUseCase) markSent(c *Change[entities.Invoice], _ none) error {
	if err := requireInvoiceStatus(entities.InvoiceMarkSent, *c.Entity, entities.InvoiceStatusPending); err != nil {
		return err
	}
	now := c.Now
	c.Entity.Status = entities.InvoiceStatusSent
	c.Entity.SentAt = &now
	c.Effects.Log("invoice_sent", fmt.Sprintf("Invoice %s sent", c.Entity.InvoiceNumber), invoiceRelated(c.Entity))
	return nil
}

func (u *InvoiceUseCase) markPaid(c *Change[entities.Invoice], _ none) error {
	if err := requireInvoiceStatus(entities.InvoiceMarkPaid, *c.Entity, entities.InvoiceStatusPending, entities.InvoiceStatusSent, entities.InvoiceStatusOverdue); err != nil {
		return err
	}
	now := c.Now
	c.Entity.Status = entities.InvoiceStatusPaid
	c.Entity.PaidAt = &now

	related := invoiceRelated(c.Entity)
	msg := fmt.Sprintf("Invoice %s marked paid", c.Entity.InvoiceNumber)
	c.Effects.Log("invoice_paid", msg, related)
	c.Effects.NotifyRole(entities.RoleDirector, "invoice_paid", msg, entities.PriorityNormal, related)
	c.Effects.Email(entities.EmailEvent{Event: "invoice_paid", ToRoles: []entities.Role{entities.RoleAccounts}, Data: invoiceEmailData(*c.Entity)})
	return nil
}

func (u *InvoiceUseCase) markOverdue(c *Change[entities.Invoice], _ none) error {
	if err := requireInvoiceStatus(entities.InvoiceMarkOverdue, *c.Entity, entities.InvoiceStatusPending, entities.InvoiceStatusSent); err != nil {
		return err
	}
	if !entities.PastDue(c.Entity.DueDate, c.Now, 0) {
		return ErrNotYetDue
	}
	c.Entity.Status = entities.InvoiceStatusOverdue
	markInvoiceOverdueEffects(&c.Effects, *c.Entity)
	return nil
}

func markInvoiceOverdueEffects(fx *Effects, inv entities.Invoice) {
	related := invoiceRelated(&inv)
	msg := fmt.Sprintf("Invoice %s is overdue", inv.InvoiceNumber)
	fx.Log("invoice_overdue", msg, related)
	fx.NotifyRole(entities.RoleAccounts, "invoice_overdue", msg, entities.PriorityHigh, related)
	fx.NotifyRole(entities.RoleCOO, "invoice_overdue", msg, entities.PriorityNormal, related)
	fx.Email(entities.EmailEvent{Event: "invoice_overdue", ToRoles: []entities.Role{entities.RoleAccounts}, Data: invoiceEmailData(inv)})
}

type cancelPayload struct {
	Reason string `json:"reason" validate:"max=2000"`
}

func (u *InvoiceUseCase) cancel(c *Change[entities.Invoice], p cancelPayload) error {
	if err := requireInvoiceStatus(entities.InvoiceCancel, *c.Entity, entities.InvoiceStatusPending, entities.InvoiceStatusSent, entities.InvoiceStatusOverdue); err != nil {
		return err
	}
	c.Entity.Status = entities.InvoiceStatusCancelled
	details := fmt.Sprintf("Invoice %s cancelled", c.Entity.InvoiceNumber)
	if p.Reason != "" {
		details += ": " + p.Reason
	}
	c.Effects.Log("invoice_cancelled", details, invoiceRelated(c.Entity))
	return nil
}
