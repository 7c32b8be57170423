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
	ErrPaymentNotFound             = errors.New("payment not found")
	ErrPaymentAlreadySettled       = errors.New("payment is already fully paid")
	ErrNotPastDue                  = errors.New("payment is not past due by the overdue threshold")
	ErrDuplicateReceipt            = errors.New("gateway payment already recorded")
	ErrInvoiceProjectMismatch      = errors.New("invoice belongs to another project")
	ErrPaymentGatewayNotConfigured = errors.New("payment gateway not configured")
	ErrPaymentGatewayUnauthorized  = errors.New("payment gateway unauthorized")
	ErrGatewayPaymentNotFound      = errors.New("gateway payment not found")
	ErrGatewayPaymentNotApproved   = errors.New("gateway payment is not approved")
)

// SystemActor is the identity attached to scheduled operations.
var SystemActor = entities.User{UID: "system", Name: "Scheduler", Role: entities.RoleDirector, Status: entities.UserStatusActive}

type NewPayment struct {
	ProjectID      string    `json:"projectId" validate:"required"`
	InvoiceID      string    `json:"invoiceId"`
	Description    string    `json:"description" validate:"max=2000"`
	InvoicedAmount float64   `json:"invoicedAmount" validate:"gt=0"`
	DueDate        time.Time `json:"dueDate" validate:"required"`
}

type SweepResult struct {
	PaymentsDelayed int `json:"paymentsDelayed"`
	InvoicesOverdue int `json:"invoicesOverdue"`
	Skipped         int `json:"skipped"`
}

type IPaymentUseCase interface {
	Create(ctx context.Context, actor entities.User, in NewPayment) (entities.Payment, error)
	Get(ctx context.Context, actor entities.User, id string) (entities.Payment, error)
	List(ctx context.Context, actor entities.User, f interfaces.BillingFilter) ([]entities.Payment, error)
	Apply(ctx context.Context, actor entities.User, id string, action entities.PaymentAction, data json.RawMessage) (entities.Payment, error)
	Delete(ctx context.Context, actor entities.User, id string) error
	// Sweep marks every unsettled payment and open invoice past the overdue threshold.
	Sweep(ctx context.Context, now time.Time) (SweepResult, error)
}

type PaymentUseCase struct {
	payments  interfaces.IPaymentRepository
	invoices  interfaces.IInvoiceRepository
	projects  interfaces.IProjectRepository
	gateway   interfaces.IPaymentGateway
	effects   ISideEffects
	validator *validation.Validator
	threshold time.Duration
	machine   machine[entities.Payment, entities.PaymentAction]
}

var _ IPaymentUseCase = (*PaymentUseCase)(nil)

func NewPaymentUseCase(
	payments interfaces.IPaymentRepository,
	invoices interfaces.IInvoiceRepository,
	projects interfaces.IProjectRepository,
	gateway interfaces.IPaymentGateway,
	effects ISideEffects,
	v *validation.Validator,
	threshold time.Duration,
) *PaymentUseCase {
	if threshold < 0 {
		threshold = entities.DefaultOverdueThreshold
	}
	u := &PaymentUseCase{
		payments:  payments,
		invoices:  invoices,
		projects:  projects,
		gateway:   gateway,
		effects:   effects,
		validator: v,
		threshold: threshold,
	}
	u.machine = machine[entities.Payment, entities.PaymentAction]{
		entities.PaymentRecord:      on(billingRoles, u.recordPayment),
		entities.PaymentMarkDelayed: on(billingRoles, u.markDelayed),
	}
	return u
}

func (u *PaymentUseCase) Create(ctx context.Context, actor entities.User, in NewPayment) (entities.Payment, error) {
	if err := requireRole(actor, billingRoles); err != nil {
		return entities.Payment{}, err
	}
	in.ProjectID = strings.TrimSpace(in.ProjectID)
	in.InvoiceID = strings.TrimSpace(in.InvoiceID)
	if err := validate(u.validator, &in); err != nil {
		return entities.Payment{}, err
	}
	project, err := loadProject(ctx, u.projects, in.ProjectID)
	if err != nil {
		return entities.Payment{}, err
	}
	if in.InvoiceID != "" {
		inv, err := u.invoices.GetByID(ctx, in.InvoiceID)
		if err != nil {
			return entities.Payment{}, err
		}
		if inv.ID == "" {
			return entities.Payment{}, ErrInvoiceNotFound
		}
		if inv.ProjectID != project.ID {
			return entities.Payment{}, ErrInvoiceProjectMismatch
		}
	}

	now := time.Now().UTC()
	p := entities.Payment{
		ID:             uuid.NewString(),
		ProjectID:      project.ID,
		InvoiceID:      in.InvoiceID,
		Description:    in.Description,
		InvoicedAmount: in.InvoicedAmount,
		DueDate:        in.DueDate.UTC(),
		PaymentStatus:  entities.PaymentStatusPending,
		Receipts:       []entities.Receipt{},
		CreatedByUID:   actor.UID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	created, err := u.payments.Create(ctx, p)
	if err != nil {
		return entities.Payment{}, err
	}
	log.Printf("[payment][usecase] created id=%s project_id=%s invoiced=%.2f", created.ID, project.ID, created.InvoicedAmount)

	var fx Effects
	fx.Log("payment_created", fmt.Sprintf("Payment milestone of %.2f created on %s", created.InvoicedAmount, project.ProjectName), paymentRelated(&created))
	u.effects.Dispatch(ctx, actor, fx)
	return created, nil
}

func (u *PaymentUseCase) Get(ctx context.Context, actor entities.User, id string) (entities.Payment, error) {
	if err := requireRole(actor, billingRoles); err != nil {
		return entities.Payment{}, err
	}
	return u.load(ctx, id)
}

func (u *PaymentUseCase) List(ctx context.Context, actor entities.User, f interfaces.BillingFilter) ([]entities.Payment, error) {
	if err := requireRole(actor, billingRoles); err != nil {
		return nil, err
	}
	list, err := u.payments.List(ctx, f)
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool { return list[i].DueDate.Before(list[j].DueDate) })
	return list, nil
}

func (u *PaymentUseCase) Apply(ctx context.Context, actor entities.User, id string, action entities.PaymentAction, data json.RawMessage) (entities.Payment, error) {
	updated, err := apply(ctx, u.validator, u.effects, applyRequest[entities.Payment, entities.PaymentAction]{
		Machine: u.machine,
		Action:  action,
		Actor:   actor,
		Data:    data,
		Load:    func(ctx context.Context) (entities.Payment, error) { return u.load(ctx, id) },
		Save:    u.payments.Update,
		Finish: func(c *Change[entities.Payment], _ entities.Payment) error {
			c.Entity.UpdatedAt = c.Now
			return nil
		},
	})
	if err != nil {
		log.Printf("[payment][usecase] %s failed id=%s actor=%s err=%v", action, id, actor.UID, err)
		return entities.Payment{}, err
	}
	log.Printf("[payment][usecase] %s applied id=%s status=%s received=%.2f", action, updated.ID, updated.PaymentStatus, updated.PaymentReceivedAmount)
	return updated, nil
}

func (u *PaymentUseCase) Delete(ctx context.Context, actor entities.User, id string) error {
	if err := requireRole(actor, entities.Roles(entities.RoleDirector)); err != nil {
		return err
	}
	p, err := u.load(ctx, id)
	if err != nil {
		return err
	}
	if err := u.payments.Delete(ctx, p.ID); err != nil {
		return err
	}
	log.Printf("[payment][usecase] deleted id=%s", p.ID)

	var fx Effects
	fx.Log("payment_deleted", fmt.Sprintf("Payment milestone of %.2f deleted", p.InvoicedAmount), paymentRelated(&p))
	u.effects.Dispatch(ctx, actor, fx)
	return nil
}

// Sweep is run by the scheduler. Documents that changed underneath it are skipped and picked up
// on the next run.
func (u *PaymentUseCase) Sweep(ctx context.Context, now time.Time) (SweepResult, error) {
	var res SweepResult
	now = now.UTC()

	payments, err := u.payments.List(ctx, interfaces.BillingFilter{})
	if err != nil {
		return res, err
	}
	for _, p := range payments {
		if p.PaymentStatus == entities.PaymentStatusFullyPaid || p.PaymentStatus == entities.PaymentStatusDelayed {
			continue
		}
		if !entities.PastDue(p.DueDate, now, u.threshold) {
			continue
		}
		var fx Effects
		applyDelayed(&p, &fx, now)
		if _, err := u.payments.Update(ctx, p); err != nil {
			if errors.Is(err, interfaces.ErrConflict) {
				res.Skipped++
				continue
			}
			return res, err
		}
		res.PaymentsDelayed++
		u.effects.Dispatch(ctx, SystemActor, fx)
	}

	invoices, err := u.invoices.List(ctx, interfaces.BillingFilter{})
	if err != nil {
		return res, err
	}
	for _, inv := range invoices {
		if inv.Status != entities.InvoiceStatusPending && inv.Status != entities.InvoiceStatusSent {
			continue
		}
		if !entities.PastDue(inv.DueDate, now, u.threshold) {
			continue
		}
		inv.Status = entities.InvoiceStatusOverdue
		inv.UpdatedAt = now
		if _, err := u.invoices.Update(ctx, inv); err != nil {
			if errors.Is(err, interfaces.ErrConflict) {
				res.Skipped++
				continue
			}
			return res, err
		}
		res.InvoicesOverdue++
		var fx Effects
		markInvoiceOverdueEffects(&fx, inv)
		u.effects.Dispatch(ctx, SystemActor, fx)
	}

	log.Printf("[payment][sweep] done payments_delayed=%d invoices_overdue=%d skipped=%d threshold=%s", res.PaymentsDelayed, res.InvoicesOverdue, res.Skipped, u.threshold)
	return res, nil
}

func (u *PaymentUseCase) load(ctx context.Context, id string) (entities.Payment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Payment{}, ErrInvalidID
	}
	p, err := u.payments.GetByID(ctx, id)
	if err != nil {
		return entities.Payment{}, err
	}
	if p.ID == "" {
		return entities.Payment{}, ErrPaymentNotFound
	}
	return p, nil
}

func paymentRelated(p *entities.Payment) map[string]string {
	related := map[string]string{"paymentId": p.ID, "projectId": p.ProjectID}
	if p.InvoiceID != "" {
		related["invoiceId"] = p.InvoiceID
	}
	return related
}

type recordPaymentPayload struct {
	Amount           float64 `json:"amount" validate:"omitempty,gt=0"`
	Reference        string  `json:"reference" validate:"max=200"`
	GatewayPaymentID string  `json:"gatewayPaymentId" validate:"omitempty,numeric"`
}

func (u *PaymentUseCase) recordPayment(c *Change[entities.Payment], p recordPaymentPayload) error {
	if c.Entity.PaymentStatus == entities.PaymentStatusFullyPaid {
		return ErrPaymentAlreadySettled
	}
	if p.Amount <= 0 && p.GatewayPaymentID == "" {
		return &ValidationError{Fields: map[string]string{"amount": "required_without", "gatewayPaymentId": "required_without"}}
	}

	receipt := entities.Receipt{Amount: p.Amount, Reference: p.Reference, RecordedByUID: c.Actor.UID, At: c.Now}
	if p.GatewayPaymentID != "" {
		for _, r := range c.Entity.Receipts {
			if r.GatewayPaymentID == p.GatewayPaymentID {
				return ErrDuplicateReceipt
			}
		}
		gp, err := u.resolveGatewayPayment(c.Ctx, p.GatewayPaymentID)
		if err != nil {
			return err
		}
		if gp.Amount > 0 {
			receipt.Amount = gp.Amount
		}
		receipt.GatewayPaymentID = gp.ID
		receipt.GatewayPayload = gp.Raw
		if receipt.Reference == "" {
			receipt.Reference = "mercadopago:" + gp.ID
		}
	}
	if receipt.Amount <= 0 {
		return invalid("amount must be greater than zero")
	}

	c.Entity.Receipts = append(c.Entity.Receipts, receipt)
	c.Entity.PaymentReceivedAmount += receipt.Amount
	c.Entity.PaymentStatus = entities.DerivePaymentStatus(c.Entity.PaymentReceivedAmount, c.Entity.InvoicedAmount)

	related := paymentRelated(c.Entity)
	msg := fmt.Sprintf("Received %.2f (total %.2f of %.2f)", receipt.Amount, c.Entity.PaymentReceivedAmount, c.Entity.InvoicedAmount)
	c.Effects.Log("payment_recorded", msg, related)
	c.Effects.NotifyRole(entities.RoleAccounts, "payment_recorded", msg, entities.PriorityNormal, related)

	if c.Entity.PaymentStatus == entities.PaymentStatusFullyPaid {
		c.Effects.NotifyRole(entities.RoleDirector, "payment_received", fmt.Sprintf("Payment milestone of %.2f fully paid", c.Entity.InvoicedAmount), entities.PriorityNormal, related)
		if invoiceID := c.Entity.InvoiceID; invoiceID != "" {
			c.OnCommit(func(entities.Payment) { u.settleInvoice(context.WithoutCancel(c.Ctx), invoiceID) })
		}
	}
	return nil
}

// settleInvoice marks the linked invoice paid once its milestone is fully paid.
func (u *PaymentUseCase) settleInvoice(ctx context.Context, invoiceID string) {
	inv, err := u.invoices.GetByID(ctx, invoiceID)
	if err != nil || inv.ID == "" {
		log.Printf("[payment][usecase] linked invoice lookup failed invoice_id=%s err=%v", invoiceID, err)
		return
	}
	if inv.Status == entities.InvoiceStatusPaid || inv.Status == entities.InvoiceStatusCancelled {
		return
	}
	now := time.Now().UTC()
	inv.Status = entities.InvoiceStatusPaid
	inv.PaidAt = &now
	inv.UpdatedAt = now
	if _, err := u.invoices.Update(ctx, inv); err != nil {
		log.Printf("[payment][usecase] linked invoice update failed invoice_id=%s err=%v", invoiceID, err)
	}
}

func (u *PaymentUseCase) resolveGatewayPayment(ctx context.Context, id string) (interfaces.GatewayPayment, error) {
	if u.gateway == nil {
		return interfaces.GatewayPayment{}, ErrPaymentGatewayNotConfigured
	}
	gp, err := u.gateway.GetPayment(ctx, id)
	if err != nil {
		log.Printf("[payment][usecase] gateway lookup failed gateway_payment_id=%s err=%v", id, err)
		switch {
		case isGatewayUnauthorized(err):
			return interfaces.GatewayPayment{}, ErrPaymentGatewayUnauthorized
		case isGatewayNotFound(err):
			return interfaces.GatewayPayment{}, ErrGatewayPaymentNotFound
		}
		return interfaces.GatewayPayment{}, err
	}
	if gp.Status != "approved" {
		log.Printf("[payment][usecase] gateway payment not approved gateway_payment_id=%s status=%s", id, gp.Status)
		return interfaces.GatewayPayment{}, ErrGatewayPaymentNotApproved
	}
	if gp.ID == "" {
		gp.ID = id
	}
	return gp, nil
}

func isGatewayUnauthorized(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "\"error\":\"unauthorized\"") || strings.Contains(msg, "\"status\":401")
}

func isGatewayNotFound(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "\"error\":\"not_found\"") || strings.Contains(msg, "\"status\":404")
}

func (u *PaymentUseCase) markDelayed(c *Change[entities.Payment], _ none) error {
	if c.Entity.PaymentStatus == entities.PaymentStatusFullyPaid {
		return ErrPaymentAlreadySettled
	}
	if c.Entity.PaymentStatus == entities.PaymentStatusDelayed {
		return illegalFrom(entities.PaymentMarkDelayed, c.Entity.PaymentStatus)
	}
	if !entities.PastDue(c.Entity.DueDate, c.Now, u.threshold) {
		return ErrNotPastDue
	}
	applyDelayed(c.Entity, &c.Effects, c.Now)
	return nil
}

func applyDelayed(p *entities.Payment, fx *Effects, now time.Time) {
	p.PaymentStatus = entities.PaymentStatusDelayed
	p.DelayedAt = &now
	p.UpdatedAt = now

	related := paymentRelated(p)
	msg := fmt.Sprintf("Payment of %.2f due %s is delayed (%.2f outstanding)", p.InvoicedAmount, p.DueDate.Format("2006-01-02"), p.Outstanding())
	fx.Log("payment_delayed", msg, related)
	fx.NotifyRole(entities.RoleAccounts, "payment_delayed", msg, entities.PriorityHigh, related)
	fx.NotifyRole(entities.RoleCOO, "payment_delayed", msg, entities.PriorityHigh, related)
	fx.Email(entities.EmailEvent{
		Event:   "payment_delayed",
		ToRoles: []entities.Role{entities.RoleAccounts, entities.RoleCOO},
		Data: map[string]string{
			"paymentId":   p.ID,
			"projectId":   p.ProjectID,
			"amount":      strconv.FormatFloat(p.InvoicedAmount, 'f', 2, 64),
			"outstanding": strconv.FormatFloat(p.Outstanding(), 'f', 2, 64),
			"dueDate":     p.DueDate.Format("2006-01-02"),
		},
	})
}
