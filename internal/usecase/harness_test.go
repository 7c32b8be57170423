package usecase

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"studioflow/internal/adapter/persistence/memory"
	"studioflow/internal/domain/entities"
	"studioflow/internal/usecase/interfaces"
	"studioflow/internal/validation"
)

var (
	bdm       = entities.User{UID: "bdm-1", Email: "bdm@studio.test", Name: "Bea", Role: entities.RoleBDM, Status: entities.UserStatusActive}
	otherBDM  = entities.User{UID: "bdm-2", Email: "bdm2@studio.test", Name: "Bruno", Role: entities.RoleBDM, Status: entities.UserStatusActive}
	estimator = entities.User{UID: "est-1", Email: "est@studio.test", Name: "Eli", Role: entities.RoleEstimator, Status: entities.UserStatusActive}
	cooUser   = entities.User{UID: "coo-1", Email: "coo@studio.test", Name: "Cora", Role: entities.RoleCOO, Status: entities.UserStatusActive}
	director  = entities.User{UID: "dir-1", Email: "dir@studio.test", Name: "Dario", Role: entities.RoleDirector, Status: entities.UserStatusActive}
	lead      = entities.User{UID: "lead-1", Email: "lead@studio.test", Name: "Lia", Role: entities.RoleDesignLead, Status: entities.UserStatusActive}
	otherLead = entities.User{UID: "lead-2", Email: "lead2@studio.test", Name: "Leo", Role: entities.RoleDesignLead, Status: entities.UserStatusActive}
	designer  = entities.User{UID: "des-1", Email: "des@studio.test", Name: "Dani", Role: entities.RoleDesigner, Status: entities.UserStatusActive}
	outsider  = entities.User{UID: "des-2", Email: "des2@studio.test", Name: "Duda", Role: entities.RoleDesigner, Status: entities.UserStatusActive}
	accounts  = entities.User{UID: "acc-1", Email: "acc@studio.test", Name: "Alex", Role: entities.RoleAccounts, Status: entities.UserStatusActive}
)

// world is a fully wired in-memory backend seeded with one user per role.
type world struct {
	store   *memory.Store
	effects *SideEffectDispatcher
	v       *validation.Validator
}

func newWorld(t *testing.T, mailer interfaces.IMailer) *world {
	t.Helper()
	store := memory.New()
	for _, u := range []entities.User{bdm, otherBDM, estimator, cooUser, director, lead, otherLead, designer, outsider, accounts} {
		if _, err := store.Users().Create(context.Background(), u); err != nil {
			t.Fatalf("seed user %s: %v", u.UID, err)
		}
	}
	return &world{
		store:   store,
		effects: NewSideEffectDispatcher(store.Activities(), store.Notifications(), store.Outbox(), store.Users(), mailer),
		v:       validation.New(),
	}
}

func (w *world) proposals() *ProposalUseCase {
	return NewProposalUseCase(w.store.Proposals(), w.store.ProjectNumbers(), w.effects, w.v)
}

func (w *world) projects() *ProjectUseCase {
	return NewProjectUseCase(w.store.Projects(), w.store.Proposals(), w.store.Users(), w.effects, w.v)
}

func (w *world) timesheets() *TimesheetUseCase {
	return NewTimesheetUseCase(w.store.Timesheets(), w.store.Projects(), w.store.Ledger(), w.effects, w.v)
}

func (w *world) timeRequests() *TimeRequestUseCase {
	return NewTimeRequestUseCase(w.store.TimeRequests(), w.store.Projects(), w.store.Timesheets(), w.store.Ledger(), w.effects, w.v)
}

func (w *world) invoices() *InvoiceUseCase {
	return NewInvoiceUseCase(w.store.Invoices(), w.store.Projects(), w.store.Counter(), w.effects, w.v)
}

func (w *world) payments(gateway interfaces.IPaymentGateway) *PaymentUseCase {
	return NewPaymentUseCase(w.store.Payments(), w.store.Invoices(), w.store.Projects(), gateway, w.effects, w.v, entities.DefaultOverdueThreshold)
}

// activeProject stores a project already staffed by lead and designer with the given budget.
func (w *world) activeProject(t *testing.T, id string, maxHours float64) entities.Project {
	t.Helper()
	now := time.Now().UTC()
	p := entities.Project{
		ID:                  id,
		ProposalID:          id,
		ProjectName:         "Harbour Tower " + id,
		ClientCompany:       "Harbour Ltd",
		QuoteValue:          12000,
		Currency:            "USD",
		Status:              entities.ProjectStatusInProgress,
		DesignStatus:        entities.DesignStatusDesignersAssigned,
		MaxAllocatedHours:   maxHours,
		TotalAllocatedHours: maxHours,
		DesignLeadUID:       lead.UID,
		DesignLeadName:      lead.Name,
		AssignedDesigners:   []entities.AssignedDesigner{{UID: designer.UID, Name: designer.Name, AllocatedHours: maxHours}},
		BDMUID:              bdm.UID,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	created, err := w.store.Projects().Create(context.Background(), p)
	if err != nil {
		t.Fatalf("seed project: %v", err)
	}
	return created
}

func (w *world) project(t *testing.T, id string) entities.Project {
	t.Helper()
	p, err := w.store.Projects().GetByID(context.Background(), id)
	if err != nil || p.ID == "" {
		t.Fatalf("project %s not found: %v", id, err)
	}
	return p
}

func raw(s string) json.RawMessage {
	return json.RawMessage(s)
}
