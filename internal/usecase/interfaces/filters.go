package interfaces

import "studioflow/internal/domain/entities"

// Filters carry the optional query-string criteria of list endpoints. Empty fields match
// everything. Stores push the indexed field down to a query and apply Match to the rest.

type ProposalFilter struct {
	Status       entities.ProposalStatus
	CreatedByUID string
}

func (f ProposalFilter) Match(p entities.Proposal) bool {
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.CreatedByUID != "" && p.CreatedByUID != f.CreatedByUID {
		return false
	}
	return true
}

type ProjectFilter struct {
	Status        entities.ProjectStatus
	DesignLeadUID string
	DesignerUID   string
	BDMUID        string
}

func (f ProjectFilter) Match(p entities.Project) bool {
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.DesignLeadUID != "" && p.DesignLeadUID != f.DesignLeadUID {
		return false
	}
	if f.DesignerUID != "" && !p.HasDesigner(f.DesignerUID) {
		return false
	}
	if f.BDMUID != "" && p.BDMUID != f.BDMUID {
		return false
	}
	return true
}

type TaskFilter struct {
	ProjectID   string
	DesignerUID string
	Status      entities.TaskStatus
}

func (f TaskFilter) Match(t entities.Task) bool {
	if f.ProjectID != "" && t.ProjectID != f.ProjectID {
		return false
	}
	if f.DesignerUID != "" && t.DesignerUID != f.DesignerUID {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	return true
}

type TimeRequestFilter struct {
	ProjectID    string
	Status       entities.TimeRequestStatus
	RequesterUID string
}

func (f TimeRequestFilter) Match(tr entities.TimeRequest) bool {
	if f.ProjectID != "" && tr.ProjectID != f.ProjectID {
		return false
	}
	if f.Status != "" && tr.Status != f.Status {
		return false
	}
	if f.RequesterUID != "" && tr.RequesterUID != f.RequesterUID {
		return false
	}
	return true
}

// BillingFilter is shared by invoices and payments; Status is compared against the
// invoice status or the payment status respectively.
type BillingFilter struct {
	ProjectID string
	Status    string
}

func (f BillingFilter) MatchInvoice(inv entities.Invoice) bool {
	if f.ProjectID != "" && inv.ProjectID != f.ProjectID {
		return false
	}
	return f.Status == "" || string(inv.Status) == f.Status
}

func (f BillingFilter) MatchPayment(p entities.Payment) bool {
	if f.ProjectID != "" && p.ProjectID != f.ProjectID {
		return false
	}
	return f.Status == "" || string(p.PaymentStatus) == f.Status
}
