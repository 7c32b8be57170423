package entities

import "time"

// ProposalStatus represents the lifecycle of a proposal, from estimation to the client decision.
type ProposalStatus string

const (
	ProposalStatusPendingEstimation  ProposalStatus = "pending_estimation"
	ProposalStatusEstimationComplete ProposalStatus = "estimation_complete"
	ProposalStatusPendingApproval    ProposalStatus = "pending_approval"
	ProposalStatusApproved           ProposalStatus = "approved"
	ProposalStatusRejected           ProposalStatus = "rejected"
	ProposalStatusSubmittedToClient  ProposalStatus = "submitted_to_client"
	ProposalStatusWon                ProposalStatus = "won"
	ProposalStatusLost               ProposalStatus = "lost"
)

// ProposalAction is the discriminator carried by PUT /api/proposals.
type ProposalAction string

const (
	ProposalAddEstimation        ProposalAction = "add_estimation"
	ProposalAddPricing           ProposalAction = "add_pricing"
	ProposalSetProjectNumber     ProposalAction = "set_project_number"
	ProposalApproveProjectNumber ProposalAction = "approve_project_number"
	ProposalRejectProjectNumber  ProposalAction = "reject_project_number"
	ProposalSubmitToClient       ProposalAction = "submit_to_client"
	ProposalMarkWon              ProposalAction = "mark_won"
	ProposalMarkLost             ProposalAction = "mark_lost"
	ProposalApprove              ProposalAction = "approve_proposal"
	ProposalReject               ProposalAction = "reject_proposal"
	ProposalUpdateAllocation     ProposalAction = "update_allocation_status"
	ProposalUpdateDetails        ProposalAction = "update_details"
	ProposalAddLinks             ProposalAction = "add_links"
)

type ProjectNumberStatus string

const (
	ProjectNumberPending  ProjectNumberStatus = "pending"
	ProjectNumberApproved ProjectNumberStatus = "approved"
	ProjectNumberRejected ProjectNumberStatus = "rejected"
)

type Estimation struct {
	Manhours    float64    `json:"manhours" dynamodbav:"manhours"`
	Notes       string     `json:"notes,omitempty" dynamodbav:"notes,omitempty"`
	EstimatedBy string     `json:"estimatedBy,omitempty" dynamodbav:"estimated_by,omitempty"`
	EstimatedAt *time.Time `json:"estimatedAt,omitempty" dynamodbav:"estimated_at,omitempty"`
}

type Pricing struct {
	QuoteValue          float64             `json:"quoteValue" dynamodbav:"quote_value"`
	Currency            string              `json:"currency" dynamodbav:"currency"`
	ProjectNumber       string              `json:"projectNumber,omitempty" dynamodbav:"project_number,omitempty"`
	ProjectNumberStatus ProjectNumberStatus `json:"projectNumberStatus,omitempty" dynamodbav:"project_number_status,omitempty"`
	PricedBy            string              `json:"pricedBy,omitempty" dynamodbav:"priced_by,omitempty"`
	PricedAt            *time.Time          `json:"pricedAt,omitempty" dynamodbav:"priced_at,omitempty"`
}

type DirectorApproval struct {
	Approved bool      `json:"approved" dynamodbav:"approved"`
	Notes    string    `json:"notes,omitempty" dynamodbav:"notes,omitempty"`
	By       string    `json:"by" dynamodbav:"by"`
	At       time.Time `json:"at" dynamodbav:"at"`
}

// ChangeLogEntry records one applied proposal action. Entries are never rewritten or removed.
type ChangeLogEntry struct {
	Action     ProposalAction `json:"action" dynamodbav:"action"`
	FromStatus ProposalStatus `json:"fromStatus" dynamodbav:"from_status"`
	ToStatus   ProposalStatus `json:"toStatus" dynamodbav:"to_status"`
	ActorUID   string         `json:"actorUid" dynamodbav:"actor_uid"`
	ActorRole  Role           `json:"actorRole" dynamodbav:"actor_role"`
	Note       string         `json:"note,omitempty" dynamodbav:"note,omitempty"`
	At         time.Time      `json:"at" dynamodbav:"at"`
}

type Link struct {
	Label string `json:"label" dynamodbav:"label"`
	URL   string `json:"url" dynamodbav:"url"`
}

// Proposal is the commercial offer that becomes a Project once won.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI status-index: status
type Proposal struct {
	ID               string            `json:"id" dynamodbav:"id"`
	ProjectName      string            `json:"projectName" dynamodbav:"project_name"`
	ClientCompany    string            `json:"clientCompany" dynamodbav:"client_company"`
	ClientEmail      string            `json:"clientEmail,omitempty" dynamodbav:"client_email,omitempty"`
	ScopeOfWork      string            `json:"scopeOfWork,omitempty" dynamodbav:"scope_of_work,omitempty"`
	Status           ProposalStatus    `json:"status" dynamodbav:"status"`
	Estimation       *Estimation       `json:"estimation,omitempty" dynamodbav:"estimation,omitempty"`
	Pricing          *Pricing          `json:"pricing,omitempty" dynamodbav:"pricing,omitempty"`
	DirectorApproval *DirectorApproval `json:"directorApproval,omitempty" dynamodbav:"director_approval,omitempty"`
	AllocationStatus string            `json:"allocationStatus,omitempty" dynamodbav:"allocation_status,omitempty"`
	Links            []Link            `json:"links,omitempty" dynamodbav:"links,omitempty"`
	CreatedByUID     string            `json:"createdByUid" dynamodbav:"created_by_uid"`
	ChangeLog        []ChangeLogEntry  `json:"changeLog" dynamodbav:"change_log"`
	CreatedAt        time.Time         `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt        time.Time         `json:"updatedAt" dynamodbav:"updated_at"`
	Version          int64             `json:"version" dynamodbav:"version"`
}

// QuoteValue returns the priced quote or zero when pricing has not been added.
func (p Proposal) QuoteValue() float64 {
	if p.Pricing == nil {
		return 0
	}
	return p.Pricing.QuoteValue
}
