package entities

import "time"

type ProjectStatus string

const (
	ProjectStatusPendingAllocation ProjectStatus = "pending_allocation"
	ProjectStatusAllocated         ProjectStatus = "allocated"
	ProjectStatusInProgress        ProjectStatus = "in_progress"
	ProjectStatusOnHold            ProjectStatus = "on_hold"
	ProjectStatusCompleted         ProjectStatus = "completed"
	ProjectStatusCancelled         ProjectStatus = "cancelled"
)

type DesignStatus string

const (
	DesignStatusNotStarted        DesignStatus = "not_started"
	DesignStatusAllocated         DesignStatus = "allocated"
	DesignStatusDesignersAssigned DesignStatus = "designers_assigned"
	DesignStatusInProgress        DesignStatus = "in_progress"
	DesignStatusSubmitted         DesignStatus = "submitted"
	DesignStatusRevisionRequired  DesignStatus = "revision_required"
	DesignStatusCompleted         DesignStatus = "completed"
)

// ProjectAction is the discriminator carried by PUT /api/projects.
type ProjectAction string

const (
	ProjectCreateFromProposal   ProjectAction = "create_from_proposal"
	ProjectAllocateToDesignLead ProjectAction = "allocate_to_design_lead"
	ProjectAssignDesigners      ProjectAction = "assign_designers"
	ProjectUpdateDesignStatus   ProjectAction = "update_design_status"
	ProjectMarkComplete         ProjectAction = "mark_complete"
	ProjectPutOnHold            ProjectAction = "put_on_hold"
	ProjectResume               ProjectAction = "resume"
)

// legalDesignStatuses is the allowed cross-product of the lifecycle and design-progress tracks.
// A nil entry means every design status is accepted.
var legalDesignStatuses = map[ProjectStatus][]DesignStatus{
	ProjectStatusPendingAllocation: {DesignStatusNotStarted},
	ProjectStatusAllocated:         {DesignStatusAllocated},
	ProjectStatusInProgress:        {DesignStatusDesignersAssigned, DesignStatusInProgress, DesignStatusSubmitted, DesignStatusRevisionRequired},
	ProjectStatusOnHold:            {DesignStatusNotStarted, DesignStatusAllocated, DesignStatusDesignersAssigned, DesignStatusInProgress, DesignStatusSubmitted, DesignStatusRevisionRequired},
	ProjectStatusCompleted:         {DesignStatusCompleted},
	ProjectStatusCancelled:         nil,
}

// ValidProjectState reports whether status and designStatus may coexist on a project.
func ValidProjectState(status ProjectStatus, design DesignStatus) bool {
	allowed, ok := legalDesignStatuses[status]
	if !ok {
		return false
	}
	if allowed == nil {
		return true
	}
	for _, d := range allowed {
		if d == design {
			return true
		}
	}
	return false
}

type AssignedDesigner struct {
	UID            string  `json:"uid" dynamodbav:"uid"`
	Name           string  `json:"name" dynamodbav:"name"`
	AllocatedHours float64 `json:"allocatedHours" dynamodbav:"allocated_hours"`
}

// Project is the delivery side of a won proposal.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI proposal_id-index: proposal_id
//
// HoursLogged is derived from the project's timesheets and is only written together with them.
type Project struct {
	ID                  string             `json:"id" dynamodbav:"id"`
	ProposalID          string             `json:"proposalId" dynamodbav:"proposal_id"`
	ProjectName         string             `json:"projectName" dynamodbav:"project_name"`
	ClientCompany       string             `json:"clientCompany" dynamodbav:"client_company"`
	ProjectNumber       string             `json:"projectNumber,omitempty" dynamodbav:"project_number,omitempty"`
	QuoteValue          float64            `json:"quoteValue" dynamodbav:"quote_value"`
	Currency            string             `json:"currency" dynamodbav:"currency"`
	Status              ProjectStatus      `json:"status" dynamodbav:"status"`
	DesignStatus        DesignStatus       `json:"designStatus" dynamodbav:"design_status"`
	MaxAllocatedHours   float64            `json:"maxAllocatedHours" dynamodbav:"max_allocated_hours"`
	AdditionalHours     float64            `json:"additionalHours" dynamodbav:"additional_hours"`
	TotalAllocatedHours float64            `json:"totalAllocatedHours" dynamodbav:"total_allocated_hours"`
	HoursLogged         float64            `json:"hoursLogged" dynamodbav:"hours_logged"`
	DesignLeadUID       string             `json:"designLeadUid,omitempty" dynamodbav:"design_lead_uid,omitempty"`
	DesignLeadName      string             `json:"designLeadName,omitempty" dynamodbav:"design_lead_name,omitempty"`
	AllocationNotes     string             `json:"allocationNotes,omitempty" dynamodbav:"allocation_notes,omitempty"`
	AllocatedAt         *time.Time         `json:"allocatedAt,omitempty" dynamodbav:"allocated_at,omitempty"`
	AssignedDesigners   []AssignedDesigner `json:"assignedDesigners" dynamodbav:"assigned_designers"`
	BDMUID              string             `json:"bdmUid,omitempty" dynamodbav:"bdm_uid,omitempty"`
	CompletedAt         *time.Time         `json:"completedAt,omitempty" dynamodbav:"completed_at,omitempty"`
	CreatedAt           time.Time          `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt           time.Time          `json:"updatedAt" dynamodbav:"updated_at"`
	Version             int64              `json:"version" dynamodbav:"version"`
}

// HoursBudget is the total number of hours designers may log on the project.
func (p Project) HoursBudget() float64 {
	return p.MaxAllocatedHours + p.AdditionalHours
}

// HasDesigner reports whether uid is currently in the assigned designer list.
func (p Project) HasDesigner(uid string) bool {
	for _, d := range p.AssignedDesigners {
		if d.UID == uid {
			return true
		}
	}
	return false
}

// IsMember reports whether uid works on the project as lead or designer.
func (p Project) IsMember(uid string) bool {
	return uid != "" && (p.DesignLeadUID == uid || p.HasDesigner(uid))
}
