package request

import (
	"encoding/json"
	"strings"
)

// ActionRequest is the body of every state transition: PUT /api/<resource>?id=... and the
// action-style POSTs.
type ActionRequest struct {
	Action string          `json:"action" binding:"required"`
	Data   json.RawMessage `json:"data"`
}

// Payload returns Data, substituting an empty object when the client sent none.
func (r ActionRequest) Payload() json.RawMessage {
	if len(strings.TrimSpace(string(r.Data))) == 0 || strings.TrimSpace(string(r.Data)) == "null" {
		return json.RawMessage("{}")
	}
	return r.Data
}

// ProjectCreateRequest is the body of POST /api/projects.
type ProjectCreateRequest struct {
	Action string `json:"action" binding:"required,eq=create_from_proposal"`
	Data   struct {
		ProposalID string `json:"proposalId" binding:"required"`
	} `json:"data"`
}

// ListQuery carries the list filters shared by the GET endpoints.
type ListQuery struct {
	ID          string `form:"id"`
	Status      string `form:"status"`
	CreatedBy   string `form:"createdBy"`
	ProjectID   string `form:"projectId"`
	DesignerUID string `form:"designerUid"`
	DesignLead  string `form:"designLeadUid"`
	Role        string `form:"role"`
	Limit       int    `form:"limit" binding:"omitempty,min=1"`
}

// Trimmed returns q with surrounding whitespace removed from every text filter.
func (q ListQuery) Trimmed() ListQuery {
	q.ID = strings.TrimSpace(q.ID)
	q.Status = strings.TrimSpace(q.Status)
	q.CreatedBy = strings.TrimSpace(q.CreatedBy)
	q.ProjectID = strings.TrimSpace(q.ProjectID)
	q.DesignerUID = strings.TrimSpace(q.DesignerUID)
	q.DesignLead = strings.TrimSpace(q.DesignLead)
	q.Role = strings.TrimSpace(q.Role)
	return q
}
