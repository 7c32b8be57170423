package entities

import "time"

type TaskStatus string

const (
	TaskStatusNotStarted       TaskStatus = "not_started"
	TaskStatusInProgress       TaskStatus = "in_progress"
	TaskStatusSubmitted        TaskStatus = "submitted"
	TaskStatusRevisionRequired TaskStatus = "revision_required"
	TaskStatusApproved         TaskStatus = "approved"
)

type TaskAction string

const (
	TaskStart           TaskAction = "start"
	TaskSubmit          TaskAction = "submit"
	TaskRequestRevision TaskAction = "request_revision"
	TaskApprove         TaskAction = "approve"
	TaskAddComment      TaskAction = "add_comment"
	TaskUpdate          TaskAction = "update"
)

type Comment struct {
	ID        string    `json:"id" dynamodbav:"id"`
	AuthorUID string    `json:"authorUid" dynamodbav:"author_uid"`
	Author    string    `json:"author" dynamodbav:"author"`
	Text      string    `json:"text" dynamodbav:"text"`
	At        time.Time `json:"at" dynamodbav:"at"`
}

// Task is a per-designer drawing assignment.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI project_id-index: project_id
type Task struct {
	ID            string     `json:"id" dynamodbav:"id"`
	ProjectID     string     `json:"projectId" dynamodbav:"project_id"`
	DesignerUID   string     `json:"designerUid" dynamodbav:"designer_uid"`
	Title         string     `json:"title" dynamodbav:"title"`
	DrawingNumber string     `json:"drawingNumber,omitempty" dynamodbav:"drawing_number,omitempty"`
	Description   string     `json:"description,omitempty" dynamodbav:"description,omitempty"`
	DueDate       *time.Time `json:"dueDate,omitempty" dynamodbav:"due_date,omitempty"`
	Status        TaskStatus `json:"status" dynamodbav:"status"`
	Comments      []Comment  `json:"comments" dynamodbav:"comments"`
	CreatedByUID  string     `json:"createdByUid" dynamodbav:"created_by_uid"`
	CreatedAt     time.Time  `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt     time.Time  `json:"updatedAt" dynamodbav:"updated_at"`
	Version       int64      `json:"version" dynamodbav:"version"`
}

// Timesheet is one hours entry logged against a project.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI project_id-index: project_id
type Timesheet struct {
	ID          string    `json:"id" dynamodbav:"id"`
	ProjectID   string    `json:"projectId" dynamodbav:"project_id"`
	DesignerUID string    `json:"designerUid" dynamodbav:"designer_uid"`
	Date        string    `json:"date" dynamodbav:"date"`
	Hours       float64   `json:"hours" dynamodbav:"hours"`
	Description string    `json:"description,omitempty" dynamodbav:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt" dynamodbav:"created_at"`
}

// SumHours aggregates the hours of every entry.
func SumHours(entries []Timesheet) float64 {
	total := 0.0
	for _, e := range entries {
		total += e.Hours
	}
	return total
}

type TimeRequestStatus string

const (
	TimeRequestPending       TimeRequestStatus = "pending"
	TimeRequestApproved      TimeRequestStatus = "approved"
	TimeRequestRejected      TimeRequestStatus = "rejected"
	TimeRequestInfoRequested TimeRequestStatus = "info_requested"
)

type TimeRequestAction string

const (
	TimeRequestApprove     TimeRequestAction = "approve"
	TimeRequestReject      TimeRequestAction = "reject"
	TimeRequestRequestInfo TimeRequestAction = "request_info"
	TimeRequestProvideInfo TimeRequestAction = "provide_info"
)

// TimesheetDraft is a timesheet entry held back until a time request for extra hours is approved.
type TimesheetDraft struct {
	Date        string  `json:"date" dynamodbav:"date" validate:"required,date"`
	Hours       float64 `json:"hours" dynamodbav:"hours" validate:"gt=0"`
	Description string  `json:"description,omitempty" dynamodbav:"description,omitempty"`
}

// TimeRequest asks for extra hours on a project's allocation.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI project_id-index: project_id
type TimeRequest struct {
	ID               string            `json:"id" dynamodbav:"id"`
	ProjectID        string            `json:"projectId" dynamodbav:"project_id"`
	RequesterUID     string            `json:"requesterUid" dynamodbav:"requester_uid"`
	RequesterName    string            `json:"requesterName,omitempty" dynamodbav:"requester_name,omitempty"`
	Hours            float64           `json:"hours" dynamodbav:"hours"`
	Reason           string            `json:"reason" dynamodbav:"reason"`
	Status           TimeRequestStatus `json:"status" dynamodbav:"status"`
	ReviewerUID      string            `json:"reviewerUid,omitempty" dynamodbav:"reviewer_uid,omitempty"`
	ReviewNotes      string            `json:"reviewNotes,omitempty" dynamodbav:"review_notes,omitempty"`
	AdditionalInfo   string            `json:"additionalInfo,omitempty" dynamodbav:"additional_info,omitempty"`
	PendingTimesheet *TimesheetDraft   `json:"pendingTimesheet,omitempty" dynamodbav:"pending_timesheet,omitempty"`
	ReviewedAt       *time.Time        `json:"reviewedAt,omitempty" dynamodbav:"reviewed_at,omitempty"`
	CreatedAt        time.Time         `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt        time.Time         `json:"updatedAt" dynamodbav:"updated_at"`
	Version          int64             `json:"version" dynamodbav:"version"`
}

// Reviewable reports whether a reviewer decision may still be applied.
func (t TimeRequest) Reviewable() bool {
	return t.Status == TimeRequestPending || t.Status == TimeRequestInfoRequested
}
