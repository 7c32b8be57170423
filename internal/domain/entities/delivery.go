package entities

import "time"

type DeliverableKind string

const (
	DeliverableKindFile DeliverableKind = "file"
	DeliverableKindLink DeliverableKind = "link"
)

type ReviewStatus string

const (
	ReviewPending          ReviewStatus = "pending"
	ReviewApproved         ReviewStatus = "approved"
	ReviewRevisionRequired ReviewStatus = "revision_required"
)

type DeliverableAction string

const DeliverableReview DeliverableAction = "review"

type StoredFile struct {
	Name        string `json:"name" dynamodbav:"name"`
	Key         string `json:"key" dynamodbav:"key"`
	URL         string `json:"url" dynamodbav:"url"`
	Size        int64  `json:"size" dynamodbav:"size"`
	ContentType string `json:"contentType,omitempty" dynamodbav:"content_type,omitempty"`
}

// Deliverable is an uploaded artifact or an external link produced by the design team.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI project_id-index: project_id
type Deliverable struct {
	ID            string          `json:"id" dynamodbav:"id"`
	ProjectID     string          `json:"projectId" dynamodbav:"project_id"`
	Title         string          `json:"title" dynamodbav:"title"`
	Kind          DeliverableKind `json:"kind" dynamodbav:"kind"`
	Files         []StoredFile    `json:"files,omitempty" dynamodbav:"files,omitempty"`
	Link          string          `json:"link,omitempty" dynamodbav:"link,omitempty"`
	UploadedByUID string          `json:"uploadedByUid" dynamodbav:"uploaded_by_uid"`
	ReviewStatus  ReviewStatus    `json:"reviewStatus" dynamodbav:"review_status"`
	ReviewNotes   string          `json:"reviewNotes,omitempty" dynamodbav:"review_notes,omitempty"`
	ReviewedByUID string          `json:"reviewedByUid,omitempty" dynamodbav:"reviewed_by_uid,omitempty"`
	CreatedAt     time.Time       `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt     time.Time       `json:"updatedAt" dynamodbav:"updated_at"`
	Version       int64           `json:"version" dynamodbav:"version"`
}

type ClientFeedback string

const (
	FeedbackPending          ClientFeedback = "pending"
	FeedbackRevisionRequired ClientFeedback = "revision_required"
	FeedbackApproved         ClientFeedback = "approved"
	FeedbackRejected         ClientFeedback = "rejected"
)

type SubmissionAction string

const SubmissionRecordFeedback SubmissionAction = "record_feedback"

// Submission is a client-facing delivery of one or more deliverables.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI project_id-index: project_id
type Submission struct {
	ID             string         `json:"id" dynamodbav:"id"`
	ProjectID      string         `json:"projectId" dynamodbav:"project_id"`
	DeliverableIDs []string       `json:"deliverableIds" dynamodbav:"deliverable_ids"`
	SubmittedByUID string         `json:"submittedByUid" dynamodbav:"submitted_by_uid"`
	Notes          string         `json:"notes,omitempty" dynamodbav:"notes,omitempty"`
	ClientFeedback ClientFeedback `json:"clientFeedback" dynamodbav:"client_feedback"`
	FeedbackNotes  string         `json:"feedbackNotes,omitempty" dynamodbav:"feedback_notes,omitempty"`
	FeedbackAt     *time.Time     `json:"feedbackAt,omitempty" dynamodbav:"feedback_at,omitempty"`
	CreatedAt      time.Time      `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt      time.Time      `json:"updatedAt" dynamodbav:"updated_at"`
	Version        int64          `json:"version" dynamodbav:"version"`
}
