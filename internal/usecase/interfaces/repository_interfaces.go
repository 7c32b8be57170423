package interfaces

import (
	"context"
	"errors"

	"studioflow/internal/domain/entities"
)

// ErrConflict is returned by repositories when a conditional write loses a race: the stored
// version moved, the key is already taken, or a guarded status no longer matches.
var ErrConflict = errors.New("conditional write conflict")

// Repository conventions (shared by the DynamoDB and in-memory stores):
//   - GetByID returns the zero value and a nil error when the document does not exist.
//   - Update writes the entity with Version+1, conditioned on the stored version still being
//     entity.Version; it returns the stored entity or ErrConflict.
//   - List methods return every match; callers sort and truncate.

type IUserRepository interface {
	Create(ctx context.Context, u entities.User) (entities.User, error)
	GetByID(ctx context.Context, uid string) (entities.User, error)
	List(ctx context.Context) ([]entities.User, error)
	ListByRole(ctx context.Context, role entities.Role) ([]entities.User, error)
	Update(ctx context.Context, u entities.User) (entities.User, error)
}

type IProposalRepository interface {
	Create(ctx context.Context, p entities.Proposal) (entities.Proposal, error)
	GetByID(ctx context.Context, id string) (entities.Proposal, error)
	List(ctx context.Context, f ProposalFilter) ([]entities.Proposal, error)
	Update(ctx context.Context, p entities.Proposal) (entities.Proposal, error)
	Delete(ctx context.Context, id string) error
}

// IProjectNumberRegistry guards project number uniqueness across proposals.
type IProjectNumberRegistry interface {
	// Reserve claims number for owner. Reserving a number already held by the same owner
	// succeeds; a number held by another owner yields ErrConflict.
	Reserve(ctx context.Context, number, owner string) error
	Release(ctx context.Context, number, owner string) error
}

// IProjectRepository persists projects. A project's id equals the id of the proposal it was
// created from, so Create doubles as the one-project-per-proposal guard.
type IProjectRepository interface {
	Create(ctx context.Context, p entities.Project) (entities.Project, error)
	GetByID(ctx context.Context, id string) (entities.Project, error)
	List(ctx context.Context, f ProjectFilter) ([]entities.Project, error)
	Update(ctx context.Context, p entities.Project) (entities.Project, error)
	Delete(ctx context.Context, id string) error
}

type ITaskRepository interface {
	Create(ctx context.Context, t entities.Task) (entities.Task, error)
	GetByID(ctx context.Context, id string) (entities.Task, error)
	List(ctx context.Context, f TaskFilter) ([]entities.Task, error)
	Update(ctx context.Context, t entities.Task) (entities.Task, error)
	Delete(ctx context.Context, id string) error
}

type ITimesheetRepository interface {
	GetByID(ctx context.Context, id string) (entities.Timesheet, error)
	ListByProject(ctx context.Context, projectID string) ([]entities.Timesheet, error)
	ListByDesigner(ctx context.Context, designerUID string) ([]entities.Timesheet, error)
}

// IHoursLedger applies every write that touches a project's hour counters atomically.
//
// All methods are conditioned on project.Version: if another writer updated the project since it
// was read, nothing is written and ErrConflict is returned.
type IHoursLedger interface {
	// LogTimesheet stores ts and sets the project's hoursLogged.
	LogTimesheet(ctx context.Context, project entities.Project, ts entities.Timesheet, hoursLogged float64) (entities.Project, error)
	// RemoveTimesheet deletes ts and sets the project's hoursLogged.
	RemoveTimesheet(ctx context.Context, project entities.Project, ts entities.Timesheet, hoursLogged float64) (entities.Project, error)
	// ApproveTimeRequest stores the reviewed request (conditioned on it still being reviewable at
	// its read version), adds its hours to additionalHours and, when ts is non-nil, stores ts and
	// sets hoursLogged.
	ApproveTimeRequest(ctx context.Context, project entities.Project, tr entities.TimeRequest, ts *entities.Timesheet, hoursLogged float64) (entities.Project, error)
}

type ITimeRequestRepository interface {
	Create(ctx context.Context, tr entities.TimeRequest) (entities.TimeRequest, error)
	GetByID(ctx context.Context, id string) (entities.TimeRequest, error)
	List(ctx context.Context, f TimeRequestFilter) ([]entities.TimeRequest, error)
	Update(ctx context.Context, tr entities.TimeRequest) (entities.TimeRequest, error)
}

type IDeliverableRepository interface {
	Create(ctx context.Context, d entities.Deliverable) (entities.Deliverable, error)
	GetByID(ctx context.Context, id string) (entities.Deliverable, error)
	ListByProject(ctx context.Context, projectID string) ([]entities.Deliverable, error)
	Update(ctx context.Context, d entities.Deliverable) (entities.Deliverable, error)
	Delete(ctx context.Context, id string) error
}

type ISubmissionRepository interface {
	Create(ctx context.Context, s entities.Submission) (entities.Submission, error)
	GetByID(ctx context.Context, id string) (entities.Submission, error)
	ListByProject(ctx context.Context, projectID string) ([]entities.Submission, error)
	Update(ctx context.Context, s entities.Submission) (entities.Submission, error)
}

type IInvoiceRepository interface {
	Create(ctx context.Context, inv entities.Invoice) (entities.Invoice, error)
	GetByID(ctx context.Context, id string) (entities.Invoice, error)
	List(ctx context.Context, f BillingFilter) ([]entities.Invoice, error)
	Update(ctx context.Context, inv entities.Invoice) (entities.Invoice, error)
	// DeleteUnpaid removes the invoice only while it is not paid; a paid invoice yields ErrConflict.
	DeleteUnpaid(ctx context.Context, id string) error
}

type IPaymentRepository interface {
	Create(ctx context.Context, p entities.Payment) (entities.Payment, error)
	GetByID(ctx context.Context, id string) (entities.Payment, error)
	List(ctx context.Context, f BillingFilter) ([]entities.Payment, error)
	Update(ctx context.Context, p entities.Payment) (entities.Payment, error)
	Delete(ctx context.Context, id string) error
}

// ICounter hands out monotonically increasing sequence numbers.
type ICounter interface {
	Next(ctx context.Context, name string) (int64, error)
}

type INotificationRepository interface {
	Create(ctx context.Context, n entities.Notification) (entities.Notification, error)
	GetByID(ctx context.Context, id string) (entities.Notification, error)
	ListByUID(ctx context.Context, uid string) ([]entities.Notification, error)
	ListByRole(ctx context.Context, role entities.Role) ([]entities.Notification, error)
	MarkRead(ctx context.Context, id string) error
	// MarkReadBy records uid as a reader of a role notification.
	MarkReadBy(ctx context.Context, id, uid string) error
	// MarkDismissedBy hides a role notification from uid without touching other holders.
	MarkDismissedBy(ctx context.Context, id, uid string) error
	Delete(ctx context.Context, id string) error
}

type IActivityRepository interface {
	Append(ctx context.Context, a entities.Activity) error
	ListRecent(ctx context.Context, limit int) ([]entities.Activity, error)
}

type IOutboxRepository interface {
	Create(ctx context.Context, e entities.OutboxEvent) (entities.OutboxEvent, error)
	Save(ctx context.Context, e entities.OutboxEvent) error
	ListByStatus(ctx context.Context, status entities.OutboxStatus, limit int) ([]entities.OutboxEvent, error)
}
