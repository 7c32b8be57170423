package memory

import (
	"context"
	"sort"

	"studioflow/internal/domain/entities"
	"studioflow/internal/usecase/interfaces"
)

type UserRepository struct{ s *Store }

var _ interfaces.IUserRepository = (*UserRepository)(nil)

func (s *Store) Users() *UserRepository { return &UserRepository{s} }

func (r *UserRepository) Create(_ context.Context, u entities.User) (entities.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.users.create(u)
}

func (r *UserRepository) GetByID(_ context.Context, uid string) (entities.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.users.get(uid), nil
}

func (r *UserRepository) List(_ context.Context) ([]entities.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.users.list(nil), nil
}

func (r *UserRepository) ListByRole(_ context.Context, role entities.Role) ([]entities.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.users.list(func(u entities.User) bool { return u.Role == role }), nil
}

func (r *UserRepository) Update(_ context.Context, u entities.User) (entities.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.users.update(u)
}

type ProposalRepository struct{ s *Store }

var _ interfaces.IProposalRepository = (*ProposalRepository)(nil)

func (s *Store) Proposals() *ProposalRepository { return &ProposalRepository{s} }

func (r *ProposalRepository) Create(_ context.Context, p entities.Proposal) (entities.Proposal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.proposals.create(p)
}

func (r *ProposalRepository) GetByID(_ context.Context, id string) (entities.Proposal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.proposals.get(id), nil
}

func (r *ProposalRepository) List(_ context.Context, f interfaces.ProposalFilter) ([]entities.Proposal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.proposals.list(f.Match), nil
}

func (r *ProposalRepository) Update(_ context.Context, p entities.Proposal) (entities.Proposal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.proposals.update(p)
}

func (r *ProposalRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.proposals.delete(id)
	return nil
}

type ProjectNumberRegistry struct{ s *Store }

var _ interfaces.IProjectNumberRegistry = (*ProjectNumberRegistry)(nil)

func (s *Store) ProjectNumbers() *ProjectNumberRegistry { return &ProjectNumberRegistry{s} }

func (r *ProjectNumberRegistry) Reserve(_ context.Context, number, owner string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if holder, ok := r.s.numbers[number]; ok && holder != owner {
		return interfaces.ErrConflict
	}
	r.s.numbers[number] = owner
	return nil
}

func (r *ProjectNumberRegistry) Release(_ context.Context, number, owner string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.numbers[number] == owner {
		delete(r.s.numbers, number)
	}
	return nil
}

type ProjectRepository struct{ s *Store }

var _ interfaces.IProjectRepository = (*ProjectRepository)(nil)

func (s *Store) Projects() *ProjectRepository { return &ProjectRepository{s} }

func (r *ProjectRepository) Create(_ context.Context, p entities.Project) (entities.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.projects.create(p)
}

func (r *ProjectRepository) GetByID(_ context.Context, id string) (entities.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.projects.get(id), nil
}

func (r *ProjectRepository) List(_ context.Context, f interfaces.ProjectFilter) ([]entities.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.projects.list(f.Match), nil
}

func (r *ProjectRepository) Update(_ context.Context, p entities.Project) (entities.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.projects.update(p)
}

func (r *ProjectRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.projects.delete(id)
	return nil
}

type TaskRepository struct{ s *Store }

var _ interfaces.ITaskRepository = (*TaskRepository)(nil)

func (s *Store) Tasks() *TaskRepository { return &TaskRepository{s} }

func (r *TaskRepository) Create(_ context.Context, t entities.Task) (entities.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.tasks.create(t)
}

func (r *TaskRepository) GetByID(_ context.Context, id string) (entities.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.tasks.get(id), nil
}

func (r *TaskRepository) List(_ context.Context, f interfaces.TaskFilter) ([]entities.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.tasks.list(f.Match), nil
}

func (r *TaskRepository) Update(_ context.Context, t entities.Task) (entities.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.tasks.update(t)
}

func (r *TaskRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.tasks.delete(id)
	return nil
}

type TimesheetRepository struct{ s *Store }

var _ interfaces.ITimesheetRepository = (*TimesheetRepository)(nil)

func (s *Store) Timesheets() *TimesheetRepository { return &TimesheetRepository{s} }

func (r *TimesheetRepository) GetByID(_ context.Context, id string) (entities.Timesheet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.timesheets.get(id), nil
}

func (r *TimesheetRepository) ListByProject(_ context.Context, projectID string) ([]entities.Timesheet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.timesheets.list(func(t entities.Timesheet) bool { return t.ProjectID == projectID }), nil
}

func (r *TimesheetRepository) ListByDesigner(_ context.Context, designerUID string) ([]entities.Timesheet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.timesheets.list(func(t entities.Timesheet) bool { return t.DesignerUID == designerUID }), nil
}

type TimeRequestRepository struct{ s *Store }

var _ interfaces.ITimeRequestRepository = (*TimeRequestRepository)(nil)

func (s *Store) TimeRequests() *TimeRequestRepository { return &TimeRequestRepository{s} }

func (r *TimeRequestRepository) Create(_ context.Context, tr entities.TimeRequest) (entities.TimeRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.timeRequests.create(tr)
}

func (r *TimeRequestRepository) GetByID(_ context.Context, id string) (entities.TimeRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.timeRequests.get(id), nil
}

func (r *TimeRequestRepository) List(_ context.Context, f interfaces.TimeRequestFilter) ([]entities.TimeRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.timeRequests.list(f.Match), nil
}

func (r *TimeRequestRepository) Update(_ context.Context, tr entities.TimeRequest) (entities.TimeRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.timeRequests.update(tr)
}

type DeliverableRepository struct{ s *Store }

var _ interfaces.IDeliverableRepository = (*DeliverableRepository)(nil)

func (s *Store) Deliverables() *DeliverableRepository { return &DeliverableRepository{s} }

func (r *DeliverableRepository) Create(_ context.Context, d entities.Deliverable) (entities.Deliverable, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.deliverables.create(d)
}

func (r *DeliverableRepository) GetByID(_ context.Context, id string) (entities.Deliverable, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.deliverables.get(id), nil
}

func (r *DeliverableRepository) ListByProject(_ context.Context, projectID string) ([]entities.Deliverable, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.deliverables.list(func(d entities.Deliverable) bool { return d.ProjectID == projectID }), nil
}

func (r *DeliverableRepository) Update(_ context.Context, d entities.Deliverable) (entities.Deliverable, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.deliverables.update(d)
}

func (r *DeliverableRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.deliverables.delete(id)
	return nil
}

type SubmissionRepository struct{ s *Store }

var _ interfaces.ISubmissionRepository = (*SubmissionRepository)(nil)

func (s *Store) Submissions() *SubmissionRepository { return &SubmissionRepository{s} }

func (r *SubmissionRepository) Create(_ context.Context, sub entities.Submission) (entities.Submission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.submissions.create(sub)
}

func (r *SubmissionRepository) GetByID(_ context.Context, id string) (entities.Submission, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.submissions.get(id), nil
}

func (r *SubmissionRepository) ListByProject(_ context.Context, projectID string) ([]entities.Submission, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.submissions.list(func(sub entities.Submission) bool { return sub.ProjectID == projectID }), nil
}

func (r *SubmissionRepository) Update(_ context.Context, sub entities.Submission) (entities.Submission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.submissions.update(sub)
}

type InvoiceRepository struct{ s *Store }

var _ interfaces.IInvoiceRepository = (*InvoiceRepository)(nil)

func (s *Store) Invoices() *InvoiceRepository { return &InvoiceRepository{s} }

func (r *InvoiceRepository) Create(_ context.Context, inv entities.Invoice) (entities.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.invoices.create(inv)
}

func (r *InvoiceRepository) GetByID(_ context.Context, id string) (entities.Invoice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.invoices.get(id), nil
}

func (r *InvoiceRepository) List(_ context.Context, f interfaces.BillingFilter) ([]entities.Invoice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.invoices.list(f.MatchInvoice), nil
}

func (r *InvoiceRepository) Update(_ context.Context, inv entities.Invoice) (entities.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.invoices.update(inv)
}

func (r *InvoiceRepository) DeleteUnpaid(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.invoices.exists(id) {
		return nil
	}
	if r.s.invoices.get(id).Status == entities.InvoiceStatusPaid {
		return interfaces.ErrConflict
	}
	r.s.invoices.delete(id)
	return nil
}

type PaymentRepository struct{ s *Store }

var _ interfaces.IPaymentRepository = (*PaymentRepository)(nil)

func (s *Store) Payments() *PaymentRepository { return &PaymentRepository{s} }

func (r *PaymentRepository) Create(_ context.Context, p entities.Payment) (entities.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.payments.create(p)
}

func (r *PaymentRepository) GetByID(_ context.Context, id string) (entities.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.payments.get(id), nil
}

func (r *PaymentRepository) List(_ context.Context, f interfaces.BillingFilter) ([]entities.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.payments.list(f.MatchPayment), nil
}

func (r *PaymentRepository) Update(_ context.Context, p entities.Payment) (entities.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.payments.update(p)
}

func (r *PaymentRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.payments.delete(id)
	return nil
}

type Counter struct{ s *Store }

var _ interfaces.ICounter = (*Counter)(nil)

func (s *Store) Counter() *Counter { return &Counter{s} }

func (c *Counter) Next(_ context.Context, name string) (int64, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	c.s.counters[name]++
	return c.s.counters[name], nil
}

type NotificationRepository struct{ s *Store }

var _ interfaces.INotificationRepository = (*NotificationRepository)(nil)

func (s *Store) Notifications() *NotificationRepository { return &NotificationRepository{s} }

func (r *NotificationRepository) Create(_ context.Context, n entities.Notification) (entities.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.notifications.create(n)
}

func (r *NotificationRepository) GetByID(_ context.Context, id string) (entities.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.notifications.get(id), nil
}

func (r *NotificationRepository) ListByUID(_ context.Context, uid string) ([]entities.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.notifications.list(func(n entities.Notification) bool { return n.RecipientUID == uid }), nil
}

func (r *NotificationRepository) ListByRole(_ context.Context, role entities.Role) ([]entities.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.notifications.list(func(n entities.Notification) bool { return n.RecipientUID == "" && n.RecipientRole == role }), nil
}

func (r *NotificationRepository) MarkRead(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.notifications.exists(id) {
		return nil
	}
	n := r.s.notifications.get(id)
	n.IsRead = true
	r.s.notifications.put(n)
	return nil
}

func (r *NotificationRepository) MarkReadBy(_ context.Context, id, uid string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.notifications.exists(id) {
		return nil
	}
	n := r.s.notifications.get(id)
	if !n.ReadFor(uid) {
		n.ReadBy = append(n.ReadBy, uid)
	}
	r.s.notifications.put(n)
	return nil
}

func (r *NotificationRepository) MarkDismissedBy(_ context.Context, id, uid string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.notifications.exists(id) {
		return nil
	}
	n := r.s.notifications.get(id)
	if !n.DismissedFor(uid) {
		n.DismissedBy = append(n.DismissedBy, uid)
	}
	r.s.notifications.put(n)
	return nil
}

func (r *NotificationRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.notifications.delete(id)
	return nil
}

type ActivityRepository struct{ s *Store }

var _ interfaces.IActivityRepository = (*ActivityRepository)(nil)

func (s *Store) Activities() *ActivityRepository { return &ActivityRepository{s} }

func (r *ActivityRepository) Append(_ context.Context, a entities.Activity) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, err := r.s.activities.create(a)
	return err
}

func (r *ActivityRepository) ListRecent(_ context.Context, limit int) ([]entities.Activity, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := r.s.activities.list(nil)
	sort.SliceStable(list, func(i, j int) bool { return list[i].Timestamp.After(list[j].Timestamp) })
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

type OutboxRepository struct{ s *Store }

var _ interfaces.IOutboxRepository = (*OutboxRepository)(nil)

func (s *Store) Outbox() *OutboxRepository { return &OutboxRepository{s} }

func (r *OutboxRepository) Create(_ context.Context, e entities.OutboxEvent) (entities.OutboxEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.outbox.create(e)
}

func (r *OutboxRepository) Save(_ context.Context, e entities.OutboxEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.outbox.put(e)
	return nil
}

func (r *OutboxRepository) ListByStatus(_ context.Context, status entities.OutboxStatus, limit int) ([]entities.OutboxEvent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := r.s.outbox.list(func(e entities.OutboxEvent) bool { return e.Status == status })
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}
