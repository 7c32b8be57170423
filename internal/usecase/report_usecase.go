package usecase

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"studioflow/internal/domain/entities"
	"studioflow/internal/usecase/interfaces"
)

const (
	DefaultActivityLimit = 50
	MaxActivityLimit     = 500

	executiveSummaryKey = "report:executive-summary"
)

// Dashboard holds the counters shown on a user's landing page. Sections the role cannot see
// are left empty.
type Dashboard struct {
	Role                entities.Role                   `json:"role"`
	Proposals           map[entities.ProposalStatus]int `json:"proposals,omitempty"`
	Projects            map[entities.ProjectStatus]int  `json:"projects,omitempty"`
	MyOpenTasks         int                             `json:"myOpenTasks"`
	PendingTimeRequests int                             `json:"pendingTimeRequests"`
	OverduePayments     int                             `json:"overduePayments"`
	UnreadNotifications int                             `json:"unreadNotifications"`
	GeneratedAt         time.Time                       `json:"generatedAt"`
}

type ExecutiveSummary struct {
	WonValue       float64   `json:"wonValue"`
	PipelineValue  float64   `json:"pipelineValue"`
	WonCount       int       `json:"wonCount"`
	LostCount      int       `json:"lostCount"`
	ActiveProjects int       `json:"activeProjects"`
	InvoicedAmount float64   `json:"invoicedAmount"`
	ReceivedAmount float64   `json:"receivedAmount"`
	Outstanding    float64   `json:"outstanding"`
	HoursLogged    float64   `json:"hoursLogged"`
	HoursAllocated float64   `json:"hoursAllocated"`
	GeneratedAt    time.Time `json:"generatedAt"`
}

type IReportUseCase interface {
	Dashboard(ctx context.Context, actor entities.User) (Dashboard, error)
	ExecutiveSummary(ctx context.Context, actor entities.User) (ExecutiveSummary, error)
	Activities(ctx context.Context, actor entities.User, limit int) ([]entities.Activity, error)
}

type ReportRepositories struct {
	Proposals    interfaces.IProposalRepository
	Projects     interfaces.IProjectRepository
	Tasks        interfaces.ITaskRepository
	TimeRequests interfaces.ITimeRequestRepository
	Payments     interfaces.IPaymentRepository
	Activities   interfaces.IActivityRepository
}

type ReportUseCase struct {
	repos         ReportRepositories
	notifications INotificationUseCase
	cache         interfaces.ICache
	ttl           time.Duration
}

var _ IReportUseCase = (*ReportUseCase)(nil)

func NewReportUseCase(repos ReportRepositories, notifications INotificationUseCase, cache interfaces.ICache, ttl time.Duration) *ReportUseCase {
	return &ReportUseCase{repos: repos, notifications: notifications, cache: cache, ttl: ttl}
}

var (
	pipelineStatuses = map[entities.ProposalStatus]bool{
		entities.ProposalStatusPendingEstimation:  true,
		entities.ProposalStatusEstimationComplete: true,
		entities.ProposalStatusPendingApproval:    true,
		entities.ProposalStatusApproved:           true,
		entities.ProposalStatusSubmittedToClient:  true,
	}
	proposalViewers = entities.Elevated.With(entities.RoleBDM, entities.RoleEstimator)
)

func (u *ReportUseCase) Dashboard(ctx context.Context, actor entities.User) (Dashboard, error) {
	d := Dashboard{Role: actor.Role, GeneratedAt: time.Now().UTC()}

	if proposalViewers.Allows(actor.Role) {
		f := interfaces.ProposalFilter{}
		if actor.Role == entities.RoleBDM {
			f.CreatedByUID = actor.UID
		}
		proposals, err := u.repos.Proposals.List(ctx, f)
		if err != nil {
			return Dashboard{}, err
		}
		d.Proposals = map[entities.ProposalStatus]int{}
		for _, p := range proposals {
			d.Proposals[p.Status]++
		}
	}

	if actor.Role != entities.RoleEstimator {
		f := interfaces.ProjectFilter{}
		switch actor.Role {
		case entities.RoleDesigner:
			f.DesignerUID = actor.UID
		case entities.RoleDesignLead:
			f.DesignLeadUID = actor.UID
		}
		projects, err := u.repos.Projects.List(ctx, f)
		if err != nil {
			return Dashboard{}, err
		}
		d.Projects = map[entities.ProjectStatus]int{}
		for _, p := range projects {
			d.Projects[p.Status]++
		}
	}

	if actor.Role == entities.RoleDesigner || actor.Role == entities.RoleDesignLead {
		tasks, err := u.repos.Tasks.List(ctx, interfaces.TaskFilter{DesignerUID: actor.UID})
		if err != nil {
			return Dashboard{}, err
		}
		for _, t := range tasks {
			if t.Status != entities.TaskStatusApproved {
				d.MyOpenTasks++
			}
		}
	}

	if actor.Role.Elevated() || actor.Role == entities.RoleDesignLead {
		pending, err := u.repos.TimeRequests.List(ctx, interfaces.TimeRequestFilter{Status: entities.TimeRequestPending})
		if err != nil {
			return Dashboard{}, err
		}
		d.PendingTimeRequests = len(pending)
	}

	if billingRoles.Allows(actor.Role) {
		delayed, err := u.repos.Payments.List(ctx, interfaces.BillingFilter{Status: string(entities.PaymentStatusDelayed)})
		if err != nil {
			return Dashboard{}, err
		}
		d.OverduePayments = len(delayed)
	}

	unread, err := u.notifications.UnreadCount(ctx, actor)
	if err != nil {
		return Dashboard{}, err
	}
	d.UnreadNotifications = unread
	return d, nil
}

// ExecutiveSummary is served from cache when available; cache errors fall through to a fresh
// computation.
func (u *ReportUseCase) ExecutiveSummary(ctx context.Context, actor entities.User) (ExecutiveSummary, error) {
	if err := requireRole(actor, entities.Elevated); err != nil {
		return ExecutiveSummary{}, err
	}

	if u.cache != nil {
		raw, ok, err := u.cache.Get(ctx, executiveSummaryKey)
		if err != nil {
			log.Printf("[report][usecase] cache get failed key=%s err=%v", executiveSummaryKey, err)
		}
		if ok {
			var cached ExecutiveSummary
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
		}
	}

	s, err := u.computeSummary(ctx)
	if err != nil {
		return ExecutiveSummary{}, err
	}

	if u.cache != nil && u.ttl > 0 {
		if raw, err := json.Marshal(s); err == nil {
			if err := u.cache.Set(ctx, executiveSummaryKey, raw, u.ttl); err != nil {
				log.Printf("[report][usecase] cache set failed key=%s err=%v", executiveSummaryKey, err)
			}
		}
	}
	return s, nil
}

func (u *ReportUseCase) computeSummary(ctx context.Context) (ExecutiveSummary, error) {
	s := ExecutiveSummary{GeneratedAt: time.Now().UTC()}

	proposals, err := u.repos.Proposals.List(ctx, interfaces.ProposalFilter{})
	if err != nil {
		return s, err
	}
	for _, p := range proposals {
		switch {
		case p.Status == entities.ProposalStatusWon:
			s.WonValue += p.QuoteValue()
			s.WonCount++
		case p.Status == entities.ProposalStatusLost:
			s.LostCount++
		case pipelineStatuses[p.Status]:
			s.PipelineValue += p.QuoteValue()
		}
	}

	projects, err := u.repos.Projects.List(ctx, interfaces.ProjectFilter{})
	if err != nil {
		return s, err
	}
	for _, p := range projects {
		if p.Status == entities.ProjectStatusAllocated || p.Status == entities.ProjectStatusInProgress {
			s.ActiveProjects++
		}
		s.HoursLogged += p.HoursLogged
		s.HoursAllocated += p.HoursBudget()
	}

	payments, err := u.repos.Payments.List(ctx, interfaces.BillingFilter{})
	if err != nil {
		return s, err
	}
	for _, p := range payments {
		s.InvoicedAmount += p.InvoicedAmount
		s.ReceivedAmount += p.PaymentReceivedAmount
		s.Outstanding += p.Outstanding()
	}
	return s, nil
}

func (u *ReportUseCase) Activities(ctx context.Context, actor entities.User, limit int) ([]entities.Activity, error) {
	if err := requireRole(actor, entities.Elevated); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	if limit > MaxActivityLimit {
		limit = MaxActivityLimit
	}
	return u.repos.Activities.ListRecent(ctx, limit)
}
