package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"studioflow/internal/domain/entities"
	"studioflow/internal/usecase/interfaces"
	"studioflow/internal/validation"
)

var (
	ErrProjectNotFound      = errors.New("project not found")
	ErrProjectAlreadyExists = errors.New("a project already exists for this proposal")
	ErrProposalNotWon       = errors.New("proposal has not been won")
	ErrInvalidAssignee      = errors.New("assignee does not hold the required role")
)

type NewProjectFromProposal struct {
	ProposalID string `json:"proposalId" validate:"required"`
}

// IProjectUseCase drives allocation and delivery of won proposals.
type IProjectUseCase interface {
	CreateFromProposal(ctx context.Context, actor entities.User, in NewProjectFromProposal) (entities.Project, error)
	Get(ctx context.Context, actor entities.User, id string) (entities.Project, error)
	List(ctx context.Context, actor entities.User, f interfaces.ProjectFilter) ([]entities.Project, error)
	Apply(ctx context.Context, actor entities.User, id string, action entities.ProjectAction, data json.RawMessage) (entities.Project, error)
	Delete(ctx context.Context, actor entities.User, id string) error
}

var (
	projectCreators = entities.Roles(entities.RoleBDM, entities.RoleCOO, entities.RoleDirector)
	projectLeads    = entities.Elevated.With(entities.RoleDesignLead)
	projectDeleters = entities.Roles(entities.RoleDirector)
)

type ProjectUseCase struct {
	projects  interfaces.IProjectRepository
	proposals interfaces.IProposalRepository
	users     interfaces.IUserRepository
	effects   ISideEffects
	validator *validation.Validator
	machine   machine[entities.Project, entities.ProjectAction]
}

var _ IProjectUseCase = (*ProjectUseCase)(nil)

func NewProjectUseCase(
	projects interfaces.IProjectRepository,
	proposals interfaces.IProposalRepository,
	users interfaces.IUserRepository,
	effects ISideEffects,
	v *validation.Validator,
) *ProjectUseCase {
	u := &ProjectUseCase{projects: projects, proposals: proposals, users: users, effects: effects, validator: v}
	u.machine = machine[entities.Project, entities.ProjectAction]{
		entities.ProjectAllocateToDesignLead: on(entities.Elevated, u.allocate),
		entities.ProjectAssignDesigners:      on(projectLeads, u.assignDesigners),
		entities.ProjectUpdateDesignStatus:   on(projectLeads, u.updateDesignStatus),
		entities.ProjectMarkComplete:         on(projectLeads, u.markComplete),
		entities.ProjectPutOnHold:            on(entities.Elevated, u.putOnHold),
		entities.ProjectResume:               on(entities.Elevated, u.resume),
	}
	return u
}

// CreateFromProposal opens the project for a won proposal. The project id is the proposal id,
// which keeps it to one project per proposal.
func (u *ProjectUseCase) CreateFromProposal(ctx context.Context, actor entities.User, in NewProjectFromProposal) (entities.Project, error) {
	if err := requireRole(actor, projectCreators); err != nil {
		return entities.Project{}, err
	}
	in.ProposalID = strings.TrimSpace(in.ProposalID)
	if err := validate(u.validator, &in); err != nil {
		return entities.Project{}, err
	}

	proposal, err := u.proposals.GetByID(ctx, in.ProposalID)
	if err != nil {
		return entities.Project{}, err
	}
	if proposal.ID == "" {
		return entities.Project{}, ErrProposalNotFound
	}
	if proposal.Status != entities.ProposalStatusWon {
		return entities.Project{}, ErrProposalNotWon
	}

	now := time.Now().UTC()
	p := entities.Project{
		ID:                proposal.ID,
		ProposalID:        proposal.ID,
		ProjectName:       proposal.ProjectName,
		ClientCompany:     proposal.ClientCompany,
		Status:            entities.ProjectStatusPendingAllocation,
		DesignStatus:      entities.DesignStatusNotStarted,
		AssignedDesigners: []entities.AssignedDesigner{},
		BDMUID:            proposal.CreatedByUID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if proposal.Pricing != nil {
		p.QuoteValue = proposal.Pricing.QuoteValue
		p.Currency = proposal.Pricing.Currency
		p.ProjectNumber = proposal.Pricing.ProjectNumber
	}

	created, err := u.projects.Create(ctx, p)
	if errors.Is(err, interfaces.ErrConflict) {
		return entities.Project{}, ErrProjectAlreadyExists
	}
	if err != nil {
		log.Printf("[project][usecase] create failed proposal_id=%s err=%v", proposal.ID, err)
		return entities.Project{}, err
	}
	log.Printf("[project][usecase] created id=%s quote=%.2f", created.ID, created.QuoteValue)

	related := map[string]string{"projectId": created.ID, "proposalId": proposal.ID}
	var fx Effects
	fx.Log("project_created", fmt.Sprintf("Project %s created from proposal", created.ProjectName), related)
	fx.NotifyRole(entities.RoleCOO, "project_pending_allocation", fmt.Sprintf("%s is waiting for a design lead", created.ProjectName), entities.PriorityHigh, related)
	u.effects.Dispatch(ctx, actor, fx)
	return created, nil
}

func (u *ProjectUseCase) Get(ctx context.Context, actor entities.User, id string) (entities.Project, error) {
	p, err := u.load(ctx, id)
	if err != nil {
		return entities.Project{}, err
	}
	if !canSeeProject(actor, p) {
		return entities.Project{}, forbiddenBecause("not a member of this project")
	}
	return p, nil
}

func (u *ProjectUseCase) List(ctx context.Context, actor entities.User, f interfaces.ProjectFilter) ([]entities.Project, error) {
	switch actor.Role {
	case entities.RoleDesigner:
		f.DesignerUID = actor.UID
	case entities.RoleDesignLead:
		f.DesignLeadUID = actor.UID
	}
	list, err := u.projects.List(ctx, f)
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (u *ProjectUseCase) Apply(ctx context.Context, actor entities.User, id string, action entities.ProjectAction, data json.RawMessage) (entities.Project, error) {
	updated, err := apply(ctx, u.validator, u.effects, applyRequest[entities.Project, entities.ProjectAction]{
		Machine: u.machine,
		Action:  action,
		Actor:   actor,
		Data:    data,
		Load:    func(ctx context.Context) (entities.Project, error) { return u.load(ctx, id) },
		Save:    u.projects.Update,
		Finish: func(c *Change[entities.Project], _ entities.Project) error {
			if !entities.ValidProjectState(c.Entity.Status, c.Entity.DesignStatus) {
				return illegalFrom(action, c.Entity.Status)
			}
			c.Entity.TotalAllocatedHours = c.Entity.HoursBudget()
			c.Entity.UpdatedAt = c.Now
			return nil
		},
	})
	if err != nil {
		log.Printf("[project][usecase] %s failed id=%s actor=%s err=%v", action, id, actor.UID, err)
		return entities.Project{}, err
	}
	log.Printf("[project][usecase] %s applied id=%s status=%s design_status=%s", action, updated.ID, updated.Status, updated.DesignStatus)
	return updated, nil
}

func (u *ProjectUseCase) Delete(ctx context.Context, actor entities.User, id string) error {
	if err := requireRole(actor, projectDeleters); err != nil {
		return err
	}
	p, err := u.load(ctx, id)
	if err != nil {
		return err
	}
	if err := u.projects.Delete(ctx, p.ID); err != nil {
		return err
	}
	var fx Effects
	fx.Log("project_deleted", fmt.Sprintf("Project %s deleted", p.ProjectName), map[string]string{"projectId": p.ID})
	u.effects.Dispatch(ctx, actor, fx)
	return nil
}

func (u *ProjectUseCase) load(ctx context.Context, id string) (entities.Project, error) {
	return loadProject(ctx, u.projects, id)
}

func loadProject(ctx context.Context, repo interfaces.IProjectRepository, id string) (entities.Project, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Project{}, ErrInvalidID
	}
	p, err := repo.GetByID(ctx, id)
	if err != nil {
		return entities.Project{}, err
	}
	if p.ID == "" {
		return entities.Project{}, ErrProjectNotFound
	}
	return p, nil
}

// canSeeProject hides projects from design staff who do not work on them.
func canSeeProject(actor entities.User, p entities.Project) bool {
	switch actor.Role {
	case entities.RoleDesigner, entities.RoleDesignLead:
		return p.IsMember(actor.UID)
	}
	return true
}

// requireLead lets elevated roles through and restricts design leads to the project they lead.
func requireLead(actor entities.User, p entities.Project) error {
	if actor.Role.Elevated() {
		return nil
	}
	if actor.Role == entities.RoleDesignLead && p.DesignLeadUID == actor.UID {
		return nil
	}
	return forbiddenBecause("only the allocated design lead, coo or director may do this")
}

// mutateProject applies fn to the latest stored project and writes it back, retrying a few times
// when another writer got there first.
func mutateProject(ctx context.Context, repo interfaces.IProjectRepository, id string, fn func(p *entities.Project) error) (entities.Project, error) {
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		p, err := loadProject(ctx, repo, id)
		if err != nil {
			return entities.Project{}, err
		}
		if err := fn(&p); err != nil {
			return entities.Project{}, err
		}
		if !entities.ValidProjectState(p.Status, p.DesignStatus) {
			return entities.Project{}, &StateError{Action: "design_status:" + string(p.DesignStatus), From: string(p.Status)}
		}
		p.UpdatedAt = time.Now().UTC()
		updated, err := repo.Update(ctx, p)
		if err == nil {
			return updated, nil
		}
		if !errors.Is(err, interfaces.ErrConflict) {
			return entities.Project{}, err
		}
		lastErr = err
	}
	return entities.Project{}, lastErr
}

func projectRelated(p *entities.Project) map[string]string {
	return map[string]string{"projectId": p.ID}
}

func projectEmailData(p entities.Project) map[string]string {
	return map[string]string{
		"projectId":     p.ID,
		"projectName":   p.ProjectName,
		"clientCompany": p.ClientCompany,
		"projectNumber": p.ProjectNumber,
		"status":        string(p.Status),
		"designStatus":  string(p.DesignStatus),
	}
}

func requireProjectStatus(action entities.ProjectAction, p entities.Project, allowed ...entities.ProjectStatus) error {
	for _, s := range allowed {
		if p.Status == s {
			return nil
		}
	}
	return illegalFrom(action, p.Status)
}

type allocatePayload struct {
	DesignLeadUID     string  `json:"designLeadUid" validate:"required"`
	MaxAllocatedHours float64 `json:"maxAllocatedHours" validate:"gt=0"`
	AllocationNotes   string  `json:"allocationNotes" validate:"required"`
}

// allocate overwrites the allocation wholesale; any previously assigned designers are released.
func (u *ProjectUseCase) allocate(c *Change[entities.Project], p allocatePayload) error {
	if err := requireProjectStatus(entities.ProjectAllocateToDesignLead, *c.Entity,
		entities.ProjectStatusPendingAllocation, entities.ProjectStatusAllocated, entities.ProjectStatusInProgress); err != nil {
		return err
	}
	if strings.TrimSpace(p.AllocationNotes) == "" {
		return &ValidationError{Fields: map[string]string{"allocationNotes": "required"}}
	}
	lead, err := u.users.GetByID(c.Ctx, p.DesignLeadUID)
	if err != nil {
		return err
	}
	if lead.UID == "" || lead.Role != entities.RoleDesignLead || !lead.Active() {
		return fmt.Errorf("%w: %s is not an active design lead", ErrInvalidAssignee, p.DesignLeadUID)
	}

	now := c.Now
	c.Entity.DesignLeadUID = lead.UID
	c.Entity.DesignLeadName = lead.Name
	c.Entity.MaxAllocatedHours = p.MaxAllocatedHours
	c.Entity.AllocationNotes = strings.TrimSpace(p.AllocationNotes)
	c.Entity.AllocatedAt = &now
	c.Entity.AssignedDesigners = []entities.AssignedDesigner{}
	c.Entity.Status = entities.ProjectStatusAllocated
	c.Entity.DesignStatus = entities.DesignStatusAllocated

	related := projectRelated(c.Entity)
	c.Effects.Log("project_allocated", fmt.Sprintf("%s allocated to %s with %.1f hours", c.Entity.ProjectName, lead.Name, p.MaxAllocatedHours), related)
	c.Effects.NotifyUser(lead.UID, "project_allocated", fmt.Sprintf("You now lead %s (%.1f hours)", c.Entity.ProjectName, p.MaxAllocatedHours), entities.PriorityHigh, related)
	data := projectEmailData(*c.Entity)
	data["maxAllocatedHours"] = strconv.FormatFloat(p.MaxAllocatedHours, 'f', -1, 64)
	data["allocationNotes"] = c.Entity.AllocationNotes
	c.Effects.Email(entities.EmailEvent{Event: "project_allocated", ToUIDs: []string{lead.UID}, Data: data})
	return nil
}

type designerAssignment struct {
	UID            string  `json:"uid" validate:"required"`
	AllocatedHours float64 `json:"allocatedHours" validate:"gte=0"`
}

type assignDesignersPayload struct {
	Designers []designerAssignment `json:"designers" validate:"required,min=1,dive"`
}

// assignDesigners replaces the designer list; it never merges with the previous one.
func (u *ProjectUseCase) assignDesigners(c *Change[entities.Project], p assignDesignersPayload) error {
	if err := requireLead(c.Actor, *c.Entity); err != nil {
		return err
	}
	if err := requireProjectStatus(entities.ProjectAssignDesigners, *c.Entity,
		entities.ProjectStatusAllocated, entities.ProjectStatusInProgress); err != nil {
		return err
	}

	seen := map[string]bool{}
	total := 0.0
	assigned := make([]entities.AssignedDesigner, 0, len(p.Designers))
	for _, d := range p.Designers {
		if seen[d.UID] {
			return invalid(fmt.Sprintf("designer %s listed twice", d.UID))
		}
		seen[d.UID] = true
		user, err := u.users.GetByID(c.Ctx, d.UID)
		if err != nil {
			return err
		}
		if user.UID == "" || user.Role != entities.RoleDesigner || !user.Active() {
			return fmt.Errorf("%w: %s is not an active designer", ErrInvalidAssignee, d.UID)
		}
		total += d.AllocatedHours
		assigned = append(assigned, entities.AssignedDesigner{UID: user.UID, Name: user.Name, AllocatedHours: d.AllocatedHours})
	}
	if budget := c.Entity.HoursBudget(); total > budget {
		return &AllocationExceededError{Budget: budget, Requested: total, ExceededBy: total - budget}
	}

	c.Entity.AssignedDesigners = assigned
	c.Entity.Status = entities.ProjectStatusInProgress
	c.Entity.DesignStatus = entities.DesignStatusDesignersAssigned

	related := projectRelated(c.Entity)
	uids := make([]string, 0, len(assigned))
	for _, d := range assigned {
		uids = append(uids, d.UID)
		c.Effects.NotifyUser(d.UID, "designer_assigned", fmt.Sprintf("You were assigned to %s for %.1f hours", c.Entity.ProjectName, d.AllocatedHours), entities.PriorityNormal, related)
	}
	c.Effects.Log("designers_assigned", fmt.Sprintf("%d designer(s) assigned to %s", len(assigned), c.Entity.ProjectName), related)
	c.Effects.Email(entities.EmailEvent{Event: "designers_assigned", ToUIDs: uids, Data: projectEmailData(*c.Entity)})
	return nil
}

type designStatusPayload struct {
	DesignStatus entities.DesignStatus `json:"designStatus" validate:"required,oneof=designers_assigned in_progress submitted revision_required"`
	Notes        string                `json:"notes"`
}

func (u *ProjectUseCase) updateDesignStatus(c *Change[entities.Project], p designStatusPayload) error {
	if err := requireLead(c.Actor, *c.Entity); err != nil {
		return err
	}
	if err := requireProjectStatus(entities.ProjectUpdateDesignStatus, *c.Entity, entities.ProjectStatusInProgress); err != nil {
		return err
	}
	from := c.Entity.DesignStatus
	c.Entity.DesignStatus = p.DesignStatus
	c.Effects.Log("design_status_updated", fmt.Sprintf("%s design status %s -> %s", c.Entity.ProjectName, from, p.DesignStatus), projectRelated(c.Entity))
	return nil
}

func (u *ProjectUseCase) markComplete(c *Change[entities.Project], p notesPayload) error {
	if err := requireLead(c.Actor, *c.Entity); err != nil {
		return err
	}
	if err := requireProjectStatus(entities.ProjectMarkComplete, *c.Entity, entities.ProjectStatusInProgress); err != nil {
		return err
	}
	now := c.Now
	c.Entity.Status = entities.ProjectStatusCompleted
	c.Entity.DesignStatus = entities.DesignStatusCompleted
	c.Entity.CompletedAt = &now

	related := projectRelated(c.Entity)
	msg := fmt.Sprintf("%s was completed", c.Entity.ProjectName)
	c.Effects.Log("project_completed", msg, related)
	c.Effects.NotifyRole(entities.RoleCOO, "project_completed", msg, entities.PriorityNormal, related)
	c.Effects.NotifyRole(entities.RoleAccounts, "project_completed", msg+"; final invoicing can proceed", entities.PriorityNormal, related)
	c.Effects.NotifyUser(c.Entity.BDMUID, "project_completed", msg, entities.PriorityNormal, related)
	c.Effects.Email(entities.EmailEvent{
		Event:   "project_completed",
		ToRoles: []entities.Role{entities.RoleCOO, entities.RoleAccounts},
		ToUIDs:  []string{c.Entity.BDMUID},
		Data:    projectEmailData(*c.Entity),
	})
	return nil
}

func (u *ProjectUseCase) putOnHold(c *Change[entities.Project], p notesPayload) error {
	if err := requireProjectStatus(entities.ProjectPutOnHold, *c.Entity,
		entities.ProjectStatusPendingAllocation, entities.ProjectStatusAllocated, entities.ProjectStatusInProgress); err != nil {
		return err
	}
	c.Entity.Status = entities.ProjectStatusOnHold

	related := projectRelated(c.Entity)
	msg := fmt.Sprintf("%s was put on hold", c.Entity.ProjectName)
	if p.Notes != "" {
		msg += ": " + p.Notes
	}
	c.Effects.Log("project_on_hold", msg, related)
	c.Effects.NotifyUser(c.Entity.DesignLeadUID, "project_on_hold", msg, entities.PriorityHigh, related)
	for _, d := range c.Entity.AssignedDesigners {
		c.Effects.NotifyUser(d.UID, "project_on_hold", msg, entities.PriorityNormal, related)
	}
	return nil
}

// resume returns the project to the lifecycle status implied by its design progress.
func (u *ProjectUseCase) resume(c *Change[entities.Project], p notesPayload) error {
	if err := requireProjectStatus(entities.ProjectResume, *c.Entity, entities.ProjectStatusOnHold); err != nil {
		return err
	}
	switch c.Entity.DesignStatus {
	case entities.DesignStatusNotStarted:
		c.Entity.Status = entities.ProjectStatusPendingAllocation
	case entities.DesignStatusAllocated:
		c.Entity.Status = entities.ProjectStatusAllocated
	default:
		c.Entity.Status = entities.ProjectStatusInProgress
	}

	related := projectRelated(c.Entity)
	msg := fmt.Sprintf("%s resumed", c.Entity.ProjectName)
	c.Effects.Log("project_resumed", msg, related)
	c.Effects.NotifyUser(c.Entity.DesignLeadUID, "project_resumed", msg, entities.PriorityNormal, related)
	return nil
}
