package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"studioflow/internal/domain/entities"
	"studioflow/internal/usecase/interfaces"
	"studioflow/internal/validation"

	"github.com/google/uuid"
)

var (
	ErrProposalNotFound        = errors.New("proposal not found")
	ErrProjectNumberTaken      = errors.New("project number already in use")
	ErrProjectNumberMissing    = errors.New("proposal has no project number")
	ErrProjectNumberNotPending = errors.New("project number is not pending approval")
)

type NewProposal struct {
	ProjectName   string `json:"projectName" validate:"required,max=200"`
	ClientCompany string `json:"clientCompany" validate:"required,max=200"`
	ClientEmail   string `json:"clientEmail" validate:"omitempty,email"`
	ScopeOfWork   string `json:"scopeOfWork" validate:"max=10000"`
}

// IProposalUseCase drives the proposal lifecycle, from estimation to the client decision.
type IProposalUseCase interface {
	Create(ctx context.Context, actor entities.User, in NewProposal) (entities.Proposal, error)
	Get(ctx context.Context, actor entities.User, id string) (entities.Proposal, error)
	List(ctx context.Context, actor entities.User, f interfaces.ProposalFilter) ([]entities.Proposal, error)
	Apply(ctx context.Context, actor entities.User, id string, action entities.ProposalAction, data json.RawMessage) (entities.Proposal, error)
	Delete(ctx context.Context, actor entities.User, id string) error
}

var (
	proposalReaders  = entities.Roles(entities.RoleBDM, entities.RoleEstimator, entities.RoleCOO, entities.RoleDirector)
	proposalCreators = entities.Roles(entities.RoleBDM, entities.RoleCOO, entities.RoleDirector)
	proposalDeleters = entities.Elevated
)

type ProposalUseCase struct {
	proposals interfaces.IProposalRepository
	numbers   interfaces.IProjectNumberRegistry
	effects   ISideEffects
	validator *validation.Validator
	machine   machine[entities.Proposal, entities.ProposalAction]
}

var _ IProposalUseCase = (*ProposalUseCase)(nil)

func NewProposalUseCase(proposals interfaces.IProposalRepository, numbers interfaces.IProjectNumberRegistry, effects ISideEffects, v *validation.Validator) *ProposalUseCase {
	u := &ProposalUseCase{proposals: proposals, numbers: numbers, effects: effects, validator: v}

	commercial := entities.Roles(entities.RoleBDM, entities.RoleCOO, entities.RoleDirector)
	director := entities.Roles(entities.RoleDirector)
	u.machine = machine[entities.Proposal, entities.ProposalAction]{
		entities.ProposalAddEstimation:        on(entities.Roles(entities.RoleEstimator, entities.RoleCOO), u.addEstimation),
		entities.ProposalAddPricing:           on(entities.Elevated, u.addPricing),
		entities.ProposalSetProjectNumber:     on(entities.Elevated, u.setProjectNumber),
		entities.ProposalApproveProjectNumber: on(director, u.approveProjectNumber),
		entities.ProposalRejectProjectNumber:  on(director, u.rejectProjectNumber),
		entities.ProposalApprove:              on(director, u.approveProposal),
		entities.ProposalReject:               on(director, u.rejectProposal),
		entities.ProposalSubmitToClient:       on(commercial, u.submitToClient),
		entities.ProposalMarkWon:              on(commercial, u.markWon),
		entities.ProposalMarkLost:             on(commercial, u.markLost),
		entities.ProposalUpdateAllocation:     on(entities.Elevated, u.updateAllocation),
		entities.ProposalUpdateDetails:        on(commercial, u.updateDetails),
		entities.ProposalAddLinks:             on(commercial.With(entities.RoleEstimator), u.addLinks),
	}
	return u
}

func (u *ProposalUseCase) Create(ctx context.Context, actor entities.User, in NewProposal) (entities.Proposal, error) {
	if err := requireRole(actor, proposalCreators); err != nil {
		return entities.Proposal{}, err
	}
	in.ProjectName = strings.TrimSpace(in.ProjectName)
	in.ClientCompany = strings.TrimSpace(in.ClientCompany)
	in.ClientEmail = strings.TrimSpace(in.ClientEmail)
	if err := validate(u.validator, &in); err != nil {
		return entities.Proposal{}, err
	}

	now := time.Now().UTC()
	p := entities.Proposal{
		ID:            uuid.NewString(),
		ProjectName:   in.ProjectName,
		ClientCompany: in.ClientCompany,
		ClientEmail:   in.ClientEmail,
		ScopeOfWork:   in.ScopeOfWork,
		Status:        entities.ProposalStatusPendingEstimation,
		CreatedByUID:  actor.UID,
		ChangeLog:     []entities.ChangeLogEntry{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	created, err := u.proposals.Create(ctx, p)
	if err != nil {
		log.Printf("[proposal][usecase] create failed err=%v", err)
		return entities.Proposal{}, err
	}
	log.Printf("[proposal][usecase] created id=%s by=%s", created.ID, actor.UID)

	related := map[string]string{"proposalId": created.ID}
	var fx Effects
	fx.Log("proposal_created", fmt.Sprintf("Proposal %s for %s created", created.ProjectName, created.ClientCompany), related)
	fx.NotifyRole(entities.RoleEstimator, "proposal_created", fmt.Sprintf("New proposal %s is awaiting estimation", created.ProjectName), entities.PriorityNormal, related)
	fx.Email(entities.EmailEvent{Event: "proposal_created", ToRoles: []entities.Role{entities.RoleEstimator}, Data: proposalEmailData(created)})
	u.effects.Dispatch(ctx, actor, fx)
	return created, nil
}

func (u *ProposalUseCase) Get(ctx context.Context, actor entities.User, id string) (entities.Proposal, error) {
	if err := requireRole(actor, proposalReaders); err != nil {
		return entities.Proposal{}, err
	}
	p, err := u.load(ctx, id)
	if err != nil {
		return entities.Proposal{}, err
	}
	if actor.Role == entities.RoleBDM && p.CreatedByUID != actor.UID {
		return entities.Proposal{}, forbiddenBecause("business developers can only access their own proposals")
	}
	return p, nil
}

func (u *ProposalUseCase) List(ctx context.Context, actor entities.User, f interfaces.ProposalFilter) ([]entities.Proposal, error) {
	if err := requireRole(actor, proposalReaders); err != nil {
		return nil, err
	}
	if actor.Role == entities.RoleBDM {
		f.CreatedByUID = actor.UID
	}
	list, err := u.proposals.List(ctx, f)
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (u *ProposalUseCase) Apply(ctx context.Context, actor entities.User, id string, action entities.ProposalAction, data json.RawMessage) (entities.Proposal, error) {
	updated, err := apply(ctx, u.validator, u.effects, applyRequest[entities.Proposal, entities.ProposalAction]{
		Machine: u.machine,
		Action:  action,
		Actor:   actor,
		Data:    data,
		Load:    func(ctx context.Context) (entities.Proposal, error) { return u.load(ctx, id) },
		Save:    u.proposals.Update,
		Finish: func(c *Change[entities.Proposal], before entities.Proposal) error {
			c.Entity.UpdatedAt = c.Now
			c.Entity.ChangeLog = append(c.Entity.ChangeLog, entities.ChangeLogEntry{
				Action:     action,
				FromStatus: before.Status,
				ToStatus:   c.Entity.Status,
				ActorUID:   c.Actor.UID,
				ActorRole:  c.Actor.Role,
				Note:       c.Note,
				At:         c.Now,
			})
			return nil
		},
	})
	if err != nil {
		log.Printf("[proposal][usecase] %s failed id=%s actor=%s err=%v", action, id, actor.UID, err)
		return entities.Proposal{}, err
	}
	log.Printf("[proposal][usecase] %s applied id=%s status=%s", action, updated.ID, updated.Status)
	return updated, nil
}

func (u *ProposalUseCase) Delete(ctx context.Context, actor entities.User, id string) error {
	if err := requireRole(actor, proposalDeleters); err != nil {
		return err
	}
	p, err := u.load(ctx, id)
	if err != nil {
		return err
	}
	if err := u.proposals.Delete(ctx, p.ID); err != nil {
		return err
	}
	if p.Pricing != nil && p.Pricing.ProjectNumber != "" {
		u.release(ctx, p.Pricing.ProjectNumber, p.ID)
	}

	var fx Effects
	fx.Log("proposal_deleted", fmt.Sprintf("Proposal %s deleted", p.ProjectName), map[string]string{"proposalId": p.ID})
	u.effects.Dispatch(ctx, actor, fx)
	return nil
}

func (u *ProposalUseCase) load(ctx context.Context, id string) (entities.Proposal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Proposal{}, ErrInvalidID
	}
	p, err := u.proposals.GetByID(ctx, id)
	if err != nil {
		return entities.Proposal{}, err
	}
	if p.ID == "" {
		return entities.Proposal{}, ErrProposalNotFound
	}
	return p, nil
}

// reserve claims number for the proposal and, if the write later fails, gives it back unless
// the proposal already held it.
func (u *ProposalUseCase) reserve(c *Change[entities.Proposal], number string) error {
	held := c.Entity.Pricing != nil && c.Entity.Pricing.ProjectNumber == number
	if err := u.numbers.Reserve(c.Ctx, number, c.Entity.ID); err != nil {
		if errors.Is(err, interfaces.ErrConflict) {
			return ErrProjectNumberTaken
		}
		return err
	}
	if !held {
		id := c.Entity.ID
		c.OnAbort(func() { u.release(context.WithoutCancel(c.Ctx), number, id) })
	}
	return nil
}

func (u *ProposalUseCase) release(ctx context.Context, number, owner string) {
	if err := u.numbers.Release(ctx, number, owner); err != nil {
		log.Printf("[proposal][usecase] release project number failed number=%s owner=%s err=%v", number, owner, err)
	}
}

// swapNumber reserves next and frees the previous number once the write lands.
func (u *ProposalUseCase) swapNumber(c *Change[entities.Proposal], next string) error {
	prev := ""
	if c.Entity.Pricing != nil {
		prev = c.Entity.Pricing.ProjectNumber
	}
	if err := u.reserve(c, next); err != nil {
		return err
	}
	if prev != "" && prev != next {
		id := c.Entity.ID
		c.OnCommit(func(entities.Proposal) { u.release(context.WithoutCancel(c.Ctx), prev, id) })
	}
	return nil
}

func requireProposalStatus(action entities.ProposalAction, p entities.Proposal, allowed ...entities.ProposalStatus) error {
	for _, s := range allowed {
		if p.Status == s {
			return nil
		}
	}
	return illegalFrom(action, p.Status)
}

func proposalRelated(p *entities.Proposal) map[string]string {
	return map[string]string{"proposalId": p.ID}
}

func proposalEmailData(p entities.Proposal) map[string]string {
	data := map[string]string{
		"proposalId":    p.ID,
		"projectName":   p.ProjectName,
		"clientCompany": p.ClientCompany,
		"status":        string(p.Status),
	}
	if p.Pricing != nil {
		data["quoteValue"] = fmt.Sprintf("%.2f %s", p.Pricing.QuoteValue, p.Pricing.Currency)
		data["projectNumber"] = p.Pricing.ProjectNumber
	}
	return data
}

type addEstimationPayload struct {
	Manhours float64 `json:"manhours" validate:"gt=0"`
	Notes    string  `json:"notes"`
}

func (u *ProposalUseCase) addEstimation(c *Change[entities.Proposal], p addEstimationPayload) error {
	if err := requireProposalStatus(entities.ProposalAddEstimation, *c.Entity,
		entities.ProposalStatusPendingEstimation, entities.ProposalStatusEstimationComplete); err != nil {
		return err
	}
	now := c.Now
	c.Entity.Estimation = &entities.Estimation{Manhours: p.Manhours, Notes: p.Notes, EstimatedBy: c.Actor.UID, EstimatedAt: &now}
	c.Entity.Status = entities.ProposalStatusEstimationComplete
	c.Note = p.Notes

	related := proposalRelated(c.Entity)
	c.Effects.Log("proposal_estimated", fmt.Sprintf("%s estimated at %.1f manhours", c.Entity.ProjectName, p.Manhours), related)
	c.Effects.NotifyRole(entities.RoleCOO, "proposal_estimated", fmt.Sprintf("%s is estimated and ready for pricing", c.Entity.ProjectName), entities.PriorityNormal, related)
	return nil
}

type addPricingPayload struct {
	QuoteValue    float64 `json:"quoteValue" validate:"gt=0"`
	Currency      string  `json:"currency" validate:"required,len=3"`
	ProjectNumber string  `json:"projectNumber" validate:"omitempty,max=64"`
	Notes         string  `json:"notes"`
}

func (u *ProposalUseCase) addPricing(c *Change[entities.Proposal], p addPricingPayload) error {
	if err := requireProposalStatus(entities.ProposalAddPricing, *c.Entity,
		entities.ProposalStatusEstimationComplete, entities.ProposalStatusPendingApproval, entities.ProposalStatusRejected); err != nil {
		return err
	}
	pricing := entities.Pricing{}
	if c.Entity.Pricing != nil {
		pricing = *c.Entity.Pricing
	}

	number := strings.TrimSpace(p.ProjectNumber)
	if number != "" {
		if err := u.swapNumber(c, number); err != nil {
			return err
		}
		if number != pricing.ProjectNumber {
			pricing.ProjectNumberStatus = entities.ProjectNumberPending
		}
		pricing.ProjectNumber = number
	}

	now := c.Now
	pricing.QuoteValue = p.QuoteValue
	pricing.Currency = strings.ToUpper(p.Currency)
	pricing.PricedBy = c.Actor.UID
	pricing.PricedAt = &now
	c.Entity.Pricing = &pricing
	c.Entity.Status = entities.ProposalStatusPendingApproval
	c.Note = p.Notes

	related := proposalRelated(c.Entity)
	c.Effects.Log("proposal_priced", fmt.Sprintf("%s priced at %.2f %s", c.Entity.ProjectName, pricing.QuoteValue, pricing.Currency), related)
	c.Effects.NotifyRole(entities.RoleDirector, "proposal_pending_approval", fmt.Sprintf("%s is priced and awaits your approval", c.Entity.ProjectName), entities.PriorityHigh, related)
	c.Effects.Email(entities.EmailEvent{Event: "proposal_pending_approval", ToRoles: []entities.Role{entities.RoleDirector}, Data: proposalEmailData(*c.Entity)})
	return nil
}

type projectNumberPayload struct {
	ProjectNumber string `json:"projectNumber" validate:"required,max=64"`
	Notes         string `json:"notes"`
}

func (u *ProposalUseCase) setProjectNumber(c *Change[entities.Proposal], p projectNumberPayload) error {
	number := strings.TrimSpace(p.ProjectNumber)
	if number == "" {
		return &ValidationError{Fields: map[string]string{"projectNumber": "required"}}
	}
	if err := u.swapNumber(c, number); err != nil {
		return err
	}
	pricing := entities.Pricing{}
	if c.Entity.Pricing != nil {
		pricing = *c.Entity.Pricing
	}
	pricing.ProjectNumber = number
	pricing.ProjectNumberStatus = entities.ProjectNumberPending
	c.Entity.Pricing = &pricing
	c.Note = p.Notes

	related := proposalRelated(c.Entity)
	c.Effects.Log("project_number_set", fmt.Sprintf("Project number %s proposed for %s", number, c.Entity.ProjectName), related)
	c.Effects.NotifyRole(entities.RoleDirector, "project_number_pending", fmt.Sprintf("Project number %s for %s awaits approval", number, c.Entity.ProjectName), entities.PriorityNormal, related)
	return nil
}

type notesPayload struct {
	Notes string `json:"notes"`
}

func (u *ProposalUseCase) approveProjectNumber(c *Change[entities.Proposal], p notesPayload) error {
	if c.Entity.Pricing == nil || c.Entity.Pricing.ProjectNumber == "" {
		return ErrProjectNumberMissing
	}
	if c.Entity.Pricing.ProjectNumberStatus != entities.ProjectNumberPending {
		return ErrProjectNumberNotPending
	}
	pricing := *c.Entity.Pricing
	pricing.ProjectNumberStatus = entities.ProjectNumberApproved
	c.Entity.Pricing = &pricing
	c.Note = p.Notes

	related := proposalRelated(c.Entity)
	c.Effects.Log("project_number_approved", fmt.Sprintf("Project number %s approved", pricing.ProjectNumber), related)
	c.Effects.NotifyRole(entities.RoleCOO, "project_number_approved", fmt.Sprintf("Project number %s for %s was approved", pricing.ProjectNumber, c.Entity.ProjectName), entities.PriorityNormal, related)
	return nil
}

func (u *ProposalUseCase) rejectProjectNumber(c *Change[entities.Proposal], p notesPayload) error {
	if c.Entity.Pricing == nil || c.Entity.Pricing.ProjectNumber == "" {
		return ErrProjectNumberMissing
	}
	if c.Entity.Pricing.ProjectNumberStatus != entities.ProjectNumberPending {
		return ErrProjectNumberNotPending
	}
	pricing := *c.Entity.Pricing
	pricing.ProjectNumberStatus = entities.ProjectNumberRejected
	c.Entity.Pricing = &pricing
	c.Note = p.Notes

	number, id := pricing.ProjectNumber, c.Entity.ID
	c.OnCommit(func(entities.Proposal) { u.release(context.WithoutCancel(c.Ctx), number, id) })

	related := proposalRelated(c.Entity)
	c.Effects.Log("project_number_rejected", fmt.Sprintf("Project number %s rejected", number), related)
	c.Effects.NotifyRole(entities.RoleCOO, "project_number_rejected", fmt.Sprintf("Project number %s for %s was rejected", number, c.Entity.ProjectName), entities.PriorityHigh, related)
	return nil
}

func (u *ProposalUseCase) approveProposal(c *Change[entities.Proposal], p notesPayload) error {
	return u.decide(c, entities.ProposalApprove, true, p.Notes)
}

func (u *ProposalUseCase) rejectProposal(c *Change[entities.Proposal], p notesPayload) error {
	return u.decide(c, entities.ProposalReject, false, p.Notes)
}

func (u *ProposalUseCase) decide(c *Change[entities.Proposal], action entities.ProposalAction, approved bool, notes string) error {
	if err := requireProposalStatus(action, *c.Entity, entities.ProposalStatusPendingApproval); err != nil {
		return err
	}
	c.Entity.DirectorApproval = &entities.DirectorApproval{Approved: approved, Notes: notes, By: c.Actor.UID, At: c.Now}
	verdict := "approved"
	c.Entity.Status = entities.ProposalStatusApproved
	if !approved {
		verdict = "rejected"
		c.Entity.Status = entities.ProposalStatusRejected
	}
	c.Note = notes

	related := proposalRelated(c.Entity)
	msg := fmt.Sprintf("%s was %s by the director", c.Entity.ProjectName, verdict)
	c.Effects.Log("proposal_"+verdict, msg, related)
	c.Effects.NotifyUser(c.Entity.CreatedByUID, "proposal_"+verdict, msg, entities.PriorityHigh, related)
	c.Effects.NotifyRole(entities.RoleCOO, "proposal_"+verdict, msg, entities.PriorityNormal, related)
	data := proposalEmailData(*c.Entity)
	data["notes"] = notes
	c.Effects.Email(entities.EmailEvent{
		Event:   "proposal_" + verdict,
		ToUIDs:  []string{c.Entity.CreatedByUID},
		ToRoles: []entities.Role{entities.RoleCOO},
		Data:    data,
	})
	return nil
}

func (u *ProposalUseCase) submitToClient(c *Change[entities.Proposal], p notesPayload) error {
	if err := requireProposalStatus(entities.ProposalSubmitToClient, *c.Entity,
		entities.ProposalStatusPendingApproval, entities.ProposalStatusApproved); err != nil {
		return err
	}
	c.Entity.Status = entities.ProposalStatusSubmittedToClient
	c.Note = p.Notes

	related := proposalRelated(c.Entity)
	c.Effects.Log("proposal_submitted", fmt.Sprintf("%s submitted to %s", c.Entity.ProjectName, c.Entity.ClientCompany), related)
	c.Effects.NotifyUser(c.Entity.CreatedByUID, "proposal_submitted", fmt.Sprintf("%s was submitted to the client", c.Entity.ProjectName), entities.PriorityNormal, related)
	return nil
}

type outcomePayload struct {
	Notes  string `json:"notes"`
	Reason string `json:"reason"`
}

// markWon and markLost record the client's decision and apply from any status.
func (u *ProposalUseCase) markWon(c *Change[entities.Proposal], p outcomePayload) error {
	c.Entity.Status = entities.ProposalStatusWon
	c.Note = strings.TrimSpace(p.Notes + " " + p.Reason)

	related := proposalRelated(c.Entity)
	msg := fmt.Sprintf("%s was won", c.Entity.ProjectName)
	c.Effects.Log("proposal_won", msg, related)
	c.Effects.NotifyRole(entities.RoleCOO, "proposal_won", msg+"; a project can now be created", entities.PriorityHigh, related)
	c.Effects.NotifyRole(entities.RoleDirector, "proposal_won", msg, entities.PriorityNormal, related)
	c.Effects.NotifyUser(c.Entity.CreatedByUID, "proposal_won", msg, entities.PriorityNormal, related)
	c.Effects.Email(entities.EmailEvent{
		Event:   "proposal_won",
		ToRoles: []entities.Role{entities.RoleCOO, entities.RoleDirector},
		ToUIDs:  []string{c.Entity.CreatedByUID},
		Data:    proposalEmailData(*c.Entity),
	})
	return nil
}

func (u *ProposalUseCase) markLost(c *Change[entities.Proposal], p outcomePayload) error {
	c.Entity.Status = entities.ProposalStatusLost
	c.Note = strings.TrimSpace(p.Notes + " " + p.Reason)

	related := proposalRelated(c.Entity)
	msg := fmt.Sprintf("%s was lost", c.Entity.ProjectName)
	if p.Reason != "" {
		msg += ": " + p.Reason
	}
	c.Effects.Log("proposal_lost", msg, related)
	c.Effects.NotifyRole(entities.RoleDirector, "proposal_lost", msg, entities.PriorityNormal, related)
	c.Effects.NotifyUser(c.Entity.CreatedByUID, "proposal_lost", msg, entities.PriorityNormal, related)
	return nil
}

type allocationStatusPayload struct {
	AllocationStatus string `json:"allocationStatus" validate:"required,max=64"`
	Notes            string `json:"notes"`
}

func (u *ProposalUseCase) updateAllocation(c *Change[entities.Proposal], p allocationStatusPayload) error {
	c.Entity.AllocationStatus = p.AllocationStatus
	c.Note = p.Notes
	c.Effects.Log("proposal_allocation_updated", fmt.Sprintf("%s allocation status set to %s", c.Entity.ProjectName, p.AllocationStatus), proposalRelated(c.Entity))
	return nil
}

type detailsPayload struct {
	ProjectName   *string `json:"projectName" validate:"omitempty,min=1,max=200"`
	ClientCompany *string `json:"clientCompany" validate:"omitempty,min=1,max=200"`
	ClientEmail   *string `json:"clientEmail" validate:"omitempty,email"`
	ScopeOfWork   *string `json:"scopeOfWork" validate:"omitempty,max=10000"`
}

func (u *ProposalUseCase) updateDetails(c *Change[entities.Proposal], p detailsPayload) error {
	var changed []string
	if p.ProjectName != nil {
		c.Entity.ProjectName = strings.TrimSpace(*p.ProjectName)
		changed = append(changed, "projectName")
	}
	if p.ClientCompany != nil {
		c.Entity.ClientCompany = strings.TrimSpace(*p.ClientCompany)
		changed = append(changed, "clientCompany")
	}
	if p.ClientEmail != nil {
		c.Entity.ClientEmail = strings.TrimSpace(*p.ClientEmail)
		changed = append(changed, "clientEmail")
	}
	if p.ScopeOfWork != nil {
		c.Entity.ScopeOfWork = *p.ScopeOfWork
		changed = append(changed, "scopeOfWork")
	}
	if len(changed) == 0 {
		return invalid("no fields to update")
	}
	c.Note = "updated " + strings.Join(changed, ", ")
	c.Effects.Log("proposal_updated", fmt.Sprintf("%s: %s", c.Entity.ProjectName, c.Note), proposalRelated(c.Entity))
	return nil
}

type linkPayload struct {
	Label string `json:"label" validate:"required,max=200"`
	URL   string `json:"url" validate:"required,url"`
}

type addLinksPayload struct {
	Links []linkPayload `json:"links" validate:"required,min=1,dive"`
}

func (u *ProposalUseCase) addLinks(c *Change[entities.Proposal], p addLinksPayload) error {
	links := make([]entities.Link, 0, len(c.Entity.Links)+len(p.Links))
	links = append(links, c.Entity.Links...)
	for _, l := range p.Links {
		links = append(links, entities.Link{Label: l.Label, URL: l.URL})
	}
	c.Entity.Links = links
	c.Note = fmt.Sprintf("added %d link(s)", len(p.Links))
	c.Effects.Log("proposal_links_added", fmt.Sprintf("%s: %s", c.Entity.ProjectName, c.Note), proposalRelated(c.Entity))
	return nil
}
