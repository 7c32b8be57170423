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

	"github.com/google/uuid"
)

var (
	ErrTimeRequestNotFound = errors.New("time request not found")
	ErrTimeRequestReviewed = errors.New("time request was already reviewed")
)

type NewTimeRequest struct {
	ProjectID        string                   `json:"projectId" validate:"required"`
	Hours            float64                  `json:"hours" validate:"gt=0"`
	Reason           string                   `json:"reason" validate:"required,max=2000"`
	PendingTimesheet *entities.TimesheetDraft `json:"pendingTimesheet" validate:"omitempty"`
}

// ITimeRequestUseCase handles requests for hours beyond a project's allocation.
type ITimeRequestUseCase interface {
	Create(ctx context.Context, actor entities.User, in NewTimeRequest) (entities.TimeRequest, error)
	Get(ctx context.Context, actor entities.User, id string) (entities.TimeRequest, error)
	List(ctx context.Context, actor entities.User, f interfaces.TimeRequestFilter) ([]entities.TimeRequest, error)
	Apply(ctx context.Context, actor entities.User, id string, action entities.TimeRequestAction, data json.RawMessage) (entities.TimeRequest, error)
}

var (
	timeRequesters = entities.Roles(entities.RoleDesigner, entities.RoleDesignLead)
	infoRequesters = entities.Elevated.With(entities.RoleDesignLead)
)

type TimeRequestUseCase struct {
	requests   interfaces.ITimeRequestRepository
	projects   interfaces.IProjectRepository
	timesheets interfaces.ITimesheetRepository
	ledger     interfaces.IHoursLedger
	effects    ISideEffects
	validator  *validation.Validator
	machine    machine[entities.TimeRequest, entities.TimeRequestAction]
}

var _ ITimeRequestUseCase = (*TimeRequestUseCase)(nil)

func NewTimeRequestUseCase(
	requests interfaces.ITimeRequestRepository,
	projects interfaces.IProjectRepository,
	timesheets interfaces.ITimesheetRepository,
	ledger interfaces.IHoursLedger,
	effects ISideEffects,
	v *validation.Validator,
) *TimeRequestUseCase {
	u := &TimeRequestUseCase{requests: requests, projects: projects, timesheets: timesheets, ledger: ledger, effects: effects, validator: v}
	u.machine = machine[entities.TimeRequest, entities.TimeRequestAction]{
		entities.TimeRequestApprove:     on(entities.Elevated, u.approve),
		entities.TimeRequestReject:      on(entities.Elevated, u.reject),
		entities.TimeRequestRequestInfo: on(infoRequesters, u.requestInfo),
		entities.TimeRequestProvideInfo: on(timeRequesters, u.provideInfo),
	}
	return u
}

func (u *TimeRequestUseCase) Create(ctx context.Context, actor entities.User, in NewTimeRequest) (entities.TimeRequest, error) {
	if err := requireRole(actor, timeRequesters); err != nil {
		return entities.TimeRequest{}, err
	}
	in.ProjectID = strings.TrimSpace(in.ProjectID)
	in.Reason = strings.TrimSpace(in.Reason)
	if err := validate(u.validator, &in); err != nil {
		return entities.TimeRequest{}, err
	}

	project, err := loadProject(ctx, u.projects, in.ProjectID)
	if err != nil {
		return entities.TimeRequest{}, err
	}
	if !project.IsMember(actor.UID) {
		return entities.TimeRequest{}, forbiddenBecause("only members of the project can request hours on it")
	}

	now := time.Now().UTC()
	tr := entities.TimeRequest{
		ID:               uuid.NewString(),
		ProjectID:        project.ID,
		RequesterUID:     actor.UID,
		RequesterName:    actor.Name,
		Hours:            in.Hours,
		Reason:           in.Reason,
		Status:           entities.TimeRequestPending,
		PendingTimesheet: in.PendingTimesheet,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	created, err := u.requests.Create(ctx, tr)
	if err != nil {
		return entities.TimeRequest{}, err
	}
	log.Printf("[time-request][usecase] created id=%s project_id=%s hours=%.2f", created.ID, project.ID, created.Hours)

	related := map[string]string{"projectId": project.ID, "timeRequestId": created.ID}
	msg := fmt.Sprintf("%s requests %.1f extra hours on %s", actor.Name, created.Hours, project.ProjectName)
	var fx Effects
	fx.Log("time_request_created", msg, related)
	fx.NotifyRole(entities.RoleCOO, "time_request_created", msg, entities.PriorityHigh, related)
	fx.NotifyRole(entities.RoleDirector, "time_request_created", msg, entities.PriorityNormal, related)
	if project.DesignLeadUID != actor.UID {
		fx.NotifyUser(project.DesignLeadUID, "time_request_created", msg, entities.PriorityNormal, related)
	}
	fx.Email(entities.EmailEvent{
		Event:   "time_request_created",
		ToRoles: []entities.Role{entities.RoleCOO},
		Data:    timeRequestEmailData(created, project),
	})
	u.effects.Dispatch(ctx, actor, fx)
	return created, nil
}

func (u *TimeRequestUseCase) Get(ctx context.Context, actor entities.User, id string) (entities.TimeRequest, error) {
	tr, err := u.load(ctx, id)
	if err != nil {
		return entities.TimeRequest{}, err
	}
	if actor.Role == entities.RoleDesigner && tr.RequesterUID != actor.UID {
		return entities.TimeRequest{}, forbiddenBecause("designers can only see their own time requests")
	}
	return tr, nil
}

func (u *TimeRequestUseCase) List(ctx context.Context, actor entities.User, f interfaces.TimeRequestFilter) ([]entities.TimeRequest, error) {
	if actor.Role == entities.RoleDesigner {
		f.RequesterUID = actor.UID
	}
	list, err := u.requests.List(ctx, f)
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (u *TimeRequestUseCase) Apply(ctx context.Context, actor entities.User, id string, action entities.TimeRequestAction, data json.RawMessage) (entities.TimeRequest, error) {
	updated, err := apply(ctx, u.validator, u.effects, applyRequest[entities.TimeRequest, entities.TimeRequestAction]{
		Machine: u.machine,
		Action:  action,
		Actor:   actor,
		Data:    data,
		Load:    func(ctx context.Context) (entities.TimeRequest, error) { return u.load(ctx, id) },
		Save:    u.requests.Update,
		Finish: func(c *Change[entities.TimeRequest], _ entities.TimeRequest) error {
			c.Entity.UpdatedAt = c.Now
			return nil
		},
	})
	if err != nil {
		log.Printf("[time-request][usecase] %s failed id=%s actor=%s err=%v", action, id, actor.UID, err)
		return entities.TimeRequest{}, err
	}
	log.Printf("[time-request][usecase] %s applied id=%s status=%s", action, updated.ID, updated.Status)
	return updated, nil
}

func (u *TimeRequestUseCase) load(ctx context.Context, id string) (entities.TimeRequest, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.TimeRequest{}, ErrInvalidID
	}
	tr, err := u.requests.GetByID(ctx, id)
	if err != nil {
		return entities.TimeRequest{}, err
	}
	if tr.ID == "" {
		return entities.TimeRequest{}, ErrTimeRequestNotFound
	}
	return tr, nil
}

func timeRequestEmailData(tr entities.TimeRequest, p entities.Project) map[string]string {
	return map[string]string{
		"timeRequestId": tr.ID,
		"projectId":     p.ID,
		"projectName":   p.ProjectName,
		"requester":     tr.RequesterName,
		"hours":         strconv.FormatFloat(tr.Hours, 'f', -1, 64),
		"reason":        tr.Reason,
		"status":        string(tr.Status),
	}
}

type reviewPayload struct {
	Notes string `json:"notes" validate:"max=2000"`
}

// approve flips the request to approved and adds its hours to the project in one transaction.
// A request that is no longer reviewable, or that changed since it was read, is left untouched,
// so retried approvals never count the hours twice.
func (u *TimeRequestUseCase) approve(c *Change[entities.TimeRequest], p reviewPayload) error {
	if !c.Entity.Reviewable() {
		return ErrTimeRequestReviewed
	}
	project, err := loadProject(c.Ctx, u.projects, c.Entity.ProjectID)
	if err != nil {
		return err
	}

	now := c.Now
	c.Entity.Status = entities.TimeRequestApproved
	c.Entity.ReviewerUID = c.Actor.UID
	c.Entity.ReviewNotes = p.Notes
	c.Entity.ReviewedAt = &now

	var ts *entities.Timesheet
	logged := project.HoursLogged
	if draft := c.Entity.PendingTimesheet; draft != nil {
		entries, err := u.timesheets.ListByProject(c.Ctx, project.ID)
		if err != nil {
			return err
		}
		current := entities.SumHours(entries)
		granted := project
		granted.AdditionalHours += c.Entity.Hours
		if err := checkBudget(granted, current, draft.Hours); err != nil {
			return err
		}
		logged = current + draft.Hours
		ts = &entities.Timesheet{
			ID:          uuid.NewString(),
			ProjectID:   project.ID,
			DesignerUID: c.Entity.RequesterUID,
			Date:        draft.Date,
			Hours:       draft.Hours,
			Description: draft.Description,
			CreatedAt:   now,
		}
	}

	c.CommitWith(func(ctx context.Context, tr entities.TimeRequest) (entities.TimeRequest, error) {
		if _, err := u.ledger.ApproveTimeRequest(ctx, project, tr, ts, logged); err != nil {
			return entities.TimeRequest{}, err
		}
		tr.Version++
		return tr, nil
	})

	related := map[string]string{"projectId": project.ID, "timeRequestId": c.Entity.ID}
	msg := fmt.Sprintf("Your request for %.1f extra hours on %s was approved", c.Entity.Hours, project.ProjectName)
	c.Effects.Log("time_request_approved", fmt.Sprintf("%.1f extra hours approved on %s", c.Entity.Hours, project.ProjectName), related)
	c.Effects.NotifyUser(c.Entity.RequesterUID, "time_request_approved", msg, entities.PriorityHigh, related)
	if project.DesignLeadUID != c.Entity.RequesterUID {
		c.Effects.NotifyUser(project.DesignLeadUID, "time_request_approved", fmt.Sprintf("%.1f extra hours approved on %s", c.Entity.Hours, project.ProjectName), entities.PriorityNormal, related)
	}
	c.Effects.Email(entities.EmailEvent{Event: "time_request_approved", ToUIDs: []string{c.Entity.RequesterUID}, Data: timeRequestEmailData(*c.Entity, project)})
	return nil
}

func (u *TimeRequestUseCase) reject(c *Change[entities.TimeRequest], p reviewPayload) error {
	if !c.Entity.Reviewable() {
		return ErrTimeRequestReviewed
	}
	now := c.Now
	c.Entity.Status = entities.TimeRequestRejected
	c.Entity.ReviewerUID = c.Actor.UID
	c.Entity.ReviewNotes = p.Notes
	c.Entity.ReviewedAt = &now

	related := map[string]string{"projectId": c.Entity.ProjectID, "timeRequestId": c.Entity.ID}
	msg := fmt.Sprintf("Your request for %.1f extra hours was rejected", c.Entity.Hours)
	if p.Notes != "" {
		msg += ": " + p.Notes
	}
	c.Effects.Log("time_request_rejected", fmt.Sprintf("%.1f extra hours rejected", c.Entity.Hours), related)
	c.Effects.NotifyUser(c.Entity.RequesterUID, "time_request_rejected", msg, entities.PriorityHigh, related)
	return nil
}

type requestInfoPayload struct {
	Notes string `json:"notes" validate:"required,max=2000"`
}

func (u *TimeRequestUseCase) requestInfo(c *Change[entities.TimeRequest], p requestInfoPayload) error {
	if c.Entity.Status != entities.TimeRequestPending {
		return illegalFrom(entities.TimeRequestRequestInfo, c.Entity.Status)
	}
	if c.Actor.Role == entities.RoleDesignLead {
		project, err := loadProject(c.Ctx, u.projects, c.Entity.ProjectID)
		if err != nil {
			return err
		}
		if err := requireLead(c.Actor, project); err != nil {
			return err
		}
	}
	c.Entity.Status = entities.TimeRequestInfoRequested
	c.Entity.ReviewNotes = p.Notes

	related := map[string]string{"projectId": c.Entity.ProjectID, "timeRequestId": c.Entity.ID}
	c.Effects.Log("time_request_info_requested", "More information requested on a time request", related)
	c.Effects.NotifyUser(c.Entity.RequesterUID, "time_request_info_requested", "More information is needed on your time request: "+p.Notes, entities.PriorityHigh, related)
	return nil
}

type provideInfoPayload struct {
	AdditionalInfo string `json:"additionalInfo" validate:"required,max=4000"`
}

func (u *TimeRequestUseCase) provideInfo(c *Change[entities.TimeRequest], p provideInfoPayload) error {
	if c.Entity.RequesterUID != c.Actor.UID {
		return forbiddenBecause("only the requester can provide more information")
	}
	if c.Entity.Status != entities.TimeRequestInfoRequested {
		return illegalFrom(entities.TimeRequestProvideInfo, c.Entity.Status)
	}
	c.Entity.Status = entities.TimeRequestPending
	c.Entity.AdditionalInfo = p.AdditionalInfo

	related := map[string]string{"projectId": c.Entity.ProjectID, "timeRequestId": c.Entity.ID}
	c.Effects.Log("time_request_info_provided", "Requester answered an information request", related)
	c.Effects.NotifyRole(entities.RoleCOO, "time_request_info_provided", fmt.Sprintf("%s answered your question on a time request", c.Actor.Name), entities.PriorityNormal, related)
	return nil
}
