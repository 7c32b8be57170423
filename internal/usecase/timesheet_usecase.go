package usecase

import (
	"context"
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
	ErrTimesheetNotFound = errors.New("timesheet not found")
	ErrProjectNotActive  = errors.New("project is not accepting hours")
)

type NewTimesheet struct {
	ProjectID   string  `json:"projectId" validate:"required"`
	Date        string  `json:"date" validate:"required,date"`
	Hours       float64 `json:"hours" validate:"gt=0,lte=24"`
	Description string  `json:"description" validate:"max=2000"`
}

type TimesheetQuery struct {
	ProjectID   string
	DesignerUID string
}

// ITimesheetUseCase records logged hours and keeps project hoursLogged equal to their sum.
type ITimesheetUseCase interface {
	Log(ctx context.Context, actor entities.User, in NewTimesheet) (entities.Timesheet, error)
	List(ctx context.Context, actor entities.User, q TimesheetQuery) ([]entities.Timesheet, error)
	Delete(ctx context.Context, actor entities.User, id string) error
}

var timesheetLoggers = entities.Roles(entities.RoleDesigner, entities.RoleDesignLead)

type TimesheetUseCase struct {
	timesheets interfaces.ITimesheetRepository
	projects   interfaces.IProjectRepository
	ledger     interfaces.IHoursLedger
	effects    ISideEffects
	validator  *validation.Validator
}

var _ ITimesheetUseCase = (*TimesheetUseCase)(nil)

func NewTimesheetUseCase(
	timesheets interfaces.ITimesheetRepository,
	projects interfaces.IProjectRepository,
	ledger interfaces.IHoursLedger,
	effects ISideEffects,
	v *validation.Validator,
) *TimesheetUseCase {
	return &TimesheetUseCase{timesheets: timesheets, projects: projects, ledger: ledger, effects: effects, validator: v}
}

// Log re-aggregates every entry of the project, rejects the entry when it would pass the hours
// budget, and otherwise writes entry and new total in one version-checked transaction.
func (u *TimesheetUseCase) Log(ctx context.Context, actor entities.User, in NewTimesheet) (entities.Timesheet, error) {
	if err := requireRole(actor, timesheetLoggers); err != nil {
		return entities.Timesheet{}, err
	}
	in.ProjectID = strings.TrimSpace(in.ProjectID)
	if err := validate(u.validator, &in); err != nil {
		return entities.Timesheet{}, err
	}

	project, err := loadProject(ctx, u.projects, in.ProjectID)
	if err != nil {
		return entities.Timesheet{}, err
	}
	if !project.IsMember(actor.UID) {
		return entities.Timesheet{}, forbiddenBecause("only members of the project can log hours on it")
	}
	if project.Status != entities.ProjectStatusInProgress && project.Status != entities.ProjectStatusAllocated {
		return entities.Timesheet{}, ErrProjectNotActive
	}

	entries, err := u.timesheets.ListByProject(ctx, project.ID)
	if err != nil {
		return entities.Timesheet{}, err
	}
	logged := entities.SumHours(entries)
	if err := checkBudget(project, logged, in.Hours); err != nil {
		log.Printf("[timesheet][usecase] budget exceeded project_id=%s logged=%.2f requested=%.2f", project.ID, logged, in.Hours)
		return entities.Timesheet{}, err
	}

	ts := entities.Timesheet{
		ID:          uuid.NewString(),
		ProjectID:   project.ID,
		DesignerUID: actor.UID,
		Date:        in.Date,
		Hours:       in.Hours,
		Description: in.Description,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := u.ledger.LogTimesheet(ctx, project, ts, logged+in.Hours); err != nil {
		log.Printf("[timesheet][usecase] ledger write failed project_id=%s err=%v", project.ID, err)
		return entities.Timesheet{}, err
	}
	log.Printf("[timesheet][usecase] logged id=%s project_id=%s hours=%.2f total=%.2f", ts.ID, project.ID, ts.Hours, logged+in.Hours)

	related := map[string]string{"projectId": project.ID, "timesheetId": ts.ID}
	var fx Effects
	fx.Log("timesheet_logged", fmt.Sprintf("%s logged %.2fh on %s", actor.Name, ts.Hours, project.ProjectName), related)
	if budget := project.HoursBudget(); budget > 0 && logged+in.Hours >= 0.9*budget {
		fx.NotifyUser(project.DesignLeadUID, "hours_near_budget", fmt.Sprintf("%s has used %.1f of %.1f hours", project.ProjectName, logged+in.Hours, budget), entities.PriorityHigh, related)
	}
	u.effects.Dispatch(ctx, actor, fx)
	return ts, nil
}

func (u *TimesheetUseCase) List(ctx context.Context, actor entities.User, q TimesheetQuery) ([]entities.Timesheet, error) {
	var (
		list []entities.Timesheet
		err  error
	)
	switch {
	case q.ProjectID != "":
		project, perr := loadProject(ctx, u.projects, q.ProjectID)
		if perr != nil {
			return nil, perr
		}
		if !canSeeProject(actor, project) {
			return nil, forbiddenBecause("not a member of this project")
		}
		list, err = u.timesheets.ListByProject(ctx, project.ID)
		if err == nil && q.DesignerUID != "" {
			list = filterTimesheets(list, q.DesignerUID)
		}
	case q.DesignerUID != "":
		if actor.Role == entities.RoleDesigner && q.DesignerUID != actor.UID {
			return nil, forbiddenBecause("designers can only list their own timesheets")
		}
		list, err = u.timesheets.ListByDesigner(ctx, q.DesignerUID)
	default:
		list, err = u.timesheets.ListByDesigner(ctx, actor.UID)
	}
	if err != nil {
		return nil, err
	}
	if actor.Role == entities.RoleDesigner {
		list = filterTimesheets(list, actor.UID)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Date != list[j].Date {
			return list[i].Date > list[j].Date
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

// Delete removes an entry and rewrites hoursLogged from the remaining entries.
func (u *TimesheetUseCase) Delete(ctx context.Context, actor entities.User, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidID
	}
	ts, err := u.timesheets.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if ts.ID == "" {
		return ErrTimesheetNotFound
	}
	if ts.DesignerUID != actor.UID && !actor.Role.Elevated() {
		return forbiddenBecause("only the owner, coo or director may delete a timesheet")
	}

	project, err := loadProject(ctx, u.projects, ts.ProjectID)
	if err != nil {
		return err
	}
	entries, err := u.timesheets.ListByProject(ctx, project.ID)
	if err != nil {
		return err
	}
	remaining := 0.0
	for _, e := range entries {
		if e.ID != ts.ID {
			remaining += e.Hours
		}
	}
	if _, err := u.ledger.RemoveTimesheet(ctx, project, ts, remaining); err != nil {
		log.Printf("[timesheet][usecase] ledger delete failed id=%s err=%v", ts.ID, err)
		return err
	}

	var fx Effects
	fx.Log("timesheet_deleted", fmt.Sprintf("%.2fh entry of %s removed from %s", ts.Hours, ts.Date, project.ProjectName), map[string]string{"projectId": project.ID, "timesheetId": ts.ID})
	u.effects.Dispatch(ctx, actor, fx)
	return nil
}

// checkBudget fails when logged+hours would pass maxAllocatedHours+additionalHours.
func checkBudget(p entities.Project, logged, hours float64) error {
	budget := p.HoursBudget()
	if total := logged + hours; total > budget {
		return &AllocationExceededError{Budget: budget, Logged: logged, Requested: hours, ExceededBy: total - budget}
	}
	return nil
}

func filterTimesheets(list []entities.Timesheet, designerUID string) []entities.Timesheet {
	out := list[:0]
	for _, ts := range list {
		if ts.DesignerUID == designerUID {
			out = append(out, ts)
		}
	}
	return out
}
