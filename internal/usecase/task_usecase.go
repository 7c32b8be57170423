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
	ErrTaskNotFound         = errors.New("task not found")
	ErrAssigneeNotOnProject = errors.New("assignee is not a designer on the project")
)

type NewTask struct {
	ProjectID     string     `json:"projectId" validate:"required"`
	DesignerUID   string     `json:"designerUid" validate:"required"`
	Title         string     `json:"title" validate:"required,max=200"`
	DrawingNumber string     `json:"drawingNumber" validate:"max=100"`
	Description   string     `json:"description" validate:"max=4000"`
	DueDate       *time.Time `json:"dueDate"`
}

type ITaskUseCase interface {
	Create(ctx context.Context, actor entities.User, in NewTask) (entities.Task, error)
	Get(ctx context.Context, actor entities.User, id string) (entities.Task, error)
	List(ctx context.Context, actor entities.User, f interfaces.TaskFilter) ([]entities.Task, error)
	Apply(ctx context.Context, actor entities.User, id string, action entities.TaskAction, data json.RawMessage) (entities.Task, error)
	Delete(ctx context.Context, actor entities.User, id string) error
}

var (
	taskWorkers   = entities.Roles(entities.RoleDesigner, entities.RoleDesignLead)
	taskReviewers = projectLeads
	taskMembers   = projectLeads.With(entities.RoleDesigner)
)

type TaskUseCase struct {
	tasks     interfaces.ITaskRepository
	projects  interfaces.IProjectRepository
	effects   ISideEffects
	validator *validation.Validator
	machine   machine[entities.Task, entities.TaskAction]
}

var _ ITaskUseCase = (*TaskUseCase)(nil)

func NewTaskUseCase(tasks interfaces.ITaskRepository, projects interfaces.IProjectRepository, effects ISideEffects, v *validation.Validator) *TaskUseCase {
	u := &TaskUseCase{tasks: tasks, projects: projects, effects: effects, validator: v}
	u.machine = machine[entities.Task, entities.TaskAction]{
		entities.TaskStart:           on(taskWorkers, u.start),
		entities.TaskSubmit:          on(taskWorkers, u.submit),
		entities.TaskRequestRevision: on(taskReviewers, u.requestRevision),
		entities.TaskApprove:         on(taskReviewers, u.approve),
		entities.TaskAddComment:      on(taskMembers, u.addComment),
		entities.TaskUpdate:          on(taskReviewers, u.update),
	}
	return u
}

func (u *TaskUseCase) Create(ctx context.Context, actor entities.User, in NewTask) (entities.Task, error) {
	if err := requireRole(actor, projectLeads); err != nil {
		return entities.Task{}, err
	}
	in.ProjectID = strings.TrimSpace(in.ProjectID)
	in.DesignerUID = strings.TrimSpace(in.DesignerUID)
	in.Title = strings.TrimSpace(in.Title)
	if err := validate(u.validator, &in); err != nil {
		return entities.Task{}, err
	}

	project, err := loadProject(ctx, u.projects, in.ProjectID)
	if err != nil {
		return entities.Task{}, err
	}
	if err := requireLead(actor, project); err != nil {
		return entities.Task{}, err
	}
	if !project.HasDesigner(in.DesignerUID) {
		return entities.Task{}, ErrAssigneeNotOnProject
	}

	now := time.Now().UTC()
	t := entities.Task{
		ID:            uuid.NewString(),
		ProjectID:     project.ID,
		DesignerUID:   in.DesignerUID,
		Title:         in.Title,
		DrawingNumber: in.DrawingNumber,
		Description:   in.Description,
		DueDate:       in.DueDate,
		Status:        entities.TaskStatusNotStarted,
		Comments:      []entities.Comment{},
		CreatedByUID:  actor.UID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	created, err := u.tasks.Create(ctx, t)
	if err != nil {
		return entities.Task{}, err
	}
	log.Printf("[task][usecase] created id=%s project_id=%s designer=%s", created.ID, project.ID, created.DesignerUID)

	related := taskRelated(&created)
	var fx Effects
	fx.Log("task_created", fmt.Sprintf("Task %q created on %s", created.Title, project.ProjectName), related)
	fx.NotifyUser(created.DesignerUID, "task_assigned", fmt.Sprintf("New task on %s: %s", project.ProjectName, created.Title), entities.PriorityNormal, related)
	fx.Email(entities.EmailEvent{
		Event:  "task_assigned",
		ToUIDs: []string{created.DesignerUID},
		Data:   map[string]string{"taskId": created.ID, "title": created.Title, "projectId": project.ID, "projectName": project.ProjectName},
	})
	u.effects.Dispatch(ctx, actor, fx)
	return created, nil
}

func (u *TaskUseCase) Get(ctx context.Context, actor entities.User, id string) (entities.Task, error) {
	t, err := u.load(ctx, id)
	if err != nil {
		return entities.Task{}, err
	}
	if actor.Role == entities.RoleDesigner && t.DesignerUID != actor.UID {
		return entities.Task{}, forbiddenBecause("designers can only see their own tasks")
	}
	return t, nil
}

func (u *TaskUseCase) List(ctx context.Context, actor entities.User, f interfaces.TaskFilter) ([]entities.Task, error) {
	if actor.Role == entities.RoleDesigner {
		f.DesignerUID = actor.UID
	}
	list, err := u.tasks.List(ctx, f)
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (u *TaskUseCase) Apply(ctx context.Context, actor entities.User, id string, action entities.TaskAction, data json.RawMessage) (entities.Task, error) {
	updated, err := apply(ctx, u.validator, u.effects, applyRequest[entities.Task, entities.TaskAction]{
		Machine: u.machine,
		Action:  action,
		Actor:   actor,
		Data:    data,
		Load:    func(ctx context.Context) (entities.Task, error) { return u.load(ctx, id) },
		Save:    u.tasks.Update,
		Finish: func(c *Change[entities.Task], _ entities.Task) error {
			c.Entity.UpdatedAt = c.Now
			return nil
		},
	})
	if err != nil {
		log.Printf("[task][usecase] %s failed id=%s actor=%s err=%v", action, id, actor.UID, err)
		return entities.Task{}, err
	}
	log.Printf("[task][usecase] %s applied id=%s status=%s", action, updated.ID, updated.Status)
	return updated, nil
}

func (u *TaskUseCase) Delete(ctx context.Context, actor entities.User, id string) error {
	if err := requireRole(actor, projectLeads); err != nil {
		return err
	}
	t, err := u.load(ctx, id)
	if err != nil {
		return err
	}
	project, err := loadProject(ctx, u.projects, t.ProjectID)
	if err != nil {
		return err
	}
	if err := requireLead(actor, project); err != nil {
		return err
	}
	if err := u.tasks.Delete(ctx, t.ID); err != nil {
		return err
	}
	log.Printf("[task][usecase] deleted id=%s project_id=%s", t.ID, t.ProjectID)

	var fx Effects
	fx.Log("task_deleted", fmt.Sprintf("Task %q deleted", t.Title), taskRelated(&t))
	u.effects.Dispatch(ctx, actor, fx)
	return nil
}

func (u *TaskUseCase) load(ctx context.Context, id string) (entities.Task, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Task{}, ErrInvalidID
	}
	t, err := u.tasks.GetByID(ctx, id)
	if err != nil {
		return entities.Task{}, err
	}
	if t.ID == "" {
		return entities.Task{}, ErrTaskNotFound
	}
	return t, nil
}

func taskRelated(t *entities.Task) map[string]string {
	return map[string]string{"taskId": t.ID, "projectId": t.ProjectID}
}

func requireAssignee(c *Change[entities.Task]) error {
	if c.Entity.DesignerUID != c.Actor.UID {
		return forbiddenBecause("only the assigned designer can do this")
	}
	return nil
}

func (u *TaskUseCase) requireTaskLead(c *Change[entities.Task]) (entities.Project, error) {
	project, err := loadProject(c.Ctx, u.projects, c.Entity.ProjectID)
	if err != nil {
		return entities.Project{}, err
	}
	return project, requireLead(c.Actor, project)
}

func (u *TaskUseCase) start(c *Change[entities.Task], _ none) error {
	if err := requireAssignee(c); err != nil {
		return err
	}
	if c.Entity.Status != entities.TaskStatusNotStarted && c.Entity.Status != entities.TaskStatusRevisionRequired {
		return illegalFrom(entities.TaskStart, c.Entity.Status)
	}
	c.Entity.Status = entities.TaskStatusInProgress

	// First work on a freshly staffed project moves its design track forward.
	projectID := c.Entity.ProjectID
	c.OnCommit(func(entities.Task) {
		_, err := mutateProject(context.WithoutCancel(c.Ctx), u.projects, projectID, func(p *entities.Project) error {
			if p.DesignStatus == entities.DesignStatusDesignersAssigned {
				p.DesignStatus = entities.DesignStatusInProgress
			}
			return nil
		})
		if err != nil {
			log.Printf("[task][usecase] design status bump failed project_id=%s err=%v", projectID, err)
		}
	})
	c.Effects.Log("task_started", fmt.Sprintf("Task %q started", c.Entity.Title), taskRelated(c.Entity))
	return nil
}

type taskSubmitPayload struct {
	Notes string `json:"notes" validate:"max=2000"`
}

func (u *TaskUseCase) submit(c *Change[entities.Task], p taskSubmitPayload) error {
	if err := requireAssignee(c); err != nil {
		return err
	}
	if c.Entity.Status != entities.TaskStatusInProgress {
		return illegalFrom(entities.TaskSubmit, c.Entity.Status)
	}
	project, err := loadProject(c.Ctx, u.projects, c.Entity.ProjectID)
	if err != nil {
		return err
	}
	c.Entity.Status = entities.TaskStatusSubmitted
	if p.Notes != "" {
		c.Entity.Comments = append(c.Entity.Comments, newComment(c, p.Notes))
	}

	related := taskRelated(c.Entity)
	c.Effects.Log("task_submitted", fmt.Sprintf("Task %q submitted for review", c.Entity.Title), related)
	c.Effects.NotifyUser(project.DesignLeadUID, "task_submitted", fmt.Sprintf("%s submitted %q for review", c.Actor.Name, c.Entity.Title), entities.PriorityNormal, related)
	return nil
}

type taskReviewPayload struct {
	Notes string `json:"notes" validate:"max=2000"`
}

func (u *TaskUseCase) requestRevision(c *Change[entities.Task], p taskReviewPayload) error {
	if _, err := u.requireTaskLead(c); err != nil {
		return err
	}
	if c.Entity.Status != entities.TaskStatusSubmitted {
		return illegalFrom(entities.TaskRequestRevision, c.Entity.Status)
	}
	c.Entity.Status = entities.TaskStatusRevisionRequired
	if p.Notes != "" {
		c.Entity.Comments = append(c.Entity.Comments, newComment(c, p.Notes))
	}

	related := taskRelated(c.Entity)
	c.Effects.Log("task_revision_requested", fmt.Sprintf("Revision requested on task %q", c.Entity.Title), related)
	c.Effects.NotifyUser(c.Entity.DesignerUID, "task_revision_requested", fmt.Sprintf("Revision requested on %q", c.Entity.Title), entities.PriorityHigh, related)
	return nil
}

func (u *TaskUseCase) approve(c *Change[entities.Task], p taskReviewPayload) error {
	if _, err := u.requireTaskLead(c); err != nil {
		return err
	}
	if c.Entity.Status != entities.TaskStatusSubmitted {
		return illegalFrom(entities.TaskApprove, c.Entity.Status)
	}
	c.Entity.Status = entities.TaskStatusApproved
	if p.Notes != "" {
		c.Entity.Comments = append(c.Entity.Comments, newComment(c, p.Notes))
	}

	related := taskRelated(c.Entity)
	c.Effects.Log("task_approved", fmt.Sprintf("Task %q approved", c.Entity.Title), related)
	c.Effects.NotifyUser(c.Entity.DesignerUID, "task_approved", fmt.Sprintf("%q was approved", c.Entity.Title), entities.PriorityNormal, related)
	return nil
}

type addCommentPayload struct {
	Text string `json:"text" validate:"required,max=4000"`
}

func (u *TaskUseCase) addComment(c *Change[entities.Task], p addCommentPayload) error {
	project, err := loadProject(c.Ctx, u.projects, c.Entity.ProjectID)
	if err != nil {
		return err
	}
	if !c.Actor.Role.Elevated() && !project.IsMember(c.Actor.UID) {
		return forbiddenBecause("only members of the project can comment on its tasks")
	}
	c.Entity.Comments = append(c.Entity.Comments, newComment(c, strings.TrimSpace(p.Text)))

	related := taskRelated(c.Entity)
	c.Effects.Log("task_commented", fmt.Sprintf("%s commented on %q", c.Actor.Name, c.Entity.Title), related)
	if c.Entity.DesignerUID != c.Actor.UID {
		c.Effects.NotifyUser(c.Entity.DesignerUID, "task_commented", fmt.Sprintf("%s commented on %q", c.Actor.Name, c.Entity.Title), entities.PriorityLow, related)
	}
	return nil
}

type taskUpdatePayload struct {
	Title         *string    `json:"title" validate:"omitempty,min=1,max=200"`
	DrawingNumber *string    `json:"drawingNumber" validate:"omitempty,max=100"`
	Description   *string    `json:"description" validate:"omitempty,max=4000"`
	DueDate       *time.Time `json:"dueDate"`
	DesignerUID   *string    `json:"designerUid" validate:"omitempty,min=1"`
}

func (u *TaskUseCase) update(c *Change[entities.Task], p taskUpdatePayload) error {
	project, err := u.requireTaskLead(c)
	if err != nil {
		return err
	}
	if p.DesignerUID != nil && *p.DesignerUID != c.Entity.DesignerUID {
		if !project.HasDesigner(*p.DesignerUID) {
			return ErrAssigneeNotOnProject
		}
		c.Entity.DesignerUID = *p.DesignerUID
		c.Effects.NotifyUser(c.Entity.DesignerUID, "task_assigned", fmt.Sprintf("New task on %s: %s", project.ProjectName, c.Entity.Title), entities.PriorityNormal, taskRelated(c.Entity))
	}
	if p.Title != nil {
		c.Entity.Title = strings.TrimSpace(*p.Title)
	}
	if p.DrawingNumber != nil {
		c.Entity.DrawingNumber = *p.DrawingNumber
	}
	if p.Description != nil {
		c.Entity.Description = *p.Description
	}
	if p.DueDate != nil {
		c.Entity.DueDate = p.DueDate
	}
	c.Effects.Log("task_updated", fmt.Sprintf("Task %q updated", c.Entity.Title), taskRelated(c.Entity))
	return nil
}

func newComment(c *Change[entities.Task], text string) entities.Comment {
	return entities.Comment{ID: uuid.NewString(), AuthorUID: c.Actor.UID, Author: c.Actor.Name, Text: text, At: c.Now}
}
