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
	ErrSubmissionNotFound      = errors.New("submission not found")
	ErrDeliverableNotInProject = errors.New("deliverable does not belong to the project")
)

type NewSubmission struct {
	ProjectID      string   `json:"projectId" validate:"required"`
	DeliverableIDs []string `json:"deliverableIds" validate:"required,min=1,dive,required"`
	Notes          string   `json:"notes" validate:"max=4000"`
}

type ISubmissionUseCase interface {
	Create(ctx context.Context, actor entities.User, in NewSubmission) (entities.Submission, error)
	Get(ctx context.Context, actor entities.User, id string) (entities.Submission, error)
	ListByProject(ctx context.Context, actor entities.User, projectID string) ([]entities.Submission, error)
	Apply(ctx context.Context, actor entities.User, id string, action entities.SubmissionAction, data json.RawMessage) (entities.Submission, error)
}

var feedbackRecorders = entities.Elevated.With(entities.RoleBDM)

type SubmissionUseCase struct {
	submissions  interfaces.ISubmissionRepository
	deliverables interfaces.IDeliverableRepository
	projects     interfaces.IProjectRepository
	effects      ISideEffects
	validator    *validation.Validator
	machine      machine[entities.Submission, entities.SubmissionAction]
}

var _ ISubmissionUseCase = (*SubmissionUseCase)(nil)

func NewSubmissionUseCase(
	submissions interfaces.ISubmissionRepository,
	deliverables interfaces.IDeliverableRepository,
	projects interfaces.IProjectRepository,
	effects ISideEffects,
	v *validation.Validator,
) *SubmissionUseCase {
	u := &SubmissionUseCase{submissions: submissions, deliverables: deliverables, projects: projects, effects: effects, validator: v}
	u.machine = machine[entities.Submission, entities.SubmissionAction]{
		entities.SubmissionRecordFeedback: on(feedbackRecorders, u.recordFeedback),
	}
	return u
}

// Create moves the project's design track to submitted before storing the submission, so a
// project that cannot accept a submission rejects it without leaving a record behind.
func (u *SubmissionUseCase) Create(ctx context.Context, actor entities.User, in NewSubmission) (entities.Submission, error) {
	if err := requireRole(actor, projectLeads); err != nil {
		return entities.Submission{}, err
	}
	in.ProjectID = strings.TrimSpace(in.ProjectID)
	if err := validate(u.validator, &in); err != nil {
		return entities.Submission{}, err
	}

	project, err := loadProject(ctx, u.projects, in.ProjectID)
	if err != nil {
		return entities.Submission{}, err
	}
	if err := requireLead(actor, project); err != nil {
		return entities.Submission{}, err
	}

	ids := make([]string, 0, len(in.DeliverableIDs))
	seen := map[string]bool{}
	for _, id := range in.DeliverableIDs {
		id = strings.TrimSpace(id)
		if seen[id] {
			continue
		}
		seen[id] = true
		d, err := u.deliverables.GetByID(ctx, id)
		if err != nil {
			return entities.Submission{}, err
		}
		if d.ID == "" {
			return entities.Submission{}, fmt.Errorf("%w: %s", ErrDeliverableNotFound, id)
		}
		if d.ProjectID != project.ID {
			return entities.Submission{}, fmt.Errorf("%w: %s", ErrDeliverableNotInProject, id)
		}
		ids = append(ids, id)
	}

	project, err = mutateProject(ctx, u.projects, project.ID, func(p *entities.Project) error {
		if p.Status != entities.ProjectStatusInProgress {
			return illegalFrom("submit", p.Status)
		}
		p.DesignStatus = entities.DesignStatusSubmitted
		return nil
	})
	if err != nil {
		return entities.Submission{}, err
	}

	now := time.Now().UTC()
	s := entities.Submission{
		ID:             uuid.NewString(),
		ProjectID:      project.ID,
		DeliverableIDs: ids,
		SubmittedByUID: actor.UID,
		Notes:          in.Notes,
		ClientFeedback: entities.FeedbackPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	created, err := u.submissions.Create(ctx, s)
	if err != nil {
		return entities.Submission{}, err
	}
	log.Printf("[submission][usecase] created id=%s project_id=%s deliverables=%d", created.ID, project.ID, len(ids))

	related := submissionRelated(&created)
	msg := fmt.Sprintf("%s submitted %d deliverable(s) on %s to the client", actor.Name, len(ids), project.ProjectName)
	var fx Effects
	fx.Log("submission_created", msg, related)
	fx.NotifyUser(project.BDMUID, "submission_created", msg, entities.PriorityNormal, related)
	fx.NotifyRole(entities.RoleCOO, "submission_created", msg, entities.PriorityLow, related)
	u.effects.Dispatch(ctx, actor, fx)
	return created, nil
}

func (u *SubmissionUseCase) Get(ctx context.Context, actor entities.User, id string) (entities.Submission, error) {
	s, err := u.load(ctx, id)
	if err != nil {
		return entities.Submission{}, err
	}
	project, err := loadProject(ctx, u.projects, s.ProjectID)
	if err != nil {
		return entities.Submission{}, err
	}
	if !canSeeProject(actor, project) {
		return entities.Submission{}, forbiddenBecause("not a member of this project")
	}
	return s, nil
}

func (u *SubmissionUseCase) ListByProject(ctx context.Context, actor entities.User, projectID string) ([]entities.Submission, error) {
	project, err := loadProject(ctx, u.projects, projectID)
	if err != nil {
		return nil, err
	}
	if !canSeeProject(actor, project) {
		return nil, forbiddenBecause("not a member of this project")
	}
	list, err := u.submissions.ListByProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (u *SubmissionUseCase) Apply(ctx context.Context, actor entities.User, id string, action entities.SubmissionAction, data json.RawMessage) (entities.Submission, error) {
	updated, err := apply(ctx, u.validator, u.effects, applyRequest[entities.Submission, entities.SubmissionAction]{
		Machine: u.machine,
		Action:  action,
		Actor:   actor,
		Data:    data,
		Load:    func(ctx context.Context) (entities.Submission, error) { return u.load(ctx, id) },
		Save:    u.submissions.Update,
		Finish: func(c *Change[entities.Submission], _ entities.Submission) error {
			c.Entity.UpdatedAt = c.Now
			return nil
		},
	})
	if err != nil {
		log.Printf("[submission][usecase] %s failed id=%s actor=%s err=%v", action, id, actor.UID, err)
		return entities.Submission{}, err
	}
	return updated, nil
}

func (u *SubmissionUseCase) load(ctx context.Context, id string) (entities.Submission, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Submission{}, ErrInvalidID
	}
	s, err := u.submissions.GetByID(ctx, id)
	if err != nil {
		return entities.Submission{}, err
	}
	if s.ID == "" {
		return entities.Submission{}, ErrSubmissionNotFound
	}
	return s, nil
}

func submissionRelated(s *entities.Submission) map[string]string {
	return map[string]string{"submissionId": s.ID, "projectId": s.ProjectID}
}

type feedbackPayload struct {
	ClientFeedback entities.ClientFeedback `json:"clientFeedback" validate:"required,oneof=revision_required approved rejected"`
	Notes          string                  `json:"notes" validate:"max=4000"`
}

func (u *SubmissionUseCase) recordFeedback(c *Change[entities.Submission], p feedbackPayload) error {
	if c.Entity.ClientFeedback != entities.FeedbackPending {
		return illegalFrom(entities.SubmissionRecordFeedback, c.Entity.ClientFeedback)
	}
	project, err := loadProject(c.Ctx, u.projects, c.Entity.ProjectID)
	if err != nil {
		return err
	}
	if c.Actor.Role == entities.RoleBDM && project.BDMUID != "" && project.BDMUID != c.Actor.UID {
		return forbiddenBecause("only the project's bdm can record client feedback")
	}

	now := c.Now
	c.Entity.ClientFeedback = p.ClientFeedback
	c.Entity.FeedbackNotes = p.Notes
	c.Entity.FeedbackAt = &now

	if p.ClientFeedback == entities.FeedbackRevisionRequired {
		projectID := project.ID
		c.OnCommit(func(entities.Submission) {
			_, err := mutateProject(context.WithoutCancel(c.Ctx), u.projects, projectID, func(proj *entities.Project) error {
				if proj.Status == entities.ProjectStatusInProgress {
					proj.DesignStatus = entities.DesignStatusRevisionRequired
				}
				return nil
			})
			if err != nil {
				log.Printf("[submission][usecase] design status update failed project_id=%s err=%v", projectID, err)
			}
		})
	}

	related := submissionRelated(c.Entity)
	msg := fmt.Sprintf("Client feedback on %s: %s", project.ProjectName, p.ClientFeedback)
	priority := entities.PriorityNormal
	if p.ClientFeedback == entities.FeedbackRevisionRequired {
		priority = entities.PriorityHigh
	}
	c.Effects.Log("client_feedback_recorded", msg, related)
	c.Effects.NotifyUser(project.DesignLeadUID, "client_feedback_recorded", msg, priority, related)
	data := projectEmailData(project)
	data["clientFeedback"] = string(p.ClientFeedback)
	data["feedbackNotes"] = p.Notes
	c.Effects.Email(entities.EmailEvent{Event: "client_feedback_recorded", ToUIDs: []string{project.DesignLeadUID}, Data: data})
	return nil
}
