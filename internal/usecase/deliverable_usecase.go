package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"sort"
	"strings"
	"time"

	"studioflow/internal/domain/entities"
	"studioflow/internal/usecase/interfaces"
	"studioflow/internal/validation"

	"github.com/google/uuid"
)

var (
	ErrDeliverableNotFound = errors.New("deliverable not found")
	ErrNoContent           = errors.New("deliverable needs at least one file or a link")
	ErrUploadFailed        = errors.New("file upload failed")
	ErrBlobStoreDisabled   = errors.New("file storage is not configured")
)

// PartialUploadError reports an upload that stopped midway. Files uploaded before the failure
// stay in the blob store and are listed in Stored.
type PartialUploadError struct {
	Failed string
	Stored []entities.StoredFile
	Err    error
}

func (e *PartialUploadError) Error() string {
	return fmt.Sprintf("upload of %q failed after %d stored file(s): %v", e.Failed, len(e.Stored), e.Err)
}

func (e *PartialUploadError) Unwrap() error { return e.Err }

func (e *PartialUploadError) Is(target error) bool { return target == ErrUploadFailed }

// UploadFile is one part of a multipart deliverable upload.
type UploadFile struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

type NewDeliverable struct {
	ProjectID string `json:"projectId" validate:"required"`
	Title     string `json:"title" validate:"required,max=200"`
	Link      string `json:"link" validate:"omitempty,url"`
}

type IDeliverableUseCase interface {
	Create(ctx context.Context, actor entities.User, in NewDeliverable, files []UploadFile) (entities.Deliverable, error)
	Get(ctx context.Context, actor entities.User, id string) (entities.Deliverable, error)
	ListByProject(ctx context.Context, actor entities.User, projectID string) ([]entities.Deliverable, error)
	Apply(ctx context.Context, actor entities.User, id string, action entities.DeliverableAction, data json.RawMessage) (entities.Deliverable, error)
	Delete(ctx context.Context, actor entities.User, id string) error
}

var deliverableUploaders = entities.Elevated.With(entities.RoleDesignLead, entities.RoleDesigner)

type DeliverableUseCase struct {
	deliverables interfaces.IDeliverableRepository
	projects     interfaces.IProjectRepository
	blobs        interfaces.IBlobStore
	effects      ISideEffects
	validator    *validation.Validator
	machine      machine[entities.Deliverable, entities.DeliverableAction]
}

var _ IDeliverableUseCase = (*DeliverableUseCase)(nil)

func NewDeliverableUseCase(
	deliverables interfaces.IDeliverableRepository,
	projects interfaces.IProjectRepository,
	blobs interfaces.IBlobStore,
	effects ISideEffects,
	v *validation.Validator,
) *DeliverableUseCase {
	u := &DeliverableUseCase{deliverables: deliverables, projects: projects, blobs: blobs, effects: effects, validator: v}
	u.machine = machine[entities.Deliverable, entities.DeliverableAction]{
		entities.DeliverableReview: on(projectLeads, u.review),
	}
	return u
}

// Create stores a link deliverable, or uploads files one after another and stores a file
// deliverable once every upload succeeded.
func (u *DeliverableUseCase) Create(ctx context.Context, actor entities.User, in NewDeliverable, files []UploadFile) (entities.Deliverable, error) {
	if err := requireRole(actor, deliverableUploaders); err != nil {
		return entities.Deliverable{}, err
	}
	in.ProjectID = strings.TrimSpace(in.ProjectID)
	in.Title = strings.TrimSpace(in.Title)
	in.Link = strings.TrimSpace(in.Link)
	if err := validate(u.validator, &in); err != nil {
		return entities.Deliverable{}, err
	}
	if len(files) == 0 && in.Link == "" {
		return entities.Deliverable{}, ErrNoContent
	}

	project, err := loadProject(ctx, u.projects, in.ProjectID)
	if err != nil {
		return entities.Deliverable{}, err
	}
	if !actor.Role.Elevated() && !project.IsMember(actor.UID) {
		return entities.Deliverable{}, forbiddenBecause("only members of the project can upload deliverables")
	}

	now := time.Now().UTC()
	d := entities.Deliverable{
		ID:            uuid.NewString(),
		ProjectID:     project.ID,
		Title:         in.Title,
		Kind:          entities.DeliverableKindLink,
		Link:          in.Link,
		UploadedByUID: actor.UID,
		ReviewStatus:  entities.ReviewPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if len(files) > 0 {
		stored, err := u.upload(ctx, d, files)
		if err != nil {
			return entities.Deliverable{}, err
		}
		d.Kind = entities.DeliverableKindFile
		d.Files = stored
	}

	created, err := u.deliverables.Create(ctx, d)
	if err != nil {
		return entities.Deliverable{}, err
	}
	log.Printf("[deliverable][usecase] created id=%s project_id=%s kind=%s files=%d", created.ID, project.ID, created.Kind, len(created.Files))

	related := deliverableRelated(&created)
	var fx Effects
	fx.Log("deliverable_uploaded", fmt.Sprintf("%s uploaded %q on %s", actor.Name, created.Title, project.ProjectName), related)
	if project.DesignLeadUID != actor.UID {
		fx.NotifyUser(project.DesignLeadUID, "deliverable_uploaded", fmt.Sprintf("New deliverable %q on %s", created.Title, project.ProjectName), entities.PriorityNormal, related)
	}
	u.effects.Dispatch(ctx, actor, fx)
	return created, nil
}

func (u *DeliverableUseCase) upload(ctx context.Context, d entities.Deliverable, files []UploadFile) ([]entities.StoredFile, error) {
	if u.blobs == nil {
		return nil, ErrBlobStoreDisabled
	}
	stored := make([]entities.StoredFile, 0, len(files))
	for i, f := range files {
		name := path.Base(strings.ReplaceAll(strings.TrimSpace(f.Name), "\\", "/"))
		if name == "" || name == "." || name == "/" {
			name = fmt.Sprintf("file-%d", i+1)
		}
		key := fmt.Sprintf("deliverables/%s/%s/%d-%s", d.ProjectID, d.ID, i+1, name)
		url, err := u.blobs.Put(ctx, key, f.ContentType, f.Body, f.Size)
		if err != nil {
			log.Printf("[deliverable][usecase] upload failed key=%s stored=%d err=%v", key, len(stored), err)
			return nil, &PartialUploadError{Failed: name, Stored: stored, Err: err}
		}
		stored = append(stored, entities.StoredFile{Name: name, Key: key, URL: url, Size: f.Size, ContentType: f.ContentType})
	}
	return stored, nil
}

func (u *DeliverableUseCase) Get(ctx context.Context, actor entities.User, id string) (entities.Deliverable, error) {
	d, err := u.load(ctx, id)
	if err != nil {
		return entities.Deliverable{}, err
	}
	project, err := loadProject(ctx, u.projects, d.ProjectID)
	if err != nil {
		return entities.Deliverable{}, err
	}
	if !canSeeProject(actor, project) {
		return entities.Deliverable{}, forbiddenBecause("not a member of this project")
	}
	return d, nil
}

func (u *DeliverableUseCase) ListByProject(ctx context.Context, actor entities.User, projectID string) ([]entities.Deliverable, error) {
	project, err := loadProject(ctx, u.projects, projectID)
	if err != nil {
		return nil, err
	}
	if !canSeeProject(actor, project) {
		return nil, forbiddenBecause("not a member of this project")
	}
	list, err := u.deliverables.ListByProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (u *DeliverableUseCase) Apply(ctx context.Context, actor entities.User, id string, action entities.DeliverableAction, data json.RawMessage) (entities.Deliverable, error) {
	updated, err := apply(ctx, u.validator, u.effects, applyRequest[entities.Deliverable, entities.DeliverableAction]{
		Machine: u.machine,
		Action:  action,
		Actor:   actor,
		Data:    data,
		Load:    func(ctx context.Context) (entities.Deliverable, error) { return u.load(ctx, id) },
		Save:    u.deliverables.Update,
		Finish: func(c *Change[entities.Deliverable], _ entities.Deliverable) error {
			c.Entity.UpdatedAt = c.Now
			return nil
		},
	})
	if err != nil {
		log.Printf("[deliverable][usecase] %s failed id=%s actor=%s err=%v", action, id, actor.UID, err)
		return entities.Deliverable{}, err
	}
	return updated, nil
}

// Delete removes the record and then its stored objects. Object removal failures are logged and
// do not fail the call.
func (u *DeliverableUseCase) Delete(ctx context.Context, actor entities.User, id string) error {
	d, err := u.load(ctx, id)
	if err != nil {
		return err
	}
	if d.UploadedByUID != actor.UID && !actor.Role.Elevated() {
		return forbiddenBecause("only the uploader, coo or director can delete a deliverable")
	}
	if err := u.deliverables.Delete(ctx, d.ID); err != nil {
		return err
	}
	for _, f := range d.Files {
		if u.blobs == nil {
			break
		}
		if err := u.blobs.Delete(ctx, f.Key); err != nil {
			log.Printf("[deliverable][usecase] object delete failed key=%s err=%v", f.Key, err)
		}
	}
	log.Printf("[deliverable][usecase] deleted id=%s files=%d", d.ID, len(d.Files))

	var fx Effects
	fx.Log("deliverable_deleted", fmt.Sprintf("Deliverable %q deleted", d.Title), deliverableRelated(&d))
	u.effects.Dispatch(ctx, actor, fx)
	return nil
}

func (u *DeliverableUseCase) load(ctx context.Context, id string) (entities.Deliverable, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Deliverable{}, ErrInvalidID
	}
	d, err := u.deliverables.GetByID(ctx, id)
	if err != nil {
		return entities.Deliverable{}, err
	}
	if d.ID == "" {
		return entities.Deliverable{}, ErrDeliverableNotFound
	}
	return d, nil
}

func deliverableRelated(d *entities.Deliverable) map[string]string {
	return map[string]string{"deliverableId": d.ID, "projectId": d.ProjectID}
}

type deliverableReviewPayload struct {
	Status entities.ReviewStatus `json:"status" validate:"required,oneof=approved revision_required"`
	Notes  string                `json:"notes" validate:"max=2000"`
}

func (u *DeliverableUseCase) review(c *Change[entities.Deliverable], p deliverableReviewPayload) error {
	project, err := loadProject(c.Ctx, u.projects, c.Entity.ProjectID)
	if err != nil {
		return err
	}
	if err := requireLead(c.Actor, project); err != nil {
		return err
	}
	c.Entity.ReviewStatus = p.Status
	c.Entity.ReviewNotes = p.Notes
	c.Entity.ReviewedByUID = c.Actor.UID

	related := deliverableRelated(c.Entity)
	msg := fmt.Sprintf("Deliverable %q reviewed: %s", c.Entity.Title, p.Status)
	priority := entities.PriorityNormal
	if p.Status == entities.ReviewRevisionRequired {
		priority = entities.PriorityHigh
	}
	c.Effects.Log("deliverable_reviewed", msg, related)
	c.Effects.NotifyUser(c.Entity.UploadedByUID, "deliverable_reviewed", msg, priority, related)
	return nil
}
