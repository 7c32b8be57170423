package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"studioflow/internal/domain/entities"
	"studioflow/internal/usecase/interfaces"
	mock_interfaces "studioflow/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func (w *world) deliverables(blobs interfaces.IBlobStore) *DeliverableUseCase {
	return NewDeliverableUseCase(w.store.Deliverables(), w.store.Projects(), blobs, w.effects, w.v)
}

func upload(name, body string) UploadFile {
	return UploadFile{Name: name, ContentType: "application/pdf", Size: int64(len(body)), Body: strings.NewReader(body)}
}

func TestDeliverableUseCase_CreateLink(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t, nil)
	uc := w.deliverables(nil)
	w.activeProject(t, "prj-1", 40)

	tests := []struct {
		name  string
		actor entities.User
		in    NewDeliverable
		want  error
	}{
		{"estimators cannot upload", estimator, NewDeliverable{ProjectID: "prj-1", Title: "Board", Link: "https://figma.com/file/1"}, ErrForbidden},
		{"non-member designer", outsider, NewDeliverable{ProjectID: "prj-1", Title: "Board", Link: "https://figma.com/file/1"}, ErrForbidden},
		{"no link and no files", designer, NewDeliverable{ProjectID: "prj-1", Title: "Board"}, ErrNoContent},
		{"bad link", designer, NewDeliverable{ProjectID: "prj-1", Title: "Board", Link: "not a link"}, ErrInvalidPayload},
		{"missing title", designer, NewDeliverable{ProjectID: "prj-1", Link: "https://figma.com/file/1"}, ErrInvalidPayload},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := uc.Create(ctx, tt.actor, tt.in, nil); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	d, err := uc.Create(ctx, designer, NewDeliverable{ProjectID: "prj-1", Title: " Mood board ", Link: "https://figma.com/file/1"}, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if d.Kind != entities.DeliverableKindLink || d.Title != "Mood board" || d.ReviewStatus != entities.ReviewPending || d.UploadedByUID != designer.UID {
		t.Fatalf("unexpected deliverable: %+v", d)
	}
	notes, _ := w.store.Notifications().ListByUID(ctx, lead.UID)
	if len(notes) != 1 || notes[0].Type != "deliverable_uploaded" {
		t.Fatalf("expected the lead to be told, got %+v", notes)
	}

	if _, err := uc.Create(ctx, designer, NewDeliverable{ProjectID: "prj-1", Title: "Plans"}, []UploadFile{upload("a.pdf", "x")}); !errors.Is(err, ErrBlobStoreDisabled) {
		t.Fatalf("expected ErrBlobStoreDisabled, got %v", err)
	}
}

func TestDeliverableUseCase_Upload(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	blobs := mock_interfaces.NewMockIBlobStore(ctrl)
	w := newWorld(t, nil)
	uc := w.deliverables(blobs)
	w.activeProject(t, "prj-1", 40)

	var keys []string
	blobs.EXPECT().Put(gomock.Any(), gomock.Any(), "application/pdf", gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, key, _ string, body io.Reader, size int64) (string, error) {
			data, _ := io.ReadAll(body)
			if int64(len(data)) != size {
				t.Fatalf("size mismatch for %s: %d vs %d", key, len(data), size)
			}
			keys = append(keys, key)
			return "https://cdn.test/" + key, nil
		},
	).Times(2)

	d, err := uc.Create(ctx, lead, NewDeliverable{ProjectID: "prj-1", Title: "Issue set"}, []UploadFile{
		upload(`..\drafts/plan.pdf`, "plan"),
		upload("  ", "blank"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if d.Kind != entities.DeliverableKindFile || len(d.Files) != 2 {
		t.Fatalf("unexpected deliverable: %+v", d)
	}
	prefix := "deliverables/prj-1/" + d.ID + "/"
	if keys[0] != prefix+"1-plan.pdf" || keys[1] != prefix+"2-file-2" {
		t.Fatalf("unexpected object keys: %v", keys)
	}
	if d.Files[0].Name != "plan.pdf" || d.Files[0].URL != "https://cdn.test/"+keys[0] || d.Files[0].Size != 4 {
		t.Fatalf("unexpected stored file: %+v", d.Files[0])
	}
	if notes, _ := w.store.Notifications().ListByUID(ctx, lead.UID); len(notes) != 0 {
		t.Fatalf("the lead uploading should not notify itself, got %+v", notes)
	}
}

func TestDeliverableUseCase_PartialUpload(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	blobs := mock_interfaces.NewMockIBlobStore(ctrl)
	w := newWorld(t, nil)
	uc := w.deliverables(blobs)
	w.activeProject(t, "prj-1", 40)

	gomock.InOrder(
		blobs.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("https://cdn.test/a", nil),
		blobs.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("s3: slow down")),
	)

	_, err := uc.Create(ctx, designer, NewDeliverable{ProjectID: "prj-1", Title: "Sheets"}, []UploadFile{
		upload("a.pdf", "a"),
		upload("b.pdf", "b"),
		upload("c.pdf", "c"),
	})
	if !errors.Is(err, ErrUploadFailed) {
		t.Fatalf("expected ErrUploadFailed, got %v", err)
	}
	var pe *PartialUploadError
	if !errors.As(err, &pe) || pe.Failed != "b.pdf" || len(pe.Stored) != 1 || pe.Stored[0].URL != "https://cdn.test/a" {
		t.Fatalf("unexpected partial upload error: %#v", err)
	}
	if pe.Err == nil || pe.Err.Error() != "s3: slow down" {
		t.Fatalf("expected the store error to be kept, got %v", pe.Err)
	}

	list, err := uc.ListByProject(ctx, lead, "prj-1")
	if err != nil || len(list) != 0 {
		t.Fatalf("a failed upload must not create a deliverable: %+v %v", list, err)
	}
}

func TestDeliverableUseCase_ReviewAndDelete(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	blobs := mock_interfaces.NewMockIBlobStore(ctrl)
	w := newWorld(t, nil)
	uc := w.deliverables(blobs)
	w.activeProject(t, "prj-1", 40)

	blobs.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("https://cdn.test/x", nil).Times(2)
	d, err := uc.Create(ctx, designer, NewDeliverable{ProjectID: "prj-1", Title: "Renders"}, []UploadFile{upload("r1.pdf", "1"), upload("r2.pdf", "2")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := uc.Get(ctx, outsider, d.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := uc.ListByProject(ctx, outsider, "prj-1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	if _, err := uc.Apply(ctx, designer, d.ID, entities.DeliverableReview, raw(`{"status":"approved"}`)); !errors.Is(err, ErrForbidden) {
		t.Fatalf("designers cannot review, got %v", err)
	}
	if _, err := uc.Apply(ctx, otherLead, d.ID, entities.DeliverableReview, raw(`{"status":"approved"}`)); !errors.Is(err, ErrForbidden) {
		t.Fatalf("another lead cannot review, got %v", err)
	}
	if _, err := uc.Apply(ctx, lead, d.ID, entities.DeliverableReview, raw(`{"status":"pending"}`)); !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}

	got, err := uc.Apply(ctx, lead, d.ID, entities.DeliverableReview, raw(`{"status":"revision_required","notes":"darker sky"}`))
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if got.ReviewStatus != entities.ReviewRevisionRequired || got.ReviewNotes != "darker sky" || got.ReviewedByUID != lead.UID {
		t.Fatalf("unexpected review: %+v", got)
	}
	notes, _ := w.store.Notifications().ListByUID(ctx, designer.UID)
	if len(notes) != 1 || notes[0].Priority != entities.PriorityHigh {
		t.Fatalf("expected a high priority notice for the uploader, got %+v", notes)
	}

	if err := uc.Delete(ctx, lead, d.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("only the uploader or elevated roles delete, got %v", err)
	}

	blobs.EXPECT().Delete(gomock.Any(), d.Files[0].Key).Return(errors.New("s3: access denied"))
	blobs.EXPECT().Delete(gomock.Any(), d.Files[1].Key).Return(nil)
	if err := uc.Delete(ctx, designer, d.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := uc.Get(ctx, designer, d.ID); !errors.Is(err, ErrDeliverableNotFound) {
		t.Fatalf("expected ErrDeliverableNotFound, got %v", err)
	}
}
