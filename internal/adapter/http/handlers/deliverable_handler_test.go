package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"studioflow/internal/adapter/http/handlers/mocks"
	"studioflow/internal/domain/entities"
	"studioflow/internal/usecase"

	"go.uber.org/mock/gomock"
)

func deliverableRouter(uc usecase.IDeliverableUseCase) http.Handler {
	h := NewDeliverableHandler(uc)
	r := newRouter(designer)
	r.GET("/api/deliverables", h.Get)
	r.POST("/api/deliverables", h.Create)
	r.PUT("/api/deliverables", h.Update)
	r.DELETE("/api/deliverables", h.Delete)
	return r
}

func multipartUpload(t *testing.T, files map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("projectId", "prj-1")
	_ = mw.WriteField("title", "Ground floor plan")
	for _, name := range []string{"a.pdf", "b.pdf"} {
		content, ok := files[name]
		if !ok {
			continue
		}
		fw, err := mw.CreateFormFile("files", name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		_, _ = fw.Write([]byte(content))
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/deliverables", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestDeliverableHandler_CreateMultipart(t *testing.T) {
	t.Run("files are passed to the use case", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIDeliverableUseCase(ctrl)
		uc.EXPECT().Create(gomock.Any(), designer, usecase.NewDeliverable{ProjectID: "prj-1", Title: "Ground floor plan"}, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ entities.User, _ usecase.NewDeliverable, files []usecase.UploadFile) (entities.Deliverable, error) {
				if len(files) != 2 {
					t.Fatalf("expected 2 files, got %d", len(files))
				}
				body, err := io.ReadAll(files[1].Body)
				if err != nil || string(body) != "second" || files[1].Name != "b.pdf" {
					t.Fatalf("unexpected second file %q %q %v", files[1].Name, body, err)
				}
				return entities.Deliverable{ID: "d-1", Kind: entities.DeliverableKindFile}, nil
			})

		w := httptest.NewRecorder()
		deliverableRouter(uc).ServeHTTP(w, multipartUpload(t, map[string]string{"a.pdf": "first", "b.pdf": "second"}))
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d (%s)", w.Code, w.Body.String())
		}
	})

	t.Run("partial failure reports stored files", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIDeliverableUseCase(ctrl)
		uc.EXPECT().Create(gomock.Any(), designer, gomock.Any(), gomock.Any()).Return(entities.Deliverable{}, &usecase.PartialUploadError{
			Failed: "b.pdf",
			Stored: []entities.StoredFile{{Name: "a.pdf", Key: "deliverables/prj-1/a.pdf"}},
			Err:    errors.New("s3 timeout"),
		})

		w := httptest.NewRecorder()
		deliverableRouter(uc).ServeHTTP(w, multipartUpload(t, map[string]string{"a.pdf": "first", "b.pdf": "second"}))
		if w.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", w.Code)
		}
		details, _ := decodeBody(t, w)["details"].(map[string]any)
		stored, _ := details["stored"].([]any)
		if details["failed"] != "b.pdf" || len(stored) != 1 {
			t.Fatalf("unexpected details: %v", details)
		}
	})
}

func TestDeliverableHandler_CreateLink(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	uc := mocks.NewMockIDeliverableUseCase(ctrl)
	uc.EXPECT().Create(gomock.Any(), designer, usecase.NewDeliverable{ProjectID: "prj-1", Title: "Model"}, gomock.Nil()).
		Return(entities.Deliverable{}, usecase.ErrNoContent)

	w := doJSON(deliverableRouter(uc), http.MethodPost, "/api/deliverables", `{"projectId":"prj-1","title":"Model"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestDeliverableHandler_Get(t *testing.T) {
	t.Run("requires project id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIDeliverableUseCase(ctrl)

		w := doJSON(deliverableRouter(uc), http.MethodGet, "/api/deliverables", "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("lists by project", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIDeliverableUseCase(ctrl)
		uc.EXPECT().ListByProject(gomock.Any(), designer, "prj-1").Return([]entities.Deliverable{{ID: "d-1"}}, nil)

		w := doJSON(deliverableRouter(uc), http.MethodGet, "/api/deliverables?projectId=prj-1", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})
}

func TestDeliverableHandler_StorageDisabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	uc := mocks.NewMockIDeliverableUseCase(ctrl)
	uc.EXPECT().Delete(gomock.Any(), designer, "d-1").Return(usecase.ErrBlobStoreDisabled)

	w := doJSON(deliverableRouter(uc), http.MethodDelete, "/api/deliverables?id=d-1", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}
