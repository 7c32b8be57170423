package handlers

import (
	"net/http"
	"testing"

	"studioflow/internal/adapter/http/handlers/mocks"
	"studioflow/internal/domain/entities"
	"studioflow/internal/usecase"

	"go.uber.org/mock/gomock"
)

func timesheetRouter(uc usecase.ITimesheetUseCase) http.Handler {
	h := NewTimesheetHandler(uc)
	r := newRouter(designer)
	r.GET("/api/timesheets", h.Get)
	r.POST("/api/timesheets", h.Create)
	r.DELETE("/api/timesheets", h.Delete)
	return r
}

func TestTimesheetHandler_Create(t *testing.T) {
	t.Run("exceeding the allocation reports exceededBy", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockITimesheetUseCase(ctrl)
		uc.EXPECT().Log(gomock.Any(), designer, usecase.NewTimesheet{ProjectID: "prj-1", Date: "2026-03-02", Hours: 5}).
			Return(entities.Timesheet{}, &usecase.AllocationExceededError{Budget: 10, Logged: 8, Requested: 5, ExceededBy: 3})

		w := doJSON(timesheetRouter(uc), http.MethodPost, "/api/timesheets", `{"projectId":"prj-1","date":"2026-03-02","hours":5}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		body := decodeBody(t, w)
		if body["code"] != "EXCEEDS_ALLOCATION" {
			t.Fatalf("expected EXCEEDS_ALLOCATION, got %v", body["code"])
		}
		if body["exceedsAllocation"] != true || body["exceededBy"] != float64(3) {
			t.Fatalf("expected the overshoot at the top level, got %v", body)
		}
		details, _ := body["details"].(map[string]any)
		if details["exceedsAllocation"] != true || details["exceededBy"] != float64(3) {
			t.Fatalf("unexpected details: %v", details)
		}
	})

	t.Run("concurrent submitter conflicts", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockITimesheetUseCase(ctrl)
		uc.EXPECT().Log(gomock.Any(), designer, gomock.Any()).Return(entities.Timesheet{}, usecase.ErrConflict)

		w := doJSON(timesheetRouter(uc), http.MethodPost, "/api/timesheets", `{"projectId":"prj-1","date":"2026-03-02","hours":1}`)
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})

	t.Run("logged", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockITimesheetUseCase(ctrl)
		uc.EXPECT().Log(gomock.Any(), designer, gomock.Any()).Return(entities.Timesheet{ID: "ts-1", Hours: 2}, nil)

		w := doJSON(timesheetRouter(uc), http.MethodPost, "/api/timesheets", `{"projectId":"prj-1","date":"2026-03-02","hours":2}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
	})
}

func TestTimesheetHandler_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	uc := mocks.NewMockITimesheetUseCase(ctrl)
	uc.EXPECT().List(gomock.Any(), designer, usecase.TimesheetQuery{ProjectID: "prj-1", DesignerUID: "des-1"}).
		Return([]entities.Timesheet{{ID: "ts-1"}}, nil)

	w := doJSON(timesheetRouter(uc), http.MethodGet, "/api/timesheets?projectId=prj-1&designerUid=des-1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
