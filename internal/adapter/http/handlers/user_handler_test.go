package handlers

import (
	"net/http"
	"testing"

	"studioflow/internal/adapter/http/handlers/mocks"
	"studioflow/internal/domain/entities"
	"studioflow/internal/usecase"

	"go.uber.org/mock/gomock"
)

func TestUserHandler(t *testing.T) {
	director := entities.User{UID: "dir-1", Role: entities.RoleDirector, Status: entities.UserStatusActive}
	newUserRouter := func(uc usecase.IUserUseCase) http.Handler {
		h := NewUserHandler(uc)
		r := newRouter(director)
		r.GET("/api/users/me", h.Me)
		r.GET("/api/users", h.Get)
		r.PUT("/api/users", h.Update)
		return r
	}

	t.Run("me", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIUserUseCase(ctrl)
		uc.EXPECT().Me(gomock.Any(), director).Return(director, nil)

		w := doJSON(newUserRouter(uc), http.MethodGet, "/api/users/me", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("list by role", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIUserUseCase(ctrl)
		uc.EXPECT().List(gomock.Any(), director, entities.RoleDesigner).Return([]entities.User{designer}, nil)

		w := doJSON(newUserRouter(uc), http.MethodGet, "/api/users?role=designer", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("self demotion is forbidden", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIUserUseCase(ctrl)
		uc.EXPECT().Apply(gomock.Any(), director, "dir-1", usecase.UserUpdateRole, gomock.Any()).Return(entities.User{}, usecase.ErrSelfDemotion)

		w := doJSON(newUserRouter(uc), http.MethodPut, "/api/users?id=dir-1", `{"action":"update_role","data":{"role":"coo"}}`)
		if w.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", w.Code)
		}
	})
}

func TestReportHandler(t *testing.T) {
	t.Run("executive summary forbidden for designers", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIReportUseCase(ctrl)
		uc.EXPECT().ExecutiveSummary(gomock.Any(), designer).
			Return(usecase.ExecutiveSummary{}, &usecase.ForbiddenError{Required: entities.Elevated})

		h := NewReportHandler(uc)
		r := newRouter(designer)
		r.GET("/api/executive-summary", h.ExecutiveSummary)

		w := doJSON(r, http.MethodGet, "/api/executive-summary", "")
		if w.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", w.Code)
		}
	})

	t.Run("activities default limit", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIReportUseCase(ctrl)
		uc.EXPECT().Activities(gomock.Any(), coo, defaultActivityLimit).Return([]entities.Activity{{ID: "a-1"}}, nil)

		h := NewReportHandler(uc)
		r := newRouter(coo)
		r.GET("/api/activities", h.Activities)

		w := doJSON(r, http.MethodGet, "/api/activities", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})
}
