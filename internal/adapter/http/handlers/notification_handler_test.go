package handlers

import (
	"net/http"
	"testing"

	"studioflow/internal/adapter/http/handlers/mocks"
	"studioflow/internal/domain/entities"
	"studioflow/internal/usecase"

	"go.uber.org/mock/gomock"
)

func notificationRouter(uc usecase.INotificationUseCase) http.Handler {
	h := NewNotificationHandler(uc)
	r := newRouter(designer)
	r.GET("/api/notifications", h.Get)
	r.PUT("/api/notifications", h.Update)
	r.DELETE("/api/notifications", h.Delete)
	return r
}

func TestNotificationHandler_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	uc := mocks.NewMockINotificationUseCase(ctrl)
	uc.EXPECT().List(gomock.Any(), designer, 5).Return([]entities.Notification{{ID: "n-1"}, {ID: "n-2", IsRead: true}}, nil)
	uc.EXPECT().UnreadCount(gomock.Any(), designer).Return(1, nil)

	w := doJSON(notificationRouter(uc), http.MethodGet, "/api/notifications?limit=5", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	data, _ := decodeBody(t, w)["data"].(map[string]any)
	list, _ := data["notifications"].([]any)
	if len(list) != 2 || data["unreadCount"] != float64(1) {
		t.Fatalf("unexpected data %v", data)
	}
}

func TestNotificationHandler_InvalidLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	uc := mocks.NewMockINotificationUseCase(ctrl)

	w := doJSON(notificationRouter(uc), http.MethodGet, "/api/notifications?limit=0x", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestNotificationHandler_Update(t *testing.T) {
	t.Run("mark_read requires id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockINotificationUseCase(ctrl)

		w := doJSON(notificationRouter(uc), http.MethodPut, "/api/notifications", `{"action":"mark_read"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("mark_read", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockINotificationUseCase(ctrl)
		uc.EXPECT().MarkRead(gomock.Any(), designer, "n-1").Return(nil)

		w := doJSON(notificationRouter(uc), http.MethodPut, "/api/notifications?id=n-1", `{"action":"mark_read"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("mark_all_read", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockINotificationUseCase(ctrl)
		uc.EXPECT().MarkAllRead(gomock.Any(), designer).Return(3, nil)

		w := doJSON(notificationRouter(uc), http.MethodPut, "/api/notifications", `{"action":"mark_all_read"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		data, _ := decodeBody(t, w)["data"].(map[string]any)
		if data["marked"] != float64(3) {
			t.Fatalf("unexpected data %v", data)
		}
	})

	t.Run("unknown action", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockINotificationUseCase(ctrl)

		w := doJSON(notificationRouter(uc), http.MethodPut, "/api/notifications", `{"action":"archive"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}

func TestNotificationHandler_DeleteNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	uc := mocks.NewMockINotificationUseCase(ctrl)
	uc.EXPECT().Delete(gomock.Any(), designer, "n-9").Return(usecase.ErrNotificationNotFound)

	w := doJSON(notificationRouter(uc), http.MethodDelete, "/api/notifications?id=n-9", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
