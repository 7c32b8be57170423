package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"studioflow/internal/domain/entities"
)

func seedNotification(t *testing.T, w *world, n entities.Notification) {
	t.Helper()
	if n.Priority == "" {
		n.Priority = entities.PriorityNormal
	}
	if _, err := w.store.Notifications().Create(context.Background(), n); err != nil {
		t.Fatalf("seed notification %s: %v", n.ID, err)
	}
}

func TestNotificationUseCase_ListMergesRoleAndPersonal(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t, nil)
	uc := NewNotificationUseCase(w.store.Notifications())
	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	seedNotification(t, w, entities.Notification{ID: "n-role", RecipientRole: entities.RoleCOO, Type: "proposal_estimated", CreatedAt: base})
	seedNotification(t, w, entities.Notification{ID: "n-mine", RecipientUID: cooUser.UID, Type: "time_request_info_provided", CreatedAt: base.Add(time.Hour)})
	seedNotification(t, w, entities.Notification{ID: "n-other", RecipientUID: director.UID, Type: "invoice_paid", CreatedAt: base.Add(2 * time.Hour)})
	seedNotification(t, w, entities.Notification{ID: "n-accounts", RecipientRole: entities.RoleAccounts, Type: "invoice_overdue", CreatedAt: base.Add(3 * time.Hour)})

	list, err := uc.List(ctx, cooUser, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != "n-mine" || list[1].ID != "n-role" {
		t.Fatalf("expected personal then role notification, got %+v", list)
	}
	for _, n := range list {
		if n.IsRead || n.ReadBy != nil {
			t.Fatalf("unexpected read state: %+v", n)
		}
	}

	limited, _ := uc.List(ctx, cooUser, 1)
	if len(limited) != 1 || limited[0].ID != "n-mine" {
		t.Fatalf("expected the newest notification only, got %+v", limited)
	}

	unread, err := uc.UnreadCount(ctx, cooUser)
	if err != nil || unread != 2 {
		t.Fatalf("expected 2 unread, got %d %v", unread, err)
	}
}

func TestNotificationUseCase_RoleReadState(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t, nil)
	uc := NewNotificationUseCase(w.store.Notifications())
	secondCOO := entities.User{UID: "coo-2", Name: "Caio", Role: entities.RoleCOO, Status: entities.UserStatusActive}

	seedNotification(t, w, entities.Notification{ID: "n-role", RecipientRole: entities.RoleCOO, Type: "proposal_estimated", CreatedAt: time.Now().UTC()})

	if err := uc.MarkRead(ctx, cooUser, "n-role"); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	mine, _ := uc.List(ctx, cooUser, 0)
	theirs, _ := uc.List(ctx, secondCOO, 0)
	if !mine[0].IsRead {
		t.Fatalf("expected read for the reader")
	}
	if theirs[0].IsRead {
		t.Fatalf("a role notification read by one holder stays unread for the others")
	}

	stored, _ := w.store.Notifications().GetByID(ctx, "n-role")
	if len(stored.ReadBy) != 1 || stored.ReadBy[0] != cooUser.UID || stored.IsRead {
		t.Fatalf("unexpected stored read state: %+v", stored)
	}

	if err := uc.MarkRead(ctx, cooUser, "n-role"); err != nil {
		t.Fatalf("second mark read: %v", err)
	}
	stored, _ = w.store.Notifications().GetByID(ctx, "n-role")
	if len(stored.ReadBy) != 1 {
		t.Fatalf("readBy must not hold duplicates: %+v", stored.ReadBy)
	}
}

func TestNotificationUseCase_MarkAllRead(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t, nil)
	uc := NewNotificationUseCase(w.store.Notifications())
	now := time.Now().UTC()

	seedNotification(t, w, entities.Notification{ID: "n-1", RecipientUID: designer.UID, CreatedAt: now})
	seedNotification(t, w, entities.Notification{ID: "n-2", RecipientUID: designer.UID, IsRead: true, CreatedAt: now})
	seedNotification(t, w, entities.Notification{ID: "n-3", RecipientRole: entities.RoleDesigner, CreatedAt: now})

	marked, err := uc.MarkAllRead(ctx, designer)
	if err != nil {
		t.Fatalf("mark all read: %v", err)
	}
	if marked != 2 {
		t.Fatalf("expected 2 marked, got %d", marked)
	}
	if unread, _ := uc.UnreadCount(ctx, designer); unread != 0 {
		t.Fatalf("expected nothing unread, got %d", unread)
	}
	if unread, _ := uc.UnreadCount(ctx, outsider); unread != 1 {
		t.Fatalf("the role notice stays unread for other designers, got %d", unread)
	}
}

func TestNotificationUseCase_Delete(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t, nil)
	uc := NewNotificationUseCase(w.store.Notifications())
	now := time.Now().UTC()

	seedNotification(t, w, entities.Notification{ID: "n-mine", RecipientUID: designer.UID, CreatedAt: now})
	seedNotification(t, w, entities.Notification{ID: "n-role", RecipientRole: entities.RoleDesigner, CreatedAt: now})

	if err := uc.Delete(ctx, outsider, "n-mine"); !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("expected someone else's notification to be invisible, got %v", err)
	}
	if err := uc.Delete(ctx, cooUser, "n-role"); !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("expected another role's notification to be invisible, got %v", err)
	}
	if err := uc.Delete(ctx, designer, " "); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}

	if err := uc.Delete(ctx, designer, "n-mine"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n, _ := w.store.Notifications().GetByID(ctx, "n-mine"); n.ID != "" {
		t.Fatalf("personal notification should be gone")
	}

	if err := uc.Delete(ctx, designer, "n-role"); err != nil {
		t.Fatalf("dismiss: %v", err)
	}
	n, _ := w.store.Notifications().GetByID(ctx, "n-role")
	if n.ID == "" || !n.DismissedFor(designer.UID) || n.DismissedFor(outsider.UID) || n.ReadFor(designer.UID) {
		t.Fatalf("unexpected stored dismissal state: %+v", n)
	}

	mine, err := uc.List(ctx, designer, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(mine) != 0 {
		t.Fatalf("expected the dismissed role notice to be hidden, got %+v", mine)
	}
	if unread, _ := uc.UnreadCount(ctx, designer); unread != 0 {
		t.Fatalf("expected a dismissed notice not to count as unread, got %d", unread)
	}
	theirs, _ := uc.List(ctx, outsider, 0)
	if len(theirs) != 1 || theirs[0].ID != "n-role" || theirs[0].IsRead || theirs[0].DismissedBy != nil {
		t.Fatalf("other holders still see the role notice unread, got %+v", theirs)
	}

	if err := uc.MarkRead(ctx, designer, "n-role"); !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("expected a dismissed notice to be invisible, got %v", err)
	}
	if marked, _ := uc.MarkAllRead(ctx, designer); marked != 0 {
		t.Fatalf("expected nothing to mark after dismissal, got %d", marked)
	}
}

func TestNotificationUseCase_ReadIsNotDismissal(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t, nil)
	uc := NewNotificationUseCase(w.store.Notifications())

	seedNotification(t, w, entities.Notification{ID: "n-role", RecipientRole: entities.RoleDesigner, CreatedAt: time.Now().UTC()})

	if err := uc.MarkRead(ctx, designer, "n-role"); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	list, _ := uc.List(ctx, designer, 0)
	if len(list) != 1 || !list[0].IsRead {
		t.Fatalf("a read role notice stays listed as read, got %+v", list)
	}
	if err := uc.Delete(ctx, designer, "n-role"); err != nil {
		t.Fatalf("dismiss after read: %v", err)
	}
	if list, _ = uc.List(ctx, designer, 0); len(list) != 0 {
		t.Fatalf("expected the notice to be hidden after dismissal, got %+v", list)
	}
}
