package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"studioflow/internal/domain/entities"
	"studioflow/internal/usecase/interfaces"
	mock_interfaces "studioflow/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func TestEffects_NotifyUserSkipsBlankRecipients(t *testing.T) {
	var fx Effects
	fx.NotifyUser("  ", "x", "y", entities.PriorityNormal, nil)
	fx.NotifyUser("des-1", "x", "y", entities.PriorityNormal, nil)
	if len(fx.Notices) != 1 || fx.Notices[0].UID != "des-1" {
		t.Fatalf("unexpected notices: %+v", fx.Notices)
	}
}

func TestEffects_LogKeepsOneActivity(t *testing.T) {
	var fx Effects
	fx.Log("invoice_sent", "first", nil)
	fx.Log("invoice_paid", "second", nil)
	if fx.Activity == nil || fx.Activity.Type != "invoice_paid" || fx.Activity.Details != "second" {
		t.Fatalf("expected the last logged activity, got %+v", fx.Activity)
	}
}

func TestSideEffectDispatcher_Dispatch(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mailer := mock_interfaces.NewMockIMailer(ctrl)
	w := newWorld(t, mailer)

	var fx Effects
	fx.Log("invoice_paid", "Invoice INV-000001 marked paid", map[string]string{"invoiceId": "inv-1"})
	fx.NotifyRole(entities.RoleDirector, "invoice_paid", "paid", "", nil)
	fx.NotifyUser(designer.UID, "invoice_paid", "paid", entities.PriorityHigh, nil)
	fx.NotifyUser("", "invoice_paid", "nobody", entities.PriorityHigh, nil)
	fx.Email(entities.EmailEvent{
		Event:     "invoice_paid",
		ToRoles:   []entities.Role{entities.RoleAccounts},
		ToUIDs:    []string{accounts.UID, designer.UID, "ghost"},
		ToAddress: []string{"ACC@studio.test", "client@harbour.test"},
		Data:      map[string]string{"invoiceNumber": "INV-000001"},
	})

	mailer.EXPECT().Send(gomock.Any(), "invoice_paid", gomock.Any(), map[string]string{"invoiceNumber": "INV-000001"}).DoAndReturn(
		func(_ context.Context, _ string, to []interfaces.Recipient, _ map[string]string) (string, error) {
			if len(to) != 3 {
				t.Fatalf("expected 3 deduplicated recipients, got %+v", to)
			}
			want := []string{accounts.Email, designer.Email, "client@harbour.test"}
			for i, r := range to {
				if r.Email != want[i] {
					t.Fatalf("recipient %d: expected %s, got %s", i, want[i], r.Email)
				}
			}
			return "msg-1", nil
		},
	)

	w.effects.Dispatch(ctx, accounts, fx)

	acts, _ := w.store.Activities().ListRecent(ctx, 10)
	if len(acts) != 1 {
		t.Fatalf("expected one activity, got %d", len(acts))
	}
	a := acts[0]
	if a.ID == "" || a.Type != "invoice_paid" || a.ActorUID != accounts.UID || a.ActorName != accounts.Name || a.ActorRole != entities.RoleAccounts || a.Timestamp.IsZero() {
		t.Fatalf("unexpected activity: %+v", a)
	}

	delivered, _ := w.store.Outbox().ListByStatus(ctx, entities.OutboxDelivered, 10)
	if len(delivered) != 3 {
		t.Fatalf("expected 2 notices and 1 email delivered, got %d", len(delivered))
	}
	for _, ev := range delivered {
		if ev.Attempts != 1 || ev.LastError != "" {
			t.Fatalf("unexpected outbox event: %+v", ev)
		}
	}

	roleNotes, _ := w.store.Notifications().ListByRole(ctx, entities.RoleDirector)
	if len(roleNotes) != 1 || roleNotes[0].Priority != entities.PriorityNormal {
		t.Fatalf("expected one director notice with default priority, got %+v", roleNotes)
	}
	if n, _ := w.store.Notifications().GetByID(ctx, roleNotes[0].ID); n.ID == "" {
		t.Fatalf("notification id should be readable back")
	}
}

func TestSideEffectDispatcher_SkipsInactiveRecipients(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mailer := mock_interfaces.NewMockIMailer(ctrl)
	w := newWorld(t, mailer)

	gone := entities.User{UID: "acc-2", Email: "gone@studio.test", Name: "Gone", Role: entities.RoleAccounts, Status: entities.UserStatusInactive}
	if _, err := w.store.Users().Create(ctx, gone); err != nil {
		t.Fatalf("seed: %v", err)
	}

	mailer.EXPECT().Send(gomock.Any(), "payment_delayed", gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, to []interfaces.Recipient, _ map[string]string) (string, error) {
			if len(to) != 1 || to[0].Email != accounts.Email {
				t.Fatalf("inactive accounts user must not be mailed: %+v", to)
			}
			return "msg-2", nil
		},
	)

	var fx Effects
	fx.Email(entities.EmailEvent{Event: "payment_delayed", ToRoles: []entities.Role{entities.RoleAccounts}, ToUIDs: []string{gone.UID}})
	w.effects.Dispatch(ctx, SystemActor, fx)
}

func TestSideEffectDispatcher_NoRecipientsIsDelivered(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mailer := mock_interfaces.NewMockIMailer(ctrl)
	w := newWorld(t, mailer)

	var fx Effects
	fx.Email(entities.EmailEvent{Event: "project_allocated", ToUIDs: []string{"ghost"}})
	w.effects.Dispatch(ctx, cooUser, fx)

	delivered, _ := w.store.Outbox().ListByStatus(ctx, entities.OutboxDelivered, 10)
	if len(delivered) != 1 {
		t.Fatalf("an email without recipients should not stay on the outbox, got %d delivered", len(delivered))
	}
}

func TestSideEffectDispatcher_Replay(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mailer := mock_interfaces.NewMockIMailer(ctrl)
	w := newWorld(t, mailer)

	gomock.InOrder(
		mailer.EXPECT().Send(gomock.Any(), "invoice_overdue", gomock.Any(), gomock.Any()).Return("", errors.New("brevo: 503")),
		mailer.EXPECT().Send(gomock.Any(), "invoice_overdue", gomock.Any(), gomock.Any()).Return("msg-3", nil),
	)

	var fx Effects
	fx.NotifyRole(entities.RoleAccounts, "invoice_overdue", "late", entities.PriorityHigh, nil)
	fx.Email(entities.EmailEvent{Event: "invoice_overdue", ToRoles: []entities.Role{entities.RoleAccounts}})
	w.effects.Dispatch(ctx, SystemActor, fx)

	failed, _ := w.store.Outbox().ListByStatus(ctx, entities.OutboxFailed, 10)
	if len(failed) != 1 || failed[0].Kind != entities.OutboxEmail || failed[0].LastError != "brevo: 503" || failed[0].Attempts != 1 {
		t.Fatalf("expected the email to be parked as failed, got %+v", failed)
	}
	if notes, _ := w.store.Notifications().ListByRole(ctx, entities.RoleAccounts); len(notes) != 1 {
		t.Fatalf("notification delivery must not depend on email, got %d", len(notes))
	}

	res, err := w.effects.Replay(ctx, 0)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if res.Attempted != 1 || res.Delivered != 1 || res.Failed != 0 {
		t.Fatalf("unexpected replay result: %+v", res)
	}

	ev, _ := w.store.Outbox().ListByStatus(ctx, entities.OutboxDelivered, 10)
	attempts := 0
	for _, e := range ev {
		if e.Kind == entities.OutboxEmail {
			attempts = e.Attempts
		}
	}
	if attempts != 2 {
		t.Fatalf("expected the email to be delivered on its second attempt, got %d", attempts)
	}

	res, err = w.effects.Replay(ctx, 10)
	if err != nil || res.Attempted != 0 {
		t.Fatalf("nothing left to replay: %+v %v", res, err)
	}
}

func TestSideEffectDispatcher_ReplayIsIdempotentForNotices(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t, nil)
	now := time.Now().UTC()

	notice := entities.Notice{UID: designer.UID, Type: "designer_assigned", Message: "assigned", Priority: entities.PriorityNormal}
	if _, err := w.store.Outbox().Create(ctx, entities.OutboxEvent{ID: "ev-1", Kind: entities.OutboxNotification, Notice: &notice, Status: entities.OutboxPending, CreatedAt: now}); err != nil {
		t.Fatalf("seed outbox: %v", err)
	}
	if _, err := w.store.Notifications().Create(ctx, entities.Notification{ID: "ev-1", RecipientUID: designer.UID, Type: notice.Type, Message: notice.Message, CreatedAt: now}); err != nil {
		t.Fatalf("seed notification: %v", err)
	}

	res, err := w.effects.Replay(ctx, 10)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if res.Delivered != 1 {
		t.Fatalf("an already written notice counts as delivered, got %+v", res)
	}
	notes, _ := w.store.Notifications().ListByUID(ctx, designer.UID)
	if len(notes) != 1 {
		t.Fatalf("replay must not duplicate the notice, got %d", len(notes))
	}
}
