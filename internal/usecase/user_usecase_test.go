package usecase

import (
	"context"
	"errors"
	"testing"

	"studioflow/internal/domain/entities"
)

func TestUserUseCase_Create(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t, nil)
	uc := NewUserUseCase(w.store.Users(), w.effects, w.v)

	if _, err := uc.Create(ctx, lead, NewUser{UID: "des-3", Email: "d3@studio.test", Name: "Dora", Role: entities.RoleDesigner}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	_, err := uc.Create(ctx, cooUser, NewUser{UID: "des-3", Email: "not-an-email", Name: "Dora", Role: "wizard"})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected a validation error, got %v", err)
	}
	if _, ok := ve.Fields["email"]; !ok {
		t.Fatalf("expected an email field error, got %+v", ve.Fields)
	}
	if _, ok := ve.Fields["role"]; !ok {
		t.Fatalf("expected a role field error, got %+v", ve.Fields)
	}

	u, err := uc.Create(ctx, cooUser, NewUser{UID: " des-3 ", Email: "d3@studio.test", Name: " Dora ", Role: entities.RoleDesigner})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.UID != "des-3" || u.Name != "Dora" || u.Status != entities.UserStatusActive {
		t.Fatalf("unexpected user: %+v", u)
	}

	if _, err := uc.Create(ctx, director, NewUser{UID: "des-3", Email: "d3@studio.test", Name: "Dora", Role: entities.RoleDesigner}); !errors.Is(err, ErrUserAlreadyExists) {
		t.Fatalf("expected ErrUserAlreadyExists, got %v", err)
	}
}

func TestUserUseCase_Read(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t, nil)
	uc := NewUserUseCase(w.store.Users(), w.effects, w.v)

	me, err := uc.Me(ctx, designer)
	if err != nil || me.UID != designer.UID {
		t.Fatalf("me: %+v %v", me, err)
	}
	if got, err := uc.Get(ctx, designer, designer.UID); err != nil || got.Email != designer.Email {
		t.Fatalf("anyone reads their own record: %+v %v", got, err)
	}
	if _, err := uc.Get(ctx, designer, lead.UID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := uc.Get(ctx, lead, "ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	designers, err := uc.List(ctx, lead, entities.RoleDesigner)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(designers) != 2 || designers[0].Name != "Dani" || designers[1].Name != "Duda" {
		t.Fatalf("expected designers sorted by name, got %+v", designers)
	}
	if _, err := uc.List(ctx, lead, "wizard"); !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}
	if _, err := uc.List(ctx, estimator, ""); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	all, _ := uc.List(ctx, director, "")
	if len(all) != 10 {
		t.Fatalf("expected every seeded user, got %d", len(all))
	}
}

func TestUserUseCase_Apply(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t, nil)
	uc := NewUserUseCase(w.store.Users(), w.effects, w.v)

	if _, err := uc.Apply(ctx, cooUser, designer.UID, UserUpdateRole, raw(`{"role":"design_lead"}`)); !errors.Is(err, ErrForbidden) {
		t.Fatalf("only directors change roles, got %v", err)
	}
	if _, err := uc.Apply(ctx, director, director.UID, UserUpdateRole, raw(`{"role":"designer"}`)); !errors.Is(err, ErrSelfDemotion) {
		t.Fatalf("expected ErrSelfDemotion, got %v", err)
	}
	if _, err := uc.Apply(ctx, director, director.UID, UserSetStatus, raw(`{"status":"inactive"}`)); !errors.Is(err, ErrSelfDemotion) {
		t.Fatalf("expected ErrSelfDemotion, got %v", err)
	}
	if _, err := uc.Apply(ctx, director, designer.UID, UserSetStatus, raw(`{"status":"gone"}`)); !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}
	if _, err := uc.Apply(ctx, director, " ", UserSetStatus, raw(`{"status":"inactive"}`)); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}

	promoted, err := uc.Apply(ctx, director, designer.UID, UserUpdateRole, raw(`{"role":"design_lead"}`))
	if err != nil || promoted.Role != entities.RoleDesignLead {
		t.Fatalf("update role: %+v %v", promoted, err)
	}
	notes, _ := w.store.Notifications().ListByUID(ctx, designer.UID)
	if len(notes) != 1 || notes[0].Type != "role_changed" {
		t.Fatalf("expected a role_changed notice, got %+v", notes)
	}

	suspended, err := uc.Apply(ctx, director, designer.UID, UserSetStatus, raw(`{"status":"suspended"}`))
	if err != nil || suspended.Active() {
		t.Fatalf("set status: %+v %v", suspended, err)
	}
	stored, _ := w.store.Users().GetByID(ctx, designer.UID)
	if stored.Status != entities.UserStatusSuspended || stored.Role != entities.RoleDesignLead {
		t.Fatalf("unexpected stored user: %+v", stored)
	}
}
