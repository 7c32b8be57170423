package usecase

import (
	"context"
	"errors"
	"testing"

	"studioflow/internal/domain/entities"
	"studioflow/internal/usecase/interfaces"
	mock_interfaces "studioflow/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func TestAuthUseCase_Authenticate(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	verifier := mock_interfaces.NewMockITokenVerifier(ctrl)
	w := newWorld(t, nil)

	suspended := entities.User{UID: "des-9", Email: "gone@studio.test", Name: "Gone", Role: entities.RoleDesigner, Status: entities.UserStatusSuspended}
	if _, err := w.store.Users().Create(ctx, suspended); err != nil {
		t.Fatalf("seed: %v", err)
	}
	uc := NewAuthUseCase(verifier, w.store.Users())

	t.Run("empty bearer", func(t *testing.T) {
		if _, err := uc.Authenticate(ctx, "  "); !errors.Is(err, ErrUnauthenticated) {
			t.Fatalf("expected ErrUnauthenticated, got %v", err)
		}
	})

	t.Run("rejected token", func(t *testing.T) {
		verifier.EXPECT().Verify(gomock.Any(), "bad").Return(interfaces.TokenClaims{}, errors.New("token is expired"))
		if _, err := uc.Authenticate(ctx, "bad"); !errors.Is(err, ErrUnauthenticated) {
			t.Fatalf("expected ErrUnauthenticated, got %v", err)
		}
	})

	t.Run("unknown uid", func(t *testing.T) {
		verifier.EXPECT().Verify(gomock.Any(), "stranger").Return(interfaces.TokenClaims{UID: "nobody"}, nil)
		if _, err := uc.Authenticate(ctx, "stranger"); !errors.Is(err, ErrUnauthenticated) {
			t.Fatalf("expected ErrUnauthenticated, got %v", err)
		}
	})

	t.Run("inactive account", func(t *testing.T) {
		verifier.EXPECT().Verify(gomock.Any(), "suspended").Return(interfaces.TokenClaims{UID: suspended.UID}, nil)
		if _, err := uc.Authenticate(ctx, "suspended"); !errors.Is(err, ErrAccountInactive) {
			t.Fatalf("expected ErrAccountInactive, got %v", err)
		}
	})

	t.Run("active account", func(t *testing.T) {
		verifier.EXPECT().Verify(gomock.Any(), "good").Return(interfaces.TokenClaims{UID: lead.UID, Email: lead.Email}, nil)
		got, err := uc.Authenticate(ctx, " good ")
		if err != nil {
			t.Fatalf("authenticate: %v", err)
		}
		if got.UID != lead.UID || got.Role != entities.RoleDesignLead {
			t.Fatalf("unexpected user: %+v", got)
		}
	})
}

func TestAuthUseCase_NoVerifier(t *testing.T) {
	w := newWorld(t, nil)
	uc := NewAuthUseCase(nil, w.store.Users())
	if _, err := uc.Authenticate(context.Background(), "anything"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated without a verifier, got %v", err)
	}
}
