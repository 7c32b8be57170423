package usecase

import (
	"context"
	"log"
	"strings"

	"studioflow/internal/domain/entities"
	"studioflow/internal/usecase/interfaces"
)

// IAuthUseCase resolves a bearer token to the calling user.
type IAuthUseCase interface {
	Authenticate(ctx context.Context, bearer string) (entities.User, error)
}

type AuthUseCase struct {
	verifier interfaces.ITokenVerifier
	users    interfaces.IUserRepository
}

var _ IAuthUseCase = (*AuthUseCase)(nil)

func NewAuthUseCase(verifier interfaces.ITokenVerifier, users interfaces.IUserRepository) *AuthUseCase {
	return &AuthUseCase{verifier: verifier, users: users}
}

func (u *AuthUseCase) Authenticate(ctx context.Context, bearer string) (entities.User, error) {
	token := strings.TrimSpace(bearer)
	if token == "" {
		return entities.User{}, ErrUnauthenticated
	}
	if u.verifier == nil {
		log.Printf("[auth][usecase] no token verifier configured")
		return entities.User{}, ErrUnauthenticated
	}

	claims, err := u.verifier.Verify(ctx, token)
	if err != nil {
		log.Printf("[auth][usecase] token rejected err=%v", err)
		return entities.User{}, ErrUnauthenticated
	}

	user, err := u.users.GetByID(ctx, claims.UID)
	if err != nil {
		return entities.User{}, err
	}
	if user.UID == "" {
		log.Printf("[auth][usecase] unknown uid=%s", claims.UID)
		return entities.User{}, ErrUnauthenticated
	}
	if !user.Active() {
		log.Printf("[auth][usecase] inactive account uid=%s status=%s", user.UID, user.Status)
		return entities.User{}, ErrAccountInactive
	}
	return user, nil
}
