package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"studioflow/internal/domain/entities"
	"studioflow/internal/usecase/interfaces"
	"studioflow/internal/validation"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrSelfDemotion      = errors.New("directors cannot change their own role or status")
)

type UserAction string

const (
	UserUpdateRole UserAction = "update_role"
	UserSetStatus  UserAction = "set_status"
)

type NewUser struct {
	UID   string        `json:"uid" validate:"required"`
	Email string        `json:"email" validate:"required,email"`
	Name  string        `json:"name" validate:"required"`
	Role  entities.Role `json:"role" validate:"required,role"`
}

// IUserUseCase manages the account records bearer tokens resolve to.
type IUserUseCase interface {
	Me(ctx context.Context, actor entities.User) (entities.User, error)
	Get(ctx context.Context, actor entities.User, uid string) (entities.User, error)
	List(ctx context.Context, actor entities.User, role entities.Role) ([]entities.User, error)
	Create(ctx context.Context, actor entities.User, in NewUser) (entities.User, error)
	Apply(ctx context.Context, actor entities.User, uid string, action UserAction, data json.RawMessage) (entities.User, error)
}

type UserUseCase struct {
	users     interfaces.IUserRepository
	effects   ISideEffects
	validator *validation.Validator
	machine   machine[entities.User, UserAction]
}

var _ IUserUseCase = (*UserUseCase)(nil)

var (
	userReaders  = entities.Elevated.With(entities.RoleDesignLead, entities.RoleBDM, entities.RoleAccounts)
	userCreators = entities.Elevated
)

func NewUserUseCase(users interfaces.IUserRepository, effects ISideEffects, v *validation.Validator) *UserUseCase {
	u := &UserUseCase{users: users, effects: effects, validator: v}
	u.machine = machine[entities.User, UserAction]{
		UserUpdateRole: on(entities.Roles(entities.RoleDirector), u.updateRole),
		UserSetStatus:  on(entities.Roles(entities.RoleDirector), u.setStatus),
	}
	return u
}

func (u *UserUseCase) Me(ctx context.Context, actor entities.User) (entities.User, error) {
	return actor, nil
}

func (u *UserUseCase) Get(ctx context.Context, actor entities.User, uid string) (entities.User, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return entities.User{}, ErrInvalidID
	}
	if uid != actor.UID {
		if err := requireRole(actor, userReaders); err != nil {
			return entities.User{}, err
		}
	}
	return u.load(ctx, uid)
}

func (u *UserUseCase) List(ctx context.Context, actor entities.User, role entities.Role) ([]entities.User, error) {
	if err := requireRole(actor, userReaders); err != nil {
		return nil, err
	}

	var (
		list []entities.User
		err  error
	)
	if role != "" {
		if !role.Valid() {
			return nil, invalid(fmt.Sprintf("unknown role %q", role))
		}
		list, err = u.users.ListByRole(ctx, role)
	} else {
		list, err = u.users.List(ctx)
	}
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (u *UserUseCase) Create(ctx context.Context, actor entities.User, in NewUser) (entities.User, error) {
	if err := requireRole(actor, userCreators); err != nil {
		return entities.User{}, err
	}
	in.UID = strings.TrimSpace(in.UID)
	in.Email = strings.TrimSpace(in.Email)
	if err := validate(u.validator, &in); err != nil {
		return entities.User{}, err
	}

	now := time.Now().UTC()
	created, err := u.users.Create(ctx, entities.User{
		UID:       in.UID,
		Email:     in.Email,
		Name:      strings.TrimSpace(in.Name),
		Role:      in.Role,
		Status:    entities.UserStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if errors.Is(err, interfaces.ErrConflict) {
		return entities.User{}, ErrUserAlreadyExists
	}
	if err != nil {
		return entities.User{}, err
	}

	var fx Effects
	fx.Log("user_created", fmt.Sprintf("%s joined as %s", created.Name, created.Role), map[string]string{"userId": created.UID})
	u.effects.Dispatch(ctx, actor, fx)
	return created, nil
}

func (u *UserUseCase) Apply(ctx context.Context, actor entities.User, uid string, action UserAction, data json.RawMessage) (entities.User, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return entities.User{}, ErrInvalidID
	}
	return apply(ctx, u.validator, u.effects, applyRequest[entities.User, UserAction]{
		Machine: u.machine,
		Action:  action,
		Actor:   actor,
		Data:    data,
		Load:    func(ctx context.Context) (entities.User, error) { return u.load(ctx, uid) },
		Save:    u.users.Update,
		Finish: func(c *Change[entities.User], _ entities.User) error {
			c.Entity.UpdatedAt = c.Now
			return nil
		},
	})
}

type updateRolePayload struct {
	Role entities.Role `json:"role" validate:"required,role"`
}

func (u *UserUseCase) updateRole(c *Change[entities.User], p updateRolePayload) error {
	if c.Entity.UID == c.Actor.UID {
		return ErrSelfDemotion
	}
	from := c.Entity.Role
	c.Entity.Role = p.Role
	c.Effects.Log("user_role_changed", fmt.Sprintf("%s: %s -> %s", c.Entity.Name, from, p.Role), map[string]string{"userId": c.Entity.UID})
	c.Effects.NotifyUser(c.Entity.UID, "role_changed", fmt.Sprintf("Your role is now %s", p.Role), entities.PriorityNormal, nil)
	return nil
}

type setStatusPayload struct {
	Status entities.UserStatus `json:"status" validate:"required,oneof=active inactive suspended"`
}

func (u *UserUseCase) setStatus(c *Change[entities.User], p setStatusPayload) error {
	if c.Entity.UID == c.Actor.UID {
		return ErrSelfDemotion
	}
	c.Entity.Status = p.Status
	c.Effects.Log("user_status_changed", fmt.Sprintf("%s is now %s", c.Entity.Name, p.Status), map[string]string{"userId": c.Entity.UID})
	return nil
}

func (u *UserUseCase) load(ctx context.Context, uid string) (entities.User, error) {
	user, err := u.users.GetByID(ctx, uid)
	if err != nil {
		return entities.User{}, err
	}
	if user.UID == "" {
		return entities.User{}, ErrUserNotFound
	}
	return user, nil
}
