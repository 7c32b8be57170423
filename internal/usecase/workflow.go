package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"studioflow/internal/domain/entities"
	"studioflow/internal/validation"
)

// Change is the working state of one transition: the entity being modified plus what should
// happen once the write lands.
type Change[E any] struct {
	Ctx     context.Context
	Actor   entities.User
	Entity  *E
	Now     time.Time
	Note    string
	Effects Effects

	commit   func(ctx context.Context, e E) (E, error)
	onCommit []func(saved E)
	onAbort  []func()
}

// CommitWith replaces the default single-document write, for transitions that must update
// several documents atomically.
func (c *Change[E]) CommitWith(fn func(ctx context.Context, e E) (E, error)) {
	c.commit = fn
}

// OnCommit registers work that only makes sense once the write succeeded.
func (c *Change[E]) OnCommit(fn func(saved E)) {
	c.onCommit = append(c.onCommit, fn)
}

// OnAbort registers compensation for reservations taken before the write.
func (c *Change[E]) OnAbort(fn func()) {
	c.onAbort = append(c.onAbort, fn)
}

type transition[E any] interface {
	roles() entities.RoleSet
	run(c *Change[E], raw json.RawMessage, v *validation.Validator) error
}

type step[E, P any] struct {
	allowed entities.RoleSet
	apply   func(c *Change[E], p P) error
}

// on declares a transition open to the given roles, taking a payload of type P. The payload is
// decoded from the request data and validated through its `validate` tags before apply runs.
func on[E, P any](allowed entities.RoleSet, apply func(c *Change[E], p P) error) transition[E] {
	return step[E, P]{allowed: allowed, apply: apply}
}

func (s step[E, P]) roles() entities.RoleSet {
	return s.allowed
}

func (s step[E, P]) run(c *Change[E], raw json.RawMessage, v *validation.Validator) error {
	var p P
	if err := decodePayload(raw, &p, v); err != nil {
		return err
	}
	return s.apply(c, p)
}

// none is the payload of actions that carry no data.
type none struct{}

// machine is the closed set of actions available on one entity type.
type machine[E any, A ~string] map[A]transition[E]

func (m machine[E, A]) lookup(action A, actor entities.User) (transition[E], error) {
	t, ok := m[action]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	if !t.roles().Allows(actor.Role) {
		return nil, forbidden(t.roles())
	}
	return t, nil
}

// Actions lists the action names of the machine.
func (m machine[E, A]) Actions() []A {
	out := make([]A, 0, len(m))
	for a := range m {
		out = append(out, a)
	}
	return out
}

type applyRequest[E any, A ~string] struct {
	Machine machine[E, A]
	Action  A
	Actor   entities.User
	Data    json.RawMessage
	Load    func(ctx context.Context) (E, error)
	Save    func(ctx context.Context, e E) (E, error)
	// Finish runs after the transition and before the write.
	Finish func(c *Change[E], before E) error
}

// apply runs the shared transition pipeline: role check, fetch, payload validation, transition,
// conditional write, side effects.
func apply[E any, A ~string](ctx context.Context, v *validation.Validator, fx ISideEffects, req applyRequest[E, A]) (E, error) {
	var zero E
	t, err := req.Machine.lookup(req.Action, req.Actor)
	if err != nil {
		return zero, err
	}

	current, err := req.Load(ctx)
	if err != nil {
		return zero, err
	}

	next := current
	c := &Change[E]{Ctx: ctx, Actor: req.Actor, Entity: &next, Now: time.Now().UTC()}
	if err := t.run(c, req.Data, v); err != nil {
		return zero, err
	}
	if req.Finish != nil {
		if err := req.Finish(c, current); err != nil {
			return zero, err
		}
	}

	save := req.Save
	if c.commit != nil {
		save = c.commit
	}
	saved, err := save(ctx, next)
	if err != nil {
		for _, fn := range c.onAbort {
			fn()
		}
		return zero, err
	}
	for _, fn := range c.onCommit {
		fn(saved)
	}
	if fx != nil {
		fx.Dispatch(ctx, req.Actor, c.Effects)
	}
	return saved, nil
}

func decodePayload(raw json.RawMessage, dst any, v *validation.Validator) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		if err := json.Unmarshal(trimmed, dst); err != nil {
			return invalid("data: " + err.Error())
		}
	}
	return validate(v, dst)
}

func validate(v *validation.Validator, s any) error {
	if v == nil {
		return nil
	}
	if err := v.Struct(s); err != nil {
		if fields := v.Fields(err); fields != nil {
			return &ValidationError{Fields: fields}
		}
		return invalid(err.Error())
	}
	return nil
}

func requireRole(actor entities.User, allowed entities.RoleSet) error {
	if !allowed.Allows(actor.Role) {
		return forbidden(allowed)
	}
	return nil
}
