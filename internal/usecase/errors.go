package usecase

import (
	"errors"
	"fmt"

	"studioflow/internal/domain/entities"
	"studioflow/internal/usecase/interfaces"
)

var (
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrAccountInactive   = errors.New("account is not active")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidID         = errors.New("invalid id")
	ErrUnknownAction     = errors.New("unknown action")
	ErrInvalidPayload    = errors.New("invalid payload")
	ErrConflict          = interfaces.ErrConflict
	ErrInvalidState      = errors.New("action not allowed in current state")
	ErrExceedsAllocation = errors.New("hours exceed allocation")
)

// ForbiddenError names the roles an operation is open to.
type ForbiddenError struct {
	Required entities.RoleSet
	Reason   string
}

func (e *ForbiddenError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return fmt.Sprintf("requires role: %s", e.Required)
}

func (e *ForbiddenError) Is(target error) bool {
	return target == ErrForbidden
}

func forbidden(required entities.RoleSet) error {
	return &ForbiddenError{Required: required}
}

func forbiddenBecause(reason string) error {
	return &ForbiddenError{Reason: reason}
}

// ValidationError lists the payload fields that failed validation.
type ValidationError struct {
	Fields map[string]string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return fmt.Sprintf("invalid payload: %v", e.Fields)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidPayload
}

func invalid(reason string) error {
	return &ValidationError{Reason: reason}
}

// StateError reports a transition attempted from a status that does not allow it.
type StateError struct {
	Action string
	From   string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s is not allowed from status %s", e.Action, e.From)
}

func (e *StateError) Is(target error) bool {
	return target == ErrInvalidState
}

func illegalFrom[A ~string, S ~string](action A, from S) error {
	return &StateError{Action: string(action), From: string(from)}
}

// AllocationExceededError is returned when logged hours would pass the project's budget.
type AllocationExceededError struct {
	Budget     float64
	Logged     float64
	Requested  float64
	ExceededBy float64
}

func (e *AllocationExceededError) Error() string {
	return fmt.Sprintf("hours exceed allocation by %.2f", e.ExceededBy)
}

func (e *AllocationExceededError) Is(target error) bool {
	return target == ErrExceedsAllocation
}
