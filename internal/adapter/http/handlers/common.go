package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	request "studioflow/internal/adapter/http/dto/request"
	response "studioflow/internal/adapter/http/dto/response"
	"studioflow/internal/adapter/http/middleware"
	"studioflow/internal/domain/entities"
	"studioflow/internal/usecase"
	"studioflow/pkg"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidRequest = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	errMissingID      = pkg.NewDomainErrorSimple("MISSING_ID", "Query parameter id is required", http.StatusBadRequest)
)

type errorMapper func(error) *pkg.AppError

// actorOrAbort returns the authenticated caller, answering 401 when the route was mounted
// without the auth middleware.
func actorOrAbort(c *gin.Context) (entities.User, bool) {
	u, ok := middleware.Actor(c)
	if !ok {
		appErr := pkg.NewDomainErrorSimple("UNAUTHENTICATED", "Missing or invalid bearer token", http.StatusUnauthorized)
		c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToHTTPError())
	}
	return u, ok
}

func writeError(c *gin.Context, area string, err error, mapErr errorMapper) {
	appErr := mapErr(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		log.Printf("[%s][handler] %s %s failed err=%v", area, c.Request.Method, c.FullPath(), err)
	}
	c.JSON(appErr.HTTPStatus, response.ErrorBody(appErr))
}

func writeAppError(c *gin.Context, appErr *pkg.AppError) {
	c.JSON(appErr.HTTPStatus, response.ErrorBody(appErr))
}

func requireID(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.Query("id"))
	if id == "" {
		writeAppError(c, errMissingID)
		return "", false
	}
	return id, true
}

func bindAction(c *gin.Context) (request.ActionRequest, bool) {
	var req request.ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeAppError(c, errInvalidRequest)
		return req, false
	}
	return req, true
}

func bindQuery(c *gin.Context) (request.ListQuery, bool) {
	var q request.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeAppError(c, errInvalidRequest)
		return q, false
	}
	return q.Trimmed(), true
}

// applyAction decodes {action, data} for PUT ?id= and runs it.
func applyAction[A ~string, T any](c *gin.Context, area string, mapErr errorMapper, run func(actor entities.User, id string, action A, data json.RawMessage) (T, error)) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := requireID(c)
	if !ok {
		return
	}
	req, ok := bindAction(c)
	if !ok {
		return
	}
	out, err := run(actor, id, A(req.Action), req.Payload())
	if err != nil {
		writeError(c, area, err, mapErr)
		return
	}
	c.JSON(http.StatusOK, response.OK(out))
}

// deleteByID runs DELETE ?id=.
func deleteByID(c *gin.Context, area string, mapErr errorMapper, run func(actor entities.User, id string) error) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := requireID(c)
	if !ok {
		return
	}
	if err := run(actor, id); err != nil {
		writeError(c, area, err, mapErr)
		return
	}
	c.JSON(http.StatusOK, response.Message("deleted"))
}

// mapCommonError maps the errors every use case shares. Unknown errors become a generic 500
// whose body never carries the underlying error text.
func mapCommonError(err error) *pkg.AppError {
	var (
		forbidden  *usecase.ForbiddenError
		validation *usecase.ValidationError
		state      *usecase.StateError
		exceeded   *usecase.AllocationExceededError
	)
	switch {
	case errors.Is(err, usecase.ErrUnauthenticated):
		return pkg.NewDomainErrorSimple("UNAUTHENTICATED", "Missing or invalid bearer token", http.StatusUnauthorized)
	case errors.Is(err, usecase.ErrAccountInactive):
		return pkg.NewDomainErrorSimple("ACCOUNT_INACTIVE", "Account is inactive or suspended", http.StatusForbidden)
	case errors.As(err, &forbidden):
		return pkg.NewDomainErrorSimple("FORBIDDEN", "Forbidden: "+forbidden.Error(), http.StatusForbidden)
	case errors.Is(err, usecase.ErrForbidden):
		return pkg.NewDomainErrorSimple("FORBIDDEN", "Forbidden", http.StatusForbidden)
	case errors.As(err, &exceeded):
		return pkg.NewDomainErrorSimple("EXCEEDS_ALLOCATION", exceeded.Error(), http.StatusBadRequest).
			WithDetails(response.FromAllocationExceeded(exceeded))
	case errors.As(err, &validation):
		appErr := pkg.NewDomainErrorSimple("VALIDATION_FAILED", validation.Error(), http.StatusBadRequest)
		if len(validation.Fields) > 0 {
			appErr.Message = "Invalid payload"
			appErr.WithDetails(validation.Fields)
		}
		return appErr
	case errors.Is(err, usecase.ErrInvalidPayload):
		return pkg.NewDomainErrorSimple("VALIDATION_FAILED", "Invalid payload", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrUnknownAction):
		return pkg.NewDomainErrorSimple("UNKNOWN_ACTION", "Unknown action", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidID):
		return pkg.NewDomainErrorSimple("INVALID_ID", "Invalid id", http.StatusBadRequest)
	case errors.As(err, &state):
		return pkg.NewDomainErrorSimple("INVALID_STATE", state.Error(), http.StatusConflict)
	case errors.Is(err, usecase.ErrInvalidState):
		return pkg.NewDomainErrorSimple("INVALID_STATE", "Action not allowed in current state", http.StatusConflict)
	case errors.Is(err, usecase.ErrConflict):
		return pkg.NewDomainErrorSimple("CONFLICT", "The record was modified concurrently; reload and retry", http.StatusConflict)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
