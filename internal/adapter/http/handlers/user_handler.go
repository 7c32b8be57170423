package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	response "studioflow/internal/adapter/http/dto/response"
	"studioflow/internal/domain/entities"
	"studioflow/internal/usecase"
	"studioflow/pkg"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	usecase usecase.IUserUseCase
}

func NewUserHandler(uc usecase.IUserUseCase) *UserHandler {
	return &UserHandler{usecase: uc}
}

// @Summary  Current user
// @Tags     users
// @Security Bearer
// @Success  200 {object} response.Envelope
// @Router   /users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	u, err := h.usecase.Me(c.Request.Context(), actor)
	if err != nil {
		writeError(c, "user", err, mapUserError)
		return
	}
	c.JSON(http.StatusOK, response.OK(u))
}

// @Summary  List users or get one by uid
// @Tags     users
// @Security Bearer
// @Param    id   query string false "user uid"
// @Param    role query string false "role filter"
// @Success  200 {object} response.Envelope
// @Router   /users [get]
func (h *UserHandler) Get(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	q, ok := bindQuery(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if q.ID != "" {
		u, err := h.usecase.Get(ctx, actor, q.ID)
		if err != nil {
			writeError(c, "user", err, mapUserError)
			return
		}
		c.JSON(http.StatusOK, response.OK(u))
		return
	}
	list, err := h.usecase.List(ctx, actor, entities.Role(q.Role))
	if err != nil {
		writeError(c, "user", err, mapUserError)
		return
	}
	c.JSON(http.StatusOK, response.OK(list))
}

// @Summary  Register a user
// @Tags     users
// @Security Bearer
// @Param    body body usecase.NewUser true "user"
// @Success  201 {object} response.Envelope
// @Router   /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var in usecase.NewUser
	if err := c.ShouldBindJSON(&in); err != nil {
		writeAppError(c, errInvalidRequest)
		return
	}
	created, err := h.usecase.Create(c.Request.Context(), actor, in)
	if err != nil {
		writeError(c, "user", err, mapUserError)
		return
	}
	c.JSON(http.StatusCreated, response.OK(created))
}

// @Summary  Change a user's role or status
// @Tags     users
// @Security Bearer
// @Param    id   query string                true "user uid"
// @Param    body body  request.ActionRequest true "update_role or set_status"
// @Success  200 {object} response.Envelope
// @Router   /users [put]
func (h *UserHandler) Update(c *gin.Context) {
	applyAction(c, "user", mapUserError, func(actor entities.User, uid string, action usecase.UserAction, data json.RawMessage) (entities.User, error) {
		return h.usecase.Apply(c.Request.Context(), actor, uid, action, data)
	})
}

func mapUserError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrUserNotFound):
		return pkg.NewDomainErrorSimple("USER_NOT_FOUND", "User not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrUserAlreadyExists):
		return pkg.NewDomainErrorSimple("USER_EXISTS", "User already exists", http.StatusConflict)
	case errors.Is(err, usecase.ErrSelfDemotion):
		return pkg.NewDomainErrorSimple("SELF_DEMOTION", "Directors cannot change their own role or status", http.StatusForbidden)
	default:
		return mapCommonError(err)
	}
}
