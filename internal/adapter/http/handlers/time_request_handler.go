package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	response "studioflow/internal/adapter/http/dto/response"
	"studioflow/internal/domain/entities"
	"studioflow/internal/usecase"
	"studioflow/internal/usecase/interfaces"
	"studioflow/pkg"

	"github.com/gin-gonic/gin"
)

type TimeRequestHandler struct {
	usecase usecase.ITimeRequestUseCase
}

func NewTimeRequestHandler(uc usecase.ITimeRequestUseCase) *TimeRequestHandler {
	return &TimeRequestHandler{usecase: uc}
}

// @Summary  List time requests or get one by id
// @Tags     time-requests
// @Security Bearer
// @Param    id        query string false "time request id"
// @Param    projectId query string false "project filter"
// @Param    status    query string false "status filter"
// @Success  200 {object} response.Envelope
// @Router   /time-requests [get]
func (h *TimeRequestHandler) Get(c *gin.Context) {
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
		tr, err := h.usecase.Get(ctx, actor, q.ID)
		if err != nil {
			writeError(c, "time_request", err, mapTimeRequestError)
			return
		}
		c.JSON(http.StatusOK, response.OK(tr))
		return
	}

	list, err := h.usecase.List(ctx, actor, interfaces.TimeRequestFilter{
		ProjectID: q.ProjectID,
		Status:    entities.TimeRequestStatus(q.Status),
	})
	if err != nil {
		writeError(c, "time_request", err, mapTimeRequestError)
		return
	}
	c.JSON(http.StatusOK, response.OK(list))
}

// @Summary  Request additional hours
// @Tags     time-requests
// @Security Bearer
// @Param    body body usecase.NewTimeRequest true "request"
// @Success  201 {object} response.Envelope
// @Router   /time-requests [post]
func (h *TimeRequestHandler) Create(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var in usecase.NewTimeRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		writeAppError(c, errInvalidRequest)
		return
	}
	created, err := h.usecase.Create(c.Request.Context(), actor, in)
	if err != nil {
		writeError(c, "time_request", err, mapTimeRequestError)
		return
	}
	c.JSON(http.StatusCreated, response.OK(created))
}

// Update reviews a request. A repeated approve answers 409.
//
// @Summary  Apply a time request action
// @Tags     time-requests
// @Security Bearer
// @Param    id   query string                true "time request id"
// @Param    body body  request.ActionRequest true "action"
// @Success  200 {object} response.Envelope
// @Router   /time-requests [put]
func (h *TimeRequestHandler) Update(c *gin.Context) {
	applyAction(c, "time_request", mapTimeRequestError, func(actor entities.User, id string, action entities.TimeRequestAction, data json.RawMessage) (entities.TimeRequest, error) {
		return h.usecase.Apply(c.Request.Context(), actor, id, action, data)
	})
}

func mapTimeRequestError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrTimeRequestNotFound):
		return pkg.NewDomainErrorSimple("TIME_REQUEST_NOT_FOUND", "Time request not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrProjectNotFound):
		return pkg.NewDomainErrorSimple("PROJECT_NOT_FOUND", "Project not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrTimeRequestReviewed):
		return pkg.NewDomainErrorSimple("TIME_REQUEST_REVIEWED", "Time request was already reviewed", http.StatusConflict)
	default:
		return mapCommonError(err)
	}
}
