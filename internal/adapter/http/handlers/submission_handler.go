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

type SubmissionHandler struct {
	usecase usecase.ISubmissionUseCase
}

func NewSubmissionHandler(uc usecase.ISubmissionUseCase) *SubmissionHandler {
	return &SubmissionHandler{usecase: uc}
}

// @Summary  List a project's submissions or get one by id
// @Tags     submissions
// @Security Bearer
// @Param    id        query string false "submission id"
// @Param    projectId query string false "project id (required without id)"
// @Success  200 {object} response.Envelope
// @Router   /submissions [get]
func (h *SubmissionHandler) Get(c *gin.Context) {
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
		s, err := h.usecase.Get(ctx, actor, q.ID)
		if err != nil {
			writeError(c, "submission", err, mapSubmissionError)
			return
		}
		c.JSON(http.StatusOK, response.OK(s))
		return
	}
	if q.ProjectID == "" {
		writeAppError(c, errProjectIDRequired)
		return
	}
	list, err := h.usecase.ListByProject(ctx, actor, q.ProjectID)
	if err != nil {
		writeError(c, "submission", err, mapSubmissionError)
		return
	}
	c.JSON(http.StatusOK, response.OK(list))
}

// @Summary  Submit deliverables to the client
// @Tags     submissions
// @Security Bearer
// @Param    body body usecase.NewSubmission true "submission"
// @Success  201 {object} response.Envelope
// @Router   /submissions [post]
func (h *SubmissionHandler) Create(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var in usecase.NewSubmission
	if err := c.ShouldBindJSON(&in); err != nil {
		writeAppError(c, errInvalidRequest)
		return
	}
	created, err := h.usecase.Create(c.Request.Context(), actor, in)
	if err != nil {
		writeError(c, "submission", err, mapSubmissionError)
		return
	}
	c.JSON(http.StatusCreated, response.OK(created))
}

// @Summary  Record client feedback
// @Tags     submissions
// @Security Bearer
// @Param    id   query string                true "submission id"
// @Param    body body  request.ActionRequest true "record_feedback"
// @Success  200 {object} response.Envelope
// @Router   /submissions [put]
func (h *SubmissionHandler) Update(c *gin.Context) {
	applyAction(c, "submission", mapSubmissionError, func(actor entities.User, id string, action entities.SubmissionAction, data json.RawMessage) (entities.Submission, error) {
		return h.usecase.Apply(c.Request.Context(), actor, id, action, data)
	})
}

func mapSubmissionError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrSubmissionNotFound):
		return pkg.NewDomainErrorSimple("SUBMISSION_NOT_FOUND", "Submission not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrProjectNotFound):
		return pkg.NewDomainErrorSimple("PROJECT_NOT_FOUND", "Project not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrDeliverableNotInProject):
		return pkg.NewDomainErrorSimple("DELIVERABLE_NOT_IN_PROJECT", "Deliverable does not belong to the project", http.StatusBadRequest)
	default:
		return mapCommonError(err)
	}
}
