package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	request "studioflow/internal/adapter/http/dto/request"
	response "studioflow/internal/adapter/http/dto/response"
	"studioflow/internal/domain/entities"
	"studioflow/internal/usecase"
	"studioflow/internal/usecase/interfaces"
	"studioflow/pkg"

	"github.com/gin-gonic/gin"
)

// ProjectHandler serves /api/projects.
type ProjectHandler struct {
	usecase usecase.IProjectUseCase
}

func NewProjectHandler(uc usecase.IProjectUseCase) *ProjectHandler {
	return &ProjectHandler{usecase: uc}
}

// @Summary  List projects or get one by id
// @Tags     projects
// @Security Bearer
// @Param    id            query string false "project id"
// @Param    status        query string false "status filter"
// @Param    designLeadUid query string false "design lead filter"
// @Param    designerUid   query string false "assigned designer filter"
// @Success  200 {object} response.Envelope
// @Router   /projects [get]
func (h *ProjectHandler) Get(c *gin.Context) {
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
		p, err := h.usecase.Get(ctx, actor, q.ID)
		if err != nil {
			writeError(c, "project", err, mapProjectError)
			return
		}
		c.JSON(http.StatusOK, response.OK(p))
		return
	}

	list, err := h.usecase.List(ctx, actor, interfaces.ProjectFilter{
		Status:        entities.ProjectStatus(q.Status),
		DesignLeadUID: q.DesignLead,
		DesignerUID:   q.DesignerUID,
	})
	if err != nil {
		writeError(c, "project", err, mapProjectError)
		return
	}
	c.JSON(http.StatusOK, response.OK(list))
}

// Create turns a won proposal into a project.
//
// @Summary  Create a project from a won proposal
// @Tags     projects
// @Security Bearer
// @Param    body body request.ProjectCreateRequest true "create_from_proposal"
// @Success  201 {object} response.Envelope
// @Router   /projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req request.ProjectCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeAppError(c, errInvalidRequest)
		return
	}
	created, err := h.usecase.CreateFromProposal(c.Request.Context(), actor, usecase.NewProjectFromProposal{ProposalID: req.Data.ProposalID})
	if err != nil {
		writeError(c, "project", err, mapProjectError)
		return
	}
	c.JSON(http.StatusCreated, response.OK(created))
}

// @Summary  Apply a project action
// @Tags     projects
// @Security Bearer
// @Param    id   query string                true "project id"
// @Param    body body  request.ActionRequest true "action"
// @Success  200 {object} response.Envelope
// @Router   /projects [put]
func (h *ProjectHandler) Update(c *gin.Context) {
	applyAction(c, "project", mapProjectError, func(actor entities.User, id string, action entities.ProjectAction, data json.RawMessage) (entities.Project, error) {
		return h.usecase.Apply(c.Request.Context(), actor, id, action, data)
	})
}

// @Summary  Delete a project
// @Tags     projects
// @Security Bearer
// @Param    id query string true "project id"
// @Success  200 {object} response.Envelope
// @Router   /projects [delete]
func (h *ProjectHandler) Delete(c *gin.Context) {
	deleteByID(c, "project", mapProjectError, func(actor entities.User, id string) error {
		return h.usecase.Delete(c.Request.Context(), actor, id)
	})
}

func mapProjectError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrProjectNotFound):
		return pkg.NewDomainErrorSimple("PROJECT_NOT_FOUND", "Project not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrProposalNotFound):
		return pkg.NewDomainErrorSimple("PROPOSAL_NOT_FOUND", "Proposal not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrProjectAlreadyExists):
		return pkg.NewDomainErrorSimple("PROJECT_ALREADY_EXISTS", "A project already exists for this proposal", http.StatusConflict)
	case errors.Is(err, usecase.ErrProposalNotWon):
		return pkg.NewDomainErrorSimple("PROPOSAL_NOT_WON", "Proposal has not been won", http.StatusConflict)
	case errors.Is(err, usecase.ErrInvalidAssignee):
		return pkg.NewDomainErrorSimple("INVALID_ASSIGNEE", err.Error(), http.StatusBadRequest)
	default:
		return mapCommonError(err)
	}
}
