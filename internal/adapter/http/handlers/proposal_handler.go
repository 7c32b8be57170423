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

// ProposalHandler serves /api/proposals.
type ProposalHandler struct {
	usecase usecase.IProposalUseCase
}

func NewProposalHandler(uc usecase.IProposalUseCase) *ProposalHandler {
	return &ProposalHandler{usecase: uc}
}

// Get lists proposals, or returns one when ?id= is given.
//
// @Summary  List proposals or get one by id
// @Tags     proposals
// @Security Bearer
// @Param    id        query string false "proposal id"
// @Param    status    query string false "status filter"
// @Param    createdBy query string false "creator uid filter"
// @Success  200 {object} response.Envelope
// @Router   /proposals [get]
func (h *ProposalHandler) Get(c *gin.Context) {
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
			writeError(c, "proposal", err, mapProposalError)
			return
		}
		c.JSON(http.StatusOK, response.OK(p))
		return
	}

	list, err := h.usecase.List(ctx, actor, interfaces.ProposalFilter{
		Status:       entities.ProposalStatus(q.Status),
		CreatedByUID: q.CreatedBy,
	})
	if err != nil {
		writeError(c, "proposal", err, mapProposalError)
		return
	}
	c.JSON(http.StatusOK, response.OK(list))
}

// Create opens a new proposal.
//
// @Summary  Create a proposal
// @Tags     proposals
// @Security Bearer
// @Param    body body usecase.NewProposal true "proposal"
// @Success  201 {object} response.Envelope
// @Router   /proposals [post]
func (h *ProposalHandler) Create(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var in usecase.NewProposal
	if err := c.ShouldBindJSON(&in); err != nil {
		writeAppError(c, errInvalidRequest)
		return
	}
	created, err := h.usecase.Create(c.Request.Context(), actor, in)
	if err != nil {
		writeError(c, "proposal", err, mapProposalError)
		return
	}
	c.JSON(http.StatusCreated, response.OK(created))
}

// Update applies a workflow action.
//
// @Summary  Apply a proposal action
// @Tags     proposals
// @Security Bearer
// @Param    id   query string                true "proposal id"
// @Param    body body  request.ActionRequest true "action"
// @Success  200 {object} response.Envelope
// @Failure  409 {object} pkg.HTTPError
// @Router   /proposals [put]
func (h *ProposalHandler) Update(c *gin.Context) {
	applyAction(c, "proposal", mapProposalError, func(actor entities.User, id string, action entities.ProposalAction, data json.RawMessage) (entities.Proposal, error) {
		return h.usecase.Apply(c.Request.Context(), actor, id, action, data)
	})
}

// @Summary  Delete a proposal
// @Tags     proposals
// @Security Bearer
// @Param    id query string true "proposal id"
// @Success  200 {object} response.Envelope
// @Router   /proposals [delete]
func (h *ProposalHandler) Delete(c *gin.Context) {
	deleteByID(c, "proposal", mapProposalError, func(actor entities.User, id string) error {
		return h.usecase.Delete(c.Request.Context(), actor, id)
	})
}

func mapProposalError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrProposalNotFound):
		return pkg.NewDomainErrorSimple("PROPOSAL_NOT_FOUND", "Proposal not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrProjectNumberTaken):
		return pkg.NewDomainErrorSimple("PROJECT_NUMBER_TAKEN", "Project number already in use", http.StatusConflict)
	case errors.Is(err, usecase.ErrProjectNumberMissing):
		return pkg.NewDomainErrorSimple("PROJECT_NUMBER_MISSING", "Proposal has no project number", http.StatusConflict)
	case errors.Is(err, usecase.ErrProjectNumberNotPending):
		return pkg.NewDomainErrorSimple("PROJECT_NUMBER_NOT_PENDING", "Project number is not pending approval", http.StatusConflict)
	default:
		return mapCommonError(err)
	}
}
