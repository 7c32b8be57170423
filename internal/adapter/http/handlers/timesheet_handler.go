package handlers

import (
	"errors"
	"net/http"

	response "studioflow/internal/adapter/http/dto/response"
	"studioflow/internal/domain/entities"
	"studioflow/internal/usecase"
	"studioflow/pkg"

	"github.com/gin-gonic/gin"
)

// TimesheetHandler serves /api/timesheets. Entries are immutable: there is no PUT.
type TimesheetHandler struct {
	usecase usecase.ITimesheetUseCase
}

func NewTimesheetHandler(uc usecase.ITimesheetUseCase) *TimesheetHandler {
	return &TimesheetHandler{usecase: uc}
}

// @Summary  List timesheet entries
// @Tags     timesheets
// @Security Bearer
// @Param    projectId   query string false "project filter"
// @Param    designerUid query string false "designer filter"
// @Success  200 {object} response.Envelope
// @Router   /timesheets [get]
func (h *TimesheetHandler) Get(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	q, ok := bindQuery(c)
	if !ok {
		return
	}
	list, err := h.usecase.List(c.Request.Context(), actor, usecase.TimesheetQuery{ProjectID: q.ProjectID, DesignerUID: q.DesignerUID})
	if err != nil {
		writeError(c, "timesheet", err, mapTimesheetError)
		return
	}
	c.JSON(http.StatusOK, response.OK(list))
}

// Create logs hours. Exceeding the project's budget answers 400 with
// {exceedsAllocation: true, exceededBy} in details.
//
// @Summary  Log hours against a project
// @Tags     timesheets
// @Security Bearer
// @Param    body body usecase.NewTimesheet true "entry"
// @Success  201 {object} response.Envelope
// @Failure  400 {object} response.AllocationExceededError "exceedsAllocation and exceededBy are set when the entry would overrun the budget; details carries the full breakdown"
// @Failure  409 {object} pkg.HTTPError
// @Router   /timesheets [post]
func (h *TimesheetHandler) Create(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var in usecase.NewTimesheet
	if err := c.ShouldBindJSON(&in); err != nil {
		writeAppError(c, errInvalidRequest)
		return
	}
	created, err := h.usecase.Log(c.Request.Context(), actor, in)
	if err != nil {
		writeError(c, "timesheet", err, mapTimesheetError)
		return
	}
	c.JSON(http.StatusCreated, response.OK(created))
}

// @Summary  Delete a timesheet entry
// @Tags     timesheets
// @Security Bearer
// @Param    id query string true "timesheet id"
// @Success  200 {object} response.Envelope
// @Router   /timesheets [delete]
func (h *TimesheetHandler) Delete(c *gin.Context) {
	deleteByID(c, "timesheet", mapTimesheetError, func(actor entities.User, id string) error {
		return h.usecase.Delete(c.Request.Context(), actor, id)
	})
}

func mapTimesheetError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrTimesheetNotFound):
		return pkg.NewDomainErrorSimple("TIMESHEET_NOT_FOUND", "Timesheet not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrProjectNotFound):
		return pkg.NewDomainErrorSimple("PROJECT_NOT_FOUND", "Project not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrProjectNotActive):
		return pkg.NewDomainErrorSimple("PROJECT_NOT_ACTIVE", "Project is not accepting hours", http.StatusConflict)
	default:
		return mapCommonError(err)
	}
}
