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

type TaskHandler struct {
	usecase usecase.ITaskUseCase
}

func NewTaskHandler(uc usecase.ITaskUseCase) *TaskHandler {
	return &TaskHandler{usecase: uc}
}

// @Summary  List tasks or get one by id
// @Tags     tasks
// @Security Bearer
// @Param    id          query string false "task id"
// @Param    projectId   query string false "project filter"
// @Param    designerUid query string false "designer filter"
// @Param    status      query string false "status filter"
// @Success  200 {object} response.Envelope
// @Router   /tasks [get]
func (h *TaskHandler) Get(c *gin.Context) {
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
		t, err := h.usecase.Get(ctx, actor, q.ID)
		if err != nil {
			writeError(c, "task", err, mapTaskError)
			return
		}
		c.JSON(http.StatusOK, response.OK(t))
		return
	}

	list, err := h.usecase.List(ctx, actor, interfaces.TaskFilter{
		ProjectID:   q.ProjectID,
		DesignerUID: q.DesignerUID,
		Status:      entities.TaskStatus(q.Status),
	})
	if err != nil {
		writeError(c, "task", err, mapTaskError)
		return
	}
	c.JSON(http.StatusOK, response.OK(list))
}

// @Summary  Create a task
// @Tags     tasks
// @Security Bearer
// @Param    body body usecase.NewTask true "task"
// @Success  201 {object} response.Envelope
// @Router   /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var in usecase.NewTask
	if err := c.ShouldBindJSON(&in); err != nil {
		writeAppError(c, errInvalidRequest)
		return
	}
	created, err := h.usecase.Create(c.Request.Context(), actor, in)
	if err != nil {
		writeError(c, "task", err, mapTaskError)
		return
	}
	c.JSON(http.StatusCreated, response.OK(created))
}

// @Summary  Apply a task action
// @Tags     tasks
// @Security Bearer
// @Param    id   query string                true "task id"
// @Param    body body  request.ActionRequest true "action"
// @Success  200 {object} response.Envelope
// @Router   /tasks [put]
func (h *TaskHandler) Update(c *gin.Context) {
	applyAction(c, "task", mapTaskError, func(actor entities.User, id string, action entities.TaskAction, data json.RawMessage) (entities.Task, error) {
		return h.usecase.Apply(c.Request.Context(), actor, id, action, data)
	})
}

// @Summary  Delete a task
// @Tags     tasks
// @Security Bearer
// @Param    id query string true "task id"
// @Success  200 {object} response.Envelope
// @Router   /tasks [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	deleteByID(c, "task", mapTaskError, func(actor entities.User, id string) error {
		return h.usecase.Delete(c.Request.Context(), actor, id)
	})
}

func mapTaskError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrTaskNotFound):
		return pkg.NewDomainErrorSimple("TASK_NOT_FOUND", "Task not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrProjectNotFound):
		return pkg.NewDomainErrorSimple("PROJECT_NOT_FOUND", "Project not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrAssigneeNotOnProject):
		return pkg.NewDomainErrorSimple("ASSIGNEE_NOT_ON_PROJECT", "Assignee is not a designer on the project", http.StatusBadRequest)
	default:
		return mapCommonError(err)
	}
}
