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

type NotificationHandler struct {
	usecase usecase.INotificationUseCase
}

func NewNotificationHandler(uc usecase.INotificationUseCase) *NotificationHandler {
	return &NotificationHandler{usecase: uc}
}

// Get returns the caller's merged notification feed with its unread count.
//
// @Summary  List notifications
// @Tags     notifications
// @Security Bearer
// @Param    limit query int false "max entries (default 50)"
// @Success  200 {object} response.Envelope{data=response.NotificationList}
// @Router   /notifications [get]
func (h *NotificationHandler) Get(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	q, ok := bindQuery(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	list, err := h.usecase.List(ctx, actor, q.Limit)
	if err != nil {
		writeError(c, "notification", err, mapNotificationError)
		return
	}
	unread, err := h.usecase.UnreadCount(ctx, actor)
	if err != nil {
		writeError(c, "notification", err, mapNotificationError)
		return
	}
	if list == nil {
		list = []entities.Notification{}
	}
	c.JSON(http.StatusOK, response.OK(response.NotificationList{Notifications: list, UnreadCount: unread}))
}

// @Summary  Mark notifications read
// @Tags     notifications
// @Security Bearer
// @Param    id   query string                false "notification id (mark_read)"
// @Param    body body  request.ActionRequest true  "mark_read or mark_all_read"
// @Success  200 {object} response.Envelope
// @Router   /notifications [put]
func (h *NotificationHandler) Update(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	req, ok := bindAction(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	switch usecase.NotificationAction(req.Action) {
	case usecase.NotificationMarkRead:
		id, ok := requireID(c)
		if !ok {
			return
		}
		if err := h.usecase.MarkRead(ctx, actor, id); err != nil {
			writeError(c, "notification", err, mapNotificationError)
			return
		}
		c.JSON(http.StatusOK, response.Message("marked read"))
	case usecase.NotificationMarkAllRead:
		n, err := h.usecase.MarkAllRead(ctx, actor)
		if err != nil {
			writeError(c, "notification", err, mapNotificationError)
			return
		}
		c.JSON(http.StatusOK, response.OK(response.MarkAllRead{Marked: n}))
	default:
		writeError(c, "notification", usecase.ErrUnknownAction, mapNotificationError)
	}
}

// @Summary  Clear a notification
// @Tags     notifications
// @Security Bearer
// @Param    id query string true "notification id"
// @Success  200 {object} response.Envelope
// @Router   /notifications [delete]
func (h *NotificationHandler) Delete(c *gin.Context) {
	deleteByID(c, "notification", mapNotificationError, func(actor entities.User, id string) error {
		return h.usecase.Delete(c.Request.Context(), actor, id)
	})
}

func mapNotificationError(err error) *pkg.AppError {
	if errors.Is(err, usecase.ErrNotificationNotFound) {
		return pkg.NewDomainErrorSimple("NOTIFICATION_NOT_FOUND", "Notification not found", http.StatusNotFound)
	}
	return mapCommonError(err)
}
