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

type PaymentHandler struct {
	usecase usecase.IPaymentUseCase
}

func NewPaymentHandler(uc usecase.IPaymentUseCase) *PaymentHandler {
	return &PaymentHandler{usecase: uc}
}

// @Summary  List payment milestones or get one by id
// @Tags     payments
// @Security Bearer
// @Param    id        query string false "payment id"
// @Param    projectId query string false "project filter"
// @Param    status    query string false "payment status filter"
// @Success  200 {object} response.Envelope
// @Router   /payments [get]
func (h *PaymentHandler) Get(c *gin.Context) {
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
			writeError(c, "payment", err, mapPaymentError)
			return
		}
		c.JSON(http.StatusOK, response.OK(p))
		return
	}
	list, err := h.usecase.List(ctx, actor, interfaces.BillingFilter{ProjectID: q.ProjectID, Status: q.Status})
	if err != nil {
		writeError(c, "payment", err, mapPaymentError)
		return
	}
	c.JSON(http.StatusOK, response.OK(list))
}

// @Summary  Create a payment milestone
// @Tags     payments
// @Security Bearer
// @Param    body body usecase.NewPayment true "milestone"
// @Success  201 {object} response.Envelope
// @Router   /payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var in usecase.NewPayment
	if err := c.ShouldBindJSON(&in); err != nil {
		writeAppError(c, errInvalidRequest)
		return
	}
	created, err := h.usecase.Create(c.Request.Context(), actor, in)
	if err != nil {
		writeError(c, "payment", err, mapPaymentError)
		return
	}
	c.JSON(http.StatusCreated, response.OK(created))
}

// Update records a receipt (by amount or by gateway payment id) or marks the milestone delayed.
//
// @Summary  Apply a payment action
// @Tags     payments
// @Security Bearer
// @Param    id   query string                true "payment id"
// @Param    body body  request.ActionRequest true "record_payment or mark_delayed"
// @Success  200 {object} response.Envelope
// @Failure  502 {object} pkg.HTTPError
// @Router   /payments [put]
func (h *PaymentHandler) Update(c *gin.Context) {
	applyAction(c, "payment", mapPaymentError, func(actor entities.User, id string, action entities.PaymentAction, data json.RawMessage) (entities.Payment, error) {
		return h.usecase.Apply(c.Request.Context(), actor, id, action, data)
	})
}

// @Summary  Delete a payment milestone
// @Tags     payments
// @Security Bearer
// @Param    id query string true "payment id"
// @Success  200 {object} response.Envelope
// @Router   /payments [delete]
func (h *PaymentHandler) Delete(c *gin.Context) {
	deleteByID(c, "payment", mapPaymentError, func(actor entities.User, id string) error {
		return h.usecase.Delete(c.Request.Context(), actor, id)
	})
}

func mapPaymentError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrPaymentNotFound):
		return pkg.NewDomainErrorSimple("PAYMENT_NOT_FOUND", "Payment not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrProjectNotFound):
		return pkg.NewDomainErrorSimple("PROJECT_NOT_FOUND", "Project not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrInvoiceNotFound):
		return pkg.NewDomainErrorSimple("INVOICE_NOT_FOUND", "Invoice not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrInvoiceProjectMismatch):
		return pkg.NewDomainErrorSimple("INVOICE_PROJECT_MISMATCH", "Invoice belongs to another project", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPaymentAlreadySettled):
		return pkg.NewDomainErrorSimple("PAYMENT_SETTLED", "Payment is already fully paid", http.StatusConflict)
	case errors.Is(err, usecase.ErrNotPastDue):
		return pkg.NewDomainErrorSimple("NOT_PAST_DUE", "Payment is not past due by the overdue threshold", http.StatusConflict)
	case errors.Is(err, usecase.ErrDuplicateReceipt):
		return pkg.NewDomainErrorSimple("DUPLICATE_RECEIPT", "Gateway payment already recorded", http.StatusConflict)
	case errors.Is(err, usecase.ErrGatewayPaymentNotFound):
		return pkg.NewDomainErrorSimple("GATEWAY_PAYMENT_NOT_FOUND", "Gateway payment not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrGatewayPaymentNotApproved):
		return pkg.NewDomainErrorSimple("GATEWAY_PAYMENT_NOT_APPROVED", "Gateway payment is not approved", http.StatusConflict)
	case errors.Is(err, usecase.ErrPaymentGatewayUnauthorized):
		return pkg.NewDomainErrorSimple("GATEWAY_UNAUTHORIZED", "Payment gateway rejected the credentials", http.StatusBadGateway)
	case errors.Is(err, usecase.ErrPaymentGatewayNotConfigured):
		return pkg.NewDomainErrorSimple("GATEWAY_NOT_CONFIGURED", "Payment gateway is not configured", http.StatusServiceUnavailable)
	default:
		return mapCommonError(err)
	}
}
