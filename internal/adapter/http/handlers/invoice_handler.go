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

type InvoiceHandler struct {
	usecase usecase.IInvoiceUseCase
}

func NewInvoiceHandler(uc usecase.IInvoiceUseCase) *InvoiceHandler {
	return &InvoiceHandler{usecase: uc}
}

// @Summary  List invoices or get one by id
// @Tags     invoices
// @Security Bearer
// @Param    id        query string false "invoice id"
// @Param    projectId query string false "project filter"
// @Param    status    query string false "status filter"
// @Success  200 {object} response.Envelope
// @Router   /invoices [get]
func (h *InvoiceHandler) Get(c *gin.Context) {
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
		inv, err := h.usecase.Get(ctx, actor, q.ID)
		if err != nil {
			writeError(c, "invoice", err, mapInvoiceError)
			return
		}
		c.JSON(http.StatusOK, response.OK(inv))
		return
	}
	list, err := h.usecase.List(ctx, actor, interfaces.BillingFilter{ProjectID: q.ProjectID, Status: q.Status})
	if err != nil {
		writeError(c, "invoice", err, mapInvoiceError)
		return
	}
	c.JSON(http.StatusOK, response.OK(list))
}

// @Summary  Issue an invoice
// @Tags     invoices
// @Security Bearer
// @Param    body body usecase.NewInvoice true "invoice"
// @Success  201 {object} response.Envelope
// @Router   /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var in usecase.NewInvoice
	if err := c.ShouldBindJSON(&in); err != nil {
		writeAppError(c, errInvalidRequest)
		return
	}
	created, err := h.usecase.Create(c.Request.Context(), actor, in)
	if err != nil {
		writeError(c, "invoice", err, mapInvoiceError)
		return
	}
	c.JSON(http.StatusCreated, response.OK(created))
}

// @Summary  Apply an invoice action
// @Tags     invoices
// @Security Bearer
// @Param    id   query string                true "invoice id"
// @Param    body body  request.ActionRequest true "mark_sent, mark_paid, mark_overdue or cancel"
// @Success  200 {object} response.Envelope
// @Router   /invoices [put]
func (h *InvoiceHandler) Update(c *gin.Context) {
	applyAction(c, "invoice", mapInvoiceError, func(actor entities.User, id string, action entities.InvoiceAction, data json.RawMessage) (entities.Invoice, error) {
		return h.usecase.Apply(c.Request.Context(), actor, id, action, data)
	})
}

// @Summary  Delete an unpaid invoice
// @Tags     invoices
// @Security Bearer
// @Param    id query string true "invoice id"
// @Success  200 {object} response.Envelope
// @Failure  409 {object} pkg.HTTPError
// @Router   /invoices [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
	deleteByID(c, "invoice", mapInvoiceError, func(actor entities.User, id string) error {
		return h.usecase.Delete(c.Request.Context(), actor, id)
	})
}

func mapInvoiceError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvoiceNotFound):
		return pkg.NewDomainErrorSimple("INVOICE_NOT_FOUND", "Invoice not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrProjectNotFound):
		return pkg.NewDomainErrorSimple("PROJECT_NOT_FOUND", "Project not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrInvoicePaid):
		return pkg.NewDomainErrorSimple("INVOICE_PAID", "Paid invoices cannot be deleted", http.StatusConflict)
	case errors.Is(err, usecase.ErrNotYetDue):
		return pkg.NewDomainErrorSimple("NOT_YET_DUE", "Invoice due date has not passed", http.StatusConflict)
	default:
		return mapCommonError(err)
	}
}
