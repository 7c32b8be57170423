package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"

	response "studioflow/internal/adapter/http/dto/response"
	"studioflow/internal/domain/entities"
	"studioflow/internal/usecase"
	"studioflow/pkg"

	"github.com/gin-gonic/gin"
)

var errProjectIDRequired = pkg.NewDomainErrorSimple("MISSING_PROJECT_ID", "Query parameter projectId is required", http.StatusBadRequest)

type DeliverableHandler struct {
	usecase usecase.IDeliverableUseCase
}

func NewDeliverableHandler(uc usecase.IDeliverableUseCase) *DeliverableHandler {
	return &DeliverableHandler{usecase: uc}
}

// @Summary  List a project's deliverables or get one by id
// @Tags     deliverables
// @Security Bearer
// @Param    id        query string false "deliverable id"
// @Param    projectId query string false "project id (required without id)"
// @Success  200 {object} response.Envelope
// @Router   /deliverables [get]
func (h *DeliverableHandler) Get(c *gin.Context) {
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
		d, err := h.usecase.Get(ctx, actor, q.ID)
		if err != nil {
			writeError(c, "deliverable", err, mapDeliverableError)
			return
		}
		c.JSON(http.StatusOK, response.OK(d))
		return
	}
	if q.ProjectID == "" {
		writeAppError(c, errProjectIDRequired)
		return
	}
	list, err := h.usecase.ListByProject(ctx, actor, q.ProjectID)
	if err != nil {
		writeError(c, "deliverable", err, mapDeliverableError)
		return
	}
	c.JSON(http.StatusOK, response.OK(list))
}

// Create accepts either multipart/form-data (fields projectId, title, optional link, and one or
// more "files" parts) or a JSON link deliverable.
//
// @Summary  Upload a deliverable
// @Tags     deliverables
// @Security Bearer
// @Accept   multipart/form-data,json
// @Param    projectId formData string true  "project id"
// @Param    title     formData string true  "title"
// @Param    link      formData string false "external link"
// @Param    files     formData file   false "files"
// @Success  201 {object} response.Envelope
// @Failure  502 {object} pkg.HTTPError
// @Router   /deliverables [post]
func (h *DeliverableHandler) Create(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	var (
		in    usecase.NewDeliverable
		files []usecase.UploadFile
	)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		form, err := c.MultipartForm()
		if err != nil {
			writeAppError(c, errInvalidRequest)
			return
		}
		in = usecase.NewDeliverable{
			ProjectID: strings.TrimSpace(first(form.Value["projectId"])),
			Title:     strings.TrimSpace(first(form.Value["title"])),
			Link:      strings.TrimSpace(first(form.Value["link"])),
		}
		opened, closeAll, err := openParts(form.File["files"])
		defer closeAll()
		if err != nil {
			log.Printf("[deliverable][handler] open multipart part failed err=%v", err)
			writeAppError(c, errInvalidRequest)
			return
		}
		files = opened
	} else if err := c.ShouldBindJSON(&in); err != nil {
		writeAppError(c, errInvalidRequest)
		return
	}

	created, err := h.usecase.Create(c.Request.Context(), actor, in, files)
	if err != nil {
		writeError(c, "deliverable", err, mapDeliverableError)
		return
	}
	c.JSON(http.StatusCreated, response.OK(created))
}

// @Summary  Review a deliverable
// @Tags     deliverables
// @Security Bearer
// @Param    id   query string                true "deliverable id"
// @Param    body body  request.ActionRequest true "review"
// @Success  200 {object} response.Envelope
// @Router   /deliverables [put]
func (h *DeliverableHandler) Update(c *gin.Context) {
	applyAction(c, "deliverable", mapDeliverableError, func(actor entities.User, id string, action entities.DeliverableAction, data json.RawMessage) (entities.Deliverable, error) {
		return h.usecase.Apply(c.Request.Context(), actor, id, action, data)
	})
}

// @Summary  Delete a deliverable and its stored files
// @Tags     deliverables
// @Security Bearer
// @Param    id query string true "deliverable id"
// @Success  200 {object} response.Envelope
// @Router   /deliverables [delete]
func (h *DeliverableHandler) Delete(c *gin.Context) {
	deleteByID(c, "deliverable", mapDeliverableError, func(actor entities.User, id string) error {
		return h.usecase.Delete(c.Request.Context(), actor, id)
	})
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// openParts opens every file part. The returned close function is always safe to call.
func openParts(headers []*multipart.FileHeader) ([]usecase.UploadFile, func(), error) {
	var closers []io.Closer
	closeAll := func() {
		for _, cl := range closers {
			_ = cl.Close()
		}
	}
	files := make([]usecase.UploadFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, closeAll, err
		}
		closers = append(closers, f)
		files = append(files, usecase.UploadFile{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Body:        f,
		})
	}
	return files, closeAll, nil
}

func mapDeliverableError(err error) *pkg.AppError {
	var partial *usecase.PartialUploadError
	switch {
	case errors.As(err, &partial):
		return pkg.NewDomainErrorSimple("UPLOAD_FAILED", "Upload of "+partial.Failed+" failed; earlier files were stored", http.StatusBadGateway).
			WithDetails(response.FromPartialUpload(partial))
	case errors.Is(err, usecase.ErrUploadFailed):
		return pkg.NewDomainErrorSimple("UPLOAD_FAILED", "File upload failed", http.StatusBadGateway)
	case errors.Is(err, usecase.ErrBlobStoreDisabled):
		return pkg.NewDomainErrorSimple("STORAGE_NOT_CONFIGURED", "File storage is not configured", http.StatusServiceUnavailable)
	case errors.Is(err, usecase.ErrNoContent):
		return pkg.NewDomainErrorSimple("NO_CONTENT", "Deliverable needs at least one file or a link", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrDeliverableNotFound):
		return pkg.NewDomainErrorSimple("DELIVERABLE_NOT_FOUND", "Deliverable not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrProjectNotFound):
		return pkg.NewDomainErrorSimple("PROJECT_NOT_FOUND", "Project not found", http.StatusNotFound)
	default:
		return mapCommonError(err)
	}
}
