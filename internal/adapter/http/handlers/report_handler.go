package handlers

import (
	"net/http"

	response "studioflow/internal/adapter/http/dto/response"
	"studioflow/internal/usecase"

	"github.com/gin-gonic/gin"
)

const defaultActivityLimit = 50

// ReportHandler serves the read-only dashboard, executive summary and activity feed.
type ReportHandler struct {
	usecase usecase.IReportUseCase
}

func NewReportHandler(uc usecase.IReportUseCase) *ReportHandler {
	return &ReportHandler{usecase: uc}
}

// @Summary  Role-aware dashboard counters
// @Tags     reports
// @Security Bearer
// @Success  200 {object} response.Envelope{data=usecase.Dashboard}
// @Router   /dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	d, err := h.usecase.Dashboard(c.Request.Context(), actor)
	if err != nil {
		writeError(c, "report", err, mapCommonError)
		return
	}
	c.JSON(http.StatusOK, response.OK(d))
}

// @Summary  Executive summary
// @Tags     reports
// @Security Bearer
// @Success  200 {object} response.Envelope{data=usecase.ExecutiveSummary}
// @Failure  403 {object} pkg.HTTPError
// @Router   /executive-summary [get]
func (h *ReportHandler) ExecutiveSummary(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	s, err := h.usecase.ExecutiveSummary(c.Request.Context(), actor)
	if err != nil {
		writeError(c, "report", err, mapCommonError)
		return
	}
	c.JSON(http.StatusOK, response.OK(s))
}

// @Summary  Recent activity
// @Tags     reports
// @Security Bearer
// @Param    limit query int false "max entries (default 50)"
// @Success  200 {object} response.Envelope
// @Router   /activities [get]
func (h *ReportHandler) Activities(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	q, ok := bindQuery(c)
	if !ok {
		return
	}
	limit := q.Limit
	if limit == 0 {
		limit = defaultActivityLimit
	}
	list, err := h.usecase.Activities(c.Request.Context(), actor, limit)
	if err != nil {
		writeError(c, "report", err, mapCommonError)
		return
	}
	c.JSON(http.StatusOK, response.OK(list))
}
