package handler

import (
	"net/http"

	"billing/internal/service"
	"billing/pkg/response"

	"github.com/gin-gonic/gin"
)

type SummaryHandler struct {
	summaryService service.SummaryService
}

func NewSummaryHandler(summaryService service.SummaryService) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService}
}

func (h *SummaryHandler) RegisterRoutes(router *gin.RouterGroup) {
	summary := router.Group("/api/summary")
	{
		summary.GET("", h.GetSummary)
		summary.GET("/export", h.ExportSummary)
	}
	router.GET("/api/bills/:id/invoice", h.ExportInvoice)
}

// GetSummary returns grand totals and the item-wise breakdown across all bills
// @Summary      Billing summary report
// @Tags         summary
// @Produce      json
// @Param        lang  query  string  false  "Display language: en or gu (default en)"
// @Success      200  {object}  response.Response
// @Router       /api/summary [get]
func (h *SummaryHandler) GetSummary(c *gin.Context) {
	summary, err := h.summaryService.GetSummary(c.Request.Context(), c.DefaultQuery("lang", "en"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}

// ExportSummary downloads the summary report as an XLSX workbook or CSV
// @Summary      Export summary report
// @Tags         summary
// @Produce      application/octet-stream
// @Param        lang    query  string  false  "Display language: en or gu (default en)"
// @Param        format  query  string  false  "xlsx (default) or csv"
// @Success      200  {file}  file
// @Failure      400  {object}  response.Response
// @Router       /api/summary/export [get]
func (h *SummaryHandler) ExportSummary(c *gin.Context) {
	file, err := h.summaryService.ExportSummary(c.Request.Context(), c.DefaultQuery("lang", "en"), c.DefaultQuery("format", "xlsx"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	serveFile(c, file)
}

// ExportInvoice downloads a printable invoice workbook for one bill
// @Summary      Export bill invoice
// @Tags         summary
// @Produce      application/octet-stream
// @Param        id    path   string  true   "Bill ID"
// @Param        lang  query  string  false  "Display language: en or gu (default en)"
// @Success      200  {file}  file
// @Failure      400  {object}  response.Response
// @Router       /api/bills/{id}/invoice [get]
func (h *SummaryHandler) ExportInvoice(c *gin.Context) {
	file, err := h.summaryService.ExportInvoice(c.Request.Context(), c.Param("id"), c.DefaultQuery("lang", "en"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	serveFile(c, file)
}

func serveFile(c *gin.Context, file service.ExportFile) {
	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Content)
}
