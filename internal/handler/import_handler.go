package handler

import (
	"io"
	"net/http"

	"billing/internal/middleware"
	"billing/internal/service"
	"billing/pkg/response"

	"github.com/gin-gonic/gin"
)

type ImportHandler struct {
	importService service.ImportService
}

func NewImportHandler(importService service.ImportService) *ImportHandler {
	return &ImportHandler{importService: importService}
}

func (h *ImportHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/api/import", middleware.RequireAuth(), h.ImportCSV)
}

// ImportCSV ingests CSV files uploaded as multipart form fields named after
// the tables they load (routes, vendors, items, bills, bill_items). Each
// file is optional; present files are processed in dependency order so that
// vendors can reference routes uploaded in the same request.
// @Summary      Bulk import from CSV
// @Tags         import
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        routes      formData  file  false  "Routes CSV"
// @Param        vendors     formData  file  false  "Vendors CSV"
// @Param        items       formData  file  false  "Items CSV"
// @Param        bills       formData  file  false  "Bills CSV"
// @Param        bill_items  formData  file  false  "Bill items CSV"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/import [post]
func (h *ImportHandler) ImportCSV(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid multipart form: "+err.Error()))
		return
	}

	files := make(map[string]io.Reader)
	var open []io.Closer
	defer func() {
		for _, f := range open {
			f.Close()
		}
	}()

	for _, table := range service.ImportTables {
		headers := form.File[table]
		if len(headers) == 0 {
			continue
		}
		f, err := headers[0].Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Cannot read uploaded file '"+table+"': "+err.Error()))
			return
		}
		open = append(open, f)
		files[table] = f
	}

	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "No CSV files uploaded. Expected form fields: routes, vendors, items, bills, bill_items"))
		return
	}

	results := h.importService.ImportAll(c.Request.Context(), files)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"results": results}))
}
