package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"fieldatlas/internal/service"
)

// ExportHandler handles export download endpoints.
type ExportHandler struct {
	exportService service.ExportService
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(exportService service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// MentionsCSV handles GET /api/v1/exports/mentions.csv
func (h *ExportHandler) MentionsCSV(c *gin.Context) {
	export, err := h.exportService.MentionsCSV(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	writeExport(c, export)
}

// TablesCSV handles GET /api/v1/exports/tables.csv
func (h *ExportHandler) TablesCSV(c *gin.Context) {
	export, err := h.exportService.TablesCSV(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	writeExport(c, export)
}

// TablesXLSX handles GET /api/v1/exports/tables.xlsx
func (h *ExportHandler) TablesXLSX(c *gin.Context) {
	export, err := h.exportService.TablesXLSX(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	writeExport(c, export)
}

func writeExport(c *gin.Context, export *service.Export) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	if export.ArchiveURL != "" {
		c.Header("X-Archive-URL", export.ArchiveURL)
	}
	c.Data(200, export.ContentType, export.Data)
}
