package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fieldatlas/internal/domain"
	"fieldatlas/internal/ingest"
	"fieldatlas/internal/service"
)

// DocumentHandler handles document ingestion and result endpoints.
type DocumentHandler struct {
	processService service.ProcessService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(processService service.ProcessService) *DocumentHandler {
	return &DocumentHandler{processService: processService}
}

// Ingest handles POST /api/v1/documents. The request body is one
// extraction payload; the document is queued for the batch worker.
func (h *DocumentHandler) Ingest(c *gin.Context) {
	var payload ingest.Payload
	if err := c.ShouldBindJSON(&payload); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "request body is not a valid extraction payload")
		return
	}
	if payload.Name == "" {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "name is required")
		return
	}

	doc, err := h.processService.Ingest(c.Request.Context(), &payload)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, doc)
}

// List handles GET /api/v1/documents
func (h *DocumentHandler) List(c *gin.Context) {
	offset, limit := pagination(c)
	status := domain.ProcessingStatus(c.Query("status"))

	docs, total, err := h.processService.List(c.Request.Context(), status, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, docs, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/documents/:id
func (h *DocumentHandler) GetByID(c *gin.Context) {
	docID, ok := parseID(c)
	if !ok {
		return
	}
	doc, err := h.processService.GetByID(c.Request.Context(), docID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, doc)
}

// Results handles GET /api/v1/documents/:id/results
func (h *DocumentHandler) Results(c *gin.Context) {
	docID, ok := parseID(c)
	if !ok {
		return
	}
	results, err := h.processService.Results(c.Request.Context(), docID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, results)
}

// Mentions handles GET /api/v1/documents/:id/mentions
func (h *DocumentHandler) Mentions(c *gin.Context) {
	results, ok := h.results(c)
	if !ok {
		return
	}
	RespondOK(c, results.Mentions)
}

// Tables handles GET /api/v1/documents/:id/tables
func (h *DocumentHandler) Tables(c *gin.Context) {
	results, ok := h.results(c)
	if !ok {
		return
	}
	RespondOK(c, results.Tables)
}

// Keywords handles GET /api/v1/documents/:id/keywords
func (h *DocumentHandler) Keywords(c *gin.Context) {
	results, ok := h.results(c)
	if !ok {
		return
	}
	RespondOK(c, results.Keywords)
}

// results loads the extraction bundle for the :id document, writing the
// error response itself when the lookup fails.
func (h *DocumentHandler) results(c *gin.Context) (*service.DocumentResults, bool) {
	docID, ok := parseID(c)
	if !ok {
		return nil, false
	}
	results, err := h.processService.Results(c.Request.Context(), docID)
	if err != nil {
		HandleError(c, err)
		return nil, false
	}
	return results, true
}

// Reprocess handles POST /api/v1/documents/:id/reprocess
func (h *DocumentHandler) Reprocess(c *gin.Context) {
	docID, ok := parseID(c)
	if !ok {
		return
	}
	doc, err := h.processService.Reprocess(c.Request.Context(), docID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, doc)
}

// Delete handles DELETE /api/v1/documents/:id
func (h *DocumentHandler) Delete(c *gin.Context) {
	docID, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.processService.Delete(c.Request.Context(), docID); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": docID})
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid document ID")
		return uuid.Nil, false
	}
	return id, true
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
