package handler

import (
	"github.com/gin-gonic/gin"

	"fieldatlas/internal/gazetteer"
)

// GazetteerHandler exposes the loaded gazetteer for inspection.
type GazetteerHandler struct {
	gaz *gazetteer.Gazetteer
}

// NewGazetteerHandler creates a new GazetteerHandler.
func NewGazetteerHandler(gaz *gazetteer.Gazetteer) *GazetteerHandler {
	return &GazetteerHandler{gaz: gaz}
}

// List handles GET /api/v1/gazetteer
func (h *GazetteerHandler) List(c *gin.Context) {
	entries := h.gaz.Entries()
	RespondPaginated(c, entries, PagMeta{Total: len(entries), Offset: 0, Limit: len(entries)})
}
