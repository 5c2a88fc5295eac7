package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fieldatlas/internal/port"
	"fieldatlas/internal/service"
)

// SearchHandler handles spatial and thematic search endpoints.
type SearchHandler struct {
	searchService service.SearchService
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(searchService service.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// Locations handles GET /api/v1/search/locations. Either a bounding box
// (min_lat, max_lat, min_lon, max_lon) or a circle (lat, lon, radius_km)
// selects the search area.
func (h *SearchHandler) Locations(c *gin.Context) {
	offset, limit := pagination(c)

	if c.Query("radius_km") != "" {
		lat, ok1 := floatQuery(c, "lat")
		lon, ok2 := floatQuery(c, "lon")
		radius, ok3 := floatQuery(c, "radius_km")
		if !ok1 || !ok2 || !ok3 {
			RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "lat, lon, and radius_km must be numbers")
			return
		}
		mentions, total, err := h.searchService.ByRadius(c.Request.Context(), lat, lon, radius, offset, limit)
		if err != nil {
			HandleError(c, err)
			return
		}
		RespondPaginated(c, mentions, PagMeta{Total: total, Offset: offset, Limit: limit})
		return
	}

	minLat, ok1 := floatQuery(c, "min_lat")
	maxLat, ok2 := floatQuery(c, "max_lat")
	minLon, ok3 := floatQuery(c, "min_lon")
	maxLon, ok4 := floatQuery(c, "max_lon")
	if !ok1 || !ok2 || !ok3 || !ok4 {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "min_lat, max_lat, min_lon, and max_lon must be numbers")
		return
	}

	box := port.BoundingBox{MinLat: minLat, MaxLat: maxLat, MinLon: minLon, MaxLon: maxLon}
	mentions, total, err := h.searchService.ByBoundingBox(c.Request.Context(), box, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, mentions, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Topics handles GET /api/v1/search/topics?term=
func (h *SearchHandler) Topics(c *gin.Context) {
	offset, limit := pagination(c)
	term := c.Query("term")
	if term == "" {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "term is required")
		return
	}

	kws, total, err := h.searchService.ByTopic(c.Request.Context(), term, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, kws, PagMeta{Total: total, Offset: offset, Limit: limit})
}

func floatQuery(c *gin.Context, name string) (float64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
