package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fieldatlas/internal/domain"
	"fieldatlas/internal/service"
	"fieldatlas/mocks"
)

func setupDocumentRouter(svc *mocks.MockProcessService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewDocumentHandler(svc)
	r := gin.New()
	v1 := r.Group("/api/v1")
	v1.POST("/documents", h.Ingest)
	v1.GET("/documents", h.List)
	v1.GET("/documents/:id", h.GetByID)
	v1.GET("/documents/:id/results", h.Results)
	v1.GET("/documents/:id/mentions", h.Mentions)
	v1.GET("/documents/:id/tables", h.Tables)
	v1.GET("/documents/:id/keywords", h.Keywords)
	v1.POST("/documents/:id/reprocess", h.Reprocess)
	v1.DELETE("/documents/:id", h.Delete)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestIngestEndpoint(t *testing.T) {
	svc := new(mocks.MockProcessService)
	doc := &domain.Document{ID: uuid.New(), Name: "fort-valley-1925", ProcessingStatus: domain.ProcessingStatusQueued}
	svc.On("Ingest", mock.Anything, mock.Anything).Return(doc, nil)
	r := setupDocumentRouter(svc)

	w, resp := doJSON(t, r, http.MethodPost, "/api/v1/documents", gin.H{
		"name":       "fort-valley-1925",
		"media_type": "pdf",
		"pages":      []string{"Plots at Fort Valley."},
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, resp.Success)
	svc.AssertExpectations(t)
}

func TestIngestEndpoint_MissingName(t *testing.T) {
	svc := new(mocks.MockProcessService)
	r := setupDocumentRouter(svc)

	w, resp := doJSON(t, r, http.MethodPost, "/api/v1/documents", gin.H{
		"pages": []string{"text"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_REQUEST", resp.Error.Code)
	svc.AssertNotCalled(t, "Ingest", mock.Anything, mock.Anything)
}

func TestIngestEndpoint_EmptyDocument(t *testing.T) {
	svc := new(mocks.MockProcessService)
	svc.On("Ingest", mock.Anything, mock.Anything).Return(nil, domain.ErrDocumentEmpty)
	r := setupDocumentRouter(svc)

	w, resp := doJSON(t, r, http.MethodPost, "/api/v1/documents", gin.H{
		"name":  "blank",
		"pages": []string{""},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "DOCUMENT_EMPTY", resp.Error.Code)
}

func TestGetByIDEndpoint_InvalidID(t *testing.T) {
	svc := new(mocks.MockProcessService)
	r := setupDocumentRouter(svc)

	w, resp := doJSON(t, r, http.MethodGet, "/api/v1/documents/not-a-uuid", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_ID", resp.Error.Code)
}

func TestGetByIDEndpoint_NotFound(t *testing.T) {
	svc := new(mocks.MockProcessService)
	id := uuid.New()
	svc.On("GetByID", mock.Anything, id).Return(nil, domain.ErrDocumentNotFound)
	r := setupDocumentRouter(svc)

	w, resp := doJSON(t, r, http.MethodGet, "/api/v1/documents/"+id.String(), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "DOCUMENT_NOT_FOUND", resp.Error.Code)
}

func TestListEndpoint_PaginationBounds(t *testing.T) {
	svc := new(mocks.MockProcessService)
	// Out-of-bounds limits fall back to the default page size.
	svc.On("List", mock.Anything, domain.ProcessingStatus(""), 0, 50).
		Return([]domain.Document{}, 0, nil)
	r := setupDocumentRouter(svc)

	w, resp := doJSON(t, r, http.MethodGet, "/api/v1/documents?offset=-5&limit=9999", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 50, resp.Meta.Limit)
	svc.AssertExpectations(t)
}

func TestListEndpoint_StatusFilter(t *testing.T) {
	svc := new(mocks.MockProcessService)
	svc.On("List", mock.Anything, domain.ProcessingStatusFailed, 0, 50).
		Return([]domain.Document{{Name: "broken"}}, 1, nil)
	r := setupDocumentRouter(svc)

	w, resp := doJSON(t, r, http.MethodGet, "/api/v1/documents?status=failed", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 1, resp.Meta.Total)
}

func TestResultsEndpoint_NotProcessed(t *testing.T) {
	svc := new(mocks.MockProcessService)
	id := uuid.New()
	svc.On("Results", mock.Anything, id).Return(nil, domain.ErrDocumentNotProcessed)
	r := setupDocumentRouter(svc)

	w, resp := doJSON(t, r, http.MethodGet, "/api/v1/documents/"+id.String()+"/results", nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "DOCUMENT_NOT_PROCESSED", resp.Error.Code)
}

func TestResultsEndpoint(t *testing.T) {
	svc := new(mocks.MockProcessService)
	id := uuid.New()
	svc.On("Results", mock.Anything, id).Return(&service.DocumentResults{
		Document: &domain.Document{ID: id, ProcessingStatus: domain.ProcessingStatusCompleted},
		Mentions: []domain.LocationMention{{Text: "Fort Valley"}},
	}, nil)
	r := setupDocumentRouter(svc)

	w, resp := doJSON(t, r, http.MethodGet, "/api/v1/documents/"+id.String()+"/results", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Data)
}

func TestMentionsEndpoint(t *testing.T) {
	svc := new(mocks.MockProcessService)
	id := uuid.New()
	svc.On("Results", mock.Anything, id).Return(&service.DocumentResults{
		Document: &domain.Document{ID: id, ProcessingStatus: domain.ProcessingStatusCompleted},
		Mentions: []domain.LocationMention{{Text: "Fort Valley", Type: domain.MentionTypeNamedLocation}},
	}, nil)
	r := setupDocumentRouter(svc)

	w, resp := doJSON(t, r, http.MethodGet, "/api/v1/documents/"+id.String()+"/mentions", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	require.True(t, resp.Success)
	mentions, ok := resp.Data.([]any)
	require.True(t, ok)
	require.Len(t, mentions, 1)
	assert.Equal(t, "Fort Valley", mentions[0].(map[string]any)["text"])
}

func TestKeywordsEndpoint(t *testing.T) {
	svc := new(mocks.MockProcessService)
	id := uuid.New()
	svc.On("Results", mock.Anything, id).Return(&service.DocumentResults{
		Document: &domain.Document{ID: id, ProcessingStatus: domain.ProcessingStatusCompleted},
		Keywords: []domain.Keyword{{Term: "runoff", Score: 1.0, Rank: 1}},
	}, nil)
	r := setupDocumentRouter(svc)

	w, resp := doJSON(t, r, http.MethodGet, "/api/v1/documents/"+id.String()+"/keywords", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	kws, ok := resp.Data.([]any)
	require.True(t, ok)
	require.Len(t, kws, 1)
	assert.Equal(t, "runoff", kws[0].(map[string]any)["term"])
}

func TestTablesEndpoint_NotProcessed(t *testing.T) {
	svc := new(mocks.MockProcessService)
	id := uuid.New()
	svc.On("Results", mock.Anything, id).Return(nil, domain.ErrDocumentNotProcessed)
	r := setupDocumentRouter(svc)

	w, resp := doJSON(t, r, http.MethodGet, "/api/v1/documents/"+id.String()+"/tables", nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "DOCUMENT_NOT_PROCESSED", resp.Error.Code)
}

func TestReprocessEndpoint(t *testing.T) {
	svc := new(mocks.MockProcessService)
	id := uuid.New()
	doc := &domain.Document{ID: id, ProcessingStatus: domain.ProcessingStatusQueued}
	svc.On("Reprocess", mock.Anything, id).Return(doc, nil)
	r := setupDocumentRouter(svc)

	w, resp := doJSON(t, r, http.MethodPost, "/api/v1/documents/"+id.String()+"/reprocess", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	svc.AssertExpectations(t)
}

func TestDeleteEndpoint(t *testing.T) {
	svc := new(mocks.MockProcessService)
	id := uuid.New()
	svc.On("Delete", mock.Anything, id).Return(nil)
	r := setupDocumentRouter(svc)

	w, resp := doJSON(t, r, http.MethodDelete, "/api/v1/documents/"+id.String(), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	svc.AssertExpectations(t)
}
