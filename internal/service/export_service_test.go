package service_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"fieldatlas/internal/csvexport"
	"fieldatlas/internal/domain"
	"fieldatlas/internal/port"
	"fieldatlas/internal/service"
	"fieldatlas/mocks"
)

// Mirrors the page size the export service pulls per repository call.
const exportPageSize = 200

func TestMentionsCSV(t *testing.T) {
	docRepo := new(mocks.MockDocumentRepo)
	mentionRepo := new(mocks.MockMentionRepo)
	tableRepo := new(mocks.MockTableRepo)
	svc := service.NewExportService(docRepo, mentionRepo, tableRepo, nil, "", 0)

	docID := uuid.New()
	lat, lon := 35.217155, -111.774633
	docRepo.On("List", mock.Anything, domain.ProcessingStatusCompleted, 0, exportPageSize).
		Return([]domain.Document{{ID: docID}}, 1, nil)
	mentionRepo.On("ListByDocument", mock.Anything, docID).
		Return([]domain.LocationMention{
			{DocumentID: docID, Text: "Fort Valley", Type: domain.MentionTypeNamedLocation,
				Latitude: &lat, Longitude: &lon, Confidence: 0.965, PageNumber: 1},
		}, nil)

	export, err := svc.MentionsCSV(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "text/csv; charset=utf-8", export.ContentType)
	assert.True(t, strings.HasSuffix(export.Filename, ".csv"))
	assert.Empty(t, export.ArchiveURL)

	require.True(t, bytes.HasPrefix(export.Data, csvexport.BOM))
	records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(export.Data, csvexport.BOM))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Fort Valley", records[1][1])
	assert.Equal(t, "35.217155", records[1][3])
}

func TestMentionsCSV_ArchivesToStorage(t *testing.T) {
	docRepo := new(mocks.MockDocumentRepo)
	mentionRepo := new(mocks.MockMentionRepo)
	storage := new(mocks.MockObjectStorage)
	svc := service.NewExportService(docRepo, mentionRepo, new(mocks.MockTableRepo), storage, "fieldatlas-exports", 3600)

	docRepo.On("List", mock.Anything, domain.ProcessingStatusCompleted, 0, exportPageSize).
		Return([]domain.Document{}, 0, nil)
	storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Bucket == "fieldatlas-exports" && strings.HasPrefix(in.Key, "exports/")
	})).Return(&port.UploadOutput{}, nil)
	storage.On("GetPresignedURL", mock.Anything, "fieldatlas-exports", mock.Anything, int64(3600)).
		Return("https://minio.local/presigned", nil)

	export, err := svc.MentionsCSV(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://minio.local/presigned", export.ArchiveURL)
	storage.AssertExpectations(t)
}

func TestMentionsCSV_ArchiveFailureIsNotFatal(t *testing.T) {
	docRepo := new(mocks.MockDocumentRepo)
	storage := new(mocks.MockObjectStorage)
	svc := service.NewExportService(docRepo, new(mocks.MockMentionRepo), new(mocks.MockTableRepo), storage, "fieldatlas-exports", 3600)

	docRepo.On("List", mock.Anything, domain.ProcessingStatusCompleted, 0, exportPageSize).
		Return([]domain.Document{}, 0, nil)
	storage.On("Upload", mock.Anything, mock.Anything).
		Return(nil, errors.New("bucket unreachable"))

	export, err := svc.MentionsCSV(context.Background())
	require.NoError(t, err)
	assert.Empty(t, export.ArchiveURL)
	assert.NotEmpty(t, export.Data)
}

func TestTablesCSV(t *testing.T) {
	tableRepo := new(mocks.MockTableRepo)
	svc := service.NewExportService(new(mocks.MockDocumentRepo), new(mocks.MockMentionRepo), tableRepo, nil, "", 0)

	docID := uuid.New()
	tableRepo.On("ListAccepted", mock.Anything, 0, exportPageSize).
		Return([]domain.TableCandidate{
			{
				TableID:         "p1-t0",
				DocumentID:      docID,
				PageNumber:      1,
				ExtractorSource: domain.ExtractorSourceFallback,
				Rows:            2,
				Columns:         2,
				Headers:         domain.StringList{"Plot", "Flow"},
				QualityScore:    0.7,
				Accepted:        true,
			},
		}, 1, nil)

	export, err := svc.TablesCSV(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "text/csv; charset=utf-8", export.ContentType)
	assert.True(t, strings.HasSuffix(export.Filename, ".csv"))

	require.True(t, bytes.HasPrefix(export.Data, csvexport.BOM))
	records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(export.Data, csvexport.BOM))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "p1-t0", records[1][1])
	assert.Equal(t, "fallback", records[1][3])
	assert.Equal(t, "0.700", records[1][6])
}

func TestTablesXLSX(t *testing.T) {
	tableRepo := new(mocks.MockTableRepo)
	svc := service.NewExportService(new(mocks.MockDocumentRepo), new(mocks.MockMentionRepo), tableRepo, nil, "", 0)

	docID := uuid.New()
	tableRepo.On("ListAccepted", mock.Anything, 0, exportPageSize).
		Return([]domain.TableCandidate{
			{
				TableID:         "p1-t0",
				DocumentID:      docID,
				PageNumber:      1,
				ExtractorSource: domain.ExtractorSourcePrimary,
				Rows:            2,
				Columns:         2,
				Headers:         domain.StringList{"Plot", "Flow"},
				Data:            domain.TableData{{"A1", "12.4"}, {"B2", "9.1"}},
				QualityScore:    1.0,
				Accepted:        true,
			},
		}, 1, nil)

	export, err := svc.TablesXLSX(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(export.Filename, ".xlsx"))

	f, err := excelize.OpenReader(bytes.NewReader(export.Data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Contains(t, f.GetSheetList(), "Tables")
	require.Contains(t, f.GetSheetList(), "Table1")

	got, err := f.GetCellValue("Table1", "A2")
	require.NoError(t, err)
	assert.Equal(t, "A1", got)

	idx, err := f.GetCellValue("Tables", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Table1", idx)
}

func TestTablesXLSX_RepositoryError(t *testing.T) {
	tableRepo := new(mocks.MockTableRepo)
	svc := service.NewExportService(new(mocks.MockDocumentRepo), new(mocks.MockMentionRepo), tableRepo, nil, "", 0)

	tableRepo.On("ListAccepted", mock.Anything, 0, exportPageSize).
		Return(nil, 0, errors.New("connection refused"))

	_, err := svc.TablesXLSX(context.Background())
	assert.Error(t, err)
}
