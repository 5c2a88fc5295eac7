package service

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"github.com/xuri/excelize/v2"

	"fieldatlas/internal/csvexport"
	"fieldatlas/internal/domain"
	"fieldatlas/internal/port"
)

// exportPageSize controls how many documents are pulled per page while
// streaming an archive-wide export.
const exportPageSize = 200

// Export is a rendered export artifact.
type Export struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
	ArchiveURL  string `json:"archive_url,omitempty"`
}

// ExportService renders extraction results as downloadable artifacts and
// optionally archives them to object storage.
type ExportService interface {
	MentionsCSV(ctx context.Context) (*Export, error)
	TablesCSV(ctx context.Context) (*Export, error)
	TablesXLSX(ctx context.Context) (*Export, error)
}

type exportService struct {
	docRepo     port.DocumentRepository
	mentionRepo port.MentionRepository
	tableRepo   port.TableRepository
	storage     port.ObjectStorage // nil disables archiving
	bucket      string
	presignTTL  int64
}

// NewExportService creates a new ExportService implementation. A nil
// storage disables export archiving; downloads still work.
func NewExportService(
	docRepo port.DocumentRepository,
	mentionRepo port.MentionRepository,
	tableRepo port.TableRepository,
	storage port.ObjectStorage,
	bucket string,
	presignTTL int64,
) ExportService {
	return &exportService{
		docRepo:     docRepo,
		mentionRepo: mentionRepo,
		tableRepo:   tableRepo,
		storage:     storage,
		bucket:      bucket,
		presignTTL:  presignTTL,
	}
}

func (s *exportService) MentionsCSV(ctx context.Context) (*Export, error) {
	var buf bytes.Buffer
	buf.Write(csvexport.BOM)
	w := csvexport.NewWriter(&buf)
	if err := w.WriteHeader(); err != nil {
		return nil, fmt.Errorf("exportService.MentionsCSV: %w", err)
	}

	offset := 0
	for {
		docs, total, err := s.docRepo.List(ctx, domain.ProcessingStatusCompleted, offset, exportPageSize)
		if err != nil {
			return nil, fmt.Errorf("exportService.MentionsCSV: %w", err)
		}
		for i := range docs {
			mentions, err := s.mentionRepo.ListByDocument(ctx, docs[i].ID)
			if err != nil {
				return nil, fmt.Errorf("exportService.MentionsCSV: %w", err)
			}
			if err := w.WriteMentions(mentions); err != nil {
				return nil, fmt.Errorf("exportService.MentionsCSV: %w", err)
			}
		}
		offset += len(docs)
		if offset >= total || len(docs) == 0 {
			break
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("exportService.MentionsCSV: %w", err)
	}

	export := &Export{
		Filename:    csvexport.BuildFilename("location_mentions", "csv"),
		ContentType: "text/csv; charset=utf-8",
		Data:        buf.Bytes(),
	}
	s.archive(ctx, export)
	return export, nil
}

// TablesCSV renders the accepted-table inventory as CSV, one row per
// table. Cell data is only in the XLSX export.
func (s *exportService) TablesCSV(ctx context.Context) (*Export, error) {
	var buf bytes.Buffer
	buf.Write(csvexport.BOM)
	w := csvexport.NewTableWriter(&buf)
	if err := w.WriteHeader(); err != nil {
		return nil, fmt.Errorf("exportService.TablesCSV: %w", err)
	}

	offset := 0
	for {
		tbls, total, err := s.tableRepo.ListAccepted(ctx, offset, exportPageSize)
		if err != nil {
			return nil, fmt.Errorf("exportService.TablesCSV: %w", err)
		}
		if err := w.WriteTables(tbls); err != nil {
			return nil, fmt.Errorf("exportService.TablesCSV: %w", err)
		}
		offset += len(tbls)
		if offset >= total || len(tbls) == 0 {
			break
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("exportService.TablesCSV: %w", err)
	}

	export := &Export{
		Filename:    csvexport.BuildFilename("accepted_tables", "csv"),
		ContentType: "text/csv; charset=utf-8",
		Data:        buf.Bytes(),
	}
	s.archive(ctx, export)
	return export, nil
}

func (s *exportService) TablesXLSX(ctx context.Context) (*Export, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	indexSheet := f.GetSheetName(f.GetActiveSheetIndex())
	f.SetSheetName(indexSheet, "Tables")
	if err := writeTableIndexHeader(f); err != nil {
		return nil, fmt.Errorf("exportService.TablesXLSX: %w", err)
	}

	row := 2
	sheetNum := 0
	offset := 0
	for {
		tbls, total, err := s.tableRepo.ListAccepted(ctx, offset, exportPageSize)
		if err != nil {
			return nil, fmt.Errorf("exportService.TablesXLSX: %w", err)
		}
		for i := range tbls {
			sheetNum++
			sheet := fmt.Sprintf("Table%d", sheetNum)
			if _, err := f.NewSheet(sheet); err != nil {
				return nil, fmt.Errorf("exportService.TablesXLSX: %w", err)
			}
			if err := writeTableSheet(f, sheet, &tbls[i]); err != nil {
				return nil, fmt.Errorf("exportService.TablesXLSX: %w", err)
			}
			if err := writeTableIndexRow(f, row, sheet, &tbls[i]); err != nil {
				return nil, fmt.Errorf("exportService.TablesXLSX: %w", err)
			}
			row++
		}
		offset += len(tbls)
		if offset >= total || len(tbls) == 0 {
			break
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("exportService.TablesXLSX: %w", err)
	}

	export := &Export{
		Filename:    csvexport.BuildFilename("accepted_tables", "xlsx"),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        buf.Bytes(),
	}
	s.archive(ctx, export)
	return export, nil
}

// archive uploads the export to object storage when configured. Failures
// are logged, not returned: a download that works locally should not break
// because the archive bucket is unreachable.
func (s *exportService) archive(ctx context.Context, export *Export) {
	if s.storage == nil {
		return
	}
	key := "exports/" + export.Filename
	_, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.bucket,
		Key:         key,
		Body:        bytes.NewReader(export.Data),
		ContentType: export.ContentType,
	})
	if err != nil {
		log.Printf("exportService.archive: upload of %s failed: %v", key, err)
		return
	}
	url, err := s.storage.GetPresignedURL(ctx, s.bucket, key, s.presignTTL)
	if err != nil {
		log.Printf("exportService.archive: presign of %s failed: %v", key, err)
		return
	}
	export.ArchiveURL = url
}

func writeTableIndexHeader(f *excelize.File) error {
	headers := []string{"Sheet", "Document ID", "Page", "Source", "Rows", "Columns", "Quality Score"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue("Tables", cell, h); err != nil {
			return err
		}
	}
	return nil
}

func writeTableIndexRow(f *excelize.File, row int, sheet string, t *domain.TableCandidate) error {
	values := []interface{}{
		sheet, t.DocumentID.String(), t.PageNumber, string(t.ExtractorSource),
		t.Rows, t.Columns, t.QualityScore,
	}
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue("Tables", cell, v); err != nil {
			return err
		}
	}
	return nil
}

func writeTableSheet(f *excelize.File, sheet string, t *domain.TableCandidate) error {
	rowNum := 1
	if len(t.Headers) > 0 {
		if err := setRow(f, sheet, rowNum, t.Headers); err != nil {
			return err
		}
		rowNum++
	}
	for _, dataRow := range t.Data {
		if err := setRow(f, sheet, rowNum, dataRow); err != nil {
			return err
		}
		rowNum++
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, cells []string) error {
	for i, v := range cells {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}
