// Package csvexport renders extracted location mentions as CSV for use in
// GIS tooling and spreadsheets.
package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"fieldatlas/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row.
var columns = []string{
	"Document ID",
	"Text",
	"Type",
	"Latitude",
	"Longitude",
	"UTM Zone",
	"Confidence",
	"Page",
	"Context",
	"Created At",
}

// Writer wraps csv.Writer for exporting location mentions as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteMentions converts a batch of mentions to CSV rows and writes them.
func (w *Writer) WriteMentions(mentions []domain.LocationMention) error {
	for i := range mentions {
		if err := w.csv.Write(mentionToRow(&mentions[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// mentionToRow converts a single mention to a row. Unresolved mentions get
// empty coordinate columns rather than zeros, so spreadsheet filters and
// GIS imports do not place them in the Gulf of Guinea.
func mentionToRow(m *domain.LocationMention) []string {
	row := make([]string, len(columns))
	row[0] = m.DocumentID.String()
	row[1] = m.Text
	row[2] = string(m.Type)
	if lat, lon, ok := m.Coordinates(); ok {
		row[3] = formatCoord(lat)
		row[4] = formatCoord(lon)
	}
	if m.UTMZone != nil {
		row[5] = *m.UTMZone
	}
	row[6] = strconv.FormatFloat(m.Confidence, 'f', 3, 64)
	row[7] = strconv.Itoa(m.PageNumber)
	row[8] = m.Context
	row[9] = m.CreatedAt.Format(time.RFC3339)
	return row
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// tableColumns defines the header row for the accepted-tables CSV. Cell
// data stays in the XLSX export; the CSV is a one-row-per-table inventory.
var tableColumns = []string{
	"Document ID",
	"Table ID",
	"Page",
	"Source",
	"Rows",
	"Columns",
	"Quality Score",
	"Headers",
	"Created At",
}

// TableWriter wraps csv.Writer for exporting accepted tables as CSV.
type TableWriter struct {
	csv *csv.Writer
}

// NewTableWriter creates a TableWriter that writes CSV to w.
func NewTableWriter(w io.Writer) *TableWriter {
	return &TableWriter{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *TableWriter) WriteHeader() error {
	return w.csv.Write(tableColumns)
}

// WriteTables converts a batch of accepted tables to CSV rows and writes them.
func (w *TableWriter) WriteTables(tbls []domain.TableCandidate) error {
	for i := range tbls {
		if err := w.csv.Write(tableToRow(&tbls[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *TableWriter) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *TableWriter) Error() error {
	return w.csv.Error()
}

func tableToRow(t *domain.TableCandidate) []string {
	row := make([]string, len(tableColumns))
	row[0] = t.DocumentID.String()
	row[1] = t.TableID
	row[2] = strconv.Itoa(t.PageNumber)
	row[3] = string(t.ExtractorSource)
	row[4] = strconv.Itoa(t.Rows)
	row[5] = strconv.Itoa(t.Columns)
	row[6] = strconv.FormatFloat(t.QualityScore, 'f', 3, 64)
	row[7] = strings.Join(t.Headers, " | ")
	row[8] = t.CreatedAt.Format(time.RFC3339)
	return row
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition. Replaces
// non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for Content-Disposition.
// Format: {sanitized_name}_{YYYY-MM-DD}.{ext}
func BuildFilename(name, ext string) string {
	return fmt.Sprintf("%s_%s.%s", SanitizeFilename(name), time.Now().Format("2006-01-02"), ext)
}
