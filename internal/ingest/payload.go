// Package ingest reads extraction payloads produced by the upstream OCR and
// table-extraction stage. One JSON file per document: page texts, raw table
// candidates from both backends, and a count of backend page failures.
package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fieldatlas/internal/domain"
)

// RawTable mirrors one backend table proposal in the payload file.
type RawTable struct {
	TableID    string     `json:"table_id"`
	PageNumber int        `json:"page_number"`
	Source     string     `json:"source"`
	Headers    []string   `json:"headers"`
	Data       [][]string `json:"data"`
}

// Payload is the on-disk extraction result for one document.
type Payload struct {
	Name            string     `json:"name"`
	MediaType       string     `json:"media_type"`
	Pages           []string   `json:"pages"`
	Tables          []RawTable `json:"tables"`
	BackendFailures int        `json:"backend_failures"`
}

// ReadFile parses one payload file.
func ReadFile(path string) (*Payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ingest.ReadFile: %w", err)
	}
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("ingest.ReadFile %s: %w", filepath.Base(path), err)
	}
	if p.Name == "" {
		p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if p.MediaType == "" {
		p.MediaType = string(domain.MediaTypePDF)
	}
	return &p, nil
}

// ListDir returns the payload files in dir in deterministic order.
func ListDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("ingest.ListDir: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// ToDocument converts the payload into a queued document. Media types the
// pipeline cannot process and payloads with no page text are rejected here
// so they never enter the queue.
func (p *Payload) ToDocument() (*domain.Document, error) {
	mediaType := domain.MediaType(strings.ToLower(p.MediaType))
	if !mediaType.Valid() {
		return nil, domain.ErrUnsupportedMediaType
	}
	hasText := false
	for _, page := range p.Pages {
		if strings.TrimSpace(page) != "" {
			hasText = true
			break
		}
	}
	if !hasText {
		return nil, domain.ErrDocumentEmpty
	}

	raw := make(domain.RawTableList, 0, len(p.Tables))
	for i, t := range p.Tables {
		source := domain.ExtractorSource(strings.ToLower(t.Source))
		if !source.Valid() {
			source = domain.ExtractorSourcePrimary
		}
		tableID := t.TableID
		if tableID == "" {
			tableID = fmt.Sprintf("p%d-t%d", t.PageNumber, i)
		}
		raw = append(raw, domain.RawTable{
			TableID:    tableID,
			PageNumber: t.PageNumber,
			Source:     source,
			Headers:    t.Headers,
			Data:       t.Data,
		})
	}

	return &domain.Document{
		Name:             p.Name,
		MediaType:        mediaType,
		Pages:            p.Pages,
		RawTables:        raw,
		BackendFailures:  p.BackendFailures,
		ProcessingStatus: domain.ProcessingStatusQueued,
	}, nil
}
