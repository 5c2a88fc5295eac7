package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StringList is a []string stored as a JSONB column.
type StringList []string

// Value implements driver.Valuer.
func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner.
func (s *StringList) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	case nil:
		*s = nil
		return nil
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
}

// TableData is an ordered sequence of ordered rows stored as a JSONB column.
type TableData [][]string

// Value implements driver.Valuer.
func (d TableData) Value() (driver.Value, error) {
	if d == nil {
		return "[]", nil
	}
	return json.Marshal(d)
}

// Scan implements sql.Scanner.
func (d *TableData) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	case nil:
		*d = nil
		return nil
	default:
		return fmt.Errorf("cannot scan %T into TableData", src)
	}
}

// RawTable is one unscored table proposal as delivered by an extraction
// backend, before quality filtering.
type RawTable struct {
	TableID    string          `json:"table_id"`
	PageNumber int             `json:"page_number"`
	Source     ExtractorSource `json:"source"`
	Headers    []string        `json:"headers"`
	Data       [][]string      `json:"data"`
}

// RawTableList is a []RawTable stored as a JSONB column. Keeping the raw
// candidates on the document lets a reprocess run the quality filter again
// without re-ingesting.
type RawTableList []RawTable

// Value implements driver.Valuer.
func (l RawTableList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *RawTableList) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	case nil:
		*l = nil
		return nil
	default:
		return fmt.Errorf("cannot scan %T into RawTableList", src)
	}
}

// Diagnostics holds per-document extraction counters. Nothing in here is
// fatal; failed matches and dropped candidates are counted, not raised.
type Diagnostics struct {
	MentionCount        int `json:"mention_count"`
	ResolvedMentions    int `json:"resolved_mentions"`
	DroppedOutOfRange   int `json:"dropped_out_of_range"`
	KeywordCount        int `json:"keyword_count"`
	TableCandidateCount int `json:"table_candidate_count"`
	TableAcceptedCount  int `json:"table_accepted_count"`
	BackendFailures     int `json:"backend_failures"`
}

// Value implements driver.Valuer.
func (d Diagnostics) Value() (driver.Value, error) {
	return json.Marshal(d)
}

// Scan implements sql.Scanner.
func (d *Diagnostics) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	case nil:
		*d = Diagnostics{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Diagnostics", src)
	}
}

// Document represents one archived research document and its extraction run.
type Document struct {
	ID               uuid.UUID        `db:"id" json:"id"`
	Name             string           `db:"name" json:"name"`
	MediaType        MediaType        `db:"media_type" json:"media_type"`
	Pages            StringList       `db:"pages" json:"pages"`
	RawTables        RawTableList     `db:"raw_tables" json:"raw_tables"`
	BackendFailures  int              `db:"backend_failures" json:"backend_failures"`
	ProcessingStatus ProcessingStatus `db:"processing_status" json:"processing_status"`
	ProcessingError  string           `db:"processing_error" json:"processing_error"`
	ProcessAttempts  int              `db:"process_attempts" json:"process_attempts"`
	Diagnostics      Diagnostics      `db:"diagnostics" json:"diagnostics"`
	ProcessedAt      *time.Time       `db:"processed_at" json:"processed_at"`
	CreatedAt        time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updated_at"`
}

// FullText returns the document's pages joined into one string.
func (d *Document) FullText() string {
	out := ""
	for i, p := range d.Pages {
		if i > 0 {
			out += "\n"
		}
		out += p
	}
	return out
}

// LocationMention is one detected geographic reference within a document.
// Instances are built through the New*Mention constructors so that
// out-of-range coordinates are rejected at creation time.
type LocationMention struct {
	ID         uuid.UUID   `db:"id" json:"id"`
	DocumentID uuid.UUID   `db:"document_id" json:"document_id"`
	Text       string      `db:"text" json:"text"`
	Type       MentionType `db:"type" json:"type"`
	Latitude   *float64    `db:"latitude" json:"latitude"`
	Longitude  *float64    `db:"longitude" json:"longitude"`
	UTMZone    *string     `db:"utm_zone" json:"utm_zone"`
	Confidence float64     `db:"confidence" json:"confidence"`
	Context    string      `db:"context" json:"context"`
	PageNumber int         `db:"page_number" json:"page_number"`
	SpanStart  int         `db:"span_start" json:"span_start"`
	SpanEnd    int         `db:"span_end" json:"span_end"`
	CreatedAt  time.Time   `db:"created_at" json:"created_at"`
}

// Resolved reports whether the mention carries coordinates.
func (m *LocationMention) Resolved() bool {
	return m.Latitude != nil && m.Longitude != nil
}

// Coordinates returns the resolved coordinate pair, if any.
func (m *LocationMention) Coordinates() (lat, lon float64, ok bool) {
	if !m.Resolved() {
		return 0, 0, false
	}
	return *m.Latitude, *m.Longitude, true
}

// ValidLatLong reports whether a coordinate pair is inside plausible bounds.
func ValidLatLong(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// NewCoordinateMention builds a utm or latlong mention. Coordinates are
// mandatory and must be in range.
func NewCoordinateMention(t MentionType, text string, lat, lon float64, utmZone string, confidence float64, spanStart, spanEnd int) (*LocationMention, error) {
	if !t.IsCoordinatePattern() {
		return nil, fmt.Errorf("mention type %q is not a coordinate pattern", t)
	}
	if !ValidLatLong(lat, lon) {
		return nil, ErrInvalidRange
	}
	if confidence < 0 || confidence > 1 {
		return nil, ErrInvalidConfidence
	}
	m := &LocationMention{
		Text:       text,
		Type:       t,
		Latitude:   &lat,
		Longitude:  &lon,
		Confidence: confidence,
		SpanStart:  spanStart,
		SpanEnd:    spanEnd,
	}
	if utmZone != "" {
		m.UTMZone = &utmZone
	}
	return m, nil
}

// NewNamedLocationMention builds a named_location mention. Coordinates are
// optional: an unresolved place name is still emitted with low confidence.
func NewNamedLocationMention(text string, lat, lon *float64, confidence float64, spanStart, spanEnd int) (*LocationMention, error) {
	if (lat == nil) != (lon == nil) {
		return nil, ErrMissingCoordinates
	}
	if lat != nil && !ValidLatLong(*lat, *lon) {
		return nil, ErrInvalidRange
	}
	if confidence < 0 || confidence > 1 {
		return nil, ErrInvalidConfidence
	}
	return &LocationMention{
		Text:       text,
		Type:       MentionTypeNamedLocation,
		Latitude:   lat,
		Longitude:  lon,
		Confidence: confidence,
		SpanStart:  spanStart,
		SpanEnd:    spanEnd,
	}, nil
}

// GazetteerEntry maps a canonical research site name and its aliases to
// known coordinates. Loaded once per run, never mutated.
type GazetteerEntry struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	Latitude  float64    `db:"latitude" json:"latitude"`
	Longitude float64    `db:"longitude" json:"longitude"`
	Aliases   StringList `db:"aliases" json:"aliases"`
	Region    string     `db:"region" json:"region"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

// TableCandidate is one extracted table proposal from a backend, scored by
// the quality filter.
type TableCandidate struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	TableID         string          `db:"table_id" json:"table_id"`
	DocumentID      uuid.UUID       `db:"document_id" json:"document_id"`
	PageNumber      int             `db:"page_number" json:"page_number"`
	ExtractorSource ExtractorSource `db:"extractor_source" json:"extractor_source"`
	Rows            int             `db:"rows" json:"rows"`
	Columns         int             `db:"columns" json:"columns"`
	Headers         StringList      `db:"headers" json:"headers"`
	Data            TableData       `db:"data" json:"data"`
	QualityScore    float64         `db:"quality_score" json:"quality_score"`
	Accepted        bool            `db:"accepted" json:"accepted"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}

// Keyword is one ranked thematic term extracted from a document.
type Keyword struct {
	ID         uuid.UUID `db:"id" json:"id"`
	DocumentID uuid.UUID `db:"document_id" json:"document_id"`
	Term       string    `db:"term" json:"term"`
	Score      float64   `db:"score" json:"score"`
	Rank       int       `db:"rank" json:"rank"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
