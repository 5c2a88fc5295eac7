package domain

// MediaType represents the source media of an archived document.
type MediaType string

const (
	MediaTypePDF   MediaType = "pdf"
	MediaTypeAudio MediaType = "audio"
)

// AllowedMediaTypes maps incoming media type strings to MediaType.
var AllowedMediaTypes = map[string]MediaType{
	"pdf":   MediaTypePDF,
	"audio": MediaTypeAudio,
}

// Valid reports whether the media type is one the pipeline accepts.
func (t MediaType) Valid() bool {
	_, ok := AllowedMediaTypes[string(t)]
	return ok
}

// ProcessingStatus represents the lifecycle of a document extraction run.
type ProcessingStatus string

const (
	ProcessingStatusQueued     ProcessingStatus = "queued"
	ProcessingStatusProcessing ProcessingStatus = "processing"
	ProcessingStatusCompleted  ProcessingStatus = "completed"
	ProcessingStatusFailed     ProcessingStatus = "failed"
)

// MentionType discriminates how a location mention was detected.
type MentionType string

const (
	MentionTypeUTM           MentionType = "utm"
	MentionTypeLatLong       MentionType = "latlong"
	MentionTypeNamedLocation MentionType = "named_location"
)

// IsCoordinatePattern reports whether the mention came from the coordinate
// pattern matcher rather than named-entity recognition.
func (t MentionType) IsCoordinatePattern() bool {
	return t == MentionTypeUTM || t == MentionTypeLatLong
}

// ExtractorSource identifies which table-extraction backend produced a candidate.
type ExtractorSource string

const (
	// ExtractorSourcePrimary is the structural text-based extractor.
	ExtractorSourcePrimary ExtractorSource = "primary"
	// ExtractorSourceFallback is the geometry/line-based extractor.
	ExtractorSourceFallback ExtractorSource = "fallback"
)

// Valid reports whether the extractor source is a known backend.
func (s ExtractorSource) Valid() bool {
	return s == ExtractorSourcePrimary || s == ExtractorSourceFallback
}
