package port

import "context"

// Entity is a location-class span proposed by a named-entity recognizer.
// Start and End are byte offsets into the text that was scanned.
type Entity struct {
	Text  string
	Start int
	End   int
	Score float64 // recognizer certainty in [0,1]
}

// EntityRecognizer abstracts named-entity recognition restricted to
// location-class entities. The built-in implementation is rule-based; a
// model-backed recognizer can be substituted without touching the matcher.
type EntityRecognizer interface {
	RecognizeLocations(ctx context.Context, text string) ([]Entity, error)
}
