// Package named recognizes place-name mentions through named-entity
// recognition plus fuzzy resolution against the gazetteer of known research
// sites.
package named

import (
	"context"
	"log"

	"fieldatlas/internal/domain"
	"fieldatlas/internal/gazetteer"
	"fieldatlas/internal/port"
)

// Confidence weighting per the resolution contract: similarity dominates,
// the recognizer's own certainty contributes a small correction.
const (
	similarityWeight = 0.9
	recognizerWeight = 0.1

	// Unresolved spans are still emitted for their keyword/search value,
	// but never above this ceiling.
	unresolvedCeiling = 0.4

	// Spans below this recognizer score are too weak to emit unresolved;
	// they only surface if the gazetteer vouches for them.
	unresolvedMinScore = 0.65
)

// Matcher resolves recognizer spans against a read-only gazetteer. It holds
// no per-document state.
type Matcher struct {
	recognizer    port.EntityRecognizer
	gaz           *gazetteer.Gazetteer
	contextRadius int
}

// New creates a named-location Matcher.
func New(recognizer port.EntityRecognizer, gaz *gazetteer.Gazetteer, contextRadius int) *Matcher {
	if contextRadius <= 0 {
		contextRadius = 80
	}
	return &Matcher{recognizer: recognizer, gaz: gaz, contextRadius: contextRadius}
}

// Match produces named_location mentions for the text. Recognizer failure
// is fail-open: it is logged and yields an empty result, never an error
// upward.
func (m *Matcher) Match(ctx context.Context, text string) []domain.LocationMention {
	entities, err := m.recognizer.RecognizeLocations(ctx, text)
	if err != nil {
		log.Printf("named.Matcher: recognizer failed, emitting no named mentions: %v", err)
		return nil
	}

	var out []domain.LocationMention
	for _, ent := range entities {
		mention, ok := m.resolve(ent)
		if !ok {
			continue
		}
		mention.Context = contextWindow(text, ent.Start, ent.End, m.contextRadius)
		out = append(out, *mention)
	}
	return out
}

// resolve turns one recognizer span into a mention, or nothing when the
// span is both unresolved and too weak to keep.
func (m *Matcher) resolve(ent port.Entity) (*domain.LocationMention, bool) {
	if match, ok := m.gaz.Resolve(ent.Text); ok {
		confidence := clip01(match.Similarity*similarityWeight + ent.Score*recognizerWeight)
		lat, lon := match.Entry.Latitude, match.Entry.Longitude
		mention, err := domain.NewNamedLocationMention(ent.Text, &lat, &lon, confidence, ent.Start, ent.End)
		if err != nil {
			// Gazetteer rows are validated at seed time; a bad row is a
			// data problem, not a document problem.
			log.Printf("named.Matcher: dropping mention for gazetteer entry %q: %v", match.Entry.Name, err)
			return nil, false
		}
		return mention, true
	}

	if ent.Score < unresolvedMinScore {
		return nil, false
	}
	confidence := ent.Score * 0.5
	if confidence > unresolvedCeiling {
		confidence = unresolvedCeiling
	}
	mention, err := domain.NewNamedLocationMention(ent.Text, nil, nil, confidence, ent.Start, ent.End)
	if err != nil {
		return nil, false
	}
	return mention, true
}

func clip01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func contextWindow(text string, start, end, radius int) string {
	lo := start - radius
	if lo < 0 {
		lo = 0
	}
	hi := end + radius
	if hi > len(text) {
		hi = len(text)
	}
	return text[lo:hi]
}
