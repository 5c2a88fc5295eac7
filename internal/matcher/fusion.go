// Package matcher fuses the outputs of the coordinate pattern matcher and
// the named-location matcher into a single ranked, deduplicated mention
// list per document.
package matcher

import (
	"math"
	"sort"

	"fieldatlas/internal/domain"
)

// Fusion defaults. Two resolved mentions within the coordinate tolerance
// (roughly 1 km) are treated as the same site.
const (
	DefaultCoordinateTolerance = 0.01
	DefaultCorroborationBoost  = 0.05
)

// Fuser merges, deduplicates and ranks location mentions. Both knobs are
// configurable; the defaults are the documented ones.
type Fuser struct {
	tolerance float64
	boost     float64
}

// NewFuser creates a Fuser. Non-positive arguments fall back to defaults.
func NewFuser(tolerance, boost float64) *Fuser {
	if tolerance <= 0 {
		tolerance = DefaultCoordinateTolerance
	}
	if boost <= 0 {
		boost = DefaultCorroborationBoost
	}
	return &Fuser{tolerance: tolerance, boost: boost}
}

// Fuse produces the final mention list for one document: overlapping
// mentions collapse to the higher-confidence one, independent signals
// resolving to the same coordinates corroborate each other, and the result
// is ordered by confidence descending then first occurrence. Fuse is
// idempotent: feeding its output back in returns the same list.
func (f *Fuser) Fuse(mentions []domain.LocationMention) []domain.LocationMention {
	if len(mentions) == 0 {
		return nil
	}

	// Process strongest first so every cluster is represented by its
	// highest-confidence member.
	in := make([]domain.LocationMention, len(mentions))
	copy(in, mentions)
	sortMentions(in)

	var kept []domain.LocationMention
	for _, cand := range in {
		merged := false
		for i := range kept {
			if !f.overlaps(&kept[i], &cand) {
				continue
			}
			f.merge(&kept[i], &cand)
			merged = true
			break
		}
		if !merged {
			kept = append(kept, cand)
		}
	}

	sortMentions(kept)
	return kept
}

// overlaps reports whether two mentions describe the same underlying
// reference: intersecting character spans, or resolved coordinates within
// tolerance.
func (f *Fuser) overlaps(a, b *domain.LocationMention) bool {
	if a.SpanStart < b.SpanEnd && b.SpanStart < a.SpanEnd {
		return true
	}
	alat, alon, aok := a.Coordinates()
	blat, blon, bok := b.Coordinates()
	if aok && bok {
		return math.Abs(alat-blat) <= f.tolerance && math.Abs(alon-blon) <= f.tolerance
	}
	return false
}

// merge folds the weaker mention b into the kept mention a. When a
// coordinate-pattern mention and a named-location mention agree on
// coordinates, that is independent corroboration and boosts confidence;
// overlapping spans from the same signal class are structurally the same
// claim and get no bonus.
func (f *Fuser) merge(a, b *domain.LocationMention) {
	if f.corroborates(a, b) {
		hi, lo := a.Confidence, b.Confidence
		if lo > hi {
			hi, lo = lo, hi
		}
		boosted := hi + f.boost*lo
		if boosted > 1.0 {
			boosted = 1.0
		}
		a.Confidence = boosted
		// The pattern match is the more precise locator of the pair, so its
		// type, coordinates and zone win the merge even when the name scored
		// higher.
		if b.Type.IsCoordinatePattern() {
			a.Type = b.Type
			a.Latitude = b.Latitude
			a.Longitude = b.Longitude
			a.UTMZone = b.UTMZone
		}
	}
	// a keeps its text and span; nothing else from b survives the merge.
}

// corroborates reports whether a and b are independent signal classes
// resolving to the same coordinates within tolerance.
func (f *Fuser) corroborates(a, b *domain.LocationMention) bool {
	if a.Type.IsCoordinatePattern() == b.Type.IsCoordinatePattern() {
		return false
	}
	alat, alon, aok := a.Coordinates()
	blat, blon, bok := b.Coordinates()
	if !aok || !bok {
		return false
	}
	return math.Abs(alat-blat) <= f.tolerance && math.Abs(alon-blon) <= f.tolerance
}

// sortMentions orders by confidence descending, then first-occurrence
// offset ascending, then span end for full determinism.
func sortMentions(ms []domain.LocationMention) {
	sort.SliceStable(ms, func(i, j int) bool {
		if ms[i].Confidence != ms[j].Confidence {
			return ms[i].Confidence > ms[j].Confidence
		}
		if ms[i].SpanStart != ms[j].SpanStart {
			return ms[i].SpanStart < ms[j].SpanStart
		}
		return ms[i].SpanEnd < ms[j].SpanEnd
	})
}
