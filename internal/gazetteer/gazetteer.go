// Package gazetteer holds the read-only reference table of known research
// sites and resolves noisy place-name spans against it with fuzzy matching.
package gazetteer

import (
	"fieldatlas/internal/domain"
)

// DefaultThreshold is the minimum normalized similarity for a span to
// resolve against a gazetteer alias.
const DefaultThreshold = 0.82

// Match is the outcome of resolving a span against the gazetteer.
type Match struct {
	Entry      domain.GazetteerEntry
	Alias      string
	Similarity float64
}

// Gazetteer is an immutable in-memory index of site entries. It is built
// once at startup and shared read-only across documents; it is safe for
// concurrent use because nothing mutates it after construction.
type Gazetteer struct {
	entries   []domain.GazetteerEntry
	sim       SimilarityFunc
	threshold float64
}

// Option configures a Gazetteer at construction.
type Option func(*Gazetteer)

// WithSimilarity substitutes the similarity function.
func WithSimilarity(fn SimilarityFunc) Option {
	return func(g *Gazetteer) { g.sim = fn }
}

// WithThreshold overrides the acceptance threshold.
func WithThreshold(t float64) Option {
	return func(g *Gazetteer) { g.threshold = t }
}

// New builds a Gazetteer over the given entries.
func New(entries []domain.GazetteerEntry, opts ...Option) *Gazetteer {
	g := &Gazetteer{
		entries:   entries,
		sim:       NormalizedLevenshtein,
		threshold: DefaultThreshold,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Len returns the number of entries.
func (g *Gazetteer) Len() int { return len(g.entries) }

// Entries returns the underlying entries. Callers must not modify the slice.
func (g *Gazetteer) Entries() []domain.GazetteerEntry { return g.entries }

// Resolve matches span against every alias of every entry and returns the
// best match at or above the threshold. Ties on similarity prefer the alias
// with greater string-length overlap with the span, then the
// lexicographically first canonical name, so results are deterministic.
func (g *Gazetteer) Resolve(span string) (Match, bool) {
	var (
		best  Match
		found bool
	)
	for i := range g.entries {
		entry := &g.entries[i]
		for _, alias := range g.aliasesOf(entry) {
			s := g.sim(span, alias)
			if s < g.threshold {
				continue
			}
			cand := Match{Entry: *entry, Alias: alias, Similarity: s}
			if !found || better(cand, best, span) {
				best = cand
				found = true
			}
		}
	}
	return best, found
}

// aliasesOf returns the canonical name plus all declared aliases.
func (g *Gazetteer) aliasesOf(e *domain.GazetteerEntry) []string {
	out := make([]string, 0, len(e.Aliases)+1)
	out = append(out, e.Name)
	out = append(out, e.Aliases...)
	return out
}

// better reports whether candidate a beats current best b for the span.
func better(a, b Match, span string) bool {
	if a.Similarity != b.Similarity {
		return a.Similarity > b.Similarity
	}
	ao, bo := lengthOverlap(a.Alias, span), lengthOverlap(b.Alias, span)
	if ao != bo {
		return ao > bo
	}
	return a.Entry.Name < b.Entry.Name
}

// lengthOverlap is the length of the shorter of the two strings after
// normalization, the shared character budget between alias and span.
func lengthOverlap(alias, span string) int {
	la := len(Normalize(alias))
	ls := len(Normalize(span))
	if la < ls {
		return la
	}
	return ls
}
