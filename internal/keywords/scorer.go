// Package keywords extracts ranked thematic terms from document text using
// term-frequency weighting with a domain vocabulary boost.
package keywords

import (
	"regexp"
	"sort"
	"strings"
)

// Scoring defaults.
const (
	DefaultMaxTerms      = 25
	DefaultMinTermLength = 3
	DefaultVocabBoost    = 2.0
)

// Scored is one ranked keyword term.
type Scored struct {
	Term  string
	Score float64
}

// Scorer ranks terms for a document. The domain vocabulary is read-only
// after construction and shared across documents.
type Scorer struct {
	vocab     map[string]struct{}
	maxTerms  int
	minLength int
	boost     float64
}

// Config tunes the scorer.
type Config struct {
	Vocabulary []string
	MaxTerms   int
	MinLength  int
	VocabBoost float64
}

// NewScorer creates a Scorer from config, applying defaults for zero values.
func NewScorer(cfg Config) *Scorer {
	s := &Scorer{
		vocab:     make(map[string]struct{}, len(cfg.Vocabulary)),
		maxTerms:  cfg.MaxTerms,
		minLength: cfg.MinLength,
		boost:     cfg.VocabBoost,
	}
	if s.maxTerms <= 0 {
		s.maxTerms = DefaultMaxTerms
	}
	if s.minLength <= 0 {
		s.minLength = DefaultMinTermLength
	}
	if s.boost <= 0 {
		s.boost = DefaultVocabBoost
	}
	for _, term := range cfg.Vocabulary {
		s.vocab[strings.ToLower(term)] = struct{}{}
	}
	return s
}

var tokenRe = regexp.MustCompile(`[a-zA-Z][a-zA-Z'-]*`)

// Score tokenizes text and returns up to MaxTerms keywords ordered by
// score descending, then alphabetically for determinism. Scores are
// normalized so the top term is 1.0.
func (s *Scorer) Score(text string) []Scored {
	counts := make(map[string]int)
	total := 0
	for _, tok := range tokenRe.FindAllString(text, -1) {
		term := strings.ToLower(strings.Trim(tok, "'-"))
		if len(term) < s.minLength {
			continue
		}
		if _, stop := stopwords[term]; stop {
			continue
		}
		counts[term]++
		total++
	}
	if total == 0 {
		return nil
	}

	scored := make([]Scored, 0, len(counts))
	for term, count := range counts {
		weight := float64(count) / float64(total)
		if _, ok := s.vocab[term]; ok {
			weight *= s.boost
		}
		scored = append(scored, Scored{Term: term, Score: weight})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Term < scored[j].Term
	})
	if len(scored) > s.maxTerms {
		scored = scored[:s.maxTerms]
	}

	// Normalize against the top score so downstream thresholds are stable
	// across documents of very different lengths.
	top := scored[0].Score
	if top > 0 {
		for i := range scored {
			scored[i].Score = scored[i].Score / top
		}
	}
	return scored
}
