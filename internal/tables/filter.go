// Package tables decides which candidate tables from the two extraction
// backends represent genuine structured data. Candidates are scored with a
// Table Quality Score, cross-backend duplicates on the same page are
// collapsed, and only candidates at or above the acceptance threshold
// survive.
package tables

import (
	"sort"
	"strings"

	"fieldatlas/internal/domain"
)

// Filtering defaults.
const (
	DefaultThreshold        = 0.5
	DefaultOverlapThreshold = 0.70
	DefaultMinRows          = 2
	DefaultMinColumns       = 2
)

// Config tunes the filter.
type Config struct {
	Threshold        float64
	OverlapThreshold float64
	MinRows          int
	MinColumns       int
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		Threshold:        DefaultThreshold,
		OverlapThreshold: DefaultOverlapThreshold,
		MinRows:          DefaultMinRows,
		MinColumns:       DefaultMinColumns,
	}
}

// Filter scores and filters table candidates. Stateless across documents.
type Filter struct {
	cfg Config
}

// New creates a Filter, applying defaults for zero config values.
func New(cfg Config) *Filter {
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.OverlapThreshold <= 0 {
		cfg.OverlapThreshold = DefaultOverlapThreshold
	}
	if cfg.MinRows <= 0 {
		cfg.MinRows = DefaultMinRows
	}
	if cfg.MinColumns <= 0 {
		cfg.MinColumns = DefaultMinColumns
	}
	return &Filter{cfg: cfg}
}

// Apply scores every candidate, collapses cross-backend duplicates, and
// returns the accepted subset ordered by page then score descending.
// Rejected candidates are dropped entirely. A missing backend simply means
// fewer candidates; it never fails the document.
func (f *Filter) Apply(candidates []domain.TableCandidate) []domain.TableCandidate {
	scored := make([]domain.TableCandidate, 0, len(candidates))
	for i := range candidates {
		c := candidates[i]
		c.Rows = len(c.Data)
		c.Columns = maxRowWidth(c.Data)
		if len(c.Headers) > c.Columns {
			c.Columns = len(c.Headers)
		}
		c.QualityScore = qualityScore(&c, f.cfg.MinRows, f.cfg.MinColumns)
		scored = append(scored, c)
	}

	kept := f.collapseDuplicates(scored)

	var accepted []domain.TableCandidate
	for i := range kept {
		if kept[i].QualityScore >= f.cfg.Threshold {
			kept[i].Accepted = true
			accepted = append(accepted, kept[i])
		}
	}

	sort.SliceStable(accepted, func(i, j int) bool {
		if accepted[i].PageNumber != accepted[j].PageNumber {
			return accepted[i].PageNumber < accepted[j].PageNumber
		}
		if accepted[i].QualityScore != accepted[j].QualityScore {
			return accepted[i].QualityScore > accepted[j].QualityScore
		}
		return accepted[i].TableID < accepted[j].TableID
	})
	return accepted
}

// collapseDuplicates drops the lower-scoring member of every cross-backend
// pair on the same page whose cell overlap meets the threshold. These are
// structurally identical claims about the same region, not independent
// evidence, so the survivor keeps its own score without a corroboration
// bonus.
func (f *Filter) collapseDuplicates(candidates []domain.TableCandidate) []domain.TableCandidate {
	dropped := make([]bool, len(candidates))
	for i := range candidates {
		if dropped[i] {
			continue
		}
		for j := i + 1; j < len(candidates); j++ {
			if dropped[j] {
				continue
			}
			a, b := &candidates[i], &candidates[j]
			if a.PageNumber != b.PageNumber || a.ExtractorSource == b.ExtractorSource {
				continue
			}
			if cellOverlap(a.Data, b.Data) < f.cfg.OverlapThreshold {
				continue
			}
			if a.QualityScore >= b.QualityScore {
				dropped[j] = true
			} else {
				dropped[i] = true
			}
		}
	}

	out := make([]domain.TableCandidate, 0, len(candidates))
	for i := range candidates {
		if !dropped[i] {
			out = append(out, candidates[i])
		}
	}
	return out
}

// cellOverlap measures how much of the smaller table's non-empty cell
// content also appears in the other table, as a fraction in [0,1].
func cellOverlap(a, b domain.TableData) float64 {
	ca := cellCounts(a)
	cb := cellCounts(b)
	if len(ca) == 0 || len(cb) == 0 {
		return 0
	}

	totalA, totalB, shared := 0, 0, 0
	for cell, n := range ca {
		totalA += n
		if m, ok := cb[cell]; ok {
			if m < n {
				shared += m
			} else {
				shared += n
			}
		}
	}
	for _, n := range cb {
		totalB += n
	}

	smaller := totalA
	if totalB < smaller {
		smaller = totalB
	}
	return float64(shared) / float64(smaller)
}

func cellCounts(data domain.TableData) map[string]int {
	counts := make(map[string]int)
	for _, row := range data {
		for _, cell := range row {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			counts[strings.ToLower(cell)]++
		}
	}
	return counts
}
