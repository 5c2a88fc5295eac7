package tables

import (
	"math"
	"regexp"
	"strings"

	"fieldatlas/internal/domain"
)

// Quality score weights: content dominates, structure and header
// plausibility split the rest, clustered empty rows are penalized.
const (
	weightContent   = 0.4
	weightStructure = 0.3
	weightHeader    = 0.3
	weightCluster   = 0.2
)

var numericCellRe = regexp.MustCompile(`^[\d.,%\s-]+$`)

// qualityScore computes the Table Quality Score in [0,1] for a candidate.
// A candidate with no non-empty data cells scores zero regardless of how
// plausible its headers look.
func qualityScore(c *domain.TableCandidate, minRows, minColumns int) float64 {
	rows := len(c.Data)
	cols := maxRowWidth(c.Data)
	if len(c.Headers) > cols {
		cols = len(c.Headers)
	}
	if rows < minRows || cols < minColumns {
		return 0
	}

	total, nonEmpty := contentMetrics(c.Data)
	if total == 0 || nonEmpty == 0 {
		return 0
	}

	score := weightContent*(float64(nonEmpty)/float64(total)) +
		weightStructure*structureScore(c.Data) +
		weightHeader*headerScore(c.Headers) -
		weightCluster*emptyClusterPenalty(c.Data)

	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return math.Round(score*100) / 100
}

// contentMetrics counts total and non-empty data cells.
func contentMetrics(data domain.TableData) (total, nonEmpty int) {
	for _, row := range data {
		total += len(row)
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				nonEmpty++
			}
		}
	}
	return total, nonEmpty
}

// structureScore rewards consistent row widths: 1/(1+variance).
func structureScore(data domain.TableData) float64 {
	if len(data) == 0 {
		return 0
	}
	mean := 0.0
	for _, row := range data {
		mean += float64(len(row))
	}
	mean /= float64(len(data))

	variance := 0.0
	for _, row := range data {
		d := float64(len(row)) - mean
		variance += d * d
	}
	variance /= float64(len(data))

	return 1 / (1 + variance)
}

// headerScore is the fraction of headers that are plausible: non-empty,
// non-numeric, and unique within the header row.
func headerScore(headers domain.StringList) float64 {
	if len(headers) == 0 {
		return 0
	}
	seen := make(map[string]bool, len(headers))
	plausible := 0
	for _, h := range headers {
		h = strings.TrimSpace(h)
		if h == "" || numericCellRe.MatchString(h) {
			continue
		}
		key := strings.ToLower(h)
		if seen[key] {
			continue
		}
		seen[key] = true
		plausible++
	}
	return float64(plausible) / float64(len(headers))
}

// emptyClusterPenalty is the fraction of rows that are more than half
// empty; clustered empty cells signal extraction artifacts rather than
// sparse data.
func emptyClusterPenalty(data domain.TableData) float64 {
	if len(data) == 0 {
		return 0
	}
	clustered := 0
	for _, row := range data {
		if len(row) == 0 {
			clustered++
			continue
		}
		empty := 0
		for _, cell := range row {
			if strings.TrimSpace(cell) == "" {
				empty++
			}
		}
		if empty > len(row)/2 {
			clustered++
		}
	}
	return float64(clustered) / float64(len(data))
}

func maxRowWidth(data domain.TableData) int {
	w := 0
	for _, row := range data {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}
