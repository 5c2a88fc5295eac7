package gazetteer

import "strings"

// SimilarityFunc computes a normalized similarity in [0,1] between two
// strings. Implementations must be symmetric so that resolution results do
// not depend on argument order. Any implementation honoring this contract
// (edit distance, trigram, phonetic) can be plugged into the Gazetteer.
type SimilarityFunc func(a, b string) float64

// NormalizedLevenshtein is the default SimilarityFunc: one minus the
// Damerau-Levenshtein distance divided by the longer string's length.
// Comparison is case-insensitive with collapsed whitespace, which absorbs
// the bulk of OCR artifacts before edit distance is spent on real typos.
func NormalizedLevenshtein(a, b string) float64 {
	a = Normalize(a)
	b = Normalize(b)
	if a == b {
		return 1.0
	}
	la, lb := len([]rune(a)), len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 1.0
	}
	return 1.0 - float64(damerauLevenshtein(a, b))/float64(longest)
}

// Normalize lowercases and collapses internal whitespace.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// damerauLevenshtein computes edit distance with adjacent transpositions,
// the variant that best models OCR character swaps.
func damerauLevenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	prev2 := make([]int, lb+1)
	prev := make([]int, lb+1)
	cur := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		cur[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := cur[j-1] + 1
			sub := prev[j-1] + cost

			best := del
			if ins < best {
				best = ins
			}
			if sub < best {
				best = sub
			}
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				if t := prev2[j-2] + 1; t < best {
					best = t
				}
			}
			cur[j] = best
		}
		prev2, prev, cur = prev, cur, prev2
	}
	return prev[lb]
}
