package named

import (
	"context"
	"regexp"
	"strings"

	"fieldatlas/internal/port"
)

// capitalizedRunRe matches runs of capitalized words, allowing short
// connectives inside multi-word names ("Valley of the Moon").
var capitalizedRunRe = regexp.MustCompile(
	`\b[A-Z][a-z]+(?:[\s-]+(?:[A-Z][a-z]+|of|the|de|la))*\b`)

// geoCueWords mark spans that are very likely place names. A span carrying
// one of these gets a recognizer score bonus.
var geoCueWords = map[string]struct{}{
	"forest": {}, "valley": {}, "creek": {}, "river": {}, "lake": {},
	"mountain": {}, "mountains": {}, "mesa": {}, "canyon": {}, "basin": {},
	"ridge": {}, "spring": {}, "springs": {}, "plateau": {}, "watershed": {},
	"park": {}, "station": {}, "county": {}, "peak": {}, "butte": {},
	"wash": {}, "flat": {}, "flats": {}, "point": {}, "fort": {},
}

const (
	scoreSingleWord = 0.50
	scoreMultiWord  = 0.65
	scoreCueBonus   = 0.20
	scoreCap        = 0.90
)

// RuleRecognizer is the built-in rule-based location recognizer. It
// proposes capitalized spans scored by shape: multi-word runs and runs
// containing a geographic cue word score higher. It never errs; errors in
// the interface exist for model-backed substitutes.
type RuleRecognizer struct{}

// NewRuleRecognizer creates the built-in recognizer.
func NewRuleRecognizer() *RuleRecognizer {
	return &RuleRecognizer{}
}

// RecognizeLocations scans text for candidate place-name spans.
func (r *RuleRecognizer) RecognizeLocations(_ context.Context, text string) ([]port.Entity, error) {
	var out []port.Entity
	for _, loc := range capitalizedRunRe.FindAllStringIndex(text, -1) {
		span := strings.TrimRight(text[loc[0]:loc[1]], " -")
		words := strings.Fields(span)
		if len(words) == 0 {
			continue
		}

		score := scoreSingleWord
		if len(words) > 1 {
			score = scoreMultiWord
		}
		if containsCueWord(words) {
			score += scoreCueBonus
		}
		if score > scoreCap {
			score = scoreCap
		}

		out = append(out, port.Entity{
			Text:  span,
			Start: loc[0],
			End:   loc[0] + len(span),
			Score: score,
		})

		// Long descriptive names often embed the gazetteer form as a
		// prefix ("Fort Valley Experimental Forest" vs "Fort Valley"), so
		// also propose the two-word head of longer runs.
		if len(words) > 2 {
			head := strings.Join(words[:2], " ")
			out = append(out, port.Entity{
				Text:  head,
				Start: loc[0],
				End:   loc[0] + len(head),
				Score: scoreMultiWord,
			})
		}
	}
	return out, nil
}

func containsCueWord(words []string) bool {
	for _, w := range words {
		if _, ok := geoCueWords[strings.ToLower(w)]; ok {
			return true
		}
	}
	return false
}
