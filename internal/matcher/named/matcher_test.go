package named_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldatlas/internal/domain"
	"fieldatlas/internal/gazetteer"
	"fieldatlas/internal/matcher/named"
	"fieldatlas/mocks"
)

func testGazetteer() *gazetteer.Gazetteer {
	return gazetteer.New([]domain.GazetteerEntry{
		{
			Name:      "Fort Valley Experimental Forest",
			Latitude:  35.217155,
			Longitude: -111.774633,
			Aliases:   domain.StringList{"Fort Valley", "FVEF"},
		},
		{
			Name:      "Beaver Creek Watershed",
			Latitude:  34.6564,
			Longitude: -111.7308,
			Aliases:   domain.StringList{"Beaver Creek"},
		},
	})
}

func findMention(mentions []domain.LocationMention, text string) (domain.LocationMention, bool) {
	for _, m := range mentions {
		if m.Text == text {
			return m, true
		}
	}
	return domain.LocationMention{}, false
}

func TestMatch_ResolvesAgainstGazetteer(t *testing.T) {
	m := named.New(named.NewRuleRecognizer(), testGazetteer(), 80)
	text := "Runoff from Beaver Creek was gauged daily."

	mentions := m.Match(context.Background(), text)
	got, ok := findMention(mentions, "Beaver Creek")
	require.True(t, ok)

	assert.Equal(t, domain.MentionTypeNamedLocation, got.Type)
	require.True(t, got.Resolved())
	assert.InDelta(t, 34.6564, *got.Latitude, 1e-9)
	assert.InDelta(t, -111.7308, *got.Longitude, 1e-9)
	// similarity 1.0 weighted 0.9 plus recognizer score 0.85 weighted 0.1
	assert.InDelta(t, 0.985, got.Confidence, 1e-9)
	assert.Equal(t, "Beaver Creek", text[got.SpanStart:got.SpanEnd])
}

func TestMatch_FullNameResolvesExactly(t *testing.T) {
	m := named.New(named.NewRuleRecognizer(), testGazetteer(), 80)
	text := "Plots at Fort Valley Experimental Forest were thinned in 1925."

	mentions := m.Match(context.Background(), text)

	full, ok := findMention(mentions, "Fort Valley Experimental Forest")
	require.True(t, ok)
	require.True(t, full.Resolved())
	// exact canonical name, recognizer score 0.85 for the cued run
	assert.InDelta(t, 0.985, full.Confidence, 1e-9)

	head, ok := findMention(mentions, "Fort Valley")
	require.True(t, ok)
	require.True(t, head.Resolved())
	assert.InDelta(t, 35.217155, *head.Latitude, 1e-9)
	// exact alias match, recognizer score 0.65 for the bare head
	assert.InDelta(t, 0.965, head.Confidence, 1e-9)
}

func TestMatch_HeadOfLongRunResolves(t *testing.T) {
	m := named.New(named.NewRuleRecognizer(), testGazetteer(), 80)
	text := "Flow at Beaver Creek Gauging Station was recorded hourly."

	mentions := m.Match(context.Background(), text)

	// The full descriptive run is not in the gazetteer, so it is emitted
	// unresolved at reduced confidence.
	full, ok := findMention(mentions, "Beaver Creek Gauging Station")
	require.True(t, ok)
	assert.False(t, full.Resolved())
	assert.InDelta(t, 0.4, full.Confidence, 1e-9)

	// Its two-word head matches the alias and resolves.
	head, ok := findMention(mentions, "Beaver Creek")
	require.True(t, ok)
	require.True(t, head.Resolved())
	assert.InDelta(t, 34.6564, *head.Latitude, 1e-9)
	assert.InDelta(t, 0.965, head.Confidence, 1e-9)
}

func TestMatch_OCRNoiseStillResolves(t *testing.T) {
	m := named.New(named.NewRuleRecognizer(), testGazetteer(), 80)

	mentions := m.Match(context.Background(), "measured near Frt Valley during spring")
	got, ok := findMention(mentions, "Frt Valley")
	require.True(t, ok)
	require.True(t, got.Resolved())
	// similarity (1 - 1/11) weighted 0.9 plus the cued-run score 0.85
	// weighted 0.1
	assert.InDelta(t, (1.0-1.0/11.0)*0.9+0.085, got.Confidence, 1e-9)
}

func TestMatch_WeakUnresolvedSpansDropped(t *testing.T) {
	m := named.New(named.NewRuleRecognizer(), testGazetteer(), 80)

	// Single capitalized words score 0.50, below the unresolved floor.
	mentions := m.Match(context.Background(), "Researchers measured Temperature hourly.")
	assert.Empty(t, mentions)
}

func TestMatch_UnresolvedCappedAtCeiling(t *testing.T) {
	m := named.New(named.NewRuleRecognizer(), testGazetteer(), 80)

	mentions := m.Match(context.Background(), "near Walnut Gulch in Arizona")
	got, ok := findMention(mentions, "Walnut Gulch")
	require.True(t, ok)
	assert.False(t, got.Resolved())
	assert.LessOrEqual(t, got.Confidence, 0.4)
}

func TestMatch_RecognizerFailureIsFailOpen(t *testing.T) {
	rec := new(mocks.MockEntityRecognizer)
	rec.On("RecognizeLocations", context.Background(), "some text").
		Return(nil, errors.New("model unavailable"))

	m := named.New(rec, testGazetteer(), 80)
	mentions := m.Match(context.Background(), "some text")

	assert.Empty(t, mentions)
	rec.AssertExpectations(t)
}
