// Package coord recognizes formatted coordinate strings (UTM and lat/long)
// in plain text and converts them to canonical decimal-degree mentions. The
// patterns favor precision over recall: truncated or malformed tokens are
// silently skipped rather than guessed at.
package coord

import (
	"strconv"
	"strings"

	"fieldatlas/internal/domain"
)

// Confidence defaults. Well-formed UTM carries the highest confidence
// because zone, easting and northing triple-check each other; decimal pairs
// without hemisphere markers are slightly demoted.
const (
	DefaultUTMConfidence       = 0.97
	DefaultLatLongConfidence   = 0.95
	DefaultAmbiguousConfidence = 0.90
	DefaultContextRadius       = 80
)

// Config tunes matcher confidences and the context window size.
type Config struct {
	UTMConfidence       float64
	LatLongConfidence   float64
	AmbiguousConfidence float64
	ContextRadius       int
}

// DefaultConfig returns the documented default configuration.
func DefaultConfig() Config {
	return Config{
		UTMConfidence:       DefaultUTMConfidence,
		LatLongConfidence:   DefaultLatLongConfidence,
		AmbiguousConfidence: DefaultAmbiguousConfidence,
		ContextRadius:       DefaultContextRadius,
	}
}

// Stats counts candidates the matcher saw but did not emit.
type Stats struct {
	DroppedOutOfRange int
}

// Matcher scans text for coordinate patterns. It holds no per-document
// state and is safe to share across sequential documents.
type Matcher struct {
	cfg Config
}

// New creates a Matcher with the given config.
func New(cfg Config) *Matcher {
	if cfg.ContextRadius <= 0 {
		cfg.ContextRadius = DefaultContextRadius
	}
	return &Matcher{cfg: cfg}
}

// Match scans text and returns all coordinate mentions in order of
// occurrence. Malformed patterns produce no mention; numerically
// out-of-range pairs are dropped and counted in stats.
func (m *Matcher) Match(text string) ([]domain.LocationMention, Stats) {
	var (
		out   []domain.LocationMention
		stats Stats
	)
	out = m.matchUTM(text, out, &stats)
	out = m.matchDMS(text, out, &stats)
	out = m.matchDecimal(text, out, &stats)
	return out, stats
}

func (m *Matcher) matchUTM(text string, out []domain.LocationMention, stats *Stats) []domain.LocationMention {
	for _, idx := range utmRe.FindAllStringSubmatchIndex(text, -1) {
		raw := text[idx[0]:idx[1]]
		zoneStr := text[idx[2]:idx[3]]
		bandStr := text[idx[4]:idx[5]]
		eastStr := text[idx[6]:idx[7]]
		northStr := text[idx[8]:idx[9]]

		zone, err := strconv.Atoi(zoneStr)
		if err != nil {
			continue
		}
		band := strings.ToUpper(bandStr)[0]
		easting, _ := strconv.ParseFloat(eastStr, 64)
		northing, _ := strconv.ParseFloat(northStr, 64)

		lat, lon, err := ToLatLon(zone, easting, northing, band)
		if err != nil {
			// Malformed zone/band or implausible grid values: no mention.
			continue
		}
		if !domain.ValidLatLong(lat, lon) {
			stats.DroppedOutOfRange++
			continue
		}

		zoneLabel := zoneStr + string(band)
		mention, err := domain.NewCoordinateMention(
			domain.MentionTypeUTM, raw, lat, lon, zoneLabel, m.cfg.UTMConfidence, idx[0], idx[1])
		if err != nil {
			stats.DroppedOutOfRange++
			continue
		}
		mention.Context = contextWindow(text, idx[0], idx[1], m.cfg.ContextRadius)
		out = append(out, *mention)
	}
	return out
}

func (m *Matcher) matchDMS(text string, out []domain.LocationMention, stats *Stats) []domain.LocationMention {
	for _, idx := range dmsRe.FindAllStringSubmatchIndex(text, -1) {
		if covered(out, idx[0], idx[1]) {
			continue
		}
		raw := text[idx[0]:idx[1]]

		lat, ok1 := dmsValue(text, idx, 1)
		lon, ok2 := dmsValue(text, idx, 5)
		if !ok1 || !ok2 {
			continue
		}
		if !domain.ValidLatLong(lat, lon) {
			stats.DroppedOutOfRange++
			continue
		}

		mention, err := domain.NewCoordinateMention(
			domain.MentionTypeLatLong, raw, lat, lon, "", m.cfg.LatLongConfidence, idx[0], idx[1])
		if err != nil {
			stats.DroppedOutOfRange++
			continue
		}
		mention.Context = contextWindow(text, idx[0], idx[1], m.cfg.ContextRadius)
		out = append(out, *mention)
	}
	return out
}

func (m *Matcher) matchDecimal(text string, out []domain.LocationMention, stats *Stats) []domain.LocationMention {
	for _, idx := range decimalRe.FindAllStringSubmatchIndex(text, -1) {
		if covered(out, idx[0], idx[1]) {
			continue
		}
		raw := text[idx[0]:idx[1]]

		latStr := text[idx[2]:idx[3]]
		lonStr := text[idx[6]:idx[7]]
		lat, _ := strconv.ParseFloat(latStr, 64)
		lon, _ := strconv.ParseFloat(lonStr, 64)

		latHemi := submatch(text, idx, 2)
		lonHemi := submatch(text, idx, 4)
		if latHemi != "" {
			lat = applyHemisphere(lat, latHemi)
		}
		if lonHemi != "" {
			lon = applyHemisphere(lon, lonHemi)
		}

		if !domain.ValidLatLong(lat, lon) {
			stats.DroppedOutOfRange++
			continue
		}

		confidence := m.cfg.LatLongConfidence
		if latHemi == "" || lonHemi == "" {
			// Hemisphere inferred from sign alone.
			confidence = m.cfg.AmbiguousConfidence
		}

		mention, err := domain.NewCoordinateMention(
			domain.MentionTypeLatLong, raw, lat, lon, "", confidence, idx[0], idx[1])
		if err != nil {
			stats.DroppedOutOfRange++
			continue
		}
		mention.Context = contextWindow(text, idx[0], idx[1], m.cfg.ContextRadius)
		out = append(out, *mention)
	}
	return out
}

// dmsValue assembles degrees-minutes-seconds submatches starting at group n
// into signed decimal degrees.
func dmsValue(text string, idx []int, n int) (float64, bool) {
	deg, err := strconv.ParseFloat(submatch(text, idx, n), 64)
	if err != nil {
		return 0, false
	}
	min, err := strconv.ParseFloat(submatch(text, idx, n+1), 64)
	if err != nil {
		return 0, false
	}
	sec := 0.0
	if s := submatch(text, idx, n+2); s != "" {
		sec, err = strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
	}
	if min >= 60 || sec >= 60 {
		return 0, false
	}
	value := deg + min/60 + sec/3600
	return applyHemisphere(value, submatch(text, idx, n+3)), true
}

func applyHemisphere(v float64, hemi string) float64 {
	switch strings.ToUpper(hemi) {
	case "S", "W":
		if v > 0 {
			return -v
		}
	case "N", "E":
		if v < 0 {
			return -v
		}
	}
	return v
}

// submatch returns capture group n, or "" if it did not participate.
func submatch(text string, idx []int, n int) string {
	if idx[2*n] < 0 {
		return ""
	}
	return text[idx[2*n]:idx[2*n+1]]
}

// covered reports whether the span intersects any already-emitted mention,
// so a UTM match is not re-reported as a bare number pair.
func covered(mentions []domain.LocationMention, start, end int) bool {
	for i := range mentions {
		if start < mentions[i].SpanEnd && end > mentions[i].SpanStart {
			return true
		}
	}
	return false
}

// contextWindow extracts the text surrounding [start,end) clamped to radius
// bytes on each side.
func contextWindow(text string, start, end, radius int) string {
	lo := start - radius
	if lo < 0 {
		lo = 0
	}
	hi := end + radius
	if hi > len(text) {
		hi = len(text)
	}
	return strings.TrimSpace(strings.ToValidUTF8(text[lo:hi], ""))
}
