package coord

import "regexp"

// Structural patterns for coordinate strings. Each component of the UTM
// pattern must sit within a bounded token window (at most two intervening
// non-numeric words) so that accidental digit co-occurrence across a page
// does not read as a grid reference.

// utmRe captures zone number, band letter, easting (with mandatory E
// suffix) and northing (with mandatory N suffix). Truncated OCR tokens that
// lost the suffix letter simply do not match.
var utmRe = regexp.MustCompile(
	`(?i)\b([1-9]\d?)\s*([C-HJ-NP-X])` +
		`[\s,;:]+(?:[A-Za-z][\w().-]*[\s,;:]+){0,2}` +
		`(\d{6})\s*m?E\b` +
		`[\s,;:]+(?:[A-Za-z][\w().-]*[\s,;:]+){0,2}` +
		`(\d{6,8})\s*m?N\b`)

// dmsRe captures a degrees-minutes(-seconds) latitude/longitude pair with
// mandatory hemisphere letters.
var dmsRe = regexp.MustCompile(
	`(\d{1,2})\s*[°º]\s*(\d{1,2})\s*['′]\s*(?:(\d{1,2}(?:\.\d+)?)\s*["″]\s*)?([NSns])` +
		`\s*[,;]?\s*` +
		`(\d{1,3})\s*[°º]\s*(\d{1,2})\s*['′]\s*(?:(\d{1,2}(?:\.\d+)?)\s*["″]\s*)?([EWew])`)

// decimalRe captures a signed decimal-degree pair, optionally
// hemisphere-suffixed. Both numbers must carry a fractional part; bare
// integer pairs are far too common in running text to be trusted.
var decimalRe = regexp.MustCompile(
	`(-?\d{1,2}\.\d+)\s*°?\s*([NSns])?\s*[,;]\s*(-?\d{1,3}\.\d+)\s*°?\s*([EWew])?`)
