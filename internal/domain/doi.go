package domain

import (
	"regexp"
	"strings"
)

var (
	doiLabelRe = regexp.MustCompile(`(?i)^\s*doi\s*:\s*`)
	doiURLRe   = regexp.MustCompile(`(?i)^https?://(dx\.)?doi\.org/`)
	doiPattern = regexp.MustCompile(`^10\.[0-9]{4,9}/\S+$`)
)

// trailingPunct holds sentence-boundary characters commonly glued onto DOIs
// pasted out of running text.
const trailingPunct = ").,;"

// NormalizeDOI strips a leading case-insensitive "doi:" label and any
// leading doi.org resolver URL prefix, then trims surrounding whitespace.
// Case is preserved and trailing punctuation is left alone; callers that
// feed the result into a lookup key or URL path must use CleanDOI instead.
// NormalizeDOI is idempotent.
func NormalizeDOI(raw string) string {
	s := strings.TrimSpace(raw)
	s = doiLabelRe.ReplaceAllString(s, "")
	s = doiURLRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// CleanDOI normalizes a DOI and strips trailing sentence punctuation.
// This is the exact form sent over the wire and used for deduplication, so
// every caller that extracts a DOI must go through it.
func CleanDOI(raw string) string {
	return strings.TrimRight(NormalizeDOI(raw), trailingPunct)
}

// LooksLikeDOI reports whether the input, once cleaned, is a well-formed
// DOI. The pattern must consume the entire cleaned string, not merely occur
// inside it.
func LooksLikeDOI(raw string) bool {
	return doiPattern.MatchString(CleanDOI(raw))
}
