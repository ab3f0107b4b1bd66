// Package domain defines the canonical bibliographic record shared by all
// source adapters and the aggregation service, together with the DOI
// utilities and the error taxonomy of the engine.
package domain

import (
	"regexp"
	"strings"
)

// UntitledPlaceholder is substituted for the title when a source returns a
// record without one. A Paper always has a non-empty Title.
const UntitledPlaceholder = "(untitled)"

// titleKeyLimit caps the length of the title-based dedup key.
const titleKeyLimit = 200

var whitespaceRe = regexp.MustCompile(`\s+`)

// Paper is the canonical record every source response is mapped into.
// It is an immutable value object: adapters construct it once and nobody
// mutates it afterwards. Identity is structural, via Key().
type Paper struct {
	// Title is the work's title. Never empty; adapters substitute
	// UntitledPlaceholder when the source omits it.
	Title string `json:"title"`

	// Year is the publication year. Zero means unknown.
	Year int `json:"year,omitempty"`

	// DOI is the normalized persistent identifier, without any doi: label
	// or resolver URL prefix. Empty means no identifier is known.
	DOI string `json:"doi,omitempty"`

	// URL is a canonical landing page for the work, when one is known.
	URL string `json:"url,omitempty"`

	// Authors is a display-ready author summary, already truncated and
	// joined by the adapter (at most four names plus an "et al." marker).
	Authors string `json:"authors,omitempty"`

	// Source tags which adapter produced the record (e.g. "crossref").
	Source string `json:"source"`

	// CitedBy is the citation count reported by the source.
	// Nil means the source did not report one.
	CitedBy *int `json:"cited_by,omitempty"`
}

// Key returns the deduplication key for the record: the lowercased DOI when
// one is present, otherwise a prefix of the whitespace-collapsed lowercased
// title. Two records with the same Key are considered the same work.
func (p Paper) Key() string {
	if p.DOI != "" {
		return "doi:" + strings.ToLower(p.DOI)
	}
	t := whitespaceRe.ReplaceAllString(strings.TrimSpace(p.Title), " ")
	t = strings.ToLower(t)
	if len(t) > titleKeyLimit {
		t = t[:titleKeyLimit]
	}
	return "title:" + t
}

// HasDOI reports whether the record carries a persistent identifier.
func (p Paper) HasDOI() bool {
	return p.DOI != ""
}
