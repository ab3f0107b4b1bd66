package europepmc

import "github.com/scholaris/metadata-aggregator/internal/sources"

// searchResponse is the envelope of a /search response.
type searchResponse struct {
	ResultList struct {
		Result []resultItem `json:"result"`
	} `json:"resultList"`
}

// resultItem is the subset of a Europe PMC record the engine consumes.
// The id/source pair identifies the record in the europepmc.org viewer
// (e.g. PPR/PPR123456 for preprints).
type resultItem struct {
	ID           string          `json:"id"`
	Source       string          `json:"source"`
	Title        string          `json:"title"`
	AuthorString string          `json:"authorString"`
	DOI          string          `json:"doi"`
	PubYear      sources.FlexInt `json:"pubYear"`
}
