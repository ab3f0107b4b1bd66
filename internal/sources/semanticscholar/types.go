package semanticscholar

// searchResponse is the envelope of a /paper/search response.
type searchResponse struct {
	Data []paperRecord `json:"data"`
}

// paperRecord is the subset of a Graph API paper the engine consumes.
type paperRecord struct {
	Title         string `json:"title"`
	Year          int    `json:"year"`
	URL           string `json:"url"`
	CitationCount *int   `json:"citationCount"`
	Authors       []struct {
		Name string `json:"name"`
	} `json:"authors"`
	ExternalIDs struct {
		DOI string `json:"DOI"`
	} `json:"externalIds"`
}
