package biorxiv

// detailsResponse is the envelope of a /details lookup.
type detailsResponse struct {
	Collection []detailsEntry `json:"collection"`
}

// detailsEntry is one preprint version record. The authors field is a
// single semicolon-delimited string, not a list.
type detailsEntry struct {
	Title   string `json:"title"`
	Authors string `json:"authors"`
	DOI     string `json:"doi"`
	Date    string `json:"date"`
}
