package osf

// listResponse is the JSON:API envelope of a /preprints/ listing.
type listResponse struct {
	Data []preprint `json:"data"`
}

// preprint is the subset of an OSF preprint resource the engine consumes.
type preprint struct {
	Attributes struct {
		Title         string `json:"title"`
		DOI           string `json:"doi"`
		DatePublished string `json:"date_published"`
		DateCreated   string `json:"date_created"`
		DateModified  string `json:"date_modified"`
	} `json:"attributes"`
	Links struct {
		HTML string `json:"html"`
	} `json:"links"`
}
