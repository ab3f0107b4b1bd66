package openalex

// searchResponse is the envelope of a /works search response.
type searchResponse struct {
	Results []work `json:"results"`
}

// work is the subset of an OpenAlex work record the engine consumes.
type work struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	DOI             string       `json:"doi"`
	PublicationYear int          `json:"publication_year"`
	CitedByCount    *int         `json:"cited_by_count"`
	Authorships     []authorship `json:"authorships"`
	PrimaryLocation *location    `json:"primary_location"`
}

type authorship struct {
	Author struct {
		DisplayName string `json:"display_name"`
	} `json:"author"`
}

type location struct {
	LandingPageURL string `json:"landing_page_url"`
}
