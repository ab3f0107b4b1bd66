package plos

// searchResponse is the Solr response envelope.
type searchResponse struct {
	Response struct {
		Docs []solrDoc `json:"docs"`
	} `json:"response"`
}

// solrDoc is the subset of a PLOS Solr document the engine consumes.
type solrDoc struct {
	ID              string   `json:"id"`
	DOI             string   `json:"doi"`
	TitleDisplay    string   `json:"title_display"`
	AuthorDisplay   []string `json:"author_display"`
	PublicationDate string   `json:"publication_date"`
}
