package doaj

import "github.com/scholaris/metadata-aggregator/internal/sources"

// searchResponse is the envelope of a /search/articles response.
type searchResponse struct {
	Results []article `json:"results"`
}

// article is a single DOAJ search hit; the payload lives under bibjson.
type article struct {
	BibJSON bibJSON `json:"bibjson"`
}

type bibJSON struct {
	Title      string          `json:"title"`
	Year       sources.FlexInt `json:"year"`
	Identifier []identifier    `json:"identifier"`
	Author     []author        `json:"author"`
	Link       []link          `json:"link"`
}

type identifier struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type author struct {
	Name string `json:"name"`
}

type link struct {
	URL string `json:"url"`
}
