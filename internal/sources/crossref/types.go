package crossref

// worksResponse is the envelope of a /works search response.
type worksResponse struct {
	Message struct {
		Items []workItem `json:"items"`
	} `json:"message"`
}

// workResponse is the envelope of a single /works/{doi} response.
type workResponse struct {
	Message workItem `json:"message"`
}

// workItem is the subset of a Crossref work record the engine consumes.
// Crossref wraps titles in arrays and dates in nested date-parts lists.
type workItem struct {
	Title               []string     `json:"title"`
	DOI                 string       `json:"DOI"`
	URL                 string       `json:"URL"`
	Author              []workAuthor `json:"author"`
	Issued              dateParts    `json:"issued"`
	PublishedOnline     dateParts    `json:"published-online"`
	PublishedPrint      dateParts    `json:"published-print"`
	Created             dateParts    `json:"created"`
	IsReferencedByCount *int         `json:"is-referenced-by-count"`
}

type workAuthor struct {
	Given  string `json:"given"`
	Family string `json:"family"`
}

type dateParts struct {
	DateParts [][]int `json:"date-parts"`
}

// year extracts the leading year component, or zero when absent.
func (d dateParts) year() int {
	if len(d.DateParts) == 0 || len(d.DateParts[0]) == 0 {
		return 0
	}
	return d.DateParts[0][0]
}
