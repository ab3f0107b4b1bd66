package pubmed

import "encoding/json"

// esearchResponse is the envelope of an esearch.fcgi response.
type esearchResponse struct {
	ESearchResult struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

// esummaryResponse is the envelope of an esummary.fcgi response. The
// result object mixes a "uids" list with one dynamic key per PMID, so it
// needs a custom decoder.
type esummaryResponse struct {
	Result summaryResult `json:"result"`
}

type summaryResult struct {
	UIDs []string
	Docs map[string]summaryDoc
}

// UnmarshalJSON splits the uids list from the per-PMID summary objects.
// A value that fails to decode as a summary is skipped, not fatal.
func (s *summaryResult) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	s.Docs = make(map[string]summaryDoc, len(raw))
	for key, val := range raw {
		if key == "uids" {
			if err := json.Unmarshal(val, &s.UIDs); err != nil {
				return err
			}
			continue
		}
		var doc summaryDoc
		if err := json.Unmarshal(val, &doc); err != nil {
			continue
		}
		s.Docs[key] = doc
	}
	return nil
}

// summaryDoc is the subset of an esummary record the engine consumes.
type summaryDoc struct {
	Title      string       `json:"title"`
	PubDate    string       `json:"pubdate"`
	Authors    []docAuthor  `json:"authors"`
	ArticleIDs []docArticle `json:"articleids"`
}

type docAuthor struct {
	Name string `json:"name"`
}

type docArticle struct {
	IDType string `json:"idtype"`
	Value  string `json:"value"`
}
