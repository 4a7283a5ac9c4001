package inspire

// authorResponse is the subset of GET /authors/{id} that we read.
type authorResponse struct {
	Metadata struct {
		Name struct {
			PreferredName string `json:"preferred_name"`
			Value         string `json:"value"`
		} `json:"name"`
	} `json:"metadata"`
}

// literatureResponse is one page of GET /literature.
type literatureResponse struct {
	Hits struct {
		Hits  []literatureHit `json:"hits"`
		Total int             `json:"total"`
	} `json:"hits"`
	Links struct {
		Next string `json:"next"`
	} `json:"links"`
}

type literatureHit struct {
	Metadata struct {
		Authors []literatureAuthor `json:"authors"`
	} `json:"metadata"`
}

type literatureAuthor struct {
	Record *struct {
		Ref string `json:"$ref"`
	} `json:"record"`
}

// ref returns the author record reference, or "" if the entry has none.
func (a literatureAuthor) ref() string {
	if a.Record == nil {
		return ""
	}
	return a.Record.Ref
}

// identity is the cached form of an author lookup.
type identity struct {
	Name string `json:"name"`
}

// related is the cached form of a co-author query.
type related struct {
	Weights map[string]int `json:"weights"`
	Records int            `json:"records"`
}
