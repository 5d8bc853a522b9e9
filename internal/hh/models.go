package hh

// Response schema of the vacancy search endpoint is typically:
// { "items": [...], "pages": N, "found": N }
// but we defensively parse only what we need.
type searchPage struct {
	Items []vacancyItem `json:"items"`
	Pages int           `json:"pages"`
	Found int           `json:"found"`
}

type vacancyItem struct {
	Name         string      `json:"name"`
	AlternateURL string      `json:"alternate_url"`
	PublishedAt  string      `json:"published_at"`
	Salary       *itemSalary `json:"salary"`
	Snippet      struct {
		Requirement string `json:"requirement"`
	} `json:"snippet"`
	Employer struct {
		Name string `json:"name"`
	} `json:"employer"`
}

type itemSalary struct {
	From     *int   `json:"from"`
	To       *int   `json:"to"`
	Currency string `json:"currency"`
}

// areaNode is one node of the provider's region tree, also the shape
// persisted in the areas cache file.
type areaNode struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Areas []areaNode `json:"areas"`
}
