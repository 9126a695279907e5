package domain

// Provider-imposed page bounds for listing endpoints.
const (
	MinPage = 1
	MaxPage = 1000
)

// Page is one fetched page of a listing.
type Page struct {
	Number       int            `json:"page"`
	Movies       []MovieSummary `json:"movies"`
	TotalPages   int            `json:"totalPages"`
	TotalResults int            `json:"totalResults"`
	HasNextPage  bool           `json:"hasNextPage"`
	NextPage     *int           `json:"nextPage"`
}

// NewPage assembles a page and materializes its pagination fields.
func NewPage(number int, movies []MovieSummary, totalPages, totalResults int) Page {
	if movies == nil {
		movies = []MovieSummary{}
	}
	p := Page{
		Number:       number,
		Movies:       movies,
		TotalPages:   totalPages,
		TotalResults: totalResults,
		HasNextPage:  number < totalPages,
	}
	if p.HasNextPage {
		next := number + 1
		p.NextPage = &next
	}
	return p
}
