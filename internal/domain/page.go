package domain

// PaginationParams carries page/limit values from the HTTP layer to the service.
// Page is 1-indexed. Limit is capped at 500 by NewPaginationParams.
type PaginationParams struct {
	Page  int
	Limit int
}

// NewPaginationParams builds a PaginationParams from optional query params.
// Nil pointers fall back to page=1 and limit=100.
func NewPaginationParams(page, limit *int) PaginationParams {
	p := PaginationParams{Page: 1, Limit: 100}
	if page != nil && *page >= 1 {
		p.Page = *page
	}
	if limit != nil && *limit >= 1 {
		p.Limit = min(*limit, 500)
	}
	return p
}

// Window returns the half-open index bounds of the page within a collection
// of n items. Pages past the end yield an empty window.
func (p PaginationParams) Window(n int) (from, to int) {
	from = min((p.Page-1)*p.Limit, n)
	to = min(from+p.Limit, n)
	return from, to
}
