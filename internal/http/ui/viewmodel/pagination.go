package viewmodel

// Pagination contains pagination metadata for list views.
type Pagination struct {
	Page       int
	Limit      int
	TotalPages int
	TotalCount int
	HasPrev    bool
	HasNext    bool
	StartIndex int
	EndIndex   int
	PrevURL    string
	NextURL    string
}

// NewPagination derives display indexes from the backend's page block.
// count is the number of items on the current page.
func NewPagination(page, limit, totalPages, total, count int) Pagination {
	p := Pagination{
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		TotalCount: total,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
	}
	if count > 0 {
		p.StartIndex = (page-1)*limit + 1
		p.EndIndex = p.StartIndex + count - 1
	}
	return p
}
