package domain

// Event listing page bounds.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PaginationParams selects one page of a list ordered by the repository.
// Build it with NewPaginationParams so both fields are always in range.
type PaginationParams struct {
	Page     int
	PageSize int
}

// NewPaginationParams replaces non-positive values with the defaults and caps the page size at MaxPageSize.
func NewPaginationParams(page, pageSize int) PaginationParams {
	if page < 1 {
		page = DefaultPage
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return PaginationParams{Page: page, PageSize: min(pageSize, MaxPageSize)}
}

// Limit is the number of rows to fetch; zero means unbounded.
func (p PaginationParams) Limit() uint64 {
	if p.PageSize < 1 {
		return 0
	}
	return uint64(p.PageSize)
}

// Offset is the number of rows to skip before the page starts.
func (p PaginationParams) Offset() uint64 {
	if p.Page < 2 || p.PageSize < 1 {
		return 0
	}
	return uint64(p.Page-1) * uint64(p.PageSize)
}
