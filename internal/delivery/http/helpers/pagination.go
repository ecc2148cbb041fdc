package helpers

import (
	"net/http"
	"strconv"

	"joiny/internal/domain"
)

// ParsePagination reads page and page_size from the query string. Missing or unparsable values are
// passed as zero and replaced with defaults by domain.NewPaginationParams.
func ParsePagination(r *http.Request) domain.PaginationParams {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))
	return domain.NewPaginationParams(page, pageSize)
}

// PaginationMeta is the pagination metadata included in paginated list responses.
// swagger:model PaginationMeta
type PaginationMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPaginationMeta builds PaginationMeta from the current page, page size, and total count.
func NewPaginationMeta(p domain.PaginationParams, total int) PaginationMeta {
	totalPages := 0
	if p.PageSize > 0 {
		totalPages = (total + p.PageSize - 1) / p.PageSize
	}
	return PaginationMeta{
		Page:       p.Page,
		PageSize:   p.PageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Paginated is the data payload of a paginated list response.
type Paginated[T any] struct {
	Items      []T            `json:"items"`
	Pagination PaginationMeta `json:"pagination"`
}
