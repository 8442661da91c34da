package utils

import "math"

// Pagination represents the pagination details.
type Pagination struct {
	TotalItems  int `json:"totalItems"`
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"pageSize"`
	TotalPages  int `json:"totalPages"`
}

// CreatePagination creates a Pagination object.
func CreatePagination(totalItems, page, pageSize int) *Pagination {
	if pageSize <= 0 {
		pageSize = 50
	}
	if page <= 0 {
		page = 1
	}

	totalPages := int(math.Ceil(float64(totalItems) / float64(pageSize)))

	return &Pagination{
		TotalItems:  totalItems,
		CurrentPage: page,
		PageSize:    pageSize,
		TotalPages:  totalPages,
	}
}

// Paginate returns the page of items selected by page and pageSize together
// with its pagination metadata. Out-of-range pages yield an empty slice.
func Paginate[T any](items []T, page, pageSize int) ([]T, *Pagination) {
	p := CreatePagination(len(items), page, pageSize)

	// Compare page numbers before multiplying so huge pages cannot overflow.
	pages := len(items) / p.PageSize
	if len(items)%p.PageSize != 0 {
		pages++
	}
	if p.CurrentPage > pages {
		return []T{}, p
	}
	start := (p.CurrentPage - 1) * p.PageSize
	end := start + p.PageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], p
}
