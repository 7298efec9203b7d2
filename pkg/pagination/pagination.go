package pagination

import "math"

const (
	defaultPerPage = 15
	maxPerPage     = 100
)

// Pagination describes one page of a list
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

// Params represents the page query parameters
type Params struct {
	Page    int `form:"page" json:"page"`
	PerPage int `form:"per_page" json:"per_page"`
}

// Default returns the first page at the default size
func Default() Params {
	return Params{Page: 1, PerPage: defaultPerPage}
}

// Validate clamps the parameters into range
func (p *Params) Validate() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = defaultPerPage
	}
	if p.PerPage > maxPerPage {
		p.PerPage = maxPerPage
	}
}

// Offset calculates the offset of the first row of the page
func (p Params) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// New creates the metadata for page of perPage rows out of total
func New(page, perPage int, total int64) *Pagination {
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))

	return &Pagination{
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}

// Slice cuts the requested page out of a list that is already in memory.
// A page past the end is empty, never nil.
func Slice[T any](items []T, p Params) ([]T, *Pagination) {
	p.Validate()
	meta := New(p.Page, p.PerPage, int64(len(items)))

	start := p.Offset()
	if start >= len(items) {
		return []T{}, meta
	}
	end := start + p.PerPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], meta
}
