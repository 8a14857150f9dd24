package dto

// DefaultLimit is the default number of items per page.
const DefaultLimit = 20

// MaxLimit is the maximum allowed items per page.
const MaxLimit = 100

// PaginationRequest carries the limit/offset query parameters.
type PaginationRequest struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

// GetLimit returns the limit clamped to [1, MaxLimit], defaulting when unset.
func (p *PaginationRequest) GetLimit() int {
	if p.Limit <= 0 {
		return DefaultLimit
	}
	if p.Limit > MaxLimit {
		return MaxLimit
	}

	return p.Limit
}

// GetOffset returns the offset, never negative.
func (p *PaginationRequest) GetOffset() int {
	if p.Offset < 0 {
		return 0
	}

	return p.Offset
}

// Pagination is the pagination block echoed in list responses.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	Total   int  `json:"total"`
	HasMore bool `json:"hasMore"`
}

// NewPagination builds the pagination block for a list response.
func NewPagination(limit, offset, total int) Pagination {
	return Pagination{
		Limit:   limit,
		Offset:  offset,
		Total:   total,
		HasMore: offset+limit < total,
	}
}
