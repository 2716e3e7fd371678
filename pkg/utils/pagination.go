package utils

// MaxPageSize caps the size of a single page
const MaxPageSize = 500

// PaginationParams selects one page of a result set. Limit 0 means no limit.
type PaginationParams struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// PaginationMeta describes where a page sits in the full result set
type PaginationMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalCount int64 `json:"totalCount"`
	TotalPages int   `json:"totalPages"`
}

// GetPaginationParams normalizes page and limit: page starts at 1,
// negative limits mean no limit and oversized ones are clamped to MaxPageSize.
func GetPaginationParams(page, limit int) PaginationParams {
	if page < 1 {
		page = 1
	}
	switch {
	case limit < 0:
		limit = 0
	case limit > MaxPageSize:
		limit = MaxPageSize
	}
	return PaginationParams{Page: page, Limit: limit}
}

// CalculateOffset returns the SQL offset of the page
func (p PaginationParams) CalculateOffset() int {
	if p.Page < 1 || p.Limit <= 0 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Next returns the params of the following page
func (p PaginationParams) Next() PaginationParams {
	return PaginationParams{Page: p.Page + 1, Limit: p.Limit}
}

// CalculateMeta builds page metadata from a total row count
func CalculateMeta(totalCount int64, page, limit int) PaginationMeta {
	if limit <= 0 {
		return PaginationMeta{
			Page:       1,
			Limit:      int(totalCount),
			TotalCount: totalCount,
			TotalPages: 1,
		}
	}

	return PaginationMeta{
		Page:       page,
		Limit:      limit,
		TotalCount: totalCount,
		TotalPages: int((totalCount + int64(limit) - 1) / int64(limit)),
	}
}

// HasNext reports whether pages remain after this one
func (m PaginationMeta) HasNext() bool {
	return m.Page < m.TotalPages
}
