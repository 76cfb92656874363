package dto

import "math"

type Pagination struct {
	Page    int  `json:"page"`
	PerPage int  `json:"per_page"`
	Total   int  `json:"total"`
	Pages   int  `json:"pages"`
	HasNext bool `json:"has_next"`
	HasPrev bool `json:"has_prev"`
}

// NewPagination describes the page selected by params within a result set of total items.
// An empty result set has zero pages.
func NewPagination(params QueryParams, total int) Pagination {
	pages := 0
	if total > 0 && params.Limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(params.Limit)))
	}

	return Pagination{
		Page:    params.Page,
		PerPage: params.Limit,
		Total:   total,
		Pages:   pages,
		HasNext: params.Page < pages,
		HasPrev: params.Page > 1,
	}
}
