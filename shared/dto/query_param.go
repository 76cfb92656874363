package dto

import (
	"fmt"
	"math"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"todoapp/shared/constant"
	"todoapp/shared/failure"
)

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"
)

type QueryParams struct {
	Page    int    `json:"page"`
	Limit   int    `json:"per_page"`
	SortBy  string `json:"sort"`
	SortDir string `json:"order"`
}

// Offset is the number of rows skipped before the current page. Pages too far out to address
// saturate at math.MaxInt instead of wrapping around, so they read as past the end.
func (q *QueryParams) Offset() int {
	if q.Page <= 1 || q.Limit <= 0 {
		return 0
	}

	if q.Page-1 > math.MaxInt/q.Limit {
		return math.MaxInt
	}

	return (q.Page - 1) * q.Limit
}

// FromRequest populates QueryParams from the HTTP request, applying defaults for absent values.
// Example:
//
//	q := &dto.QueryParams{}
//	err := q.FromRequest(req, []string{"created_at", "title"})
//
// page must be at least 1 and per_page (or its alias limit) at least 1; per_page is capped at
// constant.MaxValueLimit. sort must be one of sortable, order must be asc or desc. Any other value
// yields an INVALID_PARAMETER failure.
func (q *QueryParams) FromRequest(r *http.Request, sortable []string) error {
	queryParams := r.URL.Query()

	q.Page = constant.DefaultValuePage
	q.Limit = constant.DefaultValueLimit
	q.SortBy = constant.DefaultValueSortBy
	q.SortDir = SortDirDesc

	if page := queryParams.Get(constant.RequestParamPage); page != "" {
		pageInt, err := strconv.Atoi(page)
		if err != nil || pageInt < 1 {
			return failure.InvalidPageParam
		}

		q.Page = pageInt
	}

	limit := queryParams.Get(constant.RequestParamPerPage)
	if limit == "" {
		limit = queryParams.Get(constant.RequestParamLimit)
	}

	if limit != "" {
		limitInt, err := strconv.Atoi(limit)
		if err != nil || limitInt < 1 {
			return failure.InvalidLimitParam
		}

		q.Limit = min(limitInt, constant.MaxValueLimit)
	}

	if sortBy := queryParams.Get(constant.RequestParamSort); sortBy != "" {
		if !slices.Contains(sortable, sortBy) {
			return failure.InvalidParameter(fmt.Sprintf("sort must be one of: %s", strings.Join(sortable, ", "))) //nolint:wrapcheck
		}

		q.SortBy = sortBy
	}

	if sortDir := queryParams.Get(constant.RequestParamOrder); sortDir != "" {
		upper := strings.ToUpper(sortDir)
		if upper != SortDirAsc && upper != SortDirDesc {
			return failure.InvalidParameter("order must be 'asc' or 'desc'") //nolint:wrapcheck
		}

		q.SortDir = upper
	}

	return nil
}
