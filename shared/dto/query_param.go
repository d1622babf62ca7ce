package dto

import (
	"hotelops/shared/constant"
	"net/http"
	"strconv"
	"strings"
)

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"
)

// Sort is one ORDER BY term. Fields are checked against the repository's known columns.
type Sort struct {
	Field string `json:"field"`
	Dir   string `json:"dir"`
}

// QueryParams carries 1-based paging and ordering for list endpoints.
type QueryParams struct {
	Page    int    `json:"page"            validate:"omitempty"`
	Limit   int    `json:"limit"           validate:"omitempty"`
	SortBy  string `json:"sort_by"         validate:"omitempty"`
	SortDir string `json:"sort_dir"        validate:"omitempty,oneof=ASC DESC"`
	Sorts   []Sort `json:"sorts,omitempty" swaggerignore:"true"`
}

// Offset is the number of rows before the current page.
func (q *QueryParams) Offset() int {
	if q.Page <= 1 || q.Limit <= 0 {
		return 0
	}

	return (q.Page - 1) * q.Limit
}

// OrderTerms returns Sorts when set, otherwise the single SortBy/SortDir pair.
func (q *QueryParams) OrderTerms() []Sort {
	if len(q.Sorts) > 0 {
		return q.Sorts
	}

	if q.SortBy == "" {
		return nil
	}

	dir := q.SortDir
	if dir == "" {
		dir = SortDirAsc
	}

	return []Sort{{Field: q.SortBy, Dir: dir}}
}

func positiveInt(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0
	}

	return n
}

// FromRequest reads page, limit, sort_by and sort_dir. Malformed values are
// ignored. With withDefaults, missing paging falls back to page 1 of
// DefaultValueLimit rows; limit is always capped at MaxValueLimit.
func (q *QueryParams) FromRequest(r *http.Request, withDefaults bool) {
	query := r.URL.Query()

	if page := positiveInt(query.Get(constant.RequestParamPage)); page > 0 {
		q.Page = page
	}

	if limit := positiveInt(query.Get(constant.RequestParamLimit)); limit > 0 {
		q.Limit = min(limit, constant.MaxValueLimit)
	}

	if sortBy := query.Get(constant.RequestParamSortBy); sortBy != "" {
		q.SortBy = sortBy
	}

	switch dir := strings.ToUpper(query.Get(constant.RequestParamSortDir)); dir {
	case SortDirAsc, SortDirDesc:
		q.SortDir = dir
	}

	if !withDefaults {
		return
	}

	if q.Page == 0 {
		q.Page = constant.DefaultValuePage
	}

	if q.Limit == 0 {
		q.Limit = constant.DefaultValueLimit
	}
}
