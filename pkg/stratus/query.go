package stratus

import (
	"net/url"
	"strconv"
	"strings"
)

// QueryParams represents common list-endpoint options. Filters are joined by
// comma when a key carries multiple values, matching the API's multi-value
// convention.
type QueryParams struct {
	Page      int
	PerPage   int
	Order     string
	Direction string
	Match     string
	Filters   map[string][]string
}

// NewQueryParams creates an empty QueryParams ready for chaining.
func NewQueryParams() *QueryParams {
	return &QueryParams{
		Filters: make(map[string][]string),
	}
}

// WithPage sets the page number.
func (q *QueryParams) WithPage(page int) *QueryParams {
	q.Page = page

	return q
}

// WithPerPage sets the page size.
func (q *QueryParams) WithPerPage(perPage int) *QueryParams {
	q.PerPage = perPage

	return q
}

// WithOrder sets the field results are ordered by.
func (q *QueryParams) WithOrder(field string) *QueryParams {
	q.Order = field

	return q
}

// WithDirection sets the order direction ("asc" or "desc").
func (q *QueryParams) WithDirection(direction string) *QueryParams {
	q.Direction = direction

	return q
}

// WithMatch sets the filter combination mode ("all" or "any").
func (q *QueryParams) WithMatch(match string) *QueryParams {
	q.Match = match

	return q
}

// WithFilter appends values to a filter key.
func (q *QueryParams) WithFilter(key string, values ...string) *QueryParams {
	if q.Filters == nil {
		q.Filters = make(map[string][]string)
	}

	q.Filters[key] = append(q.Filters[key], values...)

	return q
}

// ToValues converts the params to url.Values for the HTTP layer.
func (q *QueryParams) ToValues() url.Values {
	values := url.Values{}

	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}

	if q.PerPage > 0 {
		values.Set("per_page", strconv.Itoa(q.PerPage))
	}

	if q.Order != "" {
		values.Set("order", q.Order)
	}

	if q.Direction != "" {
		values.Set("direction", q.Direction)
	}

	if q.Match != "" {
		values.Set("match", q.Match)
	}

	for key, vals := range q.Filters {
		if len(vals) > 0 {
			values.Set(key, strings.Join(vals, ","))
		}
	}

	return values
}
