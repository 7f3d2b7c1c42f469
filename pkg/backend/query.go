package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Query builds a request against the row API. Filters use the
// column=eq.value convention the backend's REST layer understands.
type Query struct {
	client     *Client
	table      string
	selectCols string
	filters    []string
	order      string
	limit      int
}

// Select sets the column projection, including embedded relations such as
// "id,role,companies(id,name,slug)".
func (q *Query) Select(cols string) *Query {
	q.selectCols = cols
	return q
}

// Eq adds an equality filter on a column.
func (q *Query) Eq(column string, value any) *Query {
	q.filters = append(q.filters,
		url.QueryEscape(column)+"="+url.QueryEscape(fmt.Sprintf("eq.%v", value)))
	return q
}

// Order sets the result ordering.
func (q *Query) Order(column string, ascending bool) *Query {
	dir := "desc"
	if ascending {
		dir = "asc"
	}
	q.order = url.QueryEscape(column) + "." + dir
	return q
}

// Limit caps the number of returned rows.
func (q *Query) Limit(n int) *Query {
	q.limit = n
	return q
}

func (q *Query) path() string {
	p := "/rest/v1/" + url.PathEscape(q.table)
	params := make([]string, 0, len(q.filters)+3)
	if q.selectCols != "" {
		params = append(params, "select="+url.QueryEscape(q.selectCols))
	}
	params = append(params, q.filters...)
	if q.order != "" {
		params = append(params, "order="+q.order)
	}
	if q.limit > 0 {
		params = append(params, "limit="+strconv.Itoa(q.limit))
	}
	if len(params) == 0 {
		return p
	}
	query := params[0]
	for _, param := range params[1:] {
		query += "&" + param
	}
	return p + "?" + query
}

// Get fetches matching rows into dest, which must be a pointer to a slice.
func (q *Query) Get(ctx context.Context, dest any) error {
	return q.client.do(ctx, http.MethodGet, q.path(), nil, nil, dest)
}

// MaybeSingle fetches at most one row into dest and reports whether a row
// was found. More than one match is an error.
func (q *Query) MaybeSingle(ctx context.Context, dest any) (bool, error) {
	q.limit = 2
	var rows []json.RawMessage
	if err := q.client.do(ctx, http.MethodGet, q.path(), nil, nil, &rows); err != nil {
		return false, err
	}
	switch len(rows) {
	case 0:
		return false, nil
	case 1:
		if err := json.Unmarshal(rows[0], dest); err != nil {
			return false, fmt.Errorf("backend: decode row: %w", err)
		}
		return true, nil
	default:
		return false, fmt.Errorf("backend: %s: expected at most one row, got %d", q.table, len(rows))
	}
}

// Insert writes a new row. When dest is non-nil the created row is returned
// into it.
func (q *Query) Insert(ctx context.Context, row, dest any) error {
	headers := map[string]string{}
	if dest != nil {
		headers["Prefer"] = "return=representation"
	}
	if dest == nil {
		return q.client.do(ctx, http.MethodPost, q.path(), headers, row, nil)
	}

	var rows []json.RawMessage
	if err := q.client.do(ctx, http.MethodPost, q.path(), headers, row, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("backend: %s: insert returned no row", q.table)
	}
	if err := json.Unmarshal(rows[0], dest); err != nil {
		return fmt.Errorf("backend: decode inserted row: %w", err)
	}
	return nil
}

// Update patches rows matching the filters with the given values.
func (q *Query) Update(ctx context.Context, values any) error {
	if len(q.filters) == 0 {
		return fmt.Errorf("backend: %s: update requires at least one filter", q.table)
	}
	return q.client.do(ctx, http.MethodPatch, q.path(), nil, values, nil)
}
