package supabase

import (
	"fmt"
	"net/url"
	"strconv"
)

// encode adds the filter to params in PostgREST "column=op.value" form.
func (f Filter) encode(params url.Values) {
	params.Add(f.Column, string(f.Op)+"."+f.Value)
}

// param renders the order in PostgREST "column.asc|desc" form.
func (o Order) param() string {
	dir := "asc"
	if o.Descending {
		dir = "desc"
	}
	return o.Column + "." + dir
}

// header renders the inclusive range for the HTTP Range header.
func (r RowRange) header() string {
	return fmt.Sprintf("%d-%d", r.From, r.To)
}

// query encodes the request's column selection, predicates, ordering, and
// limit as PostgREST query parameters. The row range travels separately as a
// Range header.
func (req SelectRequest) query() url.Values {
	params := url.Values{}

	columns := req.Columns
	if columns == "" {
		columns = "*"
	}
	params.Set("select", columns)

	for _, f := range req.Filters {
		f.encode(params)
	}

	if req.Order != nil {
		params.Set("order", req.Order.param())
	}

	if req.Range == nil && req.Limit > 0 {
		params.Set("limit", strconv.Itoa(req.Limit))
	}

	return params
}
