// Package supabase provides a typed client for the Supabase REST (PostgREST),
// auth (GoTrue), and storage APIs backing the marketplace, abstracted behind
// interfaces for testability.
package supabase

import (
	"context"
	"encoding/json"
)

// Op is a PostgREST filter operator.
type Op string

// Supported filter operators.
const (
	OpEq    Op = "eq"
	OpNeq   Op = "neq"
	OpGte   Op = "gte"
	OpLte   Op = "lte"
	OpILike Op = "ilike"
	OpIs    Op = "is"
)

// Filter is a single column predicate. Multiple filters on a request are
// conjunctive (logical AND).
type Filter struct {
	Column string
	Op     Op
	Value  string
}

// Eq builds an equality predicate.
func Eq(column, value string) Filter { return Filter{Column: column, Op: OpEq, Value: value} }

// Neq builds a not-equal predicate.
func Neq(column, value string) Filter { return Filter{Column: column, Op: OpNeq, Value: value} }

// Gte builds a greater-or-equal predicate.
func Gte(column, value string) Filter { return Filter{Column: column, Op: OpGte, Value: value} }

// Lte builds a less-or-equal predicate.
func Lte(column, value string) Filter { return Filter{Column: column, Op: OpLte, Value: value} }

// ILike builds a case-insensitive pattern predicate. The value uses
// PostgREST wildcards, e.g. "*term*".
func ILike(column, value string) Filter { return Filter{Column: column, Op: OpILike, Value: value} }

// IsNull builds an IS NULL predicate.
func IsNull(column string) Filter { return Filter{Column: column, Op: OpIs, Value: "null"} }

// Order describes the requested row ordering.
type Order struct {
	Column     string
	Descending bool
}

// RowRange is an inclusive row range, e.g. {0, 19} for the first 20 rows.
type RowRange struct {
	From int
	To   int
}

// SelectRequest describes a read against a single table, optionally expanding
// embedded relations through the Columns expression.
type SelectRequest struct {
	Table   string
	Columns string // PostgREST select expression; "*" when empty
	Filters []Filter
	Order   *Order
	Range   *RowRange
	Limit   int  // ignored when Range is set
	Count   bool // request the exact total count ignoring Range/Limit
}

// SelectResult holds the raw rows of a select along with the total number of
// rows matching the predicates (ignoring pagination) when the request asked
// for a count; otherwise Total is len(Rows).
type SelectResult struct {
	Rows  []json.RawMessage
	Total int
}

// Client defines the tabular capabilities this service consumes from the
// backend: row queries, single-row updates, row inserts, and name→id lookups.
type Client interface {
	// Select executes a read and returns the matching rows and total count.
	Select(ctx context.Context, req SelectRequest) (*SelectResult, error)

	// InsertRow inserts a single row and returns its representation.
	InsertRow(ctx context.Context, table string, fields map[string]any) (json.RawMessage, error)

	// UpdateByID applies a partial update to the row with the given id.
	UpdateByID(ctx context.Context, table, id string, fields map[string]any) error

	// LookupID resolves a single value in a column to the matching row's id.
	// It returns ("", nil) when no row matches: absence is not an error.
	LookupID(ctx context.Context, table, column, value string) (string, error)
}
