package warehouse

import (
	"context"
	"regexp"
)

// QueryParam is a named value bound into a parameterized query. Values are
// always bound, never interpolated into SQL text.
type QueryParam struct {
	Name  string
	Value any
}

// Store is the access gateway to the columnar warehouse. Identifiers
// (project, dataset, table, column names) are embedded directly into SQL
// text after passing SafeIdent; all value parameters travel through the
// store's named-parameter binding.
type Store interface {
	// Query runs a parameterized query and returns normalized rows.
	Query(ctx context.Context, sqlText string, params []QueryParam) ([]Row, error)

	// ListTables enumerates table names inside a dataset.
	ListTables(ctx context.Context, dataset string) ([]string, error)

	// TableColumns returns the column names of a table's schema.
	TableColumns(ctx context.Context, dataset, table string) ([]string, error)
}

var identPattern = regexp.MustCompile(`^[A-Za-z0-9_$-]+$`)

// SafeIdent validates a name for direct interpolation into SQL text.
// Identifiers originate from grant rows or validated descriptors, but the
// metadata and data endpoints accept them from clients, so the charset is
// enforced before any string building happens.
func SafeIdent(name string) (string, error) {
	if name == "" || !identPattern.MatchString(name) {
		return "", ErrBadIdentifier
	}
	return name, nil
}
