package warehouse

import (
	"errors"
	"fmt"
)

// QueryError reports a store-level failure: malformed SQL, denied table
// access or transient connectivity problems. Retryable marks timeouts and
// other failures worth re-issuing.
type QueryError struct {
	Op        string // query, list_tables, table_columns
	Retryable bool
	Err       error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("warehouse %s: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// SchemaDiscoveryError is the sensor-column discovery sub-case of
// QueryError. Callers downgrade it to "no sensors found" locally.
type SchemaDiscoveryError struct {
	Dataset string
	Table   string
	Err     error
}

func (e *SchemaDiscoveryError) Error() string {
	return fmt.Sprintf("schema discovery %s.%s: %v", e.Dataset, e.Table, e.Err)
}

func (e *SchemaDiscoveryError) Unwrap() error { return e.Err }

// IsQueryError reports whether err has a QueryError anywhere in its chain.
func IsQueryError(err error) bool {
	var qe *QueryError
	return errors.As(err, &qe)
}

// ErrBadIdentifier rejects table or column names outside the charset safe
// for direct SQL interpolation.
var ErrBadIdentifier = errors.New("warehouse: unsafe identifier")
