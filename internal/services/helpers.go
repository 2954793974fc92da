package services

import (
	"context"
	"fmt"

	"github.com/annavdbeek/plantportal/internal/models"
	"github.com/annavdbeek/plantportal/internal/warehouse"
)

func ensureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

// rowString reads a column as its string rendering; missing and null cells
// yield "".
func rowString(row warehouse.Row, col string) string {
	return row[col].AsString()
}

// rowStringPtr reads a column as a nullable string. Missing and null cells
// yield nil so callers can distinguish "no value" from "".
func rowStringPtr(row warehouse.Row, col string) *string {
	v, ok := row[col]
	if !ok || v.IsNull() {
		return nil
	}
	s := v.AsString()
	return &s
}

// qualifiedTable validates every identifier of a descriptor's addressing
// triple and renders the backtick-quoted table reference for SQL text.
// Values never travel this path; they are bound as query parameters.
func qualifiedTable(project, dataset, table string) (string, error) {
	for _, ident := range []string{project, dataset, table} {
		if _, err := warehouse.SafeIdent(ident); err != nil {
			return "", fmt.Errorf("%w: %q", err, ident)
		}
	}
	return fmt.Sprintf("`%s.%s.%s`", project, dataset, table), nil
}

// descriptorTable renders the table reference addressed by a descriptor.
func descriptorTable(d models.ExperimentDescriptor) (string, error) {
	return qualifiedTable(d.ProjectID, d.DatasetName, d.TableID)
}

// scopeFilter builds the WHERE-clause fragment and bound parameters that
// restrict a query to one experiment and, when given, one device.
func scopeFilter(d models.ExperimentDescriptor) (string, []warehouse.QueryParam) {
	clause := "experiment_name = @experiment"
	params := []warehouse.QueryParam{{Name: "experiment", Value: d.ExperimentName}}
	if d.MacAddress != "" {
		clause += " AND mac_address = @mac"
		params = append(params, warehouse.QueryParam{Name: "mac", Value: d.MacAddress})
	}
	return clause, params
}
