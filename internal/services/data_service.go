package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/annavdbeek/plantportal/internal/models"
	"github.com/annavdbeek/plantportal/internal/warehouse"
	apperrors "github.com/annavdbeek/plantportal/pkg/errors"
	"github.com/annavdbeek/plantportal/pkg/logger"
)

// FetchRange bounds a data fetch. Both ends are required.
type FetchRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DataService runs the filtered projection query behind the chart widget.
// It shares the gateway with the resolvers but has no expansion logic.
type DataService struct {
	store warehouse.Store
	log   *zap.Logger
}

// NewDataService wires the fetcher against the store.
func NewDataService(store warehouse.Store) (*DataService, error) {
	if store == nil {
		return nil, errors.New("data service: store is required")
	}
	return &DataService{store: store, log: logger.WithModule("data")}, nil
}

// FetchData returns the selected sensor fields for one experiment scope
// within the given time range, ordered by event time. The timestamp column
// is always included so rows stay plottable.
func (s *DataService) FetchData(ctx context.Context, d models.ExperimentDescriptor, tr FetchRange, fields []string) ([]warehouse.Row, error) {
	ctx = ensureContext(ctx)

	if missing := d.MissingFields(); len(missing) > 0 {
		return nil, apperrors.NewBadRequest("descriptor is missing " + strings.Join(missing, ", "))
	}
	if len(fields) == 0 {
		return nil, apperrors.NewBadRequest("fields is required")
	}
	if strings.TrimSpace(tr.Start) == "" || strings.TrimSpace(tr.End) == "" {
		return nil, apperrors.NewBadRequest("time_range.start and time_range.end are required")
	}

	columns, err := projectionColumns(fields)
	if err != nil {
		return nil, err
	}

	tableRef, err := descriptorTable(d)
	if err != nil {
		return nil, apperrors.NewBadRequest("descriptor contains invalid identifiers")
	}

	filter, params := scopeFilter(d)
	params = append(params,
		warehouse.QueryParam{Name: "start", Value: tr.Start},
		warehouse.QueryParam{Name: "end", Value: tr.End},
	)

	sqlText := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s AND `%s` BETWEEN TIMESTAMP(@start) AND TIMESTAMP(@end) ORDER BY `%s`",
		strings.Join(columns, ", "), tableRef, filter, timestampColumn, timestampColumn,
	)

	rows, err := s.store.Query(ctx, sqlText, params)
	if err != nil {
		s.log.Warn("data fetch failed",
			zap.String("table_id", d.TableID),
			zap.String("experiment", d.ExperimentName),
			zap.Error(err))
		return nil, apperrors.ErrWarehouseUnavailable.WithInternal(err)
	}

	if rows == nil {
		rows = []warehouse.Row{}
	}
	return rows, nil
}

// projectionColumns validates the requested field names and prepends the
// timestamp column when absent. Only the sensor namespace and the timestamp
// column may be projected.
func projectionColumns(fields []string) ([]string, error) {
	columns := make([]string, 0, len(fields)+1)
	seen := map[string]bool{}

	for _, field := range fields {
		name := strings.TrimSpace(field)
		if name != timestampColumn && !strings.HasPrefix(name, sensorColumnPrefix) {
			return nil, apperrors.NewBadRequest(fmt.Sprintf("field %q is not a sensor column", field))
		}
		if _, err := warehouse.SafeIdent(name); err != nil {
			return nil, apperrors.NewBadRequest(fmt.Sprintf("field %q is not a valid column name", field))
		}
		if !seen[name] {
			seen[name] = true
			columns = append(columns, "`"+name+"`")
		}
	}

	if !seen[timestampColumn] {
		columns = append([]string{"`" + timestampColumn + "`"}, columns...)
	}
	return columns, nil
}
