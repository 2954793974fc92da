package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/annavdbeek/plantportal/internal/models"
	"github.com/annavdbeek/plantportal/internal/warehouse"
	"github.com/annavdbeek/plantportal/pkg/logger"
)

const (
	// sensorColumnPrefix marks the columns holding physical measurements.
	sensorColumnPrefix = "sensor_"

	// timestampColumn is the event-time column of every experiment table.
	timestampColumn = "timestamp"

	// defaultMetadataConcurrency bounds the per-descriptor fan-out so one
	// large batch cannot flood the warehouse.
	defaultMetadataConcurrency = 4
)

// MetadataService discovers, per experiment, which sensor columns carry
// live data and the covered time range.
type MetadataService struct {
	store       warehouse.Store
	concurrency int
	log         *zap.Logger
}

// NewMetadataService wires the resolver against the store. concurrency <= 0
// selects the default bound.
func NewMetadataService(store warehouse.Store, concurrency int) (*MetadataService, error) {
	if store == nil {
		return nil, errors.New("metadata service: store is required")
	}
	if concurrency <= 0 {
		concurrency = defaultMetadataConcurrency
	}
	return &MetadataService{
		store:       store,
		concurrency: concurrency,
		log:         logger.WithModule("metadata"),
	}, nil
}

// ResolveMetadata produces one ExperimentMetadata per descriptor, in input
// order. The batch is validated up front: any descriptor missing required
// addressing fields rejects the whole request before a single query runs.
// After validation, descriptors resolve concurrently and independently; a
// per-descriptor failure degrades that entry instead of aborting the batch.
func (s *MetadataService) ResolveMetadata(ctx context.Context, descriptors []models.ExperimentDescriptor) ([]models.ExperimentMetadata, error) {
	ctx = ensureContext(ctx)

	var invalid []int
	for i, d := range descriptors {
		if len(d.MissingFields()) > 0 {
			invalid = append(invalid, i)
		}
	}
	if len(invalid) > 0 {
		return nil, &DescriptorValidationError{Indices: invalid}
	}

	results := make([]models.ExperimentMetadata, len(descriptors))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, d := range descriptors {
		g.Go(func() error {
			results[i] = s.resolveOne(gctx, d)
			return nil
		})
	}
	_ = g.Wait() // workers only degrade, they never return errors

	return results, nil
}

// resolveOne assembles one descriptor's metadata. Discovery and time-range
// failures are logged and leave the zero value (empty sensors / null
// bounds) in place.
func (s *MetadataService) resolveOne(ctx context.Context, d models.ExperimentDescriptor) models.ExperimentMetadata {
	md := models.ExperimentMetadata{
		TableID:          d.TableID,
		ExperimentName:   d.ExperimentName,
		MacAddress:       d.MacAddress,
		AvailableSensors: []string{},
	}

	sensors, err := s.discoverSensors(ctx, d)
	if err != nil {
		s.log.Warn("sensor discovery failed, reporting no sensors",
			zap.String("table_id", d.TableID),
			zap.String("experiment", d.ExperimentName),
			zap.Error(err))
	} else {
		md.AvailableSensors = sensors
	}

	tr, err := s.timeRange(ctx, d)
	if err != nil {
		s.log.Warn("time range query failed",
			zap.String("table_id", d.TableID),
			zap.String("experiment", d.ExperimentName),
			zap.Error(err))
	} else {
		md.TimeRange = tr
	}

	return md
}

// discoverSensors finds the sensor columns with at least one non-null value
// in the descriptor's scope. It samples a single row first; only when the
// sample shows no sensors does it fall back to full schema introspection
// plus a non-null count probe. Sampling trades completeness for latency,
// the fallback restores completeness when the cheap path comes up empty.
func (s *MetadataService) discoverSensors(ctx context.Context, d models.ExperimentDescriptor) ([]string, error) {
	tableRef, err := descriptorTable(d)
	if err != nil {
		return nil, err
	}
	filter, params := scopeFilter(d)

	sampleSQL := fmt.Sprintf("SELECT * FROM %s WHERE %s LIMIT 1", tableRef, filter)
	sample, err := s.store.Query(ctx, sampleSQL, params)
	if err != nil {
		return nil, &warehouse.SchemaDiscoveryError{Dataset: d.DatasetName, Table: d.TableID, Err: err}
	}

	if len(sample) > 0 {
		var sensors []string
		for col, cell := range sample[0] {
			if strings.HasPrefix(col, sensorColumnPrefix) && !cell.IsNull() {
				sensors = append(sensors, col)
			}
		}
		if len(sensors) > 0 {
			sort.Strings(sensors)
			return sensors, nil
		}
	}

	return s.introspectSensors(ctx, d, tableRef)
}

// introspectSensors lists the table's schema and counts non-null values per
// sensor column in one aggregate query.
func (s *MetadataService) introspectSensors(ctx context.Context, d models.ExperimentDescriptor, tableRef string) ([]string, error) {
	columns, err := s.store.TableColumns(ctx, d.DatasetName, d.TableID)
	if err != nil {
		return nil, err
	}

	var candidates []string
	for _, col := range columns {
		if !strings.HasPrefix(col, sensorColumnPrefix) {
			continue
		}
		if _, err := warehouse.SafeIdent(col); err != nil {
			continue
		}
		candidates = append(candidates, col)
	}
	if len(candidates) == 0 {
		return []string{}, nil
	}
	sort.Strings(candidates)

	selects := make([]string, len(candidates))
	for i, col := range candidates {
		selects[i] = fmt.Sprintf("COUNT(`%s`) AS `%s`", col, col)
	}
	filter, params := scopeFilter(d)
	probeSQL := fmt.Sprintf("SELECT %s FROM %s WHERE %s", strings.Join(selects, ", "), tableRef, filter)

	rows, err := s.store.Query(ctx, probeSQL, params)
	if err != nil {
		return nil, &warehouse.SchemaDiscoveryError{Dataset: d.DatasetName, Table: d.TableID, Err: err}
	}
	if len(rows) == 0 {
		return []string{}, nil
	}

	sensors := []string{}
	for _, col := range candidates {
		if cell := rows[0][col]; cell.Kind == warehouse.KindNumber && cell.Num > 0 {
			sensors = append(sensors, col)
		}
	}
	return sensors, nil
}

// timeRange queries the min and max event timestamp for the scope. Zero
// matching rows leave both bounds null.
func (s *MetadataService) timeRange(ctx context.Context, d models.ExperimentDescriptor) (models.TimeRange, error) {
	tableRef, err := descriptorTable(d)
	if err != nil {
		return models.TimeRange{}, err
	}
	filter, params := scopeFilter(d)

	sqlText := fmt.Sprintf(
		"SELECT MIN(`%s`) AS first_ts, MAX(`%s`) AS last_ts FROM %s WHERE %s",
		timestampColumn, timestampColumn, tableRef, filter,
	)
	rows, err := s.store.Query(ctx, sqlText, params)
	if err != nil {
		return models.TimeRange{}, err
	}
	if len(rows) == 0 {
		return models.TimeRange{}, nil
	}

	return models.TimeRange{
		FirstTimestamp: rowStringPtr(rows[0], "first_ts"),
		LastTimestamp:  rowStringPtr(rows[0], "last_ts"),
	}, nil
}
