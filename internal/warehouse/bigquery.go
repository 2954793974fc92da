package warehouse

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/bigquery"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/annavdbeek/plantportal/pkg/logger"
	"github.com/annavdbeek/plantportal/pkg/metrics"
)

const defaultQueryTimeout = 30 * time.Second

// Config carries the settings needed to reach the warehouse.
type Config struct {
	ProjectID       string
	CredentialsFile string
	QueryTimeout    time.Duration
}

// Client is the BigQuery-backed Store implementation. The underlying client
// is stateless per call, so one Client is shared across requests.
type Client struct {
	bq      *bigquery.Client
	timeout time.Duration
	log     *zap.Logger
}

// NewClient connects to BigQuery using the configured project and optional
// credentials file.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	bq, err := bigquery.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, err
	}

	timeout := cfg.QueryTimeout
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}

	return &Client{
		bq:      bq,
		timeout: timeout,
		log:     logger.WithModule("warehouse"),
	}, nil
}

// Close releases the underlying client connection.
func (c *Client) Close() error {
	return c.bq.Close()
}

// Query runs sqlText with the given named parameters bound and returns
// normalized rows.
func (c *Client) Query(ctx context.Context, sqlText string, params []QueryParam) ([]Row, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	q := c.bq.Query(sqlText)
	if len(params) > 0 {
		bound := make([]bigquery.QueryParameter, 0, len(params))
		for _, p := range params {
			bound = append(bound, bigquery.QueryParameter{Name: p.Name, Value: p.Value})
		}
		q.Parameters = bound
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, c.queryFailed("query", err)
	}

	rows := make([]Row, 0, it.TotalRows)
	for {
		var raw map[string]bigquery.Value
		err := it.Next(&raw)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, c.queryFailed("query", err)
		}

		generic := make(map[string]any, len(raw))
		for col, cell := range raw {
			generic[col] = cell
		}
		rows = append(rows, NormalizeRow(generic))
	}

	metrics.WarehouseQueries.WithLabelValues("query", "success").Inc()
	return rows, nil
}

// ListTables enumerates the tables of a dataset.
func (c *Client) ListTables(ctx context.Context, dataset string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if _, err := SafeIdent(dataset); err != nil {
		return nil, err
	}

	var names []string
	it := c.bq.Dataset(dataset).Tables(ctx)
	for {
		t, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, c.queryFailed("list_tables", err)
		}
		names = append(names, t.TableID)
	}

	metrics.WarehouseQueries.WithLabelValues("list_tables", "success").Inc()
	return names, nil
}

// TableColumns returns the column names from a table's schema. Failures are
// reported as SchemaDiscoveryError so callers can downgrade them locally.
func (c *Client) TableColumns(ctx context.Context, dataset, table string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if _, err := SafeIdent(dataset); err != nil {
		return nil, err
	}
	if _, err := SafeIdent(table); err != nil {
		return nil, err
	}

	md, err := c.bq.Dataset(dataset).Table(table).Metadata(ctx)
	if err != nil {
		metrics.WarehouseQueries.WithLabelValues("table_columns", "failure").Inc()
		return nil, &SchemaDiscoveryError{
			Dataset: dataset,
			Table:   table,
			Err:     &QueryError{Op: "table_columns", Retryable: isTimeout(err), Err: err},
		}
	}

	cols := make([]string, 0, len(md.Schema))
	for _, field := range md.Schema {
		cols = append(cols, field.Name)
	}

	metrics.WarehouseQueries.WithLabelValues("table_columns", "success").Inc()
	return cols, nil
}

func (c *Client) queryFailed(op string, err error) error {
	metrics.WarehouseQueries.WithLabelValues(op, "failure").Inc()
	c.log.Warn("warehouse call failed", zap.String("op", op), zap.Error(err))
	return &QueryError{Op: op, Retryable: isTimeout(err), Err: err}
}

func isTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
