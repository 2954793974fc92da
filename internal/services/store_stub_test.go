package services

import (
	"context"
	"sync"

	"github.com/annavdbeek/plantportal/internal/warehouse"
)

// stubStore routes queries to test-provided functions and records every
// call. The mutex matters: the metadata resolver fans out concurrently.
type stubStore struct {
	mu      sync.Mutex
	queries []recordedQuery

	queryFn   func(sqlText string, params []warehouse.QueryParam) ([]warehouse.Row, error)
	tablesFn  func(dataset string) ([]string, error)
	columnsFn func(dataset, table string) ([]string, error)
}

type recordedQuery struct {
	SQL    string
	Params []warehouse.QueryParam
}

func (s *stubStore) Query(_ context.Context, sqlText string, params []warehouse.QueryParam) ([]warehouse.Row, error) {
	s.mu.Lock()
	s.queries = append(s.queries, recordedQuery{SQL: sqlText, Params: params})
	s.mu.Unlock()

	if s.queryFn == nil {
		return nil, nil
	}
	return s.queryFn(sqlText, params)
}

func (s *stubStore) ListTables(_ context.Context, dataset string) ([]string, error) {
	if s.tablesFn == nil {
		return nil, nil
	}
	return s.tablesFn(dataset)
}

func (s *stubStore) TableColumns(_ context.Context, dataset, table string) ([]string, error) {
	if s.columnsFn == nil {
		return nil, nil
	}
	return s.columnsFn(dataset, table)
}

func (s *stubStore) queryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queries)
}

func paramValue(params []warehouse.QueryParam, name string) any {
	for _, p := range params {
		if p.Name == name {
			return p.Value
		}
	}
	return nil
}
