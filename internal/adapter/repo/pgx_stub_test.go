package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type simpleRow struct {
	scan func(dest ...any) error
}

func (r simpleRow) Scan(dest ...any) error {
	if r.scan == nil {
		return pgx.ErrNoRows
	}
	return r.scan(dest...)
}

type testRowsBase struct{}

func (testRowsBase) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }

func (testRowsBase) Conn() *pgx.Conn { return nil }

func (testRowsBase) FieldDescriptions() []pgconn.FieldDescription { return nil }

func (testRowsBase) Values() ([]any, error) {
	return nil, fmt.Errorf("values not supported in test rows")
}

func (testRowsBase) RawValues() [][]byte { return nil }

// sliceRows iterates over pre-built scan functions.
type sliceRows struct {
	testRowsBase
	scans []func(dest ...any) error
	idx   int
	err   error
}

func (r *sliceRows) Close() {}

func (r *sliceRows) Err() error { return r.err }

func (r *sliceRows) Next() bool {
	if r.idx >= len(r.scans) {
		return false
	}
	r.idx++
	return true
}

func (r *sliceRows) Scan(dest ...any) error {
	return r.scans[r.idx-1](dest...)
}

type call struct {
	query string
	args  []any
}

type stubExecutor struct {
	calls    []call
	row      pgx.Row
	rows     pgx.Rows
	execErr  error
	queryErr error
}

func (s *stubExecutor) Exec(_ context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	s.calls = append(s.calls, call{query: query, args: args})
	return pgconn.NewCommandTag("INSERT 0 1"), s.execErr
}

func (s *stubExecutor) QueryRow(_ context.Context, query string, args ...any) pgx.Row {
	s.calls = append(s.calls, call{query: query, args: args})
	if s.row == nil {
		return simpleRow{}
	}
	return s.row
}

func (s *stubExecutor) Query(_ context.Context, query string, args ...any) (pgx.Rows, error) {
	s.calls = append(s.calls, call{query: query, args: args})
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	return s.rows, nil
}

func balanceRow(userID string, credits int, unlimited bool, generations int, claimed bool) simpleRow {
	return simpleRow{scan: func(dest ...any) error {
		*dest[0].(*string) = userID
		*dest[1].(*int) = credits
		*dest[2].(*bool) = unlimited
		*dest[3].(*int) = generations
		*dest[4].(*bool) = claimed
		*dest[5].(*time.Time) = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		return nil
	}}
}
