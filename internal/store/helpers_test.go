package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"
)

// fakeConn answers every store query through optional callbacks. A nil
// callback succeeds without touching dest.
type fakeConn struct {
	getFn    func(ctx context.Context, dest any, query string, args ...any) error
	selectFn func(ctx context.Context, dest any, query string, args ...any) error
	execFn   func(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type (
	stubDB     = fakeConn
	stubExecer = fakeConn
	stubGetter = fakeConn
	stubTx     = fakeConn
)

func (c fakeConn) GetContext(ctx context.Context, dest any, query string, args ...any) error {
	if c.getFn == nil {
		return nil
	}
	return c.getFn(ctx, dest, query, args...)
}

func (c fakeConn) SelectContext(ctx context.Context, dest any, query string, args ...any) error {
	if c.selectFn == nil {
		return nil
	}
	return c.selectFn(ctx, dest, query, args...)
}

func (c fakeConn) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if c.execFn == nil {
		return stubResult{rows: 1}, nil
	}
	return c.execFn(ctx, query, args...)
}

type stubResult struct {
	rows int64
	err  error
}

func (r stubResult) LastInsertId() (int64, error) {
	return 0, r.err
}

func (r stubResult) RowsAffected() (int64, error) {
	return r.rows, r.err
}

func requireQuery(t *testing.T, query string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(query, fragment) {
			t.Fatalf("query is missing %q:\n%s", fragment, query)
		}
	}
}
