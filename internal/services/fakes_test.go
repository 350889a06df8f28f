package services

import (
	"context"
	"fmt"
	"reflect"
)

// fakeDB implements DB with overridable func fields. Begin defaults to a
// fakeTx that delegates queries back to the fakeDB, so transactional code
// paths can be driven by the same QueryRowFunc/ExecFunc sequences.
type fakeDB struct {
	QueryFunc    func(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRowFunc func(ctx context.Context, sql string, args ...any) Row
	ExecFunc     func(ctx context.Context, sql string, args ...any) (CommandTag, error)
	BeginFunc    func(ctx context.Context) (Tx, error)

	tx *fakeTx
}

func (d *fakeDB) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	if d.QueryFunc == nil {
		return &fakeRows{}, nil
	}
	return d.QueryFunc(ctx, sql, args...)
}

func (d *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) Row {
	if d.QueryRowFunc == nil {
		return fakeRow{}
	}
	return d.QueryRowFunc(ctx, sql, args...)
}

func (d *fakeDB) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	if d.ExecFunc == nil {
		return fakeCommandTag{rowsAffected: 1}, nil
	}
	return d.ExecFunc(ctx, sql, args...)
}

func (d *fakeDB) Begin(ctx context.Context) (Tx, error) {
	if d.BeginFunc != nil {
		return d.BeginFunc(ctx)
	}
	d.tx = &fakeTx{db: d}
	return d.tx, nil
}

type fakeTx struct {
	db         *fakeDB
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return t.db.Query(ctx, sql, args...)
}

func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return t.db.QueryRow(ctx, sql, args...)
}

func (t *fakeTx) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	return t.db.Exec(ctx, sql, args...)
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	t.rolledBack = true
	return nil
}

type fakeRow struct {
	scanFunc func(dest ...any) error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.scanFunc == nil {
		return nil
	}
	return r.scanFunc(dest...)
}

// rowFromValues builds a Row whose Scan assigns the given values in order.
func rowFromValues(values ...any) fakeRow {
	return fakeRow{scanFunc: func(dest ...any) error {
		return assignValues(dest, values)
	}}
}

type fakeRows struct {
	rows [][]any
	idx  int
	err  error
}

func (r *fakeRows) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}
	r.idx++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	return assignValues(dest, r.rows[r.idx-1])
}

func (r *fakeRows) Err() error { return r.err }

func (r *fakeRows) Close() {}

type fakeCommandTag struct {
	rowsAffected int64
}

func (t fakeCommandTag) RowsAffected() int64 { return t.rowsAffected }

func assignValues(dest []any, values []any) error {
	if len(dest) != len(values) {
		return fmt.Errorf("scan expected %d destinations, got %d", len(values), len(dest))
	}
	for i, v := range values {
		if v == nil {
			continue
		}
		dv := reflect.ValueOf(dest[i]).Elem()
		sv := reflect.ValueOf(v)
		if !sv.Type().AssignableTo(dv.Type()) {
			if !sv.Type().ConvertibleTo(dv.Type()) {
				return fmt.Errorf("cannot scan %T into %T", v, dest[i])
			}
			sv = sv.Convert(dv.Type())
		}
		dv.Set(sv)
	}
	return nil
}
