package database

import (
	"context"
	"fmt"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier 為 pool 與 transaction 共有的查詢方法
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type DB interface {
	Querier
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(context.Context) error
	Close()
}

type FakeDB struct {
	ExecFn     func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryFn    func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRowFn func(ctx context.Context, sql string, args ...any) pgx.Row
	BeginFn    func(ctx context.Context) (pgx.Tx, error)
	PingFn     func(ctx context.Context) error
	CloseFn    func()
}

func (f *FakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if f.ExecFn != nil {
		return f.ExecFn(ctx, sql, args...)
	}
	panic("unexpected Exec")
}

func (f *FakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if f.QueryFn != nil {
		return f.QueryFn(ctx, sql, args...)
	}
	panic("unexpected Query")
}

func (f *FakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if f.QueryRowFn != nil {
		return f.QueryRowFn(ctx, sql, args...)
	}
	panic("unexpected QueryRow")
}

func (f *FakeDB) Begin(ctx context.Context) (pgx.Tx, error) {
	if f.BeginFn != nil {
		return f.BeginFn(ctx)
	}
	panic("unexpected Begin")
}

func (f *FakeDB) Ping(ctx context.Context) error {
	if f.PingFn != nil {
		return f.PingFn(ctx)
	}
	panic("unexpected Ping")
}

func (f *FakeDB) Close() {
	if f.CloseFn != nil {
		f.CloseFn()
	}
}

// FakeTx 實作 pgx.Tx，查詢委派給內嵌的 FakeDB
type FakeTx struct {
	FakeDB
	CommitErr  error
	Committed  bool
	RolledBack bool
}

func (t *FakeTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }

func (t *FakeTx) Commit(ctx context.Context) error {
	if t.CommitErr != nil {
		return t.CommitErr
	}
	t.Committed = true
	return nil
}

func (t *FakeTx) Rollback(ctx context.Context) error {
	if t.Committed {
		return pgx.ErrTxClosed
	}
	t.RolledBack = true
	return nil
}

func (t *FakeTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	panic("unexpected CopyFrom")
}

func (t *FakeTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	panic("unexpected SendBatch")
}

func (t *FakeTx) LargeObjects() pgx.LargeObjects { panic("unexpected LargeObjects") }

func (t *FakeTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	panic("unexpected Prepare")
}

func (t *FakeTx) Conn() *pgx.Conn { return nil }

// FakeRow 以固定值回應單筆 Scan
type FakeRow struct {
	Values []any
	Err    error
}

func (r *FakeRow) Scan(dest ...any) error {
	if r.Err != nil {
		return r.Err
	}
	return assign(dest, r.Values)
}

// FakeRows 以固定資料回應多筆查詢
type FakeRows struct {
	Data    [][]any
	ScanErr error
	ErrVal  error
	idx     int
}

func (r *FakeRows) Close()                                       {}
func (r *FakeRows) Err() error                                   { return r.ErrVal }
func (r *FakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *FakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *FakeRows) Next() bool {
	ok := r.idx < len(r.Data)
	if ok {
		r.idx++
	}
	return ok
}
func (r *FakeRows) Scan(dest ...any) error {
	if r.ScanErr != nil {
		return r.ScanErr
	}
	return assign(dest, r.Data[r.idx-1])
}
func (r *FakeRows) Values() ([]any, error) { return r.Data[r.idx-1], nil }
func (r *FakeRows) RawValues() [][]byte    { return nil }
func (r *FakeRows) Conn() *pgx.Conn        { return nil }

func assign(dest []any, values []any) error {
	if len(dest) != len(values) {
		return fmt.Errorf("fake scan: want %d dest, got %d", len(values), len(dest))
	}
	for i, v := range values {
		target := reflect.ValueOf(dest[i]).Elem()
		if v == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		target.Set(reflect.ValueOf(v))
	}
	return nil
}
