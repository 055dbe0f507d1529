package database

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestFakeDB(t *testing.T) {
	db := &FakeDB{}
	require.Panics(t, func() { db.Exec(context.Background(), "") })
	require.Panics(t, func() { db.Query(context.Background(), "") })
	require.Panics(t, func() { db.QueryRow(context.Background(), "") })
	require.Panics(t, func() { db.Begin(context.Background()) })
	require.Panics(t, func() { db.Ping(context.Background()) })
	db.Close()

	called := map[string]bool{}
	db.ExecFn = func(ctx context.Context, s string, args ...any) (pgconn.CommandTag, error) {
		called["exec"] = true
		return pgconn.CommandTag{}, errors.New("e")
	}
	db.QueryFn = func(ctx context.Context, s string, args ...any) (pgx.Rows, error) {
		called["query"] = true
		return &FakeRows{}, nil
	}
	db.QueryRowFn = func(ctx context.Context, s string, args ...any) pgx.Row {
		called["row"] = true
		return &FakeRow{}
	}
	db.BeginFn = func(ctx context.Context) (pgx.Tx, error) { called["begin"] = true; return &FakeTx{}, nil }
	db.PingFn = func(ctx context.Context) error { called["ping"] = true; return nil }
	db.CloseFn = func() { called["close"] = true }

	_, err := db.Exec(context.Background(), "sql")
	require.Error(t, err)
	_, err = db.Query(context.Background(), "sql")
	require.NoError(t, err)
	_ = db.QueryRow(context.Background(), "sql")
	_, err = db.Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, db.Ping(context.Background()))
	db.Close()
	for _, k := range []string{"exec", "query", "row", "begin", "ping", "close"} {
		require.True(t, called[k], k)
	}
}

func TestFakeTx(t *testing.T) {
	var tx pgx.Tx = &FakeTx{}
	require.NoError(t, tx.Rollback(context.Background()))
	require.True(t, tx.(*FakeTx).RolledBack)

	ftx := &FakeTx{}
	require.NoError(t, ftx.Commit(context.Background()))
	require.ErrorIs(t, ftx.Rollback(context.Background()), pgx.ErrTxClosed)
	require.False(t, ftx.RolledBack)

	ftx = &FakeTx{CommitErr: errors.New("c")}
	require.Error(t, ftx.Commit(context.Background()))
	require.False(t, ftx.Committed)
}

func TestFakeRows(t *testing.T) {
	img := "a.png"
	rows := &FakeRows{Data: [][]any{{1, "a", &img}, {2, "b", (*string)(nil)}}}
	var (
		id   int
		name string
		path *string
	)
	require.True(t, rows.Next())
	require.NoError(t, rows.Scan(&id, &name, &path))
	require.Equal(t, 1, id)
	require.Equal(t, "a.png", *path)
	require.True(t, rows.Next())
	require.NoError(t, rows.Scan(&id, &name, &path))
	require.Equal(t, "b", name)
	require.Nil(t, path)
	require.False(t, rows.Next())
	require.Error(t, rows.Scan(&id))

	row := &FakeRow{Values: []any{3}}
	require.NoError(t, row.Scan(&id))
	require.Equal(t, 3, id)
	require.Error(t, (&FakeRow{Values: []any{1}}).Scan(&id, &name))
}
