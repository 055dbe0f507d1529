package store

import (
	"errors"
	"testing"

	"recipe-app/internal/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestScope(t *testing.T) {
	s := ownedBy("r", 7)
	require.Equal(t, "WHERE r.user_id = $1", s.where())

	s.and("r.id = %s", 3).and("r.title = %s OR r.link = %s", "a", "b")
	require.Equal(t, "WHERE r.user_id = $1 AND r.id = $2 AND r.title = $3 OR r.link = $4", s.where())
	require.Equal(t, []any{7, 3, "a", "b"}, s.args)

	require.Equal(t, "$5", s.arg("x"))
	require.Len(t, s.args, 5)
}

func TestUniqueIDs(t *testing.T) {
	require.Equal(t, []int{}, uniqueIDs(nil))
	require.Equal(t, []int{1, 2, 3}, uniqueIDs([]int{3, 1, 3, 2, 1}))
}

func TestWrapErr(t *testing.T) {
	err := wrapErr("Op", pgx.ErrNoRows)
	require.True(t, apperr.Is(err, apperr.CodeNotFound))
	require.Contains(t, err.Error(), "Op")

	err = wrapErr("Op", &pgconn.PgError{Code: pgUniqueViolation, ColumnName: "email"})
	require.True(t, apperr.Is(err, apperr.CodeValidation))

	err = wrapErr("Op", &pgconn.PgError{Code: pgForeignKeyViolation})
	require.True(t, apperr.Is(err, apperr.CodeValidation))

	v := apperr.Validation("tags", "bad")
	require.Same(t, v, wrapErr("Op", v))

	err = wrapErr("Op", errors.New("conn reset"))
	require.Equal(t, apperr.CodeInternal, apperr.CodeOf(err))
	require.EqualError(t, err, "Op: conn reset")
}
