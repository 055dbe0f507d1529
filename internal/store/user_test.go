package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"recipe-app/internal/apperr"
	"recipe-app/internal/database"
	"recipe-app/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func userValues(u *model.User) []any {
	return []any{u.ID, u.Email, u.Name, u.PasswordHash, u.IsActive, u.IsStaff, u.IsSuperuser, u.CreatedAt}
}

func TestUserStore(t *testing.T) {
	now := time.Now().UTC()
	sample := &model.User{ID: 7, Email: "alice@example.com", Name: "Alice", PasswordHash: "h", IsActive: true, CreatedAt: now}

	t.Run("GetUserByID success", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, sql string, args ...any) pgx.Row {
				require.Contains(t, sql, "WHERE id = $1")
				require.Equal(t, []any{7}, args)
				return &database.FakeRow{Values: userValues(sample)}
			},
		}
		u, err := GetUserByID(context.Background(), db, 7)
		require.NoError(t, err)
		require.Equal(t, sample, u)
	})

	t.Run("GetUserByEmail not found", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(context.Context, string, ...any) pgx.Row {
				return &database.FakeRow{Err: pgx.ErrNoRows}
			},
		}
		u, err := GetUserByEmail(context.Background(), db, "nobody@example.com")
		require.Nil(t, u)
		require.True(t, apperr.Is(err, apperr.CodeNotFound))
	})

	t.Run("CreateUser success", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, sql string, args ...any) pgx.Row {
				require.Contains(t, sql, "INSERT INTO users")
				require.Equal(t, "bob@example.com", args[0])
				require.Equal(t, true, args[5])
				return &database.FakeRow{Values: []any{42, now}}
			},
		}
		u, err := CreateUser(context.Background(), db, &model.User{Email: "bob@example.com", IsActive: true, IsStaff: true, IsSuperuser: true})
		require.NoError(t, err)
		require.Equal(t, 42, u.ID)
		require.Equal(t, now, u.CreatedAt)
	})

	t.Run("CreateUser duplicate email", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(context.Context, string, ...any) pgx.Row {
				return &database.FakeRow{Err: &pgconn.PgError{Code: pgUniqueViolation}}
			},
		}
		_, err := CreateUser(context.Background(), db, &model.User{Email: "a@b.com"})
		var ae *apperr.Error
		require.ErrorAs(t, err, &ae)
		require.Equal(t, "email", ae.Field)
	})

	t.Run("CreateUser driver error", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(context.Context, string, ...any) pgx.Row {
				return &database.FakeRow{Err: errors.New("conn")}
			},
		}
		_, err := CreateUser(context.Background(), db, &model.User{})
		require.Equal(t, apperr.CodeInternal, apperr.CodeOf(err))
	})

	t.Run("UpdateUser", func(t *testing.T) {
		db := &database.FakeDB{
			ExecFn: func(_ context.Context, _ string, args ...any) (pgconn.CommandTag, error) {
				require.Equal(t, []any{"New", "h2", 7}, args)
				return pgconn.NewCommandTag("UPDATE 1"), nil
			},
		}
		require.NoError(t, UpdateUser(context.Background(), db, &model.User{ID: 7, Name: "New", PasswordHash: "h2"}))

		db.ExecFn = func(context.Context, string, ...any) (pgconn.CommandTag, error) {
			return pgconn.NewCommandTag("UPDATE 0"), nil
		}
		require.True(t, apperr.Is(UpdateUser(context.Background(), db, &model.User{ID: 8}), apperr.CodeNotFound))

		db.ExecFn = func(context.Context, string, ...any) (pgconn.CommandTag, error) {
			return pgconn.CommandTag{}, errors.New("fail")
		}
		require.Error(t, UpdateUser(context.Background(), db, &model.User{ID: 7}))
	})
}
