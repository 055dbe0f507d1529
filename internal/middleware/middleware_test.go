package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"recipe-app/internal/apperr"
	"recipe-app/internal/database"
	"recipe-app/internal/model"
	"recipe-app/internal/service"
	"recipe-app/internal/store"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func newContext(auth string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestExtractClaims(t *testing.T) {
	t.Setenv("JWT_SECRET", "testsecret")

	for _, header := range []string{"", "BadHeader", "Bearer ", "Token abc", "Bearer invalid"} {
		ctx, _ := newContext(header)
		_, err := extractClaims(ctx)
		require.True(t, apperr.Is(err, apperr.CodeUnauthorized), header)
	}

	tok, err := service.IssueAccessToken(model.User{ID: 1, IsStaff: true}, time.Minute)
	require.NoError(t, err)
	ctx, _ := newContext("bearer " + tok)
	claims, err := extractClaims(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, claims.UserID)
	require.True(t, claims.IsStaff)
}

func TestExtractClaimsKeepsCause(t *testing.T) {
	verifyAccessToken = func(string) (*service.CustomClaims, error) { return nil, errors.New("expired") }
	t.Cleanup(func() { verifyAccessToken = service.VerifyAccessToken })

	ctx, _ := newContext("Bearer x")
	_, err := extractClaims(ctx)
	require.ErrorContains(t, err, "expired")
	require.True(t, apperr.Is(err, apperr.CodeUnauthorized))
}

func TestRequireAuth(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	tok, err := service.IssueAccessToken(model.User{ID: 2}, time.Minute)
	require.NoError(t, err)

	ctx, rec := newContext("Bearer " + tok)
	called := false
	handler := RequireAuth(func(c echo.Context) error {
		called = true
		id, err := ActingUserID(c)
		require.NoError(t, err)
		require.Equal(t, 2, id)
		return c.String(http.StatusOK, "ok")
	})
	require.NoError(t, handler(ctx))
	require.True(t, called)
	require.Equal(t, http.StatusOK, rec.Code)

	ctx, _ = newContext("")
	called = false
	err = RequireAuth(func(echo.Context) error { called = true; return nil })(ctx)
	require.True(t, apperr.Is(err, apperr.CodeUnauthorized))
	require.False(t, called)
}

func TestActingUserID(t *testing.T) {
	ctx, _ := newContext("")
	_, err := ActingUserID(ctx)
	require.True(t, apperr.Is(err, apperr.CodeUnauthorized))

	ctx.Set(ContextUserKey, &service.CustomClaims{})
	_, err = ActingUserID(ctx)
	require.Error(t, err)

	ctx.Set(ContextUserKey, &service.CustomClaims{UserID: 7})
	id, err := ActingUserID(ctx)
	require.NoError(t, err)
	require.Equal(t, 7, id)
}

func TestRequireActiveUser(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Cleanup(func() { getUserByID = store.GetUserByID })
	tok, err := service.IssueAccessToken(model.User{ID: 3}, time.Minute)
	require.NoError(t, err)

	cases := []struct {
		name    string
		lookup  func(context.Context, database.Querier, int) (*model.User, error)
		wantErr apperr.Code
	}{
		{"active", func(_ context.Context, _ database.Querier, id int) (*model.User, error) {
			require.Equal(t, 3, id)
			return &model.User{ID: id, IsActive: true}, nil
		}, ""},
		{"deactivated", func(_ context.Context, _ database.Querier, id int) (*model.User, error) {
			return &model.User{ID: id}, nil
		}, apperr.CodeUnauthorized},
		{"deleted", func(context.Context, database.Querier, int) (*model.User, error) {
			return nil, apperr.NotFound()
		}, apperr.CodeUnauthorized},
		{"db error", func(context.Context, database.Querier, int) (*model.User, error) {
			return nil, errors.New("down")
		}, apperr.CodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			getUserByID = tc.lookup
			ctx, _ := newContext("Bearer " + tok)
			called := false
			err := RequireActiveUser(&database.FakeDB{})(func(echo.Context) error { called = true; return nil })(ctx)
			if tc.wantErr == "" {
				require.NoError(t, err)
				require.True(t, called)
				return
			}
			require.Equal(t, tc.wantErr, apperr.CodeOf(err))
			require.False(t, called)
		})
	}

	getUserByID = func(context.Context, database.Querier, int) (*model.User, error) {
		t.Fatal("lookup without a valid token")
		return nil, nil
	}
	ctx, _ := newContext("")
	err = RequireActiveUser(&database.FakeDB{})(func(echo.Context) error { return nil })(ctx)
	require.True(t, apperr.Is(err, apperr.CodeUnauthorized))
}
