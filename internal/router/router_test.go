package router

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"recipe-app/internal/api"
	"recipe-app/internal/cache"
	"recipe-app/internal/database"
	"recipe-app/internal/storage"
	"recipe-app/internal/worker"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func testDeps(t *testing.T) Deps {
	pool := worker.NewPool(1, 0, nil)
	t.Cleanup(pool.Stop)
	root := t.TempDir()
	return Deps{
		DB:        &database.FakeDB{},
		Cache:     &cache.FakeCache{},
		Files:     storage.NewLocal(root, "/media/"),
		Pool:      pool,
		TokenTTL:  time.Hour,
		MediaRoot: root,
	}
}

func TestSetupRoutes(t *testing.T) {
	e := echo.New()
	Setup(e, testDeps(t))

	got := map[string]struct{}{}
	for _, r := range e.Routes() {
		got[r.Method+" "+r.Path] = struct{}{}
	}

	expected := []string{
		http.MethodGet + " /metrics",
		http.MethodGet + " /swagger/*",
		http.MethodGet + " /api/ping",
		http.MethodPost + " /api/users",
		http.MethodPost + " /api/users/token",
		http.MethodGet + " /api/users/me",
		http.MethodPatch + " /api/users/me",
		http.MethodGet + " /api/recipes",
		http.MethodPost + " /api/recipes",
		http.MethodGet + " /api/recipes/:id",
		http.MethodPut + " /api/recipes/:id",
		http.MethodPatch + " /api/recipes/:id",
		http.MethodDelete + " /api/recipes/:id",
		http.MethodPost + " /api/recipes/:id/image",
	}
	for _, name := range []string{"tags", "ingredients"} {
		expected = append(expected,
			http.MethodGet+" /api/"+name,
			http.MethodPost+" /api/"+name,
			http.MethodGet+" /api/"+name+"/:id",
			http.MethodPut+" /api/"+name+"/:id",
			http.MethodPatch+" /api/"+name+"/:id",
			http.MethodDelete+" /api/"+name+"/:id",
		)
	}

	for _, k := range expected {
		_, ok := got[k]
		require.True(t, ok, "missing route %s", k)
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = api.HTTPErrorHandler
	Setup(e, testDeps(t))

	for _, target := range []string{"/api/ping", "/api/users/me", "/api/tags", "/api/ingredients", "/api/recipes", "/api/recipes/1"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code, target)
		require.Contains(t, rec.Body.String(), "Authentication credentials were not provided.")
	}
}

func TestRateLimit(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = api.HTTPErrorHandler
	d := testDeps(t)
	d.RateLimit = 1
	Setup(e, d)

	codes := []int{}
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/recipes", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		e.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	require.Equal(t, http.StatusUnauthorized, codes[0])
	require.Contains(t, codes[1:], http.StatusTooManyRequests)
}

func TestMediaServed(t *testing.T) {
	e := echo.New()
	d := testDeps(t)
	require.NoError(t, os.MkdirAll(filepath.Join(d.MediaRoot, "uploads", "recipe"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(d.MediaRoot, "uploads", "recipe", "a.png"), []byte("img"), 0o644))
	Setup(e, d)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/media/uploads/recipe/a.png", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "img", rec.Body.String())
}
