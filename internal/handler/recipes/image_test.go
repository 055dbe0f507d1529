package recipes

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"recipe-app/internal/apperr"
	"recipe-app/internal/database"
	"recipe-app/internal/middleware"
	"recipe-app/internal/model"
	"recipe-app/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 10, 10))))
	return buf.Bytes()
}

func newUploadCtx(t *testing.T, field string, data []byte) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if field != "" {
		fw, err := w.CreateFormFile(field, "upload.png")
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/recipes/3/image", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/recipes/:id/image")
	c.SetParamNames("id")
	c.SetParamValues("3")
	c.Set(middleware.ContextUserKey, &service.CustomClaims{UserID: 5})
	return c, rec
}

func ownedRecipe(t *testing.T) {
	getRecipe = func(_ context.Context, _ database.Querier, userID, id int) (*model.Recipe, error) {
		require.Equal(t, 5, userID)
		return &model.Recipe{ID: id, UserID: userID, Title: "Thai Curry"}, nil
	}
}

func TestUploadImageHandler(t *testing.T) {
	t.Run("success replaces old image", func(t *testing.T) {
		t.Cleanup(restore)
		ownedRecipe(t)
		recipeImagePath = func(title, ext string) string {
			require.Equal(t, "Thai Curry", title)
			require.Equal(t, "png", ext)
			return "uploads/recipe/thai-curry-1.png"
		}
		old := "uploads/recipe/old.jpg"
		var stored *string
		setRecipeImage = func(_ context.Context, _ database.DB, _, _ int, path *string) (*string, error) {
			stored = path
			return &old, nil
		}
		files := newMemFiles()
		data := pngBytes(t)

		c, rec := newUploadCtx(t, "image", data)
		require.NoError(t, UploadImageHandler(nil, files, &syncPool{})(c))
		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `{"id":3,"image":"/media/uploads/recipe/thai-curry-1.png"}`, rec.Body.String())
		require.Equal(t, "uploads/recipe/thai-curry-1.png", *stored)
		require.Equal(t, data, files.saved["uploads/recipe/thai-curry-1.png"])
		require.Equal(t, []string{old}, files.deleted)
	})

	t.Run("not an image leaves recipe untouched", func(t *testing.T) {
		t.Cleanup(restore)
		ownedRecipe(t)
		setRecipeImage = func(context.Context, database.DB, int, int, *string) (*string, error) {
			t.Fatal("must not update image")
			return nil, nil
		}
		files := newMemFiles()
		c, rec := newUploadCtx(t, "image", []byte("notimage"))
		require.NoError(t, UploadImageHandler(nil, files, &syncPool{})(c))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), `"field":"image"`)
		require.Empty(t, files.saved)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Cleanup(restore)
		ownedRecipe(t)
		c, rec := newUploadCtx(t, "", nil)
		require.NoError(t, UploadImageHandler(nil, newMemFiles(), &syncPool{})(c))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "No file was submitted.")
	})

	t.Run("foreign recipe", func(t *testing.T) {
		t.Cleanup(restore)
		getRecipe = func(context.Context, database.Querier, int, int) (*model.Recipe, error) {
			return nil, apperr.NotFound()
		}
		files := newMemFiles()
		c, rec := newUploadCtx(t, "image", pngBytes(t))
		require.NoError(t, UploadImageHandler(nil, files, &syncPool{})(c))
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Empty(t, files.saved)
	})

	t.Run("save fails", func(t *testing.T) {
		t.Cleanup(restore)
		ownedRecipe(t)
		files := newMemFiles()
		files.saveErr = errors.New("disk full")
		c, rec := newUploadCtx(t, "image", pngBytes(t))
		require.NoError(t, UploadImageHandler(nil, files, &syncPool{})(c))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.NotContains(t, rec.Body.String(), "disk full")
	})

	t.Run("db update fails releases new file", func(t *testing.T) {
		t.Cleanup(restore)
		ownedRecipe(t)
		recipeImagePath = func(string, string) string { return "uploads/recipe/new.png" }
		setRecipeImage = func(context.Context, database.DB, int, int, *string) (*string, error) {
			return nil, errors.New("tx")
		}
		files := newMemFiles()
		c, rec := newUploadCtx(t, "image", pngBytes(t))
		require.NoError(t, UploadImageHandler(nil, files, &syncPool{})(c))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Equal(t, []string{"uploads/recipe/new.png"}, files.deleted)
	})

	t.Run("no previous image", func(t *testing.T) {
		t.Cleanup(restore)
		ownedRecipe(t)
		setRecipeImage = func(context.Context, database.DB, int, int, *string) (*string, error) { return nil, nil }
		files := newMemFiles()
		c, rec := newUploadCtx(t, "image", pngBytes(t))
		require.NoError(t, UploadImageHandler(nil, files, &syncPool{})(c))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Empty(t, files.deleted)
	})
}
