package recipes

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"recipe-app/internal/api"
	"recipe-app/internal/apperr"
	"recipe-app/internal/database"
	"recipe-app/internal/metrics"
	"recipe-app/internal/middleware"
	"recipe-app/internal/storage"
	"recipe-app/internal/worker"

	"github.com/labstack/echo/v4"
)

var recipeImagePath = storage.RecipeImagePath

// @Summary     Upload a recipe image
// @Description multipart 欄位 image，僅接受 png / jpeg / gif；成功後舊圖片於背景刪除
// @Tags        recipes
// @Accept      multipart/form-data
// @Produce     json
// @Param       id    path     int  true "Recipe ID"
// @Param       image formData file true "圖片檔"
// @Success     200   {object} api.RecipeImageResponse
// @Failure     400   {object} api.ErrorResponse
// @Failure     401   {object} api.ErrorResponse
// @Failure     404   {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /recipes/{id}/image [post]
func UploadImageHandler(db database.DB, files storage.FileStore, pool worker.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := middleware.ActingUserID(c)
		if err != nil {
			return api.WriteError(c, err)
		}
		id, err := api.PathID(c)
		if err != nil {
			return api.WriteError(c, err)
		}

		ctx := c.Request().Context()
		recipe, err := getRecipe(ctx, db, userID, id)
		if err != nil {
			return api.WriteError(c, err)
		}

		data, err := readUpload(c)
		if err != nil {
			return api.WriteError(c, err)
		}
		ext, err := storage.DetectImage(data)
		if err != nil {
			return api.WriteError(c, err)
		}

		path := recipeImagePath(recipe.Title, ext)
		if err := files.Save(ctx, path, bytes.NewReader(data)); err != nil {
			return api.WriteError(c, apperr.Internal(err))
		}
		old, err := setRecipeImage(ctx, db, userID, id, &path)
		if err != nil {
			releaseFile(pool, files, path)
			return api.WriteError(c, err)
		}
		metrics.ImagesStored.Inc()
		if old != nil && *old != "" && *old != path {
			releaseFile(pool, files, *old)
		}
		return c.JSON(http.StatusOK, api.RecipeImageResponse{ID: id, Image: files.URL(path)})
	}
}

func readUpload(c echo.Context) ([]byte, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, apperr.Validation("image", "No file was submitted.")
		}
		return nil, apperr.Validation("image", "The submitted data was not a file.")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, storage.MaxImageSize+1))
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return data, nil
}

// releaseFile 於背景刪除檔案；pool 已停止時只記錄
func releaseFile(pool worker.Pool, files storage.FileStore, path string) {
	err := pool.Submit("release "+path, func(ctx context.Context) error {
		if err := files.Delete(ctx, path); err != nil {
			metrics.FilesReleased.WithLabelValues("error").Inc()
			return err
		}
		metrics.FilesReleased.WithLabelValues("ok").Inc()
		return nil
	})
	if err != nil {
		slog.Default().Warn("file release not scheduled", "path", path, "error", err)
	}
}
