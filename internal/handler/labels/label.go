// Package labels 提供 tags 與 ingredients 共用的 CRUD handler
package labels

import (
	"net/http"

	"recipe-app/internal/api"
	"recipe-app/internal/apperr"
	"recipe-app/internal/database"
	"recipe-app/internal/filter"
	"recipe-app/internal/middleware"
	"recipe-app/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	listLabels  = store.ListLabels
	createLabel = store.CreateLabel
	getLabel    = store.GetLabel
	updateLabel = store.UpdateLabel
	deleteLabel = store.DeleteLabel
)

// @Summary     List tags or ingredients
// @Description 只列出目前使用者的資料，依名稱遞減排序；in_use 為非 0 整數時只列出被食譜使用者
// @Tags        tags,ingredients
// @Produce     json
// @Param       in_use query    int false "1 = 只列出被使用的項目"
// @Success     200    {array}  api.LabelResponse
// @Failure     400    {object} api.ErrorResponse
// @Failure     401    {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /tags [get]
// @Router      /ingredients [get]
func ListHandler(db database.DB, lt store.LabelTable) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := middleware.ActingUserID(c)
		if err != nil {
			return api.WriteError(c, err)
		}
		f, err := filter.ParseLabelFilter(c.QueryParams())
		if err != nil {
			return api.WriteError(c, err)
		}
		labels, err := listLabels(c.Request().Context(), db, lt, userID, f)
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusOK, api.NewLabelList(labels))
	}
}

// @Summary     Create a tag or ingredient
// @Tags        tags,ingredients
// @Accept      json
// @Produce     json
// @Param       body body     api.LabelRequest true "名稱"
// @Success     201  {object} api.LabelResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /tags [post]
// @Router      /ingredients [post]
func CreateHandler(db database.DB, lt store.LabelTable) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := middleware.ActingUserID(c)
		if err != nil {
			return api.WriteError(c, err)
		}
		var req api.LabelRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if req.Name == nil {
			return api.WriteError(c, apperr.Validation("name", "This field is required."))
		}
		l, err := createLabel(c.Request().Context(), db, lt, userID, *req.Name)
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusCreated, api.NewLabelResponse(*l))
	}
}

// @Summary     Get a tag or ingredient
// @Tags        tags,ingredients
// @Produce     json
// @Param       id  path     int true "ID"
// @Success     200 {object} api.LabelResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /tags/{id} [get]
// @Router      /ingredients/{id} [get]
func GetHandler(db database.DB, lt store.LabelTable) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := middleware.ActingUserID(c)
		if err != nil {
			return api.WriteError(c, err)
		}
		id, err := api.PathID(c)
		if err != nil {
			return api.WriteError(c, err)
		}
		l, err := getLabel(c.Request().Context(), db, lt, userID, id)
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusOK, api.NewLabelResponse(*l))
	}
}

// UpdateHandler full=true 為 PUT，name 必填；PATCH 未提供 name 時回傳原資料
// @Summary     Update a tag or ingredient
// @Tags        tags,ingredients
// @Accept      json
// @Produce     json
// @Param       id   path     int              true "ID"
// @Param       body body     api.LabelRequest true "名稱"
// @Success     200  {object} api.LabelResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     404  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /tags/{id} [put]
// @Router      /tags/{id} [patch]
// @Router      /ingredients/{id} [put]
// @Router      /ingredients/{id} [patch]
func UpdateHandler(db database.DB, lt store.LabelTable, full bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := middleware.ActingUserID(c)
		if err != nil {
			return api.WriteError(c, err)
		}
		id, err := api.PathID(c)
		if err != nil {
			return api.WriteError(c, err)
		}
		var req api.LabelRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}

		ctx := c.Request().Context()
		if req.Name == nil {
			if full {
				return api.WriteError(c, apperr.Validation("name", "This field is required."))
			}
			l, err := getLabel(ctx, db, lt, userID, id)
			if err != nil {
				return api.WriteError(c, err)
			}
			return c.JSON(http.StatusOK, api.NewLabelResponse(*l))
		}
		l, err := updateLabel(ctx, db, lt, userID, id, *req.Name)
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusOK, api.NewLabelResponse(*l))
	}
}

// @Summary     Delete a tag or ingredient
// @Tags        tags,ingredients
// @Param       id  path int true "ID"
// @Success     204
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /tags/{id} [delete]
// @Router      /ingredients/{id} [delete]
func DeleteHandler(db database.DB, lt store.LabelTable) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := middleware.ActingUserID(c)
		if err != nil {
			return api.WriteError(c, err)
		}
		id, err := api.PathID(c)
		if err != nil {
			return api.WriteError(c, err)
		}
		if err := deleteLabel(c.Request().Context(), db, lt, userID, id); err != nil {
			return api.WriteError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}
