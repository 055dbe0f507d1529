// Package recipes 食譜 CRUD 與圖片上傳 handler
package recipes

import (
	"net/http"

	"recipe-app/internal/api"
	"recipe-app/internal/database"
	"recipe-app/internal/filter"
	"recipe-app/internal/middleware"
	"recipe-app/internal/storage"
	"recipe-app/internal/store"
	"recipe-app/internal/worker"

	"github.com/labstack/echo/v4"
)

var (
	listRecipes     = store.ListRecipes
	createRecipe    = store.CreateRecipe
	getRecipe       = store.GetRecipe
	getRecipeDetail = store.GetRecipeDetail
	updateRecipe    = store.UpdateRecipe
	deleteRecipe    = store.DeleteRecipe
	setRecipeImage  = store.SetRecipeImage
)

// @Summary     List recipes
// @Description 依 id 遞減列出目前使用者的食譜；tags / ingredients 為逗號分隔的 id，兩者同時提供時取交集
// @Tags        recipes
// @Produce     json
// @Param       tags        query    string false "例如 1,2"
// @Param       ingredients query    string false "例如 3,4"
// @Success     200         {array}  api.RecipeResponse
// @Failure     400         {object} api.ErrorResponse
// @Failure     401         {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /recipes [get]
func ListHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := middleware.ActingUserID(c)
		if err != nil {
			return api.WriteError(c, err)
		}
		f, err := filter.ParseRecipeFilter(c.QueryParams())
		if err != nil {
			return api.WriteError(c, err)
		}
		recipes, err := listRecipes(c.Request().Context(), db, userID, f)
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusOK, api.NewRecipeList(recipes))
	}
}

// @Summary     Create a recipe
// @Description title、time_minutes、price 必填；tags / ingredients 必須屬於目前使用者
// @Tags        recipes
// @Accept      json
// @Produce     json
// @Param       body body     api.RecipeRequest true "食譜"
// @Success     201  {object} api.RecipeResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /recipes [post]
func CreateHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := middleware.ActingUserID(c)
		if err != nil {
			return api.WriteError(c, err)
		}
		req, ok, err := bindRecipe(c)
		if !ok {
			return err
		}
		r, err := createRecipe(c.Request().Context(), db, userID, req.Input())
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusCreated, api.NewRecipeResponse(*r))
	}
}

// @Summary     Get a recipe
// @Description 回傳完整的 tags、ingredients 與圖片網址
// @Tags        recipes
// @Produce     json
// @Param       id  path     int true "Recipe ID"
// @Success     200 {object} api.RecipeDetailResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /recipes/{id} [get]
func GetHandler(db database.DB, files storage.FileStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := middleware.ActingUserID(c)
		if err != nil {
			return api.WriteError(c, err)
		}
		id, err := api.PathID(c)
		if err != nil {
			return api.WriteError(c, err)
		}
		d, err := getRecipeDetail(c.Request().Context(), db, userID, id)
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusOK, api.NewRecipeDetailResponse(*d, files.URL))
	}
}

// UpdateHandler full=true 為 PUT，否則為 PATCH
// @Summary     Update a recipe
// @Description PUT 取代全部欄位；PATCH 只更新有提供的欄位。提供的 id 列表會取代原有關聯
// @Tags        recipes
// @Accept      json
// @Produce     json
// @Param       id   path     int               true "Recipe ID"
// @Param       body body     api.RecipeRequest true "欲更新的欄位"
// @Success     200  {object} api.RecipeResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     404  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /recipes/{id} [put]
// @Router      /recipes/{id} [patch]
func UpdateHandler(db database.DB, full bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := middleware.ActingUserID(c)
		if err != nil {
			return api.WriteError(c, err)
		}
		id, err := api.PathID(c)
		if err != nil {
			return api.WriteError(c, err)
		}
		req, ok, err := bindRecipe(c)
		if !ok {
			return err
		}
		r, err := updateRecipe(c.Request().Context(), db, userID, id, req.Input(), full)
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusOK, api.NewRecipeResponse(*r))
	}
}

// @Summary     Delete a recipe
// @Tags        recipes
// @Param       id  path int true "Recipe ID"
// @Success     204
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /recipes/{id} [delete]
func DeleteHandler(db database.DB, files storage.FileStore, pool worker.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := middleware.ActingUserID(c)
		if err != nil {
			return api.WriteError(c, err)
		}
		id, err := api.PathID(c)
		if err != nil {
			return api.WriteError(c, err)
		}
		image, err := deleteRecipe(c.Request().Context(), db, userID, id)
		if err != nil {
			return api.WriteError(c, err)
		}
		if image != nil {
			releaseFile(pool, files, *image)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

// bindRecipe ok=false 時已寫出錯誤回應，呼叫端直接回傳 err
func bindRecipe(c echo.Context) (api.RecipeRequest, bool, error) {
	var req api.RecipeRequest
	if err := c.Bind(&req); err != nil {
		return req, false, c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return req, false, api.WriteError(c, err)
	}
	return req, true, nil
}
