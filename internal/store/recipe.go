package store

import (
	"context"
	"math"
	"strings"
	"unicode/utf8"

	"recipe-app/internal/apperr"
	"recipe-app/internal/database"
	"recipe-app/internal/filter"
	"recipe-app/internal/model"

	"github.com/jackc/pgx/v5"
)

// RecipeInput 食譜寫入欄位；nil 代表未提供
type RecipeInput struct {
	Title         *string
	TimeMinutes   *int
	Price         *string
	Link          *string
	TagIDs        *[]int
	IngredientIDs *[]int
}

const recipeSelect = `SELECT r.id, r.user_id, r.title, r.time_minutes, r.price::text, r.link, r.image,
	ARRAY(SELECT j.tag_id FROM recipe_tags j WHERE j.recipe_id = r.id ORDER BY j.tag_id),
	ARRAY(SELECT j.ingredient_id FROM recipe_ingredients j WHERE j.recipe_id = r.id ORDER BY j.ingredient_id)
	FROM recipes r `

func scanRecipe(row pgx.Row) (*model.Recipe, error) {
	r := &model.Recipe{}
	if err := row.Scan(
		&r.ID,
		&r.UserID,
		&r.Title,
		&r.TimeMinutes,
		&r.Price,
		&r.Link,
		&r.Image,
		&r.TagIDs,
		&r.IngredientIDs,
	); err != nil {
		return nil, err
	}
	return r, nil
}

// validPrice 符合 NUMERIC(5,2)：最多三位整數、兩位小數、不可為負
func validPrice(p string) bool {
	whole, frac, hasDot := strings.Cut(strings.TrimSpace(p), ".")
	if whole == "" || len(whole) > 3 || len(frac) > 2 || (hasDot && frac == "") {
		return false
	}
	for _, part := range []string{whole, frac} {
		for _, c := range part {
			if c < '0' || c > '9' {
				return false
			}
		}
	}
	return true
}

// validate full=true 時 title / time_minutes / price 必填（POST、PUT），否則只檢查有提供的欄位（PATCH）
func (in RecipeInput) validate(full bool) error {
	if full {
		switch {
		case in.Title == nil:
			return apperr.Validation("title", "This field is required.")
		case in.TimeMinutes == nil:
			return apperr.Validation("time_minutes", "This field is required.")
		case in.Price == nil:
			return apperr.Validation("price", "This field is required.")
		}
	}
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return apperr.Validation("title", "This field may not be blank.")
		}
		if utf8.RuneCountInString(*in.Title) > maxNameLength {
			return apperr.Validation("title", "Ensure this field has no more than 255 characters.")
		}
	}
	if in.TimeMinutes != nil && *in.TimeMinutes < 0 {
		return apperr.Validation("time_minutes", "Ensure this value is greater than or equal to 0.")
	}
	if in.TimeMinutes != nil && *in.TimeMinutes > math.MaxInt32 {
		return apperr.Validation("time_minutes", "Ensure this value is less than or equal to 2147483647.")
	}
	if in.Price != nil && !validPrice(*in.Price) {
		return apperr.Validation("price", "A valid number is required.")
	}
	if in.Link != nil && utf8.RuneCountInString(*in.Link) > maxNameLength {
		return apperr.Validation("link", "Ensure this field has no more than 255 characters.")
	}
	return nil
}

// checkRefs 驗證提供的 tag / ingredient id 全部屬於 userID，回傳去重後的集合
func (in RecipeInput) checkRefs(ctx context.Context, db database.Querier, userID int) (tags, ingredients []int, err error) {
	if in.TagIDs != nil {
		tags = uniqueIDs(*in.TagIDs)
		if err := checkOwned(ctx, db, Tags, userID, tags); err != nil {
			return nil, nil, err
		}
	}
	if in.IngredientIDs != nil {
		ingredients = uniqueIDs(*in.IngredientIDs)
		if err := checkOwned(ctx, db, Ingredients, userID, ingredients); err != nil {
			return nil, nil, err
		}
	}
	return tags, ingredients, nil
}

// ListRecipes 列出 userID 的食譜，依 id 遞減。
// TagIDs / IngredientIDs 各自為「至少引用其一」，兩者同時存在時取交集；EXISTS 保證不重複。
func ListRecipes(ctx context.Context, db database.Querier, userID int, f filter.RecipeFilter) ([]model.Recipe, error) {
	s := ownedBy("r", userID)
	if f.TagIDs != nil {
		s.and(`EXISTS (SELECT 1 FROM recipe_tags ft WHERE ft.recipe_id = r.id AND ft.tag_id = ANY(%s::int[]))`, f.TagIDs)
	}
	if f.IngredientIDs != nil {
		s.and(`EXISTS (SELECT 1 FROM recipe_ingredients fi WHERE fi.recipe_id = r.id AND fi.ingredient_id = ANY(%s::int[]))`, f.IngredientIDs)
	}
	rows, err := db.Query(ctx, recipeSelect+s.where()+` ORDER BY r.id DESC`, s.args...)
	if err != nil {
		return nil, wrapErr("ListRecipes", err)
	}
	defer rows.Close()

	recipes := []model.Recipe{}
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, wrapErr("ListRecipes", err)
		}
		recipes = append(recipes, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("ListRecipes", err)
	}
	return recipes, nil
}

func getRecipe(ctx context.Context, db database.Querier, userID, id int, lock bool) (*model.Recipe, error) {
	s := ownedBy("r", userID).and("r.id = %s", id)
	sql := recipeSelect + s.where()
	if lock {
		sql += ` FOR UPDATE OF r`
	}
	return scanRecipe(db.QueryRow(ctx, sql, s.args...))
}

func GetRecipe(ctx context.Context, db database.Querier, userID, id int) (*model.Recipe, error) {
	r, err := getRecipe(ctx, db, userID, id, false)
	if err != nil {
		return nil, wrapErr("GetRecipe", err)
	}
	return r, nil
}

// GetRecipeDetail 取得食譜並展開 Tag / Ingredient
func GetRecipeDetail(ctx context.Context, db database.Querier, userID, id int) (*model.RecipeDetail, error) {
	r, err := getRecipe(ctx, db, userID, id, false)
	if err != nil {
		return nil, wrapErr("GetRecipeDetail", err)
	}
	d := &model.RecipeDetail{Recipe: *r}
	if d.Tags, err = recipeLabels(ctx, db, Tags, userID, id); err != nil {
		return nil, wrapErr("GetRecipeDetail", err)
	}
	if d.Ingredients, err = recipeLabels(ctx, db, Ingredients, userID, id); err != nil {
		return nil, wrapErr("GetRecipeDetail", err)
	}
	return d, nil
}

// CreateRecipe 在單一 transaction 內驗證引用並寫入；任一引用不屬於 userID 即不寫入
func CreateRecipe(ctx context.Context, db database.DB, userID int, in RecipeInput) (*model.Recipe, error) {
	if err := in.validate(true); err != nil {
		return nil, err
	}
	link := ""
	if in.Link != nil {
		link = *in.Link
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return nil, wrapErr("CreateRecipe", err)
	}
	defer tx.Rollback(ctx)

	tags, ingredients, err := in.checkRefs(ctx, tx, userID)
	if err != nil {
		return nil, wrapErr("CreateRecipe", err)
	}

	var id int
	if err := tx.QueryRow(ctx,
		`INSERT INTO recipes (user_id, title, time_minutes, price, link)
		 VALUES ($1, $2, $3, $4::numeric, $5)
		 RETURNING id`,
		userID, strings.TrimSpace(*in.Title), *in.TimeMinutes, strings.TrimSpace(*in.Price), link,
	).Scan(&id); err != nil {
		return nil, wrapErr("CreateRecipe", err)
	}
	if err := replaceLinks(ctx, tx, Tags, id, tags); err != nil {
		return nil, wrapErr("CreateRecipe", err)
	}
	if err := replaceLinks(ctx, tx, Ingredients, id, ingredients); err != nil {
		return nil, wrapErr("CreateRecipe", err)
	}

	r, err := getRecipe(ctx, tx, userID, id, false)
	if err != nil {
		return nil, wrapErr("CreateRecipe", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, wrapErr("CreateRecipe", err)
	}
	return r, nil
}

// UpdateRecipe full=true 為 PUT（必填欄位需齊全），否則為 PATCH。
// 有提供的 id 列表會取代原關聯；未提供則保留。
func UpdateRecipe(ctx context.Context, db database.DB, userID, id int, in RecipeInput, full bool) (*model.Recipe, error) {
	if err := in.validate(full); err != nil {
		return nil, err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return nil, wrapErr("UpdateRecipe", err)
	}
	defer tx.Rollback(ctx)

	cur, err := getRecipe(ctx, tx, userID, id, true)
	if err != nil {
		return nil, wrapErr("UpdateRecipe", err)
	}
	tags, ingredients, err := in.checkRefs(ctx, tx, userID)
	if err != nil {
		return nil, wrapErr("UpdateRecipe", err)
	}

	if in.Title != nil {
		cur.Title = strings.TrimSpace(*in.Title)
	}
	if in.TimeMinutes != nil {
		cur.TimeMinutes = *in.TimeMinutes
	}
	if in.Price != nil {
		cur.Price = strings.TrimSpace(*in.Price)
	}
	if in.Link != nil {
		cur.Link = *in.Link
	} else if full {
		cur.Link = ""
	}

	s := ownedBy("r", userID).and("r.id = %s", id)
	sql := `UPDATE recipes r SET title = ` + s.arg(cur.Title) +
		`, time_minutes = ` + s.arg(cur.TimeMinutes) +
		`, price = ` + s.arg(cur.Price) + `::numeric` +
		`, link = ` + s.arg(cur.Link) + ` ` + s.where()
	if _, err := tx.Exec(ctx, sql, s.args...); err != nil {
		return nil, wrapErr("UpdateRecipe", err)
	}
	if in.TagIDs != nil {
		if err := replaceLinks(ctx, tx, Tags, id, tags); err != nil {
			return nil, wrapErr("UpdateRecipe", err)
		}
	}
	if in.IngredientIDs != nil {
		if err := replaceLinks(ctx, tx, Ingredients, id, ingredients); err != nil {
			return nil, wrapErr("UpdateRecipe", err)
		}
	}

	r, err := getRecipe(ctx, tx, userID, id, false)
	if err != nil {
		return nil, wrapErr("UpdateRecipe", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, wrapErr("UpdateRecipe", err)
	}
	return r, nil
}

// SetRecipeImage 記錄新圖片路徑（nil 為清除），回傳被取代的舊路徑
func SetRecipeImage(ctx context.Context, db database.DB, userID, id int, path *string) (*string, error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return nil, wrapErr("SetRecipeImage", err)
	}
	defer tx.Rollback(ctx)

	cur, err := getRecipe(ctx, tx, userID, id, true)
	if err != nil {
		return nil, wrapErr("SetRecipeImage", err)
	}
	s := ownedBy("r", userID).and("r.id = %s", id)
	if _, err := tx.Exec(ctx, `UPDATE recipes r SET image = `+s.arg(path)+` `+s.where(), s.args...); err != nil {
		return nil, wrapErr("SetRecipeImage", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, wrapErr("SetRecipeImage", err)
	}
	return cur.Image, nil
}

// DeleteRecipe 刪除食譜並回傳其圖片路徑，呼叫端負責釋放檔案
func DeleteRecipe(ctx context.Context, db database.Querier, userID, id int) (*string, error) {
	s := ownedBy("r", userID).and("r.id = %s", id)
	var image *string
	if err := db.QueryRow(ctx, `DELETE FROM recipes r `+s.where()+` RETURNING r.image`, s.args...).Scan(&image); err != nil {
		return nil, wrapErr("DeleteRecipe", err)
	}
	return image, nil
}
