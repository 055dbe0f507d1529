// Package filter 解析列表查詢參數
package filter

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"recipe-app/internal/apperr"
)

// RecipeFilter 食譜列表的過濾條件；nil 代表未指定
type RecipeFilter struct {
	TagIDs        []int
	IngredientIDs []int
}

// LabelFilter 標籤（Tag / Ingredient）列表的過濾條件
type LabelFilter struct {
	InUse bool
}

// ParseIDs 將 "1,2,3" 解析成去重、排序後的整數集合。
// 空字串回傳 nil；空白 token 忽略；非整數或超出 int32 的 token 回傳 VALIDATION 錯誤。
func ParseIDs(param, raw string) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	seen := make(map[int]struct{})
	for _, tok := range strings.Split(raw, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		// id 欄位為 int4，超出範圍同樣視為無效
		id, err := strconv.ParseInt(tok, 10, 32)
		if err != nil {
			return nil, apperr.Validation(param, "A valid integer is required: "+strconv.Quote(tok))
		}
		seen[int(id)] = struct{}{}
	}
	if len(seen) == 0 {
		return nil, nil
	}
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids, nil
}

// ParseRecipeFilter 讀取 tags 與 ingredients 參數，其餘參數忽略
func ParseRecipeFilter(q url.Values) (RecipeFilter, error) {
	var f RecipeFilter
	var err error
	if f.TagIDs, err = ParseIDs("tags", q.Get("tags")); err != nil {
		return RecipeFilter{}, err
	}
	if f.IngredientIDs, err = ParseIDs("ingredients", q.Get("ingredients")); err != nil {
		return RecipeFilter{}, err
	}
	return f, nil
}

// ParseLabelFilter 讀取 in_use 參數：未帶或 0 不過濾，非 0 整數只取被食譜使用中的標籤
func ParseLabelFilter(q url.Values) (LabelFilter, error) {
	if !q.Has("in_use") {
		return LabelFilter{}, nil
	}
	raw := strings.TrimSpace(q.Get("in_use"))
	n, err := strconv.Atoi(raw)
	if err != nil {
		return LabelFilter{}, apperr.Validation("in_use", "A valid integer is required.")
	}
	return LabelFilter{InUse: n != 0}, nil
}
