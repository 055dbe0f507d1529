// File: internal/api/recipe.go
package api

import (
	"bytes"
	"encoding/json"
	"fmt"

	"recipe-app/internal/model"
	"recipe-app/internal/store"
)

// Decimal 接受 JSON 字串或數字，例如 "5.00" 或 5.0
type Decimal string

func (d *Decimal) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*d = Decimal(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("price: %w", err)
	}
	*d = Decimal(n.String())
	return nil
}

// RecipeRequest 建立 / 更新食譜；PATCH 只套用有提供的欄位
// swagger:model api.RecipeRequest
type RecipeRequest struct {
	Title       *string  `json:"title" validate:"omitempty,max=255" example:"Thai curry"`
	TimeMinutes *int     `json:"time_minutes" validate:"omitempty,gte=0" example:"30"`
	Price       *Decimal `json:"price" swaggertype:"string" example:"5.00"`
	Link        *string  `json:"link" validate:"omitempty,max=255" example:"https://example.com/curry"`
	Tags        *[]int   `json:"tags" example:"1,2"`
	Ingredients *[]int   `json:"ingredients" example:"3"`
}

func (r RecipeRequest) Input() store.RecipeInput {
	in := store.RecipeInput{
		Title:         r.Title,
		TimeMinutes:   r.TimeMinutes,
		Link:          r.Link,
		TagIDs:        r.Tags,
		IngredientIDs: r.Ingredients,
	}
	if r.Price != nil {
		p := string(*r.Price)
		in.Price = &p
	}
	return in
}

// swagger:model api.RecipeResponse
type RecipeResponse struct {
	ID          int    `json:"id" example:"1"`
	Title       string `json:"title" example:"Thai curry"`
	TimeMinutes int    `json:"time_minutes" example:"30"`
	Price       string `json:"price" example:"5.00"`
	Link        string `json:"link" example:""`
	Tags        []int  `json:"tags"`
	Ingredients []int  `json:"ingredients"`
}

// swagger:model api.RecipeDetailResponse
type RecipeDetailResponse struct {
	ID          int             `json:"id" example:"1"`
	Title       string          `json:"title" example:"Thai curry"`
	TimeMinutes int             `json:"time_minutes" example:"30"`
	Price       string          `json:"price" example:"5.00"`
	Link        string          `json:"link" example:""`
	Image       *string         `json:"image" example:"/media/uploads/recipe/thai-curry.png"`
	Tags        []LabelResponse `json:"tags"`
	Ingredients []LabelResponse `json:"ingredients"`
}

// swagger:model api.RecipeImageResponse
type RecipeImageResponse struct {
	ID    int    `json:"id" example:"1"`
	Image string `json:"image" example:"/media/uploads/recipe/thai-curry.png"`
}

func ids(v []int) []int {
	if v == nil {
		return []int{}
	}
	return v
}

func NewRecipeResponse(r model.Recipe) RecipeResponse {
	return RecipeResponse{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price,
		Link:        r.Link,
		Tags:        ids(r.TagIDs),
		Ingredients: ids(r.IngredientIDs),
	}
}

func NewRecipeList(rs []model.Recipe) []RecipeResponse {
	out := make([]RecipeResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, NewRecipeResponse(r))
	}
	return out
}

// NewRecipeDetailResponse url 將儲存路徑轉為對外網址
func NewRecipeDetailResponse(d model.RecipeDetail, url func(string) string) RecipeDetailResponse {
	resp := RecipeDetailResponse{
		ID:          d.ID,
		Title:       d.Title,
		TimeMinutes: d.TimeMinutes,
		Price:       d.Price,
		Link:        d.Link,
		Tags:        NewLabelList(d.Tags),
		Ingredients: NewLabelList(d.Ingredients),
	}
	if d.Image != nil && *d.Image != "" {
		u := url(*d.Image)
		resp.Image = &u
	}
	return resp
}
