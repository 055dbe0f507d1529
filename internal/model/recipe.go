// File: internal/model/recipe.go
package model

// Recipe 食譜；Tags / Ingredients 只存 id，擁有者必須與 UserID 相同
type Recipe struct {
	ID            int     `db:"id" json:"id"`
	UserID        int     `db:"user_id" json:"-"`
	Title         string  `db:"title" json:"title"`
	TimeMinutes   int     `db:"time_minutes" json:"time_minutes"`
	Price         string  `db:"price" json:"price"`
	Link          string  `db:"link" json:"link"`
	Image         *string `db:"image" json:"image"`
	TagIDs        []int   `db:"tag_ids" json:"tags"`
	IngredientIDs []int   `db:"ingredient_ids" json:"ingredients"`
}

func (r Recipe) String() string { return r.Title }

// RecipeDetail 附帶完整 Tag / Ingredient 的食譜
type RecipeDetail struct {
	Recipe
	Tags        []Tag
	Ingredients []Ingredient
}
