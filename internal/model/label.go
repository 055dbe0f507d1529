// File: internal/model/label.go
package model

// Label 為使用者擁有、只有名稱的標籤型資料；Tag 與 Ingredient 共用此形狀
type Label struct {
	ID     int    `db:"id" json:"id"`
	UserID int    `db:"user_id" json:"-"`
	Name   string `db:"name" json:"name"`
}

func (l Label) String() string { return l.Name }

type (
	Tag        = Label
	Ingredient = Label
)
