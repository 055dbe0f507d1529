package store

import (
	"context"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"recipe-app/internal/apperr"
	"recipe-app/internal/database"
	"recipe-app/internal/filter"
	"recipe-app/internal/model"

	"github.com/jackc/pgx/v5"
)

const maxNameLength = 255

// LabelTable 描述一種標籤型資料所在的表與其和 recipes 的關聯表
type LabelTable struct {
	Name      string
	Table     string
	JoinTable string
	JoinCol   string
}

var (
	Tags        = LabelTable{Name: "tags", Table: "tags", JoinTable: "recipe_tags", JoinCol: "tag_id"}
	Ingredients = LabelTable{Name: "ingredients", Table: "ingredients", JoinTable: "recipe_ingredients", JoinCol: "ingredient_id"}
)

func (lt LabelTable) selectFrom() string {
	return `SELECT l.id, l.user_id, l.name FROM ` + lt.Table + ` l `
}

// inUse 條件：至少被一筆同一使用者的食譜引用
func (lt LabelTable) inUse() string {
	return `EXISTS (SELECT 1 FROM ` + lt.JoinTable + ` j JOIN recipes r ON r.id = j.recipe_id
		WHERE j.` + lt.JoinCol + ` = l.id AND r.user_id = l.user_id)`
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperr.Validation("name", "This field may not be blank.")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return "", apperr.Validation("name", "Ensure this field has no more than 255 characters.")
	}
	return name, nil
}

func scanLabels(rows pgx.Rows) ([]model.Label, error) {
	defer rows.Close()
	labels := []model.Label{}
	for rows.Next() {
		var l model.Label
		if err := rows.Scan(&l.ID, &l.UserID, &l.Name); err != nil {
			return nil, err
		}
		labels = append(labels, l)
	}
	return labels, rows.Err()
}

// ListLabels 列出 userID 擁有的標籤，依名稱遞減排序
func ListLabels(ctx context.Context, db database.Querier, lt LabelTable, userID int, f filter.LabelFilter) ([]model.Label, error) {
	s := ownedBy("l", userID)
	if f.InUse {
		s.and(lt.inUse())
	}
	rows, err := db.Query(ctx, lt.selectFrom()+s.where()+` ORDER BY l.name DESC, l.id DESC`, s.args...)
	if err != nil {
		return nil, wrapErr("ListLabels", err)
	}
	labels, err := scanLabels(rows)
	if err != nil {
		return nil, wrapErr("ListLabels", err)
	}
	return labels, nil
}

func CreateLabel(ctx context.Context, db database.Querier, lt LabelTable, userID int, name string) (*model.Label, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}
	l := &model.Label{UserID: userID, Name: name}
	row := db.QueryRow(ctx,
		`INSERT INTO `+lt.Table+` (user_id, name) VALUES ($1, $2) RETURNING id`,
		userID, name,
	)
	if err := row.Scan(&l.ID); err != nil {
		return nil, wrapErr("CreateLabel", err)
	}
	return l, nil
}

func GetLabel(ctx context.Context, db database.Querier, lt LabelTable, userID, id int) (*model.Label, error) {
	s := ownedBy("l", userID).and("l.id = %s", id)
	l := &model.Label{}
	if err := db.QueryRow(ctx, lt.selectFrom()+s.where(), s.args...).Scan(&l.ID, &l.UserID, &l.Name); err != nil {
		return nil, wrapErr("GetLabel", err)
	}
	return l, nil
}

func UpdateLabel(ctx context.Context, db database.Querier, lt LabelTable, userID, id int, name string) (*model.Label, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}
	s := ownedBy("l", userID).and("l.id = %s", id)
	sql := `UPDATE ` + lt.Table + ` l SET name = ` + s.arg(name) + ` ` + s.where() + ` RETURNING l.id, l.user_id, l.name`
	l := &model.Label{}
	if err := db.QueryRow(ctx, sql, s.args...).Scan(&l.ID, &l.UserID, &l.Name); err != nil {
		return nil, wrapErr("UpdateLabel", err)
	}
	return l, nil
}

func DeleteLabel(ctx context.Context, db database.Querier, lt LabelTable, userID, id int) error {
	s := ownedBy("l", userID).and("l.id = %s", id)
	tag, err := db.Exec(ctx, `DELETE FROM `+lt.Table+` l `+s.where(), s.args...)
	if err != nil {
		return wrapErr("DeleteLabel", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("DeleteLabel: %w", apperr.NotFound())
	}
	return nil
}

// recipeLabels 取出某食譜關聯的標籤
func recipeLabels(ctx context.Context, db database.Querier, lt LabelTable, userID, recipeID int) ([]model.Label, error) {
	s := ownedBy("l", userID).and("j.recipe_id = %s", recipeID)
	sql := lt.selectFrom() + `JOIN ` + lt.JoinTable + ` j ON j.` + lt.JoinCol + ` = l.id ` + s.where() + ` ORDER BY l.id`
	rows, err := db.Query(ctx, sql, s.args...)
	if err != nil {
		return nil, err
	}
	return scanLabels(rows)
}

// checkOwned 確認 ids 全部屬於 userID；任一不屬於即整筆寫入失敗
func checkOwned(ctx context.Context, db database.Querier, lt LabelTable, userID int, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	for _, id := range ids {
		if id < math.MinInt32 || id > math.MaxInt32 {
			return apperr.Validation(lt.Name, "Invalid pk - object does not exist.")
		}
	}
	s := ownedBy("l", userID).and("l.id = ANY(%s::int[])", ids)
	var n int
	if err := db.QueryRow(ctx, `SELECT count(*) FROM `+lt.Table+` l `+s.where(), s.args...).Scan(&n); err != nil {
		return err
	}
	if n != len(ids) {
		return apperr.Validation(lt.Name, "Invalid pk - object does not exist.")
	}
	return nil
}

// replaceLinks 以 ids 取代食譜的關聯集合
func replaceLinks(ctx context.Context, db database.Querier, lt LabelTable, recipeID int, ids []int) error {
	if _, err := db.Exec(ctx, `DELETE FROM `+lt.JoinTable+` WHERE recipe_id = $1`, recipeID); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	_, err := db.Exec(ctx,
		`INSERT INTO `+lt.JoinTable+` (recipe_id, `+lt.JoinCol+`) SELECT $1, unnest($2::int[])`,
		recipeID, ids,
	)
	return err
}
