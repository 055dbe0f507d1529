package store

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"recipe-app/internal/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// scope 累積 WHERE 條件與參數；所有條件以 AND 串接
type scope struct {
	conds []string
	args  []any
}

// ownedBy 將查詢限制在 userID 擁有的資料，所有 list / get / update / delete 共用
func ownedBy(alias string, userID int) *scope {
	s := &scope{}
	return s.and(alias+".user_id = %s", userID)
}

// arg 加入參數並回傳其 placeholder
func (s *scope) arg(v any) string {
	s.args = append(s.args, v)
	return fmt.Sprintf("$%d", len(s.args))
}

// and 加入條件；cond 內每個 %s 依序替換為 vals 的 placeholder
func (s *scope) and(cond string, vals ...any) *scope {
	ph := make([]any, len(vals))
	for i, v := range vals {
		ph[i] = s.arg(v)
	}
	s.conds = append(s.conds, fmt.Sprintf(cond, ph...))
	return s
}

func (s *scope) where() string {
	return "WHERE " + strings.Join(s.conds, " AND ")
}

// uniqueIDs 去重並排序
func uniqueIDs(ids []int) []int {
	if len(ids) == 0 {
		return []int{}
	}
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// wrapErr 將 driver 錯誤轉為 apperr 分類並附上操作名稱
func wrapErr(op string, err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, apperr.NotFound())
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%s: %w", op, apperr.Validation(pgErr.ColumnName, "already exists."))
		case pgForeignKeyViolation:
			return fmt.Errorf("%s: %w", op, apperr.Validation(pgErr.ColumnName, "references a missing object."))
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
