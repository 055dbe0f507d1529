package store

import (
	"context"
	"errors"
	"fmt"

	"recipe-app/internal/apperr"
	"recipe-app/internal/database"
	"recipe-app/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const userColumns = `id, email, name, password_hash, is_active, is_staff, is_superuser, created_at`

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	if err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.PasswordHash,
		&u.IsActive,
		&u.IsStaff,
		&u.IsSuperuser,
		&u.CreatedAt,
	); err != nil {
		return nil, err
	}
	return u, nil
}

func GetUserByID(ctx context.Context, db database.Querier, userID int) (*model.User, error) {
	row := db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		userID,
	)
	u, err := scanUser(row)
	if err != nil {
		return nil, wrapErr("GetUserByID", err)
	}
	return u, nil
}

// GetUserByEmail email 需先經過 service.NormalizeEmail
func GetUserByEmail(ctx context.Context, db database.Querier, email string) (*model.User, error) {
	row := db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`,
		email,
	)
	u, err := scanUser(row)
	if err != nil {
		return nil, wrapErr("GetUserByEmail", err)
	}
	return u, nil
}

func CreateUser(ctx context.Context, db database.Querier, u *model.User) (*model.User, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO users (email, name, password_hash, is_active, is_staff, is_superuser)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		u.Email,
		u.Name,
		u.PasswordHash,
		u.IsActive,
		u.IsStaff,
		u.IsSuperuser,
	)
	if err := row.Scan(&u.ID, &u.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, fmt.Errorf("CreateUser: %w", apperr.Validation("email", "user with this email already exists."))
		}
		return nil, wrapErr("CreateUser", err)
	}
	return u, nil
}

// UpdateUser 更新姓名與密碼 hash
func UpdateUser(ctx context.Context, db database.Querier, u *model.User) error {
	tag, err := db.Exec(ctx,
		`UPDATE users SET name = $1, password_hash = $2
		 WHERE id = $3`,
		u.Name,
		u.PasswordHash,
		u.ID,
	)
	if err != nil {
		return wrapErr("UpdateUser", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("UpdateUser: %w", apperr.NotFound())
	}
	return nil
}
