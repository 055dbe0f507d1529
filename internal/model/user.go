// File: internal/model/user.go
package model

import "time"

// User 以 email 作為唯一識別的使用者
type User struct {
	ID           int       `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Name         string    `db:"name" json:"name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	IsStaff      bool      `db:"is_staff" json:"is_staff"`
	IsSuperuser  bool      `db:"is_superuser" json:"is_superuser"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
