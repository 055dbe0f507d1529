// File: internal/service/user.go
package service

import (
	"net/mail"
	"strings"

	"recipe-app/internal/apperr"
	"recipe-app/internal/model"
)

// UserOption 設定 NewUser 的額外欄位
type UserOption func(*model.User)

func WithName(name string) UserOption {
	return func(u *model.User) { u.Name = strings.TrimSpace(name) }
}

func WithStaff() UserOption {
	return func(u *model.User) { u.IsStaff = true }
}

// NormalizeEmail 只將 domain 轉小寫，local part 保持原樣
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}

// NewUser 正規化 email、雜湊密碼並建立尚未寫入的使用者
func NewUser(email, password string, opts ...UserOption) (*model.User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, apperr.Validation("email", "Users must have an email address.")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return nil, apperr.Validation("email", "Enter a valid email address.")
	}
	if password == "" {
		return nil, apperr.Validation("password", "This field may not be blank.")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	u := &model.User{
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u, nil
}

// NewSuperuser 同 NewUser 並設定 is_staff 與 is_superuser
func NewSuperuser(email, password string) (*model.User, error) {
	u, err := NewUser(email, password, WithStaff())
	if err != nil {
		return nil, err
	}
	u.IsSuperuser = true
	return u, nil
}

// CheckPassword 以 bcrypt 比對，時間不隨內容變化
func CheckPassword(u model.User, plain string) bool {
	return u.PasswordHash != "" && ComparePassword(u.PasswordHash, plain) == nil
}
