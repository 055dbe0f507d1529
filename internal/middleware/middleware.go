package middleware

import (
	"strings"

	"recipe-app/internal/apperr"
	"recipe-app/internal/database"
	"recipe-app/internal/service"
	"recipe-app/internal/store"

	"github.com/labstack/echo/v4"
)

const ContextUserKey = "user"

var (
	verifyAccessToken = service.VerifyAccessToken
	getUserByID       = store.GetUserByID
)

func extractClaims(c echo.Context) (*service.CustomClaims, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return nil, apperr.Unauthorized("Authentication credentials were not provided.")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return nil, apperr.Unauthorized("invalid authorization header format")
	}
	claims, err := verifyAccessToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, &apperr.Error{Code: apperr.CodeUnauthorized, Message: "invalid token", Cause: err}
	}
	return claims, nil
}

// RequireAuth 驗證 Bearer JWT，成功後將 claims 放入 context
func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := extractClaims(c)
		if err != nil {
			return err
		}
		c.Set(ContextUserKey, claims)
		return next(c)
	}
}

// RequireActiveUser 在 RequireAuth 之後重新讀取使用者，已刪除或停用的帳號即使 token 未過期也拒絕
func RequireActiveUser(db database.Querier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return RequireAuth(func(c echo.Context) error {
			claims := c.Get(ContextUserKey).(*service.CustomClaims)
			u, err := getUserByID(c.Request().Context(), db, claims.UserID)
			if apperr.Is(err, apperr.CodeNotFound) || (err == nil && !u.IsActive) {
				return apperr.Unauthorized("User inactive or deleted.")
			}
			if err != nil {
				return err
			}
			return next(c)
		})
	}
}

// ActingUserID 取得目前請求的使用者 ID，未經 RequireAuth 時回傳 Unauthorized
func ActingUserID(c echo.Context) (int, error) {
	claims, ok := c.Get(ContextUserKey).(*service.CustomClaims)
	if !ok || claims == nil || claims.UserID == 0 {
		return 0, apperr.Unauthorized("Authentication credentials were not provided.")
	}
	return claims.UserID, nil
}
