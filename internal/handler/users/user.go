package users

import (
	"net/http"
	"time"

	"recipe-app/internal/api"
	"recipe-app/internal/apperr"
	"recipe-app/internal/database"
	"recipe-app/internal/middleware"
	"recipe-app/internal/service"
	"recipe-app/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	newUser          = service.NewUser
	hashPassword     = service.HashPassword
	authenticateUser = service.AuthenticateUser
	issueAccessToken = service.IssueAccessToken
	createUser       = store.CreateUser
	getUserByID      = store.GetUserByID
	getUserByEmail   = store.GetUserByEmail
	updateUser       = store.UpdateUser
)

const badCredentials = "Unable to authenticate with provided credentials."

// @Summary     Register a new user
// @Description 建立新帳號；email 的 domain 會轉為小寫
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       body body     api.CreateUserRequest true "使用者資料"
// @Success     201  {object} api.UserResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /users [post]
func CreateUserHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.CreateUserRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return api.WriteError(c, err)
		}

		u, err := newUser(req.Email, req.Password, service.WithName(req.Name))
		if err != nil {
			return api.WriteError(c, err)
		}
		created, err := createUser(c.Request().Context(), db, u)
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusCreated, api.NewUserResponse(created))
	}
}

// @Summary     Obtain an access token
// @Description 以 email 與密碼換取 JWT
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       body body     api.TokenRequest true "登入資料"
// @Success     200  {object} api.TokenResponse
// @Failure     400  {object} api.ErrorResponse "帳密錯誤或帳號停用"
// @Failure     500  {object} api.ErrorResponse
// @Router      /users/token [post]
func TokenHandler(db database.DB, ttl time.Duration) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.TokenRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return api.WriteError(c, err)
		}

		ctx := c.Request().Context()
		user, err := getUserByEmail(ctx, db, service.NormalizeEmail(req.Email))
		if err != nil {
			if apperr.Is(err, apperr.CodeNotFound) {
				return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: badCredentials})
			}
			return api.WriteError(c, err)
		}
		if err := authenticateUser(ctx, *user, req.Password); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: badCredentials})
		}

		token, err := issueAccessToken(*user, ttl)
		if err != nil {
			return api.WriteError(c, apperr.Internal(err))
		}
		return c.JSON(http.StatusOK, api.TokenResponse{Token: token})
	}
}

// @Summary     Get my profile
// @Tags        users
// @Produce     json
// @Success     200 {object} api.UserResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/me [get]
func GetMeHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := middleware.ActingUserID(c)
		if err != nil {
			return api.WriteError(c, err)
		}
		user, err := getUserByID(c.Request().Context(), db, userID)
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusOK, api.NewUserResponse(user))
	}
}

// @Summary     Update my profile
// @Description 只更新有提供的欄位（name、password）
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       body body     api.UpdateMeRequest true "欲更新的欄位"
// @Success     200  {object} api.UserResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/me [patch]
func UpdateMeHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := middleware.ActingUserID(c)
		if err != nil {
			return api.WriteError(c, err)
		}
		var req api.UpdateMeRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return api.WriteError(c, err)
		}

		ctx := c.Request().Context()
		user, err := getUserByID(ctx, db, userID)
		if err != nil {
			return api.WriteError(c, err)
		}
		if req.Name != nil {
			service.WithName(*req.Name)(user)
		}
		if req.Password != nil {
			hash, err := hashPassword(*req.Password)
			if err != nil {
				return api.WriteError(c, apperr.Internal(err))
			}
			user.PasswordHash = hash
		}
		if err := updateUser(ctx, db, user); err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusOK, api.NewUserResponse(user))
	}
}
