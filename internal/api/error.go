// File: internal/api/error.go
package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"recipe-app/internal/apperr"

	"github.com/labstack/echo/v4"
)

// ErrorResponse 錯誤回應
// swagger:model api.ErrorResponse
type ErrorResponse struct {
	Message string `json:"message" example:"not found"`
	Field   string `json:"field,omitempty" example:"name"`
}

// Render 將錯誤轉為 HTTP 狀態碼與回應內容；內部錯誤不外洩原因
func Render(err error) (int, ErrorResponse) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		switch ae.Code {
		case apperr.CodeValidation:
			return http.StatusBadRequest, ErrorResponse{Message: ae.Message, Field: ae.Field}
		case apperr.CodeNotFound:
			return http.StatusNotFound, ErrorResponse{Message: ae.Message}
		case apperr.CodeUnauthorized:
			return http.StatusUnauthorized, ErrorResponse{Message: ae.Message}
		}
		return http.StatusInternalServerError, ErrorResponse{Message: "internal server error"}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			return he.Code, ErrorResponse{Message: "internal server error"}
		}
		msg := http.StatusText(he.Code)
		if he.Message != nil {
			msg = fmt.Sprint(he.Message)
		}
		return he.Code, ErrorResponse{Message: msg}
	}
	return http.StatusInternalServerError, ErrorResponse{Message: "internal server error"}
}

// WriteError 輸出錯誤 JSON，5xx 記錄完整原因
func WriteError(c echo.Context, err error) error {
	status, body := Render(err)
	if status >= http.StatusInternalServerError {
		slog.Default().Error("request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"error", err,
		)
	}
	return c.JSON(status, body)
}

// HTTPErrorHandler 讓中介層與路由錯誤使用相同格式
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if werr := WriteError(c, err); werr != nil {
		slog.Default().Error("write error response", "error", werr)
	}
}
