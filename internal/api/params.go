// File: internal/api/params.go
package api

import (
	"strconv"

	"recipe-app/internal/apperr"

	"github.com/labstack/echo/v4"
)

// PathID 解析路徑中的 :id；非正整數或超出 int32 視為找不到
func PathID(c echo.Context) (int, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil || id <= 0 {
		return 0, apperr.NotFound()
	}
	return int(id), nil
}
