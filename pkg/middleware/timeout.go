package middleware

import (
	"time"

	"tersys/pkg/utils"

	"github.com/labstack/echo/v4"
)

// QueryTimeout ограничивает время обращений к БД в рамках одного запроса.
func QueryTimeout(timeout time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx, cancel := utils.ContextWithTimeout(c, timeout)
			defer cancel()
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
