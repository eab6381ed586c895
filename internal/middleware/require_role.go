package middleware

import (
	"net/http"

	"cookieshop/internal/domain/model"

	"github.com/labstack/echo/v4"
)

// Principalが無ければ401
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := PrincipalFrom(c); !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("UNAUTHORIZED", "unauthorized"))
			}
			return next(c)
		}
	}
}

// 指定ロール以外は403（未認証は401）
func RequireRole(role model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("UNAUTHORIZED", "unauthorized"))
			}

			if p.Role != role {
				return c.JSON(http.StatusForbidden, errorJSON("FORBIDDEN", "access denied"))
			}

			return next(c)
		}
	}
}

func AdminOnly() echo.MiddlewareFunc {
	return RequireRole(model.RoleAdmin)
}
