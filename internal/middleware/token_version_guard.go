package middleware

import (
	"errors"
	"net/http"

	"cookieshop/internal/repository"

	"github.com/labstack/echo/v4"
)

// JWTのtvとDBのtoken_versionが一致するか確認。
// 未認証のリクエストは素通し（拒否はRequireAuth）
func TokenVersionGuard(userRepo repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return next(c)
			}

			//DBから最新のuserを取得する（削除済みなら401、DB障害は500）
			user, err := userRepo.FindByID(c.Request().Context(), p.UserID)
			if errors.Is(err, repository.ErrNotFound) || (err == nil && user == nil) {
				return c.JSON(http.StatusUnauthorized, errorJSON("UNAUTHORIZED", "unauthorized"))
			}
			if err != nil {
				c.Logger().Errorf("token version lookup: %v", err)
				return c.JSON(http.StatusInternalServerError, errorJSON("INTERNAL", "internal error"))
			}

			//token_versionが一致しなければ強制ログアウト扱い（401）
			if user.TokenVersion != p.TokenVersion {
				return c.JSON(http.StatusUnauthorized, errorJSON("UNAUTHORIZED", "unauthorized"))
			}

			return next(c)
		}
	}
}
