package server

import (
	"net/http"

	"cookieshop/internal/config"
	"cookieshop/internal/handler"
	"cookieshop/internal/middleware"
	"cookieshop/internal/repository"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

type Handlers struct {
	Auth         *handler.AuthHandler
	Cart         *handler.CartHandler
	Category     *handler.CategoryHandler
	Discount     *handler.DiscountHandler
	Notification *handler.NotificationHandler
	Order        *handler.OrderHandler
	Product      *handler.ProductHandler
	User         *handler.UserHandler
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, h Handlers, users repository.UserRepository, rdb *redis.Client, health HealthCheck) {
	e.GET("/healthz", func(c echo.Context) error {
		if health != nil {
			if err := health(c.Request().Context()); err != nil {
				return c.JSON(http.StatusServiceUnavailable, handler.ErrorResponse{Error: "database unavailable", Code: "UNAVAILABLE"})
			}
		}
		return c.JSON(http.StatusOK, handler.SuccessResponse{Message: "ok"})
	})

	//アップロード画像
	e.Static("/images", cfg.UploadDir)

	//全APIでトークンを読む（無くてもよい）
	api := e.Group("/api", middleware.AuthJWT(cfg), middleware.TokenVersionGuard(users))

	authGroup := api.Group("/auth", middleware.NewTokenBucket(cfg.RateLimit, rdb))
	h.Auth.RegisterRoutes(authGroup)

	h.Cart.RegisterRoutes(api)
	h.Category.RegisterRoutes(api)
	h.Discount.RegisterRoutes(api)
	h.Notification.RegisterRoutes(api)
	h.Order.RegisterRoutes(api)
	h.Product.RegisterRoutes(api)
	h.User.RegisterRoutes(api)
}
