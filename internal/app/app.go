package app

import (
	"context"
	"fmt"

	"cookieshop/internal/config"
	"cookieshop/internal/handler"
	"cookieshop/internal/infra/cache"
	"cookieshop/internal/infra/db"
	"cookieshop/internal/infra/queue"
	infraRepo "cookieshop/internal/infra/repository"
	"cookieshop/internal/infra/storage"
	"cookieshop/internal/infra/token"
	"cookieshop/internal/repository"
	"cookieshop/internal/server"
	"cookieshop/internal/usecase"
	auth "cookieshop/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const bcryptCost = 12

// 依存をまとめたもの（serve / CLIで共有）
type App struct {
	Config config.Config
	DB     *gorm.DB
	Redis  *redis.Client

	Users    repository.UserRepository
	Tx       *infraRepo.TxManagerGorm
	Hasher   *auth.BcryptPasswordHasher
	Products *usecase.ProductUsecase
	UserUC   *usecase.UserUsecase
}

// DB接続とusecase生成まで
func New(cfg config.Config) (*App, error) {
	gormDB, err := db.Connect(cfg)
	if err != nil {
		return nil, err
	}

	users := infraRepo.NewUserGormRepository(gormDB)
	tx := infraRepo.NewTxManagerGorm(gormDB)
	hasher := auth.NewBcryptPasswordHasher(bcryptCost)

	return &App{
		Config:   cfg,
		DB:       gormDB,
		Users:    users,
		Tx:       tx,
		Hasher:   hasher,
		Products: usecase.NewProductUsecase(tx, storage.NewLocalImageStore(cfg.UploadDir), cfg.MaxImageBytes),
		UserUC:   usecase.NewUserUsecase(users, hasher),
	}, nil
}

func (a *App) Migrate(ctx context.Context) error {
	if err := db.Migrate(ctx, a.DB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// HTTPサーバー用の部品を組み立てる
func (a *App) Echo() *echo.Echo {
	cfg := a.Config
	clock := usecase.SystemClock{}

	a.Redis = cache.NewRedisClient(cfg.Redis)
	events := queue.NewPublisher(cfg.RabbitMQURL, cfg.OrderEventsQueue)

	orders := usecase.NewOrderUsecase(a.Tx, usecase.NewStockValidator(), events, clock)

	h := server.Handlers{
		Auth: handler.NewAuthHandler(
			auth.NewRegisterUserUsecase(a.Users, a.Hasher),
			auth.NewLoginUsecase(a.Users, auth.NewBcryptPasswordVerifier(), token.NewJWTIssuer(cfg.JWTSecret, cfg.JWTTTL), clock),
		),
		Cart:         handler.NewCartHandler(usecase.NewCartUsecase(a.Tx)),
		Category:     handler.NewCategoryHandler(usecase.NewCategoryUsecase(a.Tx)),
		Discount:     handler.NewDiscountHandler(usecase.NewDiscountUsecase(infraRepo.NewDiscountCodeGormRepository(a.DB), clock)),
		Notification: handler.NewNotificationHandler(usecase.NewNotificationUsecase(a.Tx)),
		Order:        handler.NewOrderHandler(orders),
		Product:      handler.NewProductHandler(a.Products),
		User:         handler.NewUserHandler(a.UserUC, orders),
	}

	return server.New(cfg, h, a.Users, a.Redis, a.ping)
}

func (a *App) ping(ctx context.Context) error {
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (a *App) Close() {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
