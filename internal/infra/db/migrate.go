package db

import (
	"context"

	"cookieshop/internal/domain/model"

	"gorm.io/gorm"
)

// 全テーブル
func Models() []any {
	return []any{
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.ProductCategory{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.DiscountCode{},
		&model.Notification{},
	}
}

func Migrate(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).AutoMigrate(Models()...)
}
