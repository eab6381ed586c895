package repository

import (
	"context"

	"cookieshop/internal/domain/model"
)

type OrderItemRepository interface {
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
	FindByIDs(ctx context.Context, ids []int64) ([]model.OrderItem, error)
	DeleteByOrderID(ctx context.Context, orderID int64) error
	ExistsByProductID(ctx context.Context, productID int64) (bool, error)
}
