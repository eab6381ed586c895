package repository

import (
	"context"

	"cookieshop/internal/domain/model"
)

type DiscountCodeRepository interface {
	Create(ctx context.Context, d model.DiscountCode) (model.DiscountCode, error)
	FindByID(ctx context.Context, id int64) (model.DiscountCode, error)
	FindByCode(ctx context.Context, code string) (model.DiscountCode, error)
	List(ctx context.Context) ([]model.DiscountCode, error)
	Update(ctx context.Context, d model.DiscountCode) error
	Delete(ctx context.Context, id int64) error
}
