package repository

import (
	"context"

	"cookieshop/internal/domain/model"
)

// ProductIDsがnilでなければ紐付けを置き換える
type CategoryRepository interface {
	List(ctx context.Context) ([]model.Category, error)
	FindByID(ctx context.Context, id int64) (model.Category, error)
	FindByName(ctx context.Context, name string) (model.Category, error)
	ExistingIDs(ctx context.Context, ids []int64) ([]int64, error)

	Create(ctx context.Context, c model.Category) (model.Category, error)
	Update(ctx context.Context, c model.Category) error
	Delete(ctx context.Context, id int64) error
}
