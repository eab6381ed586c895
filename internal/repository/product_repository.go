package repository

import (
	"context"

	"cookieshop/internal/domain/model"
)

// 一覧検索
type ProductFilter struct {
	CategoryID *int64
	// 名前の部分一致（大文字小文字を区別しない）
	Search string
}

// 商品の永続化（保存・取得）だけを約束。
// CategoryIDsはproduct_categoriesと同期する。
type ProductRepository interface {
	List(ctx context.Context, f ProductFilter) ([]model.Product, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
	// 存在するIDだけを返す
	ExistingIDs(ctx context.Context, ids []int64) ([]int64, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	Delete(ctx context.Context, id int64) error

	// 在庫が足りるときだけ減算
	DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error)
}
