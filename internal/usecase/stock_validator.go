package usecase

import (
	"context"
	"fmt"

	"cookieshop/internal/domain/model"
	repo "cookieshop/internal/repository"
)

type StockValidator struct{}

func NewStockValidator() *StockValidator {
	return &StockValidator{}
}

func insufficientStock(name string, available int64, requested int64) error {
	return NewError(KindInsufficientStock, fmt.Sprintf(
		"Product '%s' has insufficient stock. Available: %d, requested: %d", name, available, requested))
}

// 全明細の在庫を確認するだけ（更新しない）
func (v *StockValidator) Validate(ctx context.Context, r repo.TxRepos, items []model.CartItem) error {
	for _, it := range items {
		p, err := r.Products().FindByID(ctx, it.ProductID)
		if err != nil {
			return fromRepo(err, fmt.Sprintf("product %d not found", it.ProductID))
		}
		if it.Quantity > p.Stock {
			return insufficientStock(p.Name, p.Stock, it.Quantity)
		}
	}
	return nil
}

// 在庫を減らす（条件付きUPDATEなので同時注文でも負にならない）
func (v *StockValidator) Adjust(ctx context.Context, r repo.TxRepos, items []model.CartItem) error {
	for _, it := range items {
		ok, err := r.Products().DecreaseStockIfEnough(ctx, it.ProductID, it.Quantity)
		if err != nil {
			return dbError()
		}
		if ok {
			continue
		}
		// 確認後に他の注文に取られた
		p, err := r.Products().FindByID(ctx, it.ProductID)
		if err != nil {
			return fromRepo(err, fmt.Sprintf("product %d not found", it.ProductID))
		}
		return insufficientStock(p.Name, p.Stock, it.Quantity)
	}
	return nil
}
