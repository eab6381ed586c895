package usecase

import (
	"context"
	"errors"

	"cookieshop/internal/domain/model"
	repo "cookieshop/internal/repository"

	"github.com/shopspring/decimal"
)

type CartUsecase struct {
	tx repo.TransactionManager
}

func NewCartUsecase(tx repo.TransactionManager) *CartUsecase {
	return &CartUsecase{tx: tx}
}

type CartItemOutput struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type CartOutput struct {
	ID         int64            `json:"id"`
	UserID     int64            `json:"user_id"`
	TotalPrice decimal.Decimal  `json:"total_price"`
	Items      []CartItemOutput `json:"cart_items"`
}

// カート取得（無ければ空で作る）
func (u *CartUsecase) GetCart(ctx context.Context, p model.Principal) (CartOutput, error) {
	var out CartOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().GetOrCreateByUserID(ctx, p.UserID)
		if err != nil {
			return dbError()
		}
		items, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return dbError()
		}
		out = toCartOutput(cart, items)
		return nil
	})
	if err != nil {
		return CartOutput{}, err
	}
	return out, nil
}

// 同じ商品なら数量を足す（価格スナップショットは最初のまま）
func (u *CartUsecase) AddItem(ctx context.Context, p model.Principal, productID int64, qty int64) (CartOutput, error) {
	if qty < 1 {
		return CartOutput{}, invalidArgument("quantity must be at least 1")
	}

	var out CartOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		product, err := r.Products().FindByID(ctx, productID)
		if err != nil {
			return fromRepo(err, "product not found")
		}

		cart, err := r.Carts().GetOrCreateByUserID(ctx, p.UserID)
		if err != nil {
			return dbError()
		}

		existing, err := r.CartItems().FindByCartAndProduct(ctx, cart.ID, productID)
		switch {
		case err == nil:
			if err := r.CartItems().UpdateQuantity(ctx, existing.ID, existing.Quantity+qty); err != nil {
				return dbError()
			}
		case errors.Is(err, repo.ErrNotFound):
			if _, err := r.CartItems().Create(ctx, model.CartItem{
				CartID:    cart.ID,
				ProductID: productID,
				Quantity:  qty,
				Price:     product.Price,
			}); err != nil {
				return dbError()
			}
		default:
			return dbError()
		}

		out, err = recalc(ctx, r, cart)
		return err
	})
	if err != nil {
		return CartOutput{}, err
	}
	return out, nil
}

// 数量を上書き
func (u *CartUsecase) UpdateItem(ctx context.Context, p model.Principal, productID int64, qty int64) (CartOutput, error) {
	if qty < 1 {
		return CartOutput{}, invalidArgument("quantity must be at least 1")
	}

	var out CartOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, item, err := findLine(ctx, r, p.UserID, productID)
		if err != nil {
			return err
		}
		if err := r.CartItems().UpdateQuantity(ctx, item.ID, qty); err != nil {
			return fromRepo(err, "product not found in cart")
		}
		out, err = recalc(ctx, r, cart)
		return err
	})
	if err != nil {
		return CartOutput{}, err
	}
	return out, nil
}

func (u *CartUsecase) RemoveItem(ctx context.Context, p model.Principal, productID int64) (CartOutput, error) {
	var out CartOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, item, err := findLine(ctx, r, p.UserID, productID)
		if err != nil {
			return err
		}
		if err := r.CartItems().DeleteByID(ctx, item.ID); err != nil {
			return fromRepo(err, "product not found in cart")
		}
		out, err = recalc(ctx, r, cart)
		return err
	})
	if err != nil {
		return CartOutput{}, err
	}
	return out, nil
}

func findLine(ctx context.Context, r repo.TxRepos, userID int64, productID int64) (model.Cart, model.CartItem, error) {
	cart, err := r.Carts().FindByUserID(ctx, userID)
	if err != nil {
		return model.Cart{}, model.CartItem{}, fromRepo(err, "cart not found")
	}
	item, err := r.CartItems().FindByCartAndProduct(ctx, cart.ID, productID)
	if err != nil {
		return model.Cart{}, model.CartItem{}, fromRepo(err, "product not found in cart")
	}
	return cart, item, nil
}

// 明細から合計を計算し直して保存
func recalc(ctx context.Context, r repo.TxRepos, cart model.Cart) (CartOutput, error) {
	items, err := r.CartItems().ListByCartID(ctx, cart.ID)
	if err != nil {
		return CartOutput{}, dbError()
	}
	cart.TotalPrice = model.CartTotal(items)
	if err := r.Carts().UpdateTotal(ctx, cart.ID, cart.TotalPrice); err != nil {
		return CartOutput{}, dbError()
	}
	return toCartOutput(cart, items), nil
}

func toCartOutput(c model.Cart, items []model.CartItem) CartOutput {
	outItems := make([]CartItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, CartItemOutput{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}
	return CartOutput{
		ID:         c.ID,
		UserID:     c.UserID,
		TotalPrice: c.TotalPrice,
		Items:      outItems,
	}
}
