package repository

import (
	"context"

	repo "cookieshop/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	users         repo.UserRepository
	products      repo.ProductRepository
	categories    repo.CategoryRepository
	carts         repo.CartRepository
	cartItems     repo.CartItemRepository
	orders        repo.OrderRepository
	orderItems    repo.OrderItemRepository
	notifications repo.NotificationRepository
}

func (r *txReposGorm) Users() repo.UserRepository                 { return r.users }
func (r *txReposGorm) Products() repo.ProductRepository           { return r.products }
func (r *txReposGorm) Categories() repo.CategoryRepository        { return r.categories }
func (r *txReposGorm) Carts() repo.CartRepository                 { return r.carts }
func (r *txReposGorm) CartItems() repo.CartItemRepository         { return r.cartItems }
func (r *txReposGorm) Orders() repo.OrderRepository               { return r.orders }
func (r *txReposGorm) OrderItems() repo.OrderItemRepository       { return r.orderItems }
func (r *txReposGorm) Notifications() repo.NotificationRepository { return r.notifications }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		carts := NewCartGormRepository(tx)
		r := &txReposGorm{
			users:         NewUserGormRepository(tx),
			products:      NewProductGormRepository(tx),
			categories:    NewCategoryGormRepository(tx),
			carts:         carts,
			cartItems:     carts,
			orders:        NewOrderGormRepository(tx),
			orderItems:    NewOrderItemGormRepository(tx),
			notifications: NewNotificationGormRepository(tx),
		}
		return fn(r)
	})
}

var (
	_ repo.UserRepository         = (*userGormRepository)(nil)
	_ repo.ProductRepository      = (*ProductGormRepository)(nil)
	_ repo.CategoryRepository     = (*CategoryGormRepository)(nil)
	_ repo.CartRepository         = (*CartGormRepository)(nil)
	_ repo.CartItemRepository     = (*CartGormRepository)(nil)
	_ repo.OrderRepository        = (*OrderGormRepository)(nil)
	_ repo.OrderItemRepository    = (*OrderItemGormRepository)(nil)
	_ repo.DiscountCodeRepository = (*DiscountCodeGormRepository)(nil)
	_ repo.NotificationRepository = (*NotificationGormRepository)(nil)
	_ repo.TransactionManager     = (*TxManagerGorm)(nil)
)
