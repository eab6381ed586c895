package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cookieshop/internal/domain/model"
	repo "cookieshop/internal/repository"

	"github.com/shopspring/decimal"
)

type OrderUsecase struct {
	tx     repo.TransactionManager
	stock  *StockValidator
	events EventPublisher
	clock  Clock
}

func NewOrderUsecase(tx repo.TransactionManager, stock *StockValidator, events EventPublisher, clock Clock) *OrderUsecase {
	if clock == nil {
		clock = SystemClock{}
	}
	return &OrderUsecase{tx: tx, stock: stock, events: events, clock: clock}
}

type PlaceOrderInput struct {
	Address     string
	PhoneNumber string
	// クライアントが計算した合計をそのまま保存する
	TotalPrice decimal.Decimal
}

// 管理者の作成・更新用
type OrderInput struct {
	OrderDate    *time.Time
	Status       string
	TotalPrice   decimal.Decimal
	OrderItemIDs []int64
	UserID       int64
	Address      string
	PhoneNumber  string
}

type OrderItemOutput struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type OrderOutput struct {
	ID          int64             `json:"id"`
	UserID      int64             `json:"user_id"`
	OrderDate   time.Time         `json:"order_date"`
	Status      string            `json:"status"`
	TotalPrice  decimal.Decimal   `json:"total_price"`
	Address     string            `json:"address"`
	PhoneNumber string            `json:"phone_number"`
	Items       []OrderItemOutput `json:"order_items"`
}

func (u *OrderUsecase) PlaceOrder(ctx context.Context, p model.Principal, in PlaceOrderInput) (OrderOutput, error) {
	if strings.TrimSpace(in.Address) == "" {
		return OrderOutput{}, validation("address is required")
	}
	if strings.TrimSpace(in.PhoneNumber) == "" {
		return OrderOutput{}, validation("phone number is required")
	}
	if in.TotalPrice.IsNegative() {
		return OrderOutput{}, validation("total price must not be negative")
	}

	now := u.clock.Now()
	var out OrderOutput
	var created model.Order

	//注文処理はトランザクション
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		user, err := r.Users().FindByEmail(ctx, p.Email)
		if err != nil {
			return fromRepo(err, "user not found with email: "+p.Email)
		}

		cart, err := r.Carts().FindByUserID(ctx, user.ID)
		if err == repo.ErrNotFound {
			return NewError(KindInvalidOperation, "cart is empty, cannot place order")
		}
		if err != nil {
			return dbError()
		}
		cartItems, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return dbError()
		}
		if len(cartItems) == 0 {
			return NewError(KindInvalidOperation, "cart is empty, cannot place order")
		}

		//全明細を確認してから減らす
		if err := u.stock.Validate(ctx, r, cartItems); err != nil {
			return err
		}
		if err := u.stock.Adjust(ctx, r, cartItems); err != nil {
			return err
		}

		order, err := r.Orders().Create(ctx, model.Order{
			UserID:      user.ID,
			OrderDate:   now,
			Status:      model.OrderStatusNew,
			TotalPrice:  in.TotalPrice,
			Address:     strings.TrimSpace(in.Address),
			PhoneNumber: strings.TrimSpace(in.PhoneNumber),
		})
		if err != nil {
			return dbError()
		}

		//スナップショット
		items := make([]model.OrderItem, 0, len(cartItems))
		for _, ci := range cartItems {
			items = append(items, model.OrderItem{
				ProductID: ci.ProductID,
				Quantity:  ci.Quantity,
				Price:     ci.Price,
			})
		}
		if err := r.OrderItems().CreateBulk(ctx, order.ID, items); err != nil {
			return dbError()
		}

		if err := r.Carts().Clear(ctx, cart.ID); err != nil {
			return dbError()
		}

		if err := notifyAdmins(ctx, r, now, fmt.Sprintf("New order with ID %d has been placed.", order.ID)); err != nil {
			return err
		}

		created = order
		out = toOrderOutput(order, items)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}

	publishBestEffort(ctx, u.events, EventOrderPlaced, created, now)
	return out, nil
}

// 遷移の制限はしない（管理者の判断）
func (u *OrderUsecase) UpdateStatus(ctx context.Context, orderID int64, status string) (OrderOutput, error) {
	st, ok := model.ParseOrderStatus(status)
	if !ok {
		return OrderOutput{}, invalidArgument("invalid order status: " + status)
	}

	now := u.clock.Now()
	var out OrderOutput
	var updated model.Order

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return fromRepo(err, fmt.Sprintf("order not found with ID: %d", orderID))
		}
		if err := r.Orders().UpdateStatus(ctx, orderID, st); err != nil {
			return fromRepo(err, fmt.Sprintf("order not found with ID: %d", orderID))
		}
		o.Status = st

		msg := fmt.Sprintf("Order status %d changed to: %s", o.ID, st)
		if err := notifyUser(ctx, r, now, o.UserID, msg); err != nil {
			return err
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return dbError()
		}
		updated = o
		out = toOrderOutput(o, items)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}

	publishBestEffort(ctx, u.events, EventOrderStatusChanged, updated, now)
	return out, nil
}

// NEW / IN_PROCESSINGのときだけ。在庫は戻さない。
func (u *OrderUsecase) Cancel(ctx context.Context, p model.Principal, orderID int64) (OrderOutput, error) {
	now := u.clock.Now()
	var out OrderOutput
	var cancelled model.Order

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return fromRepo(err, fmt.Sprintf("order not found with ID: %d", orderID))
		}
		if !p.IsAdmin() && o.UserID != p.UserID {
			return forbidden("you can cancel only your own orders")
		}
		if !o.Status.Cancellable() {
			return NewError(KindIllegalState, fmt.Sprintf("cannot cancel order with status %s", o.Status))
		}
		if err := r.Orders().UpdateStatus(ctx, orderID, model.OrderStatusCancelled); err != nil {
			return fromRepo(err, fmt.Sprintf("order not found with ID: %d", orderID))
		}
		o.Status = model.OrderStatusCancelled

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return dbError()
		}
		cancelled = o
		out = toOrderOutput(o, items)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}

	publishBestEffort(ctx, u.events, EventOrderCancelled, cancelled, now)
	return out, nil
}

func (u *OrderUsecase) Get(ctx context.Context, orderID int64) (OrderOutput, error) {
	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return fromRepo(err, fmt.Sprintf("order not found with ID: %d", orderID))
		}
		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return dbError()
		}
		out = toOrderOutput(o, items)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func (u *OrderUsecase) List(ctx context.Context) ([]OrderOutput, error) {
	var outs []OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().List(ctx)
		if err != nil {
			return dbError()
		}
		outs, err = withItems(ctx, r, orders)
		return err
	})
	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

// 自分の注文（新しい順）
func (u *OrderUsecase) ListMine(ctx context.Context, p model.Principal) ([]OrderOutput, error) {
	var outs []OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		user, err := r.Users().FindByEmail(ctx, p.Email)
		if err != nil {
			return fromRepo(err, "user not found with email: "+p.Email)
		}
		orders, err := r.Orders().ListByUserID(ctx, user.ID)
		if err != nil {
			return dbError()
		}
		outs, err = withItems(ctx, r, orders)
		return err
	})
	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

// 指定した注文明細をコピーして新しい注文を作る
func (u *OrderUsecase) Create(ctx context.Context, in OrderInput) (OrderOutput, error) {
	st, err := u.checkOrderInput(in)
	if err != nil {
		return OrderOutput{}, err
	}

	var out OrderOutput
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Users().FindByID(ctx, in.UserID); err != nil {
			return fromRepo(err, fmt.Sprintf("user not found with ID: %d", in.UserID))
		}
		items, err := copyOrderItems(ctx, r, in.OrderItemIDs)
		if err != nil {
			return err
		}

		order, err := r.Orders().Create(ctx, u.orderFromInput(0, st, in))
		if err != nil {
			return dbError()
		}
		if err := r.OrderItems().CreateBulk(ctx, order.ID, items); err != nil {
			return dbError()
		}
		out = toOrderOutput(order, items)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// 全項目を置き換え、明細も作り直す
func (u *OrderUsecase) Update(ctx context.Context, orderID int64, in OrderInput) (OrderOutput, error) {
	st, err := u.checkOrderInput(in)
	if err != nil {
		return OrderOutput{}, err
	}

	var out OrderOutput
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Orders().FindByID(ctx, orderID); err != nil {
			return fromRepo(err, fmt.Sprintf("order not found with ID: %d", orderID))
		}
		if _, err := r.Users().FindByID(ctx, in.UserID); err != nil {
			return fromRepo(err, fmt.Sprintf("user not found with ID: %d", in.UserID))
		}
		//削除前にコピー元を読む（自分の明細を指定されても消えない）
		items, err := copyOrderItems(ctx, r, in.OrderItemIDs)
		if err != nil {
			return err
		}

		order := u.orderFromInput(orderID, st, in)
		if err := r.Orders().Update(ctx, order); err != nil {
			return fromRepo(err, fmt.Sprintf("order not found with ID: %d", orderID))
		}
		if err := r.OrderItems().DeleteByOrderID(ctx, orderID); err != nil {
			return dbError()
		}
		if err := r.OrderItems().CreateBulk(ctx, orderID, items); err != nil {
			return dbError()
		}
		out = toOrderOutput(order, items)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func (u *OrderUsecase) Delete(ctx context.Context, orderID int64) error {
	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Orders().Delete(ctx, orderID); err != nil {
			return fromRepo(err, fmt.Sprintf("order not found with ID: %d", orderID))
		}
		return nil
	})
}

func (u *OrderUsecase) checkOrderInput(in OrderInput) (model.OrderStatus, error) {
	st, ok := model.ParseOrderStatus(in.Status)
	if !ok {
		return "", invalidArgument("invalid order status: " + in.Status)
	}
	if len(in.OrderItemIDs) == 0 {
		return "", invalidArgument("order must contain at least one item")
	}
	if in.TotalPrice.IsNegative() {
		return "", validation("total price must not be negative")
	}
	if strings.TrimSpace(in.Address) == "" {
		return "", validation("address is required")
	}
	if strings.TrimSpace(in.PhoneNumber) == "" {
		return "", validation("phone number is required")
	}
	return st, nil
}

func (u *OrderUsecase) orderFromInput(id int64, st model.OrderStatus, in OrderInput) model.Order {
	date := u.clock.Now()
	if in.OrderDate != nil {
		date = *in.OrderDate
	}
	return model.Order{
		ID:          id,
		UserID:      in.UserID,
		OrderDate:   date,
		Status:      st,
		TotalPrice:  in.TotalPrice,
		Address:     strings.TrimSpace(in.Address),
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
	}
}

// 1つでも欠けていればNotFound
func copyOrderItems(ctx context.Context, r repo.TxRepos, ids []int64) ([]model.OrderItem, error) {
	found, err := r.OrderItems().FindByIDs(ctx, ids)
	if err != nil {
		return nil, dbError()
	}
	byID := make(map[int64]model.OrderItem, len(found))
	for _, it := range found {
		byID[it.ID] = it
	}

	items := make([]model.OrderItem, 0, len(ids))
	for _, id := range ids {
		src, ok := byID[id]
		if !ok {
			return nil, notFound("order item not found with ID: %d", id)
		}
		items = append(items, model.OrderItem{
			ProductID: src.ProductID,
			Quantity:  src.Quantity,
			Price:     src.Price,
		})
	}
	return items, nil
}

func withItems(ctx context.Context, r repo.TxRepos, orders []model.Order) ([]OrderOutput, error) {
	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
		if err != nil {
			return nil, dbError()
		}
		outs = append(outs, toOrderOutput(o, items))
	}
	return outs, nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}

	return OrderOutput{
		ID:          o.ID,
		UserID:      o.UserID,
		OrderDate:   o.OrderDate,
		Status:      string(o.Status),
		TotalPrice:  o.TotalPrice,
		Address:     o.Address,
		PhoneNumber: o.PhoneNumber,
		Items:       outItems,
	}
}
