package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusNew          OrderStatus = "NEW"
	OrderStatusInProcessing OrderStatus = "IN_PROCESSING"
	OrderStatusConfirmed    OrderStatus = "CONFIRMED"
	OrderStatusShipped      OrderStatus = "SHIPPED"
	OrderStatusDelivered    OrderStatus = "DELIVERED"
	OrderStatusCancelled    OrderStatus = "CANCELLED"
)

// 文字列からステータスへ（完全一致のみ）
func ParseOrderStatus(s string) (OrderStatus, bool) {
	st := OrderStatus(s)
	switch st {
	case OrderStatusNew, OrderStatusInProcessing, OrderStatusConfirmed,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return st, true
	}
	return "", false
}

// キャンセルできるのはNEWかIN_PROCESSINGだけ
func (s OrderStatus) Cancellable() bool {
	return s == OrderStatusNew || s == OrderStatusInProcessing
}

type Order struct {
	ID          int64           `gorm:"primaryKey;autoIncrement"`
	UserID      int64           `gorm:"not null;index"`
	OrderDate   time.Time       `gorm:"not null"`
	Status      OrderStatus     `gorm:"type:varchar(20);not null;index"`
	TotalPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Address     string          `gorm:"column:order_address;type:varchar(255);not null"`
	PhoneNumber string          `gorm:"type:varchar(20);not null"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime"`
}
