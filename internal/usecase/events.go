package usecase

import (
	"context"
	"time"

	"cookieshop/internal/domain/model"

	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"
)

const (
	EventOrderPlaced        = "order.placed"
	EventOrderStatusChanged = "order.status_changed"
	EventOrderCancelled     = "order.cancelled"
)

// コミット後に外へ流す注文イベント
type OrderEvent struct {
	Type       string          `json:"type"`
	OrderID    int64           `json:"order_id"`
	UserID     int64           `json:"user_id"`
	Status     string          `json:"status"`
	TotalPrice decimal.Decimal `json:"total_price"`
	OccurredAt time.Time       `json:"occurred_at"`
}

type EventPublisher interface {
	Publish(ctx context.Context, ev OrderEvent) error
}

// 失敗してもリクエストは失敗させない
func publishBestEffort(ctx context.Context, p EventPublisher, typ string, o model.Order, now time.Time) {
	if p == nil {
		return
	}
	ev := OrderEvent{
		Type:       typ,
		OrderID:    o.ID,
		UserID:     o.UserID,
		Status:     string(o.Status),
		TotalPrice: o.TotalPrice,
		OccurredAt: now,
	}
	if err := p.Publish(ctx, ev); err != nil {
		log.Warnf("publish %s order_id=%d: %v", typ, o.ID, err)
	}
}
