package repository

import (
	"context"

	"cookieshop/internal/domain/model"
)

type NotificationRepository interface {
	CreateBulk(ctx context.Context, notifications []model.Notification) error
	FindByID(ctx context.Context, id int64) (model.Notification, error)
	ListUnreadByUserID(ctx context.Context, userID int64) ([]model.Notification, error)
	MarkRead(ctx context.Context, id int64) error
	// 未読を一括で既読に（更新件数を返す）
	MarkAllReadByUserID(ctx context.Context, userID int64) (int64, error)
}
