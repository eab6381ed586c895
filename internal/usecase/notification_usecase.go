package usecase

import (
	"context"
	"time"

	"cookieshop/internal/domain/model"
	repo "cookieshop/internal/repository"
)

type NotificationUsecase struct {
	tx repo.TransactionManager
}

func NewNotificationUsecase(tx repo.TransactionManager) *NotificationUsecase {
	return &NotificationUsecase{tx: tx}
}

type NotificationOutput struct {
	ID           int64     `json:"id"`
	Content      string    `json:"content"`
	Read         bool      `json:"read"`
	CreationDate time.Time `json:"creation_date"`
}

// 未読の通知（新しい順）
func (u *NotificationUsecase) ListUnread(ctx context.Context, p model.Principal) ([]NotificationOutput, error) {
	var outs []NotificationOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		ns, err := r.Notifications().ListUnreadByUserID(ctx, p.UserID)
		if err != nil {
			return dbError()
		}
		outs = make([]NotificationOutput, 0, len(ns))
		for _, n := range ns {
			outs = append(outs, toNotificationOutput(n))
		}
		return nil
	})
	if err != nil {
		return []NotificationOutput{}, err
	}
	return outs, nil
}

// 自分の通知だけ既読にできる
func (u *NotificationUsecase) MarkRead(ctx context.Context, p model.Principal, id int64) error {
	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		n, err := r.Notifications().FindByID(ctx, id)
		if err != nil {
			return fromRepo(err, "notification not found")
		}
		if n.UserID != p.UserID {
			return forbidden("you do not have access to this notification")
		}
		if err := r.Notifications().MarkRead(ctx, id); err != nil {
			return fromRepo(err, "notification not found")
		}
		return nil
	})
}

func (u *NotificationUsecase) MarkAllRead(ctx context.Context, p model.Principal) (int64, error) {
	var n int64
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		updated, err := r.Notifications().MarkAllReadByUserID(ctx, p.UserID)
		if err != nil {
			return dbError()
		}
		n = updated
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// ADMIN全員に1件ずつ
func notifyAdmins(ctx context.Context, r repo.TxRepos, now time.Time, message string) error {
	admins, err := r.Users().ListByRole(ctx, model.RoleAdmin)
	if err != nil {
		return dbError()
	}
	ns := make([]model.Notification, 0, len(admins))
	for _, a := range admins {
		ns = append(ns, model.Notification{
			UserID:    a.ID,
			Content:   message,
			Read:      false,
			CreatedAt: now,
		})
	}
	if err := r.Notifications().CreateBulk(ctx, ns); err != nil {
		return dbError()
	}
	return nil
}

func notifyUser(ctx context.Context, r repo.TxRepos, now time.Time, userID int64, message string) error {
	n := []model.Notification{{
		UserID:    userID,
		Content:   message,
		Read:      false,
		CreatedAt: now,
	}}
	if err := r.Notifications().CreateBulk(ctx, n); err != nil {
		return dbError()
	}
	return nil
}

func toNotificationOutput(n model.Notification) NotificationOutput {
	return NotificationOutput{
		ID:           n.ID,
		Content:      n.Content,
		Read:         n.Read,
		CreationDate: n.CreatedAt,
	}
}
