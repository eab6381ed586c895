package repository

import (
	"errors"

	"cookieshop/internal/infra/db"
	repo "cookieshop/internal/repository"

	"gorm.io/gorm"
)

// gormのエラーをrepositoryのエラーへ
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repo.ErrNotFound
	}
	if db.IsDuplicate(err) {
		return repo.ErrDuplicate
	}
	return err
}
