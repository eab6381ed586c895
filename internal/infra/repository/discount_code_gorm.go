package repository

import (
	"context"

	"cookieshop/internal/domain/model"
	repo "cookieshop/internal/repository"

	"gorm.io/gorm"
)

type DiscountCodeGormRepository struct {
	db *gorm.DB
}

func NewDiscountCodeGormRepository(db *gorm.DB) *DiscountCodeGormRepository {
	return &DiscountCodeGormRepository{db: db}
}

func (r *DiscountCodeGormRepository) Create(ctx context.Context, d model.DiscountCode) (model.DiscountCode, error) {
	if err := r.db.WithContext(ctx).Create(&d).Error; err != nil {
		return model.DiscountCode{}, mapErr(err)
	}
	return d, nil
}

func (r *DiscountCodeGormRepository) FindByID(ctx context.Context, id int64) (model.DiscountCode, error) {
	var d model.DiscountCode
	if err := r.db.WithContext(ctx).First(&d, id).Error; err != nil {
		return model.DiscountCode{}, mapErr(err)
	}
	return d, nil
}

func (r *DiscountCodeGormRepository) FindByCode(ctx context.Context, code string) (model.DiscountCode, error) {
	var d model.DiscountCode
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&d).Error; err != nil {
		return model.DiscountCode{}, mapErr(err)
	}
	return d, nil
}

func (r *DiscountCodeGormRepository) List(ctx context.Context) ([]model.DiscountCode, error) {
	var ds []model.DiscountCode
	if err := r.db.WithContext(ctx).Order("id asc").Find(&ds).Error; err != nil {
		return []model.DiscountCode{}, err
	}
	return ds, nil
}

func (r *DiscountCodeGormRepository) Update(ctx context.Context, d model.DiscountCode) error {
	res := r.db.WithContext(ctx).Model(&model.DiscountCode{}).
		Where("id = ?", d.ID).
		Updates(map[string]interface{}{
			"code":            d.Code,
			"type":            d.Type,
			"value":           d.Value,
			"expiration_date": d.ExpirationDate,
		})
	if res.Error != nil {
		return mapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *DiscountCodeGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.DiscountCode{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
