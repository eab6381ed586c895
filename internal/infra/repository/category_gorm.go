package repository

import (
	"context"

	"cookieshop/internal/domain/model"
	repo "cookieshop/internal/repository"

	"gorm.io/gorm"
)

type CategoryGormRepository struct {
	db *gorm.DB
}

func NewCategoryGormRepository(db *gorm.DB) *CategoryGormRepository {
	return &CategoryGormRepository{db: db}
}

func (r *CategoryGormRepository) List(ctx context.Context) ([]model.Category, error) {
	var cs []model.Category
	if err := r.db.WithContext(ctx).Order("id asc").Find(&cs).Error; err != nil {
		return []model.Category{}, err
	}
	if err := r.loadProductIDs(ctx, cs); err != nil {
		return []model.Category{}, err
	}
	return cs, nil
}

func (r *CategoryGormRepository) FindByID(ctx context.Context, id int64) (model.Category, error) {
	var c model.Category
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return model.Category{}, mapErr(err)
	}
	one := []model.Category{c}
	if err := r.loadProductIDs(ctx, one); err != nil {
		return model.Category{}, err
	}
	return one[0], nil
}

func (r *CategoryGormRepository) FindByName(ctx context.Context, name string) (model.Category, error) {
	var c model.Category
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&c).Error; err != nil {
		return model.Category{}, mapErr(err)
	}
	one := []model.Category{c}
	if err := r.loadProductIDs(ctx, one); err != nil {
		return model.Category{}, err
	}
	return one[0], nil
}

func (r *CategoryGormRepository) ExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	found := []int64{}
	if len(ids) == 0 {
		return found, nil
	}
	if err := r.db.WithContext(ctx).Model(&model.Category{}).
		Where("id IN ?", ids).
		Order("id asc").
		Pluck("id", &found).Error; err != nil {
		return []int64{}, err
	}
	return found, nil
}

func (r *CategoryGormRepository) Create(ctx context.Context, c model.Category) (model.Category, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&c).Error; err != nil {
			return mapErr(err)
		}
		return replaceCategoryProducts(tx, c.ID, c.ProductIDs)
	})
	if err != nil {
		return model.Category{}, err
	}
	if c.ProductIDs == nil {
		c.ProductIDs = []int64{}
	}
	return c, nil
}

// ProductIDsがnilなら紐付けはそのまま
func (r *CategoryGormRepository) Update(ctx context.Context, c model.Category) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Category{}).Where("id = ?", c.ID).Updates(map[string]interface{}{
			"name":        c.Name,
			"description": c.Description,
		})
		if res.Error != nil {
			return mapErr(res.Error)
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}
		if c.ProductIDs == nil {
			return nil
		}
		return replaceCategoryProducts(tx, c.ID, c.ProductIDs)
	})
}

func (r *CategoryGormRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", id).Delete(&model.ProductCategory{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Category{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}
		return nil
	})
}

func (r *CategoryGormRepository) loadProductIDs(ctx context.Context, cs []model.Category) error {
	if len(cs) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(cs))
	for _, c := range cs {
		ids = append(ids, c.ID)
	}

	var links []model.ProductCategory
	if err := r.db.WithContext(ctx).
		Where("category_id IN ?", ids).
		Order("product_id asc").
		Find(&links).Error; err != nil {
		return err
	}

	byCategory := make(map[int64][]int64, len(cs))
	for _, l := range links {
		byCategory[l.CategoryID] = append(byCategory[l.CategoryID], l.ProductID)
	}
	for i := range cs {
		cs[i].ProductIDs = byCategory[cs[i].ID]
		if cs[i].ProductIDs == nil {
			cs[i].ProductIDs = []int64{}
		}
	}
	return nil
}
