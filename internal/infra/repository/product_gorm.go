package repository

import (
	"context"
	"strings"

	"cookieshop/internal/domain/model"
	repo "cookieshop/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// カテゴリ/名前検索付きで一覧を返す。
func (r *ProductGormRepository) List(ctx context.Context, f repo.ProductFilter) ([]model.Product, error) {
	var products []model.Product

	tx := r.db.WithContext(ctx).Model(&model.Product{})

	if f.CategoryID != nil {
		tx = tx.Where("id IN (?)",
			r.db.WithContext(ctx).Model(&model.ProductCategory{}).Select("product_id").Where("category_id = ?", *f.CategoryID))
	}

	// q nameを対象（DBに依らず大文字小文字を無視）
	if s := strings.TrimSpace(f.Search); s != "" {
		tx = tx.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}

	if err := tx.Order("id asc").Find(&products).Error; err != nil {
		return []model.Product{}, err
	}
	if err := r.loadCategoryIDs(ctx, products); err != nil {
		return []model.Product{}, err
	}
	return products, nil
}

// IDで商品を取得
func (r *ProductGormRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return model.Product{}, mapErr(err)
	}
	one := []model.Product{p}
	if err := r.loadCategoryIDs(ctx, one); err != nil {
		return model.Product{}, err
	}
	return one[0], nil
}

func (r *ProductGormRepository) ExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	found := []int64{}
	if len(ids) == 0 {
		return found, nil
	}
	if err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id IN ?", ids).
		Order("id asc").
		Pluck("id", &found).Error; err != nil {
		return []int64{}, err
	}
	return found, nil
}

// 商品の作成（カテゴリの紐付けも同じtxで）
func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&p).Error; err != nil {
			return mapErr(err)
		}
		return replaceProductCategories(tx, p.ID, p.CategoryIDs)
	})
	if err != nil {
		return model.Product{}, err
	}
	if p.CategoryIDs == nil {
		p.CategoryIDs = []int64{}
	}
	return p, nil
}

// 商品の更新
func (r *ProductGormRepository) Update(ctx context.Context, p model.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Product{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
			"name":              p.Name,
			"description":       p.Description,
			"weight":            p.Weight,
			"image":             p.Image,
			"quantity_in_stock": p.Stock,
			"price":             p.Price,
		})
		if res.Error != nil {
			return mapErr(res.Error)
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}
		if p.CategoryIDs == nil {
			return nil
		}
		return replaceProductCategories(tx, p.ID, p.CategoryIDs)
	})
}

// 商品削除（紐付けも消す）
func (r *ProductGormRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&model.ProductCategory{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Product{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}
		return nil
	})
}

// 在庫 >= qty のときだけ減らす（同時注文でもマイナスにならない）
func (r *ProductGormRepository) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ? AND quantity_in_stock >= ?", productID, qty).
		UpdateColumn("quantity_in_stock", gorm.Expr("quantity_in_stock - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *ProductGormRepository) loadCategoryIDs(ctx context.Context, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}

	var links []model.ProductCategory
	if err := r.db.WithContext(ctx).
		Where("product_id IN ?", ids).
		Order("category_id asc").
		Find(&links).Error; err != nil {
		return err
	}

	byProduct := make(map[int64][]int64, len(products))
	for _, l := range links {
		byProduct[l.ProductID] = append(byProduct[l.ProductID], l.CategoryID)
	}
	for i := range products {
		products[i].CategoryIDs = byProduct[products[i].ID]
		if products[i].CategoryIDs == nil {
			products[i].CategoryIDs = []int64{}
		}
	}
	return nil
}

// 商品側から紐付けを入れ直す
func replaceProductCategories(tx *gorm.DB, productID int64, categoryIDs []int64) error {
	if err := tx.Where("product_id = ?", productID).Delete(&model.ProductCategory{}).Error; err != nil {
		return err
	}
	links := make([]model.ProductCategory, 0, len(categoryIDs))
	for _, id := range uniqueIDs(categoryIDs) {
		links = append(links, model.ProductCategory{ProductID: productID, CategoryID: id})
	}
	if len(links) == 0 {
		return nil
	}
	return tx.Create(&links).Error
}

// カテゴリ側から紐付けを入れ直す
func replaceCategoryProducts(tx *gorm.DB, categoryID int64, productIDs []int64) error {
	if err := tx.Where("category_id = ?", categoryID).Delete(&model.ProductCategory{}).Error; err != nil {
		return err
	}
	links := make([]model.ProductCategory, 0, len(productIDs))
	for _, id := range uniqueIDs(productIDs) {
		links = append(links, model.ProductCategory{ProductID: id, CategoryID: categoryID})
	}
	if len(links) == 0 {
		return nil
	}
	return tx.Create(&links).Error
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
