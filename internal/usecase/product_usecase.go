package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cookieshop/internal/domain/model"
	repo "cookieshop/internal/repository"
	"cookieshop/internal/validator"

	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"
)

// 画像の保存先（保存したファイル名を返す）
type ImageStore interface {
	Save(ctx context.Context, originalName string, r io.Reader) (string, error)
}

// アップロードされた画像
type ImageUpload struct {
	File   validator.UploadedFile
	Reader io.Reader
}

type ProductUsecase struct {
	tx            repo.TransactionManager
	images        ImageStore
	maxImageBytes int64
}

// DI
func NewProductUsecase(tx repo.TransactionManager, images ImageStore, maxImageBytes int64) *ProductUsecase {
	return &ProductUsecase{tx: tx, images: images, maxImageBytes: maxImageBytes}
}

type ProductInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Weight      decimal.Decimal `json:"weight"`
	Stock       int64           `json:"quantity_in_stock"`
	CategoryIDs []int64         `json:"category_ids"`
	Image       string          `json:"image_url"`
}

type ListProductsInput struct {
	CategoryID *int64
	Search     string
}

func (u *ProductUsecase) List(ctx context.Context, in ListProductsInput) ([]model.Product, error) {
	if len(in.Search) > 100 {
		return []model.Product{}, invalidArgument("search too long")
	}
	var ps []model.Product
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		ps, err = r.Products().List(ctx, repo.ProductFilter{
			CategoryID: in.CategoryID,
			Search:     strings.TrimSpace(in.Search),
		})
		if err != nil {
			return dbError()
		}
		return nil
	})
	if err != nil {
		return []model.Product{}, err
	}
	return ps, nil
}

// 全件（JSONエクスポートにも使う）
func (u *ProductUsecase) All(ctx context.Context) ([]model.Product, error) {
	return u.List(ctx, ListProductsInput{})
}

func (u *ProductUsecase) Get(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		p, err = r.Products().FindByID(ctx, id)
		return fromRepo(err, fmt.Sprintf("product not found with ID: %d", id))
	})
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// 画像は任意
func (u *ProductUsecase) Create(ctx context.Context, in ProductInput, image *ImageUpload) (model.Product, error) {
	if err := checkProductInput(in); err != nil {
		return model.Product{}, err
	}
	imageName, err := u.saveImage(ctx, image)
	if err != nil {
		return model.Product{}, err
	}
	if imageName != "" {
		in.Image = imageName
	}

	var p model.Product
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		p, err = createProduct(ctx, r, in)
		return err
	})
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// 新しい画像が来たときだけ差し替える
func (u *ProductUsecase) Update(ctx context.Context, id int64, in ProductInput, image *ImageUpload) (model.Product, error) {
	if err := checkProductInput(in); err != nil {
		return model.Product{}, err
	}
	imageName, err := u.saveImage(ctx, image)
	if err != nil {
		return model.Product{}, err
	}

	var p model.Product
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		existing, err := r.Products().FindByID(ctx, id)
		if err != nil {
			return fromRepo(err, fmt.Sprintf("product not found with ID: %d", id))
		}
		if in.CategoryIDs != nil {
			if err := ensureCategoriesExist(ctx, r, in.CategoryIDs); err != nil {
				return err
			}
		}

		existing.Name = strings.TrimSpace(in.Name)
		existing.Description = strings.TrimSpace(in.Description)
		existing.Price = in.Price
		existing.Weight = in.Weight
		existing.Stock = in.Stock
		existing.CategoryIDs = in.CategoryIDs
		if imageName != "" {
			existing.Image = imageName
		}

		if err := r.Products().Update(ctx, existing); err != nil {
			return fromRepo(err, fmt.Sprintf("product not found with ID: %d", id))
		}
		p, err = r.Products().FindByID(ctx, id)
		return fromRepo(err, fmt.Sprintf("product not found with ID: %d", id))
	})
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// カート・注文から参照されている商品は消せない
func (u *ProductUsecase) Delete(ctx context.Context, id int64) error {
	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Products().FindByID(ctx, id); err != nil {
			return fromRepo(err, fmt.Sprintf("product not found with ID: %d", id))
		}

		inCart, err := r.CartItems().ExistsByProductID(ctx, id)
		if err != nil {
			return dbError()
		}
		ordered, err := r.OrderItems().ExistsByProductID(ctx, id)
		if err != nil {
			return dbError()
		}
		if inCart || ordered {
			return NewError(KindIllegalState, fmt.Sprintf("product with ID: %d is referenced by a cart or an order", id))
		}

		return fromRepo(r.Products().Delete(ctx, id), fmt.Sprintf("product not found with ID: %d", id))
	})
}

// まとめて登録（JSON・xlsx共通）
func (u *ProductUsecase) Import(ctx context.Context, ins []ProductInput) ([]model.Product, error) {
	out := make([]model.Product, 0, len(ins))
	if len(ins) == 0 {
		log.Warn("product import called with empty list")
		return out, nil
	}
	for i, in := range ins {
		if err := checkProductInput(in); err != nil {
			he, _ := AsHTTPError(err)
			return []model.Product{}, NewError(he.Kind, fmt.Sprintf("item %d: %s", i+1, he.Message))
		}
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		for _, in := range ins {
			p, err := createProduct(ctx, r, in)
			if err != nil {
				return err
			}
			out = append(out, p)
		}
		return nil
	})
	if err != nil {
		return []model.Product{}, err
	}
	log.Infof("imported %d products", len(out))
	return out, nil
}

func (u *ProductUsecase) saveImage(ctx context.Context, image *ImageUpload) (string, error) {
	if image == nil {
		return "", nil
	}
	if err := validator.ValidateImageFile(image.File, u.maxImageBytes); err != nil {
		if errors.Is(err, validator.ErrNotImage) || errors.Is(err, validator.ErrFileTooLarge) {
			return "", validation(err.Error())
		}
		return "", err
	}
	if u.images == nil {
		return "", NewError(KindInternal, "image storage not configured")
	}
	name, err := u.images.Save(ctx, image.File.Filename, image.Reader)
	if err != nil {
		log.Errorf("save image %q: %v", image.File.Filename, err)
		return "", NewError(KindInternal, "failed to save file")
	}
	return name, nil
}

func createProduct(ctx context.Context, r repo.TxRepos, in ProductInput) (model.Product, error) {
	if err := ensureCategoriesExist(ctx, r, in.CategoryIDs); err != nil {
		return model.Product{}, err
	}
	p, err := r.Products().Create(ctx, model.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Weight:      in.Weight,
		Stock:       in.Stock,
		Image:       strings.TrimSpace(in.Image),
		CategoryIDs: in.CategoryIDs,
	})
	if err != nil {
		return model.Product{}, dbError()
	}
	return p, nil
}

func checkProductInput(in ProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return validation("product name is required")
	}
	if !in.Price.IsPositive() {
		return validation("price must be greater than zero")
	}
	if in.Weight.IsNegative() {
		return validation("weight cannot be negative")
	}
	if in.Stock < 0 {
		return validation("quantity in stock cannot be negative")
	}
	return nil
}
