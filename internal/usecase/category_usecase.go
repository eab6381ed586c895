package usecase

import (
	"context"
	"fmt"
	"strings"

	"cookieshop/internal/domain/model"
	repo "cookieshop/internal/repository"
)

type CategoryUsecase struct {
	tx repo.TransactionManager
}

func NewCategoryUsecase(tx repo.TransactionManager) *CategoryUsecase {
	return &CategoryUsecase{tx: tx}
}

type CategoryInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ProductIDs  []int64 `json:"product_ids"`
}

func (u *CategoryUsecase) List(ctx context.Context) ([]model.Category, error) {
	var cs []model.Category
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		cs, err = r.Categories().List(ctx)
		if err != nil {
			return dbError()
		}
		return nil
	})
	if err != nil {
		return []model.Category{}, err
	}
	return cs, nil
}

func (u *CategoryUsecase) Get(ctx context.Context, id int64) (model.Category, error) {
	var c model.Category
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		c, err = r.Categories().FindByID(ctx, id)
		return fromRepo(err, fmt.Sprintf("category not found with ID: %d", id))
	})
	if err != nil {
		return model.Category{}, err
	}
	return c, nil
}

func (u *CategoryUsecase) Create(ctx context.Context, in CategoryInput) (model.Category, error) {
	var c model.Category
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		c, err = createCategory(ctx, r, in)
		return err
	})
	if err != nil {
		return model.Category{}, err
	}
	return c, nil
}

// まとめて登録（1件でも失敗したら全部戻す）
func (u *CategoryUsecase) ImportJSON(ctx context.Context, ins []CategoryInput) ([]model.Category, error) {
	out := make([]model.Category, 0, len(ins))
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		for _, in := range ins {
			c, err := createCategory(ctx, r, in)
			if err != nil {
				return err
			}
			out = append(out, c)
		}
		return nil
	})
	if err != nil {
		return []model.Category{}, err
	}
	return out, nil
}

// ProductIDsがnilなら紐付けは変えない
func (u *CategoryUsecase) Update(ctx context.Context, id int64, in CategoryInput) (model.Category, error) {
	if err := checkCategoryInput(in); err != nil {
		return model.Category{}, err
	}

	var c model.Category
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		existing, err := r.Categories().FindByID(ctx, id)
		if err != nil {
			return fromRepo(err, fmt.Sprintf("category not found with ID: %d", id))
		}
		name := strings.TrimSpace(in.Name)
		if name != existing.Name {
			if err := ensureCategoryNameFree(ctx, r, name); err != nil {
				return err
			}
		}
		if in.ProductIDs != nil {
			if err := ensureProductsExist(ctx, r, in.ProductIDs); err != nil {
				return err
			}
		}

		existing.Name = name
		existing.Description = strings.TrimSpace(in.Description)
		existing.ProductIDs = in.ProductIDs
		if err := r.Categories().Update(ctx, existing); err != nil {
			return fromRepo(err, fmt.Sprintf("category not found with ID: %d", id))
		}

		c, err = r.Categories().FindByID(ctx, id)
		return fromRepo(err, fmt.Sprintf("category not found with ID: %d", id))
	})
	if err != nil {
		return model.Category{}, err
	}
	return c, nil
}

func (u *CategoryUsecase) Delete(ctx context.Context, id int64) error {
	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		return fromRepo(r.Categories().Delete(ctx, id), fmt.Sprintf("category not found with ID: %d", id))
	})
}

func createCategory(ctx context.Context, r repo.TxRepos, in CategoryInput) (model.Category, error) {
	if err := checkCategoryInput(in); err != nil {
		return model.Category{}, err
	}
	name := strings.TrimSpace(in.Name)
	if err := ensureCategoryNameFree(ctx, r, name); err != nil {
		return model.Category{}, err
	}
	if err := ensureProductsExist(ctx, r, in.ProductIDs); err != nil {
		return model.Category{}, err
	}

	c, err := r.Categories().Create(ctx, model.Category{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		ProductIDs:  in.ProductIDs,
	})
	if err != nil {
		if err == repo.ErrDuplicate {
			return model.Category{}, alreadyExists(fmt.Sprintf("category '%s' already exists", name))
		}
		return model.Category{}, dbError()
	}
	return c, nil
}

func checkCategoryInput(in CategoryInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return validation("category name is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		return validation("category description is required")
	}
	return nil
}

func ensureCategoryNameFree(ctx context.Context, r repo.TxRepos, name string) error {
	_, err := r.Categories().FindByName(ctx, name)
	if err == nil {
		return alreadyExists(fmt.Sprintf("category '%s' already exists", name))
	}
	if err != repo.ErrNotFound {
		return dbError()
	}
	return nil
}

func ensureProductsExist(ctx context.Context, r repo.TxRepos, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := r.Products().ExistingIDs(ctx, ids)
	if err != nil {
		return dbError()
	}
	if id, ok := firstMissing(ids, found); ok {
		return notFound("product not found with ID: %d", id)
	}
	return nil
}

func ensureCategoriesExist(ctx context.Context, r repo.TxRepos, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := r.Categories().ExistingIDs(ctx, ids)
	if err != nil {
		return dbError()
	}
	if id, ok := firstMissing(ids, found); ok {
		return notFound("category not found with ID: %d", id)
	}
	return nil
}

func firstMissing(want []int64, found []int64) (int64, bool) {
	set := make(map[int64]struct{}, len(found))
	for _, id := range found {
		set[id] = struct{}{}
	}
	for _, id := range want {
		if _, ok := set[id]; !ok {
			return id, true
		}
	}
	return 0, false
}
