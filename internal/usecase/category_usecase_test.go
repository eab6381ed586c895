package usecase_test

import (
	"context"
	"testing"

	"cookieshop/internal/domain/model"
	repo "cookieshop/internal/repository"
	"cookieshop/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCategoryUsecase_Create(t *testing.T) {
	tx, rs := newTx()
	rs.categories.On("FindByName", mock.Anything, "Ciasta").Return(model.Category{}, repo.ErrNotFound)
	rs.products.On("ExistingIDs", mock.Anything, []int64{1, 2}).Return([]int64{1, 2}, nil)
	rs.categories.On("Create", mock.Anything, mock.MatchedBy(func(c model.Category) bool {
		return c.Name == "Ciasta" && len(c.ProductIDs) == 2
	})).Return(model.Category{ID: 4, Name: "Ciasta", Description: "d", ProductIDs: []int64{1, 2}}, nil)

	uc := usecase.NewCategoryUsecase(tx)
	c, err := uc.Create(context.Background(), usecase.CategoryInput{Name: " Ciasta ", Description: "d", ProductIDs: []int64{1, 2}})
	require.NoError(t, err)
	assert.Equal(t, int64(4), c.ID)
}

func TestCategoryUsecase_Create_Validation(t *testing.T) {
	tx, _ := newTx()
	uc := usecase.NewCategoryUsecase(tx)

	_, err := uc.Create(context.Background(), usecase.CategoryInput{Description: "d"})
	assertKind(t, err, usecase.KindValidation)

	_, err = uc.Create(context.Background(), usecase.CategoryInput{Name: "n"})
	assertKind(t, err, usecase.KindValidation)
}

func TestCategoryUsecase_Create_DuplicateName(t *testing.T) {
	tx, rs := newTx()
	rs.categories.On("FindByName", mock.Anything, "Ciasta").Return(model.Category{ID: 1, Name: "Ciasta"}, nil)

	uc := usecase.NewCategoryUsecase(tx)
	_, err := uc.Create(context.Background(), usecase.CategoryInput{Name: "Ciasta", Description: "d"})
	assertKind(t, err, usecase.KindAlreadyExists)
}

func TestCategoryUsecase_Create_MissingProduct(t *testing.T) {
	tx, rs := newTx()
	rs.categories.On("FindByName", mock.Anything, "Ciasta").Return(model.Category{}, repo.ErrNotFound)
	rs.products.On("ExistingIDs", mock.Anything, []int64{1, 8}).Return([]int64{1}, nil)

	uc := usecase.NewCategoryUsecase(tx)
	_, err := uc.Create(context.Background(), usecase.CategoryInput{Name: "Ciasta", Description: "d", ProductIDs: []int64{1, 8}})
	assertKind(t, err, usecase.KindNotFound)
	assertErrContains(t, err, "product not found with ID: 8")
}

// product_idsがnilなら紐付けはそのまま
func TestCategoryUsecase_Update_NilProductIDsKeepsLinks(t *testing.T) {
	tx, rs := newTx()
	rs.categories.On("FindByID", mock.Anything, int64(4)).Return(model.Category{ID: 4, Name: "Ciasta", ProductIDs: []int64{1}}, nil)
	rs.categories.On("Update", mock.Anything, mock.MatchedBy(func(c model.Category) bool {
		return c.ID == 4 && c.ProductIDs == nil && c.Description == "nowy"
	})).Return(nil)

	uc := usecase.NewCategoryUsecase(tx)
	_, err := uc.Update(context.Background(), 4, usecase.CategoryInput{Name: "Ciasta", Description: "nowy"})
	require.NoError(t, err)
	rs.categories.AssertNotCalled(t, "FindByName", mock.Anything, mock.Anything)
	rs.products.AssertNotCalled(t, "ExistingIDs", mock.Anything, mock.Anything)
}

func TestCategoryUsecase_ImportJSON_RollsBackOnError(t *testing.T) {
	tx, rs := newTx()
	rs.categories.On("FindByName", mock.Anything, "A").Return(model.Category{}, repo.ErrNotFound)
	rs.categories.On("FindByName", mock.Anything, "B").Return(model.Category{ID: 2, Name: "B"}, nil)
	rs.categories.On("Create", mock.Anything, mock.Anything).Return(model.Category{ID: 1, Name: "A"}, nil)

	uc := usecase.NewCategoryUsecase(tx)
	out, err := uc.ImportJSON(context.Background(), []usecase.CategoryInput{
		{Name: "A", Description: "d"},
		{Name: "B", Description: "d"},
	})
	assertKind(t, err, usecase.KindAlreadyExists)
	assert.Empty(t, out)
}

func TestCategoryUsecase_Delete_NotFound(t *testing.T) {
	tx, rs := newTx()
	rs.categories.On("Delete", mock.Anything, int64(4)).Return(repo.ErrNotFound)

	uc := usecase.NewCategoryUsecase(tx)
	assertKind(t, uc.Delete(context.Background(), 4), usecase.KindNotFound)
}
