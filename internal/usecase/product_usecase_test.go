package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"cookieshop/internal/domain/model"
	repo "cookieshop/internal/repository"
	"cookieshop/internal/usecase"
	"cookieshop/internal/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func productInput(name string, categoryIDs ...int64) usecase.ProductInput {
	return usecase.ProductInput{
		Name:        name,
		Description: "pyszne",
		Price:       dec("12.50"),
		Weight:      dec("0.5"),
		Stock:       10,
		CategoryIDs: categoryIDs,
	}
}

func pngUpload(size int64) *usecase.ImageUpload {
	return &usecase.ImageUpload{
		File:   validator.UploadedFile{Filename: "cake.png", ContentType: "image/png", Size: size},
		Reader: strings.NewReader("png"),
	}
}

func TestProductUsecase_List_SearchTooLong(t *testing.T) {
	tx, _ := newTx()
	uc := usecase.NewProductUsecase(tx, nil, 0)

	_, err := uc.List(context.Background(), usecase.ListProductsInput{Search: strings.Repeat("a", 101)})
	assertKind(t, err, usecase.KindInvalidArgument)
}

func TestProductUsecase_List_PassesFilter(t *testing.T) {
	tx, rs := newTx()
	cat := int64(3)
	rs.products.On("List", mock.Anything, repo.ProductFilter{CategoryID: &cat, Search: "ser"}).
		Return([]model.Product{{ID: 1, Name: "Sernik"}}, nil)

	uc := usecase.NewProductUsecase(tx, nil, 0)
	ps, err := uc.List(context.Background(), usecase.ListProductsInput{CategoryID: &cat, Search: " ser "})
	require.NoError(t, err)
	assert.Len(t, ps, 1)
}

func TestProductUsecase_Get_NotFound(t *testing.T) {
	tx, rs := newTx()
	rs.products.On("FindByID", mock.Anything, int64(9)).Return(model.Product{}, repo.ErrNotFound)

	uc := usecase.NewProductUsecase(tx, nil, 0)
	_, err := uc.Get(context.Background(), 9)
	assertKind(t, err, usecase.KindNotFound)
	assertErrContains(t, err, "product not found with ID: 9")
}

func TestProductUsecase_Create_Validation(t *testing.T) {
	cases := map[string]func(in *usecase.ProductInput){
		"empty name":      func(in *usecase.ProductInput) { in.Name = " " },
		"zero price":      func(in *usecase.ProductInput) { in.Price = dec("0") },
		"negative weight": func(in *usecase.ProductInput) { in.Weight = dec("-1") },
		"negative stock":  func(in *usecase.ProductInput) { in.Stock = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			tx, _ := newTx()
			uc := usecase.NewProductUsecase(tx, nil, 0)

			in := productInput("Sernik")
			mutate(&in)
			_, err := uc.Create(context.Background(), in, nil)
			assertKind(t, err, usecase.KindValidation)
			tx.AssertNotCalled(t, "WithinTx", mock.Anything)
		})
	}
}

func TestProductUsecase_Create_WithImage(t *testing.T) {
	tx, rs := newTx()
	images := new(ImageStoreMock)
	images.On("Save", mock.Anything, "cake.png", mock.Anything).Return("abc.png", nil)
	rs.products.On("Create", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.Image == "abc.png" && p.Name == "Sernik"
	})).Return(model.Product{ID: 1, Name: "Sernik", Image: "abc.png"}, nil)

	uc := usecase.NewProductUsecase(tx, images, 1024)
	p, err := uc.Create(context.Background(), productInput("Sernik"), pngUpload(100))
	require.NoError(t, err)
	assert.Equal(t, "abc.png", p.Image)
	images.AssertExpectations(t)
}

func TestProductUsecase_Create_RejectsBadImage(t *testing.T) {
	tx, _ := newTx()
	images := new(ImageStoreMock)
	uc := usecase.NewProductUsecase(tx, images, 1024)

	_, err := uc.Create(context.Background(), productInput("Sernik"), pngUpload(2048))
	assertKind(t, err, usecase.KindValidation)

	notImage := pngUpload(100)
	notImage.File.ContentType = "text/plain"
	_, err = uc.Create(context.Background(), productInput("Sernik"), notImage)
	assertKind(t, err, usecase.KindValidation)

	images.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

func TestProductUsecase_Create_SaveFails(t *testing.T) {
	tx, _ := newTx()
	images := new(ImageStoreMock)
	images.On("Save", mock.Anything, "cake.png", mock.Anything).Return("", errors.New("disk full"))

	uc := usecase.NewProductUsecase(tx, images, 1024)
	_, err := uc.Create(context.Background(), productInput("Sernik"), pngUpload(100))
	assertKind(t, err, usecase.KindInternal)
	assertErrContains(t, err, "failed to save file")
}

func TestProductUsecase_Create_MissingCategory(t *testing.T) {
	tx, rs := newTx()
	rs.categories.On("ExistingIDs", mock.Anything, []int64{1, 2}).Return([]int64{2}, nil)

	uc := usecase.NewProductUsecase(tx, nil, 0)
	_, err := uc.Create(context.Background(), productInput("Sernik", 1, 2), nil)
	assertKind(t, err, usecase.KindNotFound)
	assertErrContains(t, err, "category not found with ID: 1")
	rs.products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// 既存の画像は新しい画像が無ければ残す
func TestProductUsecase_Update_KeepsImage(t *testing.T) {
	tx, rs := newTx()
	rs.products.On("FindByID", mock.Anything, int64(1)).Return(model.Product{ID: 1, Name: "Old", Image: "old.png"}, nil)
	rs.products.On("Update", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.Image == "old.png" && p.Name == "Sernik" && p.CategoryIDs == nil
	})).Return(nil)

	uc := usecase.NewProductUsecase(tx, nil, 0)
	_, err := uc.Update(context.Background(), 1, productInput("Sernik"), nil)
	require.NoError(t, err)
	rs.categories.AssertNotCalled(t, "ExistingIDs", mock.Anything, mock.Anything)
	rs.products.AssertExpectations(t)
}

// N個のカテゴリを指定したらN個だけ紐付く
func TestProductUsecase_Import_AttachesExactCategories(t *testing.T) {
	tx, rs := newTx()
	rs.categories.On("ExistingIDs", mock.Anything, []int64{1, 2, 3}).Return([]int64{1, 2, 3}, nil)
	rs.categories.On("ExistingIDs", mock.Anything, []int64{2}).Return([]int64{2}, nil)
	rs.products.On("Create", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.Name == "A" && assert.ObjectsAreEqual([]int64{1, 2, 3}, p.CategoryIDs)
	})).Return(model.Product{ID: 1, Name: "A", CategoryIDs: []int64{1, 2, 3}}, nil)
	rs.products.On("Create", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.Name == "B" && assert.ObjectsAreEqual([]int64{2}, p.CategoryIDs)
	})).Return(model.Product{ID: 2, Name: "B", CategoryIDs: []int64{2}}, nil)

	uc := usecase.NewProductUsecase(tx, nil, 0)
	ps, err := uc.Import(context.Background(), []usecase.ProductInput{
		productInput("A", 1, 2, 3),
		productInput("B", 2),
	})
	require.NoError(t, err)
	require.Len(t, ps, 2)
	assert.Len(t, ps[0].CategoryIDs, 3)
	assert.Len(t, ps[1].CategoryIDs, 1)
	rs.products.AssertNumberOfCalls(t, "Create", 2)
}

func TestProductUsecase_Import_ValidatesAllFirst(t *testing.T) {
	tx, _ := newTx()
	bad := productInput("B")
	bad.Price = dec("-1")

	uc := usecase.NewProductUsecase(tx, nil, 0)
	_, err := uc.Import(context.Background(), []usecase.ProductInput{productInput("A"), bad})
	assertKind(t, err, usecase.KindValidation)
	assertErrContains(t, err, "item 2:")
	tx.AssertNotCalled(t, "WithinTx", mock.Anything)
}

func TestProductUsecase_Import_Empty(t *testing.T) {
	tx, _ := newTx()
	uc := usecase.NewProductUsecase(tx, nil, 0)

	ps, err := uc.Import(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, ps)
	assert.Empty(t, ps)
}

// カート・注文の明細が指している商品は消さない
func TestProductUsecase_Delete_Referenced(t *testing.T) {
	cases := []struct {
		name    string
		inCart  bool
		ordered bool
	}{
		{"in cart", true, false},
		{"ordered", false, true},
		{"both", true, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx, rs := newTx()
			rs.products.On("FindByID", mock.Anything, int64(2)).Return(model.Product{ID: 2}, nil)
			rs.cartItems.On("ExistsByProductID", mock.Anything, int64(2)).Return(tc.inCart, nil)
			rs.orderItems.On("ExistsByProductID", mock.Anything, int64(2)).Return(tc.ordered, nil)

			uc := usecase.NewProductUsecase(tx, nil, 0)
			err := uc.Delete(context.Background(), 2)
			assertKind(t, err, usecase.KindIllegalState)
			assertErrContains(t, err, "product with ID: 2 is referenced")
			rs.products.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		})
	}
}

func TestProductUsecase_Delete_Unreferenced(t *testing.T) {
	tx, rs := newTx()
	rs.products.On("FindByID", mock.Anything, int64(2)).Return(model.Product{ID: 2}, nil)
	rs.cartItems.On("ExistsByProductID", mock.Anything, int64(2)).Return(false, nil)
	rs.orderItems.On("ExistsByProductID", mock.Anything, int64(2)).Return(false, nil)
	rs.products.On("Delete", mock.Anything, int64(2)).Return(nil).Once()

	uc := usecase.NewProductUsecase(tx, nil, 0)
	require.NoError(t, uc.Delete(context.Background(), 2))
	rs.products.AssertExpectations(t)
}

func TestProductUsecase_Delete_NotFound(t *testing.T) {
	tx, rs := newTx()
	rs.products.On("FindByID", mock.Anything, int64(2)).Return(model.Product{}, repo.ErrNotFound)

	uc := usecase.NewProductUsecase(tx, nil, 0)
	err := uc.Delete(context.Background(), 2)
	assertKind(t, err, usecase.KindNotFound)
	rs.cartItems.AssertNotCalled(t, "ExistsByProductID", mock.Anything, mock.Anything)
}

func TestProductUsecase_Delete_LookupFails(t *testing.T) {
	tx, rs := newTx()
	rs.products.On("FindByID", mock.Anything, int64(2)).Return(model.Product{ID: 2}, nil)
	rs.cartItems.On("ExistsByProductID", mock.Anything, int64(2)).Return(false, errors.New("boom"))

	uc := usecase.NewProductUsecase(tx, nil, 0)
	err := uc.Delete(context.Background(), 2)
	assertKind(t, err, usecase.KindInternal)
}
