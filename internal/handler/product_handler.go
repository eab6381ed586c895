package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"cookieshop/internal/infra/excel"
	"cookieshop/internal/middleware"
	"cookieshop/internal/usecase"
	"cookieshop/internal/validator"

	"github.com/labstack/echo/v4"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// /products
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

func NewProductHandler(uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

func (h *ProductHandler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/products")
	admin := middleware.AdminOnly()

	//公開
	g.GET("", h.list)
	g.GET("/all", h.all)
	g.GET("/:id", h.get)

	//管理者
	g.POST("", h.create, admin)
	g.PUT("/:id", h.update, admin)
	g.DELETE("/:id", h.delete, admin)
	g.POST("/import/json", h.importJSON, admin)
	g.GET("/export/json", h.exportJSON, admin)
	g.POST("/import/xlsx", h.importXLSX, admin)
	g.GET("/export/xlsx", h.exportXLSX, admin)
}

// ?category=&search=
func (h *ProductHandler) list(c echo.Context) error {
	var in usecase.ListProductsInput
	if v := c.QueryParam("category"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return badRequest(c, "invalid category")
		}
		in.CategoryID = &id
	}
	in.Search = c.QueryParam("search")

	out, err := h.uc.List(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) all(c echo.Context) error {
	out, err := h.uc.All(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	out, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) create(c echo.Context) error {
	in, image, closeFn, err := bindProduct(c)
	if err != nil {
		return writeError(c, err)
	}
	defer closeFn()

	out, err := h.uc.Create(c.Request().Context(), in, image)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *ProductHandler) update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	in, image, closeFn, err := bindProduct(c)
	if err != nil {
		return writeError(c, err)
	}
	defer closeFn()

	out, err := h.uc.Update(c.Request().Context(), id, in, image)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ProductHandler) importJSON(c echo.Context) error {
	var req []usecase.ProductInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	out, err := h.uc.Import(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *ProductHandler) exportJSON(c echo.Context) error {
	out, err := h.uc.All(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="products.json"`)
	return c.JSON(http.StatusOK, out)
}

// multipartのfile欄から読む
func (h *ProductHandler) importXLSX(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "excel file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return badRequest(c, "failed to open excel file")
	}
	defer f.Close()

	ins, err := excel.ReadProducts(f, fh.Size)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: string(usecase.KindValidation)})
	}
	out, err := h.uc.Import(c.Request().Context(), ins)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *ProductHandler) exportXLSX(c echo.Context) error {
	products, err := h.uc.All(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	var buf bytes.Buffer
	if err := excel.WriteProducts(&buf, products); err != nil {
		c.Logger().Errorf("export xlsx: %v", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to write excel file", Code: string(usecase.KindInternal)})
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="products.xlsx"`)
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}

// JSONボディ、またはmultipart（productにJSON、imageに画像）
func bindProduct(c echo.Context) (usecase.ProductInput, *usecase.ImageUpload, func(), error) {
	var in usecase.ProductInput
	noop := func() {}
	invalid := usecase.NewError(usecase.KindInvalidArgument, "invalid body")

	ct := c.Request().Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(ct, echo.MIMEMultipartForm) {
		if err := c.Bind(&in); err != nil {
			return in, nil, noop, invalid
		}
		return in, nil, noop, nil
	}

	raw := c.FormValue("product")
	if raw == "" {
		return in, nil, noop, usecase.NewError(usecase.KindValidation, "product part is required")
	}
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		return in, nil, noop, invalid
	}

	fh, err := formImage(c)
	if err != nil || fh == nil {
		return in, nil, noop, nil
	}
	f, err := fh.Open()
	if err != nil {
		return in, nil, noop, usecase.NewError(usecase.KindInvalidArgument, "failed to read image")
	}

	image := &usecase.ImageUpload{
		File: validator.UploadedFile{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get(echo.HeaderContentType),
			Size:        fh.Size,
		},
		Reader: f,
	}
	return in, image, func() { _ = f.Close() }, nil
}

// image / imageFile どちらの欄名でもよい
func formImage(c echo.Context) (*multipart.FileHeader, error) {
	for _, name := range []string{"image", "imageFile"} {
		fh, err := c.FormFile(name)
		if err == nil {
			return fh, nil
		}
		if err != http.ErrMissingFile {
			return nil, err
		}
	}
	return nil, nil
}

