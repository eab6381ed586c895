package handler

import (
	"net/http"
	"time"

	"cookieshop/internal/middleware"
	"cookieshop/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type DiscountHandler struct {
	uc *usecase.DiscountUsecase
}

func NewDiscountHandler(uc *usecase.DiscountUsecase) *DiscountHandler {
	return &DiscountHandler{uc: uc}
}

// expiration_dateは"2006-01-02"
type DiscountRequest struct {
	Code           string          `json:"code"`
	Type           string          `json:"type"`
	Value          decimal.Decimal `json:"value"`
	ExpirationDate string          `json:"expiration_date"`
}

func (h *DiscountHandler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/discount-codes", middleware.RequireAuth())
	admin := middleware.AdminOnly()

	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.GET("/by-code/:code", h.getByCode)
	g.POST("", h.create, admin)
	g.PUT("/:id", h.update, admin)
	g.DELETE("/:id", h.delete, admin)
}

func (h *DiscountHandler) list(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DiscountHandler) get(c echo.Context) error {
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

func (h *DiscountHandler) getByCode(c echo.Context) error {
	out, err := h.uc.GetByCode(c.Request().Context(), c.Param("code"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DiscountHandler) create(c echo.Context) error {
	in, err := bindDiscount(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *DiscountHandler) update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	in, err := bindDiscount(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.Request().Context(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DiscountHandler) delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func bindDiscount(c echo.Context) (usecase.DiscountInput, error) {
	var req DiscountRequest
	if err := c.Bind(&req); err != nil {
		return usecase.DiscountInput{}, usecase.NewError(usecase.KindInvalidArgument, "invalid body")
	}
	exp, err := time.Parse("2006-01-02", req.ExpirationDate)
	if err != nil {
		return usecase.DiscountInput{}, usecase.NewError(usecase.KindValidation, "expiration_date must be YYYY-MM-DD")
	}
	return usecase.DiscountInput{
		Code:           req.Code,
		Type:           req.Type,
		Value:          req.Value,
		ExpirationDate: exp,
	}, nil
}
