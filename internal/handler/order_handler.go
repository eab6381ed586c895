package handler

import (
	"net/http"
	"time"

	"cookieshop/internal/middleware"
	"cookieshop/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

type PlaceOrderRequest struct {
	Address     string          `json:"address"`
	PhoneNumber string          `json:"phone_number"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

type OrderStatusUpdateRequest struct {
	Status string `json:"status"`
}

// 管理者の作成・更新。order_itemsは既存の注文明細ID
type OrderRequest struct {
	OrderDate    *time.Time      `json:"order_date"`
	Status       string          `json:"status"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	OrderItemIDs []int64         `json:"order_item_ids"`
	UserID       int64           `json:"user_id"`
	Address      string          `json:"address"`
	PhoneNumber  string          `json:"phone_number"`
}

func (h *OrderHandler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/orders", middleware.RequireAuth())
	admin := middleware.AdminOnly()

	g.POST("/place", h.place)
	g.GET("/my", h.listMine)
	g.POST("/:id/cancel", h.cancel)

	g.PUT("/:id/status", h.updateStatus, admin)
	g.GET("", h.list, admin)
	g.GET("/:id", h.get, admin)
	g.POST("", h.create, admin)
	g.PUT("/:id", h.update, admin)
	g.DELETE("/:id", h.delete, admin)
}

func (h *OrderHandler) place(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return unauthorized(c)
	}

	var req PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.PlaceOrder(c.Request().Context(), p, usecase.PlaceOrderInput{
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
		TotalPrice:  req.TotalPrice,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) listMine(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.ListMine(c.Request().Context(), p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) cancel(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	out, err := h.uc.Cancel(c.Request().Context(), p, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) updateStatus(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	var req OrderStatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	//?status=でも受け付ける
	if req.Status == "" {
		req.Status = c.QueryParam("status")
	}

	out, err := h.uc.UpdateStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) list(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) get(c echo.Context) error {
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

func (h *OrderHandler) create(c echo.Context) error {
	var req OrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	out, err := h.uc.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req OrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	out, err := h.uc.Update(c.Request().Context(), id, req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (r OrderRequest) toInput() usecase.OrderInput {
	return usecase.OrderInput{
		OrderDate:    r.OrderDate,
		Status:       r.Status,
		TotalPrice:   r.TotalPrice,
		OrderItemIDs: r.OrderItemIDs,
		UserID:       r.UserID,
		Address:      r.Address,
		PhoneNumber:  r.PhoneNumber,
	}
}
