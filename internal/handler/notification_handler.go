package handler

import (
	"net/http"

	"cookieshop/internal/middleware"
	"cookieshop/internal/usecase"

	"github.com/labstack/echo/v4"
)

type NotificationHandler struct {
	uc *usecase.NotificationUsecase
}

func NewNotificationHandler(uc *usecase.NotificationUsecase) *NotificationHandler {
	return &NotificationHandler{uc: uc}
}

type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

func (h *NotificationHandler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/notifications", middleware.RequireAuth())

	g.GET("", h.listUnread)
	g.POST("/:id/markAsRead", h.markRead)
	g.POST("/markAllAsRead", h.markAllRead)
}

// 未読のみ
func (h *NotificationHandler) listUnread(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.ListUnread(c.Request().Context(), p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *NotificationHandler) markRead(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	if err := h.uc.MarkRead(c.Request().Context(), p, id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "notification marked as read"})
}

func (h *NotificationHandler) markAllRead(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return unauthorized(c)
	}
	n, err := h.uc.MarkAllRead(c.Request().Context(), p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, MarkAllReadResponse{Updated: n})
}
