package handler

import (
	"errors"
	"net/http"

	auth "cookieshop/internal/usecase/auth_usecase"
	"cookieshop/internal/validator"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	registerUC *auth.RegisterUserUsecase // 会員登録usecase
	loginUC    *auth.LoginUsecase        // ログインusecase
}

// DIコンストラクタ
func NewAuthHandler(registerUC *auth.RegisterUserUsecase, loginUC *auth.LoginUsecase) *AuthHandler {
	return &AuthHandler{
		registerUC: registerUC,
		loginUC:    loginUC,
	}
}

// /auth/login, /auth/register を登録（レート制限はgroup側で付ける）
func (h *AuthHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/login", h.login)
	g.POST("/register", h.register)
}

// POST /auth/register
func (h *AuthHandler) register(c echo.Context) error {
	var req auth.RegisterUserInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.registerUC.Execute(c.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, validator.ErrInvalidEmail),
			errors.Is(err, validator.ErrPasswordTooShort),
			errors.Is(err, validator.ErrInvalidPhone):
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "VALIDATION"})
		case errors.Is(err, auth.ErrEmailAlreadyExists):
			return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "ALREADY_EXISTS"})
		default:
			c.Logger().Errorf("register: %v", err)
			return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error", Code: "INTERNAL"})
		}
	}

	return c.JSON(http.StatusOK, out.User)
}

// POST /auth/login
func (h *AuthHandler) login(c echo.Context) error {
	var req auth.LoginInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.loginUC.Execute(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid email or password", Code: "UNAUTHORIZED"})
		}
		c.Logger().Errorf("login: %v", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error", Code: "INTERNAL"})
	}

	return c.JSON(http.StatusOK, out)
}
