package middleware

import (
	"errors"
	"strconv"
	"strings"

	"cookieshop/internal/config"
	"cookieshop/internal/domain/model"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	CtxPrincipalKey = "principal" // model.Principal
)

// bearerトークンを検証してPrincipalをcontextに入れる。
// トークン無し・不正はそのまま次へ（未認証扱い）。拒否はRequireAuth/RequireRoleが行う
func AuthJWT(cfg config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if p, ok := principalFromHeader(cfg.JWTSecret, c.Request().Header.Get("Authorization")); ok {
				c.Set(CtxPrincipalKey, p)
			}
			return next(c)
		}
	}
}

// contextのPrincipal（無ければfalse）
func PrincipalFrom(c echo.Context) (model.Principal, bool) {
	p, ok := c.Get(CtxPrincipalKey).(model.Principal)
	if !ok || p.UserID <= 0 {
		return model.Principal{}, false
	}
	return p, true
}

func principalFromHeader(secret string, authz string) (model.Principal, bool) {
	if authz == "" {
		return model.Principal{}, false
	}

	//Bearer形式か確認してtokenを抜く
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return model.Principal{}, false
	}
	rawToken := strings.TrimSpace(parts[1])
	if rawToken == "" {
		return model.Principal{}, false
	}

	//JWTをパースして検証する
	token, err := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || token == nil || !token.Valid {
		return model.Principal{}, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return model.Principal{}, false
	}

	//sub=email
	email, err := parseString(claims["sub"])
	if err != nil || email == "" {
		return model.Principal{}, false
	}

	userID, err := parseUserID(claims["id"])
	if err != nil || userID <= 0 {
		return model.Principal{}, false
	}

	//roleを取り出す（USER/ADMIN）
	role, ok := model.ParseRole(roleFromClaims(claims))
	if !ok {
		return model.Principal{}, false
	}

	tv, err := parseInt(claims["tv"])
	if err != nil || tv < 0 {
		return model.Principal{}, false
	}

	return model.Principal{
		UserID:       userID,
		Email:        email,
		Role:         role,
		TokenVersion: tv,
	}, true
}

// roleが無ければroles（ROLE_XXX）から
func roleFromClaims(claims jwt.MapClaims) string {
	if s, err := parseString(claims["role"]); err == nil && s != "" {
		return s
	}
	roles, ok := claims["roles"].([]interface{})
	if !ok || len(roles) == 0 {
		return ""
	}
	s, _ := roles[0].(string)
	return strings.TrimPrefix(s, "ROLE_")
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func errorJSON(code, msg string) errorResponse {
	return errorResponse{Error: msg, Code: code}
}

// user_idをint64に変換する
func parseUserID(v interface{}) (int64, error) {
	switch t := v.(type) {
	case float64:
		return int64(t), nil
	case string:
		return strconv.ParseInt(t, 10, 64)
	default:
		return 0, errors.New("invalid id")
	}
}

func parseString(v interface{}) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", errors.New("invalid string")
	}
	return s, nil
}

func parseInt(v interface{}) (int, error) {
	switch t := v.(type) {
	case float64:
		return int(t), nil
	case int:
		return t, nil
	case string:
		i64, err := strconv.ParseInt(t, 10, 32)
		if err != nil {
			return 0, err
		}
		return int(i64), nil
	default:
		return 0, errors.New("invalid int")
	}
}
