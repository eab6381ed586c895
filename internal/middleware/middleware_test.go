package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cookieshop/internal/config"
	"cookieshop/internal/domain/model"
	"cookieshop/internal/infra/token"
	"cookieshop/internal/middleware"
	"cookieshop/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =====================
// レスポンス確認用
// =====================

type mwErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type mwOKResponse struct {
	Authenticated bool   `json:"authenticated"`
	UserID        int64  `json:"user_id"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	TokenVersion  int    `json:"token_version"`
}

// =====================
// UserRepository モック
// =====================

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepo) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	us, _ := args.Get(0).([]model.User)
	return us, args.Error(1)
}

func (m *MockUserRepo) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	args := m.Called(ctx, role)
	us, _ := args.Get(0).([]model.User)
	return us, args.Error(1)
}

func (m *MockUserRepo) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ repository.UserRepository = (*MockUserRepo)(nil)

// =====================
// helper
// =====================

const testSecret = "test-secret"

func issue(t *testing.T, u model.User) string {
	t.Helper()
	raw, _, err := token.NewJWTIssuer(testSecret, time.Hour).Issue(u, time.Now())
	require.NoError(t, err)
	return raw
}

func mustMakeJWT(t *testing.T, secret string, claims jwt.MapClaims, method jwt.SigningMethod) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func whoAmI(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	return c.JSON(http.StatusOK, mwOKResponse{
		Authenticated: ok,
		UserID:        p.UserID,
		Email:         p.Email,
		Role:          string(p.Role),
		TokenVersion:  p.TokenVersion,
	})
}

func runRequest(t *testing.T, e *echo.Echo, path string, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeOK(t *testing.T, rec *httptest.ResponseRecorder) mwOKResponse {
	t.Helper()
	var r mwOKResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&r))
	return r
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) mwErrorResponse {
	t.Helper()
	var r mwErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&r))
	return r
}

// =====================
// AuthJWT
// =====================

func TestAuthJWT_SetsPrincipal(t *testing.T) {
	e := echo.New()
	e.GET("/me", whoAmI, middleware.AuthJWT(config.Config{JWTSecret: testSecret}))

	raw := issue(t, model.User{ID: 7, Email: "u@example.com", Role: model.RoleAdmin, TokenVersion: 2})
	rec := runRequest(t, e, "/me", "Bearer "+raw)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeOK(t, rec)
	assert.True(t, body.Authenticated)
	assert.Equal(t, int64(7), body.UserID)
	assert.Equal(t, "u@example.com", body.Email)
	assert.Equal(t, "ADMIN", body.Role)
	assert.Equal(t, 2, body.TokenVersion)
}

// 不正なトークンでも拒否はしない（未認証として続行）
func TestAuthJWT_InvalidTokensAreAnonymous(t *testing.T) {
	cases := map[string]string{
		"no header":     "",
		"bad scheme":    "Token abc.def.ghi",
		"garbage":       "Bearer not-a-jwt",
		"bad signature": "Bearer " + mustMakeJWT(t, "other", jwt.MapClaims{"sub": "u@example.com", "id": 1, "role": "USER", "tv": 0, "exp": 9999999999}, jwt.SigningMethodHS256),
		"wrong alg":     "Bearer " + mustMakeJWT(t, testSecret, jwt.MapClaims{"sub": "u@example.com", "id": 1, "role": "USER", "tv": 0, "exp": 9999999999}, jwt.SigningMethodHS512),
		"expired":       "Bearer " + mustMakeJWT(t, testSecret, jwt.MapClaims{"sub": "u@example.com", "id": 1, "role": "USER", "tv": 0, "exp": 1}, jwt.SigningMethodHS256),
		"unknown role":  "Bearer " + mustMakeJWT(t, testSecret, jwt.MapClaims{"sub": "u@example.com", "id": 1, "role": "ROOT", "tv": 0, "exp": 9999999999}, jwt.SigningMethodHS256),
	}

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			e := echo.New()
			e.GET("/me", whoAmI, middleware.AuthJWT(config.Config{JWTSecret: testSecret}))

			rec := runRequest(t, e, "/me", header)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.False(t, decodeOK(t, rec).Authenticated)
		})
	}
}

// roleが無ければroles[0]（ROLE_接頭辞）から読む
func TestAuthJWT_RolesClaimFallback(t *testing.T) {
	e := echo.New()
	e.GET("/me", whoAmI, middleware.AuthJWT(config.Config{JWTSecret: testSecret}))

	raw := mustMakeJWT(t, testSecret, jwt.MapClaims{
		"sub": "u@example.com", "id": 3, "roles": []string{"ROLE_USER"}, "tv": 0, "exp": 9999999999,
	}, jwt.SigningMethodHS256)
	rec := runRequest(t, e, "/me", "Bearer "+raw)

	body := decodeOK(t, rec)
	assert.True(t, body.Authenticated)
	assert.Equal(t, "USER", body.Role)
}

// =====================
// RequireAuth / RequireRole
// =====================

func TestRequireAuth(t *testing.T) {
	e := echo.New()
	cfg := config.Config{JWTSecret: testSecret}
	e.GET("/p", whoAmI, middleware.AuthJWT(cfg), middleware.RequireAuth())

	rec := runRequest(t, e, "/p", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "unauthorized", body.Error)
	assert.Equal(t, "UNAUTHORIZED", body.Code)

	rec = runRequest(t, e, "/p", "Bearer "+issue(t, model.User{ID: 1, Email: "u@example.com", Role: model.RoleUser}))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminOnly(t *testing.T) {
	e := echo.New()
	cfg := config.Config{JWTSecret: testSecret}
	e.GET("/admin", whoAmI, middleware.AuthJWT(cfg), middleware.AdminOnly())

	rec := runRequest(t, e, "/admin", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = runRequest(t, e, "/admin", "Bearer "+issue(t, model.User{ID: 1, Email: "u@example.com", Role: model.RoleUser}))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", decodeError(t, rec).Code)

	rec = runRequest(t, e, "/admin", "Bearer "+issue(t, model.User{ID: 2, Email: "a@example.com", Role: model.RoleAdmin}))
	assert.Equal(t, http.StatusOK, rec.Code)
}

// =====================
// TokenVersionGuard
// =====================

func TestTokenVersionGuard_AnonymousPassesThrough(t *testing.T) {
	e := echo.New()
	users := new(MockUserRepo)
	e.GET("/p", whoAmI, middleware.AuthJWT(config.Config{JWTSecret: testSecret}), middleware.TokenVersionGuard(users))

	rec := runRequest(t, e, "/p", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	users.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestTokenVersionGuard(t *testing.T) {
	cases := []struct {
		name   string
		dbUser *model.User
		dbErr  error
		want   int
	}{
		{"match", &model.User{ID: 1, TokenVersion: 5}, nil, http.StatusOK},
		{"mismatch", &model.User{ID: 1, TokenVersion: 6}, nil, http.StatusUnauthorized},
		{"deleted", nil, repository.ErrNotFound, http.StatusUnauthorized},
		// DB障害でログアウトさせない
		{"db down", nil, errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			users := new(MockUserRepo)
			users.On("FindByID", mock.Anything, int64(1)).Return(tc.dbUser, tc.dbErr)
			e.GET("/p", whoAmI, middleware.AuthJWT(config.Config{JWTSecret: testSecret}), middleware.TokenVersionGuard(users))

			raw := issue(t, model.User{ID: 1, Email: "u@example.com", Role: model.RoleUser, TokenVersion: 5})
			rec := runRequest(t, e, "/p", "Bearer "+raw)
			assert.Equal(t, tc.want, rec.Code)
			users.AssertExpectations(t)
		})
	}
}

// =====================
// NewTokenBucket
// =====================

func TestTokenBucket_PassThrough(t *testing.T) {
	cases := map[string]struct {
		cfg config.RateLimitConfig
		rdb *redis.Client
	}{
		"disabled": {config.RateLimitConfig{Enabled: false}, nil},
		"no redis": {config.RateLimitConfig{Enabled: true, Capacity: 1, RefillTokens: 1, RefillInterval: time.Second, TTL: time.Minute}, nil},
		// 接続できないRedisでも止めない
		"redis down": {
			config.RateLimitConfig{Enabled: true, Capacity: 1, RefillTokens: 1, RefillInterval: time.Second, TTL: time.Minute, Prefix: "rl"},
			redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1}),
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			e := echo.New()
			e.GET("/login", whoAmI, middleware.NewTokenBucket(tc.cfg, tc.rdb))

			for i := 0; i < 3; i++ {
				rec := runRequest(t, e, "/login", "")
				assert.Equal(t, http.StatusOK, rec.Code)
			}
			if tc.rdb != nil {
				_ = tc.rdb.Close()
			}
		})
	}
}
