package token

import (
	"errors"
	"time"

	"cookieshop/internal/domain/model"

	"github.com/golang-jwt/jwt/v4"
)

// HS256のアクセストークン発行
type JWTIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func NewJWTIssuer(secret string, ttl time.Duration) *JWTIssuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &JWTIssuer{
		secret:    []byte(secret),
		accessTTL: ttl,
	}
}

// sub=email、id、roles、tvを載せる
func (i *JWTIssuer) Issue(u model.User, now time.Time) (string, time.Time, error) {
	if len(i.secret) == 0 {
		return "", time.Time{}, errors.New("jwt secret is empty")
	}
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub":   u.Email,
		"id":    u.ID,
		"roles": []string{"ROLE_" + string(u.Role)},
		"role":  string(u.Role),
		"tv":    u.TokenVersion,
		"iat":   now.Unix(),
		"exp":   expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}
