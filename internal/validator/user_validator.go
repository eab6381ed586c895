package validator

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// email形式が不正
	ErrInvalidEmail = errors.New("invalid email format")

	// パスワードが短い（6文字未満）
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")

	// 電話番号は数字9桁
	ErrInvalidPhone = errors.New("phone number must consist of 9 digits")
)

const minPasswordLen = 6

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^\d{9}$`)
)

// 簡易メール形式をチェック
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" || !emailRe.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < minPasswordLen {
		return ErrPasswordTooShort
	}
	return nil
}

// 空は未入力として通す
func ValidatePhone(phone string) error {
	if phone == "" {
		return nil
	}
	if !phoneRe.MatchString(phone) {
		return ErrInvalidPhone
	}
	return nil
}
