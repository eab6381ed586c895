package model

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ロール文字列を検証して返す
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string `gorm:"column:password_hash;not null"`
	Role         Role   `gorm:"type:varchar(20);not null;default:'USER';index"`
	FirstName    string `gorm:"type:varchar(100)"`
	LastName     string `gorm:"type:varchar(100)"`
	Address      string `gorm:"type:varchar(255)"`
	PhoneNumber  string `gorm:"column:phone_number;type:varchar(20)"`
	//パスワード・ロール変更で+1（古いトークンを無効化）
	TokenVersion int `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
