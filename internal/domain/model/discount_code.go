package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountTypePercentage DiscountType = "PERCENTAGE"
	DiscountTypeFixed      DiscountType = "FIXED"
)

func ParseDiscountType(s string) (DiscountType, bool) {
	t := DiscountType(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case DiscountTypePercentage, DiscountTypeFixed:
		return t, true
	}
	return "", false
}

type DiscountCode struct {
	ID             int64           `gorm:"primaryKey;autoIncrement"`
	Code           string          `gorm:"type:varchar(64);uniqueIndex;not null"`
	Type           DiscountType    `gorm:"type:varchar(20);not null"`
	Value          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ExpirationDate time.Time       `gorm:"type:date;not null"`
	CreatedAt      time.Time       `gorm:"not null;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"not null;autoUpdateTime"`
}

// 有効期限の日付が今日より前なら期限切れ
func (d DiscountCode) ExpiredAt(now time.Time) bool {
	y, m, day := now.Date()
	today := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	ey, em, ed := d.ExpirationDate.Date()
	exp := time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)
	return exp.Before(today)
}
