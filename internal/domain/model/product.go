package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null;index" json:"name"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Weight      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"weight"`
	Image       string          `gorm:"type:varchar(512)" json:"image"`
	Stock       int64           `gorm:"column:quantity_in_stock;not null" json:"quantity_in_stock"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`

	//product_categoriesから読み込む（保存はrepositoryが行う）
	CategoryIDs []int64 `gorm:"-" json:"category_ids"`
}

// 商品とカテゴリの中間テーブル
type ProductCategory struct {
	ProductID  int64 `gorm:"primaryKey;autoIncrement:false"`
	CategoryID int64 `gorm:"primaryKey;autoIncrement:false;index"`
}

func (ProductCategory) TableName() string {
	return "product_categories"
}
