// Package entity はsymbolsフィーチャーのドメインモデルを定義します。
package entity

import "time"

// Category は銘柄の分類です。価格プロバイダーのルーティングにも使われます。
type Category string

const (
	CategoryStock  Category = "stock"
	CategoryCrypto Category = "crypto"
	CategoryForex  Category = "forex"
	CategoryIndex  Category = "index"
	CategoryOther  Category = "other"
)

// ParseCategory は文字列をCategoryに変換します。未知の値はCategoryOtherとして扱います。
func ParseCategory(s string) Category {
	switch c := Category(s); c {
	case CategoryStock, CategoryCrypto, CategoryForex, CategoryIndex, CategoryOther:
		return c
	default:
		return CategoryOther
	}
}

// Symbol は追跡対象の銘柄（株式・仮想通貨・為替・指数）です。
// 価格データが1件でも紐づいている間は削除できません。
type Symbol struct {
	ID          uint      `gorm:"primaryKey"`
	Code        string    `gorm:"size:20;not null;uniqueIndex"`
	Name        string    `gorm:"size:255;not null"`
	Category    Category  `gorm:"size:20;not null;default:other"`
	IsActive    bool      `gorm:"not null;default:true"`
	Description string    `gorm:"size:1000"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}
