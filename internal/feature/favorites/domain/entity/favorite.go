// Package entity はfavoritesフィーチャーのドメインエンティティを定義します。
package entity

import (
	"time"

	symbolentity "marketdash/internal/feature/symbols/domain/entity"
)

// Favorite はユーザーのお気に入り銘柄を表すエンティティです。
// 同じユーザーと銘柄の組み合わせは1件しか存在できません。
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_symbol" json:"user_id"`
	SymbolID  uint      `gorm:"not null;uniqueIndex:idx_user_symbol" json:"symbol_id"`
	CreatedAt time.Time `json:"created_at"`

	Symbol symbolentity.Symbol `gorm:"foreignKey:SymbolID" json:"symbol"`
}

// TableName はGORMが使用するテーブル名を指定します。
func (Favorite) TableName() string {
	return "favorites"
}
