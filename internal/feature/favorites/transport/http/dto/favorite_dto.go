// Package dto defines data transfer objects for the favorites HTTP API.
package dto

import "time"

// FavoriteReq はお気に入り追加のリクエストボディです。
type FavoriteReq struct {
	SymbolID uint `json:"symbol_id" binding:"required"`
}

// FavoriteResponse はお気に入り1件のレスポンスです。
type FavoriteResponse struct {
	ID           uint      `json:"id"`
	SymbolID     uint      `json:"symbol_id"`
	SymbolCode   string    `json:"symbol_code"`
	SymbolName   string    `json:"symbol_name"`
	Category     string    `json:"category"`
	RegisteredAt time.Time `json:"registered_at"`
}
