// Package dto defines data transfer objects for the symbols HTTP API.
package dto

import "time"

// SymbolResponse represents a symbol in the API response.
type SymbolResponse struct {
	ID          uint      `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	IsActive    bool      `json:"is_active"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SymbolDetailResponse は銘柄詳細（価格データ件数付き）のレスポンスです。
type SymbolDetailResponse struct {
	SymbolResponse
	PriceCount int64 `json:"price_count"`
}

// SymbolListResponse は銘柄一覧のレスポンスです。
type SymbolListResponse struct {
	Symbols []SymbolResponse `json:"symbols"`
	Total   int64            `json:"total"`
	Page    int              `json:"page"`
	Limit   int              `json:"limit"`
}

// CreateSymbolReq は銘柄登録のリクエストボディです。
type CreateSymbolReq struct {
	Code        string `json:"code" binding:"required,max=20"`
	Name        string `json:"name" binding:"required,max=255"`
	Category    string `json:"category"`
	Description string `json:"description" binding:"max=1000"`
}

// UpdateSymbolReq は銘柄更新のリクエストボディです。
type UpdateSymbolReq struct {
	Code        string `json:"code" binding:"required,max=20"`
	Name        string `json:"name" binding:"required,max=255"`
	Category    string `json:"category"`
	IsActive    *bool  `json:"is_active"`
	Description string `json:"description" binding:"max=1000"`
}

// BulkActiveReq はアクティブ状態一括更新のリクエストボディです。
type BulkActiveReq struct {
	IDs      []uint `json:"ids" binding:"required,min=1"`
	IsActive bool   `json:"is_active"`
}

// BulkActiveResponse はアクティブ状態一括更新のレスポンスです。
type BulkActiveResponse struct {
	Updated int64 `json:"updated"`
}

// SearchResultResponse は外部検索の銘柄候補です。
type SearchResultResponse struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Region   string `json:"region,omitempty"`
	Exchange string `json:"exchange,omitempty"`
}
