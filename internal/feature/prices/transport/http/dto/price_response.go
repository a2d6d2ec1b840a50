// Package dto defines data transfer objects for the prices HTTP API.
package dto

// PriceResponse represents a single daily price bar in the API response.
// Open/High/Low/Volume may be null when the provider did not report them.
type PriceResponse struct {
	Date   string   `json:"date"`
	Open   *float64 `json:"open"`
	High   *float64 `json:"high"`
	Low    *float64 `json:"low"`
	Close  *float64 `json:"close"`
	Volume *int64   `json:"volume"`
	Source string   `json:"source"`
}

// RefreshResponse は/refreshエンドポイントのレスポンスボディです。
type RefreshResponse struct {
	SymbolID uint `json:"symbol_id"`
	Count    int  `json:"count"`
}

// IngestRequest は/ingestエンドポイントのリクエストボディです。
type IngestRequest struct {
	Symbol   string `json:"symbol" binding:"required"`
	Category string `json:"category"`
	Source   string `json:"source"`
}

// IngestResponse は/ingestエンドポイントのレスポンスボディです。
type IngestResponse struct {
	Symbol    string `json:"symbol"`
	Inserted  int    `json:"inserted"`
	Source    string `json:"source"`
	Synthetic bool   `json:"synthetic"`
}

// BulkIngestItem は一括取り込み結果の1銘柄分です。
type BulkIngestItem struct {
	Symbol   string `json:"symbol"`
	Inserted int    `json:"inserted"`
	Error    string `json:"error,omitempty"`
}

// BulkIngestResponse は/admin/ingestエンドポイントのレスポンスボディです。
type BulkIngestResponse struct {
	Total   int              `json:"total"`
	Failed  int              `json:"failed"`
	Results []BulkIngestItem `json:"results"`
}
