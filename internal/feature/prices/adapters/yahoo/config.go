// Package yahoo はYahoo Financeチャートエンドポイントのクライアントを提供します。
package yahoo

import (
	"os"
	"time"
)

// Config はYahoo Financeクライアントの設定を保持します。
type Config struct {
	BaseURL string        // APIのベースURL（例: "https://query1.finance.yahoo.com"）
	Timeout time.Duration // HTTPリクエストタイムアウト
}

// LoadConfig は環境変数からYahoo Financeの設定を読み込みます。
func LoadConfig() Config {
	cfg := Config{
		BaseURL: os.Getenv("YAHOO_FINANCE_BASE_URL"),
		Timeout: 10 * time.Second,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://query1.finance.yahoo.com"
	}
	return cfg
}
